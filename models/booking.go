package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// GuestInfo thông tin khách ở thực tế (có thể khác người đặt)
type GuestInfo struct {
	FullName    string `json:"fullName"`
	PhoneNumber string `json:"phoneNumber"`
	Email       string `json:"email"`
	CccdNumber  string `json:"cccdNumber"`
	Nationality string `json:"nationality"`
	Address     string `json:"address"`
}

// BookingCharge phí dịch vụ phát sinh sau check-in (minibar, giặt ủi...)
type BookingCharge struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	BookingID   uint      `json:"bookingId" gorm:"index"`
	ServiceType string    `json:"serviceType"`
	Description string    `json:"description"`
	Amount      float64   `json:"amount"` // đơn giá
	Quantity    int       `json:"quantity"`
	ChargeDate  time.Time `json:"chargeDate"`
	AddedBy     string    `json:"addedBy"`
}

// Total thành tiền của một dòng phí
func (c BookingCharge) Total() float64 {
	return c.Amount * float64(c.Quantity)
}

type Booking struct {
	ID            uint   `json:"id" gorm:"primaryKey"`
	BookingNumber string `json:"bookingNumber" gorm:"uniqueIndex;size:14"` // BK + yyyyMMdd + 4 số

	// Người đặt (snapshot tại thời điểm đặt, không join lại)
	UserID          uint   `json:"userId" gorm:"index"`
	UserEmail       string `json:"userEmail"`
	UserFullName    string `json:"userFullName"`
	UserPhoneNumber string `json:"userPhoneNumber"`

	// Khách ở thực tế
	PrimaryGuest     GuestInfo      `json:"primaryGuest" gorm:"embedded;embeddedPrefix:primary_guest_"`
	AdditionalGuests datatypes.JSON `json:"additionalGuests"`

	// Phòng (snapshot)
	RoomID     uint   `json:"roomId" gorm:"index"`
	RoomNumber string `json:"roomNumber"`
	RoomName   string `json:"roomName"`
	RoomType   string `json:"roomType"`

	// Đặt theo nhóm
	GroupBookingID string `json:"groupBookingId,omitempty" gorm:"index"`
	IsGroupBooking bool   `json:"isGroupBooking"`

	// Ngày đặt
	CheckInDate        time.Time  `json:"checkInDate" gorm:"index"`
	CheckOutDate       time.Time  `json:"checkOutDate" gorm:"index"`
	ActualCheckInTime  *time.Time `json:"actualCheckInTime,omitempty"`
	ActualCheckOutTime *time.Time `json:"actualCheckOutTime,omitempty"`

	IsEarlyCheckIn  bool    `json:"isEarlyCheckIn"`
	EarlyCheckInFee float64 `json:"earlyCheckInFee"`
	IsLateCheckOut  bool    `json:"isLateCheckOut"`
	LateCheckOutFee float64 `json:"lateCheckOutFee"`

	NumberOfGuests   int `json:"numberOfGuests"`
	NumberOfChildren int `json:"numberOfChildren"`

	// Tiền phòng
	RoomPricePerNight      float64         `json:"roomPricePerNight"`
	NumberOfNights         int             `json:"numberOfNights"`
	Subtotal               float64         `json:"subtotal"`
	TaxAmount              float64         `json:"taxAmount"`
	ServiceCharge          float64         `json:"serviceCharge"`
	Discount               float64         `json:"discount"`
	AdditionalCharges      []BookingCharge `json:"additionalCharges" gorm:"foreignKey:BookingID"`
	AdditionalChargesTotal float64         `json:"additionalChargesTotal"`
	TotalAmount            float64         `json:"totalAmount"`

	// Thanh toán
	PaymentStatus        string     `json:"paymentStatus" gorm:"index"`
	PaymentMethod        string     `json:"paymentMethod,omitempty"`
	PaymentTransactionID string     `json:"paymentTransactionId,omitempty"`
	PaymentDate          *time.Time `json:"paymentDate,omitempty"`

	// Đặt cọc (độc lập với paymentStatus)
	DepositAmount        float64    `json:"depositAmount"`
	DepositPaid          bool       `json:"depositPaid"`
	DepositPaidDate      *time.Time `json:"depositPaidDate,omitempty"`
	DepositTransactionID string     `json:"depositTransactionId,omitempty"`

	Status string `json:"status" gorm:"index"`

	SpecialRequests string `json:"specialRequests,omitempty"`

	// Hủy phòng
	CancelledAt        *time.Time `json:"cancelledAt,omitempty"`
	CancellationReason string     `json:"cancellationReason,omitempty"`
	CancelledBy        string     `json:"cancelledBy,omitempty"`
	CancellationFee    float64    `json:"cancellationFee"`

	HasReview bool `json:"hasReview"`

	CreatedDate   time.Time  `json:"createdDate" gorm:"index"`
	UpdatedDate   time.Time  `json:"updatedDate"`
	ConfirmedDate *time.Time `json:"confirmedDate,omitempty"`

	AdminNotes    string `json:"adminNotes,omitempty"`
	BookingSource string `json:"bookingSource"`
	CreatedBy     string `json:"createdBy,omitempty"`

	RoomCleanedAfterCheckout bool `json:"roomCleanedAfterCheckout"`

	ConfirmationEmailSent bool `json:"confirmationEmailSent"`
	ReminderEmailSent     bool `json:"reminderEmailSent"`
}

// SetAdditionalGuests gán danh sách khách đi kèm vào cột JSON
func (b *Booking) SetAdditionalGuests(guests []GuestInfo) error {
	if len(guests) == 0 {
		b.AdditionalGuests = nil
		return nil
	}
	data, err := json.Marshal(guests)
	if err != nil {
		return err
	}
	b.AdditionalGuests = datatypes.JSON(data)
	return nil
}

// GetAdditionalGuests đọc danh sách khách đi kèm từ cột JSON
func (b *Booking) GetAdditionalGuests() []GuestInfo {
	if len(b.AdditionalGuests) == 0 {
		return nil
	}
	var guests []GuestInfo
	if err := json.Unmarshal(b.AdditionalGuests, &guests); err != nil {
		return nil
	}
	return guests
}

// HasCccd kiểm tra CCCD thuộc khách chính hoặc khách đi kèm
func (b *Booking) HasCccd(cccdNumber string) bool {
	if b.PrimaryGuest.CccdNumber == cccdNumber {
		return true
	}
	for _, g := range b.GetAdditionalGuests() {
		if g.CccdNumber == cccdNumber {
			return true
		}
	}
	return false
}
