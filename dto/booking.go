package dto

import (
	"github.com/mavryk256/hotel-management/models"
)

// CreateBookingRequest là DTO cho request tạo đặt phòng
type CreateBookingRequest struct {
	RoomID           uint               `json:"roomId" binding:"required"`
	CheckInDate      string             `json:"checkInDate" binding:"required"`  // dd/MM/yyyy
	CheckOutDate     string             `json:"checkOutDate" binding:"required"` // dd/MM/yyyy
	NumberOfGuests   int                `json:"numberOfGuests" binding:"required,min=1"`
	NumberOfChildren int                `json:"numberOfChildren" binding:"min=0"`
	PrimaryGuest     models.GuestInfo   `json:"primaryGuest" binding:"required"`
	AdditionalGuests []models.GuestInfo `json:"additionalGuests"`
	SpecialRequests  string             `json:"specialRequests"`
	IsEarlyCheckIn   bool               `json:"isEarlyCheckIn"`
	IsLateCheckOut   bool               `json:"isLateCheckOut"`
	BookingSource    string             `json:"bookingSource"`
}

// GroupBookingRequest là DTO cho request đặt nhiều phòng cùng lúc
type GroupBookingRequest struct {
	RoomIDs      []uint                 `json:"roomIds" binding:"required,min=1"`
	CheckInDate  string                 `json:"checkInDate" binding:"required"`
	CheckOutDate string                 `json:"checkOutDate" binding:"required"`
	RoomBookings []CreateBookingRequest `json:"roomBookings" binding:"required,min=1"`
}

// UpdateBookingRequest là DTO cho request cập nhật đặt phòng
type UpdateBookingRequest struct {
	CheckInDate      *string `json:"checkInDate"`
	CheckOutDate     *string `json:"checkOutDate"`
	NumberOfGuests   *int    `json:"numberOfGuests"`
	NumberOfChildren *int    `json:"numberOfChildren"`
	SpecialRequests  *string `json:"specialRequests"`
}

// CancelBookingRequest là DTO cho request hủy đặt phòng
type CancelBookingRequest struct {
	CancellationReason string `json:"cancellationReason" binding:"required"`
}

// GuestVerification thông tin đối chiếu giấy tờ khi check-in
type GuestVerification struct {
	CccdNumber string `json:"cccdNumber" binding:"required"`
}

// CheckInRequest là DTO cho request check-in
type CheckInRequest struct {
	GuestVerification    *GuestVerification `json:"guestVerification"`
	DepositTransactionID string             `json:"depositTransactionId"`
}

// PaymentRequest là DTO cho request thanh toán
type PaymentRequest struct {
	PaymentMethod        string `json:"paymentMethod" binding:"required"`
	PaymentTransactionID string `json:"paymentTransactionId" binding:"required"`
}

// AddServiceChargeRequest là DTO cho request thêm phí dịch vụ
type AddServiceChargeRequest struct {
	ServiceType string  `json:"serviceType" binding:"required"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount" binding:"required,gt=0"`
	Quantity    int     `json:"quantity" binding:"required,min=1"`
}

// ApplyDiscountRequest là DTO cho request áp dụng giảm giá
type ApplyDiscountRequest struct {
	DiscountAmount float64 `json:"discountAmount" binding:"min=0"`
}

// ApproveFeeRequest là DTO cho request duyệt phí check-in sớm / check-out muộn
type ApproveFeeRequest struct {
	Fee float64 `json:"fee" binding:"min=0"`
}

// AdminNotesRequest là DTO cho request ghi chú của quản trị
type AdminNotesRequest struct {
	Notes string `json:"notes" binding:"required"`
}

// CheckAvailabilityRequest là DTO cho request kiểm tra phòng trống theo lô
type BatchAvailabilityRequest struct {
	RoomIDs      []uint `json:"roomIds" binding:"required,min=1"`
	CheckInDate  string `json:"checkInDate" binding:"required"`
	CheckOutDate string `json:"checkOutDate" binding:"required"`
}

// BookingSearchRequest gom các tiêu chí lọc đặt phòng; tiêu chí bỏ trống bị bỏ qua
type BookingSearchRequest struct {
	Keyword    string `form:"keyword"`
	CccdNumber string `form:"cccdNumber"`

	UserID        uint   `form:"userId"`
	RoomID        uint   `form:"roomId"`
	RoomNumber    string `form:"roomNumber"`
	BookingNumber string `form:"bookingNumber"`

	Status        string `form:"status"`
	PaymentStatus string `form:"paymentStatus"`

	CheckInDateFrom  string `form:"checkInDateFrom"`
	CheckInDateTo    string `form:"checkInDateTo"`
	CheckOutDateFrom string `form:"checkOutDateFrom"`
	CheckOutDateTo   string `form:"checkOutDateTo"`
	CreatedDateFrom  string `form:"createdDateFrom"`
	CreatedDateTo    string `form:"createdDateTo"`

	MinAmount *float64 `form:"minAmount"`
	MaxAmount *float64 `form:"maxAmount"`

	BookingSource  string `form:"bookingSource"`
	IsGroupBooking *bool  `form:"isGroupBooking"`
	GroupBookingID string `form:"groupBookingId"`
	DepositPaid    *bool  `form:"depositPaid"`

	SortBy    string `form:"sortBy"`
	SortOrder string `form:"sortOrder"`
	Page      int    `form:"page"`
	Limit     int    `form:"limit"`
}
