package builders

import (
	"time"

	"github.com/mavryk256/hotel-management/constants"
	"github.com/mavryk256/hotel-management/models"
)

// BookingBuilder giúp tạo booking theo từng bước
type BookingBuilder struct {
	booking *models.Booking
}

// NewBookingBuilder tạo instance mới của BookingBuilder
func NewBookingBuilder() *BookingBuilder {
	now := time.Now()
	return &BookingBuilder{
		booking: &models.Booking{
			Status:        constants.BookingStatusPending,
			PaymentStatus: constants.PaymentStatusUnpaid,
			BookingSource: constants.BookingSourceWebsite,
			CreatedDate:   now,
			UpdatedDate:   now,
		},
	}
}

// WithBookingNumber gán mã đặt phòng
func (b *BookingBuilder) WithBookingNumber(number string) *BookingBuilder {
	b.booking.BookingNumber = number
	return b
}

// WithUser thêm thông tin người đặt
func (b *BookingBuilder) WithUser(userID uint, fullName, email, phone string) *BookingBuilder {
	b.booking.UserID = userID
	b.booking.UserFullName = fullName
	b.booking.UserEmail = email
	b.booking.UserPhoneNumber = phone
	return b
}

// WithRoom thêm snapshot phòng
func (b *BookingBuilder) WithRoom(room *models.Room) *BookingBuilder {
	b.booking.RoomID = room.ID
	b.booking.RoomNumber = room.RoomNumber
	b.booking.RoomName = room.Name
	b.booking.RoomType = room.Type
	b.booking.RoomPricePerNight = room.PricePerNight
	return b
}

// WithGuest thêm khách chính
func (b *BookingBuilder) WithGuest(guest models.GuestInfo) *BookingBuilder {
	b.booking.PrimaryGuest = guest
	return b
}

// WithDates thêm khoảng ngày ở
func (b *BookingBuilder) WithDates(checkIn, checkOut time.Time) *BookingBuilder {
	b.booking.CheckInDate = checkIn
	b.booking.CheckOutDate = checkOut
	return b
}

// WithGuests thêm số lượng khách
func (b *BookingBuilder) WithGuests(adults, children int) *BookingBuilder {
	b.booking.NumberOfGuests = adults
	b.booking.NumberOfChildren = children
	return b
}

// WithStatus gán trạng thái
func (b *BookingBuilder) WithStatus(status string) *BookingBuilder {
	b.booking.Status = status
	return b
}

// WithPaymentStatus gán trạng thái thanh toán
func (b *BookingBuilder) WithPaymentStatus(paymentStatus string) *BookingBuilder {
	b.booking.PaymentStatus = paymentStatus
	return b
}

// WithSource gán kênh đặt phòng
func (b *BookingBuilder) WithSource(source string) *BookingBuilder {
	b.booking.BookingSource = source
	return b
}

// WithGroup gán thông tin nhóm
func (b *BookingBuilder) WithGroup(groupID string) *BookingBuilder {
	b.booking.GroupBookingID = groupID
	b.booking.IsGroupBooking = true
	return b
}

// Build tạo booking hoàn chỉnh
func (b *BookingBuilder) Build() *models.Booking {
	return b.booking
}
