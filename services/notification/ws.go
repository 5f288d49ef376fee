package notification

import (
	"encoding/json"
	"time"

	"github.com/olahol/melody"

	"github.com/mavryk256/hotel-management/models"
)

// BookingEvent gói tin realtime đẩy cho dashboard lễ tân
type BookingEvent struct {
	Event         string    `json:"event"`
	BookingID     uint      `json:"bookingId"`
	BookingNumber string    `json:"bookingNumber"`
	RoomNumber    string    `json:"roomNumber"`
	Status        string    `json:"status"`
	At            time.Time `json:"at"`
}

// Broadcaster đẩy sự kiện đặt phòng qua websocket
type Broadcaster struct {
	m *melody.Melody
}

func NewBroadcaster(m *melody.Melody) *Broadcaster {
	return &Broadcaster{m: m}
}

// BroadcastBookingEvent gửi sự kiện cho tất cả session đang mở.
// Không có websocket thì bỏ qua, nghiệp vụ không phụ thuộc vào đây.
func (b *Broadcaster) BroadcastBookingEvent(event string, booking *models.Booking) {
	if b == nil || b.m == nil || booking == nil {
		return
	}

	payload, err := json.Marshal(BookingEvent{
		Event:         event,
		BookingID:     booking.ID,
		BookingNumber: booking.BookingNumber,
		RoomNumber:    booking.RoomNumber,
		Status:        booking.Status,
		At:            time.Now(),
	})
	if err != nil {
		return
	}
	_ = b.m.Broadcast(payload)
}
