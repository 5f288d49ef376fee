package models

import (
	"time"

	"github.com/lib/pq"

	"github.com/mavryk256/hotel-management/constants"
)

type Room struct {
	ID             uint           `json:"id" gorm:"primaryKey"`
	RoomNumber     string         `json:"roomNumber" gorm:"uniqueIndex"`
	Name           string         `json:"name"`
	Type           string         `json:"type"` // STANDARD, DELUXE, SUITE, PRESIDENTIAL
	Description    string         `json:"description"`
	PricePerNight  float64        `json:"pricePerNight"`
	MaxOccupancy   int            `json:"maxOccupancy"`
	Floor          int            `json:"floor"`
	Amenities      pq.StringArray `json:"amenities" gorm:"type:text[]"`
	Status         string         `json:"status" gorm:"default:AVAILABLE"`
	IsActive       bool           `json:"isActive" gorm:"default:true"`
	TotalBookings  int            `json:"totalBookings" gorm:"default:0"`
	LastBookedDate *time.Time     `json:"lastBookedDate,omitempty"`
	CreatedAt      time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt      time.Time      `gorm:"autoUpdateTime" json:"updatedAt"`
}

// Bookable phòng còn nhận đặt mới. Phòng đang có khách hoặc chờ dọn vẫn
// nhận được booking ngày sau, chỉ phòng bảo trì hoặc ngừng khai thác bị chặn.
func (r *Room) Bookable() bool {
	if !r.IsActive {
		return false
	}
	return r.Status != constants.RoomStatusMaintenance && r.Status != constants.RoomStatusOutOfService
}
