package services

import (
	stderrors "errors"
	"time"

	"gorm.io/gorm"

	"github.com/mavryk256/hotel-management/errors"
	"github.com/mavryk256/hotel-management/models"
)

// RoomCatalog truy cập danh mục phòng, phần còn lại của hệ thống
// chỉ dùng qua các hàm này
type RoomCatalog struct {
	db *gorm.DB
}

func NewRoomCatalog(db *gorm.DB) *RoomCatalog {
	return &RoomCatalog{db: db}
}

// GetRoom lấy phòng theo ID
func (s *RoomCatalog) GetRoom(roomID uint) (*models.Room, error) {
	var room models.Room
	if err := s.db.First(&room, roomID).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NewAppError(errors.ErrCodeRoomNotFound, "Không tìm thấy phòng", err)
		}
		return nil, errors.NewAppError(errors.ErrCodeDBError, "Lỗi truy vấn phòng", err)
	}
	return &room, nil
}

// SetRoomStatus cập nhật trạng thái phòng
func (s *RoomCatalog) SetRoomStatus(roomID uint, status string) error {
	result := s.db.Model(&models.Room{}).Where("id = ?", roomID).Update("status", status)
	if result.Error != nil {
		return errors.NewAppError(errors.ErrCodeDBError, "Lỗi cập nhật trạng thái phòng", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.NewAppError(errors.ErrCodeRoomNotFound, "Không tìm thấy phòng", nil)
	}
	return nil
}

// IncrementBookingCount tăng bộ đếm lượt đặt và ghi thời điểm đặt gần nhất
func (s *RoomCatalog) IncrementBookingCount(roomID uint) error {
	now := time.Now()
	err := s.db.Model(&models.Room{}).Where("id = ?", roomID).Updates(map[string]interface{}{
		"total_bookings":   gorm.Expr("total_bookings + 1"),
		"last_booked_date": now,
	}).Error
	if err != nil {
		return errors.NewAppError(errors.ErrCodeDBError, "Lỗi cập nhật bộ đếm đặt phòng", err)
	}
	return nil
}

// CountActiveRooms đếm số phòng đang hoạt động
func (s *RoomCatalog) CountActiveRooms() (int64, error) {
	var count int64
	if err := s.db.Model(&models.Room{}).Where("is_active = ?", true).Count(&count).Error; err != nil {
		return 0, errors.NewAppError(errors.ErrCodeDBError, "Lỗi đếm phòng", err)
	}
	return count, nil
}
