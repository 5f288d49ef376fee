package services

import (
	"time"

	"gorm.io/gorm"

	"github.com/mavryk256/hotel-management/constants"
	"github.com/mavryk256/hotel-management/errors"
	"github.com/mavryk256/hotel-management/models"
	"github.com/mavryk256/hotel-management/validator"
)

// activeBookingStatuses các trạng thái còn giữ phòng
var activeBookingStatuses = []string{
	constants.BookingStatusPending,
	constants.BookingStatusConfirmed,
	constants.BookingStatusCheckedIn,
}

// AvailabilityService kiểm tra tình trạng trống của phòng theo khoảng ngày
type AvailabilityService struct {
	db *gorm.DB
}

func NewAvailabilityService(db *gorm.DB) *AvailabilityService {
	return &AvailabilityService{db: db}
}

// overlapQuery hai khoảng [checkIn, checkOut) chồng nhau khi
// existing.checkIn < newCheckOut và existing.checkOut > newCheckIn
func (s *AvailabilityService) overlapQuery(roomID uint, checkIn, checkOut time.Time) *gorm.DB {
	return s.db.Model(&models.Booking{}).
		Where("room_id = ?", roomID).
		Where("status IN ?", activeBookingStatuses).
		Where("check_in_date < ? AND check_out_date > ?", checkOut, checkIn)
}

// IsAvailable kiểm tra phòng có trống trong khoảng [checkIn, checkOut) không
func (s *AvailabilityService) IsAvailable(roomID uint, checkIn, checkOut time.Time) (bool, error) {
	var count int64
	if err := s.overlapQuery(roomID, checkIn, checkOut).Count(&count).Error; err != nil {
		return false, errors.NewAppError(errors.ErrCodeDBError, "Lỗi kiểm tra phòng trống", err)
	}
	return count == 0, nil
}

// IsAvailableExcluding như IsAvailable nhưng bỏ qua một booking,
// dùng khi đổi ngày cho booking đang có
func (s *AvailabilityService) IsAvailableExcluding(roomID uint, checkIn, checkOut time.Time, excludeBookingID uint) (bool, error) {
	var count int64
	err := s.overlapQuery(roomID, checkIn, checkOut).
		Where("id <> ?", excludeBookingID).
		Count(&count).Error
	if err != nil {
		return false, errors.NewAppError(errors.ErrCodeDBError, "Lỗi kiểm tra phòng trống", err)
	}
	return count == 0, nil
}

// UnavailableDates trả về các ngày phòng bận trong khoảng [from, to],
// tính cả ngày check-in lẫn ngày check-out của từng booking
func (s *AvailabilityService) UnavailableDates(roomID uint, from, to time.Time) ([]time.Time, error) {
	var bookings []models.Booking
	err := s.db.Model(&models.Booking{}).
		Where("room_id = ?", roomID).
		Where("status IN ?", activeBookingStatuses).
		Where("check_in_date <= ? AND check_out_date >= ?", to, from).
		Order("check_in_date asc").
		Find(&bookings).Error
	if err != nil {
		return nil, errors.NewAppError(errors.ErrCodeDBError, "Lỗi truy vấn lịch phòng", err)
	}

	from = validator.DateOnly(from)
	to = validator.DateOnly(to)

	seen := make(map[time.Time]bool)
	var dates []time.Time
	for _, b := range bookings {
		start := validator.DateOnly(b.CheckInDate)
		end := validator.DateOnly(b.CheckOutDate)
		if start.Before(from) {
			start = from
		}
		if end.After(to) {
			end = to
		}
		for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
			if !seen[d] {
				seen[d] = true
				dates = append(dates, d)
			}
		}
	}
	return dates, nil
}

// RoomAvailability kết quả kiểm tra một phòng trong truy vấn hàng loạt
type RoomAvailability struct {
	RoomID    uint `json:"roomId"`
	Available bool `json:"available"`
}

// BatchAvailability kiểm tra nhiều phòng cùng lúc cho một khoảng ngày
func (s *AvailabilityService) BatchAvailability(roomIDs []uint, checkIn, checkOut time.Time) ([]RoomAvailability, error) {
	var busy []uint
	err := s.db.Model(&models.Booking{}).
		Where("room_id IN ?", roomIDs).
		Where("status IN ?", activeBookingStatuses).
		Where("check_in_date < ? AND check_out_date > ?", checkOut, checkIn).
		Distinct().
		Pluck("room_id", &busy).Error
	if err != nil {
		return nil, errors.NewAppError(errors.ErrCodeDBError, "Lỗi kiểm tra phòng trống", err)
	}

	busySet := make(map[uint]bool, len(busy))
	for _, id := range busy {
		busySet[id] = true
	}

	results := make([]RoomAvailability, 0, len(roomIDs))
	for _, id := range roomIDs {
		results = append(results, RoomAvailability{RoomID: id, Available: !busySet[id]})
	}
	return results, nil
}
