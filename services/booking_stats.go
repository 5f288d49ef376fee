package services

import (
	"context"
	"time"

	"github.com/jinzhu/now"

	"github.com/mavryk256/hotel-management/constants"
	"github.com/mavryk256/hotel-management/dto"
	"github.com/mavryk256/hotel-management/errors"
	"github.com/mavryk256/hotel-management/models"
	"github.com/mavryk256/hotel-management/validator"
)

// occupiedStatuses các trạng thái được tính là phòng có khách khi đo tỷ lệ lấp đầy
var occupiedStatuses = []string{
	constants.BookingStatusConfirmed,
	constants.BookingStatusCheckedIn,
	constants.BookingStatusCheckedOut,
	constants.BookingStatusCompleted,
}

// Statistics tổng hợp số liệu toàn hệ thống, cache 5 phút trên Redis
func (s *BookingService) Statistics(ctx context.Context) (*dto.BookingStatistics, error) {
	if s.rdb != nil {
		var cached dto.BookingStatistics
		if err := GetFromRedis(ctx, s.rdb, CacheKeyStatistics, &cached); err == nil && cached.TotalBookings > 0 {
			return &cached, nil
		}
	}

	var bookings []models.Booking
	if err := s.db.Find(&bookings).Error; err != nil {
		return nil, errors.NewAppError(errors.ErrCodeDBError, "Lỗi truy vấn số liệu đặt phòng", err)
	}

	stats := &dto.BookingStatistics{}
	today := validator.DateOnly(time.Now())
	tomorrow := today.AddDate(0, 0, 1)

	for _, b := range bookings {
		stats.TotalBookings++

		switch b.Status {
		case constants.BookingStatusPending:
			stats.PendingBookings++
		case constants.BookingStatusConfirmed:
			stats.ConfirmedBookings++
		case constants.BookingStatusCheckedIn:
			stats.CheckedInBookings++
		case constants.BookingStatusCompleted:
			stats.CompletedBookings++
		case constants.BookingStatusCancelled:
			stats.CancelledBookings++
		case constants.BookingStatusNoShow:
			stats.NoShowBookings++
		}

		if b.Status != constants.BookingStatusCancelled && b.Status != constants.BookingStatusNoShow {
			stats.TotalRevenue += b.TotalAmount
			if b.PaymentStatus == constants.PaymentStatusPaid {
				stats.PaidRevenue += b.TotalAmount
			} else {
				stats.UnpaidRevenue += b.TotalAmount
			}
		}

		checkIn := validator.DateOnly(b.CheckInDate)
		checkOut := validator.DateOnly(b.CheckOutDate)
		if !checkIn.Before(today) && checkIn.Before(tomorrow) &&
			(b.Status == constants.BookingStatusConfirmed || b.Status == constants.BookingStatusCheckedIn) {
			stats.TodayCheckIns++
		}
		if !checkOut.Before(today) && checkOut.Before(tomorrow) &&
			(b.Status == constants.BookingStatusCheckedIn || b.Status == constants.BookingStatusCheckedOut) {
			stats.TodayCheckOuts++
		}
	}

	activeCount := stats.TotalBookings - stats.CancelledBookings - stats.NoShowBookings
	if activeCount > 0 {
		stats.AverageBookingValue = stats.TotalRevenue / float64(activeCount)
	}
	if stats.TotalBookings > 0 {
		stats.CancellationRate = float64(stats.CancelledBookings) / float64(stats.TotalBookings) * 100
	}

	if s.rdb != nil {
		_ = SetToRedis(ctx, s.rdb, CacheKeyStatistics, stats, 5*time.Minute)
	}
	return stats, nil
}

// RevenueByRange doanh thu theo ngày thanh toán trong khoảng [from, to]
func (s *BookingService) RevenueByRange(from, to time.Time) (*dto.RevenueReport, error) {
	var bookings []models.Booking
	err := s.db.Preload("AdditionalCharges").
		Where("payment_status = ?", constants.PaymentStatusPaid).
		Where("payment_date >= ? AND payment_date < ?", validator.DateOnly(from), validator.DateOnly(to).AddDate(0, 0, 1)).
		Find(&bookings).Error
	if err != nil {
		return nil, errors.NewAppError(errors.ErrCodeDBError, "Lỗi truy vấn doanh thu", err)
	}

	report := &dto.RevenueReport{}
	for _, b := range bookings {
		report.BookingCount++
		report.TotalRevenue += b.TotalAmount
		report.RoomRevenue += b.Subtotal
		report.ServiceChargesRevenue += b.AdditionalChargesTotal
	}
	return report, nil
}

// overlapNights số đêm của booking nằm trong khoảng [from, to)
func overlapNights(b *models.Booking, from, to time.Time) int64 {
	start := validator.DateOnly(b.CheckInDate)
	end := validator.DateOnly(b.CheckOutDate)
	if start.Before(from) {
		start = from
	}
	if end.After(to) {
		end = to
	}
	if !end.After(start) {
		return 0
	}
	return int64(end.Sub(start).Hours() / 24)
}

// OccupancyRate tỷ lệ lấp đầy = số đêm-phòng có khách / (số phòng hoạt động x số ngày) x 100
func (s *BookingService) OccupancyRate(from, to time.Time) (*dto.OccupancyReport, error) {
	from = validator.DateOnly(from)
	to = validator.DateOnly(to).AddDate(0, 0, 1)

	activeRooms, err := s.rooms.CountActiveRooms()
	if err != nil {
		return nil, err
	}

	var bookings []models.Booking
	err = s.db.
		Where("status IN ?", occupiedStatuses).
		Where("check_in_date < ? AND check_out_date > ?", to, from).
		Find(&bookings).Error
	if err != nil {
		return nil, errors.NewAppError(errors.ErrCodeDBError, "Lỗi truy vấn tỷ lệ lấp đầy", err)
	}

	var occupiedNights int64
	for i := range bookings {
		occupiedNights += overlapNights(&bookings[i], from, to)
	}

	days := int64(to.Sub(from).Hours() / 24)
	totalRoomDays := activeRooms * days

	report := &dto.OccupancyReport{
		OccupiedRoomDays: occupiedNights,
		TotalRoomDays:    totalRoomDays,
		ActiveRooms:      int(activeRooms),
	}
	if totalRoomDays > 0 {
		report.OccupancyRate = float64(occupiedNights) / float64(totalRoomDays) * 100
	}
	return report, nil
}

// TodayCheckIns danh sách booking dự kiến nhận phòng trong ngày
func (s *BookingService) TodayCheckIns() ([]models.Booking, error) {
	today := now.BeginningOfDay()
	tomorrow := today.AddDate(0, 0, 1)

	var bookings []models.Booking
	err := s.db.Preload("AdditionalCharges").
		Where("status IN ?", []string{constants.BookingStatusConfirmed, constants.BookingStatusCheckedIn}).
		Where("check_in_date >= ? AND check_in_date < ?", today, tomorrow).
		Order("room_number asc").
		Find(&bookings).Error
	if err != nil {
		return nil, errors.NewAppError(errors.ErrCodeDBError, "Lỗi truy vấn danh sách nhận phòng trong ngày", err)
	}
	return bookings, nil
}

// TodayCheckOuts danh sách booking dự kiến trả phòng trong ngày
func (s *BookingService) TodayCheckOuts() ([]models.Booking, error) {
	today := now.BeginningOfDay()
	tomorrow := today.AddDate(0, 0, 1)

	var bookings []models.Booking
	err := s.db.Preload("AdditionalCharges").
		Where("status IN ?", []string{constants.BookingStatusCheckedIn, constants.BookingStatusCheckedOut}).
		Where("check_out_date >= ? AND check_out_date < ?", today, tomorrow).
		Order("room_number asc").
		Find(&bookings).Error
	if err != nil {
		return nil, errors.NewAppError(errors.ErrCodeDBError, "Lỗi truy vấn danh sách trả phòng trong ngày", err)
	}
	return bookings, nil
}

// RoomsNeedingCleaning các booking đã trả phòng nhưng phòng chưa dọn
func (s *BookingService) RoomsNeedingCleaning() ([]models.Booking, error) {
	var bookings []models.Booking
	err := s.db.
		Where("status = ?", constants.BookingStatusCheckedOut).
		Where("room_cleaned_after_checkout = ?", false).
		Order("actual_check_out_time asc").
		Find(&bookings).Error
	if err != nil {
		return nil, errors.NewAppError(errors.ErrCodeDBError, "Lỗi truy vấn phòng chờ dọn", err)
	}
	return bookings, nil
}

// DailyOperations báo cáo vận hành của một ngày cho lễ tân
func (s *BookingService) DailyOperations(day time.Time) (*dto.DailyOperationsReport, error) {
	dayStart := validator.DateOnly(day)
	dayEnd := dayStart.AddDate(0, 0, 1)

	report := &dto.DailyOperationsReport{}

	checkIns, err := s.TodayCheckIns()
	if err != nil {
		return nil, err
	}
	report.CheckInsList = checkIns
	report.ExpectedCheckIns = len(checkIns)

	checkOuts, err := s.TodayCheckOuts()
	if err != nil {
		return nil, err
	}
	report.CheckOutsList = checkOuts
	report.ExpectedCheckOuts = len(checkOuts)

	var paid []models.Booking
	err = s.db.
		Where("payment_status = ?", constants.PaymentStatusPaid).
		Where("payment_date >= ? AND payment_date < ?", dayStart, dayEnd).
		Find(&paid).Error
	if err != nil {
		return nil, errors.NewAppError(errors.ErrCodeDBError, "Lỗi truy vấn thanh toán trong ngày", err)
	}
	for _, b := range paid {
		report.DailyRevenue += b.TotalAmount
	}
	report.PaymentsCount = len(paid)

	activeRooms, err := s.rooms.CountActiveRooms()
	if err != nil {
		return nil, err
	}
	report.TotalRooms = int(activeRooms)

	var occupied int64
	err = s.db.Model(&models.Room{}).
		Where("status = ?", constants.RoomStatusOccupied).
		Count(&occupied).Error
	if err != nil {
		return nil, errors.NewAppError(errors.ErrCodeDBError, "Lỗi đếm phòng có khách", err)
	}
	report.OccupiedRooms = int(occupied)
	if activeRooms > 0 {
		report.OccupancyRate = float64(occupied) / float64(activeRooms) * 100
	}

	var cleaning int64
	err = s.db.Model(&models.Room{}).
		Where("status = ?", constants.RoomStatusCleaning).
		Count(&cleaning).Error
	if err != nil {
		return nil, errors.NewAppError(errors.ErrCodeDBError, "Lỗi đếm phòng chờ dọn", err)
	}
	report.RoomsNeedingCleaning = int(cleaning)

	return report, nil
}

// BookingsBySource đếm đặt phòng theo kênh trong khoảng [from, to]
func (s *BookingService) BookingsBySource(from, to time.Time) (map[string]int64, error) {
	type row struct {
		BookingSource string
		Count         int64
	}
	var rows []row
	err := s.db.Model(&models.Booking{}).
		Select("booking_source, count(*) as count").
		Where("created_date >= ? AND created_date < ?", validator.DateOnly(from), validator.DateOnly(to).AddDate(0, 0, 1)).
		Group("booking_source").
		Scan(&rows).Error
	if err != nil {
		return nil, errors.NewAppError(errors.ErrCodeDBError, "Lỗi thống kê theo kênh đặt phòng", err)
	}

	result := make(map[string]int64, len(rows))
	for _, r := range rows {
		result[r.BookingSource] = r.Count
	}
	return result, nil
}

// Monthly báo cáo tổng hợp của một tháng
func (s *BookingService) Monthly(year int, month time.Month) (*dto.MonthlyReport, error) {
	monthStart := time.Date(year, month, 1, 0, 0, 0, 0, time.Local)
	monthEnd := now.New(monthStart).EndOfMonth()

	var bookings []models.Booking
	err := s.db.
		Where("created_date >= ? AND created_date <= ?", monthStart, monthEnd).
		Find(&bookings).Error
	if err != nil {
		return nil, errors.NewAppError(errors.ErrCodeDBError, "Lỗi truy vấn báo cáo tháng", err)
	}

	report := &dto.MonthlyReport{
		BookingsByStatus: make(map[string]int64),
		BookingsBySource: make(map[string]int64),
		TopRooms:         make(map[string]int64),
	}

	cancelled := 0
	activeCount := 0
	for _, b := range bookings {
		report.TotalBookings++
		report.BookingsByStatus[b.Status]++
		report.BookingsBySource[b.BookingSource]++
		report.TopRooms[b.RoomNumber]++

		if b.Status == constants.BookingStatusCancelled {
			cancelled++
			continue
		}
		if b.Status == constants.BookingStatusNoShow {
			continue
		}
		activeCount++
		report.TotalRevenue += b.TotalAmount
	}

	if activeCount > 0 {
		report.AverageBookingValue = report.TotalRevenue / float64(activeCount)
	}
	if report.TotalBookings > 0 {
		report.CancellationRate = float64(cancelled) / float64(report.TotalBookings) * 100
	}

	occupancy, err := s.OccupancyRate(monthStart, monthEnd)
	if err != nil {
		return nil, err
	}
	report.OccupancyRate = occupancy.OccupancyRate

	return report, nil
}
