package services

import (
	"sort"
	"strings"
	"time"

	"github.com/mavryk256/hotel-management/constants"
	"github.com/mavryk256/hotel-management/dto"
	"github.com/mavryk256/hotel-management/errors"
	"github.com/mavryk256/hotel-management/models"
	"github.com/mavryk256/hotel-management/validator"
)

// Search lọc, sắp xếp và phân trang đặt phòng theo tiêu chí.
// Các tiêu chí lọc được AND với nhau, tiêu chí bỏ trống bị bỏ qua.
// Lọc keyword và CCCD chạy trên bộ nhớ vì phải quét cả danh sách khách trong cột JSON.
func (s *BookingService) Search(req *dto.BookingSearchRequest) ([]models.Booking, int, error) {
	query := s.db.Model(&models.Booking{}).Preload("AdditionalCharges")

	if req.UserID != 0 {
		query = query.Where("user_id = ?", req.UserID)
	}
	if req.RoomID != 0 {
		query = query.Where("room_id = ?", req.RoomID)
	}
	if req.Status != "" {
		query = query.Where("status = ?", req.Status)
	}
	if req.PaymentStatus != "" {
		query = query.Where("payment_status = ?", req.PaymentStatus)
	}
	if req.BookingSource != "" {
		query = query.Where("booking_source = ?", req.BookingSource)
	}
	if req.GroupBookingID != "" {
		query = query.Where("group_booking_id = ?", req.GroupBookingID)
	}

	var bookings []models.Booking
	if err := query.Find(&bookings).Error; err != nil {
		return nil, 0, errors.NewAppError(errors.ErrCodeDBError, "Lỗi truy vấn danh sách đặt phòng", err)
	}

	filtered, err := filterBookings(bookings, req)
	if err != nil {
		return nil, 0, err
	}

	sortBookings(filtered, req.SortBy, req.SortOrder)

	total := len(filtered)
	page, limit := normalizePaging(req.Page, req.Limit)
	start := page * limit
	end := start + limit
	if start >= total {
		return []models.Booking{}, total, nil
	}
	if end > total {
		end = total
	}
	return filtered[start:end], total, nil
}

func normalizePaging(page, limit int) (int, int) {
	if page < 0 {
		page = 0
	}
	if limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit
}

// parseDateFilter parse tiêu chí ngày, chuỗi rỗng nghĩa là không lọc
func parseDateFilter(dateStr string) (*time.Time, error) {
	if dateStr == "" {
		return nil, nil
	}
	parsed, err := validator.ParseBookingDate(dateStr)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

func filterBookings(bookings []models.Booking, req *dto.BookingSearchRequest) ([]models.Booking, error) {
	checkInFrom, err := parseDateFilter(req.CheckInDateFrom)
	if err != nil {
		return nil, err
	}
	checkInTo, err := parseDateFilter(req.CheckInDateTo)
	if err != nil {
		return nil, err
	}
	checkOutFrom, err := parseDateFilter(req.CheckOutDateFrom)
	if err != nil {
		return nil, err
	}
	checkOutTo, err := parseDateFilter(req.CheckOutDateTo)
	if err != nil {
		return nil, err
	}
	createdFrom, err := parseDateFilter(req.CreatedDateFrom)
	if err != nil {
		return nil, err
	}
	createdTo, err := parseDateFilter(req.CreatedDateTo)
	if err != nil {
		return nil, err
	}

	keyword := strings.ToLower(strings.TrimSpace(req.Keyword))

	var filtered []models.Booking
	for _, b := range bookings {
		if keyword != "" && !matchesKeyword(&b, keyword) {
			continue
		}
		if req.CccdNumber != "" && !b.HasCccd(req.CccdNumber) {
			continue
		}
		if req.RoomNumber != "" && b.RoomNumber != req.RoomNumber {
			continue
		}
		if req.BookingNumber != "" && b.BookingNumber != req.BookingNumber {
			continue
		}
		if checkInFrom != nil && b.CheckInDate.Before(*checkInFrom) {
			continue
		}
		if checkInTo != nil && b.CheckInDate.After(endOfDay(*checkInTo)) {
			continue
		}
		if checkOutFrom != nil && b.CheckOutDate.Before(*checkOutFrom) {
			continue
		}
		if checkOutTo != nil && b.CheckOutDate.After(endOfDay(*checkOutTo)) {
			continue
		}
		if createdFrom != nil && b.CreatedDate.Before(*createdFrom) {
			continue
		}
		if createdTo != nil && b.CreatedDate.After(endOfDay(*createdTo)) {
			continue
		}
		if req.MinAmount != nil && b.TotalAmount < *req.MinAmount {
			continue
		}
		if req.MaxAmount != nil && b.TotalAmount > *req.MaxAmount {
			continue
		}
		if req.IsGroupBooking != nil && b.IsGroupBooking != *req.IsGroupBooking {
			continue
		}
		if req.DepositPaid != nil && b.DepositPaid != *req.DepositPaid {
			continue
		}
		filtered = append(filtered, b)
	}
	return filtered, nil
}

func endOfDay(t time.Time) time.Time {
	return validator.DateOnly(t).Add(24*time.Hour - time.Nanosecond)
}

// matchesKeyword tìm không phân biệt hoa thường trên mã đặt phòng,
// thông tin người đặt và khách chính
func matchesKeyword(b *models.Booking, keyword string) bool {
	fields := []string{
		b.BookingNumber,
		b.UserFullName,
		b.UserEmail,
		b.UserPhoneNumber,
		b.PrimaryGuest.FullName,
		b.PrimaryGuest.PhoneNumber,
		b.PrimaryGuest.Email,
		b.RoomNumber,
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), keyword) {
			return true
		}
	}
	return false
}

func sortBookings(bookings []models.Booking, sortBy, sortOrder string) {
	desc := strings.EqualFold(sortOrder, "desc") || sortOrder == ""

	var less func(a, b *models.Booking) bool
	switch sortBy {
	case "checkInDate":
		less = func(a, b *models.Booking) bool { return a.CheckInDate.Before(b.CheckInDate) }
	case "checkOutDate":
		less = func(a, b *models.Booking) bool { return a.CheckOutDate.Before(b.CheckOutDate) }
	case "totalAmount":
		less = func(a, b *models.Booking) bool { return a.TotalAmount < b.TotalAmount }
	case "bookingNumber":
		less = func(a, b *models.Booking) bool { return a.BookingNumber < b.BookingNumber }
	default: // createdDate
		less = func(a, b *models.Booking) bool { return a.CreatedDate.Before(b.CreatedDate) }
	}

	sort.SliceStable(bookings, func(i, j int) bool {
		if desc {
			return less(&bookings[j], &bookings[i])
		}
		return less(&bookings[i], &bookings[j])
	})
}

// GetUserBookings toàn bộ đặt phòng của một user, mới nhất trước
func (s *BookingService) GetUserBookings(userID uint) ([]models.Booking, error) {
	var bookings []models.Booking
	err := s.db.Preload("AdditionalCharges").
		Where("user_id = ?", userID).
		Order("created_date desc").
		Find(&bookings).Error
	if err != nil {
		return nil, errors.NewAppError(errors.ErrCodeDBError, "Lỗi truy vấn đặt phòng của user", err)
	}
	return bookings, nil
}

// GetUserUpcomingBookings các đặt phòng sắp tới còn hiệu lực của một user
func (s *BookingService) GetUserUpcomingBookings(userID uint) ([]models.Booking, error) {
	today := validator.DateOnly(time.Now())

	var bookings []models.Booking
	err := s.db.Preload("AdditionalCharges").
		Where("user_id = ?", userID).
		Where("status IN ?", []string{constants.BookingStatusPending, constants.BookingStatusConfirmed}).
		Where("check_in_date >= ?", today).
		Order("check_in_date asc").
		Find(&bookings).Error
	if err != nil {
		return nil, errors.NewAppError(errors.ErrCodeDBError, "Lỗi truy vấn đặt phòng sắp tới", err)
	}
	return bookings, nil
}

// GetUserBookingHistory lịch sử ở của một user (đã trả phòng hoặc hoàn tất)
func (s *BookingService) GetUserBookingHistory(userID uint) ([]models.Booking, error) {
	var bookings []models.Booking
	err := s.db.Preload("AdditionalCharges").
		Where("user_id = ?", userID).
		Where("status IN ?", []string{constants.BookingStatusCheckedOut, constants.BookingStatusCompleted}).
		Order("check_out_date desc").
		Find(&bookings).Error
	if err != nil {
		return nil, errors.NewAppError(errors.ErrCodeDBError, "Lỗi truy vấn lịch sử đặt phòng", err)
	}
	return bookings, nil
}

// GetBookingsByStatus danh sách đặt phòng theo trạng thái
func (s *BookingService) GetBookingsByStatus(status string) ([]models.Booking, error) {
	var bookings []models.Booking
	err := s.db.Preload("AdditionalCharges").
		Where("status = ?", status).
		Order("created_date desc").
		Find(&bookings).Error
	if err != nil {
		return nil, errors.NewAppError(errors.ErrCodeDBError, "Lỗi truy vấn đặt phòng theo trạng thái", err)
	}
	return bookings, nil
}

// GetRoomBookings toàn bộ đặt phòng của một phòng
func (s *BookingService) GetRoomBookings(roomID uint) ([]models.Booking, error) {
	var bookings []models.Booking
	err := s.db.Preload("AdditionalCharges").
		Where("room_id = ?", roomID).
		Order("check_in_date desc").
		Find(&bookings).Error
	if err != nil {
		return nil, errors.NewAppError(errors.ErrCodeDBError, "Lỗi truy vấn đặt phòng theo phòng", err)
	}
	return bookings, nil
}

// GetGroupBookings các đặt phòng cùng một nhóm
func (s *BookingService) GetGroupBookings(groupBookingID string) ([]models.Booking, error) {
	var bookings []models.Booking
	err := s.db.Preload("AdditionalCharges").
		Where("group_booking_id = ?", groupBookingID).
		Order("room_number asc").
		Find(&bookings).Error
	if err != nil {
		return nil, errors.NewAppError(errors.ErrCodeDBError, "Lỗi truy vấn đặt phòng theo nhóm", err)
	}
	if len(bookings) == 0 {
		return nil, errors.NewAppError(errors.ErrCodeBookingNotFound, "Không tìm thấy nhóm đặt phòng: "+groupBookingID, nil)
	}
	return bookings, nil
}
