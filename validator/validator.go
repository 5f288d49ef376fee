package validator

import (
	"fmt"
	"regexp"
	"time"

	"github.com/mavryk256/hotel-management/constants"
	"github.com/mavryk256/hotel-management/errors"
	"github.com/mavryk256/hotel-management/models"
)

// ValidateBookingDates validate khoảng ngày đặt phòng
func ValidateBookingDates(checkInDate, checkOutDate time.Time) error {
	today := DateOnly(time.Now())

	if checkInDate.Before(today) {
		return errors.NewAppError(errors.ErrCodePastCheckInDate, "Ngày check-in không thể là quá khứ", nil)
	}

	if !checkOutDate.After(checkInDate) {
		return errors.NewAppError(errors.ErrCodeInvalidDateRange, "Ngày check-out phải sau ngày check-in", nil)
	}

	nights := NightsBetween(checkInDate, checkOutDate)
	if nights < constants.MinNights || nights > constants.MaxNights {
		return errors.NewAppError(errors.ErrCodeValidation,
			fmt.Sprintf("Số đêm phải từ %d đến %d", constants.MinNights, constants.MaxNights), nil)
	}

	if checkInDate.After(today.AddDate(0, 0, constants.MaxAdvanceBookingDays)) {
		return errors.NewAppError(errors.ErrCodeValidation,
			fmt.Sprintf("Chỉ được đặt trước tối đa %d ngày", constants.MaxAdvanceBookingDays), nil)
	}

	return nil
}

// ValidateOccupancy validate số lượng khách so với sức chứa phòng
func ValidateOccupancy(room *models.Room, numberOfGuests int) error {
	if numberOfGuests < 1 {
		return errors.NewAppError(errors.ErrCodeInvalidOccupancy, "Số lượng khách phải >= 1", nil)
	}
	if numberOfGuests > room.MaxOccupancy {
		return errors.NewAppError(errors.ErrCodeInvalidOccupancy, "Số lượng khách vượt quá sức chứa của phòng", nil)
	}
	return nil
}

// ValidateGuest validate thông tin khách ở
func ValidateGuest(guest *models.GuestInfo) error {
	if guest.FullName == "" {
		return errors.NewAppError(errors.ErrCodeRequiredField, "Tên khách không được để trống", nil)
	}

	if guest.CccdNumber == "" {
		return errors.NewAppError(errors.ErrCodeRequiredField, "Số CCCD không được để trống", nil)
	}

	if !isValidCccd(guest.CccdNumber) {
		return errors.NewAppError(errors.ErrCodeInvalidCccd, "Số CCCD không hợp lệ", nil)
	}

	if guest.PhoneNumber != "" && !isValidPhone(guest.PhoneNumber) {
		return errors.NewAppError(errors.ErrCodeInvalidPhone, "Số điện thoại khách không hợp lệ", nil)
	}

	if guest.Email != "" && !isValidEmail(guest.Email) {
		return errors.NewAppError(errors.ErrCodeInvalidEmail, "Email khách không hợp lệ", nil)
	}

	return nil
}

// ValidateDiscount validate mức giảm giá so với tiền phòng
func ValidateDiscount(discountAmount, subtotal float64) error {
	if discountAmount < 0 || discountAmount > subtotal {
		return errors.NewAppError(errors.ErrCodeInvalidAmount, "Mức giảm giá không hợp lệ", nil)
	}
	return nil
}

// ParseBookingDate parse ngày dạng dd/MM/yyyy từ request
func ParseBookingDate(dateStr string) (time.Time, error) {
	parsed, err := time.Parse(constants.DateLayout, dateStr)
	if err != nil {
		return time.Time{}, errors.NewAppError(errors.ErrCodeInvalidFormat, "Định dạng ngày không hợp lệ: "+dateStr, err)
	}
	return parsed, nil
}

// DateOnly cắt bỏ giờ phút giây, giữ lại ngày
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// NightsBetween số đêm giữa hai ngày
func NightsBetween(checkInDate, checkOutDate time.Time) int {
	return int(checkOutDate.Sub(checkInDate).Hours() / 24)
}

// isValidEmail kiểm tra email hợp lệ
func isValidEmail(email string) bool {
	emailRegex := regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	return emailRegex.MatchString(email)
}

// isValidPhone kiểm tra số điện thoại hợp lệ
func isValidPhone(phone string) bool {
	phoneRegex := regexp.MustCompile(`^[0-9]{10}$`)
	return phoneRegex.MatchString(phone)
}

// isValidCccd kiểm tra số CCCD hợp lệ (9 số CMND cũ hoặc 12 số CCCD)
func isValidCccd(cccd string) bool {
	cccdRegex := regexp.MustCompile(`^[0-9]{9}([0-9]{3})?$`)
	return cccdRegex.MatchString(cccd)
}
