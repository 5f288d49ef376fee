package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/mavryk256/hotel-management/constants"
	"github.com/mavryk256/hotel-management/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:booking_test_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	require.NoError(t, err, "failed to open sqlite db")
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Room{}, &models.Booking{}, &models.BookingCharge{}),
		"failed to migrate db")
	return db
}

func seedUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	user := &models.User{
		FullName:    "Nguyễn Văn An",
		Email:       "an.nguyen@example.com",
		PhoneNumber: "0901234567",
		Role:        0,
		Status:      constants.UserStatusActive,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedRoom(t *testing.T, db *gorm.DB, roomNumber string, price float64) *models.Room {
	t.Helper()
	room := &models.Room{
		RoomNumber:    roomNumber,
		Name:          "Phòng " + roomNumber,
		Type:          "DELUXE",
		PricePerNight: price,
		MaxOccupancy:  4,
		Floor:         1,
		Status:        constants.RoomStatusAvailable,
		IsActive:      true,
	}
	require.NoError(t, db.Create(room).Error)
	return room
}

func testGuest() models.GuestInfo {
	return models.GuestInfo{
		FullName:    "Trần Thị Bình",
		PhoneNumber: "0912345678",
		CccdNumber:  "012345678901",
		Nationality: "Việt Nam",
	}
}

// fakeSender đếm số lần gửi từng loại thông báo
type fakeSender struct {
	confirmations int
	reminders     int
	cancellations int
	failNext      bool
}

func (f *fakeSender) SendBookingConfirmation(_ *models.Booking) error {
	if f.failNext {
		f.failNext = false
		return fmt.Errorf("smtp timeout")
	}
	f.confirmations++
	return nil
}

func (f *fakeSender) SendCheckInReminder(_ *models.Booking) error {
	if f.failNext {
		f.failNext = false
		return fmt.Errorf("smtp timeout")
	}
	f.reminders++
	return nil
}

func (f *fakeSender) SendCancellationNotice(_ *models.Booking) error {
	f.cancellations++
	return nil
}

func fmtDate(t time.Time) string {
	return t.Format(constants.DateLayout)
}
