package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mavryk256/hotel-management/builders"
	"github.com/mavryk256/hotel-management/constants"
	"github.com/mavryk256/hotel-management/dto"
	"github.com/mavryk256/hotel-management/errors"
	"github.com/mavryk256/hotel-management/models"
	"github.com/mavryk256/hotel-management/validator"
)

func setupBookingService(t *testing.T) (*BookingService, *gorm.DB, *fakeSender) {
	t.Helper()
	db := setupTestDB(t)
	sender := &fakeSender{}
	svc := NewBookingService(db, nil, sender, nil)
	return svc, db, sender
}

func createRequest(roomID uint, checkIn, checkOut time.Time) *dto.CreateBookingRequest {
	return &dto.CreateBookingRequest{
		RoomID:         roomID,
		CheckInDate:    fmtDate(checkIn),
		CheckOutDate:   fmtDate(checkOut),
		NumberOfGuests: 2,
		PrimaryGuest:   testGuest(),
	}
}

func appCode(t *testing.T, err error) errors.ErrorCode {
	t.Helper()
	appErr := errors.GetAppError(err)
	require.NotNil(t, appErr, "expected AppError, got %v", err)
	return appErr.Code
}

func TestCreateBookingComputesPricing(t *testing.T) {
	svc, _, sender := setupBookingService(t)
	user := seedUser(t, svc.db)
	room := seedRoom(t, svc.db, "101", 1_000_000)

	checkIn := validator.DateOnly(time.Now()).AddDate(0, 0, 7)
	booking, err := svc.Create(context.Background(), user.ID, createRequest(room.ID, checkIn, checkIn.AddDate(0, 0, 3)))
	require.NoError(t, err)

	assert.Equal(t, constants.BookingStatusPending, booking.Status)
	assert.Equal(t, constants.PaymentStatusUnpaid, booking.PaymentStatus)
	assert.True(t, strings.HasPrefix(booking.BookingNumber, "BK"))
	assert.Len(t, booking.BookingNumber, 14)

	assert.Equal(t, 3, booking.NumberOfNights)
	assert.InDelta(t, 3_000_000, booking.Subtotal, 0.01)
	assert.InDelta(t, 300_000, booking.TaxAmount, 0.01)
	assert.InDelta(t, 150_000, booking.ServiceCharge, 0.01)
	assert.InDelta(t, 3_450_000, booking.TotalAmount, 0.01)
	assert.InDelta(t, 1_035_000, booking.DepositAmount, 0.01)

	// Snapshot người đặt và phòng
	assert.Equal(t, user.FullName, booking.UserFullName)
	assert.Equal(t, room.RoomNumber, booking.RoomNumber)

	assert.Equal(t, 1, sender.confirmations)
	assert.True(t, booking.ConfirmationEmailSent)

	var savedRoom models.Room
	require.NoError(t, svc.db.First(&savedRoom, room.ID).Error)
	assert.Equal(t, 1, savedRoom.TotalBookings)
}

func TestCreateBookingEmailFailureDoesNotFailBooking(t *testing.T) {
	svc, _, sender := setupBookingService(t)
	user := seedUser(t, svc.db)
	room := seedRoom(t, svc.db, "101", 1_000_000)
	sender.failNext = true

	checkIn := validator.DateOnly(time.Now()).AddDate(0, 0, 7)
	booking, err := svc.Create(context.Background(), user.ID, createRequest(room.ID, checkIn, checkIn.AddDate(0, 0, 2)))
	require.NoError(t, err)
	assert.False(t, booking.ConfirmationEmailSent)
	assert.Equal(t, 0, sender.confirmations)
}

func TestCreateBookingRejectsOverlap(t *testing.T) {
	svc, _, _ := setupBookingService(t)
	user := seedUser(t, svc.db)
	room := seedRoom(t, svc.db, "101", 1_000_000)

	checkIn := validator.DateOnly(time.Now()).AddDate(0, 0, 7)
	_, err := svc.Create(context.Background(), user.ID, createRequest(room.ID, checkIn, checkIn.AddDate(0, 0, 3)))
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), user.ID, createRequest(room.ID, checkIn.AddDate(0, 0, 2), checkIn.AddDate(0, 0, 5)))
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeRoomUnavailable, appCode(t, err))
	assert.True(t, errors.IsConflict(err))
}

func TestCreateBookingRejectsMaintenanceRoom(t *testing.T) {
	svc, db, _ := setupBookingService(t)
	user := seedUser(t, svc.db)
	room := seedRoom(t, svc.db, "101", 1_000_000)
	require.NoError(t, db.Model(room).Update("status", constants.RoomStatusMaintenance).Error)

	checkIn := validator.DateOnly(time.Now()).AddDate(0, 0, 7)
	_, err := svc.Create(context.Background(), user.ID, createRequest(room.ID, checkIn, checkIn.AddDate(0, 0, 2)))
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeRoomUnavailable, appCode(t, err))
}

func TestCreateBookingAllowsOccupiedRoomForFutureDates(t *testing.T) {
	svc, db, _ := setupBookingService(t)
	user := seedUser(t, svc.db)
	room := seedRoom(t, svc.db, "101", 1_000_000)
	require.NoError(t, db.Model(room).Update("status", constants.RoomStatusOccupied).Error)

	// Phòng đang có khách vẫn nhận đặt cho ngày sau
	checkIn := validator.DateOnly(time.Now()).AddDate(0, 0, 7)
	_, err := svc.Create(context.Background(), user.ID, createRequest(room.ID, checkIn, checkIn.AddDate(0, 0, 2)))
	require.NoError(t, err)
}

func TestCreateBookingAllowsBackToBack(t *testing.T) {
	svc, _, _ := setupBookingService(t)
	user := seedUser(t, svc.db)
	room := seedRoom(t, svc.db, "101", 1_000_000)

	checkIn := validator.DateOnly(time.Now()).AddDate(0, 0, 7)
	checkOut := checkIn.AddDate(0, 0, 3)
	_, err := svc.Create(context.Background(), user.ID, createRequest(room.ID, checkIn, checkOut))
	require.NoError(t, err)

	// Khách mới nhận phòng đúng ngày khách cũ trả phòng
	_, err = svc.Create(context.Background(), user.ID, createRequest(room.ID, checkOut, checkOut.AddDate(0, 0, 2)))
	require.NoError(t, err)
}

func TestCreateBookingValidations(t *testing.T) {
	svc, _, _ := setupBookingService(t)
	user := seedUser(t, svc.db)
	room := seedRoom(t, svc.db, "101", 1_000_000)
	today := validator.DateOnly(time.Now())

	// Check-in quá khứ
	_, err := svc.Create(context.Background(), user.ID, createRequest(room.ID, today.AddDate(0, 0, -1), today.AddDate(0, 0, 2)))
	assert.Equal(t, errors.ErrCodePastCheckInDate, appCode(t, err))

	// Quá 30 đêm
	_, err = svc.Create(context.Background(), user.ID, createRequest(room.ID, today.AddDate(0, 0, 1), today.AddDate(0, 0, 32)))
	require.Error(t, err)

	// Quá 365 ngày đặt trước
	_, err = svc.Create(context.Background(), user.ID, createRequest(room.ID, today.AddDate(0, 0, 400), today.AddDate(0, 0, 402)))
	require.Error(t, err)

	// Vượt sức chứa phòng
	req := createRequest(room.ID, today.AddDate(0, 0, 7), today.AddDate(0, 0, 9))
	req.NumberOfGuests = 10
	_, err = svc.Create(context.Background(), user.ID, req)
	assert.Equal(t, errors.ErrCodeInvalidOccupancy, appCode(t, err))

	// CCCD sai định dạng
	req = createRequest(room.ID, today.AddDate(0, 0, 7), today.AddDate(0, 0, 9))
	req.PrimaryGuest.CccdNumber = "12ab"
	_, err = svc.Create(context.Background(), user.ID, req)
	assert.Equal(t, errors.ErrCodeInvalidCccd, appCode(t, err))
}

func TestCancelWithinTwentyFourHoursChargesFee(t *testing.T) {
	svc, _, sender := setupBookingService(t)
	user := seedUser(t, svc.db)
	room := seedRoom(t, svc.db, "101", 1_000_000)

	// Check-in hôm nay: chắc chắn dưới 24 giờ trước 0h ngày check-in
	today := validator.DateOnly(time.Now())
	booking, err := svc.Create(context.Background(), user.ID, createRequest(room.ID, today, today.AddDate(0, 0, 3)))
	require.NoError(t, err)

	cancelled, err := svc.Cancel(booking.ID, "Đổi kế hoạch", "user")
	require.NoError(t, err)

	assert.Equal(t, constants.BookingStatusCancelled, cancelled.Status)
	assert.InDelta(t, 690_000, cancelled.CancellationFee, 0.01)
	assert.InDelta(t, 2_760_000, cancelled.TotalAmount, 0.01)
	assert.NotNil(t, cancelled.CancelledAt)
	assert.Equal(t, "Đổi kế hoạch", cancelled.CancellationReason)
	assert.Equal(t, 1, sender.cancellations)
}

func TestCancelEarlyIsFree(t *testing.T) {
	svc, _, _ := setupBookingService(t)
	user := seedUser(t, svc.db)
	room := seedRoom(t, svc.db, "101", 1_000_000)

	checkIn := validator.DateOnly(time.Now()).AddDate(0, 0, 10)
	booking, err := svc.Create(context.Background(), user.ID, createRequest(room.ID, checkIn, checkIn.AddDate(0, 0, 3)))
	require.NoError(t, err)

	cancelled, err := svc.Cancel(booking.ID, "Đổi kế hoạch", "user")
	require.NoError(t, err)
	assert.Zero(t, cancelled.CancellationFee)
	assert.InDelta(t, 3_450_000, cancelled.TotalAmount, 0.01)
}

func TestCancelledRoomBecomesBookableAgain(t *testing.T) {
	svc, _, _ := setupBookingService(t)
	user := seedUser(t, svc.db)
	room := seedRoom(t, svc.db, "101", 1_000_000)

	checkIn := validator.DateOnly(time.Now()).AddDate(0, 0, 7)
	booking, err := svc.Create(context.Background(), user.ID, createRequest(room.ID, checkIn, checkIn.AddDate(0, 0, 3)))
	require.NoError(t, err)

	_, err = svc.Cancel(booking.ID, "Đổi kế hoạch", "user")
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), user.ID, createRequest(room.ID, checkIn, checkIn.AddDate(0, 0, 3)))
	require.NoError(t, err, "booking đã hủy không còn giữ phòng")
}

func TestCancelReleasesRoom(t *testing.T) {
	svc, db, _ := setupBookingService(t)
	user := seedUser(t, db)
	room := seedRoom(t, db, "101", 1_000_000)

	checkIn := validator.DateOnly(time.Now()).AddDate(0, 0, 7)
	booking, err := svc.Create(context.Background(), user.ID, createRequest(room.ID, checkIn, checkIn.AddDate(0, 0, 2)))
	require.NoError(t, err)
	_, err = svc.Confirm(booking.ID)
	require.NoError(t, err)

	require.NoError(t, db.Model(room).Update("status", constants.RoomStatusCleaning).Error)

	_, err = svc.Cancel(booking.ID, "Đổi kế hoạch", "user")
	require.NoError(t, err)

	var savedRoom models.Room
	require.NoError(t, db.First(&savedRoom, room.ID).Error)
	assert.Equal(t, constants.RoomStatusAvailable, savedRoom.Status)
}

func TestCancelKeepsRoomHeldByOtherBooking(t *testing.T) {
	svc, db, _ := setupBookingService(t)
	user := seedUser(t, db)
	room := seedRoom(t, db, "101", 1_000_000)

	checkIn := validator.DateOnly(time.Now()).AddDate(0, 0, 7)
	first, err := svc.Create(context.Background(), user.ID, createRequest(room.ID, checkIn, checkIn.AddDate(0, 0, 2)))
	require.NoError(t, err)
	_, err = svc.Confirm(first.ID)
	require.NoError(t, err)

	later := checkIn.AddDate(0, 0, 5)
	second, err := svc.Create(context.Background(), user.ID, createRequest(room.ID, later, later.AddDate(0, 0, 2)))
	require.NoError(t, err)
	_, err = svc.Confirm(second.ID)
	require.NoError(t, err)

	require.NoError(t, db.Model(room).Update("status", constants.RoomStatusCleaning).Error)

	// Booking thứ hai vẫn CONFIRMED nên phòng chưa được trả về AVAILABLE
	_, err = svc.Cancel(first.ID, "Đổi kế hoạch", "user")
	require.NoError(t, err)

	var savedRoom models.Room
	require.NoError(t, db.First(&savedRoom, room.ID).Error)
	assert.Equal(t, constants.RoomStatusCleaning, savedRoom.Status)
}

func TestMarkNoShowReleasesRoom(t *testing.T) {
	svc, db, _ := setupBookingService(t)
	user := seedUser(t, db)
	room := seedRoom(t, db, "101", 1_000_000)

	today := validator.DateOnly(time.Now())
	booking, err := svc.Create(context.Background(), user.ID, createRequest(room.ID, today, today.AddDate(0, 0, 2)))
	require.NoError(t, err)
	_, err = svc.Confirm(booking.ID)
	require.NoError(t, err)

	require.NoError(t, db.Model(room).Update("status", constants.RoomStatusCleaning).Error)

	marked, err := svc.MarkNoShow(booking.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.BookingStatusNoShow, marked.Status)

	var savedRoom models.Room
	require.NoError(t, db.First(&savedRoom, room.ID).Error)
	assert.Equal(t, constants.RoomStatusAvailable, savedRoom.Status)
}

func TestLifecycleHappyPath(t *testing.T) {
	svc, db, _ := setupBookingService(t)
	user := seedUser(t, db)
	room := seedRoom(t, db, "101", 1_000_000)

	today := validator.DateOnly(time.Now())
	booking, err := svc.Create(context.Background(), user.ID, createRequest(room.ID, today, today.AddDate(0, 0, 2)))
	require.NoError(t, err)

	booking, err = svc.Confirm(booking.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.BookingStatusConfirmed, booking.Status)
	assert.NotNil(t, booking.ConfirmedDate)

	booking, err = svc.CheckIn(booking.ID, &dto.CheckInRequest{
		GuestVerification: &dto.GuestVerification{CccdNumber: testGuest().CccdNumber},
	})
	require.NoError(t, err)
	assert.Equal(t, constants.BookingStatusCheckedIn, booking.Status)
	assert.NotNil(t, booking.ActualCheckInTime)
	assert.True(t, booking.DepositPaid, "check-in tự ghi nhận tiền cọc")
	assert.Equal(t, constants.PaymentStatusPartiallyPaid, booking.PaymentStatus)

	var savedRoom models.Room
	require.NoError(t, db.First(&savedRoom, room.ID).Error)
	assert.Equal(t, constants.RoomStatusOccupied, savedRoom.Status)

	booking, err = svc.CheckOut(booking.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.BookingStatusCheckedOut, booking.Status)
	assert.False(t, booking.RoomCleanedAfterCheckout)

	require.NoError(t, db.First(&savedRoom, room.ID).Error)
	assert.Equal(t, constants.RoomStatusCleaning, savedRoom.Status)

	_, err = svc.ProcessPayment(booking.ID, &dto.PaymentRequest{
		PaymentMethod:        constants.PaymentMethodCash,
		PaymentTransactionID: "TXN-001",
	})
	require.NoError(t, err)

	booking, err = svc.Complete(booking.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.BookingStatusCompleted, booking.Status)

	booking, err = svc.MarkRoomCleaned(booking.ID)
	require.NoError(t, err)
	assert.True(t, booking.RoomCleanedAfterCheckout)
	require.NoError(t, db.First(&savedRoom, room.ID).Error)
	assert.Equal(t, constants.RoomStatusAvailable, savedRoom.Status)
}

func TestCompleteDoesNotRequirePayment(t *testing.T) {
	svc, _, _ := setupBookingService(t)
	user := seedUser(t, svc.db)
	room := seedRoom(t, svc.db, "101", 1_000_000)

	today := validator.DateOnly(time.Now())
	booking, err := svc.Create(context.Background(), user.ID, createRequest(room.ID, today, today.AddDate(0, 0, 2)))
	require.NoError(t, err)
	_, err = svc.Confirm(booking.ID)
	require.NoError(t, err)
	_, err = svc.CheckIn(booking.ID, &dto.CheckInRequest{
		GuestVerification: &dto.GuestVerification{CccdNumber: testGuest().CccdNumber},
	})
	require.NoError(t, err)
	_, err = svc.CheckOut(booking.ID)
	require.NoError(t, err)

	// Hồ sơ đóng được dù công nợ vẫn còn PARTIALLY_PAID
	booking, err = svc.Complete(booking.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.BookingStatusCompleted, booking.Status)
	assert.Equal(t, constants.PaymentStatusPartiallyPaid, booking.PaymentStatus)
}

func TestCancelledBookingStillPayableAndRefundable(t *testing.T) {
	svc, _, _ := setupBookingService(t)
	user := seedUser(t, svc.db)
	room := seedRoom(t, svc.db, "101", 1_000_000)

	checkIn := validator.DateOnly(time.Now()).AddDate(0, 0, 10)
	booking, err := svc.Create(context.Background(), user.ID, createRequest(room.ID, checkIn, checkIn.AddDate(0, 0, 2)))
	require.NoError(t, err)

	_, err = svc.Cancel(booking.ID, "Đổi kế hoạch", "user")
	require.NoError(t, err)

	// Khách trả tiền sau khi hủy vẫn ghi nhận được, rồi mới hoàn lại
	booking, err = svc.ProcessPayment(booking.ID, &dto.PaymentRequest{
		PaymentMethod:        constants.PaymentMethodBankTransfer,
		PaymentTransactionID: "TXN-02",
	})
	require.NoError(t, err)
	assert.Equal(t, constants.PaymentStatusPaid, booking.PaymentStatus)

	booking, err = svc.Refund(booking.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.PaymentStatusRefunded, booking.PaymentStatus)
}

func TestInvalidTransitionsRejected(t *testing.T) {
	svc, _, _ := setupBookingService(t)
	user := seedUser(t, svc.db)
	room := seedRoom(t, svc.db, "101", 1_000_000)

	today := validator.DateOnly(time.Now())
	booking, err := svc.Create(context.Background(), user.ID, createRequest(room.ID, today, today.AddDate(0, 0, 2)))
	require.NoError(t, err)

	// Check-in thẳng từ PENDING
	_, err = svc.CheckIn(booking.ID, &dto.CheckInRequest{
		GuestVerification: &dto.GuestVerification{CccdNumber: testGuest().CccdNumber},
	})
	assert.Equal(t, errors.ErrCodeInvalidTransition, appCode(t, err))

	booking, err = svc.Confirm(booking.ID)
	require.NoError(t, err)
	booking, err = svc.CheckIn(booking.ID, &dto.CheckInRequest{
		GuestVerification: &dto.GuestVerification{CccdNumber: testGuest().CccdNumber},
	})
	require.NoError(t, err)

	// Đã check-in thì không hủy được nữa
	_, err = svc.Cancel(booking.ID, "Đổi ý", "user")
	assert.Equal(t, errors.ErrCodeInvalidTransition, appCode(t, err))

	// NO_SHOW chỉ từ CONFIRMED
	_, err = svc.MarkNoShow(booking.ID)
	assert.Equal(t, errors.ErrCodeInvalidTransition, appCode(t, err))
}

func TestCheckInGuards(t *testing.T) {
	svc, _, _ := setupBookingService(t)
	user := seedUser(t, svc.db)
	room := seedRoom(t, svc.db, "101", 1_000_000)

	// Chưa tới ngày check-in
	future := validator.DateOnly(time.Now()).AddDate(0, 0, 5)
	booking, err := svc.Create(context.Background(), user.ID, createRequest(room.ID, future, future.AddDate(0, 0, 2)))
	require.NoError(t, err)
	_, err = svc.Confirm(booking.ID)
	require.NoError(t, err)

	_, err = svc.CheckIn(booking.ID, &dto.CheckInRequest{
		GuestVerification: &dto.GuestVerification{CccdNumber: testGuest().CccdNumber},
	})
	assert.Equal(t, errors.ErrCodeInvalidOperation, appCode(t, err))

	// CCCD không khớp
	today := validator.DateOnly(time.Now())
	room2 := seedRoom(t, svc.db, "102", 1_000_000)
	booking2, err := svc.Create(context.Background(), user.ID, createRequest(room2.ID, today, today.AddDate(0, 0, 2)))
	require.NoError(t, err)
	_, err = svc.Confirm(booking2.ID)
	require.NoError(t, err)

	_, err = svc.CheckIn(booking2.ID, &dto.CheckInRequest{
		GuestVerification: &dto.GuestVerification{CccdNumber: "999999999999"},
	})
	assert.Equal(t, errors.ErrCodeCccdMismatch, appCode(t, err))

	// Thiếu đối chiếu CCCD
	_, err = svc.CheckIn(booking2.ID, &dto.CheckInRequest{})
	assert.Equal(t, errors.ErrCodeRequiredField, appCode(t, err))
}

func TestCheckInMatchesAdditionalGuestCccd(t *testing.T) {
	svc, _, _ := setupBookingService(t)
	user := seedUser(t, svc.db)
	room := seedRoom(t, svc.db, "101", 1_000_000)

	today := validator.DateOnly(time.Now())
	req := createRequest(room.ID, today, today.AddDate(0, 0, 2))
	req.AdditionalGuests = []models.GuestInfo{{
		FullName:   "Lê Văn Cường",
		CccdNumber: "098765432109",
	}}

	booking, err := svc.Create(context.Background(), user.ID, req)
	require.NoError(t, err)
	_, err = svc.Confirm(booking.ID)
	require.NoError(t, err)

	_, err = svc.CheckIn(booking.ID, &dto.CheckInRequest{
		GuestVerification: &dto.GuestVerification{CccdNumber: "098765432109"},
	})
	require.NoError(t, err, "CCCD của khách đi kèm cũng được chấp nhận")
}

func TestPaymentAndRefundFlow(t *testing.T) {
	svc, _, _ := setupBookingService(t)
	user := seedUser(t, svc.db)
	room := seedRoom(t, svc.db, "101", 1_000_000)

	checkIn := validator.DateOnly(time.Now()).AddDate(0, 0, 10)
	booking, err := svc.Create(context.Background(), user.ID, createRequest(room.ID, checkIn, checkIn.AddDate(0, 0, 2)))
	require.NoError(t, err)

	// Hoàn tiền khi chưa hủy và chưa trả tiền
	_, err = svc.Refund(booking.ID)
	assert.Equal(t, errors.ErrCodeNotRefundable, appCode(t, err))

	payment := &dto.PaymentRequest{PaymentMethod: constants.PaymentMethodBankTransfer, PaymentTransactionID: "TXN-01"}
	booking, err = svc.ProcessPayment(booking.ID, payment)
	require.NoError(t, err)
	assert.Equal(t, constants.PaymentStatusPaid, booking.PaymentStatus)
	assert.NotNil(t, booking.PaymentDate)

	// Trả tiền hai lần
	_, err = svc.ProcessPayment(booking.ID, payment)
	assert.Equal(t, errors.ErrCodeAlreadyPaid, appCode(t, err))

	_, err = svc.Cancel(booking.ID, "Đổi kế hoạch", "user")
	require.NoError(t, err)

	booking, err = svc.Refund(booking.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.PaymentStatusRefunded, booking.PaymentStatus)
}

func TestDepositPaidOnlyOnce(t *testing.T) {
	svc, _, _ := setupBookingService(t)
	user := seedUser(t, svc.db)
	room := seedRoom(t, svc.db, "101", 1_000_000)

	checkIn := validator.DateOnly(time.Now()).AddDate(0, 0, 10)
	booking, err := svc.Create(context.Background(), user.ID, createRequest(room.ID, checkIn, checkIn.AddDate(0, 0, 2)))
	require.NoError(t, err)

	booking, err = svc.ProcessDeposit(booking.ID, "DEP-01")
	require.NoError(t, err)
	assert.True(t, booking.DepositPaid)
	assert.Equal(t, constants.PaymentStatusPartiallyPaid, booking.PaymentStatus)

	_, err = svc.ProcessDeposit(booking.ID, "DEP-02")
	assert.Equal(t, errors.ErrCodeDepositPaid, appCode(t, err))
}

func TestServiceChargesAdjustTotal(t *testing.T) {
	svc, _, _ := setupBookingService(t)
	user := seedUser(t, svc.db)
	room := seedRoom(t, svc.db, "101", 1_000_000)

	today := validator.DateOnly(time.Now())
	booking, err := svc.Create(context.Background(), user.ID, createRequest(room.ID, today, today.AddDate(0, 0, 3)))
	require.NoError(t, err)

	chargeReq := &dto.AddServiceChargeRequest{
		ServiceType: constants.ServiceTypeMinibar,
		Description: "Nước ngọt",
		Amount:      50_000,
		Quantity:    2,
	}

	// Chưa check-in thì chưa thêm phí được
	_, err = svc.AddServiceCharge(booking.ID, chargeReq, "letan01")
	assert.Equal(t, errors.ErrCodeInvalidOperation, appCode(t, err))

	_, err = svc.Confirm(booking.ID)
	require.NoError(t, err)
	_, err = svc.CheckIn(booking.ID, &dto.CheckInRequest{
		GuestVerification: &dto.GuestVerification{CccdNumber: testGuest().CccdNumber},
	})
	require.NoError(t, err)

	booking, err = svc.AddServiceCharge(booking.ID, chargeReq, "letan01")
	require.NoError(t, err)
	require.Len(t, booking.AdditionalCharges, 1)
	assert.InDelta(t, 100_000, booking.AdditionalChargesTotal, 0.01)
	assert.InDelta(t, 3_550_000, booking.TotalAmount, 0.01)
	// Tiền cọc không đổi theo phí phát sinh
	assert.InDelta(t, 1_035_000, booking.DepositAmount, 0.01)

	chargeID := booking.AdditionalCharges[0].ID
	booking, err = svc.RemoveServiceCharge(booking.ID, chargeID)
	require.NoError(t, err)
	assert.Empty(t, booking.AdditionalCharges)
	assert.InDelta(t, 3_450_000, booking.TotalAmount, 0.01)

	_, err = svc.RemoveServiceCharge(booking.ID, chargeID)
	assert.Equal(t, errors.ErrCodeChargeNotFound, appCode(t, err))
}

func TestRemoveServiceChargeRejectedAfterComplete(t *testing.T) {
	svc, _, _ := setupBookingService(t)
	user := seedUser(t, svc.db)
	room := seedRoom(t, svc.db, "101", 1_000_000)

	today := validator.DateOnly(time.Now())
	booking, err := svc.Create(context.Background(), user.ID, createRequest(room.ID, today, today.AddDate(0, 0, 2)))
	require.NoError(t, err)
	_, err = svc.Confirm(booking.ID)
	require.NoError(t, err)
	_, err = svc.CheckIn(booking.ID, &dto.CheckInRequest{
		GuestVerification: &dto.GuestVerification{CccdNumber: testGuest().CccdNumber},
	})
	require.NoError(t, err)

	booking, err = svc.AddServiceCharge(booking.ID, &dto.AddServiceChargeRequest{
		ServiceType: constants.ServiceTypeMinibar,
		Description: "Nước ngọt",
		Amount:      50_000,
		Quantity:    1,
	}, "letan01")
	require.NoError(t, err)
	chargeID := booking.AdditionalCharges[0].ID

	_, err = svc.CheckOut(booking.ID)
	require.NoError(t, err)
	_, err = svc.Complete(booking.ID)
	require.NoError(t, err)

	// Hồ sơ đã đóng thì không điều chỉnh phí được nữa
	_, err = svc.RemoveServiceCharge(booking.ID, chargeID)
	assert.Equal(t, errors.ErrCodeInvalidOperation, appCode(t, err))
}

func TestApplyDiscountBounds(t *testing.T) {
	svc, _, _ := setupBookingService(t)
	user := seedUser(t, svc.db)
	room := seedRoom(t, svc.db, "101", 1_000_000)

	checkIn := validator.DateOnly(time.Now()).AddDate(0, 0, 10)
	booking, err := svc.Create(context.Background(), user.ID, createRequest(room.ID, checkIn, checkIn.AddDate(0, 0, 3)))
	require.NoError(t, err)

	// Giảm quá tiền phòng
	_, err = svc.ApplyDiscount(booking.ID, 5_000_000)
	assert.Equal(t, errors.ErrCodeInvalidAmount, appCode(t, err))

	booking, err = svc.ApplyDiscount(booking.ID, 500_000)
	require.NoError(t, err)
	assert.InDelta(t, 2_950_000, booking.TotalAmount, 0.01)
}

func TestApproveEarlyCheckInAndLateCheckOut(t *testing.T) {
	svc, _, _ := setupBookingService(t)
	user := seedUser(t, svc.db)
	room := seedRoom(t, svc.db, "101", 1_000_000)

	checkIn := validator.DateOnly(time.Now()).AddDate(0, 0, 10)
	booking, err := svc.Create(context.Background(), user.ID, createRequest(room.ID, checkIn, checkIn.AddDate(0, 0, 3)))
	require.NoError(t, err)

	booking, err = svc.ApproveEarlyCheckIn(booking.ID, 0)
	require.NoError(t, err)
	assert.True(t, booking.IsEarlyCheckIn)
	assert.InDelta(t, constants.DefaultEarlyCheckInFee, booking.EarlyCheckInFee, 0.01)

	booking, err = svc.ApproveLateCheckOut(booking.ID, 250_000)
	require.NoError(t, err)
	assert.True(t, booking.IsLateCheckOut)
	assert.InDelta(t, 250_000, booking.LateCheckOutFee, 0.01)
	assert.InDelta(t, 3_450_000+100_000+250_000, booking.TotalAmount, 0.01)
}

func TestCreateGroupBookingAllOrNothing(t *testing.T) {
	svc, db, _ := setupBookingService(t)
	user := seedUser(t, db)
	roomA := seedRoom(t, db, "201", 1_000_000)
	roomB := seedRoom(t, db, "202", 1_200_000)

	checkIn := validator.DateOnly(time.Now()).AddDate(0, 0, 7)
	checkOut := checkIn.AddDate(0, 0, 2)

	// Chặn trước phòng B
	_, err := svc.Create(context.Background(), user.ID, createRequest(roomB.ID, checkIn, checkOut))
	require.NoError(t, err)

	groupReq := &dto.GroupBookingRequest{
		RoomIDs:      []uint{roomA.ID, roomB.ID},
		CheckInDate:  fmtDate(checkIn),
		CheckOutDate: fmtDate(checkOut),
		RoomBookings: []dto.CreateBookingRequest{
			*createRequest(roomA.ID, checkIn, checkOut),
			*createRequest(roomB.ID, checkIn, checkOut),
		},
	}

	_, err = svc.CreateGroup(context.Background(), user.ID, groupReq)
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeRoomUnavailable, appCode(t, err))

	// Không phòng nào trong nhóm được tạo
	var count int64
	require.NoError(t, db.Model(&models.Booking{}).Where("is_group_booking = ?", true).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCreateGroupBookingSharesGroupID(t *testing.T) {
	svc, _, _ := setupBookingService(t)
	user := seedUser(t, svc.db)
	roomA := seedRoom(t, svc.db, "201", 1_000_000)
	roomB := seedRoom(t, svc.db, "202", 1_200_000)

	checkIn := validator.DateOnly(time.Now()).AddDate(0, 0, 7)
	checkOut := checkIn.AddDate(0, 0, 2)

	groupReq := &dto.GroupBookingRequest{
		RoomIDs:      []uint{roomA.ID, roomB.ID},
		CheckInDate:  fmtDate(checkIn),
		CheckOutDate: fmtDate(checkOut),
		RoomBookings: []dto.CreateBookingRequest{
			*createRequest(roomA.ID, checkIn, checkOut),
			*createRequest(roomB.ID, checkIn, checkOut),
		},
	}

	bookings, err := svc.CreateGroup(context.Background(), user.ID, groupReq)
	require.NoError(t, err)
	require.Len(t, bookings, 2)

	assert.True(t, strings.HasPrefix(bookings[0].GroupBookingID, "GRP"))
	assert.Len(t, bookings[0].GroupBookingID, 11)
	assert.Equal(t, bookings[0].GroupBookingID, bookings[1].GroupBookingID)
	assert.True(t, bookings[0].IsGroupBooking)
	assert.NotEqual(t, bookings[0].BookingNumber, bookings[1].BookingNumber)

	found, err := svc.GetGroupBookings(bookings[0].GroupBookingID)
	require.NoError(t, err)
	assert.Len(t, found, 2)
}

func TestUpdateBookingRevalidatesDates(t *testing.T) {
	svc, _, _ := setupBookingService(t)
	user := seedUser(t, svc.db)
	room := seedRoom(t, svc.db, "101", 1_000_000)

	checkIn := validator.DateOnly(time.Now()).AddDate(0, 0, 7)
	booking, err := svc.Create(context.Background(), user.ID, createRequest(room.ID, checkIn, checkIn.AddDate(0, 0, 2)))
	require.NoError(t, err)

	newCheckOut := fmtDate(checkIn.AddDate(0, 0, 4))
	updated, err := svc.Update(context.Background(), booking.ID, &dto.UpdateBookingRequest{CheckOutDate: &newCheckOut})
	require.NoError(t, err)
	assert.Equal(t, 4, updated.NumberOfNights)
	assert.InDelta(t, 4_600_000, updated.TotalAmount, 0.01)

	// Sau check-in thì không sửa được nữa
	_, err = svc.Confirm(booking.ID)
	require.NoError(t, err)

	booking2, err := svc.GetByID(booking.ID)
	require.NoError(t, err)
	booking2.Status = constants.BookingStatusCheckedIn
	require.NoError(t, svc.db.Save(booking2).Error)

	_, err = svc.Update(context.Background(), booking.ID, &dto.UpdateBookingRequest{CheckOutDate: &newCheckOut})
	assert.Equal(t, errors.ErrCodeInvalidTransition, appCode(t, err))
}

func TestSweepRemindersIsIdempotent(t *testing.T) {
	svc, db, sender := setupBookingService(t)
	room := seedRoom(t, db, "101", 1_000_000)

	tomorrow := validator.DateOnly(time.Now()).AddDate(0, 0, 1)
	booking := builders.NewBookingBuilder().
		WithBookingNumber("BK202609010001").
		WithRoom(room).
		WithDates(tomorrow, tomorrow.AddDate(0, 0, 2)).
		WithStatus(constants.BookingStatusConfirmed).
		Build()
	booking.UserEmail = "an.nguyen@example.com"
	require.NoError(t, db.Create(booking).Error)

	// Booking check-in hôm nay thì không nhắc
	today := validator.DateOnly(time.Now())
	other := builders.NewBookingBuilder().
		WithBookingNumber("BK202609010002").
		WithRoom(room).
		WithDates(today, today.AddDate(0, 0, 1)).
		WithStatus(constants.BookingStatusConfirmed).
		Build()
	require.NoError(t, db.Create(other).Error)

	sent, err := svc.SweepReminders()
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
	assert.Equal(t, 1, sender.reminders)

	sent, err = svc.SweepReminders()
	require.NoError(t, err)
	assert.Zero(t, sent, "đã nhắc rồi thì không nhắc lại")
	assert.Equal(t, 1, sender.reminders)
}

func TestSweepRemindersKeepsFlagOnSendFailure(t *testing.T) {
	svc, db, sender := setupBookingService(t)
	room := seedRoom(t, db, "101", 1_000_000)

	tomorrow := validator.DateOnly(time.Now()).AddDate(0, 0, 1)
	booking := builders.NewBookingBuilder().
		WithBookingNumber("BK202609010003").
		WithRoom(room).
		WithDates(tomorrow, tomorrow.AddDate(0, 0, 2)).
		WithStatus(constants.BookingStatusConfirmed).
		Build()
	require.NoError(t, db.Create(booking).Error)

	sender.failNext = true
	sent, err := svc.SweepReminders()
	require.NoError(t, err)
	assert.Zero(t, sent)

	// Gửi lỗi thì lần sau còn được nhắc lại
	sent, err = svc.SweepReminders()
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
}

func TestGetByNumber(t *testing.T) {
	svc, _, _ := setupBookingService(t)
	user := seedUser(t, svc.db)
	room := seedRoom(t, svc.db, "101", 1_000_000)

	checkIn := validator.DateOnly(time.Now()).AddDate(0, 0, 7)
	booking, err := svc.Create(context.Background(), user.ID, createRequest(room.ID, checkIn, checkIn.AddDate(0, 0, 2)))
	require.NoError(t, err)

	found, err := svc.GetByNumber(booking.BookingNumber)
	require.NoError(t, err)
	assert.Equal(t, booking.ID, found.ID)

	_, err = svc.GetByNumber("BK209901010001")
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}
