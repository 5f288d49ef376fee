package services

import (
	"context"
	stderrors "errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/mavryk256/hotel-management/constants"
	"github.com/mavryk256/hotel-management/dto"
	"github.com/mavryk256/hotel-management/errors"
	"github.com/mavryk256/hotel-management/models"
	"github.com/mavryk256/hotel-management/services/logger"
	"github.com/mavryk256/hotel-management/services/notification"
	"github.com/mavryk256/hotel-management/validator"
)

// allowedTransitions các bước chuyển trạng thái hợp lệ của booking
var allowedTransitions = map[string][]string{
	constants.BookingStatusPending:    {constants.BookingStatusConfirmed, constants.BookingStatusCancelled},
	constants.BookingStatusConfirmed:  {constants.BookingStatusCheckedIn, constants.BookingStatusCancelled, constants.BookingStatusNoShow},
	constants.BookingStatusCheckedIn:  {constants.BookingStatusCheckedOut},
	constants.BookingStatusCheckedOut: {constants.BookingStatusCompleted},
}

func canTransition(from, to string) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// BookingService xử lý toàn bộ vòng đời đặt phòng
type BookingService struct {
	db           *gorm.DB
	rdb          *redis.Client
	rooms        *RoomCatalog
	users        *UserDirectory
	availability *AvailabilityService
	seq          Sequencer
	notifier     notification.Sender
	broadcaster  *notification.Broadcaster
	log          logger.Logger
}

func NewBookingService(db *gorm.DB, rdb *redis.Client, notifier notification.Sender, broadcaster *notification.Broadcaster) *BookingService {
	var seq Sequencer
	if rdb != nil {
		seq = NewRedisSequencer(rdb)
	}
	return &BookingService{
		db:           db,
		rdb:          rdb,
		rooms:        NewRoomCatalog(db),
		users:        NewUserDirectory(db),
		availability: NewAvailabilityService(db),
		seq:          seq,
		notifier:     notifier,
		broadcaster:  broadcaster,
		log:          logger.NewDefaultLogger(logger.InfoLevel),
	}
}

// GetByID lấy booking kèm danh sách phí phát sinh
func (s *BookingService) GetByID(bookingID uint) (*models.Booking, error) {
	var booking models.Booking
	err := s.db.Preload("AdditionalCharges").First(&booking, bookingID).Error
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NewAppError(errors.ErrCodeBookingNotFound, "Không tìm thấy đặt phòng", err)
		}
		return nil, errors.NewAppError(errors.ErrCodeDBError, "Lỗi truy vấn đặt phòng", err)
	}
	return &booking, nil
}

// GetByNumber lấy booking theo mã đặt phòng
func (s *BookingService) GetByNumber(bookingNumber string) (*models.Booking, error) {
	var booking models.Booking
	err := s.db.Preload("AdditionalCharges").Where("booking_number = ?", bookingNumber).First(&booking).Error
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NewAppError(errors.ErrCodeBookingNotFound, "Không tìm thấy đặt phòng với mã: "+bookingNumber, err)
		}
		return nil, errors.NewAppError(errors.ErrCodeDBError, "Lỗi truy vấn đặt phòng", err)
	}
	return &booking, nil
}

func (s *BookingService) save(booking *models.Booking) error {
	booking.UpdatedDate = time.Now()
	if err := s.db.Save(booking).Error; err != nil {
		return errors.NewAppError(errors.ErrCodeDBError, "Lỗi lưu đặt phòng", err)
	}
	InvalidateBookingCache(context.Background(), s.rdb)
	return nil
}

func isDuplicateErr(err error) bool {
	if stderrors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") || strings.Contains(msg, "unique")
}

// buildBooking dựng booking từ request, snapshot thông tin user và phòng
func (s *BookingService) buildBooking(userID uint, room *models.Room, req *dto.CreateBookingRequest, checkIn, checkOut time.Time) (*models.Booking, error) {
	if err := validator.ValidateOccupancy(room, req.NumberOfGuests); err != nil {
		return nil, err
	}
	if err := validator.ValidateGuest(&req.PrimaryGuest); err != nil {
		return nil, err
	}
	for i := range req.AdditionalGuests {
		if err := validator.ValidateGuest(&req.AdditionalGuests[i]); err != nil {
			return nil, err
		}
	}

	user, err := s.users.GetUserByID(userID)
	if err != nil {
		return nil, err
	}

	source := req.BookingSource
	if source == "" {
		source = constants.BookingSourceWebsite
	}

	now := time.Now()
	booking := &models.Booking{
		UserID:          user.ID,
		UserEmail:       user.Email,
		UserFullName:    user.FullName,
		UserPhoneNumber: user.PhoneNumber,

		PrimaryGuest: req.PrimaryGuest,

		RoomID:            room.ID,
		RoomNumber:        room.RoomNumber,
		RoomName:          room.Name,
		RoomType:          room.Type,
		RoomPricePerNight: room.PricePerNight,

		CheckInDate:  checkIn,
		CheckOutDate: checkOut,

		NumberOfGuests:   req.NumberOfGuests,
		NumberOfChildren: req.NumberOfChildren,

		SpecialRequests: req.SpecialRequests,

		PaymentStatus: constants.PaymentStatusUnpaid,
		Status:        constants.BookingStatusPending,
		BookingSource: source,

		CreatedDate: now,
		UpdatedDate: now,
	}

	if req.IsEarlyCheckIn {
		booking.IsEarlyCheckIn = true
		booking.EarlyCheckInFee = constants.DefaultEarlyCheckInFee
	}
	if req.IsLateCheckOut {
		booking.IsLateCheckOut = true
		booking.LateCheckOutFee = constants.DefaultLateCheckOutFee
	}

	if err := booking.SetAdditionalGuests(req.AdditionalGuests); err != nil {
		return nil, errors.NewAppError(errors.ErrCodeValidation, "Danh sách khách đi kèm không hợp lệ", err)
	}

	breakdown := CalculatePricing(booking)
	booking.NumberOfNights = breakdown.NumberOfNights
	booking.Subtotal = breakdown.Subtotal
	booking.TaxAmount = breakdown.TaxAmount
	booking.ServiceCharge = breakdown.ServiceCharge
	booking.TotalAmount = breakdown.TotalAmount
	// Tiền cọc chốt một lần lúc tạo, không tính lại khi phí phát sinh thay đổi
	booking.DepositAmount = breakdown.DepositAmount

	return booking, nil
}

// insertBooking ghi booking trong transaction, kiểm tra lại phòng trống và
// retry mã đặt phòng khi đụng unique index
func (s *BookingService) insertBooking(ctx context.Context, tx *gorm.DB, booking *models.Booking) error {
	available, err := NewAvailabilityService(tx).IsAvailable(booking.RoomID, booking.CheckInDate, booking.CheckOutDate)
	if err != nil {
		return err
	}
	if !available {
		return errors.NewAppError(errors.ErrCodeRoomUnavailable,
			"Phòng "+booking.RoomNumber+" đã có người đặt trong khoảng ngày này", nil)
	}

	for attempt := 0; attempt < 3; attempt++ {
		number, err := GenerateBookingNumber(ctx, s.seq, time.Now())
		if err != nil {
			return errors.NewAppError(errors.ErrCodeDBError, "Lỗi sinh mã đặt phòng", err)
		}
		booking.BookingNumber = number

		err = tx.Create(booking).Error
		if err == nil {
			return nil
		}
		if !isDuplicateErr(err) {
			return errors.NewAppError(errors.ErrCodeDBError, "Lỗi tạo đặt phòng", err)
		}
		booking.ID = 0
	}
	return errors.NewAppError(errors.ErrCodeDBDuplicate, "Không sinh được mã đặt phòng duy nhất", nil)
}

// afterCreate các việc sau commit: xóa cache, gửi mail xác nhận, đẩy websocket.
// Gửi mail lỗi chỉ log, booking vẫn được trả về.
func (s *BookingService) afterCreate(booking *models.Booking) {
	InvalidateBookingCache(context.Background(), s.rdb)

	if s.notifier != nil {
		if err := s.notifier.SendBookingConfirmation(booking); err != nil {
			s.log.Error("Gửi email xác nhận cho %s thất bại: %v", booking.BookingNumber, err)
		} else {
			booking.ConfirmationEmailSent = true
			if err := s.db.Model(booking).Update("confirmation_email_sent", true).Error; err != nil {
				s.log.Error("Lỗi cập nhật cờ email xác nhận cho %s: %v", booking.BookingNumber, err)
			}
		}
	}

	s.broadcaster.BroadcastBookingEvent("booking_created", booking)
}

// Create tạo đặt phòng mới.
// Khóa theo phòng để hai request cùng phòng không cùng vượt qua bước kiểm tra trống.
func (s *BookingService) Create(ctx context.Context, userID uint, req *dto.CreateBookingRequest) (*models.Booking, error) {
	checkIn, err := validator.ParseBookingDate(req.CheckInDate)
	if err != nil {
		return nil, err
	}
	checkOut, err := validator.ParseBookingDate(req.CheckOutDate)
	if err != nil {
		return nil, err
	}
	if err := validator.ValidateBookingDates(checkIn, checkOut); err != nil {
		return nil, err
	}

	unlock := LockRoom(req.RoomID)
	defer unlock()

	room, err := s.rooms.GetRoom(req.RoomID)
	if err != nil {
		return nil, err
	}
	if !room.Bookable() {
		return nil, errors.NewAppError(errors.ErrCodeRoomUnavailable, "Phòng "+room.RoomNumber+" hiện không nhận đặt", nil)
	}

	booking, err := s.buildBooking(userID, room, req, checkIn, checkOut)
	if err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.insertBooking(ctx, tx, booking); err != nil {
			return err
		}
		return NewRoomCatalog(tx).IncrementBookingCount(room.ID)
	})
	if err != nil {
		return nil, err
	}

	s.afterCreate(booking)
	return booking, nil
}

// CreateGroup đặt nhiều phòng cùng lúc, tất cả hoặc không phòng nào.
// Các phòng được khóa theo thứ tự ID tăng dần và ghi trong một transaction.
func (s *BookingService) CreateGroup(ctx context.Context, userID uint, req *dto.GroupBookingRequest) ([]*models.Booking, error) {
	if len(req.RoomIDs) > constants.MaxGroupSize {
		return nil, errors.NewAppError(errors.ErrCodeValidation, "Một nhóm chỉ được đặt tối đa 10 phòng", nil)
	}
	if len(req.RoomBookings) != len(req.RoomIDs) {
		return nil, errors.NewAppError(errors.ErrCodeValidation, "Thông tin khách phải đủ cho từng phòng", nil)
	}

	checkIn, err := validator.ParseBookingDate(req.CheckInDate)
	if err != nil {
		return nil, err
	}
	checkOut, err := validator.ParseBookingDate(req.CheckOutDate)
	if err != nil {
		return nil, err
	}
	if err := validator.ValidateBookingDates(checkIn, checkOut); err != nil {
		return nil, err
	}

	unlock := LockRooms(req.RoomIDs)
	defer unlock()

	groupID := "GRP" + strings.ToUpper(uuid.New().String()[:8])

	var bookings []*models.Booking
	err = s.db.Transaction(func(tx *gorm.DB) error {
		for i, roomID := range req.RoomIDs {
			room, err := s.rooms.GetRoom(roomID)
			if err != nil {
				return err
			}
			if !room.Bookable() {
				return errors.NewAppError(errors.ErrCodeRoomUnavailable, "Phòng "+room.RoomNumber+" hiện không nhận đặt", nil)
			}

			roomReq := req.RoomBookings[i]
			roomReq.RoomID = roomID

			booking, err := s.buildBooking(userID, room, &roomReq, checkIn, checkOut)
			if err != nil {
				return err
			}
			booking.GroupBookingID = groupID
			booking.IsGroupBooking = true

			if err := s.insertBooking(ctx, tx, booking); err != nil {
				return err
			}
			if err := NewRoomCatalog(tx).IncrementBookingCount(room.ID); err != nil {
				return err
			}
			bookings = append(bookings, booking)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, booking := range bookings {
		s.afterCreate(booking)
	}
	return bookings, nil
}

// Update sửa đặt phòng, chỉ cho phép khi còn PENDING hoặc CONFIRMED
func (s *BookingService) Update(ctx context.Context, bookingID uint, req *dto.UpdateBookingRequest) (*models.Booking, error) {
	unlock := LockBooking(bookingID)
	defer unlock()

	booking, err := s.GetByID(bookingID)
	if err != nil {
		return nil, err
	}

	if booking.Status != constants.BookingStatusPending && booking.Status != constants.BookingStatusConfirmed {
		return nil, errors.NewAppError(errors.ErrCodeInvalidTransition,
			"Chỉ sửa được đặt phòng ở trạng thái PENDING hoặc CONFIRMED", nil)
	}

	datesChanged := false
	checkIn := booking.CheckInDate
	checkOut := booking.CheckOutDate

	if req.CheckInDate != nil {
		checkIn, err = validator.ParseBookingDate(*req.CheckInDate)
		if err != nil {
			return nil, err
		}
		datesChanged = true
	}
	if req.CheckOutDate != nil {
		checkOut, err = validator.ParseBookingDate(*req.CheckOutDate)
		if err != nil {
			return nil, err
		}
		datesChanged = true
	}

	if datesChanged {
		if err := validator.ValidateBookingDates(checkIn, checkOut); err != nil {
			return nil, err
		}

		unlockRoom := LockRoom(booking.RoomID)
		defer unlockRoom()

		available, err := s.availability.IsAvailableExcluding(booking.RoomID, checkIn, checkOut, booking.ID)
		if err != nil {
			return nil, err
		}
		if !available {
			return nil, errors.NewAppError(errors.ErrCodeRoomUnavailable,
				"Phòng không còn trống trong khoảng ngày mới", nil)
		}

		booking.CheckInDate = checkIn
		booking.CheckOutDate = checkOut
	}

	if req.NumberOfGuests != nil {
		room, err := s.rooms.GetRoom(booking.RoomID)
		if err != nil {
			return nil, err
		}
		if err := validator.ValidateOccupancy(room, *req.NumberOfGuests); err != nil {
			return nil, err
		}
		booking.NumberOfGuests = *req.NumberOfGuests
	}
	if req.NumberOfChildren != nil {
		booking.NumberOfChildren = *req.NumberOfChildren
	}
	if req.SpecialRequests != nil {
		booking.SpecialRequests = *req.SpecialRequests
	}

	if datesChanged {
		RecalculatePricing(booking)
	}

	if err := s.save(booking); err != nil {
		return nil, err
	}
	return booking, nil
}

// Confirm chuyển PENDING sang CONFIRMED
func (s *BookingService) Confirm(bookingID uint) (*models.Booking, error) {
	unlock := LockBooking(bookingID)
	defer unlock()

	booking, err := s.GetByID(bookingID)
	if err != nil {
		return nil, err
	}
	if !canTransition(booking.Status, constants.BookingStatusConfirmed) {
		return nil, errors.NewAppError(errors.ErrCodeInvalidTransition,
			"Không thể xác nhận đặt phòng ở trạng thái "+booking.Status, nil)
	}

	now := time.Now()
	booking.Status = constants.BookingStatusConfirmed
	booking.ConfirmedDate = &now

	if err := s.save(booking); err != nil {
		return nil, err
	}
	s.broadcaster.BroadcastBookingEvent("booking_confirmed", booking)
	return booking, nil
}

// CancellationFeeFor tính phí hủy theo chính sách:
// hủy trong vòng 24 giờ (số giờ nguyên) trước 0h ngày check-in thì chịu 20% tổng tiền
func CancellationFeeFor(booking *models.Booking, at time.Time) float64 {
	checkInMidnight := validator.DateOnly(booking.CheckInDate)
	hoursUntil := int(checkInMidnight.Sub(at).Hours())
	if hoursUntil < constants.FreeCancellationHours {
		return booking.TotalAmount * constants.CancellationFeeRate
	}
	return 0
}

// releaseRoomIfIdle trả phòng về AVAILABLE khi không còn đặt phòng nào
// đang CONFIRMED hoặc CHECKED_IN giữ phòng đó
func (s *BookingService) releaseRoomIfIdle(roomID uint, roomNumber string) {
	var holding int64
	err := s.db.Model(&models.Booking{}).
		Where("room_id = ? AND status IN ?", roomID,
			[]string{constants.BookingStatusConfirmed, constants.BookingStatusCheckedIn}).
		Count(&holding).Error
	if err != nil {
		s.log.Error("Lỗi kiểm tra đặt phòng còn giữ phòng %s: %v", roomNumber, err)
		return
	}
	if holding > 0 {
		return
	}
	if err := s.rooms.SetRoomStatus(roomID, constants.RoomStatusAvailable); err != nil {
		s.log.Error("Lỗi trả phòng %s về AVAILABLE: %v", roomNumber, err)
	}
}

// Cancel hủy đặt phòng, chỉ từ PENDING hoặc CONFIRMED
func (s *BookingService) Cancel(bookingID uint, reason, cancelledBy string) (*models.Booking, error) {
	unlock := LockBooking(bookingID)
	defer unlock()

	booking, err := s.GetByID(bookingID)
	if err != nil {
		return nil, err
	}
	if !canTransition(booking.Status, constants.BookingStatusCancelled) {
		return nil, errors.NewAppError(errors.ErrCodeInvalidTransition,
			"Không thể hủy đặt phòng ở trạng thái "+booking.Status, nil)
	}

	now := time.Now()
	booking.CancellationFee = CancellationFeeFor(booking, now)
	booking.Status = constants.BookingStatusCancelled
	booking.CancelledAt = &now
	booking.CancellationReason = reason
	booking.CancelledBy = cancelledBy
	RecalculatePricing(booking)

	if err := s.save(booking); err != nil {
		return nil, err
	}

	s.releaseRoomIfIdle(booking.RoomID, booking.RoomNumber)

	if s.notifier != nil {
		if err := s.notifier.SendCancellationNotice(booking); err != nil {
			s.log.Error("Gửi email báo hủy cho %s thất bại: %v", booking.BookingNumber, err)
		}
	}
	s.broadcaster.BroadcastBookingEvent("booking_cancelled", booking)
	return booking, nil
}

// CheckIn nhận phòng: yêu cầu CONFIRMED, tới ngày check-in và CCCD khớp.
// Tiền cọc được coi là đã thanh toán và phòng chuyển sang OCCUPIED.
func (s *BookingService) CheckIn(bookingID uint, req *dto.CheckInRequest) (*models.Booking, error) {
	unlock := LockBooking(bookingID)
	defer unlock()

	booking, err := s.GetByID(bookingID)
	if err != nil {
		return nil, err
	}
	if !canTransition(booking.Status, constants.BookingStatusCheckedIn) {
		return nil, errors.NewAppError(errors.ErrCodeInvalidTransition,
			"Không thể check-in đặt phòng ở trạng thái "+booking.Status, nil)
	}

	today := validator.DateOnly(time.Now())
	if validator.DateOnly(booking.CheckInDate).After(today) {
		return nil, errors.NewAppError(errors.ErrCodeInvalidOperation, "Chưa đến ngày nhận phòng", nil)
	}

	if req == nil || req.GuestVerification == nil {
		return nil, errors.NewAppError(errors.ErrCodeRequiredField, "Cần đối chiếu CCCD khi nhận phòng", nil)
	}
	if !booking.HasCccd(req.GuestVerification.CccdNumber) {
		return nil, errors.NewAppError(errors.ErrCodeCccdMismatch, "Số CCCD không khớp với khách đã đăng ký", nil)
	}

	now := time.Now()
	booking.Status = constants.BookingStatusCheckedIn
	booking.ActualCheckInTime = &now

	if !booking.DepositPaid {
		booking.DepositPaid = true
		booking.DepositPaidDate = &now
		booking.DepositTransactionID = req.DepositTransactionID
		if booking.PaymentStatus == constants.PaymentStatusUnpaid {
			booking.PaymentStatus = constants.PaymentStatusPartiallyPaid
		}
	}

	if err := s.save(booking); err != nil {
		return nil, err
	}
	if err := s.rooms.SetRoomStatus(booking.RoomID, constants.RoomStatusOccupied); err != nil {
		s.log.Error("Lỗi chuyển phòng %s sang OCCUPIED: %v", booking.RoomNumber, err)
	}

	s.broadcaster.BroadcastBookingEvent("booking_checked_in", booking)
	return booking, nil
}

// CheckOut trả phòng: phòng chuyển sang CLEANING chờ dọn
func (s *BookingService) CheckOut(bookingID uint) (*models.Booking, error) {
	unlock := LockBooking(bookingID)
	defer unlock()

	booking, err := s.GetByID(bookingID)
	if err != nil {
		return nil, err
	}
	if !canTransition(booking.Status, constants.BookingStatusCheckedOut) {
		return nil, errors.NewAppError(errors.ErrCodeInvalidTransition,
			"Không thể check-out đặt phòng ở trạng thái "+booking.Status, nil)
	}

	now := time.Now()
	booking.Status = constants.BookingStatusCheckedOut
	booking.ActualCheckOutTime = &now
	booking.RoomCleanedAfterCheckout = false

	if err := s.save(booking); err != nil {
		return nil, err
	}
	if err := s.rooms.SetRoomStatus(booking.RoomID, constants.RoomStatusCleaning); err != nil {
		s.log.Error("Lỗi chuyển phòng %s sang CLEANING: %v", booking.RoomNumber, err)
	}

	s.broadcaster.BroadcastBookingEvent("booking_checked_out", booking)
	return booking, nil
}

// MarkNoShow đánh dấu khách không đến, chỉ từ CONFIRMED
func (s *BookingService) MarkNoShow(bookingID uint) (*models.Booking, error) {
	unlock := LockBooking(bookingID)
	defer unlock()

	booking, err := s.GetByID(bookingID)
	if err != nil {
		return nil, err
	}
	if !canTransition(booking.Status, constants.BookingStatusNoShow) {
		return nil, errors.NewAppError(errors.ErrCodeInvalidTransition,
			"Chỉ đánh dấu không đến được từ trạng thái CONFIRMED", nil)
	}

	booking.Status = constants.BookingStatusNoShow
	if err := s.save(booking); err != nil {
		return nil, err
	}
	s.releaseRoomIfIdle(booking.RoomID, booking.RoomNumber)
	return booking, nil
}

// Complete đóng hồ sơ đặt phòng sau khi khách đã check-out
func (s *BookingService) Complete(bookingID uint) (*models.Booking, error) {
	unlock := LockBooking(bookingID)
	defer unlock()

	booking, err := s.GetByID(bookingID)
	if err != nil {
		return nil, err
	}
	if !canTransition(booking.Status, constants.BookingStatusCompleted) {
		return nil, errors.NewAppError(errors.ErrCodeInvalidTransition,
			"Chỉ hoàn tất được đặt phòng đã check-out", nil)
	}

	booking.Status = constants.BookingStatusCompleted
	if err := s.save(booking); err != nil {
		return nil, err
	}
	return booking, nil
}

// ProcessPayment ghi nhận thanh toán toàn bộ
func (s *BookingService) ProcessPayment(bookingID uint, req *dto.PaymentRequest) (*models.Booking, error) {
	unlock := LockBooking(bookingID)
	defer unlock()

	booking, err := s.GetByID(bookingID)
	if err != nil {
		return nil, err
	}
	if booking.PaymentStatus == constants.PaymentStatusPaid {
		return nil, errors.NewAppError(errors.ErrCodeAlreadyPaid, "Đặt phòng đã được thanh toán", nil)
	}

	now := time.Now()
	booking.PaymentStatus = constants.PaymentStatusPaid
	booking.PaymentMethod = req.PaymentMethod
	booking.PaymentTransactionID = req.PaymentTransactionID
	booking.PaymentDate = &now

	if err := s.save(booking); err != nil {
		return nil, err
	}
	return booking, nil
}

// ProcessDeposit ghi nhận thanh toán tiền cọc
func (s *BookingService) ProcessDeposit(bookingID uint, transactionID string) (*models.Booking, error) {
	unlock := LockBooking(bookingID)
	defer unlock()

	booking, err := s.GetByID(bookingID)
	if err != nil {
		return nil, err
	}
	if booking.DepositPaid {
		return nil, errors.NewAppError(errors.ErrCodeDepositPaid, "Tiền cọc đã được thanh toán", nil)
	}

	now := time.Now()
	booking.DepositPaid = true
	booking.DepositPaidDate = &now
	booking.DepositTransactionID = transactionID
	if booking.PaymentStatus == constants.PaymentStatusUnpaid {
		booking.PaymentStatus = constants.PaymentStatusPartiallyPaid
	}

	if err := s.save(booking); err != nil {
		return nil, err
	}
	return booking, nil
}

// Refund hoàn tiền, chỉ cho đặt phòng đã hủy và đã thanh toán đủ
func (s *BookingService) Refund(bookingID uint) (*models.Booking, error) {
	unlock := LockBooking(bookingID)
	defer unlock()

	booking, err := s.GetByID(bookingID)
	if err != nil {
		return nil, err
	}
	if booking.Status != constants.BookingStatusCancelled || booking.PaymentStatus != constants.PaymentStatusPaid {
		return nil, errors.NewAppError(errors.ErrCodeNotRefundable,
			"Chỉ hoàn tiền được cho đặt phòng đã hủy và đã thanh toán", nil)
	}

	booking.PaymentStatus = constants.PaymentStatusRefunded
	if err := s.save(booking); err != nil {
		return nil, err
	}
	return booking, nil
}

// AddServiceCharge thêm phí dịch vụ phát sinh trong thời gian ở
func (s *BookingService) AddServiceCharge(bookingID uint, req *dto.AddServiceChargeRequest, addedBy string) (*models.Booking, error) {
	unlock := LockBooking(bookingID)
	defer unlock()

	booking, err := s.GetByID(bookingID)
	if err != nil {
		return nil, err
	}
	if booking.Status != constants.BookingStatusCheckedIn && booking.Status != constants.BookingStatusCheckedOut {
		return nil, errors.NewAppError(errors.ErrCodeInvalidOperation,
			"Chỉ thêm phí dịch vụ khi khách đã nhận phòng", nil)
	}
	if req.Amount <= 0 || req.Quantity < 1 {
		return nil, errors.NewAppError(errors.ErrCodeInvalidAmount, "Đơn giá và số lượng phí dịch vụ không hợp lệ", nil)
	}

	charge := models.BookingCharge{
		BookingID:   booking.ID,
		ServiceType: req.ServiceType,
		Description: req.Description,
		Amount:      req.Amount,
		Quantity:    req.Quantity,
		ChargeDate:  time.Now(),
		AddedBy:     addedBy,
	}
	if err := s.db.Create(&charge).Error; err != nil {
		return nil, errors.NewAppError(errors.ErrCodeDBError, "Lỗi thêm phí dịch vụ", err)
	}

	booking.AdditionalCharges = append(booking.AdditionalCharges, charge)
	RecalculatePricing(booking)

	if err := s.save(booking); err != nil {
		return nil, err
	}
	return booking, nil
}

// RemoveServiceCharge xóa một dòng phí dịch vụ theo ID
func (s *BookingService) RemoveServiceCharge(bookingID, chargeID uint) (*models.Booking, error) {
	unlock := LockBooking(bookingID)
	defer unlock()

	booking, err := s.GetByID(bookingID)
	if err != nil {
		return nil, err
	}
	if booking.Status != constants.BookingStatusCheckedIn && booking.Status != constants.BookingStatusCheckedOut {
		return nil, errors.NewAppError(errors.ErrCodeInvalidOperation,
			"Chỉ điều chỉnh phí dịch vụ khi khách đã nhận phòng", nil)
	}

	found := false
	remaining := booking.AdditionalCharges[:0]
	for _, charge := range booking.AdditionalCharges {
		if charge.ID == chargeID {
			found = true
			continue
		}
		remaining = append(remaining, charge)
	}
	if !found {
		return nil, errors.NewAppError(errors.ErrCodeChargeNotFound, "Không tìm thấy phí dịch vụ", nil)
	}

	if err := s.db.Delete(&models.BookingCharge{}, chargeID).Error; err != nil {
		return nil, errors.NewAppError(errors.ErrCodeDBError, "Lỗi xóa phí dịch vụ", err)
	}

	booking.AdditionalCharges = remaining
	RecalculatePricing(booking)

	if err := s.save(booking); err != nil {
		return nil, err
	}
	return booking, nil
}

// ApplyDiscount áp dụng giảm giá, không vượt quá tiền phòng
func (s *BookingService) ApplyDiscount(bookingID uint, discountAmount float64) (*models.Booking, error) {
	unlock := LockBooking(bookingID)
	defer unlock()

	booking, err := s.GetByID(bookingID)
	if err != nil {
		return nil, err
	}
	if booking.Status == constants.BookingStatusCancelled || booking.Status == constants.BookingStatusCompleted {
		return nil, errors.NewAppError(errors.ErrCodeInvalidOperation,
			"Không áp dụng giảm giá được cho đặt phòng ở trạng thái "+booking.Status, nil)
	}
	if err := validator.ValidateDiscount(discountAmount, booking.Subtotal); err != nil {
		return nil, err
	}

	booking.Discount = discountAmount
	RecalculatePricing(booking)

	if err := s.save(booking); err != nil {
		return nil, err
	}
	return booking, nil
}

// ApproveEarlyCheckIn duyệt nhận phòng sớm kèm phụ phí
func (s *BookingService) ApproveEarlyCheckIn(bookingID uint, fee float64) (*models.Booking, error) {
	unlock := LockBooking(bookingID)
	defer unlock()

	booking, err := s.GetByID(bookingID)
	if err != nil {
		return nil, err
	}
	if booking.Status != constants.BookingStatusPending && booking.Status != constants.BookingStatusConfirmed {
		return nil, errors.NewAppError(errors.ErrCodeInvalidOperation,
			"Chỉ duyệt nhận phòng sớm trước khi khách check-in", nil)
	}
	if fee < 0 {
		return nil, errors.NewAppError(errors.ErrCodeInvalidAmount, "Phụ phí không hợp lệ", nil)
	}
	if fee == 0 {
		fee = constants.DefaultEarlyCheckInFee
	}

	booking.IsEarlyCheckIn = true
	booking.EarlyCheckInFee = fee
	RecalculatePricing(booking)

	if err := s.save(booking); err != nil {
		return nil, err
	}
	return booking, nil
}

// ApproveLateCheckOut duyệt trả phòng muộn kèm phụ phí
func (s *BookingService) ApproveLateCheckOut(bookingID uint, fee float64) (*models.Booking, error) {
	unlock := LockBooking(bookingID)
	defer unlock()

	booking, err := s.GetByID(bookingID)
	if err != nil {
		return nil, err
	}
	switch booking.Status {
	case constants.BookingStatusPending, constants.BookingStatusConfirmed, constants.BookingStatusCheckedIn:
	default:
		return nil, errors.NewAppError(errors.ErrCodeInvalidOperation,
			"Không duyệt trả phòng muộn được cho đặt phòng ở trạng thái "+booking.Status, nil)
	}
	if fee < 0 {
		return nil, errors.NewAppError(errors.ErrCodeInvalidAmount, "Phụ phí không hợp lệ", nil)
	}
	if fee == 0 {
		fee = constants.DefaultLateCheckOutFee
	}

	booking.IsLateCheckOut = true
	booking.LateCheckOutFee = fee
	RecalculatePricing(booking)

	if err := s.save(booking); err != nil {
		return nil, err
	}
	return booking, nil
}

// AddAdminNotes nối thêm ghi chú nội bộ kèm thời điểm ghi
func (s *BookingService) AddAdminNotes(bookingID uint, notes string) (*models.Booking, error) {
	unlock := LockBooking(bookingID)
	defer unlock()

	booking, err := s.GetByID(bookingID)
	if err != nil {
		return nil, err
	}

	entry := "[" + time.Now().Format("02/01/2006 15:04") + "] " + notes
	if booking.AdminNotes == "" {
		booking.AdminNotes = entry
	} else {
		booking.AdminNotes = booking.AdminNotes + "\n" + entry
	}

	if err := s.save(booking); err != nil {
		return nil, err
	}
	return booking, nil
}

// MarkRoomCleaned xác nhận phòng đã dọn xong sau check-out, phòng trống trở lại
func (s *BookingService) MarkRoomCleaned(bookingID uint) (*models.Booking, error) {
	unlock := LockBooking(bookingID)
	defer unlock()

	booking, err := s.GetByID(bookingID)
	if err != nil {
		return nil, err
	}
	if booking.Status != constants.BookingStatusCheckedOut && booking.Status != constants.BookingStatusCompleted {
		return nil, errors.NewAppError(errors.ErrCodeInvalidOperation,
			"Chỉ xác nhận dọn phòng sau khi khách đã check-out", nil)
	}

	booking.RoomCleanedAfterCheckout = true
	if err := s.save(booking); err != nil {
		return nil, err
	}
	if err := s.rooms.SetRoomStatus(booking.RoomID, constants.RoomStatusAvailable); err != nil {
		s.log.Error("Lỗi chuyển phòng %s sang AVAILABLE: %v", booking.RoomNumber, err)
	}
	return booking, nil
}

// SweepReminders gửi email nhắc các booking CONFIRMED có ngày check-in là ngày mai.
// Cờ reminder_email_sent được set ngay sau khi gửi để không nhắc trùng.
func (s *BookingService) SweepReminders() (int, error) {
	tomorrow := validator.DateOnly(time.Now()).AddDate(0, 0, 1)
	dayAfter := tomorrow.AddDate(0, 0, 1)

	var bookings []models.Booking
	err := s.db.
		Where("status = ?", constants.BookingStatusConfirmed).
		Where("reminder_email_sent = ?", false).
		Where("check_in_date >= ? AND check_in_date < ?", tomorrow, dayAfter).
		Find(&bookings).Error
	if err != nil {
		return 0, errors.NewAppError(errors.ErrCodeDBError, "Lỗi truy vấn booking cần nhắc", err)
	}

	sent := 0
	for i := range bookings {
		booking := &bookings[i]
		if s.notifier != nil {
			if err := s.notifier.SendCheckInReminder(booking); err != nil {
				s.log.Error("Gửi email nhắc cho %s thất bại: %v", booking.BookingNumber, err)
				continue
			}
		}
		if err := s.db.Model(booking).Update("reminder_email_sent", true).Error; err != nil {
			s.log.Error("Lỗi cập nhật cờ nhắc cho %s: %v", booking.BookingNumber, err)
			continue
		}
		sent++
	}
	return sent, nil
}
