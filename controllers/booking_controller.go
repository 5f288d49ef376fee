package controllers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/mavryk256/hotel-management/config"
	"github.com/mavryk256/hotel-management/dto"
	"github.com/mavryk256/hotel-management/models"
	"github.com/mavryk256/hotel-management/response"
	"github.com/mavryk256/hotel-management/services"
	"github.com/mavryk256/hotel-management/services/notification"
)

// BookingController xử lý các request về vòng đời đặt phòng
type BookingController struct {
	db  *gorm.DB
	rdb *redis.Client
	svc *services.BookingService
}

func NewBookingController(db *gorm.DB, rdb *redis.Client, notifier notification.Sender, broadcaster *notification.Broadcaster) *BookingController {
	return &BookingController{
		db:  db,
		rdb: rdb,
		svc: services.NewBookingService(db, rdb, notifier, broadcaster),
	}
}

// Service trả về service bên dưới, dùng khi wire cron job
func (ctrl *BookingController) Service() *services.BookingService {
	return ctrl.svc
}

func parseIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "ID không hợp lệ")
		return 0, false
	}
	return uint(id), true
}

func currentUserID(c *gin.Context) (uint, bool) {
	val, exists := c.Get("userID")
	if !exists {
		response.Unauthorized(c)
		return 0, false
	}
	userID, ok := val.(uint)
	if !ok {
		response.Unauthorized(c)
		return 0, false
	}
	return userID, true
}

// CreateBooking tạo đặt phòng mới cho user đang đăng nhập
func (ctrl *BookingController) CreateBooking(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req dto.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Dữ liệu không hợp lệ")
		return
	}

	booking, err := ctrl.svc.Create(config.Ctx, userID, &req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, booking)
}

// CreateGroupBooking đặt nhiều phòng cùng lúc, tất cả hoặc không phòng nào
func (ctrl *BookingController) CreateGroupBooking(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req dto.GroupBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Dữ liệu không hợp lệ")
		return
	}

	bookings, err := ctrl.svc.CreateGroup(config.Ctx, userID, &req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, bookings)
}

// GetBookings tìm kiếm đặt phòng theo tiêu chí, có phân trang.
// Danh sách không lọc được cache trên Redis, các truy vấn có lọc đi thẳng xuống DB.
func (ctrl *BookingController) GetBookings(c *gin.Context) {
	var req dto.BookingSearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "Tiêu chí tìm kiếm không hợp lệ")
		return
	}

	unfiltered := len(c.Request.URL.Query()) == 0
	if unfiltered && ctrl.rdb != nil {
		var cached []models.Booking
		if err := services.GetFromRedis(config.Ctx, ctrl.rdb, services.CacheKeyAllBookings, &cached); err == nil && len(cached) > 0 {
			page, limit := 0, 10
			end := limit
			if end > len(cached) {
				end = len(cached)
			}
			response.SuccessWithPagination(c, cached[:end], page, limit, len(cached))
			return
		}
	}

	bookings, total, err := ctrl.svc.Search(&req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	if unfiltered && ctrl.rdb != nil {
		_ = services.SetToRedis(config.Ctx, ctrl.rdb, services.CacheKeyAllBookings, bookings, services.BookingCacheTTL)
	}

	page := req.Page
	limit := req.Limit
	if limit < 1 {
		limit = 10
	}
	response.SuccessWithPagination(c, bookings, page, limit, total)
}

// GetBookingByID lấy chi tiết một đặt phòng
func (ctrl *BookingController) GetBookingByID(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	booking, err := ctrl.svc.GetByID(id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, booking)
}

// GetBookingByNumber tra cứu đặt phòng theo mã BKyyyyMMddNNNN
func (ctrl *BookingController) GetBookingByNumber(c *gin.Context) {
	number := c.Query("bookingNumber")
	if number == "" {
		response.BadRequest(c, "Thiếu mã đặt phòng")
		return
	}
	booking, err := ctrl.svc.GetByNumber(number)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, booking)
}

// GetBookingsByCccd tra cứu đặt phòng theo số CCCD của khách, dùng cho lễ tân
func (ctrl *BookingController) GetBookingsByCccd(c *gin.Context) {
	cccd := c.Query("cccdNumber")
	if cccd == "" {
		response.BadRequest(c, "Thiếu số CCCD")
		return
	}
	req := dto.BookingSearchRequest{CccdNumber: cccd}
	bookings, total, err := ctrl.svc.Search(&req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.SuccessWithTotal(c, bookings, total)
}

// GetBookingsByStatus danh sách đặt phòng theo trạng thái
func (ctrl *BookingController) GetBookingsByStatus(c *gin.Context) {
	status := c.Query("status")
	if status == "" {
		response.BadRequest(c, "Thiếu trạng thái đặt phòng")
		return
	}
	bookings, err := ctrl.svc.GetBookingsByStatus(status)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.SuccessWithTotal(c, bookings, len(bookings))
}

// UpdateBooking sửa đặt phòng còn ở PENDING hoặc CONFIRMED
func (ctrl *BookingController) UpdateBooking(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req dto.UpdateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Dữ liệu không hợp lệ")
		return
	}

	booking, err := ctrl.svc.Update(config.Ctx, id, &req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, booking)
}

// ConfirmBooking xác nhận đặt phòng
func (ctrl *BookingController) ConfirmBooking(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	booking, err := ctrl.svc.Confirm(id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, booking)
}

// CancelBooking hủy đặt phòng, phí hủy tính theo chính sách 24 giờ
func (ctrl *BookingController) CancelBooking(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req dto.CancelBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Thiếu lý do hủy")
		return
	}

	cancelledBy := "user"
	if roleVal, exists := c.Get("userRole"); exists {
		if role, ok := roleVal.(int); ok && role != 0 {
			cancelledBy = "admin"
		}
	}

	booking, err := ctrl.svc.Cancel(id, req.CancellationReason, cancelledBy)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, booking)
}

// CheckInBooking nhận phòng, đối chiếu CCCD của khách
func (ctrl *BookingController) CheckInBooking(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req dto.CheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Dữ liệu không hợp lệ")
		return
	}

	booking, err := ctrl.svc.CheckIn(id, &req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, booking)
}

// CheckOutBooking trả phòng
func (ctrl *BookingController) CheckOutBooking(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	booking, err := ctrl.svc.CheckOut(id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, booking)
}

// MarkNoShow đánh dấu khách không đến
func (ctrl *BookingController) MarkNoShow(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	booking, err := ctrl.svc.MarkNoShow(id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, booking)
}

// CompleteBooking đóng hồ sơ sau khi trả phòng và thanh toán đủ
func (ctrl *BookingController) CompleteBooking(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	booking, err := ctrl.svc.Complete(id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, booking)
}

// ProcessPayment ghi nhận thanh toán toàn bộ
func (ctrl *BookingController) ProcessPayment(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req dto.PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Dữ liệu thanh toán không hợp lệ")
		return
	}

	booking, err := ctrl.svc.ProcessPayment(id, &req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, booking)
}

// ProcessDeposit ghi nhận thanh toán tiền cọc
func (ctrl *BookingController) ProcessDeposit(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req struct {
		TransactionID string `json:"transactionId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Dữ liệu không hợp lệ")
		return
	}

	booking, err := ctrl.svc.ProcessDeposit(id, req.TransactionID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, booking)
}

// RefundPayment hoàn tiền cho đặt phòng đã hủy và đã thanh toán
func (ctrl *BookingController) RefundPayment(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	booking, err := ctrl.svc.Refund(id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, booking)
}

// AddServiceCharge thêm phí dịch vụ phát sinh
func (ctrl *BookingController) AddServiceCharge(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req dto.AddServiceChargeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Dữ liệu phí dịch vụ không hợp lệ")
		return
	}

	addedBy := "receptionist"
	if val, exists := c.Get("userID"); exists {
		if uid, ok := val.(uint); ok {
			addedBy = "user:" + strconv.FormatUint(uint64(uid), 10)
		}
	}

	booking, err := ctrl.svc.AddServiceCharge(id, &req, addedBy)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, booking)
}

// RemoveServiceCharge xóa một dòng phí dịch vụ theo ID
func (ctrl *BookingController) RemoveServiceCharge(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	chargeID, err := strconv.ParseUint(c.Param("chargeId"), 10, 32)
	if err != nil {
		response.BadRequest(c, "ID phí dịch vụ không hợp lệ")
		return
	}

	booking, svcErr := ctrl.svc.RemoveServiceCharge(id, uint(chargeID))
	if svcErr != nil {
		response.FromError(c, svcErr)
		return
	}
	response.Success(c, booking)
}

// ApplyDiscount áp dụng giảm giá
func (ctrl *BookingController) ApplyDiscount(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req dto.ApplyDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Mức giảm giá không hợp lệ")
		return
	}

	booking, err := ctrl.svc.ApplyDiscount(id, req.DiscountAmount)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, booking)
}

// ApproveEarlyCheckIn duyệt nhận phòng sớm
func (ctrl *BookingController) ApproveEarlyCheckIn(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req dto.ApproveFeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Phụ phí không hợp lệ")
		return
	}

	booking, err := ctrl.svc.ApproveEarlyCheckIn(id, req.Fee)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, booking)
}

// ApproveLateCheckOut duyệt trả phòng muộn
func (ctrl *BookingController) ApproveLateCheckOut(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req dto.ApproveFeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Phụ phí không hợp lệ")
		return
	}

	booking, err := ctrl.svc.ApproveLateCheckOut(id, req.Fee)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, booking)
}

// AddAdminNotes ghi chú nội bộ cho đặt phòng
func (ctrl *BookingController) AddAdminNotes(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req dto.AdminNotesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Thiếu nội dung ghi chú")
		return
	}

	booking, err := ctrl.svc.AddAdminNotes(id, req.Notes)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, booking)
}

// MarkRoomCleaned xác nhận phòng đã dọn xong sau check-out
func (ctrl *BookingController) MarkRoomCleaned(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	booking, err := ctrl.svc.MarkRoomCleaned(id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, booking)
}

// GetMyBookings toàn bộ đặt phòng của user đang đăng nhập
func (ctrl *BookingController) GetMyBookings(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	bookings, err := ctrl.svc.GetUserBookings(userID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.SuccessWithTotal(c, bookings, len(bookings))
}

// GetMyUpcomingBookings các đặt phòng sắp tới của user đang đăng nhập
func (ctrl *BookingController) GetMyUpcomingBookings(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	bookings, err := ctrl.svc.GetUserUpcomingBookings(userID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.SuccessWithTotal(c, bookings, len(bookings))
}

// GetMyBookingHistory lịch sử ở của user đang đăng nhập
func (ctrl *BookingController) GetMyBookingHistory(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	bookings, err := ctrl.svc.GetUserBookingHistory(userID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.SuccessWithTotal(c, bookings, len(bookings))
}

// GetGroupBookings các đặt phòng cùng một nhóm
func (ctrl *BookingController) GetGroupBookings(c *gin.Context) {
	groupID := c.Param("groupId")
	bookings, err := ctrl.svc.GetGroupBookings(groupID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.SuccessWithTotal(c, bookings, len(bookings))
}

// GetRoomBookings toàn bộ đặt phòng của một phòng
func (ctrl *BookingController) GetRoomBookings(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	bookings, err := ctrl.svc.GetRoomBookings(id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.SuccessWithTotal(c, bookings, len(bookings))
}

// SweepReminders chạy tay đợt nhắc nhận phòng (bình thường do cron chạy)
func (ctrl *BookingController) SweepReminders(c *gin.Context) {
	sent, err := ctrl.svc.SweepReminders()
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, gin.H{"remindersSent": sent})
}
