package controllers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/mavryk256/hotel-management/config"
	"github.com/mavryk256/hotel-management/response"
	"github.com/mavryk256/hotel-management/services"
	"github.com/mavryk256/hotel-management/validator"
)

// ReportController xử lý các request thống kê, báo cáo cho quản trị
type ReportController struct {
	svc *services.BookingService
}

func NewReportController(db *gorm.DB, rdb *redis.Client) *ReportController {
	return &ReportController{svc: services.NewBookingService(db, rdb, nil, nil)}
}

// parseRangeQuery đọc khoảng ngày từ query, mặc định 30 ngày gần nhất
func parseRangeQuery(c *gin.Context) (time.Time, time.Time, bool) {
	to := validator.DateOnly(time.Now())
	from := to.AddDate(0, 0, -30)

	if fromStr := c.Query("fromDate"); fromStr != "" {
		parsed, err := validator.ParseBookingDate(fromStr)
		if err != nil {
			response.FromError(c, err)
			return time.Time{}, time.Time{}, false
		}
		from = parsed
	}
	if toStr := c.Query("toDate"); toStr != "" {
		parsed, err := validator.ParseBookingDate(toStr)
		if err != nil {
			response.FromError(c, err)
			return time.Time{}, time.Time{}, false
		}
		to = parsed
	}
	if to.Before(from) {
		response.BadRequest(c, "Khoảng ngày không hợp lệ")
		return time.Time{}, time.Time{}, false
	}
	return from, to, true
}

// GetStatistics số liệu tổng hợp toàn hệ thống
func (ctrl *ReportController) GetStatistics(c *gin.Context) {
	stats, err := ctrl.svc.Statistics(config.Ctx)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, stats)
}

// GetRevenueReport doanh thu theo ngày thanh toán trong một khoảng
func (ctrl *ReportController) GetRevenueReport(c *gin.Context) {
	from, to, ok := parseRangeQuery(c)
	if !ok {
		return
	}
	report, err := ctrl.svc.RevenueByRange(from, to)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, report)
}

// GetOccupancyReport tỷ lệ lấp đầy trong một khoảng
func (ctrl *ReportController) GetOccupancyReport(c *gin.Context) {
	from, to, ok := parseRangeQuery(c)
	if !ok {
		return
	}
	report, err := ctrl.svc.OccupancyRate(from, to)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, report)
}

// GetDailyReport báo cáo vận hành trong ngày cho lễ tân
func (ctrl *ReportController) GetDailyReport(c *gin.Context) {
	day := time.Now()
	if dayStr := c.Query("date"); dayStr != "" {
		parsed, err := validator.ParseBookingDate(dayStr)
		if err != nil {
			response.FromError(c, err)
			return
		}
		day = parsed
	}

	report, err := ctrl.svc.DailyOperations(day)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, report)
}

// GetMonthlyReport báo cáo tháng, mặc định tháng hiện tại
func (ctrl *ReportController) GetMonthlyReport(c *gin.Context) {
	nowTime := time.Now()
	year := nowTime.Year()
	month := nowTime.Month()

	if yearStr := c.Query("year"); yearStr != "" {
		parsed, err := strconv.Atoi(yearStr)
		if err != nil {
			response.BadRequest(c, "Năm không hợp lệ")
			return
		}
		year = parsed
	}
	if monthStr := c.Query("month"); monthStr != "" {
		parsed, err := strconv.Atoi(monthStr)
		if err != nil || parsed < 1 || parsed > 12 {
			response.BadRequest(c, "Tháng không hợp lệ")
			return
		}
		month = time.Month(parsed)
	}

	report, err := ctrl.svc.Monthly(year, month)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, report)
}

// GetBookingsBySource đếm đặt phòng theo kênh trong một khoảng
func (ctrl *ReportController) GetBookingsBySource(c *gin.Context) {
	from, to, ok := parseRangeQuery(c)
	if !ok {
		return
	}
	counts, err := ctrl.svc.BookingsBySource(from, to)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, counts)
}

// GetTodayCheckIns danh sách dự kiến nhận phòng trong ngày
func (ctrl *ReportController) GetTodayCheckIns(c *gin.Context) {
	bookings, err := ctrl.svc.TodayCheckIns()
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.SuccessWithTotal(c, bookings, len(bookings))
}

// GetTodayCheckOuts danh sách dự kiến trả phòng trong ngày
func (ctrl *ReportController) GetTodayCheckOuts(c *gin.Context) {
	bookings, err := ctrl.svc.TodayCheckOuts()
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.SuccessWithTotal(c, bookings, len(bookings))
}

// GetRoomsNeedingCleaning các booking đã trả phòng nhưng phòng chưa dọn
func (ctrl *ReportController) GetRoomsNeedingCleaning(c *gin.Context) {
	bookings, err := ctrl.svc.RoomsNeedingCleaning()
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.SuccessWithTotal(c, bookings, len(bookings))
}
