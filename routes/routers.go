package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/olahol/melody"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/mavryk256/hotel-management/controllers"
	middlewares "github.com/mavryk256/hotel-management/middleware"
	"github.com/mavryk256/hotel-management/services/notification"
)

func SetupRoutes(router *gin.Engine, db *gorm.DB, redisCli *redis.Client, m *melody.Melody) *controllers.BookingController {

	notifier := notification.NewEmailSender()
	broadcaster := notification.NewBroadcaster(m)

	bookingController := controllers.NewBookingController(db, redisCli, notifier, broadcaster)
	availabilityController := controllers.NewAvailabilityController(db)
	reportController := controllers.NewReportController(db, redisCli)

	v1 := router.Group("/api/v1")
	v1.Use(middlewares.SessionMiddleware())

	// Vòng đời đặt phòng
	v1.POST("/bookings", middlewares.AuthMiddleware(0, 1, 2, 3), bookingController.CreateBooking)
	v1.POST("/bookings/group", middlewares.AuthMiddleware(0, 1, 2, 3), bookingController.CreateGroupBooking)
	v1.GET("/bookings", middlewares.AuthMiddleware(1, 2, 3), bookingController.GetBookings)
	v1.GET("/bookings/:id", middlewares.AuthMiddleware(0, 1, 2, 3), bookingController.GetBookingByID)
	v1.GET("/bookingByNumber", middlewares.AuthMiddleware(0, 1, 2, 3), bookingController.GetBookingByNumber)
	v1.GET("/bookingsByCccd", middlewares.AuthMiddleware(1, 2, 3), bookingController.GetBookingsByCccd)
	v1.GET("/bookingsByStatus", middlewares.AuthMiddleware(1, 2, 3), bookingController.GetBookingsByStatus)
	v1.PUT("/bookings/:id", middlewares.AuthMiddleware(0, 1, 2, 3), bookingController.UpdateBooking)
	v1.PUT("/bookings/:id/confirm", middlewares.AuthMiddleware(1, 2, 3), bookingController.ConfirmBooking)
	v1.PUT("/bookings/:id/cancel", middlewares.AuthMiddleware(0, 1, 2, 3), bookingController.CancelBooking)
	v1.PUT("/bookings/:id/checkin", middlewares.AuthMiddleware(1, 2, 3), bookingController.CheckInBooking)
	v1.PUT("/bookings/:id/checkout", middlewares.AuthMiddleware(1, 2, 3), bookingController.CheckOutBooking)
	v1.PUT("/bookings/:id/noshow", middlewares.AuthMiddleware(1, 2, 3), bookingController.MarkNoShow)
	v1.PUT("/bookings/:id/complete", middlewares.AuthMiddleware(1, 2, 3), bookingController.CompleteBooking)

	// Thanh toán
	v1.PUT("/bookings/:id/payment", middlewares.AuthMiddleware(1, 2, 3), bookingController.ProcessPayment)
	v1.PUT("/bookings/:id/deposit", middlewares.AuthMiddleware(1, 2, 3), bookingController.ProcessDeposit)
	v1.PUT("/bookings/:id/refund", middlewares.AuthMiddleware(1, 2), bookingController.RefundPayment)

	// Phí dịch vụ, giảm giá, phụ phí
	v1.POST("/bookings/:id/charges", middlewares.AuthMiddleware(1, 2, 3), bookingController.AddServiceCharge)
	v1.DELETE("/bookings/:id/charges/:chargeId", middlewares.AuthMiddleware(1, 2, 3), bookingController.RemoveServiceCharge)
	v1.PUT("/bookings/:id/discount", middlewares.AuthMiddleware(1, 2), bookingController.ApplyDiscount)
	v1.PUT("/bookings/:id/earlyCheckin", middlewares.AuthMiddleware(1, 2, 3), bookingController.ApproveEarlyCheckIn)
	v1.PUT("/bookings/:id/lateCheckout", middlewares.AuthMiddleware(1, 2, 3), bookingController.ApproveLateCheckOut)
	v1.PUT("/bookings/:id/notes", middlewares.AuthMiddleware(1, 2, 3), bookingController.AddAdminNotes)
	v1.PUT("/bookings/:id/cleaned", middlewares.AuthMiddleware(1, 2, 3), bookingController.MarkRoomCleaned)

	// Truy vấn theo user / phòng / nhóm
	v1.GET("/myBookings", middlewares.AuthMiddleware(0, 1, 2, 3), bookingController.GetMyBookings)
	v1.GET("/upcomingBookings", middlewares.AuthMiddleware(0, 1, 2, 3), bookingController.GetMyUpcomingBookings)
	v1.GET("/bookingHistory", middlewares.AuthMiddleware(0, 1, 2, 3), bookingController.GetMyBookingHistory)
	v1.GET("/groupBookings/:groupId", middlewares.AuthMiddleware(1, 2, 3), bookingController.GetGroupBookings)
	v1.GET("/roomBookings/:id", middlewares.AuthMiddleware(1, 2, 3), bookingController.GetRoomBookings)

	// Phòng trống
	v1.GET("/availability", availabilityController.CheckAvailability)
	v1.GET("/unavailableDates", availabilityController.GetUnavailableDates)
	v1.POST("/availability/batch", availabilityController.BatchAvailability)

	// Thống kê, báo cáo
	v1.GET("/bookingStatistics", middlewares.AuthMiddleware(1, 2), reportController.GetStatistics)
	v1.GET("/revenueReport", middlewares.AuthMiddleware(1, 2), reportController.GetRevenueReport)
	v1.GET("/occupancyRate", middlewares.AuthMiddleware(1, 2), reportController.GetOccupancyReport)
	v1.GET("/dailyReport", middlewares.AuthMiddleware(1, 2, 3), reportController.GetDailyReport)
	v1.GET("/monthlyReport", middlewares.AuthMiddleware(1, 2), reportController.GetMonthlyReport)
	v1.GET("/bookingsBySource", middlewares.AuthMiddleware(1, 2), reportController.GetBookingsBySource)
	v1.GET("/todayCheckins", middlewares.AuthMiddleware(1, 2, 3), reportController.GetTodayCheckIns)
	v1.GET("/todayCheckouts", middlewares.AuthMiddleware(1, 2, 3), reportController.GetTodayCheckOuts)
	v1.GET("/roomsNeedingCleaning", middlewares.AuthMiddleware(1, 2, 3), reportController.GetRoomsNeedingCleaning)

	// Nhắc nhận phòng, bình thường do cron chạy
	v1.POST("/reminders/sweep", middlewares.AuthMiddleware(1, 2), bookingController.SweepReminders)

	return bookingController
}
