package dto

import "github.com/mavryk256/hotel-management/models"

// BookingStatistics tổng hợp số liệu đặt phòng toàn hệ thống
type BookingStatistics struct {
	TotalBookings     int `json:"totalBookings"`
	PendingBookings   int `json:"pendingBookings"`
	ConfirmedBookings int `json:"confirmedBookings"`
	CheckedInBookings int `json:"checkedInBookings"`
	CompletedBookings int `json:"completedBookings"`
	CancelledBookings int `json:"cancelledBookings"`
	NoShowBookings    int `json:"noShowBookings"`

	TotalRevenue  float64 `json:"totalRevenue"`
	PaidRevenue   float64 `json:"paidRevenue"`
	UnpaidRevenue float64 `json:"unpaidRevenue"`

	TodayCheckIns  int `json:"todayCheckIns"`
	TodayCheckOuts int `json:"todayCheckOuts"`

	AverageBookingValue float64 `json:"averageBookingValue"`
	CancellationRate    float64 `json:"cancellationRate"`
}

// RevenueReport doanh thu trong một khoảng thời gian
type RevenueReport struct {
	TotalRevenue          float64 `json:"totalRevenue"`
	RoomRevenue           float64 `json:"roomRevenue"`
	ServiceChargesRevenue float64 `json:"serviceChargesRevenue"`
	BookingCount          int     `json:"bookingCount"`
}

// OccupancyReport tỷ lệ lấp đầy phòng trong một khoảng thời gian
type OccupancyReport struct {
	OccupancyRate    float64 `json:"occupancyRate"`
	OccupiedRoomDays int64   `json:"occupiedRoomDays"`
	TotalRoomDays    int64   `json:"totalRoomDays"`
	ActiveRooms      int     `json:"activeRooms"`
}

// DailyOperationsReport báo cáo vận hành trong ngày
type DailyOperationsReport struct {
	ExpectedCheckIns  int              `json:"expectedCheckIns"`
	CheckInsList      []models.Booking `json:"checkInsList"`
	ExpectedCheckOuts int              `json:"expectedCheckOuts"`
	CheckOutsList     []models.Booking `json:"checkOutsList"`

	DailyRevenue  float64 `json:"dailyRevenue"`
	PaymentsCount int     `json:"paymentsCount"`

	OccupancyRate        float64 `json:"occupancyRate"`
	OccupiedRooms        int     `json:"occupiedRooms"`
	TotalRooms           int     `json:"totalRooms"`
	RoomsNeedingCleaning int     `json:"roomsNeedingCleaning"`
}

// MonthlyReport báo cáo tháng
type MonthlyReport struct {
	TotalBookings       int              `json:"totalBookings"`
	BookingsByStatus    map[string]int64 `json:"bookingsByStatus"`
	BookingsBySource    map[string]int64 `json:"bookingsBySource"`
	TotalRevenue        float64          `json:"totalRevenue"`
	AverageBookingValue float64          `json:"averageBookingValue"`
	OccupancyRate       float64          `json:"occupancyRate"`
	CancellationRate    float64          `json:"cancellationRate"`
	TopRooms            map[string]int64 `json:"topRooms"`
}
