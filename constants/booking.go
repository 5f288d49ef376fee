package constants

// Quy tắc tính giá
const (
	TaxRate           = 0.10 // 10% VAT
	ServiceChargeRate = 0.05 // 5% phí dịch vụ
	DepositRate       = 0.30 // Đặt cọc 30% tổng tiền
)

// Chính sách hủy phòng
const (
	FreeCancellationHours = 24   // Hủy miễn phí trước 24h
	CancellationFeeRate   = 0.20 // Phí hủy 20%
)

// Mã đặt phòng: BK + yyyyMMdd + 4 số
const (
	BookingNumberPrefix     = "BK"
	BookingNumberDateLayout = "20060102"
)

// Check-in / check-out
const (
	CheckInHour            = 14
	CheckOutHour           = 12
	DefaultEarlyCheckInFee = 100_000 // VND
	DefaultLateCheckOutFee = 100_000 // VND
)

// Giới hạn đặt phòng
const (
	MinNights             = 1
	MaxNights             = 30
	MaxAdvanceBookingDays = 365
	MaxGroupSize          = 10
)

// Layout ngày dùng trong API (dd/MM/yyyy)
const DateLayout = "02/01/2006"

// Loại phí dịch vụ phát sinh
const (
	ServiceTypeMinibar     = "MINIBAR"
	ServiceTypeLaundry     = "LAUNDRY"
	ServiceTypeRoomService = "ROOM_SERVICE"
	ServiceTypeSpa         = "SPA"
	ServiceTypeParking     = "PARKING"
)
