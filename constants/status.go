package constants

// User status
const (
	UserStatusActive   = 1
	UserStatusInactive = 0
)

// Booking status
const (
	BookingStatusPending    = "PENDING"
	BookingStatusConfirmed  = "CONFIRMED"
	BookingStatusCheckedIn  = "CHECKED_IN"
	BookingStatusCheckedOut = "CHECKED_OUT"
	BookingStatusCancelled  = "CANCELLED"
	BookingStatusNoShow     = "NO_SHOW"
	BookingStatusCompleted  = "COMPLETED"
)

// Payment status
const (
	PaymentStatusUnpaid        = "UNPAID"
	PaymentStatusPartiallyPaid = "PARTIALLY_PAID"
	PaymentStatusPaid          = "PAID"
	PaymentStatusRefunded      = "REFUNDED"
	PaymentStatusFailed        = "FAILED"
)

// Payment method
const (
	PaymentMethodCash         = "CASH"
	PaymentMethodCreditCard   = "CREDIT_CARD"
	PaymentMethodDebitCard    = "DEBIT_CARD"
	PaymentMethodBankTransfer = "BANK_TRANSFER"
	PaymentMethodEWallet      = "E_WALLET"
)

// Room status
const (
	RoomStatusAvailable    = "AVAILABLE"
	RoomStatusOccupied     = "OCCUPIED"
	RoomStatusReserved     = "RESERVED"
	RoomStatusMaintenance  = "MAINTENANCE"
	RoomStatusCleaning     = "CLEANING"
	RoomStatusOutOfService = "OUT_OF_SERVICE"
)

// Booking source
const (
	BookingSourceWebsite   = "WEBSITE"
	BookingSourceMobileApp = "MOBILE_APP"
	BookingSourcePhone     = "PHONE"
	BookingSourceWalkIn    = "WALK_IN"
	BookingSourceOTA       = "OTA"
)
