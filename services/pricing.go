package services

import (
	"github.com/mavryk256/hotel-management/constants"
	"github.com/mavryk256/hotel-management/models"
	"github.com/mavryk256/hotel-management/validator"
)

// PricingBreakdown kết quả tính giá cho một booking
type PricingBreakdown struct {
	NumberOfNights         int
	Subtotal               float64
	TaxAmount              float64
	ServiceCharge          float64
	AdditionalChargesTotal float64
	TotalAmount            float64
	DepositAmount          float64
}

// CalculatePricing tính toàn bộ các khoản tiền của một booking từ giá phòng,
// khoảng ngày, phí đã duyệt và danh sách phí phát sinh. Hàm thuần, không side effect.
func CalculatePricing(b *models.Booking) PricingBreakdown {
	nights := validator.NightsBetween(b.CheckInDate, b.CheckOutDate)

	subtotal := b.RoomPricePerNight * float64(nights)
	taxAmount := subtotal * constants.TaxRate
	serviceCharge := subtotal * constants.ServiceChargeRate

	chargesTotal := 0.0
	for _, charge := range b.AdditionalCharges {
		chargesTotal += charge.Total()
	}

	total := subtotal + taxAmount + serviceCharge +
		b.EarlyCheckInFee + b.LateCheckOutFee +
		chargesTotal - b.Discount - b.CancellationFee

	return PricingBreakdown{
		NumberOfNights:         nights,
		Subtotal:               subtotal,
		TaxAmount:              taxAmount,
		ServiceCharge:          serviceCharge,
		AdditionalChargesTotal: chargesTotal,
		TotalAmount:            total,
		DepositAmount:          total * constants.DepositRate,
	}
}

// RecalculatePricing tính lại giá và ghi kết quả lên booking.
// Phải được gọi mỗi khi ngày, phí phát sinh, giảm giá hay phí sớm/muộn thay đổi.
func RecalculatePricing(b *models.Booking) {
	breakdown := CalculatePricing(b)

	b.NumberOfNights = breakdown.NumberOfNights
	b.Subtotal = breakdown.Subtotal
	b.TaxAmount = breakdown.TaxAmount
	b.ServiceCharge = breakdown.ServiceCharge
	b.AdditionalChargesTotal = breakdown.AdditionalChargesTotal
	b.TotalAmount = breakdown.TotalAmount
}
