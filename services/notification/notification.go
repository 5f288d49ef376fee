package notification

import (
	"fmt"
	"net/smtp"

	"github.com/mavryk256/hotel-management/config"
	"github.com/mavryk256/hotel-management/constants"
	"github.com/mavryk256/hotel-management/models"
)

// Sender gửi thông báo cho khách về vòng đời đặt phòng.
// Gửi thất bại không được làm fail nghiệp vụ, caller chỉ log lại.
type Sender interface {
	SendBookingConfirmation(booking *models.Booking) error
	SendCheckInReminder(booking *models.Booking) error
	SendCancellationNotice(booking *models.Booking) error
}

// EmailSender gửi email qua SMTP, cấu hình lấy từ biến môi trường
type EmailSender struct {
	host     string
	port     string
	from     string
	password string
}

func NewEmailSender() *EmailSender {
	return &EmailSender{
		host:     config.GetEnvDefault("SMTP_HOST", "smtp.gmail.com"),
		port:     config.GetEnvDefault("SMTP_PORT", "587"),
		from:     config.GetEnv("SMTP_FROM"),
		password: config.GetEnv("SMTP_PASSWORD"),
	}
}

func (s *EmailSender) send(to, subject, body string) error {
	if s.from == "" || s.password == "" {
		return fmt.Errorf("smtp chưa được cấu hình")
	}

	msg := []byte("MIME-Version: 1.0\r\nContent-Type: text/html; charset=UTF-8\r\n" +
		"Subject: " + subject + "\n\n" + body)

	auth := smtp.PlainAuth("", s.from, s.password, s.host)
	return smtp.SendMail(s.host+":"+s.port, auth, s.from, []string{to}, msg)
}

// SendBookingConfirmation gửi email xác nhận đặt phòng thành công
func (s *EmailSender) SendBookingConfirmation(booking *models.Booking) error {
	body := fmt.Sprintf(`
		<!DOCTYPE html>
		<html>
		<head>
			<meta charset="UTF-8">
			<title>Xác nhận đặt phòng</title>
		</head>
		<body>
			<p>Xin chào %s,</p>
			<p>Đặt phòng của bạn đã được ghi nhận thành công.</p>
			<p>Mã đặt phòng: <strong>%s</strong></p>
			<p>Phòng: %s (%s)</p>
			<p>Nhận phòng: %s - Trả phòng: %s</p>
			<p>Tổng tiền: %.0f VND, tiền cọc: %.0f VND</p>
			<p>Vui lòng mang theo CCCD của khách chính khi nhận phòng.</p>
			<p>Xin cám ơn,<br>Bộ phận đặt phòng</p>
		</body>
		</html>
	`, booking.UserFullName, booking.BookingNumber,
		booking.RoomName, booking.RoomNumber,
		booking.CheckInDate.Format(constants.DateLayout),
		booking.CheckOutDate.Format(constants.DateLayout),
		booking.TotalAmount, booking.DepositAmount)

	return s.send(booking.UserEmail, "Xác nhận đặt phòng "+booking.BookingNumber, body)
}

// SendCheckInReminder gửi email nhắc khách sắp đến ngày nhận phòng
func (s *EmailSender) SendCheckInReminder(booking *models.Booking) error {
	body := fmt.Sprintf(`
		<!DOCTYPE html>
		<html>
		<head>
			<meta charset="UTF-8">
			<title>Nhắc nhận phòng</title>
		</head>
		<body>
			<p>Xin chào %s,</p>
			<p>Bạn có đặt phòng <strong>%s</strong> sắp đến ngày nhận phòng.</p>
			<p>Phòng %s, nhận phòng ngày %s từ %d giờ.</p>
			<p>Nếu kế hoạch thay đổi, vui lòng liên hệ chúng tôi sớm.</p>
			<p>Xin cám ơn,<br>Bộ phận đặt phòng</p>
		</body>
		</html>
	`, booking.UserFullName, booking.BookingNumber,
		booking.RoomNumber,
		booking.CheckInDate.Format(constants.DateLayout),
		constants.CheckInHour)

	return s.send(booking.UserEmail, "Nhắc nhận phòng "+booking.BookingNumber, body)
}

// SendCancellationNotice gửi email báo hủy đặt phòng
func (s *EmailSender) SendCancellationNotice(booking *models.Booking) error {
	body := fmt.Sprintf(`
		<!DOCTYPE html>
		<html>
		<head>
			<meta charset="UTF-8">
			<title>Hủy đặt phòng</title>
		</head>
		<body>
			<p>Xin chào %s,</p>
			<p>Đặt phòng <strong>%s</strong> của bạn đã được hủy.</p>
			<p>Phí hủy: %.0f VND</p>
			<p>Nếu bạn đã thanh toán, khoản hoàn lại sẽ được xử lý theo chính sách hoàn tiền.</p>
			<p>Xin cám ơn,<br>Bộ phận đặt phòng</p>
		</body>
		</html>
	`, booking.UserFullName, booking.BookingNumber, booking.CancellationFee)

	return s.send(booking.UserEmail, "Hủy đặt phòng "+booking.BookingNumber, body)
}
