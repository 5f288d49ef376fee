package jobs

import (
	"log"

	"github.com/robfig/cron/v3"

	"github.com/mavryk256/hotel-management/utils"
)

// ReminderSweeper định nghĩa interface cho việc gửi email nhắc nhận phòng
type ReminderSweeper interface {
	SweepReminders() (int, error)
}

var reminderSweeper ReminderSweeper

// SetReminderSweeper thiết lập implementation cho ReminderSweeper
func SetReminderSweeper(sweeper ReminderSweeper) {
	reminderSweeper = sweeper
}

// InitCronJobs khởi tạo các cron jobs
func InitCronJobs(c *cron.Cron) error {
	// Chạy lúc 9h sáng mỗi ngày: nhắc các booking check-in ngày mai
	_, err := c.AddFunc("0 9 * * *", func() {
		if reminderSweeper == nil {
			utils.LogError("ReminderSweeper chưa được thiết lập")
			return
		}
		sent, err := reminderSweeper.SweepReminders()
		if err != nil {
			utils.LogError("Lỗi khi gửi email nhắc nhận phòng: %v", err)
			return
		}
		utils.LogInfo("Đã gửi %d email nhắc nhận phòng", sent)
	})
	if err != nil {
		return err
	}

	c.Start()
	log.Println("Cron jobs initialized successfully")
	return nil
}
