package utils

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"
)

var (
	infoLogger  *log.Logger
	errorLogger *log.Logger
)

func init() {
	if err := os.MkdirAll("logs", 0755); err != nil {
		log.Fatal(err)
	}

	// Mỗi ngày một file log riêng
	name := fmt.Sprintf("logs/booking-%s.log", time.Now().Format("2006-01-02"))
	logFile, err := os.OpenFile(name, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		log.Fatal(err)
	}

	// Ghi song song ra stderr để theo dõi được cron job khi chạy foreground
	out := io.MultiWriter(logFile, os.Stderr)
	infoLogger = log.New(out, "INFO: ", log.Ldate|log.Ltime|log.Lshortfile)
	errorLogger = log.New(out, "ERROR: ", log.Ldate|log.Ltime|log.Lshortfile)
}

// LogInfo ghi log thông tin
func LogInfo(format string, v ...interface{}) {
	infoLogger.Printf(format, v...)
}

// LogError ghi log lỗi
func LogError(format string, v ...interface{}) {
	errorLogger.Printf(format, v...)
}
