package services

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mavryk256/hotel-management/constants"
)

// Sequencer cấp số thứ tự trong ngày cho mã đặt phòng
type Sequencer interface {
	Next(ctx context.Context, day string) (int64, error)
}

// RedisSequencer cấp số bằng INCR theo key từng ngày, nhiều instance dùng chung được
type RedisSequencer struct {
	rdb *redis.Client
}

func NewRedisSequencer(rdb *redis.Client) *RedisSequencer {
	return &RedisSequencer{rdb: rdb}
}

func (s *RedisSequencer) Next(ctx context.Context, day string) (int64, error) {
	key := "booking:seq:" + day
	n, err := s.rdb.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if n == 1 {
		// Key mới của ngày, tự hết hạn sau 48h
		s.rdb.Expire(ctx, key, 48*time.Hour)
	}
	return n, nil
}

// GenerateBookingNumber sinh mã đặt phòng dạng BK + yyyyMMdd + 4 số.
// Dùng số thứ tự trong ngày thay vì số ngẫu nhiên để tránh trùng mã khi
// nhiều request tạo booking cùng lúc; unique index trên booking_number
// chặn nốt trường hợp sequence bị quay vòng.
func GenerateBookingNumber(ctx context.Context, seq Sequencer, at time.Time) (string, error) {
	day := at.Format(constants.BookingNumberDateLayout)

	if seq != nil {
		n, err := seq.Next(ctx, day)
		if err == nil {
			return fmt.Sprintf("%s%s%04d", constants.BookingNumberPrefix, day, n%10000), nil
		}
	}

	// Không có sequencer (hoặc Redis lỗi): rơi về số ngẫu nhiên,
	// caller phải retry khi đụng unique index
	return fmt.Sprintf("%s%s%04d", constants.BookingNumberPrefix, day, rand.Intn(10000)), nil
}
