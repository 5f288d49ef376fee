package services

import (
	"fmt"
	"sync"
)

// keyedMutex cấp phát mutex theo key, dùng để tuần tự hóa thao tác
// trên cùng một phòng hoặc cùng một booking trong một tiến trình.
type keyedMutex struct {
	locks sync.Map
}

func (k *keyedMutex) get(key string) *sync.Mutex {
	mu, _ := k.locks.LoadOrStore(key, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// Lock khóa theo key, trả về hàm unlock
func (k *keyedMutex) Lock(key string) func() {
	mu := k.get(key)
	mu.Lock()
	return mu.Unlock
}

var (
	roomLocks    keyedMutex
	bookingLocks keyedMutex
)

// LockRoom tuần tự hóa chuỗi kiểm-tra-rồi-ghi cho một phòng.
// Hai request đặt cùng phòng không thể cùng vượt qua bước kiểm tra trống.
func LockRoom(roomID uint) func() {
	return roomLocks.Lock(fmt.Sprintf("room:%d", roomID))
}

// LockRooms khóa nhiều phòng theo thứ tự ID tăng dần để tránh deadlock
func LockRooms(roomIDs []uint) func() {
	sorted := make([]uint, len(roomIDs))
	copy(sorted, roomIDs)
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0 && sorted[j] < sorted[j-1]; j-- {
			sorted[j], sorted[j-1] = sorted[j-1], sorted[j]
		}
	}

	unlocks := make([]func(), 0, len(sorted))
	seen := make(map[uint]bool, len(sorted))
	for _, id := range sorted {
		if seen[id] {
			continue
		}
		seen[id] = true
		unlocks = append(unlocks, LockRoom(id))
	}

	return func() {
		for i := len(unlocks) - 1; i >= 0; i-- {
			unlocks[i]()
		}
	}
}

// LockBooking tuần tự hóa các chuyển trạng thái trên cùng một booking
func LockBooking(bookingID uint) func() {
	return bookingLocks.Lock(fmt.Sprintf("booking:%d", bookingID))
}
