package services

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLockRoomSerializes(t *testing.T) {
	var counter int
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := LockRoom(9001)
			defer unlock()
			counter++
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, counter)
}

func TestLockRoomsOrderIndependent(t *testing.T) {
	var wg sync.WaitGroup
	done := make(chan struct{})

	// Hai goroutine khóa cùng bộ phòng theo thứ tự ngược nhau,
	// thứ tự khóa theo ID tăng dần nên không deadlock
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			unlock := LockRooms([]uint{9101, 9102, 9103})
			unlock()
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			unlock := LockRooms([]uint{9103, 9102, 9101})
			unlock()
		}
	}()

	go func() {
		wg.Wait()
		close(done)
	}()
	<-done
}

func TestLockRoomsDedupes(t *testing.T) {
	unlock := LockRooms([]uint{9201, 9201, 9201})
	// Khóa trùng ID chỉ giữ một lần, unlock không panic
	unlock()
}
