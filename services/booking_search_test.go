package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mavryk256/hotel-management/builders"
	"github.com/mavryk256/hotel-management/constants"
	"github.com/mavryk256/hotel-management/dto"
	"github.com/mavryk256/hotel-management/models"
)

func seedSearchData(t *testing.T, db *gorm.DB) {
	t.Helper()
	room1 := seedRoom(t, db, "101", 1_000_000)
	room2 := seedRoom(t, db, "102", 1_500_000)

	day := func(d int) time.Time {
		return time.Date(2026, 10, d, 0, 0, 0, 0, time.Local)
	}

	b1 := builders.NewBookingBuilder().
		WithBookingNumber("BK202610010001").
		WithUser(1, "Nguyễn Văn An", "an.nguyen@example.com", "0901234567").
		WithRoom(room1).
		WithGuest(models.GuestInfo{FullName: "Nguyễn Văn An", CccdNumber: "012345678901"}).
		WithDates(day(10), day(13)).
		WithStatus(constants.BookingStatusConfirmed).
		Build()
	b1.TotalAmount = 3_450_000
	b1.CreatedDate = day(1)
	require.NoError(t, db.Create(b1).Error)

	b2 := builders.NewBookingBuilder().
		WithBookingNumber("BK202610010002").
		WithUser(2, "Phạm Thị Dung", "dung.pham@example.com", "0912345678").
		WithRoom(room2).
		WithGuest(models.GuestInfo{FullName: "Phạm Thị Dung", CccdNumber: "098765432109"}).
		WithDates(day(15), day(18)).
		WithStatus(constants.BookingStatusCancelled).
		WithSource(constants.BookingSourceWalkIn).
		Build()
	b2.TotalAmount = 5_175_000
	b2.CreatedDate = day(2)
	require.NoError(t, db.Create(b2).Error)

	b3 := builders.NewBookingBuilder().
		WithBookingNumber("BK202610010003").
		WithUser(1, "Nguyễn Văn An", "an.nguyen@example.com", "0901234567").
		WithRoom(room1).
		WithGuest(models.GuestInfo{FullName: "Hoàng Văn Em", CccdNumber: "111222333444"}).
		WithDates(day(20), day(22)).
		WithStatus(constants.BookingStatusPending).
		Build()
	b3.TotalAmount = 2_300_000
	b3.CreatedDate = day(3)
	require.NoError(t, db.Create(b3).Error)
}

func TestSearchByKeywordCaseInsensitive(t *testing.T) {
	db := setupTestDB(t)
	seedSearchData(t, db)
	svc := NewBookingService(db, nil, nil, nil)

	results, total, err := svc.Search(&dto.BookingSearchRequest{Keyword: "DUNG.PHAM"})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, results, 1)
	assert.Equal(t, "BK202610010002", results[0].BookingNumber)

	// Keyword khớp cả mã đặt phòng
	_, total, err = svc.Search(&dto.BookingSearchRequest{Keyword: "bk2026100100"})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
}

func TestSearchByCccdScansGuestList(t *testing.T) {
	db := setupTestDB(t)
	seedSearchData(t, db)
	svc := NewBookingService(db, nil, nil, nil)

	results, total, err := svc.Search(&dto.BookingSearchRequest{CccdNumber: "111222333444"})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "BK202610010003", results[0].BookingNumber)
}

func TestSearchCriteriaAreAnded(t *testing.T) {
	db := setupTestDB(t)
	seedSearchData(t, db)
	svc := NewBookingService(db, nil, nil, nil)

	_, total, err := svc.Search(&dto.BookingSearchRequest{
		UserID: 1,
		Status: constants.BookingStatusPending,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, total)

	minAmount := 3_000_000.0
	_, total, err = svc.Search(&dto.BookingSearchRequest{
		UserID:    1,
		MinAmount: &minAmount,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
}

func TestSearchDateRangeFilters(t *testing.T) {
	db := setupTestDB(t)
	seedSearchData(t, db)
	svc := NewBookingService(db, nil, nil, nil)

	results, total, err := svc.Search(&dto.BookingSearchRequest{
		CheckInDateFrom: "14/10/2026",
		CheckInDateTo:   "16/10/2026",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "BK202610010002", results[0].BookingNumber)
}

func TestSearchSortAndPaginate(t *testing.T) {
	db := setupTestDB(t)
	seedSearchData(t, db)
	svc := NewBookingService(db, nil, nil, nil)

	// Mặc định: mới tạo trước
	results, total, err := svc.Search(&dto.BookingSearchRequest{})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, results, 3)
	assert.Equal(t, "BK202610010003", results[0].BookingNumber)

	// Sắp theo tổng tiền tăng dần
	results, _, err = svc.Search(&dto.BookingSearchRequest{SortBy: "totalAmount", SortOrder: "asc"})
	require.NoError(t, err)
	assert.Equal(t, "BK202610010003", results[0].BookingNumber)
	assert.Equal(t, "BK202610010002", results[2].BookingNumber)

	// Phân trang
	results, total, err = svc.Search(&dto.BookingSearchRequest{Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Len(t, results, 1)

	// Trang vượt quá thì trả danh sách rỗng
	results, total, err = svc.Search(&dto.BookingSearchRequest{Page: 5, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Empty(t, results)
}

func TestUserBookingQueries(t *testing.T) {
	db := setupTestDB(t)
	room := seedRoom(t, db, "101", 1_000_000)
	svc := NewBookingService(db, nil, nil, nil)

	today := time.Now()
	past := builders.NewBookingBuilder().
		WithBookingNumber("BK202608010001").
		WithUser(7, "Nguyễn Văn An", "an@example.com", "0901234567").
		WithRoom(room).
		WithDates(today.AddDate(0, 0, -10), today.AddDate(0, 0, -7)).
		WithStatus(constants.BookingStatusCompleted).
		Build()
	require.NoError(t, db.Create(past).Error)

	upcoming := builders.NewBookingBuilder().
		WithBookingNumber("BK202608010002").
		WithUser(7, "Nguyễn Văn An", "an@example.com", "0901234567").
		WithRoom(room).
		WithDates(today.AddDate(0, 0, 5), today.AddDate(0, 0, 8)).
		WithStatus(constants.BookingStatusConfirmed).
		Build()
	require.NoError(t, db.Create(upcoming).Error)

	all, err := svc.GetUserBookings(7)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	future, err := svc.GetUserUpcomingBookings(7)
	require.NoError(t, err)
	require.Len(t, future, 1)
	assert.Equal(t, "BK202608010002", future[0].BookingNumber)

	history, err := svc.GetUserBookingHistory(7)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "BK202608010001", history[0].BookingNumber)
}
