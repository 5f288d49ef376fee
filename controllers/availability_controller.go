package controllers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mavryk256/hotel-management/constants"
	"github.com/mavryk256/hotel-management/dto"
	"github.com/mavryk256/hotel-management/response"
	"github.com/mavryk256/hotel-management/services"
	"github.com/mavryk256/hotel-management/validator"
)

// AvailabilityController xử lý các request kiểm tra phòng trống
type AvailabilityController struct {
	svc *services.AvailabilityService
}

func NewAvailabilityController(db *gorm.DB) *AvailabilityController {
	return &AvailabilityController{svc: services.NewAvailabilityService(db)}
}

// CheckAvailability kiểm tra một phòng có trống trong khoảng ngày không
func (ctrl *AvailabilityController) CheckAvailability(c *gin.Context) {
	roomID, err := strconv.ParseUint(c.Query("roomId"), 10, 32)
	if err != nil {
		response.BadRequest(c, "roomId không hợp lệ")
		return
	}

	checkIn, err := validator.ParseBookingDate(c.Query("checkInDate"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	checkOut, err := validator.ParseBookingDate(c.Query("checkOutDate"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	if !checkOut.After(checkIn) {
		response.BadRequest(c, "Ngày check-out phải sau ngày check-in")
		return
	}

	available, err := ctrl.svc.IsAvailable(uint(roomID), checkIn, checkOut)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, gin.H{
		"roomId":    roomID,
		"available": available,
	})
}

// GetUnavailableDates các ngày phòng bận trong một khoảng, mặc định 3 tháng tới
func (ctrl *AvailabilityController) GetUnavailableDates(c *gin.Context) {
	roomID, err := strconv.ParseUint(c.Query("roomId"), 10, 32)
	if err != nil {
		response.BadRequest(c, "roomId không hợp lệ")
		return
	}

	from := validator.DateOnly(time.Now())
	to := from.AddDate(0, 3, 0)

	if fromStr := c.Query("fromDate"); fromStr != "" {
		from, err = validator.ParseBookingDate(fromStr)
		if err != nil {
			response.FromError(c, err)
			return
		}
	}
	if toStr := c.Query("toDate"); toStr != "" {
		to, err = validator.ParseBookingDate(toStr)
		if err != nil {
			response.FromError(c, err)
			return
		}
	}

	dates, err := ctrl.svc.UnavailableDates(uint(roomID), from, to)
	if err != nil {
		response.FromError(c, err)
		return
	}

	formatted := make([]string, 0, len(dates))
	for _, d := range dates {
		formatted = append(formatted, d.Format(constants.DateLayout))
	}
	response.Success(c, gin.H{
		"roomId":           roomID,
		"unavailableDates": formatted,
	})
}

// BatchAvailability kiểm tra nhiều phòng cùng lúc cho một khoảng ngày
func (ctrl *AvailabilityController) BatchAvailability(c *gin.Context) {
	var req dto.BatchAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Dữ liệu không hợp lệ")
		return
	}

	checkIn, err := validator.ParseBookingDate(req.CheckInDate)
	if err != nil {
		response.FromError(c, err)
		return
	}
	checkOut, err := validator.ParseBookingDate(req.CheckOutDate)
	if err != nil {
		response.FromError(c, err)
		return
	}
	if !checkOut.After(checkIn) {
		response.BadRequest(c, "Ngày check-out phải sau ngày check-in")
		return
	}

	results, err := ctrl.svc.BatchAvailability(req.RoomIDs, checkIn, checkOut)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, results)
}
