package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"practice-booking-server/internal/models"
	"practice-booking-server/internal/scheduling"
	"practice-booking-server/internal/utils"
)

// AvailabilityHandler serves slot expansion and the weekly template CRUD.
type AvailabilityHandler struct {
	DB        *gorm.DB
	Scheduler *scheduling.Service
}

// NewAvailabilityHandler creates a new AvailabilityHandler.
func NewAvailabilityHandler(db *gorm.DB, scheduler *scheduling.Service) *AvailabilityHandler {
	return &AvailabilityHandler{DB: db, Scheduler: scheduler}
}

// GetSlots expands the weekly template into bookable start times for one
// date and appointment type. Public: the booking form calls it before a
// patient is signed in.
func (h *AvailabilityHandler) GetSlots(c *gin.Context) {
	dateStr := c.Query("date")
	typeID := c.Query("appointmentTypeId")
	if dateStr == "" || typeID == "" {
		utils.BadRequest(c, "date and appointmentTypeId query parameters are required")
		return
	}

	date, err := time.ParseInLocation("2006-01-02", dateStr, time.Local)
	if err != nil {
		utils.BadRequest(c, "Invalid date, expected YYYY-MM-DD")
		return
	}

	slots, err := h.Scheduler.ExpandSlots(date, typeID)
	if err != nil {
		respondSchedulingError(c, err)
		return
	}

	utils.Success(c, "Slots fetched successfully", slots)
}

// AvailabilityWindowRequest represents the request body for creating or
// updating a weekly template entry.
type AvailabilityWindowRequest struct {
	DayOfWeek models.Weekday `json:"dayOfWeek" binding:"required"`
	StartTime string         `json:"startTime" binding:"required"`
	EndTime   string         `json:"endTime" binding:"required"`
	IsActive  *bool          `json:"isActive"`
}

// ListWindows lists the whole weekly template (admin).
func (h *AvailabilityHandler) ListWindows(c *gin.Context) {
	var windows []models.AvailabilityWindow
	if err := h.DB.Order("day_of_week, start_time").Find(&windows).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch availability windows: "+err.Error())
		return
	}
	utils.Success(c, "Availability windows fetched successfully", windows)
}

// CreateWindow adds a weekly template entry (admin).
func (h *AvailabilityHandler) CreateWindow(c *gin.Context) {
	var req AvailabilityWindowRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	window := models.AvailabilityWindow{
		DayOfWeek: req.DayOfWeek,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		IsActive:  true,
	}
	if req.IsActive != nil {
		window.IsActive = *req.IsActive
	}
	if err := window.Validate(); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	if err := h.DB.Create(&window).Error; err != nil {
		utils.InternalServerError(c, "Failed to create availability window: "+err.Error())
		return
	}

	utils.Created(c, "Availability window created successfully", window)
}

// UpdateWindow edits a weekly template entry (admin).
func (h *AvailabilityHandler) UpdateWindow(c *gin.Context) {
	var window models.AvailabilityWindow
	if err := h.DB.First(&window, "id = ?", c.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Availability window not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	var req AvailabilityWindowRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	window.DayOfWeek = req.DayOfWeek
	window.StartTime = req.StartTime
	window.EndTime = req.EndTime
	if req.IsActive != nil {
		window.IsActive = *req.IsActive
	}
	if err := window.Validate(); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	if err := h.DB.Save(&window).Error; err != nil {
		utils.InternalServerError(c, "Failed to update availability window: "+err.Error())
		return
	}

	utils.Success(c, "Availability window updated successfully", window)
}

// DeleteWindow removes a weekly template entry (admin).
func (h *AvailabilityHandler) DeleteWindow(c *gin.Context) {
	res := h.DB.Delete(&models.AvailabilityWindow{}, "id = ?", c.Param("id"))
	if res.Error != nil {
		utils.InternalServerError(c, "Failed to delete availability window: "+res.Error.Error())
		return
	}
	if res.RowsAffected == 0 {
		utils.NotFound(c, "Availability window not found")
		return
	}
	utils.Success(c, "Availability window deleted successfully", nil)
}
