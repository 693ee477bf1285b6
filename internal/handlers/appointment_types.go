package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"practice-booking-server/internal/models"
	"practice-booking-server/internal/utils"
)

// AppointmentTypeHandler manages the bookable visit kinds.
type AppointmentTypeHandler struct {
	DB *gorm.DB
}

// NewAppointmentTypeHandler creates a new AppointmentTypeHandler.
func NewAppointmentTypeHandler(db *gorm.DB) *AppointmentTypeHandler {
	return &AppointmentTypeHandler{DB: db}
}

// ListActive lists the active appointment types for the booking form.
func (h *AppointmentTypeHandler) ListActive(c *gin.Context) {
	var types []models.AppointmentType
	if err := h.DB.Where("is_active = ?", true).Order("name").Find(&types).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch appointment types: "+err.Error())
		return
	}
	utils.Success(c, "Appointment types fetched successfully", types)
}

// ListAll lists every appointment type including inactive ones (admin).
func (h *AppointmentTypeHandler) ListAll(c *gin.Context) {
	var types []models.AppointmentType
	if err := h.DB.Order("name").Find(&types).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch appointment types: "+err.Error())
		return
	}
	utils.Success(c, "Appointment types fetched successfully", types)
}

// AppointmentTypeRequest represents the request body for creating an
// appointment type.
type AppointmentTypeRequest struct {
	Name            string `json:"name" binding:"required"`
	DurationMinutes int    `json:"durationMinutes" binding:"required,min=5,max=480"`
}

// Create adds a new appointment type (admin).
func (h *AppointmentTypeHandler) Create(c *gin.Context) {
	var req AppointmentTypeRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	apptType := models.AppointmentType{
		Name:            req.Name,
		DurationMinutes: req.DurationMinutes,
		IsActive:        true,
	}
	if err := h.DB.Create(&apptType).Error; err != nil {
		utils.InternalServerError(c, "Failed to create appointment type: "+err.Error())
		return
	}

	utils.Created(c, "Appointment type created successfully", apptType)
}

// SetActiveRequest represents the request body for toggling a type.
type SetActiveRequest struct {
	IsActive *bool `json:"isActive" binding:"required"`
}

// SetActive toggles an appointment type active or inactive (admin).
// Duration is immutable once appointments reference the type; only the
// active flag can change.
func (h *AppointmentTypeHandler) SetActive(c *gin.Context) {
	var req SetActiveRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	var apptType models.AppointmentType
	if err := h.DB.First(&apptType, "id = ?", c.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Appointment type not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	apptType.IsActive = *req.IsActive
	if err := h.DB.Save(&apptType).Error; err != nil {
		utils.InternalServerError(c, "Failed to update appointment type: "+err.Error())
		return
	}

	utils.Success(c, "Appointment type updated successfully", apptType)
}
