package handlers

import (
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"practice-booking-server/internal/middleware"
	"practice-booking-server/internal/models"
	"practice-booking-server/internal/scheduling"
	"practice-booking-server/internal/utils"
)

// AppointmentHandler handles appointment related requests. Scheduling
// decisions are delegated to the scheduling service; this layer only binds,
// authorizes and renders.
type AppointmentHandler struct {
	DB        *gorm.DB
	Scheduler *scheduling.Service
}

// NewAppointmentHandler creates a new AppointmentHandler.
func NewAppointmentHandler(db *gorm.DB, scheduler *scheduling.Service) *AppointmentHandler {
	return &AppointmentHandler{DB: db, Scheduler: scheduler}
}

// CreateAppointmentRequest represents the request body for a new visit
// request. The patient states preferences only; no time is fixed yet.
type CreateAppointmentRequest struct {
	AppointmentTypeID string             `json:"appointmentTypeId" binding:"required,uuid"`
	PatientID         string             `json:"patientId"` // staff may book on behalf of a patient
	PreferredDays     []models.Weekday   `json:"preferredDays"`
	PreferredTimes    []models.TimeOfDay `json:"preferredTimes"`
	Urgency           models.Urgency     `json:"urgency"`
	SpecialRemarks    string             `json:"specialRemarks"`
}

// CreateAppointment records a new PENDING appointment request.
func (h *AppointmentHandler) CreateAppointment(c *gin.Context) {
	var req CreateAppointmentRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}
	role, _ := middleware.GetUserRoleFromContext(c)

	patientID := userID
	if req.PatientID != "" && req.PatientID != userID {
		if role == models.RolePatient {
			utils.Forbidden(c, "Patients can only request appointments for themselves.")
			return
		}
		patientID = req.PatientID
	}

	appt, err := h.Scheduler.CreateRequest(patientID, req.AppointmentTypeID, scheduling.RequestInput{
		PreferredDays:  req.PreferredDays,
		PreferredTimes: req.PreferredTimes,
		Urgency:        req.Urgency,
		SpecialRemarks: req.SpecialRemarks,
	})
	if err != nil {
		respondSchedulingError(c, err)
		return
	}

	utils.Created(c, "Appointment requested successfully", appt)
}

// GetAppointmentsForUser lists appointments for the logged-in user.
// Patients see their own; staff see everything ordered for triage.
func (h *AppointmentHandler) GetAppointmentsForUser(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}
	role, _ := middleware.GetUserRoleFromContext(c)

	query := h.DB.Preload("Patient").Preload("AppointmentType")
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var appointments []models.Appointment
	var err error
	if role == models.RolePatient {
		err = query.Where("patient_id = ?", userID).
			Order("created_at desc").Find(&appointments).Error
	} else {
		// Triage ordering: urgency first, oldest request first within it.
		err = query.Order("FIELD(urgency, 'URGENT', 'NORMAL', 'FLEXIBLE'), created_at asc").
			Find(&appointments).Error
	}
	if err != nil {
		utils.InternalServerError(c, "Failed to fetch appointments: "+err.Error())
		return
	}

	utils.Success(c, "Appointments fetched successfully", appointments)
}

// GetAppointmentByID fetches a single appointment. Accessible by the
// involved patient or by staff.
func (h *AppointmentHandler) GetAppointmentByID(c *gin.Context) {
	var appointment models.Appointment
	if err := h.DB.Preload("Patient").Preload("AppointmentType").
		First(&appointment, "id = ?", c.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Appointment not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	userID, _ := middleware.GetUserIDFromContext(c)
	role, _ := middleware.GetUserRoleFromContext(c)
	if role == models.RolePatient && userID != appointment.PatientID {
		utils.Forbidden(c, "You are not authorized to view this appointment")
		return
	}

	utils.Success(c, "Appointment fetched successfully", appointment)
}

// SlotAssignmentRequest carries the concrete slot staff picked.
type SlotAssignmentRequest struct {
	Date string `json:"date" binding:"required"` // "2006-01-02"
	Time string `json:"time" binding:"required"` // "HH:MM"
}

// BookDirect assigns a concrete slot without the proposal round trip.
func (h *AppointmentHandler) BookDirect(c *gin.Context) {
	var req SlotAssignmentRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	date, err := time.ParseInLocation("2006-01-02", req.Date, time.Local)
	if err != nil {
		utils.BadRequest(c, "Invalid date, expected YYYY-MM-DD")
		return
	}

	appt, err := h.Scheduler.CreateDirectBooking(c.Param("id"), date, req.Time)
	if err != nil {
		respondSchedulingError(c, err)
		return
	}

	utils.Success(c, "Appointment booked successfully", appt)
}

// SendProposal offers the patient a concrete slot by emailed link.
func (h *AppointmentHandler) SendProposal(c *gin.Context) {
	var req SlotAssignmentRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	date, err := time.ParseInLocation("2006-01-02", req.Date, time.Local)
	if err != nil {
		utils.BadRequest(c, "Invalid date, expected YYYY-MM-DD")
		return
	}

	proposal, err := h.Scheduler.SendProposal(c.Param("id"), date, req.Time)
	if err != nil {
		respondSchedulingError(c, err)
		return
	}

	utils.Created(c, "Proposal sent successfully", proposal)
}

// SuggestAlternativeRequest carries the free-text suggestion staff send when
// no offered slot fits.
type SuggestAlternativeRequest struct {
	Suggestion string `json:"suggestion" binding:"required"`
}

// SuggestAlternative cancels the request and mails the patient a suggestion.
func (h *AppointmentHandler) SuggestAlternative(c *gin.Context) {
	var req SuggestAlternativeRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	if err := h.Scheduler.SuggestAlternative(c.Param("id"), req.Suggestion); err != nil {
		respondSchedulingError(c, err)
		return
	}

	utils.Success(c, "Alternative suggested, appointment cancelled", nil)
}

// CancelAppointment marks an appointment CANCELLED.
func (h *AppointmentHandler) CancelAppointment(c *gin.Context) {
	appt, err := h.Scheduler.CancelAppointment(c.Param("id"))
	if err != nil {
		respondSchedulingError(c, err)
		return
	}
	utils.Success(c, "Appointment cancelled", appt)
}

// CompleteAppointment marks a confirmed appointment COMPLETED.
func (h *AppointmentHandler) CompleteAppointment(c *gin.Context) {
	appt, err := h.Scheduler.CompleteAppointment(c.Param("id"))
	if err != nil {
		respondSchedulingError(c, err)
		return
	}
	utils.Success(c, "Appointment completed", appt)
}

// RunReminderSweep triggers the reminder digest for stale proposals.
func (h *AppointmentHandler) RunReminderSweep(c *gin.Context) {
	thresholdDays := 0
	if v := c.Query("thresholdDays"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 {
			utils.BadRequest(c, "Invalid thresholdDays")
			return
		}
		thresholdDays = parsed
	}

	summary, err := h.Scheduler.RunReminderSweep(thresholdDays)
	if err != nil {
		utils.InternalServerError(c, "Reminder sweep failed: "+err.Error())
		return
	}
	utils.Success(c, "Reminder sweep complete", summary)
}

// respondSchedulingError maps scheduling core errors onto HTTP responses.
func respondSchedulingError(c *gin.Context, err error) {
	var validationErr *scheduling.ValidationError
	var stateErr *scheduling.StateError
	var conflictErr *scheduling.ConflictError

	switch {
	case scheduling.IsNotFound(err):
		utils.NotFound(c, err.Error())
	case errors.As(err, &validationErr):
		utils.BadRequest(c, validationErr.Error())
	case errors.As(err, &conflictErr):
		utils.Conflict(c, conflictErr.Error())
	case errors.As(err, &stateErr):
		utils.Conflict(c, stateErr.Error())
	case errors.Is(err, scheduling.ErrAlreadyResponded):
		utils.Gone(c, "This proposal has already been responded to")
	case errors.Is(err, scheduling.ErrNotPending):
		utils.Gone(c, "This proposal is no longer open")
	case errors.Is(err, scheduling.ErrTokenExpired):
		utils.Gone(c, "This proposal link has expired")
	default:
		utils.InternalServerError(c, err.Error())
	}
}
