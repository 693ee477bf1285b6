package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"practice-booking-server/internal/models"
	"practice-booking-server/internal/scheduling"
	"practice-booking-server/internal/utils"
)

// timeNow is swapped out in tests.
var timeNow = time.Now

// ProposalHandler serves the public, token-authenticated proposal pages.
// The token in the emailed link is the sole credential; no login required.
type ProposalHandler struct {
	DB        *gorm.DB
	Scheduler *scheduling.Service
}

// NewProposalHandler creates a new ProposalHandler.
func NewProposalHandler(db *gorm.DB, scheduler *scheduling.Service) *ProposalHandler {
	return &ProposalHandler{DB: db, Scheduler: scheduler}
}

// proposalView is what the response page renders. If the proposal was
// already answered, the prior answer is shown instead of the form.
type proposalView struct {
	AppointmentType string                `json:"appointmentType"`
	ProposedDate    string                `json:"proposedDate"`
	ProposedStart   string                `json:"proposedStart"`
	ProposedEnd     string                `json:"proposedEnd"`
	Status          models.ProposalStatus `json:"status"`
	PatientResponse string                `json:"patientResponse,omitempty"`
	RejectionReason string                `json:"rejectionReason,omitempty"`
	Open            bool                  `json:"open"`
}

// GetProposal fetches the proposal behind a token for display.
func (h *ProposalHandler) GetProposal(c *gin.Context) {
	var proposal models.AppointmentProposal
	if err := h.DB.Preload("Appointment.AppointmentType").
		First(&proposal, "token = ?", c.Param("token")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Proposal not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	view := proposalView{
		AppointmentType: proposal.Appointment.AppointmentType.Name,
		ProposedDate:    proposal.ProposedDate.Format("2006-01-02"),
		ProposedStart:   proposal.ProposedStart.Format("15:04"),
		ProposedEnd:     proposal.ProposedEnd.Format("15:04"),
		Status:          proposal.Status,
		PatientResponse: proposal.PatientResponse,
		RejectionReason: proposal.RejectionReason,
		Open: proposal.Status == models.ProposalPending &&
			proposal.PatientResponse == "" &&
			!proposal.IsExpired(timeNow()),
	}

	utils.Success(c, "Proposal fetched successfully", view)
}

// RespondRequest represents the patient's answer to a proposal.
type RespondRequest struct {
	Action          string `json:"action" binding:"required,oneof=accept reject"`
	RejectionReason string `json:"rejectionReason"`
}

// Respond consumes the proposal token with an accept or reject.
func (h *ProposalHandler) Respond(c *gin.Context) {
	var req RespondRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	outcome, err := h.Scheduler.RespondToProposal(
		c.Param("token"),
		scheduling.ResponseAction(req.Action),
		req.RejectionReason,
	)
	if err != nil {
		respondSchedulingError(c, err)
		return
	}

	utils.Success(c, "Response recorded successfully", gin.H{
		"proposalStatus":    outcome.Proposal.Status,
		"appointmentStatus": outcome.Appointment.Status,
	})
}
