package scheduling

import "practice-booking-server/internal/models"

// TemplateKind identifies one notification email template.
type TemplateKind string

const (
	MailRequestAck           TemplateKind = "request-ack"            // patient: request received
	MailRequestNotice        TemplateKind = "request-notice"         // staff: new request to triage
	MailProposalSent         TemplateKind = "proposal-sent"          // patient: token-bearing link
	MailProposalAccepted     TemplateKind = "proposal-accepted"      // patient and staff
	MailProposalRejected     TemplateKind = "proposal-rejected"      // staff
	MailDirectConfirmed      TemplateKind = "direct-time-confirmed"  // patient
	MailAlternativeSuggested TemplateKind = "alternative-suggested"  // patient
	MailReminderDigest       TemplateKind = "staff-reminder-digest"  // staff
)

// MailData carries the structured values a template renders. Only the
// fields relevant to the given kind are set.
type MailData struct {
	PatientName     string
	PatientEmail    string
	AppointmentType string
	Date            string
	Start           string
	End             string
	ResponseURL     string
	RejectionReason string
	Suggestion      string
	Digest          []DigestEntry
}

// DigestEntry is one line of the staff reminder digest.
type DigestEntry struct {
	PatientName  string
	Urgency      models.Urgency
	ProposedDate string
	DaysPending  int
}

// Mailer is the email-dispatch collaborator consumed by the scheduling core.
// Delivery is best-effort: the core logs failures and never rolls back a
// committed transition because of one.
type Mailer interface {
	Send(kind TemplateKind, data MailData) error
}
