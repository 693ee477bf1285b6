package mailer

import (
	"strings"
	"text/template"

	"practice-booking-server/internal/scheduling"
)

type audience int

const (
	toPatient audience = iota
	toStaff
	toBoth
)

type mailTemplate struct {
	subject  string
	body     *template.Template
	audience audience
}

var templates = map[scheduling.TemplateKind]mailTemplate{
	scheduling.MailRequestAck: {
		subject:  "We received your appointment request",
		audience: toPatient,
		body: mustParse("request-ack", `Dear {{.PatientName}},

thank you for your appointment request ({{.AppointmentType}}). Our team will
review your preferences and get back to you with a concrete time.

Your practice team
`),
	},
	scheduling.MailRequestNotice: {
		subject:  "New appointment request",
		audience: toStaff,
		body: mustParse("request-notice", `A new appointment request has arrived.

Patient: {{.PatientName}}
Type:    {{.AppointmentType}}

Please review it in the scheduling dashboard.
`),
	},
	scheduling.MailProposalSent: {
		subject:  "Appointment proposal",
		audience: toPatient,
		body: mustParse("proposal-sent", `Dear {{.PatientName}},

we can offer you the following appointment ({{.AppointmentType}}):

    {{.Date}}, {{.Start}} - {{.End}}

Please confirm or decline the proposal here:

    {{.ResponseURL}}

The link is valid for a limited time and can be used once.

Your practice team
`),
	},
	scheduling.MailProposalAccepted: {
		subject:  "Appointment confirmed",
		audience: toBoth,
		body: mustParse("proposal-accepted", `The proposed appointment has been confirmed.

Patient: {{.PatientName}}
Type:    {{.AppointmentType}}
Time:    {{.Date}}, {{.Start}} - {{.End}}
`),
	},
	scheduling.MailProposalRejected: {
		subject:  "Appointment proposal declined",
		audience: toStaff,
		body: mustParse("proposal-rejected", `{{.PatientName}} has declined the proposed appointment.

Type:   {{.AppointmentType}}
Time:   {{.Date}}, {{.Start}} - {{.End}}
{{- if .RejectionReason}}
Reason: {{.RejectionReason}}
{{- end}}

The request is back in the pending queue; please propose a new time.
`),
	},
	scheduling.MailDirectConfirmed: {
		subject:  "Your appointment is confirmed",
		audience: toPatient,
		body: mustParse("direct-time-confirmed", `Dear {{.PatientName}},

your appointment ({{.AppointmentType}}) has been scheduled:

    {{.Date}}, {{.Start}} - {{.End}}

If this time does not suit you, please contact the practice.

Your practice team
`),
	},
	scheduling.MailAlternativeSuggested: {
		subject:  "Regarding your appointment request",
		audience: toPatient,
		body: mustParse("alternative-suggested", `Dear {{.PatientName}},

unfortunately we could not accommodate your request ({{.AppointmentType}})
as stated. Our suggestion:

    {{.Suggestion}}

Please submit a new request or contact the practice directly.

Your practice team
`),
	},
	scheduling.MailReminderDigest: {
		subject:  "Open appointment proposals awaiting response",
		audience: toStaff,
		body: mustParse("staff-reminder-digest", `The following proposals have been awaiting a patient response:
{{range .Digest}}
  - {{.PatientName}} ({{.Urgency}}), proposed {{.ProposedDate}}, pending for {{.DaysPending}} day(s)
{{- end}}

Consider following up by phone or sending a new proposal.
`),
	},
}

func mustParse(name, text string) *template.Template {
	return template.Must(template.New(name).Parse(text))
}

// render executes the body template for the given data.
func (t mailTemplate) render(data scheduling.MailData) (string, error) {
	var sb strings.Builder
	if err := t.body.Execute(&sb, data); err != nil {
		return "", err
	}
	return sb.String(), nil
}
