package events

import (
	"time"

	"github.com/voiceout/platform/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventCaseReported      EventType = "case_reported"
	EventCaseStatusChanged EventType = "case_status_changed"
	EventCaseNoteAdded     EventType = "case_note_added"
	EventCaseReferred      EventType = "case_referred"
)

// Actor identifies who caused an event.
type Actor struct {
	Email string      `json:"email"`
	Role  domain.Role `json:"role"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	CaseID    string      `json:"case_id"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// CaseReportedPayload payload.
type CaseReportedPayload struct {
	School       string              `json:"school"`
	District     string              `json:"district"`
	Priority     domain.CasePriority `json:"priority"`
	IncidentType string              `json:"incident_type,omitempty"`
}

// CaseStatusChangedPayload payload.
type CaseStatusChangedPayload struct {
	OldStatus domain.CaseStatus `json:"old_status"`
	NewStatus domain.CaseStatus `json:"new_status"`
}

// CaseNoteAddedPayload payload.
type CaseNoteAddedPayload struct {
	NoteID      string `json:"note_id"`
	BodyPreview string `json:"body_preview"`
}

// CaseReferredPayload payload.
type CaseReferredPayload struct {
	ProfessionalEmail string      `json:"professional_email"`
	Role              domain.Role `json:"role"`
}
