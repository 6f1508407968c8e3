package domain

import "time"

// CaseStatus enumerates lifecycle states for reported cases.
type CaseStatus string

const (
	CaseStatusPending    CaseStatus = "pending"
	CaseStatusProcessing CaseStatus = "processing"
	CaseStatusResolved   CaseStatus = "resolved"
)

// CasePriority enumerates urgency.
type CasePriority string

const (
	CasePriorityLow    CasePriority = "low"
	CasePriorityMedium CasePriority = "medium"
	CasePriorityHigh   CasePriority = "high"
	CasePriorityUrgent CasePriority = "urgent"
)

// Case is a reported incident routed through role-specific review.
type Case struct {
	ID                     string       `json:"id"`
	ReporterID             string       `json:"reporterId"`
	VictimID               *string      `json:"victimId,omitempty"`
	Title                  string       `json:"title"`
	Description            string       `json:"description"`
	IncidentType           string       `json:"incidentType,omitempty"`
	School                 string       `json:"school"`
	District               string       `json:"district"`
	Grade                  string       `json:"grade"`
	Class                  string       `json:"class"`
	Status                 CaseStatus   `json:"status"`
	Priority               CasePriority `json:"priority"`
	AssignedTeacherID      *string      `json:"assignedTeacherId,omitempty"`
	AssignedPsychologistID *string      `json:"assignedPsychologistId,omitempty"`
	AssignedLawyerID       *string      `json:"assignedLawyerId,omitempty"`
	CreatedAt              time.Time    `json:"createdAt"`
	UpdatedAt              time.Time    `json:"updatedAt"`
}

// CaseNote is an append-only note on a case.
type CaseNote struct {
	ID          string    `json:"id"`
	CaseID      string    `json:"caseId"`
	AuthorEmail string    `json:"authorEmail"`
	Body        string    `json:"body"`
	CreatedAt   time.Time `json:"createdAt"`
}

// CaseChangeType names what a history entry recorded.
type CaseChangeType string

const (
	CaseChangeStatus   CaseChangeType = "status"
	CaseChangeReferral CaseChangeType = "referral"
)

// CaseHistory is an audit entry for a case.
type CaseHistory struct {
	ID         string         `json:"id"`
	CaseID     string         `json:"caseId"`
	ChangedBy  string         `json:"changedBy"`
	ChangeType CaseChangeType `json:"changeType"`
	OldValue   string         `json:"oldValue,omitempty"`
	NewValue   string         `json:"newValue"`
	CreatedAt  time.Time      `json:"createdAt"`
}

// Valid reports whether s is a known status.
func (s CaseStatus) Valid() bool {
	switch s {
	case CaseStatusPending, CaseStatusProcessing, CaseStatusResolved:
		return true
	}
	return false
}

// Valid reports whether p is a known priority.
func (p CasePriority) Valid() bool {
	switch p {
	case CasePriorityLow, CasePriorityMedium, CasePriorityHigh, CasePriorityUrgent:
		return true
	}
	return false
}
