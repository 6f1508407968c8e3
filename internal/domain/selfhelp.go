package domain

import "time"

// AssessmentType identifies a standardized screening questionnaire.
type AssessmentType string

const (
	AssessmentPHQ9 AssessmentType = "phq9"
	AssessmentGAD7 AssessmentType = "gad7"
)

// JournalEntry is one emotion journal record.
type JournalEntry struct {
	ID        string    `json:"id"`
	Mood      string    `json:"mood"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// AssessmentResult is a completed questionnaire.
type AssessmentResult struct {
	ID        string         `json:"id"`
	Type      AssessmentType `json:"type"`
	Score     int            `json:"score"`
	Severity  string         `json:"severity,omitempty"`
	Answers   []int          `json:"answers"`
	Timestamp time.Time      `json:"timestamp"`
}

// SafetyContact is a person to reach out to in a crisis.
type SafetyContact struct {
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	Relationship string `json:"relationship,omitempty"`
}

// SafetyPlan is the user's personal crisis plan.
type SafetyPlan struct {
	WarningSignals   []string        `json:"warningSignals"`
	CopingStrategies []string        `json:"copingStrategies"`
	SupportContacts  []SafetyContact `json:"supportContacts"`
	ProfessionalHelp []SafetyContact `json:"professionalHelp,omitempty"`
	SafeEnvironment  []string        `json:"safeEnvironment"`
	ReasonsForLiving []string        `json:"reasonsForLiving,omitempty"`
	LastUpdated      time.Time       `json:"lastUpdated"`
}

// MoodCheckIn is a quick mood rating.
type MoodCheckIn struct {
	ID        string    `json:"id"`
	Mood      int       `json:"mood"`
	Note      string    `json:"note,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
