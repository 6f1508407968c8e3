package dto

import "github.com/voiceout/platform/internal/domain"

// JournalEntryRequest payload.
type JournalEntryRequest struct {
	Mood    string `json:"mood"`
	Content string `json:"content"`
}

// AssessmentRequest payload. The score is computed from the answers.
type AssessmentRequest struct {
	Type    domain.AssessmentType `json:"type"`
	Answers []int                 `json:"answers"`
}

// MoodCheckInRequest payload. Mood is rated 1 to 5.
type MoodCheckInRequest struct {
	Mood int    `json:"mood"`
	Note string `json:"note"`
}
