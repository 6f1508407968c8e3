package dto

import (
	"github.com/voiceout/platform/internal/domain"
)

// CreateCaseRequest payload.
type CreateCaseRequest struct {
	Title        string              `json:"title"`
	Description  string              `json:"description"`
	IncidentType string              `json:"incidentType"`
	Priority     domain.CasePriority `json:"priority"`
	VictimEmail  string              `json:"victimEmail"`
	School       string              `json:"school"`
	District     string              `json:"district"`
	Grade        string              `json:"grade"`
	Class        string              `json:"class"`
}

// CreateNoteRequest payload.
type CreateNoteRequest struct {
	Body string `json:"body"`
}

// ReferralRequest payload.
type ReferralRequest struct {
	ProfessionalEmail string      `json:"professionalEmail"`
	Role              domain.Role `json:"role"`
}

// CaseResponse is a case plus whether the caller may act on it.
type CaseResponse struct {
	domain.Case
	Editable bool `json:"editable"`
}

// CaseDetailResponse provides full case info.
type CaseDetailResponse struct {
	CaseResponse
	Notes   []domain.CaseNote    `json:"notes"`
	History []domain.CaseHistory `json:"history"`
}

// ProfessionalResponse is an entry of the referral picker.
type ProfessionalResponse struct {
	Email         string      `json:"email"`
	Name          string      `json:"name"`
	Role          domain.Role `json:"role"`
	LicenseNumber string      `json:"licenseNumber"`
	ServiceArea   []string    `json:"serviceArea"`
	Specialties   []string    `json:"specialties"`
}
