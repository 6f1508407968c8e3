// Package scoping decides which cases a user may view or edit.
package scoping

import (
	"strings"

	"github.com/voiceout/platform/internal/domain"
)

// FilterCasesByRole returns the cases the user may view, preserving order.
func FilterCasesByRole(cases []domain.Case, user *domain.User) []domain.Case {
	return filter(cases, user, canView)
}

// FilterEditableCases returns the cases the user may edit, preserving order.
func FilterEditableCases(cases []domain.Case, user *domain.User) []domain.Case {
	return filter(cases, user, canEdit)
}

// CanViewCase reports whether c survives FilterCasesByRole.
func CanViewCase(c domain.Case, user *domain.User) bool {
	return len(FilterCasesByRole([]domain.Case{c}, user)) > 0
}

// CanEditCase reports whether c survives FilterEditableCases.
func CanEditCase(c domain.Case, user *domain.User) bool {
	return len(FilterEditableCases([]domain.Case{c}, user)) > 0
}

// GetAvailableProfessionals returns professionals of role whose service area
// covers the case's district, in input order.
func GetAvailableProfessionals(c domain.Case, professionals []domain.User, role domain.Role) []domain.User {
	out := make([]domain.User, 0)
	for _, p := range professionals {
		if p.Role != role {
			continue
		}
		practice, ok := p.Practice()
		if !ok {
			continue
		}
		if contains(practice.ServiceArea, c.District) {
			out = append(out, p)
		}
	}
	return out
}

func filter(cases []domain.Case, user *domain.User, allow func(domain.Case, *domain.User) bool) []domain.Case {
	out := make([]domain.Case, 0)
	if user == nil {
		return out
	}
	for _, c := range cases {
		if allow(c, user) {
			out = append(out, c)
		}
	}
	return out
}

func canView(c domain.Case, user *domain.User) bool {
	switch p := user.Profile.(type) {
	case domain.StudentProfile:
		return user.Email != "" && (c.ReporterID == user.Email || deref(c.VictimID) == user.Email)
	case domain.ParentProfile:
		return c.School == p.School && c.Grade == p.Grade && c.Class == p.Class
	case domain.TeacherProfile:
		if c.School != p.School {
			return false
		}
		switch {
		case isDirector(p.Position):
			return true
		case p.Position == domain.PositionHomeroom:
			return contains(p.TeachingGrades, c.Grade) && contains(p.TeachingClasses, c.Class)
		default:
			return contains(p.TeachingGrades, c.Grade)
		}
	case domain.PsychologistProfile:
		return assignedOrOpenInArea(c.AssignedPsychologistID, c.District, user.Email, p.ServiceArea)
	case domain.LawyerProfile:
		return assignedOrOpenInArea(c.AssignedLawyerID, c.District, user.Email, p.ServiceArea)
	case domain.AdminProfile:
		return inJurisdiction(c, p)
	default:
		return false
	}
}

// canEdit is stricter than canView except for teachers, who may edit any
// case of their school even when their view is narrower.
func canEdit(c domain.Case, user *domain.User) bool {
	switch p := user.Profile.(type) {
	case domain.StudentProfile:
		return user.Email != "" && c.ReporterID == user.Email
	case domain.ParentProfile:
		return false
	case domain.TeacherProfile:
		return c.School == p.School
	case domain.PsychologistProfile:
		return isAssignedTo(c.AssignedPsychologistID, user.Email)
	case domain.LawyerProfile:
		return isAssignedTo(c.AssignedLawyerID, user.Email)
	case domain.AdminProfile:
		return inJurisdiction(c, p)
	default:
		return false
	}
}

func isAssignedTo(assigned *string, email string) bool {
	return deref(assigned) != "" && deref(assigned) == email
}

func assignedOrOpenInArea(assigned *string, district, email string, area []string) bool {
	if deref(assigned) != "" {
		return *assigned == email
	}
	return contains(area, district)
}

func inJurisdiction(c domain.Case, p domain.AdminProfile) bool {
	switch p.Jurisdiction {
	case domain.JurisdictionNational:
		return true
	case domain.JurisdictionDistrict:
		return c.District == p.JurisdictionArea
	case domain.JurisdictionSchool:
		return c.School == p.JurisdictionArea
	default:
		return false
	}
}

func isDirector(position string) bool {
	return strings.Contains(position, domain.PositionDirectorTag)
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
