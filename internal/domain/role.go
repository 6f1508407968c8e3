package domain

import "fmt"

// Role enumerates the user categories of the platform.
type Role string

const (
	RoleVictim       Role = "victim"
	RoleParent       Role = "parent"
	RoleTeacher      Role = "teacher"
	RolePsychologist Role = "psychologist"
	RoleLawyer       Role = "lawyer"
	RoleAdmin        Role = "admin"
)

var validRoles = map[Role]struct{}{
	RoleVictim:       {},
	RoleParent:       {},
	RoleTeacher:      {},
	RolePsychologist: {},
	RoleLawyer:       {},
	RoleAdmin:        {},
}

// Valid reports whether r is one of the fixed roles.
func (r Role) Valid() bool {
	_, ok := validRoles[r]
	return ok
}

// ParseRole converts a raw string into a Role.
func ParseRole(raw string) (Role, error) {
	role := Role(raw)
	if !role.Valid() {
		return "", fmt.Errorf("unknown role %q", raw)
	}
	return role, nil
}

// Permission is a named capability independent of any specific case.
type Permission string

const (
	PermSubmitReport        Permission = "submit_report"
	PermViewOwnCases        Permission = "view_own_cases"
	PermViewChildCases      Permission = "view_child_cases"
	PermUseSelfHelp         Permission = "use_self_help"
	PermUseAIChat           Permission = "use_ai_chat"
	PermReviewSchoolCases   Permission = "review_school_cases"
	PermReferCases          Permission = "refer_cases"
	PermReviewAssignedCases Permission = "review_assigned_cases"
	PermProvideCounseling   Permission = "provide_counseling"
	PermProvideLegalAdvice  Permission = "provide_legal_advice"
	PermUpdateCaseStatus    Permission = "update_case_status"
	PermAddCaseNotes        Permission = "add_case_notes"
	PermViewRiskAssessments Permission = "view_risk_assessments"
	PermManageAllCases      Permission = "manage_all_cases"
	PermAssignCases         Permission = "assign_cases"
	PermManageUsers         Permission = "manage_users"
	PermViewAnalytics       Permission = "view_analytics"
)

// Jurisdiction is the administrative scope of an admin.
type Jurisdiction string

const (
	JurisdictionNational Jurisdiction = "national"
	JurisdictionDistrict Jurisdiction = "district"
	JurisdictionSchool   Jurisdiction = "school"
)
