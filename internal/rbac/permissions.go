// Package rbac holds the static role to permission registry.
package rbac

import "github.com/voiceout/platform/internal/domain"

// rolePermissions maps roles to their fixed permissions. Never mutated.
var rolePermissions = map[domain.Role][]domain.Permission{
	domain.RoleVictim: {
		domain.PermSubmitReport, domain.PermViewOwnCases,
		domain.PermUseSelfHelp, domain.PermUseAIChat,
	},
	domain.RoleParent: {
		domain.PermSubmitReport, domain.PermViewChildCases, domain.PermUseSelfHelp,
	},
	domain.RoleTeacher: {
		domain.PermReviewSchoolCases, domain.PermUpdateCaseStatus, domain.PermAddCaseNotes,
		domain.PermReferCases, domain.PermViewAnalytics,
	},
	domain.RolePsychologist: {
		domain.PermReviewAssignedCases, domain.PermProvideCounseling,
		domain.PermUpdateCaseStatus, domain.PermAddCaseNotes, domain.PermViewRiskAssessments,
	},
	domain.RoleLawyer: {
		domain.PermReviewAssignedCases, domain.PermProvideLegalAdvice,
		domain.PermUpdateCaseStatus, domain.PermAddCaseNotes,
	},
	domain.RoleAdmin: {
		domain.PermManageAllCases, domain.PermAssignCases, domain.PermReferCases,
		domain.PermUpdateCaseStatus, domain.PermAddCaseNotes,
		domain.PermManageUsers, domain.PermViewAnalytics, domain.PermViewRiskAssessments,
	},
}

// HasPermission checks if a role has a specific permission.
func HasPermission(role domain.Role, perm domain.Permission) bool {
	for _, p := range rolePermissions[role] {
		if p == perm {
			return true
		}
	}
	return false
}

// HasAnyPermission reports whether the role holds at least one of perms.
func HasAnyPermission(role domain.Role, perms ...domain.Permission) bool {
	for _, perm := range perms {
		if HasPermission(role, perm) {
			return true
		}
	}
	return false
}

// HasAllPermissions reports whether the role holds every one of perms.
// An empty list is trivially satisfied.
func HasAllPermissions(role domain.Role, perms ...domain.Permission) bool {
	for _, perm := range perms {
		if !HasPermission(role, perm) {
			return false
		}
	}
	return true
}

// PermissionsFor returns a copy of the role's permissions.
func PermissionsFor(role domain.Role) []domain.Permission {
	perms := rolePermissions[role]
	out := make([]domain.Permission, len(perms))
	copy(out, perms)
	return out
}
