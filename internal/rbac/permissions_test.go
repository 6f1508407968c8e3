package rbac

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voiceout/platform/internal/domain"
)

var allPermissions = []domain.Permission{
	domain.PermSubmitReport,
	domain.PermViewOwnCases,
	domain.PermViewChildCases,
	domain.PermUseSelfHelp,
	domain.PermUseAIChat,
	domain.PermReviewSchoolCases,
	domain.PermReferCases,
	domain.PermReviewAssignedCases,
	domain.PermProvideCounseling,
	domain.PermProvideLegalAdvice,
	domain.PermUpdateCaseStatus,
	domain.PermAddCaseNotes,
	domain.PermViewRiskAssessments,
	domain.PermManageAllCases,
	domain.PermAssignCases,
	domain.PermManageUsers,
	domain.PermViewAnalytics,
}

func TestHasPermissionGoldenTable(t *testing.T) {
	golden := map[domain.Role][]domain.Permission{
		domain.RoleVictim:       {domain.PermSubmitReport, domain.PermViewOwnCases, domain.PermUseSelfHelp, domain.PermUseAIChat},
		domain.RoleParent:       {domain.PermSubmitReport, domain.PermViewChildCases, domain.PermUseSelfHelp},
		domain.RoleTeacher:      {domain.PermReviewSchoolCases, domain.PermUpdateCaseStatus, domain.PermAddCaseNotes, domain.PermReferCases, domain.PermViewAnalytics},
		domain.RolePsychologist: {domain.PermReviewAssignedCases, domain.PermProvideCounseling, domain.PermUpdateCaseStatus, domain.PermAddCaseNotes, domain.PermViewRiskAssessments},
		domain.RoleLawyer:       {domain.PermReviewAssignedCases, domain.PermProvideLegalAdvice, domain.PermUpdateCaseStatus, domain.PermAddCaseNotes},
		domain.RoleAdmin:        {domain.PermManageAllCases, domain.PermAssignCases, domain.PermReferCases, domain.PermUpdateCaseStatus, domain.PermAddCaseNotes, domain.PermManageUsers, domain.PermViewAnalytics, domain.PermViewRiskAssessments},
	}

	for _, role := range AllRoles() {
		granted := make(map[domain.Permission]bool)
		for _, p := range golden[role] {
			granted[p] = true
		}
		for _, perm := range allPermissions {
			assert.Equalf(t, granted[perm], HasPermission(role, perm), "role=%s perm=%s", role, perm)
		}
		assert.ElementsMatch(t, golden[role], PermissionsFor(role))
	}
}

func TestUnknownRoleHasNothing(t *testing.T) {
	for _, perm := range allPermissions {
		assert.False(t, HasPermission(domain.Role("janitor"), perm))
	}
	assert.Empty(t, PermissionsFor(domain.Role("janitor")))
}

func TestAnyAndAll(t *testing.T) {
	assert.True(t, HasAnyPermission(domain.RoleTeacher, domain.PermManageUsers, domain.PermReferCases))
	assert.False(t, HasAnyPermission(domain.RoleTeacher, domain.PermManageUsers, domain.PermSubmitReport))
	assert.False(t, HasAnyPermission(domain.RoleAdmin))

	assert.True(t, HasAllPermissions(domain.RoleLawyer, domain.PermUpdateCaseStatus, domain.PermAddCaseNotes))
	assert.False(t, HasAllPermissions(domain.RoleLawyer, domain.PermAddCaseNotes, domain.PermProvideCounseling))
	assert.True(t, HasAllPermissions(domain.RoleParent))
}

func TestPermissionsForReturnsCopy(t *testing.T) {
	perms := PermissionsFor(domain.RoleVictim)
	require.NotEmpty(t, perms)
	perms[0] = domain.PermManageUsers
	assert.False(t, HasPermission(domain.RoleVictim, domain.PermManageUsers))
}

func TestRoleInfoCoversEveryRole(t *testing.T) {
	for _, role := range AllRoles() {
		info, ok := RoleInfoFor(role)
		require.Truef(t, ok, "missing info for %s", role)
		assert.Equal(t, role, info.Role)
		assert.NotEmpty(t, info.Label)
		assert.NotEmpty(t, info.Description)
	}
	_, ok := RoleInfoFor(domain.Role("nobody"))
	assert.False(t, ok)
}
