package rbac

import "github.com/voiceout/platform/internal/domain"

// RoleInfo is display metadata for a role.
type RoleInfo struct {
	Role        domain.Role `json:"role"`
	Label       string      `json:"label"`
	Icon        string      `json:"icon"`
	Description string      `json:"description"`
}

var roleOrder = []domain.Role{
	domain.RoleVictim,
	domain.RoleParent,
	domain.RoleTeacher,
	domain.RolePsychologist,
	domain.RoleLawyer,
	domain.RoleAdmin,
}

var roleInfo = map[domain.Role]RoleInfo{
	domain.RoleVictim: {
		Role: domain.RoleVictim, Label: "學生", Icon: "🎒",
		Description: "Report incidents and use private self-help tools",
	},
	domain.RoleParent: {
		Role: domain.RoleParent, Label: "家長", Icon: "👪",
		Description: "Report on behalf of a child and follow their class cases",
	},
	domain.RoleTeacher: {
		Role: domain.RoleTeacher, Label: "教師", Icon: "🍎",
		Description: "Review school cases and refer them to professionals",
	},
	domain.RolePsychologist: {
		Role: domain.RolePsychologist, Label: "心理師", Icon: "🧠",
		Description: "Provide counseling for assigned cases in the service area",
	},
	domain.RoleLawyer: {
		Role: domain.RoleLawyer, Label: "律師", Icon: "⚖️",
		Description: "Provide legal advice for assigned cases in the service area",
	},
	domain.RoleAdmin: {
		Role: domain.RoleAdmin, Label: "管理者", Icon: "🛡️",
		Description: "Manage cases and users within a jurisdiction",
	},
}

// AllRoles returns every role in display order.
func AllRoles() []domain.Role {
	out := make([]domain.Role, len(roleOrder))
	copy(out, roleOrder)
	return out
}

// RoleInfoFor returns display metadata for role.
func RoleInfoFor(role domain.Role) (RoleInfo, bool) {
	info, ok := roleInfo[role]
	return info, ok
}
