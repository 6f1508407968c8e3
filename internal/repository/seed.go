package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/voiceout/platform/internal/domain"
)

// DemoUsers is the directory seeded for demo deployments. Logging in with
// one of these emails picks up the stored profile.
func DemoUsers() []domain.User {
	return []domain.User{
		{Email: "student@demo.tw", Name: "林小明", Role: domain.RoleVictim, Profile: domain.StudentProfile{
			School: "大安國中", District: "台北市", Grade: "8", Class: "3",
		}},
		{Email: "parent@demo.tw", Name: "林媽媽", Role: domain.RoleParent, Profile: domain.ParentProfile{
			School: "大安國中", District: "台北市", Grade: "8", Class: "3",
		}},
		{Email: "homeroom@demo.tw", Name: "王老師", Role: domain.RoleTeacher, Profile: domain.TeacherProfile{
			School: "大安國中", District: "台北市", Position: domain.PositionHomeroom,
			TeachingGrades: []string{"8"}, TeachingClasses: []string{"3"},
		}},
		{Email: "director@demo.tw", Name: "陳主任", Role: domain.RoleTeacher, Profile: domain.TeacherProfile{
			School: "大安國中", District: "台北市", Position: "學務" + domain.PositionDirectorTag,
		}},
		{Email: "psych.taipei@demo.tw", Name: "張心理師", Role: domain.RolePsychologist, Profile: domain.PsychologistProfile{
			Practice: domain.Practice{LicenseNumber: "PSY-0421", ServiceArea: []string{"台北市", "新北市"}, Specialties: []string{"青少年", "霸凌創傷"}},
		}},
		{Email: "psych.kaohsiung@demo.tw", Name: "黃心理師", Role: domain.RolePsychologist, Profile: domain.PsychologistProfile{
			Practice: domain.Practice{LicenseNumber: "PSY-1180", ServiceArea: []string{"高雄市"}, Specialties: []string{"家庭諮商"}},
		}},
		{Email: "lawyer@demo.tw", Name: "李律師", Role: domain.RoleLawyer, Profile: domain.LawyerProfile{
			Practice: domain.Practice{LicenseNumber: "LAW-3307", ServiceArea: []string{"台北市"}, Specialties: []string{"網路誹謗", "個資保護"}},
		}},
		{Email: "admin@demo.tw", Name: "系統管理者", Role: domain.RoleAdmin, Profile: domain.AdminProfile{
			Jurisdiction: domain.JurisdictionNational,
		}},
		{Email: "district.admin@demo.tw", Name: "台北市教育局", Role: domain.RoleAdmin, Profile: domain.AdminProfile{
			Jurisdiction: domain.JurisdictionDistrict, JurisdictionArea: "台北市",
		}},
	}
}

// DemoCases is the case list seeded for demo deployments.
func DemoCases(now time.Time) []domain.Case {
	victim := "student@demo.tw"
	psych := "psych.taipei@demo.tw"
	return []domain.Case{
		{
			ID: "case-001", ReporterID: victim, VictimID: &victim,
			Title: "群組內被嘲笑", Description: "班級群組持續出現針對我的貼圖與留言。", IncidentType: "group_harassment",
			School: "大安國中", District: "台北市", Grade: "8", Class: "3",
			Status: domain.CaseStatusPending, Priority: domain.CasePriorityHigh,
			CreatedAt: now.Add(-72 * time.Hour),
		},
		{
			ID: "case-002", ReporterID: "parent@demo.tw", VictimID: &victim,
			Title: "假帳號散布照片", Description: "有人以假帳號散布孩子的照片。", IncidentType: "impersonation",
			School: "大安國中", District: "台北市", Grade: "8", Class: "3",
			Status: domain.CaseStatusProcessing, Priority: domain.CasePriorityUrgent,
			AssignedPsychologistID: &psych,
			CreatedAt:              now.Add(-48 * time.Hour),
		},
		{
			ID: "case-003", ReporterID: "other@demo.tw",
			Title: "遊戲中被排擠", Description: "線上遊戲公會集體封鎖並辱罵。", IncidentType: "exclusion",
			School: "大安國中", District: "台北市", Grade: "7", Class: "1",
			Status: domain.CaseStatusPending, Priority: domain.CasePriorityMedium,
			CreatedAt: now.Add(-24 * time.Hour),
		},
		{
			ID: "case-004", ReporterID: "south@demo.tw",
			Title: "留言威脅", Description: "社群貼文下方出現威脅留言。", IncidentType: "threat",
			School: "前鎮高中", District: "高雄市", Grade: "10", Class: "5",
			Status: domain.CaseStatusResolved, Priority: domain.CasePriorityLow,
			CreatedAt: now.Add(-240 * time.Hour),
		},
	}
}

// Seed loads the demo directory, and the demo cases when no case exists yet.
func Seed(ctx context.Context, cases CaseRepository, users UserRepository, now time.Time) error {
	for _, user := range DemoUsers() {
		u := user
		if err := users.Upsert(ctx, &u); err != nil {
			return fmt.Errorf("seed user %s: %w", u.Email, err)
		}
	}

	existing, err := cases.List(ctx, CaseFilter{})
	if err != nil {
		return fmt.Errorf("seed cases: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}
	for _, c := range DemoCases(now) {
		item := c
		if err := cases.Create(ctx, &item); err != nil {
			return fmt.Errorf("seed case %s: %w", item.ID, err)
		}
	}
	return nil
}
