package scoping

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voiceout/platform/internal/domain"
)

func strPtr(s string) *string { return &s }

func ids(cases []domain.Case) []string {
	out := make([]string, 0, len(cases))
	for _, c := range cases {
		out = append(out, c.ID)
	}
	return out
}

var (
	schools   = []string{"Lincoln MS", "Roosevelt HS", "Maple ES"}
	districts = []string{"North", "South", "East"}
	grades    = []string{"7", "8", "9"}
	classes   = []string{"1", "2", "3"}
	emails    = []string{"kid1@x.com", "kid2@x.com", "psy@x.com", "law@x.com", "t1@x.com"}
)

func pick(r *rand.Rand, values []string) string { return values[r.Intn(len(values))] }

func maybe(r *rand.Rand, values []string) *string {
	if r.Intn(3) == 0 {
		return nil
	}
	return strPtr(pick(r, values))
}

func randomCases(r *rand.Rand, n int) []domain.Case {
	out := make([]domain.Case, n)
	for i := range out {
		out[i] = domain.Case{
			ID:                     fmt.Sprintf("c%d", i),
			ReporterID:             pick(r, emails),
			VictimID:               maybe(r, emails),
			School:                 pick(r, schools),
			District:               pick(r, districts),
			Grade:                  pick(r, grades),
			Class:                  pick(r, classes),
			Status:                 domain.CaseStatusPending,
			AssignedPsychologistID: maybe(r, emails),
			AssignedLawyerID:       maybe(r, emails),
		}
	}
	return out
}

func randomUsers(r *rand.Rand) []*domain.User {
	return []*domain.User{
		{Email: pick(r, emails), Role: domain.RoleVictim, Profile: domain.StudentProfile{School: pick(r, schools)}},
		{Email: "p@x.com", Role: domain.RoleParent, Profile: domain.ParentProfile{School: pick(r, schools), Grade: pick(r, grades), Class: pick(r, classes)}},
		{Email: "t1@x.com", Role: domain.RoleTeacher, Profile: domain.TeacherProfile{School: pick(r, schools), Position: domain.PositionHomeroom, TeachingGrades: []string{pick(r, grades)}, TeachingClasses: []string{pick(r, classes)}}},
		{Email: "t2@x.com", Role: domain.RoleTeacher, Profile: domain.TeacherProfile{School: pick(r, schools), Position: "學務主任"}},
		{Email: "t3@x.com", Role: domain.RoleTeacher, Profile: domain.TeacherProfile{School: pick(r, schools), Position: "輔導老師", TeachingGrades: []string{pick(r, grades)}}},
		{Email: "psy@x.com", Role: domain.RolePsychologist, Profile: domain.PsychologistProfile{Practice: domain.Practice{ServiceArea: []string{pick(r, districts)}}}},
		{Email: "law@x.com", Role: domain.RoleLawyer, Profile: domain.LawyerProfile{Practice: domain.Practice{ServiceArea: []string{pick(r, districts)}}}},
		{Email: "a1@x.com", Role: domain.RoleAdmin, Profile: domain.AdminProfile{Jurisdiction: domain.JurisdictionNational}},
		{Email: "a2@x.com", Role: domain.RoleAdmin, Profile: domain.AdminProfile{Jurisdiction: domain.JurisdictionDistrict, JurisdictionArea: pick(r, districts)}},
		{Email: "a3@x.com", Role: domain.RoleAdmin, Profile: domain.AdminProfile{Jurisdiction: domain.JurisdictionSchool, JurisdictionArea: pick(r, schools)}},
	}
}

func TestHomeroomTeacherSeesOnlyOwnClass(t *testing.T) {
	user := &domain.User{
		Email: "t1@x.com",
		Role:  domain.RoleTeacher,
		Profile: domain.TeacherProfile{
			School:          "Lincoln MS",
			Position:        "導師",
			TeachingGrades:  []string{"8"},
			TeachingClasses: []string{"2"},
		},
	}
	cases := []domain.Case{
		{ID: "a", School: "Lincoln MS", Grade: "8", Class: "2"},
		{ID: "b", School: "Lincoln MS", Grade: "8", Class: "3"},
	}

	assert.Equal(t, []string{"a"}, ids(FilterCasesByRole(cases, user)))
	// edit scope is the whole school
	assert.Equal(t, []string{"a", "b"}, ids(FilterEditableCases(cases, user)))
	assert.True(t, CanEditCase(cases[1], user))
	assert.False(t, CanViewCase(cases[1], user))
}

func TestViewPolicyTable(t *testing.T) {
	cases := []domain.Case{
		{ID: "own", ReporterID: "kid@x.com", School: "Lincoln MS", District: "North", Grade: "8", Class: "2"},
		{ID: "victim", ReporterID: "friend@x.com", VictimID: strPtr("kid@x.com"), School: "Lincoln MS", District: "North", Grade: "8", Class: "3"},
		{ID: "grade9", ReporterID: "x@x.com", School: "Lincoln MS", District: "North", Grade: "9", Class: "1"},
		{ID: "other-school", ReporterID: "y@x.com", School: "Roosevelt HS", District: "South", Grade: "8", Class: "2"},
		{ID: "psy-mine", ReporterID: "z@x.com", School: "Roosevelt HS", District: "East", Grade: "7", Class: "1", AssignedPsychologistID: strPtr("psy@x.com")},
		{ID: "psy-other", ReporterID: "z@x.com", School: "Roosevelt HS", District: "South", Grade: "7", Class: "1", AssignedPsychologistID: strPtr("psy2@x.com"), AssignedLawyerID: strPtr("law@x.com")},
	}

	tests := []struct {
		name string
		user *domain.User
		want []string
	}{
		{"no user", nil, []string{}},
		{"victim", &domain.User{Email: "kid@x.com", Role: domain.RoleVictim, Profile: domain.StudentProfile{}}, []string{"own", "victim"}},
		{"parent", &domain.User{Email: "p@x.com", Role: domain.RoleParent, Profile: domain.ParentProfile{School: "Lincoln MS", Grade: "8", Class: "3"}}, []string{"victim"}},
		{"director", &domain.User{Email: "d@x.com", Role: domain.RoleTeacher, Profile: domain.TeacherProfile{School: "Lincoln MS", Position: "教務主任"}}, []string{"own", "victim", "grade9"}},
		{"counselor", &domain.User{Email: "c@x.com", Role: domain.RoleTeacher, Profile: domain.TeacherProfile{School: "Lincoln MS", Position: "輔導老師", TeachingGrades: []string{"8"}}}, []string{"own", "victim"}},
		{"psychologist", &domain.User{Email: "psy@x.com", Role: domain.RolePsychologist, Profile: domain.PsychologistProfile{Practice: domain.Practice{ServiceArea: []string{"North", "South"}}}}, []string{"own", "victim", "grade9", "other-school", "psy-mine"}},
		{"lawyer", &domain.User{Email: "law@x.com", Role: domain.RoleLawyer, Profile: domain.LawyerProfile{Practice: domain.Practice{ServiceArea: []string{"East"}}}}, []string{"psy-mine", "psy-other"}},
		{"admin national", &domain.User{Email: "a@x.com", Role: domain.RoleAdmin, Profile: domain.AdminProfile{Jurisdiction: domain.JurisdictionNational}}, ids(cases)},
		{"admin district", &domain.User{Email: "a@x.com", Role: domain.RoleAdmin, Profile: domain.AdminProfile{Jurisdiction: domain.JurisdictionDistrict, JurisdictionArea: "South"}}, []string{"other-school", "psy-other"}},
		{"admin school", &domain.User{Email: "a@x.com", Role: domain.RoleAdmin, Profile: domain.AdminProfile{Jurisdiction: domain.JurisdictionSchool, JurisdictionArea: "Roosevelt HS"}}, []string{"other-school", "psy-mine", "psy-other"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ids(FilterCasesByRole(cases, tc.user)))
		})
	}
}

func TestEditPolicyTable(t *testing.T) {
	cases := []domain.Case{
		{ID: "own", ReporterID: "kid@x.com", School: "Lincoln MS", District: "North", Grade: "8", Class: "2"},
		{ID: "victim", ReporterID: "friend@x.com", VictimID: strPtr("kid@x.com"), School: "Lincoln MS", District: "North", Grade: "8", Class: "2"},
		{ID: "assigned", ReporterID: "z@x.com", School: "Roosevelt HS", District: "North", AssignedPsychologistID: strPtr("psy@x.com"), AssignedLawyerID: strPtr("law@x.com")},
	}

	tests := []struct {
		name string
		user *domain.User
		want []string
	}{
		{"victim edits only self-reported", &domain.User{Email: "kid@x.com", Role: domain.RoleVictim, Profile: domain.StudentProfile{}}, []string{"own"}},
		{"parent never edits", &domain.User{Email: "p@x.com", Role: domain.RoleParent, Profile: domain.ParentProfile{School: "Lincoln MS", Grade: "8", Class: "2"}}, []string{}},
		{"teacher edits own school", &domain.User{Email: "t@x.com", Role: domain.RoleTeacher, Profile: domain.TeacherProfile{School: "Lincoln MS"}}, []string{"own", "victim"}},
		{"psychologist edits assigned only", &domain.User{Email: "psy@x.com", Role: domain.RolePsychologist, Profile: domain.PsychologistProfile{Practice: domain.Practice{ServiceArea: []string{"North"}}}}, []string{"assigned"}},
		{"lawyer edits assigned only", &domain.User{Email: "law@x.com", Role: domain.RoleLawyer, Profile: domain.LawyerProfile{Practice: domain.Practice{ServiceArea: []string{"North"}}}}, []string{"assigned"}},
		{"admin mirrors view", &domain.User{Email: "a@x.com", Role: domain.RoleAdmin, Profile: domain.AdminProfile{Jurisdiction: domain.JurisdictionSchool, JurisdictionArea: "Lincoln MS"}}, []string{"own", "victim"}},
		{"no user", nil, []string{}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ids(FilterEditableCases(cases, tc.user)))
		})
	}
}

func TestEmptyEmailMatchesNothing(t *testing.T) {
	cases := []domain.Case{{ID: "unassigned", District: "North"}}
	victim := &domain.User{Role: domain.RoleVictim, Profile: domain.StudentProfile{}}
	psy := &domain.User{Role: domain.RolePsychologist, Profile: domain.PsychologistProfile{}}
	assert.Empty(t, FilterCasesByRole(cases, victim))
	assert.Empty(t, FilterEditableCases(cases, victim))
	assert.Empty(t, FilterEditableCases(cases, psy))
}

func TestFilterProperties(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	for round := 0; round < 200; round++ {
		cases := randomCases(r, 1+r.Intn(30))
		for _, user := range randomUsers(r) {
			once := FilterCasesByRole(cases, user)
			assert.Equal(t, once, FilterCasesByRole(once, user), "idempotent for %s", user.Role)

			// order preserving: result is a subsequence of the input
			pos := 0
			for _, c := range once {
				for pos < len(cases) && cases[pos].ID != c.ID {
					pos++
				}
				require.Less(t, pos, len(cases), "order broken for %s", user.Role)
			}

			for _, c := range cases {
				assert.Equal(t, len(FilterCasesByRole([]domain.Case{c}, user)) > 0, CanViewCase(c, user))
				assert.Equal(t, len(FilterEditableCases([]domain.Case{c}, user)) > 0, CanEditCase(c, user))
			}

			switch p := user.Profile.(type) {
			case domain.StudentProfile:
				for _, c := range once {
					assert.True(t, c.ReporterID == user.Email || (c.VictimID != nil && *c.VictimID == user.Email))
				}
			case domain.AdminProfile:
				if p.Jurisdiction == domain.JurisdictionNational {
					assert.Equal(t, cases, once)
				}
			}
		}
	}
}

func TestSubsetNeverReadmits(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	cases := randomCases(r, 40)
	users := randomUsers(r)
	for _, user := range users {
		allowed := map[string]bool{}
		for _, c := range FilterCasesByRole(cases, user) {
			allowed[c.ID] = true
		}
		subset := cases[:len(cases)/2]
		for _, c := range FilterCasesByRole(subset, user) {
			assert.True(t, allowed[c.ID])
		}
	}
}

func TestGetAvailableProfessionals(t *testing.T) {
	c := domain.Case{ID: "c1", District: "North"}
	pros := []domain.User{
		{Email: "psy-n@x.com", Role: domain.RolePsychologist, Profile: domain.PsychologistProfile{Practice: domain.Practice{ServiceArea: []string{"South", "North"}}}},
		{Email: "psy-s@x.com", Role: domain.RolePsychologist, Profile: domain.PsychologistProfile{Practice: domain.Practice{ServiceArea: []string{"South"}}}},
		{Email: "law-n@x.com", Role: domain.RoleLawyer, Profile: domain.LawyerProfile{Practice: domain.Practice{ServiceArea: []string{"North"}}}},
		{Email: "t@x.com", Role: domain.RoleTeacher, Profile: domain.TeacherProfile{District: "North"}},
		{Email: "psy-n2@x.com", Role: domain.RolePsychologist, Profile: domain.PsychologistProfile{Practice: domain.Practice{ServiceArea: []string{"North"}}}},
	}

	got := GetAvailableProfessionals(c, pros, domain.RolePsychologist)
	require.Len(t, got, 2)
	assert.Equal(t, "psy-n@x.com", got[0].Email)
	assert.Equal(t, "psy-n2@x.com", got[1].Email)

	lawyers := GetAvailableProfessionals(c, pros, domain.RoleLawyer)
	require.Len(t, lawyers, 1)
	assert.Equal(t, "law-n@x.com", lawyers[0].Email)

	assert.Empty(t, GetAvailableProfessionals(c, pros, domain.RoleTeacher))
}
