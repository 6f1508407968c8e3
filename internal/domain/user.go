package domain

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Profile holds the organizational attributes valid for exactly one role.
type Profile interface {
	Role() Role
}

// StudentProfile describes a student reporting as a victim.
type StudentProfile struct {
	School   string `json:"school,omitempty"`
	District string `json:"district,omitempty"`
	Grade    string `json:"grade,omitempty"`
	Class    string `json:"class,omitempty"`
}

func (StudentProfile) Role() Role { return RoleVictim }

// ParentProfile locates the parent's child.
type ParentProfile struct {
	School   string `json:"school,omitempty"`
	District string `json:"district,omitempty"`
	Grade    string `json:"grade,omitempty"`
	Class    string `json:"class,omitempty"`
}

func (ParentProfile) Role() Role { return RoleParent }

// Teacher positions with special scoping.
const (
	PositionHomeroom    = "導師"
	PositionDirectorTag = "主任"
)

// TeacherProfile describes a teacher and the classes they teach.
type TeacherProfile struct {
	School          string   `json:"school,omitempty"`
	District        string   `json:"district,omitempty"`
	Position        string   `json:"position,omitempty"`
	TeachingGrades  []string `json:"teachingGrades,omitempty"`
	TeachingClasses []string `json:"teachingClasses,omitempty"`
}

func (TeacherProfile) Role() Role { return RoleTeacher }

// Practice carries the attributes shared by licensed professionals.
type Practice struct {
	LicenseNumber string   `json:"licenseNumber,omitempty"`
	ServiceArea   []string `json:"serviceArea,omitempty"`
	Specialties   []string `json:"specialties,omitempty"`
}

// PsychologistProfile describes a psychologist's practice.
type PsychologistProfile struct {
	Practice
}

func (PsychologistProfile) Role() Role { return RolePsychologist }

// LawyerProfile describes a lawyer's practice.
type LawyerProfile struct {
	Practice
}

func (LawyerProfile) Role() Role { return RoleLawyer }

// AdminProfile describes an administrator's jurisdiction.
type AdminProfile struct {
	Jurisdiction     Jurisdiction `json:"jurisdiction,omitempty"`
	JurisdictionArea string       `json:"jurisdictionArea,omitempty"`
}

func (AdminProfile) Role() Role { return RoleAdmin }

// ErrProfileMismatch is returned when a profile variant does not belong to the role.
var ErrProfileMismatch = errors.New("profile does not match role")

// EmptyProfile returns the zero-valued profile variant for role.
func EmptyProfile(role Role) (Profile, error) {
	switch role {
	case RoleVictim:
		return StudentProfile{}, nil
	case RoleParent:
		return ParentProfile{}, nil
	case RoleTeacher:
		return TeacherProfile{}, nil
	case RolePsychologist:
		return PsychologistProfile{}, nil
	case RoleLawyer:
		return LawyerProfile{}, nil
	case RoleAdmin:
		return AdminProfile{}, nil
	default:
		return nil, fmt.Errorf("unknown role %q", role)
	}
}

// DecodeProfile decodes raw JSON into the profile variant for role.
func DecodeProfile(role Role, raw json.RawMessage) (Profile, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return EmptyProfile(role)
	}
	var (
		profile Profile
		err     error
	)
	switch role {
	case RoleVictim:
		var p StudentProfile
		err = json.Unmarshal(raw, &p)
		profile = p
	case RoleParent:
		var p ParentProfile
		err = json.Unmarshal(raw, &p)
		profile = p
	case RoleTeacher:
		var p TeacherProfile
		err = json.Unmarshal(raw, &p)
		profile = p
	case RolePsychologist:
		var p PsychologistProfile
		err = json.Unmarshal(raw, &p)
		profile = p
	case RoleLawyer:
		var p LawyerProfile
		err = json.Unmarshal(raw, &p)
		profile = p
	case RoleAdmin:
		var p AdminProfile
		err = json.Unmarshal(raw, &p)
		profile = p
	default:
		return nil, fmt.Errorf("unknown role %q", role)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s profile: %w", role, err)
	}
	return profile, nil
}

// User is the authenticated identity of a browser session.
type User struct {
	Email   string
	Name    string
	Role    Role
	Profile Profile
}

// NewUser builds a user, defaulting the profile to the role's empty variant.
func NewUser(email string, role Role, profile Profile) (*User, error) {
	if !role.Valid() {
		return nil, fmt.Errorf("unknown role %q", role)
	}
	if profile == nil {
		profile, _ = EmptyProfile(role)
	}
	if profile.Role() != role {
		return nil, ErrProfileMismatch
	}
	return &User{Email: email, Role: role, Profile: profile}, nil
}

type userJSON struct {
	Email   string          `json:"email"`
	Name    string          `json:"name,omitempty"`
	Role    Role            `json:"role"`
	Profile json.RawMessage `json:"profile,omitempty"`
}

// MarshalJSON encodes the user with its profile nested under "profile".
func (u User) MarshalJSON() ([]byte, error) {
	out := userJSON{Email: u.Email, Name: u.Name, Role: u.Role}
	if u.Profile != nil {
		raw, err := json.Marshal(u.Profile)
		if err != nil {
			return nil, err
		}
		out.Profile = raw
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes the profile according to the role.
func (u *User) UnmarshalJSON(data []byte) error {
	var in userJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	if !in.Role.Valid() {
		return fmt.Errorf("unknown role %q", in.Role)
	}
	profile, err := DecodeProfile(in.Role, in.Profile)
	if err != nil {
		return err
	}
	*u = User{Email: in.Email, Name: in.Name, Role: in.Role, Profile: profile}
	return nil
}

// Student returns the student profile when the user is a victim.
func (u *User) Student() (StudentProfile, bool) {
	p, ok := u.Profile.(StudentProfile)
	return p, ok
}

// Parent returns the parent profile when the user is a parent.
func (u *User) Parent() (ParentProfile, bool) {
	p, ok := u.Profile.(ParentProfile)
	return p, ok
}

// Teacher returns the teacher profile when the user is a teacher.
func (u *User) Teacher() (TeacherProfile, bool) {
	p, ok := u.Profile.(TeacherProfile)
	return p, ok
}

// Practice returns the practice attributes of a psychologist or lawyer.
func (u *User) Practice() (Practice, bool) {
	switch p := u.Profile.(type) {
	case PsychologistProfile:
		return p.Practice, true
	case LawyerProfile:
		return p.Practice, true
	default:
		return Practice{}, false
	}
}

// Admin returns the admin profile when the user is an admin.
func (u *User) Admin() (AdminProfile, bool) {
	p, ok := u.Profile.(AdminProfile)
	return p, ok
}
