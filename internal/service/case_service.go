package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/voiceout/platform/internal/domain"
	"github.com/voiceout/platform/internal/events"
	"github.com/voiceout/platform/internal/rbac"
	"github.com/voiceout/platform/internal/repository"
	"github.com/voiceout/platform/internal/scoping"
	apperrors "github.com/voiceout/platform/pkg/util/errorutil"
)

// CaseService coordinates case workflows. Every operation takes the session
// user and enforces both its permissions and its data scope.
type CaseService struct {
	cases      repository.CaseRepository
	notes      repository.CaseNoteRepository
	history    repository.CaseHistoryRepository
	users      repository.UserRepository
	dispatcher events.Dispatcher
	now        func() time.Time
}

// CaseDependencies bundles repositories for the case service.
type CaseDependencies struct {
	CaseRepo    repository.CaseRepository
	NoteRepo    repository.CaseNoteRepository
	HistoryRepo repository.CaseHistoryRepository
	UserRepo    repository.UserRepository
	Dispatcher  events.Dispatcher
}

// ReportInput describes a new incident report. Location fields are only used
// where the reporter's profile leaves them blank.
type ReportInput struct {
	Title        string
	Description  string
	IncidentType string
	Priority     domain.CasePriority
	VictimEmail  string
	School       string
	District     string
	Grade        string
	Class        string
}

// CaseListOptions narrows a case listing.
type CaseListOptions struct {
	Filter       repository.CaseFilter
	EditableOnly bool
}

// CaseDetail is a case with its notes and audit trail.
type CaseDetail struct {
	Case     domain.Case
	Notes    []domain.CaseNote
	History  []domain.CaseHistory
	Editable bool
}

// NewCaseService constructs the service.
func NewCaseService(deps CaseDependencies) *CaseService {
	return &CaseService{
		cases:      deps.CaseRepo,
		notes:      deps.NoteRepo,
		history:    deps.HistoryRepo,
		users:      deps.UserRepo,
		dispatcher: deps.Dispatcher,
		now:        time.Now,
	}
}

// ListCases returns the cases visible to user, newest first.
func (s *CaseService) ListCases(ctx context.Context, user *domain.User, opts CaseListOptions) ([]domain.Case, error) {
	if user == nil {
		return nil, apperrors.NewUnauthorized("login required")
	}
	all, err := s.cases.List(ctx, opts.Filter)
	if err != nil {
		return nil, err
	}
	if opts.EditableOnly {
		return scoping.FilterEditableCases(all, user), nil
	}
	return scoping.FilterCasesByRole(all, user), nil
}

// GetCase returns a case the user may view.
func (s *CaseService) GetCase(ctx context.Context, user *domain.User, id string) (*CaseDetail, error) {
	c, err := s.viewableCase(ctx, user, id)
	if err != nil {
		return nil, err
	}
	notes, err := s.notes.ListByCase(ctx, id)
	if err != nil {
		return nil, err
	}
	history, err := s.history.ListByCase(ctx, id)
	if err != nil {
		return nil, err
	}
	return &CaseDetail{
		Case:     *c,
		Notes:    notes,
		History:  history,
		Editable: scoping.CanEditCase(*c, user),
	}, nil
}

// SubmitReport files a new pending case on behalf of a student or parent.
func (s *CaseService) SubmitReport(ctx context.Context, user *domain.User, input ReportInput) (*domain.Case, error) {
	if err := requirePermission(user, domain.PermSubmitReport); err != nil {
		return nil, err
	}
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, apperrors.NewValidationError("title is required", map[string]any{"field": "title"})
	}
	priority := input.Priority
	if priority == "" {
		priority = domain.CasePriorityMedium
	}
	if !priority.Valid() {
		return nil, apperrors.NewValidationError("invalid priority", map[string]any{"priority": priority})
	}

	c := &domain.Case{
		ID:           uuid.NewString(),
		ReporterID:   user.Email,
		Title:        title,
		Description:  strings.TrimSpace(input.Description),
		IncidentType: strings.TrimSpace(input.IncidentType),
		School:       input.School,
		District:     input.District,
		Grade:        input.Grade,
		Class:        input.Class,
		Status:       domain.CaseStatusPending,
		Priority:     priority,
		CreatedAt:    s.now(),
	}

	switch p := user.Profile.(type) {
	case domain.StudentProfile:
		applyLocation(c, p.School, p.District, p.Grade, p.Class)
		victim := user.Email
		c.VictimID = &victim
	case domain.ParentProfile:
		applyLocation(c, p.School, p.District, p.Grade, p.Class)
		if v := strings.TrimSpace(input.VictimEmail); v != "" {
			c.VictimID = &v
		}
	}

	if err := s.cases.Create(ctx, c); err != nil {
		return nil, err
	}
	s.publishEvent(ctx, events.Event{
		Type:   events.EventCaseReported,
		CaseID: c.ID,
		Actor:  actorOf(user),
		Payload: events.CaseReportedPayload{
			School:       c.School,
			District:     c.District,
			Priority:     c.Priority,
			IncidentType: c.IncidentType,
		},
	})
	return c, nil
}

// StartProcessing moves a pending case into processing, or reopens a
// resolved one.
func (s *CaseService) StartProcessing(ctx context.Context, user *domain.User, id string) (*domain.Case, error) {
	return s.transition(ctx, user, id, domain.CaseStatusProcessing)
}

// Resolve closes a case that is being processed.
func (s *CaseService) Resolve(ctx context.Context, user *domain.User, id string) (*domain.Case, error) {
	return s.transition(ctx, user, id, domain.CaseStatusResolved)
}

func (s *CaseService) transition(ctx context.Context, user *domain.User, id string, next domain.CaseStatus) (*domain.Case, error) {
	if err := requirePermission(user, domain.PermUpdateCaseStatus); err != nil {
		return nil, err
	}
	c, err := s.editableCase(ctx, user, id)
	if err != nil {
		return nil, err
	}
	if !isValidTransition(c.Status, next) {
		return nil, apperrors.NewInvalidTransition(string(c.Status), string(next))
	}
	oldStatus := c.Status
	c.Status = next
	if err := s.cases.Update(ctx, c); err != nil {
		return nil, err
	}
	if err := s.recordChange(ctx, user, c.ID, domain.CaseChangeStatus, string(oldStatus), string(next)); err != nil {
		return nil, err
	}
	s.publishEvent(ctx, events.Event{
		Type:   events.EventCaseStatusChanged,
		CaseID: c.ID,
		Actor:  actorOf(user),
		Payload: events.CaseStatusChangedPayload{
			OldStatus: oldStatus,
			NewStatus: next,
		},
	})
	return c, nil
}

// AddNote appends a note to a case the user may edit.
func (s *CaseService) AddNote(ctx context.Context, user *domain.User, id, body string) (*domain.CaseNote, error) {
	if err := requirePermission(user, domain.PermAddCaseNotes); err != nil {
		return nil, err
	}
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, apperrors.NewValidationError("note body is required", map[string]any{"field": "body"})
	}
	c, err := s.editableCase(ctx, user, id)
	if err != nil {
		return nil, err
	}
	note := &domain.CaseNote{
		ID:          uuid.NewString(),
		CaseID:      c.ID,
		AuthorEmail: user.Email,
		Body:        body,
	}
	if err := s.notes.Create(ctx, note); err != nil {
		return nil, err
	}
	s.publishEvent(ctx, events.Event{
		Type:   events.EventCaseNoteAdded,
		CaseID: c.ID,
		Actor:  actorOf(user),
		Payload: events.CaseNoteAddedPayload{
			NoteID:      note.ID,
			BodyPreview: stringPreview(body, 80),
		},
	})
	return note, nil
}

// ListAvailableProfessionals returns the professionals of role who serve the
// case's district.
func (s *CaseService) ListAvailableProfessionals(ctx context.Context, user *domain.User, id string, role domain.Role) ([]domain.User, error) {
	if !isReferralRole(role) {
		return nil, apperrors.NewValidationError("role must be psychologist or lawyer", map[string]any{"role": role})
	}
	c, err := s.viewableCase(ctx, user, id)
	if err != nil {
		return nil, err
	}
	professionals, err := s.users.ListByRole(ctx, role)
	if err != nil {
		return nil, err
	}
	return scoping.GetAvailableProfessionals(*c, professionals, role), nil
}

// Refer assigns a psychologist or lawyer to a case.
func (s *CaseService) Refer(ctx context.Context, user *domain.User, id, professionalEmail string, role domain.Role) (*domain.Case, error) {
	if user == nil {
		return nil, apperrors.NewUnauthorized("login required")
	}
	if !rbac.HasAnyPermission(user.Role, domain.PermReferCases, domain.PermAssignCases) {
		return nil, apperrors.NewMissingPermission(string(domain.PermReferCases), string(domain.PermAssignCases))
	}
	available, err := s.ListAvailableProfessionals(ctx, user, id, role)
	if err != nil {
		return nil, err
	}
	if !containsEmail(available, professionalEmail) {
		return nil, apperrors.NewValidationError("professional does not serve this case", map[string]any{
			"email": professionalEmail,
			"role":  role,
		})
	}

	c, err := s.cases.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	email := professionalEmail
	var old *string
	switch role {
	case domain.RolePsychologist:
		old = c.AssignedPsychologistID
		c.AssignedPsychologistID = &email
	case domain.RoleLawyer:
		old = c.AssignedLawyerID
		c.AssignedLawyerID = &email
	}
	if old != nil && *old == email {
		return nil, apperrors.NewConflict("professional already assigned", map[string]any{"email": email})
	}
	if err := s.cases.Update(ctx, c); err != nil {
		return nil, err
	}
	oldValue := ""
	if old != nil {
		oldValue = *old
	}
	if err := s.recordChange(ctx, user, c.ID, domain.CaseChangeReferral, oldValue, string(role)+":"+email); err != nil {
		return nil, err
	}
	s.publishEvent(ctx, events.Event{
		Type:   events.EventCaseReferred,
		CaseID: c.ID,
		Actor:  actorOf(user),
		Payload: events.CaseReferredPayload{
			ProfessionalEmail: email,
			Role:              role,
		},
	})
	return c, nil
}

// viewableCase loads a case and hides it behind not-found when out of scope.
func (s *CaseService) viewableCase(ctx context.Context, user *domain.User, id string) (*domain.Case, error) {
	if user == nil {
		return nil, apperrors.NewUnauthorized("login required")
	}
	c, err := s.cases.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if !scoping.CanViewCase(*c, user) {
		return nil, apperrors.NewNotFound("case", map[string]any{"id": id})
	}
	return c, nil
}

func (s *CaseService) editableCase(ctx context.Context, user *domain.User, id string) (*domain.Case, error) {
	c, err := s.cases.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if !scoping.CanEditCase(*c, user) {
		if scoping.CanViewCase(*c, user) {
			return nil, apperrors.NewForbidden("case is outside your editing scope")
		}
		return nil, apperrors.NewNotFound("case", map[string]any{"id": id})
	}
	return c, nil
}

func (s *CaseService) recordChange(ctx context.Context, user *domain.User, caseID string, kind domain.CaseChangeType, oldValue, newValue string) error {
	if s.history == nil {
		return nil
	}
	return s.history.Create(ctx, &domain.CaseHistory{
		ID:         uuid.NewString(),
		CaseID:     caseID,
		ChangedBy:  user.Email,
		ChangeType: kind,
		OldValue:   oldValue,
		NewValue:   newValue,
	})
}

func (s *CaseService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

var allowedTransitions = map[domain.CaseStatus][]domain.CaseStatus{
	domain.CaseStatusPending:    {domain.CaseStatusProcessing},
	domain.CaseStatusProcessing: {domain.CaseStatusResolved},
	domain.CaseStatusResolved:   {domain.CaseStatusProcessing},
}

func isValidTransition(current, next domain.CaseStatus) bool {
	for _, candidate := range allowedTransitions[current] {
		if candidate == next {
			return true
		}
	}
	return false
}

func requirePermission(user *domain.User, perm domain.Permission) error {
	if user == nil {
		return apperrors.NewUnauthorized("login required")
	}
	if !rbac.HasPermission(user.Role, perm) {
		return apperrors.NewMissingPermission(string(perm))
	}
	return nil
}

func applyLocation(c *domain.Case, school, district, grade, class string) {
	if school != "" {
		c.School = school
	}
	if district != "" {
		c.District = district
	}
	if grade != "" {
		c.Grade = grade
	}
	if class != "" {
		c.Class = class
	}
}

func isReferralRole(role domain.Role) bool {
	return role == domain.RolePsychologist || role == domain.RoleLawyer
}

func containsEmail(users []domain.User, email string) bool {
	for _, u := range users {
		if u.Email == email {
			return true
		}
	}
	return false
}

func actorOf(user *domain.User) events.Actor {
	return events.Actor{Email: user.Email, Role: user.Role}
}

func stringPreview(body string, max int) string {
	runes := []rune(strings.TrimSpace(body))
	if len(runes) <= max {
		return string(runes)
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}
