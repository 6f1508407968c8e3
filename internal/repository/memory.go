package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/voiceout/platform/internal/domain"
)

// MemoryStore keeps cases, notes, history and the user directory in process
// memory. It is used when no Postgres DSN is configured and in tests.
type MemoryStore struct {
	mu      sync.RWMutex
	now     func() time.Time
	cases   []domain.Case
	notes   []domain.CaseNote
	history []domain.CaseHistory
	users   map[string]domain.User
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{now: time.Now, users: make(map[string]domain.User)}
}

// Cases returns the store's case repository.
func (m *MemoryStore) Cases() CaseRepository { return memoryCases{m} }

// Notes returns the store's note repository.
func (m *MemoryStore) Notes() CaseNoteRepository { return memoryNotes{m} }

// History returns the store's history repository.
func (m *MemoryStore) History() CaseHistoryRepository { return memoryHistory{m} }

// Users returns the store's user directory.
func (m *MemoryStore) Users() UserRepository { return memoryUsers{m} }

type memoryCases struct{ m *MemoryStore }

func (r memoryCases) Create(_ context.Context, c *domain.Case) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	now := r.m.now()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = c.CreatedAt
	r.m.cases = append(r.m.cases, cloneCase(*c))
	return nil
}

func (r memoryCases) Update(_ context.Context, c *domain.Case) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for i := range r.m.cases {
		if r.m.cases[i].ID != c.ID {
			continue
		}
		stored := &r.m.cases[i]
		stored.Status = c.Status
		stored.Priority = c.Priority
		stored.AssignedTeacherID = c.AssignedTeacherID
		stored.AssignedPsychologistID = c.AssignedPsychologistID
		stored.AssignedLawyerID = c.AssignedLawyerID
		stored.UpdatedAt = r.m.now()
		c.UpdatedAt = stored.UpdatedAt
		r.m.cases[i] = cloneCase(*stored)
		return nil
	}
	return ErrNotFound
}

func (r memoryCases) GetByID(_ context.Context, id string) (*domain.Case, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	for _, c := range r.m.cases {
		if c.ID == id {
			out := cloneCase(c)
			return &out, nil
		}
	}
	return nil, ErrNotFound
}

func (r memoryCases) List(_ context.Context, filter CaseFilter) ([]domain.Case, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	result := []domain.Case{}
	for _, c := range r.m.cases {
		if matchesFilter(c, filter) {
			result = append(result, cloneCase(c))
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func matchesFilter(c domain.Case, filter CaseFilter) bool {
	if len(filter.Statuses) > 0 && !containsValue(filter.Statuses, c.Status) {
		return false
	}
	if len(filter.Priorities) > 0 && !containsValue(filter.Priorities, c.Priority) {
		return false
	}
	if filter.SearchTerm != nil {
		term := strings.ToLower(strings.TrimSpace(*filter.SearchTerm))
		if term != "" &&
			!strings.Contains(strings.ToLower(c.Title), term) &&
			!strings.Contains(strings.ToLower(c.Description), term) {
			return false
		}
	}
	return true
}

func containsValue[T comparable](values []T, v T) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}

func cloneCase(c domain.Case) domain.Case {
	c.VictimID = cloneString(c.VictimID)
	c.AssignedTeacherID = cloneString(c.AssignedTeacherID)
	c.AssignedPsychologistID = cloneString(c.AssignedPsychologistID)
	c.AssignedLawyerID = cloneString(c.AssignedLawyerID)
	return c
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

type memoryNotes struct{ m *MemoryStore }

func (r memoryNotes) Create(_ context.Context, note *domain.CaseNote) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	note.CreatedAt = r.m.now()
	r.m.notes = append(r.m.notes, *note)
	return nil
}

func (r memoryNotes) ListByCase(_ context.Context, caseID string) ([]domain.CaseNote, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	result := []domain.CaseNote{}
	for _, note := range r.m.notes {
		if note.CaseID == caseID {
			result = append(result, note)
		}
	}
	return result, nil
}

type memoryHistory struct{ m *MemoryStore }

func (r memoryHistory) Create(_ context.Context, history *domain.CaseHistory) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	history.CreatedAt = r.m.now()
	r.m.history = append(r.m.history, *history)
	return nil
}

func (r memoryHistory) ListByCase(_ context.Context, caseID string) ([]domain.CaseHistory, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	result := []domain.CaseHistory{}
	for _, h := range r.m.history {
		if h.CaseID == caseID {
			result = append(result, h)
		}
	}
	return result, nil
}

type memoryUsers struct{ m *MemoryStore }

func (r memoryUsers) Upsert(_ context.Context, user *domain.User) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	r.m.users[user.Email] = *user
	return nil
}

func (r memoryUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	user, ok := r.m.users[email]
	if !ok {
		return nil, ErrNotFound
	}
	return &user, nil
}

func (r memoryUsers) ListByRole(_ context.Context, role domain.Role) ([]domain.User, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	result := []domain.User{}
	for _, user := range r.m.users {
		if user.Role == role {
			result = append(result, user)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Email < result[j].Email })
	return result, nil
}
