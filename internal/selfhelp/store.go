// Package selfhelp keeps a user's private wellbeing records for one browser
// session: emotion journal, assessments, safety plan and mood check-ins.
package selfhelp

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/voiceout/platform/internal/domain"
	"github.com/voiceout/platform/internal/persistence"
)

// StorageKey is where the aggregate is persisted.
const StorageKey = "obrh_user_data"

// Data is the persisted self-help aggregate. Lists are newest first.
type Data struct {
	EmotionJournal    []domain.JournalEntry     `json:"emotionJournal"`
	AssessmentResults []domain.AssessmentResult `json:"assessmentResults"`
	SafetyPlan        *domain.SafetyPlan        `json:"safetyPlan"`
	MoodHistory       *MoodHistory              `json:"moodHistory"`
}

func emptyData() Data {
	return Data{
		EmotionJournal:    []domain.JournalEntry{},
		AssessmentResults: []domain.AssessmentResult{},
		MoodHistory:       NewMoodHistory(MoodHistoryCapacity),
	}
}

// Store accumulates self-help records and mirrors them to storage after
// every mutation. Not safe for concurrent use.
type Store struct {
	storage persistence.KeyValueStore
	logger  *zap.Logger
	now     func() time.Time
	data    Data
}

// Option customizes a Store.
type Option func(*Store)

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New returns an empty store over storage.
func New(storage persistence.KeyValueStore, logger *zap.Logger, opts ...Option) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{storage: storage, logger: logger, now: time.Now, data: emptyData()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load replaces the in-memory aggregate with the persisted one. Missing or
// unreadable data yields an empty aggregate.
func (s *Store) Load(ctx context.Context) {
	s.data = emptyData()
	raw, ok, err := s.storage.Get(ctx, StorageKey)
	if err != nil {
		s.logger.Warn("self-help storage unavailable", zap.Error(err))
		return
	}
	if !ok {
		return
	}
	loaded := emptyData()
	if err := json.Unmarshal([]byte(raw), &loaded); err != nil {
		s.logger.Warn("discarding unparseable self-help data", zap.Error(err))
		return
	}
	if loaded.EmotionJournal == nil {
		loaded.EmotionJournal = []domain.JournalEntry{}
	}
	if loaded.AssessmentResults == nil {
		loaded.AssessmentResults = []domain.AssessmentResult{}
	}
	if loaded.MoodHistory == nil {
		loaded.MoodHistory = NewMoodHistory(MoodHistoryCapacity)
	}
	s.data = loaded
}

// AddJournalEntry records a journal entry.
func (s *Store) AddJournalEntry(ctx context.Context, mood, content string) domain.JournalEntry {
	entry := domain.JournalEntry{ID: uuid.NewString(), Mood: mood, Content: content, Timestamp: s.now()}
	s.data.EmotionJournal = append([]domain.JournalEntry{entry}, s.data.EmotionJournal...)
	s.persist(ctx)
	return entry
}

// AddAssessmentResult records a completed questionnaire.
func (s *Store) AddAssessmentResult(ctx context.Context, kind domain.AssessmentType, score int, answers []int) domain.AssessmentResult {
	result := domain.AssessmentResult{
		ID:        uuid.NewString(),
		Type:      kind,
		Score:     score,
		Severity:  Severity(kind, score),
		Answers:   append([]int(nil), answers...),
		Timestamp: s.now(),
	}
	s.data.AssessmentResults = append([]domain.AssessmentResult{result}, s.data.AssessmentResults...)
	s.persist(ctx)
	return result
}

// AddMoodCheckIn records a mood rating, evicting the oldest beyond capacity.
func (s *Store) AddMoodCheckIn(ctx context.Context, mood int, note string) domain.MoodCheckIn {
	entry := domain.MoodCheckIn{ID: uuid.NewString(), Mood: mood, Note: note, Timestamp: s.now()}
	s.data.MoodHistory.Push(entry)
	s.persist(ctx)
	return entry
}

// UpdateSafetyPlan replaces the safety plan wholesale.
func (s *Store) UpdateSafetyPlan(ctx context.Context, plan domain.SafetyPlan) domain.SafetyPlan {
	plan.LastUpdated = s.now()
	s.data.SafetyPlan = &plan
	s.persist(ctx)
	return plan
}

// ExportData serializes the aggregate for download.
func (s *Store) ExportData() ([]byte, error) {
	return json.MarshalIndent(s.data, "", "  ")
}

// ClearAllData resets to empty and removes the persisted record.
func (s *Store) ClearAllData(ctx context.Context) {
	s.data = emptyData()
	if err := s.storage.Delete(ctx, StorageKey); err != nil {
		s.logger.Warn("failed to clear self-help data", zap.Error(err))
	}
}

// Snapshot returns a copy of the whole aggregate.
func (s *Store) Snapshot() Data {
	out := Data{
		EmotionJournal:    s.Journal(),
		AssessmentResults: s.Assessments(),
		MoodHistory:       NewMoodHistory(MoodHistoryCapacity),
	}
	for i := s.data.MoodHistory.Len() - 1; i >= 0; i-- {
		out.MoodHistory.Push(s.data.MoodHistory.entries[i])
	}
	if s.data.SafetyPlan != nil {
		plan := *s.data.SafetyPlan
		out.SafetyPlan = &plan
	}
	return out
}

// Journal returns the journal, newest first.
func (s *Store) Journal() []domain.JournalEntry {
	return append([]domain.JournalEntry{}, s.data.EmotionJournal...)
}

// Assessments returns assessment results, newest first.
func (s *Store) Assessments() []domain.AssessmentResult {
	return append([]domain.AssessmentResult{}, s.data.AssessmentResults...)
}

// MoodHistory returns check-ins, newest first.
func (s *Store) MoodHistory() []domain.MoodCheckIn {
	return s.data.MoodHistory.Entries()
}

// SafetyPlan returns the current plan, if any.
func (s *Store) SafetyPlan() (domain.SafetyPlan, bool) {
	if s.data.SafetyPlan == nil {
		return domain.SafetyPlan{}, false
	}
	return *s.data.SafetyPlan, true
}

func (s *Store) persist(ctx context.Context) {
	payload, err := json.Marshal(s.data)
	if err != nil {
		s.logger.Warn("failed to encode self-help data", zap.Error(err))
		return
	}
	if err := s.storage.Set(ctx, StorageKey, string(payload)); err != nil {
		s.logger.Warn("failed to persist self-help data", zap.Error(err))
	}
}
