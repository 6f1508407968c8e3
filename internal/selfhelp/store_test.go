package selfhelp

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voiceout/platform/internal/domain"
	"github.com/voiceout/platform/internal/persistence"
)

func fixedClock() func() time.Time {
	base := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	n := 0
	return func() time.Time {
		n++
		return base.Add(time.Duration(n) * time.Minute)
	}
}

func TestMoodHistoryKeepsMostRecentThirty(t *testing.T) {
	ctx := context.Background()
	store := New(persistence.NewMemoryKV(), nil, WithClock(fixedClock()))

	var first, last domain.MoodCheckIn
	for i := 1; i <= 31; i++ {
		entry := store.AddMoodCheckIn(ctx, i%5+1, "")
		if i == 1 {
			first = entry
		}
		last = entry
	}

	history := store.MoodHistory()
	require.Len(t, history, MoodHistoryCapacity)
	assert.Equal(t, last.ID, history[0].ID)
	for _, entry := range history {
		assert.NotEqual(t, first.ID, entry.ID)
	}
	for i := 1; i < len(history); i++ {
		assert.True(t, history[i-1].Timestamp.After(history[i].Timestamp))
	}
}

func TestMoodHistoryPushReportsEviction(t *testing.T) {
	h := NewMoodHistory(2)
	_, dropped := h.Push(domain.MoodCheckIn{ID: "a"})
	assert.False(t, dropped)
	h.Push(domain.MoodCheckIn{ID: "b"})
	evicted, dropped := h.Push(domain.MoodCheckIn{ID: "c"})
	assert.True(t, dropped)
	assert.Equal(t, "a", evicted.ID)
	assert.Equal(t, 2, h.Len())
	assert.Equal(t, "c", h.Entries()[0].ID)
}

func TestEntriesArePrependedAndPersisted(t *testing.T) {
	ctx := context.Background()
	kv := persistence.NewMemoryKV()
	store := New(kv, nil, WithClock(fixedClock()))

	older := store.AddJournalEntry(ctx, "sad", "rough day")
	newer := store.AddJournalEntry(ctx, "calm", "talked to a friend")
	result := store.AddAssessmentResult(ctx, domain.AssessmentPHQ9, 12, []int{1, 2, 1, 2, 1, 2, 1, 1, 1})

	assert.NotEmpty(t, older.ID)
	assert.Equal(t, "moderate", result.Severity)
	require.Len(t, store.Journal(), 2)
	assert.Equal(t, newer.ID, store.Journal()[0].ID)

	reloaded := New(kv, nil)
	reloaded.Load(ctx)
	assert.Equal(t, store.Journal(), reloaded.Journal())
	assert.Equal(t, store.Assessments(), reloaded.Assessments())
}

func TestUpdateSafetyPlanReplacesWholesale(t *testing.T) {
	ctx := context.Background()
	store := New(persistence.NewMemoryKV(), nil, WithClock(fixedClock()))

	_, ok := store.SafetyPlan()
	assert.False(t, ok)

	store.UpdateSafetyPlan(ctx, domain.SafetyPlan{
		WarningSignals:   []string{"can't sleep"},
		CopingStrategies: []string{"walk"},
	})
	second := store.UpdateSafetyPlan(ctx, domain.SafetyPlan{
		SafeEnvironment: []string{"library"},
	})

	plan, ok := store.SafetyPlan()
	require.True(t, ok)
	assert.Empty(t, plan.WarningSignals)
	assert.Equal(t, []string{"library"}, plan.SafeEnvironment)
	assert.Equal(t, second.LastUpdated, plan.LastUpdated)
	assert.False(t, plan.LastUpdated.IsZero())
}

func TestExportAndClear(t *testing.T) {
	ctx := context.Background()
	kv := persistence.NewMemoryKV()
	store := New(kv, nil, WithClock(fixedClock()))
	store.AddMoodCheckIn(ctx, 4, "ok")
	store.AddJournalEntry(ctx, "happy", "good test")

	exported, err := store.ExportData()
	require.NoError(t, err)
	var decoded map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(exported, &decoded))
	assert.Contains(t, decoded, "emotionJournal")
	assert.Contains(t, decoded, "moodHistory")
	assert.Contains(t, string(exported), "good test")

	store.ClearAllData(ctx)
	assert.Empty(t, store.Journal())
	assert.Empty(t, store.MoodHistory())
	assert.Empty(t, kv.Snapshot())
}

func TestLoadToleratesCorruptData(t *testing.T) {
	ctx := context.Background()
	kv := persistence.NewMemoryKV()
	require.NoError(t, kv.Set(ctx, StorageKey, "{oops"))

	store := New(kv, nil)
	store.Load(ctx)
	assert.Empty(t, store.Journal())
	store.AddMoodCheckIn(ctx, 3, "")
	assert.Len(t, store.MoodHistory(), 1)
}

func TestLoadTruncatesOversizedHistory(t *testing.T) {
	ctx := context.Background()
	kv := persistence.NewMemoryKV()
	entries := make([]domain.MoodCheckIn, 40)
	for i := range entries {
		entries[i] = domain.MoodCheckIn{ID: string(rune('a' + i%26)), Mood: 3}
	}
	payload, err := json.Marshal(map[string]any{"moodHistory": entries})
	require.NoError(t, err)
	require.NoError(t, kv.Set(ctx, StorageKey, string(payload)))

	store := New(kv, nil)
	store.Load(ctx)
	assert.Len(t, store.MoodHistory(), MoodHistoryCapacity)
	assert.NotNil(t, store.Journal())
}

func TestSeverity(t *testing.T) {
	cases := []struct {
		kind  domain.AssessmentType
		score int
		want  string
	}{
		{domain.AssessmentPHQ9, 0, "minimal"},
		{domain.AssessmentPHQ9, 9, "mild"},
		{domain.AssessmentPHQ9, 15, "moderately_severe"},
		{domain.AssessmentPHQ9, 27, "severe"},
		{domain.AssessmentPHQ9, 28, ""},
		{domain.AssessmentGAD7, 10, "moderate"},
		{domain.AssessmentGAD7, 21, "severe"},
		{domain.AssessmentGAD7, -1, ""},
		{domain.AssessmentType("bdi"), 5, ""},
	}
	for _, tc := range cases {
		assert.Equalf(t, tc.want, Severity(tc.kind, tc.score), "%s/%d", tc.kind, tc.score)
	}
}

func TestScoreAnswers(t *testing.T) {
	score, err := ScoreAnswers(domain.AssessmentGAD7, []int{3, 3, 3, 3, 3, 3, 3})
	require.NoError(t, err)
	assert.Equal(t, 21, score)
	assert.Equal(t, "severe", Severity(domain.AssessmentGAD7, score))

	_, err = ScoreAnswers(domain.AssessmentPHQ9, []int{1, 1})
	assert.Error(t, err)
	_, err = ScoreAnswers(domain.AssessmentGAD7, []int{0, 0, 0, 0, 0, 0, 4})
	assert.Error(t, err)
	_, err = ScoreAnswers("bdi", nil)
	assert.Error(t, err)
}

func TestEmptyListsAreNotNil(t *testing.T) {
	store := New(persistence.NewMemoryKV(), nil)
	store.Load(context.Background())

	assert.NotNil(t, store.Journal())
	assert.NotNil(t, store.Assessments())
	assert.NotNil(t, store.MoodHistory())

	snap := store.Snapshot()
	assert.NotNil(t, snap.EmotionJournal)
	assert.NotNil(t, snap.AssessmentResults)

	raw, err := json.Marshal(snap)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"emotionJournal":[]`)
	assert.Contains(t, string(raw), `"assessmentResults":[]`)
}
