package selfhelp

import (
	"encoding/json"

	"github.com/voiceout/platform/internal/domain"
)

// MoodHistoryCapacity is the number of check-ins kept.
const MoodHistoryCapacity = 30

// MoodHistory is a bounded queue of check-ins, newest first. Pushing onto a
// full queue evicts the oldest entry.
type MoodHistory struct {
	capacity int
	entries  []domain.MoodCheckIn
}

// NewMoodHistory returns an empty queue with the given capacity.
func NewMoodHistory(capacity int) *MoodHistory {
	if capacity <= 0 {
		capacity = MoodHistoryCapacity
	}
	return &MoodHistory{capacity: capacity, entries: make([]domain.MoodCheckIn, 0, capacity)}
}

// Push inserts entry at the front, returning the evicted entry if any.
func (h *MoodHistory) Push(entry domain.MoodCheckIn) (domain.MoodCheckIn, bool) {
	var (
		evicted domain.MoodCheckIn
		dropped bool
	)
	if len(h.entries) == h.capacity {
		evicted = h.entries[len(h.entries)-1]
		h.entries = h.entries[:len(h.entries)-1]
		dropped = true
	}
	h.entries = append(h.entries, domain.MoodCheckIn{})
	copy(h.entries[1:], h.entries[:len(h.entries)-1])
	h.entries[0] = entry
	return evicted, dropped
}

// Len returns the number of stored check-ins.
func (h *MoodHistory) Len() int { return len(h.entries) }

// Entries returns a copy, newest first.
func (h *MoodHistory) Entries() []domain.MoodCheckIn {
	out := make([]domain.MoodCheckIn, len(h.entries))
	copy(out, h.entries)
	return out
}

func (h *MoodHistory) MarshalJSON() ([]byte, error) {
	return json.Marshal(h.entries)
}

// UnmarshalJSON loads newest-first entries, keeping at most capacity.
func (h *MoodHistory) UnmarshalJSON(data []byte) error {
	var entries []domain.MoodCheckIn
	if err := json.Unmarshal(data, &entries); err != nil {
		return err
	}
	if h.capacity <= 0 {
		h.capacity = MoodHistoryCapacity
	}
	if len(entries) > h.capacity {
		entries = entries[:h.capacity]
	}
	h.entries = append(make([]domain.MoodCheckIn, 0, h.capacity), entries...)
	return nil
}
