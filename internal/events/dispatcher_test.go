package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishReachesEverySubscriber(t *testing.T) {
	d := NewInMemoryDispatcher(nil)
	var calls []string
	d.Subscribe(EventCaseReported, func(context.Context, Event) error {
		calls = append(calls, "first")
		return errors.New("boom")
	})
	d.Subscribe(EventCaseReported, func(_ context.Context, e Event) error {
		calls = append(calls, "second:"+e.CaseID)
		return nil
	})
	d.Subscribe(EventCaseReferred, func(context.Context, Event) error {
		calls = append(calls, "unrelated")
		return nil
	})

	require.NoError(t, d.Publish(context.Background(), Event{Type: EventCaseReported, CaseID: "c1"}))
	assert.Equal(t, []string{"first", "second:c1"}, calls)
}
