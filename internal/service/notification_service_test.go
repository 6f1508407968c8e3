package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/voiceout/platform/internal/config"
	"github.com/voiceout/platform/internal/events"
)

func TestNotificationServiceLogsCaseEvents(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	dispatcher := events.NewInMemoryDispatcher(nil)
	svc := NewNotificationService(dispatcher, zap.New(core), config.NotificationConfig{
		EmailFrom:  "noreply@voiceout.example",
		WebhookURL: "http://hooks.local/cases",
	})
	svc.RegisterHandlers()

	ctx := context.Background()
	require.NoError(t, dispatcher.Publish(ctx, events.Event{
		Type:    events.EventCaseReferred,
		CaseID:  "case-001",
		Payload: events.CaseReferredPayload{ProfessionalEmail: "lawyer@demo.tw"},
	}))

	assert.Equal(t, 1, logs.FilterMessage("CaseReferred").Len())
	emails := logs.FilterMessage("sendEmailNotificationStub").All()
	require.Len(t, emails, 1)
	assert.Equal(t, "lawyer@demo.tw", emails[0].ContextMap()["to"])
	assert.Equal(t, 1, logs.FilterMessage("sendWebhookNotificationStub").Len())
}

func TestNotificationStubsNeedConfig(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	dispatcher := events.NewInMemoryDispatcher(nil)
	NewNotificationService(dispatcher, zap.New(core), config.NotificationConfig{}).RegisterHandlers()

	require.NoError(t, dispatcher.Publish(context.Background(), events.Event{Type: events.EventCaseReported, CaseID: "c"}))
	assert.Equal(t, 1, logs.FilterMessage("CaseReported").Len())
	assert.Zero(t, logs.FilterMessage("sendEmailNotificationStub").Len())
}
