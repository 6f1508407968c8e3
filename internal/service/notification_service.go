package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/voiceout/platform/internal/config"
	"github.com/voiceout/platform/internal/events"
)

// NotificationService handles emitting notifications for case events.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventCaseReported, n.handleCaseReported)
	n.dispatcher.Subscribe(events.EventCaseStatusChanged, n.handleCaseStatusChanged)
	n.dispatcher.Subscribe(events.EventCaseNoteAdded, n.handleCaseNoteAdded)
	n.dispatcher.Subscribe(events.EventCaseReferred, n.handleCaseReferred)
}

func (n *NotificationService) handleCaseReported(ctx context.Context, event events.Event) error {
	n.logger.Info("CaseReported", zap.String("case_id", event.CaseID), zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event, "school counselors")
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleCaseStatusChanged(ctx context.Context, event events.Event) error {
	n.logger.Info("CaseStatusChanged", zap.String("case_id", event.CaseID), zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleCaseNoteAdded(ctx context.Context, event events.Event) error {
	n.logger.Info("CaseNoteAdded", zap.String("case_id", event.CaseID), zap.String("author", event.Actor.Email))
	return nil
}

func (n *NotificationService) handleCaseReferred(ctx context.Context, event events.Event) error {
	n.logger.Info("CaseReferred", zap.String("case_id", event.CaseID), zap.Any("payload", event.Payload))
	recipient := "referred professional"
	if p, ok := event.Payload.(events.CaseReferredPayload); ok {
		recipient = p.ProfessionalEmail
	}
	n.sendEmailNotificationStub(ctx, event, recipient)
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) sendEmailNotificationStub(_ context.Context, event events.Event, to string) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		return
	}
	n.logger.Debug("sendEmailNotificationStub",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("to", to),
		zap.String("case_id", event.CaseID),
		zap.String("event_type", string(event.Type)))
}

func (n *NotificationService) sendWebhookNotificationStub(_ context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("case_id", event.CaseID),
		zap.String("event_type", string(event.Type)))
}
