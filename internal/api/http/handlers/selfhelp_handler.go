package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/voiceout/platform/internal/api/dto"
	"github.com/voiceout/platform/internal/auth"
	"github.com/voiceout/platform/internal/domain"
	"github.com/voiceout/platform/internal/selfhelp"
	apperrors "github.com/voiceout/platform/pkg/util/errorutil"
)

// SelfHelpHandler serves the private self-help tools. Records live in the
// caller's browser-session storage, never in the case database.
type SelfHelpHandler struct {
	logger *zap.Logger
}

// NewSelfHelpHandler constructs handler.
func NewSelfHelpHandler(logger *zap.Logger) *SelfHelpHandler {
	return &SelfHelpHandler{logger: logger}
}

func (h *SelfHelpHandler) store(c *fiber.Ctx) (*selfhelp.Store, error) {
	storage, ok := auth.SelfHelpStorageFromContext(c)
	if !ok {
		return nil, apperrors.NewUnauthorized("login required")
	}
	store := selfhelp.New(storage, h.logger.With(
		zap.String("sid", auth.SessionIDFromContext(c)),
		zap.String("device", auth.DeviceIDFromContext(c)),
	))
	store.Load(c.UserContext())
	return store, nil
}

// ListJournal GET /self-help/journal.
func (h *SelfHelpHandler) ListJournal(c *fiber.Ctx) error {
	store, err := h.store(c)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": store.Journal()})
}

// AddJournalEntry POST /self-help/journal.
func (h *SelfHelpHandler) AddJournalEntry(c *fiber.Ctx) error {
	var req dto.JournalEntryRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.Mood) == "" || strings.TrimSpace(req.Content) == "" {
		return apperrors.NewValidationError("mood and content required", nil)
	}
	store, err := h.store(c)
	if err != nil {
		return err
	}
	entry := store.AddJournalEntry(c.UserContext(), strings.TrimSpace(req.Mood), req.Content)
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": entry})
}

// ListAssessments GET /self-help/assessments.
func (h *SelfHelpHandler) ListAssessments(c *fiber.Ctx) error {
	store, err := h.store(c)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": store.Assessments()})
}

// AddAssessment POST /self-help/assessments.
func (h *SelfHelpHandler) AddAssessment(c *fiber.Ctx) error {
	var req dto.AssessmentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	score, err := selfhelp.ScoreAnswers(req.Type, req.Answers)
	if err != nil {
		return apperrors.NewValidationError("invalid assessment", map[string]any{"reason": err.Error()})
	}
	store, err := h.store(c)
	if err != nil {
		return err
	}
	result := store.AddAssessmentResult(c.UserContext(), req.Type, score, req.Answers)
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": result})
}

// ListMood GET /self-help/mood.
func (h *SelfHelpHandler) ListMood(c *fiber.Ctx) error {
	store, err := h.store(c)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": store.MoodHistory()})
}

// AddMoodCheckIn POST /self-help/mood.
func (h *SelfHelpHandler) AddMoodCheckIn(c *fiber.Ctx) error {
	var req dto.MoodCheckInRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Mood < 1 || req.Mood > 5 {
		return apperrors.NewValidationError("mood must be between 1 and 5", map[string]any{"mood": req.Mood})
	}
	store, err := h.store(c)
	if err != nil {
		return err
	}
	entry := store.AddMoodCheckIn(c.UserContext(), req.Mood, req.Note)
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": entry})
}

// GetSafetyPlan GET /self-help/safety-plan.
func (h *SelfHelpHandler) GetSafetyPlan(c *fiber.Ctx) error {
	store, err := h.store(c)
	if err != nil {
		return err
	}
	plan, ok := store.SafetyPlan()
	if !ok {
		return apperrors.NewNotFound("safety plan", nil)
	}
	return c.JSON(fiber.Map{"data": plan})
}

// PutSafetyPlan PUT /self-help/safety-plan.
func (h *SelfHelpHandler) PutSafetyPlan(c *fiber.Ctx) error {
	var req domain.SafetyPlan
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	store, err := h.store(c)
	if err != nil {
		return err
	}
	plan := store.UpdateSafetyPlan(c.UserContext(), req)
	return c.JSON(fiber.Map{"data": plan})
}

// Export GET /self-help/export.
func (h *SelfHelpHandler) Export(c *fiber.Ctx) error {
	store, err := h.store(c)
	if err != nil {
		return err
	}
	payload, err := store.ExportData()
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSONCharsetUTF8)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="voiceout-self-help.json"`)
	return c.Send(payload)
}

// Clear DELETE /self-help.
func (h *SelfHelpHandler) Clear(c *fiber.Ctx) error {
	store, err := h.store(c)
	if err != nil {
		return err
	}
	store.ClearAllData(c.UserContext())
	return c.SendStatus(http.StatusNoContent)
}
