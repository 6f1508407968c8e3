package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/voiceout/platform/internal/api/dto"
	"github.com/voiceout/platform/internal/domain"
	"github.com/voiceout/platform/internal/scoping"
	"github.com/voiceout/platform/internal/service"
	apperrors "github.com/voiceout/platform/pkg/util/errorutil"
)

// CasesHandler manages case endpoints for every role.
type CasesHandler struct {
	service *service.CaseService
}

// NewCasesHandler constructs handler.
func NewCasesHandler(caseService *service.CaseService) *CasesHandler {
	return &CasesHandler{service: caseService}
}

// ListCases GET /cases.
func (h *CasesHandler) ListCases(c *fiber.Ctx) error {
	_, user, err := currentSession(c)
	if err != nil {
		return err
	}
	opts, err := parseCaseQuery(c)
	if err != nil {
		return err
	}
	cases, err := h.service.ListCases(c.UserContext(), user, opts)
	if err != nil {
		return err
	}
	items := make([]dto.CaseResponse, 0, len(cases))
	for _, item := range cases {
		items = append(items, dto.CaseResponse{Case: item, Editable: scoping.CanEditCase(item, user)})
	}
	return c.JSON(fiber.Map{"data": items})
}

// CreateCase POST /cases.
func (h *CasesHandler) CreateCase(c *fiber.Ctx) error {
	_, user, err := currentSession(c)
	if err != nil {
		return err
	}
	var req dto.CreateCaseRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	created, err := h.service.SubmitReport(c.UserContext(), user, service.ReportInput{
		Title:        req.Title,
		Description:  req.Description,
		IncidentType: req.IncidentType,
		Priority:     req.Priority,
		VictimEmail:  req.VictimEmail,
		School:       req.School,
		District:     req.District,
		Grade:        req.Grade,
		Class:        req.Class,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.CaseResponse{
		Case:     *created,
		Editable: scoping.CanEditCase(*created, user),
	}})
}

// GetCase GET /cases/:id.
func (h *CasesHandler) GetCase(c *fiber.Ctx) error {
	_, user, err := currentSession(c)
	if err != nil {
		return err
	}
	detail, err := h.service.GetCase(c.UserContext(), user, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.CaseDetailResponse{
		CaseResponse: dto.CaseResponse{Case: detail.Case, Editable: detail.Editable},
		Notes:        detail.Notes,
		History:      detail.History,
	}})
}

// StartProcessing POST /cases/:id/start.
func (h *CasesHandler) StartProcessing(c *fiber.Ctx) error {
	return h.transition(c, h.service.StartProcessing)
}

// Resolve POST /cases/:id/resolve.
func (h *CasesHandler) Resolve(c *fiber.Ctx) error {
	return h.transition(c, h.service.Resolve)
}

type transitionFunc func(ctx context.Context, user *domain.User, id string) (*domain.Case, error)

func (h *CasesHandler) transition(c *fiber.Ctx, fn transitionFunc) error {
	_, user, err := currentSession(c)
	if err != nil {
		return err
	}
	updated, err := fn(c.UserContext(), user, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.CaseResponse{Case: *updated, Editable: scoping.CanEditCase(*updated, user)}})
}

// AddNote POST /cases/:id/notes.
func (h *CasesHandler) AddNote(c *fiber.Ctx) error {
	_, user, err := currentSession(c)
	if err != nil {
		return err
	}
	var req dto.CreateNoteRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	note, err := h.service.AddNote(c.UserContext(), user, c.Params("id"), req.Body)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": note})
}

// ListProfessionals GET /cases/:id/professionals?role=.
func (h *CasesHandler) ListProfessionals(c *fiber.Ctx) error {
	_, user, err := currentSession(c)
	if err != nil {
		return err
	}
	role := domain.Role(c.Query("role", string(domain.RolePsychologist)))
	professionals, err := h.service.ListAvailableProfessionals(c.UserContext(), user, c.Params("id"), role)
	if err != nil {
		return err
	}
	items := make([]dto.ProfessionalResponse, 0, len(professionals))
	for i := range professionals {
		p := &professionals[i]
		practice, _ := p.Practice()
		items = append(items, dto.ProfessionalResponse{
			Email:         p.Email,
			Name:          p.Name,
			Role:          p.Role,
			LicenseNumber: practice.LicenseNumber,
			ServiceArea:   practice.ServiceArea,
			Specialties:   practice.Specialties,
		})
	}
	return c.JSON(fiber.Map{"data": items})
}

// Refer POST /cases/:id/referrals.
func (h *CasesHandler) Refer(c *fiber.Ctx) error {
	_, user, err := currentSession(c)
	if err != nil {
		return err
	}
	var req dto.ReferralRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.ProfessionalEmail) == "" || req.Role == "" {
		return apperrors.NewValidationError("professionalEmail and role required", nil)
	}
	updated, err := h.service.Refer(c.UserContext(), user, c.Params("id"), strings.TrimSpace(req.ProfessionalEmail), req.Role)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.CaseResponse{Case: *updated, Editable: scoping.CanEditCase(*updated, user)}})
}

func parseCaseQuery(c *fiber.Ctx) (service.CaseListOptions, error) {
	var opts service.CaseListOptions
	for _, raw := range splitCSV(c.Query("status")) {
		status := domain.CaseStatus(raw)
		if !status.Valid() {
			return opts, apperrors.NewValidationError("invalid status", map[string]any{"status": raw})
		}
		opts.Filter.Statuses = append(opts.Filter.Statuses, status)
	}
	for _, raw := range splitCSV(c.Query("priority")) {
		priority := domain.CasePriority(raw)
		if !priority.Valid() {
			return opts, apperrors.NewValidationError("invalid priority", map[string]any{"priority": raw})
		}
		opts.Filter.Priorities = append(opts.Filter.Priorities, priority)
	}
	if q := strings.TrimSpace(c.Query("q")); q != "" {
		opts.Filter.SearchTerm = &q
	}
	opts.EditableOnly = c.QueryBool("editable", false)
	return opts, nil
}

func splitCSV(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
