package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/complaint-service/internal/api/dto"
	"github.com/spec-kit/complaint-service/internal/domain"
	"github.com/spec-kit/complaint-service/internal/service"
	apperrors "github.com/spec-kit/complaint-service/pkg/util"
)

// ComplaintsHandler manages complaint endpoints.
type ComplaintsHandler struct {
	service *service.ComplaintService
}

// NewComplaintsHandler constructs handler.
func NewComplaintsHandler(complaintService *service.ComplaintService) *ComplaintsHandler {
	return &ComplaintsHandler{service: complaintService}
}

// Create POST /complaints.
func (h *ComplaintsHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateComplaintRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.CitizenID == "" || req.Title == "" || req.Description == "" || req.Department == "" {
		return apperrors.NewValidationError("citizen_id, title, description, department required", nil)
	}

	complaint, err := h.service.CreateComplaint(c.Context(), service.ComplaintCreateInput{
		CitizenID:   req.CitizenID,
		Title:       req.Title,
		Description: req.Description,
		Department:  req.Department,
		Severity:    domain.ComplaintSeverity(req.Severity),
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.FromComplaint(complaint)})
}

// List GET /complaints.
func (h *ComplaintsHandler) List(c *fiber.Ctx) error {
	filter, err := parseListQuery(c)
	if err != nil {
		return err
	}
	complaints, err := h.service.ListComplaints(c.Context(), filter)
	if err != nil {
		return err
	}
	items := make([]dto.ComplaintSummary, 0, len(complaints))
	for i := range complaints {
		items = append(items, dto.FromComplaint(&complaints[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Get GET /complaints/:id.
func (h *ComplaintsHandler) Get(c *fiber.Ctx) error {
	complaint, timeline, err := h.service.GetComplaint(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	detail := dto.ComplaintDetail{
		ComplaintSummary: dto.FromComplaint(complaint),
		Description:      complaint.Description,
		CitizenID:        complaint.CitizenID,
		Timeline:         dto.FromTimeline(timeline),
	}
	return c.JSON(fiber.Map{"data": detail})
}

// Audit GET /complaints/:id/audit.
func (h *ComplaintsHandler) Audit(c *fiber.Ctx) error {
	entries, err := h.service.ListAudit(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromAudit(entries)})
}

// UpdateStatus PATCH /complaints/:id/status.
func (h *ComplaintsHandler) UpdateStatus(c *fiber.Ctx) error {
	var req dto.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Status == "" {
		return apperrors.NewValidationError("status required", nil)
	}
	actor := req.Actor
	if actor == "" {
		actor = "staff"
	}
	complaint, err := h.service.UpdateStatus(c.Context(), actor, c.Params("id"),
		domain.ComplaintStatus(req.Status), req.Comment)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromComplaint(complaint)})
}

// Assign PATCH /complaints/:id/assign.
func (h *ComplaintsHandler) Assign(c *fiber.Ctx) error {
	var req dto.AssignRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	actor := req.Actor
	if actor == "" {
		actor = "staff"
	}
	complaint, err := h.service.AssignDepartment(c.Context(), actor, c.Params("id"), req.Department)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromComplaint(complaint)})
}

func parseListQuery(c *fiber.Ctx) (service.ComplaintListFilter, error) {
	filter := service.ComplaintListFilter{}

	if citizen := c.Query("citizen_id"); citizen != "" {
		filter.CitizenID = &citizen
	}
	if department := c.Query("department"); department != "" {
		filter.Department = &department
	}
	for _, raw := range splitCSV(c.Query("status")) {
		status := domain.ComplaintStatus(raw)
		if !domain.IsValidStatus(status) {
			return filter, apperrors.NewValidationError("invalid status filter", map[string]any{"status": raw})
		}
		filter.Statuses = append(filter.Statuses, status)
	}
	for _, raw := range splitCSV(c.Query("severity")) {
		severity := domain.ComplaintSeverity(raw)
		if !domain.IsValidSeverity(severity) {
			return filter, apperrors.NewValidationError("invalid severity filter", map[string]any{"severity": raw})
		}
		filter.Severities = append(filter.Severities, severity)
	}
	if limit := c.Query("limit"); limit != "" {
		if parsed, err := strconv.Atoi(limit); err == nil {
			filter.Limit = parsed
		}
	}
	if offset := c.Query("offset"); offset != "" {
		if parsed, err := strconv.Atoi(offset); err == nil {
			filter.Offset = parsed
		}
	}
	return filter, nil
}

func splitCSV(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
