package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/travel-crm/internal/api/dto"
	"github.com/spec-kit/travel-crm/internal/observability"
	"github.com/spec-kit/travel-crm/internal/service"
	apperrors "github.com/spec-kit/travel-crm/pkg/util/errorutil"
)

// DashboardHandler serves the statistics views, global search and the
// request counters.
type DashboardHandler struct {
	service *service.DashboardService
	metrics *observability.Metrics
}

// NewDashboardHandler constructs handler. metrics may be nil.
func NewDashboardHandler(dashboardService *service.DashboardService, metrics *observability.Metrics) *DashboardHandler {
	return &DashboardHandler{service: dashboardService, metrics: metrics}
}

// Dashboard GET /api/dashboard.
func (h *DashboardHandler) Dashboard(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	q, err := parseFilter(c)
	if err != nil {
		return err
	}
	d, err := h.service.Dashboard(c.UserContext(), actor, q.Raw())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": d})
}

// Travel GET /api/dashboard/travel.
func (h *DashboardHandler) Travel(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	stats, err := h.service.Travel(c.UserContext(), actor)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": stats})
}

// Search GET /api/search.
func (h *DashboardHandler) Search(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	var q dto.SearchQuery
	if err := c.QueryParser(&q); err != nil {
		return apperrors.NewValidationError("invalid query", nil)
	}
	results, err := h.service.Search(c.UserContext(), actor, q.Q, q.Limit)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": results})
}

// Metrics GET /api/metrics/summary.
func (h *DashboardHandler) Metrics(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": h.metrics.Snapshot()})
}
