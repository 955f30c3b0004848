package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/travel-crm/internal/api/dto"
	"github.com/spec-kit/travel-crm/internal/export"
	"github.com/spec-kit/travel-crm/internal/service"
	apperrors "github.com/spec-kit/travel-crm/pkg/util/errorutil"
)

// CustomersHandler manages customer and activity log endpoints.
type CustomersHandler struct {
	service *service.CustomerService
}

// NewCustomersHandler constructs handler.
func NewCustomersHandler(customerService *service.CustomerService) *CustomersHandler {
	return &CustomersHandler{service: customerService}
}

// List GET /api/customers.
func (h *CustomersHandler) List(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	q, err := parseFilter(c)
	if err != nil {
		return err
	}
	customers, err := h.service.List(c.UserContext(), actor, q.Raw())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": customers})
}

// Travelling GET /api/customers/travelling.
func (h *CustomersHandler) Travelling(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	customers, err := h.service.Travelling(c.UserContext(), actor)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": customers})
}

// Export GET /api/customers/export.
func (h *CustomersHandler) Export(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	q, err := parseFilter(c)
	if err != nil {
		return err
	}
	f, filename, err := h.service.Export(c.UserContext(), actor, q.Raw())
	if err != nil {
		return err
	}
	defer f.Close()

	buf, err := f.WriteToBuffer()
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	c.Set(fiber.HeaderContentType, export.ContentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(buf.Bytes())
}

// Get GET /api/customers/:id.
func (h *CustomersHandler) Get(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	detail, err := h.service.Get(c.UserContext(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": detail})
}

// Create POST /api/customers.
func (h *CustomersHandler) Create(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	var req dto.CustomerRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	customer, err := h.service.Create(c.UserContext(), actor, req.ToDomain())
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": customer})
}

// Update PUT /api/customers/:id.
func (h *CustomersHandler) Update(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	var req dto.CustomerRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	customer, err := h.service.Update(c.UserContext(), actor, c.Params("id"), req.ToDomain())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": customer})
}

// Delete DELETE /api/customers/:id.
func (h *CustomersHandler) Delete(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.UserContext(), actor, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// Assign PUT /api/customers/:id/assign.
func (h *CustomersHandler) Assign(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	var req dto.AssignRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	customer, err := h.service.Assign(c.UserContext(), actor, c.Params("id"), req.EmployeeID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": customer})
}

// MarkTravelling PUT /api/customers/:id/travelling.
func (h *CustomersHandler) MarkTravelling(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	travelling := true
	if len(c.Body()) > 0 {
		var req dto.TravellingRequest
		if err := parseBody(c, &req); err != nil {
			return err
		}
		if req.IsTravelling != nil {
			travelling = *req.IsTravelling
		}
	}
	customer, err := h.service.MarkTravelling(c.UserContext(), actor, c.Params("id"), travelling)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": customer})
}

// AddLog POST /api/customers/:id/logs.
func (h *CustomersHandler) AddLog(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	var req dto.LogRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	entry, err := h.service.AddLog(c.UserContext(), actor, c.Params("id"), req.ToDomain())
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": entry})
}

// ListLogs GET /api/customers/logs/all.
func (h *CustomersHandler) ListLogs(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	q, err := parseFilter(c)
	if err != nil {
		return err
	}
	logs, err := h.service.ListLogs(c.UserContext(), actor, q.Raw())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": logs})
}

// UpdateLog PUT /api/customers/logs/:logId.
func (h *CustomersHandler) UpdateLog(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	var req dto.LogRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	entry, err := h.service.UpdateLog(c.UserContext(), actor, c.Params("logId"), req.ToDomain())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": entry})
}

// DeleteLog DELETE /api/customers/logs/:logId.
func (h *CustomersHandler) DeleteLog(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	if err := h.service.DeleteLog(c.UserContext(), actor, c.Params("logId")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
