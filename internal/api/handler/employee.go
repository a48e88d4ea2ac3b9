package handler

import (
	"context"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/saturnino-fabrica-de-software/bundyclock/internal/domain"
)

// EmployeeService interface for the service
type EmployeeService interface {
	Create(ctx context.Context, employee *domain.Employee) (*domain.Employee, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Employee, error)
	List(ctx context.Context) ([]domain.Employee, error)
	Update(ctx context.Context, id uuid.UUID, employee *domain.Employee) (*domain.Employee, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type EmployeeHandler struct {
	service EmployeeService
	logger  *slog.Logger
}

func NewEmployeeHandler(service EmployeeService, logger *slog.Logger) *EmployeeHandler {
	return &EmployeeHandler{
		service: service,
		logger:  logger,
	}
}

// EmployeeRequest is the JSON body for create and update. EmployeeCode is ignored on update.
type EmployeeRequest struct {
	Name         string  `json:"name"`
	EmployeeCode string  `json:"employee_code"`
	Department   *string `json:"department"`
	Email        *string `json:"email"`
}

func (r EmployeeRequest) toDomain() *domain.Employee {
	return &domain.Employee{
		Name:         r.Name,
		EmployeeCode: r.EmployeeCode,
		Department:   r.Department,
		Email:        r.Email,
	}
}

// Create POST /api/employees
func (h *EmployeeHandler) Create(c *fiber.Ctx) error {
	var req EmployeeRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.ErrBadRequest.WithError(err)
	}

	employee, err := h.service.Create(c.UserContext(), req.toDomain())
	if err != nil {
		return err
	}

	return respond(c, fiber.StatusCreated, "Employee created", employee)
}

// List GET /api/employees
func (h *EmployeeHandler) List(c *fiber.Ctx) error {
	employees, err := h.service.List(c.UserContext())
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "Employees", employees)
}

// Get GET /api/employees/:id
func (h *EmployeeHandler) Get(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"), "id")
	if err != nil {
		return err
	}

	employee, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "Employee", employee)
}

// Update PUT /api/employees/:id
func (h *EmployeeHandler) Update(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"), "id")
	if err != nil {
		return err
	}

	var req EmployeeRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.ErrBadRequest.WithError(err)
	}

	employee, err := h.service.Update(c.UserContext(), id, req.toDomain())
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "Employee updated", employee)
}

// Delete DELETE /api/employees/:id
func (h *EmployeeHandler) Delete(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"), "id")
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "Employee deleted", nil)
}
