package handler

import (
	"context"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/saturnino-fabrica-de-software/bundyclock/internal/domain"
)

// AttendanceService interface for the service
type AttendanceService interface {
	RecordTimeIn(ctx context.Context, employeeID uuid.UUID, image []byte) (*domain.AttendanceEvent, error)
	RecordTimeOut(ctx context.Context, employeeID uuid.UUID, image []byte) (*domain.AttendanceEvent, error)
	CurrentState(ctx context.Context, employeeID uuid.UUID) (domain.ClockState, *domain.AttendanceEvent, error)
	ListAllEvents(ctx context.Context) ([]domain.AttendanceEvent, error)
	ListEventsForEmployee(ctx context.Context, employeeID uuid.UUID) ([]domain.AttendanceEvent, error)
}

type AttendanceHandler struct {
	service AttendanceService
	logger  *slog.Logger
}

func NewAttendanceHandler(service AttendanceService, logger *slog.Logger) *AttendanceHandler {
	return &AttendanceHandler{
		service: service,
		logger:  logger,
	}
}

// StateResponse describes where an employee stands today
type StateResponse struct {
	EmployeeID  uuid.UUID               `json:"employee_id"`
	State       domain.ClockState       `json:"state"`
	LatestEvent *domain.AttendanceEvent `json:"latest_event,omitempty"`
}

// TimeIn POST /api/attendance/time-in
func (h *AttendanceHandler) TimeIn(c *fiber.Ctx) error {
	return h.clock(c, h.service.RecordTimeIn, "Time-In recorded")
}

// TimeOut POST /api/attendance/time-out
func (h *AttendanceHandler) TimeOut(c *fiber.Ctx) error {
	return h.clock(c, h.service.RecordTimeOut, "Time-Out recorded")
}

type clockFunc func(ctx context.Context, employeeID uuid.UUID, image []byte) (*domain.AttendanceEvent, error)

func (h *AttendanceHandler) clock(c *fiber.Ctx, record clockFunc, message string) error {
	employeeID, err := parseUUID(c.FormValue("employeeId"), "employeeId")
	if err != nil {
		return err
	}

	image, err := optionalImage(c)
	if err != nil {
		return err
	}

	event, err := record(c.UserContext(), employeeID, image)
	if err != nil {
		return err
	}

	return respond(c, fiber.StatusOK, message, event)
}

// List GET /api/attendance
func (h *AttendanceHandler) List(c *fiber.Ctx) error {
	events, err := h.service.ListAllEvents(c.UserContext())
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "Attendance records", events)
}

// ListForEmployee GET /api/attendance/employee/:employeeId
func (h *AttendanceHandler) ListForEmployee(c *fiber.Ctx) error {
	employeeID, err := parseUUID(c.Params("employeeId"), "employeeId")
	if err != nil {
		return err
	}

	events, err := h.service.ListEventsForEmployee(c.UserContext(), employeeID)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "Attendance records", events)
}

// State GET /api/attendance/employee/:employeeId/state
func (h *AttendanceHandler) State(c *fiber.Ctx) error {
	employeeID, err := parseUUID(c.Params("employeeId"), "employeeId")
	if err != nil {
		return err
	}

	state, latest, err := h.service.CurrentState(c.UserContext(), employeeID)
	if err != nil {
		return err
	}

	return respond(c, fiber.StatusOK, "Current state", StateResponse{
		EmployeeID:  employeeID,
		State:       state,
		LatestEvent: latest,
	})
}
