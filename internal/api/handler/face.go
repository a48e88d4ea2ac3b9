package handler

import (
	"context"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/saturnino-fabrica-de-software/bundyclock/internal/domain"
)

// FaceService interface for the service
type FaceService interface {
	Verify(ctx context.Context, image []byte) domain.VerificationOutcome
	Register(ctx context.Context, employeeID uuid.UUID, image []byte) (*domain.FaceEmbedding, error)
	Embeddings(ctx context.Context, employeeID uuid.UUID) ([]domain.FaceEmbedding, error)
}

// FaceHandler handles face-related requests
type FaceHandler struct {
	service FaceService
	logger  *slog.Logger
}

// NewFaceHandler creates a new FaceHandler instance
func NewFaceHandler(service FaceService, logger *slog.Logger) *FaceHandler {
	return &FaceHandler{
		service: service,
		logger:  logger,
	}
}

// Verify POST /api/face/verify
func (h *FaceHandler) Verify(c *fiber.Ctx) error {
	image, err := requiredImage(c)
	if err != nil {
		return err
	}

	outcome := h.service.Verify(c.UserContext(), image)

	return respond(c, fiber.StatusOK, "Verification complete", outcome)
}

// Register POST /api/face/register
func (h *FaceHandler) Register(c *fiber.Ctx) error {
	employeeID, err := parseUUID(c.FormValue("employeeId"), "employeeId")
	if err != nil {
		return err
	}

	image, err := requiredImage(c)
	if err != nil {
		return err
	}

	embedding, err := h.service.Register(c.UserContext(), employeeID, image)
	if err != nil {
		return err
	}

	return respond(c, fiber.StatusCreated, "Face registered", embedding)
}

// Embeddings GET /api/employees/:id/faces
func (h *FaceHandler) Embeddings(c *fiber.Ctx) error {
	employeeID, err := parseUUID(c.Params("id"), "id")
	if err != nil {
		return err
	}

	embeddings, err := h.service.Embeddings(c.UserContext(), employeeID)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "Face registrations", embeddings)
}
