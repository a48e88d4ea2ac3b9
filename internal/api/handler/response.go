package handler

import (
	"errors"
	"io"
	"mime/multipart"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/saturnino-fabrica-de-software/bundyclock/internal/domain"
)

const (
	maxImageSize = 10 * 1024 * 1024 // 10MB
)

// Response is the success envelope shared by every API endpoint
type Response struct {
	Success   bool        `json:"success"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

func respond(c *fiber.Ctx, status int, message string, data interface{}) error {
	return c.Status(status).JSON(Response{
		Success:   true,
		Message:   message,
		Data:      data,
		Timestamp: time.Now().UTC(),
	})
}

func parseUUID(raw, field string) (uuid.UUID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return uuid.Nil, domain.ErrValidationFailed.WithMessage(field + " is required")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, domain.ErrValidationFailed.WithMessage(field + " must be a valid UUID")
	}
	return id, nil
}

// requiredImage reads the "image" multipart part
func requiredImage(c *fiber.Ctx) ([]byte, error) {
	file, err := c.FormFile("image")
	if err != nil {
		return nil, domain.ErrValidationFailed.WithMessage("image is required")
	}
	return readImage(file)
}

// optionalImage returns nil when the request carries no "image" part
func optionalImage(c *fiber.Ctx) ([]byte, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, nil
	}

	files := form.File["image"]
	if len(files) == 0 {
		return nil, nil
	}
	return readImage(files[0])
}

func readImage(file *multipart.FileHeader) ([]byte, error) {
	if file.Size == 0 {
		return nil, domain.ErrInvalidImage.WithMessage("image is empty")
	}

	if file.Size > maxImageSize {
		return nil, domain.ErrInvalidImage.WithMessage("image exceeds 10MB")
	}

	contentType := file.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return nil, domain.ErrInvalidImage.WithMessage("file must be an image")
	}

	f, err := file.Open()
	if err != nil {
		return nil, domain.ErrInvalidImage.WithError(err)
	}
	defer func() {
		_ = f.Close()
	}()

	imageBytes, err := io.ReadAll(f)
	if err != nil {
		return nil, domain.ErrInvalidImage.WithError(err)
	}
	if len(imageBytes) == 0 {
		return nil, domain.ErrInvalidImage.WithError(errors.New("image is empty"))
	}

	return imageBytes, nil
}
