package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/textproto"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/saturnino-fabrica-de-software/bundyclock/internal/domain"
)

// testLogger returns a logger that discards all output
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// createMultipartRequest builds a form with the given fields and an optional image part
func createMultipartRequest(fields map[string]string, imageContent []byte, contentType string) (*bytes.Buffer, string) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	for k, v := range fields {
		_ = writer.WriteField(k, v)
	}

	if imageContent != nil {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="image"; filename="face.jpg"`)
		h.Set("Content-Type", contentType)

		part, _ := writer.CreatePart(h)
		_, _ = part.Write(imageContent)
	}

	_ = writer.Close()
	return body, writer.FormDataContentType()
}

// createTestApp maps AppError values to their status the way the real error handler does
func createTestApp() *fiber.App {
	app := fiber.New(fiber.Config{BodyLimit: 12 * 1024 * 1024})

	app.Use(func(c *fiber.Ctx) error {
		err := c.Next()
		if err != nil {
			var appErr *domain.AppError
			if errors.As(err, &appErr) {
				return c.Status(appErr.StatusCode).JSON(appErr)
			}
			return c.Status(500).SendString(err.Error())
		}
		return nil
	})

	return app
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func decodeEnvelope(t *testing.T, body io.Reader, data interface{}) envelope {
	t.Helper()

	raw, err := io.ReadAll(body)
	require.NoError(t, err)

	var env envelope
	require.NoError(t, json.Unmarshal(raw, &env))
	if data != nil {
		require.NoError(t, json.Unmarshal(env.Data, data))
	}
	return env
}

func decodeAppError(t *testing.T, body io.Reader) domain.AppError {
	t.Helper()

	var appErr domain.AppError
	require.NoError(t, json.NewDecoder(body).Decode(&appErr))
	return appErr
}
