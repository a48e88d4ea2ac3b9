package verification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/saturnino-fabrica-de-software/bundyclock/internal/domain"
)

// maxResponseSize caps how much of a response body is read
const maxResponseSize = 1 << 20

// Config holds the configuration for the face recognition HTTP client
type Config struct {
	BaseURL      string
	VerifyPath   string
	RegisterPath string
	Timeout      time.Duration
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() Config {
	return Config{
		BaseURL:      "http://localhost:5001",
		VerifyPath:   "/api/face/verify-face",
		RegisterPath: "/api/face/register-face",
		Timeout:      10 * time.Second,
	}
}

// Client is the HTTP client for the face recognition service.
// Every call is a single attempt bounded by Config.Timeout.
type Client struct {
	httpClient *http.Client
	config     Config
	logger     *slog.Logger
}

// NewClient creates a new face recognition client
func NewClient(config Config, logger *slog.Logger) *Client {
	if config.Timeout <= 0 {
		config.Timeout = DefaultConfig().Timeout
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		config: config,
		logger: logger.With("component", "verification"),
	}
}

var _ Verifier = (*Client)(nil)

// Verify calls POST {VerifyPath} with the image and maps the result
func (c *Client) Verify(ctx context.Context, image []byte) domain.VerificationOutcome {
	c.logger.Debug("forwarding image for verification", slog.Int("image_size", len(image)))

	var resp verifyResponse
	if err := c.postMultipart(ctx, c.config.VerifyPath, nil, image, &resp); err != nil {
		c.logger.Warn("face verification call failed", slog.Any("error", err))
		return Unavailable(err)
	}

	outcome, err := resp.toOutcome()
	if err != nil {
		c.logger.Warn("face verification response rejected", slog.Any("error", err))
		return Unavailable(err)
	}

	attrs := []any{slog.Bool("matched", outcome.Matched)}
	if outcome.EmployeeID != nil {
		attrs = append(attrs, slog.String("employee_id", outcome.EmployeeID.String()))
	}
	if outcome.ConfidenceScore != nil {
		attrs = append(attrs, slog.Float64("confidence_score", *outcome.ConfidenceScore))
	}
	c.logger.Info("face verification result", attrs...)

	return outcome
}

// Register calls POST {RegisterPath} with the employee id and image
func (c *Client) Register(ctx context.Context, employeeID uuid.UUID, image []byte) (*domain.RegistrationOutcome, error) {
	c.logger.Info("forwarding image for registration", slog.String("employee_id", employeeID.String()))

	fields := map[string]string{"employee_id": employeeID.String()}

	var resp registerResponse
	if err := c.postMultipart(ctx, c.config.RegisterPath, fields, image, &resp); err != nil {
		c.logger.Error("face registration call failed",
			slog.String("employee_id", employeeID.String()),
			slog.Any("error", err),
		)
		return nil, domain.ErrVerificationService.WithError(err)
	}

	outcome, err := resp.toOutcome()
	if err != nil {
		c.logger.Warn("face registration not accepted",
			slog.String("employee_id", employeeID.String()),
			slog.Any("error", err),
		)
		return nil, err
	}

	c.logger.Info("face registered",
		slog.String("employee_id", employeeID.String()),
		slog.String("embedding_reference", outcome.EmbeddingReference),
	)
	return outcome, nil
}

// postMultipart sends the image (and optional form fields) and decodes the JSON reply into result
func (c *Client) postMultipart(ctx context.Context, path string, fields map[string]string, image []byte, result interface{}) error {
	if len(image) == 0 {
		return ErrEmptyImage
	}

	body, contentType, err := buildMultipartBody(fields, image)
	if err != nil {
		return fmt.Errorf("build request body: %w", err)
	}

	url := strings.TrimRight(c.config.BaseURL, "/") + path
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return fmt.Errorf("%w: status %d: %s", ErrServiceUnavailable, resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	if len(bytes.TrimSpace(respBody)) == 0 {
		return ErrEmptyResponse
	}

	if err := json.Unmarshal(respBody, result); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	return nil
}

// buildMultipartBody writes the form fields followed by the image part.
// The image part carries a sniffed image/* content type since the service
// rejects uploads that are not declared as images.
func buildMultipartBody(fields map[string]string, image []byte) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	for name, value := range fields {
		if err := writer.WriteField(name, value); err != nil {
			return nil, "", err
		}
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="image"; filename="face.jpg"`)
	h.Set("Content-Type", imageContentType(image))

	part, err := writer.CreatePart(h)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(image); err != nil {
		return nil, "", err
	}

	if err := writer.Close(); err != nil {
		return nil, "", err
	}
	return body, writer.FormDataContentType(), nil
}

func imageContentType(image []byte) string {
	detected := http.DetectContentType(image)
	if strings.HasPrefix(detected, "image/") {
		return detected
	}
	return "image/jpeg"
}
