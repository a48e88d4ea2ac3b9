// Package face selects the face recognition backend from configuration.
package face

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/saturnino-fabrica-de-software/bundyclock/internal/config"
	"github.com/saturnino-fabrica-de-software/bundyclock/internal/verification"
	"github.com/saturnino-fabrica-de-software/bundyclock/internal/verification/mock"
	"github.com/saturnino-fabrica-de-software/bundyclock/internal/verification/rekognition"
)

// ProviderType defines supported face recognition provider types
type ProviderType string

const (
	// ProviderTypeHTTP is the external recognition microservice (default)
	ProviderTypeHTTP ProviderType = "http"
	// ProviderTypeRekognition is the AWS Rekognition provider
	ProviderTypeRekognition ProviderType = "rekognition"
	// ProviderTypeMock is the in-process deterministic recognizer, for local runs
	ProviderTypeMock ProviderType = "mock"
)

// NewVerifier creates a Verifier based on configuration
//
// Environment variables:
//   - FACE_PROVIDER: "http", "rekognition" or "mock" (default: "http")
//   - FACE_SERVICE_URL: recognition service base URL (default: "http://localhost:5001")
//   - FACE_SERVICE_TIMEOUT: per-call timeout (default: 10s)
//   - AWS_REGION, REKOGNITION_COLLECTION, REKOGNITION_THRESHOLD: Rekognition settings
func NewVerifier(ctx context.Context, cfg *config.Config, logger *slog.Logger) (verification.Verifier, error) {
	switch ProviderType(cfg.FaceProvider) {
	case ProviderTypeHTTP, "":
		return createHTTPVerifier(cfg, logger), nil

	case ProviderTypeRekognition:
		return createRekognitionVerifier(ctx, cfg, logger)

	case ProviderTypeMock:
		logger.Warn("using mock face verifier, not for production")
		return mock.New(), nil

	default:
		return nil, fmt.Errorf("unknown provider type: %s (supported: %s, %s, %s)",
			cfg.FaceProvider, ProviderTypeHTTP, ProviderTypeRekognition, ProviderTypeMock)
	}
}

func createRekognitionVerifier(ctx context.Context, cfg *config.Config, logger *slog.Logger) (verification.Verifier, error) {
	rekogConfig := rekognition.Config{
		Region:       cfg.AWSRegion,
		CollectionID: cfg.RekognitionCollection,
		Threshold:    cfg.RekognitionThreshold,
		Timeout:      cfg.FaceServiceTimeout,
	}

	v, err := rekognition.New(ctx, rekogConfig, logger)
	if err != nil {
		return nil, fmt.Errorf("create rekognition verifier: %w", err)
	}

	return v, nil
}

func createHTTPVerifier(cfg *config.Config, logger *slog.Logger) verification.Verifier {
	clientConfig := verification.DefaultConfig()

	if cfg.FaceServiceURL != "" {
		clientConfig.BaseURL = cfg.FaceServiceURL
	}
	if cfg.FaceVerifyEndpoint != "" {
		clientConfig.VerifyPath = cfg.FaceVerifyEndpoint
	}
	if cfg.FaceRegisterEndpoint != "" {
		clientConfig.RegisterPath = cfg.FaceRegisterEndpoint
	}
	if cfg.FaceServiceTimeout > 0 {
		clientConfig.Timeout = cfg.FaceServiceTimeout
	}

	return verification.NewClient(clientConfig, logger)
}
