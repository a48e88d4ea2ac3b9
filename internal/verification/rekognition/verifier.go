package rekognition

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"
	"github.com/google/uuid"

	"github.com/saturnino-fabrica-de-software/bundyclock/internal/domain"
	"github.com/saturnino-fabrica-de-software/bundyclock/internal/verification"
)

const (
	// maxImageSize is the maximum image size supported by AWS Rekognition (5MB)
	maxImageSize = 5 * 1024 * 1024
	// minImageSize is the minimum image size for valid processing
	minImageSize = 100

	noFaceMessage       = "No face detected in the submitted image."
	noMatchMessage      = "No match found."
	matchMessage        = "Match found."
	registrationMessage = "Face registered successfully."
	rejectionMessage    = "No face detected in the provided image."
)

// Verifier implements verification.Verifier on top of an AWS Rekognition collection
type Verifier struct {
	api    API
	config Config
	logger *slog.Logger
}

var _ verification.Verifier = (*Verifier)(nil)

// New creates a Rekognition verifier and makes sure the collection exists
func New(ctx context.Context, cfg Config, logger *slog.Logger) (*Verifier, error) {
	api, err := NewAPI(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create rekognition client: %w", err)
	}

	if err := ensureCollection(ctx, api, cfg.CollectionID); err != nil {
		return nil, fmt.Errorf("ensure collection %s: %w", cfg.CollectionID, err)
	}

	return NewWithAPI(api, cfg, logger), nil
}

// NewWithAPI wires a verifier to an existing API implementation
func NewWithAPI(api API, cfg Config, logger *slog.Logger) *Verifier {
	if cfg.Threshold <= 0 || cfg.Threshold > 1 {
		cfg.Threshold = DefaultConfig().Threshold
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}
	return &Verifier{
		api:    api,
		config: cfg,
		logger: logger.With("component", "verification", "provider", "rekognition"),
	}
}

// validateImage checks if image data is valid for Rekognition processing
func validateImage(image []byte) error {
	if len(image) == 0 {
		return ErrInvalidImage
	}
	if len(image) < minImageSize {
		return fmt.Errorf("%w: image too small (%d bytes, minimum %d)", ErrInvalidImage, len(image), minImageSize)
	}
	if len(image) > maxImageSize {
		return fmt.Errorf("%w: image too large (%d bytes, maximum %d)", ErrInvalidImage, len(image), maxImageSize)
	}
	return nil
}

// Verify searches the collection for the closest enrolled face
func (v *Verifier) Verify(ctx context.Context, image []byte) domain.VerificationOutcome {
	if err := validateImage(image); err != nil {
		v.logger.Warn("verification image rejected", slog.Any("error", err))
		return verification.Unavailable(err)
	}

	ctx, cancel := context.WithTimeout(ctx, v.config.Timeout)
	defer cancel()

	output, err := v.api.SearchFacesByImage(ctx, &rekognition.SearchFacesByImageInput{
		CollectionId:       aws.String(v.config.CollectionID),
		Image:              &types.Image{Bytes: image},
		MaxFaces:           aws.Int32(1),
		FaceMatchThreshold: aws.Float32(float32(v.config.Threshold * 100)), // Convert 0-1 to 0-100
	})
	if err != nil {
		parsed := ParseNoFaceError(err)
		if errors.Is(parsed, ErrNoFaceDetected) {
			v.logger.Info("no face in submitted image")
			return domain.VerificationOutcome{Matched: false, Message: noFaceMessage}
		}
		v.logger.Warn("search faces by image failed", slog.Any("error", parsed))
		return verification.Unavailable(parsed)
	}

	if len(output.FaceMatches) == 0 || output.FaceMatches[0].Face == nil {
		return domain.VerificationOutcome{Matched: false, Message: noMatchMessage}
	}

	best := output.FaceMatches[0]
	if best.Face.ExternalImageId == nil {
		return verification.Unavailable(errors.New("matched face has no external image id"))
	}
	employeeID, err := uuid.Parse(*best.Face.ExternalImageId)
	if err != nil {
		return verification.Unavailable(fmt.Errorf("external image id %q is not a uuid", *best.Face.ExternalImageId))
	}

	outcome := domain.VerificationOutcome{
		Matched:    true,
		EmployeeID: &employeeID,
		Message:    matchMessage,
	}
	if best.Similarity != nil {
		score := float64(*best.Similarity) / 100.0 // Normalize to 0-1
		outcome.ConfidenceScore = &score
	}

	v.logger.Info("face verification result",
		slog.String("employee_id", employeeID.String()),
		slog.Bool("matched", true),
	)
	return outcome
}

// Register indexes the face with ExternalImageId set to the employee id
func (v *Verifier) Register(ctx context.Context, employeeID uuid.UUID, image []byte) (*domain.RegistrationOutcome, error) {
	if err := validateImage(image); err != nil {
		return nil, domain.ErrInvalidImage.WithError(err)
	}

	ctx, cancel := context.WithTimeout(ctx, v.config.Timeout)
	defer cancel()

	output, err := v.api.IndexFaces(ctx, &rekognition.IndexFacesInput{
		CollectionId:    aws.String(v.config.CollectionID),
		Image:           &types.Image{Bytes: image},
		ExternalImageId: aws.String(employeeID.String()),
		MaxFaces:        aws.Int32(1), // Only index the first face
		QualityFilter:   types.QualityFilterAuto,
		DetectionAttributes: []types.Attribute{
			types.AttributeDefault,
		},
	})
	if err != nil {
		parsed := ParseNoFaceError(err)
		if errors.Is(parsed, ErrNoFaceDetected) {
			return nil, domain.ErrVerificationRejected.WithMessage(rejectionMessage).WithError(parsed)
		}
		v.logger.Error("index faces failed",
			slog.String("employee_id", employeeID.String()),
			slog.Any("error", parsed),
		)
		return nil, domain.ErrVerificationService.WithError(fmt.Errorf("index face: %w", parsed))
	}

	if len(output.FaceRecords) == 0 || output.FaceRecords[0].Face == nil || output.FaceRecords[0].Face.FaceId == nil {
		indexErr := ParseIndexFacesError(output.UnindexedFaces)
		if indexErr == nil {
			indexErr = ErrNoFaceDetected
		}
		message := rejectionMessage
		if errors.Is(indexErr, ErrMultipleFaces) {
			message = "Multiple faces detected in the provided image."
		}
		return nil, domain.ErrVerificationRejected.WithMessage(message).WithError(indexErr)
	}

	faceID := *output.FaceRecords[0].Face.FaceId
	v.logger.Info("face registered",
		slog.String("employee_id", employeeID.String()),
		slog.String("face_id", faceID),
	)

	return &domain.RegistrationOutcome{
		Success:            true,
		EmbeddingReference: "rekognition://" + v.config.CollectionID + "/" + faceID,
		Message:            registrationMessage,
	}, nil
}
