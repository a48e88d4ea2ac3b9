package rekognition

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"
	"github.com/aws/smithy-go"
)

const (
	errCodeAccessDenied     = "AccessDeniedException"
	errCodeResourceNotFound = "ResourceNotFoundException"
	errCodeResourceExists   = "ResourceAlreadyExistsException"
	errCodeInvalidParameter = "InvalidParameterException"
)

// API is the subset of the Rekognition client used by the verifier
type API interface {
	IndexFaces(ctx context.Context, params *rekognition.IndexFacesInput, optFns ...func(*rekognition.Options)) (*rekognition.IndexFacesOutput, error)
	SearchFacesByImage(ctx context.Context, params *rekognition.SearchFacesByImageInput, optFns ...func(*rekognition.Options)) (*rekognition.SearchFacesByImageOutput, error)
	CreateCollection(ctx context.Context, params *rekognition.CreateCollectionInput, optFns ...func(*rekognition.Options)) (*rekognition.CreateCollectionOutput, error)
	DescribeCollection(ctx context.Context, params *rekognition.DescribeCollectionInput, optFns ...func(*rekognition.Options)) (*rekognition.DescribeCollectionOutput, error)
}

var _ API = (*rekognition.Client)(nil)

// NewAPI builds a Rekognition client using the AWS default credential chain
func NewAPI(ctx context.Context, cfg Config) (API, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return rekognition.NewFromConfig(awsCfg), nil
}

// collectionExists reports whether the collection is present
func collectionExists(ctx context.Context, api API, collectionID string) (bool, error) {
	_, err := api.DescribeCollection(ctx, &rekognition.DescribeCollectionInput{
		CollectionId: aws.String(collectionID),
	})
	if err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) {
			switch apiErr.ErrorCode() {
			case errCodeResourceNotFound:
				return false, nil
			case errCodeAccessDenied:
				return false, fmt.Errorf("collection %s: %w", collectionID, ErrInvalidCredentials)
			}
		}
		return false, fmt.Errorf("failed to check collection %s: %w", collectionID, err)
	}

	return true, nil
}

// ensureCollection creates the collection if it doesn't exist
func ensureCollection(ctx context.Context, api API, collectionID string) error {
	exists, err := collectionExists(ctx, api, collectionID)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	_, err = api.CreateCollection(ctx, &rekognition.CreateCollectionInput{
		CollectionId: aws.String(collectionID),
	})
	if err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) {
			switch apiErr.ErrorCode() {
			case errCodeResourceExists:
				// created concurrently
				return nil
			case errCodeAccessDenied:
				return fmt.Errorf("collection %s: %w", collectionID, ErrInvalidCredentials)
			}
		}
		return fmt.Errorf("failed to create collection %s: %w", collectionID, err)
	}

	return nil
}

// ParseNoFaceError checks if an AWS error indicates no face was detected
func ParseNoFaceError(err error) error {
	if err == nil {
		return nil
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case errCodeInvalidParameter:
			if msg := apiErr.ErrorMessage(); msg != "" {
				return fmt.Errorf("%w: %s", ErrNoFaceDetected, msg)
			}
			return ErrNoFaceDetected
		case errCodeResourceNotFound:
			return ErrCollectionNotFound
		case errCodeAccessDenied:
			return ErrInvalidCredentials
		}
	}

	return err
}

// ParseIndexFacesError interprets errors from IndexFaces operation
func ParseIndexFacesError(unindexedFaces []types.UnindexedFace) error {
	if len(unindexedFaces) == 0 {
		return nil
	}

	face := unindexedFaces[0]
	if len(face.Reasons) > 0 {
		switch face.Reasons[0] {
		case types.ReasonExceedsMaxFaces:
			return ErrMultipleFaces
		case types.ReasonExtremePose, types.ReasonLowBrightness,
			types.ReasonLowSharpness, types.ReasonLowConfidence,
			types.ReasonSmallBoundingBox, types.ReasonLowFaceQuality:
			return fmt.Errorf("%w: %s", ErrNoFaceDetected, face.Reasons[0])
		}
	}

	return ErrNoFaceDetected
}
