package rekognition

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/rekognition"
)

// mockRekognitionAPI is a mock implementation of the API interface for testing
type mockRekognitionAPI struct {
	indexFacesFunc         func(ctx context.Context, params *rekognition.IndexFacesInput, optFns ...func(*rekognition.Options)) (*rekognition.IndexFacesOutput, error)
	searchFacesByImageFunc func(ctx context.Context, params *rekognition.SearchFacesByImageInput, optFns ...func(*rekognition.Options)) (*rekognition.SearchFacesByImageOutput, error)
	createCollectionFunc   func(ctx context.Context, params *rekognition.CreateCollectionInput, optFns ...func(*rekognition.Options)) (*rekognition.CreateCollectionOutput, error)
	describeCollectionFunc func(ctx context.Context, params *rekognition.DescribeCollectionInput, optFns ...func(*rekognition.Options)) (*rekognition.DescribeCollectionOutput, error)
}

func (m *mockRekognitionAPI) IndexFaces(ctx context.Context, params *rekognition.IndexFacesInput, optFns ...func(*rekognition.Options)) (*rekognition.IndexFacesOutput, error) {
	if m.indexFacesFunc != nil {
		return m.indexFacesFunc(ctx, params, optFns...)
	}
	return &rekognition.IndexFacesOutput{}, nil
}

func (m *mockRekognitionAPI) SearchFacesByImage(ctx context.Context, params *rekognition.SearchFacesByImageInput, optFns ...func(*rekognition.Options)) (*rekognition.SearchFacesByImageOutput, error) {
	if m.searchFacesByImageFunc != nil {
		return m.searchFacesByImageFunc(ctx, params, optFns...)
	}
	return &rekognition.SearchFacesByImageOutput{}, nil
}

func (m *mockRekognitionAPI) CreateCollection(ctx context.Context, params *rekognition.CreateCollectionInput, optFns ...func(*rekognition.Options)) (*rekognition.CreateCollectionOutput, error) {
	if m.createCollectionFunc != nil {
		return m.createCollectionFunc(ctx, params, optFns...)
	}
	return &rekognition.CreateCollectionOutput{}, nil
}

func (m *mockRekognitionAPI) DescribeCollection(ctx context.Context, params *rekognition.DescribeCollectionInput, optFns ...func(*rekognition.Options)) (*rekognition.DescribeCollectionOutput, error) {
	if m.describeCollectionFunc != nil {
		return m.describeCollectionFunc(ctx, params, optFns...)
	}
	return &rekognition.DescribeCollectionOutput{}, nil
}
