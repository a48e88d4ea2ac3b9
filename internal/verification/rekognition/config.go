package rekognition

import "time"

// Config holds configuration for the AWS Rekognition verifier
type Config struct {
	// Region is the AWS region where Rekognition service will be used (e.g., "us-east-1")
	Region string

	// CollectionID is the single collection that holds every enrolled employee face.
	// Faces are indexed with ExternalImageId set to the employee id.
	CollectionID string

	// Threshold is the minimum similarity (0-1) for a search hit to count as a match
	Threshold float64

	// Timeout bounds each Rekognition call. Zero falls back to the default.
	Timeout time.Duration
}

// DefaultConfig returns a Config with default values
func DefaultConfig() Config {
	return Config{
		Region:       "us-east-1",
		CollectionID: "bundyclock-employees",
		Threshold:    0.8,
		Timeout:      10 * time.Second,
	}
}
