// Package mock provides an in-process face recognizer for development and tests.
package mock

import (
	"context"
	"crypto/sha256"
	"fmt"
	"math"
	"sync"

	"github.com/google/uuid"

	"github.com/saturnino-fabrica-de-software/bundyclock/internal/domain"
	"github.com/saturnino-fabrica-de-software/bundyclock/internal/verification"
)

const (
	embeddingDimension = 512
	minImageSize       = 1000
	defaultThreshold   = 0.99
)

// Verifier implements verification.Verifier with deterministic embeddings:
// the same image bytes always produce the same vector, so a query image matches
// the employee whose enrolment image was byte-identical.
type Verifier struct {
	mu        sync.RWMutex
	enrolled  map[uuid.UUID][]float64
	threshold float64
}

// New creates a new mock verifier
func New() *Verifier {
	return &Verifier{
		enrolled:  make(map[uuid.UUID][]float64),
		threshold: defaultThreshold,
	}
}

// WithThreshold sets the minimum cosine similarity counted as a match
func (v *Verifier) WithThreshold(threshold float64) *Verifier {
	v.threshold = threshold
	return v
}

var _ verification.Verifier = (*Verifier)(nil)

// Verify returns the enrolled employee with the highest similarity above the threshold
func (v *Verifier) Verify(ctx context.Context, image []byte) domain.VerificationOutcome {
	if len(image) < minImageSize {
		return domain.VerificationOutcome{Matched: false, Message: "No face detected in the submitted image."}
	}

	query := generateEmbedding(image)

	v.mu.RLock()
	defer v.mu.RUnlock()

	var (
		bestID    uuid.UUID
		bestScore = -1.0
	)
	for id, emb := range v.enrolled {
		if score := cosineSimilarity(query, emb); score > bestScore {
			bestID, bestScore = id, score
		}
	}

	if bestScore < v.threshold {
		outcome := domain.VerificationOutcome{Matched: false, Message: "No match found."}
		if bestScore >= 0 {
			score := bestScore
			outcome.ConfidenceScore = &score
		}
		return outcome
	}

	id, score := bestID, math.Min(bestScore, 1)
	return domain.VerificationOutcome{
		Matched:         true,
		EmployeeID:      &id,
		ConfidenceScore: &score,
		Message:         "Match found.",
	}
}

// Register stores the embedding for the employee, replacing any previous one
func (v *Verifier) Register(ctx context.Context, employeeID uuid.UUID, image []byte) (*domain.RegistrationOutcome, error) {
	if len(image) < minImageSize {
		return nil, domain.ErrVerificationRejected.WithMessage("No face detected in the provided image.")
	}

	v.mu.Lock()
	v.enrolled[employeeID] = generateEmbedding(image)
	v.mu.Unlock()

	return &domain.RegistrationOutcome{
		Success:            true,
		EmbeddingReference: fmt.Sprintf("mock://embeddings/%s", employeeID),
		Message:            "Face registered successfully.",
	}, nil
}

// generateEmbedding gera embedding determinístico baseado no hash da imagem
func generateEmbedding(image []byte) []float64 {
	hash := sha256.Sum256(image)
	embedding := make([]float64, embeddingDimension)
	hashLen := len(hash)

	for i := 0; i < embeddingDimension; i++ {
		idx := i % hashLen
		//nolint:gosec // idx is always < hashLen due to modulo operation
		embedding[i] = (float64(hash[idx])/255.0)*2 - 1
	}

	norm := 0.0
	for _, val := range embedding {
		norm += val * val
	}
	norm = math.Sqrt(norm)

	for i := range embedding {
		embedding[i] /= norm
	}

	return embedding
}

// cosineSimilarity calcula similaridade coseno entre dois vetores
func cosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) {
		return 0
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
}
