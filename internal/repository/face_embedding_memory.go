package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/saturnino-fabrica-de-software/bundyclock/internal/domain"
)

type MemoryFaceEmbeddingRepository struct {
	mu         sync.RWMutex
	embeddings []domain.FaceEmbedding
}

func NewMemoryFaceEmbeddingRepository() *MemoryFaceEmbeddingRepository {
	return &MemoryFaceEmbeddingRepository{}
}

func (r *MemoryFaceEmbeddingRepository) Create(ctx context.Context, embedding *domain.FaceEmbedding) error {
	if embedding.ID == uuid.Nil {
		embedding.ID = uuid.New()
	}
	if embedding.ModelUsed == "" {
		embedding.ModelUsed = domain.DefaultFaceModel
	}
	embedding.CreatedAt = time.Now()

	r.mu.Lock()
	r.embeddings = append(r.embeddings, *embedding)
	r.mu.Unlock()
	return nil
}

// ListByEmployee returns newest first
func (r *MemoryFaceEmbeddingRepository) ListByEmployee(ctx context.Context, employeeID uuid.UUID) ([]domain.FaceEmbedding, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.FaceEmbedding, 0)
	for i := len(r.embeddings) - 1; i >= 0; i-- {
		if r.embeddings[i].EmployeeID == employeeID {
			out = append(out, r.embeddings[i])
		}
	}
	return out, nil
}
