package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/saturnino-fabrica-de-software/bundyclock/internal/domain"
)

// FaceEmbeddingRepository records successful face enrolments.
// The vector itself stays in the recognition service; only its reference is kept.
type FaceEmbeddingRepository struct {
	pool PgxPool
}

func NewFaceEmbeddingRepository(pool PgxPool) *FaceEmbeddingRepository {
	return &FaceEmbeddingRepository{pool: pool}
}

func (r *FaceEmbeddingRepository) Create(ctx context.Context, embedding *domain.FaceEmbedding) error {
	query := `
		INSERT INTO face_embeddings (id, employee_id, embedding_reference, model_used, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING created_at
	`

	if embedding.ID == uuid.Nil {
		embedding.ID = uuid.New()
	}
	if embedding.ModelUsed == "" {
		embedding.ModelUsed = domain.DefaultFaceModel
	}

	err := r.pool.QueryRow(ctx, query,
		embedding.ID,
		embedding.EmployeeID,
		embedding.EmbeddingReference,
		embedding.ModelUsed,
	).Scan(&embedding.CreatedAt)

	if err != nil {
		return fmt.Errorf("create face embedding: %w", err)
	}

	return nil
}

func (r *FaceEmbeddingRepository) ListByEmployee(ctx context.Context, employeeID uuid.UUID) ([]domain.FaceEmbedding, error) {
	query := `
		SELECT id, employee_id, embedding_reference, model_used, created_at
		FROM face_embeddings
		WHERE employee_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, employeeID)
	if err != nil {
		return nil, fmt.Errorf("list face embeddings: %w", err)
	}
	defer rows.Close()

	embeddings := make([]domain.FaceEmbedding, 0)
	for rows.Next() {
		var e domain.FaceEmbedding
		if err := rows.Scan(&e.ID, &e.EmployeeID, &e.EmbeddingReference, &e.ModelUsed, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan face embedding: %w", err)
		}
		embeddings = append(embeddings, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return embeddings, nil
}
