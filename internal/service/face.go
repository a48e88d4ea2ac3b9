package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/saturnino-fabrica-de-software/bundyclock/internal/audit"
	"github.com/saturnino-fabrica-de-software/bundyclock/internal/domain"
	"github.com/saturnino-fabrica-de-software/bundyclock/internal/verification"
)

type FaceService struct {
	employees  EmployeeLookup
	embeddings FaceEmbeddingRepositoryInterface
	verifier   verification.Verifier
	audit      audit.Logger
	publisher  EventPublisher
	logger     *slog.Logger
	modelUsed  string
}

func NewFaceService(
	employees EmployeeLookup,
	embeddings FaceEmbeddingRepositoryInterface,
	verifier verification.Verifier,
	logger *slog.Logger,
) *FaceService {
	return &FaceService{
		employees:  employees,
		embeddings: embeddings,
		verifier:   verifier,
		audit:      &audit.NoOpLogger{},
		publisher:  noopPublisher{},
		logger:     logger.With("component", "face"),
		modelUsed:  domain.DefaultFaceModel,
	}
}

func (s *FaceService) WithAudit(logger audit.Logger) *FaceService {
	s.audit = logger
	return s
}

func (s *FaceService) WithPublisher(publisher EventPublisher) *FaceService {
	s.publisher = publisher
	return s
}

// WithModel names the recognition model recorded on new embeddings
func (s *FaceService) WithModel(model string) *FaceService {
	if model != "" {
		s.modelUsed = model
	}
	return s
}

// Verify passes the image through to the recognition service. It never fails.
func (s *FaceService) Verify(ctx context.Context, image []byte) domain.VerificationOutcome {
	return s.verifier.Verify(ctx, image)
}

// Register enrols a face and records the embedding reference on success only
func (s *FaceService) Register(ctx context.Context, employeeID uuid.UUID, image []byte) (*domain.FaceEmbedding, error) {
	if _, err := s.employees.GetByID(ctx, employeeID); err != nil {
		return nil, err
	}

	outcome, err := s.verifier.Register(ctx, employeeID, image)
	if err != nil {
		s.auditFailure(ctx, employeeID, err)
		return nil, err
	}
	if !outcome.Success {
		// backends report rejection as an error; guard against one that does not
		err := domain.ErrVerificationRejected.WithMessage(outcome.Message)
		s.auditFailure(ctx, employeeID, err)
		return nil, err
	}

	embedding := &domain.FaceEmbedding{
		EmployeeID:         employeeID,
		EmbeddingReference: outcome.EmbeddingReference,
		ModelUsed:          s.modelUsed,
	}
	if err := s.embeddings.Create(ctx, embedding); err != nil {
		return nil, fmt.Errorf("employee %s: store face embedding: %w", employeeID, err)
	}

	s.logger.InfoContext(ctx, "face registered",
		slog.String("employee_id", employeeID.String()),
		slog.String("embedding_reference", embedding.EmbeddingReference),
	)

	recordAudit(ctx, s.audit, s.logger, audit.Event{
		Timestamp:  embedding.CreatedAt.UTC(),
		EventType:  audit.EventFaceRegistered,
		EmployeeID: employeeID,
		RecordID:   embedding.ID.String(),
		Success:    true,
		Metadata:   map[string]string{"model_used": embedding.ModelUsed},
	})
	s.publisher.PublishFaceRegistered(embedding)

	return embedding, nil
}

// Embeddings lists the enrolments recorded for an employee, newest first
func (s *FaceService) Embeddings(ctx context.Context, employeeID uuid.UUID) ([]domain.FaceEmbedding, error) {
	if _, err := s.employees.GetByID(ctx, employeeID); err != nil {
		return nil, err
	}
	return s.embeddings.ListByEmployee(ctx, employeeID)
}

func (s *FaceService) auditFailure(ctx context.Context, employeeID uuid.UUID, err error) {
	message := err.Error()
	var appErr *domain.AppError
	if errors.As(err, &appErr) {
		message = appErr.Message
	}

	recordAudit(ctx, s.audit, s.logger, audit.Event{
		EventType:  audit.EventFaceRegisterFailed,
		EmployeeID: employeeID,
		Success:    false,
		Error:      message,
	})
}
