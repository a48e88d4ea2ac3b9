package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/saturnino-fabrica-de-software/bundyclock/internal/domain"
)

type EmployeeRepositoryInterface interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Employee, error)
	List(ctx context.Context) ([]domain.Employee, error)
	Create(ctx context.Context, employee *domain.Employee) error
	Update(ctx context.Context, employee *domain.Employee) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// EmployeeLookup is the only employee access the clock needs
type EmployeeLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Employee, error)
}

// AttendanceLedger is the append-only event store
type AttendanceLedger interface {
	LatestEventToday(ctx context.Context, employeeID uuid.UUID, asOf time.Time) (*domain.AttendanceEvent, error)
	Append(ctx context.Context, event *domain.AttendanceEvent) (*domain.AttendanceEvent, error)
	AllEvents(ctx context.Context) ([]domain.AttendanceEvent, error)
	EventsFor(ctx context.Context, employeeID uuid.UUID) ([]domain.AttendanceEvent, error)
}

type FaceEmbeddingRepositoryInterface interface {
	Create(ctx context.Context, embedding *domain.FaceEmbedding) error
	ListByEmployee(ctx context.Context, employeeID uuid.UUID) ([]domain.FaceEmbedding, error)
}

// EventPublisher pushes committed changes to live subscribers. Calls must not block.
type EventPublisher interface {
	PublishAttendance(event *domain.AttendanceEvent)
	PublishFaceRegistered(embedding *domain.FaceEmbedding)
}

type noopPublisher struct{}

func (noopPublisher) PublishAttendance(*domain.AttendanceEvent)   {}
func (noopPublisher) PublishFaceRegistered(*domain.FaceEmbedding) {}
