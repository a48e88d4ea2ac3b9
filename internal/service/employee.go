package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/saturnino-fabrica-de-software/bundyclock/internal/domain"
)

type EmployeeService struct {
	repo EmployeeRepositoryInterface
}

func NewEmployeeService(repo EmployeeRepositoryInterface) *EmployeeService {
	return &EmployeeService{repo: repo}
}

func (s *EmployeeService) Create(ctx context.Context, employee *domain.Employee) (*domain.Employee, error) {
	employee.Normalize()
	if err := employee.Validate(); err != nil {
		return nil, domain.ErrValidationFailed.WithMessage(err.Error())
	}

	employee.ID = uuid.Nil
	if err := s.repo.Create(ctx, employee); err != nil {
		return nil, err
	}

	return employee, nil
}

func (s *EmployeeService) Get(ctx context.Context, id uuid.UUID) (*domain.Employee, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *EmployeeService) List(ctx context.Context) ([]domain.Employee, error) {
	return s.repo.List(ctx)
}

// Update replaces name, department and email. The employee code is fixed at creation.
func (s *EmployeeService) Update(ctx context.Context, id uuid.UUID, employee *domain.Employee) (*domain.Employee, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	employee.ID = id
	employee.EmployeeCode = current.EmployeeCode
	employee.Normalize()
	if err := employee.Validate(); err != nil {
		return nil, domain.ErrValidationFailed.WithMessage(err.Error())
	}

	if err := s.repo.Update(ctx, employee); err != nil {
		return nil, err
	}

	return employee, nil
}

// Delete removes the employee record; attendance history is kept
func (s *EmployeeService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}
