package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/saturnino-fabrica-de-software/bundyclock/internal/domain"
)

// MemoryEmployeeRepository keeps employees in a map, enforcing the same
// uniqueness rules as the employees table (code, and email when set).
type MemoryEmployeeRepository struct {
	mu        sync.RWMutex
	employees map[uuid.UUID]domain.Employee
}

func NewMemoryEmployeeRepository() *MemoryEmployeeRepository {
	return &MemoryEmployeeRepository{employees: make(map[uuid.UUID]domain.Employee)}
}

func (r *MemoryEmployeeRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Employee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	employee, ok := r.employees[id]
	if !ok {
		return nil, domain.ErrEmployeeNotFound
	}
	return &employee, nil
}

func (r *MemoryEmployeeRepository) List(ctx context.Context) ([]domain.Employee, error) {
	r.mu.RLock()
	out := make([]domain.Employee, 0, len(r.employees))
	for _, e := range r.employees {
		out = append(out, e)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].EmployeeCode < out[j].EmployeeCode
	})
	return out, nil
}

func (r *MemoryEmployeeRepository) Create(ctx context.Context, employee *domain.Employee) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if employee.ID == uuid.Nil {
		employee.ID = uuid.New()
	}
	if _, exists := r.employees[employee.ID]; exists || r.conflicts(employee) {
		return domain.ErrEmployeeExists
	}

	now := time.Now()
	employee.CreatedAt, employee.UpdatedAt = now, now
	r.employees[employee.ID] = *employee
	return nil
}

func (r *MemoryEmployeeRepository) Update(ctx context.Context, employee *domain.Employee) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.employees[employee.ID]
	if !ok {
		return domain.ErrEmployeeNotFound
	}

	employee.EmployeeCode = existing.EmployeeCode
	if r.conflicts(employee) {
		return domain.ErrEmployeeExists
	}

	employee.CreatedAt = existing.CreatedAt
	employee.UpdatedAt = time.Now()
	r.employees[employee.ID] = *employee
	return nil
}

func (r *MemoryEmployeeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.employees[id]; !ok {
		return domain.ErrEmployeeNotFound
	}
	delete(r.employees, id)
	return nil
}

// conflicts reports whether another employee already uses the code or email
func (r *MemoryEmployeeRepository) conflicts(employee *domain.Employee) bool {
	for id, other := range r.employees {
		if id == employee.ID {
			continue
		}
		if other.EmployeeCode == employee.EmployeeCode {
			return true
		}
		if employee.Email != nil && other.Email != nil && strings.EqualFold(*other.Email, *employee.Email) {
			return true
		}
	}
	return false
}
