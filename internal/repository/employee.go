package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/saturnino-fabrica-de-software/bundyclock/internal/domain"
)

type EmployeeRepository struct {
	pool PgxPool
}

func NewEmployeeRepository(pool PgxPool) *EmployeeRepository {
	return &EmployeeRepository{pool: pool}
}

func (r *EmployeeRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Employee, error) {
	query := `
		SELECT id, name, employee_code, department, email, created_at, updated_at
		FROM employees
		WHERE id = $1
	`

	var employee domain.Employee
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&employee.ID,
		&employee.Name,
		&employee.EmployeeCode,
		&employee.Department,
		&employee.Email,
		&employee.CreatedAt,
		&employee.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrEmployeeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get employee by id: %w", err)
	}

	return &employee, nil
}

func (r *EmployeeRepository) List(ctx context.Context) ([]domain.Employee, error) {
	query := `
		SELECT id, name, employee_code, department, email, created_at, updated_at
		FROM employees
		ORDER BY name ASC, employee_code ASC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	defer rows.Close()

	employees := make([]domain.Employee, 0)
	for rows.Next() {
		var employee domain.Employee
		err := rows.Scan(
			&employee.ID,
			&employee.Name,
			&employee.EmployeeCode,
			&employee.Department,
			&employee.Email,
			&employee.CreatedAt,
			&employee.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan employee: %w", err)
		}
		employees = append(employees, employee)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return employees, nil
}

func (r *EmployeeRepository) Create(ctx context.Context, employee *domain.Employee) error {
	query := `
		INSERT INTO employees (id, name, employee_code, department, email, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING created_at, updated_at
	`

	if employee.ID == uuid.Nil {
		employee.ID = uuid.New()
	}

	err := r.pool.QueryRow(ctx, query,
		employee.ID,
		employee.Name,
		employee.EmployeeCode,
		employee.Department,
		employee.Email,
	).Scan(&employee.CreatedAt, &employee.UpdatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmployeeExists
		}
		return fmt.Errorf("create employee: %w", err)
	}

	return nil
}

// Update changes name, department and email. The employee code is immutable.
func (r *EmployeeRepository) Update(ctx context.Context, employee *domain.Employee) error {
	query := `
		UPDATE employees
		SET name = $2, department = $3, email = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING employee_code, created_at, updated_at
	`

	err := r.pool.QueryRow(ctx, query,
		employee.ID,
		employee.Name,
		employee.Department,
		employee.Email,
	).Scan(&employee.EmployeeCode, &employee.CreatedAt, &employee.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrEmployeeNotFound
	}
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmployeeExists
		}
		return fmt.Errorf("update employee: %w", err)
	}

	return nil
}

func (r *EmployeeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `
		DELETE FROM employees
		WHERE id = $1
	`

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete employee: %w", err)
	}

	if result.RowsAffected() == 0 {
		return domain.ErrEmployeeNotFound
	}

	return nil
}
