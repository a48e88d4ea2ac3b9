package domain

import (
	"errors"
	"net/mail"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

var employeeCodeRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]{0,49}$`)

// Employee is a person allowed to clock in and out
type Employee struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	EmployeeCode string    `json:"employee_code"`
	Department   *string   `json:"department,omitempty"`
	Email        *string   `json:"email,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Normalize trims user supplied fields and clears empty optionals
func (e *Employee) Normalize() {
	e.Name = strings.TrimSpace(e.Name)
	e.EmployeeCode = strings.TrimSpace(e.EmployeeCode)
	e.Department = trimOptional(e.Department)
	e.Email = trimOptional(e.Email)
}

// Validate checks the employee is well formed
func (e *Employee) Validate() error {
	if e.Name == "" {
		return errors.New("employee name cannot be empty")
	}

	if len(e.Name) > 255 {
		return errors.New("employee name must be at most 255 characters")
	}

	if e.EmployeeCode == "" {
		return errors.New("employee code cannot be empty")
	}

	if !employeeCodeRegex.MatchString(e.EmployeeCode) {
		return errors.New("employee code must be alphanumeric (dashes and underscores allowed), up to 50 characters")
	}

	if e.Department != nil && len(*e.Department) > 100 {
		return errors.New("department must be at most 100 characters")
	}

	if e.Email != nil {
		if _, err := mail.ParseAddress(*e.Email); err != nil {
			return errors.New("email is not a valid address")
		}
	}

	return nil
}

func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
