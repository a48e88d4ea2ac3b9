package domain

import (
	"time"

	"github.com/google/uuid"
)

const DefaultFaceModel = "DeepFace"

// VerificationOutcome is the transient result of one verification call.
// It is folded into the attendance event and discarded.
type VerificationOutcome struct {
	Matched         bool       `json:"matched"`
	EmployeeID      *uuid.UUID `json:"employee_id,omitempty"`
	ConfidenceScore *float64   `json:"confidence_score,omitempty"`
	Message         string     `json:"message"`
}

// Confirms reports whether the outcome vouches for the given employee
func (o VerificationOutcome) Confirms(employeeID uuid.UUID) bool {
	if !o.Matched {
		return false
	}
	return o.EmployeeID == nil || *o.EmployeeID == employeeID
}

// RegistrationOutcome is returned by the recognition service after a face enrolment
type RegistrationOutcome struct {
	Success            bool   `json:"success"`
	EmbeddingReference string `json:"embedding_reference,omitempty"`
	Message            string `json:"message"`
}

// FaceEmbedding records that a face was enrolled for an employee.
// The vector itself lives in the recognition service.
type FaceEmbedding struct {
	ID                 uuid.UUID `json:"id"`
	EmployeeID         uuid.UUID `json:"employee_id"`
	EmbeddingReference string    `json:"embedding_reference,omitempty"`
	ModelUsed          string    `json:"model_used"`
	CreatedAt          time.Time `json:"created_at"`
}
