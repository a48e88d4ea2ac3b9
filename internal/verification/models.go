package verification

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/saturnino-fabrica-de-software/bundyclock/internal/domain"
)

const defaultRejectionMessage = "No face detected in the provided image."

// verifyResponse for POST /verify-face.
// Pointer fields let the decoder tell a missing field from a zero value.
type verifyResponse struct {
	Matched         *bool    `json:"matched"`
	EmployeeID      *string  `json:"employee_id"`
	ConfidenceScore *float64 `json:"confidence_score"`
	Message         *string  `json:"message"`
}

func (r verifyResponse) toOutcome() (domain.VerificationOutcome, error) {
	if r.Matched == nil {
		return domain.VerificationOutcome{}, fmt.Errorf("%w: missing field matched", ErrInvalidResponse)
	}

	outcome := domain.VerificationOutcome{Matched: *r.Matched}

	if r.EmployeeID != nil && *r.EmployeeID != "" {
		id, err := uuid.Parse(*r.EmployeeID)
		if err != nil {
			return domain.VerificationOutcome{}, fmt.Errorf("%w: employee_id %q is not a uuid", ErrInvalidResponse, *r.EmployeeID)
		}
		outcome.EmployeeID = &id
	}

	if r.ConfidenceScore != nil {
		score := *r.ConfidenceScore
		if score < 0 || score > 1 {
			return domain.VerificationOutcome{}, fmt.Errorf("%w: confidence_score %v outside [0,1]", ErrInvalidResponse, score)
		}
		outcome.ConfidenceScore = &score
	}

	if r.Message != nil {
		outcome.Message = *r.Message
	}

	return outcome, nil
}

// registerResponse for POST /register-face
type registerResponse struct {
	Success       *bool   `json:"success"`
	EmployeeID    *string `json:"employee_id"`
	EmbeddingPath *string `json:"embedding_path"`
	Message       *string `json:"message"`
}

func (r registerResponse) toOutcome() (*domain.RegistrationOutcome, error) {
	if r.Success == nil {
		return nil, domain.ErrVerificationService.WithError(
			fmt.Errorf("%w: missing field success", ErrInvalidResponse))
	}

	message := ""
	if r.Message != nil {
		message = *r.Message
	}

	if !*r.Success {
		if message == "" {
			message = defaultRejectionMessage
		}
		return nil, domain.ErrVerificationRejected.WithMessage(message)
	}

	outcome := &domain.RegistrationOutcome{
		Success: true,
		Message: message,
	}
	if r.EmbeddingPath != nil {
		outcome.EmbeddingReference = *r.EmbeddingPath
	}
	return outcome, nil
}
