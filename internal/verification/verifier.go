// Package verification talks to the face recognition collaborator.
//
// Verify is best-effort: every failure degrades into an unmatched outcome so
// that attendance recording never depends on the recognition service.
// Register is strict: rejections and service failures are returned to the caller.
package verification

import (
	"context"

	"github.com/google/uuid"

	"github.com/saturnino-fabrica-de-software/bundyclock/internal/domain"
)

// Verifier is implemented by every face recognition backend
type Verifier interface {
	// Verify never fails; transport and protocol errors come back as an
	// unmatched outcome whose message starts with "service unavailable".
	Verify(ctx context.Context, image []byte) domain.VerificationOutcome

	// Register enrols a face for the employee. It returns
	// domain.ErrVerificationRejected when the service declines the image and
	// domain.ErrVerificationService when the call itself fails.
	Register(ctx context.Context, employeeID uuid.UUID, image []byte) (*domain.RegistrationOutcome, error)
}

// Unavailable builds the fail-open outcome for a verification call that could not complete
func Unavailable(cause error) domain.VerificationOutcome {
	return domain.VerificationOutcome{
		Matched: false,
		Message: "service unavailable: " + cause.Error(),
	}
}
