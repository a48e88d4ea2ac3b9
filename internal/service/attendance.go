package service

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/saturnino-fabrica-de-software/bundyclock/internal/audit"
	"github.com/saturnino-fabrica-de-software/bundyclock/internal/domain"
	"github.com/saturnino-fabrica-de-software/bundyclock/internal/lock"
	"github.com/saturnino-fabrica-de-software/bundyclock/internal/verification"
)

// AttendanceService enforces the daily TIME_IN / TIME_OUT alternation.
//
// The clock state is never stored. It is derived from the latest ledger
// event inside the current local day, so a new day always starts at
// NOT_CLOCKED_IN. The read of that event and the append that follows run
// under a per-employee lock; verification runs before the lock is taken.
type AttendanceService struct {
	employees EmployeeLookup
	ledger    AttendanceLedger
	locker    lock.Locker
	verifier  verification.Verifier
	audit     audit.Logger
	publisher EventPublisher
	logger    *slog.Logger
	now       func() time.Time
	loc       *time.Location
	lockWait  time.Duration
	txLedger  func(tx pgx.Tx) AttendanceLedger
}

const defaultLockWait = 10 * time.Second

func NewAttendanceService(
	employees EmployeeLookup,
	ledger AttendanceLedger,
	locker lock.Locker,
	verifier verification.Verifier,
	logger *slog.Logger,
) *AttendanceService {
	return &AttendanceService{
		employees: employees,
		ledger:    ledger,
		locker:    locker,
		verifier:  verifier,
		audit:     &audit.NoOpLogger{},
		publisher: noopPublisher{},
		logger:    logger.With("component", "attendance"),
		now:       time.Now,
		loc:       time.Local,
		lockWait:  defaultLockWait,
	}
}

// WithClock replaces the time source used for timestamps and day boundaries
func (s *AttendanceService) WithClock(now func() time.Time) *AttendanceService {
	s.now = now
	return s
}

// WithLocation sets the zone whose midnight starts a new attendance day
func (s *AttendanceService) WithLocation(loc *time.Location) *AttendanceService {
	if loc != nil {
		s.loc = loc
	}
	return s
}

// WithLockWait bounds how long a clock request waits for the employee lock.
// Zero waits as long as the request context allows.
func (s *AttendanceService) WithLockWait(d time.Duration) *AttendanceService {
	s.lockWait = d
	return s
}

// WithTxLedger binds the ledger to the lock's transaction when the locker is
// a lock.TxLocker. The ledger read and append then run on the connection
// that holds the lock and commit together.
func (s *AttendanceService) WithTxLedger(bind func(tx pgx.Tx) AttendanceLedger) *AttendanceService {
	s.txLedger = bind
	return s
}

func (s *AttendanceService) WithAudit(logger audit.Logger) *AttendanceService {
	s.audit = logger
	return s
}

func (s *AttendanceService) WithPublisher(publisher EventPublisher) *AttendanceService {
	s.publisher = publisher
	return s
}

// RecordTimeIn is legal from NOT_CLOCKED_IN and CLOCKED_OUT
func (s *AttendanceService) RecordTimeIn(ctx context.Context, employeeID uuid.UUID, image []byte) (*domain.AttendanceEvent, error) {
	return s.record(ctx, employeeID, image, domain.EventTimeIn)
}

// RecordTimeOut is legal from CLOCKED_IN only
func (s *AttendanceService) RecordTimeOut(ctx context.Context, employeeID uuid.UUID, image []byte) (*domain.AttendanceEvent, error) {
	return s.record(ctx, employeeID, image, domain.EventTimeOut)
}

// CurrentState returns the derived state and the event it was derived from
func (s *AttendanceService) CurrentState(ctx context.Context, employeeID uuid.UUID) (domain.ClockState, *domain.AttendanceEvent, error) {
	if _, err := s.employees.GetByID(ctx, employeeID); err != nil {
		return "", nil, err
	}

	latest, err := s.ledger.LatestEventToday(ctx, employeeID, s.now().In(s.loc))
	if err != nil {
		return "", nil, err
	}

	return domain.StateFromLatest(latest), latest, nil
}

func (s *AttendanceService) ListAllEvents(ctx context.Context) ([]domain.AttendanceEvent, error) {
	return s.ledger.AllEvents(ctx)
}

// ListEventsForEmployee does not require the employee to still exist
func (s *AttendanceService) ListEventsForEmployee(ctx context.Context, employeeID uuid.UUID) ([]domain.AttendanceEvent, error) {
	return s.ledger.EventsFor(ctx, employeeID)
}

func (s *AttendanceService) record(ctx context.Context, employeeID uuid.UUID, image []byte, eventType domain.EventType) (*domain.AttendanceEvent, error) {
	if _, err := s.employees.GetByID(ctx, employeeID); err != nil {
		return nil, err
	}

	var outcome *domain.VerificationOutcome
	if len(image) > 0 {
		result := s.verifier.Verify(ctx, image)
		outcome = &result
	}

	stored, err := s.transition(ctx, employeeID, eventType, outcome)
	if err != nil {
		if domain.IsTransitionViolation(err) {
			s.logAudit(ctx, audit.Event{
				EventType:  audit.EventClockRejected,
				EmployeeID: employeeID,
				Success:    false,
				Error:      err.Error(),
				Metadata:   map[string]string{"requested": string(eventType)},
			})
		}
		return nil, err
	}

	s.logger.InfoContext(ctx, "attendance recorded",
		slog.String("employee_id", employeeID.String()),
		slog.String("type", string(stored.Type)),
		slog.Bool("verified", stored.Verified),
	)

	s.logAudit(ctx, auditEventFor(stored))
	s.publisher.PublishAttendance(stored)

	return stored, nil
}

// transition holds the employee lock across the ledger read and append
func (s *AttendanceService) transition(ctx context.Context, employeeID uuid.UUID, eventType domain.EventType, outcome *domain.VerificationOutcome) (*domain.AttendanceEvent, error) {
	key := lock.EmployeeKey(employeeID.String())

	if txLocker, ok := s.locker.(lock.TxLocker); ok && s.txLedger != nil {
		lockCtx, cancel := s.lockContext(ctx)
		tx, release, err := txLocker.LockTx(lockCtx, key)
		cancel()
		if err != nil {
			return nil, fmt.Errorf("employee %s: acquire clock lock: %w", employeeID, err)
		}
		defer release()

		stored, err := s.appendNext(ctx, s.txLedger(tx), employeeID, eventType, outcome)
		if err != nil {
			return nil, err
		}
		if err := tx.Commit(ctx); err != nil {
			return nil, fmt.Errorf("employee %s: commit clock transition: %w", employeeID, err)
		}
		return stored, nil
	}

	lockCtx, cancel := s.lockContext(ctx)
	release, err := s.locker.Lock(lockCtx, key)
	cancel()
	if err != nil {
		return nil, fmt.Errorf("employee %s: acquire clock lock: %w", employeeID, err)
	}
	defer release()

	return s.appendNext(ctx, s.ledger, employeeID, eventType, outcome)
}

// lockContext bounds the wait for the lock, not the work done under it
func (s *AttendanceService) lockContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.lockWait <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.lockWait)
}

func (s *AttendanceService) appendNext(ctx context.Context, ledger AttendanceLedger, employeeID uuid.UUID, eventType domain.EventType, outcome *domain.VerificationOutcome) (*domain.AttendanceEvent, error) {
	now := s.now().In(s.loc)

	latest, err := ledger.LatestEventToday(ctx, employeeID, now)
	if err != nil {
		return nil, err
	}

	if err := checkTransition(domain.StateFromLatest(latest), eventType); err != nil {
		return nil, err
	}

	event := &domain.AttendanceEvent{
		EmployeeID: employeeID,
		Timestamp:  now,
		Type:       eventType,
	}
	applyOutcome(event, outcome)

	return ledger.Append(ctx, event)
}

func checkTransition(state domain.ClockState, eventType domain.EventType) error {
	switch eventType {
	case domain.EventTimeIn:
		if state == domain.StateClockedIn {
			return domain.ErrAlreadyClockedIn
		}
	case domain.EventTimeOut:
		switch state {
		case domain.StateNotClockedIn:
			return domain.ErrNoOpenClockIn
		case domain.StateClockedOut:
			return domain.ErrAlreadyClockedOut
		}
	default:
		return domain.ErrValidationFailed.WithError(fmt.Errorf("unknown event type %q", eventType))
	}
	return nil
}

// applyOutcome folds a verification result into the event.
// A nil outcome means no image was supplied.
func applyOutcome(event *domain.AttendanceEvent, outcome *domain.VerificationOutcome) {
	if outcome == nil {
		return
	}

	event.ConfidenceScore = outcome.ConfidenceScore

	switch {
	case outcome.Confirms(event.EmployeeID):
		event.Verified = true
	case outcome.Matched:
		note := fmt.Sprintf("face matched a different employee (%s)", *outcome.EmployeeID)
		event.Notes = &note
	case outcome.Message != "":
		note := outcome.Message
		event.Notes = &note
	}
}

func auditEventFor(event *domain.AttendanceEvent) audit.Event {
	eventType := audit.EventTimeIn
	if event.Type == domain.EventTimeOut {
		eventType = audit.EventTimeOut
	}

	metadata := map[string]string{}
	if event.ConfidenceScore != nil {
		metadata["confidence_score"] = strconv.FormatFloat(*event.ConfidenceScore, 'f', 4, 64)
	}
	if event.Notes != nil {
		metadata["notes"] = *event.Notes
	}

	return audit.Event{
		Timestamp:  event.Timestamp.UTC(),
		EventType:  eventType,
		EmployeeID: event.EmployeeID,
		RecordID:   event.ID.String(),
		Verified:   event.Verified,
		Success:    true,
		Metadata:   metadata,
	}
}

func (s *AttendanceService) logAudit(ctx context.Context, event audit.Event) {
	recordAudit(ctx, s.audit, s.logger, event)
}

// recordAudit never fails the caller; the audited change already happened
func recordAudit(ctx context.Context, auditLogger audit.Logger, logger *slog.Logger, event audit.Event) {
	if err := auditLogger.Log(ctx, event); err != nil {
		logger.WarnContext(ctx, "audit log failed",
			slog.String("event_type", string(event.EventType)),
			slog.String("error", err.Error()),
		)
	}
}
