package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/saturnino-fabrica-de-software/bundyclock/internal/domain"
)

// AttendanceRepository is the PostgreSQL attendance ledger.
// Rows are only ever inserted; seq records append order for timestamp ties.
type AttendanceRepository struct {
	pool PgxPool
}

func NewAttendanceRepository(pool PgxPool) *AttendanceRepository {
	return &AttendanceRepository{pool: pool}
}

const attendanceColumns = `id, employee_id, timestamp, type, verified, confidence_score, notes, seq`

// LatestEventToday returns the most recent event inside the local day that
// contains asOf, using asOf's own location for the day boundary. It returns
// nil when the employee has no event that day.
func (r *AttendanceRepository) LatestEventToday(ctx context.Context, employeeID uuid.UUID, asOf time.Time) (*domain.AttendanceEvent, error) {
	start, end := domain.DayWindow(asOf, asOf.Location())

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendance_events
		WHERE employee_id = $1 AND timestamp >= $2 AND timestamp < $3
		ORDER BY timestamp DESC, seq DESC
		LIMIT 1
	`

	event, err := scanEvent(r.pool.QueryRow(ctx, query, employeeID, start, end))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("latest attendance event: %w", err)
	}

	return event, nil
}

// Append inserts the event, assigning id and timestamp when they are zero.
// The returned confidence score is the stored (rounded) value.
func (r *AttendanceRepository) Append(ctx context.Context, event *domain.AttendanceEvent) (*domain.AttendanceEvent, error) {
	if !event.Type.Valid() {
		return nil, domain.ErrValidationFailed.WithError(fmt.Errorf("unknown event type %q", event.Type))
	}

	stored := *event
	if stored.ID == uuid.Nil {
		stored.ID = uuid.New()
	}
	if stored.Timestamp.IsZero() {
		stored.Timestamp = time.Now()
	}

	query := `
		INSERT INTO attendance_events (id, employee_id, timestamp, type, verified, confidence_score, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING seq, confidence_score
	`

	err := r.pool.QueryRow(ctx, query,
		stored.ID,
		stored.EmployeeID,
		stored.Timestamp,
		string(stored.Type),
		stored.Verified,
		stored.ConfidenceScore,
		stored.Notes,
	).Scan(&stored.Seq, &stored.ConfidenceScore)
	if err != nil {
		return nil, fmt.Errorf("append attendance event: %w", err)
	}

	return &stored, nil
}

// AllEvents returns the whole ledger, newest first
func (r *AttendanceRepository) AllEvents(ctx context.Context) ([]domain.AttendanceEvent, error) {
	query := `
		SELECT ` + attendanceColumns + `
		FROM attendance_events
		ORDER BY timestamp DESC, seq DESC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list attendance events: %w", err)
	}

	return collectEvents(rows)
}

// EventsFor returns one employee's events, newest first
func (r *AttendanceRepository) EventsFor(ctx context.Context, employeeID uuid.UUID) ([]domain.AttendanceEvent, error) {
	query := `
		SELECT ` + attendanceColumns + `
		FROM attendance_events
		WHERE employee_id = $1
		ORDER BY timestamp DESC, seq DESC
	`

	rows, err := r.pool.Query(ctx, query, employeeID)
	if err != nil {
		return nil, fmt.Errorf("list attendance events for employee: %w", err)
	}

	return collectEvents(rows)
}

func scanEvent(row pgx.Row) (*domain.AttendanceEvent, error) {
	var (
		event     domain.AttendanceEvent
		eventType string
	)

	err := row.Scan(
		&event.ID,
		&event.EmployeeID,
		&event.Timestamp,
		&eventType,
		&event.Verified,
		&event.ConfidenceScore,
		&event.Notes,
		&event.Seq,
	)
	if err != nil {
		return nil, err
	}

	event.Type = domain.EventType(eventType)
	return &event, nil
}

func collectEvents(rows pgx.Rows) ([]domain.AttendanceEvent, error) {
	defer rows.Close()

	events := make([]domain.AttendanceEvent, 0)
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan attendance event: %w", err)
		}
		events = append(events, *event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return events, nil
}
