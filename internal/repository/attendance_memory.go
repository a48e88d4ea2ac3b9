package repository

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/saturnino-fabrica-de-software/bundyclock/internal/domain"
)

// MemoryAttendanceRepository is an in-process attendance ledger.
// Slice order is append order.
type MemoryAttendanceRepository struct {
	mu     sync.RWMutex
	events []domain.AttendanceEvent
	seq    int64
}

func NewMemoryAttendanceRepository() *MemoryAttendanceRepository {
	return &MemoryAttendanceRepository{}
}

func (r *MemoryAttendanceRepository) LatestEventToday(ctx context.Context, employeeID uuid.UUID, asOf time.Time) (*domain.AttendanceEvent, error) {
	start, end := domain.DayWindow(asOf, asOf.Location())

	r.mu.RLock()
	defer r.mu.RUnlock()

	var latest *domain.AttendanceEvent
	for i := range r.events {
		e := &r.events[i]
		if e.EmployeeID != employeeID || e.Timestamp.Before(start) || !e.Timestamp.Before(end) {
			continue
		}
		// later slice positions win ties
		if latest == nil || !e.Timestamp.Before(latest.Timestamp) {
			latest = e
		}
	}

	if latest == nil {
		return nil, nil
	}
	out := *latest
	return &out, nil
}

func (r *MemoryAttendanceRepository) Append(ctx context.Context, event *domain.AttendanceEvent) (*domain.AttendanceEvent, error) {
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
	if stored.ConfidenceScore != nil {
		// same precision as the NUMERIC(5,4) column
		score := math.Round(*stored.ConfidenceScore*1e4) / 1e4
		stored.ConfidenceScore = &score
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	stored.Seq = r.seq
	r.events = append(r.events, stored)

	return &stored, nil
}

func (r *MemoryAttendanceRepository) AllEvents(ctx context.Context) ([]domain.AttendanceEvent, error) {
	return r.filter(func(domain.AttendanceEvent) bool { return true }), nil
}

func (r *MemoryAttendanceRepository) EventsFor(ctx context.Context, employeeID uuid.UUID) ([]domain.AttendanceEvent, error) {
	return r.filter(func(e domain.AttendanceEvent) bool { return e.EmployeeID == employeeID }), nil
}

// filter copies matching events ordered by timestamp desc, then seq desc
func (r *MemoryAttendanceRepository) filter(keep func(domain.AttendanceEvent) bool) []domain.AttendanceEvent {
	r.mu.RLock()
	out := make([]domain.AttendanceEvent, 0, len(r.events))
	for _, e := range r.events {
		if keep(e) {
			out = append(out, e)
		}
	}
	r.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].Timestamp.After(out[j].Timestamp)
		}
		return out[i].Seq > out[j].Seq
	})
	return out
}
