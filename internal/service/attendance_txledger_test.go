package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saturnino-fabrica-de-software/bundyclock/internal/domain"
	"github.com/saturnino-fabrica-de-software/bundyclock/internal/lock"
	"github.com/saturnino-fabrica-de-software/bundyclock/internal/repository"
)

// newTxLedgerService wires the Postgres locker to a mocked pool. The pool
// ledger always fails, so any ledger call that escapes the lock transaction
// shows up as an error.
func newTxLedgerService(t *testing.T) (*AttendanceService, pgxmock.PgxPoolIface, *domain.Employee) {
	t.Helper()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	employees := repository.NewMemoryEmployeeRepository()
	employee := &domain.Employee{Name: "Maria Santos", EmployeeCode: "E7"}
	require.NoError(t, employees.Create(context.Background(), employee))

	poolLedger := failingLedger{
		MemoryAttendanceRepository: repository.NewMemoryAttendanceRepository(),
		err:                        errors.New("pool ledger used outside the lock transaction"),
	}

	svc := NewAttendanceService(employees, poolLedger, lock.NewPostgresLocker(mock, testLogger()), &MockVerifier{}, testLogger()).
		WithClock(func() time.Time { return time.Date(2024, 3, 4, 8, 0, 0, 0, manila) }).
		WithLocation(manila).
		WithTxLedger(func(tx pgx.Tx) AttendanceLedger { return repository.NewAttendanceRepository(tx) })

	return svc, mock, employee
}

func TestAttendanceService_TxLedger_CommitsOnLockTransaction(t *testing.T) {
	svc, mock, employee := newTxLedgerService(t)

	mock.ExpectBegin()
	mock.ExpectExec(`SELECT pg_advisory_xact_lock`).
		WithArgs(lock.EmployeeKey(employee.ID.String())).
		WillReturnResult(pgxmock.NewResult("SELECT", 1))
	mock.ExpectQuery(`FROM attendance_events`).
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectQuery(`INSERT INTO attendance_events`).
		WillReturnRows(pgxmock.NewRows([]string{"seq", "confidence_score"}).AddRow(int64(1), (*float64)(nil)))
	mock.ExpectCommit()
	mock.ExpectRollback().WillReturnError(pgx.ErrTxClosed)

	event, err := svc.RecordTimeIn(context.Background(), employee.ID, nil)

	require.NoError(t, err)
	assert.Equal(t, domain.EventTimeIn, event.Type)
	assert.Equal(t, int64(1), event.Seq)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceService_TxLedger_RejectedTransitionRollsBack(t *testing.T) {
	svc, mock, employee := newTxLedgerService(t)

	mock.ExpectBegin()
	mock.ExpectExec(`SELECT pg_advisory_xact_lock`).
		WithArgs(lock.EmployeeKey(employee.ID.String())).
		WillReturnResult(pgxmock.NewResult("SELECT", 1))
	mock.ExpectQuery(`FROM attendance_events`).
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectRollback()

	_, err := svc.RecordTimeOut(context.Background(), employee.ID, nil)

	assert.ErrorIs(t, err, domain.ErrNoOpenClockIn)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceService_TxLedger_CommitFailure(t *testing.T) {
	svc, mock, employee := newTxLedgerService(t)

	mock.ExpectBegin()
	mock.ExpectExec(`SELECT pg_advisory_xact_lock`).
		WillReturnResult(pgxmock.NewResult("SELECT", 1))
	mock.ExpectQuery(`FROM attendance_events`).
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectQuery(`INSERT INTO attendance_events`).
		WillReturnRows(pgxmock.NewRows([]string{"seq", "confidence_score"}).AddRow(int64(1), (*float64)(nil)))
	mock.ExpectCommit().WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback().WillReturnError(pgx.ErrTxClosed)

	event, err := svc.RecordTimeIn(context.Background(), employee.ID, nil)

	require.Error(t, err)
	assert.Nil(t, event)
	assert.Contains(t, err.Error(), "commit clock transition")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceService_LockWaitBoundsAcquisition(t *testing.T) {
	f := newAttendanceFixture(t)
	locker := lock.NewKeyedMutex()
	f.svc.locker = locker
	f.svc.WithLockWait(20 * time.Millisecond)

	release, err := locker.Lock(context.Background(), lock.EmployeeKey(f.employee.ID.String()))
	require.NoError(t, err)
	defer release()

	start := time.Now()
	_, err = f.svc.RecordTimeIn(context.Background(), f.employee.ID, nil)

	assert.ErrorIs(t, err, lock.ErrNotAcquired)
	assert.Less(t, time.Since(start), 2*time.Second)

	all, _ := f.ledger.AllEvents(context.Background())
	assert.Empty(t, all)
}
