// Package lock serializes clock transitions per employee.
//
// A Locker hands out mutual exclusion keyed by an arbitrary string. Operations
// on different keys never wait on each other. The in-process KeyedMutex covers
// a single replica; RedisLocker and PostgresLocker extend the guarantee across
// replicas sharing the same backend.
package lock

import (
	"context"
	"errors"
)

// ErrNotAcquired is returned when the lock could not be taken before ctx ended
var ErrNotAcquired = errors.New("lock not acquired")

// Release gives the lock back. It is safe to call more than once.
type Release func()

// Locker is implemented by every lock backend
type Locker interface {
	Lock(ctx context.Context, key string) (Release, error)
}

// EmployeeKey is the lock key for an employee's clock transitions
func EmployeeKey(employeeID string) string {
	return "bundyclock:clock:" + employeeID
}
