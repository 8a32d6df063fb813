// Package memory is a process-local record store. It mirrors the constraints
// of the Postgres schema so that the services behave the same on either
// backend.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/cmlabs-hris/hris-lite-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-lite-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-lite-go/internal/pkg/database"
)

type attendanceKey struct {
	employeeID string
	date       string
}

type storedEmployee struct {
	employee.Employee
	seq uint64
}

type storedAttendance struct {
	attendance.Attendance
	seq uint64
}

// Store holds employees and attendance records in memory.
type Store struct {
	mu         sync.RWMutex
	employees  map[string]storedEmployee
	attendance map[attendanceKey]storedAttendance
	seq        uint64

	txMu sync.Mutex
	now  func() time.Time
}

func NewStore() *Store {
	return &Store{
		employees:  make(map[string]storedEmployee),
		attendance: make(map[attendanceKey]storedAttendance),
		now:        time.Now,
	}
}

func (s *Store) nextSeq() uint64 {
	s.seq++
	return s.seq
}

type txKey struct{}

type transactor struct {
	store *Store
}

// NewTransactor serializes transactional units of work against the store.
func NewTransactor(s *Store) database.Transactor {
	return &transactor{store: s}
}

// WithinTx implements database.Transactor.
func (t *transactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}
	t.store.txMu.Lock()
	defer t.store.txMu.Unlock()
	return fn(context.WithValue(ctx, txKey{}, t.store))
}

// lockWrite holds txMu for a write made outside a transaction so that it
// cannot land between the statements of one. The returned func releases it.
func (s *Store) lockWrite(ctx context.Context) func() {
	if ctx.Value(txKey{}) != nil {
		return func() {}
	}
	s.txMu.Lock()
	return s.txMu.Unlock
}
