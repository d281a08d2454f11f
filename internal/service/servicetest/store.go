// Package servicetest provides in-memory repositories and a transactor for
// service tests. A failed transaction restores the store to its state at
// the start of the transaction.
package servicetest

import (
	"context"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/domain/attendance"
	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/domain/company"
	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/domain/employee"
	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/domain/payment"
	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/domain/payrun"
	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/domain/payslip"
	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/domain/schedule"
	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/domain/user"
)

type tables struct {
	Companies   map[string]company.Company
	Users       map[string]user.User
	Employees   map[string]employee.Employee
	Schedules   map[string][]schedule.WorkScheduleDay
	Attendances map[string]attendance.Attendance
	PayRuns     map[string]payrun.PayRun
	Payslips    map[string]payslip.Payslip
	Deductions  []payslip.Deduction
	Payments    map[string]payment.Payment
}

func (t tables) clone() tables {
	schedules := make(map[string][]schedule.WorkScheduleDay, len(t.Schedules))
	for k, v := range t.Schedules {
		schedules[k] = slices.Clone(v)
	}
	return tables{
		Companies:   maps.Clone(t.Companies),
		Users:       maps.Clone(t.Users),
		Employees:   maps.Clone(t.Employees),
		Schedules:   schedules,
		Attendances: maps.Clone(t.Attendances),
		PayRuns:     maps.Clone(t.PayRuns),
		Payslips:    maps.Clone(t.Payslips),
		Deductions:  slices.Clone(t.Deductions),
		Payments:    maps.Clone(t.Payments),
	}
}

// Store is the shared state behind every fake repository.
type Store struct {
	mu   sync.Mutex
	txMu sync.Mutex
	tables

	// Writes counts successful mutating repository calls.
	Writes int
	// Transactions counts WithTransaction calls that were not nested.
	Transactions int
	// Fail makes the named repository method return the error.
	Fail map[string]error
	// Now is used for timestamps.
	Now func() time.Time
}

func NewStore() *Store {
	return &Store{
		tables: tables{
			Companies:   map[string]company.Company{},
			Users:       map[string]user.User{},
			Employees:   map[string]employee.Employee{},
			Schedules:   map[string][]schedule.WorkScheduleDay{},
			Attendances: map[string]attendance.Attendance{},
			PayRuns:     map[string]payrun.PayRun{},
			Payslips:    map[string]payslip.Payslip{},
			Payments:    map[string]payment.Payment{},
		},
		Fail: map[string]error{},
		Now:  func() time.Time { return time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC) },
	}
}

type txKey struct{}

// WithTransaction serialises transactions, which stands in for row locks,
// and rolls the store back when fn fails.
func (s *Store) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	snapshot := s.tables.clone()
	writes := s.Writes
	s.Transactions++
	s.mu.Unlock()

	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		s.mu.Lock()
		s.tables = snapshot
		s.Writes = writes
		s.mu.Unlock()
		return err
	}
	return nil
}

// begin takes the store mutex and returns the injected failure for method.
// The returned func releases the mutex.
func (s *Store) begin(method string) (func(), error) {
	s.mu.Lock()
	return s.mu.Unlock, s.Fail[method]
}

func (s *Store) wrote() {
	s.Writes++
}

// Snapshot helpers used by assertions.

func (s *Store) PayslipsOfRun(payRunID string) []payslip.Payslip {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []payslip.Payslip
	for _, p := range s.Payslips {
		if p.PayRunID == payRunID {
			out = append(out, p)
		}
	}
	return out
}

func (s *Store) Counts() (payRuns, payslips, deductions, payments int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.PayRuns), len(s.Payslips), len(s.Deductions), len(s.Payments)
}

func (s *Store) Payslip(id string) payslip.Payslip {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Payslips[id]
}

func (s *Store) PayRun(id string) payrun.PayRun {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.PayRuns[id]
}

func (s *Store) WriteCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Writes
}
