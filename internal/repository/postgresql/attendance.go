package postgresql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/domain/attendance"
	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/pkg/database"
)

const attendanceColumns = `a.id, a.company_id, a.employee_id, a.date, a.check_in, a.check_out, a.status,
	a.hours_worked, a.late_minutes, a.is_validated, a.notes, a.created_at, a.updated_at,
	e.employee_code, e.first_name || ' ' || e.last_name`

const attendanceFrom = `attendances a JOIN employees e ON e.id = a.employee_id`

const attendanceDayConstraint = "uq_attendances_employee_date"

type attendanceRepositoryImpl struct {
	db database.Querier
}

func NewAttendanceRepository(db database.Querier) attendance.AttendanceRepository {
	return &attendanceRepositoryImpl{db: db}
}

func scanAttendance(row rowScanner) (attendance.Attendance, error) {
	var (
		a                 attendance.Attendance
		checkIn, checkOut sql.NullTime
		status            string
		notes, code, name sql.NullString
	)
	if err := row.Scan(
		&a.ID, &a.CompanyID, &a.EmployeeID, &a.Date, &checkIn, &checkOut, &status,
		&a.HoursWorked, &a.LateMinutes, &a.IsValidated, &notes, &a.CreatedAt, &a.UpdatedAt,
		&code, &name,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, err
	}
	a.Date = dateOnly(a.Date)
	a.CheckIn = timePtr(checkIn)
	a.CheckOut = timePtr(checkOut)
	a.Status = attendance.Status(status)
	a.Notes = stringPtr(notes)
	a.EmployeeCode = stringPtr(code)
	a.EmployeeName = stringPtr(name)
	return a, nil
}

// Create implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) Create(ctx context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		WITH a AS (
			INSERT INTO attendances (
				id, company_id, employee_id, date, check_in, check_out, status,
				hours_worked, late_minutes, is_validated, notes
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			RETURNING *
		)
		SELECT ` + attendanceColumns + `
		FROM a JOIN employees e ON e.id = a.employee_id`

	created, err := scanAttendance(q.QueryRow(ctx, query,
		a.ID, a.CompanyID, a.EmployeeID, dateOnly(a.Date), a.CheckIn, a.CheckOut, string(a.Status),
		a.HoursWorked, a.LateMinutes, a.IsValidated, a.Notes,
	))
	if err != nil {
		if isUniqueViolation(err, attendanceDayConstraint) {
			return attendance.Attendance{}, attendance.ErrAlreadyRecorded
		}
		return attendance.Attendance{}, fmt.Errorf("failed to create attendance: %w", err)
	}
	return created, nil
}

// GetByID implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) GetByID(ctx context.Context, id string, companyID string) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + attendanceColumns + ` FROM ` + attendanceFrom + ` WHERE a.id = $1 AND a.company_id = $2`
	return scanAttendance(q.QueryRow(ctx, query, id, companyID))
}

// GetByEmployeeAndDate implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) GetByEmployeeAndDate(ctx context.Context, employeeID string, companyID string, date time.Time) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + attendanceColumns + ` FROM ` + attendanceFrom + `
		WHERE a.employee_id = $1 AND a.company_id = $2 AND a.date = $3`
	return scanAttendance(q.QueryRow(ctx, query, employeeID, companyID, dateOnly(date)))
}

// UpdateCheckOut implements attendance.AttendanceRepository. The open-record
// guard makes concurrent check-outs resolve to a single winner.
func (r *attendanceRepositoryImpl) UpdateCheckOut(ctx context.Context, id string, companyID string, checkOut time.Time, hoursWorked decimal.Decimal) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		WITH a AS (
			UPDATE attendances
			SET check_out = $1, hours_worked = $2, updated_at = NOW()
			WHERE id = $3 AND company_id = $4 AND check_out IS NULL
			RETURNING *
		)
		SELECT ` + attendanceColumns + `
		FROM a JOIN employees e ON e.id = a.employee_id`

	updated, err := scanAttendance(q.QueryRow(ctx, query, checkOut, hoursWorked, id, companyID))
	if errors.Is(err, attendance.ErrAttendanceNotFound) {
		return attendance.Attendance{}, attendance.ErrAlreadyCheckedOut
	}
	if err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to record check-out: %w", err)
	}
	return updated, nil
}

// MarkValidated implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) MarkValidated(ctx context.Context, id string, companyID string) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		WITH a AS (
			UPDATE attendances
			SET is_validated = TRUE, updated_at = NOW()
			WHERE id = $1 AND company_id = $2
			RETURNING *
		)
		SELECT ` + attendanceColumns + `
		FROM a JOIN employees e ON e.id = a.employee_id`

	return scanAttendance(q.QueryRow(ctx, query, id, companyID))
}

// List implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) List(ctx context.Context, filter attendance.AttendanceFilter, companyID string) ([]attendance.Attendance, int64, error) {
	q := GetQuerier(ctx, r.db)

	f := newFilter("a.company_id", companyID)
	f.addString("a.employee_id = $%d", filter.EmployeeID)
	f.addString("a.status = $%d", filter.Status)
	f.addString("a.date >= $%d", filter.From)
	f.addString("a.date <= $%d", filter.To)
	if filter.IsValidated != nil {
		f.add("a.is_validated = $%d", *filter.IsValidated)
	}
	where := f.where()

	var total int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM "+attendanceFrom+" WHERE "+where, f.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendances: %w", err)
	}

	order := orderBy(filter.SortBy, filter.SortOrder, map[string]string{
		"date":      "a.date",
		"checkIn":   "a.check_in",
		"status":    "a.status",
		"createdAt": "a.created_at",
	}, "a.date")
	limit, args := f.page(filter.Page, filter.Limit)

	rows, err := q.Query(ctx, fmt.Sprintf("SELECT %s FROM %s WHERE %s %s %s", attendanceColumns, attendanceFrom, where, order, limit), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list attendances: %w", err)
	}
	defer rows.Close()

	var records []attendance.Attendance
	for rows.Next() {
		a, err := scanAttendance(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan attendance: %w", err)
		}
		records = append(records, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

// SumValidatedHours implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) SumValidatedHours(ctx context.Context, companyID string, from, to time.Time) (map[string]decimal.Decimal, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT employee_id, COALESCE(SUM(hours_worked), 0)
		FROM attendances
		WHERE company_id = $1 AND is_validated = TRUE AND date BETWEEN $2 AND $3
		GROUP BY employee_id`, companyID, dateOnly(from), dateOnly(to))
	if err != nil {
		return nil, fmt.Errorf("failed to sum validated hours: %w", err)
	}
	defer rows.Close()

	hours := make(map[string]decimal.Decimal)
	for rows.Next() {
		var (
			employeeID string
			sum        decimal.Decimal
		)
		if err := rows.Scan(&employeeID, &sum); err != nil {
			return nil, fmt.Errorf("failed to scan validated hours: %w", err)
		}
		hours[employeeID] = sum
	}
	return hours, rows.Err()
}
