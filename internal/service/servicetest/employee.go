package servicetest

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/domain/attendance"
	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/domain/employee"
)

type EmployeeRepo struct{ *Store }

var _ employee.EmployeeRepository = EmployeeRepo{}

func (r EmployeeRepo) Create(ctx context.Context, e employee.Employee) (employee.Employee, error) {
	unlock, err := r.begin("Employee.Create")
	defer unlock()
	if err != nil {
		return employee.Employee{}, err
	}
	for _, existing := range r.Employees {
		if existing.CompanyID == e.CompanyID && existing.EmployeeCode == e.EmployeeCode {
			return employee.Employee{}, employee.ErrEmployeeCodeExists
		}
	}
	e.CreatedAt = r.Now()
	e.UpdatedAt = e.CreatedAt
	r.Employees[e.ID] = e
	r.wrote()
	return e, nil
}

func (r EmployeeRepo) GetByID(ctx context.Context, id string, companyID string) (employee.Employee, error) {
	unlock, err := r.begin("Employee.GetByID")
	defer unlock()
	if err != nil {
		return employee.Employee{}, err
	}
	e, ok := r.Employees[id]
	if !ok || e.CompanyID != companyID {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

func (r EmployeeRepo) GetActiveByCompanyID(ctx context.Context, companyID string) ([]employee.Employee, error) {
	unlock, err := r.begin("Employee.GetActiveByCompanyID")
	defer unlock()
	if err != nil {
		return nil, err
	}
	var out []employee.Employee
	for _, e := range r.Employees {
		if e.CompanyID == companyID && e.IsActive {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r EmployeeRepo) List(ctx context.Context, filter employee.EmployeeFilter, companyID string) ([]employee.Employee, int64, error) {
	unlock, err := r.begin("Employee.List")
	defer unlock()
	if err != nil {
		return nil, 0, err
	}
	var out []employee.Employee
	for _, e := range r.Employees {
		if e.CompanyID != companyID {
			continue
		}
		if filter.IsActive != nil && e.IsActive != *filter.IsActive {
			continue
		}
		if filter.ContractType != nil && string(e.ContractType) != *filter.ContractType {
			continue
		}
		if filter.Search != nil && !strings.Contains(strings.ToLower(e.FullName()+" "+e.EmployeeCode), strings.ToLower(*filter.Search)) {
			continue
		}
		out = append(out, e)
	}
	return out, int64(len(out)), nil
}

func (r EmployeeRepo) Update(ctx context.Context, id string, companyID string, req employee.UpdateEmployeeRequest) (employee.Employee, error) {
	unlock, err := r.begin("Employee.Update")
	defer unlock()
	if err != nil {
		return employee.Employee{}, err
	}
	e, ok := r.Employees[id]
	if !ok || e.CompanyID != companyID {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	if req.FirstName != nil {
		e.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		e.LastName = *req.LastName
	}
	if req.Email != nil {
		e.Email = req.Email
	}
	if req.Phone != nil {
		e.Phone = req.Phone
	}
	if req.Position != nil {
		e.Position = req.Position
	}
	if req.ContractType != nil {
		e.ContractType = *req.ContractType
	}
	if req.DailyRate != nil {
		e.DailyRate = req.DailyRate
	}
	if req.FixedSalary != nil {
		e.FixedSalary = req.FixedSalary
	}
	if req.HourlyRate != nil {
		e.HourlyRate = req.HourlyRate
	}
	if req.HireDate != nil {
		e.HireDate, _ = time.Parse(time.DateOnly, *req.HireDate)
	}
	e.UpdatedAt = r.Now()
	r.Employees[id] = e
	r.wrote()
	return e, nil
}

func (r EmployeeRepo) SetActive(ctx context.Context, id string, companyID string, active bool) (employee.Employee, error) {
	unlock, err := r.begin("Employee.SetActive")
	defer unlock()
	if err != nil {
		return employee.Employee{}, err
	}
	e, ok := r.Employees[id]
	if !ok || e.CompanyID != companyID {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	e.IsActive = active
	r.Employees[id] = e
	r.wrote()
	return e, nil
}

func (r EmployeeRepo) Delete(ctx context.Context, id string, companyID string) error {
	unlock, err := r.begin("Employee.Delete")
	defer unlock()
	if err != nil {
		return err
	}
	e, ok := r.Employees[id]
	if !ok || e.CompanyID != companyID {
		return employee.ErrEmployeeNotFound
	}
	delete(r.Employees, id)
	r.wrote()
	return nil
}

func (r EmployeeRepo) CountByCompanyID(ctx context.Context, companyID string) (int64, error) {
	unlock, err := r.begin("Employee.CountByCompanyID")
	defer unlock()
	if err != nil {
		return 0, err
	}
	var n int64
	for _, e := range r.Employees {
		if e.CompanyID == companyID {
			n++
		}
	}
	return n, nil
}

type AttendanceRepo struct{ *Store }

var _ attendance.AttendanceRepository = AttendanceRepo{}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func (r AttendanceRepo) Create(ctx context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	unlock, err := r.begin("Attendance.Create")
	defer unlock()
	if err != nil {
		return attendance.Attendance{}, err
	}
	for _, existing := range r.Attendances {
		if existing.EmployeeID == a.EmployeeID && sameDate(existing.Date, a.Date) {
			return attendance.Attendance{}, attendance.ErrAlreadyRecorded
		}
	}
	a.CreatedAt = r.Now()
	a.UpdatedAt = a.CreatedAt
	r.Attendances[a.ID] = a
	r.wrote()
	return a, nil
}

func (r AttendanceRepo) GetByID(ctx context.Context, id string, companyID string) (attendance.Attendance, error) {
	unlock, err := r.begin("Attendance.GetByID")
	defer unlock()
	if err != nil {
		return attendance.Attendance{}, err
	}
	a, ok := r.Attendances[id]
	if !ok || a.CompanyID != companyID {
		return attendance.Attendance{}, attendance.ErrAttendanceNotFound
	}
	return a, nil
}

func (r AttendanceRepo) GetByEmployeeAndDate(ctx context.Context, employeeID string, companyID string, date time.Time) (attendance.Attendance, error) {
	unlock, err := r.begin("Attendance.GetByEmployeeAndDate")
	defer unlock()
	if err != nil {
		return attendance.Attendance{}, err
	}
	for _, a := range r.Attendances {
		if a.EmployeeID == employeeID && a.CompanyID == companyID && sameDate(a.Date, date) {
			return a, nil
		}
	}
	return attendance.Attendance{}, attendance.ErrAttendanceNotFound
}

func (r AttendanceRepo) UpdateCheckOut(ctx context.Context, id string, companyID string, checkOut time.Time, hoursWorked decimal.Decimal) (attendance.Attendance, error) {
	unlock, err := r.begin("Attendance.UpdateCheckOut")
	defer unlock()
	if err != nil {
		return attendance.Attendance{}, err
	}
	a, ok := r.Attendances[id]
	if !ok || a.CompanyID != companyID {
		return attendance.Attendance{}, attendance.ErrAttendanceNotFound
	}
	a.CheckOut = &checkOut
	a.HoursWorked = hoursWorked
	a.UpdatedAt = r.Now()
	r.Attendances[id] = a
	r.wrote()
	return a, nil
}

func (r AttendanceRepo) MarkValidated(ctx context.Context, id string, companyID string) (attendance.Attendance, error) {
	unlock, err := r.begin("Attendance.MarkValidated")
	defer unlock()
	if err != nil {
		return attendance.Attendance{}, err
	}
	a, ok := r.Attendances[id]
	if !ok || a.CompanyID != companyID {
		return attendance.Attendance{}, attendance.ErrAttendanceNotFound
	}
	a.IsValidated = true
	r.Attendances[id] = a
	r.wrote()
	return a, nil
}

func (r AttendanceRepo) List(ctx context.Context, filter attendance.AttendanceFilter, companyID string) ([]attendance.Attendance, int64, error) {
	unlock, err := r.begin("Attendance.List")
	defer unlock()
	if err != nil {
		return nil, 0, err
	}
	var out []attendance.Attendance
	for _, a := range r.Attendances {
		if a.CompanyID != companyID {
			continue
		}
		if filter.EmployeeID != nil && a.EmployeeID != *filter.EmployeeID {
			continue
		}
		if filter.Status != nil && string(a.Status) != *filter.Status {
			continue
		}
		out = append(out, a)
	}
	return out, int64(len(out)), nil
}

func (r AttendanceRepo) SumValidatedHours(ctx context.Context, companyID string, from, to time.Time) (map[string]decimal.Decimal, error) {
	unlock, err := r.begin("Attendance.SumValidatedHours")
	defer unlock()
	if err != nil {
		return nil, err
	}
	sums := map[string]decimal.Decimal{}
	for _, a := range r.Attendances {
		if a.CompanyID != companyID || !a.IsValidated || a.Date.Before(from) || a.Date.After(to) {
			continue
		}
		sums[a.EmployeeID] = sums[a.EmployeeID].Add(a.HoursWorked)
	}
	return sums, nil
}
