package employee

import "errors"

var (
	ErrEmployeeNotFound   = errors.New("employee not found")
	ErrEmployeeCodeExists = errors.New("employee code already exists")
	ErrEmployeeInactive   = errors.New("employee is inactive")
	ErrEmployeeHasRecords = errors.New("employee has attendance or payslip records")
)
