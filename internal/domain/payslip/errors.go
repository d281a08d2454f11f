package payslip

import "errors"

var (
	ErrPayslipNotFound     = errors.New("payslip not found")
	ErrMissingRate         = errors.New("employee has no rate configured for its contract type")
	ErrNotPayable          = errors.New("payslip is not payable until its pay run is approved")
	ErrPayRunClosed        = errors.New("pay run is closed")
	ErrInvalidStatusChange = errors.New("payslip status change is not allowed")
	ErrPayslipNumberExists = errors.New("payslip number already exists")
)
