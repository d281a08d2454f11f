package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/domain/attendance"
	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/domain/auth"
	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/domain/company"
	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/domain/employee"
	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/domain/payment"
	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/domain/payrun"
	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/domain/payslip"
	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/domain/user"
	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/pkg/database"
	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/pkg/validator"
)

type errorMapping struct {
	err    error
	status int
	code   string
}

// errorMappings is checked in order with errors.Is; the wrapped message is
// returned to the client.
var errorMappings = []errorMapping{
	// Auth
	{auth.ErrInvalidCredentials, http.StatusUnauthorized, "UNAUTHORIZED"},
	{auth.ErrAccountDisabled, http.StatusUnauthorized, "UNAUTHORIZED"},
	{auth.ErrCompanyDisabled, http.StatusUnauthorized, "UNAUTHORIZED"},
	{auth.ErrInvalidToken, http.StatusUnauthorized, "UNAUTHORIZED"},
	{user.ErrCompanyAccessDenied, http.StatusForbidden, "FORBIDDEN"},
	{user.ErrRoleNotAssignable, http.StatusForbidden, "FORBIDDEN"},
	{user.ErrInsufficientPermissions, http.StatusForbidden, "FORBIDDEN"},
	{user.ErrCompanyIDRequired, http.StatusForbidden, "FORBIDDEN"},

	// Not found
	{user.ErrUserNotFound, http.StatusNotFound, "NOT_FOUND"},
	{company.ErrCompanyNotFound, http.StatusNotFound, "NOT_FOUND"},
	{employee.ErrEmployeeNotFound, http.StatusNotFound, "NOT_FOUND"},
	{attendance.ErrAttendanceNotFound, http.StatusNotFound, "NOT_FOUND"},
	{payrun.ErrPayRunNotFound, http.StatusNotFound, "NOT_FOUND"},
	{payslip.ErrPayslipNotFound, http.StatusNotFound, "NOT_FOUND"},
	{payment.ErrPaymentNotFound, http.StatusNotFound, "NOT_FOUND"},

	// Conflicts
	{employee.ErrEmployeeCodeExists, http.StatusConflict, "EMPLOYEE_CODE_EXISTS"},
	{employee.ErrEmployeeHasRecords, http.StatusConflict, "CONFLICT"},
	{user.ErrUserEmailExists, http.StatusConflict, "EMAIL_EXISTS"},
	{company.ErrCompanyHasEmployees, http.StatusConflict, "COMPANY_HAS_EMPLOYEES"},
	{attendance.ErrAlreadyRecorded, http.StatusConflict, "ALREADY_CHECKED_IN"},
	{payslip.ErrPayslipNumberExists, http.StatusConflict, "CONFLICT"},

	// Business rules
	{payslip.ErrMissingRate, http.StatusUnprocessableEntity, "MISSING_RATE"},
	{payment.ErrOverpayment, http.StatusUnprocessableEntity, "OVERPAYMENT"},
	{attendance.ErrNonWorkingDay, http.StatusUnprocessableEntity, "NON_WORKING_DAY"},
	{payrun.ErrInvalidTransition, http.StatusUnprocessableEntity, "INVALID_STATE"},
	{payrun.ErrOnlyDraftDeletable, http.StatusUnprocessableEntity, "INVALID_STATE"},
	{payslip.ErrNotPayable, http.StatusUnprocessableEntity, "INVALID_STATE"},
	{payslip.ErrPayRunClosed, http.StatusUnprocessableEntity, "INVALID_STATE"},
	{payslip.ErrInvalidStatusChange, http.StatusUnprocessableEntity, "INVALID_STATE"},
	{payrun.ErrNoActiveEmployees, http.StatusUnprocessableEntity, "INVALID_STATE"},
	{company.ErrCompanyInactive, http.StatusUnprocessableEntity, "INVALID_STATE"},
	{employee.ErrEmployeeInactive, http.StatusUnprocessableEntity, "INVALID_STATE"},
	{attendance.ErrNotCheckedIn, http.StatusUnprocessableEntity, "INVALID_STATE"},
	{attendance.ErrAlreadyCheckedOut, http.StatusUnprocessableEntity, "INVALID_STATE"},
	{attendance.ErrCheckOutBeforeIn, http.StatusUnprocessableEntity, "INVALID_STATE"},

	// Input
	{payrun.ErrInvalidPeriod, http.StatusBadRequest, "VALIDATION_ERROR"},
	{company.ErrInvalidLogoFile, http.StatusBadRequest, "BAD_REQUEST"},
	{company.ErrLogoTooLarge, http.StatusBadRequest, "BAD_REQUEST"},

	{database.ErrTxTimeout, http.StatusServiceUnavailable, "TIMEOUT"},
}

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	for _, m := range errorMappings {
		if errors.Is(err, m.err) {
			Fail(w, m.status, m.code, err.Error(), nil)
			return
		}
	}

	slog.Error("Unhandled error", "error", err)
	InternalServerError(w, "An unexpected error occurred")
}
