package company

import "errors"

var (
	ErrCompanyNotFound     = errors.New("company not found")
	ErrCompanyInactive     = errors.New("company is inactive")
	ErrCompanyHasEmployees = errors.New("company still has employees")
	ErrInvalidLogoFile     = errors.New("logo must be a PNG or JPEG image")
	ErrLogoTooLarge        = errors.New("logo exceeds the maximum size")
)
