package payment

import "errors"

var (
	ErrPaymentNotFound = errors.New("payment not found")
	ErrOverpayment     = errors.New("payment exceeds the remaining amount of the payslip")
)
