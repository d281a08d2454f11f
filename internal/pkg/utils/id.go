package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewID returns a time-ordered UUIDv7 string.
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// NewPayslipNumber builds "PS-YYYYMM-<32 hex>" from the pay period start
// and a full UUIDv7. Numbers are unique across all companies.
func NewPayslipNumber(periodStart time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(NewID(), "-", ""))
	return fmt.Sprintf("PS-%s-%s", periodStart.Format("200601"), suffix)
}
