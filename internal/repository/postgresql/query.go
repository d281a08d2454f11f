package postgresql

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// rowScanner is satisfied by pgx.Row and pgx.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// filterBuilder accumulates WHERE clauses with numbered placeholders.
type filterBuilder struct {
	clauses []string
	args    []any
}

// newFilter starts a WHERE clause scoped to a company. column is the
// qualified company_id column.
func newFilter(column, companyID string) *filterBuilder {
	f := &filterBuilder{}
	f.add(column+" = $%d", companyID)
	return f
}

// add appends clause, replacing every %d with the next placeholder index.
func (f *filterBuilder) add(clause string, arg any) {
	f.args = append(f.args, arg)
	idx := len(f.args)
	f.clauses = append(f.clauses, strings.ReplaceAll(clause, "%d", fmt.Sprint(idx)))
}

func (f *filterBuilder) addString(clause string, value *string) {
	if value != nil && *value != "" {
		f.add(clause, *value)
	}
}

func (f *filterBuilder) where() string {
	if len(f.clauses) == 0 {
		return "TRUE"
	}
	return strings.Join(f.clauses, " AND ")
}

// page appends LIMIT and OFFSET placeholders and returns the clause with
// the full argument list.
func (f *filterBuilder) page(page, limit int) (string, []any) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if page < 1 {
		page = 1
	}
	n := len(f.args)
	args := append(append([]any{}, f.args...), limit, (page-1)*limit)
	return fmt.Sprintf("LIMIT $%d OFFSET $%d", n+1, n+2), args
}

// orderBy maps a client sort key to a whitelisted column.
func orderBy(sortBy, sortOrder string, columns map[string]string, fallback string) string {
	column, ok := columns[sortBy]
	if !ok {
		column = fallback
	}
	direction := "DESC"
	if strings.EqualFold(sortOrder, "asc") {
		direction = "ASC"
	}
	return fmt.Sprintf("ORDER BY %s %s", column, direction)
}

func stringPtr(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

func decimalPtr(d decimal.NullDecimal) *decimal.Decimal {
	if !d.Valid {
		return nil
	}
	v := d.Decimal
	return &v
}

func intPtr(i sql.NullInt32) *int {
	if !i.Valid {
		return nil
	}
	v := int(i.Int32)
	return &v
}

// dateOnly drops the clock and location of a DATE column value.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func joinComma(parts []string) string {
	return strings.Join(parts, ", ")
}
