package postgresql

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterBuilder(t *testing.T) {
	status := "PAID"
	empty := ""

	f := newFilter("p.company_id", "c-1")
	f.addString("p.status = $%d", &status)
	f.addString("p.employee_id = $%d", &empty)
	f.addString("p.pay_run_id = $%d", nil)

	// Act
	where := f.where()
	limit, args := f.page(3, 500)

	// Assert
	assert.Equal(t, "p.company_id = $1 AND p.status = $2", where)
	assert.Equal(t, "LIMIT $3 OFFSET $4", limit)
	assert.Equal(t, []any{"c-1", "PAID", maxPageSize, 2 * maxPageSize}, args)
	assert.Len(t, f.args, 2, "page must not grow the filter arguments")
}

func TestFilterBuilder_Empty(t *testing.T) {
	f := &filterBuilder{}

	// Act
	limit, args := f.page(0, 0)

	// Assert
	assert.Equal(t, "TRUE", f.where())
	assert.Equal(t, "LIMIT $1 OFFSET $2", limit)
	assert.Equal(t, []any{defaultPageSize, 0}, args)
}

func TestOrderBy(t *testing.T) {
	columns := map[string]string{"name": "name"}

	assert.Equal(t, "ORDER BY name ASC", orderBy("name", "ASC", columns, "created_at"))
	assert.Equal(t, "ORDER BY created_at DESC", orderBy("name; DROP TABLE users", "asc", columns, "created_at"))
	assert.Equal(t, "ORDER BY name DESC", orderBy("name", "sideways", columns, "created_at"))
}
