package postgresql

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/domain/user"
)

func userRows(mock pgxmock.PgxPoolIface) *pgxmock.Rows {
	return mock.NewRows([]string{"id", "company_id", "email", "password_hash", "first_name", "last_name", "role", "is_active", "created_at", "updated_at"})
}

func TestUserRepository_Create_DuplicateEmail(t *testing.T) {
	mock := newMockPool(t)
	repo := NewUserRepository(mock)
	companyID := testCompanyID

	mock.ExpectQuery("INSERT INTO users").
		WithArgs(pgxmock.AnyArg(), &companyID, "admin@acme.sn", "hash", "Awa", "Diop", "ADMIN", true).
		WillReturnError(&pgconn.PgError{Code: uniqueViolationCode, ConstraintName: "users_email_key"})

	// Act
	_, err := repo.Create(context.Background(), user.User{
		ID: "u-1", CompanyID: &companyID, Email: "admin@acme.sn", PasswordHash: "hash",
		FirstName: "Awa", LastName: "Diop", Role: user.RoleAdmin, IsActive: true,
	})

	// Assert
	assert.ErrorIs(t, err, user.ErrUserEmailExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_GetByEmail(t *testing.T) {
	mock := newMockPool(t)
	repo := NewUserRepository(mock)

	mock.ExpectQuery("FROM users WHERE email").
		WithArgs("root@platform.io").
		WillReturnRows(userRows(mock).AddRow("u-root", nil, "root@platform.io", "hash", "Super", "Admin", "SUPER_ADMIN", true, fixedNow, fixedNow))

	// Act
	got, err := repo.GetByEmail(context.Background(), "root@platform.io")

	// Assert
	require.NoError(t, err)
	assert.Nil(t, got.CompanyID)
	assert.Equal(t, user.RoleSuperAdmin, got.Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_GetByID_NotFound(t *testing.T) {
	mock := newMockPool(t)
	repo := NewUserRepository(mock)

	mock.ExpectQuery("FROM users WHERE id").WithArgs("missing").WillReturnError(pgx.ErrNoRows)

	// Act
	_, err := repo.GetByID(context.Background(), "missing")

	// Assert
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}

func TestUserRepository_ListByCompany(t *testing.T) {
	mock := newMockPool(t)
	repo := NewUserRepository(mock)

	mock.ExpectQuery("FROM users WHERE company_id").
		WithArgs(testCompanyID).
		WillReturnRows(userRows(mock).
			AddRow("u-1", testCompanyID, "admin@acme.sn", "hash", "Awa", "Diop", "ADMIN", true, fixedNow, fixedNow).
			AddRow("u-2", testCompanyID, "cash@acme.sn", "hash", "Moussa", "Fall", "CASHIER", true, fixedNow, fixedNow))

	// Act
	users, err := repo.ListByCompany(context.Background(), testCompanyID)

	// Assert
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, user.RoleCashier, users[1].Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}
