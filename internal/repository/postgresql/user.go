package postgresql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/domain/user"
	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/pkg/database"
)

const userColumns = `id, company_id, email, password_hash, first_name, last_name, role, is_active, created_at, updated_at`

type userRepositoryImpl struct {
	db database.Querier
}

func NewUserRepository(db database.Querier) user.UserRepository {
	return &userRepositoryImpl{db: db}
}

func scanUser(row rowScanner) (user.User, error) {
	var (
		u         user.User
		companyID sql.NullString
		role      string
	)
	if err := row.Scan(&u.ID, &companyID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName, &role, &u.IsActive, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrUserNotFound
		}
		return user.User{}, err
	}
	u.CompanyID = stringPtr(companyID)
	u.Role = user.Role(role)
	return u, nil
}

// Create implements user.UserRepository.
func (u *userRepositoryImpl) Create(ctx context.Context, newUser user.User) (user.User, error) {
	q := GetQuerier(ctx, u.db)

	query := `
		INSERT INTO users (id, company_id, email, password_hash, first_name, last_name, role, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + userColumns

	created, err := scanUser(q.QueryRow(ctx, query,
		newUser.ID, newUser.CompanyID, newUser.Email, newUser.PasswordHash,
		newUser.FirstName, newUser.LastName, string(newUser.Role), newUser.IsActive,
	))
	if err != nil {
		if isUniqueViolation(err, "") {
			return user.User{}, user.ErrUserEmailExists
		}
		return user.User{}, fmt.Errorf("failed to create user: %w", err)
	}
	return created, nil
}

// GetByEmail implements user.UserRepository.
func (u *userRepositoryImpl) GetByEmail(ctx context.Context, email string) (user.User, error) {
	q := GetQuerier(ctx, u.db)
	return scanUser(q.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
}

// GetByID implements user.UserRepository.
func (u *userRepositoryImpl) GetByID(ctx context.Context, id string) (user.User, error) {
	q := GetQuerier(ctx, u.db)
	return scanUser(q.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

// ListByCompany implements user.UserRepository.
func (u *userRepositoryImpl) ListByCompany(ctx context.Context, companyID string) ([]user.User, error) {
	q := GetQuerier(ctx, u.db)

	rows, err := q.Query(ctx, `SELECT `+userColumns+` FROM users WHERE company_id = $1 ORDER BY created_at`, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []user.User
	for rows.Next() {
		found, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, found)
	}
	return users, rows.Err()
}
