package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/domain/company"
	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/domain/user"
	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/pkg/validator"
	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/service/servicetest"
	"golang.org/x/crypto/bcrypt"
)

func strPtr(s string) *string { return &s }

var (
	superAdmin = user.Actor{ID: "u-root", Role: user.RoleSuperAdmin}
	admin      = user.Actor{ID: "u-admin", Role: user.RoleAdmin, CompanyID: strPtr("c-1")}
	cashier    = user.Actor{ID: "u-cash", Role: user.RoleCashier, CompanyID: strPtr("c-1")}
)

func newUserService() (*servicetest.Store, *UserServiceImpl) {
	store := servicetest.NewStore()
	store.Companies["c-1"] = company.Company{ID: "c-1", Name: "Acme", IsActive: true}
	store.Companies["c-2"] = company.Company{ID: "c-2", Name: "Globex", IsActive: true}
	svc := NewUserService(servicetest.UserRepo{Store: store}, servicetest.CompanyRepo{Store: store}).(*UserServiceImpl)
	svc.cost = bcrypt.MinCost
	return store, svc
}

func validRequest(role user.Role) user.CreateUserRequest {
	return user.CreateUserRequest{
		Email:     " Cashier@Acme.test",
		Password:  "s3cret-pass",
		FirstName: "Awa",
		LastName:  "Diop",
		Role:      role,
	}
}

func TestUserService_Create(t *testing.T) {
	store, svc := newUserService()

	// Act
	created, err := svc.Create(context.Background(), admin, "c-1", validRequest(user.RoleCashier))

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "cashier@acme.test", created.Email)
	assert.Equal(t, user.RoleCashier, created.Role)
	require.NotNil(t, created.CompanyID)
	assert.Equal(t, "c-1", *created.CompanyID)
	assert.True(t, created.IsActive)

	stored := store.Users[created.ID]
	assert.NotEqual(t, "s3cret-pass", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("s3cret-pass")))
}

func TestUserService_Create_Policy(t *testing.T) {
	tests := []struct {
		name      string
		actor     user.Actor
		companyID string
		role      user.Role
		wantErr   error
	}{
		{"super admin creates admin anywhere", superAdmin, "c-2", user.RoleAdmin, nil},
		{"admin creates cashier in own company", admin, "c-1", user.RoleCashier, nil},
		{"admin cannot create admin", admin, "c-1", user.RoleAdmin, user.ErrRoleNotAssignable},
		{"admin cannot reach other company", admin, "c-2", user.RoleCashier, user.ErrCompanyAccessDenied},
		{"cashier cannot create users", cashier, "c-1", user.RoleCashier, user.ErrRoleNotAssignable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, svc := newUserService()

			_, err := svc.Create(context.Background(), tt.actor, tt.companyID, validRequest(tt.role))

			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestUserService_Create_Rejections(t *testing.T) {
	ctx := context.Background()

	t.Run("duplicate email", func(t *testing.T) {
		_, svc := newUserService()
		_, err := svc.Create(ctx, admin, "c-1", validRequest(user.RoleCashier))
		require.NoError(t, err)

		_, err = svc.Create(ctx, admin, "c-1", validRequest(user.RoleCashier))

		assert.ErrorIs(t, err, user.ErrUserEmailExists)
	})

	t.Run("super admin role is never assignable", func(t *testing.T) {
		_, svc := newUserService()

		_, err := svc.Create(ctx, superAdmin, "c-1", validRequest(user.RoleSuperAdmin))

		var verrs validator.ValidationErrors
		assert.ErrorAs(t, err, &verrs)
	})

	t.Run("unknown company", func(t *testing.T) {
		_, svc := newUserService()

		_, err := svc.Create(ctx, superAdmin, "c-404", validRequest(user.RoleAdmin))

		assert.ErrorIs(t, err, company.ErrCompanyNotFound)
	})

	t.Run("short password", func(t *testing.T) {
		_, svc := newUserService()
		req := validRequest(user.RoleCashier)
		req.Password = "short"

		_, err := svc.Create(ctx, admin, "c-1", req)

		var verrs validator.ValidationErrors
		require.ErrorAs(t, err, &verrs)
		assert.Contains(t, verrs.ToMap(), "password")
	})
}

func TestUserService_ListByCompany(t *testing.T) {
	_, svc := newUserService()
	ctx := context.Background()
	_, err := svc.Create(ctx, admin, "c-1", validRequest(user.RoleCashier))
	require.NoError(t, err)
	other := validRequest(user.RoleAdmin)
	other.Email = "boss@globex.test"
	_, err = svc.Create(ctx, superAdmin, "c-2", other)
	require.NoError(t, err)

	users, err := svc.ListByCompany(ctx, "c-1")

	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "cashier@acme.test", users[0].Email)
}

func TestUserService_EnsureSuperAdmin(t *testing.T) {
	store, svc := newUserService()
	ctx := context.Background()

	created, isNew, err := svc.EnsureSuperAdmin(ctx, "Root@Platform.test", "change-me-now")
	require.NoError(t, err)
	assert.True(t, isNew)
	assert.Equal(t, user.RoleSuperAdmin, created.Role)
	assert.Nil(t, created.CompanyID)

	again, isNew, err := svc.EnsureSuperAdmin(ctx, "root@platform.test", "change-me-now")
	require.NoError(t, err)
	assert.False(t, isNew)
	assert.Equal(t, created.ID, again.ID)
	assert.Len(t, store.Users, 1)

	_, _, err = svc.EnsureSuperAdmin(ctx, "root@platform.test", "short")
	assert.Error(t, err)
}
