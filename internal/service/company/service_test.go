package company

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/domain/company"
	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/domain/employee"
	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/pkg/storage"
	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/pkg/validator"
	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/service/servicetest"
)

func strPtr(s string) *string { return &s }

func newCompanyService(t *testing.T) (*servicetest.Store, *storage.LocalStorage, company.CompanyService) {
	t.Helper()
	store := servicetest.NewStore()
	files, err := storage.NewLocalStorage(t.TempDir(), "http://localhost:8080/uploads")
	require.NoError(t, err)

	svc := NewCompanyService(
		store,
		servicetest.CompanyRepo{Store: store},
		servicetest.ScheduleRepo{Store: store},
		servicetest.EmployeeRepo{Store: store},
		files,
	)
	return store, files, svc
}

func pngImage(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		img.Set(x, 0, color.RGBA{R: 200, A: 255})
	}
	buf := new(bytes.Buffer)
	require.NoError(t, png.Encode(buf, img))
	return buf.Bytes()
}

func TestCompanyService_Create_SeedsDefaultWeek(t *testing.T) {
	store, _, svc := newCompanyService(t)

	// Act
	created, err := svc.Create(context.Background(), company.CreateCompanyRequest{Name: "  Acme Dakar ", PayPeriodType: company.PayPeriodMonthly})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "Acme Dakar", created.Name)
	assert.Equal(t, company.DefaultCurrency, created.Currency)
	assert.True(t, created.IsActive)

	days := store.Schedules[created.ID]
	require.Len(t, days, 7)
	working := 0
	for _, d := range days {
		if d.IsWorkingDay {
			working++
			assert.Equal(t, "08:00", d.StartTime)
			assert.Equal(t, "17:00", d.EndTime)
		}
	}
	assert.Equal(t, 5, working)
	assert.Equal(t, 1, store.Transactions)
}

func TestCompanyService_Create_RollsBackWhenSeedingFails(t *testing.T) {
	store, _, svc := newCompanyService(t)
	store.Fail["Schedule.ReplaceForCompany"] = errors.New("connection lost")

	_, err := svc.Create(context.Background(), company.CreateCompanyRequest{Name: "Acme"})

	require.Error(t, err)
	assert.Empty(t, store.Companies)
	assert.Zero(t, store.WriteCount())
}

func TestCompanyService_Create_Validation(t *testing.T) {
	_, _, svc := newCompanyService(t)

	_, err := svc.Create(context.Background(), company.CreateCompanyRequest{Name: "", Currency: "EURO", ThemeColor: strPtr("blue")})

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.ToMap(), "name")
	assert.Contains(t, verrs.ToMap(), "currency")
	assert.Contains(t, verrs.ToMap(), "themeColor")
}

func TestCompanyService_UpdateAndSetActive(t *testing.T) {
	_, _, svc := newCompanyService(t)
	ctx := context.Background()
	created, err := svc.Create(ctx, company.CreateCompanyRequest{Name: "Acme"})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, created.ID, company.UpdateCompanyRequest{Currency: strPtr("eur"), Address: strPtr("Plateau, Dakar")})
	require.NoError(t, err)
	assert.Equal(t, "EUR", updated.Currency)
	assert.Equal(t, "Plateau, Dakar", *updated.Address)

	disabled, err := svc.SetActive(ctx, created.ID, false)
	require.NoError(t, err)
	assert.False(t, disabled.IsActive)

	list, total, err := svc.List(ctx, company.CompanyFilter{IsActive: func(b bool) *bool { return &b }(true)})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, list)

	_, err = svc.GetByID(ctx, "c-404")
	assert.ErrorIs(t, err, company.ErrCompanyNotFound)
}

func TestCompanyService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("blocked while employees exist", func(t *testing.T) {
		store, _, svc := newCompanyService(t)
		created, err := svc.Create(ctx, company.CreateCompanyRequest{Name: "Acme"})
		require.NoError(t, err)
		store.Employees["e-1"] = employee.Employee{ID: "e-1", CompanyID: created.ID, EmployeeCode: "EMP-1"}

		err = svc.Delete(ctx, created.ID)

		assert.ErrorIs(t, err, company.ErrCompanyHasEmployees)
		assert.Contains(t, store.Companies, created.ID)
	})

	t.Run("removes an empty company", func(t *testing.T) {
		store, _, svc := newCompanyService(t)
		created, err := svc.Create(ctx, company.CreateCompanyRequest{Name: "Acme"})
		require.NoError(t, err)

		require.NoError(t, svc.Delete(ctx, created.ID))

		assert.NotContains(t, store.Companies, created.ID)
		assert.ErrorIs(t, svc.Delete(ctx, created.ID), company.ErrCompanyNotFound)
	})
}

func TestCompanyService_UploadLogo(t *testing.T) {
	ctx := context.Background()

	t.Run("stores png and sets url", func(t *testing.T) {
		store, files, svc := newCompanyService(t)
		created, err := svc.Create(ctx, company.CreateCompanyRequest{Name: "Acme"})
		require.NoError(t, err)
		data := pngImage(t, 64, 32)

		resp, err := svc.UploadLogo(ctx, company.UploadCompanyLogoRequest{CompanyID: created.ID, File: bytes.NewReader(data), Filename: "logo.png", Size: int64(len(data))})

		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(resp.LogoURL, "http://localhost:8080/uploads/logos/"+created.ID+"/"))
		assert.True(t, strings.HasSuffix(resp.LogoURL, ".png"))
		require.NotNil(t, store.Companies[created.ID].LogoURL)
		assert.Equal(t, resp.LogoURL, *store.Companies[created.ID].LogoURL)

		key := strings.TrimPrefix(resp.LogoURL, "http://localhost:8080/uploads/")
		exists, err := files.Exists(ctx, key)
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("rejects non image content", func(t *testing.T) {
		_, _, svc := newCompanyService(t)
		created, err := svc.Create(ctx, company.CreateCompanyRequest{Name: "Acme"})
		require.NoError(t, err)

		_, err = svc.UploadLogo(ctx, company.UploadCompanyLogoRequest{CompanyID: created.ID, File: strings.NewReader("%PDF-1.4 not a logo"), Filename: "logo.png"})

		assert.ErrorIs(t, err, company.ErrInvalidLogoFile)
	})

	t.Run("rejects oversized upload", func(t *testing.T) {
		_, _, svc := newCompanyService(t)
		created, err := svc.Create(ctx, company.CreateCompanyRequest{Name: "Acme"})
		require.NoError(t, err)
		big := bytes.Repeat([]byte{0}, company.MaxLogoSize+10)

		_, err = svc.UploadLogo(ctx, company.UploadCompanyLogoRequest{CompanyID: created.ID, File: bytes.NewReader(big), Filename: "logo.png"})

		assert.ErrorIs(t, err, company.ErrLogoTooLarge)
	})
}

func TestReadLogo_ScalesWideImages(t *testing.T) {
	logo, err := readLogo(bytes.NewReader(pngImage(t, 1024, 256)))

	require.NoError(t, err)
	assert.Equal(t, "image/png", logo.contentType)
	cfg, err := png.DecodeConfig(bytes.NewReader(logo.data))
	require.NoError(t, err)
	assert.Equal(t, maxLogoWidth, cfg.Width)
	assert.Equal(t, 128, cfg.Height)
}
