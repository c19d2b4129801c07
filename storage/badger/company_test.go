package badger

import (
	"context"
	"testing"

	"github.com/poiesic/prospect/core"
	"github.com/poiesic/prospect/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupCompanyRepo(t *testing.T) storage.CompanyRepository {
	t.Helper()
	companyRepo, _, _, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() { backend.Close() })
	return companyRepo
}

func TestCompanyRepository_SaveAndGet(t *testing.T) {
	repo := setupCompanyRepo(t)
	ctx := context.Background()

	profile := &core.CompanyProfile{
		Name:          "Acme",
		Domain:        "acme.com",
		Industry:      "Manufacturing",
		Size:          "51-200",
		Location:      "Toledo, OH",
		EmployeeCount: 120,
	}
	require.NoError(t, repo.SaveCompany(ctx, profile))
	assert.False(t, profile.InsertedAt.IsZero())
	assert.False(t, profile.UpdatedAt.IsZero())

	got, err := repo.GetCompany(ctx, "Acme")
	require.NoError(t, err)
	assert.Equal(t, "Acme", got.Name)
	assert.Equal(t, "Manufacturing", got.Industry)
	assert.Equal(t, 120, got.EmployeeCount)
}

func TestCompanyRepository_GetCaseInsensitive(t *testing.T) {
	repo := setupCompanyRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.SaveCompany(ctx, &core.CompanyProfile{Name: "Widget Co"}))

	got, err := repo.GetCompany(ctx, "widget co")
	require.NoError(t, err)
	assert.Equal(t, "Widget Co", got.Name)
}

func TestCompanyRepository_GetNotFound(t *testing.T) {
	repo := setupCompanyRepo(t)

	_, err := repo.GetCompany(context.Background(), "Nonexistent")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestCompanyRepository_SaveReplacesWholesale(t *testing.T) {
	repo := setupCompanyRepo(t)
	ctx := context.Background()

	first := &core.CompanyProfile{Name: "Acme", Industry: "Manufacturing", Funding: "Seed"}
	require.NoError(t, repo.SaveCompany(ctx, first))

	// Re-fetch writes a fresh profile; old field values must not survive.
	second := &core.CompanyProfile{Name: "Acme", Industry: "Robotics"}
	require.NoError(t, repo.SaveCompany(ctx, second))

	got, err := repo.GetCompany(ctx, "Acme")
	require.NoError(t, err)
	assert.Equal(t, "Robotics", got.Industry)
	assert.Empty(t, got.Funding)
	// InsertedAt survives replacement
	assert.True(t, got.InsertedAt.Equal(first.InsertedAt))
}

func TestCompanyRepository_GetAllCompanies(t *testing.T) {
	repo := setupCompanyRepo(t)
	ctx := context.Background()

	for _, name := range []string{"Widget Co", "Acme", "Gizmo Inc"} {
		require.NoError(t, repo.SaveCompany(ctx, &core.CompanyProfile{Name: name}))
	}

	all, err := repo.GetAllCompanies(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Acme", all[0].Name)
	assert.Equal(t, "Gizmo Inc", all[1].Name)
	assert.Equal(t, "Widget Co", all[2].Name)
}

func TestCompanyRepository_Delete(t *testing.T) {
	repo := setupCompanyRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.SaveCompany(ctx, &core.CompanyProfile{Name: "Acme"}))
	require.NoError(t, repo.DeleteCompany(ctx, "acme"))

	_, err := repo.GetCompany(ctx, "Acme")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	assert.ErrorIs(t, repo.DeleteCompany(ctx, "Acme"), storage.ErrNotFound)
}

func TestCompanyRepository_SaveInvalid(t *testing.T) {
	repo := setupCompanyRepo(t)

	err := repo.SaveCompany(context.Background(), &core.CompanyProfile{})
	assert.ErrorIs(t, err, core.ErrInvalidCompanyProfile)
}
