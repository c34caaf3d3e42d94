package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strideshop/stride/internal/domain"
	"github.com/strideshop/stride/internal/usecase"
)

// deadProductRepo fails every read like an unreachable database would.
type deadProductRepo struct {
	fakeProductRepo
}

func (d *deadProductRepo) List(ctx context.Context, _ domain.ProductFilter) ([]domain.Product, error) {
	return nil, errors.New("connection refused")
}

func TestCatalogListServesSnapshotWhenStorageDies(t *testing.T) {
	uc := usecase.NewCatalogUC(&deadProductRepo{})

	products, degraded, err := uc.List(context.Background(), domain.ProductFilter{})
	require.NoError(t, err)
	assert.True(t, degraded)
	assert.NotEmpty(t, products)

	names := make(map[string]bool)
	for _, p := range products {
		names[p.Name] = true
	}
	assert.True(t, names["Air Max 270"])
	assert.True(t, names["Dunk Low"])
}

func TestCatalogSnapshotFiltering(t *testing.T) {
	uc := usecase.NewCatalogUC(&deadProductRepo{})
	ctx := context.Background()

	women, degraded, err := uc.ByDepartment(ctx, "women", "")
	require.NoError(t, err)
	assert.True(t, degraded)
	for _, p := range women {
		require.NotNil(t, p.CategoryID)
		assert.Contains(t, []uint{usecase.CategoryWomen, usecase.CategoryUnisex}, *p.CategoryID)
	}

	hits, _, err := uc.List(ctx, domain.ProductFilter{Query: "air"})
	require.NoError(t, err)
	assert.Len(t, hits, 2, "Air Max 270 and Air Force 1")
}

func TestCatalogUnknownDepartment(t *testing.T) {
	uc := usecase.NewCatalogUC(newFakeProductRepo())
	_, _, err := uc.ByDepartment(context.Background(), "aliens", "")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCatalogDepartmentsIncludeUnisex(t *testing.T) {
	uc := usecase.NewCatalogUC(&deadProductRepo{})

	for _, dept := range []string{"men", "Women", " KIDS "} {
		products, _, err := uc.ByDepartment(context.Background(), dept, "")
		require.NoError(t, err, "department %q", dept)
		found := false
		for _, p := range products {
			if p.CategoryID != nil && *p.CategoryID == usecase.CategoryUnisex {
				found = true
			}
		}
		assert.True(t, found, "department %q should include unisex products", dept)
	}
}

func TestCatalogFeaturedAndDeals(t *testing.T) {
	uc := usecase.NewCatalogUC(&deadProductRepo{})
	ctx := context.Background()

	featured, _, err := uc.Featured(ctx)
	require.NoError(t, err)
	for _, p := range featured {
		assert.True(t, p.IsFeatured)
	}

	deals, _, err := uc.SpecialDeals(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, deals)
	for _, p := range deals {
		assert.True(t, p.IsSpecialDeal)
		assert.NotNil(t, p.DiscountPrice)
	}
}
