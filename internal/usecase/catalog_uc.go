package usecase

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/strideshop/stride/internal/domain"
)

// Fixed category ids the department pages are built on. Seeding keeps them
// stable across environments.
const (
	CategoryMen    uint = 1
	CategoryWomen  uint = 2
	CategoryKid    uint = 3
	CategoryUnisex uint = 4
)

// Department names accepted by ByDepartment. Every department also shows
// unisex products.
var departmentCategories = map[string][]uint{
	"men":   {CategoryMen, CategoryUnisex},
	"women": {CategoryWomen, CategoryUnisex},
	"kids":  {CategoryKid, CategoryUnisex},
}

type CatalogUC struct {
	Products domain.ProductRepo

	// snapshot is the read-only degraded-mode catalog served when the
	// database cannot answer. Built once at startup, never written to.
	snapshot []domain.Product
}

func NewCatalogUC(products domain.ProductRepo) *CatalogUC {
	return &CatalogUC{
		Products: products,
		snapshot: fallbackCatalog(),
	}
}

// List returns live catalog rows, falling back to the startup snapshot on a
// storage failure. Degraded results are filtered in memory with the same
// semantics as the live query.
func (uc *CatalogUC) List(ctx context.Context, f domain.ProductFilter) ([]domain.Product, bool, error) {
	products, err := uc.Products.List(ctx, f)
	if err != nil {
		log.Warn().Err(err).Msg("catalog: serving degraded snapshot")
		return filterSnapshot(uc.snapshot, f), true, nil
	}
	return products, false, nil
}

func (uc *CatalogUC) ByDepartment(ctx context.Context, department, query string) ([]domain.Product, bool, error) {
	cats, ok := departmentCategories[strings.ToLower(strings.TrimSpace(department))]
	if !ok {
		return nil, false, domain.ErrNotFound
	}
	return uc.List(ctx, domain.ProductFilter{CategoryIDs: cats, Query: query})
}

func (uc *CatalogUC) Get(ctx context.Context, id uint) (*domain.Product, error) {
	return uc.Products.FindByID(ctx, id)
}

// VariantOptions lists the purchasable size/color combinations of a
// product, stock > 0 only.
func (uc *CatalogUC) VariantOptions(ctx context.Context, productID uint) ([]domain.ProductVariant, error) {
	return uc.Products.VariantsInStock(ctx, productID)
}

func (uc *CatalogUC) Brands(ctx context.Context) ([]domain.Brand, error) {
	return uc.Products.Brands(ctx)
}

func (uc *CatalogUC) Categories(ctx context.Context) ([]domain.Category, error) {
	return uc.Products.Categories(ctx)
}

// Featured and SpecialDeals drive the home page sections. Both tolerate a
// dead database the same way List does.
func (uc *CatalogUC) Featured(ctx context.Context) ([]domain.Product, bool, error) {
	products, degraded, err := uc.List(ctx, domain.ProductFilter{})
	if err != nil {
		return nil, degraded, err
	}
	return selectProducts(products, func(p domain.Product) bool { return p.IsFeatured }), degraded, nil
}

func (uc *CatalogUC) SpecialDeals(ctx context.Context) ([]domain.Product, bool, error) {
	products, degraded, err := uc.List(ctx, domain.ProductFilter{})
	if err != nil {
		return nil, degraded, err
	}
	return selectProducts(products, func(p domain.Product) bool { return p.IsSpecialDeal }), degraded, nil
}

func selectProducts(in []domain.Product, keep func(domain.Product) bool) []domain.Product {
	out := make([]domain.Product, 0, len(in))
	for _, p := range in {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}

func filterSnapshot(snapshot []domain.Product, f domain.ProductFilter) []domain.Product {
	q := strings.ToLower(strings.TrimSpace(f.Query))
	out := make([]domain.Product, 0, len(snapshot))
	for _, p := range snapshot {
		if len(f.CategoryIDs) > 0 {
			if p.CategoryID == nil || !containsID(f.CategoryIDs, *p.CategoryID) {
				continue
			}
		}
		if q != "" && !strings.Contains(strings.ToLower(p.Name), q) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func containsID(ids []uint, id uint) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func uptr(v uint) *uint       { return &v }
func fptr(v float64) *float64 { return &v }

// fallbackCatalog is the degraded-mode inventory shown when storage is
// unreachable. Nothing here is purchasable; checkout always goes through
// the database.
func fallbackCatalog() []domain.Product {
	img := "https://via.placeholder.com/300"
	return []domain.Product{
		{ID: 1, Name: "Air Max 270", Description: "Premium running shoes", Price: 150, ImageURL: img, CategoryID: uptr(CategoryMen), IsFeatured: true},
		{ID: 2, Name: "Air Force 1", Description: "Classic lifestyle shoes", Price: 90, DiscountPrice: fptr(70), ImageURL: img, CategoryID: uptr(CategoryUnisex), IsFeatured: true, IsSpecialDeal: true},
		{ID: 3, Name: "Zoom Pegasus", Description: "High-performance running", Price: 120, ImageURL: img, CategoryID: uptr(CategoryMen), IsFeatured: true},
		{ID: 4, Name: "Revolution 6", Description: "Everyday running", Price: 60, ImageURL: img, CategoryID: uptr(CategoryWomen), IsFeatured: true},
		{ID: 5, Name: "Court Vision", Description: "Basketball lifestyle", Price: 65, DiscountPrice: fptr(45), ImageURL: img, CategoryID: uptr(CategoryMen), IsSpecialDeal: true},
		{ID: 6, Name: "React Element", Description: "Futuristic design", Price: 130, ImageURL: img, CategoryID: uptr(CategoryUnisex), IsFeatured: true},
		{ID: 7, Name: "Free RN", Description: "Natural motion", Price: 80, DiscountPrice: fptr(60), ImageURL: img, CategoryID: uptr(CategoryWomen), IsSpecialDeal: true},
		{ID: 8, Name: "Dunk Low", Description: "Skateboarding classic", Price: 100, ImageURL: img, CategoryID: uptr(CategoryUnisex), IsFeatured: true},
	}
}
