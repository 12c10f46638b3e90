package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"clindoeil-api/internal/domain"
	"clindoeil-api/internal/repo/repotest"
)

func newCatalog() (*CatalogService, *repotest.Products, *repotest.Categories) {
	products := repotest.NewProducts()
	categories := repotest.NewCategories()
	// nil cache: the read paths fall through to the repositories.
	return NewCatalogService(products, categories, nil, zap.NewNop()), products, categories
}

func TestCreateProductSlug(t *testing.T) {
	svc, _, _ := newCatalog()
	ctx := context.Background()

	p := &domain.Product{Title: "Table Basse Scandinave", Price: 120}
	require.NoError(t, svc.CreateProduct(ctx, p))
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, "table-basse-scandinave", p.Slug)

	got, err := svc.GetProduct(ctx, "table-basse-scandinave")
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)

	_, err = svc.GetProduct(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreateProductRequiresTitle(t *testing.T) {
	svc, _, _ := newCatalog()
	err := svc.CreateProduct(context.Background(), &domain.Product{Title: "  "})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestUpdateProductReslugsAndKeepsColorImages(t *testing.T) {
	svc, _, _ := newCatalog()
	ctx := context.Background()

	p := &domain.Product{
		Title:  "Old Title",
		Price:  10,
		Colors: []domain.Color{{ID: "c1", Name: "red", Src: "/uploads/media/red.jpg", Alt: "red"}},
	}
	require.NoError(t, svc.CreateProduct(ctx, p))

	in := &domain.Product{
		Title:  "New Title",
		Price:  15,
		Colors: []domain.Color{{ID: "c1", Name: "red"}},
	}
	out, err := svc.UpdateProduct(ctx, "old-title", in, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "new-title", out.Slug)
	assert.Equal(t, p.ID, out.ID)
	// A color without a fresh upload keeps its existing image.
	assert.Equal(t, "/uploads/media/red.jpg", out.Colors[0].Src)

	_, err = svc.UpdateProduct(ctx, "old-title", in, nil, nil)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdateProductKeepsSalesCount(t *testing.T) {
	svc, products, _ := newCatalog()
	ctx := context.Background()

	p := &domain.Product{Title: "Lamp", Price: 10}
	require.NoError(t, svc.CreateProduct(ctx, p))

	stored, err := products.FindBySlug("lamp")
	require.NoError(t, err)
	stored.Sold = 7
	require.NoError(t, products.Update(stored))

	out, err := svc.UpdateProduct(ctx, "lamp", &domain.Product{Title: "Lamp", Price: 12}, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 12.0, out.Price)
	// An edit must not wipe the sales counter the bestseller sort uses.
	assert.Equal(t, 7, out.Sold)
}

func TestListProductsFilterByColorAndSize(t *testing.T) {
	svc, _, _ := newCatalog()
	ctx := context.Background()

	require.NoError(t, svc.CreateProduct(ctx, &domain.Product{
		Title: "Red Chair", Price: 10,
		Colors: []domain.Color{{Name: "red"}},
		Sizes:  []domain.Size{{Name: "L", Price: 12}},
	}))
	require.NoError(t, svc.CreateProduct(ctx, &domain.Product{
		Title: "Blue Chair", Price: 20,
		Colors: []domain.Color{{Name: "blue"}},
		Sizes:  []domain.Size{{Name: "M", Price: 22}},
	}))

	page, err := svc.ListProducts(domain.ProductFilter{Colors: []string{"red"}}, domain.SortNew, 0, 12)
	require.NoError(t, err)
	require.Len(t, page.Products, 1)
	assert.Equal(t, "Red Chair", page.Products[0].Title)

	// Any of the requested colors matches.
	page, err = svc.ListProducts(domain.ProductFilter{Colors: []string{"red", "blue"}}, domain.SortNew, 0, 12)
	require.NoError(t, err)
	assert.Len(t, page.Products, 2)

	page, err = svc.ListProducts(domain.ProductFilter{Sizes: []string{"M"}}, domain.SortNew, 0, 12)
	require.NoError(t, err)
	require.Len(t, page.Products, 1)
	assert.Equal(t, "Blue Chair", page.Products[0].Title)

	// Color and size constraints combine.
	page, err = svc.ListProducts(domain.ProductFilter{Colors: []string{"red"}, Sizes: []string{"M"}}, domain.SortNew, 0, 12)
	require.NoError(t, err)
	assert.Empty(t, page.Products)
}

func TestListProductsPagination(t *testing.T) {
	svc, _, _ := newCatalog()
	ctx := context.Background()
	titles := []string{"One", "Two", "Three", "Four", "Five"}
	for i, title := range titles {
		require.NoError(t, svc.CreateProduct(ctx, &domain.Product{Title: title, Price: float64(i + 1)}))
	}

	page, err := svc.ListProducts(domain.ProductFilter{}, domain.SortPriceAsc, 0, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(5), page.Total)
	assert.Equal(t, 3, page.TotalPages)
	require.Len(t, page.Products, 2)
	assert.Equal(t, "One", page.Products[0].Title)

	last, err := svc.ListProducts(domain.ProductFilter{}, domain.SortPriceAsc, 2, 2)
	require.NoError(t, err)
	require.Len(t, last.Products, 1)
	assert.Equal(t, "Five", last.Products[0].Title)
}

func TestProductsByCategory(t *testing.T) {
	svc, _, _ := newCatalog()
	ctx := context.Background()
	require.NoError(t, svc.CreateProduct(ctx, &domain.Product{Title: "Lamp", Category: "Lighting", Price: 10}))
	require.NoError(t, svc.CreateProduct(ctx, &domain.Product{Title: "Chair", Category: "Seating", Price: 20}))

	page, err := svc.ProductsByCategory("lighting", domain.ProductFilter{}, domain.SortNew, 0, 12)
	require.NoError(t, err)
	require.Len(t, page.Products, 1)
	assert.Equal(t, "Lamp", page.Products[0].Title)

	_, err = svc.ProductsByCategory("  ", domain.ProductFilter{}, domain.SortNew, 0, 12)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestNewArrivalsLimit(t *testing.T) {
	svc, _, _ := newCatalog()
	ctx := context.Background()
	for _, title := range []string{"A", "B", "C", "D", "E", "F"} {
		require.NoError(t, svc.CreateProduct(ctx, &domain.Product{Title: title, Price: 1}))
	}

	latest, err := svc.NewArrivals("")
	require.NoError(t, err)
	require.Len(t, latest, 4)
	// Most recently created first.
	assert.Equal(t, "F", latest[0].Title)
}

func TestCategoryLifecycle(t *testing.T) {
	svc, _, _ := newCatalog()
	ctx := context.Background()

	_, err := svc.CreateCategory(ctx, "x", "")
	assert.ErrorIs(t, err, domain.ErrValidation)

	c, err := svc.CreateCategory(ctx, "Salle de Bain", "/uploads/categories/bain.jpg")
	require.NoError(t, err)
	assert.Equal(t, "salle-de-bain", c.Slug)

	cats, err := svc.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, cats, 1)

	updated, err := svc.UpdateCategory(ctx, "salle-de-bain", "Cuisine", "")
	require.NoError(t, err)
	assert.Equal(t, "cuisine", updated.Slug)

	deleted, err := svc.DeleteCategory(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, c.ID, deleted.ID)

	_, err = svc.DeleteCategory(ctx, c.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCategoryWithProducts(t *testing.T) {
	svc, _, _ := newCatalog()
	ctx := context.Background()

	c, err := svc.CreateCategory(ctx, "Lighting", "")
	require.NoError(t, err)
	require.NoError(t, svc.CreateProduct(ctx, &domain.Product{Title: "Lamp", Category: "Lighting", Price: 10}))
	require.NoError(t, svc.CreateProduct(ctx, &domain.Product{Title: "Chair", Category: "Seating", Price: 20}))

	got, products, err := svc.CategoryWithProducts("lighting")
	require.NoError(t, err)
	assert.Equal(t, c.ID, got.ID)
	require.Len(t, products, 1)
	assert.Equal(t, "Lamp", products[0].Title)
}
