package services

import (
	"context"
	"testing"

	"storefront-backend/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newTestProductService() (*ProductService, *memProductRepo, *memCache) {
	repo := newMemProductRepo()
	cache := newMemCache()
	return NewProductService(repo, cache, logger.NewNop()), repo, cache
}

func TestProductService_CreateProduct(t *testing.T) {
	svc, _, _ := newTestProductService()
	ctx := context.Background()

	product, err := svc.CreateProduct(ctx, &CreateProductRequest{
		Name:     "  Blue Dream ",
		Category: "Flower",
		Unit:     " Pound",
		Price:    1200,
		QPPrice:  floatPtr(400),
	})
	require.NoError(t, err)

	assert.False(t, product.ID.IsZero())
	assert.Equal(t, "Blue Dream", product.Name)
	assert.Equal(t, "flower", product.Category)
	assert.Equal(t, "pound", product.Unit)
	assert.True(t, product.IsAvailable)
	assert.NotNil(t, product.ImageUrls)
	assert.True(t, product.HasQPVariant())
}

func TestProductService_CreateProductValidation(t *testing.T) {
	svc, repo, _ := newTestProductService()
	ctx := context.Background()

	tests := []struct {
		name string
		req  CreateProductRequest
	}{
		{"blank name", CreateProductRequest{Name: "  ", Category: "vape", Unit: "piece", Price: 30}},
		{"sale without price", CreateProductRequest{Name: "A", Category: "vape", Unit: "piece", Price: 30, SaleEnabled: true}},
		{"sale above list", CreateProductRequest{Name: "A", Category: "vape", Unit: "piece", Price: 30, SaleEnabled: true, SalePrice: 35}},
		{"negative qp price", CreateProductRequest{Name: "A", Category: "flower", Unit: "pound", Price: 1000, QPPrice: floatPtr(-1)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			_, err := svc.CreateProduct(ctx, &req)
			assert.ErrorIs(t, err, ErrInvalidProduct)
		})
	}
	assert.Empty(t, repo.products)
}

func TestProductService_GetProductUsesCache(t *testing.T) {
	svc, repo, cache := newTestProductService()
	ctx := context.Background()
	created, err := svc.CreateProduct(ctx, &CreateProductRequest{Name: "Cart", Category: "vape", Unit: "piece", Price: 30})
	require.NoError(t, err)
	id := created.ID.Hex()

	first, err := svc.GetProduct(ctx, id)
	require.NoError(t, err)
	second, err := svc.GetProduct(ctx, id)
	require.NoError(t, err)

	assert.Equal(t, first.Name, second.Name)
	assert.Equal(t, 1, repo.gets)
	assert.True(t, cache.has(productCacheKey(id)))
}

func TestProductService_GetProductErrors(t *testing.T) {
	svc, _, _ := newTestProductService()
	ctx := context.Background()

	_, err := svc.GetProduct(ctx, "nope")
	assert.ErrorIs(t, err, ErrInvalidProductID)

	_, err = svc.GetProduct(ctx, primitive.NewObjectID().Hex())
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestProductService_UpdateProduct(t *testing.T) {
	svc, _, cache := newTestProductService()
	ctx := context.Background()
	created, err := svc.CreateProduct(ctx, &CreateProductRequest{
		Name: "Gelato", Category: "flower", Unit: "pound", Price: 1200, QPPrice: floatPtr(400),
	})
	require.NoError(t, err)
	id := created.ID.Hex()
	_, err = svc.GetProduct(ctx, id)
	require.NoError(t, err)

	sale := true
	updated, err := svc.UpdateProduct(ctx, id, &UpdateProductRequest{
		SaleEnabled: &sale,
		SalePrice:   floatPtr(1000),
		QPPrice:     floatPtr(0),
	})
	require.NoError(t, err)

	assert.True(t, updated.IsOnSale())
	assert.Equal(t, 1000.0, updated.EffectivePrice())
	assert.Nil(t, updated.QPPrice)
	assert.False(t, cache.has(productCacheKey(id)))

	off := false
	updated, err = svc.UpdateProduct(ctx, id, &UpdateProductRequest{SaleEnabled: &off})
	require.NoError(t, err)
	assert.Zero(t, updated.SalePrice)

	_, err = svc.UpdateProduct(ctx, id, &UpdateProductRequest{Price: floatPtr(-5)})
	assert.ErrorIs(t, err, ErrInvalidProduct)

	_, err = svc.UpdateProduct(ctx, primitive.NewObjectID().Hex(), &UpdateProductRequest{})
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestProductService_DeleteProduct(t *testing.T) {
	svc, _, cache := newTestProductService()
	ctx := context.Background()
	created, err := svc.CreateProduct(ctx, &CreateProductRequest{Name: "Cart", Category: "vape", Unit: "piece", Price: 30})
	require.NoError(t, err)
	id := created.ID.Hex()
	_, err = svc.GetProduct(ctx, id)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteProduct(ctx, id))
	assert.False(t, cache.has(productCacheKey(id)))

	assert.ErrorIs(t, svc.DeleteProduct(ctx, id), ErrProductNotFound)
	assert.ErrorIs(t, svc.DeleteProduct(ctx, "bad"), ErrInvalidProductID)
}

func TestProductService_ListProducts(t *testing.T) {
	svc, _, _ := newTestProductService()
	ctx := context.Background()
	hidden := false
	for _, req := range []CreateProductRequest{
		{Name: "B Cart", Category: "vape", Unit: "piece", Price: 30},
		{Name: "A Flower", Category: "flower", Unit: "pound", Price: 1000},
		{Name: "C Hidden", Category: "vape", Unit: "piece", Price: 30, IsAvailable: &hidden},
	} {
		req := req
		_, err := svc.CreateProduct(ctx, &req)
		require.NoError(t, err)
	}

	all, err := svc.ListProducts(ctx, "", false, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(3), all.Total)
	assert.Equal(t, 20, all.Limit)

	public, err := svc.ListProducts(ctx, " VAPE ", true, 10, 0)
	require.NoError(t, err)
	require.Len(t, public.Products, 1)
	assert.Equal(t, "B Cart", public.Products[0].Name)
}
