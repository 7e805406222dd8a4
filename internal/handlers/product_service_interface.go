package handlers

import (
	"context"

	"storefront-backend/internal/models"
	"storefront-backend/internal/services"
)

// ProductServiceInterface defines the contract for product service
type ProductServiceInterface interface {
	CreateProduct(ctx context.Context, req *services.CreateProductRequest) (*models.Product, error)
	GetProduct(ctx context.Context, productID string) (*models.Product, error)
	ListProducts(ctx context.Context, category string, availableOnly bool, limit, offset int) (*services.ProductListResponse, error)
	UpdateProduct(ctx context.Context, productID string, req *services.UpdateProductRequest) (*models.Product, error)
	DeleteProduct(ctx context.Context, productID string) error
}
