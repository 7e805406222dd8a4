package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"storefront-backend/internal/models"
	"storefront-backend/internal/repositories"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const productCacheTTL = 30 * time.Minute

// Cache is the subset of the redis cache the services use.
type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, key string) error
}

type ProductService struct {
	productRepo repositories.ProductRepository
	cache       Cache
	logger      *zap.Logger
}

func NewProductService(productRepo repositories.ProductRepository, cache Cache, logger *zap.Logger) *ProductService {
	return &ProductService{
		productRepo: productRepo,
		cache:       cache,
		logger:      logger,
	}
}

type CreateProductRequest struct {
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description"`
	Category    string   `json:"category" binding:"required"`
	Unit        string   `json:"unit" binding:"required"`
	Price       float64  `json:"price" binding:"required,gt=0"`
	SaleEnabled bool     `json:"sale_enabled"`
	SalePrice   float64  `json:"sale_price"`
	QPPrice     *float64 `json:"qp_price,omitempty"`
	ImageUrls   []string `json:"image_urls"`
	IsAvailable *bool    `json:"is_available,omitempty"`
}

type UpdateProductRequest struct {
	Name        *string   `json:"name,omitempty"`
	Description *string   `json:"description,omitempty"`
	Category    *string   `json:"category,omitempty"`
	Unit        *string   `json:"unit,omitempty"`
	Price       *float64  `json:"price,omitempty"`
	SaleEnabled *bool     `json:"sale_enabled,omitempty"`
	SalePrice   *float64  `json:"sale_price,omitempty"`
	QPPrice     *float64  `json:"qp_price,omitempty"`
	ImageUrls   *[]string `json:"image_urls,omitempty"`
	IsAvailable *bool     `json:"is_available,omitempty"`
}

type ProductListResponse struct {
	Products []models.Product `json:"products"`
	Total    int64            `json:"total"`
	Limit    int              `json:"limit"`
	Offset   int              `json:"offset"`
}

func productCacheKey(id string) string {
	return "product:" + id
}

// validateProduct enforces the pricing fields the cart relies on.
func validateProduct(p *models.Product) error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidProduct)
	}
	if p.Price <= 0 {
		return fmt.Errorf("%w: price must be greater than 0", ErrInvalidProduct)
	}
	if p.SaleEnabled {
		if p.SalePrice <= 0 {
			return fmt.Errorf("%w: sale_price must be greater than 0", ErrInvalidProduct)
		}
		if p.SalePrice >= p.Price {
			return fmt.Errorf("%w: sale_price must be less than price", ErrInvalidProduct)
		}
	}
	if p.QPPrice != nil && *p.QPPrice <= 0 {
		return fmt.Errorf("%w: qp_price must be greater than 0", ErrInvalidProduct)
	}
	return nil
}

func normalizeCatalogLabel(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func (s *ProductService) CreateProduct(ctx context.Context, req *CreateProductRequest) (*models.Product, error) {
	product := &models.Product{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Category:    normalizeCatalogLabel(req.Category),
		Unit:        normalizeCatalogLabel(req.Unit),
		Price:       req.Price,
		SaleEnabled: req.SaleEnabled,
		SalePrice:   req.SalePrice,
		QPPrice:     req.QPPrice,
		ImageUrls:   req.ImageUrls,
		IsAvailable: true,
	}
	if req.IsAvailable != nil {
		product.IsAvailable = *req.IsAvailable
	}
	if product.ImageUrls == nil {
		product.ImageUrls = []string{}
	}

	if err := validateProduct(product); err != nil {
		return nil, err
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}

	s.logger.Info("product created",
		zap.String("product_id", product.ID.Hex()),
		zap.String("category", product.Category))

	return product, nil
}

func parseProductID(productID string) (primitive.ObjectID, error) {
	objectID, err := primitive.ObjectIDFromHex(productID)
	if err != nil {
		return primitive.NilObjectID, ErrInvalidProductID
	}
	return objectID, nil
}

func (s *ProductService) GetProduct(ctx context.Context, productID string) (*models.Product, error) {
	objectID, err := parseProductID(productID)
	if err != nil {
		return nil, err
	}

	// Try cache first
	cacheKey := productCacheKey(productID)
	var cachedProduct models.Product
	if err := s.cache.Get(ctx, cacheKey, &cachedProduct); err == nil {
		return &cachedProduct, nil
	}

	product, err := s.productRepo.GetByID(ctx, objectID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, cacheKey, product, productCacheTTL); err != nil {
		s.logger.Warn("failed to cache product", zap.String("product_id", productID), zap.Error(err))
	}

	return product, nil
}

func (s *ProductService) ListProducts(ctx context.Context, category string, availableOnly bool, limit, offset int) (*ProductListResponse, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	products, total, err := s.productRepo.List(ctx, normalizeCatalogLabel(category), availableOnly, limit, offset)
	if err != nil {
		return nil, err
	}

	return &ProductListResponse{
		Products: products,
		Total:    total,
		Limit:    limit,
		Offset:   offset,
	}, nil
}

func (s *ProductService) UpdateProduct(ctx context.Context, productID string, req *UpdateProductRequest) (*models.Product, error) {
	objectID, err := parseProductID(productID)
	if err != nil {
		return nil, err
	}

	product, err := s.productRepo.GetByID(ctx, objectID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		product.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Category != nil {
		product.Category = normalizeCatalogLabel(*req.Category)
	}
	if req.Unit != nil {
		product.Unit = normalizeCatalogLabel(*req.Unit)
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.SaleEnabled != nil {
		product.SaleEnabled = *req.SaleEnabled
		if !product.SaleEnabled {
			product.SalePrice = 0
		}
	}
	if req.SalePrice != nil {
		product.SalePrice = *req.SalePrice
	}
	if req.QPPrice != nil {
		if *req.QPPrice == 0 {
			product.QPPrice = nil
		} else {
			qpPrice := *req.QPPrice
			product.QPPrice = &qpPrice
		}
	}
	if req.ImageUrls != nil {
		product.ImageUrls = *req.ImageUrls
	}
	if req.IsAvailable != nil {
		product.IsAvailable = *req.IsAvailable
	}

	if err := validateProduct(product); err != nil {
		return nil, err
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	s.invalidate(ctx, productID)
	return product, nil
}

func (s *ProductService) DeleteProduct(ctx context.Context, productID string) error {
	objectID, err := parseProductID(productID)
	if err != nil {
		return err
	}

	if err := s.productRepo.Delete(ctx, objectID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrProductNotFound
		}
		return err
	}

	s.invalidate(ctx, productID)
	s.logger.Info("product deleted", zap.String("product_id", productID))
	return nil
}

func (s *ProductService) invalidate(ctx context.Context, productID string) {
	if err := s.cache.Delete(ctx, productCacheKey(productID)); err != nil {
		s.logger.Warn("failed to invalidate product cache", zap.String("product_id", productID), zap.Error(err))
	}
}
