package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"storefront-backend/internal/middleware"
	"storefront-backend/internal/models"
	"storefront-backend/internal/services"
	"storefront-backend/pkg/auth"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProductService struct {
	lastAvailableOnly bool
	lastCategory      string
	lastLimit         int
	created           *services.CreateProductRequest
	deleteErr         error
}

func (f *fakeProductService) CreateProduct(ctx context.Context, req *services.CreateProductRequest) (*models.Product, error) {
	f.created = req
	return &models.Product{Name: req.Name, Category: req.Category, Price: req.Price}, nil
}

func (f *fakeProductService) GetProduct(ctx context.Context, productID string) (*models.Product, error) {
	if productID != "p1" {
		return nil, services.ErrProductNotFound
	}
	return &models.Product{Name: "Gelato"}, nil
}

func (f *fakeProductService) ListProducts(ctx context.Context, category string, availableOnly bool, limit, offset int) (*services.ProductListResponse, error) {
	f.lastCategory = category
	f.lastAvailableOnly = availableOnly
	f.lastLimit = limit
	return &services.ProductListResponse{Products: []models.Product{}, Limit: limit, Offset: offset}, nil
}

func (f *fakeProductService) UpdateProduct(ctx context.Context, productID string, req *services.UpdateProductRequest) (*models.Product, error) {
	return nil, services.ErrInvalidProduct
}

func (f *fakeProductService) DeleteProduct(ctx context.Context, productID string) error {
	return f.deleteErr
}

func newProductTestRouter(svc *fakeProductService) (*gin.Engine, *auth.JWTManager) {
	gin.SetMode(gin.TestMode)
	jwtManager := auth.NewJWTManager("handler-test-secret", 1, 1)
	router := gin.New()
	NewProductHandler(svc).RegisterRoutes(router.Group("/api/v1"), middleware.NewAuthMiddleware(jwtManager))
	return router, jwtManager
}

func serve(router *gin.Engine, method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestProductRoutes_PublicListShowsAvailableOnly(t *testing.T) {
	svc := &fakeProductService{}
	router, _ := newProductTestRouter(svc)

	w := serve(router, http.MethodGet, "/api/v1/products?category=flower&limit=5", "", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, svc.lastAvailableOnly)
	assert.Equal(t, "flower", svc.lastCategory)
	assert.Equal(t, 5, svc.lastLimit)
}

func TestProductRoutes_GetProduct(t *testing.T) {
	router, _ := newProductTestRouter(&fakeProductService{})

	assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/api/v1/products/p1", "", "").Code)
	assert.Equal(t, http.StatusNotFound, serve(router, http.MethodGet, "/api/v1/products/zzz", "", "").Code)
}

func TestProductRoutes_AdminGuard(t *testing.T) {
	svc := &fakeProductService{}
	router, jwtManager := newProductTestRouter(svc)
	body := `{"name":"Gelato","category":"flower","unit":"pound","price":1200}`

	w := serve(router, http.MethodPost, "/api/v1/admin/products", "", body)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	guest, err := jwtManager.GenerateToken("g1", auth.RoleGuest, "")
	require.NoError(t, err)
	w = serve(router, http.MethodPost, "/api/v1/admin/products", guest, body)
	assert.Equal(t, http.StatusForbidden, w.Code)

	admin, err := jwtManager.GenerateToken("a1", auth.RoleAdmin, "a@example.com")
	require.NoError(t, err)
	w = serve(router, http.MethodPost, "/api/v1/admin/products", admin, body)
	assert.Equal(t, http.StatusCreated, w.Code)
	require.NotNil(t, svc.created)
	assert.Equal(t, "Gelato", svc.created.Name)

	w = serve(router, http.MethodPost, "/api/v1/admin/products", admin, `{"name":"No price"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = serve(router, http.MethodGet, "/api/v1/admin/products", admin, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.False(t, svc.lastAvailableOnly)

	w = serve(router, http.MethodPut, "/api/v1/admin/products/p1", admin, `{"price":-1}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	svc.deleteErr = services.ErrProductNotFound
	w = serve(router, http.MethodDelete, "/api/v1/admin/products/p1", admin, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
