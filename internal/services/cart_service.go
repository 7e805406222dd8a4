package services

import (
	"context"
	"errors"
	"strings"

	"storefront-backend/internal/models"

	"go.uber.org/zap"
)

const (
	VariantStandard = "standard"
	VariantQP       = "qp"

	qpLineSuffix = ":qp"
)

// ProductLookup resolves catalog products for the cart.
type ProductLookup interface {
	GetProduct(ctx context.Context, productID string) (*models.Product, error)
}

type CartService struct {
	sessions *CartSessions
	products ProductLookup
	logger   *zap.Logger
}

func NewCartService(sessions *CartSessions, products ProductLookup, logger *zap.Logger) *CartService {
	return &CartService{
		sessions: sessions,
		products: products,
		logger:   logger,
	}
}

type AddToCartRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Variant   string `json:"variant" binding:"omitempty,oneof=standard qp"`
	Quantity  int    `json:"quantity" binding:"required,gt=0"`
}

type UpdateCartItemRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

type LoadCartRequest struct {
	Items []models.LineItem `json:"items"`
}

type SetShippingRequest struct {
	Carrier models.ShippingCarrier `json:"carrier"`
	Speed   models.ShippingSpeed   `json:"speed"`
}

type SetPaymentRequest struct {
	PaymentMethod models.PaymentMethod `json:"payment_method"`
}

// CartResponse is the cart as shown to the customer. Breakdown amounts are
// rounded for display by the handler.
type CartResponse struct {
	Cart      models.CartState     `json:"cart"`
	Breakdown models.CostBreakdown `json:"breakdown"`
}

func (s *CartService) store(ctx context.Context, sessionID string) (*CartStore, error) {
	if sessionID == "" {
		return nil, ErrSessionRequired
	}
	return s.sessions.Get(ctx, sessionID), nil
}

func (s *CartService) respond(store *CartStore) *CartResponse {
	state, breakdown := store.SnapshotWithBreakdown()
	return &CartResponse{Cart: state, Breakdown: breakdown}
}

func (s *CartService) GetCart(ctx context.Context, sessionID string) (*CartResponse, error) {
	store, err := s.store(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return s.respond(store), nil
}

// AddToCart resolves the product from the catalog and adds the chosen variant.
// The line item leaves this method with its final unit price and unit type.
func (s *CartService) AddToCart(ctx context.Context, sessionID string, req *AddToCartRequest) (*CartResponse, error) {
	if req.Quantity < 1 {
		return nil, ErrInvalidQuantity
	}
	store, err := s.store(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	product, err := s.products.GetProduct(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}
	if !product.IsAvailable {
		return nil, ErrProductUnavailable
	}

	item, err := lineItemFor(product, req.Variant)
	if err != nil {
		return nil, err
	}

	store.AddItem(ctx, item, req.Quantity)

	s.logger.Debug("added item to cart",
		zap.String("session_id", sessionID),
		zap.String("item_id", item.ID),
		zap.Int("quantity", req.Quantity))

	return s.respond(store), nil
}

func lineItemFor(product *models.Product, variant string) (models.LineItem, error) {
	item := models.LineItem{
		ID:       product.ID.Hex(),
		Name:     product.Name,
		Category: product.Category,
		Unit:     product.Unit,
		Image:    product.FirstImage(),
	}

	if variant == VariantQP {
		if !product.HasQPVariant() {
			return models.LineItem{}, ErrVariantUnavailable
		}
		item.ID += qpLineSuffix
		item.Name += " QP"
		item.Unit = "QP"
		item.UnitPrice = *product.QPPrice
		item.IsQP = true
		item.UnitType = models.UnitQP
		return item, nil
	}

	item.UnitPrice = product.EffectivePrice()
	item.OnSale = product.IsOnSale()
	if product.Unit == string(models.UnitPound) {
		item.UnitType = models.UnitPound
	} else {
		item.UnitType = models.UnitPiece
	}
	return item, nil
}

// UpdateCartItem sets a line quantity; zero or less removes the line.
func (s *CartService) UpdateCartItem(ctx context.Context, sessionID, itemID string, quantity int) (*CartResponse, error) {
	store, err := s.store(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	store.UpdateQuantity(ctx, itemID, quantity)
	return s.respond(store), nil
}

func (s *CartService) RemoveFromCart(ctx context.Context, sessionID, itemID string) (*CartResponse, error) {
	store, err := s.store(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	store.RemoveItem(ctx, itemID)
	return s.respond(store), nil
}

func (s *CartService) ClearCart(ctx context.Context, sessionID string) error {
	store, err := s.store(ctx, sessionID)
	if err != nil {
		return err
	}
	store.ClearCart(ctx)
	return nil
}

// LoadCart replaces the session's item list, e.g. when a client restores a
// cart it kept locally. Only line ids and quantities are taken from the
// client. Every line is priced again from the catalog, and lines whose product
// is gone, unavailable or lacks the variant are dropped.
func (s *CartService) LoadCart(ctx context.Context, sessionID string, items []models.LineItem) (*CartResponse, error) {
	store, err := s.store(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	resolved, err := s.resolveLines(ctx, items)
	if err != nil {
		return nil, err
	}
	store.LoadCart(ctx, resolved)
	return s.respond(store), nil
}

func (s *CartService) resolveLines(ctx context.Context, items []models.LineItem) ([]models.LineItem, error) {
	resolved := make([]models.LineItem, 0, len(items))
	for _, line := range items {
		if line.Quantity <= 0 {
			continue
		}
		productID, variant := splitLineID(line.ID)

		product, err := s.products.GetProduct(ctx, productID)
		if errors.Is(err, ErrProductNotFound) || errors.Is(err, ErrInvalidProductID) {
			s.logger.Info("dropping unknown cart line", zap.String("item_id", line.ID))
			continue
		}
		if err != nil {
			return nil, err
		}
		if !product.IsAvailable {
			s.logger.Info("dropping unavailable cart line", zap.String("item_id", line.ID))
			continue
		}

		item, err := lineItemFor(product, variant)
		if err != nil {
			s.logger.Info("dropping cart line", zap.String("item_id", line.ID), zap.Error(err))
			continue
		}
		item.Quantity = line.Quantity
		resolved = append(resolved, item)
	}
	return resolved, nil
}

// splitLineID maps a cart line id back to its product id and variant.
func splitLineID(lineID string) (string, string) {
	if productID, ok := strings.CutSuffix(lineID, qpLineSuffix); ok {
		return productID, VariantQP
	}
	return lineID, VariantStandard
}

// SetShipping records the carrier and speed as given. Values are checked only
// at checkout.
func (s *CartService) SetShipping(ctx context.Context, sessionID string, carrier models.ShippingCarrier, speed models.ShippingSpeed) (*CartResponse, error) {
	store, err := s.store(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	store.SetShippingCarrier(carrier)
	store.SetShippingSpeed(speed)
	return s.respond(store), nil
}

func (s *CartService) SetPayment(ctx context.Context, sessionID string, method models.PaymentMethod) (*CartResponse, error) {
	store, err := s.store(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	store.SetPaymentMethod(method)
	return s.respond(store), nil
}

func (s *CartService) GetCostBreakdown(ctx context.Context, sessionID string) (*models.CostBreakdown, error) {
	store, err := s.store(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	breakdown := store.CostBreakdown()
	return &breakdown, nil
}
