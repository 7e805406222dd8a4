package services

import "errors"

var (
	ErrSessionRequired     = errors.New("cart session required")
	ErrEmptyCart           = errors.New("cart is empty")
	ErrShippingNotSelected = errors.New("shipping carrier and speed must be selected")
	ErrPaymentNotSelected  = errors.New("payment method must be selected")
	ErrInvalidSelection    = errors.New("invalid shipping or payment selection")
	ErrInvalidQuantity     = errors.New("quantity must be at least 1")
	ErrUnpricedItem        = errors.New("cart contains an item without a price")

	ErrInvalidProductID   = errors.New("invalid product ID")
	ErrProductNotFound    = errors.New("product not found")
	ErrProductUnavailable = errors.New("product is not available")
	ErrVariantUnavailable = errors.New("product has no quarter-pound variant")
	ErrInvalidProduct     = errors.New("invalid product")

	ErrInvalidOrderID = errors.New("invalid order ID")
	ErrOrderNotFound  = errors.New("order not found")
	ErrNotifyFailed   = errors.New("order notification failed")

	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidAdminID     = errors.New("invalid admin ID")
	ErrAdminNotFound      = errors.New("admin not found")
	ErrAdminExists        = errors.New("admin with this email already exists")
	ErrCannotDeleteSelf   = errors.New("admins cannot delete their own account")
	ErrInvalidToken       = errors.New("invalid or expired token")
)
