package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nguyenvanhieu6732/do-an-tot-nghiep/internal/domain/order"
)

// Payment methods accepted at checkout
const (
	PaymentMethodCOD   = "cod"
	PaymentMethodVNPay = "vnpay"
)

// CheckoutRequest represents a request to turn the cart into an order
type CheckoutRequest struct {
	Name           string `json:"name" binding:"required,max=200"`
	Address        string `json:"address" binding:"required"`
	Phone          string `json:"phone" binding:"required,max=20"`
	PaymentMethod  string `json:"payment_method" binding:"required,oneof=cod vnpay"`
	ShippingMethod string `json:"shipping_method" binding:"required,max=50"`
}

// UpdateStatusRequest represents an admin request to move an order to a
// new status
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=COMPLETED CANCELLED"`
}

// ListFilter represents order listing options
type ListFilter struct {
	Search   string `form:"search"`
	Status   string `form:"status" binding:"omitempty,oneof=PROCESSING COMPLETED CANCELLED"`
	UserID   string `form:"user_id"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// ItemResponse represents one order line in API responses
type ItemResponse struct {
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
	Color       string          `json:"color"`
	Size        string          `json:"size"`
	Amount      decimal.Decimal `json:"amount"`
}

// OrderResponse represents an order in API responses
type OrderResponse struct {
	ID             uuid.UUID       `json:"id"`
	Code           string          `json:"code"`
	Name           string          `json:"name"`
	Address        string          `json:"address"`
	Phone          string          `json:"phone"`
	PaymentMethod  string          `json:"payment_method"`
	ShippingMethod string          `json:"shipping_method"`
	TotalPrice     decimal.Decimal `json:"total_price"`
	Status         string          `json:"status"`
	PaidAt         *time.Time      `json:"paid_at,omitempty"`
	Items          []ItemResponse  `json:"items"`
	CreatedAt      time.Time       `json:"created_at"`
}

// ToOrderResponse converts a domain order to an order response
func ToOrderResponse(o *order.Order) *OrderResponse {
	items := make([]ItemResponse, 0, len(o.Items))
	for i := range o.Items {
		item := &o.Items[i]
		items = append(items, ItemResponse{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			UnitPrice:   item.UnitPrice,
			Quantity:    item.Quantity,
			Color:       item.Color,
			Size:        item.Size,
			Amount:      item.Amount(),
		})
	}

	return &OrderResponse{
		ID:             o.ID,
		Code:           o.Code,
		Name:           o.Name,
		Address:        o.Address,
		Phone:          o.Phone,
		PaymentMethod:  o.PaymentMethod,
		ShippingMethod: o.ShippingMethod,
		TotalPrice:     o.TotalPrice,
		Status:         o.Status.String(),
		PaidAt:         o.PaidAt,
		Items:          items,
		CreatedAt:      o.CreatedAt,
	}
}
