package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nguyenvanhieu6732/do-an-tot-nghiep/internal/domain/shared"
	"github.com/nguyenvanhieu6732/do-an-tot-nghiep/internal/domain/shared/valueobject"
)

// Status represents the status of an order
type Status string

const (
	StatusProcessing Status = "PROCESSING"
	StatusCompleted  Status = "COMPLETED"
	StatusCancelled  Status = "CANCELLED"
)

// IsValid checks if the status is a valid order Status
func (s Status) IsValid() bool {
	switch s {
	case StatusProcessing, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s Status) CanTransitionTo(target Status) bool {
	switch s {
	case StatusProcessing:
		return target == StatusCompleted || target == StatusCancelled
	case StatusCompleted, StatusCancelled:
		return false // Terminal states
	}
	return false
}

// Item represents a line item copied from the cart at checkout time.
// ProductName and UnitPrice are snapshots; later catalog edits do not
// change what the order records.
type Item struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null"`
	ProductName string          `gorm:"type:varchar(200);not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,0);not null"`
	Quantity    int             `gorm:"not null"`
	Color       string          `gorm:"type:varchar(50);not null;default:''"`
	Size        string          `gorm:"type:varchar(20);not null;default:''"`
	CreatedAt   time.Time
}

// TableName returns the table name for GORM
func (Item) TableName() string {
	return "order_items"
}

// Amount returns quantity times the snapshot unit price
func (i *Item) Amount() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Order is a snapshot of a checkout. The total is computed once at
// creation time and never recomputed.
type Order struct {
	shared.BaseAggregateRoot
	Code           string          `gorm:"type:varchar(32);not null;uniqueIndex"`
	UserID         string          `gorm:"type:varchar(64);not null;index"`
	Name           string          `gorm:"type:varchar(200);not null"`
	Address        string          `gorm:"type:text;not null"`
	Phone          string          `gorm:"type:varchar(20);not null"`
	PaymentMethod  string          `gorm:"type:varchar(50);not null"`
	ShippingMethod string          `gorm:"type:varchar(50);not null"`
	TotalPrice     decimal.Decimal `gorm:"type:decimal(18,0);not null"`
	Status         Status          `gorm:"type:varchar(20);not null;default:'PROCESSING'"`
	PaidAt         *time.Time
	Items          []Item `gorm:"foreignKey:OrderID"`
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "orders"
}

// NewOrder creates a new order in PROCESSING status with no items.
// Items are added before the order is persisted; the total is derived
// from them exactly once.
func NewOrder(code, userID, name, address, phone, paymentMethod, shippingMethod string) (*Order, error) {
	if code == "" {
		return nil, shared.NewDomainError("INVALID_CODE", "Order code cannot be empty")
	}
	if userID == "" {
		return nil, shared.NewDomainError("INVALID_USER", "User ID cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Recipient name cannot be empty")
	}
	if address == "" {
		return nil, shared.NewDomainError("INVALID_ADDRESS", "Shipping address cannot be empty")
	}
	if phone == "" {
		return nil, shared.NewDomainError("INVALID_PHONE", "Phone cannot be empty")
	}
	if paymentMethod == "" {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", "Payment method cannot be empty")
	}
	if shippingMethod == "" {
		return nil, shared.NewDomainError("INVALID_SHIPPING_METHOD", "Shipping method cannot be empty")
	}

	return &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              code,
		UserID:            userID,
		Name:              name,
		Address:           address,
		Phone:             phone,
		PaymentMethod:     paymentMethod,
		ShippingMethod:    shippingMethod,
		TotalPrice:        decimal.Zero,
		Status:            StatusProcessing,
		Items:             make([]Item, 0),
	}, nil
}

// AddItem appends a line item and folds its amount into the total.
// Only allowed while the order has not been persisted in a terminal flow;
// orders are assembled once at checkout.
func (o *Order) AddItem(productID uuid.UUID, productName string, unitPrice valueobject.Money, quantity int, color, size string) (*Item, error) {
	if o.Status != StatusProcessing {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot add items to a finalized order")
	}
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if productName == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot be empty")
	}
	if quantity < 1 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be at least 1")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}

	item := Item{
		ID:          uuid.New(),
		OrderID:     o.ID,
		ProductID:   productID,
		ProductName: productName,
		UnitPrice:   unitPrice.Amount(),
		Quantity:    quantity,
		Color:       color,
		Size:        size,
		CreatedAt:   time.Now(),
	}

	o.Items = append(o.Items, item)
	o.recalculateTotal()

	return &o.Items[len(o.Items)-1], nil
}

// Cancel transitions the order to CANCELLED. Only PROCESSING orders can
// be cancelled.
func (o *Order) Cancel() error {
	if !o.Status.CanTransitionTo(StatusCancelled) {
		return shared.NewDomainError("INVALID_STATE", "Only processing orders can be cancelled")
	}

	o.Status = StatusCancelled
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	return nil
}

// Complete transitions the order to COMPLETED, recording when payment
// was captured.
func (o *Order) Complete(paidAt time.Time) error {
	if !o.Status.CanTransitionTo(StatusCompleted) {
		return shared.NewDomainError("INVALID_STATE", "Only processing orders can be completed")
	}

	o.Status = StatusCompleted
	o.PaidAt = &paidAt
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	return nil
}

// IsProcessing returns true if the order awaits fulfillment
func (o *Order) IsProcessing() bool {
	return o.Status == StatusProcessing
}

// IsTerminal returns true if the order is in a terminal state
func (o *Order) IsTerminal() bool {
	return o.Status == StatusCompleted || o.Status == StatusCancelled
}

// BelongsTo reports whether the order is owned by the given user
func (o *Order) BelongsTo(userID string) bool {
	return o.UserID == userID
}

// TotalPriceMoney returns the total as a Money value object
func (o *Order) TotalPriceMoney() valueobject.Money {
	return valueobject.NewMoneyVND(o.TotalPrice)
}

// ItemCount returns the number of line items
func (o *Order) ItemCount() int {
	return len(o.Items)
}

func (o *Order) recalculateTotal() {
	total := decimal.Zero
	for i := range o.Items {
		total = total.Add(o.Items[i].Amount())
	}
	o.TotalPrice = total
	o.UpdatedAt = time.Now()
}
