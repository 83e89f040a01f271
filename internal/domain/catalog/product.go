package catalog

import (
	"time"

	"github.com/nguyenvanhieu6732/do-an-tot-nghiep/internal/domain/shared"
	"github.com/nguyenvanhieu6732/do-an-tot-nghiep/internal/domain/shared/textutil"
	"github.com/nguyenvanhieu6732/do-an-tot-nghiep/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// ProductStatus represents the status of a product
type ProductStatus string

const (
	ProductStatusActive   ProductStatus = "active"
	ProductStatusInactive ProductStatus = "inactive"
)

// Product represents a catalog item
// It is the aggregate root for product-related operations
type Product struct {
	shared.BaseAggregateRoot
	Name          string           `gorm:"type:varchar(200);not null"`
	NameFolded    string           `gorm:"type:varchar(200);not null;index"` // diacritic-free lowercase name for search
	Description   string           `gorm:"type:text"`
	Price         decimal.Decimal  `gorm:"type:decimal(18,0);not null;default:0"`
	DiscountPrice *decimal.Decimal `gorm:"type:decimal(18,0)"`
	Stock         int              `gorm:"not null;default:0"`
	Image         []byte           `gorm:"type:bytea"` // inline image payload, re-encoded as a data URL in responses
	Status        ProductStatus    `gorm:"type:varchar(20);not null;default:'active'"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new product
func NewProduct(name string, price decimal.Decimal, stock int) (*Product, error) {
	if err := validateProductName(name); err != nil {
		return nil, err
	}
	if price.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}
	if stock < 0 {
		return nil, shared.NewDomainError("INVALID_STOCK", "Stock cannot be negative")
	}

	return &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		NameFolded:        textutil.Fold(name),
		Price:             price,
		Stock:             stock,
		Status:            ProductStatusActive,
	}, nil
}

// Update updates the product's basic information
func (p *Product) Update(name, description string) error {
	if err := validateProductName(name); err != nil {
		return err
	}

	p.Name = name
	p.NameFolded = textutil.Fold(name)
	p.Description = description
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// SetPrice sets the product's list price
func (p *Product) SetPrice(price valueobject.Money) error {
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}

	p.Price = price.Amount()
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// SetDiscountPrice sets an optional discounted price. A nil value clears the
// discount. The discount must stay below the list price to be meaningful.
func (p *Product) SetDiscountPrice(price *valueobject.Money) error {
	if price == nil {
		p.DiscountPrice = nil
	} else {
		if price.IsNegative() {
			return shared.NewDomainError("INVALID_PRICE", "Discount price cannot be negative")
		}
		if price.Amount().GreaterThanOrEqual(p.Price) {
			return shared.NewDomainError("INVALID_PRICE", "Discount price must be below the list price")
		}
		amount := price.Amount()
		p.DiscountPrice = &amount
	}

	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// SetStock sets the stock count
func (p *Product) SetStock(stock int) error {
	if stock < 0 {
		return shared.NewDomainError("INVALID_STOCK", "Stock cannot be negative")
	}

	p.Stock = stock
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// SetImage replaces the stored image payload
func (p *Product) SetImage(image []byte) {
	p.Image = image
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// Activate activates the product
func (p *Product) Activate() error {
	if p.Status == ProductStatusActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "Product is already active")
	}

	p.Status = ProductStatusActive
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// Deactivate hides the product from the public catalog
func (p *Product) Deactivate() error {
	if p.Status == ProductStatusInactive {
		return shared.NewDomainError("ALREADY_INACTIVE", "Product is already inactive")
	}

	p.Status = ProductStatusInactive
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// IsActive returns true if the product is active
func (p *Product) IsActive() bool {
	return p.Status == ProductStatusActive
}

// HasDiscount returns true if a discount price is set
func (p *Product) HasDiscount() bool {
	return p.DiscountPrice != nil
}

// EffectivePrice returns the price a buyer actually pays: the discount
// price when one is set, otherwise the list price.
func (p *Product) EffectivePrice() decimal.Decimal {
	if p.DiscountPrice != nil {
		return *p.DiscountPrice
	}
	return p.Price
}

// EffectivePriceMoney returns the effective price as a Money value object
func (p *Product) EffectivePriceMoney() valueobject.Money {
	return valueobject.NewMoneyVND(p.EffectivePrice())
}

// InStock returns true if at least the requested quantity is available
func (p *Product) InStock(quantity int) bool {
	return p.Stock >= quantity
}

// validateProductName validates the product name
func validateProductName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 200 characters")
	}
	return nil
}
