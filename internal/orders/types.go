package orders

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

var (
	ErrOrderIDMissing      = errors.New("orders: order id required")
	ErrNoItems             = errors.New("orders: at least one item is required")
	ErrInvalidQuantity     = errors.New("orders: quantity must be positive")
	ErrQuantityTooLarge    = errors.New("orders: quantity exceeds the per-item limit")
	ErrProductUnavailable  = errors.New("orders: product is not available")
	ErrCurrencyMismatch    = errors.New("orders: items use different currencies")
	ErrInvalidCustomer     = errors.New("orders: invalid customer details")
	ErrInvalidStatus       = errors.New("orders: invalid status")
	ErrInvalidTransition   = errors.New("orders: status transition not allowed")
	ErrNumberExhausted     = errors.New("orders: could not allocate an order number")
	ErrNumberAlreadyExists = errors.New("orders: order number already exists")
)

// MaxItemQuantity caps one line's quantity after repeated slugs are merged.
const MaxItemQuantity = 999

// Status is the fulfilment state of an order.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusShipped   Status = "shipped"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
)

var transitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusShipped, StatusCancelled},
	StatusShipped:   {StatusDelivered},
}

func ParseStatus(value string) (Status, error) {
	s := Status(strings.ToLower(strings.TrimSpace(value)))
	switch s {
	case StatusPending, StatusConfirmed, StatusShipped, StatusDelivered, StatusCancelled:
		return s, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, value)
}

// CanTransition reports whether an order in s may move to next.
func (s Status) CanTransition(next Status) bool {
	return slices.Contains(transitions[s], next)
}

// Terminal reports whether no further transitions exist.
func (s Status) Terminal() bool {
	return len(transitions[s]) == 0
}

type Customer struct {
	Name    string `bun:"name"    json:"name"              bson:"name"`
	Email   string `bun:"email"   json:"email,omitempty"   bson:"email,omitempty"`
	Phone   string `bun:"phone"   json:"phone"             bson:"phone"`
	Address string `bun:"address" json:"address,omitempty" bson:"address,omitempty"`
	City    string `bun:"city"    json:"city,omitempty"    bson:"city,omitempty"`
}

// Item is an order line. Slug, name and price are copied from the product
// when the order is placed.
type Item struct {
	ProductID uuid.UUID `json:"product_id"`
	Slug      string    `json:"slug"`
	Name      string    `json:"name"`
	Quantity  int       `json:"quantity"`
	UnitPrice int64     `json:"unit_price"`
}

func (i Item) Total() int64 {
	return i.UnitPrice * int64(i.Quantity)
}

type Order struct {
	bun.BaseModel `bun:"table:orders,alias:o"`

	ID        uuid.UUID `bun:",pk,type:uuid"            json:"id"`
	Number    string    `bun:"number,notnull,unique"    json:"number"`
	Customer  Customer  `bun:"embed:customer_"          json:"customer"`
	Items     []Item    `bun:"items,type:jsonb"         json:"items"`
	Subtotal  int64     `bun:"subtotal,notnull"         json:"subtotal"`
	Currency  string    `bun:"currency,notnull"         json:"currency"`
	Locale    string    `bun:"locale,notnull"           json:"locale"`
	Notes     string    `bun:"notes"                    json:"notes,omitempty"`
	Status    Status    `bun:"status,notnull,default:'pending'" json:"status"`
	CreatedAt time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

type ListOptions struct {
	Status Status
	Limit  int
	Offset int
}

// Repository persists orders. Create returns ErrNumberAlreadyExists when
// the order number is taken.
type Repository interface {
	Create(ctx context.Context, record *Order) (*Order, error)
	Update(ctx context.Context, record *Order) (*Order, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Order, error)
	GetByNumber(ctx context.Context, number string) (*Order, error)
	List(ctx context.Context, opts ListOptions) ([]*Order, int, error)
}

type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %q not found", e.Resource, e.Key)
}

func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

func cloneOrder(src *Order) *Order {
	if src == nil {
		return nil
	}
	copied := *src
	copied.Items = slices.Clone(src.Items)
	return &copied
}
