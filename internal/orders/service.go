package orders

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/goliatone/go-deepwood/internal/catalog"
	"github.com/goliatone/go-deepwood/internal/domain"
	"github.com/goliatone/go-deepwood/internal/logging"
	"github.com/goliatone/go-deepwood/internal/slugs"
	"github.com/goliatone/go-deepwood/pkg/interfaces"
	"github.com/google/uuid"
)

// DefaultNumberPrefix starts every order number unless configured otherwise.
const DefaultNumberPrefix = "DW"

const numberAttempts = 5

// ProductReader resolves the products referenced by an order.
type ProductReader interface {
	GetBySlug(ctx context.Context, slug string) (*catalog.Product, error)
}

type Service interface {
	Place(ctx context.Context, req PlaceOrderRequest) (*Order, error)
	Get(ctx context.Context, id uuid.UUID) (*Order, error)
	GetByNumber(ctx context.Context, number string) (*Order, error)
	List(ctx context.Context, opts ListOptions) ([]*Order, int, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status) (*Order, error)
}

type ItemRequest struct {
	Slug     string
	Quantity int
}

type PlaceOrderRequest struct {
	Customer Customer
	Items    []ItemRequest
	Locale   string
	Notes    string
}

type ServiceOption func(*service)

func WithClock(clock func() time.Time) ServiceOption {
	return func(s *service) {
		if clock != nil {
			s.now = clock
		}
	}
}

type IDGenerator func() uuid.UUID

func WithIDGenerator(generator IDGenerator) ServiceOption {
	return func(s *service) {
		if generator != nil {
			s.id = generator
		}
	}
}

func WithNumberPrefix(prefix string) ServiceOption {
	return func(s *service) {
		if prefix = strings.ToUpper(strings.TrimSpace(prefix)); prefix != "" {
			s.prefix = prefix
		}
	}
}

func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *service) {
		s.logger = logging.Ensure(logger)
	}
}

type service struct {
	repo     Repository
	products ProductReader
	now      func() time.Time
	id       IDGenerator
	prefix   string
	logger   interfaces.Logger
}

func NewService(repo Repository, products ProductReader, opts ...ServiceOption) Service {
	s := &service{
		repo:     repo,
		products: products,
		now:      time.Now,
		id:       uuid.New,
		prefix:   DefaultNumberPrefix,
		logger:   logging.NoOp(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var phonePattern = regexp.MustCompile(`^\+?[0-9 ()-]{6,20}$`)

func validateCustomer(c Customer) error {
	err := validation.ValidateStruct(&c,
		validation.Field(&c.Name, validation.Required, validation.Length(1, 120)),
		validation.Field(&c.Phone, validation.Required, validation.Match(phonePattern)),
		validation.Field(&c.Email, is.EmailFormat, validation.Length(0, 254)),
		validation.Field(&c.Address, validation.Length(0, 400)),
		validation.Field(&c.City, validation.Length(0, 120)),
	)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidCustomer, err)
	}
	return nil
}

func (s *service) Place(ctx context.Context, req PlaceOrderRequest) (*Order, error) {
	customer := Customer{
		Name:    strings.TrimSpace(req.Customer.Name),
		Email:   strings.TrimSpace(req.Customer.Email),
		Phone:   strings.TrimSpace(req.Customer.Phone),
		Address: strings.TrimSpace(req.Customer.Address),
		City:    strings.TrimSpace(req.Customer.City),
	}
	if err := validateCustomer(customer); err != nil {
		return nil, err
	}
	lang, err := slugs.ParseLanguage(req.Locale)
	if err != nil {
		return nil, err
	}

	items, currency, err := s.resolveItems(ctx, req.Items, lang)
	if err != nil {
		return nil, err
	}
	var subtotal int64
	for _, item := range items {
		subtotal += item.Total()
	}

	now := s.now().UTC()
	order := &Order{
		Customer:  customer,
		Items:     items,
		Subtotal:  subtotal,
		Currency:  currency,
		Locale:    lang.String(),
		Notes:     strings.TrimSpace(req.Notes),
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	for attempt := 0; attempt < numberAttempts; attempt++ {
		order.ID = s.id()
		order.Number = FormatNumber(s.prefix, now, order.ID)
		created, err := s.repo.Create(ctx, order)
		if err == nil {
			s.logger.Info("orders.placed", "order_number", created.Number, "items", len(created.Items), "subtotal", created.Subtotal)
			return created, nil
		}
		if !errors.Is(err, ErrNumberAlreadyExists) {
			return nil, err
		}
		s.logger.Warn("orders.number_collision", "order_number", order.Number, "attempt", attempt+1)
	}
	return nil, ErrNumberExhausted
}

// resolveItems merges repeated slugs and copies name and price from the catalog.
func (s *service) resolveItems(ctx context.Context, reqs []ItemRequest, lang slugs.Language) ([]Item, string, error) {
	if len(reqs) == 0 {
		return nil, "", ErrNoItems
	}
	quantities := map[string]int{}
	order := []string{}
	for _, r := range reqs {
		if r.Quantity <= 0 {
			return nil, "", fmt.Errorf("%w: %q", ErrInvalidQuantity, r.Slug)
		}
		slug := strings.TrimSpace(r.Slug)
		if _, seen := quantities[slug]; !seen {
			order = append(order, slug)
		}
		// compare before adding so the running total cannot overflow
		if r.Quantity > MaxItemQuantity-quantities[slug] {
			return nil, "", fmt.Errorf("%w: %q (max %d)", ErrQuantityTooLarge, slug, MaxItemQuantity)
		}
		quantities[slug] += r.Quantity
	}

	items := make([]Item, 0, len(order))
	currency := ""
	for _, slug := range order {
		product, err := s.products.GetBySlug(ctx, slug)
		if err != nil {
			if catalog.IsNotFound(err) {
				return nil, "", fmt.Errorf("%w: %q", ErrProductUnavailable, slug)
			}
			return nil, "", err
		}
		if product.Status != domain.StatusPublished {
			return nil, "", fmt.Errorf("%w: %q", ErrProductUnavailable, slug)
		}
		if currency == "" {
			currency = product.Currency
		} else if product.Currency != currency {
			return nil, "", ErrCurrencyMismatch
		}
		items = append(items, Item{
			ProductID: product.ID,
			Slug:      product.Slug,
			Name:      product.Name.Fallback(lang),
			Quantity:  quantities[slug],
			UnitPrice: product.Price,
		})
	}
	return items, currency, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*Order, error) {
	if id == uuid.Nil {
		return nil, ErrOrderIDMissing
	}
	return s.repo.GetByID(ctx, id)
}

func (s *service) GetByNumber(ctx context.Context, number string) (*Order, error) {
	return s.repo.GetByNumber(ctx, strings.ToUpper(strings.TrimSpace(number)))
}

func (s *service) List(ctx context.Context, opts ListOptions) ([]*Order, int, error) {
	if opts.Status != "" {
		if _, err := ParseStatus(string(opts.Status)); err != nil {
			return nil, 0, err
		}
	}
	return s.repo.List(ctx, opts)
}

func (s *service) UpdateStatus(ctx context.Context, id uuid.UUID, status Status) (*Order, error) {
	next, err := ParseStatus(string(status))
	if err != nil {
		return nil, err
	}
	order, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.Status == next {
		return order, nil
	}
	if !order.Status.CanTransition(next) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, order.Status, next)
	}
	from := order.Status
	order.Status = next
	order.UpdatedAt = s.now().UTC()
	updated, err := s.repo.Update(ctx, order)
	if err != nil {
		return nil, err
	}
	s.logger.Info("orders.status_changed", "order_number", updated.Number, "from", from, "to", next)
	return updated, nil
}

// FormatNumber renders PREFIX-YYYYMMDD-XXXXXX, the suffix taken from id.
func FormatNumber(prefix string, at time.Time, id uuid.UUID) string {
	hex := strings.ToUpper(strings.ReplaceAll(id.String(), "-", ""))
	return fmt.Sprintf("%s-%s-%s", prefix, at.UTC().Format("20060102"), hex[:6])
}
