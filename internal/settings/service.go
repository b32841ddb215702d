package settings

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"strings"
	"time"

	"github.com/goliatone/go-deepwood/internal/domain"
	"github.com/goliatone/go-deepwood/internal/logging"
	"github.com/goliatone/go-deepwood/pkg/interfaces"
)

// Service exposes storefront settings.
type Service interface {
	// Get returns persisted settings, or the defaults when none were saved.
	Get(ctx context.Context) (Settings, error)
	Update(ctx context.Context, req UpdateRequest) (Settings, error)
	// Reset removes persisted settings so Get returns the defaults again.
	Reset(ctx context.Context) error
	Defaults() Settings
	Subscribe(ctx context.Context) (<-chan ChangeEvent, error)
}

// UpdateRequest is a partial update; nil fields are left unchanged.
type UpdateRequest struct {
	StoreName    *domain.Text      `json:"store_name,omitempty"`
	Tagline      *domain.Text      `json:"tagline,omitempty"`
	ContactEmail *string           `json:"contact_email,omitempty"`
	Phone        *string           `json:"phone,omitempty"`
	WhatsApp     *string           `json:"whatsapp,omitempty"`
	Address      *domain.Text      `json:"address,omitempty"`
	Currency     *string           `json:"currency,omitempty"`
	Social       map[string]string `json:"social,omitempty"`
}

type ServiceOption func(*service)

func WithClock(clock func() time.Time) ServiceOption {
	return func(s *service) {
		if clock != nil {
			s.now = clock
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
	defaults Settings
	now      func() time.Time
	logger   interfaces.Logger
}

// NewService builds the settings service. defaults is the value table
// returned until an operator saves settings.
func NewService(repo Repository, defaults Settings, opts ...ServiceOption) Service {
	s := &service{
		repo:     repo,
		defaults: cloneSettings(defaults),
		now:      time.Now,
		logger:   logging.NoOp(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) Defaults() Settings {
	return cloneSettings(s.defaults)
}

func (s *service) Get(ctx context.Context) (Settings, error) {
	stored, err := s.repo.Get(ctx)
	if err != nil {
		if errors.Is(err, ErrSettingsNotFound) {
			return s.Defaults(), nil
		}
		return Settings{}, err
	}
	return stored, nil
}

func (s *service) Update(ctx context.Context, req UpdateRequest) (Settings, error) {
	current, err := s.Get(ctx)
	if err != nil {
		return Settings{}, err
	}

	next := applyUpdate(current, req)
	if err := next.Validate(); err != nil {
		return Settings{}, fmt.Errorf("%w: %w", ErrInvalidSettings, err)
	}
	next.UpdatedAt = s.now().UTC()

	saved, err := s.repo.Upsert(ctx, next)
	if err != nil {
		s.logger.Error("settings.update_failed", "error", err)
		return Settings{}, err
	}
	s.logger.Info("settings.updated", "store_name", saved.StoreName.En, "currency", saved.Currency)
	return saved, nil
}

func (s *service) Reset(ctx context.Context) error {
	if err := s.repo.Delete(ctx); err != nil && !errors.Is(err, ErrSettingsNotFound) {
		return err
	}
	s.logger.Info("settings.reset")
	return nil
}

func (s *service) Subscribe(ctx context.Context) (<-chan ChangeEvent, error) {
	return s.repo.Subscribe(ctx)
}

func applyUpdate(current Settings, req UpdateRequest) Settings {
	next := cloneSettings(current)
	next.StoreName = next.StoreName.Merge(req.StoreName)
	next.Tagline = next.Tagline.Merge(req.Tagline)
	next.Address = next.Address.Merge(req.Address)
	if req.ContactEmail != nil {
		next.ContactEmail = strings.TrimSpace(*req.ContactEmail)
	}
	if req.Phone != nil {
		next.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.WhatsApp != nil {
		next.WhatsApp = strings.TrimSpace(*req.WhatsApp)
	}
	if req.Currency != nil {
		next.Currency = strings.ToUpper(strings.TrimSpace(*req.Currency))
	}
	if req.Social != nil {
		next.Social = maps.Clone(req.Social)
	}
	return next
}
