package settings

import (
	"context"
	"errors"
	"maps"
	"regexp"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/goliatone/go-deepwood/internal/domain"
)

// ErrSettingsNotFound indicates that no operator settings have been saved yet.
var ErrSettingsNotFound = errors.New("settings: settings not found")

// ErrInvalidSettings wraps ozzo validation errors returned by Update.
var ErrInvalidSettings = errors.New("settings: invalid settings")

// Settings is the storefront's single configuration record.
type Settings struct {
	StoreName    domain.Text       `json:"store_name"`
	Tagline      domain.Text       `json:"tagline"`
	ContactEmail string            `json:"contact_email"`
	Phone        string            `json:"phone,omitempty"`
	WhatsApp     string            `json:"whatsapp,omitempty"`
	Address      domain.Text       `json:"address"`
	Currency     string            `json:"currency"`
	Social       map[string]string `json:"social,omitempty"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

// Repository persists the settings record and emits change notifications.
type Repository interface {
	Get(ctx context.Context) (Settings, error)
	Upsert(ctx context.Context, settings Settings) (Settings, error)
	Delete(ctx context.Context) error
	Subscribe(ctx context.Context) (<-chan ChangeEvent, error)
}

var (
	currencyPattern = regexp.MustCompile(`^[A-Z]{3}$`)
	phonePattern    = regexp.MustCompile(`^\+?[0-9 ()-]{6,20}$`)
)

// Validate checks field formats and lengths.
func (s Settings) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.StoreName, validation.By(textRule(true, 120))),
		validation.Field(&s.Tagline, validation.By(textRule(false, 240))),
		validation.Field(&s.Address, validation.By(textRule(false, 400))),
		validation.Field(&s.ContactEmail, validation.Required, is.EmailFormat, validation.Length(3, 254)),
		validation.Field(&s.Phone, validation.Match(phonePattern)),
		validation.Field(&s.WhatsApp, validation.Match(phonePattern)),
		validation.Field(&s.Currency, validation.Required, validation.Match(currencyPattern)),
		validation.Field(&s.Social, validation.Each(validation.Length(1, 300))),
	)
}

func textRule(required bool, limit int) validation.RuleFunc {
	return func(value any) error {
		text, _ := value.(domain.Text)
		if required && strings.TrimSpace(text.En) == "" && strings.TrimSpace(text.Ar) == "" {
			return validation.NewError("settings.text_required", "a value in at least one language is required")
		}
		if len([]rune(text.En)) > limit || len([]rune(text.Ar)) > limit {
			return validation.NewError("settings.text_too_long", "value is too long")
		}
		return nil
	}
}

func cloneSettings(src Settings) Settings {
	out := src
	if src.Social != nil {
		out.Social = maps.Clone(src.Social)
	}
	return out
}

func equalSettings(a, b Settings) bool {
	return a.StoreName == b.StoreName &&
		a.Tagline == b.Tagline &&
		a.ContactEmail == b.ContactEmail &&
		a.Phone == b.Phone &&
		a.WhatsApp == b.WhatsApp &&
		a.Address == b.Address &&
		a.Currency == b.Currency &&
		maps.Equal(a.Social, b.Social)
}
