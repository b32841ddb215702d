package settings

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-deepwood/internal/domain"
	"github.com/goliatone/go-deepwood/internal/identity"
)

// BunRepository persists settings as a single row keyed by identity.SettingsUUID.
type BunRepository struct {
	db          *bun.DB
	id          uuid.UUID
	now         func() time.Time
	broadcaster *broadcaster
}

func NewBunRepository(db *bun.DB) *BunRepository {
	return &BunRepository{
		db:          db,
		id:          identity.SettingsUUID(),
		now:         time.Now,
		broadcaster: newBroadcaster(),
	}
}

func (r *BunRepository) Get(ctx context.Context) (Settings, error) {
	if r.db == nil {
		return Settings{}, errors.New("settings: bun repository requires a database")
	}
	var model settingsModel
	if err := r.db.NewSelect().Model(&model).Where("?TableAlias.id = ?", r.id).Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Settings{}, ErrSettingsNotFound
		}
		return Settings{}, err
	}
	return model.toSettings(), nil
}

func (r *BunRepository) Upsert(ctx context.Context, s Settings) (Settings, error) {
	if r.db == nil {
		return Settings{}, errors.New("settings: bun repository requires a database")
	}

	previous, err := r.Get(ctx)
	created := false
	if err != nil {
		if !errors.Is(err, ErrSettingsNotFound) {
			return Settings{}, err
		}
		created = true
	}

	model := modelFromSettings(s)
	model.ID = r.id
	if model.UpdatedAt.IsZero() {
		model.UpdatedAt = r.now().UTC()
	}

	if created {
		if _, err := r.db.NewInsert().Model(&model).Exec(ctx); err != nil {
			return Settings{}, err
		}
	} else {
		if _, err := r.db.NewUpdate().Model(&model).WherePK().Exec(ctx); err != nil {
			return Settings{}, err
		}
	}

	stored, err := r.Get(ctx)
	if err != nil {
		return Settings{}, err
	}
	switch {
	case created:
		r.broadcaster.Broadcast(ChangeCreated, stored)
	case !equalSettings(previous, stored):
		r.broadcaster.Broadcast(ChangeUpdated, stored)
	}
	return stored, nil
}

func (r *BunRepository) Delete(ctx context.Context) error {
	if r.db == nil {
		return errors.New("settings: bun repository requires a database")
	}
	res, err := r.db.NewDelete().Model((*settingsModel)(nil)).Where("id = ?", r.id).Exec(ctx)
	if err != nil {
		return err
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return ErrSettingsNotFound
	}
	r.broadcaster.Broadcast(ChangeDeleted, Settings{})
	return nil
}

func (r *BunRepository) Subscribe(ctx context.Context) (<-chan ChangeEvent, error) {
	return r.broadcaster.Subscribe(ctx)
}

// Model returns the bun model used for migrations.
func Model() any {
	return (*settingsModel)(nil)
}

type settingsModel struct {
	bun.BaseModel `bun:"table:store_settings,alias:ss"`

	ID           uuid.UUID         `bun:",pk,type:uuid"`
	StoreName    domain.Text       `bun:"embed:store_name_"`
	Tagline      domain.Text       `bun:"embed:tagline_"`
	ContactEmail string            `bun:"contact_email,notnull"`
	Phone        string            `bun:"phone"`
	WhatsApp     string            `bun:"whatsapp"`
	Address      domain.Text       `bun:"embed:address_"`
	Currency     string            `bun:"currency,notnull"`
	Social       map[string]string `bun:"social,type:jsonb"`
	UpdatedAt    time.Time         `bun:"updated_at,nullzero,notnull"`
}

func modelFromSettings(s Settings) settingsModel {
	c := cloneSettings(s)
	return settingsModel{
		StoreName:    c.StoreName,
		Tagline:      c.Tagline,
		ContactEmail: c.ContactEmail,
		Phone:        c.Phone,
		WhatsApp:     c.WhatsApp,
		Address:      c.Address,
		Currency:     c.Currency,
		Social:       c.Social,
		UpdatedAt:    c.UpdatedAt,
	}
}

func (m settingsModel) toSettings() Settings {
	return cloneSettings(Settings{
		StoreName:    m.StoreName,
		Tagline:      m.Tagline,
		ContactEmail: m.ContactEmail,
		Phone:        m.Phone,
		WhatsApp:     m.WhatsApp,
		Address:      m.Address,
		Currency:     m.Currency,
		Social:       m.Social,
		UpdatedAt:    m.UpdatedAt,
	})
}
