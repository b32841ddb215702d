package settings_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-deepwood/internal/domain"
	"github.com/goliatone/go-deepwood/internal/settings"
	"github.com/goliatone/go-deepwood/pkg/testsupport"
)

func defaults() settings.Settings {
	return settings.Settings{
		StoreName:    domain.Text{En: "Deep Wood", Ar: "ديب وود"},
		Tagline:      domain.Text{En: "Handcrafted wooden furniture"},
		ContactEmail: "info@deepwood.sa",
		Currency:     "SAR",
	}
}

func fixedClock() time.Time {
	return time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
}

func ptr[T any](v T) *T { return &v }

func TestGetReturnsDefaultsUntilSaved(t *testing.T) {
	svc := settings.NewService(settings.NewMemoryRepository(), defaults())

	got, err := svc.Get(context.Background())
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.StoreName.En != "Deep Wood" || got.Currency != "SAR" {
		t.Fatalf("expected defaults, got %+v", got)
	}
}

func TestUpdateMergesPartialRequest(t *testing.T) {
	ctx := context.Background()
	svc := settings.NewService(settings.NewMemoryRepository(), defaults(), settings.WithClock(fixedClock))

	updated, err := svc.Update(ctx, settings.UpdateRequest{
		Tagline:  &domain.Text{Ar: "أثاث خشبي"},
		Phone:    ptr("+966 50 000 0000"),
		Currency: ptr("usd"),
		Social:   map[string]string{"instagram": "https://instagram.com/deepwood"},
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Tagline.En != "Handcrafted wooden furniture" || updated.Tagline.Ar != "أثاث خشبي" {
		t.Fatalf("unexpected tagline %+v", updated.Tagline)
	}
	if updated.Currency != "USD" {
		t.Fatalf("expected currency upper-cased, got %q", updated.Currency)
	}
	if !updated.UpdatedAt.Equal(fixedClock()) {
		t.Fatalf("expected UpdatedAt from clock, got %s", updated.UpdatedAt)
	}

	again, err := svc.Get(ctx)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if again.Phone != "+966 50 000 0000" || again.Social["instagram"] == "" {
		t.Fatalf("update not persisted: %+v", again)
	}
	if svc.Defaults().Phone != "" {
		t.Fatalf("defaults must not be mutated")
	}
}

func TestUpdateRejectsInvalidValues(t *testing.T) {
	svc := settings.NewService(settings.NewMemoryRepository(), defaults())

	cases := map[string]settings.UpdateRequest{
		"email":    {ContactEmail: ptr("not-an-email")},
		"currency": {Currency: ptr("riyal")},
		"phone":    {Phone: ptr("call me")},
	}
	for name, req := range cases {
		if _, err := svc.Update(context.Background(), req); !errors.Is(err, settings.ErrInvalidSettings) {
			t.Fatalf("%s: expected ErrInvalidSettings, got %v", name, err)
		}
	}
}

func TestResetRestoresDefaults(t *testing.T) {
	ctx := context.Background()
	svc := settings.NewService(settings.NewMemoryRepository(), defaults())

	if _, err := svc.Update(ctx, settings.UpdateRequest{StoreName: &domain.Text{En: "Deep Wood Jeddah"}}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if err := svc.Reset(ctx); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if err := svc.Reset(ctx); err != nil {
		t.Fatalf("second Reset should be a no-op, got %v", err)
	}
	got, _ := svc.Get(ctx)
	if got.StoreName.En != "Deep Wood" {
		t.Fatalf("expected defaults after reset, got %q", got.StoreName.En)
	}
}

func TestSubscribeReceivesChanges(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	svc := settings.NewService(settings.NewMemoryRepository(), defaults())

	events, err := svc.Subscribe(ctx)
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	if _, err := svc.Update(ctx, settings.UpdateRequest{WhatsApp: ptr("+966500000001")}); err != nil {
		t.Fatalf("Update: %v", err)
	}

	select {
	case evt := <-events:
		if evt.Type != settings.ChangeCreated || evt.Settings.WhatsApp != "+966500000001" {
			t.Fatalf("unexpected event %+v", evt)
		}
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for change event")
	}
}

func TestBunRepositoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	db := testsupport.NewBunDB(t, settings.Model())
	repo := settings.NewBunRepository(db)

	if _, err := repo.Get(ctx); !errors.Is(err, settings.ErrSettingsNotFound) {
		t.Fatalf("expected ErrSettingsNotFound, got %v", err)
	}

	svc := settings.NewService(repo, defaults(), settings.WithClock(fixedClock))
	if _, err := svc.Update(ctx, settings.UpdateRequest{
		Address: &domain.Text{En: "King Fahd Rd, Riyadh", Ar: "طريق الملك فهد، الرياض"},
		Social:  map[string]string{"x": "https://x.com/deepwood"},
	}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if _, err := svc.Update(ctx, settings.UpdateRequest{Phone: ptr("+966112223333")}); err != nil {
		t.Fatalf("second Update: %v", err)
	}

	stored, err := repo.Get(ctx)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if stored.Address.Ar != "طريق الملك فهد، الرياض" || stored.StoreName.Ar != "ديب وود" {
		t.Fatalf("unexpected stored settings %+v", stored)
	}
	if stored.Phone != "+966112223333" || stored.Social["x"] != "https://x.com/deepwood" {
		t.Fatalf("second update lost fields: %+v", stored)
	}

	if err := repo.Delete(ctx); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := repo.Delete(ctx); !errors.Is(err, settings.ErrSettingsNotFound) {
		t.Fatalf("expected ErrSettingsNotFound on second delete, got %v", err)
	}
}
