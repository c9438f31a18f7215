package session

import (
	"errors"
	"testing"

	"github.com/sandeepkv93/obsion/internal/model"
	"github.com/sandeepkv93/obsion/internal/storage"
)

func setupStore(t *testing.T) (*Store, *storage.MemoryStore) {
	t.Helper()
	mem := storage.NewMemoryStore(0)
	return NewStore(storage.NewCodec(mem, nil)), mem
}

func TestLoginAcceptsAnyPassword(t *testing.T) {
	s, _ := setupStore(t)
	ctx := t.Context()

	first, err := s.Login(ctx, "a@x.com", "anything")
	if err != nil {
		t.Fatalf("first login: %v", err)
	}
	second, err := s.Login(ctx, "a@x.com", "different")
	if err != nil {
		t.Fatalf("second login: %v", err)
	}
	if second.Name != "a" || second.Email != "a@x.com" {
		t.Fatalf("unexpected user: %+v", second)
	}
	if first.ID == second.ID {
		t.Fatal("each login should create a new user record")
	}
	if second.Settings != model.DefaultSettings() {
		t.Fatalf("expected default settings, got %+v", second.Settings)
	}

	cur, err := s.Current(ctx)
	if err != nil || cur == nil || cur.ID != second.ID {
		t.Fatalf("current should be the latest login: %+v err=%v", cur, err)
	}
}

func TestRegisterUsesGivenName(t *testing.T) {
	s, _ := setupStore(t)
	user, err := s.Register(t.Context(), "jane@x.com", "pw", "Jane Doe")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Name != "Jane Doe" {
		t.Fatalf("expected explicit name, got %q", user.Name)
	}
	if _, err := s.Register(t.Context(), "  ", "pw", "x"); !errors.Is(err, ErrEmailRequired) {
		t.Fatalf("expected ErrEmailRequired, got %v", err)
	}
}

func TestLogoutIsIdempotentAndClearsToken(t *testing.T) {
	s, mem := setupStore(t)
	ctx := t.Context()

	if err := s.Logout(ctx); err != nil {
		t.Fatalf("logout without session: %v", err)
	}
	if _, err := s.Login(ctx, "a@x.com", "pw"); err != nil {
		t.Fatalf("login: %v", err)
	}
	if err := mem.Set(ctx, storage.KeyToken, "opaque"); err != nil {
		t.Fatalf("seed token: %v", err)
	}
	if tok, ok, err := s.Token(ctx); err != nil || !ok || tok != "opaque" {
		t.Fatalf("unexpected token: %q ok=%v err=%v", tok, ok, err)
	}
	if err := s.Logout(ctx); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if cur, _ := s.Current(ctx); cur != nil {
		t.Fatalf("expected no session, got %+v", cur)
	}
	if _, ok, _ := s.Token(ctx); ok {
		t.Fatal("logout should clear the token")
	}
}

func TestUpdateSettings(t *testing.T) {
	s, _ := setupStore(t)
	ctx := t.Context()

	_, err := s.UpdateSettings(ctx, model.SettingsPatch{Theme: model.Some(model.ThemeDark)})
	if !errors.Is(err, ErrNoSession) {
		t.Fatalf("expected ErrNoSession, got %v", err)
	}

	if _, err := s.Login(ctx, "a@x.com", "pw"); err != nil {
		t.Fatalf("login: %v", err)
	}
	user, err := s.UpdateSettings(ctx, model.SettingsPatch{Theme: model.Some(model.ThemeDark)})
	if err != nil {
		t.Fatalf("update settings: %v", err)
	}
	if user.Settings.Theme != model.ThemeDark || user.Settings.Language != "en" || !user.Settings.Notifications {
		t.Fatalf("expected shallow merge, got %+v", user.Settings)
	}
	cur, _ := s.Current(ctx)
	if cur.Settings.Theme != model.ThemeDark {
		t.Fatalf("settings not persisted: %+v", cur.Settings)
	}
}

func TestCorruptedUserReadsAsSignedOut(t *testing.T) {
	s, mem := setupStore(t)
	ctx := t.Context()
	if err := mem.Set(ctx, storage.KeyUser, "{oops"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	cur, err := s.Current(ctx)
	if err != nil || cur != nil {
		t.Fatalf("expected signed out, got %+v err=%v", cur, err)
	}
	if _, err := s.UpdateSettings(ctx, model.SettingsPatch{}); !errors.Is(err, ErrNoSession) {
		t.Fatalf("expected ErrNoSession, got %v", err)
	}
}

func TestNullUserReadsAsSignedOut(t *testing.T) {
	s, mem := setupStore(t)
	ctx := t.Context()
	if err := mem.Set(ctx, storage.KeyUser, "null"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	cur, err := s.Current(ctx)
	if err != nil || cur != nil {
		t.Fatalf("expected signed out, got %+v err=%v", cur, err)
	}
	if _, err := s.UpdateSettings(ctx, model.SettingsPatch{Theme: model.Some(model.ThemeDark)}); !errors.Is(err, ErrNoSession) {
		t.Fatalf("expected ErrNoSession, got %v", err)
	}
}
