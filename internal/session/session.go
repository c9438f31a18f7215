// Package session holds the single signed-in user. Credentials are accepted
// as given; there is no password check.
package session

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/sandeepkv93/obsion/internal/model"
	"github.com/sandeepkv93/obsion/internal/storage"
)

var (
	ErrNoSession     = errors.New("session: no user signed in")
	ErrEmailRequired = errors.New("session: email is required")
)

type Store struct {
	codec *storage.Codec
	newID func() string
}

func NewStore(codec *storage.Codec) *Store {
	return &Store{codec: codec, newID: uuid.NewString}
}

// Current returns the signed-in user, or nil when nobody is signed in.
func (s *Store) Current(ctx context.Context) (*model.User, error) {
	return storage.ReadRecord[model.User](ctx, s.codec, storage.KeyUser)
}

// Login replaces any existing session with a fresh user named after the
// local part of email. The password is ignored.
func (s *Store) Login(ctx context.Context, email, password string) (model.User, error) {
	return s.Register(ctx, email, password, model.DisplayNameFromEmail(email))
}

// Register is Login with an explicit display name. A blank name falls back to
// the local part of email.
func (s *Store) Register(ctx context.Context, email, _ string, name string) (model.User, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return model.User{}, ErrEmailRequired
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = model.DisplayNameFromEmail(email)
	}
	user := model.User{
		ID:       s.newID(),
		Email:    email,
		Name:     name,
		Settings: model.DefaultSettings(),
	}
	if err := storage.WriteRecord(ctx, s.codec, storage.KeyUser, user); err != nil {
		return model.User{}, err
	}
	return user, nil
}

// Logout clears the user and token. Calling it without a session is fine.
func (s *Store) Logout(ctx context.Context) error {
	if err := s.codec.Remove(ctx, storage.KeyUser); err != nil {
		return err
	}
	return s.codec.Remove(ctx, storage.KeyToken)
}

// UpdateSettings merges patch into the current user's settings.
func (s *Store) UpdateSettings(ctx context.Context, patch model.SettingsPatch) (model.User, error) {
	if err := patch.Validate(); err != nil {
		return model.User{}, err
	}
	user, err := s.Current(ctx)
	if err != nil {
		return model.User{}, err
	}
	if user == nil {
		return model.User{}, ErrNoSession
	}
	patch.Apply(&user.Settings)
	if err := storage.WriteRecord(ctx, s.codec, storage.KeyUser, *user); err != nil {
		return model.User{}, err
	}
	return *user, nil
}

// Token returns the stored session token. Nothing in this module issues one.
func (s *Store) Token(ctx context.Context) (string, bool, error) {
	return s.codec.Store().Get(ctx, storage.KeyToken)
}
