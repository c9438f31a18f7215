package model

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidTheme = errors.New("model: invalid theme")

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

func (t Theme) IsValid() bool {
	switch t {
	case ThemeLight, ThemeDark:
		return true
	default:
		return false
	}
}

type Settings struct {
	Theme         Theme  `json:"theme"`
	Language      string `json:"language"`
	Notifications bool   `json:"notifications"`
}

func DefaultSettings() Settings {
	return Settings{
		Theme:         ThemeLight,
		Language:      "en",
		Notifications: true,
	}
}

type User struct {
	ID       string   `json:"id"`
	Email    string   `json:"email"`
	Name     string   `json:"name"`
	Settings Settings `json:"settings"`
}

// DisplayNameFromEmail returns the local part of an address, or the whole
// input when it carries no '@'.
func DisplayNameFromEmail(email string) string {
	local, _, _ := strings.Cut(strings.TrimSpace(email), "@")
	return local
}

type SettingsPatch struct {
	Theme         Optional[Theme]
	Language      Optional[string]
	Notifications Optional[bool]
}

func (p SettingsPatch) Validate() error {
	if theme, ok := p.Theme.Get(); ok && !theme.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidTheme, theme)
	}
	return nil
}

func (p SettingsPatch) Apply(s *Settings) {
	s.Theme = p.Theme.Or(s.Theme)
	s.Language = p.Language.Or(s.Language)
	s.Notifications = p.Notifications.Or(s.Notifications)
}
