package model

import (
	"errors"
	"testing"
)

func TestDisplayNameFromEmail(t *testing.T) {
	cases := map[string]string{
		"a@x.com":         "a",
		" jane.doe@x.io ": "jane.doe",
		"no-at-sign":      "no-at-sign",
	}
	for in, want := range cases {
		if got := DisplayNameFromEmail(in); got != want {
			t.Fatalf("DisplayNameFromEmail(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSettingsPatchApplyIsShallow(t *testing.T) {
	s := DefaultSettings()
	patch := SettingsPatch{Theme: Some(ThemeDark)}
	if err := patch.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	patch.Apply(&s)
	if s.Theme != ThemeDark || s.Language != "en" || !s.Notifications {
		t.Fatalf("unexpected settings after merge: %+v", s)
	}

	SettingsPatch{Notifications: Some(false)}.Apply(&s)
	if s.Notifications || s.Theme != ThemeDark {
		t.Fatalf("unexpected settings after second merge: %+v", s)
	}
}

func TestSettingsPatchRejectsUnknownTheme(t *testing.T) {
	err := SettingsPatch{Theme: Some(Theme("sepia"))}.Validate()
	if !errors.Is(err, ErrInvalidTheme) {
		t.Fatalf("expected ErrInvalidTheme, got %v", err)
	}
}

func TestOptionalZeroValueIsUnset(t *testing.T) {
	var o Optional[string]
	if o.IsSet() {
		t.Fatal("zero Optional must be unset")
	}
	if got := o.Or("fallback"); got != "fallback" {
		t.Fatalf("expected fallback, got %q", got)
	}
	if v, ok := Some("").Get(); !ok || v != "" {
		t.Fatalf("expected set empty string, got %q %v", v, ok)
	}
}
