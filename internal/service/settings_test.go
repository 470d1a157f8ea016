package service

import (
	"context"
	"errors"
	"testing"
)

func TestSettings(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	settings := NewSettingsService(env.sessions)

	p, err := settings.SetDailyFactTime(ctx, 1, "7:30")
	if err != nil || p.DailyFactTime != "07:30" {
		t.Fatalf("daily time: want=07:30 got=%q err=%v", p.DailyFactTime, err)
	}

	if _, err := settings.SetTimezone(ctx, 1, "Atlantis/Capital"); err == nil {
		t.Fatal("expected error for unknown timezone")
	}
	if p, err = settings.SetTimezone(ctx, 1, "Europe/Berlin"); err != nil || p.Timezone != "Europe/Berlin" {
		t.Fatalf("timezone: got=%q err=%v", p.Timezone, err)
	}

	if _, err := settings.SetLearningMode(ctx, 1, "videos"); !errors.Is(err, ErrInvalidLearningMode) {
		t.Fatalf("want=%v got=%v", ErrInvalidLearningMode, err)
	}

	before, _ := settings.Get(ctx, 1)
	after, err := settings.ToggleNotifications(ctx, 1)
	if err != nil || after.Notifications == before.Notifications {
		t.Fatalf("toggle: before=%v after=%v err=%v", before.Notifications, after.Notifications, err)
	}
	if after.DailyFactTime != "07:30" || after.Timezone != "Europe/Berlin" {
		t.Fatalf("toggle dropped other fields: %+v", after)
	}
}

func TestValidators(t *testing.T) {
	emails := map[string]bool{
		"ann@example.com":       true,
		" bob@example.org ":     true,
		"no-at-sign":            false,
		"Ann <ann@example.com>": false,
		"":                      false,
	}
	for in, ok := range emails {
		if err := ValidateEmail(in); (err == nil) != ok {
			t.Fatalf("ValidateEmail(%q): want ok=%v got=%v", in, ok, err)
		}
	}

	if err := ValidatePassword("12345"); !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("short password: want=%v got=%v", ErrWeakPassword, err)
	}
	if err := ValidatePassword("123456"); err != nil {
		t.Fatalf("password: %v", err)
	}

	if err := ValidateName("   "); !errors.Is(err, ErrInvalidName) {
		t.Fatalf("blank name: want=%v got=%v", ErrInvalidName, err)
	}
	if err := ValidateName("Alex"); err != nil {
		t.Fatalf("name: %v", err)
	}
}
