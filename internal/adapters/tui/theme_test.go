package tui

import (
	"testing"
	"time"

	"github.com/mfontan/ironlog/internal/config"
)

func TestResolveTheme(t *testing.T) {
	t.Run("nil theme uses defaults", func(t *testing.T) {
		theme := resolveTheme(nil)
		if theme != config.DefaultThemeConfig() {
			t.Errorf("resolveTheme(nil) = %+v, want defaults", theme)
		}
	})

	t.Run("empty fields are filled in", func(t *testing.T) {
		theme := resolveTheme(&config.ThemeConfig{ColorAccent: "#FF0000"})
		if theme.ColorAccent != "#FF0000" {
			t.Errorf("explicit color lost: %q", theme.ColorAccent)
		}
		if theme.ColorDone != config.DefaultThemeConfig().ColorDone {
			t.Errorf("empty field not defaulted: %q", theme.ColorDone)
		}
	})

	t.Run("original is not mutated", func(t *testing.T) {
		partial := &config.ThemeConfig{ColorAccent: "#FF0000"}
		_ = resolveTheme(partial)
		if partial.ColorDone != "" {
			t.Error("resolveTheme() mutated its argument")
		}
	})
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0:00"},
		{42 * time.Second, "0:42"},
		{5*time.Minute + 3*time.Second, "5:03"},
		{time.Hour + 2*time.Minute + 5*time.Second, "1:02:05"},
		{-time.Minute, "0:00"},
	}
	for _, tt := range tests {
		if got := formatDuration(tt.d); got != tt.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestFormatSeconds(t *testing.T) {
	tests := []struct {
		seconds int
		want    string
	}{
		{0, "0:00"},
		{59, "0:59"},
		{90, "1:30"},
		{600, "10:00"},
		{-5, "0:00"},
	}
	for _, tt := range tests {
		if got := formatSeconds(tt.seconds); got != tt.want {
			t.Errorf("formatSeconds(%d) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func TestRatingBar(t *testing.T) {
	if got := ratingBar(3); got != "●●●○○" {
		t.Errorf("ratingBar(3) = %q", got)
	}
	if got := ratingBar(5); got != "●●●●●" {
		t.Errorf("ratingBar(5) = %q", got)
	}
	if got := ratingBar(0); got != "○○○○○" {
		t.Errorf("ratingBar(0) = %q", got)
	}
}
