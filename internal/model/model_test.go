package model

import "testing"

func TestParseStatusFallback(t *testing.T) {
	cases := map[string]Status{
		"on":       StatusOn,
		"paused":   StatusPaused,
		"off":      StatusOff,
		"unknown":  StatusUnknown,
		"":         StatusUnknown,
		"garbage":  StatusUnknown,
		"STARTED":  StatusUnknown,
		"status_1": StatusUnknown,
	}
	for raw, want := range cases {
		if got := ParseStatus(raw); got != want {
			t.Fatalf("ParseStatus(%q) = %q, want %q", raw, got, want)
		}
	}
}

func TestStatusRendering(t *testing.T) {
	if StatusOn.Label() != "🟢 ВКЛЮЧЕН" {
		t.Fatalf("on label: %q", StatusOn.Label())
	}
	if StatusOff.Label() != "🔴 ВЫКЛЮЧЕН" {
		t.Fatalf("off label: %q", StatusOff.Label())
	}
	if StatusPaused.Label() != "🟡 ПРИОСТАНОВЛЕН" {
		t.Fatalf("paused label: %q", StatusPaused.Label())
	}
	// Any unrecognized value renders as the unknown fallback.
	if got := Status("whatever"); got.Emoji() != "❓" || got.Title() != "НЕИЗВЕСТНО" {
		t.Fatalf("fallback render: %s %s", got.Emoji(), got.Title())
	}
}

func TestUserConfigLocationFallback(t *testing.T) {
	u := &UserConfig{Timezone: "Not/AZone"}
	if u.Location().String() != "UTC" {
		t.Fatalf("expected UTC fallback, got %s", u.Location())
	}
	u.Timezone = "Europe/Moscow"
	if u.Location().String() != "Europe/Moscow" {
		t.Fatalf("expected Europe/Moscow, got %s", u.Location())
	}
}
