package core

import (
	"reflect"
	"testing"
)

func TestSettings_BlankValuesAreAbsent(t *testing.T) {
	settings := NewSettings([]Setting{
		{Key: "url", Value: ""},
		{Key: "room_id", Value: "   "},
		{Key: "oauth_settings", Value: map[string]any{}},
		{Key: "token", Value: nil},
	})

	for _, key := range []string{"url", "room_id", "oauth_settings", "token"} {
		if _, ok := settings.Get(key); ok {
			t.Fatalf("expected %q to be absent", key)
		}
	}
	if keys := settings.Keys(); len(keys) != 0 {
		t.Fatalf("expected no present keys, got %v", keys)
	}
}

func TestSettings_LastNonBlankValueWins(t *testing.T) {
	settings := NewSettings([]Setting{
		{Key: "url", Value: "https://first.example"},
		{Key: "room_id", Value: "42"},
		{Key: "url", Value: "https://second.example"},
		{Key: "url", Value: ""},
	})

	if got := settings.String("url"); got != "https://second.example" {
		t.Fatalf("expected second url, got %q", got)
	}
	if got := settings.Keys(); !reflect.DeepEqual(got, []string{"url", "room_id"}) {
		t.Fatalf("unexpected keys: %v", got)
	}
}

func TestSettings_MissingRequired(t *testing.T) {
	settings := NewSettings([]Setting{{Key: "room_id", Value: float64(12)}})

	missing := settings.Missing([]string{"room_id", "room_token"})
	if !reflect.DeepEqual(missing, []string{"room_token"}) {
		t.Fatalf("expected room_token missing, got %v", missing)
	}
	if got := settings.String("room_id"); got != "12" {
		t.Fatalf("expected numeric value rendered as 12, got %q", got)
	}
}

func TestSettings_MapAcceptsObjectsAndEncodedStrings(t *testing.T) {
	settings := NewSettings([]Setting{
		{Key: "oauth_settings", Value: map[string]any{"access_token": "tok"}},
		{Key: "encoded", Value: `{"access_secret":"sec"}`},
	})

	if got := ReadString(settings.Map("oauth_settings"), "access_token"); got != "tok" {
		t.Fatalf("expected access token, got %q", got)
	}
	if got := ReadString(settings.Map("encoded"), "access_secret"); got != "sec" {
		t.Fatalf("expected decoded secret, got %q", got)
	}
	if got := settings.Map("absent"); len(got) != 0 {
		t.Fatalf("expected empty map for absent key, got %v", got)
	}
}

func TestSettings_RedactedListsKeysOnly(t *testing.T) {
	settings := NewSettings([]Setting{{Key: "room_token", Value: "secret-value"}})
	if got := settings.Redacted(); got != "settings[room_token]" {
		t.Fatalf("unexpected redacted form %q", got)
	}
}
