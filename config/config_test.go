package config

import "testing"

func TestRedactedMasksSecrets(t *testing.T) {
	cfg := Config{GeminiApiKey: "gemini-key"}
	cfg.Database.Password = "db-pass"
	cfg.Database.User = "askedagain"
	cfg.Redis.Password = "redis-pass"
	cfg.Auth.JWTSecret = "jwt-secret"

	got := cfg.Redacted()
	for name, value := range map[string]string{
		"database password": got.Database.Password,
		"redis password":    got.Redis.Password,
		"jwt secret":        got.Auth.JWTSecret,
		"gemini key":        got.GeminiApiKey,
	} {
		if value != "******" {
			t.Fatalf("%s not masked: %q", name, value)
		}
	}
	if got.Database.User != "askedagain" {
		t.Fatalf("non-secret field changed: %q", got.Database.User)
	}
	if cfg.Auth.JWTSecret != "jwt-secret" {
		t.Fatalf("Redacted must not modify the receiver")
	}

	empty := Config{}.Redacted()
	if empty.Auth.JWTSecret != "" || empty.GeminiApiKey != "" {
		t.Fatalf("unset secrets must stay empty, got %+v", empty)
	}
}
