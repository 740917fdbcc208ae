package config

import (
	"testing"
	"time"
)

func TestLoadConfig_Defaults(t *testing.T) {
	for _, key := range []string{"AI_PROVIDER", "STORAGE_DRIVER", "ADVANCE_DELAY", "CORRECT_ANSWER_THRESHOLD", "CORS_ALLOWED_ORIGINS", "STORAGE_KEY"} {
		t.Setenv(key, "")
	}

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}

	if cfg.Provider != "mock" {
		t.Fatalf("expected provider mock, got %s", cfg.Provider)
	}
	if cfg.StorageDriver != StorageSQLite {
		t.Fatalf("expected sqlite storage, got %s", cfg.StorageDriver)
	}
	if cfg.AdvanceDelay != 2*time.Second || cfg.TickInterval != time.Second {
		t.Fatalf("unexpected timing defaults: %v %v", cfg.AdvanceDelay, cfg.TickInterval)
	}
	if cfg.CorrectAnswerThreshold != 6 {
		t.Fatalf("expected threshold 6, got %d", cfg.CorrectAnswerThreshold)
	}
	if cfg.StorageKey != "interview-storage" {
		t.Fatalf("unexpected storage key %s", cfg.StorageKey)
	}
	if len(cfg.CORSAllowedOrigins) != 1 {
		t.Fatalf("expected one default origin, got %v", cfg.CORSAllowedOrigins)
	}
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "Redis")
	t.Setenv("AI_PROVIDER", "gemini")
	t.Setenv("ADVANCE_DELAY", "500ms")
	t.Setenv("TICK_INTERVAL", "2")
	t.Setenv("CORRECT_ANSWER_THRESHOLD", "7")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com,")
	t.Setenv("PUBLISH_COMPLETIONS", "true")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.StorageDriver != StorageRedis || cfg.Provider != "gemini" {
		t.Fatalf("unexpected driver/provider %s/%s", cfg.StorageDriver, cfg.Provider)
	}
	if cfg.AdvanceDelay != 500*time.Millisecond || cfg.TickInterval != 2*time.Second {
		t.Fatalf("unexpected durations %v %v", cfg.AdvanceDelay, cfg.TickInterval)
	}
	if cfg.CorrectAnswerThreshold != 7 {
		t.Fatalf("expected threshold 7, got %d", cfg.CorrectAnswerThreshold)
	}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[1] != "https://b.example.com" {
		t.Fatalf("unexpected origins %v", cfg.CORSAllowedOrigins)
	}
	if !cfg.NeedsRedis() {
		t.Fatal("redis storage needs a redis client")
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := map[string]string{
		"AI_PROVIDER":              "unknown",
		"STORAGE_DRIVER":           "mongo",
		"CORRECT_ANSWER_THRESHOLD": "11",
		"ADVANCE_DELAY":            "-1s",
	}
	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			if _, err := LoadConfig(); err == nil {
				t.Fatalf("expected error for %s=%s", key, value)
			}
		})
	}
}

func TestDatabaseDSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: "5432", User: "u", Password: "p", Name: "n", SSLMode: "disable"}
	want := "host=db user=u password=p dbname=n port=5432 sslmode=disable"
	if got := d.DSN(); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestGetEnvOrDefault(t *testing.T) {
	t.Setenv("UNIT_TEST_ENV", "value")
	if got := getEnvOrDefault("UNIT_TEST_ENV", "fallback"); got != "value" {
		t.Fatalf("expected env value, got %s", got)
	}

	t.Setenv("UNIT_TEST_ENV", "")
	if got := getEnvOrDefault("UNIT_TEST_ENV", "fallback"); got != "fallback" {
		t.Fatalf("expected fallback value, got %s", got)
	}

	t.Setenv("UNIT_TEST_BOOL", "nope")
	if getEnvBool("UNIT_TEST_BOOL", true) != true {
		t.Fatal("unparseable bool should fall back")
	}
}
