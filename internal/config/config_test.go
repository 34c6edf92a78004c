package config

import (
	"os"
	"testing"
	"time"
)

func TestRequireEnv(t *testing.T) {
	tests := []struct {
		name      string
		key       string
		value     string
		shouldSet bool
		wantPanic bool
	}{
		{
			name:      "variable set",
			key:       "TEST_VAR",
			value:     "test_value",
			shouldSet: true,
			wantPanic: false,
		},
		{
			name:      "variable not set",
			key:       "TEST_VAR_MISSING",
			shouldSet: false,
			wantPanic: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.shouldSet {
				if err := os.Setenv(tt.key, tt.value); err != nil {
					t.Fatalf("failed to set env var: %v", err)
				}
				defer func() {
					if err := os.Unsetenv(tt.key); err != nil {
						t.Errorf("failed to unset env var: %v", err)
					}
				}()
			}

			if tt.wantPanic {
				defer func() {
					if r := recover(); r == nil {
						t.Errorf("requireEnv() should have panicked")
					}
				}()
			}

			result := requireEnv(tt.key)
			if !tt.wantPanic && result != tt.value {
				t.Errorf("requireEnv() = %v, want %v", result, tt.value)
			}
		})
	}
}

func TestSplitAndTrim(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		expected []string
	}{
		{
			name:     "comma separated with spaces",
			in:       "chrome-extension://abc, moz-extension://def ",
			expected: []string{"chrome-extension://abc", "moz-extension://def"},
		},
		{
			name:     "quoted values",
			in:       `"10.0.0.0/8",'192.168.1.0/24'`,
			expected: []string{"10.0.0.0/8", "192.168.1.0/24"},
		},
		{
			name:     "empty entries dropped",
			in:       "a,,  ,b",
			expected: []string{"a", "b"},
		},
		{
			name:     "empty string",
			in:       "",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := splitAndTrim(tt.in)
			if len(result) != len(tt.expected) {
				t.Fatalf("splitAndTrim() = %v, want %v", result, tt.expected)
			}
			for i := range result {
				if result[i] != tt.expected[i] {
					t.Errorf("splitAndTrim()[%d] = %v, want %v", i, result[i], tt.expected[i])
				}
			}
		})
	}
}

func TestGetenvInt(t *testing.T) {
	t.Setenv("TEST_INT", "42")
	t.Setenv("TEST_INT_INVALID", "forty")

	if got := getenvInt("TEST_INT", 1); got != 42 {
		t.Errorf("getenvInt() = %d, want 42", got)
	}
	if got := getenvInt("TEST_INT_INVALID", 7); got != 7 {
		t.Errorf("getenvInt() = %d, want default 7", got)
	}
	if got := getenvInt("TEST_INT_MISSING", 9); got != 9 {
		t.Errorf("getenvInt() = %d, want default 9", got)
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("READMARK_STORE_BACKEND", "")

	cfg := Load()
	if cfg.StoreBackend != BackendSQLite {
		t.Errorf("StoreBackend = %q, want %q", cfg.StoreBackend, BackendSQLite)
	}
	if cfg.Capacity != 200 {
		t.Errorf("Capacity = %d, want 200", cfg.Capacity)
	}
	if cfg.DebounceDelay != 500*time.Millisecond {
		t.Errorf("DebounceDelay = %v, want 500ms", cfg.DebounceDelay)
	}
	if cfg.CloudBackoff != 600*time.Millisecond {
		t.Errorf("CloudBackoff = %v, want 600ms", cfg.CloudBackoff)
	}
	if cfg.FetchTimeout != 10*time.Second {
		t.Errorf("FetchTimeout = %v, want 10s", cfg.FetchTimeout)
	}
	if cfg.FetchPrivate {
		t.Error("FetchPrivate should default to false")
	}
	if cfg.SummaryCacheSize != 50 {
		t.Errorf("SummaryCacheSize = %d, want 50", cfg.SummaryCacheSize)
	}
	if cfg.Retention != 0 {
		t.Errorf("Retention = %v, want disabled", cfg.Retention)
	}
}

func TestLoadBackends(t *testing.T) {
	tests := []struct {
		name      string
		env       map[string]string
		wantPanic bool
	}{
		{
			name: "memory",
			env:  map[string]string{"READMARK_STORE_BACKEND": "memory"},
		},
		{
			name:      "postgres without dsn",
			env:       map[string]string{"READMARK_STORE_BACKEND": "postgres"},
			wantPanic: true,
		},
		{
			name: "postgres with dsn",
			env:  map[string]string{"READMARK_STORE_BACKEND": "postgres", "READMARK_POSTGRES_DSN": "postgres://u:p@db/readmark"},
		},
		{
			name:      "redis without password",
			env:       map[string]string{"READMARK_STORE_BACKEND": "redis", "READMARK_REDIS_ADDR": "localhost:6379"},
			wantPanic: true,
		},
		{
			name: "redis password optional",
			env: map[string]string{
				"READMARK_STORE_BACKEND":           "redis",
				"READMARK_REDIS_ADDR":              "localhost:6379",
				"READMARK_REDIS_PASSWORD_REQUIRED": "false",
			},
		},
		{
			name:      "unknown backend",
			env:       map[string]string{"READMARK_STORE_BACKEND": "etcd"},
			wantPanic: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			defer func() {
				r := recover()
				if (r != nil) != tt.wantPanic {
					t.Errorf("Load() panic = %v, wantPanic %v", r, tt.wantPanic)
				}
			}()

			cfg := Load()
			if cfg.StoreBackend != tt.env["READMARK_STORE_BACKEND"] {
				t.Errorf("StoreBackend = %q", cfg.StoreBackend)
			}
		})
	}
}

func TestRedacted(t *testing.T) {
	cfg := &Config{
		RedisUser:         "default",
		RedisPassword:     "hunter2",
		CloudAIKey:        "sk-123",
		CloudClientSecret: "shh",
		PostgresDSN:       "postgres://u:p@db/x",
		CloudAIURL:        "https://ai.example.com",
	}

	r := cfg.Redacted()
	for _, v := range []string{r.RedisUser, r.RedisPassword, r.CloudAIKey, r.CloudClientSecret, r.PostgresDSN} {
		if v != "***REDACTED***" {
			t.Errorf("secret leaked: %q", v)
		}
	}
	if r.CloudAIURL != cfg.CloudAIURL {
		t.Error("non-secret fields should be kept")
	}
	if cfg.CloudAIKey != "sk-123" {
		t.Error("Redacted() must not modify the receiver")
	}
}

func TestMustDuration(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		value    string
		def      time.Duration
		expected time.Duration
	}{
		{
			name:     "valid duration",
			key:      "TEST_DURATION",
			value:    "5s",
			def:      1 * time.Second,
			expected: 5 * time.Second,
		},
		{
			name:     "invalid duration uses default",
			key:      "TEST_DURATION_INVALID",
			value:    "invalid",
			def:      10 * time.Second,
			expected: 10 * time.Second,
		},
		{
			name:     "missing variable uses default",
			key:      "TEST_DURATION_MISSING",
			value:    "",
			def:      15 * time.Second,
			expected: 15 * time.Second,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value != "" {
				if err := os.Setenv(tt.key, tt.value); err != nil {
					t.Fatalf("failed to set env var: %v", err)
				}
				defer func() {
					if err := os.Unsetenv(tt.key); err != nil {
						t.Errorf("failed to unset env var: %v", err)
					}
				}()
			}

			result := mustDuration(tt.key, tt.def)
			if result != tt.expected {
				t.Errorf("mustDuration() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestMustBool(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		value    string
		def      bool
		expected bool
	}{
		{
			name:     "true value",
			key:      "TEST_BOOL",
			value:    "true",
			def:      false,
			expected: true,
		},
		{
			name:     "false value",
			key:      "TEST_BOOL_FALSE",
			value:    "false",
			def:      true,
			expected: false,
		},
		{
			name:     "invalid value uses default",
			key:      "TEST_BOOL_INVALID",
			value:    "invalid",
			def:      true,
			expected: true,
		},
		{
			name:     "missing variable uses default",
			key:      "TEST_BOOL_MISSING",
			value:    "",
			def:      false,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value != "" {
				if err := os.Setenv(tt.key, tt.value); err != nil {
					t.Fatalf("failed to set env var: %v", err)
				}
				defer func() {
					if err := os.Unsetenv(tt.key); err != nil {
						t.Errorf("failed to unset env var: %v", err)
					}
				}()
			}

			result := mustBool(tt.key, tt.def)
			if result != tt.expected {
				t.Errorf("mustBool() = %v, want %v", result, tt.expected)
			}
		})
	}
}
