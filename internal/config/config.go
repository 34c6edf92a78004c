package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Storage backends.
const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	// Storage
	StoreBackend string // memory | redis | sqlite | postgres
	SQLitePath   string
	PostgresDSN  string

	// Progress tracking
	Capacity          int           // max bookmarks kept (default: 200)
	DebounceDelay     time.Duration // reconciler write delay (default: 500ms)
	Retention         time.Duration // drop unpinned bookmarks idle this long (0 = never)
	RetentionInterval time.Duration // how often the sweeper runs (default: 24h)
	ImportFile        string        // optional backup merged at startup

	// Summarization
	LocalAIURL        string
	CloudAIURL        string
	CloudAIKey        string
	CloudTokenURL     string
	CloudClientID     string
	CloudClientSecret string
	CloudBackoff      time.Duration
	AITimeout         time.Duration
	FetchTimeout      time.Duration
	FetchPrivate      bool // allow page fetches to loopback/private hosts
	SummaryCacheSize  int
	DetectLanguage    bool

	// Redis
	RedisAddr             string        // ex: "localhost:6379"
	RedisUser             string        // optional
	RedisPassword         string        // optional
	RedisPasswordRequired bool          // true => require password, false => allow empty password
	RedisDB               int           // Redis DB number
	RedisDT               time.Duration // Redis dial timeout (ex: 5s)
	RedisRT               time.Duration // Redis read timeout (ex: 3s)
	RedisWT               time.Duration // Redis write timeout (ex: 3s)
	RedisMaxWait          time.Duration // max wait between retries (ex: 10s)
	RedisPingTimeout      time.Duration // timeout for each ping attempt (ex: 5s)
	RedisPoolSize         int           // Redis connection pool size
	RedisConnectTimeout   time.Duration // Total time to retry connecting (ex: 30s)
	RedisRetryInterval    time.Duration // Initial wait between retries (ex: 2s, grows exponentially)
	RedisWarnThreshold    int           // warn after this many attempts

	// Access restrictions
	AllowedOrigins  []string // CORS origins, ex: "chrome-extension://abc"
	AllowedCIDRS    []string // optional, restrict access to specific IP ranges
	TrustProxy      bool     // true => trust X-Forwarded-For headers
	SummarizeBurst  int      // summarize requests allowed in a burst per client
	SummarizePerMin int      // sustained summarize requests per minute per client
}

func Load() *Config {
	cfg := &Config{
		// Server settings
		ListenPort:      getenv("READMARK_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("READMARK_SHUTDOWN_TIMEOUT", 5*time.Second),

		// Logging
		LogLevel:  getenv("READMARK_LOG_LEVEL", "info"),
		PrettyLog: mustBool("READMARK_PRETTY_LOG", true),

		// Storage
		StoreBackend: strings.ToLower(getenv("READMARK_STORE_BACKEND", BackendSQLite)),
		SQLitePath:   getenv("READMARK_SQLITE_PATH", "/data/readmark.db"),
		PostgresDSN:  getenv("READMARK_POSTGRES_DSN", ""),

		// Progress tracking
		Capacity:          getenvInt("READMARK_CAPACITY", 200),
		DebounceDelay:     mustDuration("READMARK_DEBOUNCE_DELAY", 500*time.Millisecond),
		Retention:         mustDuration("READMARK_RETENTION", 0),
		RetentionInterval: mustDuration("READMARK_RETENTION_INTERVAL", 24*time.Hour),
		ImportFile:        getenv("READMARK_IMPORT_FILE", ""),

		// Summarization
		LocalAIURL:        getenv("READMARK_LOCAL_AI_URL", ""),
		CloudAIURL:        getenv("READMARK_CLOUD_AI_URL", ""),
		CloudAIKey:        getenv("READMARK_CLOUD_AI_KEY", ""),
		CloudTokenURL:     getenv("READMARK_CLOUD_AI_TOKEN_URL", ""),
		CloudClientID:     getenv("READMARK_CLOUD_AI_CLIENT_ID", ""),
		CloudClientSecret: getenv("READMARK_CLOUD_AI_CLIENT_SECRET", ""),
		CloudBackoff:      mustDuration("READMARK_CLOUD_BACKOFF", 600*time.Millisecond),
		AITimeout:         mustDuration("READMARK_AI_TIMEOUT", 30*time.Second),
		FetchTimeout:      mustDuration("READMARK_FETCH_TIMEOUT", 10*time.Second),
		FetchPrivate:      mustBool("READMARK_FETCH_ALLOW_PRIVATE", false),
		SummaryCacheSize:  getenvInt("READMARK_SUMMARY_CACHE_SIZE", 50),
		DetectLanguage:    mustBool("READMARK_DETECT_LANGUAGE", true),

		// Access restrictions
		AllowedOrigins:  splitAndTrim(getenv("READMARK_ALLOWED_ORIGINS", "")),
		AllowedCIDRS:    parseAllowedIPs(getenv("READMARK_ALLOWED_CIDRS", "")),
		TrustProxy:      mustBool("READMARK_TRUST_PROXY", false),
		SummarizeBurst:  getenvInt("READMARK_SUMMARIZE_BURST", 5),
		SummarizePerMin: getenvInt("READMARK_SUMMARIZE_PER_MIN", 20),
	}

	switch cfg.StoreBackend {
	case BackendMemory, BackendSQLite:
	case BackendPostgres:
		cfg.PostgresDSN = requireEnv("READMARK_POSTGRES_DSN")
	case BackendRedis:
		loadRedis(cfg)
	default:
		panic(fmt.Sprintf("❌ FATAL: READMARK_STORE_BACKEND must be one of memory, sqlite, postgres, redis (got %q)", cfg.StoreBackend))
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		log.Printf("[DEBUG] cfg: %+v\n", cfg.Redacted())
	}

	return cfg
}

func loadRedis(cfg *Config) {
	cfg.RedisAddr = requireEnv("READMARK_REDIS_ADDR")
	cfg.RedisUser = getenv("READMARK_REDIS_USERNAME", "default")
	cfg.RedisPasswordRequired = mustBool("READMARK_REDIS_PASSWORD_REQUIRED", true)
	cfg.RedisPassword = getenv("READMARK_REDIS_PASSWORD", "")
	cfg.RedisDB = getenvInt("READMARK_REDIS_DB", 0)
	cfg.RedisDT = mustDuration("REDIS_DIAL_TIMEOUT", 5*time.Second)
	cfg.RedisRT = mustDuration("REDIS_READ_TIMEOUT", 3*time.Second)
	cfg.RedisWT = mustDuration("REDIS_WRITE_TIMEOUT", 3*time.Second)
	cfg.RedisMaxWait = mustDuration("REDIS_MAX_WAIT", 10*time.Second)
	cfg.RedisPingTimeout = mustDuration("REDIS_PING_TIMEOUT", 5*time.Second)
	cfg.RedisPoolSize = getenvInt("REDIS_POOL_SIZE", 10)
	cfg.RedisConnectTimeout = mustDuration("REDIS_CONNECT_TIMEOUT", 30*time.Second)
	cfg.RedisRetryInterval = mustDuration("REDIS_RETRY_INTERVAL", 2*time.Second)
	cfg.RedisWarnThreshold = getenvInt("REDIS_WARN_THRESHOLD", 3)

	if cfg.RedisPasswordRequired && cfg.RedisPassword == "" {
		panic("❌ FATAL: READMARK_REDIS_PASSWORD is required when READMARK_REDIS_PASSWORD_REQUIRED=true")
	}
}

// Redacted returns a copy safe to print.
func (c *Config) Redacted() Config {
	cp := *c
	const mask = "***REDACTED***"
	for _, s := range []*string{&cp.RedisPassword, &cp.CloudAIKey, &cp.CloudClientSecret, &cp.PostgresDSN} {
		if *s != "" {
			*s = mask
		}
	}
	if cp.RedisUser != "" {
		cp.RedisUser = mask
	}
	return cp
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func requireEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
	}
	return v
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func parseAllowedIPs(allowed string) []string {
	if allowed == "" {
		return nil
	}
	ips := make([]string, 0, 4)
	for _, ip := range splitAndTrim(allowed) {
		if ip != "" {
			ips = append(ips, ip)
		}
	}
	return ips
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		// Remove surrounding quotes if present
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
