package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/MrSnakeDoc/shelf/internal/store"
)

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s
	RequestTimeout  time.Duration // per-request deadline applied by the router

	LogLevel      string // "debug" | "info" | "warn" | "error"
	PrettyLog     bool   // true => zap dev (color), false => zap prod (JSON)
	LogFile       string // optional, rotated JSON log file
	LogMaxSizeMB  int
	LogMaxBackups int
	LogMaxAgeDays int
	LogCompress   bool

	StoreBackend string // "memory" | "redis" | "sqlite"
	SQLitePath   string // database file when StoreBackend is sqlite

	UsersFile   string   // optional YAML file listing user ids
	UserIDs     []string // inline user ids, used when UsersFile is empty
	ResetUsers  []string // ids whose bookmarks are cleared at startup
	StrictURLs  bool     // reject bookmark urls that are not absolute http(s)
	Timezone    string   // IANA zone used to display timestamps
	DefaultLang string   // fallback UI language

	// Redis
	RedisAddr           string        // ex: "localhost:6379"
	RedisUser           string        // optional
	RedisPassword       string        // optional
	RedisDB             int           // Redis DB number
	RedisDT             time.Duration // Redis dial timeout (ex: 5s)
	RedisRT             time.Duration // Redis read timeout (ex: 3s)
	RedisWT             time.Duration // Redis write timeout (ex: 3s)
	RedisMaxWait        time.Duration // max wait between retries (ex: 10s)
	RedisPingTimeout    time.Duration // timeout for each ping attempt (ex: 5s)
	RedisPoolSize       int           // Redis connection pool size
	RedisConnectTimeout time.Duration // Total time to retry connecting (ex: 30s)
	RedisRetryInterval  time.Duration // Initial wait between retries (ex: 2s, grows exponentially)
	RedisWarnThreshold  int           // warn after this many attempts

	AllowedHosts    []string // optional, restrict access to specific Host headers
	AllowedCIDRS    []string // optional, restrict access to ops endpoints (e.g. "10.0.0.0/8, 127.0.0.1")
	TrustProxy      bool     // true => trust X-Forwarded-For headers (e.g. cloudflared)
	RateLimitBurst  int      // form submissions allowed in a burst per client IP
	RateLimitPerMin int      // refill rate per client IP
}

func Load() *Config {
	cfg := &Config{
		// Server settings
		ListenPort:      getenv("SHELF_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("SHELF_SHUTDOWN_TIMEOUT", 5*time.Second),
		RequestTimeout:  mustDuration("SHELF_REQUEST_TIMEOUT", 5*time.Second),

		// Logging
		LogLevel:      getenv("SHELF_LOG_LEVEL", "info"),
		PrettyLog:     mustBool("SHELF_PRETTY_LOG", true),
		LogFile:       getenv("SHELF_LOG_FILE", ""),
		LogMaxSizeMB:  getenvInt("SHELF_LOG_MAX_SIZE_MB", 50),
		LogMaxBackups: getenvInt("SHELF_LOG_MAX_BACKUPS", 3),
		LogMaxAgeDays: getenvInt("SHELF_LOG_MAX_AGE_DAYS", 28),
		LogCompress:   mustBool("SHELF_LOG_COMPRESS", true),

		// Storage
		StoreBackend: strings.ToLower(getenv("SHELF_STORE_BACKEND", store.BackendMemory)),
		SQLitePath:   getenv("SHELF_SQLITE_PATH", "/data/shelf.db"),

		// Users and UI
		UsersFile:   getenv("SHELF_USERS_FILE", ""),
		UserIDs:     splitAndTrim(getenv("SHELF_USER_IDS", "1,2,3,4,5")),
		ResetUsers:  splitAndTrim(getenv("SHELF_RESET_USERS", "")),
		StrictURLs:  mustBool("SHELF_STRICT_URLS", false),
		Timezone:    getenv("SHELF_TIMEZONE", "Local"),
		DefaultLang: getenv("SHELF_DEFAULT_LANG", "en"),

		// Access restrictions
		AllowedHosts:    splitAndTrim(getenv("SHELF_ALLOWED_HOSTS", "")),
		AllowedCIDRS:    parseAllowedIPs(getenv("SHELF_ALLOWED_CIDRS", "")),
		TrustProxy:      mustBool("SHELF_TRUST_PROXY", false),
		RateLimitBurst:  getenvInt("SHELF_RATE_LIMIT_BURST", 20),
		RateLimitPerMin: getenvInt("SHELF_RATE_LIMIT_PER_MIN", 60),
	}

	switch cfg.StoreBackend {
	case store.BackendMemory, store.BackendSQLite:
	case store.BackendRedis:
		loadRedis(cfg)
	default:
		panic(fmt.Sprintf("❌ FATAL: unknown SHELF_STORE_BACKEND %q (want memory, redis or sqlite)", cfg.StoreBackend))
	}

	if _, err := time.LoadLocation(cfg.Timezone); err != nil {
		panic(fmt.Sprintf("❌ FATAL: invalid SHELF_TIMEZONE %q: %v", cfg.Timezone, err))
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		cfgCopy := *cfg
		if cfgCopy.RedisPassword != "" {
			cfgCopy.RedisPassword = "***REDACTED***"
		}
		log.Printf("[DEBUG] cfg: %+v\n", cfgCopy)
	}

	return cfg
}

// loadRedis reads the Redis settings, which are only required for the redis backend.
func loadRedis(cfg *Config) {
	cfg.RedisAddr = requireEnv("SHELF_REDIS_ADDR")
	cfg.RedisUser = getenv("SHELF_REDIS_USERNAME", "")
	cfg.RedisPassword = getenv("SHELF_REDIS_PASSWORD", "")
	cfg.RedisDB = getenvInt("SHELF_REDIS_DB", 0)
	cfg.RedisDT = mustDuration("SHELF_REDIS_DIAL_TIMEOUT", 5*time.Second)
	cfg.RedisRT = mustDuration("SHELF_REDIS_READ_TIMEOUT", 3*time.Second)
	cfg.RedisWT = mustDuration("SHELF_REDIS_WRITE_TIMEOUT", 3*time.Second)
	cfg.RedisMaxWait = mustDuration("SHELF_REDIS_MAX_WAIT", 10*time.Second)
	cfg.RedisPingTimeout = mustDuration("SHELF_REDIS_PING_TIMEOUT", 5*time.Second)
	cfg.RedisPoolSize = getenvInt("SHELF_REDIS_POOL_SIZE", 10)
	cfg.RedisConnectTimeout = mustDuration("SHELF_REDIS_CONNECT_TIMEOUT", 30*time.Second)
	cfg.RedisRetryInterval = mustDuration("SHELF_REDIS_RETRY_INTERVAL", 2*time.Second)
	cfg.RedisWarnThreshold = getenvInt("SHELF_REDIS_WARN_THRESHOLD", 3)
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
