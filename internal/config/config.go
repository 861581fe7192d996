package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StoreRedis  = "redis"
	StoreMemory = "memory"
)

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s
	RequestTimeout  time.Duration // per-request timeout, must cover a suggestion round trip

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	Store    string // "redis" | "memory"
	SeedFile string // optional YAML file with the initial links, applied when the store is empty

	// Suggestion service
	SuggestEndpoint   string        // LLM gateway URL
	SuggestAPIKey     string        // optional bearer token
	SuggestModel      string        // model name forwarded to the gateway
	SuggestTimeout    time.Duration // per-call timeout
	SuggestBatchSize  int           // expected number of suggestions (default: 5)
	SuggestStrict     bool          // reject responses whose count differs from SuggestBatchSize
	SuggestBurst      int           // rate limit burst per client IP
	SuggestRefillRate int           // rate limit refill per client IP per minute

	// Maintenance
	NewFlagTTL      time.Duration // how long ingested links stay "new" (default: 7d)
	NewFlagInterval time.Duration // how often the new flag is swept (default: 1h)

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

	CORSOrigins  []string // optional, empty => "*"
	AllowedHosts []string // optional, restrict admin endpoints to specific Host headers
	AdminCIDRS   []string // optional, restrict admin endpoints to specific IPs/CIDRs
	TrustProxy   bool     // true => trust X-Forwarded-For headers (e.g. cloudflared)
}

func Load() *Config {
	// .env is optional; real environment variables win.
	if err := godotenv.Load(); err == nil {
		log.Printf("[INFO] loaded .env file")
	}

	cfg := &Config{
		// Server settings
		ListenPort:      getenv("PL_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("PL_SHUTDOWN_TIMEOUT", 5*time.Second),
		RequestTimeout:  mustDuration("PL_REQUEST_TIMEOUT", 60*time.Second),

		// Logging
		LogLevel:  getenv("PL_LOG_LEVEL", "info"),
		PrettyLog: mustBool("PL_PRETTY_LOG", true),

		// Storage
		Store:    strings.ToLower(getenv("PL_STORE", StoreRedis)),
		SeedFile: getenv("PL_SEED_FILE", ""),

		// Suggestions
		SuggestEndpoint:   getenv("PL_SUGGEST_ENDPOINT", ""),
		SuggestAPIKey:     getenv("PL_SUGGEST_API_KEY", ""),
		SuggestModel:      getenv("PL_SUGGEST_MODEL", "gemini-2.0-flash"),
		SuggestTimeout:    mustDuration("PL_SUGGEST_TIMEOUT", 45*time.Second),
		SuggestBatchSize:  getenvInt("PL_SUGGEST_BATCH_SIZE", 5),
		SuggestStrict:     mustBool("PL_SUGGEST_STRICT", true),
		SuggestBurst:      getenvInt("PL_SUGGEST_BURST", 3),
		SuggestRefillRate: getenvInt("PL_SUGGEST_REFILL_PER_MIN", 1),

		// Maintenance
		NewFlagTTL:      mustDuration("PL_NEW_FLAG_TTL", 7*24*time.Hour),
		NewFlagInterval: mustDuration("PL_NEW_FLAG_INTERVAL", time.Hour),

		// Redis settings
		RedisUser:           getenv("PL_REDIS_USERNAME", ""),
		RedisPassword:       getenv("PL_REDIS_PASSWORD", ""),
		RedisDB:             getenvInt("PL_REDIS_DB", 0),
		RedisDT:             mustDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisRT:             mustDuration("REDIS_READ_TIMEOUT", 3*time.Second),
		RedisWT:             mustDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		RedisMaxWait:        mustDuration("REDIS_MAX_WAIT", 10*time.Second),
		RedisPingTimeout:    mustDuration("REDIS_PING_TIMEOUT", 5*time.Second),
		RedisPoolSize:       getenvInt("REDIS_POOL_SIZE", 10),
		RedisConnectTimeout: mustDuration("REDIS_CONNECT_TIMEOUT", 30*time.Second),
		RedisRetryInterval:  mustDuration("REDIS_RETRY_INTERVAL", 2*time.Second),
		RedisWarnThreshold:  getenvInt("REDIS_WARN_THRESHOLD", 3),

		// Access restrictions
		CORSOrigins:  splitAndTrim(getenv("PL_CORS_ORIGINS", "")),
		AllowedHosts: splitAndTrim(getenv("PL_ALLOWED_HOSTS", "")),
		AdminCIDRS:   parseAllowedIPs(getenv("PL_ADMIN_CIDRS", "")),
		TrustProxy:   mustBool("PL_TRUST_PROXY", true),
	}

	switch cfg.Store {
	case StoreRedis:
		cfg.RedisAddr = requireEnv("PL_REDIS_ADDR")
	case StoreMemory:
	default:
		panic(fmt.Sprintf("❌ FATAL: PL_STORE must be %q or %q, got %q", StoreRedis, StoreMemory, cfg.Store))
	}

	if cfg.SuggestBatchSize < 1 {
		panic(fmt.Sprintf("❌ FATAL: PL_SUGGEST_BATCH_SIZE must be >= 1, got %d", cfg.SuggestBatchSize))
	}

	if cfg.NewFlagInterval <= 0 {
		panic(fmt.Sprintf("❌ FATAL: PL_NEW_FLAG_INTERVAL must be > 0, got %s", cfg.NewFlagInterval))
	}
	if cfg.NewFlagTTL < 0 {
		panic(fmt.Sprintf("❌ FATAL: PL_NEW_FLAG_TTL must be >= 0, got %s", cfg.NewFlagTTL))
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		cfgCopy := *cfg
		if cfg.RedisPassword != "" {
			cfgCopy.RedisPassword = "***REDACTED***"
		}
		if cfg.SuggestAPIKey != "" {
			cfgCopy.SuggestAPIKey = "***REDACTED***"
		}
		log.Printf("[DEBUG] cfg: %+v\n", cfgCopy)
	}

	return cfg
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
