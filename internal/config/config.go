package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	BackendSQLite = "sqlite"
	BackendREST   = "rest"
)

type Config struct {
	Port    string
	Env     string
	Backend string

	DBDSN string

	GatewayURL       string
	GatewayKey       string
	GatewayJWTSecret string
	GatewayTimeout   time.Duration

	RedisURL string
	CacheTTL time.Duration

	LogFile      string
	TemplatesDir string
	StaticDir    string
	CookieSecure bool

	// requests per minute per IP, and login attempts per 10 minutes
	RateLimit  int
	LoginLimit int

	// Notes explains fallbacks taken while loading, for the caller to log.
	Notes []string
}

func (c Config) Production() bool { return c.Env == "production" }

// Load reads an optional .env file and then the environment.
func Load() Config {
	var notes []string
	if err := godotenv.Load(); err != nil {
		notes = append(notes, "no .env file found, using environment variables")
	}
	getDuration := func(key string, fallback time.Duration) time.Duration {
		d, note := parseDuration(key, fallback)
		if note != "" {
			notes = append(notes, note)
		}
		return d
	}

	cfg := Config{
		Port:             getEnv("PORT", "8080"),
		Env:              getEnv("APP_ENV", "development"),
		Backend:          getEnv("BACKEND", BackendSQLite),
		DBDSN:            getEnv("DB_DSN", "gmart.db"), // sqlite file in project root
		GatewayURL:       getEnv("GATEWAY_URL", ""),
		GatewayKey:       getEnv("GATEWAY_KEY", ""),
		GatewayJWTSecret: getEnv("GATEWAY_JWT_SECRET", ""),
		GatewayTimeout:   getDuration("GATEWAY_TIMEOUT", 10*time.Second),
		RedisURL:         getEnv("REDIS_URL", ""),
		CacheTTL:         getDuration("CACHE_TTL", 5*time.Minute),
		LogFile:          getEnv("LOG_FILE", ""),
		TemplatesDir:     getEnv("TEMPLATES_DIR", "./web/templates"),
		StaticDir:        getEnv("STATIC_DIR", "./web/static"),
		CookieSecure:     getBool("COOKIE_SECURE", false),
		RateLimit:        getInt("RATE_LIMIT", 120),
		LoginLimit:       getInt("LOGIN_RATE_LIMIT", 5),
	}
	cfg.Notes = notes
	return cfg
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func parseDuration(key string, fallback time.Duration) (time.Duration, string) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, ""
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback, fmt.Sprintf("bad %s=%q, using %s", key, v, fallback)
	}
	return d, ""
}

func getInt(key string, fallback int) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func getBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
