package config

import (
	"flag"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Session backends supported by the client.
const (
	BackendFS     = "fs"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

type Config struct {
	// Server-side settings
	DatabaseDSN     string `env:"DATABASE_URI"`
	AuthSecret      string `env:"AUTH_SECRET"`
	LoginRatePerMin int    `env:"LOGIN_RATE_PER_MIN"`
	TrustProxy      bool   `env:"TRUST_PROXY"`

	// Shared settings
	BaseURL     string `env:"BASE_URL"`
	EnableHTTPS bool   `env:"ENABLE_HTTPS"`
	LogLevel    string `env:"LOG_LEVEL"`

	// Client-side settings
	ServerURL      string `env:"-"`
	SessionBackend string `env:"SESSION_BACKEND"`
	SessionKey     string `env:"SESSION_KEY"`
	SessionDir     string `env:"SESSION_DIR"`
	ClientDBPath   string `env:"CLIENT_DB_PATH"`
	RedisAddr      string `env:"REDIS_ADDR"`
	RedisPassword  string `env:"REDIS_PASSWORD"`
	RedisDB        int    `env:"REDIS_DB"`
	Version        bool   `env:"-"` // show client version and exit (flag only)
}

func NewConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{}
	_ = env.Parse(cfg)

	// flags работают ТОЛЬКО если переменные из env не заданы
	// Server flags
	flag.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "строка подключения к БД (postgres DSN или путь к sqlite)")
	flag.StringVar(&cfg.AuthSecret, "auth-secret", cfg.AuthSecret, "секрет для подписи JWT")
	flag.IntVar(&cfg.LoginRatePerMin, "login-rate", cfg.LoginRatePerMin, "login attempts per minute per client IP")
	flag.BoolVar(&cfg.TrustProxy, "trust-proxy", cfg.TrustProxy, "take client IP from X-Forwarded-For/X-Real-IP (only behind a trusted proxy)")
	// Shared flags
	flag.StringVar(&cfg.BaseURL, "base-url", cfg.BaseURL, "address of the server (host:port)")
	flag.BoolVar(&cfg.EnableHTTPS, "https", cfg.EnableHTTPS, "enable HTTPS (client: prefer https scheme for BaseURL)")
	flag.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn, error")
	// Client flags
	flag.StringVar(&cfg.SessionBackend, "session-backend", cfg.SessionBackend, "where to persist the session: fs, sqlite, redis")
	flag.StringVar(&cfg.SessionKey, "session-key", cfg.SessionKey, "storage key of the persisted session")
	flag.StringVar(&cfg.SessionDir, "session-dir", cfg.SessionDir, "directory for the fs session backend")
	flag.StringVar(&cfg.ClientDBPath, "client-db", cfg.ClientDBPath, "path to client SQLite DB")
	flag.StringVar(&cfg.RedisAddr, "redis-addr", cfg.RedisAddr, "redis address for the redis session backend")
	flag.BoolVar(&cfg.Version, "version", cfg.Version, "Show client version and exit")

	flag.Parse()

	cfg.applyDefaults()
	return cfg
}

var hostPortRe = regexp.MustCompile(`^[A-Za-z0-9\.\-]+:\d{1,5}$`)

func (cfg *Config) applyDefaults() {
	if cfg.AuthSecret == "" {
		cfg.AuthSecret = "dev-secret-key"
	}
	if cfg.LoginRatePerMin <= 0 {
		cfg.LoginRatePerMin = 10
	}
	// validate BaseURL: must be in "address:port" (no scheme, no path). Otherwise use default.
	if !hostPortRe.MatchString(cfg.BaseURL) {
		cfg.BaseURL = "localhost:8081"
	}

	if cfg.EnableHTTPS {
		cfg.ServerURL = "https://" + cfg.BaseURL
	} else {
		cfg.ServerURL = "http://" + cfg.BaseURL
	}

	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	// Fill client defaults if empty
	switch strings.ToLower(cfg.SessionBackend) {
	case BackendSQLite, BackendRedis:
		cfg.SessionBackend = strings.ToLower(cfg.SessionBackend)
	default:
		cfg.SessionBackend = BackendFS
	}
	if cfg.SessionKey == "" {
		cfg.SessionKey = "big-user"
	}
	if cfg.ClientDBPath == "" {
		if dir, err := os.UserConfigDir(); err == nil {
			cfg.ClientDBPath = filepath.Join(dir, "SessionKeeper", "client.sqlite")
		}
	}
	if cfg.RedisAddr == "" {
		cfg.RedisAddr = "localhost:6379"
	}
	if cfg.DatabaseDSN == "" {
		cfg.DatabaseDSN = "sessionkeeper.db"
	}
}
