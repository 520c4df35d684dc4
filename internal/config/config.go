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

// Config хранит все параметры запуска консоли.
type Config struct {
	Env      string
	HTTPPort string

	// Бэкенд REST API
	APIBaseURL string
	APITimeout time.Duration

	// Сессии
	SessionSecret string
	SessionTTL    time.Duration
	SessionCookie string
	SessionStore  string
	CookieSecure  bool
	AuthRefresh   time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	RegisterEmailDomain string
	SearchDebounce      time.Duration
	ListCacheTTL        time.Duration
	AllowedOrigins      []string
	RateLimitLimit      int64
	RateLimitPeriod     time.Duration
}

// Load читает переменные окружения и возвращает готовую конфигурацию.
func Load() (*Config, error) {
	// Загружаем .env только если он существует, иначе используем системные переменные.
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("config: .env не найден, используем переменные окружения: %v", err)
	}

	return FromEnv()
}

// FromEnv собирает конфигурацию из текущего окружения без чтения .env.
func FromEnv() (*Config, error) {
	env := getEnv("APP_ENV", "development")

	cfg := &Config{
		Env:                 env,
		HTTPPort:            getEnv("HTTP_PORT", "8080"),
		APIBaseURL:          strings.TrimRight(getEnv("API_BASE_URL", "http://localhost:5000"), "/"),
		SessionCookie:       getEnv("SESSION_COOKIE", "console_session"),
		SessionStore:        strings.ToLower(getEnv("SESSION_STORE", "memory")),
		RedisAddr:           getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:       getEnv("REDIS_PASSWORD", ""),
		RegisterEmailDomain: getEnv("REGISTER_EMAIL_DOMAIN", "@jcautomation.net"),
	}

	if cfg.SessionStore != "memory" && cfg.SessionStore != "redis" {
		return nil, fmt.Errorf("config: SESSION_STORE должен быть memory или redis, получено %q", cfg.SessionStore)
	}

	// Валидация секрета сессии
	secret := getEnv("SESSION_SECRET", "")
	if env == "production" {
		if len(secret) < 32 {
			return nil, fmt.Errorf("config: SESSION_SECRET обязателен и должен быть не менее 32 символов в production")
		}
	} else if secret == "" {
		secret = "console-session-secret-development-only-change-me"
		log.Printf("config: WARNING - используется дефолтный SESSION_SECRET, измените в production!")
	}
	cfg.SessionSecret = secret

	originsStr := getEnv("ALLOWED_ORIGINS", "")
	if originsStr == "" {
		cfg.AllowedOrigins = []string{"http://localhost:" + cfg.HTTPPort}
	} else {
		for _, origin := range strings.Split(originsStr, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, origin)
			}
		}
	}

	var err error
	if cfg.APITimeout, err = parseDuration("API_TIMEOUT", "10s"); err != nil {
		return nil, err
	}
	if cfg.SessionTTL, err = parseDuration("SESSION_TTL", "12h"); err != nil {
		return nil, err
	}
	if cfg.AuthRefresh, err = parseDuration("AUTH_REFRESH", "1m"); err != nil {
		return nil, err
	}
	if cfg.SearchDebounce, err = parseDuration("SEARCH_DEBOUNCE", "300ms"); err != nil {
		return nil, err
	}
	if cfg.ListCacheTTL, err = parseDuration("LIST_CACHE_TTL", "30s"); err != nil {
		return nil, err
	}
	if cfg.RateLimitPeriod, err = parseDuration("RATE_LIMIT_PERIOD", "1m"); err != nil {
		return nil, err
	}
	if cfg.RateLimitLimit, err = parseInt64("RATE_LIMIT_LIMIT", "10"); err != nil {
		return nil, err
	}
	redisDB, err := parseInt64("REDIS_DB", "0")
	if err != nil {
		return nil, err
	}
	cfg.RedisDB = int(redisDB)

	cfg.CookieSecure, err = strconv.ParseBool(getEnv("COOKIE_SECURE", strconv.FormatBool(env == "production")))
	if err != nil {
		return nil, fmt.Errorf("config: COOKIE_SECURE: %w", err)
	}

	return cfg, nil
}

// IsDevelopment сообщает, запущена ли консоль в режиме разработки.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// getEnv возвращает значение переменной окружения или дефолт.
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// parseDuration читает длительность из переменной окружения.
func parseDuration(key, fallback string) (time.Duration, error) {
	v := getEnv(key, fallback)
	dur, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("config: не удалось распарсить длительность %s=%q: %w", key, v, err)
	}
	return dur, nil
}

// parseInt64 читает целое число из переменной окружения.
func parseInt64(key, fallback string) (int64, error) {
	v := getEnv(key, fallback)
	num, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("config: не удалось распарсить число %s=%q: %w", key, v, err)
	}
	return num, nil
}
