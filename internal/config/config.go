package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
)

// Config - структура для хранения конфигурации приложения
type Config struct {
	DatabaseURL     string        `env:"DATABASE_URL"`
	DBMaxConns      int32         `env:"DB_MAX_CONNS" envDefault:"10"`
	DBMaxConnIdle   time.Duration `env:"DB_MAX_CONN_IDLE" envDefault:"5m"`
	MigrationsPath  string        `env:"MIGRATIONS_PATH" envDefault:"migrations"`
	HTTPPort        string        `env:"HTTP_PORT" envDefault:"8080"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"5s"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat       string        `env:"LOG_FORMAT" envDefault:"json"`

	// Redis Config
	RedisAddr string        `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPass string        `env:"REDIS_PASSWORD"`
	RedisDB   int           `env:"REDIS_DB" envDefault:"0"`
	CacheTTL  time.Duration `env:"CACHE_TTL" envDefault:"5m"`

	// Webhook Config
	WebhookURL        string        `env:"WEBHOOK_URL"`
	WebhookSecret     string        `env:"WEBHOOK_SECRET"`
	WebhookTimeout    time.Duration `env:"WEBHOOK_TIMEOUT" envDefault:"5s"`
	WebhookMaxRetries int           `env:"WEBHOOK_MAX_RETRIES" envDefault:"3"`
	WebhookBaseDelay  time.Duration `env:"WEBHOOK_BASE_DELAY" envDefault:"1s"`
	SlackWebhookURL   string        `env:"SLACK_WEBHOOK_URL"`

	// Calendar Config
	CalendarTimezone    string         `env:"CALENDAR_TIMEZONE" envDefault:"Africa/Libreville"`
	CalendarLocation    *time.Location `env:"-"`
	CalendarMaxSpanDays int            `env:"CALENDAR_MAX_SPAN_DAYS" envDefault:"365"`
	RefreshDebounce     time.Duration  `env:"REFRESH_DEBOUNCE" envDefault:"500ms"`
	ICSDomain           string         `env:"ICS_DOMAIN" envDefault:"outages.local"`

	// Map Config
	MapCenterLat float64 `env:"MAP_CENTER_LAT" envDefault:"0.4162"`
	MapCenterLon float64 `env:"MAP_CENTER_LON" envDefault:"9.4527"`
	MapZoom      int     `env:"MAP_ZOOM" envDefault:"13"`

	// API Keys for authentication
	APIKeys []string `env:"API_KEYS"`
}

// LoadConfig загружает конфигурацию из переменных окружения и .env файла
func LoadConfig() (*Config, error) {
	// Загрузка переменных окружения из .env файла (если есть)
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("ошибка загрузки файла .env: %w", err)
	}

	cfg := &Config{
		DatabaseURL:         os.Getenv("DATABASE_URL"),
		DBMaxConns:          int32(getEnvAsInt("DB_MAX_CONNS", 10)),
		DBMaxConnIdle:       getEnvAsDuration("DB_MAX_CONN_IDLE", 5*time.Minute),
		MigrationsPath:      getEnv("MIGRATIONS_PATH", "migrations"),
		HTTPPort:            getEnv("HTTP_PORT", "8080"),
		ShutdownTimeout:     getEnvAsDuration("SHUTDOWN_TIMEOUT", 5*time.Second),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
		LogFormat:           getEnv("LOG_FORMAT", "json"),
		RedisAddr:           getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPass:           os.Getenv("REDIS_PASSWORD"),
		RedisDB:             getEnvAsInt("REDIS_DB", 0),
		CacheTTL:            getEnvAsDuration("CACHE_TTL", 5*time.Minute),
		WebhookURL:          os.Getenv("WEBHOOK_URL"),
		WebhookSecret:       os.Getenv("WEBHOOK_SECRET"),
		WebhookTimeout:      getEnvAsDuration("WEBHOOK_TIMEOUT", 5*time.Second),
		WebhookMaxRetries:   getEnvAsInt("WEBHOOK_MAX_RETRIES", 3),
		WebhookBaseDelay:    getEnvAsDuration("WEBHOOK_BASE_DELAY", time.Second),
		SlackWebhookURL:     os.Getenv("SLACK_WEBHOOK_URL"),
		CalendarTimezone:    getEnv("CALENDAR_TIMEZONE", "Africa/Libreville"),
		CalendarMaxSpanDays: getEnvAsInt("CALENDAR_MAX_SPAN_DAYS", 365),
		RefreshDebounce:     getEnvAsDuration("REFRESH_DEBOUNCE", 500*time.Millisecond),
		ICSDomain:           getEnv("ICS_DOMAIN", "outages.local"),
		MapCenterLat:        getEnvAsFloat("MAP_CENTER_LAT", 0.4162),
		MapCenterLon:        getEnvAsFloat("MAP_CENTER_LON", 9.4527),
		MapZoom:             getEnvAsInt("MAP_ZOOM", 13),
	}

	// Загрузка API ключей
	apiKeysStr := os.Getenv("API_KEYS")
	if apiKeysStr != "" {
		cfg.APIKeys = strings.Split(apiKeysStr, ",")
		for i, key := range cfg.APIKeys {
			cfg.APIKeys[i] = strings.TrimSpace(key)
		}
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}

	loc, err := time.LoadLocation(cfg.CalendarTimezone)
	if err != nil {
		return nil, fmt.Errorf("invalid CALENDAR_TIMEZONE %q: %w", cfg.CalendarTimezone, err)
	}
	cfg.CalendarLocation = loc

	return cfg, nil
}

// getEnv возвращает значение переменной окружения или значение по умолчанию
func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt возвращает значение переменной окружения как int или значение по умолчанию
func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsFloat возвращает значение переменной окружения как float64 или значение по умолчанию
func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

// getEnvAsDuration возвращает значение переменной окружения как time.Duration или значение по умолчанию
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if durationValue, err := time.ParseDuration(value); err == nil {
			return durationValue
		}
	}
	return defaultValue
}
