package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config はアプリケーション全体の設定を保持する。
// 環境変数から起動時に1回読み込み、イミュータブルとして扱う。
type Config struct {
	// Database
	DatabaseURL       string        `validate:"required"`
	DBMaxOpenConns    int           `validate:"min=1"`
	DBMaxIdleConns    int           `validate:"min=0,ltefield=DBMaxOpenConns"`
	DBConnMaxLifetime time.Duration `validate:"gt=0"`

	// チャットボット側（会話・レート取得・AI）が参照する値。このモジュールでは使用しない。
	BotToken     string
	APIBase      string
	OpenAIAPIKey string

	// Admin API
	AdminToken         string
	ServerPort         string        `validate:"required,numeric"`
	RequestTimeout     time.Duration `validate:"gt=0"`
	RateLimitPerMinute int           `validate:"min=1"`

	// Stats
	StatsInterval     time.Duration `validate:"gt=0"`
	PopularPairsLimit int           `validate:"min=1,max=100"`

	// Logging
	LogLevel string `validate:"oneof=debug info warn error"`
}

// Load は環境変数からConfigを読み込む。
// カレントディレクトリに.envがあれば先に読み込むが、既存の環境変数は上書きしない。
// 必須環境変数が未設定、または値が範囲外の場合はエラーを返す。
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := &Config{}

	// Required fields
	var missing []string

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("required environment variables are not set: %v", missing)
	}

	// Optional fields with defaults
	cfg.DBMaxOpenConns = getEnvInt("DB_MAX_OPEN_CONNS", 5)
	cfg.DBMaxIdleConns = getEnvInt("DB_MAX_IDLE_CONNS", 1)
	cfg.DBConnMaxLifetime = getEnvDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute)
	cfg.BotToken = getEnvString("BOT_TOKEN", "")
	cfg.APIBase = getEnvString("API_BASE", "")
	cfg.OpenAIAPIKey = getEnvString("OPENAI_API_KEY", "")
	cfg.AdminToken = getEnvString("ADMIN_TOKEN", "")
	cfg.ServerPort = getEnvString("SERVER_PORT", "8080")
	cfg.RequestTimeout = getEnvDuration("REQUEST_TIMEOUT", 5*time.Second)
	cfg.RateLimitPerMinute = getEnvInt("RATE_LIMIT_PER_MINUTE", 120)
	cfg.StatsInterval = getEnvDuration("STATS_INTERVAL", time.Minute)
	cfg.PopularPairsLimit = getEnvInt("POPULAR_PAIRS_LIMIT", 10)
	cfg.LogLevel = strings.ToLower(getEnvString("LOG_LEVEL", "info"))

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// AdminAPIEnabled は管理APIの認証トークンが設定されているかを返す。
func (c *Config) AdminAPIEnabled() bool {
	return c.AdminToken != ""
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}
