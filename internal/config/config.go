// Package config reads host configuration from INCARRA_ environment
// variables, with a best-effort .env file for local development.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultHTTPAddr        = "127.0.0.1:8080"
	defaultShutdownTimeout = 5 * time.Second
	defaultLogFormat       = LogFormatText
	defaultLogLevel        = slog.LevelInfo
	defaultStoreBackend    = StoreBackendMemory
	defaultSQLitePath      = "incarra.db"
	defaultMongoDatabase   = "incarra"
	defaultCacheSize       = 1024
	defaultAuthMode        = AuthModeSignature
	defaultRateLimit       = 60
	defaultRateWindow      = time.Minute
	defaultStreamHistory   = 32
	defaultCompanionMode   = CompanionModeStatic
	defaultGeminiModel     = "gemini-2.0-flash"
)

type StoreBackend string

const (
	StoreBackendMemory StoreBackend = "memory"
	StoreBackendSQLite StoreBackend = "sqlite"
	StoreBackendMongo  StoreBackend = "mongo"
)

type AuthMode string

const (
	AuthModeSignature AuthMode = "signature"
	AuthModeInsecure  AuthMode = "insecure"
)

type CompanionMode string

const (
	CompanionModeStatic CompanionMode = "static"
	CompanionModeGemini CompanionMode = "gemini"
)

type LogFormat string

const (
	LogFormatText LogFormat = "text"
	LogFormatJSON LogFormat = "json"
)

// Config controls HTTP boot, persistence and companion behavior.
type Config struct {
	HTTPAddr        string
	ShutdownTimeout time.Duration
	LogFormat       LogFormat
	LogLevel        slog.Level
	StoreBackend    StoreBackend
	SQLitePath      string
	MongoURI        string
	MongoDatabase   string
	CacheSize       int
	Namespace       string
	AuthMode        AuthMode
	RateLimit       int
	RateWindow      time.Duration
	StreamHistory   int
	CompanionMode   CompanionMode
	GeminiAPIKey    string
	GeminiModel     string
}

// Load reads runtime configuration from environment variables. A local
// .env file is folded in first when present; real deployments set the
// variables directly.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Default()

	if addr := strings.TrimSpace(os.Getenv("INCARRA_HTTP_ADDR")); addr != "" {
		cfg.HTTPAddr = addr
	}
	if timeout := strings.TrimSpace(os.Getenv("INCARRA_SHUTDOWN_TIMEOUT")); timeout != "" {
		parsed, err := parseDuration("INCARRA_SHUTDOWN_TIMEOUT", timeout)
		if err != nil {
			return Config{}, err
		}
		cfg.ShutdownTimeout = parsed
	}
	if level := strings.TrimSpace(os.Getenv("INCARRA_LOG_LEVEL")); level != "" {
		parsed, err := parseLogLevel(level)
		if err != nil {
			return Config{}, err
		}
		cfg.LogLevel = parsed
	}
	if format := strings.TrimSpace(os.Getenv("INCARRA_LOG_FORMAT")); format != "" {
		parsed, err := parseLogFormat(format)
		if err != nil {
			return Config{}, err
		}
		cfg.LogFormat = parsed
	}

	if backend := strings.TrimSpace(os.Getenv("INCARRA_STORE_BACKEND")); backend != "" {
		cfg.StoreBackend = StoreBackend(strings.ToLower(backend))
	}
	if path := strings.TrimSpace(os.Getenv("INCARRA_SQLITE_PATH")); path != "" {
		cfg.SQLitePath = path
	}
	if uri := strings.TrimSpace(os.Getenv("INCARRA_MONGO_URI")); uri != "" {
		cfg.MongoURI = uri
	}
	if db := strings.TrimSpace(os.Getenv("INCARRA_MONGO_DATABASE")); db != "" {
		cfg.MongoDatabase = db
	}
	if size := strings.TrimSpace(os.Getenv("INCARRA_CACHE_SIZE")); size != "" {
		parsed, err := parseCount("INCARRA_CACHE_SIZE", size)
		if err != nil {
			return Config{}, err
		}
		cfg.CacheSize = parsed
	}
	if namespace := strings.TrimSpace(os.Getenv("INCARRA_NAMESPACE")); namespace != "" {
		cfg.Namespace = namespace
	}

	if mode := strings.TrimSpace(os.Getenv("INCARRA_AUTH_MODE")); mode != "" {
		cfg.AuthMode = AuthMode(strings.ToLower(mode))
	}
	if limit := strings.TrimSpace(os.Getenv("INCARRA_RATE_LIMIT")); limit != "" {
		parsed, err := parseCount("INCARRA_RATE_LIMIT", limit)
		if err != nil {
			return Config{}, err
		}
		cfg.RateLimit = parsed
	}
	if window := strings.TrimSpace(os.Getenv("INCARRA_RATE_WINDOW")); window != "" {
		parsed, err := parseDuration("INCARRA_RATE_WINDOW", window)
		if err != nil {
			return Config{}, err
		}
		cfg.RateWindow = parsed
	}
	if history := strings.TrimSpace(os.Getenv("INCARRA_STREAM_HISTORY")); history != "" {
		parsed, err := parseCount("INCARRA_STREAM_HISTORY", history)
		if err != nil {
			return Config{}, err
		}
		cfg.StreamHistory = parsed
	}

	if mode := strings.TrimSpace(os.Getenv("INCARRA_COMPANION_MODE")); mode != "" {
		cfg.CompanionMode = CompanionMode(strings.ToLower(mode))
	}
	if key := strings.TrimSpace(os.Getenv("INCARRA_GEMINI_API_KEY")); key != "" {
		cfg.GeminiAPIKey = key
	}
	if model := strings.TrimSpace(os.Getenv("INCARRA_GEMINI_MODEL")); model != "" {
		cfg.GeminiModel = model
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func Default() Config {
	return Config{
		HTTPAddr:        defaultHTTPAddr,
		ShutdownTimeout: defaultShutdownTimeout,
		LogFormat:       defaultLogFormat,
		LogLevel:        defaultLogLevel,
		StoreBackend:    defaultStoreBackend,
		SQLitePath:      defaultSQLitePath,
		MongoDatabase:   defaultMongoDatabase,
		CacheSize:       defaultCacheSize,
		AuthMode:        defaultAuthMode,
		RateLimit:       defaultRateLimit,
		RateWindow:      defaultRateWindow,
		StreamHistory:   defaultStreamHistory,
		CompanionMode:   defaultCompanionMode,
		GeminiModel:     defaultGeminiModel,
	}
}

func (c Config) Validate() error {
	switch c.StoreBackend {
	case StoreBackendMemory:
	case StoreBackendSQLite:
		if strings.TrimSpace(c.SQLitePath) == "" {
			return errors.New("validate config: sqlite backend requires INCARRA_SQLITE_PATH")
		}
	case StoreBackendMongo:
		if strings.TrimSpace(c.MongoURI) == "" {
			return errors.New("validate config: mongo backend requires INCARRA_MONGO_URI")
		}
		if strings.TrimSpace(c.MongoDatabase) == "" {
			return errors.New("validate config: mongo backend requires INCARRA_MONGO_DATABASE")
		}
	default:
		return fmt.Errorf(
			"validate config: unsupported INCARRA_STORE_BACKEND %q (allowed: %q, %q, %q)",
			c.StoreBackend,
			StoreBackendMemory,
			StoreBackendSQLite,
			StoreBackendMongo,
		)
	}

	switch c.AuthMode {
	case AuthModeSignature, AuthModeInsecure:
	default:
		return fmt.Errorf(
			"validate config: unsupported INCARRA_AUTH_MODE %q (allowed: %q, %q)",
			c.AuthMode,
			AuthModeSignature,
			AuthModeInsecure,
		)
	}

	switch c.CompanionMode {
	case CompanionModeStatic:
	case CompanionModeGemini:
		if strings.TrimSpace(c.GeminiAPIKey) == "" {
			return errors.New("validate config: gemini mode requires INCARRA_GEMINI_API_KEY")
		}
		if strings.TrimSpace(c.GeminiModel) == "" {
			return errors.New("validate config: gemini mode requires INCARRA_GEMINI_MODEL")
		}
	default:
		return fmt.Errorf(
			"validate config: unsupported INCARRA_COMPANION_MODE %q (allowed: %q, %q)",
			c.CompanionMode,
			CompanionModeStatic,
			CompanionModeGemini,
		)
	}

	switch c.LogLevel {
	case slog.LevelDebug, slog.LevelInfo, slog.LevelWarn, slog.LevelError:
	default:
		return fmt.Errorf(
			"validate config: unsupported INCARRA_LOG_LEVEL %q (allowed: %q, %q, %q, %q)",
			c.LogLevel.String(),
			slog.LevelDebug.String(),
			slog.LevelInfo.String(),
			slog.LevelWarn.String(),
			slog.LevelError.String(),
		)
	}

	switch c.LogFormat {
	case LogFormatText, LogFormatJSON:
	default:
		return fmt.Errorf(
			"validate config: unsupported INCARRA_LOG_FORMAT %q (allowed: %q, %q)",
			c.LogFormat,
			LogFormatText,
			LogFormatJSON,
		)
	}

	if c.CacheSize <= 0 {
		return errors.New("validate config: INCARRA_CACHE_SIZE must be > 0")
	}
	if c.RateLimit <= 0 {
		return errors.New("validate config: INCARRA_RATE_LIMIT must be > 0")
	}
	if c.RateWindow <= 0 {
		return errors.New("validate config: INCARRA_RATE_WINDOW must be > 0")
	}
	if c.StreamHistory <= 0 {
		return errors.New("validate config: INCARRA_STREAM_HISTORY must be > 0")
	}

	return nil
}

func parseDuration(name, input string) (time.Duration, error) {
	parsed, err := time.ParseDuration(input)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", name, err)
	}
	if parsed <= 0 {
		return 0, fmt.Errorf("parse %s: value must be > 0", name)
	}
	return parsed, nil
}

func parseCount(name, input string) (int, error) {
	parsed, err := strconv.Atoi(input)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", name, err)
	}
	if parsed <= 0 {
		return 0, fmt.Errorf("parse %s: value must be > 0", name)
	}
	return parsed, nil
}

func parseLogLevel(input string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf(
			"parse INCARRA_LOG_LEVEL: unsupported value %q (allowed: %q, %q, %q, %q)",
			input,
			slog.LevelDebug.String(),
			slog.LevelInfo.String(),
			slog.LevelWarn.String(),
			slog.LevelError.String(),
		)
	}
}

func parseLogFormat(input string) (LogFormat, error) {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case string(LogFormatText):
		return LogFormatText, nil
	case string(LogFormatJSON):
		return LogFormatJSON, nil
	default:
		return "", fmt.Errorf(
			"parse INCARRA_LOG_FORMAT: unsupported value %q (allowed: %q, %q)",
			input,
			LogFormatText,
			LogFormatJSON,
		)
	}
}
