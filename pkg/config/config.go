package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
)

type Config struct {
	Env      string
	Locale   string
	Timezone string

	Log      LogConfig
	API      APIConfig
	Session  SessionConfig
	Scanner  ScannerConfig
	Schedule ScheduleConfig
	QR       QRConfig
	Export   ExportConfig
	Sandbox  SandboxConfig
}

type LogConfig struct {
	Level  string
	Format string
}

// APIConfig points the client at the remote backend.
type APIConfig struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
}

// SessionConfig controls where the bearer token and signed-in user are kept.
type SessionConfig struct {
	File string
}

// ScannerConfig tunes the attendance scanner.
type ScannerConfig struct {
	Cooldown time.Duration
}

// ScheduleConfig tunes the student schedule screen.
type ScheduleConfig struct {
	ReloadDelay time.Duration
}

// QRConfig controls identity code rendering.
type QRConfig struct {
	Size          int
	RecoveryLevel string
}

type ExportConfig struct {
	Dir string
}

// SandboxConfig configures the local development backend.
type SandboxConfig struct {
	Port           int
	Store          string
	SeedDemo       bool
	EnableDocs     bool
	AllowedOrigins []string
	Database       DatabaseConfig
	JWT            JWTConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type JWTConfig struct {
	Secret     string
	Expiration time.Duration
	Issuer     string
}

// Location resolves the configured timezone, falling back to local time.
func (c *Config) Location() *time.Location {
	if c == nil || c.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Locale = strings.ToLower(v.GetString("LOCALE"))
	cfg.Timezone = v.GetString("TIMEZONE")

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.API = APIConfig{
		BaseURL:   strings.TrimRight(v.GetString("API_BASE_URL"), "/"),
		Timeout:   parseDuration(v.GetString("API_TIMEOUT"), 15*time.Second),
		UserAgent: v.GetString("API_USER_AGENT"),
	}

	cfg.Session = SessionConfig{File: expandHome(v.GetString("SESSION_FILE"))}

	cfg.Scanner = ScannerConfig{
		Cooldown: parseDuration(v.GetString("SCANNER_COOLDOWN"), 3*time.Second),
	}

	cfg.Schedule = ScheduleConfig{
		ReloadDelay: parseDuration(v.GetString("SCHEDULE_RELOAD_DELAY"), 500*time.Millisecond),
	}

	size := v.GetInt("QR_SIZE")
	if size <= 0 {
		size = 250
	}
	cfg.QR = QRConfig{
		Size:          size,
		RecoveryLevel: strings.ToLower(v.GetString("QR_RECOVERY_LEVEL")),
	}

	cfg.Export = ExportConfig{Dir: expandHome(v.GetString("EXPORT_DIR"))}

	store := strings.ToLower(v.GetString("SANDBOX_STORE"))
	if store != StorePostgres {
		store = StoreMemory
	}
	cfg.Sandbox = SandboxConfig{
		Port:           v.GetInt("PORT"),
		Store:          store,
		SeedDemo:       v.GetBool("SANDBOX_SEED_DEMO"),
		EnableDocs:     v.GetBool("ENABLE_DOCS"),
		AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS")),
		Database: DatabaseConfig{
			Host:         v.GetString("DB_HOST"),
			Port:         v.GetInt("DB_PORT"),
			User:         v.GetString("DB_USER"),
			Password:     v.GetString("DB_PASSWORD"),
			Name:         v.GetString("DB_NAME"),
			SSLMode:      v.GetString("DB_SSL_MODE"),
			MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
		},
		JWT: JWTConfig{
			Secret:     v.GetString("JWT_SECRET"),
			Expiration: parseDuration(v.GetString("JWT_EXPIRATION"), 24*time.Hour),
			Issuer:     v.GetString("JWT_ISSUER"),
		},
	}

	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("LOCALE", "sr")
	v.SetDefault("TIMEZONE", "Europe/Belgrade")

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")

	v.SetDefault("API_BASE_URL", "http://localhost:8080")
	v.SetDefault("API_TIMEOUT", "15s")
	v.SetDefault("API_USER_AGENT", "tutorctl/0.1")

	v.SetDefault("SESSION_FILE", "~/.tutorhub/session.json")
	v.SetDefault("SCANNER_COOLDOWN", "3s")
	v.SetDefault("SCHEDULE_RELOAD_DELAY", "500ms")

	v.SetDefault("QR_SIZE", 250)
	v.SetDefault("QR_RECOVERY_LEVEL", "medium")
	v.SetDefault("EXPORT_DIR", "./exports")

	v.SetDefault("PORT", 8080)
	v.SetDefault("SANDBOX_STORE", StoreMemory)
	v.SetDefault("SANDBOX_SEED_DEMO", true)
	v.SetDefault("ENABLE_DOCS", true)
	v.SetDefault("ALLOWED_ORIGINS", "")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "tutorhub")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_EXPIRATION", "24h")
	v.SetDefault("JWT_ISSUER", "tutorhub-sandbox")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}
