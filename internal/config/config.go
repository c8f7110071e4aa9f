package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Session slot backends.
const (
	SessionFile    = "file"
	SessionKeyring = "keyring"
	SessionSQLite  = "sqlite"
	SessionMemory  = "memory"
)

// Config holds runtime configuration sourced from env vars and an optional
// config file.
type Config struct {
	Port           string
	DatabaseURL    string
	IdentitiesFile string
	JWTSecret      string
	JWTIssuer      string
	JWTTTL         time.Duration
	CORSOrigins    []string

	SessionBackend string
	SessionPath    string
	SessionKey     string
	SessionWatch   bool
	VerifyPassword bool

	ReplyProbability float64
	ReplyDelayMin    time.Duration
	ReplyDelayMax    time.Duration
	ToastDuration    time.Duration
	SeedDemoMessages bool

	LogLevel  string
	LogFormat string
}

// Load reads configuration and performs minimal validation. configFile may be
// empty; values from the environment always win.
func Load(configFile string) (Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	cfg := Config{
		Port:             fallback(v.GetString("PORT"), "8080"),
		DatabaseURL:      strings.TrimSpace(v.GetString("DATABASE_URL")),
		IdentitiesFile:   strings.TrimSpace(v.GetString("IDENTITIES_FILE")),
		JWTSecret:        strings.TrimSpace(v.GetString("JWT_SECRET")),
		JWTIssuer:        fallback(v.GetString("JWT_ISSUER"), "console-backend"),
		CORSOrigins:      parseCSV(fallback(v.GetString("CORS_ALLOWED_ORIGINS"), "*")),
		SessionBackend:   strings.ToLower(fallback(v.GetString("SESSION_BACKEND"), SessionFile)),
		SessionPath:      strings.TrimSpace(v.GetString("SESSION_PATH")),
		SessionKey:       fallback(v.GetString("SESSION_KEY"), "console.session"),
		SessionWatch:     v.GetBool("SESSION_WATCH"),
		VerifyPassword:   v.GetBool("AUTH_VERIFY_PASSWORD"),
		ReplyProbability: v.GetFloat64("REPLY_PROBABILITY"),
		SeedDemoMessages: v.GetBool("MESSAGING_SEED_DEMO"),
		LogLevel:         fallback(v.GetString("LOG_LEVEL"), "info"),
		LogFormat:        fallback(v.GetString("LOG_FORMAT"), "json"),
	}

	cfg.JWTTTL = minutes(v.GetInt("JWT_TTL_MINUTES"), 60)
	cfg.ReplyDelayMin = seconds(v.GetInt("REPLY_DELAY_MIN_SECONDS"), 8)
	cfg.ReplyDelayMax = seconds(v.GetInt("REPLY_DELAY_MAX_SECONDS"), 13)
	cfg.ToastDuration = seconds(v.GetInt("TOAST_DURATION_SECONDS"), 5)

	if cfg.SessionPath == "" {
		cfg.SessionPath = defaultSessionPath(cfg.SessionBackend)
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("REPLY_PROBABILITY", 0.5)
	v.SetDefault("SESSION_WATCH", true)
	v.SetDefault("MESSAGING_SEED_DEMO", false)
	v.SetDefault("AUTH_VERIFY_PASSWORD", false)
}

func (c Config) validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	switch c.SessionBackend {
	case SessionFile, SessionKeyring, SessionSQLite, SessionMemory:
	default:
		return fmt.Errorf("SESSION_BACKEND %q is not one of file, keyring, sqlite, memory", c.SessionBackend)
	}
	if c.ReplyProbability < 0 || c.ReplyProbability > 1 {
		return fmt.Errorf("REPLY_PROBABILITY must be within [0,1], got %v", c.ReplyProbability)
	}
	if c.ReplyDelayMax < c.ReplyDelayMin {
		return errors.New("REPLY_DELAY_MAX_SECONDS must not be below REPLY_DELAY_MIN_SECONDS")
	}
	return nil
}

// HTTPAddress returns the host:port pair for the HTTP server to bind to.
func (c Config) HTTPAddress() string {
	return fmt.Sprintf(":%s", c.Port)
}

func defaultSessionPath(backend string) string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	base := filepath.Join(dir, "all-in-console")
	switch backend {
	case SessionSQLite:
		return filepath.Join(base, "session.db")
	case SessionKeyring:
		return filepath.Join(base, "keyring")
	default:
		return filepath.Join(base, "session.json")
	}
}

func minutes(value, def int) time.Duration {
	if value <= 0 {
		value = def
	}
	return time.Duration(value) * time.Minute
}

func seconds(value, def int) time.Duration {
	if value <= 0 {
		value = def
	}
	return time.Duration(value) * time.Second
}

func fallback(value, def string) string {
	if strings.TrimSpace(value) == "" {
		return def
	}
	return strings.TrimSpace(value)
}

func parseCSV(input string) []string {
	parts := strings.Split(input, ",")
	var out []string
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
