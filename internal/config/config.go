// Package config loads application configuration from environment variables,
// an optional .env file, and an optional letter type YAML file.
package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"suratdesa/internal/domain/lettertype"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL string
	Port        string
	Env         string // development or production
	LogLevel    string

	JWTSecret          string
	JWTIssuer          string
	AccessTokenTTL     time.Duration
	RefreshTokenExpiry time.Duration

	// Pending reservations older than ReservationTTL are swept to Released.
	ReservationTTL time.Duration
	SweepInterval  time.Duration

	CORSAllowedOrigins []string

	// LetterTypesFile points at a YAML file overriding the built-in letter
	// type definitions. Empty means use the defaults.
	LetterTypesFile string
	LetterTypes     []lettertype.Definition
}

// IsDevelopment reports whether the app runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Env != "production"
}

// Load reads configuration. Environment variables win over .env values.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("JWT_SECRET", "change-me-in-production")
	v.SetDefault("JWT_ISSUER", "suratdesa")
	v.SetDefault("ACCESS_TOKEN_TTL", "15m")
	v.SetDefault("REFRESH_TOKEN_EXPIRY", "168h")
	v.SetDefault("RESERVATION_TTL", "24h")
	v.SetDefault("SWEEP_INTERVAL", "15m")
	v.SetDefault("CORS_ALLOWED_ORIGINS", []string{"*"})
	v.SetDefault("LETTER_TYPES_FILE", "")
	v.AutomaticEnv()

	cfg := &Config{
		DatabaseURL:        v.GetString("DATABASE_URL"),
		Port:               v.GetString("APP_PORT"),
		Env:                v.GetString("APP_ENV"),
		LogLevel:           v.GetString("LOG_LEVEL"),
		JWTSecret:          v.GetString("JWT_SECRET"),
		JWTIssuer:          v.GetString("JWT_ISSUER"),
		AccessTokenTTL:     v.GetDuration("ACCESS_TOKEN_TTL"),
		RefreshTokenExpiry: v.GetDuration("REFRESH_TOKEN_EXPIRY"),
		ReservationTTL:     v.GetDuration("RESERVATION_TTL"),
		SweepInterval:      v.GetDuration("SWEEP_INTERVAL"),
		CORSAllowedOrigins: v.GetStringSlice("CORS_ALLOWED_ORIGINS"),
		LetterTypesFile:    v.GetString("LETTER_TYPES_FILE"),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	defs, err := loadLetterTypes(cfg.LetterTypesFile)
	if err != nil {
		return nil, err
	}
	cfg.LetterTypes = defs

	return cfg, nil
}

// loadLetterTypes reads letter type definitions from a YAML file of the form:
//
//	letter_types:
//	  - code: surat-keterangan-usaha
//	    name: Surat Keterangan Usaha
//	    desk_code: "03"
//	    fee: "0"
//	    rule: '"nama_usaha" in payload'
func loadLetterTypes(path string) ([]lettertype.Definition, error) {
	if path == "" {
		return lettertype.DefaultDefinitions(), nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read letter types file %s: %w", path, err)
	}

	var defs []lettertype.Definition
	if err := v.UnmarshalKey("letter_types", &defs); err != nil {
		return nil, fmt.Errorf("parse letter types file %s: %w", path, err)
	}
	if len(defs) == 0 {
		return nil, fmt.Errorf("letter types file %s defines no letter_types", path)
	}
	return defs, nil
}
