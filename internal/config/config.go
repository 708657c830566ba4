package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// AppConfig holds every non-database setting the services need. It is built
// once at startup and passed down by reference; business logic never reads the
// environment directly.
type AppConfig struct {
	JWTSecret       string
	JWTExpiration   time.Duration
	ResetCodeTTL    time.Duration
	ResetCooldown   time.Duration
	ResetBaseURL    string
	SMTPHost        string
	SMTPPort        int
	SMTPUser        string
	SMTPPassword    string
	EmailFrom       string
	ServerPort      string
}

// LoadAppConfig loads application configuration from environment variables
func LoadAppConfig() (*AppConfig, error) {
	secret := os.Getenv("JWT_SECRET_KEY")
	if secret == "" {
		return nil, fmt.Errorf("JWT_SECRET_KEY not set in environment")
	}

	cfg := &AppConfig{
		JWTSecret:     secret,
		JWTExpiration: time.Hour,
		ResetCodeTTL:  15 * time.Minute,
		ResetCooldown: 15 * time.Minute,
		ResetBaseURL:  os.Getenv("RESET_BASE_URL"),
		SMTPHost:      os.Getenv("SMTP_HOST"),
		SMTPUser:      os.Getenv("SMTP_USER"),
		SMTPPassword:  os.Getenv("SMTP_PASSWORD"),
		EmailFrom:     os.Getenv("EMAIL_FROM"),
		ServerPort:    os.Getenv("SERVER_PORT"),
	}

	if expStr := os.Getenv("JWT_EXPIRATION_MINUTES"); expStr != "" {
		expMin, err := strconv.ParseInt(expStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid JWT_EXPIRATION_MINUTES: %w", err)
		}
		cfg.JWTExpiration = time.Duration(expMin) * time.Minute
	}

	if ttlStr := os.Getenv("RESET_CODE_TTL_MINUTES"); ttlStr != "" {
		ttlMin, err := strconv.ParseInt(ttlStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid RESET_CODE_TTL_MINUTES: %w", err)
		}
		cfg.ResetCodeTTL = time.Duration(ttlMin) * time.Minute
	}

	if cdStr := os.Getenv("RESET_COOLDOWN_MINUTES"); cdStr != "" {
		cdMin, err := strconv.ParseInt(cdStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid RESET_COOLDOWN_MINUTES: %w", err)
		}
		cfg.ResetCooldown = time.Duration(cdMin) * time.Minute
	}

	cfg.SMTPPort = 587
	if portStr := os.Getenv("SMTP_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return nil, fmt.Errorf("invalid SMTP_PORT: %w", err)
		}
		cfg.SMTPPort = port
	}

	if cfg.ResetBaseURL == "" {
		cfg.ResetBaseURL = "http://localhost:8080"
	}
	if cfg.ServerPort == "" {
		cfg.ServerPort = "8080"
	}

	return cfg, nil
}
