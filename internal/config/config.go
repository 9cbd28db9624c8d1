// Package config loads runtime settings from the environment into one
// explicit struct that is passed to component constructors at startup.
package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every runtime setting for the service.
type Config struct {
	Port     string
	AppEnv   string
	MongoURI string
	MongoDB  string

	JWTSecret string
	JWTExpire time.Duration

	// UseCookie makes login also set the token as an http-only cookie.
	UseCookie    bool
	CookieExpire time.Duration

	SMTPServer   string
	SMTPUser     string
	SMTPPassword string
	FromName     string

	// ResetURL is the frontend base URL the reset token is appended to.
	ResetURL string

	CORSOrigins []string
}

// IsDevelopment reports whether verbose error detail may be returned to
// clients.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// Load reads a .env file if present and builds the Config from
// environment variables with development defaults.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	cfg := &Config{
		Port:         getEnv("PORT", "8080"),
		AppEnv:       getEnv("APP_ENV", "development"),
		MongoURI:     getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:      getEnv("MONGO_DB", "authgate"),
		JWTSecret:    getEnv("JWT_SECRET", "dev-secret-change-me"),
		JWTExpire:    getDuration("JWT_EXPIRE", 24*time.Hour),
		UseCookie:    getEnv("USE_COOKIE", "") == "true",
		CookieExpire: time.Duration(getInt("COOKIE_EXPIRE", 1)) * 24 * time.Hour,
		SMTPServer:   os.Getenv("SMTP_SERVER"),
		SMTPUser:     os.Getenv("SMTP_USER"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		FromName:     getEnv("FROM_NAME", "Authgate"),
		ResetURL:     getEnv("RESET_URL", "http://localhost:3000/reset-password"),
	}

	origins := getEnv("CORS_ORIGINS", "http://localhost:3000")
	for _, o := range strings.Split(origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.CORSOrigins = append(cfg.CORSOrigins, o)
		}
	}
	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("Warning: invalid %s=%q, using default", key, v)
		return fallback
	}
	return n
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("Warning: invalid %s=%q, using default", key, v)
		return fallback
	}
	return d
}
