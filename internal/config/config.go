package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
	_ "time/tzdata" // the container image may ship without zoneinfo

	"github.com/joho/godotenv"
	"github.com/pfrederiksen/cineco-calendar/internal/logger"
	"github.com/pfrederiksen/cineco-calendar/internal/scraper"
)

const (
	DefaultTimezone = "Europe/Paris"
	DefaultHTTPAddr = ":8080"
)

// Config holds all runtime settings
type Config struct {
	Login    string // CINEGESTION_LOGIN
	Password string // CINEGESTION_PASSWORD
	BaseURL  string // CINEGESTION_URL
	Timeout  time.Duration

	Location *time.Location // CINECO_TIMEZONE
	CacheTTL time.Duration  // CINECO_CACHE_TTL, 0 disables the listing cache

	HTTPAddr string
	LogLevel logger.Level
}

// Load reads an optional .env file, then the environment.
func Load() (Config, error) {
	if err := loadDotEnv(); err != nil {
		return Config{}, err
	}
	return FromEnv()
}

// LoadOffline is Load without the Cinegestion credentials, for commands that
// read a saved listing page.
func LoadOffline() (Config, error) {
	if err := loadDotEnv(); err != nil {
		return Config{}, err
	}
	return fromEnv(false)
}

// FromEnv builds a Config from environment variables.
func FromEnv() (Config, error) {
	return fromEnv(true)
}

func loadDotEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("reading .env: %w", err)
	}
	return nil
}

func fromEnv(credentials bool) (Config, error) {
	var c Config
	var err error

	c.Login = strings.TrimSpace(os.Getenv("CINEGESTION_LOGIN"))
	c.Password = os.Getenv("CINEGESTION_PASSWORD")
	c.BaseURL = strings.TrimRight(envOr("CINEGESTION_URL", scraper.DefaultBaseURL), "/")

	if c.Timeout, err = envDuration("CINEGESTION_TIMEOUT", scraper.Timeout); err != nil {
		return c, err
	}
	if c.CacheTTL, err = envDuration("CINECO_CACHE_TTL", 0); err != nil {
		return c, err
	}

	if c.Location, err = LoadLocation(envOr("CINECO_TIMEZONE", DefaultTimezone)); err != nil {
		return c, err
	}

	c.HTTPAddr = envOr("HTTP_ADDR", DefaultHTTPAddr)

	if c.LogLevel, err = logger.ParseLevel(envOr("LOG_LEVEL", string(logger.LevelInfo))); err != nil {
		return c, fmt.Errorf("LOG_LEVEL: %w", err)
	}

	if !credentials {
		return c, nil
	}
	if c.Login == "" {
		return c, fmt.Errorf("CINEGESTION_LOGIN is empty")
	}
	if c.Password == "" {
		return c, fmt.Errorf("CINEGESTION_PASSWORD is empty")
	}

	return c, nil
}

// LoadLocation resolves an IANA timezone name.
func LoadLocation(name string) (*time.Location, error) {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("CINECO_TIMEZONE: %w", err)
	}
	return loc, nil
}

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func envDuration(key string, def time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid duration %q", key, v)
	}
	if d < 0 {
		return 0, fmt.Errorf("%s: negative duration %q", key, v)
	}
	return d, nil
}
