package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

const PROD_STRING = "prod"

// Site holds settings for the booking site client.
type Site struct {
	BaseURL           string        `env:"SITE_BASE_URL" envDefault:"https://liverpoollifestyles.legendonlineservices.co.uk"`
	Email             string        `env:"LIFESTYLES_EMAIL"`
	Password          string        `env:"LIFESTYLES_PASSWORD"`
	Timezone          string        `env:"SITE_TIMEZONE" envDefault:"Europe/London"`
	Timeout           time.Duration `env:"SITE_TIMEOUT" envDefault:"30s"`
	RequestsPerSecond float64       `env:"SITE_REQUESTS_PER_SECOND" envDefault:"5"`
	CacheSize         int           `env:"SITE_CACHE_SIZE" envDefault:"256"`
	UserAgent         string        `env:"SITE_USER_AGENT" envDefault:"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"`
}

// Club holds the recurring club booking policy.
type Club struct {
	ActivityID         int `env:"CLUB_ACTIVITY_ID" envDefault:"254"`
	OddWeekLocationID  int `env:"CLUB_ODD_WEEK_LOCATION_ID" envDefault:"144"`
	EvenWeekLocationID int `env:"CLUB_EVEN_WEEK_LOCATION_ID" envDefault:"3"`
	DaysAhead          int `env:"CLUB_DAYS_AHEAD" envDefault:"7"`
}

// HTTP holds settings for the API server.
type HTTP struct {
	Addr        string        `env:"HTTP_ADDR" envDefault:":8080"`
	ProdOrigins string        `env:"PROD_ORIGINS"`
	JWTSecret   string        `env:"API_JWT_SECRET"`
	JWTTTL      time.Duration `env:"API_JWT_TTL" envDefault:"720h"`
	RateLimit   string        `env:"API_RATE_LIMIT" envDefault:"30-M"`
}

// Config holds all application configuration loaded from environment.
type Config struct {
	AppEnv       string `env:"APP_ENV" envDefault:"dev"`
	LogLevel     string `env:"LOG_LEVEL" envDefault:"info"`
	IsProduction bool

	Site Site
	Club Club
	HTTP HTTP
}

// Load loads configuration from .env (optional) and environment variables.
// Credentials are not required here; the site client checks them when a session is opened.
func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("failed to load .env file: %v", err)
	}
	return Parse()
}

// Parse reads configuration from the process environment only.
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	cfg.AppEnv = strings.ToLower(cfg.AppEnv)
	cfg.IsProduction = cfg.AppEnv == PROD_STRING

	// Older .env files use lowercase credential keys.
	if cfg.Site.Email == "" {
		cfg.Site.Email = os.Getenv("lifestyles_email")
	}
	if cfg.Site.Password == "" {
		cfg.Site.Password = os.Getenv("lifestyles_password")
	}

	cfg.Site.BaseURL = strings.TrimRight(cfg.Site.BaseURL, "/")
	if cfg.Site.BaseURL == "" {
		return nil, fmt.Errorf("SITE_BASE_URL must not be empty")
	}
	if _, err := time.LoadLocation(cfg.Site.Timezone); err != nil {
		return nil, fmt.Errorf("invalid SITE_TIMEZONE: %w", err)
	}
	if cfg.Site.RequestsPerSecond < 0 {
		return nil, fmt.Errorf("SITE_REQUESTS_PER_SECOND must not be negative")
	}
	if cfg.Club.DaysAhead < 0 {
		return nil, fmt.Errorf("CLUB_DAYS_AHEAD must not be negative")
	}

	return cfg, nil
}

// Location returns the site's time zone. Parse has already validated it.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Site.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Origins splits ProdOrigins into a list, dropping empty entries.
func (h HTTP) Origins() []string {
	var out []string
	for _, o := range strings.Split(h.ProdOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
