package odoo

import (
	"errors"
	"strings"
)

// Config holds configuration for the Odoo JSON-RPC integration.
type Config struct {
	// BaseURL is the Odoo instance root, e.g. "https://erp.example.odoo.com"
	BaseURL string
	// Database is the Odoo database name
	Database string
	// APIKey is the bearer token used on call_kw requests
	APIKey string
	// TimeoutSeconds is the HTTP request timeout
	TimeoutSeconds int
}

// Errors for Odoo configuration
var (
	ErrConfigMissingBaseURL  = errors.New("odoo: base URL is required")
	ErrConfigMissingDatabase = errors.New("odoo: database name is required")
	ErrConfigMissingAPIKey   = errors.New("odoo: api key is required")
)

// NewConfig creates an Odoo configuration with defaults.
func NewConfig(baseURL, database, apiKey string) *Config {
	return &Config{
		BaseURL:        baseURL,
		Database:       database,
		APIKey:         apiKey,
		TimeoutSeconds: 30,
	}
}

// Validate validates the configuration and applies defaults.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return ErrConfigMissingBaseURL
	}
	if c.Database == "" {
		return ErrConfigMissingDatabase
	}
	if c.APIKey == "" {
		return ErrConfigMissingAPIKey
	}
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 30
	}
	return nil
}
