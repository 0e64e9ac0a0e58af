package woocommerce

import (
	"encoding/base64"
	"errors"
	"strings"
)

// Config holds configuration for the WooCommerce REST API integration.
type Config struct {
	// BaseURL is the store root, e.g. "https://shop.example.com"
	BaseURL string
	// ConsumerKey is the REST API consumer key
	ConsumerKey string
	// ConsumerSecret is the REST API consumer secret
	ConsumerSecret string
	// TimeoutSeconds is the HTTP request timeout
	TimeoutSeconds int
}

// Errors for WooCommerce configuration
var (
	ErrConfigMissingBaseURL        = errors.New("woocommerce: base URL is required")
	ErrConfigMissingConsumerKey    = errors.New("woocommerce: consumer key is required")
	ErrConfigMissingConsumerSecret = errors.New("woocommerce: consumer secret is required")
)

// NewConfig creates a WooCommerce configuration with defaults.
func NewConfig(baseURL, consumerKey, consumerSecret string) *Config {
	return &Config{
		BaseURL:        baseURL,
		ConsumerKey:    consumerKey,
		ConsumerSecret: consumerSecret,
		TimeoutSeconds: 30,
	}
}

// Validate validates the configuration and applies defaults.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return ErrConfigMissingBaseURL
	}
	if c.ConsumerKey == "" {
		return ErrConfigMissingConsumerKey
	}
	if c.ConsumerSecret == "" {
		return ErrConfigMissingConsumerSecret
	}
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 30
	}
	return nil
}

// BasicAuth returns the Authorization header value for key/secret auth.
func (c *Config) BasicAuth() string {
	credentials := c.ConsumerKey + ":" + c.ConsumerSecret
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(credentials))
}
