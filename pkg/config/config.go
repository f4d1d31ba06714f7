package config

import (
	"errors"
	"fmt"
	"strings"
)

// Log levels accepted in LogLevel
const (
	LogLevelDebug   = "DEBUG"
	LogLevelInfo    = "INFO"
	LogLevelWarning = "WARNING"
	LogLevelError   = "ERROR"
)

// AuthConfigurationError is returned when required credential fields are
// missing or malformed. It is raised before any network access happens.
type AuthConfigurationError struct {
	Field  string
	Reason string
	Err    error
}

func (e *AuthConfigurationError) Error() string {
	return fmt.Sprintf("invalid auth configuration: %s %s", e.Field, e.Reason)
}

func (e *AuthConfigurationError) Unwrap() error {
	return e.Err
}

// ErrNoAuth is wrapped by AuthConfigurationError when neither token nor
// username/password credentials are configured.
var ErrNoAuth = errors.New("no credentials configured")

// TokenAuth holds token based authentication (TBA) credentials
type TokenAuth struct {
	ConsumerKey    string `yaml:"consumerKey" ini:"consumer_key"`
	ConsumerSecret string `yaml:"consumerSecret" ini:"consumer_secret"`
	TokenID        string `yaml:"tokenId" ini:"token_id"`
	TokenSecret    string `yaml:"tokenSecret" ini:"token_secret"`
}

// UsernamePasswordAuth holds legacy username/password credentials
type UsernamePasswordAuth struct {
	Username string `yaml:"username" ini:"username"`
	Password string `yaml:"password" ini:"password"`
}

// Auth is the credential block of a Config. Exactly one of Token and
// Password is expected to be set.
type Auth struct {
	Token    *TokenAuth            `yaml:"token,omitempty"`
	Password *UsernamePasswordAuth `yaml:"password,omitempty"`
}

// Config is the client configuration shared by all access methods
type Config struct {
	// Account is the NetSuite account ID, e.g. "123456" or "123456_SB1"
	Account     string            `yaml:"account"`
	Auth        Auth              `yaml:"auth"`
	LogLevel    string            `yaml:"logLevel"`
	Preferences map[string]string `yaml:"preferences"`
}

// Option represents a functional option for Config
type Option func(*Config)

// New creates a validated configuration for the given account
func New(account string, opts ...Option) (*Config, error) {
	cfg := &Config{Account: account}
	for _, opt := range opts {
		opt(cfg)
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// WithTokenAuth sets token based credentials
func WithTokenAuth(consumerKey, consumerSecret, tokenID, tokenSecret string) Option {
	return func(c *Config) {
		c.Auth.Token = &TokenAuth{
			ConsumerKey:    consumerKey,
			ConsumerSecret: consumerSecret,
			TokenID:        tokenID,
			TokenSecret:    tokenSecret,
		}
	}
}

// WithPasswordAuth sets username/password credentials
func WithPasswordAuth(username, password string) Option {
	return func(c *Config) {
		c.Auth.Password = &UsernamePasswordAuth{Username: username, Password: password}
	}
}

// WithLogLevel sets the log level
func WithLogLevel(level string) Option {
	return func(c *Config) {
		c.LogLevel = level
	}
}

// WithPreference sets a single preference
func WithPreference(key, value string) Option {
	return func(c *Config) {
		if c.Preferences == nil {
			c.Preferences = make(map[string]string)
		}
		c.Preferences[key] = value
	}
}

// IsTokenAuth reports whether token based authentication is configured
func (c *Config) IsTokenAuth() bool {
	return c.Auth.Token != nil
}

// IsSandbox reports whether the account is a sandbox account
func (c *Config) IsSandbox() bool {
	return strings.Contains(strings.ToUpper(c.Account), "_SB")
}

// AccountNumber returns the account without any sandbox suffix
func (c *Config) AccountNumber() string {
	number, _, _ := strings.Cut(c.Account, "_")
	return number
}

// AccountSlugified returns the account in the form used in hostnames
func (c *Config) AccountSlugified() string {
	return strings.ReplaceAll(strings.ToLower(c.Account), "_", "-")
}

// Normalize applies defaults and upper-cases LogLevel. The loaders call it
// before Validate; callers building a Config literal should too.
func (c *Config) Normalize() {
	if c.LogLevel == "" {
		c.LogLevel = LogLevelInfo
	}
	c.LogLevel = strings.ToUpper(c.LogLevel)
	if c.Preferences == nil {
		c.Preferences = make(map[string]string)
	}
}

// Validate checks that the account and exactly one credential set are
// present and complete.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Account) == "" {
		return &AuthConfigurationError{Field: "account", Reason: "is required"}
	}

	switch {
	case c.Auth.Token != nil && c.Auth.Password != nil:
		return &AuthConfigurationError{Field: "auth", Reason: "must be either token or password, not both"}
	case c.Auth.Token != nil:
		t := c.Auth.Token
		for _, f := range []struct{ name, value string }{
			{"consumer_key", t.ConsumerKey},
			{"consumer_secret", t.ConsumerSecret},
			{"token_id", t.TokenID},
			{"token_secret", t.TokenSecret},
		} {
			if f.value == "" {
				return &AuthConfigurationError{Field: "auth." + f.name, Reason: "is required"}
			}
		}
	case c.Auth.Password != nil:
		if c.Auth.Password.Username == "" {
			return &AuthConfigurationError{Field: "auth.username", Reason: "is required"}
		}
		if c.Auth.Password.Password == "" {
			return &AuthConfigurationError{Field: "auth.password", Reason: "is required"}
		}
	default:
		return &AuthConfigurationError{Field: "auth", Reason: "is required", Err: ErrNoAuth}
	}

	switch c.LogLevel {
	case "", LogLevelDebug, LogLevelInfo, LogLevelWarning, LogLevelError:
	default:
		return fmt.Errorf("logLevel must be one of DEBUG, INFO, WARNING, ERROR, got '%s'", c.LogLevel)
	}

	return nil
}

// RequireTokenAuth returns the token credentials or an AuthConfigurationError
// when the configuration uses username/password auth.
func (c *Config) RequireTokenAuth() (*TokenAuth, error) {
	if c.Auth.Token == nil {
		return nil, &AuthConfigurationError{Field: "auth", Reason: "token based authentication is required"}
	}
	return c.Auth.Token, nil
}
