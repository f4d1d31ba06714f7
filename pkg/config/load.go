package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/ini.v1"
	"gopkg.in/yaml.v3"
)

// DefaultINISection is the section read from INI files when none is given
const DefaultINISection = "netsuite"

// Environment variables read by FromEnv
const (
	EnvAccount        = "NS_ACCOUNT"
	EnvConsumerKey    = "NS_CONSUMER_KEY"
	EnvConsumerSecret = "NS_CONSUMER_SECRET"
	EnvTokenID        = "NS_TOKEN_ID"
	EnvTokenSecret    = "NS_TOKEN_SECRET"
	EnvUsername       = "NS_USERNAME"
	EnvPassword       = "NS_PASSWORD"
	EnvLogLevel       = "NS_LOG_LEVEL"
)

// DefaultPath returns the default configuration file location,
// ~/.config/netsuite.ini
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "netsuite.ini"
	}
	return filepath.Join(home, ".config", "netsuite.ini")
}

// Load reads configuration from a file. Files ending in .yaml or .yml are
// parsed as YAML, everything else as INI using DefaultINISection.
func Load(path string) (*Config, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return LoadYAML(path)
	default:
		return LoadINI(path, DefaultINISection)
	}
}

// LoadYAML reads configuration from a YAML file. Environment variables in
// the file (${VAR} or $VAR) are expanded before parsing.
func LoadYAML(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.Normalize()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// LoadINI reads configuration from a section of an INI file. Keys prefixed
// with "preferences_" are collected into Preferences.
func LoadINI(path, section string) (*Config, error) {
	if section == "" {
		section = DefaultINISection
	}

	f, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	sec, err := f.GetSection(section)
	if err != nil {
		return nil, fmt.Errorf("no config section '%s' in file %s", section, path)
	}

	values := make(map[string]string)
	for _, key := range sec.Keys() {
		values[key.Name()] = key.String()
	}

	cfg := fromValues(values)
	cfg.Normalize()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// FromEnv builds configuration from NS_* environment variables
func FromEnv() (*Config, error) {
	values := map[string]string{
		"account":         os.Getenv(EnvAccount),
		"consumer_key":    os.Getenv(EnvConsumerKey),
		"consumer_secret": os.Getenv(EnvConsumerSecret),
		"token_id":        os.Getenv(EnvTokenID),
		"token_secret":    os.Getenv(EnvTokenSecret),
		"username":        os.Getenv(EnvUsername),
		"password":        os.Getenv(EnvPassword),
		"log_level":       os.Getenv(EnvLogLevel),
	}

	cfg := fromValues(values)
	cfg.Normalize()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// fromValues maps flat snake_case settings onto a Config. Token auth wins
// when any token field is present.
func fromValues(values map[string]string) *Config {
	cfg := &Config{
		Account:     values["account"],
		LogLevel:    values["log_level"],
		Preferences: make(map[string]string),
	}

	for k, v := range values {
		if name, ok := strings.CutPrefix(k, "preferences_"); ok {
			cfg.Preferences[name] = v
		}
	}

	token := TokenAuth{
		ConsumerKey:    values["consumer_key"],
		ConsumerSecret: values["consumer_secret"],
		TokenID:        values["token_id"],
		TokenSecret:    values["token_secret"],
	}
	if token != (TokenAuth{}) {
		cfg.Auth.Token = &token
		return cfg
	}

	if values["username"] != "" || values["password"] != "" {
		cfg.Auth.Password = &UsernamePasswordAuth{
			Username: values["username"],
			Password: values["password"],
		}
	}

	return cfg
}
