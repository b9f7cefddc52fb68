package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Log struct {
		Level  string `yaml:"level" validate:"omitempty,oneof=trace debug info warn error"`
		Pretty bool   `yaml:"pretty"`
	} `yaml:"log"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db" validate:"min=0,max=15"`
		TTL      string `yaml:"ttl"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url" validate:"omitempty,url"`
	} `yaml:"postgres"`
	Words struct {
		// Source selects where word lists come from: "static" (bundled
		// fixtures), "postgres" or "remote". Empty picks postgres when a URL
		// is configured, static otherwise.
		Source    string `yaml:"source" validate:"omitempty,oneof=static postgres remote"`
		RemoteURL string `yaml:"remote_url" validate:"omitempty,url"`
		TTL       string `yaml:"ttl"`
		Timeout   string `yaml:"timeout"`
	} `yaml:"words"`
	Game struct {
		CorrectDelay string `yaml:"correct_delay"`
		RevealDelay  string `yaml:"reveal_delay"`
	} `yaml:"game"`
}

var validate = validator.New()

// Load reads YAML config from path. A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return cfg, err
	}
	if err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, err
		}
	}
	if err := Validate(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks field constraints.
func Validate(cfg Config) error {
	if cfg.Words.Source == "remote" && cfg.Words.RemoteURL == "" {
		return errors.New("validation failed: words.remote_url is required for the remote source")
	}
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("Field: %s, Tag: %s, Param: %s", fe.Namespace(), fe.Tag(), fe.Param()))
	}
	return fmt.Errorf("validation failed: %s", strings.Join(msgs, "; "))
}

// WordSource resolves the effective word source.
func (c Config) WordSource() string {
	if c.Words.Source != "" {
		return c.Words.Source
	}
	if c.Postgres.URL != "" {
		return "postgres"
	}
	return "static"
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
