package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultPath is looked up in the working directory when no -config flag is given
const DefaultPath = "devsalaries.yaml"

// CredentialEnv holds the SuperJob application key
const CredentialEnv = "SECRET_KEY"

var ErrMissingCredential = errors.New("missing " + CredentialEnv)

// Config represents the application configuration
type Config struct {
	Languages    []string      `yaml:"languages"`
	RequestDelay time.Duration `yaml:"request_delay"`
	Timeout      time.Duration `yaml:"timeout"`
	Proxy        string        `yaml:"proxy"`
	UserAgent    string        `yaml:"user_agent"`
	Retry        RetryPolicy   `yaml:"retry"`
	HeadHunter   HHConfig      `yaml:"headhunter"`
	SuperJob     SJConfig      `yaml:"superjob"`

	// SecretKey is never read from the YAML file
	SecretKey string `yaml:"-"`
}

// RetryPolicy bounds how long a language pass keeps going through failing pages.
// After n consecutive failures the pass waits Backoff * Multiplier^(n-1) on top of
// the request delay, and gives up after MaxConsecutiveFailures.
type RetryPolicy struct {
	MaxConsecutiveFailures int           `yaml:"max_consecutive_failures"`
	Backoff                time.Duration `yaml:"backoff"`
	Multiplier             float64       `yaml:"multiplier"`
}

// Delay returns the extra wait after the given number of consecutive failures
func (r RetryPolicy) Delay(failures int) time.Duration {
	if failures <= 0 || r.Backoff <= 0 {
		return 0
	}
	mult := r.Multiplier
	if mult < 1 {
		mult = 1
	}
	d := float64(r.Backoff)
	for i := 1; i < failures; i++ {
		d *= mult
	}
	return time.Duration(d)
}

type HHConfig struct {
	BaseURL    string `yaml:"base_url"`
	Title      string `yaml:"title"`
	TextPrefix string `yaml:"text_prefix"`
	Area       int    `yaml:"area"`
	Period     int    `yaml:"period"`
	PerPage    int    `yaml:"per_page"`
	MaxPages   int    `yaml:"max_pages"`
	Currency   string `yaml:"currency"`
}

type SJConfig struct {
	BaseURL   string `yaml:"base_url"`
	Title     string `yaml:"title"`
	Catalogue int    `yaml:"catalogue"`
	Town      int    `yaml:"town"`
	Count     int    `yaml:"count"`
	Period    int    `yaml:"period"`
	Currency  string `yaml:"currency"`
}

// Default returns the configuration used when no file is present
func Default() *Config {
	return &Config{
		Languages: []string{
			"C#", "Objective-C", "Ruby", "Java", "C", "TypeScript",
			"Scala", "Go", "Swift", "C++", "PHP", "JavaScript", "Python",
		},
		RequestDelay: 500 * time.Millisecond,
		Timeout:      30 * time.Second,
		UserAgent:    "devsalaries/1.0 (https://github.com/fr4nk3nst1ner/devsalaries)",
		Retry: RetryPolicy{
			MaxConsecutiveFailures: 5,
			Multiplier:             2,
		},
		HeadHunter: HHConfig{
			BaseURL:    "https://api.hh.ru/vacancies/",
			Title:      "HeadHunter Moscow",
			TextPrefix: "Программист",
			Area:       1,
			Period:     30,
			PerPage:    20,
			MaxPages:   101,
			Currency:   "RUR",
		},
		SuperJob: SJConfig{
			BaseURL:   "https://api.superjob.ru/2.0/vacancies/",
			Title:     "SuperJob Moscow",
			Catalogue: 48,
			Town:      4,
			Count:     20,
			Period:    0,
			Currency:  "rub",
		},
	}
}

// Load reads the YAML file at path over the defaults. An empty path falls back to
// DefaultPath, and a missing default file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadSecret loads .env files if present and reads the SuperJob key from the environment
func (c *Config) LoadSecret() error {
	// .env is optional, the variable may come from the real environment
	_ = godotenv.Load()

	c.SecretKey = os.Getenv(CredentialEnv)
	if c.SecretKey == "" {
		return ErrMissingCredential
	}
	return nil
}

// Validate checks the fields the scrapers rely on
func (c *Config) Validate() error {
	if len(c.Languages) == 0 {
		return errors.New("no languages configured")
	}
	if c.RequestDelay < 0 {
		return fmt.Errorf("request_delay must not be negative: %s", c.RequestDelay)
	}
	if c.Retry.MaxConsecutiveFailures <= 0 {
		return fmt.Errorf("retry.max_consecutive_failures must be positive: %d", c.Retry.MaxConsecutiveFailures)
	}
	if c.Retry.Backoff < 0 {
		return fmt.Errorf("retry.backoff must not be negative: %s", c.Retry.Backoff)
	}
	if c.HeadHunter.BaseURL == "" || c.SuperJob.BaseURL == "" {
		return errors.New("base_url is required for every source")
	}
	if c.HeadHunter.PerPage <= 0 || c.HeadHunter.MaxPages <= 0 {
		return errors.New("headhunter per_page and max_pages must be positive")
	}
	if c.SuperJob.Count <= 0 {
		return errors.New("superjob count must be positive")
	}
	return nil
}
