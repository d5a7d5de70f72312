package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/BrownsugarZeer/fivek-crawler/internal/fivek"
)

// Config defines configuration for the fivek-crawler CLI.
type Config struct {
	Experts    []string      `yaml:"experts"`
	Workers    int           `yaml:"workers"`
	SavingDir  string        `yaml:"saving_dir"`
	Dest       string        `yaml:"dest"`
	ImageFrom  int           `yaml:"image_from"`
	ImageTo    int           `yaml:"image_to"`
	Timeout    time.Duration `yaml:"timeout"`
	Politeness time.Duration `yaml:"politeness"`
	Progress   bool          `yaml:"progress"`
}

// Default returns a Config with sensible defaults: every expert, five
// workers, the full image range, and the crawl timings the dataset
// endpoint tolerates well.
func Default() Config {
	return Config{
		Experts:    append([]string(nil), fivek.Experts...),
		Workers:    5,
		ImageFrom:  0,
		ImageTo:    fivek.MaxIndex,
		Timeout:    5 * time.Second,
		Politeness: 700 * time.Millisecond,
		Progress:   true,
	}
}

// yamlConfig is used for YAML unmarshaling with string durations and
// a comma-separated expert list.
type yamlConfig struct {
	Experts    string `yaml:"experts"`
	Workers    int    `yaml:"workers"`
	SavingDir  string `yaml:"saving_dir"`
	Dest       string `yaml:"dest"`
	ImageFrom  *int   `yaml:"image_from"`
	ImageTo    *int   `yaml:"image_to"`
	Timeout    string `yaml:"timeout"`
	Politeness string `yaml:"politeness"`
	Progress   *bool  `yaml:"progress"`
}

// LoadFromFile loads configuration from a YAML file, layered over the
// defaults.
func LoadFromFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}

	var yc yamlConfig
	if err := yaml.Unmarshal(data, &yc); err != nil {
		return Config{}, fmt.Errorf("parse config file: %w", err)
	}

	cfg := Default()

	if yc.Experts != "" {
		experts, err := ParseExperts(yc.Experts)
		if err != nil {
			return Config{}, fmt.Errorf("parse experts: %w", err)
		}
		cfg.Experts = experts
	}
	if yc.Workers != 0 {
		cfg.Workers = yc.Workers
	}
	if yc.SavingDir != "" {
		cfg.SavingDir = yc.SavingDir
	}
	if yc.Dest != "" {
		cfg.Dest = yc.Dest
	}
	if yc.ImageFrom != nil {
		cfg.ImageFrom = *yc.ImageFrom
	}
	if yc.ImageTo != nil {
		cfg.ImageTo = *yc.ImageTo
	}
	if yc.Timeout != "" {
		d, err := time.ParseDuration(yc.Timeout)
		if err != nil {
			return Config{}, fmt.Errorf("parse timeout: %w", err)
		}
		cfg.Timeout = d
	}
	if yc.Politeness != "" {
		d, err := time.ParseDuration(yc.Politeness)
		if err != nil {
			return Config{}, fmt.Errorf("parse politeness: %w", err)
		}
		cfg.Politeness = d
	}
	if yc.Progress != nil {
		cfg.Progress = *yc.Progress
	}

	return cfg, nil
}

// LoadFromEnv loads configuration from environment variables.
// Environment variables use the FIVEK_ prefix.
func (c *Config) LoadFromEnv() error {
	if v := os.Getenv("FIVEK_EXPERTS"); v != "" {
		experts, err := ParseExperts(v)
		if err != nil {
			return fmt.Errorf("parse FIVEK_EXPERTS: %w", err)
		}
		c.Experts = experts
	}
	if v := os.Getenv("FIVEK_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parse FIVEK_WORKERS: %w", err)
		}
		c.Workers = n
	}
	if v := os.Getenv("FIVEK_SAVING_DIR"); v != "" {
		c.SavingDir = v
	}
	if v := os.Getenv("FIVEK_DEST"); v != "" {
		c.Dest = v
	}
	if v := os.Getenv("FIVEK_IMAGE_FROM"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parse FIVEK_IMAGE_FROM: %w", err)
		}
		c.ImageFrom = n
	}
	if v := os.Getenv("FIVEK_IMAGE_TO"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parse FIVEK_IMAGE_TO: %w", err)
		}
		c.ImageTo = n
	}
	if v := os.Getenv("FIVEK_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parse FIVEK_TIMEOUT: %w", err)
		}
		c.Timeout = d
	}
	if v := os.Getenv("FIVEK_POLITENESS"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parse FIVEK_POLITENESS: %w", err)
		}
		c.Politeness = d
	}
	if v := os.Getenv("FIVEK_PROGRESS"); v != "" {
		c.Progress = v == "true" || v == "1"
	}

	return nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if len(c.Experts) == 0 {
		return errors.New("config: at least one expert is required")
	}
	for _, e := range c.Experts {
		if !fivek.ValidExpert(e) {
			return fmt.Errorf("config: unknown expert %q (valid: %s)", e, strings.Join(fivek.Experts, ", "))
		}
	}
	if c.Workers <= 0 {
		return errors.New("config: workers must be positive")
	}
	if c.ImageFrom < 0 {
		return errors.New("config: image_from must not be negative")
	}
	if c.ImageTo > fivek.MaxIndex {
		return fmt.Errorf("config: image_to must not exceed %d", fivek.MaxIndex)
	}
	if c.ImageFrom >= c.ImageTo {
		return errors.New("config: image_to must be larger than image_from")
	}
	if c.Timeout <= 0 {
		return errors.New("config: timeout must be positive")
	}
	if c.SavingDir != "" && c.Dest != "" {
		return errors.New("config: saving_dir and dest are mutually exclusive")
	}
	return nil
}

// ParseExperts parses a comma-separated expert list such as "a,b,c".
// Duplicates are dropped, order is preserved.
func ParseExperts(s string) ([]string, error) {
	var experts []string
	seen := make(map[string]bool)
	for _, part := range strings.Split(s, ",") {
		e := strings.TrimSpace(part)
		if e == "" {
			continue
		}
		if !fivek.ValidExpert(e) {
			return nil, fmt.Errorf("unknown expert %q", e)
		}
		if seen[e] {
			continue
		}
		seen[e] = true
		experts = append(experts, e)
	}
	if len(experts) == 0 {
		return nil, errors.New("empty expert list")
	}
	return experts, nil
}
