package server

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/iwvelando/sir-forecast/internal/config"
	"github.com/iwvelando/sir-forecast/pkg/constants"
	"gopkg.in/yaml.v3"
)

// Default HTTP timeouts.
const (
	defaultReadTimeout     = 15 * time.Second
	defaultWriteTimeout    = 60 * time.Second
	defaultShutdownTimeout = 10 * time.Second
)

// Config defines runtime parameters for the HTTP server.
type Config struct {
	Address         string               `yaml:"address"`
	MaxUploadSize   string               `yaml:"maxUploadSize"`
	ReadTimeout     string               `yaml:"readTimeout"`
	WriteTimeout    string               `yaml:"writeTimeout"`
	ShutdownTimeout string               `yaml:"shutdownTimeout"`
	Logging         config.LoggingConfig `yaml:"logging"`

	uploadSizeBytes int64
	readTimeout     time.Duration
	writeTimeout    time.Duration
	shutdownTimeout time.Duration
}

// LoadConfig loads the server configuration from YAML. If the file does not exist,
// defaults are returned without error.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read server config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse server config: %w", err)
			}
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// UploadSizeBytes returns the configured upload size in bytes.
func (c *Config) UploadSizeBytes() int64 {
	return c.uploadSizeBytes
}

// SetUploadSizeBytes overrides the configured upload size.
func (c *Config) SetUploadSizeBytes(size int64) {
	if size > 0 {
		c.uploadSizeBytes = size
		c.MaxUploadSize = fmt.Sprintf("%d", size)
	}
}

// ReadTimeoutDuration returns the maximum duration for reading a request.
func (c *Config) ReadTimeoutDuration() time.Duration { return c.readTimeout }

// WriteTimeoutDuration returns the maximum duration for writing a response.
func (c *Config) WriteTimeoutDuration() time.Duration { return c.writeTimeout }

// ShutdownTimeoutDuration returns how long in-flight requests may take to
// finish on shutdown.
func (c *Config) ShutdownTimeoutDuration() time.Duration { return c.shutdownTimeout }

func (c *Config) normalize() error {
	if c.Address == "" {
		c.Address = constants.DefaultServerAddress
	}

	bytes, err := ParseSize(c.MaxUploadSize)
	if err != nil {
		return err
	}
	if bytes <= 0 {
		bytes = constants.DefaultMaxUploadSizeBytes
	}
	c.uploadSizeBytes = bytes
	c.MaxUploadSize = fmt.Sprintf("%d", bytes)

	if c.readTimeout, err = parseTimeout("readTimeout", c.ReadTimeout, defaultReadTimeout); err != nil {
		return err
	}
	if c.writeTimeout, err = parseTimeout("writeTimeout", c.WriteTimeout, defaultWriteTimeout); err != nil {
		return err
	}
	if c.shutdownTimeout, err = parseTimeout("shutdownTimeout", c.ShutdownTimeout, defaultShutdownTimeout); err != nil {
		return err
	}
	return nil
}

func parseTimeout(name, value string, fallback time.Duration) (time.Duration, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(trimmed)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", name, value, err)
	}
	if d <= 0 {
		return fallback, nil
	}
	return d, nil
}

// ParseSize converts a human-friendly byte string (e.g., "256K", "10M") into bytes.
func ParseSize(value string) (int64, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return constants.DefaultMaxUploadSizeBytes, nil
	}

	upper := strings.ToUpper(trimmed)
	idx := len(upper)
	for idx > 0 && !unicode.IsDigit(rune(upper[idx-1])) {
		idx--
	}
	if idx == 0 {
		return 0, fmt.Errorf("invalid size: %s", value)
	}
	numPart := strings.TrimSpace(upper[:idx])
	unitPart := strings.TrimSpace(upper[idx:])

	n, err := strconv.ParseInt(numPart, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid size value %q: %w", value, err)
	}

	var multiplier int64
	switch unitPart {
	case "", "B":
		multiplier = 1
	case "K", "KB":
		multiplier = 1024
	case "M", "MB":
		multiplier = 1024 * 1024
	case "G", "GB":
		multiplier = 1024 * 1024 * 1024
	default:
		return 0, fmt.Errorf("unsupported size unit %q", unitPart)
	}

	result := n * multiplier
	if result < 0 {
		return 0, fmt.Errorf("size overflow for value %s", value)
	}
	return result, nil
}
