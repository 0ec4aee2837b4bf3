// Package config loads the ihex command configuration file.
package config

import (
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/moffa90/go-ihex/bootloader"
)

// Config is the on-disk configuration of the ihex command.
//
//	page_size: 2048
//	signature: "200FF9A7177D4E99DB53A272E7C3E1FA"
//	log_level: info
type Config struct {
	// PageSize is the flash page size in bytes
	PageSize uint32 `yaml:"page_size"`

	// Signature is the hex-encoded bootloader signature
	Signature string `yaml:"signature"`

	// LogLevel is a logrus level name
	LogLevel string `yaml:"log_level"`
}

// LoadError describes a configuration file that could not be used.
type LoadError struct {
	File    string
	Message string
	Cause   error
}

func (e *LoadError) Error() string {
	msg := e.Message
	if e.File != "" {
		msg = fmt.Sprintf("%s: %s", e.File, msg)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}

// Default returns the built-in configuration.
func Default() *Config {
	sig := bootloader.BootSignature()
	return &Config{
		PageSize:  bootloader.DefaultPageSize,
		Signature: strings.ToUpper(hex.EncodeToString(sig[:])),
		LogLevel:  logrus.InfoLevel.String(),
	}
}

// Parse parses YAML configuration. Fields missing from data keep their
// default values.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, &LoadError{
			Message: "failed to parse YAML",
			Cause:   err,
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Load reads configuration from path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{
			File:    path,
			Message: "failed to read file",
			Cause:   err,
		}
	}

	cfg, err := Parse(data)
	if err != nil {
		if le, ok := err.(*LoadError); ok {
			le.File = path
			return nil, le
		}
		return nil, &LoadError{
			File:    path,
			Message: err.Error(),
		}
	}

	return cfg, nil
}

// Validate checks that every field is usable.
func (c *Config) Validate() error {
	if c.PageSize == 0 {
		return &LoadError{Message: "page_size must be greater than zero"}
	}

	if _, err := c.SignatureBytes(); err != nil {
		return err
	}

	if _, err := c.Level(); err != nil {
		return err
	}

	return nil
}

// SignatureBytes decodes the signature.
func (c *Config) SignatureBytes() ([]byte, error) {
	sig, err := hex.DecodeString(c.Signature)
	if err != nil {
		return nil, &LoadError{Message: "invalid signature", Cause: err}
	}
	if len(sig) == 0 {
		return nil, &LoadError{Message: "signature must not be empty"}
	}
	return sig, nil
}

// Level returns the configured log level.
func (c *Config) Level() (logrus.Level, error) {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return 0, &LoadError{Message: "invalid log_level", Cause: err}
	}
	return level, nil
}

// Options converts the configuration into inspector options.
func (c *Config) Options() ([]bootloader.Option, error) {
	sig, err := c.SignatureBytes()
	if err != nil {
		return nil, err
	}

	return []bootloader.Option{
		bootloader.WithPageSize(c.PageSize),
		bootloader.WithSignature(sig),
	}, nil
}
