package config

import (
	"fmt"
	"os"
	"sync"

	"github.com/smarttable/smarttable/internal/config/data"
)

// Config is the root configuration for the application.
type Config struct {
	SmartTable *SmartTable `yaml:"smarttable"`
	mx         sync.RWMutex
}

// NewConfig creates a new Config with default settings.
func NewConfig() *Config {
	return &Config{
		SmartTable: NewSmartTable(),
	}
}

// Load loads the configuration from the given path.
// If the file doesn't exist, the current config is kept unless force is set.
func (c *Config) Load(path string, force bool) error {
	c.mx.Lock()
	defer c.mx.Unlock()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if !force {
			return nil
		}
		return fmt.Errorf("config file does not exist: %s", path)
	}

	if err := data.LoadYAML(path, c); err != nil {
		return fmt.Errorf("failed to load config from %s: %w", path, err)
	}

	if c.SmartTable == nil {
		c.SmartTable = NewSmartTable()
	}
	c.SmartTable.Validate()

	return nil
}

// Save saves the configuration to the given path.
// If force is false, only saves if the file already exists.
func (c *Config) Save(path string, force bool) error {
	c.mx.RLock()
	defer c.mx.RUnlock()

	if path == "" {
		return fmt.Errorf("no config file path configured")
	}

	_, err := os.Stat(path)
	fileExists := err == nil
	if !force && !fileExists {
		return nil
	}

	if err := data.SaveYAML(path, c); err != nil {
		return fmt.Errorf("failed to save config to %s: %w", path, err)
	}

	return nil
}

// Refine applies CLI flags over the loaded configuration.
// Precedence: CLI flags > config file > defaults.
func (c *Config) Refine(flags *data.Flags) error {
	c.mx.Lock()
	defer c.mx.Unlock()

	if c.SmartTable == nil {
		return fmt.Errorf("config.SmartTable is nil")
	}
	if err := c.SmartTable.Override(flags); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}
	c.SmartTable.Validate()

	return nil
}
