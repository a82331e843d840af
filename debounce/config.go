/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

package debounce

import (
	"time"

	"github.com/acronis/go-apputil/config"
)

const cfgDefaultKeyPrefix = "debounce"

const cfgKeyDelay = "delay"

// DefaultDelay is the delay used when the configuration does not specify one.
const DefaultDelay = 300 * time.Millisecond

// Config represents a configuration of a Debouncer.
// It can be filled by config.Loader or decoded from JSON/YAML directly.
type Config struct {
	// Delay is the quiet period after the last call before the action is called.
	Delay config.TimeDuration `mapstructure:"delay" yaml:"delay" json:"delay"`

	keyPrefix string
}

var _ config.Config = (*Config)(nil)
var _ config.KeyPrefixProvider = (*Config)(nil)

// ConfigOption is a functional option for NewConfig.
type ConfigOption func(*Config)

// WithKeyPrefix sets the key prefix used by config.Loader.
func WithKeyPrefix(keyPrefix string) ConfigOption {
	return func(c *Config) {
		c.keyPrefix = keyPrefix
	}
}

// NewConfig creates a new Config.
func NewConfig(options ...ConfigOption) *Config {
	c := &Config{keyPrefix: cfgDefaultKeyPrefix}
	for _, opt := range options {
		opt(c)
	}
	return c
}

// NewDefaultConfig creates a new Config with default values.
func NewDefaultConfig(options ...ConfigOption) *Config {
	c := NewConfig(options...)
	c.Delay = config.TimeDuration(DefaultDelay)
	return c
}

// KeyPrefix implements config.KeyPrefixProvider.
func (c *Config) KeyPrefix() string {
	return c.keyPrefix
}

// SetProviderDefaults implements config.Config.
func (c *Config) SetProviderDefaults(dp config.DataProvider) {
	dp.SetDefault(cfgKeyDelay, DefaultDelay)
}

// Set implements config.Config.
func (c *Config) Set(dp config.DataProvider) error {
	delay, err := dp.GetDuration(cfgKeyDelay)
	if err != nil {
		return err
	}
	c.Delay = config.TimeDuration(delay)
	return nil
}
