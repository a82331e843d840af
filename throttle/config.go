/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

package throttle

import (
	"fmt"
	"time"

	"github.com/acronis/go-apputil/config"
)

const (
	cfgDefaultKeyPrefix     = "throttle"
	cfgDefaultRateKeyPrefix = "throttle.rate"
)

const (
	cfgKeyInterval = "interval"

	cfgKeyRateAlg     = "alg"
	cfgKeyRateValue   = "rate"
	cfgKeyRateBurst   = "burst"
	cfgKeyRateMaxKeys = "maxKeys"
)

// Default values.
const (
	DefaultInterval    = time.Second
	DefaultRateMaxKeys = 10000
)

// Rate limiting algorithms.
const (
	RateAlgLeakyBucket   = "leaky_bucket"
	RateAlgSlidingWindow = "sliding_window"
	RateAlgTokenBucket   = "token_bucket"
)

var availableRateAlgs = []string{RateAlgLeakyBucket, RateAlgSlidingWindow, RateAlgTokenBucket}

// ConfigOption is a functional option for NewConfig and NewRateConfig.
type ConfigOption func(*configOptions)

type configOptions struct {
	keyPrefix string
}

// WithKeyPrefix sets the key prefix used by config.Loader.
func WithKeyPrefix(keyPrefix string) ConfigOption {
	return func(o *configOptions) {
		o.keyPrefix = keyPrefix
	}
}

func applyConfigOptions(defaultKeyPrefix string, options []ConfigOption) configOptions {
	opts := configOptions{keyPrefix: defaultKeyPrefix}
	for _, opt := range options {
		opt(&opts)
	}
	return opts
}

// Config represents a configuration of a Throttler.
// It can be filled by config.Loader or decoded from JSON/YAML directly.
type Config struct {
	// Interval is the window after a passed call during which other calls are dropped.
	Interval config.TimeDuration `mapstructure:"interval" yaml:"interval" json:"interval"`

	keyPrefix string
}

var _ config.Config = (*Config)(nil)
var _ config.KeyPrefixProvider = (*Config)(nil)

// NewConfig creates a new Config.
func NewConfig(options ...ConfigOption) *Config {
	return &Config{keyPrefix: applyConfigOptions(cfgDefaultKeyPrefix, options).keyPrefix}
}

// NewDefaultConfig creates a new Config with default values.
func NewDefaultConfig(options ...ConfigOption) *Config {
	c := NewConfig(options...)
	c.Interval = config.TimeDuration(DefaultInterval)
	return c
}

// KeyPrefix implements config.KeyPrefixProvider.
func (c *Config) KeyPrefix() string {
	return c.keyPrefix
}

// SetProviderDefaults implements config.Config.
func (c *Config) SetProviderDefaults(dp config.DataProvider) {
	dp.SetDefault(cfgKeyInterval, DefaultInterval)
}

// Set implements config.Config.
func (c *Config) Set(dp config.DataProvider) error {
	interval, err := dp.GetDuration(cfgKeyInterval)
	if err != nil {
		return err
	}
	c.Interval = config.TimeDuration(interval)
	return nil
}

// RateConfig represents a configuration of a RateThrottler.
type RateConfig struct {
	// Alg is the rate limiting algorithm: leaky_bucket (default), sliding_window or token_bucket.
	Alg string `mapstructure:"alg" yaml:"alg" json:"alg"`

	// Rate is the number of calls per period, e.g. "10/s".
	Rate Rate `mapstructure:"rate" yaml:"rate" json:"rate"`

	// Burst is the number of calls that may exceed the rate at once. Not supported by sliding_window.
	Burst int `mapstructure:"burst" yaml:"burst" json:"burst"`

	// MaxKeys bounds the number of keys with their own budget. The least recently used keys are evicted.
	MaxKeys int `mapstructure:"maxKeys" yaml:"maxKeys" json:"maxKeys"`

	keyPrefix string
}

var _ config.Config = (*RateConfig)(nil)
var _ config.KeyPrefixProvider = (*RateConfig)(nil)

// NewRateConfig creates a new RateConfig.
func NewRateConfig(options ...ConfigOption) *RateConfig {
	return &RateConfig{keyPrefix: applyConfigOptions(cfgDefaultRateKeyPrefix, options).keyPrefix}
}

// KeyPrefix implements config.KeyPrefixProvider.
func (c *RateConfig) KeyPrefix() string {
	return c.keyPrefix
}

// SetProviderDefaults implements config.Config.
func (c *RateConfig) SetProviderDefaults(dp config.DataProvider) {
	dp.SetDefault(cfgKeyRateAlg, RateAlgLeakyBucket)
	dp.SetDefault(cfgKeyRateMaxKeys, DefaultRateMaxKeys)
}

// Set implements config.Config.
func (c *RateConfig) Set(dp config.DataProvider) error {
	var err error

	if c.Alg, err = dp.GetStringFromSet(cfgKeyRateAlg, availableRateAlgs, false); err != nil {
		return err
	}

	var rateStr string
	if rateStr, err = dp.GetString(cfgKeyRateValue); err != nil {
		return err
	}
	if c.Rate, err = ParseRate(rateStr); err != nil {
		return dp.WrapKeyErr(cfgKeyRateValue, err)
	}
	if c.Rate.Count == 0 {
		return dp.WrapKeyErr(cfgKeyRateValue, fmt.Errorf("should be set and positive"))
	}

	if c.Burst, err = dp.GetInt(cfgKeyRateBurst); err != nil {
		return err
	}
	if c.Burst < 0 {
		return dp.WrapKeyErr(cfgKeyRateBurst, fmt.Errorf("should be >= 0"))
	}
	if c.Burst > 0 && c.Alg == RateAlgSlidingWindow {
		return dp.WrapKeyErr(cfgKeyRateBurst, fmt.Errorf("is not supported by %q algorithm", RateAlgSlidingWindow))
	}

	if c.MaxKeys, err = dp.GetInt(cfgKeyRateMaxKeys); err != nil {
		return err
	}
	if c.MaxKeys < 0 {
		return dp.WrapKeyErr(cfgKeyRateMaxKeys, fmt.Errorf("should be >= 0"))
	}
	return nil
}
