/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

package retry

import (
	"fmt"
	"time"

	"github.com/acronis/go-apputil/config"
)

const cfgDefaultKeyPrefix = "retry"

const (
	cfgKeyPolicy           = "policy"
	cfgKeyInterval         = "interval"
	cfgKeyMaxInterval      = "maxInterval"
	cfgKeyMaxRetryAttempts = "maxRetryAttempts"
)

// Policy types.
const (
	PolicyExponential = "exponential"
	PolicyConstant    = "constant"
)

// Default values.
const (
	DefaultInterval         = 100 * time.Millisecond
	DefaultMaxRetryAttempts = 5
)

// Config represents a configuration of a retry policy.
type Config struct {
	Policy           string              `mapstructure:"policy" yaml:"policy" json:"policy"`
	Interval         config.TimeDuration `mapstructure:"interval" yaml:"interval" json:"interval"`
	MaxInterval      config.TimeDuration `mapstructure:"maxInterval" yaml:"maxInterval" json:"maxInterval"`
	MaxRetryAttempts int                 `mapstructure:"maxRetryAttempts" yaml:"maxRetryAttempts" json:"maxRetryAttempts"`

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
	c.Policy = PolicyExponential
	c.Interval = config.TimeDuration(DefaultInterval)
	c.MaxRetryAttempts = DefaultMaxRetryAttempts
	return c
}

// KeyPrefix implements config.KeyPrefixProvider.
func (c *Config) KeyPrefix() string {
	return c.keyPrefix
}

// SetProviderDefaults implements config.Config.
func (c *Config) SetProviderDefaults(dp config.DataProvider) {
	dp.SetDefault(cfgKeyPolicy, PolicyExponential)
	dp.SetDefault(cfgKeyInterval, DefaultInterval)
	dp.SetDefault(cfgKeyMaxRetryAttempts, DefaultMaxRetryAttempts)
}

// Set implements config.Config.
func (c *Config) Set(dp config.DataProvider) error {
	var err error
	if c.Policy, err = dp.GetStringFromSet(cfgKeyPolicy, []string{PolicyExponential, PolicyConstant}, false); err != nil {
		return err
	}
	var interval, maxInterval time.Duration
	if interval, err = dp.GetDuration(cfgKeyInterval); err != nil {
		return err
	}
	if interval == 0 {
		return dp.WrapKeyErr(cfgKeyInterval, fmt.Errorf("should be positive"))
	}
	c.Interval = config.TimeDuration(interval)
	if maxInterval, err = dp.GetDuration(cfgKeyMaxInterval); err != nil {
		return err
	}
	c.MaxInterval = config.TimeDuration(maxInterval)
	if c.MaxRetryAttempts, err = dp.GetInt(cfgKeyMaxRetryAttempts); err != nil {
		return err
	}
	if c.MaxRetryAttempts < 0 {
		return dp.WrapKeyErr(cfgKeyMaxRetryAttempts, fmt.Errorf("should be >= 0"))
	}
	return nil
}

// NewPolicyFromConfig creates a Policy described by the configuration.
func NewPolicyFromConfig(cfg *Config) (Policy, error) {
	switch cfg.Policy {
	case PolicyExponential, "":
		return ExponentialBackoffPolicy{
			InitialInterval:  time.Duration(cfg.Interval),
			MaxInterval:      time.Duration(cfg.MaxInterval),
			MaxRetryAttempts: cfg.MaxRetryAttempts,
		}, nil
	case PolicyConstant:
		return NewConstantBackoffPolicy(time.Duration(cfg.Interval), cfg.MaxRetryAttempts), nil
	}
	return nil, fmt.Errorf("unknown retry policy %q", cfg.Policy)
}
