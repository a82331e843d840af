/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

// Package config loads configuration of the library components (debounce, throttle, log)
// from YAML/JSON sources and environment variables.
package config

// Config is implemented by every configuration object that can be filled by Loader.
type Config interface {
	// SetProviderDefaults registers default values of all keys the object reads.
	SetProviderDefaults(dp DataProvider)

	// Set reads and validates values.
	Set(dp DataProvider) error
}

// KeyPrefixProvider is implemented by configuration objects which keys are nested under a common prefix.
type KeyPrefixProvider interface {
	KeyPrefix() string
}

// ProviderFor returns a DataProvider that should be used for the given configuration object.
// If the object has a key prefix, the provider is wrapped with KeyPrefixedDataProvider.
func ProviderFor(dp DataProvider, cfg Config) DataProvider {
	if kp, ok := cfg.(KeyPrefixProvider); ok && kp.KeyPrefix() != "" {
		return NewKeyPrefixedDataProvider(dp, kp.KeyPrefix())
	}
	return dp
}
