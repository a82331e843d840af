/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

package config

import (
	"io"
)

// Loader fills configuration objects from a DataProvider.
// Defaults of all objects are registered before any value is read.
type Loader struct {
	DataProvider DataProvider
}

// NewDefaultLoader creates a Loader backed by viper that also reads environment variables with the given prefix.
func NewDefaultLoader(envVarsPrefix string) *Loader {
	va := NewViperAdapter()
	va.UseEnvVars(envVarsPrefix)
	return NewLoader(va)
}

// NewLoader creates a Loader for the given DataProvider.
func NewLoader(dp DataProvider) *Loader {
	return &Loader{DataProvider: dp}
}

// LoadFromFile reads the file and fills the configuration objects.
func (l *Loader) LoadFromFile(path string, dataType DataType, cfg Config, cfgs ...Config) error {
	if err := l.DataProvider.SetFromFile(path, dataType); err != nil {
		return err
	}
	return l.Load(cfg, cfgs...)
}

// LoadFromReader reads the data and fills the configuration objects.
func (l *Loader) LoadFromReader(reader io.Reader, dataType DataType, cfg Config, cfgs ...Config) error {
	if err := l.DataProvider.SetFromReader(reader, dataType); err != nil {
		return err
	}
	return l.Load(cfg, cfgs...)
}

// Load fills the configuration objects from the values that are already in the DataProvider
// (defaults, environment variables, explicitly set values).
func (l *Loader) Load(cfg Config, cfgs ...Config) error {
	all := append([]Config{cfg}, cfgs...)
	for _, c := range all {
		c.SetProviderDefaults(ProviderFor(l.DataProvider, c))
	}
	for _, c := range all {
		if err := c.Set(ProviderFor(l.DataProvider, c)); err != nil {
			return err
		}
	}
	return nil
}
