/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

// Package jsonutil provides generic helpers for decoding JSON (and YAML) documents into typed values.
// Converters allow decoding objects which shape is not known at compile time via an intermediate map.
package jsonutil
