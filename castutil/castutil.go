/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

// Package castutil provides safe type assertions and conversions for values of unknown types
// (e.g. taken from decoded JSON or configuration maps).
package castutil

import (
	"fmt"
	"time"

	"github.com/spf13/cast"
)

// Scalar is a set of types Convert can produce.
type Scalar interface {
	string | bool |
		int | int8 | int16 | int32 | int64 |
		uint | uint8 | uint16 | uint32 | uint64 |
		float32 | float64 |
		time.Duration
}

// As reports whether v holds T and returns it.
func As[T any](v interface{}) (T, bool) {
	res, ok := v.(T)
	return res, ok
}

// AsOr returns v as T or def if v does not hold T.
func AsOr[T any](v interface{}, def T) T {
	if res, ok := v.(T); ok {
		return res
	}
	return def
}

// Convert converts v to T. Strings are parsed, numbers are converted between each other,
// negative numbers are not converted to unsigned types.
func Convert[T Scalar](v interface{}) (T, error) {
	var zero T
	var res interface{}
	var err error
	switch any(zero).(type) {
	case string:
		res, err = cast.ToStringE(v)
	case bool:
		res, err = cast.ToBoolE(v)
	case int:
		res, err = cast.ToIntE(v)
	case int8:
		res, err = cast.ToInt8E(v)
	case int16:
		res, err = cast.ToInt16E(v)
	case int32:
		res, err = cast.ToInt32E(v)
	case int64:
		res, err = cast.ToInt64E(v)
	case uint:
		res, err = cast.ToUintE(v)
	case uint8:
		res, err = cast.ToUint8E(v)
	case uint16:
		res, err = cast.ToUint16E(v)
	case uint32:
		res, err = cast.ToUint32E(v)
	case uint64:
		res, err = cast.ToUint64E(v)
	case float32:
		res, err = cast.ToFloat32E(v)
	case float64:
		res, err = cast.ToFloat64E(v)
	case time.Duration:
		res, err = cast.ToDurationE(v)
	}
	if err != nil {
		return zero, fmt.Errorf("convert %#v to %T: %w", v, zero, err)
	}
	return res.(T), nil
}

// ConvertOr converts v to T or returns def if the conversion fails.
func ConvertOr[T Scalar](v interface{}, def T) T {
	res, err := Convert[T](v)
	if err != nil {
		return def
	}
	return res
}
