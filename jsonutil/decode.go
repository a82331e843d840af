/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

package jsonutil

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// ErrEmptyInput is returned when there is nothing to decode.
var ErrEmptyInput = errors.New("input is empty")

// ErrTrailingData is returned when the input contains more than one JSON value.
var ErrTrailingData = errors.New("input must only contain a single JSON value")

// Converter builds a typed value from a decoded JSON object.
type Converter[T any] func(m map[string]interface{}) (T, error)

// DecodeError describes malformed input in terms of its position or field.
type DecodeError struct {
	Message string
	Err     error
}

// Error returns a string representation of DecodeError.
func (e *DecodeError) Error() string {
	return e.Message
}

// Unwrap returns the underlying error.
func (e *DecodeError) Unwrap() error {
	return e.Err
}

// DecodeOption is a functional option for decoding functions.
type DecodeOption func(*decodeOptions)

type decodeOptions struct {
	disallowUnknownFields bool
}

// WithDisallowUnknownFields makes decoding fail when an object has a field that does not match the destination.
func WithDisallowUnknownFields() DecodeOption {
	return func(o *decodeOptions) {
		o.disallowUnknownFields = true
	}
}

// Decode decodes a single JSON value into T.
func Decode[T any](data []byte, options ...DecodeOption) (T, error) {
	return DecodeReader[T](bytes.NewReader(data), options...)
}

// DecodeReader decodes a single JSON value read from r into T. Anything but whitespace after the value is rejected.
func DecodeReader[T any](r io.Reader, options ...DecodeOption) (T, error) {
	var opts decodeOptions
	for _, opt := range options {
		opt(&opts)
	}
	var res T
	decoder := json.NewDecoder(r)
	if opts.disallowUnknownFields {
		decoder.DisallowUnknownFields()
	}
	if err := decoder.Decode(&res); err != nil {
		return res, classifyError(err)
	}
	if _, err := decoder.Token(); !errors.Is(err, io.EOF) {
		return res, ErrTrailingData
	}
	return res, nil
}

// DecodeWith decodes a JSON object and builds the result with the converter.
func DecodeWith[T any](data []byte, conv Converter[T]) (T, error) {
	m, err := Decode[map[string]interface{}](data)
	if err != nil {
		var zero T
		return zero, err
	}
	return conv(m)
}

// DecodeList decodes a JSON array of objects and builds every element with the converter.
// The error of a failed element names its index.
func DecodeList[T any](data []byte, conv Converter[T]) ([]T, error) {
	items, err := Decode[[]map[string]interface{}](data)
	if err != nil {
		return nil, err
	}
	res := make([]T, 0, len(items))
	for i, item := range items {
		v, convErr := conv(item)
		if convErr != nil {
			return nil, fmt.Errorf("convert element #%d: %w", i, convErr)
		}
		res = append(res, v)
	}
	return res, nil
}

// FromMap converts a generic map into T following "json" struct tags.
// Input is weakly typed ("42" fits an int field), durations and encoding.TextUnmarshaler fields are supported.
func FromMap[T any](m map[string]interface{}) (T, error) {
	var res T
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.TextUnmarshallerHookFunc(),
			mapstructure.StringToTimeDurationHookFunc(),
		),
		WeaklyTypedInput: true,
		TagName:          "json",
		Result:           &res,
	})
	if err != nil {
		return res, fmt.Errorf("new map decoder: %w", err)
	}
	if err = decoder.Decode(m); err != nil {
		return res, fmt.Errorf("decode map: %w", err)
	}
	return res, nil
}

// MapConverter returns FromMap as a Converter.
func MapConverter[T any]() Converter[T] {
	return FromMap[T]
}

// DecodeYAML decodes a single YAML document into T.
func DecodeYAML[T any](data []byte) (T, error) {
	var res T
	if len(bytes.TrimSpace(data)) == 0 {
		return res, ErrEmptyInput
	}
	if err := yaml.Unmarshal(data, &res); err != nil {
		return res, fmt.Errorf("decode YAML: %w", err)
	}
	return res, nil
}

func classifyError(err error) error {
	var syntaxErr *json.SyntaxError
	var unmarshalTypeErr *json.UnmarshalTypeError
	switch {
	case errors.Is(err, io.EOF):
		return ErrEmptyInput
	case errors.Is(err, io.ErrUnexpectedEOF):
		return &DecodeError{Message: "input contains badly-formed JSON", Err: err}
	case errors.As(err, &syntaxErr):
		return &DecodeError{
			Message: fmt.Sprintf("input contains badly-formed JSON (at position %d)", syntaxErr.Offset),
			Err:     err,
		}
	case errors.As(err, &unmarshalTypeErr):
		if unmarshalTypeErr.Field != "" {
			return &DecodeError{
				Message: fmt.Sprintf("input contains an invalid value for the %q field (at position %d)",
					unmarshalTypeErr.Field, unmarshalTypeErr.Offset),
				Err: err,
			}
		}
		return &DecodeError{
			Message: fmt.Sprintf("input contains an invalid value of type %q for the value of type %s",
				unmarshalTypeErr.Value, unmarshalTypeErr.Type.String()),
			Err: err,
		}
	case strings.HasPrefix(err.Error(), "json: unknown field"):
		return &DecodeError{Message: "input does not match the scheme: " + strings.TrimPrefix(err.Error(), "json: "), Err: err}
	}
	return fmt.Errorf("decode JSON: %w", err)
}
