/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

// Package result provides Result, a value that holds either a successful value or an error.
package result

import (
	"context"
	"errors"

	"github.com/acronis/go-apputil/retry"
)

// ErrNilFailure is the error of a Failure created with a nil error.
var ErrNilFailure = errors.New("failure without error")

// Result holds either a value or an error. The zero Result is a success with the zero value.
type Result[T any] struct {
	value T
	err   error
}

// Success returns a successful Result.
func Success[T any](value T) Result[T] {
	return Result[T]{value: value}
}

// Failure returns a failed Result. A nil err is replaced with ErrNilFailure, so a Failure is never successful.
func Failure[T any](err error) Result[T] {
	if err == nil {
		err = ErrNilFailure
	}
	return Result[T]{err: err}
}

// Of returns a Failure if err is not nil and a Success otherwise.
func Of[T any](value T, err error) Result[T] {
	if err != nil {
		return Result[T]{err: err}
	}
	return Result[T]{value: value}
}

// Try calls fn and captures its outcome. Panics are not recovered.
func Try[T any](fn func() (T, error)) Result[T] {
	return Of(fn())
}

// IsSuccess reports whether r holds a value.
func (r Result[T]) IsSuccess() bool {
	return r.err == nil
}

// IsFailure reports whether r holds an error.
func (r Result[T]) IsFailure() bool {
	return r.err != nil
}

// Value returns the value, it is zero for a failure.
func (r Result[T]) Value() T {
	return r.value
}

// Err returns the error, it is nil for a success.
func (r Result[T]) Err() error {
	return r.err
}

// Get returns both the value and the error.
func (r Result[T]) Get() (T, error) {
	return r.value, r.err
}

// OrElse returns the value or def for a failure.
func (r Result[T]) OrElse(def T) T {
	if r.err != nil {
		return def
	}
	return r.value
}

// OrElseGet returns the value or the result of fn called with the error for a failure.
func (r Result[T]) OrElseGet(fn func(err error) T) T {
	if r.err != nil {
		return fn(r.err)
	}
	return r.value
}

// Map applies fn to the value of a success. A failure is passed through.
func Map[T, U any](r Result[T], fn func(T) U) Result[U] {
	if r.err != nil {
		return Result[U]{err: r.err}
	}
	return Success(fn(r.value))
}

// FlatMap applies fallible fn to the value of a success. A failure is passed through.
func FlatMap[T, U any](r Result[T], fn func(T) Result[U]) Result[U] {
	if r.err != nil {
		return Result[U]{err: r.err}
	}
	return fn(r.value)
}

// Fold reduces r to a single value with onSuccess or onFailure.
func Fold[T, U any](r Result[T], onSuccess func(T) U, onFailure func(error) U) U {
	if r.err != nil {
		return onFailure(r.err)
	}
	return onSuccess(r.value)
}

// Retry calls fn until it succeeds or the policy, isRetryable or ctx stop the attempts.
// The returned Result holds the value of the successful attempt or the last error.
func Retry[T any](ctx context.Context, policy retry.Policy, isRetryable retry.IsRetryable, fn func(ctx context.Context) (T, error)) Result[T] {
	var value T
	err := retry.DoWithRetry(ctx, policy, isRetryable, nil, func(ctx context.Context) error {
		var fnErr error
		value, fnErr = fn(ctx)
		return fnErr
	})
	return Of(value, err)
}
