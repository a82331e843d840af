/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

// Package testutil contains helpers for testing code that uses the library.
package testutil

type tHelper interface {
	Helper()
}
