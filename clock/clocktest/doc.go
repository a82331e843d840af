/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

// Package clocktest provides a manually driven clock.Clock implementation for tests.
package clocktest
