/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

package testutil

import (
	"errors"
	"fmt"
	"strings"

	"github.com/stretchr/testify/require"
)

// RequireErrorIsAny asserts that at least one of the targets is in err's chain (see errors.Is).
func RequireErrorIsAny(t require.TestingT, err error, targets []error, msgAndArgs ...interface{}) {
	if h, ok := t.(tHelper); ok {
		h.Helper()
	}
	expectedErrTexts := make([]string, 0, len(targets))
	for _, target := range targets {
		if errors.Is(err, target) {
			return
		}
		expectedErrTexts = append(expectedErrTexts, fmt.Sprintf("%q", target.Error()))
	}
	require.FailNow(t, fmt.Sprintf("At least one target error should be in err chain:\n"+
		"expected: [%s]\n"+
		"in chain: %s", strings.Join(expectedErrTexts, "; "), errorChainString(err),
	), msgAndArgs...)
}

func errorChainString(err error) string {
	var chain []string
	for ; err != nil; err = errors.Unwrap(err) {
		chain = append(chain, fmt.Sprintf("%q", err.Error()))
	}
	return strings.Join(chain, "\n\t")
}
