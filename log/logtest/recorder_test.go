/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

package logtest

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/acronis/go-apputil/log"
)

func TestRecorder(t *testing.T) {
	rec := NewRecorder()
	logger := rec.With(log.String("debouncer", "search"))

	logger.Debug("action fired", log.Int("calls", 3))
	logger.Errorf("action %s failed", "save")
	rec.WithLevel(log.LevelWarn).Info("filtered out")

	entries := rec.Entries()
	require.Len(t, entries, 2)

	entry, found := rec.FindEntry("action fired")
	require.True(t, found)
	require.Equal(t, log.LevelDebug, entry.Level)
	field, found := entry.FindField("debouncer")
	require.True(t, found)
	require.Equal(t, "debouncer", field.Key)
	_, found = entry.FindField("unknown")
	require.False(t, found)

	errEntries := rec.FindAllEntriesByFilter(func(e RecordedEntry) bool { return e.Level == log.LevelError })
	require.Len(t, errEntries, 1)
	require.Equal(t, "action save failed", errEntries[0].Text)

	rec.Reset()
	require.Empty(t, rec.Entries())
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf)
	logger.Warn("dropped", log.Error(errors.New("not ready")))
	require.Contains(t, buf.String(), `"msg":"dropped"`)
	require.Contains(t, buf.String(), `"error":"not ready"`)
}
