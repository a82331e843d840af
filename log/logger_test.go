/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

package log

import (
	"bufio"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewLogger_FileOutput(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "app-{{pid}}.log")

	cfg := NewDefaultConfig()
	cfg.Output = OutputFile
	cfg.Level = LevelDebug
	cfg.File.Path = logPath

	logger, closeFn := NewLogger(cfg)
	logger.Debug("scheduled", String("debouncer", "search"), Duration("delay", 0))
	logger.Infof("fired %d times", 2)
	logger.Error("action failed", Error(errors.New("boom")))
	logger.WithLevel(LevelError).Info("filtered")
	closeFn()

	f, err := os.Open(resolvePlaceholders(logPath))
	require.NoError(t, err)
	defer func() { require.NoError(t, f.Close()) }()

	var msgs []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &entry))
		require.EqualValues(t, os.Getpid(), entry["pid"])
		msgs = append(msgs, entry["msg"].(string))
	}
	require.NoError(t, scanner.Err())
	require.Equal(t, []string{"scheduled", "fired 2 times", "action failed"}, msgs)
}

func TestResolvePlaceholders(t *testing.T) {
	require.Equal(t, "/var/log/app-"+strconv.Itoa(os.Getpid())+".log", resolvePlaceholders("/var/log/app-{{pid}}.log"))
	require.Equal(t, "plain.log", resolvePlaceholders("plain.log"))
}

func TestNewDisabledLogger(t *testing.T) {
	logger := NewDisabledLogger()
	require.NotPanics(t, func() {
		logger.With(String("k", "v")).Error("nothing happens")
	})
}
