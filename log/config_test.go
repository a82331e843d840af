/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

package log

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/acronis/go-apputil/config"
)

func TestConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg := NewConfig()
		require.NoError(t, config.NewLoader(config.NewViperAdapter()).LoadFromReader(
			bytes.NewBufferString(`{}`), config.DataTypeJSON, cfg))
		want := NewDefaultConfig()
		require.Equal(t, want, cfg)
	})

	t.Run("custom prefix and values", func(t *testing.T) {
		const data = `
app:
  logging:
    level: DEBUG
    format: text
    output: file
    file:
      path: /tmp/app-{{pid}}.log
      rotation:
        maxSize: 10M
        maxBackups: 3
`
		cfg := NewConfig(WithKeyPrefix("app.logging"))
		require.NoError(t, config.NewLoader(config.NewViperAdapter()).LoadFromReader(
			bytes.NewBufferString(data), config.DataTypeYAML, cfg))
		require.Equal(t, LevelDebug, cfg.Level)
		require.Equal(t, FormatText, cfg.Format)
		require.Equal(t, OutputFile, cfg.Output)
		require.Equal(t, "/tmp/app-{{pid}}.log", cfg.File.Path)
		require.Equal(t, config.ByteSize(10*1024*1024), cfg.File.Rotation.MaxSize)
		require.Equal(t, 3, cfg.File.Rotation.MaxBackups)
	})

	tests := []struct {
		name    string
		data    string
		wantErr string
	}{
		{
			name:    "unknown level",
			data:    `{"log":{"level":"trace"}}`,
			wantErr: `log.level: unknown value "trace", should be one of [error warn info debug]`,
		},
		{
			name:    "file output without path",
			data:    `{"log":{"output":"file"}}`,
			wantErr: `log.file.path: cannot be empty when "file" output is used`,
		},
		{
			name:    "too small rotation size",
			data:    `{"log":{"file":{"rotation":{"maxSize":"1K"}}}}`,
			wantErr: `log.file.rotation.maxSize: should be >= 1M`,
		},
		{
			name:    "negative max age",
			data:    `{"log":{"file":{"rotation":{"maxAgeDays":-1}}}}`,
			wantErr: `log.file.rotation.maxAgeDays: should be >= 0`,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			err := config.NewLoader(config.NewViperAdapter()).LoadFromReader(
				bytes.NewBufferString(tt.data), config.DataTypeJSON, NewConfig())
			require.EqualError(t, err, tt.wantErr)
		})
	}
}
