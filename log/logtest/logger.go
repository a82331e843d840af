/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

package logtest

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/ssgreg/logf"

	"github.com/acronis/go-apputil/log"
)

type syncEntryWriter struct {
	mu      sync.Mutex
	encoder logf.Encoder
	output  io.Writer
}

//nolint:gocritic
func (w *syncEntryWriter) WriteEntry(e logf.Entry) {
	w.mu.Lock()
	defer w.mu.Unlock()

	var buf logf.Buffer
	if err := w.encoder.Encode(&buf, e); err != nil {
		_, _ = fmt.Fprint(w.output, err)
		return
	}
	_, _ = w.output.Write(buf.Data)
}

// NewLogger returns a synchronous JSON logger writing debug and higher messages to the output.
// A nil output means os.Stderr. It is slow and intended for tests only.
func NewLogger(output io.Writer) log.FieldLogger {
	if output == nil {
		output = os.Stderr
	}
	w := &syncEntryWriter{
		encoder: logf.NewJSONEncoder(logf.JSONEncoderConfig{
			EncodeTime:   logf.RFC3339NanoTimeEncoder,
			FieldKeyTime: "time",
		}),
		output: output,
	}
	return &log.LogfAdapter{Logger: logf.NewLogger(logf.LevelDebug, w)}
}
