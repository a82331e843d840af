/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

package logtest

import (
	"sync"
	"time"

	"github.com/ssgreg/logf"

	"github.com/acronis/go-apputil/log"
)

// RecordedEntry is a logged entry captured by Recorder.
type RecordedEntry struct {
	LoggerName string
	Fields     []log.Field
	Level      log.Level
	Time       time.Time
	Text       string
}

// FindField returns the field with the given key.
func (re *RecordedEntry) FindField(key string) (log.Field, bool) {
	for _, field := range re.Fields {
		if field.Key == key {
			return field, true
		}
	}
	return log.Field{}, false
}

type recordingEntryWriter struct {
	mu      sync.RWMutex
	entries []RecordedEntry
}

//nolint:gocritic
func (w *recordingEntryWriter) WriteEntry(e logf.Entry) {
	fields := make([]log.Field, 0, len(e.Fields)+len(e.DerivedFields))
	fields = append(fields, e.DerivedFields...)
	fields = append(fields, e.Fields...)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.entries = append(w.entries, RecordedEntry{
		LoggerName: e.LoggerName,
		Fields:     fields,
		Level:      fromLogfLevel(e.Level),
		Time:       e.Time,
		Text:       e.Text,
	})
}

// Recorder is a log.FieldLogger that keeps all entries in memory so tests can inspect them.
type Recorder struct {
	*log.LogfAdapter
	writer *recordingEntryWriter
}

// NewRecorder creates a new Recorder that records entries of all levels.
func NewRecorder() *Recorder {
	w := &recordingEntryWriter{}
	return &Recorder{&log.LogfAdapter{Logger: logf.NewLogger(logf.LevelDebug, w)}, w}
}

// With returns a Recorder with additional fields that shares entries with the parent.
func (r *Recorder) With(fs ...log.Field) log.FieldLogger {
	return &Recorder{r.LogfAdapter.With(fs...).(*log.LogfAdapter), r.writer}
}

// WithLevel returns a Recorder with an additional level check that shares entries with the parent.
func (r *Recorder) WithLevel(level log.Level) log.FieldLogger {
	return &Recorder{r.LogfAdapter.WithLevel(level).(*log.LogfAdapter), r.writer}
}

// Entries returns a copy of all recorded entries.
func (r *Recorder) Entries() []RecordedEntry {
	r.writer.mu.RLock()
	defer r.writer.mu.RUnlock()
	return append([]RecordedEntry(nil), r.writer.entries...)
}

// FindEntry returns the first entry with the given message.
func (r *Recorder) FindEntry(msg string) (RecordedEntry, bool) {
	found := r.FindAllEntriesByFilter(func(e RecordedEntry) bool { return e.Text == msg })
	if len(found) == 0 {
		return RecordedEntry{}, false
	}
	return found[0], true
}

// FindAllEntriesByFilter returns all entries matched by the filter.
func (r *Recorder) FindAllEntriesByFilter(filter func(entry RecordedEntry) bool) []RecordedEntry {
	r.writer.mu.RLock()
	defer r.writer.mu.RUnlock()
	var res []RecordedEntry
	for _, e := range r.writer.entries {
		if filter(e) {
			res = append(res, e)
		}
	}
	return res
}

// Reset drops all recorded entries.
func (r *Recorder) Reset() {
	r.writer.mu.Lock()
	r.writer.entries = nil
	r.writer.mu.Unlock()
}

func fromLogfLevel(value logf.Level) log.Level {
	switch value {
	case logf.LevelError:
		return log.LevelError
	case logf.LevelWarn:
		return log.LevelWarn
	case logf.LevelDebug:
		return log.LevelDebug
	}
	return log.LevelInfo
}
