// Package telemetry writes structured agent events as JSON lines.
package telemetry

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// EventsFile is the file name events are appended to inside the artifacts dir.
const EventsFile = "events.jsonl"

// Sink appends one JSON object per event. The zero value and nil are no-ops.
type Sink struct {
	log  *zap.Logger
	file *os.File
}

// Open returns a sink writing to dir/events.jsonl, or a no-op sink when
// enabled is false.
func Open(dir string, enabled bool) (*Sink, error) {
	if !enabled {
		return &Sink{}, nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("telemetry: mkdir %s: %w", dir, err)
	}
	path := filepath.Join(dir, EventsFile)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("telemetry: open %s: %w", path, err)
	}
	enc := zapcore.NewJSONEncoder(zapcore.EncoderConfig{
		MessageKey: "event",
		TimeKey:    "time",
		LineEnding: zapcore.DefaultLineEnding,
		EncodeTime: func(t time.Time, pae zapcore.PrimitiveArrayEncoder) {
			pae.AppendString(t.UTC().Format(time.RFC3339Nano))
		},
		EncodeDuration: zapcore.MillisDurationEncoder,
	})
	core := zapcore.NewCore(enc, zapcore.AddSync(f), zapcore.DebugLevel)
	return &Sink{log: zap.New(core), file: f}, nil
}

// Enabled reports whether events are written anywhere.
func (s *Sink) Enabled() bool { return s != nil && s.log != nil }

// Emit writes a single event line. fields are written in key order.
func (s *Sink) Emit(name string, fields map[string]any) {
	if !s.Enabled() {
		return
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		if k == "event" || k == "time" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	zf := make([]zap.Field, 0, len(keys))
	for _, k := range keys {
		zf = append(zf, zap.Any(k, fields[k]))
	}
	s.log.Info(name, zf...)
}

func (s *Sink) Close() error {
	if !s.Enabled() {
		return nil
	}
	_ = s.log.Sync()
	return s.file.Close()
}
