package core

import (
	"strings"

	"github.com/rs/zerolog"
)

// Sink receives diagnostic lines from an extraction. It is a development aid
// only; nothing written to it affects the returned record.
type Sink interface {
	Write(line string)
}

// SinkFunc adapts a plain function to a Sink.
type SinkFunc func(line string)

func (f SinkFunc) Write(line string) { f(line) }

// SinkWriter adapts a Sink to io.Writer so it can back a zerolog.Logger.
// Each zerolog event arrives as one Write call and is forwarded as one line.
type SinkWriter struct {
	Sink Sink
}

func (w SinkWriter) Write(p []byte) (int, error) {
	w.Sink.Write(strings.TrimRight(string(p), "\n"))
	return len(p), nil
}

// NewSinkLogger returns a debug-level logger that writes JSON lines to s.
func NewSinkLogger(s Sink) zerolog.Logger {
	return zerolog.New(SinkWriter{Sink: s}).Level(zerolog.DebugLevel).With().Timestamp().Logger()
}
