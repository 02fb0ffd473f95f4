package logger

import (
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// DefaultFile is the JSON-lines log path, relative to the working directory.
const DefaultFile = "logs/console.log"

// TimeFormat is the timestamp layout shown in the console.
const TimeFormat = "2006-01-02 15:04:05"

// Level classifies a console entry. The console colors entries by level.
type Level int

const (
	Info Level = iota
	Success
	Warn
	Error
	Fatal
)

func (l Level) String() string {
	switch l {
	case Success:
		return "success"
	case Warn:
		return "warn"
	case Error:
		return "error"
	case Fatal:
		return "fatal"
	}
	return "info"
}

func (l Level) zerolog() zerolog.Level {
	switch l {
	case Warn:
		return zerolog.WarnLevel
	case Error:
		return zerolog.ErrorLevel
	case Fatal:
		// zerolog's FatalLevel exits the process; the console log never does.
		return zerolog.ErrorLevel
	}
	return zerolog.InfoLevel
}

// Entry is one console line.
type Entry struct {
	Time  time.Time
	Level Level
	Text  string
}

// Line renders the entry the way the console and terminal show it.
func (e Entry) Line() string {
	return "[" + e.Time.Format(TimeFormat) + "] " + e.Text
}

// Logger is an append-only, thread-safe console log. Every entry is also written as a JSON line
// to the file sink, if one is open.
type Logger struct {
	mu      sync.Mutex
	entries []Entry
	sink    zerolog.Logger
	closer  io.Closer
	now     func() time.Time
}

// New returns a Logger appending to path. An empty path keeps the log in memory only. The file
// sink is best effort: if it cannot be opened the Logger still works.
func New(path string) *Logger {
	l := &Logger{sink: zerolog.Nop(), now: time.Now}
	if path == "" {
		return l
	}
	_ = os.MkdirAll(filepath.Dir(path), 0755)
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return l
	}
	l.closer = f
	l.sink = zerolog.New(f).With().Timestamp().Logger()
	return l
}

// NewWriter returns a Logger whose sink writes to w, for tests and the CLI's stderr mode.
func NewWriter(w io.Writer) *Logger {
	return &Logger{sink: zerolog.New(w).With().Timestamp().Logger(), now: time.Now}
}

// Log appends an entry at the given level.
func (l *Logger) Log(level Level, text string) {
	l.mu.Lock()
	e := Entry{Time: l.now(), Level: level, Text: text}
	l.entries = append(l.entries, e)
	// Written under the lock so the file keeps call order.
	l.sink.WithLevel(level.zerolog()).Str("level_name", level.String()).Msg(text)
	l.mu.Unlock()
}

func (l *Logger) Info(text string)    { l.Log(Info, text) }
func (l *Logger) Success(text string) { l.Log(Success, text) }
func (l *Logger) Warn(text string)    { l.Log(Warn, text) }
func (l *Logger) Error(text string)   { l.Log(Error, text) }
func (l *Logger) Fatal(text string)   { l.Log(Fatal, text) }

// Entries returns a copy of all entries.
func (l *Logger) Entries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Lines returns a copy of all entries rendered with Entry.Line.
func (l *Logger) Lines() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.entries))
	for i, e := range l.entries {
		out[i] = e.Line()
	}
	return out
}

// Len reports the number of entries.
func (l *Logger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// Close closes the file sink.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sink = zerolog.Nop()
	if l.closer == nil {
		return nil
	}
	err := l.closer.Close()
	l.closer = nil
	return err
}
