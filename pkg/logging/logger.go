package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Level controls which messages a Logger writes.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	default:
		return "ERROR"
	}
}

// Logger writes structured, component-tagged log lines for the browsing core.
// All components of one process share a session log file under
// ~/.browsecore/logs/; if that file cannot be opened the logger falls back to
// stderr.
type Logger struct {
	component string
	min       Level
	out       *sink
}

// sink is the shared, mutex-guarded destination for a process's log lines.
type sink struct {
	mu     sync.Mutex
	w      io.Writer
	file   *os.File
	closed bool
}

var (
	sessionID string
	shared    *sink
	initOnce  sync.Once
)

// SessionID returns the process-wide log session identifier.
func SessionID() string {
	initShared()
	return sessionID
}

func initShared() {
	initOnce.Do(func() {
		sessionID = uuid.New().String()
		shared = &sink{w: os.Stderr}

		homeDir, err := os.UserHomeDir()
		if err != nil {
			return
		}
		dir := filepath.Join(homeDir, ".browsecore", "logs")
		if err := os.MkdirAll(dir, 0750); err != nil {
			return
		}
		path := filepath.Join(dir, sessionID+".log")
		file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
		if err != nil {
			log.Printf("logging: falling back to stderr: %v", err)
			return
		}
		shared.w = file
		shared.file = file
	})
}

// New returns a logger for a component. All levels are written by default;
// use WithLevel to raise the floor.
func New(component string) *Logger {
	initShared()
	return &Logger{component: component, min: LevelDebug, out: shared}
}

// WithLevel returns a copy of the logger that drops messages below min.
func (l *Logger) WithLevel(min Level) *Logger {
	c := *l
	c.min = min
	return &c
}

func (l *Logger) write(level Level, format string, v ...interface{}) {
	if level < l.min {
		return
	}
	ts := time.Now().Format("2006-01-02 15:04:05.000")
	line := fmt.Sprintf("[%s] [%s] [%s] %s\n", ts, l.component, level, fmt.Sprintf(format, v...))

	l.out.mu.Lock()
	defer l.out.mu.Unlock()
	if l.out.closed {
		return
	}
	io.WriteString(l.out.w, line)
}

// Debugf logs a debug-level message.
func (l *Logger) Debugf(format string, v ...interface{}) { l.write(LevelDebug, format, v...) }

// Infof logs an info-level message.
func (l *Logger) Infof(format string, v ...interface{}) { l.write(LevelInfo, format, v...) }

// Warnf logs a warning-level message.
func (l *Logger) Warnf(format string, v ...interface{}) { l.write(LevelWarn, format, v...) }

// Errorf logs an error-level message.
func (l *Logger) Errorf(format string, v ...interface{}) { l.write(LevelError, format, v...) }

// Close flushes and closes the shared log file. Safe to call multiple times;
// subsequent writes are dropped.
func Close() error {
	initShared()
	shared.mu.Lock()
	defer shared.mu.Unlock()
	if shared.closed {
		return nil
	}
	shared.closed = true
	if shared.file != nil {
		return shared.file.Close()
	}
	return nil
}
