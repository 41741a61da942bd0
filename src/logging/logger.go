// Package logging is the leveled logger shared by the logplot packages.
package logging

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// LogLevel represents severity.
type LogLevel int32

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

var levelNames = map[string]LogLevel{
	"debug":   LevelDebug,
	"info":    LevelInfo,
	"warn":    LevelWarn,
	"warning": LevelWarn,
	"error":   LevelError,
}

// String is the tag printed in front of each message.
func (l LogLevel) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "INFO"
	}
}

// ParseLevel maps a level name (case-insensitive, "warning" allowed) to a LogLevel.
func ParseLevel(s string) (LogLevel, bool) {
	l, ok := levelNames[strings.ToLower(strings.TrimSpace(s))]
	return l, ok
}

var currentLevel = int32(LevelInfo)

var (
	outMu      sync.Mutex
	baseLogger = log.New(os.Stderr, "", log.Ldate|log.Ltime|log.Lmicroseconds)
)

// SetLogLevel sets the global level. Unknown names leave it unchanged and report false.
func SetLogLevel(s string) bool {
	l, ok := ParseLevel(s)
	if ok {
		atomic.StoreInt32(&currentLevel, int32(l))
	}
	return ok
}

// ValidLevel reports whether s names a known level.
func ValidLevel(s string) bool {
	_, ok := ParseLevel(s)
	return ok
}

// GetLogLevel returns the current global log level.
func GetLogLevel() LogLevel { return LogLevel(atomic.LoadInt32(&currentLevel)) }

// SetOutput redirects log output and returns the previous writer.
func SetOutput(w io.Writer) io.Writer {
	outMu.Lock()
	defer outMu.Unlock()
	prev := baseLogger.Writer()
	baseLogger.SetOutput(w)
	return prev
}

// Hold buffers log output until the returned release func runs, which writes the held lines to
// the previous output. Full-screen terminal UIs hold logs so lines do not land on their screen.
func Hold() (release func()) {
	buf := &lockedBuffer{}
	prev := SetOutput(buf)
	var once sync.Once
	return func() {
		once.Do(func() {
			SetOutput(prev)
			_, _ = prev.Write(buf.Bytes())
		})
	}
}

type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) Bytes() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]byte(nil), b.buf.Bytes()...)
}

func logf(l LogLevel, format string, args ...interface{}) {
	if GetLogLevel() > l {
		return
	}
	msg := format
	// plain messages are not run through fmt so literal % survives
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	baseLogger.Printf("[%s] %s", l, msg)
}

func Debugf(format string, a ...interface{}) { logf(LevelDebug, format, a...) }
func Infof(format string, a ...interface{})  { logf(LevelInfo, format, a...) }
func Warnf(format string, a ...interface{})  { logf(LevelWarn, format, a...) }
func Errorf(format string, a ...interface{}) { logf(LevelError, format, a...) }

// TimeTrack logs how long a phase took at debug level.
func TimeTrack(start time.Time, label string) {
	Debugf("%s took %s", label, time.Since(start).Round(time.Microsecond))
}
