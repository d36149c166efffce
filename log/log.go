// Package log wraps logrus with ctx-first helpers (Infof, Warnf, ...).
// Every line carries the request id and, inside a tool call, the tool name from ctx.
package log

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
	logcontext "github.com/va6996/mountvacation-mcp/context"
)

const (
	requestIDField = "request_id"
	toolField      = "tool"
)

// Logger is the global logger instance
var Logger = logrus.New()

// frames from these paths are never reported as the caller
var skipFrames = []string{"github.com/sirupsen/logrus", "log/log.go", "log/leveled.go", "runtime/"}

// CustomFormatter renders [time] [LEVEL] [file:line] message [req:id] [tool:name] k=v
type CustomFormatter struct {
	TimestampFormat string
}

func (f *CustomFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	b := entry.Buffer
	if b == nil {
		b = &bytes.Buffer{}
	}

	fmt.Fprintf(b, "[%s] [%s] ", entry.Time.Format(f.TimestampFormat), strings.ToUpper(entry.Level.String()))
	if file, line, ok := caller(); ok {
		fmt.Fprintf(b, "[%s:%d] ", filepath.Base(file), line)
	}
	b.WriteString(entry.Message)

	if id, _ := entry.Data[requestIDField].(string); id != "" {
		fmt.Fprintf(b, " [req:%s]", id)
	}
	if tool, _ := entry.Data[toolField].(string); tool != "" {
		fmt.Fprintf(b, " [tool:%s]", tool)
	}

	keys := make([]string, 0, len(entry.Data))
	for key := range entry.Data {
		if key != requestIDField && key != toolField {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	for _, key := range keys {
		fmt.Fprintf(b, " %s=%v", key, entry.Data[key])
	}

	b.WriteByte('\n')
	return b.Bytes(), nil
}

// caller finds the first frame outside logrus and this package.
func caller() (string, int, bool) {
	pcs := make([]uintptr, 32)
	n := runtime.Callers(3, pcs)
	frames := runtime.CallersFrames(pcs[:n])
	for {
		frame, more := frames.Next()
		if !skipped(frame.File) {
			return frame.File, frame.Line, frame.File != ""
		}
		if !more {
			return "", 0, false
		}
	}
}

func skipped(file string) bool {
	for _, s := range skipFrames {
		if strings.Contains(file, s) {
			return true
		}
	}
	return false
}

// fromContext tags an entry with whatever request metadata ctx carries.
func fromContext(ctx context.Context) *logrus.Entry {
	fields := logrus.Fields{}
	if ctx != nil {
		if id := logcontext.RequestIDFromContext(ctx); id != "" {
			fields[requestIDField] = id
		}
		if tool := logcontext.ToolNameFromContext(ctx); tool != "" {
			fields[toolField] = tool
		}
	}
	return Logger.WithFields(fields)
}

func Infof(ctx context.Context, format string, args ...interface{}) {
	fromContext(ctx).Infof(format, args...)
}

func Info(ctx context.Context, args ...interface{}) {
	fromContext(ctx).Info(args...)
}

func Debugf(ctx context.Context, format string, args ...interface{}) {
	fromContext(ctx).Debugf(format, args...)
}

func Warnf(ctx context.Context, format string, args ...interface{}) {
	fromContext(ctx).Warnf(format, args...)
}

func Errorf(ctx context.Context, format string, args ...interface{}) {
	fromContext(ctx).Errorf(format, args...)
}

// Fatalf logs at fatal level and exits
func Fatalf(ctx context.Context, format string, args ...interface{}) {
	fromContext(ctx).Fatalf(format, args...)
}

// SetLevel sets the global log level
func SetLevel(level logrus.Level) {
	Logger.SetLevel(level)
}

// SetOutput sets the global log output
func SetOutput(out io.Writer) {
	Logger.SetOutput(out)
}

// Init installs the formatter at info level on stderr; stdout belongs to the stdio transport.
func Init() {
	Logger.SetFormatter(&CustomFormatter{TimestampFormat: "2006-01-02 15:04:05"})
	Logger.SetLevel(logrus.InfoLevel)
	Logger.SetOutput(os.Stderr)
}

// Configure sets the global level from a name such as "debug" or "WARN".
func Configure(level string) error {
	lvl, err := logrus.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	Logger.SetLevel(lvl)
	return nil
}
