package log

import (
	"fmt"
	"io"
	stdlog "log"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/sugawarayuuta/sonnet"
)

// Formatter renders one entry to bytes.
type Formatter interface {
	Format(entry *Entry) ([]byte, error)
}

// TextFormatter renders "ts LEVEL msg key=value ...".
type TextFormatter struct{}

func (TextFormatter) Format(e *Entry) ([]byte, error) {
	var b strings.Builder
	b.WriteString(e.Timestamp.Format(time.RFC3339))
	b.WriteByte(' ')
	b.WriteString(e.Level.String())
	b.WriteByte(' ')
	b.WriteString(e.Message)
	for _, f := range e.Fields {
		fmt.Fprintf(&b, " %s=%v", f.Key, f.Value)
	}
	b.WriteByte('\n')
	return []byte(b.String()), nil
}

// JSONFormatter renders one JSON object per line.
type JSONFormatter struct{}

func (JSONFormatter) Format(e *Entry) ([]byte, error) {
	obj := map[string]any{
		"ts":    e.Timestamp.Format(time.RFC3339),
		"level": strings.ToLower(e.Level.String()),
		"msg":   e.Message,
	}
	for _, f := range e.Fields {
		if err, ok := f.Value.(error); ok {
			obj[f.Key] = err.Error()
			continue
		}
		obj[f.Key] = f.Value
	}
	out, err := sonnet.Marshal(obj)
	if err != nil {
		return nil, err
	}
	return append(out, '\n'), nil
}

// LoggerOption configures a BaseLogger.
type LoggerOption func(*BaseLogger)

// WithLevel sets the minimum level.
func WithLevel(level Level) LoggerOption {
	return func(l *BaseLogger) { l.level = level }
}

// WithFormatter sets the entry formatter.
func WithFormatter(f Formatter) LoggerOption {
	return func(l *BaseLogger) { l.formatter = f }
}

// WithOutput sets the destination writer.
func WithOutput(w io.Writer) LoggerOption {
	return func(l *BaseLogger) { l.out = w }
}

// NewConsoleOutput returns the default stderr destination.
func NewConsoleOutput() io.Writer { return os.Stderr }

// BaseLogger implements Logger.
type BaseLogger struct {
	mu        sync.Mutex
	level     Level
	fields    []Field
	formatter Formatter
	out       io.Writer
}

// NewLogger constructs a BaseLogger; defaults are InfoLevel, text
// format, stderr.
func NewLogger(opts ...LoggerOption) *BaseLogger {
	l := &BaseLogger{level: InfoLevel, formatter: TextFormatter{}, out: os.Stderr}
	for _, o := range opts {
		o(l)
	}
	return l
}

func (l *BaseLogger) log(level Level, msg string, fields []Field) {
	if level < l.GetLevel() {
		return
	}
	e := &Entry{
		Level:     level,
		Message:   msg,
		Fields:    mergeFields(l.fields, fields),
		Timestamp: time.Now(),
	}
	b, err := l.formatter.Format(e)
	if err != nil {
		return
	}
	l.mu.Lock()
	_, _ = l.out.Write(b)
	l.mu.Unlock()
}

func (l *BaseLogger) Debug(msg string, fields ...Field) { l.log(DebugLevel, msg, fields) }
func (l *BaseLogger) Info(msg string, fields ...Field)  { l.log(InfoLevel, msg, fields) }
func (l *BaseLogger) Warn(msg string, fields ...Field)  { l.log(WarnLevel, msg, fields) }
func (l *BaseLogger) Error(msg string, fields ...Field) { l.log(ErrorLevel, msg, fields) }

// With returns a child logger carrying extra fields. The child shares
// the parent's level, formatter and output.
func (l *BaseLogger) With(fields ...Field) Logger {
	child := &BaseLogger{
		level:     l.GetLevel(),
		fields:    mergeFields(l.fields, fields),
		formatter: l.formatter,
		out:       l.out,
	}
	return child
}

// SetLevel sets the minimum level.
func (l *BaseLogger) SetLevel(level Level) {
	l.mu.Lock()
	l.level = level
	l.mu.Unlock()
}

// GetLevel returns the minimum level.
func (l *BaseLogger) GetLevel() Level {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.level
}

// Config is the serializable logger configuration.
type Config struct {
	Level  string `json:"level"`
	Format string `json:"format"` // text|json
}

// ApplyConfig builds a logger from a Config.
func ApplyConfig(cfg *Config) (Logger, error) {
	lvl, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	var f Formatter = TextFormatter{}
	switch strings.ToLower(cfg.Format) {
	case "", "text":
	case "json":
		f = JSONFormatter{}
	default:
		return nil, fmt.Errorf("log: unknown format %q", cfg.Format)
	}
	return NewLogger(WithLevel(lvl), WithFormatter(f), WithOutput(NewConsoleOutput())), nil
}

// RedirectStdLog routes the standard library's global logger through
// logger at InfoLevel. Used for dependencies that log via package log.
func RedirectStdLog(logger Logger) {
	stdlog.SetFlags(0)
	stdlog.SetOutput(stdlogWriter{logger})
}

type stdlogWriter struct{ l Logger }

func (w stdlogWriter) Write(p []byte) (int, error) {
	w.l.Info(strings.TrimRight(string(p), "\n"))
	return len(p), nil
}
