package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/raysh454/ptrprobe/internal/interfaces"
)

// StdoutLogger is a small structured logger that writes one JSON object per
// line. It implements interfaces.Logger.
type StdoutLogger struct {
	component string
	level     Level
	fields    []interfaces.Field
	out       io.Writer
	mu        *sync.Mutex
}

// NewStdoutLogger creates a JSON logger writing to stdout at info level.
// component is optional and is emitted on every entry.
func NewStdoutLogger(component string) *StdoutLogger {
	return NewJSONLogger(os.Stdout, component, LevelInfo)
}

// NewJSONLogger creates a JSON logger writing to w.
func NewJSONLogger(w io.Writer, component string, level Level) *StdoutLogger {
	return &StdoutLogger{component: component, level: level, out: w, mu: &sync.Mutex{}}
}

func (s *StdoutLogger) log(level Level, msg string, fields ...interfaces.Field) {
	if level < s.level {
		return
	}
	type outEntry struct {
		Level     string         `json:"level"`
		Msg       string         `json:"msg"`
		Component string         `json:"component,omitempty"`
		Time      string         `json:"time"`
		Fields    map[string]any `json:"fields,omitempty"`
	}
	m := make(map[string]any, len(s.fields)+len(fields))
	for _, f := range s.fields {
		m[f.Key] = fieldValue(f.Value)
	}
	for _, f := range fields {
		m[f.Key] = fieldValue(f.Value)
	}
	entry := outEntry{
		Level:     level.String(),
		Msg:       msg,
		Component: s.component,
		Time:      time.Now().UTC().Format(time.RFC3339),
		Fields:    m,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	enc, err := json.Marshal(entry)
	if err != nil {
		// Fallback simple formatting if JSON marshal fails
		fmt.Fprintf(s.out, "%s %s %v\n", level, msg, m)
		return
	}
	fmt.Fprintln(s.out, string(enc))
}

func (s *StdoutLogger) Debug(msg string, fields ...interfaces.Field) {
	s.log(LevelDebug, msg, fields...)
}

func (s *StdoutLogger) Info(msg string, fields ...interfaces.Field) {
	s.log(LevelInfo, msg, fields...)
}

func (s *StdoutLogger) Warn(msg string, fields ...interfaces.Field) {
	s.log(LevelWarn, msg, fields...)
}

func (s *StdoutLogger) Error(msg string, fields ...interfaces.Field) {
	s.log(LevelError, msg, fields...)
}

// With returns a child logger. A "component" field replaces the component
// name; all other fields are carried on every entry.
func (s *StdoutLogger) With(fields ...interfaces.Field) interfaces.Logger {
	child := &StdoutLogger{
		component: s.component,
		level:     s.level,
		fields:    append([]interfaces.Field(nil), s.fields...),
		out:       s.out,
		mu:        s.mu,
	}
	for _, f := range fields {
		if f.Key == "component" {
			if str, ok := f.Value.(string); ok {
				child.component = str
				continue
			}
		}
		child.fields = append(child.fields, f)
	}
	return child
}

// errors do not marshal to anything useful, so render them as text.
func fieldValue(v any) any {
	if err, ok := v.(error); ok {
		return err.Error()
	}
	return v
}
