package logging

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/fatih/color"

	"github.com/raysh454/ptrprobe/internal/interfaces"
)

// ConsoleLogger writes short human-readable lines meant for an operator
// watching the run:
//
//	[*] hostname found ip=192.0.2.1 host=example.com
//	[!] request failed url=http://example.com/... error=...
type ConsoleLogger struct {
	level  Level
	fields []interfaces.Field
	out    io.Writer
	mu     *sync.Mutex
	color  bool
}

// NewConsoleLogger creates a console logger. Colour is only emitted when
// colored is true.
func NewConsoleLogger(w io.Writer, level Level, colored bool) *ConsoleLogger {
	return &ConsoleLogger{level: level, out: w, mu: &sync.Mutex{}, color: colored}
}

var consoleStyles = map[Level]struct {
	prefix string
	attrs  []color.Attribute
}{
	LevelDebug: {"[.]", []color.Attribute{color.FgHiBlack}},
	LevelInfo:  {"[*]", []color.Attribute{color.FgBlue, color.Bold}},
	LevelWarn:  {"[!]", []color.Attribute{color.FgYellow}},
	LevelError: {"[x]", []color.Attribute{color.FgRed, color.Bold}},
}

func (c *ConsoleLogger) log(level Level, msg string, fields ...interfaces.Field) {
	if level < c.level {
		return
	}
	style := consoleStyles[level]
	prefix := style.prefix
	if c.color {
		p := color.New(style.attrs...)
		p.EnableColor()
		prefix = p.Sprint(prefix)
	}

	var b strings.Builder
	b.WriteString(prefix)
	b.WriteByte(' ')
	b.WriteString(msg)
	for _, kv := range c.render(fields) {
		b.WriteByte(' ')
		b.WriteString(kv)
	}
	b.WriteByte('\n')

	c.mu.Lock()
	defer c.mu.Unlock()
	_, _ = io.WriteString(c.out, b.String())
}

// render keeps persistent fields first, then per-call fields, each in
// insertion order.
func (c *ConsoleLogger) render(fields []interfaces.Field) []string {
	out := make([]string, 0, len(c.fields)+len(fields))
	for _, f := range append(append([]interfaces.Field(nil), c.fields...), fields...) {
		out = append(out, fmt.Sprintf("%s=%v", f.Key, fieldValue(f.Value)))
	}
	return out
}

func (c *ConsoleLogger) Debug(msg string, fields ...interfaces.Field) {
	c.log(LevelDebug, msg, fields...)
}

func (c *ConsoleLogger) Info(msg string, fields ...interfaces.Field) {
	c.log(LevelInfo, msg, fields...)
}

func (c *ConsoleLogger) Warn(msg string, fields ...interfaces.Field) {
	c.log(LevelWarn, msg, fields...)
}

func (c *ConsoleLogger) Error(msg string, fields ...interfaces.Field) {
	c.log(LevelError, msg, fields...)
}

// With returns a child logger carrying fields. The console format has no
// component column, so component is kept as a regular field.
func (c *ConsoleLogger) With(fields ...interfaces.Field) interfaces.Logger {
	return &ConsoleLogger{
		level:  c.level,
		fields: append(append([]interfaces.Field(nil), c.fields...), fields...),
		out:    c.out,
		mu:     c.mu,
		color:  c.color,
	}
}
