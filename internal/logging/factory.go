package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/raysh454/ptrprobe/internal/interfaces"
)

// Format selects the log encoding.
type Format string

const (
	FormatAuto    Format = "auto"
	FormatJSON    Format = "json"
	FormatConsole Format = "console"
)

// New builds the logger for the given format. FormatAuto picks the console
// logger when w is a terminal and JSON lines otherwise.
func New(format Format, level Level, w io.Writer) (interfaces.Logger, error) {
	tty := isTerminal(w)
	switch Format(strings.ToLower(string(format))) {
	case "", FormatAuto:
		if tty {
			return NewConsoleLogger(w, level, true), nil
		}
		return NewJSONLogger(w, "", level), nil
	case FormatJSON:
		return NewJSONLogger(w, "", level), nil
	case FormatConsole:
		return NewConsoleLogger(w, level, tty), nil
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
