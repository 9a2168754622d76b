package cli

import (
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/raysh454/ptrprobe/internal/webclient"
)

// CLIArgs are the command-line arguments for a single run. Only flags that
// were explicitly given override the configuration; see IsSet.
type CLIArgs struct {
	Input      string
	Output     string
	Mode       string
	LogFormat  string
	LogLevel   string
	Backend    string
	Scheme     string
	Path       string
	Exclude    []string
	DNSTimeout time.Duration
	Timeout    time.Duration
	PaceMin    time.Duration
	PaceMax    time.Duration
	NoPace     bool

	// RawArgs is the original args slice (useful for debugging/tests).
	RawArgs []string

	set map[string]bool
}

// IsSet reports whether the named flag appeared on the command line.
func (a *CLIArgs) IsSet(name string) bool {
	return a.set[name]
}

// ParseArgs parses a slice of args and returns CLIArgs. Use in tests by passing
// arbitrary slices. The function is deterministic and does not read os.Args.
// Usage and errors are written to out when it is non-nil.
func ParseArgs(args []string, out io.Writer) (*CLIArgs, error) {
	fs := flag.NewFlagSet("ptrprobe", flag.ContinueOnError)
	if out == nil {
		out = io.Discard
	}
	fs.SetOutput(out)

	a := &CLIArgs{RawArgs: args, set: map[string]bool{}}
	var exclude string

	fs.StringVar(&a.Input, "input", "", "Line-delimited JSON feed to read (default input.json)")
	fs.StringVar(&a.Output, "output", "", "Report file to write (default output.json)")
	fs.StringVar(&a.Mode, "mode", "", "Pipeline mode: basic|extended (default extended)")
	fs.StringVar(&a.LogFormat, "log-format", "", "Log format: auto|json|console")
	fs.StringVar(&a.LogLevel, "log-level", "", "Log level: debug|info|warn|error")
	fs.StringVar(&a.Backend, "backend", "", "HTTP backend: nethttp|chromedp")
	fs.StringVar(&a.Scheme, "scheme", "", "Scheme used for the readme probe")
	fs.StringVar(&a.Path, "path", "", "Readme path probed on each host")
	fs.StringVar(&exclude, "exclude", "", "Comma-separated IPv4 CIDRs to skip")
	fs.DurationVar(&a.DNSTimeout, "dns-timeout", 0, "Timeout for one reverse lookup")
	fs.DurationVar(&a.Timeout, "timeout", 0, "Timeout for one readme request")
	fs.DurationVar(&a.PaceMin, "pace-min", 0, "Lower bound of the delay before each address")
	fs.DurationVar(&a.PaceMax, "pace-max", 0, "Upper bound of the delay before each address")
	fs.BoolVar(&a.NoPace, "no-pace", false, "Disable the delay between addresses")

	fs.Usage = func() {
		fmt.Fprintf(out, "Usage: ptrprobe [flags]\n\nFlags:\n")
		fs.PrintDefaults()
		fmt.Fprintf(out, "\nBackends:\n%s", webclient.DescribeBackends())
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}

	fs.Visit(func(f *flag.Flag) { a.set[f.Name] = true })

	if exclude != "" {
		for _, part := range strings.Split(exclude, ",") {
			if part = strings.TrimSpace(part); part != "" {
				a.Exclude = append(a.Exclude, part)
			}
		}
	}
	return a, nil
}
