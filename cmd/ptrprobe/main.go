// Command ptrprobe reads integer IPv4 addresses from a line-delimited JSON
// feed, resolves them with reverse DNS, optionally probes each host for the
// plugin readme version and writes a JSON report.
//
// Usage: ptrprobe [-input input.json] [-output output.json] [-mode basic|extended]
//
// Every option can also be set through PTRPROBE_* environment variables;
// flags win over the environment.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/raysh454/ptrprobe/internal/app"
	"github.com/raysh454/ptrprobe/internal/cli"
	"github.com/raysh454/ptrprobe/internal/interfaces"
	"github.com/raysh454/ptrprobe/internal/logging"
)

const (
	exitOK = iota
	exitFailure
	exitUsage
	exitInputMissing
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	cfg := app.DefaultConfig()
	if err := cfg.LoadEnv(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitUsage
	}

	parsed, err := cli.ParseArgs(args, os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		fmt.Fprintln(os.Stderr, err)
		return exitUsage
	}
	cfg.ApplyArgs(parsed)

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		return exitUsage
	}

	level, _ := logging.ParseLevel(cfg.LogLevel)
	logger, err := logging.New(logging.Format(cfg.LogFormat), level, os.Stderr)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitUsage
	}

	logger.Debug("configuration loaded",
		interfaces.F("args", parsed.RawArgs),
		interfaces.F("mode", string(cfg.Mode)))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.NewApplication(cfg, logger, app.Options{})
	if err != nil {
		logger.Error("startup failed", interfaces.F("error", err.Error()))
		return exitUsage
	}
	defer application.Close()

	sum, err := application.Run(ctx)
	if err != nil {
		logger.Error("run failed", interfaces.F("error", err.Error()))
		return exitFailure
	}
	if sum.SourceMissing {
		logger.Warn("input missing, wrote empty report", interfaces.F("output", sum.Output))
		return exitInputMissing
	}
	logger.Debug("run complete",
		interfaces.F("run_id", sum.RunID),
		interfaces.F("output", sum.Output),
		interfaces.F("interrupted", sum.Interrupted))
	return exitOK
}
