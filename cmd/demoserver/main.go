// Command demoserver serves fake WordPress plugin readmes for trying ptrprobe
// against a local host.
// Usage: go run ./cmd/demoserver [-port 9999] [-html] [-set plugin=version ...]
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/raysh454/ptrprobe/internal/demoserver"
	"github.com/raysh454/ptrprobe/internal/interfaces"
	"github.com/raysh454/ptrprobe/internal/logging"
)

type pluginFlags map[string]string

func (p pluginFlags) String() string { return fmt.Sprint(map[string]string(p)) }

func (p pluginFlags) Set(v string) error {
	name, version, ok := strings.Cut(v, "=")
	if !ok || name == "" {
		return fmt.Errorf("want plugin=version, got %q", v)
	}
	p[name] = version
	return nil
}

func main() {
	cfg := demoserver.DefaultConfig()

	fs := flag.NewFlagSet("demoserver", flag.ExitOnError)
	fs.IntVar(&cfg.Port, "port", cfg.Port, "Port to listen on")
	fs.BoolVar(&cfg.WrapHTML, "html", false, "Serve readmes inside an HTML page")
	fs.Var(pluginFlags(cfg.Plugins), "set", "Initial plugin version as plugin=version (repeatable)")
	_ = fs.Parse(os.Args[1:])

	if cfg.Port < 1 || cfg.Port > 65535 {
		fmt.Fprintf(os.Stderr, "invalid port: %d\n", cfg.Port)
		os.Exit(2)
	}

	logger, err := logging.New(logging.FormatAuto, logging.LevelDebug, os.Stdout)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("readme path: /wp-content/plugins/{plugin}/readme.txt",
		interfaces.F("control", fmt.Sprintf("http://localhost:%d/demo/versions", cfg.Port)))

	server := demoserver.NewDemoServer(cfg, logger)
	if err := server.Start(ctx); err != nil {
		logger.Error("server error", interfaces.F("error", err.Error()))
		os.Exit(1)
	}
}
