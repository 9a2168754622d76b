package app

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/raysh454/ptrprobe/internal/extractor"
	"github.com/raysh454/ptrprobe/internal/interfaces"
	"github.com/raysh454/ptrprobe/internal/probe"
	"github.com/raysh454/ptrprobe/internal/resolver"
	"github.com/raysh454/ptrprobe/internal/webclient"
)

// Application is the runtime state container for one invocation. It owns
// the web client and the pipeline built from Config.
type Application struct {
	Config *Config
	Logger interfaces.Logger

	Pipeline *Pipeline
	client   interfaces.WebClient
}

// Options let callers swap collaborators, mostly in tests. Zero values mean
// "build the default from Config".
type Options struct {
	Lookuper  interfaces.AddrLookuper
	WebClient interfaces.WebClient
	Pacer     interfaces.Pacer
}

// NewApplication validates cfg and wires the pipeline for its mode.
func NewApplication(cfg *Config, logger interfaces.Logger, opts Options) (*Application, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if logger == nil {
		return nil, errors.New("logger is nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	scope, err := extractor.NewScope(cfg.Scope)
	if err != nil {
		return nil, err
	}

	lookuper := opts.Lookuper
	if lookuper == nil {
		lookuper = net.DefaultResolver
	}

	a := &Application{Config: cfg, Logger: logger}
	deps := Deps{
		Scope:    scope,
		Resolver: resolver.New(cfg.Resolver, lookuper, logger),
	}

	if cfg.Mode == ModeExtended {
		wc := opts.WebClient
		if wc == nil {
			wc, err = webclient.NewWebClient(cfg.WebClient, logger)
			if err != nil {
				return nil, err
			}
			a.client = wc
		}
		deps.Prober = probe.New(cfg.Probe, wc, logger)

		deps.Pacer = opts.Pacer
		if deps.Pacer == nil && cfg.Pacing.Max > 0 {
			deps.Pacer = NewRandomPacer(cfg.Pacing.Min, cfg.Pacing.Max)
		}
	}

	a.Pipeline, err = NewPipeline(cfg.Mode, deps, logger)
	if err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

// Run executes the pipeline once against the configured input and output.
func (a *Application) Run(ctx context.Context) (*Summary, error) {
	a.Logger.Info("starting run",
		interfaces.F("mode", string(a.Config.Mode)),
		interfaces.F("input", a.Config.InputPath),
		interfaces.F("output", a.Config.OutputPath),
		interfaces.F("paced", a.Pipeline.Paced()))
	return a.Pipeline.Run(ctx, a.Config.InputPath, a.Config.OutputPath)
}

// Close releases the web client when the application built it.
func (a *Application) Close() error {
	if a == nil || a.client == nil {
		return nil
	}
	err := a.client.Close()
	a.client = nil
	return err
}
