package app

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/raysh454/ptrprobe/internal/decoder"
	"github.com/raysh454/ptrprobe/internal/extractor"
	"github.com/raysh454/ptrprobe/internal/interfaces"
	"github.com/raysh454/ptrprobe/internal/model"
	"github.com/raysh454/ptrprobe/internal/report"
	"github.com/raysh454/ptrprobe/internal/version"
)

// Deps are the collaborators a Pipeline drives. Prober is only required in
// extended mode; a nil Pacer disables pacing.
type Deps struct {
	Scope    *extractor.Scope
	Resolver interfaces.HostResolver
	Prober   interfaces.VersionProber
	Pacer    interfaces.Pacer
}

// Summary describes one run.
type Summary struct {
	RunID         string
	Mode          Mode
	Decode        decoder.Stats
	Extract       extractor.Stats
	Resolved      int
	Probed        int
	Results       int
	SourceMissing bool
	Interrupted   bool
	Output        string
	Duration      time.Duration
}

// Pipeline runs decode -> extract -> resolve -> probe -> sort, one address
// at a time on the calling goroutine. A failure for one record never ends
// the run.
type Pipeline struct {
	mode   Mode
	deps   Deps
	logger interfaces.Logger
}

func NewPipeline(mode Mode, deps Deps, logger interfaces.Logger) (*Pipeline, error) {
	if _, err := ParseMode(string(mode)); err != nil {
		return nil, err
	}
	if deps.Resolver == nil {
		return nil, errors.New("pipeline: resolver is required")
	}
	if mode == ModeExtended && deps.Prober == nil {
		return nil, errors.New("pipeline: extended mode requires a prober")
	}
	if deps.Pacer == nil {
		deps.Pacer = noPacer{}
	}
	return &Pipeline{mode: mode, deps: deps, logger: logger}, nil
}

// Paced reports whether iterations are delayed.
func (p *Pipeline) Paced() bool {
	_, none := p.deps.Pacer.(noPacer)
	return p.mode == ModeExtended && !none
}

// Process runs every stage over r and returns the results in report order.
func (p *Pipeline) Process(ctx context.Context, r io.Reader) ([]model.ResultRecord, *Summary) {
	start := time.Now()
	sum, log := p.begin()
	results := p.process(ctx, r, log, sum)
	sum.Duration = time.Since(start)
	return results, sum
}

// Run reads inputPath, processes it and writes the report to outputPath. A
// missing input is reported and produces an empty report. Only a failure to
// write the report is returned as an error.
func (p *Pipeline) Run(ctx context.Context, inputPath, outputPath string) (*Summary, error) {
	start := time.Now()
	sum, log := p.begin()
	sum.Output = outputPath

	results := []model.ResultRecord{}
	f, err := decoder.Open(inputPath)
	if err != nil {
		sum.SourceMissing = true
		log.Error("input file not available",
			interfaces.F("path", inputPath),
			interfaces.F("error", err.Error()))
	} else {
		results = p.process(ctx, f, log, sum)
		f.Close()
	}

	if err := report.WriteFile(outputPath, results); err != nil {
		log.Error("writing report failed",
			interfaces.F("path", outputPath),
			interfaces.F("error", err.Error()))
		return sum, err
	}

	sum.Duration = time.Since(start)
	log.Info("sites found",
		interfaces.F("count", sum.Results),
		interfaces.F("resolved", sum.Resolved),
		interfaces.F("duration", sum.Duration.Round(time.Millisecond).String()))
	log.Info("results saved", interfaces.F("path", outputPath))
	return sum, nil
}

func (p *Pipeline) begin() (*Summary, interfaces.Logger) {
	sum := &Summary{RunID: uuid.NewString(), Mode: p.mode}
	log := p.logger.With(
		interfaces.F("component", "pipeline"),
		interfaces.F("run_id", sum.RunID))
	return sum, log
}

func (p *Pipeline) process(ctx context.Context, r io.Reader, log interfaces.Logger, sum *Summary) []model.ResultRecord {
	dec := decoder.New(log)
	ext := extractor.New(p.deps.Scope, log)

	ips := ext.Extract(dec.Records(r))
	sum.Decode = dec.Stats()
	sum.Extract = ext.Stats()
	log.Info("addresses extracted",
		interfaces.F("count", len(ips)),
		interfaces.F("lines", sum.Decode.Lines),
		interfaces.F("malformed", sum.Decode.Malformed),
		interfaces.F("invalid", sum.Extract.Invalid))

	results := make([]model.ResultRecord, 0)
	for i, ip := range ips {
		if ctx.Err() != nil {
			sum.Interrupted = true
			break
		}
		if p.mode == ModeExtended {
			if err := p.deps.Pacer.Wait(ctx); err != nil {
				sum.Interrupted = true
				break
			}
		}

		log.Debug("processing address",
			interfaces.F("ip", ip),
			interfaces.F("index", i+1),
			interfaces.F("total", len(ips)))

		host, ok := p.deps.Resolver.Resolve(ctx, ip)
		if !ok {
			log.Info("no domain found for ip", interfaces.F("ip", ip))
			continue
		}
		sum.Resolved++

		if p.mode == ModeBasic {
			results = append(results, model.ResultRecord{Domain: host})
			continue
		}

		res, ok := p.deps.Prober.Probe(ctx, host)
		if !ok {
			continue
		}
		sum.Probed++
		results = append(results, model.ResultRecord{Domain: host, URL: res.URL, Version: res.Version})
	}

	if sum.Interrupted {
		log.Warn("run interrupted, keeping partial results",
			interfaces.F("collected", len(results)))
	}

	if p.mode == ModeExtended {
		version.SortStable(results)
	}
	sum.Results = len(results)
	return results
}
