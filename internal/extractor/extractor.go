// Package extractor maps decoded feed records to dotted-decimal addresses.
package extractor

import (
	"iter"

	"github.com/raysh454/ptrprobe/internal/interfaces"
	"github.com/raysh454/ptrprobe/internal/ipconv"
	"github.com/raysh454/ptrprobe/internal/model"
)

// Stats counts extraction outcomes.
type Stats struct {
	Extracted int
	MissingIP int
	Invalid   int
	Excluded  int
}

type Extractor struct {
	scope  *Scope
	logger interfaces.Logger
	stats  Stats
}

// New creates an Extractor. scope may be nil.
func New(scope *Scope, logger interfaces.Logger) *Extractor {
	return &Extractor{
		scope:  scope,
		logger: logger.With(interfaces.F("component", "extractor")),
	}
}

func (e *Extractor) Stats() Stats {
	return e.stats
}

// Extract returns the formatted address of every record that has a valid
// "ip" value, in input order. Records without the key are skipped silently;
// records with an unusable value are reported and skipped.
func (e *Extractor) Extract(records iter.Seq[model.RawRecord]) []string {
	ips := make([]string, 0)
	for rec := range records {
		raw, ok := rec.IP()
		if !ok {
			e.stats.MissingIP++
			continue
		}

		ip, err := ipconv.Format(raw)
		if err != nil {
			e.stats.Invalid++
			e.logger.Warn("invalid ip value",
				interfaces.F("line", rec.Line),
				interfaces.F("value", raw),
				interfaces.F("error", err.Error()))
			continue
		}

		if prefix, excluded := e.scope.Excluded(ip); excluded {
			e.stats.Excluded++
			e.logger.Info("ip out of scope",
				interfaces.F("ip", ip),
				interfaces.F("range", prefix))
			continue
		}

		e.stats.Extracted++
		ips = append(ips, ip)
	}
	return ips
}
