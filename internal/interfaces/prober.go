package interfaces

import (
	"context"

	"github.com/raysh454/ptrprobe/internal/model"
)

// VersionProber fetches the plugin readme from host and extracts its
// stable version. ok is false on any transport, status or match failure.
type VersionProber interface {
	Probe(ctx context.Context, host string) (result *model.ProbeResult, ok bool)
}

// Pacer blocks between network-bound iterations. Wait returns ctx.Err()
// if the context ends first.
type Pacer interface {
	Wait(ctx context.Context) error
}
