package interfaces

import (
	"context"

	"github.com/raysh454/ptrprobe/internal/model"
)

// WebClient is the HTTP transport collaborator used by the version probe.
type WebClient interface {
	Do(ctx context.Context, req *model.Request) (*model.Response, error)

	// Get is a convenience method for simple GET requests
	Get(ctx context.Context, url string) (*model.Response, error)

	Close() error
}
