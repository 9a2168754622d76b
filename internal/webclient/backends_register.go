package webclient

import (
	"net/http"

	"github.com/raysh454/ptrprobe/internal/interfaces"
)

func init() {
	RegisterDefaultBackends()
}

// RegisterDefaultBackends registers the nethttp and chromedp backends.
func RegisterDefaultBackends() {
	RegisterBackend(ClientNetHTTP, "plain net/http client (default)",
		func(cfg Config, logger interfaces.Logger) (interfaces.WebClient, error) {
			return NewNetHTTPClient(cfg, logger, nil)
		})

	RegisterBackend(ClientChromedp, "headless Chrome, GET only, returns rendered HTML",
		func(cfg Config, logger interfaces.Logger) (interfaces.WebClient, error) {
			return NewChromedpClient(cfg, logger)
		})
}

// newDefaultHTTPClient keeps redirects (http.Client follows up to 10) and
// applies the configured hard timeout.
func newDefaultHTTPClient(cfg Config) *http.Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultConfig().Timeout
	}
	return &http.Client{Timeout: timeout}
}
