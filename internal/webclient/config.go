package webclient

import "time"

type Client string

const (
	ClientNetHTTP  Client = "nethttp"
	ClientChromedp Client = "chromedp"
)

// Config selects and tunes the WebClient backend.
type Config struct {
	Client Client `env:"BACKEND"`

	// Timeout is a hard cap on a whole request. Callers normally pass a
	// tighter deadline through the context.
	Timeout time.Duration `env:"CLIENT_TIMEOUT"`

	// MaxBodyBytes caps how much of a response body is kept.
	MaxBodyBytes int64 `env:"MAX_BODY_BYTES"`

	// Headless only applies to the chromedp backend.
	Headless bool `env:"HEADLESS"`
}

func DefaultConfig() Config {
	return Config{
		Client:       ClientNetHTTP,
		Timeout:      30 * time.Second,
		MaxBodyBytes: 1 << 20,
		Headless:     true,
	}
}
