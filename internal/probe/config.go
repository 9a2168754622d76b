package probe

import "time"

// Config describes where the readme lives and how to ask for it. The
// defaults target the EmbedPress plugin readme.
type Config struct {
	Scheme  string        `env:"SCHEME"`
	Path    string        `env:"PATH"`
	Timeout time.Duration `env:"TIMEOUT"`

	// Headers are sent verbatim on every probe request.
	Headers map[string]string
}

const (
	DefaultScheme = "http"
	DefaultPath   = "/wp-content/plugins/embedpress/readme.txt"
)

func DefaultHeaders() map[string]string {
	return map[string]string{
		"User-Agent":      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		"Accept-Language": "en-US,en;q=0.9",
		"Referer":         "https://www.google.com/",
		"Connection":      "keep-alive",
	}
}

func DefaultConfig() Config {
	return Config{
		Scheme:  DefaultScheme,
		Path:    DefaultPath,
		Timeout: 5 * time.Second,
		Headers: DefaultHeaders(),
	}
}
