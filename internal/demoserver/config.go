package demoserver

// Config holds configuration for the demo server.
type Config struct {
	// Port is the port on which the demo server listens.
	Port int

	// Plugins maps a plugin slug to the Stable tag its readme starts with.
	// An empty version serves a readme without a Stable tag line.
	Plugins map[string]string

	// WrapHTML serves readmes inside an HTML page, like hosts that answer
	// every path with a themed page.
	WrapHTML bool
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Port: 9999,
		Plugins: map[string]string{
			"embedpress":     "3.9.8",
			"contact-form-7": "5.8.1",
			"akismet":        "5.3",
		},
	}
}
