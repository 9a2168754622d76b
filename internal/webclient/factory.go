package webclient

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/raysh454/ptrprobe/internal/interfaces"
)

// ErrUnknownBackend is returned by NewWebClient for a Client nobody registered.
var ErrUnknownBackend = errors.New("unknown webclient backend")

// BackendConstructor builds a WebClient from cfg.
type BackendConstructor func(cfg Config, logger interfaces.Logger) (interfaces.WebClient, error)

type backend struct {
	ctor BackendConstructor
	desc string
}

var (
	mu       sync.RWMutex
	backends = map[Client]backend{}
)

// RegisterBackend makes a backend selectable through Config.Client. Names are
// case-insensitive; registering a name again replaces it.
func RegisterBackend(name Client, desc string, ctor BackendConstructor) {
	name = normalizeClient(name)
	if name == "" || ctor == nil {
		return
	}
	mu.Lock()
	defer mu.Unlock()
	backends[name] = backend{ctor: ctor, desc: desc}
}

// NewWebClient builds the backend named by cfg.Client, nethttp when empty.
func NewWebClient(cfg Config, logger interfaces.Logger) (interfaces.WebClient, error) {
	name := normalizeClient(cfg.Client)
	if name == "" {
		name = ClientNetHTTP
	}

	mu.RLock()
	b, ok := backends[name]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w %q (available: %s)", ErrUnknownBackend, name, strings.Join(ListBackends(), ", "))
	}

	wc, err := b.ctor(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("building %s webclient: %w", name, err)
	}
	if wc == nil {
		return nil, fmt.Errorf("building %s webclient: constructor returned nil", name)
	}
	return wc, nil
}

// ListBackends returns the registered backend names, sorted.
func ListBackends() []string {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]string, 0, len(backends))
	for _, name := range slices.Sorted(maps.Keys(backends)) {
		out = append(out, string(name))
	}
	return out
}

// DescribeBackends renders "name: description" lines for help output.
func DescribeBackends() string {
	mu.RLock()
	defer mu.RUnlock()
	var b strings.Builder
	for _, name := range slices.Sorted(maps.Keys(backends)) {
		fmt.Fprintf(&b, "  %s: %s\n", name, backends[name].desc)
	}
	return b.String()
}

func normalizeClient(c Client) Client {
	return Client(strings.ToLower(strings.TrimSpace(string(c))))
}
