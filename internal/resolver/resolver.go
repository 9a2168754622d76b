// Package resolver performs reverse DNS lookups for the pipeline.
package resolver

import (
	"context"
	"errors"
	"net"
	"strings"
	"time"

	"golang.org/x/net/idna"

	"github.com/raysh454/ptrprobe/internal/interfaces"
)

type Config struct {
	// Timeout bounds a single lookup. Zero disables the bound.
	Timeout time.Duration `env:"TIMEOUT"`
}

func DefaultConfig() Config {
	return Config{Timeout: 5 * time.Second}
}

// ReverseResolver turns an IPv4 address into a hostname. Every failure is
// logged and mapped to "no hostname"; nothing is returned to the caller as
// an error.
type ReverseResolver struct {
	cfg      Config
	lookuper interfaces.AddrLookuper
	logger   interfaces.Logger
}

// New creates a ReverseResolver. A nil lookuper uses net.DefaultResolver.
func New(cfg Config, lookuper interfaces.AddrLookuper, logger interfaces.Logger) *ReverseResolver {
	if lookuper == nil {
		lookuper = net.DefaultResolver
	}
	return &ReverseResolver{
		cfg:      cfg,
		lookuper: lookuper,
		logger:   logger.With(interfaces.F("component", "resolver")),
	}
}

// Resolve returns the hostname for ip. A name identical to ip itself means
// the resolver found nothing and is treated the same as a failed lookup.
func (r *ReverseResolver) Resolve(ctx context.Context, ip string) (string, bool) {
	r.logger.Debug("performing reverse dns", interfaces.F("ip", ip))

	if r.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.cfg.Timeout)
		defer cancel()
	}

	names, err := r.lookuper.LookupAddr(ctx, ip)
	if err != nil {
		var dnsErr *net.DNSError
		if errors.As(err, &dnsErr) && dnsErr.IsNotFound {
			r.logger.Info("no domain name found", interfaces.F("ip", ip))
		} else {
			r.logger.Warn("reverse dns lookup failed",
				interfaces.F("ip", ip),
				interfaces.F("error", err.Error()))
		}
		return "", false
	}

	host := normalize(pickName(names))
	if host == "" || host == ip {
		r.logger.Info("no hostname found", interfaces.F("ip", ip))
		return "", false
	}

	r.logger.Info("hostname found",
		interfaces.F("ip", ip),
		interfaces.F("host", host))
	return host, true
}

// pickName prefers the first fully-qualified name, falling back to the first
// name returned.
func pickName(names []string) string {
	for _, n := range names {
		if strings.Contains(strings.TrimSuffix(n, "."), ".") {
			return n
		}
	}
	if len(names) > 0 {
		return names[0]
	}
	return ""
}

// normalize trims the root dot and applies IDNA lookup mapping, which also
// lowercases: a PTR answer of "Host.Example.COM." is reported as
// "host.example.com". Names idna rejects are returned as-is.
func normalize(name string) string {
	name = strings.TrimSuffix(strings.TrimSpace(name), ".")
	if name == "" {
		return ""
	}
	if ascii, err := idna.Lookup.ToASCII(name); err == nil {
		return ascii
	}
	return name
}
