package extractor

import (
	"fmt"
	"net"
	"strings"

	"github.com/mikioh/ipaddr"
)

// ScopeConfig lists address ranges that must never be looked up or probed.
type ScopeConfig struct {
	// Exclude holds IPv4 CIDRs or bare addresses.
	Exclude []string `env:"EXCLUDE" envSeparator:","`
}

// Scope answers whether an address falls inside an excluded range.
// A nil *Scope excludes nothing.
type Scope struct {
	prefixes []ipaddr.Prefix
}

// NewScope parses and aggregates the configured ranges. Overlapping and
// adjacent ranges collapse so lookups stay short.
func NewScope(cfg ScopeConfig) (*Scope, error) {
	var ps []ipaddr.Prefix
	for _, raw := range cfg.Exclude {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		if !strings.Contains(raw, "/") {
			raw += "/32"
		}
		_, n, err := net.ParseCIDR(raw)
		if err != nil {
			return nil, fmt.Errorf("scope: invalid exclude range %q: %w", raw, err)
		}
		if n.IP.To4() == nil {
			return nil, fmt.Errorf("scope: %q is not an IPv4 range", raw)
		}
		ps = append(ps, *ipaddr.NewPrefix(n))
	}
	if len(ps) == 0 {
		return &Scope{}, nil
	}
	return &Scope{prefixes: ipaddr.Aggregate(ps)}, nil
}

// Excluded reports whether ip is out of scope and, if so, which range
// matched.
func (s *Scope) Excluded(ip string) (string, bool) {
	if s == nil || len(s.prefixes) == 0 {
		return "", false
	}
	addr := net.ParseIP(ip)
	if addr == nil {
		return "", false
	}
	for i := range s.prefixes {
		if s.prefixes[i].IPNet.Contains(addr) {
			return s.prefixes[i].String(), true
		}
	}
	return "", false
}

// Len returns the number of aggregated ranges.
func (s *Scope) Len() int {
	if s == nil {
		return 0
	}
	return len(s.prefixes)
}
