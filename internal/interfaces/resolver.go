package interfaces

import "context"

// AddrLookuper performs a raw reverse lookup. *net.Resolver satisfies it.
type AddrLookuper interface {
	LookupAddr(ctx context.Context, addr string) ([]string, error)
}

// HostResolver maps a dotted-decimal IPv4 address to a hostname.
// ok is false when no usable name exists; failures are never returned.
type HostResolver interface {
	Resolve(ctx context.Context, ip string) (host string, ok bool)
}
