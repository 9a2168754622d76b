// Package testutil provides shared test doubles for use across package tests.
// All dummies implement the corresponding interfaces from the production code,
// allowing injection into components under test without real I/O or side effects.
package testutil

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/raysh454/ptrprobe/internal/interfaces"
	"github.com/raysh454/ptrprobe/internal/model"
)

// ─── Logger ────────────────────────────────────────────────────────────

// DummyLogger implements interfaces.Logger with in-memory recording.
type DummyLogger struct {
	mu     sync.Mutex
	Errors []string
	Infos  []string
	Debugs []string
	Warns  []string
}

func (l *DummyLogger) Debug(msg string, _ ...interfaces.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Debugs = append(l.Debugs, msg)
}

func (l *DummyLogger) Info(msg string, _ ...interfaces.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Infos = append(l.Infos, msg)
}

func (l *DummyLogger) Warn(msg string, _ ...interfaces.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Warns = append(l.Warns, msg)
}

func (l *DummyLogger) Error(msg string, _ ...interfaces.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Errors = append(l.Errors, msg)
}

func (l *DummyLogger) With(_ ...interfaces.Field) interfaces.Logger { return l }

func (l *DummyLogger) InfoMessages() []string  { return l.snapshot(&l.Infos) }
func (l *DummyLogger) WarnMessages() []string  { return l.snapshot(&l.Warns) }
func (l *DummyLogger) ErrorMessages() []string { return l.snapshot(&l.Errors) }

func (l *DummyLogger) snapshot(s *[]string) []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), (*s)...)
}

// ─── WebClient ─────────────────────────────────────────────────────────

// DummyWebClient implements interfaces.WebClient.
// Responses[url] is returned when present; otherwise status 404 with an
// empty body. FailURLs[url] forces a transport error.
type DummyWebClient struct {
	Responses     map[string]*model.Response
	FailURLs      map[string]bool
	ResponseDelay time.Duration

	mu       sync.Mutex
	Requests []*model.Request
}

func (d *DummyWebClient) Do(ctx context.Context, req *model.Request) (*model.Response, error) {
	if d.ResponseDelay > 0 {
		select {
		case <-time.After(d.ResponseDelay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	d.mu.Lock()
	d.Requests = append(d.Requests, req)
	d.mu.Unlock()

	if d.FailURLs != nil && d.FailURLs[req.URL] {
		return nil, errors.New("dummy fetch fail for " + req.URL)
	}
	if resp, ok := d.Responses[req.URL]; ok {
		cp := *resp
		cp.Request = req
		return &cp, nil
	}
	return &model.Response{
		Request:    req,
		Headers:    http.Header{},
		StatusCode: http.StatusNotFound,
		FetchedAt:  time.Now(),
	}, nil
}

func (d *DummyWebClient) Get(ctx context.Context, url string) (*model.Response, error) {
	return d.Do(ctx, &model.Request{Method: "GET", URL: url})
}

func (d *DummyWebClient) Close() error { return nil }

// RequestLog returns a copy of the requests seen so far.
func (d *DummyWebClient) RequestLog() []*model.Request {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]*model.Request(nil), d.Requests...)
}

// TextResponse builds a 200 text/plain response.
func TextResponse(body string) *model.Response {
	h := http.Header{}
	h.Set("Content-Type", "text/plain; charset=utf-8")
	return &model.Response{Headers: h, Body: []byte(body), StatusCode: http.StatusOK}
}

// ─── DNS ───────────────────────────────────────────────────────────────

// DummyLookuper implements interfaces.AddrLookuper from fixed tables.
type DummyLookuper struct {
	Names  map[string][]string
	Errors map[string]error
	Delay  time.Duration

	mu      sync.Mutex
	Queries []string
}

func (d *DummyLookuper) LookupAddr(ctx context.Context, addr string) ([]string, error) {
	d.mu.Lock()
	d.Queries = append(d.Queries, addr)
	d.mu.Unlock()

	if d.Delay > 0 {
		select {
		case <-time.After(d.Delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err, ok := d.Errors[addr]; ok {
		return nil, err
	}
	return d.Names[addr], nil
}

// DummyResolver implements interfaces.HostResolver from a fixed table.
type DummyResolver struct {
	Hosts map[string]string

	mu      sync.Mutex
	Queries []string
}

func (d *DummyResolver) Resolve(_ context.Context, ip string) (string, bool) {
	d.mu.Lock()
	d.Queries = append(d.Queries, ip)
	d.mu.Unlock()
	host, ok := d.Hosts[ip]
	return host, ok
}

// ─── Probe ─────────────────────────────────────────────────────────────

// DummyProber implements interfaces.VersionProber from a fixed table.
type DummyProber struct {
	Results map[string]*model.ProbeResult

	mu    sync.Mutex
	Hosts []string
}

func (d *DummyProber) Probe(_ context.Context, host string) (*model.ProbeResult, bool) {
	d.mu.Lock()
	d.Hosts = append(d.Hosts, host)
	d.mu.Unlock()
	res, ok := d.Results[host]
	return res, ok
}

// ─── Pacer ─────────────────────────────────────────────────────────────

// CountingPacer implements interfaces.Pacer without sleeping.
// OnWait, when set, runs on every call.
type CountingPacer struct {
	OnWait func(n int)

	mu    sync.Mutex
	Calls int
}

func (p *CountingPacer) Wait(ctx context.Context) error {
	p.mu.Lock()
	p.Calls++
	n := p.Calls
	p.mu.Unlock()
	if p.OnWait != nil {
		p.OnWait(n)
	}
	return ctx.Err()
}
