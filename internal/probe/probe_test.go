package probe_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/raysh454/ptrprobe/internal/model"
	"github.com/raysh454/ptrprobe/internal/probe"
	"github.com/raysh454/ptrprobe/internal/testutil"
)

const readme = `=== EmbedPress ===
Contributors: example
Tags: embed, youtube
Requires at least: 4.6
Tested up to: 6.4
Stable tag: 3.9.8
License: GPLv3 or later
`

const readmeURL = "http://blog.example.com/wp-content/plugins/embedpress/readme.txt"

func TestProbe_ExtractsStableTag(t *testing.T) {
	t.Parallel()
	wc := &testutil.DummyWebClient{Responses: map[string]*model.Response{
		readmeURL: testutil.TextResponse(readme),
	}}
	p := probe.New(probe.DefaultConfig(), wc, &testutil.DummyLogger{})

	res, ok := p.Probe(context.Background(), "blog.example.com")
	if !ok {
		t.Fatal("expected a probe result")
	}
	if res.URL != readmeURL || res.Version != "3.9.8" {
		t.Errorf("unexpected result: %+v", res)
	}
}

func TestProbe_SendsConfiguredHeaders(t *testing.T) {
	t.Parallel()
	wc := &testutil.DummyWebClient{Responses: map[string]*model.Response{
		readmeURL: testutil.TextResponse(readme),
	}}
	p := probe.New(probe.DefaultConfig(), wc, &testutil.DummyLogger{})
	p.Probe(context.Background(), "blog.example.com")

	reqs := wc.RequestLog()
	if len(reqs) != 1 {
		t.Fatalf("expected exactly one request, got %d", len(reqs))
	}
	if reqs[0].Method != http.MethodGet {
		t.Errorf("expected GET, got %s", reqs[0].Method)
	}
	for k, v := range probe.DefaultHeaders() {
		if got := reqs[0].Headers.Get(k); got != v {
			t.Errorf("header %s = %q, want %q", k, got, v)
		}
	}
}

func TestProbe_FailuresYieldNone(t *testing.T) {
	t.Parallel()
	notFound := &model.Response{Headers: http.Header{}, StatusCode: http.StatusNotFound, Body: []byte("Stable tag: 1.0")}
	serverErr := &model.Response{Headers: http.Header{}, StatusCode: http.StatusInternalServerError}

	cases := []struct {
		name string
		wc   *testutil.DummyWebClient
	}{
		{"transport error", &testutil.DummyWebClient{FailURLs: map[string]bool{readmeURL: true}}},
		{"404 even with tag in body", &testutil.DummyWebClient{Responses: map[string]*model.Response{readmeURL: notFound}}},
		{"500", &testutil.DummyWebClient{Responses: map[string]*model.Response{readmeURL: serverErr}}},
		{"no stable tag", &testutil.DummyWebClient{Responses: map[string]*model.Response{readmeURL: testutil.TextResponse("=== EmbedPress ===\n")}}},
		{"tag without digits", &testutil.DummyWebClient{Responses: map[string]*model.Response{readmeURL: testutil.TextResponse("Stable tag: trunk\n")}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			p := probe.New(probe.DefaultConfig(), tc.wc, &testutil.DummyLogger{})
			if res, ok := p.Probe(context.Background(), "blog.example.com"); ok {
				t.Fatalf("expected none, got %+v", res)
			}
		})
	}
}

func TestProbe_HTMLBodyIsSearchedAsText(t *testing.T) {
	t.Parallel()
	h := http.Header{}
	h.Set("Content-Type", "text/html; charset=utf-8")
	html := `<html><body><pre>=== EmbedPress ===
<b>Stable tag:</b> 4.2.1
</pre><script>var x = "Stable tag: 0.0.1";</script></body></html>`
	wc := &testutil.DummyWebClient{Responses: map[string]*model.Response{
		readmeURL: {Headers: h, StatusCode: http.StatusOK, Body: []byte(html)},
	}}
	p := probe.New(probe.DefaultConfig(), wc, &testutil.DummyLogger{})

	res, ok := p.Probe(context.Background(), "blog.example.com")
	if !ok || res.Version != "4.2.1" {
		t.Fatalf("expected 4.2.1 from HTML text, got %+v ok=%v", res, ok)
	}
}

func TestProbe_Timeout(t *testing.T) {
	t.Parallel()
	wc := &testutil.DummyWebClient{
		Responses:     map[string]*model.Response{readmeURL: testutil.TextResponse(readme)},
		ResponseDelay: 2 * time.Second,
	}
	cfg := probe.DefaultConfig()
	cfg.Timeout = 20 * time.Millisecond
	p := probe.New(cfg, wc, &testutil.DummyLogger{})

	start := time.Now()
	if _, ok := p.Probe(context.Background(), "blog.example.com"); ok {
		t.Fatal("expected timeout to yield none")
	}
	if time.Since(start) > time.Second {
		t.Error("probe was not bounded by its timeout")
	}
}

func TestURL(t *testing.T) {
	t.Parallel()
	p := probe.New(probe.Config{Scheme: "https", Path: "wp-content/plugins/akismet/readme.txt"}, &testutil.DummyWebClient{}, &testutil.DummyLogger{})
	want := "https://example.org/wp-content/plugins/akismet/readme.txt"
	if got := p.URL("example.org"); got != want {
		t.Errorf("URL = %q, want %q", got, want)
	}
}

func TestExtractVersion(t *testing.T) {
	t.Parallel()
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"Stable tag: 1.2.3", "1.2.3", true},
		{"Stable tag: 2.0\nStable tag: 3.0", "2.0", true},
		{"Stable tag: 1.2.0-beta", "1.2.0", true},
		{"Stable tag:1.2", "", false},
		{"stable tag: 1.2", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, ok := probe.ExtractVersion(tc.in)
		if got != tc.want || ok != tc.ok {
			t.Errorf("ExtractVersion(%q) = (%q, %v), want (%q, %v)", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}
