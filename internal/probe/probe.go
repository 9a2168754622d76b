// Package probe fetches a plugin readme from a host and extracts the
// "Stable tag" version it advertises.
package probe

import (
	"bytes"
	"context"
	"mime"
	"net/http"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/raysh454/ptrprobe/internal/interfaces"
	"github.com/raysh454/ptrprobe/internal/model"
)

var stableTagRe = regexp.MustCompile(`Stable tag: ([\d.]+)`)

// VersionProbe implements interfaces.VersionProber on top of a WebClient.
type VersionProbe struct {
	cfg    Config
	wc     interfaces.WebClient
	logger interfaces.Logger
}

func New(cfg Config, wc interfaces.WebClient, logger interfaces.Logger) *VersionProbe {
	if cfg.Scheme == "" {
		cfg.Scheme = DefaultScheme
	}
	if cfg.Path == "" {
		cfg.Path = DefaultPath
	}
	return &VersionProbe{
		cfg:    cfg,
		wc:     wc,
		logger: logger.With(interfaces.F("component", "probe")),
	}
}

// URL returns the readme location for host.
func (p *VersionProbe) URL(host string) string {
	path := p.cfg.Path
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return p.cfg.Scheme + "://" + host + path
}

// Probe issues a single GET for the readme. Transport errors, non-2xx
// responses and readmes without a stable tag all yield ok=false.
func (p *VersionProbe) Probe(ctx context.Context, host string) (*model.ProbeResult, bool) {
	url := p.URL(host)

	if p.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.cfg.Timeout)
		defer cancel()
	}

	headers := http.Header{}
	for k, v := range p.cfg.Headers {
		headers.Set(k, v)
	}

	resp, err := p.wc.Do(ctx, &model.Request{Method: http.MethodGet, URL: url, Headers: headers})
	if err != nil {
		p.logger.Warn("request failed",
			interfaces.F("host", host),
			interfaces.F("url", url),
			interfaces.F("error", err.Error()))
		return nil, false
	}
	if !resp.OK() {
		p.logger.Warn("request failed",
			interfaces.F("host", host),
			interfaces.F("url", url),
			interfaces.F("status", resp.StatusCode))
		return nil, false
	}

	version, found := ExtractVersion(searchableText(resp))
	if !found {
		p.logger.Info("version not found in readme",
			interfaces.F("host", host),
			interfaces.F("url", url))
		return nil, false
	}

	p.logger.Info("version found",
		interfaces.F("host", host),
		interfaces.F("version", version))
	return &model.ProbeResult{URL: url, Version: version}, true
}

// ExtractVersion returns the first "Stable tag: <digits and dots>" value.
func ExtractVersion(text string) (string, bool) {
	m := stableTagRe.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	v := strings.TrimSpace(m[1])
	return v, v != ""
}

// searchableText returns the body as text. HTML bodies are reduced to their
// text content first so markup between "Stable tag:" and the number does not
// hide a match.
func searchableText(resp *model.Response) string {
	if !isHTML(resp) {
		return string(resp.Body)
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body))
	if err != nil {
		return string(resp.Body)
	}
	doc.Find("script, style, noscript").Remove()
	return doc.Text()
}

func isHTML(resp *model.Response) bool {
	ct := resp.Headers.Get("Content-Type")
	if ct == "" {
		return false
	}
	mt, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return false
	}
	return mt == "text/html" || mt == "application/xhtml+xml"
}
