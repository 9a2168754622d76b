// Package demoserver serves fake WordPress plugin readmes so the probe can be
// exercised locally. Versions can be switched on the fly through /demo/*.
package demoserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"maps"
	"net/http"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/raysh454/ptrprobe/internal/interfaces"
)

const readmeTemplate = `=== %s ===
Contributors: demo
Tags: demo, readme
Requires at least: 6.0
Tested up to: 6.6
%sLicense: GPLv2 or later

== Description ==

Demo readme for %s served by ptrprobe's demo server.
`

// DemoServer serves plugin readmes with switchable Stable tags.
type DemoServer struct {
	cfg      Config
	router   chi.Router
	logger   interfaces.Logger
	mu       sync.RWMutex
	versions map[string]string // plugin -> current stable tag
}

// NewDemoServer creates a new demo server instance.
func NewDemoServer(cfg Config, logger interfaces.Logger) *DemoServer {
	s := &DemoServer{
		cfg:      cfg,
		router:   chi.NewRouter(),
		logger:   logger.With(interfaces.F("component", "demoserver")),
		versions: maps.Clone(cfg.Plugins),
	}
	if s.versions == nil {
		s.versions = map[string]string{}
	}
	s.routes()
	return s
}

// Handler exposes the router, mainly for httptest.
func (s *DemoServer) Handler() http.Handler {
	return s.router
}

// Start listens on cfg.Port until ctx is cancelled.
func (s *DemoServer) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.cfg.Port),
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("demo server listening", interfaces.F("addr", "http://localhost"+srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func (s *DemoServer) routes() {
	r := s.router
	r.Use(s.logRequests)

	r.Get("/wp-content/plugins/{plugin}/readme.txt", s.handleReadme)

	r.Get("/demo/versions", s.handleGetVersions)
	r.Post("/demo/set-version", s.handleSetVersion)
	r.Post("/demo/reset", s.handleReset)
}

func (s *DemoServer) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.logger.Debug("request",
			interfaces.F("method", r.Method),
			interfaces.F("path", r.URL.Path),
			interfaces.F("user_agent", r.UserAgent()))
		next.ServeHTTP(w, r)
	})
}

func (s *DemoServer) handleReadme(w http.ResponseWriter, r *http.Request) {
	plugin := chi.URLParam(r, "plugin")

	s.mu.RLock()
	version, ok := s.versions[plugin]
	s.mu.RUnlock()
	if !ok {
		http.NotFound(w, r)
		return
	}

	body := renderReadme(plugin, version)
	if s.cfg.WrapHTML {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = fmt.Fprintf(w, "<!DOCTYPE html><html><head><title>%s</title><script>var v=\"0.0.1\";</script></head><body><pre>%s</pre></body></html>",
			html.EscapeString(plugin), html.EscapeString(body))
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(body))
}

func renderReadme(plugin, version string) string {
	tag := ""
	if version != "" {
		tag = "Stable tag: " + version + "\n"
	}
	return fmt.Sprintf(readmeTemplate, plugin, tag, plugin)
}

// PluginVersion is one entry of GET /demo/versions.
type PluginVersion struct {
	Plugin  string `json:"plugin"`
	Version string `json:"version"`
}

func (s *DemoServer) handleGetVersions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Versions())
}

// Versions lists the current stable tag per plugin, sorted by plugin.
func (s *DemoServer) Versions() []PluginVersion {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]PluginVersion, 0, len(s.versions))
	for _, p := range slices.Sorted(maps.Keys(s.versions)) {
		out = append(out, PluginVersion{Plugin: p, Version: s.versions[p]})
	}
	return out
}

// handleSetVersion accepts a JSON body or form values with plugin and
// version. Unknown plugins are added.
func (s *DemoServer) handleSetVersion(w http.ResponseWriter, r *http.Request) {
	var req PluginVersion
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
	} else {
		req.Plugin = r.FormValue("plugin")
		req.Version = r.FormValue("version")
	}

	req.Plugin = strings.TrimSpace(req.Plugin)
	if req.Plugin == "" || strings.Contains(req.Plugin, "/") {
		writeError(w, http.StatusBadRequest, "plugin is required")
		return
	}

	s.mu.Lock()
	s.versions[req.Plugin] = strings.TrimSpace(req.Version)
	s.mu.Unlock()

	s.logger.Info("version changed",
		interfaces.F("plugin", req.Plugin),
		interfaces.F("version", req.Version))
	writeJSON(w, http.StatusOK, req)
}

func (s *DemoServer) handleReset(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.versions = maps.Clone(s.cfg.Plugins)
	if s.versions == nil {
		s.versions = map[string]string{}
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.Versions())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
