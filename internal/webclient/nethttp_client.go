package webclient

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/raysh454/ptrprobe/internal/interfaces"
	"github.com/raysh454/ptrprobe/internal/model"
)

// NetHTTPClient is the net/http backed WebClient.
type NetHTTPClient struct {
	client  *http.Client
	maxBody int64
	logger  interfaces.Logger
}

// NewNetHTTPClient wraps httpClient, or a default client built from cfg when
// httpClient is nil.
func NewNetHTTPClient(cfg Config, logger interfaces.Logger, httpClient *http.Client) (*NetHTTPClient, error) {
	componentLogger := logger.With(interfaces.F("component", "webclient"), interfaces.F("backend", "nethttp"))

	if httpClient == nil {
		httpClient = newDefaultHTTPClient(cfg)
	}
	maxBody := cfg.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = DefaultConfig().MaxBodyBytes
	}

	componentLogger.Debug("created nethttp webclient",
		interfaces.F("timeout", httpClient.Timeout.String()),
		interfaces.F("max_body_bytes", maxBody))

	return &NetHTTPClient{
		client:  httpClient,
		maxBody: maxBody,
		logger:  componentLogger,
	}, nil
}

// Do implements the generic request execution using net/http.
func (nhc *NetHTTPClient) Do(ctx context.Context, req *model.Request) (*model.Response, error) {
	if req == nil {
		return nil, ErrNilRequest
	}

	method := strings.ToUpper(req.Method)
	if method == "" {
		method = http.MethodGet
	}

	nhc.logger.Debug("sending http request",
		interfaces.F("method", method),
		interfaces.F("url", req.URL))

	var bodyReader io.Reader
	if len(req.Body) > 0 {
		bodyReader = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, req.URL, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	for k, vs := range req.Headers {
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}

	resp, err := nhc.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("http do: %w", err)
	}
	defer resp.Body.Close()

	// Read one byte past the cap so truncation can be detected.
	body, err := io.ReadAll(io.LimitReader(resp.Body, nhc.maxBody+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if int64(len(body)) > nhc.maxBody {
		body = body[:nhc.maxBody]
		nhc.logger.Debug("response body truncated",
			interfaces.F("url", req.URL),
			interfaces.F("max_body_bytes", nhc.maxBody))
	}

	return &model.Response{
		Request:    req,
		Body:       body,
		Headers:    resp.Header,
		StatusCode: resp.StatusCode,
		FetchedAt:  time.Now(),
	}, nil
}

// Get is a convenience method for simple GET requests
func (nhc *NetHTTPClient) Get(ctx context.Context, url string) (*model.Response, error) {
	return nhc.Do(ctx, &model.Request{Method: http.MethodGet, URL: url})
}

func (nhc *NetHTTPClient) Close() error {
	nhc.client.CloseIdleConnections()
	return nil
}

// HTTPClient returns the underlying *http.Client
func (nhc *NetHTTPClient) HTTPClient() *http.Client {
	return nhc.client
}

var (
	ErrNilRequest         = errors.New("request cannot be nil")
	ErrMethodNotSupported = errors.New("method not supported")
)
