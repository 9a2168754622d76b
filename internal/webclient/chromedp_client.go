package webclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"

	"github.com/raysh454/ptrprobe/internal/interfaces"
	"github.com/raysh454/ptrprobe/internal/model"
)

// ChromedpClient fetches pages through headless Chrome. Only GET is
// supported. The returned body is the rendered document, so Content-Type is
// always reported as text/html.
type ChromedpClient struct {
	cancelAlloc context.CancelFunc

	// browserCtx owns the single Chrome process; each Do opens a tab in it.
	browserCtx    context.Context
	cancelBrowser context.CancelFunc
	startOnce     sync.Once
	startErr      error

	maxBody int64
	logger  interfaces.Logger
}

// NewChromedpClient prepares a browser allocator. Chrome itself is started
// lazily on the first request and reused until Close.
func NewChromedpClient(cfg Config, logger interfaces.Logger) (*ChromedpClient, error) {
	opts := append([]chromedp.ExecAllocatorOption(nil), chromedp.DefaultExecAllocatorOptions[:]...)
	opts = append(opts, chromedp.Flag("headless", cfg.Headless))

	allocCtx, cancel := chromedp.NewExecAllocator(context.Background(), opts...)
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)

	maxBody := cfg.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = DefaultConfig().MaxBodyBytes
	}

	componentLogger := logger.With(interfaces.F("component", "webclient"), interfaces.F("backend", "chromedp"))
	componentLogger.Debug("created chromedp webclient", interfaces.F("headless", cfg.Headless))

	return &ChromedpClient{
		cancelAlloc:   cancel,
		browserCtx:    browserCtx,
		cancelBrowser: cancelBrowser,
		maxBody:       maxBody,
		logger:        componentLogger,
	}, nil
}

// start launches Chrome once. Tabs created from browserCtx before the
// browser exists would each allocate their own process.
func (c *ChromedpClient) start() error {
	c.startOnce.Do(func() {
		c.logger.Debug("launching browser")
		if err := chromedp.Run(c.browserCtx); err != nil {
			c.startErr = fmt.Errorf("chromedp: start browser: %w", err)
		}
	})
	return c.startErr
}

func (c *ChromedpClient) Do(ctx context.Context, req *model.Request) (*model.Response, error) {
	if req == nil {
		return nil, ErrNilRequest
	}
	method := strings.ToUpper(req.Method)
	if method != "" && method != http.MethodGet {
		return nil, fmt.Errorf("chromedp: %s %w", method, ErrMethodNotSupported)
	}

	if err := c.start(); err != nil {
		return nil, err
	}

	tabCtx, cancelTab := chromedp.NewContext(c.browserCtx)
	defer cancelTab()
	// The tab hangs off the browser, not ctx, so tie its lifetime to ctx.
	stop := context.AfterFunc(ctx, cancelTab)
	defer stop()

	var (
		mu      sync.Mutex
		status  int
		headers = http.Header{}
	)
	chromedp.ListenTarget(tabCtx, func(ev any) {
		e, ok := ev.(*network.EventResponseReceived)
		if !ok || e.Type != network.ResourceTypeDocument || e.Response == nil {
			return
		}
		// Iframe documents report their own status; only the page's
		// main frame, whose ID equals the target ID, counts.
		if !isMainFrame(tabCtx, e.FrameID) {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		status = int(e.Response.Status)
		for k, v := range e.Response.Headers {
			headers.Set(k, fmt.Sprint(v))
		}
	})

	var html string
	actions := append(c.headerActions(req.Headers),
		chromedp.Navigate(req.URL),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)

	c.logger.Debug("navigating", interfaces.F("url", req.URL))
	if err := chromedp.Run(tabCtx, actions...); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("chromedp navigate: %w", ctxErr)
		}
		return nil, fmt.Errorf("chromedp navigate: %w", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if status == 0 {
		return nil, errors.New("chromedp: no document response observed")
	}
	headers.Set("Content-Type", "text/html; charset=utf-8")

	body := []byte(html)
	if int64(len(body)) > c.maxBody {
		body = body[:c.maxBody]
	}

	return &model.Response{
		Request:    req,
		Headers:    headers,
		Body:       body,
		StatusCode: status,
		FetchedAt:  time.Now(),
	}, nil
}

// headerActions maps request headers onto DevTools calls. User-Agent goes
// through the emulation domain; Connection is left to the browser.
func (c *ChromedpClient) headerActions(h http.Header) []chromedp.Action {
	actions := []chromedp.Action{network.Enable()}

	extra := network.Headers{}
	for k, vs := range h {
		if len(vs) == 0 {
			continue
		}
		switch http.CanonicalHeaderKey(k) {
		case "User-Agent":
			actions = append(actions, emulation.SetUserAgentOverride(vs[0]))
		case "Connection":
		default:
			extra[k] = strings.Join(vs, ", ")
		}
	}
	if len(extra) > 0 {
		actions = append(actions, network.SetExtraHTTPHeaders(extra))
	}
	return actions
}

func (c *ChromedpClient) Get(ctx context.Context, url string) (*model.Response, error) {
	return c.Do(ctx, &model.Request{Method: http.MethodGet, URL: url})
}

func (c *ChromedpClient) Close() error {
	c.cancelBrowser()
	c.cancelAlloc()
	return nil
}

func isMainFrame(tabCtx context.Context, frame cdp.FrameID) bool {
	cc := chromedp.FromContext(tabCtx)
	if cc == nil || cc.Target == nil {
		return false
	}
	return frame == cdp.FrameID(cc.Target.TargetID)
}
