package transport

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"github.com/dmitrijs2005/urchin/internal/common"
	"github.com/dmitrijs2005/urchin/internal/logging"
)

// ErrClosed is delivered to submissions made after Close.
var ErrClosed = errors.New("pipeline closed")

const (
	DefaultWorkers = 4
	DefaultTimeout = 30 * time.Second
)

// Request describes one call. Path is appended verbatim to the base URL and
// may carry a query string.
type Request struct {
	Method string
	Path   string
	Header http.Header
	Body   []byte
}

// Response is a 2xx answer with its body fully read.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// HeadersFunc supplies the headers every request starts with.
type HeadersFunc func(ctx context.Context) http.Header

type Pipeline struct {
	mu        sync.RWMutex
	endpoints map[Endpoint]string
	current   Endpoint

	client  *http.Client
	workers int64
	sem     *semaphore.Weighted
	headers HeadersFunc
	log     logging.Logger

	// lifeMu orders wg.Add against Close, so Wait never races a new Add.
	lifeMu sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

type Option func(*Pipeline)

// WithEndpoint registers or overrides the base URL of an endpoint name.
func WithEndpoint(name Endpoint, baseURL string) Option {
	return func(p *Pipeline) { p.endpoints[name] = strings.TrimRight(baseURL, "/") }
}

// WithCurrent selects the initial endpoint. Unknown names are ignored.
func WithCurrent(name Endpoint) Option {
	return func(p *Pipeline) { p.current = name }
}

func WithTimeout(d time.Duration) Option {
	return func(p *Pipeline) { p.client.Timeout = d }
}

func WithWorkers(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.workers = int64(n)
		}
	}
}

func WithHTTPClient(c *http.Client) Option {
	return func(p *Pipeline) { p.client = c }
}

func WithHeaders(f HeadersFunc) Option {
	return func(p *Pipeline) { p.headers = f }
}

func WithLogger(l logging.Logger) Option {
	return func(p *Pipeline) { p.log = l }
}

func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		endpoints: DefaultEndpoints(),
		current:   Production,
		client:    &http.Client{Timeout: DefaultTimeout},
		workers:   DefaultWorkers,
		log:       logging.Nop(),
	}
	for _, o := range opts {
		o(p)
	}
	if _, ok := p.endpoints[p.current]; !ok {
		p.current = Production
	}
	p.sem = semaphore.NewWeighted(p.workers)
	return p
}

// SetEndpoint switches the base URL used by later submissions. In-flight
// requests keep the URL they were built with.
func (p *Pipeline) SetEndpoint(name Endpoint) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.endpoints[name]; !ok {
		return fmt.Errorf("%w: %q", common.ErrUnknownEndpoint, name)
	}
	p.current = name
	return nil
}

// Endpoint returns the current endpoint name and its base URL.
func (p *Pipeline) Endpoint() (Endpoint, string) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.current, p.endpoints[p.current]
}

func (p *Pipeline) resolve(path string) (*url.URL, error) {
	_, base := p.Endpoint()
	u, err := url.Parse(base + path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrMalformedURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", common.ErrMalformedURL, base+path)
	}
	return u, nil
}

func (p *Pipeline) buildHeader(ctx context.Context, extra http.Header) http.Header {
	h := http.Header{}
	if p.headers != nil {
		for k, vs := range p.headers(ctx) {
			h[k] = append([]string(nil), vs...)
		}
	}
	for k, vs := range extra {
		h[k] = append([]string(nil), vs...)
	}
	return h
}

// Submit schedules req and returns immediately. onSuccess receives 2xx
// responses; everything else goes to onError. Either callback may be nil.
func (p *Pipeline) Submit(ctx context.Context, req Request, onSuccess func(Response), onError func(error)) *Handle {
	if !p.track() {
		return p.rejected(onError)
	}
	u, err := p.resolve(req.Path)
	if err != nil {
		return p.fail(err, onError)
	}
	header := p.buildHeader(ctx, req.Header)

	rctx, cancel := context.WithCancel(ctx)
	h := newHandle(uuid.NewString(), cancel)
	log := p.log.With("request_id", h.id)

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	go func() {
		defer p.wg.Done()
		defer close(h.done)
		defer cancel()

		if err := p.sem.Acquire(rctx, 1); err != nil {
			log.Debug(rctx, "request dropped before start", "error", err)
			if h.claim() && onError != nil {
				onError(&common.TransportError{Op: method + " " + u.Redacted(), Err: err})
			}
			return
		}
		defer p.sem.Release(1)

		if h.Canceled() {
			return
		}

		resp, err := p.do(rctx, method, u, header, req.Body)
		if err != nil {
			log.Warn(rctx, "request failed", "method", method, "path", u.Path, "error", err)
		} else {
			log.Debug(rctx, "request done", "method", method, "path", u.Path, "status", resp.StatusCode)
		}

		if !h.claim() {
			log.Debug(rctx, "delivery suppressed, handle canceled")
			return
		}
		if err != nil {
			if onError != nil {
				onError(err)
			}
			return
		}
		if onSuccess != nil {
			onSuccess(*resp)
		}
	}()

	return h
}

func (p *Pipeline) do(ctx context.Context, method string, u *url.URL, header http.Header, body []byte) (*Response, error) {
	op := method + " " + u.Redacted()

	var rdr io.Reader
	if body != nil {
		rdr = bytes.NewReader(body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, method, u.String(), rdr)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrMalformedURL, err)
	}
	httpReq.Header = header

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, &common.TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &common.TransportError{Op: op, Err: fmt.Errorf("read body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &common.StatusError{StatusCode: resp.StatusCode, Body: data}
	}
	return &Response{StatusCode: resp.StatusCode, Header: resp.Header, Body: data}, nil
}

// Fail returns a handle that delivers err to onError asynchronously, with
// the same cancel semantics as a real submission.
func (p *Pipeline) Fail(err error, onError func(error)) *Handle {
	if !p.track() {
		return p.rejected(onError)
	}
	return p.fail(err, onError)
}

// fail expects the caller to have tracked the delivery already.
func (p *Pipeline) fail(err error, onError func(error)) *Handle {
	_, cancel := context.WithCancel(context.Background())
	h := newHandle(uuid.NewString(), cancel)

	go func() {
		defer p.wg.Done()
		defer close(h.done)
		defer cancel()

		if h.claim() && onError != nil {
			onError(err)
		}
	}()
	return h
}

// rejected delivers ErrClosed outside the wait group.
func (p *Pipeline) rejected(onError func(error)) *Handle {
	_, cancel := context.WithCancel(context.Background())
	h := newHandle(uuid.NewString(), cancel)

	go func() {
		defer close(h.done)
		defer cancel()

		if h.claim() && onError != nil {
			onError(ErrClosed)
		}
	}()
	return h
}

func (p *Pipeline) track() bool {
	p.lifeMu.Lock()
	defer p.lifeMu.Unlock()

	if p.closed {
		return false
	}
	p.wg.Add(1)
	return true
}

// Close stops accepting submissions and blocks until every accepted one has
// settled. Callbacks of accepted submissions may still submit; those calls
// get ErrClosed. Close is safe to call more than once.
func (p *Pipeline) Close() {
	p.lifeMu.Lock()
	p.closed = true
	p.lifeMu.Unlock()

	p.wg.Wait()
}
