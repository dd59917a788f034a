package source

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/treeflow/pkg/cache"
	"github.com/matzehuels/treeflow/pkg/errors"
	"github.com/matzehuels/treeflow/pkg/httputil"
	"github.com/matzehuels/treeflow/pkg/observability"
)

const cacheNamespace = "tree"

// HTTP fetches a tree with GET.
type HTTP struct {
	URL     string
	Headers map[string]string

	// Client defaults to httputil.NewClient().
	Client *http.Client

	// Cache, when set, stores response bodies for TTL (cache.TTLFetch when
	// zero). Refresh skips the cache lookup but still stores the result.
	Cache   cache.Cache
	Keyer   cache.Keyer
	TTL     time.Duration
	Refresh bool

	// Attempts and Backoff configure retries; zero values mean 3 attempts
	// starting at one second.
	Attempts int
	Backoff  time.Duration

	Logger *log.Logger
}

// String returns the URL without userinfo or query string.
func (h *HTTP) String() string { return redact(h.URL) }

// Fetch returns the response body, from cache when possible.
func (h *HTTP) Fetch(ctx context.Context) ([]byte, error) {
	if err := errors.ValidateURL(h.URL); err != nil {
		return nil, err
	}

	key := h.keyer().HTTPKey(cacheNamespace, h.URL)
	if h.Cache != nil && !h.Refresh {
		if data, hit, err := h.Cache.Get(ctx, key); err == nil && hit {
			observability.Cache().OnCacheHit(ctx, "fetch")
			h.debug("fetch cache hit", "url", h.String())
			return data, nil
		}
		observability.Cache().OnCacheMiss(ctx, "fetch")
	}

	var body []byte
	err := httputil.Retry(ctx, h.attempts(), h.backoff(), func() error {
		var err error
		body, err = h.get(ctx)
		if err != nil && httputil.IsRetryable(err) {
			h.debug("retrying fetch", "url", h.String(), "err", err)
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	if h.Cache != nil {
		ttl := h.TTL
		if ttl == 0 {
			ttl = cache.TTLFetch
		}
		if err := h.Cache.Set(ctx, key, body, ttl); err == nil {
			observability.Cache().OnCacheSet(ctx, "fetch", len(body))
		}
	}
	return body, nil
}

func (h *HTTP) get(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.URL, nil)
	if err != nil {
		// url errors echo the raw URL, so the cause is not kept.
		return nil, errors.New(errors.ErrCodeInvalidInput, "invalid URL %s", redact(h.URL))
	}
	req.Header.Set("Accept", "application/json")
	for k, v := range h.Headers {
		req.Header.Set(k, v)
	}

	host, path := req.URL.Host, req.URL.Path
	observability.HTTP().OnRequest(ctx, req.Method, host, path)
	start := time.Now()

	resp, err := h.client().Do(req)
	if err != nil {
		observability.HTTP().OnError(ctx, req.Method, host, path, err)
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if ue, ok := err.(*url.Error); ok {
			err = ue.Err
		}
		if errors.GetCode(err) != "" {
			return nil, err
		}
		return nil, httputil.Retryable(errors.Wrap(errors.ErrCodeNetwork, err, "GET %s", redact(h.URL)))
	}
	defer resp.Body.Close()
	observability.HTTP().OnResponse(ctx, req.Method, host, path, resp.StatusCode, time.Since(start))

	if err := checkStatus(resp.StatusCode, h.URL); err != nil {
		return nil, err
	}

	body, err := readAll(resp.Body)
	if errors.Is(err, errors.ErrCodeInvalidInput) {
		return nil, err
	}
	if err != nil {
		return nil, httputil.Retryable(errors.Wrap(errors.ErrCodeNetwork, err, "read body"))
	}
	return body, nil
}

func checkStatus(code int, rawURL string) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound:
		return errors.New(errors.ErrCodeNotFound, "tree not found at %s", redact(rawURL))
	case code == http.StatusTooManyRequests || code >= 500:
		return httputil.Retryable(errors.New(errors.ErrCodeNetwork, "GET %s: status %d", redact(rawURL), code))
	default:
		return errors.New(errors.ErrCodeNetwork, "GET %s: status %d", redact(rawURL), code)
	}
}

// redact drops userinfo and query strings, which may carry credentials.
func redact(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "invalid URL"
	}
	u.User = nil
	u.RawQuery = ""
	return u.String()
}

func (h *HTTP) client() *http.Client {
	if h.Client != nil {
		return h.Client
	}
	return httputil.NewClient()
}

func (h *HTTP) keyer() cache.Keyer {
	if h.Keyer != nil {
		return h.Keyer
	}
	return cache.NewDefaultKeyer()
}

func (h *HTTP) attempts() int {
	if h.Attempts > 0 {
		return h.Attempts
	}
	return 3
}

func (h *HTTP) backoff() time.Duration {
	if h.Backoff > 0 {
		return h.Backoff
	}
	return time.Second
}

func (h *HTTP) debug(msg string, kv ...any) {
	if h.Logger != nil {
		h.Logger.Debug(msg, kv...)
	}
}

var (
	_ Source = (*HTTP)(nil)
	_ Source = (*File)(nil)
	_ Source = (*Bytes)(nil)
)
