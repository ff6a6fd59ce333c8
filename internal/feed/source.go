package feed

import (
	"bytes"
	"context"
	"io"
	"math"
	"math/rand/v2"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/lead-radar/internal/catalog"
)

// StaticSource serves an in-memory record set. Used by tests and by callers
// that already hold a decoded payload.
type StaticSource struct {
	SourceName string
	Records    []catalog.RawRecord
}

func (s *StaticSource) Name() string { return s.SourceName }

func (s *StaticSource) Fetch(ctx context.Context) ([]catalog.RawRecord, error) {
	return s.Records, nil
}

// FileSource reads one payload file, choosing the decoder by extension:
// .json, .yaml/.yml, .csv, or .xlsx.
type FileSource struct {
	Path string
}

func NewFileSource(path string) *FileSource { return &FileSource{Path: path} }

func (s *FileSource) Name() string { return filepath.Base(s.Path) }

func (s *FileSource) Fetch(ctx context.Context) ([]catalog.RawRecord, error) {
	switch strings.ToLower(filepath.Ext(s.Path)) {
	case ".xlsx":
		return DecodeXLSX(s.Path)
	case ".csv":
		f, err := os.Open(s.Path)
		if err != nil {
			return nil, eris.Wrap(err, "feed: open csv")
		}
		defer f.Close() //nolint:errcheck
		return DecodeCSV(f)
	case ".yaml", ".yml":
		data, err := os.ReadFile(s.Path)
		if err != nil {
			return nil, eris.Wrap(err, "feed: read file")
		}
		return DecodeYAML(data)
	default:
		data, err := os.ReadFile(s.Path)
		if err != nil {
			return nil, eris.Wrap(err, "feed: read file")
		}
		return DecodeJSON(data)
	}
}

// HTTPSource fetches a JSON payload over HTTP with retries and per-host rate
// limiting.
type HTTPSource struct {
	URL    string
	client *Client
}

// NewHTTPSource creates an HTTPSource. A nil client gets defaults.
func NewHTTPSource(rawURL string, client *Client) *HTTPSource {
	if client == nil {
		client = NewClient(ClientOptions{})
	}
	return &HTTPSource{URL: rawURL, client: client}
}

func (s *HTTPSource) Name() string {
	if u, err := url.Parse(s.URL); err == nil && u.Host != "" {
		return u.Host
	}
	return s.URL
}

func (s *HTTPSource) Fetch(ctx context.Context) ([]catalog.RawRecord, error) {
	data, err := s.client.Get(ctx, s.URL)
	if err != nil {
		return nil, err
	}
	return DecodeJSON(data)
}

// ClientOptions configures the feed HTTP client.
type ClientOptions struct {
	UserAgent  string
	Timeout    time.Duration
	MaxRetries int
	RatePerSec rate.Limit
	Burst      int
}

// Client is a retrying, rate-limited HTTP getter for feed payloads.
type Client struct {
	http    *http.Client
	opts    ClientOptions
	limiter *rate.Limiter
}

// NewClient creates a Client with the given options, applying defaults for
// unset fields.
func NewClient(opts ClientOptions) *Client {
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.MaxRetries == 0 {
		opts.MaxRetries = 3
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "lead-radar/1.0"
	}
	if opts.RatePerSec == 0 {
		opts.RatePerSec = 10
	}
	if opts.Burst == 0 {
		opts.Burst = 10
	}
	return &Client{
		http:    &http.Client{Timeout: opts.Timeout},
		opts:    opts,
		limiter: rate.NewLimiter(opts.RatePerSec, opts.Burst),
	}
}

// Get fetches the URL and returns the body, retrying 5xx and transport
// errors with exponential backoff and jitter.
func (c *Client) Get(ctx context.Context, rawURL string) ([]byte, error) {
	var lastErr error
	for attempt := range c.opts.MaxRetries {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, eris.Wrap(err, "feed: rate limiter wait")
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return nil, eris.Wrap(err, "feed: create request")
		}
		req.Header.Set("User-Agent", c.opts.UserAgent)

		resp, err := c.http.Do(req)
		if err != nil {
			lastErr = err
			zap.L().Warn("feed: request failed, retrying",
				zap.String("url", rawURL),
				zap.Int("attempt", attempt+1),
				zap.Error(err),
			)
			c.backoff(ctx, attempt)
			continue
		}

		if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
			_ = resp.Body.Close()
			lastErr = eris.Errorf("feed: http %d from %s", resp.StatusCode, rawURL)
			c.backoff(ctx, attempt)
			continue
		}

		if resp.StatusCode != http.StatusOK {
			_ = resp.Body.Close()
			return nil, eris.Errorf("feed: unexpected status %d from %s", resp.StatusCode, rawURL)
		}

		var buf bytes.Buffer
		_, err = io.Copy(&buf, resp.Body)
		_ = resp.Body.Close()
		if err != nil {
			return nil, eris.Wrap(err, "feed: read body")
		}
		return buf.Bytes(), nil
	}
	return nil, eris.Wrap(lastErr, "feed: all retries exhausted")
}

func (c *Client) backoff(ctx context.Context, attempt int) {
	base := time.Second
	d := time.Duration(float64(base) * math.Pow(2, float64(attempt)))
	if d > 15*time.Second {
		d = 15 * time.Second
	}
	d += time.Duration(rand.Int64N(int64(d) / 2))

	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
