package csv2docx

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/alnah/go-csv2docx/internal/imaging"
)

// Image size floors. Responses below either are tracking pixels or error
// pages, not content.
const (
	minImageBytes  = 100
	minImagePixels = 10
	maxImageBytes  = 20 << 20
)

// Browser user agents rotated across retry attempts. Some image hosts
// reject unknown clients outright.
var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/119.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/118.0.0.0 Safari/537.36 Edg/118.0.2088.76",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
}

// RetryPolicy bounds image download attempts. The delay doubles after each
// failed attempt.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	Timeout     time.Duration // per attempt
}

// DefaultRetryPolicy is used when no policy is configured.
var DefaultRetryPolicy = RetryPolicy{
	MaxAttempts: 3,
	BaseDelay:   time.Second,
	Timeout:     10 * time.Second,
}

func (p RetryPolicy) withDefaults() RetryPolicy {
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = DefaultRetryPolicy.MaxAttempts
	}
	if p.BaseDelay <= 0 {
		p.BaseDelay = DefaultRetryPolicy.BaseDelay
	}
	if p.Timeout <= 0 {
		p.Timeout = DefaultRetryPolicy.Timeout
	}
	return p
}

// FetchedImage is a downloaded image normalized to PNG or JPEG.
type FetchedImage struct {
	Data   []byte
	Format string // "png" or "jpeg"
	Width  int
	Height int
}

// Fetcher downloads remote images with bounded retry and memoizes results
// for the lifetime of a run: the same URL is fetched at most once, whether
// it succeeded or failed. Safe for concurrent use.
type Fetcher struct {
	client *http.Client
	policy RetryPolicy

	mu   sync.Mutex
	memo map[string]fetchResult
}

type fetchResult struct {
	img *FetchedImage
	err error
}

// NewFetcher creates a Fetcher. A nil client uses http.DefaultClient;
// per-attempt timeouts come from the policy either way.
func NewFetcher(policy RetryPolicy, client *http.Client) *Fetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &Fetcher{
		client: client,
		policy: policy.withDefaults(),
		memo:   make(map[string]fetchResult),
	}
}

// Fetch downloads and normalizes one image. Results, including failures,
// are memoized by URL.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*FetchedImage, error) {
	f.mu.Lock()
	if res, ok := f.memo[rawURL]; ok {
		f.mu.Unlock()
		return res.img, res.err
	}
	f.mu.Unlock()

	img, err := f.fetch(ctx, rawURL)

	f.mu.Lock()
	f.memo[rawURL] = fetchResult{img: img, err: err}
	f.mu.Unlock()
	return img, err
}

// Prefetch warms the memo for a set of URLs using at most workers
// concurrent downloads. Failures are memoized, not returned; rendering
// surfaces them as row warnings.
func (f *Fetcher) Prefetch(ctx context.Context, urls []string, workers int) {
	if workers <= 0 {
		workers = 4
	}

	seen := make(map[string]bool, len(urls))
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup
	for _, u := range urls {
		if seen[u] {
			continue
		}
		seen[u] = true

		wg.Add(1)
		sem <- struct{}{}
		go func(u string) {
			defer wg.Done()
			defer func() { <-sem }()
			_, _ = f.Fetch(ctx, u)
		}(u)
	}
	wg.Wait()
}

func (f *Fetcher) fetch(ctx context.Context, rawURL string) (*FetchedImage, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return nil, fmt.Errorf("%w: %s", ErrInvalidImageURL, rawURL)
	}

	var lastErr error
	for attempt := 0; attempt < f.policy.MaxAttempts; attempt++ {
		if attempt > 0 {
			if err := sleep(ctx, f.policy.BaseDelay<<(attempt-1)); err != nil {
				return nil, err
			}
		}

		img, err := f.attempt(ctx, parsed, attempt)
		if err == nil {
			return img, nil
		}
		if !retryable(err) {
			return nil, err
		}
		lastErr = err
	}
	return nil, lastErr
}

func (f *Fetcher) attempt(ctx context.Context, u *url.URL, attempt int) (*FetchedImage, error) {
	ctx, cancel := context.WithTimeout(ctx, f.policy.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImageURL, err)
	}
	req.Header.Set("User-Agent", userAgents[attempt%len(userAgents)])
	req.Header.Set("Accept", "image/*,*/*;q=0.8")
	// Hotlink-protected hosts expect a same-origin referer.
	req.Header.Set("Referer", u.Scheme+"://"+u.Host+"/")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImageFetch, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s returned status %d", ErrImageFetch, u.Host, resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "" {
		mime := strings.TrimSpace(strings.Split(ct, ";")[0])
		if !strings.HasPrefix(mime, "image/") && mime != "application/octet-stream" {
			return nil, fmt.Errorf("%w: content type %s", ErrNotAnImage, mime)
		}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %v", ErrImageFetch, err)
	}
	if len(data) < minImageBytes {
		return nil, fmt.Errorf("%w: %d bytes", ErrImageTooSmall, len(data))
	}

	normalized, info, err := imaging.Normalize(data)
	if err != nil {
		// Truncated or corrupt payloads sometimes succeed on retry.
		return nil, fmt.Errorf("%w: %v", ErrImageDecode, err)
	}
	if info.Width < minImagePixels || info.Height < minImagePixels {
		return nil, fmt.Errorf("%w: %dx%d px", ErrImageTooSmall, info.Width, info.Height)
	}

	return &FetchedImage{
		Data:   normalized,
		Format: info.Format,
		Width:  info.Width,
		Height: info.Height,
	}, nil
}

// retryable reports whether another attempt could succeed. Malformed URLs,
// non-image responses, and undersized images fail the same way every time.
func retryable(err error) bool {
	return errors.Is(err, ErrImageFetch) || errors.Is(err, ErrImageDecode)
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
