package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/netip"
	"net/url"
	"strings"
	"syscall"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"

	"github.com/MrSnakeDoc/readmark/internal/utils"
)

const (
	// DefaultFetchTimeout bounds how long a page load may take.
	DefaultFetchTimeout = 10 * time.Second

	// maxBodyBytes caps how much of a response is read.
	maxBodyBytes = 5 << 20

	defaultUserAgent = "readmark/1.0 (+reading progress)"
)

// FetchedPage is an off-screen page load: metadata plus extracted text.
type FetchedPage struct {
	URL      string `json:"url"`
	Title    string `json:"title"`
	Byline   string `json:"byline,omitempty"`
	Excerpt  string `json:"excerpt,omitempty"`
	SiteName string `json:"siteName,omitempty"`
	Content  string `json:"content"`
	Partial  bool   `json:"partial,omitempty"`
}

// ErrBlockedTarget is returned when a URL resolves to a loopback, private
// or link-local address and the fetcher does not allow those.
var ErrBlockedTarget = errors.New("fetch target is not a public address")

// Fetcher loads pages that are not open in any tab.
type Fetcher struct {
	client       *http.Client
	timeout      time.Duration
	userAgent    string
	allowPrivate bool
}

// FetchOption tunes a Fetcher.
type FetchOption func(*Fetcher)

// AllowPrivateHosts lets the fetcher reach loopback and private networks.
// The CLI and tests use it; the service only when configured.
func AllowPrivateHosts() FetchOption {
	return func(f *Fetcher) { f.allowPrivate = true }
}

// NewFetcher creates a Fetcher. timeout <= 0 selects DefaultFetchTimeout.
// Without AllowPrivateHosts only public addresses are dialed.
func NewFetcher(timeout time.Duration, opts ...FetchOption) *Fetcher {
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	f := &Fetcher{
		timeout:   timeout,
		userAgent: defaultUserAgent,
	}
	for _, opt := range opts {
		opt(f)
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if !f.allowPrivate {
		// Control sees the resolved address, so redirects and DNS answers
		// pointing inward are caught too.
		dialer := &net.Dialer{Timeout: timeout, Control: publicOnly}
		transport.DialContext = dialer.DialContext
		transport.Proxy = nil
	}
	f.client = &http.Client{Transport: transport}
	return f
}

func publicOnly(_, address string, _ syscall.RawConn) error {
	ap, err := netip.ParseAddrPort(address)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrBlockedTarget, address)
	}
	ip := ap.Addr().Unmap()
	if ip.IsLoopback() || ip.IsPrivate() || ip.IsLinkLocalUnicast() ||
		ip.IsLinkLocalMulticast() || ip.IsUnspecified() || ip.IsMulticast() {
		return fmt.Errorf("%w: %s", ErrBlockedTarget, ip)
	}
	return nil
}

// Fetch loads rawURL and extracts up to maxChars of readable text.
//
// The load is bounded by the fetcher timeout. When the deadline hits after
// some of the body has arrived, extraction proceeds on what was received
// and the result is marked Partial. The response body is always closed.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string, maxChars int) (*FetchedPage, error) {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, fmt.Errorf("unsupported url %q", rawURL)
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create GET request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make HTTP request: %w", err)
	}
	defer utils.Close(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("failed to fetch page, status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	partial := false
	if err != nil {
		if !errors.Is(err, context.DeadlineExceeded) || len(body) == 0 {
			return nil, fmt.Errorf("failed to read response body: %w", err)
		}
		partial = true
	}

	page := Page{URL: rawURL, HTML: string(body)}
	out := &FetchedPage{
		URL:     rawURL,
		Content: ExtractContent(page, maxChars),
		Partial: partial,
	}

	parser := readability.NewParser()
	if article, err := parser.Parse(bytes.NewReader(body), u); err == nil {
		out.Title = collapse(article.Title)
		out.Byline = collapse(article.Byline)
		out.Excerpt = collapse(article.Excerpt)
		out.SiteName = collapse(article.SiteName)
	}
	if out.Title == "" {
		if doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body)); err == nil {
			out.Title = collapse(doc.Find("title").First().Text())
		}
	}
	if out.Title == "" {
		out.Title = strings.TrimSpace(rawURL)
	}
	return out, nil
}
