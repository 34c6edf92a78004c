package summarize

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/MrSnakeDoc/readmark/internal/logger"
)

type fakeStrategy struct {
	name      string
	available bool
	out       string
	err       error
	calls     atomic.Int32
}

func (f *fakeStrategy) Name() string                   { return f.name }
func (f *fakeStrategy) Available(context.Context) bool { return f.available }
func (f *fakeStrategy) Run(context.Context, string, Options) (string, error) {
	f.calls.Add(1)
	return f.out, f.err
}

func newEngine(strategies ...Strategy) *Engine {
	return NewEngine(EngineOptions{
		Strategies: strategies,
		Logger:     logger.New("error", false),
	})
}

func TestSummarize_ShortInputGuard(t *testing.T) {
	s := &fakeStrategy{name: "local", available: true, out: "never"}
	e := newEngine(s)

	for _, in := range []string{"", "hi", "   short   text   "} {
		got := e.Summarize(context.Background(), Request{Text: in})
		if got.Summary != NotEnoughContent {
			t.Errorf("Summarize(%q) = %q, want %q", in, got.Summary, NotEnoughContent)
		}
		if got.Source != SourceGuard {
			t.Errorf("Source = %q, want %q", got.Source, SourceGuard)
		}
	}
	if n := s.calls.Load(); n != 0 {
		t.Errorf("strategy called %d times for short input", n)
	}
}

func TestSummarize_FallsBackWhenCloudAlwaysFails(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	local := &fakeStrategy{name: "local", available: false}
	cloud := NewCloud(context.Background(), CloudConfig{Endpoint: srv.URL, Backoff: 10 * time.Millisecond})
	e := newEngine(local, cloud)

	got := e.Summarize(context.Background(), Request{Text: article})
	if got.Summary == "" {
		t.Fatal("Summarize() returned empty summary")
	}
	if got.Source != SourceExtractive {
		t.Errorf("Source = %q, want %q", got.Source, SourceExtractive)
	}
	if hits.Load() != 1 {
		t.Errorf("cloud hits = %d, want 1", hits.Load())
	}
	if local.calls.Load() != 0 {
		t.Error("unavailable local strategy should not run")
	}
}

func TestSummarize_FirstSuccessWins(t *testing.T) {
	local := &fakeStrategy{name: "local", available: true, out: "  local summary  "}
	cloud := &fakeStrategy{name: "cloud", available: true, out: "cloud summary"}
	e := newEngine(local, cloud)

	got := e.Summarize(context.Background(), Request{Text: article})
	if got.Summary != "local summary" || got.Source != "local" {
		t.Errorf("Summarize() = %+v", got)
	}
	if cloud.calls.Load() != 0 {
		t.Error("cloud should not run after local succeeded")
	}
}

func TestSummarize_EmptyOutputFallsThrough(t *testing.T) {
	local := &fakeStrategy{name: "local", available: true, out: "   "}
	cloud := &fakeStrategy{name: "cloud", available: true, out: "cloud summary"}
	e := newEngine(local, cloud)

	if got := e.Summarize(context.Background(), Request{Text: article}); got.Source != "cloud" {
		t.Errorf("Source = %q, want cloud", got.Source)
	}
}

func TestSummarize_Cache(t *testing.T) {
	s := &fakeStrategy{name: "local", available: true, out: "summary"}
	e := newEngine(s)
	ctx := context.Background()

	first := e.Summarize(ctx, Request{Text: article})
	if first.Cached {
		t.Error("first call should not be cached")
	}

	second := e.Summarize(ctx, Request{Text: "  " + article + "  "})
	if !second.Cached || second.Summary != first.Summary {
		t.Errorf("second call = %+v, want cached copy of first", second)
	}

	other := e.Summarize(ctx, Request{Text: article, Style: StyleBullet})
	if other.Cached {
		t.Error("a different style must not hit the cache")
	}

	forced := e.Summarize(ctx, Request{Text: article, Force: true})
	if forced.Cached {
		t.Error("forced call should bypass the cache")
	}
	if n := s.calls.Load(); n != 3 {
		t.Errorf("strategy calls = %d, want 3", n)
	}
}

func TestSummarize_CancelledContextUsesExtractive(t *testing.T) {
	s := &fakeStrategy{name: "local", available: true, out: "summary"}
	e := newEngine(s)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	got := e.Summarize(ctx, Request{Text: article, Style: StyleBullet})
	if got.Source != SourceExtractive {
		t.Errorf("Source = %q, want %q", got.Source, SourceExtractive)
	}
	if !strings.HasPrefix(got.Summary, bulletPrefix) {
		t.Errorf("bullet style not applied: %q", got.Summary)
	}
	if s.calls.Load() != 0 {
		t.Error("no strategy should run with a cancelled context")
	}

	again := e.Summarize(context.Background(), Request{Text: article, Style: StyleBullet})
	if again.Cached {
		t.Error("result of a cancelled call must not be cached")
	}
	if again.Source != "local" || again.Summary != "summary" {
		t.Errorf("live call = %+v, want the local strategy's answer", again)
	}
	if s.calls.Load() != 1 {
		t.Errorf("strategy calls = %d, want 1", s.calls.Load())
	}
	if e.CacheLen() != 1 {
		t.Errorf("CacheLen() = %d, want 1", e.CacheLen())
	}
}

func TestCloud_Run(t *testing.T) {
	var gotAuth string
	var gotBody promptBody
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		switch gotBody.Prompt {
		case "bad shape":
			_, _ = w.Write([]byte(`{"result":"nope"}`))
		default:
			_, _ = w.Write([]byte(`{"output":"cloud says hi"}`))
		}
	}))
	defer srv.Close()

	c := NewCloud(context.Background(), CloudConfig{Endpoint: srv.URL, APIKey: "secret"})

	out, err := c.Run(context.Background(), "summarize this", Options{Mode: ModeSummarize, Style: StyleShort})
	if err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	if out != "cloud says hi" {
		t.Errorf("Run() = %q", out)
	}
	if gotAuth != "Bearer secret" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotBody.Options.Style != StyleShort {
		t.Errorf("options not forwarded: %+v", gotBody.Options)
	}

	if _, err := c.Run(context.Background(), "bad shape", Options{}); !errors.Is(err, ErrUnexpectedResult) {
		t.Errorf("Run() error = %v, want ErrUnexpectedResult", err)
	}
}

func TestCloud_Unconfigured(t *testing.T) {
	c := NewCloud(context.Background(), CloudConfig{})
	if c.Available(context.Background()) {
		t.Error("cloud without endpoint should be unavailable")
	}
}

func TestHTTPErrorClassification(t *testing.T) {
	tests := []struct {
		status      int
		rateLimited bool
		unavailable bool
	}{
		{http.StatusTooManyRequests, true, false},
		{http.StatusServiceUnavailable, false, true},
		{http.StatusInternalServerError, false, true},
		{http.StatusBadRequest, false, false},
	}
	for _, tt := range tests {
		err := error(&HTTPError{StatusCode: tt.status, Message: "x"})
		if errors.Is(err, ErrRateLimited) != tt.rateLimited {
			t.Errorf("status %d: rate limited = %v", tt.status, !tt.rateLimited)
		}
		if errors.Is(err, ErrUnavailable) != tt.unavailable {
			t.Errorf("status %d: unavailable = %v", tt.status, !tt.unavailable)
		}
	}
	if got := (&HTTPError{StatusCode: 429, Message: "slow down"}).Error(); got != "HTTP 429: slow down" {
		t.Errorf("Error() = %q", got)
	}
}

type textResult struct{ s string }

func (r textResult) Text() string { return r.s }

func TestResultText(t *testing.T) {
	tests := []struct {
		name    string
		in      any
		want    string
		wantErr bool
	}{
		{"string", "plain", "plain", false},
		{"object with text", map[string]any{"text": "field"}, "field", false},
		{"texter", textResult{"method"}, "method", false},
		{"blank string", "  ", "", true},
		{"object without text", map[string]any{"output": "x"}, "", true},
		{"number", 42.0, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resultText(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("resultText() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("resultText() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestHTTPCapability(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/health":
			_, _ = w.Write([]byte(`{"available":true}`))
		case "/prompt":
			_, _ = w.Write([]byte(`{"text":"on device"}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	l := NewLocal(NewHTTPCapability(srv.URL+"/", srv.Client()))
	ctx := context.Background()

	if !l.Available(ctx) {
		t.Fatal("Available() = false")
	}
	out, err := l.Run(ctx, "p", Options{})
	if err != nil || out != "on device" {
		t.Errorf("Run() = %q, %v", out, err)
	}

	if NewLocal(NewHTTPCapability("", nil)).Available(ctx) {
		t.Error("capability without base URL should be unavailable")
	}
}

func TestCacheEvictsOldest(t *testing.T) {
	c := NewCache(2)
	c.put(cacheEntry{key: "a", summary: "1"})
	c.put(cacheEntry{key: "b", summary: "2"})
	c.put(cacheEntry{key: "a", summary: "1b"})
	c.put(cacheEntry{key: "c", summary: "3"})

	if _, ok := c.get("b"); ok {
		t.Error("oldest entry should be evicted")
	}
	if e, ok := c.get("a"); !ok || e.summary != "1b" {
		t.Errorf("get(a) = %+v, %v", e, ok)
	}
	if c.Len() != 2 {
		t.Errorf("Len() = %d, want 2", c.Len())
	}
}

func TestCacheKeyUsesPrefix(t *testing.T) {
	long := strings.Repeat("x", 300)
	a := cacheKey(Request{Mode: ModeSummarize}, long)
	b := cacheKey(Request{Mode: ModeSummarize}, long+"different tail")
	if a != b {
		t.Error("texts sharing the first 200 runes should share a key")
	}
	if a == cacheKey(Request{Mode: ModeRewrite}, long) {
		t.Error("mode must be part of the key")
	}
}

func TestLinguaDetector(t *testing.T) {
	if testing.Short() {
		t.Skip("loads language models")
	}
	d := NewLinguaDetector()
	if got := d.Detect("The quick brown fox jumps over the lazy dog near the river bank."); got != "en" {
		t.Errorf("Detect() = %q, want en", got)
	}
	if got := d.Detect("Le chat dort tranquillement sur le canapé du salon."); got != "fr" {
		t.Errorf("Detect() = %q, want fr", got)
	}
}
