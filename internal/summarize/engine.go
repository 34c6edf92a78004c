package summarize

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/MrSnakeDoc/readmark/internal/logger"
)

const (
	// MinInputChars is the shortest text worth summarizing.
	MinInputChars = 40
	// NotEnoughContent is returned for inputs under MinInputChars.
	NotEnoughContent = "Not enough content to summarize."
)

// Request is one summarization job.
type Request struct {
	Text           string
	Mode           Mode
	Style          Style
	TargetLanguage string
	Template       string
	// Force bypasses the cache lookup. The fresh result is still stored.
	Force bool
}

type Response struct {
	Summary        string  `json:"summary"`
	LatencySeconds float64 `json:"latencySeconds"`
	Cached         bool    `json:"cached"`
	Source         string  `json:"source"`
	Language       string  `json:"language,omitempty"`
}

// Engine tries each strategy in order and ends with the extractive
// summarizer, so Summarize always returns text.
type Engine struct {
	strategies []Strategy
	cache      *Cache
	detector   LanguageDetector
	log        logger.Logger
	now        func() time.Time
}

type EngineOptions struct {
	Strategies []Strategy
	CacheSize  int
	// Detector is optional.
	Detector LanguageDetector
	Logger   logger.Logger
}

func NewEngine(opts EngineOptions) *Engine {
	log := opts.Logger
	if log == nil {
		log = logger.New("error", false)
	}
	return &Engine{
		strategies: opts.Strategies,
		cache:      NewCache(opts.CacheSize),
		detector:   opts.Detector,
		log:        logger.Named(log, "summarize"),
		now:        time.Now,
	}
}

// Summarize never fails. Cancelling ctx skips the remaining model stages
// and goes straight to the extractive result, which is then not cached so
// the next caller still reaches the model backends.
func (e *Engine) Summarize(ctx context.Context, req Request) Response {
	start := e.now()
	if req.Mode == "" {
		req.Mode = ModeSummarize
	}

	text := strings.Join(strings.Fields(req.Text), " ")
	if len([]rune(text)) < MinInputChars {
		return Response{Summary: NotEnoughContent, Source: SourceGuard}
	}

	key := cacheKey(req, text)
	if !req.Force {
		if hit, ok := e.cache.get(key); ok {
			return Response{
				Summary:        hit.summary,
				LatencySeconds: hit.latency,
				Cached:         true,
				Source:         hit.source,
				Language:       hit.language,
			}
		}
	}

	var lang string
	if e.detector != nil {
		lang = e.detector.Detect(text)
	}

	opts := Options{
		Mode:           req.Mode,
		Style:          req.Style,
		Language:       lang,
		TargetLanguage: req.TargetLanguage,
	}
	summary, source := e.runChain(ctx, BuildPrompt(req, text), opts)
	if summary == "" {
		summary = ApplyStyle(text, req.Style)
		source = SourceExtractive
	}

	resp := Response{
		Summary:        summary,
		LatencySeconds: e.now().Sub(start).Seconds(),
		Source:         source,
		Language:       lang,
	}
	if ctx.Err() != nil {
		return resp
	}
	e.cache.put(cacheEntry{
		key:      key,
		summary:  resp.Summary,
		source:   resp.Source,
		language: resp.Language,
		latency:  resp.LatencySeconds,
	})
	return resp
}

func (e *Engine) runChain(ctx context.Context, prompt string, opts Options) (string, string) {
	for _, st := range e.strategies {
		if ctx.Err() != nil {
			return "", ""
		}
		if !st.Available(ctx) {
			e.log.Debug("strategy unavailable", logger.String("strategy", st.Name()))
			continue
		}

		out, err := st.Run(ctx, prompt, opts)
		if err == nil {
			out = strings.TrimSpace(out)
			if out != "" {
				return out, st.Name()
			}
			err = ErrUnexpectedResult
		}

		e.log.Warn("strategy failed, falling back",
			logger.String("strategy", st.Name()),
			logger.Bool("rate_limited", errors.Is(err, ErrRateLimited)),
			logger.Error(err))

		if b, ok := st.(backoffer); ok {
			if !sleep(ctx, b.FailureBackoff(err)) {
				return "", ""
			}
		}
	}
	return "", ""
}

// sleep waits d or until ctx is done, reporting whether the full wait
// elapsed.
func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// CacheLen exposes the number of cached summaries.
func (e *Engine) CacheLen() int { return e.cache.Len() }
