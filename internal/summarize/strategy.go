package summarize

import (
	"context"
	"time"
)

// Source names reported in a Response.
const (
	SourceLocal      = "local"
	SourceCloud      = "cloud"
	SourceExtractive = "extractive"
	SourceGuard      = "guard"
)

// Options travel with a prompt to a model backend.
type Options struct {
	Mode           Mode   `json:"mode"`
	Style          Style  `json:"style,omitempty"`
	Language       string `json:"language,omitempty"`
	TargetLanguage string `json:"targetLanguage,omitempty"`
}

// Strategy is one stage of the fallback chain.
type Strategy interface {
	Name() string
	// Available reports whether the backend can be tried at all.
	Available(ctx context.Context) bool
	Run(ctx context.Context, prompt string, opts Options) (string, error)
}

// backoffer is implemented by stages that want the chain to pause after
// they fail.
type backoffer interface {
	FailureBackoff(err error) time.Duration
}
