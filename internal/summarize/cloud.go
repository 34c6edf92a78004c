package summarize

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/MrSnakeDoc/readmark/internal/utils"
)

// DefaultCloudBackoff is the pause after a cloud failure before the chain
// moves on.
const DefaultCloudBackoff = 600 * time.Millisecond

var (
	ErrRateLimited = errors.New("rate limited")
	ErrUnavailable = errors.New("service unavailable")
)

// HTTPError is a non-2xx answer from a model endpoint.
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// Unwrap classifies the status so callers can use errors.Is.
func (e *HTTPError) Unwrap() error {
	switch {
	case e.StatusCode == http.StatusTooManyRequests:
		return ErrRateLimited
	case e.StatusCode >= 500:
		return ErrUnavailable
	default:
		return nil
	}
}

// CloudConfig describes the remote summarization endpoint.
type CloudConfig struct {
	Endpoint string
	// APIKey is sent as a bearer token.
	APIKey string
	// ClientID, ClientSecret and TokenURL enable the client-credentials
	// flow instead of a static key.
	ClientID     string
	ClientSecret string
	TokenURL     string
	Timeout      time.Duration
	Backoff      time.Duration
}

// Cloud posts {prompt, options} and expects {"output": "..."} back.
type Cloud struct {
	endpoint string
	client   *http.Client
	timeout  time.Duration
	backoff  time.Duration
}

func NewCloud(ctx context.Context, cfg CloudConfig) *Cloud {
	backoff := cfg.Backoff
	if backoff <= 0 {
		backoff = DefaultCloudBackoff
	}
	return &Cloud{
		endpoint: strings.TrimSpace(cfg.Endpoint),
		client:   cloudClient(ctx, cfg),
		timeout:  cfg.Timeout,
		backoff:  backoff,
	}
}

func cloudClient(ctx context.Context, cfg CloudConfig) *http.Client {
	switch {
	case cfg.ClientID != "" && cfg.TokenURL != "":
		cc := clientcredentials.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			TokenURL:     cfg.TokenURL,
		}
		return cc.Client(ctx)
	case cfg.APIKey != "":
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.APIKey, TokenType: "Bearer"})
		return oauth2.NewClient(ctx, ts)
	default:
		return &http.Client{}
	}
}

func (c *Cloud) Name() string { return SourceCloud }

func (c *Cloud) Available(context.Context) bool { return c.endpoint != "" }

func (c *Cloud) FailureBackoff(error) time.Duration { return c.backoff }

func (c *Cloud) Run(ctx context.Context, prompt string, opts Options) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	body, err := json.Marshal(promptBody{Prompt: prompt, Options: opts})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("cloud request: %w", err)
	}
	defer utils.Close(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", &HTTPError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(msg))}
	}

	var out struct {
		Output *string `json:"output"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode cloud result: %w", err)
	}
	if out.Output == nil || strings.TrimSpace(*out.Output) == "" {
		return "", ErrUnexpectedResult
	}
	return *out.Output, nil
}
