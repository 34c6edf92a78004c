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

	"github.com/MrSnakeDoc/readmark/internal/utils"
)

// ErrUnexpectedResult is returned when a backend answers with a shape that
// carries no text.
var ErrUnexpectedResult = errors.New("unexpected model result")

// Capability is an on-device model. Prompt may return a plain string or an
// object carrying a text field.
type Capability interface {
	Available(ctx context.Context) bool
	Prompt(ctx context.Context, prompt string, opts Options) (any, error)
}

// Local runs prompts against an on-device Capability.
type Local struct {
	cap Capability
}

func NewLocal(c Capability) *Local {
	return &Local{cap: c}
}

func (l *Local) Name() string { return SourceLocal }

func (l *Local) Available(ctx context.Context) bool {
	return l.cap != nil && l.cap.Available(ctx)
}

func (l *Local) Run(ctx context.Context, prompt string, opts Options) (string, error) {
	res, err := l.cap.Prompt(ctx, prompt, opts)
	if err != nil {
		return "", err
	}
	return resultText(res)
}

// resultText accepts a bare string or anything with a text field.
func resultText(res any) (string, error) {
	switch v := res.(type) {
	case string:
		if strings.TrimSpace(v) != "" {
			return v, nil
		}
	case map[string]any:
		if s, ok := v["text"].(string); ok && strings.TrimSpace(s) != "" {
			return s, nil
		}
	case interface{ Text() string }:
		if s := v.Text(); strings.TrimSpace(s) != "" {
			return s, nil
		}
	}
	return "", ErrUnexpectedResult
}

// HTTPCapability talks to a model runtime on the local machine. GET
// /health probes it; POST /prompt runs a prompt.
type HTTPCapability struct {
	baseURL string
	client  *http.Client
}

const probeTimeout = 2 * time.Second

func NewHTTPCapability(baseURL string, client *http.Client) *HTTPCapability {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPCapability{baseURL: strings.TrimRight(baseURL, "/"), client: client}
}

func (h *HTTPCapability) Available(ctx context.Context) bool {
	if h.baseURL == "" {
		return false
	}
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.baseURL+"/health", nil)
	if err != nil {
		return false
	}
	resp, err := h.client.Do(req)
	if err != nil {
		return false
	}
	defer utils.Close(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return false
	}

	var probe struct {
		Available *bool `json:"available"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&probe); err != nil || probe.Available == nil {
		// a bare 200 counts as available
		return true
	}
	return *probe.Available
}

func (h *HTTPCapability) Prompt(ctx context.Context, prompt string, opts Options) (any, error) {
	body, err := json.Marshal(promptBody{Prompt: prompt, Options: opts})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.baseURL+"/prompt", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer utils.Close(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &HTTPError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(msg))}
	}

	var out any
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode local result: %w", err)
	}
	return out, nil
}

type promptBody struct {
	Prompt  string  `json:"prompt"`
	Options Options `json:"options"`
}
