package extract

import (
	"fmt"
	"math"
	"strings"

	"github.com/MrSnakeDoc/readmark/internal/domain"
	"github.com/PuerkitoBio/goquery"
)

// MediaState is the playback state of one audio or video element.
type MediaState struct {
	Position float64 `json:"position"`
	Duration float64 `json:"duration"`
}

// Page is a snapshot of a loaded page as reported by the page context.
type Page struct {
	URL            string       `json:"url"`
	Title          string       `json:"title,omitempty"`
	HTML           string       `json:"html,omitempty"`
	ScrollY        int64        `json:"scrollY"`
	ScrollHeight   int64        `json:"scrollHeight"`
	ViewportHeight int64        `json:"viewportHeight"`
	Media          []MediaState `json:"media,omitempty"`
}

// Document parses the snapshot HTML.
func (p *Page) Document() (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(p.HTML))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return doc, nil
}

// ActiveMedia returns the first element exposing a positive duration.
func (p *Page) ActiveMedia() (MediaState, bool) {
	for _, m := range p.Media {
		if m.Duration > 0 && !math.IsInf(m.Duration, 0) && !math.IsNaN(m.Duration) {
			return m, true
		}
	}
	return MediaState{}, false
}

// CaptureProgress builds the capture payload for a page.
func CaptureProgress(p Page) domain.CapturePayload {
	title := strings.TrimSpace(p.Title)
	if title == "" && p.HTML != "" {
		if doc, err := p.Document(); err == nil {
			title = collapse(doc.Find("title").First().Text())
		}
	}

	height := p.ScrollHeight - p.ViewportHeight
	if height < 0 {
		height = 0
	}

	payload := domain.CapturePayload{
		URL:             p.URL,
		Title:           title,
		ScrollPosition:  p.ScrollY,
		DocumentHeight:  height,
		IsVideoPlatform: domain.IsVideoPlatform(p.URL),
	}
	if m, ok := p.ActiveMedia(); ok {
		payload.MediaPosition = domain.Float(math.Max(m.Position, 0))
		payload.MediaDuration = domain.Float(m.Duration)
	}
	return payload
}

// ProgressUpdate builds a live progress report for a page.
func ProgressUpdate(p Page) domain.ProgressUpdate {
	c := CaptureProgress(p)
	return domain.ProgressUpdate{
		URL:            c.URL,
		Title:          strings.TrimSpace(p.Title),
		ScrollPosition: c.ScrollPosition,
		DocumentHeight: c.DocumentHeight,
		MediaPosition:  c.MediaPosition,
		MediaDuration:  c.MediaDuration,
	}
}
