package domain

import "time"

// Bookmark is a saved reading/viewing position on a web page.
//
// There is at most one Bookmark per normalized URL (see NormalizeURL).
// Timestamps are epoch milliseconds so records round-trip unchanged
// between the extension and the service.
type Bookmark struct {
	// ─────────────────────────────
	// Identity (immutable)
	// ─────────────────────────────

	// ID is generated on first capture and never changes.
	ID string `json:"id" yaml:"id"`

	// ─────────────────────────────
	// Page description
	// ─────────────────────────────

	// URL is the absolute page URL as last captured (fragment included).
	URL string `json:"url" yaml:"url"`

	// Title defaults to the page title at capture time.
	Title string `json:"title" yaml:"title"`

	// IsVideoPlatform is true for long-form video watch pages.
	IsVideoPlatform bool `json:"isVideoPlatform" yaml:"is_video_platform"`

	// ─────────────────────────────
	// Progress
	// ─────────────────────────────

	// ScrollPosition is the vertical scroll offset in pixels.
	ScrollPosition int64 `json:"scrollPosition" yaml:"scroll_position"`

	// DocumentHeight is the scrollable height minus the viewport height.
	// Zero means unknown; Progress substitutes DefaultDocumentHeight.
	DocumentHeight int64 `json:"documentHeight" yaml:"document_height"`

	// MediaPosition and MediaDuration are set only when the page hosts
	// an audio or video element with a positive duration.
	MediaPosition *float64 `json:"mediaPosition,omitempty" yaml:"media_position,omitempty"`
	MediaDuration *float64 `json:"mediaDuration,omitempty" yaml:"media_duration,omitempty"`

	// ─────────────────────────────
	// User state
	// ─────────────────────────────

	Pinned bool `json:"pinned" yaml:"pinned"`

	// ─────────────────────────────
	// Metadata
	// ─────────────────────────────

	// CreatedAt is set once, on first capture.
	CreatedAt int64 `json:"createdAt" yaml:"created_at"`

	// UpdatedAt is refreshed on every mutation.
	UpdatedAt int64 `json:"updatedAt" yaml:"updated_at"`
}

// CapturePayload is what a page context reports when progress is captured.
// Nil media fields leave the stored values untouched on merge.
type CapturePayload struct {
	URL             string   `json:"url"`
	Title           string   `json:"title"`
	ScrollPosition  int64    `json:"scrollPosition"`
	DocumentHeight  int64    `json:"documentHeight"`
	IsVideoPlatform bool     `json:"isVideoPlatform"`
	MediaPosition   *float64 `json:"mediaPosition,omitempty"`
	MediaDuration   *float64 `json:"mediaDuration,omitempty"`
}

// Clone returns a deep copy so callers can hand records out without sharing
// the media pointers.
func (b *Bookmark) Clone() *Bookmark {
	if b == nil {
		return nil
	}
	c := *b
	if b.MediaPosition != nil {
		v := *b.MediaPosition
		c.MediaPosition = &v
	}
	if b.MediaDuration != nil {
		v := *b.MediaDuration
		c.MediaDuration = &v
	}
	return &c
}

// Merge applies a capture payload on top of the record (shallow override).
// ID, CreatedAt and Pinned are never touched.
func (b *Bookmark) Merge(p CapturePayload, now time.Time) {
	if p.URL != "" {
		b.URL = p.URL
	}
	if p.Title != "" {
		b.Title = p.Title
	}
	b.ScrollPosition = nonNegative(p.ScrollPosition)
	b.DocumentHeight = nonNegative(p.DocumentHeight)
	b.IsVideoPlatform = p.IsVideoPlatform
	if p.MediaPosition != nil {
		v := *p.MediaPosition
		b.MediaPosition = &v
	}
	if p.MediaDuration != nil {
		v := *p.MediaDuration
		b.MediaDuration = &v
	}
	b.UpdatedAt = Millis(now)
}

// Millis converts t to epoch milliseconds.
func Millis(t time.Time) int64 {
	return t.UnixMilli()
}

// Float returns a pointer to v. Handy for optional media fields.
func Float(v float64) *float64 {
	return &v
}

func nonNegative(v int64) int64 {
	if v < 0 {
		return 0
	}
	return v
}

// ProgressUpdate is a live scroll or playback report for an open page.
type ProgressUpdate struct {
	URL            string   `json:"url"`
	Title          string   `json:"title,omitempty"`
	ScrollPosition int64    `json:"scrollPosition"`
	DocumentHeight int64    `json:"documentHeight"`
	MediaPosition  *float64 `json:"mediaPosition,omitempty"`
	MediaDuration  *float64 `json:"mediaDuration,omitempty"`
}

// ApplyProgress folds a live update into the record. Unlike Merge it never
// touches the URL or the video flag; the title follows the page if it changed.
func (b *Bookmark) ApplyProgress(u ProgressUpdate, now time.Time) {
	if u.Title != "" {
		b.Title = u.Title
	}
	b.ScrollPosition = nonNegative(u.ScrollPosition)
	if u.DocumentHeight > 0 {
		b.DocumentHeight = u.DocumentHeight
	}
	if u.MediaPosition != nil {
		v := *u.MediaPosition
		b.MediaPosition = &v
	}
	if u.MediaDuration != nil {
		v := *u.MediaDuration
		b.MediaDuration = &v
	}
	b.UpdatedAt = Millis(now)
}
