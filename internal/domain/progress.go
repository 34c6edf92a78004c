package domain

const (
	// DefaultDocumentHeight stands in for an unknown document height so
	// scroll progress never divides by zero.
	DefaultDocumentHeight = 20000

	// Band boundaries, in percent.
	bandMidFloor  = 30.0
	bandHighFloor = 70.0
)

// Band is a coarse progress bucket used for filtering.
type Band string

const (
	BandLow  Band = "low"  // < 30%
	BandMid  Band = "mid"  // 30% – 70%
	BandHigh Band = "high" // >= 70%
)

// Progress returns how far through the page or media the record is, in
// [0,100]. Media progress wins when both position and a positive duration
// are known; otherwise scroll progress is used.
func (b *Bookmark) Progress() float64 {
	if b == nil {
		return 0
	}
	if b.MediaPosition != nil && b.MediaDuration != nil && *b.MediaDuration > 0 {
		return clampPercent(*b.MediaPosition * 100 / *b.MediaDuration)
	}
	height := b.DocumentHeight
	if height <= 0 {
		height = DefaultDocumentHeight
	}
	return clampPercent(float64(b.ScrollPosition) * 100 / float64(height))
}

// Band buckets the record's progress.
func (b *Bookmark) Band() Band {
	return BandFor(b.Progress())
}

// BandFor buckets a progress percentage.
func BandFor(pct float64) Band {
	switch {
	case pct < bandMidFloor:
		return BandLow
	case pct < bandHighFloor:
		return BandMid
	default:
		return BandHigh
	}
}

func clampPercent(v float64) float64 {
	switch {
	case v != v: // NaN
		return 0
	case v < 0:
		return 0
	case v > 100:
		return 100
	default:
		return v
	}
}
