package summarize

import (
	"strings"

	"github.com/pemistahl/lingua-go"
)

// LanguageDetector returns an ISO 639-1 code, or "" when unsure.
type LanguageDetector interface {
	Detect(text string) string
}

var detectable = []lingua.Language{
	lingua.English,
	lingua.French,
	lingua.German,
	lingua.Spanish,
	lingua.Italian,
	lingua.Portuguese,
	lingua.Dutch,
}

type linguaDetector struct {
	d lingua.LanguageDetector
}

// NewLinguaDetector loads models for a fixed set of western languages.
// Building it is slow; share one instance.
func NewLinguaDetector() LanguageDetector {
	d := lingua.NewLanguageDetectorBuilder().
		FromLanguages(detectable...).
		Build()
	return &linguaDetector{d: d}
}

func (l *linguaDetector) Detect(text string) string {
	lang, ok := l.d.DetectLanguageOf(text)
	if !ok {
		return ""
	}
	return strings.ToLower(lang.IsoCode639_1().String())
}
