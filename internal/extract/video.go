package extract

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/MrSnakeDoc/readmark/internal/domain"
	"github.com/PuerkitoBio/goquery"
)

const (
	minVideoChars      = 50
	maxCaptionSegments = 5
)

// ExtractContent is the page-level extraction entry point. Watch pages of
// the known video platform get a structured rendition (title, description,
// visible captions); everything else goes through ExtractReadableText.
func ExtractContent(p Page, maxChars int) string {
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}

	doc, err := p.Document()
	if err != nil {
		return TooShort
	}

	if domain.IsYouTubeWatch(p.URL) {
		if text := watchPageText(doc, p); text != "" {
			return truncate(text, maxChars)
		}
	}
	return ExtractReadableText(doc, maxChars)
}

// watchPageText returns "" when the structured fields are too thin to be
// worth more than generic extraction.
func watchPageText(doc *goquery.Document, p Page) string {
	title := collapse(doc.Find("h1.title yt-formatted-string").First().Text())
	if title == "" {
		title = strings.TrimSpace(p.Title)
	}
	if title == "" {
		title = collapse(doc.Find("title").First().Text())
	}

	description := collapse(VisibleText(doc.Find("#description").First()))

	var captions []string
	doc.Find(".caption-window, .ytp-caption-segment").EachWithBreak(func(i int, s *goquery.Selection) bool {
		if t := collapse(s.Text()); t != "" {
			captions = append(captions, t)
		}
		return len(captions) < maxCaptionSegments
	})

	text := fmt.Sprintf("%s\n\nDescription: %s\n\nTranscript Snippet: %s",
		title, description, strings.Join(captions, " "))
	if utf8.RuneCountInString(strings.TrimSpace(text)) < minVideoChars {
		return ""
	}

	if m, ok := p.ActiveMedia(); ok {
		text += fmt.Sprintf("\n\nTimestamp: %s / %s", clock(m.Position), clock(m.Duration))
	}
	return text
}

// clock formats seconds as h:mm:ss or m:ss.
func clock(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	total := int(seconds)
	h, m, s := total/3600, (total%3600)/60, total%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
