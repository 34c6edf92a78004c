package summarize

import (
	"fmt"
	"strings"
)

// Style is a presentation hint. It changes how many sentences the
// extractive fallback keeps and how they are laid out, nothing else.
type Style string

const (
	StyleDefault      Style = ""
	StyleBullet       Style = "bullet"
	StyleShort        Style = "short"
	StyleLong         Style = "long"
	StyleKeyTakeaways Style = "key-takeaways"
)

const bulletPrefix = "• "

// ParseStyle maps user input to a Style.
func ParseStyle(s string) (Style, error) {
	switch st := Style(strings.ToLower(strings.TrimSpace(s))); st {
	case StyleDefault, StyleBullet, StyleShort, StyleLong, StyleKeyTakeaways:
		return st, nil
	case "bullets", "bullet-points":
		return StyleBullet, nil
	case "takeaways", "key_takeaways":
		return StyleKeyTakeaways, nil
	default:
		return "", fmt.Errorf("unknown style %q", s)
	}
}

// Sentences is the extractive summary length for the style.
func (s Style) Sentences() int {
	switch s {
	case StyleShort:
		return 2
	case StyleLong:
		return 8
	case StyleKeyTakeaways:
		return 4
	default:
		return DefaultSentences
	}
}

// Format lays out selected sentences.
func (s Style) Format(sentences []string) string {
	switch s {
	case StyleBullet:
		lines := make([]string, len(sentences))
		for i, sent := range sentences {
			lines[i] = bulletPrefix + sent
		}
		return strings.Join(lines, "\n")
	case StyleKeyTakeaways:
		var b strings.Builder
		b.WriteString("Key takeaways:")
		for i, sent := range sentences {
			fmt.Fprintf(&b, "\n%d. %s", i+1, sent)
		}
		return b.String()
	default:
		return strings.Join(sentences, " ")
	}
}

// ApplyStyle runs the lead-biased extractive summarizer sized and laid out
// for the style.
func ApplyStyle(text string, style Style) string {
	return style.Format(SelectSentences(text, style.Sentences(), true))
}

// instruction is the style's wording inside a model prompt.
func (s Style) instruction() string {
	switch s {
	case StyleBullet:
		return "Summarize as a bulleted list of the key points."
	case StyleShort:
		return "Summarize in at most two sentences."
	case StyleLong:
		return "Write a detailed summary covering every main idea."
	case StyleKeyTakeaways:
		return "List the key takeaways as a numbered list."
	default:
		return "Summarize concisely in 4-6 sentences. Provide key points and any steps or takeaways if present."
	}
}
