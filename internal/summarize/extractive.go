package summarize

import (
	"math"
	"regexp"
	"sort"
	"strings"
)

// DefaultSentences is the extractive summary length when none is requested.
const DefaultSentences = 5

var (
	sentencePattern = regexp.MustCompile(`[^.!?]+[.!?]*`)
	nonAlnum        = regexp.MustCompile(`[^a-z0-9\s]`)
)

var stopwords = map[string]struct{}{
	"the": {}, "and": {}, "is": {}, "in": {}, "to": {}, "of": {}, "a": {},
	"for": {}, "that": {}, "on": {}, "with": {}, "as": {}, "are": {}, "it": {},
	"this": {}, "was": {}, "by": {}, "an": {}, "be": {}, "or": {}, "from": {},
	"at": {}, "we": {}, "our": {}, "you": {}, "your": {}, "i": {}, "they": {},
	"their": {}, "but": {}, "have": {}, "has": {}, "not": {}, "can": {},
	"will": {}, "which": {}, "if": {}, "then": {}, "so": {}, "than": {},
	"also": {},
}

// Extractive picks the maxSentences most representative sentences of text
// and returns them in document order.
func Extractive(text string, maxSentences int) string {
	return strings.Join(SelectSentences(text, maxSentences, false), " ")
}

// ExtractiveLeadBias is Extractive with a bonus for earlier sentences.
func ExtractiveLeadBias(text string, maxSentences int) string {
	return strings.Join(SelectSentences(text, maxSentences, true), " ")
}

// SelectSentences scores sentences by the corpus frequency of their
// non-stopword tokens, normalized by sqrt(token count), optionally plus
// 1/(1+index). The top maxSentences are returned in their original order.
// It is pure and never fails; blank input yields no sentences.
func SelectSentences(text string, maxSentences int, leadBias bool) []string {
	if maxSentences <= 0 {
		maxSentences = DefaultSentences
	}

	sentences := splitSentences(text)
	if len(sentences) <= maxSentences {
		return sentences
	}

	tokens := make([][]string, len(sentences))
	freq := make(map[string]int)
	for i, s := range sentences {
		tokens[i] = tokenize(s)
		for _, w := range tokens[i] {
			if _, stop := stopwords[w]; !stop {
				freq[w]++
			}
		}
	}

	type scored struct {
		idx   int
		score float64
	}
	ranked := make([]scored, len(sentences))
	for i, words := range tokens {
		sum := 0
		for _, w := range words {
			sum += freq[w]
		}
		n := len(words)
		if n == 0 {
			n = 1
		}
		score := float64(sum) / math.Sqrt(float64(n))
		if leadBias {
			score += 1 / float64(1+i)
		}
		ranked[i] = scored{idx: i, score: score}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})
	top := ranked[:maxSentences]
	sort.Slice(top, func(i, j int) bool {
		return top[i].idx < top[j].idx
	})

	out := make([]string, len(top))
	for i, s := range top {
		out[i] = sentences[s.idx]
	}
	return out
}

// splitSentences splits on terminal punctuation, keeping the terminator.
func splitSentences(text string) []string {
	raw := sentencePattern.FindAllString(text, -1)
	if raw == nil {
		raw = []string{text}
	}
	out := make([]string, 0, len(raw))
	for _, s := range raw {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func tokenize(s string) []string {
	return strings.Fields(nonAlnum.ReplaceAllString(strings.ToLower(s), ""))
}
