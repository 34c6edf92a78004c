package summarize

import (
	"strings"
	"testing"
)

const article = "Go schedulers multiplex goroutines onto threads. " +
	"The weather was pleasant that day. " +
	"Goroutines are cheap and schedulers park them when blocked. " +
	"Lunch was served at noon. " +
	"Work stealing lets idle schedulers take goroutines from busy threads. " +
	"Nobody mentioned the parking lot. " +
	"Preemption keeps long goroutines from starving schedulers."

func TestSelectSentences(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		n        int
		leadBias bool
		want     []string
	}{
		{
			name: "fewer sentences than requested returns all",
			text: "One thing. Two things!",
			n:    3,
			want: []string{"One thing.", "Two things!"},
		},
		{
			name: "no terminal punctuation",
			text: "just a fragment without an ending",
			n:    3,
			want: []string{"just a fragment without an ending"},
		},
		{
			name: "blank",
			text: "   ",
			n:    3,
			want: []string{},
		},
		{
			name: "topical sentences in document order",
			text: article,
			n:    3,
			want: []string{
				"Go schedulers multiplex goroutines onto threads.",
				"Work stealing lets idle schedulers take goroutines from busy threads.",
				"Preemption keeps long goroutines from starving schedulers.",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SelectSentences(tt.text, tt.n, tt.leadBias)
			if len(got) != len(tt.want) {
				t.Fatalf("SelectSentences() = %q, want %q", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("sentence %d = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestSelectSentences_Deterministic(t *testing.T) {
	first := ExtractiveLeadBias(article, 2)
	for i := 0; i < 10; i++ {
		if got := ExtractiveLeadBias(article, 2); got != first {
			t.Fatalf("run %d = %q, want %q", i, got, first)
		}
	}
}

func TestExtractive_PreservesOrder(t *testing.T) {
	got := SelectSentences(article, 4, true)
	last := -1
	for _, s := range got {
		idx := strings.Index(article, s)
		if idx < 0 {
			t.Fatalf("sentence %q not from input", s)
		}
		if idx <= last {
			t.Errorf("sentences out of document order: %q", got)
		}
		last = idx
	}
}

func TestExtractive_LeadBiasFavoursOpening(t *testing.T) {
	text := "Alpha beta. Cat dog. Egg fig. Gamma delta. Gamma."

	if got := Extractive(text, 1); got != "Gamma delta." {
		t.Errorf("Extractive() = %q, want %q", got, "Gamma delta.")
	}
	if got := ExtractiveLeadBias(text, 1); got != "Alpha beta." {
		t.Errorf("ExtractiveLeadBias() = %q, want %q", got, "Alpha beta.")
	}
}

func TestExtractive_NonEmptyForText(t *testing.T) {
	inputs := []string{
		"...",
		"?!",
		"ünïcödé only wörds here",
		strings.Repeat("a. ", 50),
	}
	for _, in := range inputs {
		if got := Extractive(in, 3); got == "" {
			t.Errorf("Extractive(%q) returned empty output", in)
		}
	}
}

func TestStyleFormat(t *testing.T) {
	sentences := []string{"First.", "Second."}

	tests := []struct {
		style Style
		want  string
	}{
		{StyleDefault, "First. Second."},
		{StyleShort, "First. Second."},
		{StyleBullet, "• First.\n• Second."},
		{StyleKeyTakeaways, "Key takeaways:\n1. First.\n2. Second."},
	}
	for _, tt := range tests {
		t.Run(string(tt.style), func(t *testing.T) {
			if got := tt.style.Format(sentences); got != tt.want {
				t.Errorf("Format() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseStyleAndMode(t *testing.T) {
	if s, err := ParseStyle(" Bullets "); err != nil || s != StyleBullet {
		t.Errorf("ParseStyle() = %q, %v", s, err)
	}
	if _, err := ParseStyle("haiku"); err == nil {
		t.Error("ParseStyle() should reject unknown styles")
	}
	if m, err := ParseMode(""); err != nil || m != ModeSummarize {
		t.Errorf("ParseMode(\"\") = %q, %v", m, err)
	}
	if _, err := ParseMode("poem"); err == nil {
		t.Error("ParseMode() should reject unknown modes")
	}
}

func TestBuildPrompt(t *testing.T) {
	tests := []struct {
		name string
		req  Request
		want string
	}{
		{"translate default target", Request{Mode: ModeTranslate}, "Translate the following text into English.\n\nTXT"},
		{"translate target", Request{Mode: ModeTranslate, TargetLanguage: "French"}, "Translate the following text into French.\n\nTXT"},
		{"template placeholder", Request{Mode: ModeTemplate, Template: "Q: {{text}} A:"}, "Q: TXT A:"},
		{"template without placeholder", Request{Mode: ModeTemplate, Template: "Explain"}, "Explain\n\nTXT"},
		{"empty template summarizes", Request{Mode: ModeTemplate, Style: StyleShort}, "Summarize in at most two sentences.\n\nTXT"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BuildPrompt(tt.req, "TXT"); got != tt.want {
				t.Errorf("BuildPrompt() = %q, want %q", got, tt.want)
			}
		})
	}
}
