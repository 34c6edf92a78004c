package summarize

import (
	"fmt"
	"strings"
)

// Mode selects what the model is asked to do with the text.
type Mode string

const (
	ModeSummarize Mode = "summarize"
	ModeRewrite   Mode = "rewrite"
	ModeTranslate Mode = "translate"
	ModeTemplate  Mode = "template"
)

// TemplatePlaceholder marks where the text goes in a template prompt.
const TemplatePlaceholder = "{{text}}"

const defaultTargetLanguage = "English"

// ParseMode maps user input to a Mode; empty means summarize.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return ModeSummarize, nil
	case ModeSummarize, ModeRewrite, ModeTranslate, ModeTemplate:
		return m, nil
	default:
		return "", fmt.Errorf("unknown mode %q", s)
	}
}

// BuildPrompt renders the model prompt for a request.
func BuildPrompt(req Request, text string) string {
	switch req.Mode {
	case ModeRewrite:
		return "Rewrite the following text to be clearer and more concise while keeping its meaning.\n\n" + text
	case ModeTranslate:
		target := strings.TrimSpace(req.TargetLanguage)
		if target == "" {
			target = defaultTargetLanguage
		}
		return fmt.Sprintf("Translate the following text into %s.\n\n%s", target, text)
	case ModeTemplate:
		tpl := strings.TrimSpace(req.Template)
		if tpl == "" {
			break
		}
		if strings.Contains(tpl, TemplatePlaceholder) {
			return strings.ReplaceAll(tpl, TemplatePlaceholder, text)
		}
		return tpl + "\n\n" + text
	}
	return req.Style.instruction() + "\n\n" + text
}
