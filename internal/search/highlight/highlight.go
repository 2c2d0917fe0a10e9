// Package highlight wraps keyword matches in <mark> spans and normalizes
// newlines for display.
//
// The marker pattern is built once from all keywords as a single escaped
// alternation. Per-keyword sequential replace passes are unsafe: a later
// pass can re-match text inserted by an earlier one, and unescaped input
// opens the door to pathological patterns.
package highlight

import (
	"regexp"
	"strings"
)

const (
	markOpen  = "<mark>"
	markClose = "</mark>"
)

var multiNewline = regexp.MustCompile(`\n\n+`)

// Highlighter applies a precompiled match-and-mark transform.
type Highlighter struct {
	re *regexp.Regexp
}

// New builds a highlighter from the keyword set. Every keyword has its regex
// metacharacters escaped before joining into one case-insensitive
// alternation. An empty keyword set yields a pass-through highlighter.
func New(keywords []string) *Highlighter {
	alts := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		if kw == "" {
			continue
		}
		alts = append(alts, regexp.QuoteMeta(kw))
	}
	if len(alts) == 0 {
		return &Highlighter{}
	}
	// An existing marked span is matched first and passed through unchanged,
	// so re-applying the highlighter never double-wraps.
	pattern := `(?i)` + markOpen + `[^<]*` + markClose + `|` + strings.Join(alts, "|")
	return &Highlighter{re: regexp.MustCompile(pattern)}
}

// Apply marks every keyword occurrence in content and normalizes newlines:
// runs of two or more become a paragraph break, single newlines become
// spaces. With no keywords only the newline normalization runs.
func (h *Highlighter) Apply(content string) string {
	out := content
	if h.re != nil {
		out = h.re.ReplaceAllStringFunc(out, func(m string) string {
			if len(m) >= len(markOpen) && strings.EqualFold(m[:len(markOpen)], markOpen) {
				return m
			}
			return markOpen + m + markClose
		})
	}
	out = multiNewline.ReplaceAllString(out, "<br><br>")
	return strings.ReplaceAll(out, "\n", " ")
}
