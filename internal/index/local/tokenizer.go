package local

import (
	"strings"
	"unicode"
)

// particleSuffixes are common Korean grammatical particles stripped from the
// end of a word to approximate its stem. At most one suffix is removed, and
// earlier entries take priority. A closed list keeps the heuristic
// conservative; it is not a morphological analyzer.
var particleSuffixes = []string{
	"은", "는", "이", "가", "을", "를", "에", "의", "로", "와", "과", "도", "만",
	"부터", "까지", "에서", "으로", "하여", "하고", "하는", "하면", "한다", "된다",
	"이다", "한", "된", "할", "함", "등", "및",
}

// splitWords breaks text on runs of whitespace and commas.
func splitWords(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return unicode.IsSpace(r) || r == ','
	})
}

// Tokenize splits text into lower-cased words and, for each word, also emits
// a stemmed variant with one trailing particle stripped (when the stripped
// form is non-empty and differs from the word).
func Tokenize(text string) []string {
	words := splitWords(text)
	tokens := make([]string, 0, len(words)*2)
	for _, w := range words {
		lw := strings.ToLower(w)
		tokens = append(tokens, lw)
		if s := stripParticle(lw); s != "" && s != lw {
			tokens = append(tokens, s)
		}
	}
	return tokens
}

// stripParticle removes one trailing particle, preferring the longest match
// (으로 over 로, 에서 over 에). Returns "" when no particle matches or
// stripping would empty the word.
func stripParticle(word string) string {
	best := ""
	for _, suf := range particleSuffixes {
		if len(suf) > len(best) && strings.HasSuffix(word, suf) {
			best = suf
		}
	}
	if best == "" {
		return ""
	}
	return strings.TrimSuffix(word, best)
}

// compoundFragments expands a query part of four or more runes into its
// sliding-window rune bigrams plus the whole part. Shorter parts expand to
// nothing; they are already covered by the exact-substring pass.
func compoundFragments(part string) []string {
	runes := []rune(part)
	if len(runes) < 4 {
		return nil
	}
	frags := make([]string, 0, len(runes))
	for i := 0; i+2 <= len(runes); i++ {
		frags = append(frags, string(runes[i:i+2]))
	}
	return append(frags, part)
}
