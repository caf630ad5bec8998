// Package portrait associates author names with image files using token set
// similarity and prepares found images for output.
package portrait

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	// SubsetScore is the lowest score of a candidate containing every token
	// of the author name.
	SubsetScore = 0.95
	// MinScore is the lowest score accepted as a match.
	MinScore = 0.5
)

// TokenSet is a set of normalized words of a name.
type TokenSet map[string]struct{}

// Tokens decomposes text, drops diacritics and punctuation, lowercases and
// splits it into words.
func Tokens(text string) TokenSet {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	s, _, err := transform.String(t, text)
	if err != nil {
		s = text
	}
	words := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	set := make(TokenSet, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// Contains reports whether every token of o is in ts.
func (ts TokenSet) Contains(o TokenSet) bool {
	for w := range o {
		if _, ok := ts[w]; !ok {
			return false
		}
	}
	return true
}

// Score returns Jaccard similarity of the two sets in [0, 1], raised to at
// least SubsetScore when candidate contains the whole author name. Empty sets
// never match.
func Score(author, candidate TokenSet) float64 {
	if len(author) == 0 || len(candidate) == 0 {
		return 0
	}
	inter := 0
	for w := range author {
		if _, ok := candidate[w]; ok {
			inter++
		}
	}
	score := float64(inter) / float64(len(author)+len(candidate)-inter)
	if inter == len(author) {
		score = max(score, SubsetScore)
	}
	return score
}
