package manuscript

import (
	"errors"
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// TokenKind classifies a single manuscript line.
type TokenKind int

const (
	TokenBlank TokenKind = iota
	TokenProse
	TokenTitle
	TokenAuthor
	TokenPreface
)

func (k TokenKind) String() string {
	switch k {
	case TokenBlank:
		return "blank"
	case TokenProse:
		return "prose"
	case TokenTitle:
		return "title"
	case TokenAuthor:
		return "author"
	case TokenPreface:
		return "preface"
	}
	return "unknown"
}

// Token is a trimmed manuscript line with its structural meaning. Text holds
// the title for TokenTitle, the name for TokenAuthor and the line itself for
// TokenProse.
type Token struct {
	Kind  TokenKind
	Text  string
	Draft bool // author given with draft marker
	Line  int
}

// Markers are keywords of structural tags: [Title: ...], [Author: ...],
// [AuthorDraft: ...] and [Preface].
type Markers struct {
	Title       string
	Author      string
	AuthorDraft string
	Preface     string
}

// DefaultMarkers returns Hungarian keywords manuscripts are written with.
func DefaultMarkers() Markers {
	return Markers{
		Title:       "CÍM",
		Author:      "SZERZŐ",
		AuthorDraft: "SZERZŐ_TEMP",
		Preface:     "ELŐSZÓ",
	}
}

// Tokenizer recognizes structural tags. Tag-like lines not matching exact
// patterns are prose.
type Tokenizer struct {
	title   *regexp.Regexp
	author  *regexp.Regexp
	preface *regexp.Regexp
	draft   string
}

func NewTokenizer(m Markers) (*Tokenizer, error) {
	if m.Title == "" || m.Author == "" || m.AuthorDraft == "" || m.Preface == "" {
		return nil, errors.New("all structural markers must be defined")
	}
	q := func(s string) string {
		return regexp.QuoteMeta(norm.NFC.String(s))
	}
	return &Tokenizer{
		title:   regexp.MustCompile(`^\[` + q(m.Title) + `:\s*(.+?)\]$`),
		author:  regexp.MustCompile(`^\[(` + q(m.Author) + `|` + q(m.AuthorDraft) + `):\s*(.+?)\]$`),
		preface: regexp.MustCompile(`^\[` + q(m.Preface) + `\]$`),
		draft:   norm.NFC.String(m.AuthorDraft),
	}, nil
}

// Token classifies single line, num is its 1-based position.
func (t *Tokenizer) Token(line string, num int) Token {
	s := strings.TrimSpace(line)
	if s == "" {
		return Token{Kind: TokenBlank, Line: num}
	}
	if t.preface.MatchString(s) {
		return Token{Kind: TokenPreface, Line: num}
	}
	if m := t.title.FindStringSubmatch(s); m != nil {
		return Token{Kind: TokenTitle, Text: strings.TrimSpace(m[1]), Line: num}
	}
	if m := t.author.FindStringSubmatch(s); m != nil {
		return Token{Kind: TokenAuthor, Text: strings.TrimSpace(m[2]), Draft: m[1] == t.draft, Line: num}
	}
	return Token{Kind: TokenProse, Text: s, Line: num}
}

// Tokens splits normalized text into lines and classifies them.
func (t *Tokenizer) Tokens(text string) []Token {
	lines := strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	tokens := make([]Token, 0, len(lines))
	for i, line := range lines {
		tokens = append(tokens, t.Token(line, i+1))
	}
	return tokens
}
