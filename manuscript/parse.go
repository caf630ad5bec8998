package manuscript

import (
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
)

// DefaultSubheadingMaxRunes is the longest line still considered a subheading.
const DefaultSubheadingMaxRunes = 80

// PortraitResolver finds author image, it is called once per closed story.
type PortraitResolver interface {
	Resolve(author string) (string, bool)
}

// Options controls parsing.
type Options struct {
	Markers            Markers
	SubheadingMaxRunes int
	// Resolver may be nil, portraits are not looked up then.
	Resolver PortraitResolver
}

func DefaultOptions() Options {
	return Options{
		Markers:            DefaultMarkers(),
		SubheadingMaxRunes: DefaultSubheadingMaxRunes,
	}
}

type state int

const (
	stateNoSection state = iota
	stateInPreface
	stateInStory
)

func (s state) String() string {
	switch s {
	case stateInPreface:
		return "in-preface"
	case stateInStory:
		return "in-story"
	}
	return "no-section"
}

// parser holds everything state machine needs between tokens.
type parser struct {
	opts Options
	log  *zap.Logger

	state          state
	cur            *Section
	buf            []string
	expectSubtitle bool

	preface       *Section
	prefaceClosed bool
	anchors       *anchors
	doc           *Document
}

func newParser(opts Options, log *zap.Logger) *parser {
	if opts.SubheadingMaxRunes <= 0 {
		opts.SubheadingMaxRunes = DefaultSubheadingMaxRunes
	}
	return &parser{
		opts:    opts,
		log:     log,
		anchors: newAnchors(),
		doc:     &Document{},
	}
}

// Parse builds document from normalized manuscript text. Malformed content
// never fails parsing, problems are recorded as document issues. Error is
// returned only for unusable options.
func Parse(text string, opts Options, log *zap.Logger) (*Document, error) {
	tz, err := NewTokenizer(opts.Markers)
	if err != nil {
		return nil, err
	}
	p := newParser(opts, log)
	for _, tok := range tz.Tokens(text) {
		p.step(tok)
	}
	p.finish()
	return p.doc, nil
}

// step advances state machine by a single token.
func (p *parser) step(tok Token) {
	switch tok.Kind {
	case TokenBlank:
		p.flush()
	case TokenPreface:
		p.openPreface(tok)
	case TokenTitle:
		p.openStory(tok)
	case TokenAuthor:
		p.closeWithAuthor(tok)
	case TokenProse:
		p.prose(tok)
	}
}

func (p *parser) finish() {
	p.closeSection()
}

// flush turns accumulated lines into a paragraph.
func (p *parser) flush() {
	if p.cur != nil && len(p.buf) > 0 {
		if text := strings.TrimSpace(strings.Join(p.buf, " ")); text != "" {
			p.cur.addParagraph(text)
		}
	}
	p.buf = p.buf[:0]
}

// closeSection flushes buffer and appends open section to the document.
func (p *parser) closeSection() {
	if p.cur == nil {
		return
	}
	p.flush()
	if p.cur == p.preface {
		if !p.prefaceClosed {
			p.doc.Sections = append(p.doc.Sections, p.cur)
			p.prefaceClosed = true
		}
	} else {
		p.doc.Sections = append(p.doc.Sections, p.cur)
	}
	p.cur, p.state, p.expectSubtitle = nil, stateNoSection, false
}

func (p *parser) openPreface(tok Token) {
	if p.preface != nil {
		p.issue(tok.Line, IssueDuplicatePreface, "preface marker repeated, content merged into the first preface")
		if p.cur == p.preface {
			p.flush()
			return
		}
		p.closeSection()
		p.cur, p.state = p.preface, stateInPreface
		return
	}
	p.closeSection()

	anchor, _ := p.anchors.unique(p.opts.Markers.Preface)
	p.preface = &Section{Kind: KindPreface, Anchor: anchor, Line: tok.Line}
	p.cur, p.state = p.preface, stateInPreface
}

func (p *parser) openStory(tok Token) {
	p.closeSection()

	anchor, dup := p.anchors.unique(tok.Text)
	if dup {
		p.issue(tok.Line, IssueDuplicateAnchor, "title "+tok.Text+" repeats, anchor "+anchor+" assigned")
	}
	p.cur = &Section{Kind: KindStory, Title: tok.Text, Anchor: anchor, Line: tok.Line}
	p.state, p.expectSubtitle = stateInStory, true
}

func (p *parser) closeWithAuthor(tok Token) {
	if p.cur == nil {
		p.issue(tok.Line, IssueOrphanAuthor, tok.Text)
		return
	}
	p.flush()
	p.cur.Author, p.cur.DraftAuthor = tok.Text, tok.Draft
	if p.state == stateInStory && p.opts.Resolver != nil {
		if img, ok := p.opts.Resolver.Resolve(tok.Text); ok {
			p.cur.AuthorImage = img
		} else {
			p.issue(tok.Line, IssueMissingPortrait, tok.Text)
		}
	}
	p.closeSection()
}

func (p *parser) prose(tok Token) {
	if p.cur == nil {
		p.issue(tok.Line, IssueOrphanLine, tok.Text)
		return
	}
	if p.expectSubtitle {
		p.cur.Subtitle, p.expectSubtitle = tok.Text, false
		return
	}
	if len(p.buf) == 0 && p.isSubheading(tok.Text) {
		p.cur.addSubheading(tok.Text)
		return
	}
	p.buf = append(p.buf, tok.Text)
}

// isSubheading is a heuristic: short line without sentence punctuation.
// Short prose sentences without punctuation are misclassified.
func (p *parser) isSubheading(s string) bool {
	return utf8.RuneCountInString(s) <= p.opts.SubheadingMaxRunes && !strings.ContainsAny(s, "\t.?!")
}

func (p *parser) issue(line int, kind IssueKind, text string) {
	p.doc.Issues = append(p.doc.Issues, Issue{Line: line, Kind: kind, Text: text})
	p.log.Warn("Manuscript problem", zap.Int("line", line), zap.Stringer("kind", kind), zap.String("text", text), zap.Stringer("state", p.state))
}
