// Package layout predicts how book content fills fixed size pages without
// real typesetting. Result is only good enough to guess page numbers for the
// table of contents before the page layout engine runs.
package layout

import (
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
)

// BlockKind is type of the laid out item.
type BlockKind int

const (
	BlockHeading BlockKind = iota
	BlockParagraph
	BlockSignature
	BlockPortrait
)

func (k BlockKind) String() string {
	switch k {
	case BlockHeading:
		return "heading"
	case BlockParagraph:
		return "paragraph"
	case BlockSignature:
		return "signature"
	case BlockPortrait:
		return "portrait"
	}
	return "unknown"
}

// Block is a single item to be placed on pages. Anchor is set for headings
// referenced from the table of contents. Level 2 is a section title, deeper
// levels are subheadings.
type Block struct {
	Kind    BlockKind
	Text    string
	Anchor  string
	Level   int
	DropCap bool
}

// Params is the cost model, all values are in lines.
type Params struct {
	LinesPerPage     int
	CharsPerLine     int
	HeadingLines     int
	HeadingBuffer    int
	SubheadingLines  int
	SignatureLines   int
	DropCapLines     int
	ParagraphSpacing int
}

func DefaultParams() Params {
	return Params{
		LinesPerPage:     23,
		CharsPerLine:     75,
		HeadingLines:     4,
		HeadingBuffer:    3,
		SubheadingLines:  2,
		SignatureLines:   3,
		DropCapLines:     1,
		ParagraphSpacing: 1,
	}
}

// Cost returns estimated number of lines block occupies.
func (p Params) Cost(b Block) int {
	switch b.Kind {
	case BlockHeading:
		if b.Level > 2 {
			return p.SubheadingLines
		}
		return p.HeadingLines
	case BlockParagraph:
		n := WrapLines(b.Text, p.CharsPerLine) + p.ParagraphSpacing
		if b.DropCap {
			n += p.DropCapLines
		}
		return n
	case BlockSignature:
		return p.SignatureLines
	case BlockPortrait:
		return p.LinesPerPage
	}
	return 0
}

// need is space which must be available on the page for block to be placed
// there: headings must leave room for the start of following text.
func (p Params) need(b Block) int {
	n := p.Cost(b)
	if b.Kind == BlockHeading {
		n += p.HeadingBuffer
	}
	return n
}

// WrapLines counts lines text takes when greedily wrapped at width
// characters. Words longer than width are split.
func WrapLines(text string, width int) int {
	if width <= 0 {
		width = 1
	}
	lines, cur := 0, 0
	for w := range strings.FieldsSeq(text) {
		n := utf8.RuneCountInString(w)
		switch {
		case cur == 0:
			lines++
		case cur+1+n <= width:
			cur += 1 + n
			continue
		default:
			lines++
		}
		// word starts new line
		lines += (n - 1) / width
		cur = n - (n-1)/width*width
	}
	return lines
}

// Page is a synthetic page. Lines is the estimated usage.
type Page struct {
	Number int
	Lines  int
	Blocks []Block
}

// Layout is result of the estimation.
type Layout struct {
	Pages []Page
	// Anchors maps heading anchors to page numbers, first placement wins.
	Anchors map[string]int
}

// LinesPerPage returns usage of every page in order.
func (l *Layout) LinesPerPage() []int {
	res := make([]int, len(l.Pages))
	for i, p := range l.Pages {
		res[i] = p.Lines
	}
	return res
}

// estimator is the packing context.
type estimator struct {
	p   Params
	cur Page
	out *Layout
}

func (e *estimator) closePage() {
	if len(e.cur.Blocks) == 0 {
		return
	}
	e.out.Pages = append(e.out.Pages, e.cur)
	e.cur = Page{Number: e.cur.Number + 1}
}

func (e *estimator) place(b Block) {
	if b.Kind == BlockPortrait {
		e.closePage()
		e.cur.Blocks, e.cur.Lines = append(e.cur.Blocks, b), e.p.Cost(b)
		e.closePage()
		return
	}
	if e.cur.Lines+e.p.need(b) > e.p.LinesPerPage && len(e.cur.Blocks) > 0 {
		e.closePage()
	}
	e.cur.Blocks = append(e.cur.Blocks, b)
	e.cur.Lines += e.p.Cost(b)
	if b.Kind == BlockHeading && b.Anchor != "" {
		if _, ok := e.out.Anchors[b.Anchor]; !ok {
			e.out.Anchors[b.Anchor] = e.cur.Number
		}
	}
}

// Estimate packs sections into pages numbered from 1, every section starts
// on a new page. The first block on an empty page is always placed whatever
// its cost.
func Estimate(sections [][]Block, p Params, log *zap.Logger) *Layout {
	if p.LinesPerPage <= 0 {
		p.LinesPerPage = DefaultParams().LinesPerPage
	}
	e := &estimator{
		p:   p,
		cur: Page{Number: 1},
		out: &Layout{Anchors: make(map[string]int)},
	}
	for _, blocks := range sections {
		for _, b := range blocks {
			e.place(b)
		}
		e.closePage()
	}
	log.Debug("Pages estimated", zap.Int("sections", len(sections)), zap.Int("pages", len(e.out.Pages)), zap.Ints("lines", e.out.LinesPerPage()))
	return e.out
}
