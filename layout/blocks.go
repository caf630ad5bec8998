package layout

import (
	"mkbook/manuscript"
)

// Labels are texts which take space but do not come from the manuscript.
type Labels struct {
	Preface   string
	WrittenBy string
}

// Blocks converts section to the sequence of blocks as it is going to be
// rendered: title heading, subheadings and paragraphs, and for the last
// story of an author signature followed by portrait page. Signed preface
// gets signature only.
func Blocks(s *manuscript.Section, dropCap bool, labels Labels) []Block {
	title := s.Title
	if s.Kind == manuscript.KindPreface {
		title = labels.Preface
	}
	heading := title
	if s.Subtitle != "" {
		heading += "\n" + s.Subtitle
	}

	blocks := make([]Block, 0, len(s.Parts)+3)
	blocks = append(blocks, Block{Kind: BlockHeading, Text: heading, Anchor: s.Anchor, Level: 2})

	first := true
	for _, p := range s.Parts {
		switch p.Kind {
		case manuscript.PartSubheading:
			blocks = append(blocks, Block{Kind: BlockHeading, Text: p.Text, Level: 3})
		case manuscript.PartParagraph:
			blocks = append(blocks, Block{Kind: BlockParagraph, Text: p.Text, DropCap: dropCap && first && s.Kind == manuscript.KindStory})
			first = false
		}
	}

	switch {
	case s.Kind == manuscript.KindPreface && s.Author != "":
		blocks = append(blocks, Block{Kind: BlockSignature, Text: labels.WrittenBy + " " + s.Author})
	case s.ShowAuthor:
		blocks = append(blocks,
			Block{Kind: BlockSignature, Text: labels.WrittenBy + " " + s.Author},
			Block{Kind: BlockPortrait, Text: s.Author},
		)
	}
	return blocks
}

// Roman returns n in lower case roman numerals, front matter pages are
// numbered this way.
func Roman(n int) string {
	if n <= 0 {
		return ""
	}
	values := []struct {
		v int
		s string
	}{
		{1000, "m"}, {900, "cm"}, {500, "d"}, {400, "cd"},
		{100, "c"}, {90, "xc"}, {50, "l"}, {40, "xl"},
		{10, "x"}, {9, "ix"}, {5, "v"}, {4, "iv"}, {1, "i"},
	}
	var res []byte
	for _, r := range values {
		for n >= r.v {
			res = append(res, r.s...)
			n -= r.v
		}
	}
	return string(res)
}
