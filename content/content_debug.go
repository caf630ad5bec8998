package content

import (
	"maps"
	"slices"
	"sort"

	"github.com/maruel/natural"

	"mkbook/layout"
	"mkbook/utils/debug"
)

// String returns a readable tree of the whole Content starting with parsed
// manuscript. It exists solely for manual inspection during debugging.
func (c *Content) String() string {
	if c == nil {
		return "<nil Content>"
	}

	tw := debug.NewTreeWriter()
	tw.Line(0, "Book %s from %q (%s)", c.BookID, c.SrcName, c.Encoding)
	tw.Line(1, "Params: %+v", c.Params)
	if len(c.Covers) > 0 {
		tw.Line(1, "Covers: %d", len(c.Covers))
		positions := slices.Collect(maps.Keys(c.Covers))
		slices.Sort(positions)
		for _, pos := range positions {
			tw.Line(2, "%s: %q", pos, c.Covers[pos])
		}
	}
	out := tw.String() + "\n" + c.Doc.String()

	for _, l := range []struct {
		name string
		lay  *layout.Layout
	}{{"Front matter", c.Front}, {"Main matter", c.Main}} {
		if l.lay == nil {
			continue
		}
		tw := debug.NewTreeWriter()
		tw.Line(0, "%s: %d pages", l.name, len(l.lay.Pages))
		for _, p := range l.lay.Pages {
			tw.Line(1, "Page %d: %d lines, %d blocks", p.Number, p.Lines, len(p.Blocks))
		}
		keys := slices.Collect(maps.Keys(l.lay.Anchors))
		sort.Sort(natural.StringSlice(keys))
		for _, k := range keys {
			tw.Line(1, "Anchor[%q] page %d", k, l.lay.Anchors[k])
		}
		out += "\n" + tw.String()
	}
	return out
}
