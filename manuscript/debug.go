package manuscript

import (
	"mkbook/utils/debug"
)

// String returns human readable tree of the document for debug reports.
func (d *Document) String() string {
	tw := debug.NewTreeWriter()
	tw.Line(0, "Document: %d sections, %d issues", len(d.Sections), len(d.Issues))
	for i, s := range d.Sections {
		tw.Line(1, "[%d] %s #%s (line %d)", i, s.Kind, s.Anchor, s.Line)
		tw.TextBlock(2, "Title", s.Title)
		tw.TextBlock(2, "Subtitle", s.Subtitle)
		if s.Author != "" {
			tw.Line(2, "Author: %q draft=%t show=%t", s.Author, s.DraftAuthor, s.ShowAuthor)
		}
		tw.TextBlock(2, "Image", s.AuthorImage)
		for _, p := range s.Parts {
			tw.TextBlock(2, p.Kind.String(), debug.Shorten(p.Text, 60))
		}
	}
	if len(d.Issues) > 0 {
		tw.Line(1, "Issues:")
		for _, is := range d.Issues {
			tw.Line(2, "line %d: %s %q", is.Line, is.Kind, is.Text)
		}
	}
	return tw.String()
}
