package manuscript

import (
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

type mapResolver map[string]string

func (m mapResolver) Resolve(author string) (string, bool) {
	img, ok := m[author]
	return img, ok
}

func parse(t *testing.T, text string, opts Options) *Document {
	t.Helper()
	doc, err := Parse(Normalize(text), opts, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return doc
}

func hasIssue(doc *Document, kind IssueKind) bool {
	for _, is := range doc.Issues {
		if is.Kind == kind {
			return true
		}
	}
	return false
}

func TestParse_EndToEnd(t *testing.T) {
	text := "[CÍM: Alma]\nSubtitle line\n\nFirst para.\n\n[SZERZŐ: Kovács Éva]\n[CÍM: Körte]\n\nSecond story para.\n\n[SZERZŐ: Kovács Éva]"

	doc := parse(t, text, DefaultOptions())
	doc.MarkLastByAuthor(zap.NewNop())

	if len(doc.Sections) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(doc.Sections))
	}
	alma, korte := doc.Sections[0], doc.Sections[1]

	if alma.Kind != KindStory || alma.Title != "Alma" || korte.Kind != KindStory || korte.Title != "Körte" {
		t.Fatalf("unexpected sections: %+v, %+v", alma, korte)
	}
	if alma.Author != "Kovács Éva" || korte.Author != "Kovács Éva" {
		t.Errorf("authors = %q, %q", alma.Author, korte.Author)
	}
	if alma.ShowAuthor || !korte.ShowAuthor {
		t.Errorf("ShowAuthor = %t, %t, want false, true", alma.ShowAuthor, korte.ShowAuthor)
	}
	if alma.Subtitle != "Subtitle line" {
		t.Errorf("Alma subtitle = %q", alma.Subtitle)
	}
	if len(alma.Parts) != 1 || alma.Parts[0] != (Part{Kind: PartParagraph, Text: "First para."}) {
		t.Errorf("Alma parts = %+v", alma.Parts)
	}
	if alma.Anchor != "sec-alma" || korte.Anchor != "sec-korte" {
		t.Errorf("anchors = %q, %q", alma.Anchor, korte.Anchor)
	}
}

func TestParse_OrphanLine(t *testing.T) {
	doc := parse(t, "lonely line\n[CÍM: A]\nsub\nSome text.\n", DefaultOptions())

	if len(doc.Sections) != 1 {
		t.Fatalf("expected 1 section, got %d", len(doc.Sections))
	}
	for _, s := range doc.Sections {
		if s.Title == "lonely line" || s.Subtitle == "lonely line" {
			t.Error("orphan line leaked into section")
		}
		for _, p := range s.Parts {
			if strings.Contains(p.Text, "lonely line") {
				t.Error("orphan line leaked into parts")
			}
		}
	}
	if !hasIssue(doc, IssueOrphanLine) {
		t.Error("orphan line not reported")
	}
}

func TestParse_OnlyOrphans(t *testing.T) {
	doc := parse(t, "one\ntwo\n[SZERZŐ: Nobody]\n", DefaultOptions())
	if len(doc.Sections) != 0 {
		t.Fatalf("expected no sections, got %d", len(doc.Sections))
	}
	if !hasIssue(doc, IssueOrphanAuthor) {
		t.Error("orphan author not reported")
	}
}

func TestParse_SubtitleSingleShot(t *testing.T) {
	doc := parse(t, "[CÍM: T]\nFirst line.\nSecond line goes on.\nThird.\n", DefaultOptions())

	s := doc.Sections[0]
	if s.Subtitle != "First line." {
		t.Errorf("Subtitle = %q", s.Subtitle)
	}
	if len(s.Parts) != 1 || s.Parts[0].Text != "Second line goes on. Third." {
		t.Errorf("Parts = %+v", s.Parts)
	}
}

func TestParse_SubtitleAfterBlank(t *testing.T) {
	// blank lines do not cancel subtitle capture
	doc := parse(t, "[CÍM: T]\n\n\nLate subtitle\nText.\n", DefaultOptions())
	if doc.Sections[0].Subtitle != "Late subtitle" {
		t.Errorf("Subtitle = %q", doc.Sections[0].Subtitle)
	}
}

func TestParse_Subheadings(t *testing.T) {
	text := "[CÍM: T]\nsub\n\nChapter one\nIt was a dark night.\nStill dark\n\nShort line\n\n" +
		strings.Repeat("x", 81) + "\n\nwith\ttab\n"
	doc := parse(t, text, DefaultOptions())

	want := []Part{
		{Kind: PartSubheading, Text: "Chapter one"},
		{Kind: PartParagraph, Text: "It was a dark night. Still dark"},
		{Kind: PartSubheading, Text: "Short line"},
		{Kind: PartParagraph, Text: strings.Repeat("x", 81)},
		{Kind: PartParagraph, Text: "with\ttab"},
	}
	got := doc.Sections[0].Parts
	if len(got) != len(want) {
		t.Fatalf("Parts = %+v, want %+v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("part %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestParse_SubheadingLengthOption(t *testing.T) {
	opts := DefaultOptions()
	opts.SubheadingMaxRunes = 5
	doc := parse(t, "[CÍM: T]\nsub\n\nÁrvíz\n\nÁrvíztűrő\n", opts)

	parts := doc.Sections[0].Parts
	if len(parts) != 2 || parts[0].Kind != PartSubheading || parts[1].Kind != PartParagraph {
		t.Errorf("Parts = %+v", parts)
	}
}

func TestParse_TitleCount(t *testing.T) {
	inputs := []string{
		"[CÍM: A]",
		"[CÍM: A]\n[CÍM: B]\n[CÍM: C]",
		"[CÍM: A]\ntext.\n[SZERZŐ: X]\nstray\n[CÍM: B]\nmore.\n",
		"[ELŐSZÓ]\nintro.\n[CÍM: A]\n[SZERZŐ: X]\n[CÍM: A]\n[SZERZŐ_TEMP: Y]\n[CÍM: B]",
		"orphan\n[CÍM: A]\n\n\n[CÍM Broken]\n[CÍM: B]\n",
	}
	for _, in := range inputs {
		doc := parse(t, in, DefaultOptions())
		if got, want := len(doc.Stories()), strings.Count(in, "[CÍM:"); got != want {
			t.Errorf("%q: %d stories, want %d", in, got, want)
		}
	}
}

func TestParse_MalformedTagIsProse(t *testing.T) {
	doc := parse(t, "[CÍM: A]\nsub\n[CÍM Alma]\n[SZERZŐ:]\n", DefaultOptions())
	if len(doc.Sections) != 1 {
		t.Fatalf("expected 1 section, got %d", len(doc.Sections))
	}
	parts := doc.Sections[0].Parts
	if len(parts) != 2 || parts[0].Text != "[CÍM Alma]" || parts[1].Text != "[SZERZŐ:]" {
		t.Errorf("Parts = %+v", parts)
	}
}

func TestParse_DuplicateAnchors(t *testing.T) {
	doc := parse(t, "[CÍM: Alma]\n[CÍM: Alma]\n[CÍM: Alma 2]\n[CÍM: !!!]\n", DefaultOptions())

	seen := make(map[string]bool)
	for _, s := range doc.Sections {
		if seen[s.Anchor] {
			t.Errorf("anchor %q is not unique", s.Anchor)
		}
		seen[s.Anchor] = true
	}
	if doc.Sections[1].Anchor != "sec-alma-2" {
		t.Errorf("second anchor = %q", doc.Sections[1].Anchor)
	}
	if doc.Sections[3].Anchor != "sec-section" {
		t.Errorf("anchor for title without letters = %q", doc.Sections[3].Anchor)
	}
	if !hasIssue(doc, IssueDuplicateAnchor) {
		t.Error("duplicate anchor not reported")
	}
}

func TestParse_Preface(t *testing.T) {
	text := "[ELŐSZÓ]\nIntro text.\n[CÍM: A]\nS\n[SZERZŐ: X]\n[ELŐSZÓ]\nMore intro.\n"
	doc := parse(t, text, DefaultOptions())

	if len(doc.Sections) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(doc.Sections))
	}
	pre := doc.Preface()
	if pre == nil || pre != doc.Sections[0] {
		t.Fatal("preface must stay first")
	}
	if pre.Title != "" || pre.Subtitle != "" || pre.Anchor != "sec-eloszo" {
		t.Errorf("preface = %+v", pre)
	}
	if len(pre.Parts) != 2 || pre.Parts[1].Text != "More intro." {
		t.Errorf("preface parts = %+v", pre.Parts)
	}
	if !hasIssue(doc, IssueDuplicatePreface) {
		t.Error("duplicate preface not reported")
	}
}

func TestParse_Authors(t *testing.T) {
	text := "[CÍM: A]\ns\n[SZERZŐ_TEMP: Draft Author]\n[CÍM: B]\ns\n[SZERZŐ: Nagy Béla]\n[ELŐSZÓ]\nintro.\n[SZERZŐ: Editor]\n"
	opts := DefaultOptions()
	opts.Resolver = mapResolver{"Nagy Béla": "images/nagy_bela.jpg", "Editor": "images/editor.jpg"}
	doc := parse(t, text, opts)

	a, b, pre := doc.Sections[0], doc.Sections[1], doc.Sections[2]
	if !a.DraftAuthor || a.Author != "Draft Author" || a.AuthorImage != "" {
		t.Errorf("A = %+v", a)
	}
	if b.DraftAuthor || b.AuthorImage != "images/nagy_bela.jpg" {
		t.Errorf("B = %+v", b)
	}
	if pre.Author != "Editor" || pre.AuthorImage != "" {
		t.Errorf("preface portrait must not be resolved: %+v", pre)
	}
	if !hasIssue(doc, IssueMissingPortrait) {
		t.Error("missing portrait not reported")
	}
	if got := doc.Authors(); len(got) != 3 {
		t.Errorf("Authors() = %v", got)
	}
}

func TestParse_EmptyParagraphsSkipped(t *testing.T) {
	doc := parse(t, "[CÍM: A]\nsub\n \n\t\n\n\nText.\n   \n", DefaultOptions())
	for _, p := range doc.Sections[0].Parts {
		if strings.TrimSpace(p.Text) == "" {
			t.Error("empty part inserted")
		}
	}
}

func TestParse_CustomMarkers(t *testing.T) {
	opts := DefaultOptions()
	opts.Markers = Markers{Title: "TITLE", Author: "AUTHOR", AuthorDraft: "AUTHOR?", Preface: "PREFACE"}
	doc := parse(t, "[PREFACE]\nHi.\n[TITLE: One]\nsub\n[AUTHOR?: Me]\n", opts)

	if len(doc.Sections) != 2 || doc.Sections[1].Title != "One" || !doc.Sections[1].DraftAuthor {
		t.Errorf("sections = %+v", doc.Sections)
	}
}

func TestParse_BadOptions(t *testing.T) {
	if _, err := Parse("", Options{}, zap.NewNop()); err == nil {
		t.Error("expected error for empty markers")
	}
}

func TestDocument_String(t *testing.T) {
	doc := parse(t, "[CÍM: Alma]\nsub\nText.\n[SZERZŐ: X]\nstray\n", DefaultOptions())
	out := doc.String()
	for _, want := range []string{"Document: 1 sections, 1 issues", "#sec-alma", `Title: "Alma"`, "orphan-line"} {
		if !strings.Contains(out, want) {
			t.Errorf("String() missing %q:\n%s", want, out)
		}
	}
}
