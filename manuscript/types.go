package manuscript

import (
	"errors"
	"fmt"
)

// ErrNoSections is returned when manuscript has no recognizable structure.
var ErrNoSections = errors.New("manuscript has no sections")

// Kind of the section.
type Kind int

const (
	KindPreface Kind = iota
	KindStory
)

func (k Kind) String() string {
	switch k {
	case KindPreface:
		return "preface"
	case KindStory:
		return "story"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// PartKind is the type of a content block inside section.
type PartKind int

const (
	PartParagraph PartKind = iota
	PartSubheading
)

func (k PartKind) String() string {
	switch k {
	case PartParagraph:
		return "paragraph"
	case PartSubheading:
		return "subheading"
	}
	return fmt.Sprintf("PartKind(%d)", int(k))
}

func (k PartKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

type Part struct {
	Kind PartKind `yaml:"kind"`
	Text string   `yaml:"text"`
}

// Section is preface or a single story.
type Section struct {
	Kind        Kind   `yaml:"kind"`
	Title       string `yaml:"title,omitempty"`
	Subtitle    string `yaml:"subtitle,omitempty"`
	Author      string `yaml:"author,omitempty"`
	DraftAuthor bool   `yaml:"draft_author,omitempty"`
	Anchor      string `yaml:"anchor"`
	Parts       []Part `yaml:"parts,omitempty"`
	AuthorImage string `yaml:"author_image,omitempty"`
	ShowAuthor  bool   `yaml:"show_author,omitempty"`
	Line        int    `yaml:"line"`
}

func (s *Section) addParagraph(text string) {
	s.Parts = append(s.Parts, Part{Kind: PartParagraph, Text: text})
}

func (s *Section) addSubheading(text string) {
	s.Parts = append(s.Parts, Part{Kind: PartSubheading, Text: text})
}

// IssueKind names a data quality problem found in manuscript.
type IssueKind int

const (
	IssueOrphanLine IssueKind = iota
	IssueOrphanAuthor
	IssueDuplicateAnchor
	IssueDuplicatePreface
	IssueMissingAuthor
	IssueMissingPortrait
)

var issueNames = [...]string{
	IssueOrphanLine:       "orphan-line",
	IssueOrphanAuthor:     "orphan-author",
	IssueDuplicateAnchor:  "duplicate-anchor",
	IssueDuplicatePreface: "duplicate-preface",
	IssueMissingAuthor:    "missing-author",
	IssueMissingPortrait:  "missing-portrait",
}

func (k IssueKind) String() string {
	if k >= 0 && int(k) < len(issueNames) {
		return issueNames[k]
	}
	return fmt.Sprintf("IssueKind(%d)", int(k))
}

func (k IssueKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Issue is a recoverable problem, manuscript is still processed.
type Issue struct {
	Line int       `yaml:"line,omitempty"`
	Kind IssueKind `yaml:"kind"`
	Text string    `yaml:"text"`
}

// Document is the parsed manuscript.
type Document struct {
	Sections []*Section `yaml:"sections"`
	Issues   []Issue    `yaml:"issues,omitempty"`
}

// Preface returns preface section if there is one.
func (d *Document) Preface() *Section {
	for _, s := range d.Sections {
		if s.Kind == KindPreface {
			return s
		}
	}
	return nil
}

// Stories returns story sections in document order.
func (d *Document) Stories() []*Section {
	res := make([]*Section, 0, len(d.Sections))
	for _, s := range d.Sections {
		if s.Kind == KindStory {
			res = append(res, s)
		}
	}
	return res
}

// Authors returns distinct authors in order of appearance.
func (d *Document) Authors() []string {
	seen := make(map[string]bool)
	var res []string
	for _, s := range d.Sections {
		if s.Author != "" && !seen[s.Author] {
			seen[s.Author] = true
			res = append(res, s.Author)
		}
	}
	return res
}
