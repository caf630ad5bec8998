package manuscript

import (
	"go.uber.org/zap"
)

// MarkLastByAuthor sets ShowAuthor on the last story of every author and
// clears it everywhere else. Stories without author are returned.
func MarkLastByAuthor(sections []*Section) []*Section {
	last := make(map[string]int)
	for i, s := range sections {
		if s.Kind == KindStory && s.Author != "" {
			last[s.Author] = i
		}
	}

	var anonymous []*Section
	for i, s := range sections {
		s.ShowAuthor = s.Kind == KindStory && s.Author != "" && last[s.Author] == i
		if s.Kind == KindStory && s.Author == "" {
			anonymous = append(anonymous, s)
		}
	}
	return anonymous
}

// MarkLastByAuthor runs author backfill over the document recording stories
// without author as issues.
func (d *Document) MarkLastByAuthor(log *zap.Logger) {
	for _, s := range MarkLastByAuthor(d.Sections) {
		d.Issues = append(d.Issues, Issue{Line: s.Line, Kind: IssueMissingAuthor, Text: s.Title})
		log.Warn("Story has no author", zap.String("title", s.Title), zap.Int("line", s.Line))
	}
}
