package portrait

import (
	"path"
	"slices"
	"strings"

	"github.com/maruel/natural"
	"go.uber.org/zap"

	"mkbook/common"
)

// Matcher finds author portraits and reserved cover images in a Source.
type Matcher struct {
	src      Source
	exts     map[string]bool
	covers   map[common.CoverPos]string
	reserved []string
	log      *zap.Logger
}

// NewMatcher creates matcher accepting files with given extensions. covers
// maps cover positions to file name stems; files sharing a cover prefix
// (stem up to and including first underscore) are never portraits.
func NewMatcher(src Source, exts []string, covers map[common.CoverPos]string, log *zap.Logger) *Matcher {
	m := &Matcher{
		src:    src,
		exts:   make(map[string]bool, len(exts)),
		covers: covers,
		log:    log.Named("portrait"),
	}
	for _, e := range exts {
		m.exts[strings.ToLower(e)] = true
	}
	for _, stem := range covers {
		if i := strings.IndexByte(stem, '_'); i >= 0 {
			stem = stem[:i+1]
		}
		if stem != "" {
			m.reserved = append(m.reserved, stem)
		}
	}
	return m
}

// Source returns underlying image source.
func (m *Matcher) Source() Source {
	return m.src
}

// images returns accepted image names in stable natural order.
func (m *Matcher) images() []string {
	names, err := m.src.List()
	if err != nil {
		m.log.Warn("Unable to list images", zap.Error(err))
		return nil
	}
	res := names[:0]
	for _, n := range names {
		if m.exts[strings.ToLower(path.Ext(n))] {
			res = append(res, n)
		}
	}
	slices.SortFunc(res, func(a, b string) int {
		switch {
		case natural.Less(a, b):
			return -1
		case natural.Less(b, a):
			return 1
		}
		return 0
	})
	return res
}

func (m *Matcher) isReserved(name string) bool {
	for _, p := range m.reserved {
		if strings.HasPrefix(name, p) {
			return true
		}
	}
	return false
}

// Match returns the best scoring image for author together with its score.
// First candidate in listing order wins among equal scores.
func (m *Matcher) Match(author string) (string, float64, bool) {
	target := Tokens(author)
	if len(target) == 0 {
		return "", 0, false
	}

	var (
		best      string
		bestScore float64
	)
	for _, name := range m.images() {
		if m.isReserved(name) {
			continue
		}
		tokens := Tokens(strings.TrimSuffix(name, path.Ext(name)))
		if len(tokens) == 0 {
			continue
		}
		if score := Score(target, tokens); score > bestScore {
			best, bestScore = name, score
		}
	}
	if bestScore < MinScore {
		m.log.Debug("No portrait found", zap.String("author", author), zap.String("closest", best), zap.Float64("score", bestScore))
		return "", bestScore, false
	}
	m.log.Debug("Portrait found", zap.String("author", author), zap.String("image", best), zap.Float64("score", bestScore))
	return best, bestScore, true
}

// Resolve makes Matcher usable by the manuscript parser.
func (m *Matcher) Resolve(author string) (string, bool) {
	name, _, ok := m.Match(author)
	return name, ok
}

// Covers returns image names of reserved covers present in the source.
func (m *Matcher) Covers() map[common.CoverPos]string {
	res := make(map[common.CoverPos]string)
	for _, name := range m.images() {
		stem := strings.TrimSuffix(name, path.Ext(name))
		for pos, want := range m.covers {
			if _, found := res[pos]; !found && strings.EqualFold(stem, want) {
				res[pos] = name
			}
		}
	}
	return res
}
