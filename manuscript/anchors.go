package manuscript

import (
	"fmt"

	"github.com/gosimple/slug"
)

const anchorPrefix = "sec-"

// anchors hands out document unique identifiers derived from titles.
type anchors struct {
	used map[string]bool
}

func newAnchors() *anchors {
	return &anchors{used: make(map[string]bool)}
}

// unique returns anchor for title and true when suffix had to be added to
// avoid collision.
func (a *anchors) unique(title string) (string, bool) {
	s := slug.Make(title)
	if s == "" {
		s = "section"
	}
	base := anchorPrefix + s
	if !a.used[base] {
		a.used[base] = true
		return base, false
	}
	for n := 2; ; n++ {
		candidate := fmt.Sprintf("%s-%d", base, n)
		if !a.used[candidate] {
			a.used[candidate] = true
			return candidate, true
		}
	}
}
