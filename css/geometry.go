// Package css derives page geometry of the printed book from its stylesheet.
package css

import (
	"math"
	"strconv"
	"strings"
	"unicode"
)

// AverageCharWidth is the average glyph advance of proportional book fonts
// expressed in ems.
const AverageCharWidth = 0.5

// Box holds four sides of page margins in points.
type Box struct {
	Top, Right, Bottom, Left float64
}

// Geometry describes printable area of a page and basic body typography.
// All lengths are in points.
type Geometry struct {
	Width      float64
	Height     float64
	Margins    Box
	FontSize   float64
	LineHeight float64
}

// DefaultGeometry is used for everything stylesheet does not specify: A5 page,
// 20mm margins, 11pt font with 1.4 line height.
func DefaultGeometry() Geometry {
	m := 20 * ptPerMM
	return Geometry{
		Width:      148 * ptPerMM,
		Height:     210 * ptPerMM,
		Margins:    Box{Top: m, Right: m, Bottom: m, Left: m},
		FontSize:   11,
		LineHeight: 11 * 1.4,
	}
}

// Lines returns number of body text lines fitting on a page.
func (g Geometry) Lines() int {
	if g.LineHeight <= 0 {
		return 0
	}
	h := g.Height - g.Margins.Top - g.Margins.Bottom
	return max(0, int(math.Floor(h/g.LineHeight)))
}

// Chars returns approximate number of characters fitting on a body text line.
func (g Geometry) Chars() int {
	if g.FontSize <= 0 {
		return 0
	}
	w := g.Width - g.Margins.Left - g.Margins.Right
	return max(0, int(math.Floor(w/(g.FontSize*AverageCharWidth))))
}

const (
	ptPerIn = 72.0
	ptPerMM = ptPerIn / 25.4
	// CSS initial font size
	defaultFontSize = 12.0
	// "line-height: normal"
	normalLineHeight = 1.2
)

// named page sizes, width x height in millimeters
var pageSizes = map[string][2]float64{
	"a3":     {297, 420},
	"a4":     {210, 297},
	"a5":     {148, 210},
	"a6":     {105, 148},
	"b4":     {250, 353},
	"b5":     {176, 250},
	"jis-b4": {257, 364},
	"jis-b5": {182, 257},
	"letter": {215.9, 279.4},
	"legal":  {215.9, 355.6},
	"ledger": {279.4, 431.8},
}

// toPoints converts CSS length to points. Font relative units are computed
// against em. Unitless zero is accepted, other unitless numbers are not
// lengths.
func toPoints(value string, em float64) (float64, bool) {
	num, unit := splitDimension(value)
	if len(num) == 0 {
		return 0, false
	}
	v, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, false
	}
	switch strings.ToLower(unit) {
	case "":
		return 0, v == 0
	case "pt":
		return v, true
	case "px":
		return v * 0.75, true
	case "pc":
		return v * 12, true
	case "in":
		return v * ptPerIn, true
	case "cm":
		return v * 10 * ptPerMM, true
	case "mm":
		return v * ptPerMM, true
	case "q":
		return v / 4 * ptPerMM, true
	case "em", "rem":
		return v * em, true
	case "%":
		return v / 100 * em, true
	}
	return 0, false
}

func splitDimension(s string) (string, string) {
	end := 0
	for i, r := range s {
		if unicode.IsDigit(r) || r == '.' || r == '-' || r == '+' {
			end = i + 1
			continue
		}
		break
	}
	return s[:end], s[end:]
}
