package css

import (
	"bytes"
	"strconv"
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
	"go.uber.org/zap"
)

// Parser extracts page geometry from print stylesheets.
type Parser struct {
	log *zap.Logger
}

// NewParser creates a new CSS parser.
func NewParser(log *zap.Logger) *Parser {
	if log == nil {
		log = zap.NewNop()
	}
	return &Parser{log: log.Named("css-parser")}
}

// declarations collected from the stylesheet, later ones win as in cascade
type declarations struct {
	page map[string][]css.Token
	body map[string][]css.Token
}

// Parse reads stylesheet and returns geometry. Only unnamed @page rules
// without pseudo classes and rules selecting "body" or "html" outside of
// media blocks (or inside print media blocks) are considered. Anything not
// specified keeps value from base.
func (p *Parser) Parse(data []byte, base Geometry, source ...string) Geometry {
	if len(source) > 0 && source[0] != "" {
		p.log.Debug("Parsing CSS", zap.String("source", source[0]), zap.Int("bytes", len(data)))
	}

	decls := declarations{
		page: make(map[string][]css.Token),
		body: make(map[string][]css.Token),
	}
	parser := css.NewParser(parse.NewInput(bytes.NewReader(data)), false)
	p.parseBlock(parser, &decls, false)

	return p.apply(base, &decls)
}

// parseBlock consumes rules until the end of input or, when nested, the end
// of the enclosing @-rule.
func (p *Parser) parseBlock(parser *css.Parser, decls *declarations, nested bool) {
	for {
		gt, _, data := parser.Next()

		switch gt {
		case css.ErrorGrammar:
			if err := parser.Err(); err != nil && err.Error() != "EOF" {
				p.log.Debug("CSS parse error", zap.Error(err))
			}
			return

		case css.EndAtRuleGrammar:
			if nested {
				return
			}

		case css.BeginAtRuleGrammar:
			atRule := strings.ToLower(string(data))
			prelude := strings.TrimSpace(joinTokens(parser.Values()))
			switch {
			case atRule == "@page" && len(prelude) == 0:
				p.parseDeclarations(parser, decls.page, css.EndAtRuleGrammar)
			case atRule == "@media" && isPrintMedia(prelude):
				p.parseBlock(parser, decls, true)
			default:
				p.log.Debug("Skipping @-rule", zap.String("rule", atRule), zap.String("prelude", prelude))
				skipBlock(parser)
			}

		case css.BeginRulesetGrammar:
			if selectsBody(data, parser.Values()) {
				p.parseDeclarations(parser, decls.body, css.EndRulesetGrammar)
			} else {
				skipBlock(parser)
			}
		}
	}
}

// parseDeclarations stores declarations into props until end grammar. Nested
// blocks (page margin boxes) are skipped.
func (p *Parser) parseDeclarations(parser *css.Parser, props map[string][]css.Token, end css.GrammarType) {
	for {
		gt, _, data := parser.Next()

		switch gt {
		case css.ErrorGrammar, end:
			return

		case css.BeginAtRuleGrammar, css.BeginRulesetGrammar:
			skipBlock(parser)

		case css.DeclarationGrammar:
			name := strings.ToLower(string(data))
			values := significant(parser.Values())
			if len(values) > 0 {
				props[name] = values
			}
		}
	}
}

func (p *Parser) apply(g Geometry, decls *declarations) Geometry {
	// font first, everything else may depend on it
	if v, ok := decls.body["font-size"]; ok {
		if len(v) == 1 {
			if size, ok := toPoints(string(v[0].Data), defaultFontSize); ok && size > 0 {
				ratio := g.LineHeight / g.FontSize
				g.FontSize = size
				g.LineHeight = size * ratio
			} else {
				p.log.Debug("Ignoring font-size", zap.ByteString("value", v[0].Data))
			}
		}
	}
	if v, ok := decls.body["line-height"]; ok && len(v) == 1 {
		if lh, ok := lineHeight(v[0], g.FontSize); ok {
			g.LineHeight = lh
		} else {
			p.log.Debug("Ignoring line-height", zap.ByteString("value", v[0].Data))
		}
	}

	if v, ok := decls.page["size"]; ok {
		if w, h, ok := pageSize(v, g); ok {
			g.Width, g.Height = w, h
		} else {
			p.log.Debug("Ignoring page size", zap.String("value", joinTokens(v)))
		}
	}
	if v, ok := decls.page["margin"]; ok {
		if m, ok := margins(v, g.FontSize); ok {
			g.Margins = m
		} else {
			p.log.Debug("Ignoring page margin", zap.String("value", joinTokens(v)))
		}
	}
	for side, dst := range map[string]*float64{
		"margin-top":    &g.Margins.Top,
		"margin-right":  &g.Margins.Right,
		"margin-bottom": &g.Margins.Bottom,
		"margin-left":   &g.Margins.Left,
	} {
		if v, ok := decls.page[side]; ok && len(v) == 1 {
			if pt, ok := toPoints(string(v[0].Data), g.FontSize); ok {
				*dst = pt
			}
		}
	}

	p.log.Debug("Page geometry",
		zap.Float64("width", g.Width), zap.Float64("height", g.Height),
		zap.Float64("font-size", g.FontSize), zap.Float64("line-height", g.LineHeight),
		zap.Int("lines", g.Lines()), zap.Int("chars", g.Chars()))
	return g
}

func lineHeight(t css.Token, fontSize float64) (float64, bool) {
	value := string(t.Data)
	switch t.TokenType {
	case css.IdentToken:
		if strings.EqualFold(value, "normal") {
			return fontSize * normalLineHeight, true
		}
	case css.NumberToken:
		if f, err := strconv.ParseFloat(value, 64); err == nil && f > 0 {
			return fontSize * f, true
		}
	case css.DimensionToken, css.PercentageToken:
		if pt, ok := toPoints(value, fontSize); ok && pt > 0 {
			return pt, true
		}
	}
	return 0, false
}

// pageSize handles "A5", "A5 landscape", "portrait", "148mm 210mm" and a
// single length for square pages.
func pageSize(values []css.Token, g Geometry) (float64, float64, bool) {
	var (
		lengths     []float64
		named       bool
		w, h        = g.Width, g.Height
		orientation string
	)
	for _, t := range values {
		value := strings.ToLower(string(t.Data))
		switch t.TokenType {
		case css.IdentToken:
			if dims, ok := pageSizes[value]; ok {
				w, h, named = dims[0]*ptPerMM, dims[1]*ptPerMM, true
				continue
			}
			switch value {
			case "portrait", "landscape":
				orientation = value
			case "auto":
			default:
				return 0, 0, false
			}
		case css.DimensionToken, css.NumberToken:
			pt, ok := toPoints(value, g.FontSize)
			if !ok || pt <= 0 {
				return 0, 0, false
			}
			lengths = append(lengths, pt)
		default:
			return 0, 0, false
		}
	}

	switch len(lengths) {
	case 0:
	case 1:
		if named || len(orientation) > 0 {
			return 0, 0, false
		}
		return lengths[0], lengths[0], true
	case 2:
		if named || len(orientation) > 0 {
			return 0, 0, false
		}
		return lengths[0], lengths[1], true
	default:
		return 0, 0, false
	}

	switch orientation {
	case "portrait":
		w, h = min(w, h), max(w, h)
	case "landscape":
		w, h = max(w, h), min(w, h)
	}
	return w, h, true
}

// margins expands 1 to 4 value margin shorthand.
func margins(values []css.Token, em float64) (Box, bool) {
	if len(values) == 0 || len(values) > 4 {
		return Box{}, false
	}
	v := make([]float64, 0, 4)
	for _, t := range values {
		pt, ok := toPoints(string(t.Data), em)
		if !ok {
			return Box{}, false
		}
		v = append(v, pt)
	}
	switch len(v) {
	case 1:
		return Box{v[0], v[0], v[0], v[0]}, true
	case 2:
		return Box{v[0], v[1], v[0], v[1]}, true
	case 3:
		return Box{v[0], v[1], v[2], v[1]}, true
	}
	return Box{v[0], v[1], v[2], v[3]}, true
}

func isPrintMedia(query string) bool {
	for q := range strings.SplitSeq(strings.ToLower(query), ",") {
		fields := strings.Fields(q)
		if len(fields) > 0 && fields[0] == "only" {
			fields = fields[1:]
		}
		if len(fields) == 0 || fields[0] == "not" {
			continue
		}
		if fields[0] == "print" || fields[0] == "all" {
			return true
		}
	}
	return false
}

// selectsBody reports whether any of the comma separated selectors is plain
// "body" or "html".
func selectsBody(data []byte, values []css.Token) bool {
	var sb strings.Builder
	sb.Write(data)
	for _, v := range values {
		sb.Write(v.Data)
	}
	for s := range strings.SplitSeq(sb.String(), ",") {
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "body", "html", ":root":
			return true
		}
	}
	return false
}

// significant drops whitespace, comments and trailing !important.
func significant(tokens []css.Token) []css.Token {
	res := make([]css.Token, 0, len(tokens))
	for _, t := range tokens {
		switch t.TokenType {
		case css.WhitespaceToken, css.CommentToken:
			continue
		case css.DelimToken:
			if string(t.Data) == "!" {
				return res
			}
		}
		res = append(res, t)
	}
	return res
}

func joinTokens(tokens []css.Token) string {
	var sb strings.Builder
	for _, t := range tokens {
		sb.Write(t.Data)
	}
	return sb.String()
}

func skipBlock(parser *css.Parser) {
	depth := 1
	for depth > 0 {
		gt, _, _ := parser.Next()
		switch gt {
		case css.ErrorGrammar:
			return
		case css.BeginAtRuleGrammar, css.BeginRulesetGrammar:
			depth++
		case css.EndAtRuleGrammar, css.EndRulesetGrammar:
			depth--
		}
	}
}
