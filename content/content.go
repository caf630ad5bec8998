// Package content turns a manuscript into a book prepared for rendering.
package content

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"mkbook/common"
	"mkbook/config"
	"mkbook/css"
	"mkbook/layout"
	"mkbook/manuscript"
	"mkbook/portrait"
	"mkbook/state"
)

// Content is a parsed manuscript together with everything renderers need:
// resolved cover images, page estimates and stable identifier.
type Content struct {
	SrcName  string
	Encoding string
	BookID   uuid.UUID

	Doc     *manuscript.Document
	Images  portrait.Source
	Covers  map[common.CoverPos]string
	Params  layout.Params
	Labels  layout.Labels
	DropCap bool

	// Front is estimated layout of the preface, Main of the stories. Both
	// sequences are numbered from 1.
	Front *layout.Layout
	Main  *layout.Layout
}

// Prepare reads, parses, and prepares manuscript for conversion. Images
// (author portraits and covers) are looked up in images source.
func Prepare(ctx context.Context, r io.Reader, srcName string, images portrait.Source, log *zap.Logger) (*Content, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	env := state.EnvFromContext(ctx)
	cfg := &env.Cfg.Document

	text, enc, err := manuscript.Decode(r, cfg.Manuscript.Encoding)
	if err != nil {
		return nil, fmt.Errorf("unable to decode manuscript: %w", err)
	}
	log.Debug("Manuscript decoded", zap.String("encoding", enc), zap.Int("runes", utf8.RuneCountInString(text)))
	text = manuscript.Normalize(text)

	matcher := portrait.NewMatcher(images, cfg.Images.Extensions, cfg.Images.Covers, log)
	doc, err := manuscript.Parse(text, manuscript.Options{
		Markers: manuscript.Markers{
			Title:       cfg.Manuscript.Markers.Title,
			Author:      cfg.Manuscript.Markers.Author,
			AuthorDraft: cfg.Manuscript.Markers.AuthorDraft,
			Preface:     cfg.Manuscript.Markers.Preface,
		},
		SubheadingMaxRunes: cfg.Manuscript.SubheadingMaxRunes,
		Resolver:           matcher,
	}, log.Named("parser"))
	if err != nil {
		return nil, fmt.Errorf("unable to parse manuscript: %w", err)
	}
	if len(doc.Sections) == 0 {
		return nil, fmt.Errorf("%s: %w", srcName, manuscript.ErrNoSections)
	}
	doc.MarkLastByAuthor(log)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("unable to generate new book UUID: %w", err)
	}

	c := &Content{
		SrcName:  srcName,
		Encoding: enc,
		BookID:   id,
		Doc:      doc,
		Images:   images,
		Covers:   matcher.Covers(),
		Params:   layoutParams(&cfg.Layout, env.DefaultStyle, log),
		Labels: layout.Labels{
			Preface:   cfg.Book.Labels.Preface,
			WrittenBy: cfg.Book.Labels.WrittenBy,
		},
		DropCap: cfg.Render.DropCap,
	}
	c.estimate(log.Named("layout"))

	log.Info("Manuscript prepared",
		zap.Int("stories", len(doc.Stories())),
		zap.Int("authors", len(doc.Authors())),
		zap.Int("issues", len(doc.Issues)),
		zap.Int("covers", len(c.Covers)),
		zap.Int("pages", len(c.Front.Pages)+len(c.Main.Pages)))

	// Save prepared document for debugging
	env.Rpt.StoreData(filepath.Base(srcName)+"_prepared", []byte(c.String()))

	return c, nil
}

// estimate lays out front matter (preface) and main matter (stories) as
// separate page sequences.
func (c *Content) estimate(log *zap.Logger) {
	var front, main [][]layout.Block
	for _, s := range c.Doc.Sections {
		blocks := layout.Blocks(s, c.DropCap, c.Labels)
		if s.Kind == manuscript.KindPreface {
			front = append(front, blocks)
			continue
		}
		main = append(main, blocks)
	}
	c.Front = layout.Estimate(front, c.Params, log)
	c.Main = layout.Estimate(main, c.Params, log)
}

// PageLabel returns estimated page label for the section anchor: roman
// numerals in front matter, arabic numbers otherwise.
func (c *Content) PageLabel(anchor string) (string, bool) {
	if n, ok := c.Front.Anchors[anchor]; ok {
		return layout.Roman(n), true
	}
	if n, ok := c.Main.Anchors[anchor]; ok {
		return fmt.Sprintf("%d", n), true
	}
	return "", false
}

// layoutParams builds estimator cost model from configuration, when
// requested page capacity and line width come from the stylesheet.
func layoutParams(cfg *config.LayoutConfig, style []byte, log *zap.Logger) layout.Params {
	p := layout.Params{
		LinesPerPage:     cfg.LinesPerPage,
		CharsPerLine:     cfg.CharsPerLine,
		HeadingLines:     cfg.HeadingLines,
		HeadingBuffer:    cfg.HeadingBuffer,
		SubheadingLines:  cfg.SubheadingLines,
		SignatureLines:   cfg.SignatureLines,
		DropCapLines:     cfg.DropCapLines,
		ParagraphSpacing: cfg.ParagraphSpacing,
	}
	if !cfg.DeriveFromStylesheet || len(style) == 0 {
		return p
	}

	g := css.NewParser(log).Parse(style, css.DefaultGeometry(), "stylesheet")
	lines, chars := g.Lines(), g.Chars()
	if lines < 5 || chars < 10 {
		log.Warn("Stylesheet page geometry is unusable, keeping configured values",
			zap.Int("lines", lines), zap.Int("chars", chars))
		return p
	}
	p.LinesPerPage, p.CharsPerLine = lines, chars
	log.Debug("Page capacity derived from stylesheet", zap.Int("lines", lines), zap.Int("chars", chars))
	return p
}
