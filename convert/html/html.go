// Package html renders prepared content as a single HTML document laid out
// for printing by Paged.js. Stylesheet and images are written into the
// "<name>_files" directory next to the document.
package html

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/beevik/etree"
	"go.uber.org/zap"

	"mkbook/common"
	"mkbook/config"
	"mkbook/content"
	"mkbook/manuscript"
	"mkbook/portrait"
)

const (
	stylesheetName = "stylesheet.css"
	imagesDir      = "images"
)

// FilesDir returns name of the assets directory for the output document.
func FilesDir(outputPath string) string {
	return strings.TrimSuffix(outputPath, filepath.Ext(outputPath)) + "_files"
}

type generator struct {
	c   *content.Content
	cfg *config.DocumentConfig
	log *zap.Logger

	filesDir string
	filesRel string
	// image source names to document relative links, empty when image is
	// unusable
	links map[string]string
	used  map[string]bool
}

// Generate writes HTML book to outputPath. Caller is responsible for
// checking that output does not exist.
func Generate(ctx context.Context, c *content.Content, outputPath string, cfg *config.DocumentConfig, style []byte, log *zap.Logger) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	g := &generator{
		c:        c,
		cfg:      cfg,
		log:      log,
		filesDir: FilesDir(outputPath),
		filesRel: filepath.Base(FilesDir(outputPath)),
		links:    make(map[string]string),
		used:     make(map[string]bool),
	}

	log.Info("Generating HTML", zap.String("output", outputPath), zap.Stringer("toc", cfg.TOC.PageNumbers))

	if err := os.MkdirAll(filepath.Join(g.filesDir, imagesDir), 0755); err != nil {
		return fmt.Errorf("unable to create output directory: %w", err)
	}
	if err := os.WriteFile(filepath.Join(g.filesDir, stylesheetName), style, 0644); err != nil {
		return fmt.Errorf("unable to write stylesheet: %w", err)
	}

	doc, body := g.document()

	g.writeCover(body, common.CoverPosFront, cfg.Book.Labels.CoverFront)
	g.writeCover(body, common.CoverPosFrontInner, cfg.Book.Labels.CoverFrontInner)
	g.writeTitlePage(body)
	g.writeImpressum(body)
	g.writeTOC(body)

	if s := c.Doc.Preface(); s != nil {
		g.writePreface(body, s)
	}
	for i, s := range c.Doc.Stories() {
		if err := ctx.Err(); err != nil {
			return err
		}
		g.writeStory(body, s, i == 0)
	}

	g.writeCover(body, common.CoverPosBackInner, cfg.Book.Labels.CoverBackInner)
	g.writeCover(body, common.CoverPosBack, cfg.Book.Labels.CoverBack)

	doc.Indent(2)
	if err := doc.WriteToFile(outputPath); err != nil {
		return fmt.Errorf("unable to write document: %w", err)
	}
	return nil
}

// document creates HTML document structure with head elements and returns
// element to put book content into.
func (g *generator) document() (*etree.Document, *etree.Element) {
	doc := etree.NewDocument()
	// script and the like must never be self closing in HTML
	doc.WriteSettings.CanonicalEndTags = true
	doc.CreateDirective("DOCTYPE html")

	root := doc.CreateElement("html")
	root.CreateAttr("lang", g.cfg.Book.Language)

	head := root.CreateElement("head")
	head.CreateElement("meta").CreateAttr("charset", "UTF-8")
	meta := head.CreateElement("meta")
	meta.CreateAttr("name", "viewport")
	meta.CreateAttr("content", "width=device-width,initial-scale=1.0")
	meta = head.CreateElement("meta")
	meta.CreateAttr("name", "identifier")
	meta.CreateAttr("content", "urn:uuid:"+g.c.BookID.String())

	title := g.cfg.Book.Title
	if g.cfg.Book.Subtitle != "" {
		title += ": " + g.cfg.Book.Subtitle
	}
	head.CreateElement("title").SetText(title)

	link := head.CreateElement("link")
	link.CreateAttr("rel", "stylesheet")
	link.CreateAttr("href", g.assetLink(stylesheetName))

	if g.cfg.Render.PagedJSURL != "" {
		script := head.CreateElement("script")
		script.CreateAttr("src", g.cfg.Render.PagedJSURL)
	}

	body := root.CreateElement("body")
	return doc, body
}

func section(parent *etree.Element, class, id string) *etree.Element {
	s := parent.CreateElement("section")
	s.CreateAttr("class", class)
	if id != "" {
		s.CreateAttr("id", id)
	}
	return s
}

func (g *generator) writeCover(parent *etree.Element, pos common.CoverPos, label string) {
	s := section(parent, "cover cover-"+string(pos), "")
	if src := g.image(g.c.Covers[pos]); src != "" {
		img := s.CreateElement("img")
		img.CreateAttr("src", src)
		img.CreateAttr("alt", label)
		return
	}
	placeholder := s.CreateElement("div")
	placeholder.CreateAttr("class", "placeholder")
	placeholder.SetText("[" + label + "]")
}

func (g *generator) writeTitlePage(parent *etree.Element) {
	div := section(parent, "nonum title-page", "").CreateElement("div")
	div.CreateElement("h1").SetText(g.cfg.Book.Title)
	if g.cfg.Book.Subtitle != "" {
		p := div.CreateElement("p")
		p.CreateAttr("class", "subtitle")
		p.SetText(g.cfg.Book.Subtitle)
	}
}

func (g *generator) writeImpressum(parent *etree.Element) {
	labels := &g.cfg.Book.Labels
	div := section(parent, "nonum impressum", "").CreateElement("div")
	if g.cfg.Book.Editor != "" {
		div.CreateElement("p").SetText(strings.TrimSpace(labels.Editor + " " + g.cfg.Book.Editor))
	}
	if g.cfg.Book.Year != "" {
		p := div.CreateElement("p")
		p.CreateAttr("class", "year")
		p.SetText(g.cfg.Book.Year)
	}
	if labels.Rights != "" {
		p := div.CreateElement("p")
		p.CreateAttr("class", "rights")
		p.SetText(labels.Rights)
	}
}

// writeTOC lists stories (and optionally preface). Depending on the
// configuration page numbers are left out, left to the page layout engine
// (target-counter) or filled with estimated values.
func (g *generator) writeTOC(parent *etree.Element) {
	s := section(parent, "front-matter toc", "")
	s.CreateElement("h2").SetText(g.cfg.Book.Labels.Contents)

	if g.cfg.TOC.IncludePreface {
		if p := g.c.Doc.Preface(); p != nil {
			g.writeTOCEntry(s, g.cfg.Book.Labels.Preface, p.Anchor)
		}
	}
	for _, st := range g.c.Doc.Stories() {
		g.writeTOCEntry(s, st.Title, st.Anchor)
	}
}

func (g *generator) writeTOCEntry(parent *etree.Element, title, anchor string) {
	entry := parent.CreateElement("div")
	entry.CreateAttr("class", "entry")

	t := entry.CreateElement("span")
	t.CreateAttr("class", "title")
	a := t.CreateElement("a")
	a.CreateAttr("href", "#"+anchor)
	a.SetText(title)

	dots := entry.CreateElement("span")
	dots.CreateAttr("class", "dots")

	page := entry.CreateElement("span")
	page.CreateAttr("class", "page")
	switch g.cfg.TOC.PageNumbers {
	case common.TOCPageNumbersDeferred:
		page.CreateAttr("data-target", "#"+anchor)
	case common.TOCPageNumbersEstimated:
		if label, ok := g.c.PageLabel(anchor); ok {
			page.SetText(label)
		}
	}
}

func (g *generator) writePreface(parent *etree.Element, s *manuscript.Section) {
	sec := section(parent, "front-matter preface", s.Anchor)
	sec.CreateElement("h2").SetText(g.cfg.Book.Labels.Preface)
	text := sec.CreateElement("div")
	text.CreateAttr("class", "text")
	g.writeParts(text, s, false)
	if s.Author != "" {
		g.writeSignature(text, s.Author)
	}
}

func (g *generator) writeStory(parent *etree.Element, s *manuscript.Section, first bool) {
	class := "story"
	if first {
		class += " main-start"
	}
	sec := section(parent, class, s.Anchor)
	sec.CreateElement("h2").SetText(s.Title)

	text := sec.CreateElement("div")
	text.CreateAttr("class", "text")
	if s.Subtitle != "" {
		p := text.CreateElement("p")
		p.CreateAttr("class", "subtitle-inline")
		p.SetText(s.Subtitle)
	}
	g.writeParts(text, s, g.c.DropCap)

	if !s.ShowAuthor {
		return
	}
	g.writeSignature(text, s.Author)
	g.writePortrait(parent, s)
}

func (g *generator) writeParts(parent *etree.Element, s *manuscript.Section, dropCap bool) {
	first := true
	for _, part := range s.Parts {
		switch part.Kind {
		case manuscript.PartSubheading:
			parent.CreateElement("h3").SetText(part.Text)
		case manuscript.PartParagraph:
			class := "par"
			if first {
				class += " noindent"
				if dropCap {
					class += " dropcap"
				}
				first = false
			}
			p := parent.CreateElement("p")
			p.CreateAttr("class", class)
			p.SetText(part.Text)
		}
	}
}

func (g *generator) writeSignature(parent *etree.Element, author string) {
	p := parent.CreateElement("p")
	p.CreateAttr("class", "author")
	p.SetText(strings.TrimSpace(g.cfg.Book.Labels.WrittenBy + " " + author))
}

// writePortrait puts author image on a page of its own, when image is
// not available a placeholder keeps the page.
func (g *generator) writePortrait(parent *etree.Element, s *manuscript.Section) {
	labels := &g.cfg.Book.Labels
	fig := parent.CreateElement("figure")
	fig.CreateAttr("class", "author-image")

	if src := g.image(s.AuthorImage); src != "" {
		img := fig.CreateElement("img")
		img.CreateAttr("src", src)
		img.CreateAttr("alt", s.Author)
	} else {
		div := fig.CreateElement("div")
		div.CreateAttr("class", "placeholder")
		div.SetText("[" + strings.TrimSpace(s.Author+" "+labels.PortraitPlaceholder) + "]")
	}
	fig.CreateElement("figcaption").SetText(strings.TrimSpace(labels.PortraitCaption + " " + s.Author))
}

// image copies image from the source into the assets directory (once) and
// returns link to it. Empty name or broken image result in empty link.
func (g *generator) image(name string) string {
	if name == "" || g.c.Images == nil {
		return ""
	}
	if link, ok := g.links[name]; ok {
		return link
	}
	g.links[name] = ""

	img, err := portrait.Prepare(g.c.Images, name, portrait.PrepareOptions{
		Optimize:    g.cfg.Images.Optimize,
		MaxHeight:   g.cfg.Images.MaxHeight,
		JPEGQuality: g.cfg.Images.JPEGQuality,
	}, g.log)
	if err != nil {
		g.log.Warn("Unable to use image", zap.String("name", name), zap.Error(err))
		return ""
	}

	out := g.uniqueName(img.Name)
	if err := os.WriteFile(filepath.Join(g.filesDir, imagesDir, out), img.Data, 0644); err != nil {
		g.log.Warn("Unable to write image", zap.String("name", out), zap.Error(err))
		return ""
	}
	link := g.assetLink(path.Join(imagesDir, out))
	g.links[name] = link
	return link
}

// uniqueName protects from different sources converted to the same name
// (portrait.tif and portrait.jpg both become portrait.jpg).
func (g *generator) uniqueName(name string) string {
	ext := path.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	res := name
	for i := 2; g.used[res]; i++ {
		res = fmt.Sprintf("%s-%d%s", stem, i, ext)
	}
	g.used[res] = true
	return res
}

// assetLink returns URL of the file in the assets directory relative to the
// document.
func (g *generator) assetLink(rel string) string {
	return (&url.URL{Path: path.Join(g.filesRel, rel)}).EscapedPath()
}
