package convert

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/beevik/etree"
	yaml "gopkg.in/yaml.v3"

	"mkbook/common"
	"mkbook/convert/html"
)

func TestBuild_HTML(t *testing.T) {
	ctx, env := setupTestEnv(t)

	root := t.TempDir()
	writeTree(t, filepath.Join(root, "book"), bookFiles(t, ""))
	in, err := Locate(ctx, filepath.Join(root, "book"), &env.Cfg.Document)
	if err != nil {
		t.Fatal(err)
	}

	dst := filepath.Join(root, "out")
	out, err := Build(ctx, in, dst, common.OutputFmtHtml, env.Log)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if out != filepath.Join(dst, "text.html") {
		t.Errorf("output = %q", out)
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromFile(out); err != nil {
		t.Fatalf("unable to read result: %v", err)
	}
	if n := len(doc.FindElements("//div[@class='entry']")); n != 2 {
		t.Errorf("expected 2 TOC entries, got %d", n)
	}
	if n := len(doc.FindElements("//figure[@class='author-image']")); n != 2 {
		t.Errorf("expected 2 portraits, got %d", n)
	}

	style, err := os.ReadFile(filepath.Join(html.FilesDir(out), "stylesheet.css"))
	if err != nil {
		t.Fatalf("stylesheet was not written: %v", err)
	}
	if !bytes.Equal(style, DefaultStylesheet()) {
		t.Error("default stylesheet expected")
	}
	if _, err := os.Stat(filepath.Join(html.FilesDir(out), "images", "kiss_anna.png")); err != nil {
		t.Errorf("portrait was not copied: %v", err)
	}
}

func TestBuild_Archive(t *testing.T) {
	ctx, env := setupTestEnv(t)

	root := t.TempDir()
	arc := filepath.Join(root, "bundle.zip")
	writeZip(t, arc, bookFiles(t, "book/"))
	in, err := Locate(ctx, filepath.Join(arc, "book"), &env.Cfg.Document)
	if err != nil {
		t.Fatal(err)
	}

	out, err := Build(ctx, in, root, common.OutputFmtHtml, env.Log)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(html.FilesDir(out), "images", "kiss_anna.png")); err != nil {
		t.Errorf("portrait from archive was not copied: %v", err)
	}
}

func TestBuild_YAML(t *testing.T) {
	ctx, env := setupTestEnv(t)
	env.Cfg.Document.TOC.IncludePreface = true

	root := t.TempDir()
	writeTree(t, filepath.Join(root, "book"), bookFiles(t, ""))
	in, err := Locate(ctx, filepath.Join(root, "book"), &env.Cfg.Document)
	if err != nil {
		t.Fatal(err)
	}

	out, err := Build(ctx, in, root, common.OutputFmtYaml, env.Log)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if filepath.Ext(out) != ".yaml" {
		t.Errorf("output = %q", out)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	var s struct {
		BookID   string           `yaml:"book_id"`
		Source   string           `yaml:"source"`
		Encoding string           `yaml:"encoding"`
		Layout   layoutSummary    `yaml:"layout"`
		TOC      []tocEntry       `yaml:"toc"`
		Sections []map[string]any `yaml:"sections"`
	}
	if err := yaml.Unmarshal(data, &s); err != nil {
		t.Fatalf("result is not valid yaml: %v", err)
	}
	if s.Source != "text.txt" || s.Encoding != "utf-8" || s.BookID == "" {
		t.Errorf("unexpected header: %q %q %q", s.Source, s.Encoding, s.BookID)
	}
	if len(s.Sections) != 3 {
		t.Fatalf("expected 3 sections, got %d", len(s.Sections))
	}
	if len(s.TOC) != 3 || s.TOC[0].Title != "Előszó" || s.TOC[0].Page != "i" {
		t.Fatalf("unexpected toc: %+v", s.TOC)
	}
	if s.TOC[1].Page != "1" || s.TOC[1].Author != "Kiss Anna" {
		t.Errorf("unexpected first story entry: %+v", s.TOC[1])
	}
	// portrait page follows the first story
	if s.TOC[2].Page != "3" {
		t.Errorf("second story page = %q, want 3", s.TOC[2].Page)
	}
	if !strings.Contains(string(data), "missing-portrait") {
		t.Error("missing portrait of Nagy Béla should be reported")
	}

	l := s.Layout
	if len(l.FrontLines) != l.FrontPages || len(l.MainLines) != l.MainPages || l.FrontPages != 1 {
		t.Fatalf("page usage does not match page counts: %+v", l)
	}
	// two stories, each followed by its portrait page
	if l.MainPages != 4 {
		t.Errorf("main pages = %d, want 4", l.MainPages)
	}
	for i, n := range append(l.FrontLines, l.MainLines...) {
		if n <= 0 || n > l.LinesPerPage {
			t.Errorf("page %d uses %d lines of %d", i, n, l.LinesPerPage)
		}
	}
}

func TestBuild_Overwrite(t *testing.T) {
	ctx, env := setupTestEnv(t)

	root := t.TempDir()
	writeTree(t, filepath.Join(root, "book"), bookFiles(t, ""))
	in, err := Locate(ctx, filepath.Join(root, "book"), &env.Cfg.Document)
	if err != nil {
		t.Fatal(err)
	}

	out, err := Build(ctx, in, root, common.OutputFmtHtml, env.Log)
	if err != nil {
		t.Fatalf("first Build() error = %v", err)
	}
	stale := filepath.Join(html.FilesDir(out), "images", "stale.png")
	if err := os.WriteFile(stale, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Build(ctx, in, root, common.OutputFmtHtml, env.Log); err == nil || !strings.Contains(err.Error(), "already exists") {
		t.Fatalf("expected existing output error, got %v", err)
	}

	env.Overwrite = true
	if _, err := Build(ctx, in, root, common.OutputFmtHtml, env.Log); err != nil {
		t.Fatalf("Build() with overwrite error = %v", err)
	}
	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Error("assets directory should be recreated on overwrite")
	}
}

func TestBuild_EmptyManuscript(t *testing.T) {
	ctx, env := setupTestEnv(t)

	root := t.TempDir()
	writeTree(t, root, map[string][]byte{"text.txt": []byte("csak szöveg\n")})
	in, err := Locate(ctx, root, &env.Cfg.Document)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Build(ctx, in, root, common.OutputFmtHtml, env.Log); err == nil {
		t.Fatal("expected error for manuscript without sections")
	}
	if _, err := os.Stat(filepath.Join(root, "text.html")); !os.IsNotExist(err) {
		t.Error("nothing should be written")
	}
}

func TestPrepareEnv_Stylesheet(t *testing.T) {
	_, env := setupTestEnv(t)

	path := filepath.Join(t.TempDir(), "book.css")
	if err := os.WriteFile(path, []byte("@page { size: a5 }"), 0644); err != nil {
		t.Fatal(err)
	}
	env.Cfg.Document.Render.StylesheetPath = path
	if err := PrepareEnv(env); err != nil {
		t.Fatalf("PrepareEnv() error = %v", err)
	}
	if string(env.DefaultStyle) != "@page { size: a5 }" {
		t.Errorf("DefaultStyle = %q", env.DefaultStyle)
	}

	env.Cfg.Document.Render.StylesheetPath = filepath.Join(t.TempDir(), "missing.css")
	if err := PrepareEnv(env); err == nil {
		t.Error("expected error for missing stylesheet")
	}
}
