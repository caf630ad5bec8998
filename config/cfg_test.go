package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mkbook/common"
)

func TestLoadConfiguration_NoFile(t *testing.T) {
	cfg, err := LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() with empty path error = %v", err)
	}
	if cfg == nil {
		t.Fatal("LoadConfiguration() returned nil config")
	}
	if cfg.Version != 1 {
		t.Errorf("Default config version = %d, want 1", cfg.Version)
	}

	doc := cfg.Document
	if doc.Manuscript.FileName != "text.txt" {
		t.Errorf("FileName = %q, want text.txt", doc.Manuscript.FileName)
	}
	if doc.Manuscript.Markers.Title != "CÍM" || doc.Manuscript.Markers.AuthorDraft != "SZERZŐ_TEMP" {
		t.Errorf("unexpected default markers: %+v", doc.Manuscript.Markers)
	}
	if doc.Manuscript.SubheadingMaxRunes != 80 {
		t.Errorf("SubheadingMaxRunes = %d, want 80", doc.Manuscript.SubheadingMaxRunes)
	}
	if doc.Layout.LinesPerPage != 23 || doc.Layout.CharsPerLine != 75 {
		t.Errorf("unexpected layout defaults: %+v", doc.Layout)
	}
	if doc.TOC.PageNumbers != common.TOCPageNumbersDeferred {
		t.Errorf("PageNumbers = %v, want deferred", doc.TOC.PageNumbers)
	}
	if doc.Images.Covers[common.CoverPosFront] != "000_elso_borito" {
		t.Errorf("front cover = %q", doc.Images.Covers[common.CoverPosFront])
	}
	if len(doc.Images.Covers) != 4 {
		t.Errorf("expected 4 cover stems, got %d", len(doc.Images.Covers))
	}
	if doc.Images.JPEGQuality != 85 {
		t.Errorf("JPEGQuality = %d, want 85", doc.Images.JPEGQuality)
	}
	if cfg.Preview.Listen != "127.0.0.1:8000" {
		t.Errorf("Listen = %q", cfg.Preview.Listen)
	}
}

func TestLoadConfiguration_WithFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `version: 1
document:
  book:
    title: "Stories"
    language: en
  manuscript:
    file_name: "book.txt"
    markers:
      title: TITLE
      author: AUTHOR
      author_draft: AUTHOR_DRAFT
      preface: PREFACE
  images:
    directory: pictures
    covers:
      front: cover
      back: back
    optimize: true
    max_height: 1200
  layout:
    derive_from_stylesheet: false
    lines_per_page: 30
  toc:
    page_numbers: estimated
    include_preface: true
preview:
  listen: "localhost:9000"
  debounce_ms: 50
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := LoadConfiguration(configPath)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	doc := cfg.Document
	if doc.Book.Title != "Stories" || doc.Book.Language != "en" {
		t.Errorf("book = %+v", doc.Book)
	}
	// not mentioned values keep defaults
	if doc.Book.Labels.Contents != "Tartalom" {
		t.Errorf("Contents label = %q, want default", doc.Book.Labels.Contents)
	}
	if doc.Manuscript.Markers.Preface != "PREFACE" {
		t.Errorf("Preface marker = %q", doc.Manuscript.Markers.Preface)
	}
	if doc.Images.Directory != "pictures" || !doc.Images.Optimize || doc.Images.MaxHeight != 1200 {
		t.Errorf("images = %+v", doc.Images)
	}
	if doc.Images.Covers[common.CoverPosFront] != "cover" {
		t.Errorf("front cover = %q", doc.Images.Covers[common.CoverPosFront])
	}
	if doc.Layout.DeriveFromStylesheet || doc.Layout.LinesPerPage != 30 || doc.Layout.CharsPerLine != 75 {
		t.Errorf("layout = %+v", doc.Layout)
	}
	if doc.TOC.PageNumbers != common.TOCPageNumbersEstimated || !doc.TOC.IncludePreface {
		t.Errorf("toc = %+v", doc.TOC)
	}
	if cfg.Preview.Debounce != 50 {
		t.Errorf("Debounce = %d, want 50", cfg.Preview.Debounce)
	}
}

func TestLoadConfiguration_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "unknown field",
			content: "version: 1\ndocument:\n  no_such_field: true\n",
			want:    "no_such_field",
		},
		{
			name:    "bad version",
			content: "version: 2\n",
			want:    "Version",
		},
		{
			name:    "bad toc mode",
			content: "version: 1\ndocument:\n  toc:\n    page_numbers: sometimes\n",
			want:    "sometimes",
		},
		{
			name:    "bad cover position",
			content: "version: 1\ndocument:\n  images:\n    covers:\n      middle: x\n",
			want:    "middle",
		},
		{
			name:    "tiny page",
			content: "version: 1\ndocument:\n  layout:\n    lines_per_page: 2\n",
			want:    "LinesPerPage",
		},
		{
			name:    "bad extension",
			content: "version: 1\ndocument:\n  images:\n    extensions: [jpg]\n",
			want:    "Extensions",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}
			_, err := LoadConfiguration(path)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestLoadConfiguration_MissingFile(t *testing.T) {
	if _, err := LoadConfiguration(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestPrepareAndDump(t *testing.T) {
	data, err := Prepare()
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	if !strings.Contains(string(data), "output_name_template") {
		t.Error("prepared configuration lost output_name_template")
	}

	cfg, err := LoadConfiguration("")
	if err != nil {
		t.Fatal(err)
	}
	out, err := Dump(cfg)
	if err != nil {
		t.Fatalf("Dump() error = %v", err)
	}

	// dumped configuration must load back
	path := filepath.Join(t.TempDir(), "dumped.yaml")
	if err := os.WriteFile(path, out, 0644); err != nil {
		t.Fatal(err)
	}
	again, err := LoadConfiguration(path)
	if err != nil {
		t.Fatalf("loading dumped configuration: %v", err)
	}
	if again.Document.TOC.PageNumbers != cfg.Document.TOC.PageNumbers {
		t.Errorf("round trip changed toc mode: %v != %v", again.Document.TOC.PageNumbers, cfg.Document.TOC.PageNumbers)
	}
}

func TestCleanFileName(t *testing.T) {
	sep := string(os.PathSeparator)
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "separator", in: "a" + sep + "b", want: "ab"},
		{name: "only separator", in: sep, want: "_bad_file_name_"},
		{name: "control characters", in: "Alma\tés\nKörte", want: "AlmaésKörte"},
		{name: "surrounding spaces", in: "  Értékőrzők  ", want: "Értékőrzők"},
		{name: "accents kept", in: "Kiss Anna - Alma", want: "Kiss Anna - Alma"},
		{name: "empty", in: "", want: "_bad_file_name_"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanFileName(tt.in); got != tt.want {
				t.Errorf("CleanFileName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
