package convert

import (
	"context"
	"fmt"
	"os"
	"slices"

	"go.uber.org/zap"
	yaml "gopkg.in/yaml.v3"

	"mkbook/common"
	"mkbook/config"
	"mkbook/content"
	"mkbook/manuscript"
)

// structure is what "--to yaml" writes: parsed manuscript together with
// the estimated page numbers, useful to check manuscript markup before
// rendering.
type structure struct {
	BookID   string                     `yaml:"book_id"`
	Source   string                     `yaml:"source"`
	Encoding string                     `yaml:"encoding"`
	Title    string                     `yaml:"title"`
	Subtitle string                     `yaml:"subtitle,omitempty"`
	Authors  []string                   `yaml:"authors,omitempty"`
	Covers   map[common.CoverPos]string `yaml:"covers,omitempty"`
	Layout   layoutSummary              `yaml:"layout"`
	TOC      []tocEntry                 `yaml:"toc"`
	Sections []*manuscript.Section      `yaml:"sections"`
	Issues   []manuscript.Issue         `yaml:"issues,omitempty"`
}

type layoutSummary struct {
	LinesPerPage int   `yaml:"lines_per_page"`
	CharsPerLine int   `yaml:"chars_per_line"`
	FrontPages   int   `yaml:"front_pages"`
	MainPages    int   `yaml:"main_pages"`
	FrontLines   []int `yaml:"front_lines,flow"`
	MainLines    []int `yaml:"main_lines,flow"`
}

type tocEntry struct {
	Title  string `yaml:"title"`
	Author string `yaml:"author,omitempty"`
	Anchor string `yaml:"anchor"`
	Page   string `yaml:"page,omitempty"`
}

func generateYAML(ctx context.Context, c *content.Content, outputPath string, cfg *config.DocumentConfig, log *zap.Logger) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s := structure{
		BookID:   c.BookID.String(),
		Source:   c.SrcName,
		Encoding: c.Encoding,
		Title:    cfg.Book.Title,
		Subtitle: cfg.Book.Subtitle,
		Authors:  c.Doc.Authors(),
		Covers:   c.Covers,
		Layout: layoutSummary{
			LinesPerPage: c.Params.LinesPerPage,
			CharsPerLine: c.Params.CharsPerLine,
			FrontPages:   len(c.Front.Pages),
			MainPages:    len(c.Main.Pages),
			FrontLines:   c.Front.LinesPerPage(),
			MainLines:    c.Main.LinesPerPage(),
		},
		Sections: c.Doc.Sections,
		Issues:   c.Doc.Issues,
	}

	sections := c.Doc.Stories()
	if p := c.Doc.Preface(); p != nil && cfg.TOC.IncludePreface {
		sections = slices.Insert(sections, 0, p)
	}
	for _, sec := range sections {
		e := tocEntry{Title: sec.Title, Anchor: sec.Anchor}
		if sec.ShowAuthor {
			e.Author = sec.Author
		}
		if sec.Kind == manuscript.KindPreface {
			e.Title = cfg.Book.Labels.Preface
		}
		if label, ok := c.PageLabel(sec.Anchor); ok {
			e.Page = label
		}
		s.TOC = append(s.TOC, e)
	}

	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("unable to create output file: %w", err)
	}
	defer f.Close()

	enc := yaml.NewEncoder(f)
	enc.SetIndent(2)
	if err := enc.Encode(&s); err != nil {
		return fmt.Errorf("unable to encode book structure: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("unable to flush book structure: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("unable to finalize output file: %w", err)
	}

	log.Info("Book structure written", zap.String("output", outputPath), zap.Int("sections", len(s.Sections)), zap.Int("issues", len(s.Issues)))
	return nil
}
