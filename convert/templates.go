package convert

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"text/template"

	sprig "github.com/go-task/slim-sprig/v3"

	"mkbook/common"
	"mkbook/config"
	"mkbook/content"
)

// Values is a struct that holds variables we make available for template
// expansion.
type Values struct {
	Context    string
	Title      string
	Subtitle   string
	Editor     string
	Year       string
	Language   string
	Authors    []string
	Stories    int
	Format     string
	SourceFile string
	BookID     string
}

func expandTemplate(c *content.Content, name config.TemplateFieldName, field string, format common.OutputFmt, book *config.BookConfig) (string, error) {
	funcMap := sprig.FuncMap()

	tmpl, err := template.New(string(name)).Funcs(funcMap).Option("missingkey=error").Parse(field)
	if err != nil {
		return "", fmt.Errorf("unable to parse template field %s: %w", name, err)
	}

	values := Values{
		Context:    string(name),
		Title:      book.Title,
		Subtitle:   book.Subtitle,
		Editor:     book.Editor,
		Year:       book.Year,
		Language:   book.Language,
		Authors:    c.Doc.Authors(),
		Stories:    len(c.Doc.Stories()),
		Format:     format.String(),
		SourceFile: strings.TrimSuffix(filepath.Base(c.SrcName), filepath.Ext(c.SrcName)),
		BookID:     c.BookID.String(),
	}

	buf := new(bytes.Buffer)
	if err := tmpl.Execute(buf, values); err != nil {
		return "", err
	}
	return buf.String(), nil
}
