// Package common keeps enums shared between configuration and the rest of the
// program so config does not have to import processing packages.
package common

//go:generate go tool go-enum --marshal --names --values --output-suffix _enum

// Requested output type.
// ENUM(html, yaml)
type OutputFmt int

func (o OutputFmt) Ext() string {
	switch o {
	case OutputFmtHtml:
		return ".html"
	case OutputFmtYaml:
		return ".yaml"
	default:
		// this should never happen
		panic("unsupported format requested")
	}
}

// How page numbers are put into table of contents.
// ENUM(none, deferred, estimated)
type TOCPageNumbers int

// Reserved cover image positions.
// ENUM(front, front-inner, back-inner, back)
type CoverPos string

// Front returns true for covers placed before the book content.
func (c CoverPos) Front() bool {
	return c == CoverPosFront || c == CoverPosFrontInner
}
