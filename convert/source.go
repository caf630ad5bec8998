package convert

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"mkbook/archive"
	"mkbook/config"
	"mkbook/portrait"
)

// Input is a located manuscript together with its images.
type Input struct {
	// Name is manuscript file name, default output name is derived from it.
	Name string
	// Location is printable full name of the manuscript.
	Location string
	Images   portrait.Source
	// Watch lists directories where changes affect the book.
	Watch []string

	open func() (io.ReadCloser, error)
}

// Open returns fresh reader of the manuscript.
func (in *Input) Open() (io.ReadCloser, error) {
	return in.open()
}

// Locate finds manuscript for the SOURCE argument which may be a manuscript
// file, a directory with manuscript or a zip archive optionally followed by a
// path inside of it ("bundle.zip/book" or "bundle.zip/book/text.txt").
func Locate(ctx context.Context, src string, cfg *config.DocumentConfig) (*Input, error) {
	var head, tail string
	for head = src; len(head) != 0; head, tail = filepath.Split(head) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		head = strings.TrimSuffix(head, string(filepath.Separator))

		fi, err := os.Stat(head)
		if err != nil {
			// does not exists - probably path in archive
			continue
		}

		if fi.Mode().IsDir() {
			if len(tail) != 0 {
				// directory cannot have tail - it would be simple file
				return nil, fmt.Errorf("input source was not found (%s) => (%s)", head, strings.TrimPrefix(src, head))
			}
			return dirInput(head, cfg), nil
		}

		if !fi.Mode().IsRegular() {
			return nil, fmt.Errorf("unexpected path mode for (%s) => (%s)", head, strings.TrimPrefix(src, head))
		}

		isArchive, err := archive.IsArchive(head)
		if err != nil {
			// checking format - but cannot open target file
			return nil, fmt.Errorf("unable to check archive type: %w", err)
		}
		if isArchive {
			inner := strings.TrimPrefix(strings.TrimPrefix(src, head), string(filepath.Separator))
			return archiveInput(head, filepath.ToSlash(inner), cfg)
		}

		if len(tail) != 0 {
			return nil, fmt.Errorf("input source was not found (%s) => (%s)", head, strings.TrimPrefix(src, head))
		}
		return fileInput(head, cfg), nil
	}
	return nil, fmt.Errorf("input source was not found (%s)", src)
}

func fileInput(name string, cfg *config.DocumentConfig) *Input {
	dir := filepath.Dir(name)
	images := filepath.Join(dir, cfg.Images.Directory)
	return &Input{
		Name:     filepath.Base(name),
		Location: name,
		Images:   portrait.DirSource{Dir: images},
		Watch:    []string{dir, images},
		open: func() (io.ReadCloser, error) {
			return os.Open(name)
		},
	}
}

func dirInput(dir string, cfg *config.DocumentConfig) *Input {
	return fileInput(filepath.Join(dir, cfg.Manuscript.FileName), cfg)
}

// archiveInput accepts path of the manuscript inside archive or path of the
// directory containing it.
func archiveInput(arc, inner string, cfg *config.DocumentConfig) (*Input, error) {
	inner = strings.Trim(inner, "/")

	name := path.Join(inner, cfg.Manuscript.FileName)
	if inner != "" {
		if _, err := archive.ReadFile(arc, inner); err == nil {
			name = inner
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("unable to read archive: %w", err)
		}
	}
	if _, err := archive.ReadFile(arc, name); err != nil {
		return nil, fmt.Errorf("manuscript was not found in archive: %w", err)
	}

	return &Input{
		Name:     path.Base(name),
		Location: arc + "/" + name,
		Images:   portrait.ArchiveSource{Archive: arc, Dir: path.Join(path.Dir(name), cfg.Images.Directory)},
		Watch:    []string{filepath.Dir(arc)},
		open: func() (io.ReadCloser, error) {
			data, err := archive.ReadFile(arc, name)
			if err != nil {
				return nil, err
			}
			return io.NopCloser(bytes.NewReader(data)), nil
		},
	}, nil
}
