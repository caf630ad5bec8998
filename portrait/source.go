package portrait

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"

	"mkbook/archive"
)

// Source is a flat read only collection of candidate image files.
type Source interface {
	// List returns file names (without directory).
	List() ([]string, error)
	Open(name string) (io.ReadCloser, error)
	// Location returns printable full name of the file for diagnostics.
	Location(name string) string
}

// DirSource reads images from a directory, missing directory is empty.
type DirSource struct {
	Dir string
}

func (s DirSource) List() ([]string, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("unable to list images: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Type().IsRegular() {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

func (s DirSource) Open(name string) (io.ReadCloser, error) {
	return os.Open(filepath.Join(s.Dir, name))
}

func (s DirSource) Location(name string) string {
	return filepath.Join(s.Dir, name)
}

// ArchiveSource reads images from a directory inside zip archive.
type ArchiveSource struct {
	Archive string
	Dir     string
}

func (s ArchiveSource) List() ([]string, error) {
	names, err := archive.Names(s.Archive, s.Dir)
	if err != nil {
		return nil, fmt.Errorf("unable to list images in archive: %w", err)
	}
	return names, nil
}

func (s ArchiveSource) Open(name string) (io.ReadCloser, error) {
	data, err := archive.ReadFile(s.Archive, path.Join(s.Dir, name))
	if err != nil {
		return nil, err
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s ArchiveSource) Location(name string) string {
	return s.Archive + "/" + path.Join(s.Dir, name)
}
