package design

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/vovakirdan/gamify/internal/design/formats"
)

// Loader handles loading designs from a directory tree.
type Loader struct {
	Root string
	fsys fs.FS
}

// NewLoader creates a loader over a directory on disk.
func NewLoader(root string) *Loader {
	return &Loader{Root: root, fsys: os.DirFS(root)}
}

// NewFSLoader creates a loader over fsys, e.g. an embed.FS.
func NewFSLoader(fsys fs.FS) *Loader {
	return &Loader{fsys: fsys}
}

// LoadAll recursively scans and loads all design files.
// Returns designs sorted by ID for deterministic ordering.
func (l *Loader) LoadAll() ([]*Design, error) {
	var designs []*Design

	err := fs.WalkDir(l.fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			return nil
		}

		ext := strings.ToLower(path.Ext(p))
		if !isSupportedExtension(ext) {
			return nil
		}

		design, err := l.LoadFile(p)
		if err != nil {
			// Skip invalid files
			return nil
		}

		designs = append(designs, design)
		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("walking directory %s: %w", l.Root, err)
	}

	// Sort by ID for determinism
	sort.Slice(designs, func(i, j int) bool {
		return designs[i].ID < designs[j].ID
	})

	return designs, nil
}

// LoadFile loads a single design file relative to the loader root.
func (l *Loader) LoadFile(p string) (*Design, error) {
	data, err := fs.ReadFile(l.fsys, p)
	if err != nil {
		return nil, fmt.Errorf("reading file %s: %w", p, err)
	}

	d, err := Parse(data, p)
	if err != nil {
		return nil, err
	}
	if l.Root != "" {
		d.FilePath = filepath.Join(l.Root, filepath.FromSlash(p))
	}
	return d, nil
}

// LoadByID loads a specific design by ID.
func (l *Loader) LoadByID(id string) (*Design, error) {
	designs, err := l.LoadAll()
	if err != nil {
		return nil, err
	}

	for _, d := range designs {
		if d.ID == id {
			return d, nil
		}
	}

	return nil, fmt.Errorf("design not found: %s", id)
}

// ListIDs returns all design IDs in sorted order.
func (l *Loader) ListIDs() ([]string, error) {
	designs, err := l.LoadAll()
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(designs))
	for i, d := range designs {
		ids[i] = d.ID
	}
	return ids, nil
}

// LoadPath reads one design file from disk.
func LoadPath(p string) (*Design, error) {
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, fmt.Errorf("reading file %s: %w", p, err)
	}
	d, err := Parse(data, p)
	if err != nil {
		return nil, err
	}
	d.FilePath = p
	return d, nil
}

// Parse decodes data using the format implied by name's extension. A
// design without an ID is named after the file.
func Parse(data []byte, name string) (*Design, error) {
	ext := path.Ext(name)
	b, err := formats.Parse(data, ext)
	if err != nil {
		return nil, fmt.Errorf("parsing file %s: %w", name, err)
	}
	d := FromBundle(b)
	if d.ID == "" {
		d.ID = strings.TrimSuffix(path.Base(filepath.ToSlash(name)), ext)
	}
	return d, nil
}

// isSupportedExtension checks if extension is supported.
func isSupportedExtension(ext string) bool {
	for _, supported := range formats.FormatExtensions() {
		if ext == supported {
			return true
		}
	}
	return false
}
