// Package output writes rendered files to a directory.
package output

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/faucetdb/typegen/internal/render"
)

// Writer places rendered files below Dir on Fs.
type Writer struct {
	Fs  afero.Fs
	Dir string
}

// NewWriter returns a Writer on the OS filesystem.
func NewWriter(dir string) *Writer {
	return &Writer{Fs: afero.NewOsFs(), Dir: dir}
}

// Write creates Dir if needed and writes every file, replacing existing
// files of the same name. It returns the paths written. File names must stay
// inside Dir.
func (w *Writer) Write(files []render.File) ([]string, error) {
	if len(files) == 0 {
		return nil, nil
	}
	if err := w.Fs.MkdirAll(w.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir %s: %w", w.Dir, err)
	}

	paths := make([]string, 0, len(files))
	for _, f := range files {
		clean := filepath.Clean(f.Name)
		if filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
			return paths, fmt.Errorf("output file %q escapes %s", f.Name, w.Dir)
		}
		path := filepath.Join(w.Dir, clean)
		if err := afero.WriteFile(w.Fs, path, f.Content, 0o644); err != nil {
			return paths, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// Print writes every file to out, each preceded by a "# <name>" header line.
func Print(out io.Writer, files []render.File) error {
	for i, f := range files {
		if i > 0 {
			if _, err := fmt.Fprintln(out); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(out, "# %s\n", f.Name); err != nil {
			return err
		}
		if _, err := out.Write(f.Content); err != nil {
			return err
		}
	}
	return nil
}
