package ledger

import (
	"fmt"
	"os"
	"path/filepath"
)

// Layout is the output directory tree of a sweep.
type Layout struct {
	Data string // per-experiment CSVs, logs and summaries
	Figs string // charts
}

// LayoutAt returns the layout rooted at base without touching the filesystem.
func LayoutAt(base string) Layout {
	return Layout{
		Data: filepath.Join(base, "data"),
		Figs: filepath.Join(base, "figs"),
	}
}

// EnsureDirs creates data/ and figs/ under base. Existing directories are reused.
func EnsureDirs(base string) (Layout, error) {
	l := LayoutAt(base)
	for _, dir := range []string{l.Data, l.Figs} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return Layout{}, fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	return l, nil
}

// SummaryPath returns the path of the named summary file inside Data.
func (l Layout) SummaryPath(name string) string {
	return filepath.Join(l.Data, name)
}

// FigPath returns the path of the named chart inside Figs.
func (l Layout) FigPath(name string) string {
	return filepath.Join(l.Figs, name)
}
