package probe

import (
	"io/fs"
	"os"
	"path"
	"slices"

	"github.com/bmatcuk/doublestar/v4"
)

// Probe answers whether paths exist below the project root. Paths are
// slash-separated and relative to that root.
type Probe interface {
	Exists(name string) bool
	// Glob returns the existing files matching a doublestar pattern, sorted.
	Glob(pattern string) []string
}

// FSProbe checks existence against an fs.FS. Nothing is cached between calls.
type FSProbe struct {
	FS fs.FS
}

// Dir returns a probe over the directory tree rooted at root.
func Dir(root string) *FSProbe {
	return &FSProbe{FS: os.DirFS(root)}
}

func (p *FSProbe) Exists(name string) bool {
	name = path.Clean(name)
	if !fs.ValidPath(name) {
		return false
	}
	_, err := fs.Stat(p.FS, name)
	return err == nil
}

func (p *FSProbe) Glob(pattern string) []string {
	matches, err := doublestar.Glob(p.FS, pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil
	}
	slices.Sort(matches)
	return matches
}

// FirstMatch tries patterns in order and returns the first file found.
func FirstMatch(p Probe, patterns ...string) (string, bool) {
	for _, pattern := range patterns {
		if matches := p.Glob(pattern); len(matches) > 0 {
			return matches[0], true
		}
	}
	return "", false
}
