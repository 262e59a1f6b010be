package texture

import (
	"os"
	"path/filepath"
	"strings"
)

// Index maps lowercase file stems to texture paths.
type Index struct {
	entries map[string]string
}

func priority(ext string) int {
	for i, e := range Extensions {
		if e == ext {
			return i
		}
	}
	return -1
}

// BuildIndex scans dir recursively for decodable images. When several files
// share a stem the earlier entry of Extensions wins. An empty or missing dir
// gives an empty index.
func BuildIndex(dir string) *Index {
	idx := &Index{entries: make(map[string]string)}
	if dir == "" {
		return idx
	}

	filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		p := priority(ext)
		if p < 0 {
			return nil
		}
		stem := strings.ToLower(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
		if existing, ok := idx.entries[stem]; !ok || p < priority(strings.ToLower(filepath.Ext(existing))) {
			idx.entries[stem] = path
		}
		return nil
	})

	return idx
}

// ResolvePath returns the texture path for a name such as "sword" or
// "models/sword.mdm", or ("", false).
func (idx *Index) ResolvePath(name string) (string, bool) {
	base := filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	stem := strings.ToLower(strings.TrimSuffix(base, filepath.Ext(base)))
	path, ok := idx.entries[stem]
	return path, ok
}

// Len returns the number of indexed textures.
func (idx *Index) Len() int {
	return len(idx.entries)
}
