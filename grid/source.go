package grid

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DirectorySource lists image files (and subfolders) of one directory as
// content identifiers, folders first, names ascending. Each List call is a
// fresh snapshot.
type DirectorySource struct {
	Root       string
	ShowHidden bool
}

var _ ContentSource = (*DirectorySource)(nil)

func (s *DirectorySource) List() ([]string, error) {
	entries, err := os.ReadDir(s.Root)
	if err != nil {
		return nil, err
	}

	var dirs, files []string
	for _, e := range entries {
		name := e.Name()
		if !s.ShowHidden && strings.HasPrefix(name, ".") {
			continue
		}
		path := filepath.Join(s.Root, name)
		if e.IsDir() {
			dirs = append(dirs, path)
			continue
		}
		if isSupportedImage(strings.ToLower(filepath.Ext(name))) {
			files = append(files, path)
		}
	}

	less := func(a, b string) bool {
		return strings.ToLower(filepath.Base(a)) < strings.ToLower(filepath.Base(b))
	}
	sort.Slice(dirs, func(i, j int) bool { return less(dirs[i], dirs[j]) })
	sort.Slice(files, func(i, j int) bool { return less(files[i], files[j]) })

	return append(dirs, files...), nil
}
