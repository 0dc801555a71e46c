package grid

import (
	"path/filepath"
	"strings"
)

// PathMetadata derives display names and tags from file-path identifiers.
// Named icons pass through untouched.
type PathMetadata struct{}

var _ MetadataProvider = (*PathMetadata)(nil)

func (PathMetadata) DisplayName(id string) string {
	if !pathLike(id) {
		return id
	}
	name := filepath.Base(id)
	if ext := filepath.Ext(name); ext != "" && ext != name {
		name = name[:len(name)-len(ext)]
	}
	return name
}

// Tags returns the format and the parent folder name, in that order.
func (PathMetadata) Tags(id string) []string {
	if !pathLike(id) {
		return nil
	}

	var tags []string
	if ext := strings.ToLower(filepath.Ext(id)); ext != "" {
		tags = append(tags, strings.TrimPrefix(ext, "."))
	}
	if parent := filepath.Base(filepath.Dir(id)); parent != "" && parent != "." && parent != string(filepath.Separator) {
		tags = append(tags, parent)
	}
	return tags
}
