package project

import (
	"path"
	"path/filepath"
	"strings"
)

// IsProtected reports whether target (slash-separated, relative to the
// project root) matches one of the project's protected entries. An entry
// matches exactly, as a path.Match glob, or, unless it is a glob, as a
// directory holding target at any depth.
func (p Project) IsProtected(target string) bool {
	target = cleanRel(target)
	for _, entry := range p.Protected {
		pattern := cleanRel(entry)
		if pattern == target {
			return true
		}
		if !isGlob(pattern) && strings.HasPrefix(target, pattern+"/") {
			return true
		}
		if ok, err := path.Match(pattern, target); err == nil && ok {
			return true
		}
	}
	return false
}

func isGlob(p string) bool {
	return strings.ContainsAny(p, "*?[\\")
}

func cleanRel(p string) string {
	p = path.Clean(filepath.ToSlash(p))
	return strings.TrimPrefix(p, "./")
}

// TargetFile returns the absolute on-disk path for a slash-separated target.
func (p Project) TargetFile(target string) string {
	return filepath.Join(p.Root, filepath.FromSlash(target))
}
