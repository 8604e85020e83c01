package scanner

import (
	"sort"
	"strings"
)

// FilterOptions defines criteria for including or excluding files.
type FilterOptions struct {
	// ExcludeNames is a list of file names to skip. Names starting with "."
	// are always skipped.
	ExcludeNames []string

	// IncludeExtensions is a list of extensions to include (e.g., ".py").
	// If empty, all extensions are included.
	IncludeExtensions []string
}

// DefaultExcludeNames returns the names never treated as scripts.
func DefaultExcludeNames() []string {
	return []string{
		"__pycache__",
	}
}

// FilterFiles applies the filter options to a list of file names.
// It returns a new slice of strings, sorted deterministically.
func FilterFiles(names []string, opts FilterOptions) []string {
	if len(names) == 0 {
		return nil
	}

	var filtered []string
	for _, name := range names {
		if strings.HasPrefix(name, ".") || isExcluded(name, opts.ExcludeNames) {
			continue
		}
		if !hasExtension(name, opts.IncludeExtensions) {
			continue
		}
		filtered = append(filtered, name)
	}

	sort.Strings(filtered)
	return filtered
}

func isExcluded(name string, excludes []string) bool {
	for _, exclude := range excludes {
		if name == exclude {
			return true
		}
	}
	return false
}

// hasExtension returns true if extensions is empty OR name ends with one of them.
func hasExtension(name string, extensions []string) bool {
	if len(extensions) == 0 {
		return true
	}
	for _, ext := range extensions {
		if strings.HasSuffix(name, ext) && len(name) > len(ext) {
			return true
		}
	}
	return false
}
