// Package scanner enumerates the helper scripts bundled with a skill.
package scanner

import (
	"os"

	"github.com/pkg/errors"
)

// ScriptsDir is the directory under a skill root that holds its scripts.
const ScriptsDir = "scripts"

// ScriptFiles lists the regular files directly inside dir whose names end
// with one of extensions. The listing is flat and sorted. Executability is
// not checked. A missing dir yields no files and no error.
func ScriptFiles(dir string, extensions ...string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "failed to list %s", dir)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		names = append(names, entry.Name())
	}

	return FilterFiles(names, FilterOptions{
		ExcludeNames:      DefaultExcludeNames(),
		IncludeExtensions: extensions,
	}), nil
}
