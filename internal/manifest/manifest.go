// Package manifest reads the SKILL.md manifest of a skill package.
package manifest

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/yuin/goldmark"
	meta "github.com/yuin/goldmark-meta"
	"github.com/yuin/goldmark/parser"
)

// FileName is the manifest file at the root of a skill directory.
const FileName = "SKILL.md"

// ErrNoFrontmatter is returned for a manifest without a frontmatter block.
var ErrNoFrontmatter = errors.New("missing frontmatter")

// Manifest is the frontmatter of a skill manifest.
type Manifest struct {
	Name        string
	Description string
	// Meta holds every frontmatter key, including Name and Description.
	Meta map[string]any
}

// Path returns the manifest path inside skillDir.
func Path(skillDir string) string {
	return filepath.Join(skillDir, FileName)
}

// Exists reports whether skillDir has a manifest file.
func Exists(skillDir string) bool {
	info, err := os.Stat(Path(skillDir))
	return err == nil && !info.IsDir()
}

// Load reads and parses the manifest in skillDir.
func Load(skillDir string) (*Manifest, error) {
	content, err := os.ReadFile(Path(skillDir)) //nolint:gosec // skill dir is chosen by the caller
	if err != nil {
		return nil, errors.Wrap(err, "failed to read skill manifest")
	}
	return Parse(content)
}

// Parse extracts the frontmatter from manifest content.
func Parse(content []byte) (*Manifest, error) {
	md := goldmark.New(
		goldmark.WithExtensions(meta.Meta),
	)

	var buf bytes.Buffer
	pctx := parser.NewContext()
	if err := md.Convert(content, &buf, parser.WithContext(pctx)); err != nil {
		return nil, errors.Wrap(err, "failed to parse markdown")
	}

	metaData, err := meta.TryGet(pctx)
	if err != nil {
		return nil, errors.Wrap(err, "invalid frontmatter")
	}
	if len(metaData) == 0 {
		return nil, ErrNoFrontmatter
	}

	name, _ := metaData["name"].(string)
	description, _ := metaData["description"].(string)

	return &Manifest{
		Name:        name,
		Description: description,
		Meta:        metaData,
	}, nil
}
