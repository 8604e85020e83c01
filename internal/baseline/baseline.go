// Package baseline snapshots regression outputs into a baseline directory and
// resolves the expected value a regression case compares against.
package baseline

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/rogpeppe/go-internal/lockedfile"

	"github.com/bartekus/skilltest/internal/logger"
	"github.com/bartekus/skilltest/internal/validate"
)

// NotFoundError reports a missing input file.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("File not found: %s", e.Path)
}

// Create copies source verbatim to dir/<base name of source>, creating dir if
// needed and overwriting any existing baseline of that name. It returns the
// path written.
func Create(source, dir string) (string, error) {
	info, err := os.Stat(source)
	if err != nil {
		if os.IsNotExist(err) {
			return "", &NotFoundError{Path: source}
		}
		return "", errors.Wrapf(err, "failed to stat %s", source)
	}
	if info.IsDir() {
		return "", errors.Errorf("%s is a directory", source)
	}

	data, err := os.ReadFile(source) //nolint:gosec // source is chosen by the caller
	if err != nil {
		return "", errors.Wrapf(err, "failed to read %s", source)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.Wrapf(err, "failed to create baseline directory %s", dir)
	}

	target := filepath.Join(dir, filepath.Base(source))
	if err := lockedfile.Write(target, bytes.NewReader(data), info.Mode().Perm()); err != nil {
		return "", errors.Wrapf(err, "failed to write baseline %s", target)
	}
	return target, nil
}

// Resolve returns the expectation a regression case is compared against. When
// baselineFile names an existing file relative to specDir, its content wins
// over inline. Otherwise inline is returned unchanged.
func Resolve(ctx context.Context, specDir, baselineFile string, inline *validate.Expectation) *validate.Expectation {
	if baselineFile == "" {
		return inline
	}

	path := baselineFile
	if !filepath.IsAbs(path) {
		path = filepath.Join(specDir, path)
	}

	data, err := lockedfile.Read(path)
	if err != nil {
		logger.G(ctx).WithField("baseline", path).WithError(err).Warn("baseline unavailable, using inline expected output")
		return inline
	}
	return validate.Exact(string(data))
}
