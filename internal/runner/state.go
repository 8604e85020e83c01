package runner

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// StateStore handles reading and writing runner state.
type StateStore struct {
	baseDir string
}

// NewStateStore creates a store at the given base directory (e.g. .skilltest/run).
func NewStateStore(baseDir string) *StateStore {
	return &StateStore{baseDir: baseDir}
}

// Dir returns the base directory.
func (s *StateStore) Dir() string { return s.baseDir }

func (s *StateStore) lastRunPath() string {
	return filepath.Join(s.baseDir, "last-run.json")
}

func (s *StateStore) resultsPath() string {
	return filepath.Join(s.baseDir, "results.json")
}

// ReadLastRun loads the last execution summary.
func (s *StateStore) ReadLastRun() (*LastRun, error) {
	var last LastRun
	found, err := readJSON(s.lastRunPath(), &last)
	if err != nil {
		return nil, fmt.Errorf("reading last run: %w", err)
	}
	if !found {
		return nil, nil // Not found is clean state
	}
	return &last, nil
}

// ReadResults loads the result list of the last execution.
func (s *StateStore) ReadResults() (*ResultSet, error) {
	var set ResultSet
	found, err := readJSON(s.resultsPath(), &set)
	if err != nil {
		return nil, fmt.Errorf("reading results: %w", err)
	}
	if !found {
		return nil, nil
	}
	return &set, nil
}

// WriteLastRun saves the execution summary.
func (s *StateStore) WriteLastRun(last LastRun) error {
	return writeJSON(s.lastRunPath(), last)
}

// WriteResults saves the result list.
func (s *StateStore) WriteResults(set ResultSet) error {
	return writeJSON(s.resultsPath(), set)
}

// Reset clears the state directory.
func (s *StateStore) Reset() error {
	return os.RemoveAll(s.baseDir)
}

// LoadFailedCases returns the keys of cases that failed in the last run.
func (s *StateStore) LoadFailedCases() ([]string, error) {
	last, err := s.ReadLastRun()
	if err != nil {
		return nil, err
	}
	if last == nil {
		return nil, nil
	}
	return last.Failed, nil
}

func readJSON(path string, v any) (bool, error) {
	f, err := os.Open(path) //nolint:gosec // path is inside the state dir
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	defer func() { _ = f.Close() }()

	if err := json.NewDecoder(f).Decode(v); err != nil {
		return false, fmt.Errorf("decoding %s: %w", filepath.Base(path), err)
	}
	return true, nil
}

func writeJSON(path string, v any) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(path) //nolint:gosec // path is inside the state dir
	if err != nil {
		return err
	}
	defer func() {
		cerr := f.Close()
		if err == nil {
			err = cerr
		}
	}()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
