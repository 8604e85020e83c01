// Package runner executes a loaded test specification case by case and
// keeps the state needed to report on, or rerun, the last execution.
package runner

import (
	"context"
	"fmt"
	"time"

	"github.com/gobwas/glob"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/bartekus/skilltest/internal/logger"
	"github.com/bartekus/skilltest/internal/scriptexec"
	"github.com/bartekus/skilltest/internal/testspec"
	"github.com/bartekus/skilltest/internal/validate"
)

// Options configures an Executor.
type Options struct {
	// SkillRoot overrides the document's skill_path when resolving scripts.
	SkillRoot string
	// Timeout is the default per-case bound. Zero selects scriptexec.DefaultTimeout.
	Timeout   time.Duration
	DiffLimit int
	// Compat turns placeholder variants back into silent passes.
	Compat bool
	// Parallel is the number of cases executed at once. Results keep
	// document order whatever the value.
	Parallel int
	// Match selects cases by name with a glob pattern. Empty selects all.
	Match string
	// RerunFailed restricts the run to cases that failed last time.
	RerunFailed bool
}

// Executor manages the execution of test cases.
type Executor struct {
	opts  Options
	match glob.Glob
	store *StateStore
}

// NewExecutor creates an executor. store may be nil, in which case nothing
// is persisted and RerunFailed is rejected.
func NewExecutor(opts Options, store *StateStore) (*Executor, error) {
	if opts.Parallel < 1 {
		opts.Parallel = 1
	}
	if opts.DiffLimit <= 0 {
		opts.DiffLimit = validate.DefaultDiffLimit
	}
	if opts.RerunFailed && store == nil {
		return nil, fmt.Errorf("rerunning failed cases requires a state directory")
	}

	e := &Executor{opts: opts, store: store}
	if opts.Match != "" {
		g, err := glob.Compile(opts.Match)
		if err != nil {
			return nil, fmt.Errorf("invalid case filter %q: %w", opts.Match, err)
		}
		e.match = g
	}
	return e, nil
}

// Run executes every selected case of spec: unit, then integration, then
// regression, each in document order. A failing case never stops the run;
// every selected case yields exactly one Result. The returned error is only
// about run state, never about case outcomes.
func (e *Executor) Run(ctx context.Context, spec *testspec.Spec) ([]Result, error) {
	runID := uuid.NewString()
	log := logger.G(ctx).WithFields(logrus.Fields{"run_id": runID, "spec": spec.Path})
	ctx = logger.WithLogger(ctx, log)

	cases, err := e.selectCases(spec)
	if err != nil {
		return nil, err
	}

	root := e.opts.SkillRoot
	if root == "" {
		root = spec.SkillPath
	}
	x := &execution{
		engine: scriptexec.New(root, e.opts.Timeout),
		spec:   spec,
		opts:   e.opts,
	}

	started := time.Now()
	log.WithFields(logrus.Fields{"cases": len(cases), "parallel": e.opts.Parallel}).Info("run started")

	results := e.executeSequence(ctx, x, cases)

	log.WithField("elapsed", time.Since(started)).Info("run finished")

	if e.store != nil {
		if err := e.save(runID, spec, started, results); err != nil {
			return results, err
		}
	}
	return results, nil
}

// executeSequence runs cases with at most Parallel in flight and returns the
// results in case order.
func (e *Executor) executeSequence(ctx context.Context, x *execution, cases []selectedCase) []Result {
	results := make([]Result, len(cases))

	var g errgroup.Group
	g.SetLimit(e.opts.Parallel)
	for i, c := range cases {
		g.Go(func() error {
			results[i] = x.execute(ctx, c)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// selectedCase is a case picked for the run together with its position in
// its section.
type selectedCase struct {
	testspec.Case
	Index int
}

func (e *Executor) selectCases(spec *testspec.Spec) ([]selectedCase, error) {
	all := spec.Cases()

	var only map[string]bool
	if e.opts.RerunFailed {
		failed, err := e.store.LoadFailedCases()
		if err != nil {
			return nil, fmt.Errorf("loading failed cases: %w", err)
		}
		only = make(map[string]bool, len(failed))
		for _, key := range failed {
			only[key] = true
		}
	}

	selected := make([]selectedCase, 0, len(all))
	next := make(map[testspec.Section]int, len(testspec.Sections))
	for _, c := range all {
		index := next[c.Section()]
		next[c.Section()]++

		if e.match != nil && !e.match.Match(c.CaseName()) {
			continue
		}
		if only != nil && !only[caseKey(c.Section(), index, c.CaseName())] {
			continue
		}
		selected = append(selected, selectedCase{Case: c, Index: index})
	}
	return selected, nil
}

func (e *Executor) save(runID string, spec *testspec.Spec, started time.Time, results []Result) error {
	last := LastRun{
		RunID:     runID,
		Spec:      spec.Path,
		Status:    "pass",
		StartedAt: started.UTC(),
		Cases:     []string{},
		Failed:    []string{},
		Pending:   []string{},
	}
	for _, r := range results {
		last.Cases = append(last.Cases, r.Key())
		switch r.Status {
		case StatusFail:
			last.Failed = append(last.Failed, r.Key())
			last.Status = "fail"
		case StatusPending:
			last.Pending = append(last.Pending, r.Key())
		}
	}

	if err := e.store.WriteResults(ResultSet{RunID: runID, Spec: spec.Path, Results: results}); err != nil {
		return fmt.Errorf("writing results: %w", err)
	}
	if err := e.store.WriteLastRun(last); err != nil {
		return fmt.Errorf("writing last run: %w", err)
	}
	return nil
}
