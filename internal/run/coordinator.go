package run

import (
	"context"
	"errors"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/thebushidocollective/han/internal/cache"
	"github.com/thebushidocollective/han/internal/shell"
	"github.com/thebushidocollective/han/pkg/logging"
)

// errFailFast is returned from a worker goroutine to trip the errgroup's
// derived context, cancelling every target that has not yet started.
// Its text never reaches a user; the outcome slice carries the real
// per-target results.
var errFailFast = errors.New("fail-fast triggered")

// Coordinator runs one action across an ordered list of target
// directories, bounding concurrency, consulting the fingerprint cache,
// and honoring fail-fast cancellation (§4.G).
type Coordinator struct {
	executor *shell.Executor
	cache    *cache.FingerprintCache
	logger   *logging.Logger
}

// NewCoordinator creates a Coordinator. cache may be nil; Options with
// CacheEnabled are then treated as uncached.
func NewCoordinator(executor *shell.Executor, fc *cache.FingerprintCache, logger *logging.Logger) *Coordinator {
	return &Coordinator{executor: executor, cache: fc, logger: logger}
}

// Run executes opts.CommandTemplate once per target, in a pool bounded
// to min(len(targets), NumCPU). Outcomes are returned in target order
// regardless of completion order. When opts.FailFast is set, the first
// non-zero outcome cancels every target that has not yet started;
// those are reported as Cancelled with exit 0, matching the dispatcher
// fail-fast contract (§4.G, §4.H).
func (c *Coordinator) Run(ctx context.Context, targets []string, opts Options) *Result {
	n := len(targets)
	outcomes := make([]Outcome, n)
	if n == 0 {
		return &Result{Outcomes: outcomes, ExitCode: 0}
	}

	workers := n
	if cpu := runtime.NumCPU(); cpu < workers {
		workers = cpu
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for idx := range targets {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				outcomes[idx] = Outcome{Directory: targets[idx], Cancelled: true}
				return nil
			default:
			}

			outcome := c.runOne(gctx, targets[idx], opts)
			outcomes[idx] = outcome

			if opts.FailFast && isFailure(outcome) {
				return errFailFast
			}
			return nil
		})
	}
	_ = g.Wait()

	return &Result{Outcomes: outcomes, ExitCode: finalExitCode(outcomes, opts.FailFast)}
}

func (c *Coordinator) runOne(ctx context.Context, dir string, opts Options) Outcome {
	triple := cache.Triple{Plugin: opts.Plugin, Action: opts.Action, Directory: dir}

	var fingerprint string
	if opts.CacheEnabled && c.cache != nil {
		var shouldRun bool
		shouldRun, fingerprint = c.cache.ShouldRun(triple, opts.IfChanged)
		if !shouldRun {
			return Outcome{Directory: dir, ExitCode: 0, Skipped: true}
		}
	}

	cmd := shell.NewCommand(opts.CommandTemplate, dir).
		WithTimeout(opts.Timeout).
		WithEnv(opts.Env...).
		WithStdin(opts.Stdin)

	result, err := c.executor.Execute(ctx, cmd)
	if err != nil {
		c.logger.Warn("failed to spawn command", logging.String("dir", dir), logging.Err(err))
		return Outcome{Directory: dir, ExitCode: 127, Stderr: []byte(err.Error())}
	}

	outcome := Outcome{
		Directory: dir,
		ExitCode:  result.ExitCode,
		Stdout:    result.Stdout,
		Stderr:    result.Stderr,
		Duration:  result.Duration,
		Cancelled: result.Cancelled,
	}

	if result.ExitCode == 0 && opts.CacheEnabled && c.cache != nil && len(opts.IfChanged) > 0 {
		c.cache.Commit(triple, fingerprint)
	}

	return outcome
}

func isFailure(o Outcome) bool {
	return !o.Skipped && !o.Cancelled && o.ExitCode != 0
}

// finalExitCode applies the §4.G aggregation rule: 0 if every target
// succeeded or was skipped/cancelled; otherwise the first failing
// target's exit code when fail-fast engaged it, else the largest
// observed non-zero code.
func finalExitCode(outcomes []Outcome, failFast bool) int {
	anyFailure := false
	for _, o := range outcomes {
		if isFailure(o) {
			anyFailure = true
			break
		}
	}
	if !anyFailure {
		return 0
	}

	if failFast {
		for _, o := range outcomes {
			if isFailure(o) {
				return o.ExitCode
			}
		}
	}

	max := 0
	for _, o := range outcomes {
		if isFailure(o) && o.ExitCode > max {
			max = o.ExitCode
		}
	}
	return max
}
