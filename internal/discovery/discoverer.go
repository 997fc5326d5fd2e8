package discovery

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/thebushidocollective/han/internal/shell"
	"github.com/thebushidocollective/han/pkg/logging"
)

// testDirTimeout bounds a testDir probe command (§4.D).
const testDirTimeout = 5 * time.Second

// Discoverer enumerates the working directories an action should run
// in, given its dirsWith/testDir filters (§4.D).
type Discoverer struct {
	executor *shell.Executor
	logger   *logging.Logger
}

// NewDiscoverer creates a Discoverer. The executor is reused to run
// testDir probes.
func NewDiscoverer(executor *shell.Executor, logger *logging.Logger) *Discoverer {
	return &Discoverer{executor: executor, logger: logger}
}

// Discover returns the ordered list of directories under start that
// satisfy dirsWith/testDir. With neither filter set, it returns
// [start]. An empty result is a legitimate outcome, not an error.
func (d *Discoverer) Discover(start, dirsWith, testDir string) []string {
	if dirsWith == "" && testDir == "" {
		return []string{start}
	}

	entries, err := os.ReadDir(start)
	if err != nil {
		d.logger.Warn("failed to enumerate directory", logging.String("dir", start), logging.Err(err))
		entries = nil
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	accepted := make([]string, 0, len(names)+1)
	if d.qualifies(start, dirsWith, testDir) {
		accepted = append(accepted, start)
	}
	for _, name := range names {
		candidate := filepath.Join(start, name)
		if d.qualifies(candidate, dirsWith, testDir) {
			accepted = append(accepted, candidate)
		}
	}

	return accepted
}

func (d *Discoverer) qualifies(dir, dirsWith, testDir string) bool {
	if dirsWith != "" {
		if _, err := os.Stat(filepath.Join(dir, dirsWith)); err != nil {
			return false
		}
	}
	if testDir != "" {
		ctx, cancel := context.WithTimeout(context.Background(), testDirTimeout)
		defer cancel()
		cmd := shell.NewCommand(testDir, dir).WithTimeout(testDirTimeout)
		result, err := d.executor.Execute(ctx, cmd)
		if err != nil || result.ExitCode != 0 {
			return false
		}
	}
	return true
}
