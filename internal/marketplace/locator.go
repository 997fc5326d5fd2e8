package marketplace

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/thebushidocollective/han/internal/config"
	"github.com/thebushidocollective/han/pkg/errors"
	"github.com/thebushidocollective/han/pkg/logging"
)

// subRoots are the conventional sub-paths probed under a marketplace
// root, in order, before falling back to a flat layout (§4.B).
var subRoots = []string{"jutsu", "do", "hashi"}

// markerDir is the well-known subdirectory whose presence in the
// current working directory makes the cwd an implicit marketplace
// root, supporting invocation from within a plugin-development
// checkout.
const markerDir = ".han-marketplace"

// Locator resolves a plugin name to an on-disk root directory by
// searching marketplace roots in a fixed order.
type Locator struct {
	cfg    *config.Config
	logger *logging.Logger
}

// NewLocator creates a Locator over the resolved configuration.
func NewLocator(cfg *config.Config, logger *logging.Logger) *Locator {
	return &Locator{cfg: cfg, logger: logger}
}

// Locate resolves name (optionally qualified by marketplaceName) to a
// plugin root directory. An empty marketplaceName tries every known
// marketplace in turn. Returns errors.TypePluginNotFound when no
// candidate exists.
func (l *Locator) Locate(name, marketplaceName string) (string, error) {
	var roots []string

	if cwdRoot, ok := l.implicitRoot(); ok {
		roots = append(roots, cwdRoot)
	}

	if marketplaceName != "" {
		root, ok := l.cfg.MarketplaceRoot(marketplaceName)
		if !ok {
			return "", errors.NewPluginNotFoundError(name, roots)
		}
		roots = append(roots, root)
	} else {
		roots = append(roots, l.orderedMarketplaceRoots()...)
	}

	var probed []string
	for _, root := range roots {
		for _, candidate := range candidatesFor(root, name) {
			probed = append(probed, candidate)
			if info, err := os.Stat(candidate); err == nil && info.IsDir() {
				l.logger.Debug("resolved plugin root",
					logging.String("plugin", name),
					logging.String("root", candidate))
				return candidate, nil
			}
		}
	}

	l.logger.Debug("plugin not found", logging.String("plugin", name))
	return "", errors.NewPluginNotFoundError(name, probed)
}

// candidatesFor returns the ordered subpath candidates under root for
// a plugin name: jutsu/<name>, do/<name>, hashi/<name>, <name>.
func candidatesFor(root, name string) []string {
	candidates := make([]string, 0, len(subRoots)+1)
	for _, sub := range subRoots {
		candidates = append(candidates, filepath.Join(root, sub, name))
	}
	candidates = append(candidates, filepath.Join(root, name))
	return candidates
}

// implicitRoot reports whether the current working directory should be
// treated as a marketplace root (its well-known marker subdirectory is
// present).
func (l *Locator) implicitRoot() (string, bool) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", false
	}
	info, err := os.Stat(filepath.Join(cwd, markerDir))
	if err != nil || !info.IsDir() {
		return "", false
	}
	return cwd, true
}

// orderedMarketplaceRoots returns the configured marketplace roots in a
// deterministic order. Configuration scopes are merged into a single
// map, so "configuration order" from spec.md §4.B is approximated by
// sorting marketplace names; true declaration order is not preserved
// across merged scopes.
func (l *Locator) orderedMarketplaceRoots() []string {
	names := make([]string, 0, len(l.cfg.Marketplaces))
	for name := range l.cfg.Marketplaces {
		names = append(names, name)
	}
	sort.Strings(names)

	roots := make([]string, 0, len(names))
	for _, name := range names {
		roots = append(roots, l.cfg.Marketplaces[name])
	}
	return roots
}
