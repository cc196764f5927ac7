package scanner

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/rahulvramesh/sukkiri/internal/allowlist"
	"github.com/rahulvramesh/sukkiri/internal/types"
	"github.com/rahulvramesh/sukkiri/internal/utils"
)

// Scanner produces the ScanResult for one category
type Scanner interface {
	Category() types.Category
	Description() string
	Scan(ctx context.Context, r *Reporter, allow *allowlist.Allowlist) types.ScanResult
}

// Reporter is the progress handle of one category task. It is bound to the
// task's category and channel once, and a nil Reporter discards progress.
type Reporter struct {
	category types.Category
	ch       chan<- types.ScanUpdate
	count    atomic.Int64
}

// NewReporter binds progress for category to ch.
func NewReporter(category types.Category, ch chan<- types.ScanUpdate) *Reporter {
	return &Reporter{category: category, ch: ch}
}

// Tick records one processed item. Sends never block: when the channel is
// full the update is dropped, and since every update carries the running
// total the next one catches the consumer up.
func (r *Reporter) Tick() {
	if r == nil {
		return
	}
	n := r.count.Add(1)
	if r.ch == nil {
		return
	}
	select {
	case r.ch <- types.ScanUpdate{Progress: &types.ScanProgress{
		Category:   r.category,
		ItemsCount: n,
		Status:     types.StatusScanning,
	}}:
	default:
	}
}

// Count returns the number of items reported so far
func (r *Reporter) Count() int64 {
	if r == nil {
		return 0
	}
	return r.count.Load()
}

// parallelism is the single built-in bound for data-parallel stat work.
func parallelism() int {
	return runtime.GOMAXPROCS(0)
}

// statAll measures paths concurrently, at most parallelism() at a time,
// ticking r once per path. Work not started before ctx is cancelled is
// skipped.
func statAll(ctx context.Context, paths []string, r *Reporter) []types.ScannedItem {
	results := make([]types.ScannedItem, len(paths))
	measured := make([]bool, len(paths))

	var g errgroup.Group
	g.SetLimit(parallelism())
	for i, path := range paths {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			r.Tick()
			results[i] = utils.CalculateItemStats(path)
			measured[i] = true
			return nil
		})
	}
	g.Wait()

	items := make([]types.ScannedItem, 0, len(paths))
	for i, ok := range measured {
		if ok {
			items = append(items, results[i])
		}
	}
	return items
}

// scanPath lists the immediate children of root, drops the ones the
// allowlist protects (and, when keep is set, the ones it rejects), and
// measures the rest. A missing or unreadable root yields no items.
func scanPath(ctx context.Context, root string, r *Reporter, allow *allowlist.Allowlist, keep func(name string) bool) []types.ScannedItem {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil
	}

	paths := make([]string, 0, len(entries))
	for _, entry := range entries {
		if keep != nil && !keep(entry.Name()) {
			continue
		}
		path := filepath.Join(root, entry.Name())
		if allow.IsAllowed(path) {
			continue
		}
		paths = append(paths, path)
	}

	items := statAll(ctx, paths, r)
	types.SortBySize(items)
	return items
}

// PathScanner measures the immediate children of a fixed set of roots.
type PathScanner struct {
	category    types.Category
	description string
	roots       []string
	fallback    string
	prefixes    []string
}

// NewPathScanner keeps the candidates that exist right now. fallback is
// reported as the root path when none do.
func NewPathScanner(category types.Category, description, fallback string, candidates ...string) *PathScanner {
	var roots []string
	for _, c := range candidates {
		if utils.Exists(c) {
			roots = append(roots, c)
		}
	}
	return &PathScanner{
		category:    category,
		description: description,
		roots:       roots,
		fallback:    fallback,
	}
}

// WithNamePrefixes restricts results to children whose file name starts
// with one of prefixes.
func (s *PathScanner) WithNamePrefixes(prefixes ...string) *PathScanner {
	s.prefixes = prefixes
	return s
}

func (s *PathScanner) Category() types.Category { return s.category }
func (s *PathScanner) Description() string      { return s.description }

// RootPath is the first existing root, else the fallback.
func (s *PathScanner) RootPath() string {
	if len(s.roots) > 0 {
		return s.roots[0]
	}
	return s.fallback
}

func (s *PathScanner) Scan(ctx context.Context, r *Reporter, allow *allowlist.Allowlist) types.ScanResult {
	var keep func(string) bool
	if len(s.prefixes) > 0 {
		keep = s.hasPrefix
	}

	var items []types.ScannedItem
	for _, root := range s.roots {
		items = append(items, scanPath(ctx, root, r, allow, keep)...)
	}
	return types.NewScanResult(s.category, s.description, s.RootPath(), items)
}

func (s *PathScanner) hasPrefix(name string) bool {
	for _, p := range s.prefixes {
		if strings.HasPrefix(name, p) {
			return true
		}
	}
	return false
}
