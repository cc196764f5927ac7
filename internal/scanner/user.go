package scanner

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/rahulvramesh/sukkiri/internal/allowlist"
	"github.com/rahulvramesh/sukkiri/internal/config"
	"github.com/rahulvramesh/sukkiri/internal/types"
	"github.com/rahulvramesh/sukkiri/internal/utils"
)

// UserCacheScanner covers ~/Library/Caches minus the browser caches, plus
// the cache directory of every sandboxed app container present at scan time.
type UserCacheScanner struct {
	root       string
	containers string
	excluded   []string
}

// NewUserCacheScanner builds the composite user cache scanner for p.
func NewUserCacheScanner(p config.Paths) *UserCacheScanner {
	return &UserCacheScanner{
		root:       p.InHome(config.LibraryCaches),
		containers: p.InHome(config.Containers),
		excluded:   p.InHomeAll(config.BrowserCaches...),
	}
}

func (s *UserCacheScanner) Category() types.Category { return types.UserCache }

func (s *UserCacheScanner) Description() string {
	return "User cache files (including sandboxed apps)."
}

func (s *UserCacheScanner) Scan(ctx context.Context, r *Reporter, allow *allowlist.Allowlist) types.ScanResult {
	items := s.withoutExcluded(scanPath(ctx, s.root, r, allow, nil))
	items = append(items, s.scanContainers(ctx, r, allow)...)
	return types.NewScanResult(types.UserCache, s.Description(), s.root, items)
}

// withoutExcluded drops items already attributed to the browser category.
func (s *UserCacheScanner) withoutExcluded(items []types.ScannedItem) []types.ScannedItem {
	kept := items[:0]
	for _, item := range items {
		if !s.isExcluded(item.Path) {
			kept = append(kept, item)
		}
	}
	return kept
}

func (s *UserCacheScanner) isExcluded(path string) bool {
	for _, ex := range s.excluded {
		if strings.Contains(path, ex) {
			return true
		}
	}
	return false
}

// containerCaches lists <containers>/*/Data/Library/Caches directories that exist.
func (s *UserCacheScanner) containerCaches() []string {
	entries, err := os.ReadDir(s.containers)
	if err != nil {
		return nil
	}
	var dirs []string
	for _, e := range entries {
		dir := filepath.Join(s.containers, e.Name(), filepath.FromSlash(config.ContainerData))
		if utils.Exists(dir) {
			dirs = append(dirs, dir)
		}
	}
	return dirs
}

func (s *UserCacheScanner) scanContainers(ctx context.Context, r *Reporter, allow *allowlist.Allowlist) []types.ScannedItem {
	var (
		mu    sync.Mutex
		items []types.ScannedItem
		g     errgroup.Group
	)
	g.SetLimit(parallelism())
	for _, dir := range s.containerCaches() {
		g.Go(func() error {
			found := scanPath(ctx, dir, r, allow, nil)
			mu.Lock()
			items = append(items, found...)
			mu.Unlock()
			return nil
		})
	}
	g.Wait()
	return items
}
