package scanner

import (
	"context"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/rahulvramesh/sukkiri/internal/allowlist"
	"github.com/rahulvramesh/sukkiri/internal/types"
	"github.com/rahulvramesh/sukkiri/internal/utils"
)

// MaxSearchDepth bounds how far below a root the name search descends.
const MaxSearchDepth = 5

// RecursiveScanner finds directories with a given name (node_modules and
// the like) nested anywhere within MaxSearchDepth levels of a root.
type RecursiveScanner struct {
	category    types.Category
	description string
	root        string
	target      string
}

// NewRecursiveScanner searches root for directories named target.
func NewRecursiveScanner(category types.Category, description, root, target string) *RecursiveScanner {
	return &RecursiveScanner{
		category:    category,
		description: description,
		root:        root,
		target:      target,
	}
}

func (s *RecursiveScanner) Category() types.Category { return s.category }
func (s *RecursiveScanner) Description() string      { return s.description }

func (s *RecursiveScanner) Scan(ctx context.Context, r *Reporter, allow *allowlist.Allowlist) types.ScanResult {
	var items []types.ScannedItem
	if utils.Exists(s.root) {
		found := findDirs(ctx, s.root, s.target, MaxSearchDepth, allow)
		items = statAll(ctx, found, r)
	}
	return types.NewScanResult(s.category, s.description, s.root, items)
}

// findDirs walks root up to maxDepth, skipping hidden directories, and
// returns every directory named target that the allowlist does not protect.
// A match is not descended into, so nested copies are not counted twice.
func findDirs(ctx context.Context, root, target string, maxDepth int, allow *allowlist.Allowlist) []string {
	var found []string
	filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if !d.IsDir() || path == root {
			return nil
		}

		name := d.Name()
		if strings.HasPrefix(name, ".") {
			return filepath.SkipDir
		}
		if name == target {
			if !allow.IsAllowed(path) {
				found = append(found, path)
			}
			return filepath.SkipDir
		}
		if depth(root, path) >= maxDepth {
			return filepath.SkipDir
		}
		return nil
	})
	return found
}

func depth(root, path string) int {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return 0
	}
	return strings.Count(rel, string(filepath.Separator)) + 1
}
