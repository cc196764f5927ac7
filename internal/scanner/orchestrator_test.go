package scanner

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/rahulvramesh/sukkiri/internal/allowlist"
	"github.com/rahulvramesh/sukkiri/internal/types"
)

// blockingScanner never finishes until release is closed.
type blockingScanner struct {
	release chan struct{}
}

func (b blockingScanner) Category() types.Category { return types.Trash }
func (b blockingScanner) Description() string      { return "blocks" }
func (b blockingScanner) Scan(ctx context.Context, r *Reporter, _ *allowlist.Allowlist) types.ScanResult {
	select {
	case <-b.release:
	case <-ctx.Done():
	}
	return types.NewScanResult(types.Trash, "blocks", "", nil)
}

func TestOrchestratorDeliversOneResultPerCategory(t *testing.T) {
	base := t.TempDir()
	dl := filepath.Join(base, "Downloads")
	logs := filepath.Join(base, "Logs")
	writeFile(t, filepath.Join(dl, "a", "f"), 100)
	writeFile(t, filepath.Join(dl, "b", "f"), 200)
	writeFile(t, filepath.Join(logs, "x.log"), 10)

	o := NewOrchestrator(allowlist.New(),
		NewPathScanner(types.Downloads, "dl", dl, dl),
		NewPathScanner(types.UserLogs, "logs", logs, logs),
		NewRecursiveScanner(types.NodeModules, "nm", filepath.Join(base, "none"), "node_modules"),
	)
	if o.Expected() != 3 {
		t.Fatalf("expected 3, got %d", o.Expected())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	ch := o.Start(ctx)
	results, err := Collect(ctx, ch, o.Expected())
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}

	byCategory := map[types.Category]types.ScanResult{}
	for _, r := range results {
		if _, dup := byCategory[r.Category]; dup {
			t.Errorf("duplicate result for %s", r.Category)
		}
		byCategory[r.Category] = r
	}
	if byCategory[types.Downloads].TotalSize != 300 {
		t.Errorf("downloads: expected 300, got %d", byCategory[types.Downloads].TotalSize)
	}
	if byCategory[types.UserLogs].TotalSize != 10 {
		t.Errorf("logs: expected 10, got %d", byCategory[types.UserLogs].TotalSize)
	}
	if _, ok := byCategory[types.NodeModules]; !ok {
		t.Error("missing node modules result")
	}
}

func TestOrchestratorStartDoesNotBlock(t *testing.T) {
	release := make(chan struct{})
	defer close(release)

	o := NewOrchestrator(allowlist.New(), blockingScanner{release: release})

	done := make(chan struct{})
	go func() {
		o.Start(context.Background())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Start blocked on a running scan")
	}
}

func TestCollectStopsOnCancel(t *testing.T) {
	release := make(chan struct{})
	defer close(release)

	o := NewOrchestrator(allowlist.New(), blockingScanner{release: release})
	ctx, cancel := context.WithCancel(context.Background())
	ch := o.Start(ctx)
	cancel()

	results, err := Collect(ctx, ch, o.Expected())
	if err == nil && len(results) != 1 {
		t.Errorf("expected cancellation or a single result, got %d results", len(results))
	}
}

func TestOrchestratorCategories(t *testing.T) {
	o := NewOrchestrator(nil,
		NewPathScanner(types.Downloads, "", "", ""),
		NewDockerScanner(nil),
	)
	cats := o.Categories()
	if len(cats) != 2 || cats[0] != types.Downloads || cats[1] != types.DockerImages {
		t.Errorf("unexpected categories %v", cats)
	}
}
