package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rahulvramesh/sukkiri/internal/allowlist"
	"github.com/rahulvramesh/sukkiri/internal/cleaner"
	"github.com/rahulvramesh/sukkiri/internal/config"
	"github.com/rahulvramesh/sukkiri/internal/scanner"
	"github.com/rahulvramesh/sukkiri/internal/types"
)

// staticScanner reports a few ticks and then a fixed result.
type staticScanner struct {
	category types.Category
	items    []types.ScannedItem
}

func (s staticScanner) Category() types.Category { return s.category }
func (s staticScanner) Description() string      { return "static" }
func (s staticScanner) Scan(_ context.Context, r *scanner.Reporter, _ *allowlist.Allowlist) types.ScanResult {
	for range s.items {
		r.Tick()
	}
	items := append([]types.ScannedItem(nil), s.items...)
	return types.NewScanResult(s.category, "static", "/", items)
}

type fakeDeleter struct {
	report cleaner.Report
	err    error
	got    []types.ScannedItem
}

func (f *fakeDeleter) Delete(_ context.Context, items []types.ScannedItem) (cleaner.Report, error) {
	f.got = items
	return f.report, f.err
}

func newTestApp(d Deleter, scanners ...scanner.Scanner) *App {
	return New(Options{
		NewOrchestrator: func() *scanner.Orchestrator {
			return scanner.NewOrchestrator(allowlist.New(), scanners...)
		},
		Cleaner: d,
	})
}

func waitFor(t *testing.T, a *App, want State) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		a.Poll()
		if a.State() == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s, state is %s", want, a.State())
}

func sized(sizes ...int64) []types.ScannedItem {
	items := make([]types.ScannedItem, len(sizes))
	for i, s := range sizes {
		items[i] = types.ScannedItem{Path: "/x/" + string(rune('a'+i)), Size: s}
	}
	return items
}

func scannedApp(t *testing.T, d Deleter) *App {
	t.Helper()
	a := newTestApp(d,
		staticScanner{category: types.UserLogs, items: sized(10)},
		staticScanner{category: types.Downloads, items: sized(500, 100)},
		staticScanner{category: types.Trash},
	)
	a.RequestScan()
	waitFor(t, a, Browsing)
	return a
}

func TestScanCompletionSortsAndBrowses(t *testing.T) {
	a := scannedApp(t, &fakeDeleter{})

	res := a.Results()
	if len(res) != 3 {
		t.Fatalf("expected 3 results, got %d", len(res))
	}
	if res[0].Category != types.Downloads || res[1].Category != types.UserLogs || res[2].Category != types.Trash {
		t.Errorf("results not sorted by size: %v, %v, %v", res[0].Category, res[1].Category, res[2].Category)
	}
	if a.Cursor() != 0 {
		t.Errorf("cursor should be on row 0, got %d", a.Cursor())
	}
	for _, p := range a.Progress() {
		if p.Status != types.StatusDone {
			t.Errorf("%s: expected Done, got %q", p.Category, p.Status)
		}
	}
	if a.TotalSize() != 610 {
		t.Errorf("expected total 610, got %d", a.TotalSize())
	}
}

func TestProgressIsMonotonic(t *testing.T) {
	a := New(Options{})
	a.progress[types.Trash] = &types.ScanProgress{Category: types.Trash, Status: types.StatusWaiting}
	a.order = []types.Category{types.Trash}
	a.expected = 1

	a.apply(types.ScanUpdate{Progress: &types.ScanProgress{Category: types.Trash, ItemsCount: 5, Status: types.StatusScanning}})
	a.apply(types.ScanUpdate{Progress: &types.ScanProgress{Category: types.Trash, ItemsCount: 3, Status: types.StatusScanning}})

	p := a.Progress()[0]
	if p.ItemsCount != 5 || p.Status != types.StatusScanning {
		t.Errorf("unexpected progress %+v", p)
	}
	if a.State() != Scanning {
		t.Errorf("should still be scanning")
	}

	r := types.NewScanResult(types.Trash, "", "", nil)
	a.apply(types.ScanUpdate{Result: &r})
	// late progress after completion is harmless
	a.apply(types.ScanUpdate{Progress: &types.ScanProgress{Category: types.Trash, ItemsCount: 9, Status: types.StatusScanning}})

	p = a.Progress()[0]
	if p.Status != types.StatusDone {
		t.Errorf("expected Done, got %q", p.Status)
	}
	if a.State() != Browsing {
		t.Errorf("expected Browsing, got %s", a.State())
	}
}

func TestRequestCleanRequiresSelection(t *testing.T) {
	a := scannedApp(t, &fakeDeleter{})

	a.RequestClean()
	if a.State() != Browsing {
		t.Fatalf("clean with nothing selected must not change state, got %s", a.State())
	}

	// Trash has size 0; selecting it alone is still nothing to reclaim.
	a.ToggleSelection(2)
	a.RequestClean()
	if a.State() != Browsing {
		t.Fatalf("zero-size selection must not change state, got %s", a.State())
	}

	a.ToggleSelection(0)
	a.RequestClean()
	if a.State() != Confirming {
		t.Fatalf("expected Confirming, got %s", a.State())
	}

	a.Cancel()
	if a.State() != Browsing {
		t.Fatalf("cancel should return to Browsing, got %s", a.State())
	}
}

func TestCursorWraps(t *testing.T) {
	a := scannedApp(t, &fakeDeleter{})
	a.Previous()
	if a.Cursor() != 2 {
		t.Errorf("expected wrap to 2, got %d", a.Cursor())
	}
	a.Next()
	if a.Cursor() != 0 {
		t.Errorf("expected wrap to 0, got %d", a.Cursor())
	}
	a.Next()
	a.Toggle()
	if cur, _ := a.Current(); !cur.IsSelected || cur.Category != types.UserLogs {
		t.Errorf("toggle should select the cursor row, got %+v", cur)
	}
}

func TestToggleAll(t *testing.T) {
	a := scannedApp(t, &fakeDeleter{})
	a.ToggleAll()
	if a.TotalSelectedSize() != 610 {
		t.Errorf("expected all selected, got %d", a.TotalSelectedSize())
	}
	a.ToggleAll()
	if a.TotalSelectedSize() != 0 {
		t.Errorf("expected none selected, got %d", a.TotalSelectedSize())
	}
}

func TestCleaningRoundTrip(t *testing.T) {
	d := &fakeDeleter{report: cleaner.Report{Freed: 600, Removed: 2}}
	a := scannedApp(t, d)

	a.ToggleSelection(0)
	a.RequestClean()
	a.Confirm()
	if a.State() != Cleaning {
		t.Fatalf("expected Cleaning, got %s", a.State())
	}
	waitFor(t, a, Done)

	if len(d.got) != 2 {
		t.Errorf("expected 2 items handed to the cleaner, got %d", len(d.got))
	}
	if a.Message() != "Successfully cleaned 600 B!" {
		t.Errorf("unexpected message %q", a.Message())
	}
	res := a.Results()[0]
	if res.TotalSize != 0 || res.IsSelected || len(res.Items) != 0 {
		t.Errorf("cleaned row should be zeroed, got %+v", res)
	}
	if a.Results()[1].TotalSize != 10 {
		t.Error("unselected rows must be untouched")
	}

	a.Acknowledge()
	if a.State() != Browsing || a.Message() != "" {
		t.Errorf("acknowledge should return to Browsing, got %s", a.State())
	}
}

func TestCleaningFailureStillClearsSelection(t *testing.T) {
	d := &fakeDeleter{err: errors.New("rmi abc failed")}
	a := scannedApp(t, d)

	a.ToggleSelection(1)
	a.RequestClean()
	a.Confirm()
	waitFor(t, a, Done)

	if !strings.HasPrefix(a.Message(), "Error during cleaning: ") {
		t.Errorf("unexpected message %q", a.Message())
	}
	if a.Results()[1].TotalSize != 0 || a.Results()[1].IsSelected {
		t.Error("selected row should be zeroed regardless of failure")
	}
}

func TestSkippedItemsReported(t *testing.T) {
	got := successMessage(cleaner.Report{Freed: 2048, Skipped: 3})
	if got != "Successfully cleaned 2.0 KiB! (3 items skipped)" {
		t.Errorf("unexpected message %q", got)
	}
}

func TestCleaningRealFiles(t *testing.T) {
	dir := t.TempDir()
	var items []types.ScannedItem
	for _, name := range []string{"a.log", "b.log"} {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, make([]byte, 64), 0o644); err != nil {
			t.Fatal(err)
		}
		items = append(items, types.ScannedItem{Path: path, Size: 64})
	}

	a := newTestApp(cleaner.New(config.ModePermanent, nil, nil),
		staticScanner{category: types.UserLogs, items: items})
	a.RequestScan()
	waitFor(t, a, Browsing)

	a.ToggleSelection(0)
	a.RequestClean()
	a.Confirm()
	waitFor(t, a, Done)

	for _, item := range items {
		if _, err := os.Stat(item.Path); !os.IsNotExist(err) {
			t.Errorf("%s should be deleted", item.Path)
		}
	}
	if r := a.Results()[0]; r.TotalSize != 0 || r.IsSelected {
		t.Errorf("row should be zeroed, got %+v", r)
	}
}

func TestDeleteMode(t *testing.T) {
	if got := newTestApp(cleaner.New(config.ModePermanent, nil, nil)).DeleteMode(); got != "permanent" {
		t.Errorf("permanent cleaner reported %q", got)
	}
	if got := newTestApp(cleaner.New(config.ModeTrash, nil, nil)).DeleteMode(); got != "trash" {
		t.Errorf("trash cleaner reported %q", got)
	}
	if got := newTestApp(&fakeDeleter{}).DeleteMode(); got != "" {
		t.Errorf("deleter without a mode reported %q", got)
	}
}

func TestQuitDuringScanReturns(t *testing.T) {
	a := newTestApp(&fakeDeleter{}, staticScanner{category: types.Trash})
	a.RequestScan()

	done := make(chan struct{})
	go func() {
		a.Quit()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Quit blocked")
	}
}

func TestEmptyScanGoesStraightToBrowsing(t *testing.T) {
	a := newTestApp(&fakeDeleter{})
	a.RequestScan()
	if a.State() != Browsing {
		t.Errorf("expected Browsing, got %s", a.State())
	}
}
