// Package app holds the interactive state machine: it owns the scan results
// and selection, and drains scanner and cleaner output whenever Poll runs.
// It is not safe for concurrent use; the UI loop is its only caller.
package app

import (
	"context"
	"fmt"
	"sort"

	"github.com/dustin/go-humanize"

	"github.com/rahulvramesh/sukkiri/internal/cleaner"
	"github.com/rahulvramesh/sukkiri/internal/config"
	"github.com/rahulvramesh/sukkiri/internal/logging"
	"github.com/rahulvramesh/sukkiri/internal/scanner"
	"github.com/rahulvramesh/sukkiri/internal/types"
	"github.com/rahulvramesh/sukkiri/internal/utils"
)

// State is the current screen of the app
type State int

const (
	Scanning State = iota
	Browsing
	Confirming
	Cleaning
	Done
)

func (s State) String() string {
	switch s {
	case Scanning:
		return "scanning"
	case Browsing:
		return "browsing"
	case Confirming:
		return "confirming"
	case Cleaning:
		return "cleaning"
	case Done:
		return "done"
	}
	return "unknown"
}

// NothingSelected is the Done message for a clean with no items.
const NothingSelected = "Nothing selected to clean."

// Deleter removes selected items. *cleaner.Cleaner satisfies it.
type Deleter interface {
	Delete(ctx context.Context, items []types.ScannedItem) (cleaner.Report, error)
}

// Options wires the app to its collaborators.
type Options struct {
	// NewOrchestrator builds a fresh orchestrator for every scan pass.
	NewOrchestrator func() *scanner.Orchestrator
	Cleaner         Deleter
	// DiskPath is the volume shown in the header. Empty disables it.
	DiskPath string
}

type cleanOutcome struct {
	message string
	err     error
	disk    *utils.DiskStat
}

// App is the coordinating state machine.
type App struct {
	opts Options

	state   State
	message string

	results  []types.ScanResult
	cursor   int
	progress map[types.Category]*types.ScanProgress
	order    []types.Category

	updates  <-chan types.ScanUpdate
	expected int
	cancel   context.CancelFunc

	cleanDone chan cleanOutcome

	disk   *utils.DiskStat
	diskCh chan *utils.DiskStat
}

// New returns an app waiting for RequestScan.
func New(opts Options) *App {
	return &App{
		opts:     opts,
		state:    Scanning,
		progress: make(map[types.Category]*types.ScanProgress),
	}
}

// RequestScan starts a new scan pass and enters Scanning. A pass already in
// flight is cancelled and its channel abandoned.
func (a *App) RequestScan() {
	if a.cancel != nil {
		a.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel

	orch := a.opts.NewOrchestrator()
	a.order = orch.Categories()
	a.expected = orch.Expected()
	a.results = make([]types.ScanResult, 0, a.expected)
	a.cursor = 0
	a.progress = make(map[types.Category]*types.ScanProgress, len(a.order))
	for _, c := range a.order {
		a.progress[c] = &types.ScanProgress{Category: c, Status: types.StatusWaiting}
	}

	a.state = Scanning
	a.updates = orch.Start(ctx)
	logging.Named("app").Info("scan started", logging.Int("categories", a.expected))

	a.refreshDisk()
	if a.expected == 0 {
		a.finishScan()
	}
}

// Poll drains every pending message without blocking. Call it on each
// redraw tick.
func (a *App) Poll() {
	a.pollDisk()
	switch a.state {
	case Scanning:
		a.pollScan()
	case Cleaning:
		a.pollClean()
	}
}

func (a *App) pollScan() {
	for a.updates != nil {
		select {
		case upd := <-a.updates:
			a.apply(upd)
		default:
			return
		}
	}
}

func (a *App) apply(upd types.ScanUpdate) {
	if p := upd.Progress; p != nil {
		entry, ok := a.progress[p.Category]
		if !ok {
			return
		}
		// Counts are cumulative and may arrive late or out of order.
		if p.ItemsCount > entry.ItemsCount {
			entry.ItemsCount = p.ItemsCount
		}
		if entry.Status != types.StatusDone {
			entry.Status = p.Status
		}
	}
	if r := upd.Result; r != nil {
		if entry, ok := a.progress[r.Category]; ok {
			entry.Status = types.StatusDone
		}
		a.results = append(a.results, *r)
		if len(a.results) >= a.expected {
			a.finishScan()
		}
	}
}

func (a *App) finishScan() {
	sort.SliceStable(a.results, func(i, j int) bool {
		return a.results[i].TotalSize > a.results[j].TotalSize
	})
	a.cursor = 0
	a.updates = nil
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	a.state = Browsing
	logging.Named("app").Info("scan finished", logging.Int("categories", len(a.results)))
}

// ToggleSelection flips the selection of row i while browsing.
func (a *App) ToggleSelection(i int) {
	if a.state != Browsing || i < 0 || i >= len(a.results) {
		return
	}
	a.results[i].IsSelected = !a.results[i].IsSelected
}

// Toggle flips the row under the cursor
func (a *App) Toggle() { a.ToggleSelection(a.cursor) }

// ToggleAll selects every row, or clears them all if all were selected.
func (a *App) ToggleAll() {
	if a.state != Browsing {
		return
	}
	all := true
	for _, r := range a.results {
		if !r.IsSelected {
			all = false
			break
		}
	}
	for i := range a.results {
		a.results[i].IsSelected = !all
	}
}

// Next moves the cursor down, wrapping to the top.
func (a *App) Next() {
	if len(a.results) == 0 {
		return
	}
	a.cursor = (a.cursor + 1) % len(a.results)
}

// Previous moves the cursor up, wrapping to the bottom.
func (a *App) Previous() {
	if len(a.results) == 0 {
		return
	}
	a.cursor = (a.cursor - 1 + len(a.results)) % len(a.results)
}

// TotalSelectedSize sums TotalSize over selected rows.
func (a *App) TotalSelectedSize() int64 {
	var total int64
	for _, r := range a.results {
		if r.IsSelected {
			total += r.TotalSize
		}
	}
	return total
}

// RequestClean moves from Browsing to Confirming when there is something to
// reclaim; otherwise it does nothing.
func (a *App) RequestClean() {
	if a.state != Browsing || a.TotalSelectedSize() <= 0 {
		return
	}
	a.state = Confirming
}

// Confirm starts the cleaner in the background and enters Cleaning.
func (a *App) Confirm() {
	if a.state != Confirming {
		return
	}

	var items []types.ScannedItem
	for _, r := range a.results {
		if r.IsSelected {
			items = append(items, r.Items...)
		}
	}
	if len(items) == 0 {
		a.finish(NothingSelected)
		return
	}

	a.state = Cleaning
	done := make(chan cleanOutcome, 1)
	a.cleanDone = done
	del := a.opts.Cleaner
	diskPath := a.opts.DiskPath

	logging.Named("app").Info("clean started", logging.Int("items", len(items)))
	go func() {
		ctx := context.Background()
		var out cleanOutcome
		report, err := del.Delete(ctx, items)
		if err != nil {
			out.err = err
			out.message = fmt.Sprintf("Error during cleaning: %v", err)
		} else {
			out.message = successMessage(report)
		}
		if diskPath != "" {
			if st, derr := utils.DiskUsage(ctx, diskPath); derr == nil {
				out.disk = &st
			}
		}
		done <- out
	}()
}

func successMessage(r cleaner.Report) string {
	msg := fmt.Sprintf("Successfully cleaned %s!", humanize.IBytes(uint64(max(r.Freed, 0))))
	if r.Skipped > 0 {
		msg += fmt.Sprintf(" (%d items skipped)", r.Skipped)
	}
	return msg
}

func (a *App) pollClean() {
	if a.cleanDone == nil {
		return
	}
	select {
	case out := <-a.cleanDone:
		a.cleanDone = nil
		// Selected rows are cleared even on failure.
		for i := range a.results {
			if a.results[i].IsSelected {
				a.results[i].Clear()
			}
		}
		if out.disk != nil {
			a.disk = out.disk
		}
		if out.err != nil {
			logging.Named("app").Warn("clean failed", logging.Err(out.err))
		}
		a.finish(out.message)
	default:
	}
}

func (a *App) finish(message string) {
	a.message = message
	a.state = Done
}

// Cancel backs out of the confirmation prompt.
func (a *App) Cancel() {
	if a.state == Confirming {
		a.state = Browsing
	}
}

// Acknowledge dismisses the Done message
func (a *App) Acknowledge() {
	if a.state == Done {
		a.message = ""
		a.state = Browsing
	}
}

// Quit cancels any scan in flight. It returns at once; scanners stop at
// their next cancellation check.
func (a *App) Quit() {
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
}

func (a *App) refreshDisk() {
	if a.opts.DiskPath == "" {
		return
	}
	ch := make(chan *utils.DiskStat, 1)
	a.diskCh = ch
	path := a.opts.DiskPath
	go func() {
		st, err := utils.DiskUsage(context.Background(), path)
		if err != nil {
			logging.Named("app").Debug("disk usage unavailable", logging.Err(err))
			ch <- nil
			return
		}
		ch <- &st
	}()
}

func (a *App) pollDisk() {
	if a.diskCh == nil {
		return
	}
	select {
	case st := <-a.diskCh:
		a.diskCh = nil
		if st != nil {
			a.disk = st
		}
	default:
	}
}

// State returns the current state
func (a *App) State() State { return a.state }

// Message is the Done message, empty in other states.
func (a *App) Message() string { return a.message }

// Results returns the rows in display order. Callers must not modify them.
func (a *App) Results() []types.ScanResult { return a.results }

// Cursor is the highlighted row
func (a *App) Cursor() int { return a.cursor }

// Current returns the highlighted row, if any.
func (a *App) Current() (types.ScanResult, bool) {
	if a.cursor < 0 || a.cursor >= len(a.results) {
		return types.ScanResult{}, false
	}
	return a.results[a.cursor], true
}

// Progress returns per-category progress in launch order.
func (a *App) Progress() []types.ScanProgress {
	out := make([]types.ScanProgress, 0, len(a.order))
	for _, c := range a.order {
		if p, ok := a.progress[c]; ok {
			out = append(out, *p)
		}
	}
	return out
}

// Completed is the number of category results received so far
func (a *App) Completed() int { return len(a.results) }

// Expected is the number of categories in the current pass
func (a *App) Expected() int { return a.expected }

// TotalSize sums TotalSize over every row.
func (a *App) TotalSize() int64 {
	var total int64
	for _, r := range a.results {
		total += r.TotalSize
	}
	return total
}

// Disk is the latest disk usage of DiskPath, or nil.
func (a *App) Disk() *utils.DiskStat { return a.disk }

// DeleteMode names how the cleaner removes files, or "" when the
// configured Deleter does not say.
func (a *App) DeleteMode() string {
	if m, ok := a.opts.Cleaner.(interface{ Mode() config.DeleteMode }); ok {
		return m.Mode().String()
	}
	return ""
}
