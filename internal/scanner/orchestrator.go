package scanner

import (
	"context"
	"time"

	"github.com/rahulvramesh/sukkiri/internal/allowlist"
	"github.com/rahulvramesh/sukkiri/internal/logging"
	"github.com/rahulvramesh/sukkiri/internal/types"
)

// updateBuffer is the progress headroom of the shared update channel.
const updateBuffer = 256

// Orchestrator runs every category scanner concurrently and multiplexes
// their progress and results onto one channel.
type Orchestrator struct {
	allow    *allowlist.Allowlist
	scanners []Scanner
}

// NewOrchestrator shares allow, read-only, across all scanners.
func NewOrchestrator(allow *allowlist.Allowlist, scanners ...Scanner) *Orchestrator {
	return &Orchestrator{allow: allow, scanners: scanners}
}

// Categories lists the categories in launch order
func (o *Orchestrator) Categories() []types.Category {
	out := make([]types.Category, 0, len(o.scanners))
	for _, s := range o.scanners {
		out = append(out, s.Category())
	}
	return out
}

// Expected is the number of results a consumer must receive before the
// scan is complete.
func (o *Orchestrator) Expected() int {
	return len(o.scanners)
}

// Start launches one goroutine per scanner and returns at once. Each task
// sends its progress and then exactly one result on the returned channel.
// The channel is never closed; consumers count results instead.
//
// Cancelling ctx makes scanners stop measuring new items and unblocks any
// pending result send. Start never waits for tasks to finish.
func (o *Orchestrator) Start(ctx context.Context) <-chan types.ScanUpdate {
	ch := make(chan types.ScanUpdate, updateBuffer+len(o.scanners))
	for _, s := range o.scanners {
		go o.run(ctx, s, ch)
	}
	return ch
}

func (o *Orchestrator) run(ctx context.Context, s Scanner, ch chan<- types.ScanUpdate) {
	log := logging.Named("scanner")
	start := time.Now()

	r := NewReporter(s.Category(), ch)
	result := s.Scan(ctx, r, o.allow)

	log.Debug("category scanned",
		logging.String("category", s.Category().Name()),
		logging.Int("items", len(result.Items)),
		logging.Int64("bytes", result.TotalSize),
		logging.Duration("took", time.Since(start)),
	)

	select {
	case ch <- types.ScanUpdate{Result: &result}:
	case <-ctx.Done():
	}
}

// Collect blocks until n results have arrived or ctx ends. It is for
// headless callers; the interactive loop drains the channel with Poll.
func Collect(ctx context.Context, ch <-chan types.ScanUpdate, n int) ([]types.ScanResult, error) {
	results := make([]types.ScanResult, 0, n)
	for len(results) < n {
		select {
		case upd := <-ch:
			if upd.Result != nil {
				results = append(results, *upd.Result)
			}
		case <-ctx.Done():
			return results, ctx.Err()
		}
	}
	return results, nil
}
