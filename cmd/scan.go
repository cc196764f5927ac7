package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/rahulvramesh/sukkiri/internal/allowlist"
	"github.com/rahulvramesh/sukkiri/internal/config"
	"github.com/rahulvramesh/sukkiri/internal/container"
	"github.com/rahulvramesh/sukkiri/internal/logging"
	"github.com/rahulvramesh/sukkiri/internal/scanner"
	"github.com/rahulvramesh/sukkiri/internal/types"
)

var scanVerbose bool

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan every category and print a report",
	Long:  "Run a full scan without the interactive UI and print what each category would reclaim. Nothing is deleted.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runScanReport(cmd)
	},
}

func init() {
	scanCmd.Flags().BoolVarP(&scanVerbose, "verbose", "v", false, "List the largest items of each category")
}

func runScanReport(cmd *cobra.Command) error {
	cfg := loadConfig("stderr")
	if err := initLogging(cfg); err != nil {
		return err
	}
	defer logging.Sync()

	paths, err := config.ResolvePaths()
	if err != nil {
		return fmt.Errorf("resolve home directory: %w", err)
	}
	allow := allowlist.LoadFile(cfg.AllowlistPath)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	results, err := scanAll(ctx, newOrchestratorFunc(paths, allow, container.NewClient())())
	if err != nil {
		return fmt.Errorf("scan: %w", err)
	}
	printReport(cmd.OutOrStdout(), results, scanVerbose)
	return nil
}

// scanAll runs one pass and returns results largest first.
func scanAll(ctx context.Context, orch *scanner.Orchestrator) ([]types.ScanResult, error) {
	results, err := scanner.Collect(ctx, orch.Start(ctx), orch.Expected())
	if err != nil {
		return nil, err
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].TotalSize > results[j].TotalSize
	})
	return results, nil
}

const reportTopItems = 5

func printReport(w io.Writer, results []types.ScanResult, verbose bool) {
	var total int64
	for _, r := range results {
		fmt.Fprintf(w, "✔ %s found %s\n", r.Category.Name(), humanize.IBytes(uint64(r.TotalSize)))
		total += r.TotalSize
		if !verbose {
			continue
		}
		for _, item := range r.Items[:min(len(r.Items), reportTopItems)] {
			fmt.Fprintf(w, "    %10s  %s\n", humanize.IBytes(uint64(item.Size)), item.Path)
		}
	}
	fmt.Fprintf(w, "\nTotal reclaimable: %s\n", humanize.IBytes(uint64(total)))
}
