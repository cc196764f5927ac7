package cmd

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/rahulvramesh/sukkiri/internal/allowlist"
	"github.com/rahulvramesh/sukkiri/internal/app"
	"github.com/rahulvramesh/sukkiri/internal/cleaner"
	"github.com/rahulvramesh/sukkiri/internal/config"
	"github.com/rahulvramesh/sukkiri/internal/container"
	"github.com/rahulvramesh/sukkiri/internal/logging"
	"github.com/rahulvramesh/sukkiri/internal/scanner"
	"github.com/rahulvramesh/sukkiri/internal/ui"
)

var (
	// Global flags
	debug         bool
	permanent     bool
	allowlistPath string
	logFile       string

	// Version info populated from main
	appVersion = "dev"
	appCommit  = "none"
	appDate    = "unknown"
)

// SetVersionInfo sets build-time version information.
func SetVersionInfo(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
}

var rootCmd = &cobra.Command{
	Use:   "sukkiri",
	Short: "Reclaim disk space on your workstation",
	Long: `sukkiri - reclaim disk space on your workstation.

Scans caches, logs, downloads, the trash, developer caches, screenshots,
stale node_modules and dangling docker images, then lets you pick
categories to clean. Paths listed in the allowlist file are never touched.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
			return runScanReport(cmd)
		}
		return runInteractive()
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Write debug-level logs")
	rootCmd.PersistentFlags().StringVar(&allowlistPath, "allowlist", config.DefaultAllowlistPath(), "Allowlist file of protected path prefixes")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Log destination (file path, stdout or stderr)")
	rootCmd.Flags().BoolVar(&permanent, "permanent", false, "Delete permanently instead of moving to the trash")

	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig assembles the runtime configuration from flags. defaultLog is
// used when --log-file is not given.
func loadConfig(defaultLog string) config.Config {
	cfg := config.Default()
	cfg.AllowlistPath = allowlistPath
	if permanent {
		cfg.Mode = config.ModePermanent
	}
	if debug {
		cfg.LogLevel = "debug"
	}
	cfg.LogPath = defaultLog
	if logFile != "" {
		cfg.LogPath = logFile
	}
	return cfg
}

func initLogging(cfg config.Config) error {
	if err := logging.Init(logging.Config{
		Level:      cfg.LogLevel,
		Format:     "json",
		OutputPath: cfg.LogPath,
	}); err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	return nil
}

// newOrchestratorFunc rebuilds the scanners on every call, so each pass
// sees the roots that exist at that moment.
func newOrchestratorFunc(paths config.Paths, allow *allowlist.Allowlist, client *container.Client) func() *scanner.Orchestrator {
	return func() *scanner.Orchestrator {
		return scanner.NewOrchestrator(allow, scanner.DefaultScanners(paths, client)...)
	}
}

func runInteractive() error {
	cfg := loadConfig(config.DefaultLogPath())
	if err := initLogging(cfg); err != nil {
		return err
	}
	defer logging.Sync()

	paths, err := config.ResolvePaths()
	if err != nil {
		return fmt.Errorf("resolve home directory: %w", err)
	}
	allow := allowlist.LoadFile(cfg.AllowlistPath)
	client := container.NewClient()

	logging.L().Info("starting",
		logging.String("version", appVersion),
		logging.String("home", paths.Home),
		logging.String("mode", cfg.Mode.String()),
		logging.Int("allowlist_rules", allow.Len()),
	)
	logging.Named("allowlist").Debug("loaded",
		logging.String("path", cfg.AllowlistPath),
		logging.Strings("rules", allow.Rules()),
	)

	a := app.New(app.Options{
		NewOrchestrator: newOrchestratorFunc(paths, allow, client),
		Cleaner:         cleaner.New(cfg.Mode, client, nil),
		DiskPath:        paths.Home,
	})
	a.RequestScan()

	ui.Version = appVersion
	p := tea.NewProgram(ui.NewModel(a), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}
