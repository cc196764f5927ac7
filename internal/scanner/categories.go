package scanner

import (
	"github.com/rahulvramesh/sukkiri/internal/config"
	"github.com/rahulvramesh/sukkiri/internal/container"
	"github.com/rahulvramesh/sukkiri/internal/types"
)

// ForCategory builds the scanner for one category. Root existence is
// checked here, so build scanners right before each scan pass.
func ForCategory(c types.Category, p config.Paths, client *container.Client) Scanner {
	switch c {
	case types.XcodeJunk:
		return NewPathScanner(c,
			"Xcode build artifacts, archives, and device support.",
			p.InHome(config.XcodeRoot),
			p.InHomeAll(config.XcodeDerivedData, config.XcodeArchives,
				config.XcodeDeviceSupport, config.CoreSimulator)...)

	case types.SystemLogs:
		return NewPathScanner(c,
			"System log files (/Library/Logs, /private/var/log).",
			config.SystemLibraryLogs,
			config.SystemLibraryLogs, config.VarLog)

	case types.SystemCache:
		return NewPathScanner(c, "System cache files.",
			config.SystemLibraryCaches, config.SystemLibraryCaches)

	case types.UserLogs:
		logs := p.InHome(config.LibraryLogs)
		return NewPathScanner(c, "User log files.", logs, logs)

	case types.UserCache:
		return NewUserCacheScanner(p)

	case types.BrowserCache:
		return NewPathScanner(c,
			"Web browser caches (Chrome, Safari, Firefox).",
			p.InHome(config.LibraryCaches),
			p.InHomeAll(config.BrowserCaches...)...)

	case types.Downloads:
		downloads := p.InHome(config.DownloadsDir)
		return NewPathScanner(c, "All files in Downloads folder.", downloads, downloads)

	case types.Trash:
		trash := p.InHome(config.TrashDir)
		return NewPathScanner(c, "Trash folder contents.", trash, trash)

	case types.DeveloperCaches:
		return NewPathScanner(c,
			"Caches for npm, bun, pnpm, go, cargo, gradle, etc.",
			p.Home,
			p.InHomeAll(config.NpmCache, config.BunCache, config.PnpmStore,
				config.GoModCache, config.CargoRegistry, config.GradleCache)...)

	case types.ScreenCapture:
		desktop := p.InHome(config.DesktopDir)
		return NewPathScanner(c, "Screenshots on Desktop.", desktop, desktop).
			WithNamePrefixes(config.ScreenshotPrefixes...)

	case types.NodeModules:
		return NewRecursiveScanner(c,
			"Unused node_modules (Recursively found in ~/Projects)",
			p.InHome(config.ProjectsDir), config.NodeModules)

	case types.DockerImages:
		return NewDockerScanner(client)
	}
	return nil
}

// DefaultScanners returns one scanner per category, in scan order.
func DefaultScanners(p config.Paths, client *container.Client) []Scanner {
	categories := types.AllCategories()
	scanners := make([]Scanner, 0, len(categories))
	for _, c := range categories {
		if s := ForCategory(c, p, client); s != nil {
			scanners = append(scanners, s)
		}
	}
	return scanners
}
