package config

import (
	"os"
	"path/filepath"
)

// Well-known locations, relative to the user's home unless absolute.
const (
	TrashDir      = ".Trash"
	LibraryLogs   = "Library/Logs"
	LibraryCaches = "Library/Caches"
	Containers    = "Library/Containers"
	ContainerData = "Data/Library/Caches"

	VarLog              = "/private/var/log"
	SystemLibraryLogs   = "/Library/Logs"
	SystemLibraryCaches = "/Library/Caches"

	ChromeCache  = "Library/Caches/Google/Chrome"
	SafariCache  = "Library/Caches/com.apple.Safari"
	FirefoxCache = "Library/Caches/Firefox"

	DownloadsDir = "Downloads"
	DesktopDir   = "Desktop"
	ProjectsDir  = "Projects"

	XcodeRoot          = "Library/Developer/Xcode"
	XcodeDerivedData   = "Library/Developer/Xcode/DerivedData"
	XcodeArchives      = "Library/Developer/Xcode/Archives"
	XcodeDeviceSupport = "Library/Developer/Xcode/iOS DeviceSupport"
	CoreSimulator      = "Library/Developer/CoreSimulator"

	NpmCache      = ".npm"
	BunCache      = ".bun/install/cache"
	PnpmStore     = ".pnpm-store"
	GoModCache    = "go/pkg/mod"
	CargoRegistry = ".cargo/registry"
	GradleCache   = ".gradle/caches"

	NodeModules = "node_modules"
)

// BrowserCaches are attributed to the browser category and excluded from
// the generic user cache.
var BrowserCaches = []string{ChromeCache, SafariCache, FirefoxCache}

// ScreenshotPrefixes are the localized filename prefixes macOS uses for
// screen captures.
var ScreenshotPrefixes = []string{"Screenshot", "Screen Shot", "スクリーンショット"}

// Paths resolves well-known locations against one home directory.
type Paths struct {
	Home string
}

// ResolvePaths picks the invoking user's home. Under sudo that is the
// SUDO_USER's home rather than root's.
func ResolvePaths() (Paths, error) {
	if user := os.Getenv("SUDO_USER"); user != "" {
		return Paths{Home: filepath.Join("/Users", user)}, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return Paths{}, err
	}
	return Paths{Home: home}, nil
}

// InHome joins rel onto the home directory
func (p Paths) InHome(rel string) string {
	return filepath.Join(p.Home, filepath.FromSlash(rel))
}

// InHomeAll joins every rel onto the home directory
func (p Paths) InHomeAll(rels ...string) []string {
	out := make([]string, 0, len(rels))
	for _, rel := range rels {
		out = append(out, p.InHome(rel))
	}
	return out
}
