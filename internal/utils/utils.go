package utils

import (
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"

	"github.com/rahulvramesh/sukkiri/internal/types"
)

// CalculateItemStats measures one subtree: the sum of all regular file sizes
// (hidden entries included) and the newest modification time among the root
// and its descendants. Entries whose metadata cannot be read count as zero.
//
// The walk is serial. Callers parallelize across siblings, and each call
// holds at most one directory handle open.
func CalculateItemStats(path string) types.ScannedItem {
	var size int64
	var modified time.Time

	if info, err := os.Stat(path); err == nil {
		modified = info.ModTime()
	}

	filepath.WalkDir(path, func(_ string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // unreadable entry: skip it, keep walking
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		if info.Mode().IsRegular() {
			size += info.Size()
		}
		if info.ModTime().After(modified) {
			modified = info.ModTime()
		}
		return nil
	})

	return types.ScannedItem{
		Path:     path,
		Size:     size,
		Modified: modified,
	}
}

// Exists reports whether path can be stat'ed
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// TruncatePath shortens a long path from the left so the file name stays
// visible. maxLen is in terminal cells; wide characters are never split.
func TruncatePath(path string, maxLen int) string {
	width := runewidth.StringWidth(path)
	if maxLen <= 3 || width <= maxLen {
		return path
	}
	return runewidth.TruncateLeft(path, width-(maxLen-3), "...")
}

// FormatFileSize formats file size using humanize
func FormatFileSize(size int64) string {
	if size < 0 {
		size = 0
	}
	return humanize.IBytes(uint64(size))
}

// FormatAge renders a modification time relative to now
func FormatAge(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return humanize.Time(t)
}
