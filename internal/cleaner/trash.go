package cleaner

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"slices"
	"strconv"
	"strings"
	"time"
)

// Trasher moves filesystem paths to a recoverable trash.
type Trasher interface {
	Trash(ctx context.Context, paths []string) error
}

// DefaultTrasher returns the Finder trasher on macOS and the freedesktop
// home trash elsewhere.
func DefaultTrasher() Trasher {
	if runtime.GOOS == "darwin" {
		return FinderTrasher{}
	}
	return FreedesktopTrasher{}
}

// finderBatchSize caps the paths per osascript call so the script argument
// stays well under ARG_MAX.
const finderBatchSize = 200

// FinderTrasher asks Finder to delete paths in batched AppleScript calls, so
// items land in ~/.Trash with "Put Back" support. A failed batch does not
// stop the remaining ones.
type FinderTrasher struct{}

func (FinderTrasher) Trash(ctx context.Context, paths []string) error {
	var errs []error
	for _, script := range finderScripts(paths) {
		if ctx.Err() != nil {
			errs = append(errs, ctx.Err())
			break
		}
		cmd := exec.CommandContext(ctx, "osascript", "-e", script)
		if out, err := cmd.CombinedOutput(); err != nil {
			errs = append(errs, fmt.Errorf("osascript: %w: %s", err, strings.TrimSpace(string(out))))
		}
	}
	return errors.Join(errs...)
}

func finderScripts(paths []string) []string {
	var scripts []string
	for batch := range slices.Chunk(paths, finderBatchSize) {
		scripts = append(scripts, finderScript(batch))
	}
	return scripts
}

func finderScript(paths []string) string {
	files := make([]string, len(paths))
	for i, p := range paths {
		files[i] = "POSIX file " + appleQuote(p)
	}
	return `tell application "Finder" to delete {` + strings.Join(files, ", ") + `}`
}

func appleQuote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}

// FreedesktopTrasher uses the freedesktop.org home trash layout:
// files/<name> plus info/<name>.trashinfo. Dir defaults to
// $XDG_DATA_HOME/Trash or ~/.local/share/Trash.
type FreedesktopTrasher struct {
	Dir string
}

func (t FreedesktopTrasher) Trash(ctx context.Context, paths []string) error {
	dir, err := t.dir()
	if err != nil {
		return err
	}
	filesDir := filepath.Join(dir, "files")
	infoDir := filepath.Join(dir, "info")
	for _, d := range []string{filesDir, infoDir} {
		if err := os.MkdirAll(d, 0o700); err != nil {
			return err
		}
	}

	var errs []error
	for _, p := range paths {
		if ctx.Err() != nil {
			errs = append(errs, ctx.Err())
			break
		}
		if err := moveToTrash(p, filesDir, infoDir); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", p, err))
		}
	}
	return errors.Join(errs...)
}

func (t FreedesktopTrasher) dir() (string, error) {
	if t.Dir != "" {
		return t.Dir, nil
	}
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "Trash"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share", "Trash"), nil
}

// moveToTrash reserves a unique name by creating its .trashinfo exclusively,
// then renames src into files/. The reservation is rolled back on failure.
func moveToTrash(src, filesDir, infoDir string) error {
	abs, err := filepath.Abs(src)
	if err != nil {
		return err
	}
	if _, err := os.Lstat(abs); err != nil {
		return err
	}

	base := filepath.Base(abs)
	for n := 1; ; n++ {
		name := base
		if n > 1 {
			name = base + "." + strconv.Itoa(n)
		}
		infoPath := filepath.Join(infoDir, name+".trashinfo")
		f, err := os.OpenFile(infoPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
		if errors.Is(err, os.ErrExist) {
			continue
		}
		if err != nil {
			return err
		}
		dst := filepath.Join(filesDir, name)
		if _, err := os.Lstat(dst); err == nil {
			f.Close()
			os.Remove(infoPath)
			continue
		}
		_, werr := f.WriteString(trashInfo(abs, time.Now()))
		cerr := f.Close()
		if werr == nil {
			werr = cerr
		}
		if werr == nil {
			werr = os.Rename(abs, dst)
		}
		if werr != nil {
			os.Remove(infoPath)
			return werr
		}
		return nil
	}
}

func trashInfo(path string, at time.Time) string {
	escaped := (&url.URL{Path: path}).EscapedPath()
	return "[Trash Info]\nPath=" + escaped + "\nDeletionDate=" + at.Format("2006-01-02T15:04:05") + "\n"
}
