package cleaner

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/rahulvramesh/sukkiri/internal/config"
	"github.com/rahulvramesh/sukkiri/internal/container"
	"github.com/rahulvramesh/sukkiri/internal/logging"
	"github.com/rahulvramesh/sukkiri/internal/types"
)

// Report summarizes one Delete call.
type Report struct {
	Freed   int64 // bytes reclaimed, images included
	Removed int   // filesystem items gone after the call
	Skipped int   // filesystem items that could not be removed
	Images  int   // container images removed
}

// Cleaner removes selected items: container images through the runtime,
// filesystem items through the trash or permanently.
type Cleaner struct {
	mode    config.DeleteMode
	client  *container.Client
	trasher Trasher
}

// New returns a Cleaner. A nil client uses the docker binary on PATH and a
// nil trasher uses the platform trash.
func New(mode config.DeleteMode, client *container.Client, trasher Trasher) *Cleaner {
	if client == nil {
		client = container.NewClient()
	}
	if trasher == nil {
		trasher = DefaultTrasher()
	}
	return &Cleaner{mode: mode, client: client, trasher: trasher}
}

// Mode reports how filesystem items are removed
func (c *Cleaner) Mode() config.DeleteMode { return c.mode }

// Delete removes every item. Images go first, one at a time, and the first
// image failure aborts the whole call before any file is touched; images
// removed before the failure stay removed. Filesystem removal is best
// effort: items that survive are counted in Report.Skipped.
func (c *Cleaner) Delete(ctx context.Context, items []types.ScannedItem) (Report, error) {
	var report Report
	if len(items) == 0 {
		return report, nil
	}

	log := logging.Named("cleaner")
	images, files := partition(items)

	for _, img := range images {
		id, ok := container.IDFromPath(img.Path)
		if !ok {
			return report, fmt.Errorf("invalid image path %q", img.Path)
		}
		if err := c.client.Remove(ctx, id); err != nil {
			log.Warn("image removal failed", logging.String("id", id), logging.Err(err))
			return report, fmt.Errorf("failed to remove docker image %s: %w", id, err)
		}
		report.Images++
		report.Freed += img.Size
	}

	if len(files) == 0 {
		return report, nil
	}

	var err error
	switch c.mode {
	case config.ModePermanent:
		c.removeAll(files, &report)
	default:
		err = c.trash(ctx, files, &report)
	}

	log.Info("clean finished",
		logging.String("mode", c.mode.String()),
		logging.Int("removed", report.Removed),
		logging.Int("skipped", report.Skipped),
		logging.Int("images", report.Images),
		logging.Int64("freed", report.Freed),
	)
	return report, err
}

func (c *Cleaner) removeAll(files []types.ScannedItem, report *Report) {
	log := logging.Named("cleaner")
	for _, item := range files {
		if err := removePath(item.Path); err != nil {
			log.Debug("remove failed", logging.String("path", item.Path), logging.Err(err))
			report.Skipped++
			continue
		}
		report.Removed++
		report.Freed += item.Size
	}
}

// trash hands the batch to the trasher and then checks what is actually
// gone, since a batch move can partially succeed. The trasher's error is
// returned only when nothing moved at all.
func (c *Cleaner) trash(ctx context.Context, files []types.ScannedItem, report *Report) error {
	paths := make([]string, len(files))
	for i, item := range files {
		paths[i] = item.Path
	}

	trashErr := c.trasher.Trash(ctx, paths)
	if trashErr != nil {
		logging.Named("cleaner").Warn("trash reported an error", logging.Err(trashErr))
	}

	for _, item := range files {
		if gone(item.Path) {
			report.Removed++
			report.Freed += item.Size
		} else {
			report.Skipped++
		}
	}

	if trashErr != nil && report.Removed == 0 {
		return fmt.Errorf("move to trash: %w", trashErr)
	}
	return nil
}

func partition(items []types.ScannedItem) (images, files []types.ScannedItem) {
	for _, item := range items {
		if container.IsVirtual(item.Path) {
			images = append(images, item)
		} else {
			files = append(files, item)
		}
	}
	return images, files
}

// removePath deletes directories recursively and anything else individually.
func removePath(path string) error {
	info, err := os.Lstat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return os.RemoveAll(path)
	}
	return os.Remove(path)
}

func gone(path string) bool {
	_, err := os.Lstat(path)
	return errors.Is(err, os.ErrNotExist)
}
