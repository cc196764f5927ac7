package utils

import (
	"context"

	"github.com/shirou/gopsutil/v4/disk"
)

// DiskStat is a snapshot of one volume's usage
type DiskStat struct {
	Path        string
	Total       uint64
	Used        uint64
	Free        uint64
	UsedPercent float64
}

// DiskUsage reads usage for the volume holding path.
func DiskUsage(ctx context.Context, path string) (DiskStat, error) {
	u, err := disk.UsageWithContext(ctx, path)
	if err != nil {
		return DiskStat{Path: path}, err
	}
	return DiskStat{
		Path:        u.Path,
		Total:       u.Total,
		Used:        u.Used,
		Free:        u.Free,
		UsedPercent: u.UsedPercent,
	}, nil
}
