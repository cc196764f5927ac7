package types

import (
	"sort"
	"time"
)

// Category identifies one fixed kind of reclaimable data
type Category int

const (
	XcodeJunk Category = iota
	SystemLogs
	SystemCache
	UserLogs
	UserCache
	BrowserCache
	Downloads
	Trash
	DeveloperCaches
	ScreenCapture
	NodeModules
	DockerImages
)

var categoryNames = map[Category]string{
	XcodeJunk:       "Xcode Junk",
	SystemLogs:      "System Logs",
	SystemCache:     "System Caches",
	UserLogs:        "User Logs",
	UserCache:       "User Caches",
	BrowserCache:    "Browser Caches",
	Downloads:       "Downloads",
	Trash:           "Trash",
	DeveloperCaches: "Developer Caches",
	ScreenCapture:   "Screen Captures",
	NodeModules:     "Node Modules",
	DockerImages:    "Docker Images",
}

// Name returns the human-readable category name
func (c Category) Name() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return "Unknown"
}

func (c Category) String() string { return c.Name() }

// AllCategories returns every category in scan order
func AllCategories() []Category {
	return []Category{
		XcodeJunk,
		SystemLogs,
		SystemCache,
		UserLogs,
		UserCache,
		BrowserCache,
		Downloads,
		Trash,
		DeveloperCaches,
		ScreenCapture,
		NodeModules,
		DockerImages,
	}
}

// ScannedItem is a single measured filesystem entry or container image
type ScannedItem struct {
	Path     string
	Size     int64
	Modified time.Time
}

// ScanResult holds everything found for one category
type ScanResult struct {
	Category    Category
	TotalSize   int64
	Items       []ScannedItem
	IsSelected  bool
	Description string
	RootPath    string
}

// NewScanResult sorts items by size descending and totals them.
func NewScanResult(category Category, description, root string, items []ScannedItem) ScanResult {
	if items == nil {
		items = []ScannedItem{}
	}
	SortBySize(items)
	return ScanResult{
		Category:    category,
		TotalSize:   SumSizes(items),
		Items:       items,
		Description: description,
		RootPath:    root,
	}
}

// Clear drops the items of a cleaned category but keeps the row.
func (r *ScanResult) Clear() {
	r.Items = []ScannedItem{}
	r.TotalSize = 0
	r.IsSelected = false
}

// SortBySize orders items largest first
func SortBySize(items []ScannedItem) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Size > items[j].Size
	})
}

// SumSizes totals the sizes of items
func SumSizes(items []ScannedItem) int64 {
	var total int64
	for _, item := range items {
		total += item.Size
	}
	return total
}

// ScanProgress is the live state of a category scan in flight
type ScanProgress struct {
	Category   Category
	ItemsCount int64
	Status     string
}

// Progress status labels
const (
	StatusWaiting  = "Waiting..."
	StatusScanning = "Scanning..."
	StatusDone     = "Done"
)

// ScanUpdate is what scan tasks send to the consumer. Exactly one field is set.
type ScanUpdate struct {
	Progress *ScanProgress
	Result   *ScanResult
}
