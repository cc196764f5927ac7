package container

import (
	"math"
	"strconv"
	"strings"
)

var sizeUnits = []struct {
	suffix     string
	multiplier float64
}{
	// Longest suffix first so "KB" is not read as "B".
	{"GB", 1 << 30},
	{"MB", 1 << 20},
	{"KB", 1 << 10},
	{"B", 1},
}

// ParseSize converts the runtime's human-readable size ("1.5GB", "500B")
// into bytes using binary multipliers. Unknown units, unparseable numbers,
// negative values and values too large for int64 yield 0.
//
// KB is 1024 bytes here, unlike humanize.ParseBytes.
func ParseSize(s string) int64 {
	upper := strings.ToUpper(strings.TrimSpace(s))
	for _, unit := range sizeUnits {
		num, ok := strings.CutSuffix(upper, unit.suffix)
		if !ok {
			continue
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(num), 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return 0
		}
		b := v * unit.multiplier
		if b >= math.MaxInt64 {
			return 0
		}
		return int64(b)
	}
	return 0
}
