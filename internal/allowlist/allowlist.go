// Package allowlist holds the user's path-prefix exclusion rules.
package allowlist

import (
	"bufio"
	"os"
	"strings"

	"github.com/rahulvramesh/sukkiri/internal/config"
	"github.com/rahulvramesh/sukkiri/internal/logging"
)

// Allowlist is immutable after load and safe for concurrent readers.
type Allowlist struct {
	rules []string
}

// New builds an allowlist from in-memory rules. Blank and comment rules
// are dropped the same way Load drops them.
func New(rules ...string) *Allowlist {
	a := &Allowlist{}
	for _, r := range rules {
		a.add(r)
	}
	return a
}

// Load reads the allowlist from the default configuration path.
func Load() *Allowlist {
	return LoadFile(config.DefaultAllowlistPath())
}

// LoadFile reads newline-delimited rules from path. A missing or unreadable
// file yields an empty allowlist.
func LoadFile(path string) *Allowlist {
	log := logging.Named("allowlist")
	a := &Allowlist{}
	if path == "" {
		return a
	}

	f, err := os.Open(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warn("cannot open allowlist", logging.String("path", path), logging.Err(err))
		}
		return a
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		a.add(scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		log.Warn("allowlist read stopped early", logging.String("path", path), logging.Err(err))
	}

	log.Debug("allowlist loaded", logging.String("path", path), logging.Int("rules", len(a.rules)))
	return a
}

func (a *Allowlist) add(line string) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return
	}
	a.rules = append(a.rules, trimmed)
}

// IsAllowed reports whether path is protected. A rule matches when it
// equals path or is a byte prefix of it. Matching is not segment aware:
// "/Users/x/Keep" also protects "/Users/x/KeepExtra".
func (a *Allowlist) IsAllowed(path string) bool {
	if a == nil {
		return false
	}
	for _, rule := range a.rules {
		if path == rule || strings.HasPrefix(path, rule) {
			return true
		}
	}
	return false
}

// Rules returns a copy of the loaded rules
func (a *Allowlist) Rules() []string {
	if a == nil {
		return nil
	}
	return append([]string(nil), a.rules...)
}

// Len returns the number of rules
func (a *Allowlist) Len() int {
	if a == nil {
		return 0
	}
	return len(a.rules)
}
