package core

import (
	"fmt"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
)

// ModuleAllowed reports whether path matches one of the glob patterns. An
// empty pattern list allows every path.
func ModuleAllowed(path string, patterns []string) (bool, error) {
	if len(patterns) == 0 {
		return true, nil
	}
	clean := filepath.ToSlash(filepath.Clean(path))
	for _, pattern := range patterns {
		ok, err := doublestar.Match(pattern, clean)
		if err != nil {
			return false, fmt.Errorf("invalid module pattern %q: %w", pattern, err)
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

// ValidatePatterns rejects malformed allow-list entries up front.
func ValidatePatterns(patterns []string) error {
	for _, pattern := range patterns {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("invalid module pattern %q", pattern)
		}
	}
	return nil
}
