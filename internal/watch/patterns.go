package watch

import (
	"path/filepath"
)

// PatternFilter selects file paths by include/exclude glob patterns,
// matched against the base name and the full path.
type PatternFilter struct {
	Include []string
	Exclude []string
}

func NewPatternFilter(include, exclude []string) *PatternFilter {
	return &PatternFilter{
		Include: include,
		Exclude: exclude,
	}
}

// DefaultFilter accepts chat exports and skips editor and partial-download
// leftovers.
func DefaultFilter() *PatternFilter {
	return NewPatternFilter(
		[]string{"*.txt"},
		[]string{".*", "*~", "*.part", "*.crdownload"},
	)
}

// Matches reports whether path passes the filter. Excludes win; with no
// include patterns everything else passes.
func (f *PatternFilter) Matches(path string) bool {
	base := filepath.Base(path)

	for _, pattern := range f.Exclude {
		if matched, _ := filepath.Match(pattern, base); matched {
			return false
		}
		if matched, _ := filepath.Match(pattern, path); matched {
			return false
		}
	}

	if len(f.Include) == 0 {
		return true
	}

	for _, pattern := range f.Include {
		if matched, _ := filepath.Match(pattern, base); matched {
			return true
		}
		if matched, _ := filepath.Match(pattern, path); matched {
			return true
		}
	}

	return false
}
