package gittransform

import (
	"fmt"
	"path"
	"strings"
)

// PathSpec restricts which paths of a source commit are materialized.
//
// Each pattern is a slash separated relative path. A pattern without
// wildcards selects the file with that exact path, or every file under the
// directory with that path. Wildcard patterns are matched segment by
// segment with [path.Match] syntax, and a ** segment matches any number of
// segments, including none.
//
// A nil or empty PathSpec is unrestricted and matches every path.
type PathSpec struct {
	patterns []string
}

// NewPathSpec validates the patterns and builds a [PathSpec]. Patterns are
// cleaned; an empty or absolute pattern is an error.
func NewPathSpec(patterns ...string) (*PathSpec, error) {
	cleaned := make([]string, 0, len(patterns))

	for _, p := range patterns {
		p = strings.TrimSuffix(path.Clean(strings.TrimSpace(p)), "/")
		if p == "" || p == "." || p == ".." || strings.HasPrefix(p, "/") || strings.HasPrefix(p, "../") {
			return nil, fmt.Errorf("invalid pathspec pattern: %q", p)
		}
		for _, seg := range strings.Split(p, "/") {
			if seg == "**" {
				continue
			}
			if _, err := path.Match(seg, ""); err != nil {
				return nil, fmt.Errorf("invalid pathspec pattern %q: %w", p, err)
			}
		}
		cleaned = append(cleaned, p)
	}

	return &PathSpec{patterns: cleaned}, nil
}

// MustNewPathSpec builds a [PathSpec] or panics.
func MustNewPathSpec(patterns ...string) *PathSpec {
	s, err := NewPathSpec(patterns...)
	if err != nil {
		panic(err)
	}

	return s
}

// Unrestricted reports whether the spec matches every path.
func (s *PathSpec) Unrestricted() bool {
	return s == nil || len(s.patterns) == 0
}

// Match reports whether the file path is selected by the spec. The path
// must be slash separated and relative, as produced by git trees.
func (s *PathSpec) Match(file string) bool {
	if s.Unrestricted() {
		return true
	}

	for _, p := range s.patterns {
		if matchPattern(p, file) {
			return true
		}
	}

	return false
}

func matchPattern(pattern, file string) bool {
	if !strings.ContainsAny(pattern, "*?[\\") {
		return file == pattern || strings.HasPrefix(file, pattern+"/")
	}

	return matchSegments(strings.Split(pattern, "/"), strings.Split(file, "/"))
}

func matchSegments(pattern, parts []string) bool {
	if len(pattern) == 0 {
		return len(parts) == 0
	}

	if pattern[0] == "**" {
		if matchSegments(pattern[1:], parts) {
			return true
		}
		if len(parts) > 0 {
			return matchSegments(pattern, parts[1:])
		}
		return false
	}

	if len(parts) == 0 {
		return false
	}

	ok, err := path.Match(pattern[0], parts[0])
	if err != nil || !ok {
		return false
	}

	return matchSegments(pattern[1:], parts[1:])
}
