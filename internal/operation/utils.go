package operation

import (
	"fmt"
	"path/filepath"
	"strings"
)

// FormatDisplayPath renders path relative to cwd when it sits inside cwd;
// otherwise the path is returned unchanged.
func FormatDisplayPath(path, cwd string) string {
	if cwd == "" {
		return path
	}
	rel, err := filepath.Rel(cwd, path)
	if err != nil {
		return path
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return path
	}
	return rel
}

// renderMatches formats matches as "path:line:content" lines, with paths
// relativized against the search directory for display.
func renderMatches(matches []Match, searchDir string) []string {
	lines := make([]string, 0, len(matches))
	for _, m := range matches {
		p := FormatDisplayPath(m.Path, searchDir)
		if m.LineNumber > 0 {
			lines = append(lines, fmt.Sprintf("%s:%d:%s", p, m.LineNumber, m.Line))
		} else {
			lines = append(lines, p)
		}
	}
	return lines
}

func joinLines(lines []string) string {
	return strings.Join(lines, "\n")
}
