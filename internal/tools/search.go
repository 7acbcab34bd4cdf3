package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/margaycli/margay/internal/domain"
	"github.com/margaycli/margay/internal/llmtool"
	"github.com/margaycli/margay/internal/operation"
)

const ToolNameSearch = "search"

type toolSearch struct {
	rt *Runtime
}

type paramsSearch struct {
	Path           string  `json:"path"`
	Regex          *string `json:"regex"`
	FilePattern    *string `json:"file_pattern"`
	StartIndex     *int    `json:"start_index"`
	MaxSearchLines *int    `json:"max_search_lines"`
}

// NewSearchTool searches a directory tree for regex matches, optionally
// filtered by a file-name glob. With a regex it reports matching lines; with
// only a glob it reports matching paths.
func NewSearchTool(rt *Runtime) llmtool.Tool {
	return &toolSearch{rt: rt}
}

func (t *toolSearch) Name() string { return ToolNameSearch }

func (t *toolSearch) Info() llmtool.ToolInfo {
	return llmtool.ToolInfo{
		Name:        ToolNameSearch,
		Description: "Search files under a directory. Results are paginated; pass start_index to continue from a previous page.",
		Parameters: map[string]any{
			"path": map[string]any{
				"type":        "string",
				"description": "Directory to search (absolute, or relative to sandbox dir)",
			},
			"regex": map[string]any{
				"type":        "string",
				"description": "Pattern matched against file lines",
			},
			"file_pattern": map[string]any{
				"type":        "string",
				"description": "Glob matched against file names, e.g. *.go",
			},
			"start_index": map[string]any{
				"type":        "integer",
				"description": "1-based offset into the full match list",
			},
			"max_search_lines": map[string]any{
				"type":        "integer",
				"description": "Cap on returned match lines for this request",
			},
		},
		Required: []string{"path"},
	}
}

func (t *toolSearch) Run(ctx context.Context, call llmtool.ToolCall) llmtool.ToolResult {
	var params paramsSearch
	if err := json.Unmarshal([]byte(call.Input), &params); err != nil {
		return NewToolErrorResult(call, fmt.Sprintf("error parsing parameters: %s", err), err)
	}
	if strings.TrimSpace(params.Path) == "" {
		return llmtool.NewErrorToolResult("path is required", call)
	}
	if params.Regex == nil && params.FilePattern == nil {
		return llmtool.NewErrorToolResult("at least one of regex or file_pattern is required", call)
	}

	absPath, err := normalizePath(params.Path, t.rt.SandboxAbsDir, wantPathTypeDir, true)
	if err != nil {
		return NewToolErrorResult(call, err.Error(), err)
	}

	var re *regexp.Regexp
	if params.Regex != nil {
		re, err = regexp.Compile(*params.Regex)
		if err != nil {
			return NewToolErrorResult(call, fmt.Sprintf("invalid regex: %s", err), err)
		}
	}

	matches, err := collectMatches(absPath, re, params.FilePattern)
	if err != nil {
		return NewToolErrorResult(call, err.Error(), err)
	}

	var result *operation.SearchResult
	if len(matches) > 0 {
		result = &operation.SearchResult{Matches: matches}
	}

	op := operation.FsSearch{
		Input: domain.FSSearch{
			Path:           absPath,
			Regex:          params.Regex,
			StartIndex:     params.StartIndex,
			MaxSearchLines: params.MaxSearchLines,
			FilePattern:    params.FilePattern,
		},
		Output: result,
	}

	out := operation.IntoToolOutput(op, domain.ToolKindSearch, operation.TempContentFiles{}, t.rt.Env, t.rt.Metrics)
	return resultFromOutput(call, out)
}

// collectMatches walks dir in lexical order. Hidden directories (.git and
// friends) are skipped. Files that fail the glob are ignored; files that
// look binary are ignored for line matching.
func collectMatches(dir string, re *regexp.Regexp, filePattern *string) ([]operation.Match, error) {
	var matches []operation.Match

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // unreadable entries are skipped, not fatal
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") && path != dir {
				return filepath.SkipDir
			}
			return nil
		}
		if filePattern != nil {
			ok, matchErr := filepath.Match(*filePattern, d.Name())
			if matchErr != nil {
				return fmt.Errorf("invalid file_pattern: %w", matchErr)
			}
			if !ok {
				return nil
			}
		}

		if re == nil {
			matches = append(matches, operation.Match{Path: path})
			return nil
		}

		raw, readErr := os.ReadFile(path)
		if readErr != nil {
			return nil
		}
		if isBinary(raw) {
			return nil
		}
		for i, line := range strings.Split(strings.TrimSuffix(string(raw), "\n"), "\n") {
			if re.MatchString(line) {
				matches = append(matches, operation.Match{
					Path:       path,
					LineNumber: i + 1,
					Line:       line,
				})
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return matches, nil
}

func isBinary(raw []byte) bool {
	probe := raw
	if len(probe) > 8000 {
		probe = probe[:8000]
	}
	for _, b := range probe {
		if b == 0 {
			return true
		}
	}
	return false
}
