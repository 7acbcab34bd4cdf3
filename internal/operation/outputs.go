package operation

import "github.com/margaycli/margay/internal/domain"

// ReadOutput is the materialized slice of a file read.
//
// Invariant: 1 <= StartLine <= EndLine <= TotalLines when TotalLines > 0.
type ReadOutput struct {
	Content     domain.Content
	StartLine   int
	EndLine     int
	TotalLines  int
	ContentHash string
}

// FsCreateOutput reports a file creation. Before is nil when the file did
// not previously exist.
type FsCreateOutput struct {
	Path        string
	Before      *string
	ContentHash string
}

// FsRemoveOutput carries the content of the removed file.
type FsRemoveOutput struct {
	Content string
}

// PatchOutput is the before/after pair of an in-place modification.
type PatchOutput struct {
	Before      string
	After       string
	ContentHash string
}

// FsUndoOutput is the before/after pair of an undo. BeforeUndo is the
// pre-undo (modified) state; AfterUndo is the restored (snapshot) state.
// Either may be nil when the file did not exist on that side.
type FsUndoOutput struct {
	BeforeUndo *string
	AfterUndo  *string
}

// Match is one search hit. LineNumber 0 means the path itself matched with
// no line content.
type Match struct {
	Path       string
	LineNumber int
	Line       string
}

// SearchResult is the full, untruncated match list.
type SearchResult struct {
	Matches []Match
}

// ResponseContext controls the content-type label reported for a fetch.
type ResponseContext int

const (
	// ResponseContextRaw passes the source content type through verbatim.
	ResponseContextRaw ResponseContext = iota
	// ResponseContextParsed reports text/markdown regardless of source type.
	ResponseContextParsed
)

// HttpResponse is a fetched body plus its transport metadata.
type HttpResponse struct {
	Content     string
	Code        int
	Context     ResponseContext
	ContentType string
}

// CommandOutput is the raw result of a spawned command. ExitCode is nil when
// the process was killed before exiting.
type CommandOutput struct {
	Command  string
	Stdout   string
	Stderr   string
	ExitCode *int
}

// ShellOutput pairs a command result with the shell that ran it.
type ShellOutput struct {
	Output CommandOutput
	Shell  string
}

// PlanCreateOutput reports where a plan document was persisted.
type PlanCreateOutput struct {
	Path string
}

// SkillOutput is a resolved skill: its command text, where it was loaded
// from, and any attached resource paths.
type SkillOutput struct {
	Name      string
	Command   string
	Path      *string
	Resources []string
}
