// Package operation renders completed tool invocations into bounded,
// structured output and records file operations in the per-turn metrics
// ledger. Rendering never fails: malformed or empty inputs degrade to a
// minimal valid element rather than an error.
package operation

import (
	"fmt"

	"github.com/margaycli/margay/internal/diff"
	"github.com/margaycli/margay/internal/domain"
	"github.com/margaycli/margay/internal/element"
	"github.com/margaycli/margay/internal/simplelogger"
	"github.com/margaycli/margay/internal/truncation"
)

// TempContentFiles names externally written spillover files holding the full
// content of truncated streams. Empty fields mean no spillover exists.
type TempContentFiles struct {
	Stdout string
	Stderr string
}

// ToolOperation is one completed tool invocation: the input that was issued
// and the raw output the tool produced. It is consumed exactly once by
// IntoToolOutput.
type ToolOperation interface {
	isToolOperation()
}

type FsRead struct {
	Input  domain.FSRead
	Output ReadOutput
}

type ImageRead struct {
	Output domain.ImageValue
}

type FsCreate struct {
	Input  domain.FSWrite
	Output FsCreateOutput
}

type FsRemove struct {
	Input  domain.FSRemove
	Output FsRemoveOutput
}

type FsSearch struct {
	Input  domain.FSSearch
	Output *SearchResult // nil when there were no matches
}

type FsPatch struct {
	Input  domain.FSPatch
	Output PatchOutput
}

type FsUndo struct {
	Input  domain.FSUndo
	Output FsUndoOutput
}

type NetFetch struct {
	Input  domain.NetFetch
	Output HttpResponse
}

type Shell struct {
	Output ShellOutput
}

type FollowUp struct {
	Output *string
}

type PlanCreate struct {
	Input  domain.PlanCreate
	Output PlanCreateOutput
}

type Skill struct {
	Input  domain.SkillFetch
	Output SkillOutput
}

func (FsRead) isToolOperation()     {}
func (ImageRead) isToolOperation()  {}
func (FsCreate) isToolOperation()   {}
func (FsRemove) isToolOperation()   {}
func (FsSearch) isToolOperation()   {}
func (FsPatch) isToolOperation()    {}
func (FsUndo) isToolOperation()     {}
func (NetFetch) isToolOperation()   {}
func (Shell) isToolOperation()      {}
func (FollowUp) isToolOperation()   {}
func (PlanCreate) isToolOperation() {}
func (Skill) isToolOperation()      {}

// IntoToolOutput renders op into the structured output envelope and, for
// file-affecting operations, upserts the path's FileOperation in metrics.
func IntoToolOutput(op ToolOperation, kind domain.ToolKind, files TempContentFiles, env *domain.Environment, metrics *domain.Metrics) domain.ToolOutput {
	switch op := op.(type) {
	case FsRead:
		return renderRead(op, kind, metrics)
	case ImageRead:
		return domain.ImageOutput(op.Output.MimeType, op.Output.Data)
	case FsCreate:
		return renderCreate(op, kind, metrics)
	case FsRemove:
		return renderRemove(op, kind, env, metrics)
	case FsSearch:
		return renderSearch(op, env)
	case FsPatch:
		return renderPatch(op, kind, metrics)
	case FsUndo:
		return renderUndo(op, kind, metrics)
	case NetFetch:
		return renderFetch(op, files, env)
	case Shell:
		return renderShell(op, files, env)
	case FollowUp:
		return renderFollowUp(op)
	case PlanCreate:
		elm := element.New("plan_created").
			Attr("path", op.Output.Path).
			Attr("plan_name", op.Input.PlanName).
			Attr("version", op.Input.Version)
		return domain.TextOutput(elm.Render())
	case Skill:
		return renderSkill(op)
	default:
		return domain.ToolOutput{Values: []domain.ToolValue{domain.EmptyValue{}}}
	}
}

func renderRead(op FsRead, kind domain.ToolKind, metrics *domain.Metrics) domain.ToolOutput {
	content := op.Output.Content.Text()
	if op.Input.ShowLineNumbers {
		content = op.Output.Content.Numbered(op.Output.StartLine)
	}

	elm := element.New("file").
		Attr("path", op.Input.Path).
		Attr("display_lines", fmt.Sprintf("%d-%d", op.Output.StartLine, op.Output.EndLine)).
		Attr("total_lines", domain.CountLines(content)).
		CData(content)

	simplelogger.Log("file read: path=%s tool=%s", op.Input.Path, kind.Name())
	metrics.Insert(op.Input.Path, domain.NewFileOperation(kind).WithContentHash(op.Output.ContentHash))

	return domain.TextOutput(elm.Render())
}

func renderCreate(op FsCreate, kind domain.ToolKind, metrics *domain.Metrics) domain.ToolOutput {
	before := ""
	if op.Output.Before != nil {
		before = *op.Output.Before
	}
	result := diff.Format(before, op.Input.Content)
	patch := diff.StripANSI(result.Patch())

	metrics.Insert(op.Input.Path, domain.NewFileOperation(kind).
		WithLinesAdded(uint64(result.LinesAdded())).
		WithLinesRemoved(uint64(result.LinesRemoved())).
		WithContentHash(op.Output.ContentHash))

	var elm *element.Element
	if op.Output.Before != nil {
		elm = element.New("file_overwritten").
			Append(element.New("file_diff").CData(patch))
	} else {
		elm = element.New("file_created")
	}
	elm.Attr("path", op.Input.Path).
		Attr("total_lines", domain.CountLines(op.Input.Content))

	return domain.TextOutput(elm.Render())
}

func renderRemove(op FsRemove, kind domain.ToolKind, env *domain.Environment, metrics *domain.Metrics) domain.ToolOutput {
	// No hash: the file no longer exists.
	metrics.Insert(op.Input.Path, domain.NewFileOperation(kind).
		WithLinesRemoved(uint64(domain.CountLines(op.Output.Content))))

	elm := element.New("file_removed").
		Attr("path", FormatDisplayPath(op.Input.Path, env.Cwd)).
		Attr("status", "completed")
	return domain.TextOutput(elm.Render())
}

func renderSearch(op FsSearch, env *domain.Environment) domain.ToolOutput {
	if op.Output == nil {
		elm := element.New("search_results").
			Attr("path", op.Input.Path).
			AttrIfSome("regex", op.Input.Regex).
			AttrIfSome("file_pattern", op.Input.FilePattern)
		return domain.TextOutput(elm.Render())
	}

	maxLines := env.MaxSearchLines
	if op.Input.MaxSearchLines != nil && *op.Input.MaxSearchLines < maxLines {
		maxLines = *op.Input.MaxSearchLines
	}
	startIndex := 1
	if op.Input.StartIndex != nil {
		startIndex = *op.Input.StartIndex
	}
	if startIndex > 0 {
		startIndex--
	} else {
		startIndex = 0
	}

	lines := renderMatches(op.Output.Matches, op.Input.Path)
	truncated := truncation.TruncateSearchOutput(lines, startIndex, maxLines, env.MaxSearchResultBytes)

	elm := element.New("search_results").
		Attr("path", op.Input.Path).
		Attr("max_bytes_allowed", env.MaxSearchResultBytes).
		Attr("total_lines", truncated.Total).
		Attr("display_lines", truncated.DisplayRange()).
		AttrIfSome("regex", op.Input.Regex).
		AttrIfSome("file_pattern", op.Input.FilePattern)

	switch truncated.Strategy {
	case truncation.StrategyByte:
		elm.Attr("reason", fmt.Sprintf(
			"Results truncated due to exceeding the %d bytes size limit. Please use a more specific search pattern",
			env.MaxSearchResultBytes))
	case truncation.StrategyLine:
		elm.Attr("reason", fmt.Sprintf(
			"Results truncated due to exceeding the %d lines limit. Please use a more specific search pattern",
			maxLines))
	case truncation.StrategyFull:
	}

	elm.CData(joinLines(truncated.Data))
	return domain.TextOutput(elm.Render())
}

func renderPatch(op FsPatch, kind domain.ToolKind, metrics *domain.Metrics) domain.ToolOutput {
	result := diff.Format(op.Output.Before, op.Output.After)
	patch := diff.StripANSI(result.Patch())

	elm := element.New("file_diff").
		Attr("path", op.Input.Path).
		Attr("total_lines", domain.CountLines(op.Output.After)).
		CData(patch)

	metrics.Insert(op.Input.Path, domain.NewFileOperation(kind).
		WithLinesAdded(uint64(result.LinesAdded())).
		WithLinesRemoved(uint64(result.LinesRemoved())).
		WithContentHash(op.Output.ContentHash))

	return domain.TextOutput(elm.Render())
}

func renderUndo(op FsUndo, kind domain.ToolKind, metrics *domain.Metrics) domain.ToolOutput {
	before := op.Output.BeforeUndo
	after := op.Output.AfterUndo

	// Metrics always diff restored-state -> modified-state, independent of
	// which display branch runs below.
	metricsDiff := diff.Format(deref(after), deref(before))
	hash := ""
	if after != nil {
		hash = domain.ComputeHash(*after)
	}
	metrics.Insert(op.Input.Path, domain.NewFileOperation(kind).
		WithLinesAdded(uint64(metricsDiff.LinesAdded())).
		WithLinesRemoved(uint64(metricsDiff.LinesRemoved())).
		WithContentHash(hash))

	elm := element.New("file_undo").Attr("path", op.Input.Path)
	switch {
	case before == nil && after == nil:
		elm.Attr("status", "no_changes")
	case before == nil:
		elm.Attr("status", "created").
			Attr("total_lines", domain.CountLines(*after)).
			CData(*after)
	case after == nil:
		elm.Attr("status", "removed").
			Attr("total_lines", domain.CountLines(*before)).
			CData(*before)
	default:
		// Display diff runs modified -> restored.
		displayDiff := diff.Format(*before, *after)
		elm.Attr("status", "restored").
			CData(diff.StripANSI(displayDiff.Patch()))
	}

	return domain.TextOutput(elm.Render())
}

func renderFetch(op NetFetch, files TempContentFiles, env *domain.Environment) domain.ToolOutput {
	contentType := op.Output.ContentType
	if op.Output.Context == ResponseContextParsed {
		contentType = "text/markdown"
	}

	truncated := truncation.TruncateFetchContent(op.Output.Content, env.FetchTruncationLimit)

	endChar := env.FetchTruncationLimit
	if len(op.Output.Content) < endChar {
		endChar = len(op.Output.Content)
	}

	elm := element.New("http_response").
		Attr("url", op.Input.URL).
		Attr("status_code", op.Output.Code).
		Attr("start_char", 0).
		Attr("end_char", endChar).
		Attr("total_chars", len(op.Output.Content)).
		Attr("content_type", contentType)

	elm.Append(element.New("body").CData(truncated.Content))
	if files.Stdout != "" {
		elm.Append(element.New("truncated").Text(fmt.Sprintf(
			"Content is truncated to %d chars, remaining content can be read from path: %s",
			env.FetchTruncationLimit, files.Stdout)))
	}

	return domain.TextOutput(elm.Render())
}

func renderShell(op Shell, files TempContentFiles, env *domain.Environment) domain.ToolOutput {
	elm := element.New("shell_output").
		Attr("command", op.Output.Output.Command).
		Attr("shell", op.Output.Shell)
	if op.Output.Output.ExitCode != nil {
		elm.Attr("exit_code", *op.Output.Output.ExitCode)
	}

	truncated := truncation.TruncateShellOutput(
		op.Output.Output.Stdout,
		op.Output.Output.Stderr,
		env.StdoutMaxPrefixLength,
		env.StdoutMaxSuffixLength,
		env.StdoutMaxLineLength,
	)

	elm.Append(streamElement(truncated.Stdout, files.Stdout))
	elm.Append(streamElement(truncated.Stderr, files.Stderr))

	return domain.TextOutput(elm.Render())
}

// streamElement builds the stdout/stderr sub-element. An empty stream yields
// nil so the caller omits the block entirely.
func streamElement(s truncation.Stream, fullOutputPath string) *element.Element {
	if s.Head == "" {
		return nil
	}

	elm := element.New(s.Name).Attr("total_lines", s.TotalLines)
	if s.Truncated {
		elm.Append(
			element.New("head").
				Attr("display_lines", fmt.Sprintf("1-%d", s.HeadEndLine)).
				CData(s.Head),
			element.New("tail").
				Attr("display_lines", fmt.Sprintf("%d-%d", s.TailStartLine, s.TailEndLine)).
				CData(s.Tail),
		)
	} else {
		elm.CData(s.Head)
	}

	if fullOutputPath != "" {
		elm.Attr("full_output", fullOutputPath)
	}
	return elm
}

func renderFollowUp(op FollowUp) domain.ToolOutput {
	if op.Output == nil {
		return domain.TextOutput(element.New("interrupted").Text("No feedback provided").Render())
	}
	return domain.TextOutput(element.New("feedback").Text(*op.Output).Render())
}

func renderSkill(op Skill) domain.ToolOutput {
	elm := element.New("skill_details")

	command := element.New("command")
	if op.Output.Path != nil {
		command.Attr("location", *op.Output.Path)
	}
	command.CData(op.Output.Command)
	elm.Append(command)

	for _, resource := range op.Output.Resources {
		elm.Append(element.New("resource").Text(resource))
	}

	return domain.TextOutput(elm.Render())
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
