package domain

// Tool inputs. Optional fields are pointers; absent values are omitted from
// rendered output rather than rendered as zero values.

// FSRead asks for a line range of a file.
type FSRead struct {
	Path            string
	StartLine       *int
	EndLine         *int
	ShowLineNumbers bool
}

// FSWrite creates or overwrites a file with full content.
type FSWrite struct {
	Path      string
	Content   string
	Overwrite bool
}

// FSRemove deletes a file.
type FSRemove struct {
	Path string
}

// FSSearch searches a directory tree for a regex and/or file pattern.
// StartIndex is the 1-based pagination offset into the full match list.
type FSSearch struct {
	Path           string
	Regex          *string
	StartIndex     *int
	MaxSearchLines *int
	FilePattern    *string
}

// PatchOperation selects how FSPatch applies its content.
type PatchOperation string

const (
	PatchReplace PatchOperation = "replace"
	PatchPrepend PatchOperation = "prepend"
	PatchAppend  PatchOperation = "append"
)

// FSPatch modifies a file in place relative to a search anchor.
type FSPatch struct {
	Path      string
	Search    *string
	Operation PatchOperation
	Content   string
}

// FSUndo reverts a file to its most recent snapshot.
type FSUndo struct {
	Path string
}

// NetFetch retrieves a URL. Raw=false asks for the parsed (markdown) view.
type NetFetch struct {
	URL string
	Raw *bool
}

// PlanCreate persists a named, versioned plan document.
type PlanCreate struct {
	PlanName string
	Version  string
}

// SkillFetch resolves a skill by name.
type SkillFetch struct {
	Name string
}
