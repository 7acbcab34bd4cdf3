package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/margaycli/margay/internal/domain"
	"github.com/margaycli/margay/internal/llmtool"
	"github.com/margaycli/margay/internal/operation"
)

const (
	ToolNameFetch       = "fetch"
	defaultFetchTimeout = 30 * time.Second
	maxFetchBodyBytes   = 4 << 20 // 4MB read cap, independent of the display limit
)

type toolFetch struct {
	rt     *Runtime
	client *http.Client
}

type paramsFetch struct {
	URL string `json:"url"`
	Raw *bool  `json:"raw"`
}

// NewFetchTool performs an HTTP GET. By default HTML responses are reduced
// to readable text (reported as text/markdown); raw=true passes the body and
// content type through verbatim.
func NewFetchTool(rt *Runtime) llmtool.Tool {
	return &toolFetch{
		rt:     rt,
		client: &http.Client{Timeout: defaultFetchTimeout},
	}
}

func (t *toolFetch) Name() string { return ToolNameFetch }

func (t *toolFetch) Info() llmtool.ToolInfo {
	return llmtool.ToolInfo{
		Name:        ToolNameFetch,
		Description: "Fetch a URL over HTTP GET. Long bodies are truncated inline and spilled to a temp file.",
		Parameters: map[string]any{
			"url": map[string]any{
				"type":        "string",
				"description": "The URL to fetch",
			},
			"raw": map[string]any{
				"type":        "boolean",
				"description": "Return the raw body instead of the parsed text view",
			},
		},
		Required: []string{"url"},
	}
}

func (t *toolFetch) Run(ctx context.Context, call llmtool.ToolCall) llmtool.ToolResult {
	var params paramsFetch
	if err := json.Unmarshal([]byte(call.Input), &params); err != nil {
		return NewToolErrorResult(call, fmt.Sprintf("error parsing parameters: %s", err), err)
	}
	if strings.TrimSpace(params.URL) == "" {
		return llmtool.NewErrorToolResult("url is required", call)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, params.URL, nil)
	if err != nil {
		return NewToolErrorResult(call, err.Error(), err)
	}
	resp, err := t.client.Do(req)
	if err != nil {
		return NewToolErrorResult(call, err.Error(), err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxFetchBodyBytes))
	if err != nil {
		return NewToolErrorResult(call, err.Error(), err)
	}

	contentType := resp.Header.Get("Content-Type")
	if idx := strings.Index(contentType, ";"); idx >= 0 {
		contentType = strings.TrimSpace(contentType[:idx])
	}

	content := string(raw)
	respContext := operation.ResponseContextRaw
	if (params.Raw == nil || !*params.Raw) && strings.Contains(contentType, "html") {
		content = htmlToText(content)
		respContext = operation.ResponseContextParsed
	}

	files := operation.TempContentFiles{}
	if len(content) > t.rt.Env.FetchTruncationLimit {
		files.Stdout = t.spillover(content)
	}

	op := operation.NetFetch{
		Input: domain.NetFetch{URL: params.URL, Raw: params.Raw},
		Output: operation.HttpResponse{
			Content:     content,
			Code:        resp.StatusCode,
			Context:     respContext,
			ContentType: contentType,
		},
	}

	out := operation.IntoToolOutput(op, domain.ToolKindFetch, files, t.rt.Env, t.rt.Metrics)
	return resultFromOutput(call, out)
}

// spillover persists the full body to a temp file; returns "" on failure.
func (t *toolFetch) spillover(content string) string {
	if t.rt.TempDir == "" {
		return ""
	}
	path := filepath.Join(t.rt.TempDir, fmt.Sprintf("margay_fetch_%s.txt", uuid.NewString()))
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return ""
	}
	return path
}

var (
	htmlScriptPattern = regexp.MustCompile(`(?is)<(script|style)[^>]*>.*?</(script|style)>`)
	htmlTagPattern    = regexp.MustCompile(`(?s)<[^>]*>`)
	blankRunPattern   = regexp.MustCompile(`\n{3,}`)
)

// htmlToText is a deliberately small readable-text extraction: scripts and
// styles are dropped, tags removed, entities left alone, blank runs
// collapsed. It is not a markdown converter.
func htmlToText(html string) string {
	text := htmlScriptPattern.ReplaceAllString(html, "")
	text = htmlTagPattern.ReplaceAllString(text, "")
	text = blankRunPattern.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
