// Package cli implements the margay command line interface.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/margaycli/margay/internal/config"
	"github.com/margaycli/margay/internal/domain"
	"github.com/margaycli/margay/internal/llmtool"
	"github.com/margaycli/margay/internal/simplelogger"
	"github.com/margaycli/margay/internal/skills"
	"github.com/margaycli/margay/internal/snapshot"
	"github.com/margaycli/margay/internal/tools"
)

var (
	sandboxFlag string
	metricsFlag bool
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "margay",
		Short:         "margay - sandboxed tool runtime for coding agents",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&sandboxFlag, "sandbox", "C", "", "Sandbox directory (defaults to the working directory)")

	runCmd := &cobra.Command{
		Use:   "run [tool] [params-json]",
		Short: "Execute one tool call and print its rendered output",
		Long: `Execute one tool call and print the rendered output.

With no arguments, a stream of JSON tool calls is read from stdin, one
object per call: {"call_id": "...", "name": "...", "input": "{...}"}.
With a tool name and a params JSON argument, that single call runs.`,
		Args: cobra.MaximumNArgs(2),
		RunE: runRun,
	}
	runCmd.Flags().BoolVar(&metricsFlag, "metrics", false, "Print the file-operation ledger after the call(s)")

	toolsCmd := &cobra.Command{
		Use:   "tools",
		Short: "List the available tools",
		RunE:  runTools,
	}

	skillsCmd := &cobra.Command{
		Use:   "skills",
		Short: "List discovered skills",
		RunE:  runSkills,
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Print the resolved configuration",
		RunE:  runConfig,
	}

	root.AddCommand(runCmd, toolsCmd, skillsCmd, configCmd)
	return root
}

// Main is the process entry point. It returns the exit code.
func Main() int {
	simplelogger.Log("margay start: args=%v", os.Args[1:])
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "margay: %v\n", err)
		return 1
	}
	return 0
}

func resolveSandbox() (string, error) {
	dir := sandboxFlag
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("resolve working directory: %w", err)
		}
		dir = wd
	}
	info, err := os.Stat(dir)
	if err != nil {
		return "", fmt.Errorf("sandbox directory: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("sandbox path %q is not a directory", dir)
	}
	return dir, nil
}

func newRuntime(sandboxDir string) (*tools.Runtime, error) {
	cfg, err := config.Load(sandboxDir)
	if err != nil {
		return nil, err
	}
	snaps, err := snapshot.NewStore(cfg.SnapshotDir)
	if err != nil {
		return nil, fmt.Errorf("open snapshot store: %w", err)
	}
	return &tools.Runtime{
		SandboxAbsDir: sandboxDir,
		Env:           &cfg.Environment,
		Metrics:       domain.NewMetrics(),
		Snapshots:     snaps,
		TempDir:       cfg.TempDir,
	}, nil
}

func runRun(cmd *cobra.Command, args []string) error {
	sandboxDir, err := resolveSandbox()
	if err != nil {
		return err
	}
	rt, err := newRuntime(sandboxDir)
	if err != nil {
		return err
	}

	isTTY := term.IsTerminal(int(os.Stdin.Fd()))
	toolset := tools.All(rt, os.Stdin, os.Stderr, isTTY)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	switch len(args) {
	case 2:
		err = dispatch(ctx, toolset, llmtool.ToolCall{Name: args[0], Input: args[1]}, cmd.OutOrStdout())
	case 1:
		err = dispatch(ctx, toolset, llmtool.ToolCall{Name: args[0], Input: "{}"}, cmd.OutOrStdout())
	default:
		err = runStream(ctx, toolset, os.Stdin, cmd.OutOrStdout())
	}
	if err != nil {
		return err
	}

	if metricsFlag {
		printMetrics(cmd.OutOrStdout(), rt.Metrics)
	}
	return nil
}

func dispatch(ctx context.Context, toolset []llmtool.Tool, call llmtool.ToolCall, out io.Writer) error {
	tool, ok := tools.Lookup(toolset, call.Name)
	if !ok {
		return fmt.Errorf("unknown tool: %s", call.Name)
	}
	res := tool.Run(ctx, call)
	if res.IsError {
		fmt.Fprintf(out, "error: %s\n", res.Result)
		return nil
	}
	fmt.Fprintln(out, res.Result)
	return nil
}

// runStream processes a stream of JSON tool calls from r.
func runStream(ctx context.Context, toolset []llmtool.Tool, r io.Reader, out io.Writer) error {
	dec := json.NewDecoder(r)
	for {
		var call llmtool.ToolCall
		if err := dec.Decode(&call); err != nil {
			if err == io.EOF {
				return nil
			}
			return fmt.Errorf("decode tool call: %w", err)
		}
		if err := dispatch(ctx, toolset, call, out); err != nil {
			return err
		}
	}
}

func runTools(cmd *cobra.Command, args []string) error {
	sandboxDir, err := resolveSandbox()
	if err != nil {
		return err
	}
	rt, err := newRuntime(sandboxDir)
	if err != nil {
		return err
	}
	toolset := tools.All(rt, os.Stdin, os.Stderr, false)

	out := cmd.OutOrStdout()
	nameWidth := 0
	for _, t := range toolset {
		if w := runewidth.StringWidth(t.Name()); w > nameWidth {
			nameWidth = w
		}
	}
	for _, t := range toolset {
		info := t.Info()
		fmt.Fprintf(out, "%s  %s\n", runewidth.FillRight(t.Name(), nameWidth), firstLine(info.Description))
	}
	return nil
}

func runSkills(cmd *cobra.Command, args []string) error {
	sandboxDir, err := resolveSandbox()
	if err != nil {
		return err
	}
	found, err := skills.Discover(sandboxDir)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(found) == 0 {
		fmt.Fprintln(out, "no skills found")
		return nil
	}
	nameWidth := 0
	for _, s := range found {
		if w := runewidth.StringWidth(s.Name); w > nameWidth {
			nameWidth = w
		}
	}
	for _, s := range found {
		fmt.Fprintf(out, "%s  %s\n", runewidth.FillRight(s.Name, nameWidth), firstLine(s.Description))
	}
	return nil
}

func runConfig(cmd *cobra.Command, args []string) error {
	sandboxDir, err := resolveSandbox()
	if err != nil {
		return err
	}
	cfg, err := config.Load(sandboxDir)
	if err != nil {
		return err
	}
	rendered, err := config.WriteYAML(cfg)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), rendered)
	return nil
}

// printMetrics renders the ledger as an aligned table. Widths use runewidth
// so non-ASCII paths line up.
func printMetrics(out io.Writer, m *domain.Metrics) {
	paths := m.Paths()
	if len(paths) == 0 {
		fmt.Fprintln(out, "\nno file operations recorded")
		return
	}

	pathWidth := runewidth.StringWidth("path")
	kindWidth := runewidth.StringWidth("operation")
	for _, p := range paths {
		op, _ := m.Get(p)
		if w := runewidth.StringWidth(p); w > pathWidth {
			pathWidth = w
		}
		if w := runewidth.StringWidth(string(op.Kind)); w > kindWidth {
			kindWidth = w
		}
	}

	fmt.Fprintf(out, "\n%s  %s  %7s  %7s  %s\n",
		runewidth.FillRight("path", pathWidth),
		runewidth.FillRight("operation", kindWidth),
		"added", "removed", "hash")
	for _, p := range paths {
		op, _ := m.Get(p)
		hash := op.ContentHash
		if len(hash) > 12 {
			hash = hash[:12]
		}
		if hash == "" {
			hash = "-"
		}
		fmt.Fprintf(out, "%s  %s  %7d  %7d  %s\n",
			runewidth.FillRight(p, pathWidth),
			runewidth.FillRight(string(op.Kind), kindWidth),
			op.LinesAdded, op.LinesRemoved, hash)
	}
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
