package tools

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func installSkill(t *testing.T, rt *Runtime) string {
	t.Helper()
	dir := filepath.Join(rt.SandboxAbsDir, ".margay", "skills", "release")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	skillMD := "---\nname: release\ndescription: Cut a release\n---\nTag the commit and push.\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "SKILL.md"), []byte(skillMD), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "checklist.md"), []byte("- bump version\n"), 0o644))
	return dir
}

func TestSkill_LoadsCommandAndResources(t *testing.T) {
	rt := testRuntime(t)
	dir := installSkill(t, rt)

	res := runTool(t, NewSkillTool(rt), `{"name":"release"}`)
	require.False(t, res.IsError, res.Result)
	assert.Contains(t, res.Result, `location="`+dir+`"`)
	assert.Contains(t, res.Result, "Tag the commit and push.")
	assert.Contains(t, res.Result, filepath.Join(dir, "checklist.md"))
}

func TestSkill_NotFound(t *testing.T) {
	rt := testRuntime(t)

	res := runTool(t, NewSkillTool(rt), `{"name":"missing"}`)
	assert.True(t, res.IsError)
	assert.Contains(t, res.Result, "skill not found")
}

func TestSkill_RequiresName(t *testing.T) {
	rt := testRuntime(t)

	res := runTool(t, NewSkillTool(rt), `{}`)
	assert.True(t, res.IsError)
	assert.Contains(t, res.Result, "name is required")
}
