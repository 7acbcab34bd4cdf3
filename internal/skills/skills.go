// Package skills loads Agent Skills from skill directories. A skill is a
// directory containing a SKILL.md file: yaml frontmatter (name, description)
// followed by the skill's command text. Any other regular files in the
// directory are the skill's resources.
package skills

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Skill is one loaded skill.
type Skill struct {
	AbsDir      string // directory containing SKILL.md; last segment matches Name
	Name        string
	Description string
	Command     string   // the SKILL.md body
	Resources   []string // absolute paths of sibling files, sorted
}

type frontmatter struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

// SearchPaths returns the skill directories consulted, nearest first:
// `$DIR/.margay/skills` for startDir and each parent, then
// `~/.margay/skills`. Directories that don't exist are skipped. Errors are
// ignored; a missing home directory just shortens the list.
func SearchPaths(startDir string) []string {
	if startDir == "" {
		if wd, err := os.Getwd(); err == nil {
			startDir = wd
		}
	}
	if startDir == "" {
		return nil
	}

	abs, err := filepath.Abs(startDir)
	if err != nil {
		abs = startDir
	}

	var paths []string
	seen := map[string]struct{}{}
	appendIfDir := func(dir string) {
		if _, ok := seen[dir]; ok {
			return
		}
		seen[dir] = struct{}{}
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			paths = append(paths, dir)
		}
	}

	for dir := abs; ; dir = filepath.Dir(dir) {
		appendIfDir(filepath.Join(dir, ".margay", "skills"))
		if filepath.Dir(dir) == dir {
			break
		}
	}
	if home, err := os.UserHomeDir(); err == nil {
		appendIfDir(filepath.Join(home, ".margay", "skills"))
	}
	return paths
}

// Find resolves a skill by name, searching SearchPaths(startDir) in order
// and returning the first match.
func Find(name, startDir string) (Skill, error) {
	if strings.TrimSpace(name) == "" {
		return Skill{}, errors.New("skill name is required")
	}
	for _, dir := range SearchPaths(startDir) {
		skillDir := filepath.Join(dir, name)
		if _, err := os.Stat(filepath.Join(skillDir, "SKILL.md")); err != nil {
			continue
		}
		return Load(skillDir)
	}
	return Skill{}, fmt.Errorf("skill not found: %s", name)
}

// Discover loads every skill reachable from startDir, nearest search path
// first. When the same skill name appears in multiple paths the nearest one
// wins. Unloadable skill directories are skipped.
func Discover(startDir string) ([]Skill, error) {
	var found []Skill
	seen := map[string]struct{}{}
	for _, dir := range SearchPaths(startDir) {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, e := range entries {
			if !e.IsDir() {
				continue
			}
			if _, ok := seen[e.Name()]; ok {
				continue
			}
			skill, err := Load(filepath.Join(dir, e.Name()))
			if err != nil {
				continue
			}
			seen[skill.Name] = struct{}{}
			found = append(found, skill)
		}
	}
	sort.Slice(found, func(i, j int) bool { return found[i].Name < found[j].Name })
	return found, nil
}

// Load reads the skill in skillDir. The directory's base name must match the
// frontmatter name when one is given; a missing frontmatter name defaults to
// the directory name.
func Load(skillDir string) (Skill, error) {
	abs, err := filepath.Abs(skillDir)
	if err != nil {
		return Skill{}, err
	}

	raw, err := os.ReadFile(filepath.Join(abs, "SKILL.md"))
	if err != nil {
		return Skill{}, fmt.Errorf("reading SKILL.md: %w", err)
	}

	fm, body, err := splitFrontmatter(string(raw))
	if err != nil {
		return Skill{}, fmt.Errorf("parsing SKILL.md in %s: %w", abs, err)
	}

	name := fm.Name
	if name == "" {
		name = filepath.Base(abs)
	}
	if name != filepath.Base(abs) {
		return Skill{}, fmt.Errorf("skill name %q does not match directory %q", name, filepath.Base(abs))
	}

	var resources []string
	entries, err := os.ReadDir(abs)
	if err != nil {
		return Skill{}, err
	}
	for _, e := range entries {
		if e.IsDir() || e.Name() == "SKILL.md" {
			continue
		}
		resources = append(resources, filepath.Join(abs, e.Name()))
	}
	sort.Strings(resources)

	return Skill{
		AbsDir:      abs,
		Name:        name,
		Description: fm.Description,
		Command:     strings.TrimSpace(body),
		Resources:   resources,
	}, nil
}

// splitFrontmatter splits a "---\n...yaml...\n---\n" header from the body.
// A document without frontmatter is all body.
func splitFrontmatter(doc string) (frontmatter, string, error) {
	var fm frontmatter
	if !strings.HasPrefix(doc, "---\n") {
		return fm, doc, nil
	}
	rest := doc[len("---\n"):]
	end := strings.Index(rest, "\n---")
	if end < 0 {
		return fm, "", errors.New("unterminated frontmatter")
	}
	header := rest[:end]
	body := rest[end+len("\n---"):]
	body = strings.TrimPrefix(body, "\n")
	if err := yaml.Unmarshal([]byte(header), &fm); err != nil {
		return fm, "", err
	}
	return fm, body, nil
}
