// Package config loads margay's configuration from a cascade of sources:
// built-in defaults, the global ~/.margay/config.yaml, the nearest project
// .margay/config.yaml walking up from the working directory, and finally
// MARGAY_* environment variables. Later sources override earlier ones.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/margaycli/margay/internal/domain"
)

// Config is margay's configuration.
type Config struct {
	Environment domain.Environment `yaml:"environment"`

	// TempDir holds shell/fetch spillover files. Defaults to os.TempDir().
	TempDir string `yaml:"temp_dir"`

	// SnapshotDir holds undo snapshots. Defaults to .margay/snapshots under
	// the sandbox dir.
	SnapshotDir string `yaml:"snapshot_dir"`
}

// Load resolves the configuration for a sandbox rooted at sandboxDir.
func Load(sandboxDir string) (Config, error) {
	cfg := Config{Environment: domain.DefaultEnvironment()}

	if home, err := os.UserHomeDir(); err == nil {
		if err := mergeFile(&cfg, filepath.Join(home, ".margay", "config.yaml")); err != nil {
			return Config{}, err
		}
	}

	if path, ok := nearestConfig(sandboxDir); ok {
		if err := mergeFile(&cfg, path); err != nil {
			return Config{}, err
		}
	}

	applyEnvOverrides(&cfg.Environment)

	if cfg.TempDir == "" {
		cfg.TempDir = os.TempDir()
	}
	if cfg.SnapshotDir == "" {
		cfg.SnapshotDir = filepath.Join(sandboxDir, ".margay", "snapshots")
	}
	if cfg.Environment.Cwd == "" {
		cfg.Environment.Cwd = sandboxDir
	}

	if err := validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func mergeFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config %s: %w", path, err)
	}
	// Unmarshal into the existing struct so unset keys keep prior values.
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// nearestConfig walks up from dir looking for .margay/config.yaml.
func nearestConfig(dir string) (string, bool) {
	current, err := filepath.Abs(dir)
	if err != nil {
		return "", false
	}
	for {
		candidate := filepath.Join(current, ".margay", "config.yaml")
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true
		}
		parent := filepath.Dir(current)
		if parent == current {
			return "", false
		}
		current = parent
	}
}

func applyEnvOverrides(env *domain.Environment) {
	overrideInt("MARGAY_MAX_SEARCH_LINES", &env.MaxSearchLines)
	overrideInt("MARGAY_MAX_SEARCH_RESULT_BYTES", &env.MaxSearchResultBytes)
	overrideInt("MARGAY_FETCH_TRUNCATION_LIMIT", &env.FetchTruncationLimit)
	overrideInt("MARGAY_STDOUT_MAX_PREFIX_LENGTH", &env.StdoutMaxPrefixLength)
	overrideInt("MARGAY_STDOUT_MAX_SUFFIX_LENGTH", &env.StdoutMaxSuffixLength)
	overrideInt("MARGAY_STDOUT_MAX_LINE_LENGTH", &env.StdoutMaxLineLength)
	overrideInt("MARGAY_MAX_READ_SIZE", &env.MaxReadSize)
	overrideInt("MARGAY_MAX_FILE_SIZE", &env.MaxFileSize)
}

func overrideInt(key string, dst *int) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return
	}
	if v, err := strconv.Atoi(raw); err == nil {
		*dst = v
	}
}

func validate(cfg Config) error {
	env := cfg.Environment
	var offenders []string
	if env.MaxSearchLines <= 0 {
		offenders = append(offenders, "max_search_lines")
	}
	if env.MaxSearchResultBytes <= 0 {
		offenders = append(offenders, "max_search_result_bytes")
	}
	if env.FetchTruncationLimit <= 0 {
		offenders = append(offenders, "fetch_truncation_limit")
	}
	if env.StdoutMaxPrefixLength < 0 || env.StdoutMaxSuffixLength < 0 {
		offenders = append(offenders, "stdout_max_prefix_length/stdout_max_suffix_length")
	}
	if env.MaxReadSize <= 0 {
		offenders = append(offenders, "max_read_size")
	}
	if env.MaxFileSize <= 0 {
		offenders = append(offenders, "max_file_size")
	}
	if len(offenders) == 0 {
		return nil
	}
	return fmt.Errorf("invalid configuration: %s must be positive", strings.Join(offenders, ", "))
}

// WriteYAML renders cfg in the on-disk format, useful for `margay config`.
func WriteYAML(cfg Config) (string, error) {
	out, err := yaml.Marshal(cfg)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
