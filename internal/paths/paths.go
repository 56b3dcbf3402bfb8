package paths

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"fftwconf/internal/config"
)

// ProjectPaths captures canonical locations for a project using fftwconf.
type ProjectPaths struct {
	Root       string
	ConfigFile string
	MetaDir    string
	LogsDir    string
	BuildDir   string
	// Prefix is the install prefix of the source-build fallback.
	Prefix string
}

// Resolve determines the project root using the optional --project flag or the
// current working directory when the flag is empty.
func Resolve(projectFlag string) (ProjectPaths, error) {
	var (
		root string
		err  error
	)

	if projectFlag != "" {
		root, err = filepath.Abs(projectFlag)
	} else {
		root, err = os.Getwd()
	}
	if err != nil {
		return ProjectPaths{}, fmt.Errorf("resolve project root: %w", err)
	}

	return newProjectPaths(root), nil
}

func newProjectPaths(root string) ProjectPaths {
	metaDir := filepath.Join(root, ".fftwconf")
	return ProjectPaths{
		Root:       root,
		ConfigFile: filepath.Join(root, "fftwconf.yaml"),
		MetaDir:    metaDir,
		LogsDir:    filepath.Join(metaDir, "logs"),
		BuildDir:   filepath.Join(metaDir, "build"),
		Prefix:     filepath.Join(metaDir, "prefix"),
	}
}

// ApplyConfig applies path overrides from the configuration.
func ApplyConfig(pp ProjectPaths, cfg config.Config) ProjectPaths {
	if prefix := strings.TrimSpace(cfg.Build.Prefix); prefix != "" {
		pp.Prefix = resolveProjectPath(pp.Root, prefix)
	}
	return pp
}

// SourceDir returns the configured FFTW source tree, or "" when unset.
func (p ProjectPaths) SourceDir(cfg config.Config) string {
	src := strings.TrimSpace(cfg.Build.SourceDir)
	if src == "" {
		return ""
	}
	return resolveProjectPath(p.Root, src)
}

// Abs resolves a user-supplied path against the project root.
func (p ProjectPaths) Abs(value string) string {
	return resolveProjectPath(p.Root, value)
}

func resolveProjectPath(root, value string) string {
	if filepath.IsAbs(value) {
		return filepath.Clean(value)
	}
	return filepath.Join(root, value)
}

// EnsureRoot makes sure the project root exists on disk.
func (p ProjectPaths) EnsureRoot() error {
	if err := os.MkdirAll(p.Root, 0o755); err != nil {
		return fmt.Errorf("create project root: %w", err)
	}
	return nil
}

// EnsureMetaDirs creates the hidden .fftwconf directory and its logs and
// build subdirectories.
func (p ProjectPaths) EnsureMetaDirs() error {
	dirs := []string{p.MetaDir, p.LogsDir, p.BuildDir}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}

// FileExists reports whether a path exists and is a regular file.
func FileExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return info.Mode().IsRegular(), nil
}

// DirExists reports whether a path exists and is a directory.
func DirExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return info.IsDir(), nil
}
