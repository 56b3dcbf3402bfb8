package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"fftwconf/internal/precision"
	"fftwconf/internal/version"
)

// EnvSearchPath is the pkg-config search path variable extended by
// Config.PkgConfigPath.
const EnvSearchPath = "PKG_CONFIG_PATH"

// Config captures discovery and build settings for a project.
type Config struct {
	Version       int         `yaml:"version"`
	PkgConfig     string      `yaml:"pkg_config,omitempty"`
	PkgConfigPath []string    `yaml:"pkg_config_path,omitempty"`
	Precisions    []string    `yaml:"precisions,omitempty"`
	Require       string      `yaml:"require,omitempty"`
	Build         BuildConfig `yaml:"build"`
}

// BuildConfig describes the source-build fallback.
type BuildConfig struct {
	SourceDir string `yaml:"source_dir,omitempty"`
	Prefix    string `yaml:"prefix,omitempty"`
	Make      string `yaml:"make,omitempty"`
	Jobs      int    `yaml:"jobs,omitempty"`
	Shared    *bool  `yaml:"shared,omitempty"`
}

// SharedValue returns the effective shared-library flag applying defaults.
func (b BuildConfig) SharedValue() bool {
	if b.Shared == nil {
		return true
	}
	return *b.Shared
}

// Default returns the baseline configuration.
func Default() Config {
	return Config{
		Version:    1,
		Precisions: precision.Strings(precision.All()),
		Build: BuildConfig{
			Prefix: filepath.Join(".fftwconf", "prefix"),
			Make:   "make",
			Shared: boolPtr(true),
		},
	}
}

// Load reads the YAML configuration from disk if it exists, otherwise returns
// the default configuration.
func Load(path string) (Config, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := Default()
			cfg.ApplyDefaults()
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	// An explicit list in the file replaces the default one.
	cfg.Precisions = nil
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.ApplyDefaults()
	return cfg, nil
}

// ApplyDefaults fills fields the YAML omitted.
func (c *Config) ApplyDefaults() {
	defaults := Default()

	if c.Version == 0 {
		c.Version = defaults.Version
	}
	if len(c.Precisions) == 0 {
		c.Precisions = defaults.Precisions
	}
	if c.Build.Prefix == "" {
		c.Build.Prefix = defaults.Build.Prefix
	}
	if c.Build.Make == "" {
		c.Build.Make = defaults.Build.Make
	}
	if c.Build.Shared == nil {
		c.Build.Shared = boolPtr(true)
	}
}

// Tags returns the configured precisions as validated tags.
func (c Config) Tags() ([]precision.Tag, error) {
	return precision.ParseList(c.Precisions)
}

// RequiredVersion parses the configured minimum version. ok is false when no
// requirement is set.
func (c Config) RequiredVersion() (v version.SemVer, ok bool, err error) {
	literal := strings.TrimSpace(c.Require)
	if literal == "" {
		return version.SemVer{}, false, nil
	}
	v, err = version.ParseRequirement(literal)
	if err != nil {
		return version.SemVer{}, false, err
	}
	return v, true, nil
}

// ToolEnv returns the extra environment for pkg-config: the configured search
// directories, resolved against projectRoot, ahead of any inherited
// PKG_CONFIG_PATH. It returns nil when nothing is configured.
func (c Config) ToolEnv(projectRoot string, extraDirs ...string) []string {
	var dirs []string
	for _, dir := range append(append([]string(nil), extraDirs...), c.PkgConfigPath...) {
		dir = strings.TrimSpace(dir)
		if dir == "" {
			continue
		}
		dirs = append(dirs, ResolvePath(projectRoot, dir))
	}
	if len(dirs) == 0 {
		return nil
	}
	if inherited := os.Getenv(EnvSearchPath); inherited != "" {
		dirs = append(dirs, inherited)
	}
	return []string{EnvSearchPath + "=" + strings.Join(dirs, string(os.PathListSeparator))}
}

// ResolvePath returns path as-is if absolute, otherwise joins it with projectRoot.
func ResolvePath(projectRoot, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(projectRoot, path)
}

// Marshal returns the YAML encoding of the configuration.
func (c Config) Marshal() ([]byte, error) {
	buf, err := yaml.Marshal(&c)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}
	return buf, nil
}

func boolPtr(v bool) *bool {
	return &v
}
