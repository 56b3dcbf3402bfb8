package config

import (
	"fmt"
	"os"
	"strings"

	"fftwconf/internal/precision"
)

// ValidationResult captures a single validation finding.
type ValidationResult struct {
	Level   string `json:"level"` // "error" or "warning"
	Message string `json:"message"`
}

// Validate checks the configuration and returns structured results.
func (c Config) Validate(projectRoot string) []ValidationResult {
	var results []ValidationResult
	results = append(results, c.validatePrecisions()...)
	results = append(results, c.validateRequire()...)
	results = append(results, c.validateSearchPath(projectRoot)...)
	results = append(results, c.validateBuild(projectRoot)...)
	return results
}

// Errors returns only the error-level results.
func Errors(results []ValidationResult) []ValidationResult {
	var out []ValidationResult
	for _, r := range results {
		if r.Level == "error" {
			out = append(out, r)
		}
	}
	return out
}

func (c Config) validatePrecisions() []ValidationResult {
	var results []ValidationResult
	for _, value := range c.Precisions {
		if _, err := precision.ParseList([]string{value}); err != nil {
			results = append(results, ValidationResult{
				Level:   "error",
				Message: fmt.Sprintf("precisions: %v", err),
			})
		}
	}
	return results
}

func (c Config) validateRequire() []ValidationResult {
	if _, _, err := c.RequiredVersion(); err != nil {
		return []ValidationResult{{
			Level:   "error",
			Message: fmt.Sprintf("require: %v", err),
		}}
	}
	return nil
}

func (c Config) validateSearchPath(projectRoot string) []ValidationResult {
	var results []ValidationResult
	for _, dir := range c.PkgConfigPath {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		resolved := ResolvePath(projectRoot, dir)
		info, err := os.Stat(resolved)
		if err != nil || !info.IsDir() {
			results = append(results, ValidationResult{
				Level:   "warning",
				Message: fmt.Sprintf("pkg_config_path entry %q is not a directory", dir),
			})
		}
	}
	return results
}

func (c Config) validateBuild(projectRoot string) []ValidationResult {
	var results []ValidationResult
	if c.Build.Jobs < 0 {
		results = append(results, ValidationResult{
			Level:   "error",
			Message: fmt.Sprintf("build.jobs must not be negative (got %d)", c.Build.Jobs),
		})
	}
	if src := strings.TrimSpace(c.Build.SourceDir); src != "" {
		if _, err := os.Stat(ResolvePath(projectRoot, src)); err != nil {
			results = append(results, ValidationResult{
				Level:   "warning",
				Message: fmt.Sprintf("build.source_dir %q not found", src),
			})
		}
	}
	return results
}
