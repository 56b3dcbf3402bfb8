package pkgconfig

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// ErrToolMissing is returned when no pkg-config executable can be found.
var ErrToolMissing = errors.New("pkg-config not found")

// EnvTool names the environment variable that overrides the tool path,
// matching the convention used by autoconf and cgo.
const EnvTool = "PKG_CONFIG"

var candidateNames = []string{"pkg-config", "pkgconf"}

// lookPath is swapped in tests.
var lookPath = exec.LookPath

// Locate resolves the discovery tool. An explicit override wins, then
// $PKG_CONFIG, then the first of pkg-config or pkgconf found on PATH.
func Locate(override string) (string, error) {
	if override = strings.TrimSpace(override); override != "" {
		return locateExplicit(override, "configured")
	}
	if env := strings.TrimSpace(os.Getenv(EnvTool)); env != "" {
		return locateExplicit(env, "$"+EnvTool)
	}

	var tried []string
	for _, name := range candidateNames {
		path, err := lookPath(name)
		if err == nil {
			return path, nil
		}
		tried = append(tried, name)
	}
	return "", fmt.Errorf("%w in PATH (tried %s)", ErrToolMissing, strings.Join(tried, ", "))
}

func locateExplicit(value, origin string) (string, error) {
	if !strings.ContainsRune(value, filepath.Separator) {
		path, err := lookPath(value)
		if err != nil {
			return "", fmt.Errorf("%w: %s tool %q: %v", ErrToolMissing, origin, value, err)
		}
		return path, nil
	}
	info, err := os.Stat(value)
	if err != nil {
		return "", fmt.Errorf("%w: %s tool %q: %v", ErrToolMissing, origin, value, err)
	}
	if info.IsDir() || info.Mode()&0o111 == 0 {
		return "", fmt.Errorf("%w: %s tool %q is not executable", ErrToolMissing, origin, value)
	}
	abs, err := filepath.Abs(value)
	if err != nil {
		return "", fmt.Errorf("resolve %s tool %q: %w", origin, value, err)
	}
	return abs, nil
}
