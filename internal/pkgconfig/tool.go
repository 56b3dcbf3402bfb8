package pkgconfig

import (
	"bytes"
	"context"
	"fmt"
	"strings"
)

// Tool queries an installed pkg-config binary.
type Tool struct {
	Path   string
	Runner Runner
	// Env is appended to the process environment, e.g. PKG_CONFIG_PATH=...
	Env []string
}

// New locates the discovery tool and returns a Tool backed by CmdRunner.
func New(override string, env ...string) (*Tool, error) {
	path, err := Locate(override)
	if err != nil {
		return nil, err
	}
	return &Tool{Path: path, Runner: CmdRunner{}, Env: env}, nil
}

// Exists reports whether pkg-config knows pkg. A failed query and an empty
// answer both mean "not installed".
func (t *Tool) Exists(ctx context.Context, pkg string) bool {
	out, err := t.run(ctx, "--silence-errors", "--libs", pkg)
	if err != nil {
		return false
	}
	return out != ""
}

// CFlags returns the compiler flags for pkgs exactly as pkg-config prints them.
func (t *Tool) CFlags(ctx context.Context, pkgs ...string) (string, error) {
	return t.query(ctx, "--cflags", pkgs)
}

// Libs returns the linker flags for pkgs exactly as pkg-config prints them.
func (t *Tool) Libs(ctx context.Context, pkgs ...string) (string, error) {
	return t.query(ctx, "--libs", pkgs)
}

// ModVersion returns one version string per package, in request order.
func (t *Tool) ModVersion(ctx context.Context, pkgs ...string) ([]string, error) {
	out, err := t.query(ctx, "--modversion", pkgs)
	if err != nil {
		return nil, err
	}
	if out == "" {
		return nil, fmt.Errorf("pkg-config --modversion %s: empty output", strings.Join(pkgs, " "))
	}
	lines := strings.Split(out, "\n")
	for i := range lines {
		lines[i] = strings.TrimSpace(lines[i])
	}
	return lines, nil
}

func (t *Tool) query(ctx context.Context, flag string, pkgs []string) (string, error) {
	if len(pkgs) == 0 {
		return "", fmt.Errorf("pkg-config %s: no packages given", flag)
	}
	args := append([]string{flag}, pkgs...)
	out, err := t.run(ctx, args...)
	if err != nil {
		return "", fmt.Errorf("pkg-config %s %s: %w", flag, strings.Join(pkgs, " "), err)
	}
	return out, nil
}

func (t *Tool) run(ctx context.Context, args ...string) (string, error) {
	if t == nil || t.Path == "" {
		return "", ErrToolMissing
	}
	runner := t.Runner
	if runner == nil {
		runner = CmdRunner{}
	}
	res, err := runner.Run(ctx, t.Path, args, RunOptions{Env: t.Env})
	if err != nil {
		if msg := firstLine(string(bytes.TrimSpace(res.Stderr))); msg != "" {
			return "", fmt.Errorf("%w: %s", err, msg)
		}
		return "", err
	}
	return string(bytes.TrimSpace(res.Stdout)), nil
}

func firstLine(text string) string {
	if idx := strings.IndexByte(text, '\n'); idx >= 0 {
		return text[:idx]
	}
	return text
}
