package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"fftwconf/internal/pkgconfig"
)

// fakePkgConfig answers like pkg-config for the packages in installed
// (package name to version).
type fakePkgConfig struct {
	installed map[string]string
	envs      [][]string
}

func (f *fakePkgConfig) Run(_ context.Context, _ string, args []string, opts pkgconfig.RunOptions) (pkgconfig.RunResult, error) {
	f.envs = append(f.envs, opts.Env)

	var flag string
	var pkgs []string
	for _, arg := range args {
		switch {
		case arg == "--silence-errors":
		case strings.HasPrefix(arg, "--"):
			flag = arg
		default:
			pkgs = append(pkgs, arg)
		}
	}
	for _, pkg := range pkgs {
		if _, ok := f.installed[pkg]; !ok {
			return pkgconfig.RunResult{Stderr: []byte("Package " + pkg + " was not found")}, errors.New("exit status 1")
		}
	}

	var out []string
	for _, pkg := range pkgs {
		switch flag {
		case "--libs":
			out = append(out, "-l"+pkg)
		case "--cflags":
			out = append(out, "-I/opt/"+pkg+"/include")
		case "--modversion":
			out = append(out, f.installed[pkg])
		}
	}
	sep := " "
	if flag == "--modversion" {
		sep = "\n"
	}
	return pkgconfig.RunResult{Stdout: []byte(strings.Join(out, sep) + "\n")}, nil
}

func withFakeTool(t *testing.T, installed map[string]string) *fakePkgConfig {
	t.Helper()
	fake := &fakePkgConfig{installed: installed}
	orig := newTool
	newTool = func(_ string, env []string) (*pkgconfig.Tool, error) {
		return &pkgconfig.Tool{Path: "pkg-config", Runner: fake, Env: env}, nil
	}
	t.Cleanup(func() { newTool = orig })
	return fake
}

func runCLI(t *testing.T, project string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(append([]string{"--project", project}, args...))
	err := cmd.Execute()
	return buf.String(), err
}
