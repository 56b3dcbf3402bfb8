package cli

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"fftwconf/internal/build"
	"fftwconf/internal/pkgconfig"
	"fftwconf/internal/precision"
)

// fakeMake pretends to build FFTW: "make install" in a precision's build dir
// makes that package visible to the fake pkg-config.
type fakeMake struct {
	tool     *fakePkgConfig
	commands []string
}

func (f *fakeMake) Run(_ context.Context, command string, args []string, opts pkgconfig.RunOptions) (pkgconfig.RunResult, error) {
	f.commands = append(f.commands, filepath.Base(command)+" "+strings.Join(args, " "))
	if len(args) == 1 && args[0] == "install" {
		tag := precision.Tag(filepath.Base(opts.Dir))
		f.tool.installed[tag.Package()] = "3.3.10"
	}
	return pkgconfig.RunResult{}, nil
}

func withFakeMake(t *testing.T, tool *fakePkgConfig) *fakeMake {
	t.Helper()
	fake := &fakeMake{tool: tool}
	orig := buildRunner
	buildRunner = fake
	t.Cleanup(func() { buildRunner = orig })
	return fake
}

func writeSourceTree(t *testing.T) string {
	t.Helper()
	src := filepath.Join(t.TempDir(), "fftw-3.3.10")
	if err := os.MkdirAll(src, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(src, "configure"), []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	return src
}

func TestBuildSkipsWhenInstalled(t *testing.T) {
	tool := withFakeTool(t, map[string]string{"fftw3": "3.3.10"})
	mk := withFakeMake(t, tool)

	out, err := runCLI(t, t.TempDir(), "build", "--no-progress")
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if !strings.Contains(out, "already installed") {
		t.Fatalf("output = %q", out)
	}
	if len(mk.commands) != 0 {
		t.Fatalf("expected no build commands, got %v", mk.commands)
	}
}

func TestBuildFromSource(t *testing.T) {
	tool := withFakeTool(t, map[string]string{})
	mk := withFakeMake(t, tool)
	project := t.TempDir()
	src := writeSourceTree(t)

	out, err := runCLI(t, project, "--json", "build", "--source", src, "-p", "f", "-j", "2")
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	var result buildResult
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if result.Skipped {
		t.Fatal("expected a build")
	}
	if result.Precisions["d"] != "fftw3" || result.Precisions["f"] != "fftw3f" {
		t.Fatalf("precisions = %v", result.Precisions)
	}
	if len(mk.commands) != 6 {
		t.Fatalf("commands = %v", mk.commands)
	}
	if mk.commands[1] != "make -j2" {
		t.Fatalf("make command = %q", mk.commands[1])
	}
	if _, err := os.Stat(result.Log); err != nil {
		t.Fatalf("build log missing: %v", err)
	}
	if !strings.HasPrefix(result.Prefix, project) {
		t.Fatalf("prefix %s not under project %s", result.Prefix, project)
	}

	// The re-resolution after the build searched the install prefix.
	last := tool.envs[len(tool.envs)-1]
	if len(last) != 1 || !strings.Contains(last[0], build.PkgConfigPath(result.Prefix)) {
		t.Fatalf("expected prefix in PKG_CONFIG_PATH, got %v", last)
	}
}

func TestBuildPlainOutput(t *testing.T) {
	tool := withFakeTool(t, map[string]string{})
	withFakeMake(t, tool)
	src := writeSourceTree(t)

	out, err := runCLI(t, t.TempDir(), "build", "--no-progress", "--source", src, "-p", "d")
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	for _, want := range []string{"[1/3]", "configure", "Installed FFTW3 into", "Build log:"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestBuildWithoutSource(t *testing.T) {
	withFakeTool(t, map[string]string{})

	_, err := runCLI(t, t.TempDir(), "build", "--no-progress")
	if !errors.Is(err, build.ErrNoSource) {
		t.Fatalf("expected ErrNoSource, got %v", err)
	}
}
