package pkgconfig

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

type call struct {
	command string
	args    []string
	env     []string
}

type fakeRunner struct {
	calls   []call
	respond func(args []string) (RunResult, error)
}

func (f *fakeRunner) Run(_ context.Context, command string, args []string, opts RunOptions) (RunResult, error) {
	f.calls = append(f.calls, call{command: command, args: append([]string(nil), args...), env: opts.Env})
	return f.respond(args)
}

func TestExists(t *testing.T) {
	runner := &fakeRunner{respond: func(args []string) (RunResult, error) {
		switch args[len(args)-1] {
		case "fftw3":
			return RunResult{Stdout: []byte("-lfftw3 -lm\n")}, nil
		case "fftw3f":
			return RunResult{Stdout: []byte("  \n")}, nil
		default:
			return RunResult{Stderr: []byte("Package fftw3q was not found")}, errors.New("exit status 1")
		}
	}}
	tool := &Tool{Path: "/usr/bin/pkg-config", Runner: runner}

	if !tool.Exists(context.Background(), "fftw3") {
		t.Fatal("expected fftw3 to exist")
	}
	if tool.Exists(context.Background(), "fftw3f") {
		t.Fatal("expected blank output to mean absent")
	}
	if tool.Exists(context.Background(), "fftw3q") {
		t.Fatal("expected failed query to mean absent")
	}

	want := []string{"--silence-errors", "--libs", "fftw3"}
	if !reflect.DeepEqual(runner.calls[0].args, want) {
		t.Fatalf("args = %v, want %v", runner.calls[0].args, want)
	}
	if runner.calls[0].command != "/usr/bin/pkg-config" {
		t.Fatalf("command = %q", runner.calls[0].command)
	}
}

func TestCFlagsSingleCombinedQuery(t *testing.T) {
	runner := &fakeRunner{respond: func(args []string) (RunResult, error) {
		return RunResult{Stdout: []byte("  -I/opt/fftw/include \n")}, nil
	}}
	tool := &Tool{Path: "pkg-config", Runner: runner, Env: []string{"PKG_CONFIG_PATH=/opt/fftw/lib/pkgconfig"}}

	got, err := tool.CFlags(context.Background(), "fftw3", "fftw3q")
	if err != nil {
		t.Fatalf("cflags: %v", err)
	}
	if got != "-I/opt/fftw/include" {
		t.Fatalf("cflags = %q", got)
	}
	if len(runner.calls) != 1 {
		t.Fatalf("expected 1 call, got %d", len(runner.calls))
	}
	want := []string{"--cflags", "fftw3", "fftw3q"}
	if !reflect.DeepEqual(runner.calls[0].args, want) {
		t.Fatalf("args = %v, want %v", runner.calls[0].args, want)
	}
	if len(runner.calls[0].env) != 1 || !strings.HasPrefix(runner.calls[0].env[0], "PKG_CONFIG_PATH=") {
		t.Fatalf("env not forwarded: %v", runner.calls[0].env)
	}
}

func TestLibsFailureIncludesStderr(t *testing.T) {
	runner := &fakeRunner{respond: func(args []string) (RunResult, error) {
		return RunResult{Stderr: []byte("Package fftw3l was not found\nmore detail")}, errors.New("exit status 1")
	}}
	tool := &Tool{Path: "pkg-config", Runner: runner}

	_, err := tool.Libs(context.Background(), "fftw3l")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "Package fftw3l was not found") {
		t.Fatalf("error missing stderr: %v", err)
	}
	if strings.Contains(err.Error(), "more detail") {
		t.Fatalf("expected only the first stderr line: %v", err)
	}
}

func TestFlagsEmptyOutputIsValid(t *testing.T) {
	// pkg-config drops system include dirs, leaving only a newline.
	runner := &fakeRunner{respond: func(args []string) (RunResult, error) {
		return RunResult{Stdout: []byte("\n")}, nil
	}}
	tool := &Tool{Path: "pkg-config", Runner: runner}

	cflags, err := tool.CFlags(context.Background(), "fftw3")
	if err != nil {
		t.Fatalf("cflags: %v", err)
	}
	if cflags != "" {
		t.Fatalf("cflags = %q, want empty", cflags)
	}
	libs, err := tool.Libs(context.Background(), "fftw3")
	if err != nil {
		t.Fatalf("libs: %v", err)
	}
	if libs != "" {
		t.Fatalf("libs = %q, want empty", libs)
	}
}

func TestModVersionEmptyOutputIsError(t *testing.T) {
	runner := &fakeRunner{respond: func(args []string) (RunResult, error) {
		return RunResult{}, nil
	}}
	tool := &Tool{Path: "pkg-config", Runner: runner}
	if _, err := tool.ModVersion(context.Background(), "fftw3"); err == nil {
		t.Fatal("expected error for empty output")
	}
}

func TestModVersion(t *testing.T) {
	runner := &fakeRunner{respond: func(args []string) (RunResult, error) {
		return RunResult{Stdout: []byte("3.3.10\n3.3.8 \n")}, nil
	}}
	tool := &Tool{Path: "pkg-config", Runner: runner}

	got, err := tool.ModVersion(context.Background(), "fftw3", "fftw3f")
	if err != nil {
		t.Fatalf("modversion: %v", err)
	}
	if !reflect.DeepEqual(got, []string{"3.3.10", "3.3.8"}) {
		t.Fatalf("versions = %v", got)
	}
}

func TestNilToolIsMissing(t *testing.T) {
	var tool *Tool
	if _, err := tool.CFlags(context.Background(), "fftw3"); !errors.Is(err, ErrToolMissing) {
		t.Fatalf("expected ErrToolMissing, got %v", err)
	}
}

func stubLookPath(t *testing.T, found map[string]string) {
	t.Helper()
	orig := lookPath
	lookPath = func(name string) (string, error) {
		if p, ok := found[name]; ok {
			return p, nil
		}
		return "", exec.ErrNotFound
	}
	t.Cleanup(func() { lookPath = orig })
}

func TestLocatePrefersPkgConfig(t *testing.T) {
	t.Setenv(EnvTool, "")
	stubLookPath(t, map[string]string{"pkg-config": "/usr/bin/pkg-config", "pkgconf": "/usr/bin/pkgconf"})

	got, err := Locate("")
	if err != nil {
		t.Fatalf("locate: %v", err)
	}
	if got != "/usr/bin/pkg-config" {
		t.Fatalf("path = %q", got)
	}
}

func TestLocateFallsBackToPkgconf(t *testing.T) {
	t.Setenv(EnvTool, "")
	stubLookPath(t, map[string]string{"pkgconf": "/usr/bin/pkgconf"})

	got, err := Locate("")
	if err != nil {
		t.Fatalf("locate: %v", err)
	}
	if got != "/usr/bin/pkgconf" {
		t.Fatalf("path = %q", got)
	}
}

func TestLocateMissing(t *testing.T) {
	t.Setenv(EnvTool, "")
	stubLookPath(t, nil)

	_, err := Locate("")
	if !errors.Is(err, ErrToolMissing) {
		t.Fatalf("expected ErrToolMissing, got %v", err)
	}
	if _, err := New(""); !errors.Is(err, ErrToolMissing) {
		t.Fatalf("New: expected ErrToolMissing, got %v", err)
	}
}

func TestLocateEnvOverride(t *testing.T) {
	stubLookPath(t, map[string]string{"pkg-config": "/usr/bin/pkg-config", "x86_64-pkg-config": "/opt/cross/bin/x86_64-pkg-config"})
	t.Setenv(EnvTool, "x86_64-pkg-config")

	got, err := Locate("")
	if err != nil {
		t.Fatalf("locate: %v", err)
	}
	if got != "/opt/cross/bin/x86_64-pkg-config" {
		t.Fatalf("path = %q", got)
	}
}

func TestLocateExplicitPath(t *testing.T) {
	t.Setenv(EnvTool, "")
	dir := t.TempDir()
	exe := filepath.Join(dir, "pkg-config")
	if err := os.WriteFile(exe, []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	plain := filepath.Join(dir, "not-exec")
	if err := os.WriteFile(plain, []byte(""), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := Locate(exe)
	if err != nil {
		t.Fatalf("locate: %v", err)
	}
	if got != exe {
		t.Fatalf("path = %q, want %q", got, exe)
	}

	if _, err := Locate(plain); !errors.Is(err, ErrToolMissing) {
		t.Fatalf("expected ErrToolMissing for non-executable, got %v", err)
	}
	if _, err := Locate(filepath.Join(dir, "absent")); !errors.Is(err, ErrToolMissing) {
		t.Fatalf("expected ErrToolMissing for absent path, got %v", err)
	}
}
