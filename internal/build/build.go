// Package build compiles FFTW3 from a local source tree when no installed
// precision can be found. Each precision is configured out of tree in its own
// directory and installed into a shared prefix.
package build

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"fftwconf/internal/pkgconfig"
	"fftwconf/internal/precision"
)

// ErrNoSource is returned when the plan has no usable source tree.
var ErrNoSource = errors.New("no FFTW source tree")

// Plan describes one source build.
type Plan struct {
	SourceDir  string
	BuildDir   string
	Prefix     string
	Precisions []precision.Tag
	Make       string
	Jobs       int
	Shared     bool
}

// Step is a single command of a build.
type Step struct {
	Tag     precision.Tag `json:"precision"`
	Name    string        `json:"name"`
	Command string        `json:"command"`
	Args    []string      `json:"args"`
	Dir     string        `json:"dir"`
}

// Key identifies the step in progress displays.
func (s Step) Key() string {
	return string(s.Tag) + ":" + s.Name
}

func (s Step) String() string {
	return strings.TrimSpace(s.Command + " " + strings.Join(s.Args, " "))
}

// Step states reported through Event.
const (
	StatusRunning = "running"
	StatusDone    = "done"
	StatusError   = "error"
)

// Event reports progress of a running build.
type Event struct {
	Step   Step
	Index  int
	Total  int
	Status string
	Err    error
}

// PkgConfigPath returns the directory holding the .pc files installed under
// prefix.
func PkgConfigPath(prefix string) string {
	return filepath.Join(prefix, "lib", "pkgconfig")
}

// Precisions returns the tags to build: the requested ones in canonical order,
// always including double precision.
func Precisions(tags []precision.Tag) []precision.Tag {
	want := map[precision.Tag]bool{precision.Double: true}
	for _, tag := range tags {
		want[tag] = true
	}
	var out []precision.Tag
	for _, tag := range precision.All() {
		if want[tag] {
			out = append(out, tag)
		}
	}
	return out
}

// Steps expands plan into the ordered command list.
func Steps(plan Plan) ([]Step, error) {
	if strings.TrimSpace(plan.SourceDir) == "" {
		return nil, ErrNoSource
	}
	if plan.Prefix == "" {
		return nil, errors.New("build prefix is empty")
	}
	for _, tag := range plan.Precisions {
		if !tag.Valid() {
			return nil, precision.InvalidTagError{Tag: string(tag)}
		}
	}

	makeCmd := plan.Make
	if makeCmd == "" {
		makeCmd = "make"
	}
	jobs := plan.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	configure := filepath.Join(plan.SourceDir, "configure")

	var steps []Step
	for _, tag := range Precisions(plan.Precisions) {
		dir := filepath.Join(plan.BuildDir, string(tag))
		args := []string{"--prefix=" + plan.Prefix}
		if plan.Shared {
			args = append(args, "--enable-shared")
		}
		if flag := tag.ConfigureFlag(); flag != "" {
			args = append(args, flag)
		}
		steps = append(steps,
			Step{Tag: tag, Name: "configure", Command: configure, Args: args, Dir: dir},
			Step{Tag: tag, Name: "make", Command: makeCmd, Args: []string{"-j" + strconv.Itoa(jobs)}, Dir: dir},
			Step{Tag: tag, Name: "install", Command: makeCmd, Args: []string{"install"}, Dir: dir},
		)
	}
	return steps, nil
}

// Builder runs build steps through a Runner.
type Builder struct {
	Runner pkgconfig.Runner
	Logger *log.Logger
}

// Run executes every step in order and stops at the first failure. progress
// may be nil.
func (b *Builder) Run(ctx context.Context, plan Plan, progress func(Event)) error {
	if _, err := os.Stat(filepath.Join(plan.SourceDir, "configure")); err != nil {
		return fmt.Errorf("%w at %s: %v", ErrNoSource, plan.SourceDir, err)
	}
	steps, err := Steps(plan)
	if err != nil {
		return err
	}

	runner := b.Runner
	if runner == nil {
		runner = pkgconfig.CmdRunner{}
	}
	logger := b.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	report := func(ev Event) {
		if progress != nil {
			progress(ev)
		}
	}

	for i, step := range steps {
		report(Event{Step: step, Index: i, Total: len(steps), Status: StatusRunning})
		logger.Printf("[%d/%d] %s (precision=%s dir=%s)", i+1, len(steps), step, step.Tag, step.Dir)

		if err := os.MkdirAll(step.Dir, 0o755); err != nil {
			err = fmt.Errorf("create build dir: %w", err)
			report(Event{Step: step, Index: i, Total: len(steps), Status: StatusError, Err: err})
			return err
		}

		res, runErr := runner.Run(ctx, step.Command, step.Args, pkgconfig.RunOptions{
			Dir:    step.Dir,
			Stdout: logger.Writer(),
			Stderr: logger.Writer(),
		})
		if runErr != nil {
			err := fmt.Errorf("%s %s (precision %s): %w", step.Name, step.Command, step.Tag, runErr)
			if tail := lastLine(res.Stderr); tail != "" {
				err = fmt.Errorf("%w: %s", err, tail)
			}
			logger.Printf("failed: %v", err)
			report(Event{Step: step, Index: i, Total: len(steps), Status: StatusError, Err: err})
			return err
		}
		report(Event{Step: step, Index: i, Total: len(steps), Status: StatusDone})
	}
	logger.Printf("installed FFTW3 into %s", plan.Prefix)
	return nil
}

func lastLine(out []byte) string {
	text := string(bytes.TrimSpace(out))
	if idx := strings.LastIndexByte(text, '\n'); idx >= 0 {
		return strings.TrimSpace(text[idx+1:])
	}
	return text
}
