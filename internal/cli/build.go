package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"fftwconf/internal/build"
	"fftwconf/internal/fftw"
	"fftwconf/internal/logx"
	"fftwconf/internal/pkgconfig"
	"fftwconf/internal/precision"
	"fftwconf/internal/tui"
)

var (
	buildSource     string
	buildPrefix     string
	buildJobs       int
	buildForce      bool
	buildNoProgress bool
)

// buildRunner is replaced in tests.
var buildRunner pkgconfig.Runner = pkgconfig.CmdRunner{}

func newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build FFTW3 from a local source tree when no precision is installed",
		Args:  cobra.NoArgs,
		RunE:  runBuild,
	}

	cmd.Flags().StringVar(&buildSource, "source", "", "FFTW source tree (defaults to build.source_dir)")
	cmd.Flags().StringVar(&buildPrefix, "prefix", "", "Install prefix (defaults to build.prefix)")
	cmd.Flags().IntVarP(&buildJobs, "jobs", "j", 0, "Parallel make jobs (defaults to build.jobs or the CPU count)")
	cmd.Flags().BoolVar(&buildForce, "force", false, "Build even if FFTW3 is already installed")
	cmd.Flags().BoolVar(&buildNoProgress, "no-progress", false, "Disable interactive progress output")
	addPrecisionFlag(cmd)

	return cmd
}

type buildResult struct {
	Skipped    bool              `json:"skipped"`
	Prefix     string            `json:"prefix"`
	Log        string            `json:"log,omitempty"`
	Steps      []build.Step      `json:"steps,omitempty"`
	Precisions map[string]string `json:"precisions"`
}

func runBuild(cmd *cobra.Command, _ []string) error {
	proj, err := loadProject()
	if err != nil {
		return err
	}
	if buildPrefix != "" {
		proj.Paths.Prefix = proj.Paths.Abs(buildPrefix)
	}
	tags, err := proj.tags(precisionFlag)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	if !buildForce {
		resolver, err := proj.resolver()
		if err != nil {
			return err
		}
		res, err := resolver.Resolve(ctx, tags...)
		if err != nil {
			return err
		}
		if res.Found() {
			return writeBuildResult(cmd, buildResult{Skipped: true, Prefix: proj.Paths.Prefix, Precisions: tagMap(res)})
		}
	}

	plan := build.Plan{
		SourceDir:  proj.Paths.SourceDir(proj.Config),
		BuildDir:   proj.Paths.BuildDir,
		Prefix:     proj.Paths.Prefix,
		Precisions: tags,
		Make:       proj.Config.Build.Make,
		Jobs:       proj.Config.Build.Jobs,
		Shared:     proj.Config.Build.SharedValue(),
	}
	if buildSource != "" {
		plan.SourceDir = proj.Paths.Abs(buildSource)
	}
	if buildJobs > 0 {
		plan.Jobs = buildJobs
	}
	steps, err := build.Steps(plan)
	if err != nil {
		if errors.Is(err, build.ErrNoSource) {
			return fmt.Errorf("%w: pass --source or set build.source_dir", err)
		}
		return err
	}

	if err := proj.Paths.EnsureMetaDirs(); err != nil {
		return err
	}
	logger, logPath, closer, err := logx.New(proj.Paths, "build")
	if err != nil {
		return err
	}
	defer closer.Close()

	builder := &build.Builder{Runner: buildRunner, Logger: logger}
	mode := tui.DetectMode(out, buildNoProgress, outputJSON)

	work := func(send func(tea.Msg)) error {
		return builder.Run(ctx, plan, func(ev build.Event) {
			if send != nil {
				send(tui.RowUpdateMsg{Key: ev.Step.Key(), Fields: map[string]string{"STATUS": ev.Status}})
				return
			}
			if mode == tui.ModePlain {
				writeBuildEvent(out, ev)
			}
		})
	}

	var runErr error
	if mode == tui.ModeTUI {
		runErr = tui.RunWithWork(out, buildProgressModel(steps), work)
	} else {
		runErr = work(nil)
	}
	if runErr != nil {
		return fmt.Errorf("build failed (log: %s): %w", logPath, runErr)
	}

	// The built library must now be visible to pkg-config, at least in double
	// precision.
	tool, err := newTool(proj.Config.PkgConfig, proj.Config.ToolEnv(proj.Paths.Root, build.PkgConfigPath(proj.Paths.Prefix)))
	if err != nil {
		return err
	}
	res, err := fftw.New(tool).Resolve(ctx, build.Precisions(tags)...)
	if err != nil {
		return err
	}
	if _, ok := res.Package(precision.Double); !ok {
		return fmt.Errorf("%w after build: pkg-config cannot see %s in %s", fftw.ErrLibraryAbsent, precision.Double.Package(), build.PkgConfigPath(proj.Paths.Prefix))
	}
	logger.Printf("resolved after build: %v", res.Packages())

	return writeBuildResult(cmd, buildResult{Prefix: proj.Paths.Prefix, Log: logPath, Steps: steps, Precisions: tagMap(res)})
}

func buildProgressModel(steps []build.Step) tui.ProgressModel {
	model := tui.NewProgressModel("Building FFTW3", []tui.Column{
		{Header: "PRECISION", Width: 9},
		{Header: "STEP", Width: 9},
		{Header: "STATUS", Width: 8},
		{Header: "COMMAND", Width: 48},
	})
	for _, step := range steps {
		model.AddRow(step.Key(), []string{string(step.Tag), step.Name, "pending", step.String()})
	}
	return model
}

func writeBuildEvent(out io.Writer, ev build.Event) {
	switch ev.Status {
	case build.StatusRunning:
		fmt.Fprintf(out, "[%d/%d] %s\n", ev.Index+1, ev.Total, ev.Step)
	case build.StatusError:
		fmt.Fprintf(out, "[%d/%d] %s: %v\n", ev.Index+1, ev.Total, tui.StatusStyle("error").Render("failed"), ev.Err)
	}
}

func writeBuildResult(cmd *cobra.Command, result buildResult) error {
	out := cmd.OutOrStdout()
	if outputJSON {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	if result.Skipped {
		fmt.Fprintf(out, "FFTW3 already installed (%s); use --force to rebuild\n", joinComma(orderedPackages(result.Precisions)))
		return nil
	}
	fmt.Fprintf(out, "Installed FFTW3 into %s (%s)\n", result.Prefix, joinComma(orderedPackages(result.Precisions)))
	fmt.Fprintf(out, "Build log: %s\n", result.Log)
	return nil
}

func tagMap(res fftw.Resolution) map[string]string {
	out := map[string]string{}
	for tag, pkg := range res.Map() {
		out[string(tag)] = pkg
	}
	return out
}

func orderedPackages(m map[string]string) []string {
	var out []string
	for _, tag := range precision.All() {
		if v, ok := m[string(tag)]; ok {
			out = append(out, v)
		}
	}
	return out
}
