package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"fftwconf/internal/config"
	"fftwconf/internal/fftw"
	"fftwconf/internal/paths"
	"fftwconf/internal/pkgconfig"
	"fftwconf/internal/precision"
	"fftwconf/internal/tui"
)

func newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Report pkg-config, FFTW3 precision and version health",
		Args:  cobra.NoArgs,
		RunE:  runDoctor,
	}
}

type healthCheck struct {
	Name    string `json:"name"`
	Status  string `json:"status"` // "ok", "warning", "error"
	Summary string `json:"summary"`
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	pp, err := paths.Resolve(projectDir)
	if err != nil {
		return err
	}

	var checks []healthCheck

	cfg, cfgErr := config.Load(pp.ConfigFile)
	checks = append(checks, checkConfig(pp, cfg, cfgErr))
	if cfgErr != nil {
		return writeDoctorResult(cmd, pp.Root, checks)
	}
	proj := project{Paths: paths.ApplyConfig(pp, cfg), Config: cfg}

	tool, toolErr := proj.tool()
	checks = append(checks, checkTool(tool, toolErr))
	if toolErr != nil {
		return writeDoctorResult(cmd, pp.Root, checks)
	}

	resolver := fftw.New(tool)
	ctx := cmd.Context()
	checks = append(checks, checkPrecisions(ctx, resolver))
	checks = append(checks, checkVersion(ctx, resolver, cfg))

	return writeDoctorResult(cmd, pp.Root, checks)
}

func checkConfig(pp paths.ProjectPaths, cfg config.Config, cfgErr error) healthCheck {
	if cfgErr != nil {
		return healthCheck{Name: "Config", Status: "error", Summary: cfgErr.Error()}
	}

	results := cfg.Validate(pp.Root)
	errs := config.Errors(results)
	summary := fmt.Sprintf("precisions %s", strings.Join(cfg.Precisions, ","))
	if cfg.Require != "" {
		summary += fmt.Sprintf(", require %s", cfg.Require)
	}

	if len(errs) > 0 {
		return healthCheck{Name: "Config", Status: "error", Summary: errs[0].Message}
	}
	if warnings := len(results) - len(errs); warnings > 0 {
		return healthCheck{Name: "Config", Status: "warning", Summary: fmt.Sprintf("%s; %d warnings", summary, warnings)}
	}
	return healthCheck{Name: "Config", Status: "ok", Summary: summary}
}

func checkTool(tool *pkgconfig.Tool, err error) healthCheck {
	if err != nil {
		return healthCheck{Name: "pkg-config", Status: "error", Summary: err.Error()}
	}
	return healthCheck{Name: "pkg-config", Status: "ok", Summary: tool.Path}
}

func checkPrecisions(ctx context.Context, resolver *fftw.Resolver) healthCheck {
	res, err := resolver.Resolve(ctx)
	if err != nil {
		return healthCheck{Name: "Precisions", Status: "error", Summary: err.Error()}
	}
	if !res.Found() {
		return healthCheck{Name: "Precisions", Status: "error", Summary: "no FFTW3 precision installed; run `fftwconf build`"}
	}

	var found, missing []string
	for _, tag := range precision.All() {
		if pkg, ok := res.Package(tag); ok {
			found = append(found, pkg)
		} else {
			missing = append(missing, tag.Package())
		}
	}
	if len(missing) > 0 {
		return healthCheck{
			Name:    "Precisions",
			Status:  "warning",
			Summary: fmt.Sprintf("%s; missing %s", joinComma(found), joinComma(missing)),
		}
	}
	return healthCheck{Name: "Precisions", Status: "ok", Summary: joinComma(found)}
}

func checkVersion(ctx context.Context, resolver *fftw.Resolver, cfg config.Config) healthCheck {
	installed, err := resolver.Installed(ctx)
	if err != nil {
		status := "error"
		if errors.Is(err, fftw.ErrLibraryAbsent) {
			status = "warning"
		}
		return healthCheck{Name: "Version", Status: status, Summary: err.Error()}
	}
	effective := fftw.EffectiveVersion(installed)

	required, ok, err := cfg.RequiredVersion()
	if err != nil {
		return healthCheck{Name: "Version", Status: "error", Summary: err.Error()}
	}
	if !ok {
		return healthCheck{Name: "Version", Status: "ok", Summary: fmt.Sprintf("%s (no requirement set)", effective)}
	}
	if effective.Less(required) {
		tooLow := &fftw.VersionTooLowError{Installed: installed, Effective: effective, Required: required}
		return healthCheck{Name: "Version", Status: "error", Summary: tooLow.Error()}
	}
	return healthCheck{Name: "Version", Status: "ok", Summary: fmt.Sprintf("%s >= %s", effective, required)}
}

func writeDoctorResult(cmd *cobra.Command, projectRoot string, checks []healthCheck) error {
	if outputJSON {
		data, err := json.MarshalIndent(checks, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, tui.TitleStyle.Render("FFTW3 HEALTH:")+" "+projectRoot)

	for _, c := range checks {
		fmt.Fprintf(out, "  %-12s %s    %s\n", c.Name+":", tui.RenderStatus(c.Status), c.Summary)
	}
	return nil
}

func joinComma(items []string) string {
	return strings.Join(items, ", ")
}
