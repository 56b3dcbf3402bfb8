package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"fftwconf/internal/fftw"
	"fftwconf/internal/precision"
	"fftwconf/internal/tui"
)

var precisionFlag []string

func addPrecisionFlag(cmd *cobra.Command) {
	cmd.Flags().StringSliceVarP(&precisionFlag, "precision", "p", nil, "Precisions to consider (f, d, l, q); defaults to the config or all")
}

func newPrecisionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "precisions",
		Short: "List which FFTW3 precisions are installed",
		Args:  cobra.NoArgs,
		RunE:  runPrecisions,
	}
	addPrecisionFlag(cmd)
	return cmd
}

type precisionRow struct {
	Precision   string `json:"precision"`
	Description string `json:"description"`
	Package     string `json:"package"`
	Status      string `json:"status"`
}

type precisionsReport struct {
	Found      bool              `json:"found"`
	Precisions map[string]string `json:"precisions,omitempty"`
	Rows       []precisionRow    `json:"rows"`
}

func runPrecisions(cmd *cobra.Command, _ []string) error {
	proj, err := loadProject()
	if err != nil {
		return err
	}
	tags, err := proj.tags(precisionFlag)
	if err != nil {
		return err
	}
	resolver, err := proj.resolver()
	if err != nil {
		return err
	}

	res, err := resolver.Resolve(cmd.Context(), tags...)
	if err != nil {
		return err
	}

	report := buildPrecisionsReport(tags, res)
	if outputJSON {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
	} else {
		writePrecisionsTable(cmd, report)
	}

	if !res.Found() {
		return fmt.Errorf("%w; run `fftwconf build` to compile it from source", fftw.ErrLibraryAbsent)
	}
	return nil
}

func buildPrecisionsReport(tags []precision.Tag, res fftw.Resolution) precisionsReport {
	report := precisionsReport{Found: res.Found()}
	if res.Found() {
		report.Precisions = map[string]string{}
		for tag, pkg := range res.Map() {
			report.Precisions[string(tag)] = pkg
		}
	}
	seen := map[precision.Tag]bool{}
	for _, tag := range tags {
		if seen[tag] {
			continue
		}
		seen[tag] = true
		status := "missing"
		if _, ok := res.Package(tag); ok {
			status = "found"
		}
		report.Rows = append(report.Rows, precisionRow{
			Precision:   string(tag),
			Description: tag.Description(),
			Package:     tag.Package(),
			Status:      status,
		})
	}
	return report
}

func writePrecisionsTable(cmd *cobra.Command, report precisionsReport) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, tui.HeaderStyle.Render(fmt.Sprintf("%-10s %-12s %-8s %s", "PRECISION", "TYPE", "PACKAGE", "STATUS")))
	for _, row := range report.Rows {
		fmt.Fprintf(out, "%-10s %-12s %-8s %s\n", row.Precision, row.Description, row.Package, tui.StatusStyle(row.Status).Render(row.Status))
	}
}
