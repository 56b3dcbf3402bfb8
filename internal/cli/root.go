package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	projectDir string
	outputJSON bool
)

// Execute runs the root cobra command.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "fftwconf",
		Short:         "Locate FFTW3 and report its build flags",
		Long:          "fftwconf finds the installed FFTW3 precisions (float, double, long double, quad) through pkg-config, prints their compiler and linker flags, checks the installed version and can build FFTW3 from source when it is missing.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&projectDir, "project", "", "Path to project directory")
	cmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "Output machine-readable JSON")

	cmd.AddCommand(newPrecisionsCmd())
	cmd.AddCommand(newCFlagsCmd())
	cmd.AddCommand(newLibsCmd())
	cmd.AddCommand(newCheckVersionCmd())
	cmd.AddCommand(newDoctorCmd())
	cmd.AddCommand(newBuildCmd())
	cmd.AddCommand(newConfigCmd())

	return cmd
}
