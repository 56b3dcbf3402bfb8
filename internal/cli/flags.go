package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"fftwconf/internal/fftw"
	"fftwconf/internal/precision"
)

func newCFlagsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cflags",
		Short: "Print compiler flags for the installed FFTW3 precisions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runFlags(cmd, "cflags", (*fftw.Resolver).CFlags)
		},
	}
	addPrecisionFlag(cmd)
	return cmd
}

func newLibsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "libs",
		Short: "Print linker flags for the installed FFTW3 precisions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runFlags(cmd, "libs", (*fftw.Resolver).Libs)
		},
	}
	addPrecisionFlag(cmd)
	return cmd
}

type flagQuery func(r *fftw.Resolver, ctx context.Context, tags ...precision.Tag) (string, error)

func runFlags(cmd *cobra.Command, kind string, query flagQuery) error {
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

	flags, err := query(resolver, cmd.Context(), tags...)
	if err != nil {
		return err
	}

	if outputJSON {
		data, err := json.MarshalIndent(map[string]string{kind: flags}, "", "  ")
		if err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), flags)
	return nil
}
