package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"fftwconf/internal/fftw"
	"fftwconf/internal/version"
)

func newCheckVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "check-version [REQUIREMENT]",
		Aliases: []string{"require"},
		Short:   "Fail unless every installed FFTW3 precision meets a minimum version",
		Long: `Fail unless the oldest installed FFTW3 precision is at least REQUIREMENT.

REQUIREMENT defaults to "require" from fftwconf.yaml. A single fractional
digit is the minor version ("3.3" means 3.3.0); three or more fractional
digits pack minor and patch ("3.003004" means 3.3.4). Other forms are read
as dotted versions ("3.3.10"). Prefer the dotted form: the decimal forms
cannot express minor versions of 10 and above unambiguously.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runCheckVersion,
	}
}

type versionReport struct {
	Required  string           `json:"required"`
	Effective string           `json:"effective"`
	Satisfied bool             `json:"satisfied"`
	Installed []fftw.Installed `json:"installed"`
}

func runCheckVersion(cmd *cobra.Command, args []string) error {
	proj, err := loadProject()
	if err != nil {
		return err
	}

	var required version.SemVer
	if len(args) == 1 {
		required, err = version.ParseRequirement(args[0])
		if err != nil {
			return fmt.Errorf("requested version: %w", err)
		}
	} else {
		var ok bool
		required, ok, err = proj.Config.RequiredVersion()
		if err != nil {
			return fmt.Errorf("config require: %w", err)
		}
		if !ok {
			return errors.New("no version requirement given (pass one or set require in fftwconf.yaml)")
		}
	}

	resolver, err := proj.resolver()
	if err != nil {
		return err
	}
	checkErr := resolver.Check(cmd.Context(), required)

	if outputJSON {
		var tooLow *fftw.VersionTooLowError
		if checkErr != nil && !errors.As(checkErr, &tooLow) {
			return checkErr
		}
		report := versionReport{Required: required.String(), Satisfied: checkErr == nil}
		if tooLow != nil {
			report.Installed = tooLow.Installed
			report.Effective = tooLow.Effective.String()
		} else {
			installed, err := resolver.Installed(cmd.Context())
			if err != nil {
				return err
			}
			report.Installed = installed
			report.Effective = fftw.EffectiveVersion(installed).String()
		}
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
	}
	return checkErr
}
