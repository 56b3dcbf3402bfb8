package fftw

import (
	"errors"
	"fmt"
	"strings"

	"fftwconf/internal/precision"
	"fftwconf/internal/version"
)

// ErrLibraryAbsent is returned when none of the requested precisions is
// installed. Callers may fall back to a source build.
var ErrLibraryAbsent = errors.New("FFTW3 library not found")

// Installed describes one resolved package and the version pkg-config reports.
type Installed struct {
	Tag     precision.Tag  `json:"precision"`
	Package string         `json:"package"`
	Version string         `json:"version"`
	Parsed  version.SemVer `json:"-"`
}

// VersionTooLowError reports that the oldest installed precision does not
// meet the requirement.
type VersionTooLowError struct {
	Installed []Installed
	Effective version.SemVer
	Required  version.SemVer
}

func (e *VersionTooLowError) Error() string {
	parts := make([]string, len(e.Installed))
	for i, inst := range e.Installed {
		parts[i] = fmt.Sprintf("%s (%s) %s", inst.Package, inst.Tag, inst.Version)
	}
	return fmt.Sprintf("installed FFTW3 is older than required %s: %s", e.Required, strings.Join(parts, ", "))
}
