package fftw

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"fftwconf/internal/precision"
	"fftwconf/internal/version"
)

// Prober is the subset of the discovery tool the resolver relies on.
// *pkgconfig.Tool satisfies it.
type Prober interface {
	Exists(ctx context.Context, pkg string) bool
	CFlags(ctx context.Context, pkgs ...string) (string, error)
	Libs(ctx context.Context, pkgs ...string) (string, error)
	ModVersion(ctx context.Context, pkgs ...string) ([]string, error)
}

// Resolution is the outcome of Resolve. The zero value means nothing was
// found; a found Resolution only ever holds confirmed tags.
type Resolution struct {
	packages map[precision.Tag]string
}

// NotFound is the Resolution returned when no precision is installed.
var NotFound = Resolution{}

// Found reports whether at least one precision is installed.
func (r Resolution) Found() bool {
	return len(r.packages) > 0
}

// Package returns the package name resolved for tag.
func (r Resolution) Package(tag precision.Tag) (string, bool) {
	pkg, ok := r.packages[tag]
	return pkg, ok
}

// Tags returns the resolved tags in canonical f, d, l, q order.
func (r Resolution) Tags() []precision.Tag {
	var tags []precision.Tag
	for _, tag := range precision.All() {
		if _, ok := r.packages[tag]; ok {
			tags = append(tags, tag)
		}
	}
	return tags
}

// Packages returns the resolved package names sorted lexicographically.
// The fixed order keeps flag output stable across runs.
func (r Resolution) Packages() []string {
	pkgs := make([]string, 0, len(r.packages))
	for _, pkg := range r.packages {
		pkgs = append(pkgs, pkg)
	}
	sort.Strings(pkgs)
	return pkgs
}

// Map returns a copy of the tag to package mapping.
func (r Resolution) Map() map[precision.Tag]string {
	out := make(map[precision.Tag]string, len(r.packages))
	for tag, pkg := range r.packages {
		out[tag] = pkg
	}
	return out
}

// Resolver discovers installed FFTW3 precisions. It keeps no state between
// calls; every call queries the tool again.
type Resolver struct {
	tool Prober
}

// New returns a Resolver backed by tool.
func New(tool Prober) *Resolver {
	return &Resolver{tool: tool}
}

// Resolve probes each tag in order and returns those that are installed.
// No tags means all four. An invalid tag fails before anything is queried.
func (r *Resolver) Resolve(ctx context.Context, tags ...precision.Tag) (Resolution, error) {
	tags, err := precision.Normalize(tags)
	if err != nil {
		return NotFound, err
	}

	found := map[precision.Tag]string{}
	probed := map[precision.Tag]bool{}
	for _, tag := range tags {
		if probed[tag] {
			continue
		}
		probed[tag] = true
		pkg := tag.Package()
		if r.tool.Exists(ctx, pkg) {
			found[tag] = pkg
		}
	}
	if len(found) == 0 {
		return NotFound, nil
	}
	return Resolution{packages: found}, nil
}

// CFlags returns the compiler flags for the installed subset of tags.
func (r *Resolver) CFlags(ctx context.Context, tags ...precision.Tag) (string, error) {
	pkgs, err := r.resolvedPackages(ctx, tags)
	if err != nil {
		return "", err
	}
	return r.tool.CFlags(ctx, pkgs...)
}

// Libs returns the linker flags for the installed subset of tags.
func (r *Resolver) Libs(ctx context.Context, tags ...precision.Tag) (string, error) {
	pkgs, err := r.resolvedPackages(ctx, tags)
	if err != nil {
		return "", err
	}
	return r.tool.Libs(ctx, pkgs...)
}

func (r *Resolver) resolvedPackages(ctx context.Context, tags []precision.Tag) ([]string, error) {
	res, err := r.Resolve(ctx, tags...)
	if err != nil {
		return nil, err
	}
	if !res.Found() {
		requested, _ := precision.Normalize(tags)
		return nil, fmt.Errorf("%w (precisions %s)", ErrLibraryAbsent, strings.Join(precision.Strings(requested), ","))
	}
	return res.Packages(), nil
}

// Installed reports the version of every installed precision, ordered by
// package name.
func (r *Resolver) Installed(ctx context.Context) ([]Installed, error) {
	res, err := r.Resolve(ctx)
	if err != nil {
		return nil, err
	}
	if !res.Found() {
		return nil, fmt.Errorf("%w: no library for version check", ErrLibraryAbsent)
	}

	byPackage := make(map[string]precision.Tag, len(res.packages))
	for tag, pkg := range res.packages {
		byPackage[pkg] = tag
	}
	pkgs := res.Packages()

	lines, err := r.tool.ModVersion(ctx, pkgs...)
	if err != nil {
		return nil, err
	}
	if len(lines) != len(pkgs) {
		return nil, fmt.Errorf("pkg-config returned %d versions for %d packages (%s)", len(lines), len(pkgs), strings.Join(pkgs, " "))
	}

	installed := make([]Installed, len(pkgs))
	for i, pkg := range pkgs {
		parsed, err := version.Parse(lines[i])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", pkg, err)
		}
		installed[i] = Installed{Tag: byPackage[pkg], Package: pkg, Version: lines[i], Parsed: parsed}
	}
	return installed, nil
}

// Check fails unless the oldest installed precision is at least required.
func (r *Resolver) Check(ctx context.Context, required version.SemVer) error {
	installed, err := r.Installed(ctx)
	if err != nil {
		return err
	}
	effective := EffectiveVersion(installed)
	if effective.Less(required) {
		return &VersionTooLowError{Installed: installed, Effective: effective, Required: required}
	}
	return nil
}

// RequireVersion parses a decimal requirement literal (see
// version.ParseRequirement for its two conventions) and calls Check.
// Prefer Check with an explicit SemVer when the caller has one.
func (r *Resolver) RequireVersion(ctx context.Context, requirement string) error {
	required, err := version.ParseRequirement(requirement)
	if err != nil {
		return fmt.Errorf("requested version: %w", err)
	}
	return r.Check(ctx, required)
}

// EffectiveVersion is the lowest version across installed packages.
func EffectiveVersion(installed []Installed) version.SemVer {
	vs := make([]version.SemVer, len(installed))
	for i, inst := range installed {
		vs[i] = inst.Parsed
	}
	lowest, _ := version.Min(vs...)
	return lowest
}
