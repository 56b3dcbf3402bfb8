package cli

import (
	"fmt"

	"fftwconf/internal/build"
	"fftwconf/internal/config"
	"fftwconf/internal/fftw"
	"fftwconf/internal/paths"
	"fftwconf/internal/pkgconfig"
	"fftwconf/internal/precision"
)

// newTool is replaced in tests to avoid spawning pkg-config.
var newTool = func(override string, env []string) (*pkgconfig.Tool, error) {
	return pkgconfig.New(override, env...)
}

// project bundles the resolved paths and configuration for a command.
type project struct {
	Paths  paths.ProjectPaths
	Config config.Config
}

func loadProject() (project, error) {
	pp, err := paths.Resolve(projectDir)
	if err != nil {
		return project{}, err
	}
	cfg, err := config.Load(pp.ConfigFile)
	if err != nil {
		return project{}, err
	}
	if errs := config.Errors(cfg.Validate(pp.Root)); len(errs) > 0 {
		return project{}, fmt.Errorf("invalid config %s: %s", pp.ConfigFile, errs[0].Message)
	}
	return project{Paths: paths.ApplyConfig(pp, cfg), Config: cfg}, nil
}

// searchDirs returns extra pkg-config directories: the source-build prefix
// once something has been installed there.
func (p project) searchDirs() []string {
	dir := build.PkgConfigPath(p.Paths.Prefix)
	if ok, _ := paths.DirExists(dir); ok {
		return []string{dir}
	}
	return nil
}

func (p project) tool() (*pkgconfig.Tool, error) {
	return newTool(p.Config.PkgConfig, p.Config.ToolEnv(p.Paths.Root, p.searchDirs()...))
}

func (p project) resolver() (*fftw.Resolver, error) {
	tool, err := p.tool()
	if err != nil {
		return nil, err
	}
	return fftw.New(tool), nil
}

// tags returns the precisions from --precision, falling back to the config.
func (p project) tags(flagValues []string) ([]precision.Tag, error) {
	if len(flagValues) > 0 {
		return precision.ParseList(flagValues)
	}
	return p.Config.Tags()
}
