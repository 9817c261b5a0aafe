package engine

import (
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"github.com/tauraamui/xerror"
)

var (
	ErrUnknownModel   = xerror.NewWithKind("unknown_model", "unknown model")
	ErrMissingWeights = xerror.NewWithKind("missing_weights", "model weights do not exist")
)

type Arch int

const (
	ArchRRDBNet Arch = iota
	ArchSRVGGNetCompact
)

func (a Arch) String() string {
	if a == ArchSRVGGNetCompact {
		return "SRVGGNetCompact"
	}
	return "RRDBNet"
}

type Model int

const (
	RealESRGANx4plus Model = iota
	RealESRNetx4plus
	RealESRGANx4plusAnime6B
	RealESRGANx2plus
	RealESRAnimeVideov3
)

type modelSpec struct {
	name     string
	arch     Arch
	netScale int
	numBlock int
	anime    bool
}

var models = map[Model]modelSpec{
	RealESRGANx4plus:        {name: "RealESRGAN_x4plus", arch: ArchRRDBNet, netScale: 4, numBlock: 23},
	RealESRNetx4plus:        {name: "RealESRNet_x4plus", arch: ArchRRDBNet, netScale: 4, numBlock: 23},
	RealESRGANx4plusAnime6B: {name: "RealESRGAN_x4plus_anime_6B", arch: ArchRRDBNet, netScale: 4, numBlock: 6, anime: true},
	RealESRGANx2plus:        {name: "RealESRGAN_x2plus", arch: ArchRRDBNet, netScale: 2, numBlock: 23},
	RealESRAnimeVideov3:     {name: "realesr-animevideov3", arch: ArchSRVGGNetCompact, netScale: 4, numBlock: 16, anime: true},
}

// ResolveModel accepts a model name with or without the .pth suffix.
func ResolveModel(name string) (Model, error) {
	name = strings.TrimSuffix(strings.TrimSpace(name), ".pth")
	for m, spec := range models {
		if spec.name == name {
			return m, nil
		}
	}
	return 0, xerror.Errorf("%w: %s", ErrUnknownModel, name)
}

func (m Model) String() string { return models[m].name }
func (m Model) Arch() Arch     { return models[m].arch }
func (m Model) NetScale() int  { return models[m].netScale }
func (m Model) NumBlock() int  { return models[m].numBlock }

// IsAnime models are trained on drawn content, face restoration is not
// applied to their output.
func (m Model) IsAnime() bool { return models[m].anime }

// ResolveWeights returns the first <dir>/<model>.pth which exists.
func ResolveWeights(fsys afero.Fs, m Model, dirs []string) (string, error) {
	file := m.String() + ".pth"
	for _, dir := range dirs {
		path := filepath.Join(dir, file)
		exists, err := afero.Exists(fsys, path)
		if err != nil {
			return "", xerror.Errorf("unable to check for weights %s: %w", path, err)
		}
		if exists {
			return path, nil
		}
	}
	return "", xerror.Errorf("%w: model %s does not exist in %s", ErrMissingWeights, m, strings.Join(dirs, ", "))
}
