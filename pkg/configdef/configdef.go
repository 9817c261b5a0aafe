package configdef

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/dealancer/validate.v2"
)

const (
	ExtAuto = "auto"
	ExtJPG  = "jpg"
	ExtPNG  = "png"

	AlphaEngine     = "engine"
	AlphaRealESRGAN = "realesrgan"
	AlphaBicubic    = "bicubic"

	EngineWorker  = "worker"
	EngineBicubic = "bicubic"

	ImageBackendImaging = "imaging"
	ImageBackendOpenCV  = "opencv"
	ImageBackendMock    = "mock"
)

// Values is the immutable configuration of one upscale run.
type Values struct {
	Input          string   `json:"input" yaml:"input"`
	Output         string   `json:"output" yaml:"output" validate:"empty=false"`
	ModelName      string   `json:"model_name" yaml:"model_name" validate:"empty=false"`
	Outscale       float64  `json:"outscale" yaml:"outscale" validate:"gt=0"`
	Suffix         string   `json:"suffix" yaml:"suffix"`
	Tile           int      `json:"tile" yaml:"tile" validate:"gte=0"`
	TilePad        int      `json:"tile_pad" yaml:"tile_pad" validate:"gte=0"`
	PrePad         int      `json:"pre_pad" yaml:"pre_pad" validate:"gte=0"`
	FaceEnhance    bool     `json:"face_enhance" yaml:"face_enhance"`
	FP32           bool     `json:"fp32" yaml:"fp32"`
	FPS            float64  `json:"fps" yaml:"fps" validate:"gte=0"`
	Consumers      int      `json:"consumer" yaml:"consumer" validate:"gte=1"`
	Prefetch       int      `json:"prefetch" yaml:"prefetch" validate:"gte=1"`
	Stream         bool     `json:"stream" yaml:"stream"`
	FFmpegBin      string   `json:"ffmpeg_bin" yaml:"ffmpeg_bin" validate:"empty=false"`
	AlphaUpsampler string   `json:"alpha_upsampler" yaml:"alpha_upsampler" validate:"one_of=engine,realesrgan,bicubic"`
	Ext            string   `json:"ext" yaml:"ext" validate:"one_of=auto,jpg,png"`
	Engine         string   `json:"engine" yaml:"engine" validate:"one_of=worker,bicubic"`
	WorkerCommand  []string `json:"worker_command" yaml:"worker_command"`
	WeightsDirs    []string `json:"weights_dirs" yaml:"weights_dirs"`
	ScratchDir     string   `json:"scratch_dir" yaml:"scratch_dir"`
	ImageBackend   string   `json:"image_backend" yaml:"image_backend" validate:"one_of=imaging,opencv,mock"`
	GPUID          int      `json:"gpu_id" yaml:"gpu_id" validate:"gte=0"`
	Journal        bool     `json:"journal" yaml:"journal"`
}

// RunValidate applies the struct tag rules and then the cross field checks.
func (v Values) RunValidate() error {
	if err := validate.Validate(&v); err != nil {
		return err
	}
	return v.Validate()
}

func (v Values) Validate() error {
	const validationErrorHeader = "validation failed: %w"
	if v.Engine == EngineWorker && len(v.WorkerCommand) == 0 {
		return fmt.Errorf(validationErrorHeader, errors.New("worker engine requires a worker command"))
	}
	return nil
}

// UsesEngineForAlpha reports whether the alpha plane goes through the
// enhancement engine rather than plain bicubic resampling.
func (v Values) UsesEngineForAlpha() bool {
	return v.AlphaUpsampler != AlphaBicubic
}

// TrimmedInput returns the input path without trailing separators.
func (v Values) TrimmedInput() string {
	trimmed := strings.TrimRight(v.Input, `/\`)
	if len(trimmed) == 0 {
		return v.Input
	}
	return trimmed
}

// VideoName is the input's base name without its extension.
func (v Values) VideoName() string {
	base := filepath.Base(v.TrimmedInput())
	return strings.TrimSuffix(base, filepath.Ext(base))
}
