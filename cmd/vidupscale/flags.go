package main

import (
	"io"
	"strings"

	"github.com/spf13/pflag"
	"github.com/tauraamui/vidupscale/pkg/configdef"
)

// parseFlags layers the command line over the resolved profile, only
// flags which were given replace a profile value.
func parseFlags(args []string, profile configdef.Values, output io.Writer) (configdef.Values, error) {
	cfg := profile
	flags := pflag.NewFlagSet("vidupscale", pflag.ContinueOnError)
	flags.SetOutput(output)

	flags.StringVarP(&cfg.Input, "input", "i", cfg.Input, "input video, image or folder")
	flags.StringVarP(&cfg.Output, "output", "o", cfg.Output, "output folder")
	flags.StringVarP(&cfg.ModelName, "model-name", "n", cfg.ModelName,
		"model name: realesr-animevideov3 | RealESRGAN_x4plus_anime_6B | RealESRGAN_x4plus | RealESRNet_x4plus | RealESRGAN_x2plus")
	flags.Float64VarP(&cfg.Outscale, "outscale", "s", cfg.Outscale, "the final upsampling scale of the image")
	flags.StringVar(&cfg.Suffix, "suffix", cfg.Suffix, "suffix of the restored video")
	flags.IntVarP(&cfg.Tile, "tile", "t", cfg.Tile, "tile size, 0 for no tile during testing")
	flags.IntVar(&cfg.TilePad, "tile-pad", cfg.TilePad, "tile padding")
	flags.IntVar(&cfg.PrePad, "pre-pad", cfg.PrePad, "pre padding size at each border")
	flags.BoolVar(&cfg.FaceEnhance, "face-enhance", cfg.FaceEnhance, "use the engine's face restoration")
	flags.BoolVar(&cfg.FP32, "fp32", cfg.FP32, "use fp32 precision during inference, default fp16 (half precision)")
	flags.Float64Var(&cfg.FPS, "fps", cfg.FPS, "fps of the output video, defaults to the input's")
	flags.IntVar(&cfg.Consumers, "consumer", cfg.Consumers, "number of output consumers")
	flags.IntVar(&cfg.Prefetch, "prefetch", cfg.Prefetch, "number of frames decoded ahead of the engine")
	flags.BoolVar(&cfg.Stream, "stream", cfg.Stream, "pipe frames through ffmpeg without writing them to disk")
	flags.StringVar(&cfg.FFmpegBin, "ffmpeg-bin", cfg.FFmpegBin, "the path to ffmpeg")
	flags.StringVar(&cfg.AlphaUpsampler, "alpha-upsampler", cfg.AlphaUpsampler,
		"the upsampler for the alpha channels: engine | realesrgan | bicubic")
	flags.StringVar(&cfg.Ext, "ext", cfg.Ext, "image extension: auto | jpg | png, auto means using the same extension as inputs")
	flags.StringVar(&cfg.Engine, "engine", cfg.Engine, "enhancement engine: worker | bicubic")
	flags.StringSliceVar(&cfg.WeightsDirs, "weights-dir", cfg.WeightsDirs, "folders searched for <model name>.pth")
	flags.StringVar(&cfg.ScratchDir, "scratch-dir", cfg.ScratchDir, "folder for extracted frames, defaults to the system temp folder")
	flags.StringVar(&cfg.ImageBackend, "image-backend", cfg.ImageBackend, "image file codec: imaging | opencv | mock")
	flags.IntVarP(&cfg.GPUID, "gpu-id", "g", cfg.GPUID, "gpu device to use")
	flags.BoolVar(&cfg.Journal, "journal", cfg.Journal, "record the run in the journal")
	workerCommand := flags.String("worker", strings.Join(cfg.WorkerCommand, " "), "enhancement worker command line")

	if err := flags.Parse(args); err != nil {
		return configdef.Values{}, err
	}

	if flags.Changed("worker") {
		cfg.WorkerCommand = strings.Fields(*workerCommand)
	}
	if len(cfg.Input) == 0 && flags.NArg() > 0 {
		cfg.Input = flags.Arg(0)
	}

	return cfg, cfg.RunValidate()
}
