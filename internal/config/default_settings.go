package config

import "github.com/tauraamui/vidupscale/pkg/configdef"

type defaultSettingKey uint

const (
	OUTPUT         defaultSettingKey = 0x0
	MODELNAME      defaultSettingKey = 0x1
	OUTSCALE       defaultSettingKey = 0x2
	SUFFIX         defaultSettingKey = 0x3
	TILEPAD        defaultSettingKey = 0x4
	CONSUMERS      defaultSettingKey = 0x5
	PREFETCH       defaultSettingKey = 0x6
	FFMPEGBIN      defaultSettingKey = 0x7
	ALPHAUPSAMPLER defaultSettingKey = 0x8
	EXT            defaultSettingKey = 0x9
	ENGINE         defaultSettingKey = 0xA
	WORKERCOMMAND  defaultSettingKey = 0xB
	WEIGHTSDIRS    defaultSettingKey = 0xC
	IMAGEBACKEND   defaultSettingKey = 0xD
)

var defaultSettings = map[defaultSettingKey]interface{}{
	OUTPUT:         "results",
	MODELNAME:      "realesr-animevideov3",
	OUTSCALE:       4.0,
	SUFFIX:         "out",
	TILEPAD:        10,
	CONSUMERS:      4,
	PREFETCH:       4,
	FFMPEGBIN:      "ffmpeg",
	ALPHAUPSAMPLER: configdef.AlphaRealESRGAN,
	EXT:            configdef.ExtAuto,
	ENGINE:         configdef.EngineWorker,
	WORKERCOMMAND:  []string{"realesrgan-worker"},
	WEIGHTSDIRS:    []string{"experiments/pretrained_models", "realesrgan/weights"},
	IMAGEBACKEND:   configdef.ImageBackendImaging,
}

// Defaults returns the values every run starts from before a profile or
// command line flags are applied.
func Defaults() configdef.Values {
	return configdef.Values{
		Output:         defaultSettings[OUTPUT].(string),
		ModelName:      defaultSettings[MODELNAME].(string),
		Outscale:       defaultSettings[OUTSCALE].(float64),
		Suffix:         defaultSettings[SUFFIX].(string),
		TilePad:        defaultSettings[TILEPAD].(int),
		Consumers:      defaultSettings[CONSUMERS].(int),
		Prefetch:       defaultSettings[PREFETCH].(int),
		FFmpegBin:      defaultSettings[FFMPEGBIN].(string),
		AlphaUpsampler: defaultSettings[ALPHAUPSAMPLER].(string),
		Ext:            defaultSettings[EXT].(string),
		Engine:         defaultSettings[ENGINE].(string),
		WorkerCommand:  append([]string{}, defaultSettings[WORKERCOMMAND].([]string)...),
		WeightsDirs:    append([]string{}, defaultSettings[WEIGHTSDIRS].([]string)...),
		ImageBackend:   defaultSettings[IMAGEBACKEND].(string),
	}
}
