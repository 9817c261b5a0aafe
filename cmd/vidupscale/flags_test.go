package main

import (
	"io"
	"testing"

	"github.com/matryer/is"
	"github.com/tauraamui/vidupscale/pkg/config"
	"github.com/tauraamui/vidupscale/pkg/configdef"
)

func TestParseFlagsOnlyOverridesGivenFlags(t *testing.T) {
	is := is.New(t)
	profile := config.Defaults()
	profile.Consumers = 8

	cfg, err := parseFlags([]string{"-i", "inputs/clip.mp4", "-s", "2", "--ext", "png"}, profile, io.Discard)
	is.NoErr(err)
	is.Equal(cfg.Input, "inputs/clip.mp4")
	is.Equal(cfg.Outscale, 2.0)
	is.Equal(cfg.Ext, configdef.ExtPNG)
	is.Equal(cfg.Consumers, 8)
	is.Equal(cfg.ModelName, profile.ModelName)
}

func TestParseFlagsWorkerCommand(t *testing.T) {
	is := is.New(t)
	cfg, err := parseFlags([]string{"-i", "in.png", "--worker", "python3 worker.py --verbose"}, config.Defaults(), io.Discard)
	is.NoErr(err)
	is.Equal(cfg.WorkerCommand, []string{"python3", "worker.py", "--verbose"})
}

func TestParseFlagsTakesPositionalInput(t *testing.T) {
	is := is.New(t)
	cfg, err := parseFlags([]string{"--stream", "inputs/clip.mp4"}, config.Defaults(), io.Discard)
	is.NoErr(err)
	is.True(cfg.Stream)
	is.Equal(cfg.Input, "inputs/clip.mp4")
}

func TestParseFlagsRejectsInvalidValues(t *testing.T) {
	is := is.New(t)
	_, err := parseFlags([]string{"-i", "in.png", "--ext", "gif"}, config.Defaults(), io.Discard)
	is.True(err != nil)

	_, err = parseFlags([]string{"-i", "in.png", "--consumer", "0"}, config.Defaults(), io.Discard)
	is.True(err != nil)

	_, err = parseFlags([]string{"--no-such-flag"}, config.Defaults(), io.Discard)
	is.True(err != nil)
}

func TestManageHelp(t *testing.T) {
	is := is.New(t)
	status, err := manage([]string{"help"})
	is.NoErr(err)
	is.Equal(status, usage)
}
