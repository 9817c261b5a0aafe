package ffmpeg

import (
	"context"
	"errors"
	"testing"

	"github.com/matryer/is"
	"github.com/tauraamui/vidupscale/pkg/mocks"
	"github.com/tauraamui/vidupscale/pkg/video/videoframe"
)

const probeJSON = `{
	"streams": [
		{"codec_type": "video", "width": 64, "height": 48, "avg_frame_rate": "30000/1001", "r_frame_rate": "30000/1001", "nb_frames": "10"},
		{"codec_type": "audio"}
	]
}`

func TestProbeBinIsDerivedFromFFmpegBin(t *testing.T) {
	is := is.New(t)
	is.Equal(probeBinFor("ffmpeg"), "ffprobe")
	is.Equal(probeBinFor("/opt/ffmpeg-6/bin/ffmpeg"), "/opt/ffmpeg-6/bin/ffprobe")
	is.Equal(probeBinFor("/usr/local/bin/avconv"), "ffprobe")
}

func TestParseFrameRate(t *testing.T) {
	is := is.New(t)
	is.Equal(parseFrameRate("30/1"), 30.0)
	is.Equal(parseFrameRate("25"), 25.0)
	is.Equal(parseFrameRate("0/0"), 0.0)
	is.Equal(parseFrameRate("garbage"), 0.0)
	is.True(parseFrameRate("30000/1001") > 29.97 && parseFrameRate("30000/1001") < 29.98)
}

func TestProbeReadsFirstVideoStream(t *testing.T) {
	is := is.New(t)
	runner := mocks.NewFFmpegRunner(mocks.FFmpegOptions{ProbeJSON: probeJSON})
	tool := New("ffmpeg", runner)

	info, err := tool.Probe(context.Background(), "clip.mp4")
	is.NoErr(err)
	is.Equal(info.Size, videoframe.Dimensions{W: 64, H: 48})
	is.Equal(info.Frames, 10)
	is.True(info.HasAudio)
	is.Equal(runner.Calls()[0][0], "ffprobe")
}

func TestProbeWithoutVideoStreamFails(t *testing.T) {
	is := is.New(t)
	runner := mocks.NewFFmpegRunner(mocks.FFmpegOptions{ProbeJSON: `{"streams": [{"codec_type": "audio"}]}`})
	_, err := New("ffmpeg", runner).Probe(context.Background(), "song.mp4")
	is.True(errors.Is(err, ErrNoVideoStream))
}

func TestAvailableReportsMissingBinary(t *testing.T) {
	is := is.New(t)
	runner := mocks.NewFFmpegRunner(mocks.FFmpegOptions{MissingBinaries: []string{"ffprobe"}})
	err := New("ffmpeg", runner).Available()
	is.True(errors.Is(err, ErrBinaryNotFound))

	is.NoErr(New("ffmpeg", mocks.NewFFmpegRunner(mocks.FFmpegOptions{})).Available())
}

func TestExtractArgs(t *testing.T) {
	is := is.New(t)
	is.Equal(extractArgs("in.mp4", "/tmp/tmp_frames/in"), []string{
		"-nostdin", "-i", "in.mp4",
		"-qscale:v", "1", "-qmin", "1", "-qmax", "1",
		"-vsync", "0",
		"/tmp/tmp_frames/in/frame%08d.png",
	})
}

func TestRemuxArgsMapOptionalAudio(t *testing.T) {
	is := is.New(t)
	args := remuxArgs(RemuxOptions{
		FPS:        23.976,
		FramesGlob: "results/in/frames_tmpout/*_out.png",
		AudioFrom:  "in.mp4",
		Output:     "results/in_out.mp4",
	})
	is.Equal(args, []string{
		"-nostdin", "-y",
		"-r", "23.976",
		"-pattern_type", "glob", "-i", "results/in/frames_tmpout/*_out.png",
		"-i", "in.mp4", "-map", "0:v:0", "-map", "1:a:0?", "-c:a", "copy",
		"-c:v", "libx264",
		"-r", "23.976",
		"-pix_fmt", "yuv420p",
		"results/in_out.mp4",
	})
}

func TestDecoderAndEncoderArgs(t *testing.T) {
	is := is.New(t)
	is.Equal(decoderArgs("in.mp4"), []string{
		"-nostdin", "-i", "in.mp4", "-f", "rawvideo", "-pix_fmt", "rgb24", "-loglevel", "error", "pipe:",
	})

	is.Equal(encoderArgs(EncoderOptions{
		Size:   videoframe.Dimensions{W: 128, H: 96},
		FPS:    30,
		Output: "out.mp4",
	}), []string{
		"-y", "-f", "rawvideo", "-pix_fmt", "rgb24", "-s", "128x96", "-framerate", "30", "-i", "pipe:",
		"-pix_fmt", "yuv420p", "-vcodec", "libx264", "-loglevel", "error", "out.mp4",
	})
}

func TestStartEncoderReturnsPipedProcess(t *testing.T) {
	is := is.New(t)
	runner := mocks.NewFFmpegRunner(mocks.FFmpegOptions{})
	proc, err := New("ffmpeg", runner).StartEncoder(context.Background(), EncoderOptions{
		Size: videoframe.Dimensions{W: 2, H: 2}, FPS: 24, AudioFrom: "in.mp4", Output: "out.mp4",
	})
	is.NoErr(err)
	_, err = proc.Stdin().Write(make([]byte, 12))
	is.NoErr(err)
	is.Equal(runner.Encoder().Writes(), []int{12})
}
