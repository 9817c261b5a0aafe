package ffmpeg

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/tauraamui/vidupscale/pkg/video/videoframe"
	"github.com/tauraamui/xerror"
)

var ErrNoVideoStream = xerror.NewWithKind("probe", "input has no video stream")

type StreamInfo struct {
	Size     videoframe.Dimensions
	FPS      float64
	Frames   int
	HasAudio bool
}

type probeOutput struct {
	Streams []probeStream `json:"streams"`
}

type probeStream struct {
	CodecType    string `json:"codec_type"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	AvgFrameRate string `json:"avg_frame_rate"`
	RFrameRate   string `json:"r_frame_rate"`
	NbFrames     string `json:"nb_frames"`
}

// Probe reads the first video stream's geometry and frame rate. FPS is zero
// when ffprobe cannot tell.
func (t *Tool) Probe(ctx context.Context, input string) (StreamInfo, error) {
	out, err := t.runner.Output(ctx, t.probeBin,
		"-v", "error",
		"-print_format", "json",
		"-show_streams",
		input,
	)
	if err != nil {
		return StreamInfo{}, xerror.Errorf("unable to probe %s: %w", input, err)
	}
	return parseProbe(out)
}

func parseProbe(out []byte) (StreamInfo, error) {
	var probed probeOutput
	if err := json.Unmarshal(out, &probed); err != nil {
		return StreamInfo{}, xerror.Errorf("unable to parse probe output: %w", err)
	}

	info := StreamInfo{}
	found := false
	for _, s := range probed.Streams {
		switch s.CodecType {
		case "video":
			if found {
				continue
			}
			found = true
			info.Size = videoframe.Dimensions{W: s.Width, H: s.Height}
			info.FPS = parseFrameRate(s.AvgFrameRate)
			if info.FPS <= 0 {
				info.FPS = parseFrameRate(s.RFrameRate)
			}
			info.Frames, _ = strconv.Atoi(s.NbFrames)
		case "audio":
			info.HasAudio = true
		}
	}

	if !found {
		return StreamInfo{}, ErrNoVideoStream
	}
	return info, nil
}

// parseFrameRate accepts "30000/1001" style rationals or plain numbers.
func parseFrameRate(rate string) float64 {
	rate = strings.TrimSpace(rate)
	if num, den, ok := strings.Cut(rate, "/"); ok {
		n, err := strconv.ParseFloat(num, 64)
		if err != nil {
			return 0
		}
		d, err := strconv.ParseFloat(den, 64)
		if err != nil || d == 0 {
			return 0
		}
		return n / d
	}
	fps, err := strconv.ParseFloat(rate, 64)
	if err != nil {
		return 0
	}
	return fps
}
