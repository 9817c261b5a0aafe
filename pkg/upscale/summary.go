package upscale

import (
	"time"

	"github.com/tauraamui/vidupscale/pkg/journal/models"
	"github.com/tauraamui/vidupscale/pkg/upscale/process"
)

const (
	ModeFile   = "file"
	ModeStream = "stream"
)

// Summary describes a finished run.
type Summary struct {
	RunID         string
	Mode          string
	Input         string
	Output        string
	ModelName     string
	Outscale      float64
	Frames        int
	Enhanced      int
	Dropped       []process.DroppedFrame
	Substituted   int
	WriteFailures int
	AvgFPS        float64
	Duration      time.Duration
}

// Recorder persists run summaries.
type Recorder interface {
	Record(run *models.Run) error
}

func (s Summary) toRun(runErr error) *models.Run {
	run := &models.Run{
		UUID:          s.RunID,
		Mode:          s.Mode,
		Input:         s.Input,
		Output:        s.Output,
		ModelName:     s.ModelName,
		Outscale:      s.Outscale,
		Frames:        s.Frames,
		Enhanced:      s.Enhanced,
		Substituted:   s.Substituted,
		WriteFailures: s.WriteFailures,
		AvgFPS:        s.AvgFPS,
		Duration:      s.Duration,
	}
	if runErr != nil {
		run.Failed = true
		run.ErrorMsg = runErr.Error()
	}
	for _, d := range s.Dropped {
		run.DroppedFrames = append(run.DroppedFrames, models.DroppedFrame{
			Index:  d.Index,
			Source: d.Source,
			Reason: d.Reason,
		})
	}
	return run
}
