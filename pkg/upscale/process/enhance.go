package process

import (
	"context"
	"errors"

	"github.com/tauraamui/vidupscale/pkg/engine"
	"github.com/tauraamui/vidupscale/pkg/log"
	"github.com/tauraamui/vidupscale/pkg/video/videoframe"
	"github.com/tauraamui/xerror"
)

type Enhancer interface {
	Enhance(ctx context.Context, img videoframe.Image) (videoframe.Image, error)
	Synchronize() error
}

// DroppedFrame records a frame the engine could not enhance.
type DroppedFrame struct {
	Index  int
	Source string
	Reason string
}

// EnhanceStage owns the engine. It must only be driven from one goroutine.
type EnhanceStage struct {
	enhancer Enhancer
	progress *Progress
	dropped  []DroppedFrame
}

func NewEnhanceStage(enhancer Enhancer, progress *Progress) *EnhanceStage {
	return &EnhanceStage{enhancer: enhancer, progress: progress}
}

// Process enhances one frame. ok is false when the frame was dropped
// because the accelerator ran out of capacity, any other failure is
// returned as an error.
func (s *EnhanceStage) Process(ctx context.Context, f videoframe.Frame) (img videoframe.Image, ok bool, err error) {
	out, enhanceErr := s.enhancer.Enhance(ctx, f.Image)
	syncErr := s.enhancer.Synchronize()
	if s.progress != nil {
		s.progress.Record(f.Index)
	}

	if enhanceErr != nil {
		if !errors.Is(enhanceErr, engine.ErrCapacityExceeded) {
			return videoframe.Image{}, false, xerror.Errorf("unable to enhance frame %d (%s): %w", f.Index, f.Source(), enhanceErr)
		}
		log.Warn(
			"Unable to enhance frame %d (%s): %v. If you encounter accelerator out of memory, try to set --tile with a smaller number",
			f.Index, f.Source(), enhanceErr,
		)
		s.dropped = append(s.dropped, DroppedFrame{Index: f.Index, Source: f.Source(), Reason: enhanceErr.Error()})
	}

	if syncErr != nil {
		return videoframe.Image{}, false, xerror.Errorf("accelerator synchronisation failed after frame %d: %w", f.Index, syncErr)
	}

	if enhanceErr != nil {
		return videoframe.Image{}, false, nil
	}
	return out, true, nil
}

func (s *EnhanceStage) Dropped() []DroppedFrame {
	return append([]DroppedFrame{}, s.dropped...)
}
