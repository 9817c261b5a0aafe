package engine

import (
	"context"

	"github.com/tauraamui/vidupscale/pkg/video/videoframe"
	"github.com/tauraamui/xerror"
)

var (
	// ErrCapacityExceeded is the one enhancement failure a run survives,
	// the frame is dropped and processing carries on.
	ErrCapacityExceeded = xerror.NewWithKind("capacity_exceeded", "accelerator capacity exceeded")
	ErrEngineFailure    = xerror.NewWithKind("engine_failure", "enhancement engine failed")
	ErrWorkerProtocol   = xerror.NewWithKind("worker_protocol", "enhancement worker protocol violation")
)

// Engine super-resolves RGB images by the net scale of its model.
type Engine interface {
	Enhance(ctx context.Context, img videoframe.Image) (videoframe.Image, error)
	// Synchronize blocks until all work submitted to the accelerator
	// has completed.
	Synchronize() error
	Close() error
}

// FaceEnhancer restores faces and upsamples the whole image to the final
// output scale in one pass.
type FaceEnhancer interface {
	EnhanceFaces(ctx context.Context, img videoframe.Image) (videoframe.Image, error)
}

type Options struct {
	Model       Model
	WeightsPath string
	Tile        int
	TilePad     int
	PrePad      int
	Outscale    float64
	FP32        bool
	FaceEnhance bool
	GPUID       int
}
