package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func init() {
	registerForAutomigration(&Run{})
	registerForAutomigration(&DroppedFrame{})
}

// Run is one finished invocation of the pipeline.
type Run struct {
	gorm.Model
	UUID          string `gorm:"uniqueIndex"`
	Mode          string
	Input         string
	Output        string
	ModelName     string
	Outscale      float64
	Frames        int
	Enhanced      int
	Substituted   int
	WriteFailures int
	AvgFPS        float64
	Duration      time.Duration
	Failed        bool
	ErrorMsg      string
	DroppedFrames []DroppedFrame
}

func (r *Run) BeforeCreate(tx *gorm.DB) error {
	if len(r.UUID) == 0 {
		r.UUID = uuid.NewString()
	}
	return nil
}

// DroppedFrame is a frame which was skipped because the accelerator ran
// out of capacity.
type DroppedFrame struct {
	gorm.Model
	RunID  uint `gorm:"index"`
	Index  int
	Source string
	Reason string
}
