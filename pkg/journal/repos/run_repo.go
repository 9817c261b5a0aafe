package repos

import (
	"github.com/tauraamui/vidupscale/pkg/journal/models"
	"github.com/tauraamui/xerror"
)

type RunRepository struct {
	DB GormWrapper
}

// Create stores the run along with its dropped frames.
func (r *RunRepository) Create(run *models.Run) error {
	return r.DB.Create(run).Error()
}

func (r *RunRepository) FindByUUID(uuid string) (models.Run, error) {
	run := models.Run{}
	if err := r.DB.Preload("DroppedFrames").Where("uuid = ?", uuid).First(&run).Error(); err != nil {
		return run, xerror.Errorf("run of uuid %s not found", uuid)
	}

	return run, nil
}

// Recent lists the latest runs first.
func (r *RunRepository) Recent(limit int) ([]models.Run, error) {
	runs := []models.Run{}
	if err := r.DB.Preload("DroppedFrames").Order("id desc").Limit(limit).Find(&runs).Error(); err != nil {
		return nil, xerror.Errorf("unable to list runs: %w", err)
	}

	return runs, nil
}
