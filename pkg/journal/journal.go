package journal

import (
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/tauraamui/vidupscale/pkg/journal/models"
	"github.com/tauraamui/vidupscale/pkg/journal/repos"
	"github.com/tauraamui/vidupscale/pkg/log"
	"github.com/tauraamui/xerror"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	vendorName      = "tacusci"
	appName         = "vidupscale"
	journalFileName = "journal.db"
	journalEnvVar   = "VIDUPSCALE_JOURNAL"
)

var uc = os.UserCacheDir
var fs = afero.NewOsFs()
var migrate = models.AutoMigrate

// Journal keeps a history of pipeline runs in a sqlite database.
type Journal struct {
	db   *gorm.DB
	runs repos.RunRepository
}

// Connect opens the journal at its default location, creating it when
// it does not exist yet.
func Connect() (*Journal, error) {
	path, err := ResolvePath()
	if err != nil {
		return nil, err
	}

	if err := fs.MkdirAll(filepath.Dir(path), os.ModeDir|os.ModePerm); err != nil {
		return nil, xerror.Errorf("unable to create journal directory: %w", err)
	}

	log.Debug("Connecting to journal: %s", path)
	return Open(path)
}

func Open(path string) (*Journal, error) {
	db, err := openDBConnection(path)
	if err != nil {
		return nil, xerror.Errorf("unable to open journal connection: %w", err)
	}

	if err := migrate(db); err != nil {
		if sqlDB, dbErr := db.DB(); dbErr == nil {
			if closeErr := sqlDB.Close(); closeErr != nil {
				log.Debug("Unable to close journal connection: %v", closeErr)
			}
		}
		return nil, xerror.Errorf("unable to run automigrations: %w", err)
	}

	return &Journal{db: db, runs: repos.RunRepository{DB: repos.Wrap(db)}}, nil
}

var openDBConnection = func(path string) (*gorm.DB, error) {
	logger := logger.New(nil, logger.Config{LogLevel: logger.Silent})
	return gorm.Open(sqlite.Open(path), &gorm.Config{Logger: logger})
}

func (j *Journal) Record(run *models.Run) error {
	if err := j.runs.Create(run); err != nil {
		return xerror.Errorf("unable to record run: %w", err)
	}
	return nil
}

func (j *Journal) Recent(limit int) ([]models.Run, error) {
	return j.runs.Recent(limit)
}

func (j *Journal) Find(uuid string) (models.Run, error) {
	return j.runs.FindByUUID(uuid)
}

func (j *Journal) Close() error {
	sqlDB, err := j.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Destroy removes the journal database file.
func Destroy() error {
	path, err := ResolvePath()
	if err != nil {
		return xerror.Errorf("unable to delete journal file: %w", err)
	}
	return fs.Remove(path)
}

func ResolvePath() (string, error) {
	return resolvePath(uc)
}

func resolvePath(uc func() (string, error)) (string, error) {
	journalPath := os.Getenv(journalEnvVar)
	if len(journalPath) > 0 {
		return journalPath, nil
	}

	journalParentDir, err := uc()
	if err != nil {
		return "", xerror.Errorf("unable to resolve %s journal file location: %w", journalFileName, err)
	}

	return filepath.Join(
		journalParentDir,
		vendorName,
		appName,
		journalFileName), nil
}
