package journal_test

import (
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/matryer/is"
	"github.com/spf13/afero"
	"github.com/tauraamui/vidupscale/pkg/journal"
	"github.com/tauraamui/vidupscale/pkg/journal/models"
	"gorm.io/gorm"
)

func openMemoryJournal(t *testing.T) *journal.Journal {
	t.Helper()
	j, err := journal.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()))
	if err != nil {
		t.Fatalf("unable to open journal: %v", err)
	}
	t.Cleanup(func() { j.Close() })
	return j
}

func TestJournalRecordsRunWithDroppedFrames(t *testing.T) {
	is := is.New(t)
	j := openMemoryJournal(t)

	run := &models.Run{
		Mode:     "file",
		Input:    "inputs/clip.mp4",
		Output:   "results/clip_out.mp4",
		Frames:   10,
		Enhanced: 9,
		AvgFPS:   3.5,
		Duration: 2 * time.Second,
		DroppedFrames: []models.DroppedFrame{
			{Index: 4, Source: "frame00000005.png", Reason: "accelerator capacity exceeded"},
		},
	}
	is.NoErr(j.Record(run))
	is.True(len(run.UUID) > 0)

	found, err := j.Find(run.UUID)
	is.NoErr(err)
	is.Equal(found.Frames, 10)
	is.Equal(found.Duration, 2*time.Second)
	is.Equal(len(found.DroppedFrames), 1)
	is.Equal(found.DroppedFrames[0].Source, "frame00000005.png")
}

func TestJournalRecentListsNewestFirst(t *testing.T) {
	is := is.New(t)
	j := openMemoryJournal(t)

	for _, input := range []string{"a.png", "b.png", "c.png"} {
		is.NoErr(j.Record(&models.Run{Mode: "file", Input: input}))
	}

	runs, err := j.Recent(2)
	is.NoErr(err)
	is.Equal(len(runs), 2)
	is.Equal(runs[0].Input, "c.png")
	is.Equal(runs[1].Input, "b.png")
}

func TestResolvePathPrefersEnvironment(t *testing.T) {
	is := is.New(t)
	t.Setenv("VIDUPSCALE_JOURNAL", "/tmp/custom.db")
	path, err := journal.ResolvePath()
	is.NoErr(err)
	is.Equal(path, "/tmp/custom.db")
}

func TestResolvePathUsesUserCacheDir(t *testing.T) {
	is := is.New(t)
	t.Setenv("VIDUPSCALE_JOURNAL", "")
	reset := journal.OverloadUC(func() (string, error) { return "/home/test/.cache", nil })
	defer reset()

	path, err := journal.ResolvePath()
	is.NoErr(err)
	is.Equal(path, filepath.Join("/home/test/.cache", "tacusci", "vidupscale", "journal.db"))
}

func TestResolvePathReportsCacheDirFailure(t *testing.T) {
	is := is.New(t)
	t.Setenv("VIDUPSCALE_JOURNAL", "")
	reset := journal.OverloadUC(func() (string, error) { return "", errors.New("test cache dir error") })
	defer reset()

	_, err := journal.ResolvePath()
	is.True(err != nil)
	is.Equal(err.Error(), "unable to resolve journal.db journal file location: test cache dir error")
}

func TestDestroyRemovesJournalFile(t *testing.T) {
	is := is.New(t)
	memFS := afero.NewMemMapFs()
	reset := journal.OverloadFS(memFS)
	defer reset()
	t.Setenv("VIDUPSCALE_JOURNAL", "/data/journal.db")

	is.NoErr(afero.WriteFile(memFS, "/data/journal.db", []byte("sqlite"), 0644))
	is.NoErr(journal.Destroy())

	exists, err := afero.Exists(memFS, "/data/journal.db")
	is.NoErr(err)
	is.True(!exists)
}

func TestOpenClosesConnectionWhenMigrationFails(t *testing.T) {
	is := is.New(t)
	var migrated *gorm.DB
	reset := journal.OverloadMigrate(func(db *gorm.DB) error {
		migrated = db
		return errors.New("test migration error")
	})
	defer reset()

	j, err := journal.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()))
	is.True(err != nil)
	is.True(j == nil)
	is.True(migrated != nil)

	sqlDB, err := migrated.DB()
	is.NoErr(err)
	is.True(sqlDB.Ping() != nil) // connection was closed
}
