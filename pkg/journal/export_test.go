package journal

import (
	"github.com/spf13/afero"
	"gorm.io/gorm"
)

func OverloadUC(overload func() (string, error)) func() {
	ucRef := uc
	uc = overload
	return func() { uc = ucRef }
}

func OverloadFS(overload afero.Fs) func() {
	fsRef := fs
	fs = overload
	return func() { fs = fsRef }
}

func OverloadMigrate(overload func(*gorm.DB) error) func() {
	migrateRef := migrate
	migrate = overload
	return func() { migrate = migrateRef }
}
