package storage

import (
	"fmt"
	"strings"

	"github.com/raykavin/tutor/pkg/core"
)

const (
	DriverBunt   = "buntdb"
	DriverSQLite = "sqlite"
)

// Open returns the backup storage for the configured driver.
// An empty path with the buntdb driver keeps backups in memory.
func Open(driver, path string) (core.BackupStorage, error) {
	switch strings.ToLower(driver) {
	case "", DriverBunt:
		if path == "" {
			path = ":memory:"
		}
		storage, err := NewBuntStorage(path)
		if err != nil {
			return nil, err
		}
		return storage, nil
	case DriverSQLite:
		storage, err := FromSQLite(path, DefaultConfig())
		if err != nil {
			return nil, err
		}
		return storage, nil
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", driver)
	}
}
