package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/raykavin/tutor/pkg/core"
	"github.com/tidwall/buntdb"
)

const backupKeyPrefix = "backup:"

// BuntStorage implements the core.BackupStorage interface using BuntDB
type BuntStorage struct {
	mu     sync.Mutex
	lastID int64
	db     *buntdb.DB
}

// FromMemory creates an in-memory storage
func FromMemory() (*BuntStorage, error) {
	return NewBuntStorage(":memory:")
}

// FromFile creates a file-based storage
func FromFile(file string) (*BuntStorage, error) {
	return NewBuntStorage(file)
}

// NewBuntStorage creates a new BuntDB storage instance. IDs continue from
// the highest backup already present in the file.
func NewBuntStorage(sourceFile string) (*BuntStorage, error) {
	db, err := buntdb.Open(sourceFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open buntdb: %w", err)
	}

	err = db.CreateIndex("id_index", backupKeyPrefix+"*", buntdb.IndexJSON("id"))
	if err != nil {
		return nil, fmt.Errorf("failed to create index: %w", err)
	}

	storage := &BuntStorage{db: db}

	err = db.View(func(tx *buntdb.Tx) error {
		return tx.Descend("id_index", func(_, value string) bool {
			var backup core.Backup
			if err := json.Unmarshal([]byte(value), &backup); err == nil {
				storage.lastID = backup.ID
			}
			return false
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read last backup id: %w", err)
	}

	return storage, nil
}

func backupKey(id int64) string {
	return backupKeyPrefix + strconv.FormatInt(id, 10)
}

// CreateBackup stores a new backup and assigns the next sequential ID
func (b *BuntStorage) CreateBackup(backup *core.Backup) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.db.Update(func(tx *buntdb.Tx) error {
		id := b.lastID + 1
		backup.ID = id
		if backup.CreatedAt.IsZero() {
			backup.CreatedAt = time.Now()
		}

		content, err := json.Marshal(backup)
		if err != nil {
			return fmt.Errorf("failed to marshal backup: %w", err)
		}

		_, _, err = tx.Set(backupKey(id), string(content), nil)
		if err != nil {
			return fmt.Errorf("failed to store backup: %w", err)
		}

		b.lastID = id
		return nil
	})
}

// Backup loads a backup by ID
func (b *BuntStorage) Backup(id int64) (*core.Backup, error) {
	var backup core.Backup

	err := b.db.View(func(tx *buntdb.Tx) error {
		value, err := tx.Get(backupKey(id))
		if errors.Is(err, buntdb.ErrNotFound) {
			return fmt.Errorf("%w: %d", core.ErrBackupNotFound, id)
		}
		if err != nil {
			return fmt.Errorf("failed to read backup: %w", err)
		}

		if err := json.Unmarshal([]byte(value), &backup); err != nil {
			return fmt.Errorf("failed to unmarshal backup: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &backup, nil
}

// Backups retrieves backups in ID order based on provided filters
func (b *BuntStorage) Backups(filters ...core.BackupFilter) ([]*core.Backup, error) {
	backups := make([]*core.Backup, 0)

	err := b.db.View(func(tx *buntdb.Tx) error {
		err := tx.Ascend("id_index", func(_, value string) bool {
			var backup core.Backup
			err := json.Unmarshal([]byte(value), &backup)
			if err != nil {
				log.Printf("Failed to unmarshal backup: %v", err)
				return true // Continue iteration
			}

			for _, filter := range filters {
				if !filter(backup) {
					return true
				}
			}

			backups = append(backups, &backup)
			return true
		})

		if err != nil {
			return fmt.Errorf("failed to iterate over backups: %w", err)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	return backups, nil
}

// Close closes the database connection
func (b *BuntStorage) Close() error {
	if b.db != nil {
		return b.db.Close()
	}
	return nil
}
