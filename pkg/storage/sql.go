package storage

import (
	"errors"
	"fmt"
	"time"

	"github.com/raykavin/tutor/pkg/core"
	"github.com/samber/lo"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// SQLStorage implements the core.BackupStorage interface using a SQL database via GORM
type SQLStorage struct {
	db *gorm.DB
}

// Config holds the configuration for SQL database connections
type Config struct {
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

// DefaultConfig returns a default configuration for SQL connections
func DefaultConfig() Config {
	return Config{
		MaxIdleConns:    5,
		MaxOpenConns:    10,
		ConnMaxLifetime: time.Hour,
	}
}

// FromSQLite creates a new SQLite storage instance
func FromSQLite(dbPath string, config Config, opts ...gorm.Option) (*SQLStorage, error) {
	return FromSQL(sqlite.Open(dbPath), config, opts...)
}

// FromSQL creates a new SQL storage instance for any GORM dialect
func FromSQL(dialect gorm.Dialector, config Config, opts ...gorm.Option) (*SQLStorage, error) {
	db, err := gorm.Open(dialect, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxIdleConns(config.MaxIdleConns)
	sqlDB.SetMaxOpenConns(config.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(config.ConnMaxLifetime)

	if err = db.AutoMigrate(&core.Backup{}); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLStorage{db: db}, nil
}

// CreateBackup stores a new backup with the next sequential ID
func (s *SQLStorage) CreateBackup(backup *core.Backup) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var lastID int64
		if err := tx.Model(&core.Backup{}).Select("COALESCE(MAX(id), 0)").Scan(&lastID).Error; err != nil {
			return fmt.Errorf("failed to read last backup id: %w", err)
		}

		backup.ID = lastID + 1
		if err := tx.Create(backup).Error; err != nil {
			return fmt.Errorf("failed to create backup: %w", err)
		}
		return nil
	})
}

// Backup loads a backup by ID
func (s *SQLStorage) Backup(id int64) (*core.Backup, error) {
	var backup core.Backup

	err := s.db.First(&backup, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %d", core.ErrBackupNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch backup: %w", err)
	}

	return &backup, nil
}

// Backups retrieves backups in ID order based on provided filters
func (s *SQLStorage) Backups(filters ...core.BackupFilter) ([]*core.Backup, error) {
	var backups []*core.Backup

	result := s.db.Order("id").Find(&backups)
	if result.Error != nil && !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to fetch backups: %w", result.Error)
	}

	// Note: filters run in memory, they are plain Go predicates
	return lo.Filter(backups, func(backup *core.Backup, _ int) bool {
		for _, filter := range filters {
			if !filter(*backup) {
				return false
			}
		}
		return true
	}), nil
}

// Close closes the database connection
func (s *SQLStorage) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	return sqlDB.Close()
}
