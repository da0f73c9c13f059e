package core

import "time"

// Backup is a persisted snapshot of a training run
type Backup struct {
	ID        int64                      `json:"id" gorm:"primaryKey;autoIncrement:false"`
	Epoch     int                        `json:"epoch"`
	Metrics   map[string]Series[float64] `json:"metrics" gorm:"serializer:json"`
	State     []byte                     `json:"state,omitempty"`
	CreatedAt time.Time                  `json:"created_at"`
}

// BackupSummary is what clients see of a backup: the epoch and the last
// value of each metric at the time it was taken.
type BackupSummary struct {
	ID      int64              `json:"ID"`
	Epoch   int                `json:"Epoch"`
	Metrics map[string]float64 `json:"metrics"`
}

// Summary builds the client facing view of the backup
func (b Backup) Summary() BackupSummary {
	last := make(map[string]float64, len(b.Metrics))
	for name, values := range b.Metrics {
		if values.Length() > 0 {
			last[name] = values.Last(0)
		}
	}
	return BackupSummary{ID: b.ID, Epoch: b.Epoch, Metrics: last}
}

// BackupFilter selects backups when listing
type BackupFilter func(Backup) bool

// BackupStorage defines the interface for backup storage operations
type BackupStorage interface {
	// CreateBackup stores a new backup and assigns its ID
	CreateBackup(backup *Backup) error

	// Backup loads a backup by ID
	Backup(id int64) (*Backup, error)

	// Backups retrieves backups in ID order based on provided filters
	Backups(filters ...BackupFilter) ([]*Backup, error)

	// Close releases the underlying database
	Close() error
}

func WithEpochAtLeast(epoch int) BackupFilter {
	return func(backup Backup) bool {
		return backup.Epoch >= epoch
	}
}

func WithCreatedBeforeOrEqual(t time.Time) BackupFilter {
	return func(backup Backup) bool {
		return !backup.CreatedAt.After(t)
	}
}
