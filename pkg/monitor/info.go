package monitor

import (
	"github.com/raykavin/tutor/pkg/core"
)

// ClientCounts is what a dashboard client already holds
type ClientCounts struct {
	Metrics map[string]int `json:"metrics"`
	Backups int            `json:"backups"`
	Logs    int            `json:"logs"`
}

// InfoPayload carries what a client is missing
type InfoPayload struct {
	Reset   bool                 `json:"reset"`
	ID      int64                `json:"ID"`
	Metrics map[string][]float64 `json:"metrics"`
	Backups []core.BackupSummary `json:"backups"`
	Logs    []string             `json:"logs"`
}

// CheckInfo returns the samples, backups and logs a client has not seen.
// A client whose id differs from the current backup id gets every sample
// and Reset set, since a restore replaced the series it holds.
func (m *Monitor) CheckInfo(counts ClientCounts, id int64) InfoPayload {
	m.RLock()
	defer m.RUnlock()

	payload := InfoPayload{
		ID:      m.currentID,
		Metrics: make(map[string][]float64, len(m.metrics)),
	}

	reset := id != m.currentID
	payload.Reset = reset

	for name, values := range m.metrics {
		if reset {
			payload.Metrics[name] = values.Clone()
			continue
		}
		payload.Metrics[name] = values.Since(counts.Metrics[name]).Clone()
	}

	backups := min(max(counts.Backups, 0), len(m.backups))
	payload.Backups = append(make([]core.BackupSummary, 0), m.backups[backups:]...)
	payload.Logs = append(make([]string, 0), core.Series[string](m.logs).Since(counts.Logs)...)

	return payload
}
