package monitor

import (
	"time"
)

// Pruner removes mirrored results older than a cutoff
type Pruner interface {
	Prune(cutoff time.Time) (int64, error)
}

// EnableMaintenance prunes results older than retention once at start and
// hourly afterwards. Must be called before Start.
func (m *Monitor) EnableMaintenance(p Pruner, retention time.Duration) {
	m.pruner = p
	m.retention = retention
}

// performMaintenance runs maintenance tasks
func (m *Monitor) performMaintenance() {
	m.log.Debug("Running maintenance tasks...")

	n, err := m.pruner.Prune(m.now().Add(-m.retention))
	if err != nil {
		m.log.Error("Failed to prune old results", "error", err)
		return
	}

	m.log.Info("Maintenance complete", "pruned", n)
}
