package database

import (
	"fmt"
	"time"
)

// Prune deletes mirrored results older than cutoff and returns how many
// result rows were removed.
func (db *DB) Prune(cutoff time.Time) (int64, error) {
	cutoff = cutoff.UTC()

	if _, err := db.Exec(`DELETE FROM ping_samples WHERE time < ?`, cutoff); err != nil {
		return 0, fmt.Errorf("prune ping samples: %w", err)
	}

	res, err := db.Exec(`DELETE FROM results WHERE time < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune results: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}

	// Vacuum to reclaim space (run occasionally)
	if n > 0 && time.Now().Day() == 1 {
		if _, err := db.Exec("VACUUM"); err != nil {
			return n, fmt.Errorf("vacuum: %w", err)
		}
	}

	return n, nil
}
