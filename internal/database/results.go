package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"network-quality-logger/internal/models"
)

// SaveResult stores a result record, plus one sample row per ping target.
func (db *DB) SaveResult(runID string, result models.Result) error {
	data, err := json.Marshal(result.Data)
	if err != nil {
		return fmt.Errorf("encode result data: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	ts := result.Time.UTC()
	res, err := tx.Exec(`
        INSERT INTO results (run_id, time, type, summary, is_successful, data)
        VALUES (?, ?, ?, ?, ?, ?)
    `, runID, ts, string(result.Type), result.Summary, result.IsSuccessful, string(data))
	if err != nil {
		return fmt.Errorf("insert result: %w", err)
	}

	if pings, ok := result.Data.Pings(); ok && len(pings) > 0 {
		resultID, err := res.LastInsertId()
		if err != nil {
			return err
		}
		for _, p := range pings {
			var rtt sql.NullFloat64
			if p.Alive {
				rtt = sql.NullFloat64{Float64: p.Time, Valid: true}
			}
			_, err := tx.Exec(`
                INSERT INTO ping_samples (result_id, time, target, alive, rtt_ms, packet_loss)
                VALUES (?, ?, ?, ?, ?, ?)
            `, resultID, ts, p.Host, p.Alive, rtt, p.PacketLoss)
			if err != nil {
				return fmt.Errorf("insert ping sample: %w", err)
			}
		}
	}

	return tx.Commit()
}

// GetRecent retrieves results recorded at or after since, oldest first
func (db *DB) GetRecent(since time.Time) ([]models.Result, error) {
	query := `
        SELECT time, type, summary, is_successful, data
        FROM results
        WHERE time >= ?
        ORDER BY time, id
    `

	rows, err := db.Query(query, since.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []models.Result
	for rows.Next() {
		var r models.Result
		var kind, data string
		if err := rows.Scan(&r.Time, &kind, &r.Summary, &r.IsSuccessful, &data); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		r.Type = models.ProbeKind(kind)
		if err := json.Unmarshal([]byte(data), &r.Data); err != nil {
			return nil, fmt.Errorf("decode result data: %w", err)
		}
		results = append(results, r)
	}

	return results, rows.Err()
}

// GetStats retrieves per-target ping statistics since the given time
func (db *DB) GetStats(since time.Time) ([]models.Stats, error) {
	query := `
        SELECT
            target,
            COUNT(*) as total_pings,
            SUM(CASE WHEN alive THEN 1 ELSE 0 END) as successful_pings,
            AVG(CASE WHEN alive THEN rtt_ms ELSE NULL END) as avg_rtt,
            MAX(CASE WHEN alive THEN rtt_ms ELSE NULL END) as max_rtt,
            MIN(CASE WHEN alive THEN rtt_ms ELSE NULL END) as min_rtt,
            ROUND((1.0 - (CAST(SUM(CASE WHEN alive THEN 1 ELSE 0 END) AS REAL) / COUNT(*))) * 100, 2) as packet_loss
        FROM ping_samples
        WHERE time >= ?
        GROUP BY target
        ORDER BY target
    `

	rows, err := db.Query(query, since.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []models.Stats
	for rows.Next() {
		var s models.Stats
		var avgRTT, maxRTT, minRTT sql.NullFloat64
		err := rows.Scan(&s.Target, &s.TotalPings, &s.Successful,
			&avgRTT, &maxRTT, &minRTT, &s.PacketLoss)
		if err != nil {
			return nil, fmt.Errorf("scan stats: %w", err)
		}
		s.AvgRTT = avgRTT.Float64
		s.MaxRTT = maxRTT.Float64
		s.MinRTT = minRTT.Float64
		stats = append(stats, s)
	}

	return stats, rows.Err()
}

// Sink mirrors records into the database under a run identifier
type Sink struct {
	db    *DB
	runID string
}

// NewSink creates a Sink tagging rows with runID
func NewSink(db *DB, runID string) *Sink {
	return &Sink{db: db, runID: runID}
}

// Record implements models.Recorder
func (s *Sink) Record(result models.Result) error {
	return s.db.SaveResult(s.runID, result)
}
