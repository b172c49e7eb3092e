package history

import (
	"database/sql"
	"time"

	"github.com/pixelseek/pixelseek/internal/cv"
)

// MatchRecord is one logged template search
type MatchRecord struct {
	ID         int64
	Template   string
	Found      bool
	X, Y       int
	Width      int
	Height     int
	Threshold  float64
	DurationMs int64
	SearchedAt time.Time
}

// TemplateStats aggregates the log per template
type TemplateStats struct {
	Template string
	Searches int
	Hits     int
}

// RecordMatch implements cv.MatchRecorder
func (s *Store) RecordMatch(template string, result cv.MatchResult, threshold float64, elapsed time.Duration) {
	// Logging must never break a match call; a failed insert is dropped.
	s.ExecTx(func(tx *sql.Tx) error {
		_, err := tx.Exec(`
			INSERT INTO match_log (
				template, found, x, y, width, height,
				threshold, duration_ms, searched_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, template, result.Found,
			result.Bounds.Min.X, result.Bounds.Min.Y,
			result.Bounds.Dx(), result.Bounds.Dy(),
			threshold, elapsed.Milliseconds(), time.Now())
		return err
	})
}

// Recent returns the most recent match records, newest first
func (s *Store) Recent(limit int) ([]*MatchRecord, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := s.conn.Query(`
		SELECT id, template, found, x, y, width, height,
			threshold, duration_ms, searched_at
		FROM match_log
		ORDER BY searched_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []*MatchRecord{}
	for rows.Next() {
		record := &MatchRecord{}
		err := rows.Scan(
			&record.ID, &record.Template, &record.Found,
			&record.X, &record.Y, &record.Width, &record.Height,
			&record.Threshold, &record.DurationMs, &record.SearchedAt,
		)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	return records, rows.Err()
}

// Stats returns per-template search and hit counts
func (s *Store) Stats() ([]*TemplateStats, error) {
	rows, err := s.conn.Query(`
		SELECT template, COUNT(*) AS searches, SUM(found) AS hits
		FROM match_log
		GROUP BY template
		ORDER BY template
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := []*TemplateStats{}
	for rows.Next() {
		st := &TemplateStats{}
		if err := rows.Scan(&st.Template, &st.Searches, &st.Hits); err != nil {
			return nil, err
		}
		stats = append(stats, st)
	}

	return stats, rows.Err()
}

// DeleteOlderThan deletes match records older than the specified time
func (s *Store) DeleteOlderThan(olderThan time.Time) (int64, error) {
	var deleted int64
	err := s.ExecTx(func(tx *sql.Tx) error {
		result, err := tx.Exec(`DELETE FROM match_log WHERE searched_at < ?`, olderThan)
		if err != nil {
			return err
		}
		deleted, err = result.RowsAffected()
		return err
	})

	return deleted, err
}
