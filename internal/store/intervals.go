package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

func formatTime(t time.Time) string { return t.UTC().Format(time.RFC3339) }

func parseTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339, s)
	return t.Local()
}

const intervalColumns = `id, start_time, stop_time, status, task, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanInterval(row rowScanner) (*Interval, error) {
	iv := &Interval{}
	var start, createdAt, status string
	var stop sql.NullString
	if err := row.Scan(&iv.ID, &start, &stop, &status, &iv.Task, &createdAt); err != nil {
		return nil, err
	}
	iv.Start = parseTime(start)
	if stop.Valid {
		t := parseTime(stop.String)
		iv.Stop = &t
	}
	iv.Status = IntervalStatus(status)
	iv.CreatedAt = parseTime(createdAt)
	return iv, nil
}

// StartInterval opens a running interval at the given time.
func (s *Store) StartInterval(at time.Time) (*Interval, error) {
	res, err := s.db.Exec(
		`INSERT INTO intervals (start_time, status, created_at) VALUES (?, ?, ?)`,
		formatTime(at), string(StatusRunning), formatTime(time.Now()),
	)
	if err != nil {
		return nil, fmt.Errorf("start interval: %w", err)
	}
	id, _ := res.LastInsertId()
	return s.GetInterval(id)
}

// StopInterval closes a running interval. It is then stopped until resolved.
func (s *Store) StopInterval(id int64, at time.Time) (*Interval, error) {
	res, err := s.db.Exec(
		`UPDATE intervals SET stop_time = ?, status = ? WHERE id = ? AND status = ?`,
		formatTime(at), string(StatusStopped), id, string(StatusRunning),
	)
	if err != nil {
		return nil, fmt.Errorf("stop interval: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, fmt.Errorf("stop interval %d: %w", id, sql.ErrNoRows)
	}
	return s.GetInterval(id)
}

// ResolveInterval marks a stopped interval committed or ignored, storing the
// final bounds and task name.
func (s *Store) ResolveInterval(id int64, status IntervalStatus, task string, start, stop time.Time) error {
	if status != StatusCommitted && status != StatusIgnored {
		return fmt.Errorf("resolve interval %d: invalid status %q", id, status)
	}
	res, err := s.db.Exec(
		`UPDATE intervals SET status = ?, task = ?, start_time = ?, stop_time = ? WHERE id = ? AND status = ?`,
		string(status), task, formatTime(start), formatTime(stop), id, string(StatusStopped),
	)
	if err != nil {
		return fmt.Errorf("resolve interval %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("resolve interval %d: %w", id, sql.ErrNoRows)
	}
	return nil
}

func (s *Store) GetInterval(id int64) (*Interval, error) {
	iv, err := scanInterval(s.db.QueryRow(
		`SELECT `+intervalColumns+` FROM intervals WHERE id = ?`, id,
	))
	if err != nil {
		return nil, fmt.Errorf("get interval %d: %w", id, err)
	}
	return iv, nil
}

// GetOpenInterval returns the latest running or stopped interval, or nil.
func (s *Store) GetOpenInterval() (*Interval, error) {
	iv, err := scanInterval(s.db.QueryRow(
		`SELECT `+intervalColumns+` FROM intervals WHERE status IN (?, ?) ORDER BY id DESC LIMIT 1`,
		string(StatusRunning), string(StatusStopped),
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get open interval: %w", err)
	}
	return iv, nil
}

func (s *Store) ListIntervals(f IntervalFilter) ([]Interval, error) {
	query := `SELECT ` + intervalColumns + ` FROM intervals WHERE 1=1`
	var args []any

	if f.Status != nil {
		query += ` AND status = ?`
		args = append(args, string(*f.Status))
	}
	if f.From != nil {
		query += ` AND start_time >= ?`
		args = append(args, formatTime(*f.From))
	}
	if f.To != nil {
		query += ` AND start_time < ?`
		args = append(args, formatTime(*f.To))
	}
	query += ` ORDER BY start_time DESC, id DESC`
	if f.Limit > 0 {
		query += fmt.Sprintf(` LIMIT %d`, f.Limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list intervals: %w", err)
	}
	defer rows.Close()

	var out []Interval
	for rows.Next() {
		iv, err := scanInterval(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *iv)
	}
	return out, rows.Err()
}

// CommittedDuration sums committed intervals starting in [from, to).
func (s *Store) CommittedDuration(from, to time.Time) (time.Duration, error) {
	status := StatusCommitted
	ivs, err := s.ListIntervals(IntervalFilter{Status: &status, From: &from, To: &to})
	if err != nil {
		return 0, err
	}
	var total time.Duration
	for i := range ivs {
		total += ivs[i].Duration()
	}
	return total, nil
}
