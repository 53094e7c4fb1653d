package store

import (
	"fmt"
	"time"
)

// TouchTask records a use of name at the given time, creating it if needed.
func (s *Store) TouchTask(name string, at time.Time) error {
	_, err := s.db.Exec(
		`INSERT INTO task_names (name, use_count, last_used) VALUES (?, 1, ?)
		 ON CONFLICT(name) DO UPDATE SET use_count = use_count + 1, last_used = excluded.last_used`,
		name, formatTime(at),
	)
	if err != nil {
		return fmt.Errorf("touch task %q: %w", name, err)
	}
	return nil
}

// SeedTasks adds names that are not yet known without counting a use.
// Earlier names in the slice are treated as more recent.
func (s *Store) SeedTasks(names []string, at time.Time) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("seed tasks: %w", err)
	}
	defer tx.Rollback()

	for i, name := range names {
		ts := at.Add(-time.Duration(i) * time.Second)
		if _, err := tx.Exec(
			`INSERT OR IGNORE INTO task_names (name, use_count, last_used) VALUES (?, 0, ?)`,
			name, formatTime(ts),
		); err != nil {
			return fmt.Errorf("seed task %q: %w", name, err)
		}
	}
	return tx.Commit()
}

// ListTasks returns task names, most recently used first. A limit of 0
// returns all of them.
func (s *Store) ListTasks(limit int) ([]TaskName, error) {
	query := `SELECT name, use_count, last_used FROM task_names ORDER BY last_used DESC, use_count DESC, name`
	if limit > 0 {
		query += fmt.Sprintf(` LIMIT %d`, limit)
	}
	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []TaskName
	for rows.Next() {
		var t TaskName
		var lastUsed string
		if err := rows.Scan(&t.Name, &t.UseCount, &lastUsed); err != nil {
			return nil, err
		}
		t.LastUsed = parseTime(lastUsed)
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (s *Store) DeleteTask(name string) error {
	_, err := s.db.Exec(`DELETE FROM task_names WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("delete task %q: %w", name, err)
	}
	return nil
}
