package store

import "fmt"

// Setting keys.
const (
	SettingLastTask    = "last_task"
	SettingTasksSeeded = "tasks_seeded"
)

// GetSetting returns the value stored under key. A missing key is an error
// wrapping sql.ErrNoRows.
func (s *Store) GetSetting(key string) (value string, err error) {
	row := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key)
	if err = row.Scan(&value); err != nil {
		err = fmt.Errorf("setting %q: %w", key, err)
	}
	return value, err
}

// SetSetting stores value under key, replacing any previous value.
func (s *Store) SetSetting(key, value string) error {
	const upsert = `
	INSERT INTO settings (key, value) VALUES (?, ?)
	ON CONFLICT(key) DO UPDATE SET value = excluded.value`
	if _, err := s.db.Exec(upsert, key, value); err != nil {
		return fmt.Errorf("store setting %q: %w", key, err)
	}
	return nil
}

// GetAllSettings lists every setting ordered by key.
func (s *Store) GetAllSettings() ([]Setting, error) {
	rows, err := s.db.Query(`SELECT key, value FROM settings ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}
	defer rows.Close()

	var all []Setting
	for rows.Next() {
		var kv Setting
		if err := rows.Scan(&kv.Key, &kv.Value); err != nil {
			return nil, fmt.Errorf("scan setting: %w", err)
		}
		all = append(all, kv)
	}
	return all, rows.Err()
}
