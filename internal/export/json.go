package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sadopc/grinder/internal/timelog"
	"github.com/sadopc/grinder/internal/week"
)

type jsonExport struct {
	ExportedAt string    `json:"exported_at"`
	WeekStart  string    `json:"week_start"`
	Title      string    `json:"title"`
	Days       []string  `json:"days"`
	Rows       []jsonRow `json:"rows"`
	Total      jsonRow   `json:"total"`
}

type jsonRow struct {
	Task     string              `json:"task"`
	Hours    []string            `json:"hours"`
	Weekly   string              `json:"weekly"`
	Partials map[string][]string `json:"partials,omitempty"`
}

func newJSONRow(r *week.Record) jsonRow {
	row := jsonRow{Task: r.TaskName(), Weekly: r.WeeklyString()}
	for _, d := range week.AllDays() {
		row.Hours = append(row.Hours, r.DayString(d))
		if !r.Tracked(d) {
			continue
		}
		if desc := r.PartialDescriptions(d); len(desc) > 0 {
			if row.Partials == nil {
				row.Partials = make(map[string][]string)
			}
			row.Partials[d.String()] = desc
		}
	}
	return row
}

// WriteJSON writes the records of a week view as an indented JSON document.
// The totals row, expected last, goes to "total".
func WriteJSON(w io.Writer, weekStart time.Time, records []*week.Record) error {
	export := jsonExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		WeekStart:  weekStart.Format(timelog.DateLayout),
		Title:      week.Title(weekStart),
		Days:       Header(weekStart)[1 : week.DaysPerWeek+1],
	}
	for _, r := range records {
		if r.IsTotals() {
			export.Total = newJSONRow(r)
			continue
		}
		export.Rows = append(export.Rows, newJSONRow(r))
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	_, err = w.Write(append(data, '\n'))
	return err
}

// ToJSON writes the view to a JSON file at path.
func ToJSON(v *week.View, path string) error {
	return SaveJSON(path, v.WeekStart(), v.Records())
}

func SaveJSON(path string, weekStart time.Time, records []*week.Record) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create json file: %w", err)
	}
	defer f.Close()

	if err := WriteJSON(f, weekStart, records); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return f.Close()
}
