// Package export writes a week view as CSV or JSON.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sadopc/grinder/internal/week"
)

// Header returns the column titles of a week table: task, the seven days
// and the weekly sum.
func Header(weekStart time.Time) []string {
	h := make([]string, 0, week.DaysPerWeek+2)
	h = append(h, "Task")
	for _, d := range week.AllDays() {
		h = append(h, week.ColumnTitle(weekStart, d))
	}
	return append(h, "Week")
}

// Row returns the cells of one record in Header order.
func Row(r *week.Record) []string {
	row := make([]string, 0, week.DaysPerWeek+2)
	row = append(row, r.TaskName())
	for _, d := range week.AllDays() {
		row = append(row, r.DayString(d))
	}
	return append(row, r.WeeklyString())
}

// WriteCSV writes the records of a week view, totals row included.
func WriteCSV(w io.Writer, weekStart time.Time, records []*week.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header(weekStart)); err != nil {
		return err
	}
	for _, r := range records {
		if err := cw.Write(Row(r)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ToCSV writes the view to a CSV file at path.
func ToCSV(v *week.View, path string) error {
	return SaveCSV(path, v.WeekStart(), v.Records())
}

// SaveCSV writes already copied records to a CSV file at path.
func SaveCSV(path string, weekStart time.Time, records []*week.Record) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	if err := WriteCSV(f, weekStart, records); err != nil {
		return fmt.Errorf("write csv file: %w", err)
	}
	return f.Close()
}
