package cmd

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/sadopc/grinder/internal/config"
	"github.com/sadopc/grinder/internal/export"
	"github.com/sadopc/grinder/internal/report"
	"github.com/sadopc/grinder/internal/timelog"
	"github.com/sadopc/grinder/internal/week"
	"github.com/spf13/cobra"
)

var weekCmd = &cobra.Command{
	Use:   "week",
	Short: "Print the hours per task and day of one week.",
	Long: `Print the weekly report of the time log.

By default the week containing today is shown, or the latest logged week when
today has no entries. Edits are applied in this order before printing:
--join, --no-weekend, --equalize. The log itself is never changed.`,
	Example: `  grinder week
  grinder week --week 2024/01/03 --join 1+2 --equalize
  grinder week --output csv > week.csv
  grinder week --no-weekend --export week.json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		sess := loadSession()

		if list, _ := cmd.Flags().GetBool("list"); list {
			return writeWeekList(cmd.OutOrStdout(), sess)
		}

		if w, _ := cmd.Flags().GetString("week"); w != "" {
			d, err := timelog.ParseDate(w)
			if err != nil {
				return err
			}
			if !sess.SelectDate(d) {
				return fmt.Errorf("no entries in the week of %s", d.Format(timelog.DateLayout))
			}
		}

		joins, _ := cmd.Flags().GetStringSlice("join")
		if err := applyJoins(sess, joins); err != nil {
			return err
		}
		if noWeekend, _ := cmd.Flags().GetBool("no-weekend"); noWeekend {
			if err := sess.EliminateWeekend(); err != nil {
				return rebalanceError("cannot move weekend hours", err)
			}
		}
		if equalize, _ := cmd.Flags().GetBool("equalize"); equalize {
			if err := sess.Equalize(); err != nil {
				return rebalanceError("cannot equalize workdays", err)
			}
		}

		if path, _ := cmd.Flags().GetString("export"); path != "" {
			if err := exportWeek(sess.View(), path); err != nil {
				return err
			}
			cmd.PrintErrf("Exported %s to %s\n", sess.Title(), path)
			return nil
		}
		return writeWeek(cmd.OutOrStdout(), sess)
	},
}

// exportWeek writes the view to a file, choosing the format by extension.
func exportWeek(v *week.View, path string) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return export.ToCSV(v, path)
	case ".json":
		return export.ToJSON(v, path)
	default:
		return fmt.Errorf("export %s: unknown extension, want .csv or .json", path)
	}
}

// applyJoins merges rows given as "A+B" pairs of 1-based row numbers. Each
// pair folds row B into row A; pairs are applied in order against the rows
// as they are after the previous pair.
func applyJoins(sess *report.Session, pairs []string) error {
	for _, pair := range pairs {
		target, source, err := parseJoin(pair)
		if err != nil {
			return err
		}
		rows := sess.View().TaskRows()
		if target > rows || source > rows {
			return fmt.Errorf("join %q: the week has %d rows", pair, rows)
		}
		sess.SetJoining(true)
		sess.Join(target - 1)
		if sess.Join(source-1) != week.JoinMerged {
			return fmt.Errorf("join %q: rows were not merged", pair)
		}
	}
	sess.SetJoining(false)
	return nil
}

func parseJoin(pair string) (int, int, error) {
	a, b, ok := strings.Cut(pair, "+")
	if !ok {
		return 0, 0, fmt.Errorf("join %q: expected ROW+ROW", pair)
	}
	target, err1 := strconv.Atoi(strings.TrimSpace(a))
	source, err2 := strconv.Atoi(strings.TrimSpace(b))
	if err1 != nil || err2 != nil || target < 1 || source < 1 || target == source {
		return 0, 0, fmt.Errorf("join %q: expected two different row numbers", pair)
	}
	return target, source, nil
}

func rebalanceError(msg string, err error) error {
	if report.IsInfeasible(err) {
		return fmt.Errorf("%s: %w", msg, err)
	}
	return err
}

func writeWeek(w io.Writer, sess *report.Session) error {
	v := sess.View()
	switch cfg.Output {
	case config.CSVOut:
		return export.WriteCSV(w, v.WeekStart(), v.Records())
	case config.JSONOut:
		return export.WriteJSON(w, v.WeekStart(), v.Records())
	default:
		return writeWeekTable(w, sess)
	}
}

func writeWeekTable(w io.Writer, sess *report.Session) error {
	v := sess.View()
	bold := color.New(color.Bold).SprintFunc()
	faint := color.New(color.Faint).SprintFunc()

	if _, err := fmt.Fprintln(w, bold(sess.Title())); err != nil {
		return err
	}

	table := tablewriter.NewWriter(w)
	defer func() { _ = table.Close() }()

	table.Header(append([]string{"#"}, export.Header(v.WeekStart())...))
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for i, r := range v.Records() {
		row := export.Row(r)
		if r.IsTotals() {
			for j := range row {
				row[j] = bold(row[j])
			}
			data = append(data, append([]string{""}, row...))
			continue
		}
		for j, d := range week.AllDays() {
			if r.Hours(d).IsZero() {
				row[j+1] = faint(row[j+1])
			}
		}
		data = append(data, append([]string{strconv.Itoa(i + 1)}, row...))
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if sess.CanSplit() {
		if _, err := fmt.Fprintln(w, faint("Edited view; the log is unchanged.")); err != nil {
			return err
		}
	}
	return nil
}

func writeWeekList(w io.Writer, sess *report.Session) error {
	weeks := sess.Weeks()
	if len(weeks) == 0 {
		return errors.New("the log has no entries")
	}
	for i, start := range weeks {
		marker := " "
		if i == sess.Index() {
			marker = "*"
		}
		if _, err := fmt.Fprintf(w, "%s %s  %s\n", marker, start.Format(timelog.DateLayout), week.Title(start)); err != nil {
			return err
		}
	}
	return nil
}
