package cmd

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/sadopc/grinder/internal/recorder"
	"github.com/sadopc/grinder/internal/store"
	"github.com/sadopc/grinder/internal/timelog"
	"github.com/spf13/cobra"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start recording an interval.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		st, rec, err := openRecorder()
		if err != nil {
			return err
		}
		defer st.Close()

		iv, err := rec.Start()
		if err != nil {
			return err
		}
		cmd.Printf("Recording since %s\n", iv.Start.Format(timelog.ClockLayout))
		return nil
	},
}

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop recording and book or ignore the interval.",
	Long: `Stop the running interval. The stopped interval stays pending until it is
booked with --task or dropped with --ignore; running stop again with one of
these flags settles a pending interval.

--from and --to (HH:MM) replace the recorded start and stop times.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		st, rec, err := openRecorder()
		if err != nil {
			return err
		}
		defer st.Close()

		task, _ := cmd.Flags().GetString("task")
		from, _ := cmd.Flags().GetString("from")
		to, _ := cmd.Flags().GetString("to")
		ignore, _ := cmd.Flags().GetBool("ignore")
		if ignore && task != "" {
			return errors.New("--task and --ignore are mutually exclusive")
		}

		iv, err := rec.Stop()
		switch {
		case errors.Is(err, recorder.ErrNotRecording):
			if iv, err = rec.Pending(); err != nil {
				return recorder.ErrNotRecording
			}
		case err != nil:
			return err
		default:
			cmd.Printf("Stopped after %s\n", formatElapsed(iv.Duration()))
		}

		if ignore {
			if err := rec.Ignore(); err != nil {
				return err
			}
			cmd.Println("Interval ignored")
			return nil
		}
		if task == "" {
			cmd.Println("Interval pending: book it with `grinder stop --task NAME` or drop it with `grinder stop --ignore`")
			return nil
		}

		start, stop, err := stopBounds(iv, from, to)
		if err != nil {
			return err
		}
		e, err := rec.Commit(task, start, stop)
		if err != nil {
			return err
		}
		cmd.Printf("Booked %s\n", e.Line())
		return nil
	},
}

// stopBounds applies the --from/--to overrides to the interval's own days.
func stopBounds(iv *store.Interval, from, to string) (time.Time, time.Time, error) {
	start, stop := iv.Start, *iv.Stop
	var err error
	if from != "" {
		if start, err = timelog.AtClock(iv.Start, from); err != nil {
			return start, stop, err
		}
	}
	if to != "" {
		if stop, err = timelog.AtClock(*iv.Stop, to); err != nil {
			return start, stop, err
		}
	}
	return start, stop, nil
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the recorder state and today's booked time.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		st, rec, err := openRecorder()
		if err != nil {
			return err
		}
		defer st.Close()

		s, err := rec.Status()
		if err != nil {
			return err
		}

		green := color.New(color.FgGreen).SprintFunc()
		yellow := color.New(color.FgYellow).SprintFunc()
		state := s.State.String()
		switch s.State {
		case recorder.Running:
			state = green(state) + " since " + s.Interval.Start.Format(timelog.ClockLayout)
		case recorder.Pending:
			state = yellow(state) + fmt.Sprintf(" %s - %s",
				s.Interval.Start.Format(timelog.ClockLayout), s.Interval.Stop.Format(timelog.ClockLayout))
		}

		cmd.Printf("State:     %s\n", state)
		if s.State != recorder.Idle {
			cmd.Printf("Elapsed:   %s\n", formatElapsed(s.Elapsed))
		}
		cmd.Printf("Today:     %s\n", formatElapsed(s.Today))
		if s.LastTask != "" {
			cmd.Printf("Last task: %s\n", s.LastTask)
		}
		cmd.Printf("Log file:  %s\n", rec.LogPath())

		if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
			settings, err := st.GetAllSettings()
			if err != nil {
				return err
			}
			cmd.Printf("Database:  %s\n", cfg.DBPath)
			for _, kv := range settings {
				cmd.Printf("  %s = %q\n", kv.Key, kv.Value)
			}
		}
		if n, _ := cmd.Flags().GetInt("recent"); n > 0 {
			return writeRecent(cmd, st, n)
		}
		return nil
	},
}

// writeRecent lists the latest intervals with how each was settled.
func writeRecent(cmd *cobra.Command, st *store.Store, n int) error {
	intervals, err := st.ListIntervals(store.IntervalFilter{Limit: n})
	if err != nil {
		return err
	}
	cmd.Println()
	for _, iv := range intervals {
		stop := "--:--"
		if iv.Stop != nil {
			stop = iv.Stop.Format(timelog.ClockLayout)
		}
		cmd.Printf("  %s %s-%s  %-9s %s\n",
			iv.Start.Format(timelog.DateLayout), iv.Start.Format(timelog.ClockLayout), stop, iv.Status, iv.Task)
	}
	return nil
}

var logCmd = &cobra.Command{
	Use:   "log TASK",
	Short: "Append an interval to the time log by hand.",
	Example: `  grinder log --from 09:00 --to 10:30 "Code review"
  grinder log --date 2024/01/03 --from 13:00 --to 14:00 Meeting`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		day := time.Now()
		if d, _ := cmd.Flags().GetString("date"); d != "" {
			parsed, err := timelog.ParseDate(d)
			if err != nil {
				return err
			}
			day = time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, time.Local)
		}

		fromStr, _ := cmd.Flags().GetString("from")
		toStr, _ := cmd.Flags().GetString("to")
		from, err := timelog.AtClock(day, fromStr)
		if err != nil {
			return err
		}
		to, err := timelog.AtClock(day, toStr)
		if err != nil {
			return err
		}
		if !from.Before(to) {
			return recorder.ErrInvalidInterval
		}

		task := strings.TrimSpace(strings.Join(args, " "))
		if task == "" {
			return timelog.ErrEmptyTask
		}
		e := timelog.NewEntry(from, to, task)
		if err := timelog.Append(cfg.LogFile, e); err != nil {
			return err
		}
		cmd.Printf("Logged %s\n", e.Line())
		return nil
	},
}

func formatElapsed(d time.Duration) string {
	d = d.Truncate(time.Second)
	return fmt.Sprintf("%s (%s h)", d, timelog.MinutesToHours(int(d.Minutes())).StringFixed(2))
}
