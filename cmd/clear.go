package cmd

import (
	"errors"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/sadopc/grinder/internal/timelog"
	"github.com/spf13/cobra"
)

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Empty the time log.",
	Long: `Empty the time log. With --keep-tasks (the default) one zero-length entry per
task name stays in the log, so the names remain available as suggestions.

Asks for confirmation unless --yes is given.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		keep, _ := cmd.Flags().GetBool("keep-tasks")
		yes, _ := cmd.Flags().GetBool("yes")

		if !yes {
			err := huh.NewConfirm().
				Title("Clear " + cfg.LogFile + "?").
				Affirmative("Clear").
				Negative("Cancel").
				Value(&yes).
				Run()
			if err != nil && !errors.Is(err, huh.ErrUserAborted) {
				return err
			}
		}
		if !yes {
			cmd.Println("Nothing cleared")
			return nil
		}

		if err := timelog.Clear(cfg.LogFile, keep, time.Now()); err != nil {
			return err
		}
		cmd.Printf("Cleared %s\n", cfg.LogFile)
		return nil
	},
}
