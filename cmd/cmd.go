// Package cmd defines the command-line interface for grinder.
package cmd

import (
	"github.com/sadopc/grinder/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Recorder commands
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(stopCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(logCmd)
	rootCmd.AddCommand(tasksCmd)

	// Report commands
	rootCmd.AddCommand(weekCmd)
	rootCmd.AddCommand(clearCmd)

	rootCmd.AddCommand(versionCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("log-file", "", "Path to the time log (default ~/Documents/TimeTrack.txt)")
	rootCmd.PersistentFlags().String("db", "", "Path to the recorder database (default <config dir>/grinder/grinder.db)")
	rootCmd.PersistentFlags().String("workday-hours", config.DefaultWorkdayHours, "Hours per workday targeted by equalize")
	rootCmd.PersistentFlags().String("daily-cap", config.DefaultDailyCap, "Most hours a workday may hold when moving weekend hours")
	rootCmd.PersistentFlags().String("color", config.DefaultColor, "Enable colored output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("output", config.DefaultOutput, "Output format of the week command: text or csv or json")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		config.LogFatal("Error binding root flags", err)
	}

	stopCmd.Flags().StringP("task", "t", "", "Book the interval under this task name")
	stopCmd.Flags().String("from", "", "Replace the start time (HH:MM)")
	stopCmd.Flags().String("to", "", "Replace the stop time (HH:MM)")
	stopCmd.Flags().Bool("ignore", false, "Drop the interval instead of booking it")

	statusCmd.Flags().Int("recent", 0, "Also list this many recent intervals")
	statusCmd.Flags().BoolP("verbose", "v", false, "Also print the recorder database and its settings")

	logCmd.Flags().String("date", "", "Day of the interval, yyyy/MM/dd (default today)")
	logCmd.Flags().String("from", "", "Start time (HH:MM)")
	logCmd.Flags().String("to", "", "End time (HH:MM)")
	_ = logCmd.MarkFlagRequired("from")
	_ = logCmd.MarkFlagRequired("to")

	tasksCmd.Flags().IntP("limit", "l", 0, "Number of task names to list (0 = all)")
	tasksCmd.Flags().Bool("sync", false, "Import task names from the time log again")
	tasksCmd.Flags().String("forget", "", "Remove a task name from the history")

	weekCmd.Flags().String("week", "", "Any day of the week to show, yyyy/MM/dd")
	weekCmd.Flags().StringSlice("join", nil, "Merge rows, e.g. 1+2 folds row 2 into row 1 (repeatable)")
	weekCmd.Flags().Bool("equalize", false, "Fill every workday up to --workday-hours")
	weekCmd.Flags().Bool("no-weekend", false, "Move weekend hours into workdays")
	weekCmd.Flags().Bool("list", false, "List the logged weeks instead")
	weekCmd.Flags().String("export", "", "Write the week to a .csv or .json file instead of printing it")

	clearCmd.Flags().Bool("keep-tasks", true, "Keep one placeholder entry per task name")
	clearCmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")
}
