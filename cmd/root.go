package cmd

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sadopc/grinder/internal/config"
	"github.com/sadopc/grinder/internal/recorder"
	"github.com/sadopc/grinder/internal/report"
	"github.com/sadopc/grinder/internal/store"
	"github.com/sadopc/grinder/internal/tui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// All linker flags will be set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// cfg will hold the validated, final configuration.
var cfg = &config.Config{}

// input holds the raw, unvalidated configuration from all sources (file, env, flags).
// Viper will unmarshal into this struct.
var input = &config.RawInput{}

// rootCmd opens the interactive recorder and weekly report.
var rootCmd = &cobra.Command{
	Use:   "grinder",
	Short: "Record work intervals and grind them into weekly reports.",
	Long: `Grinder records work intervals into a plain text time log and turns the log
into a weekly hours-per-task report.

Without a subcommand it opens the interactive view with two tabs:
- Recorder: start/stop an interval and book it under a task name
- Week: review a week, join rows, equalize workdays, move weekend hours`,
	Version:            version,
	SilenceErrors:      true,
	SilenceUsage:       true,
	DisableSuggestions: true,
	PersistentPreRunE:  sharedSetup,
	RunE: func(_ *cobra.Command, _ []string) error {
		st, rec, err := openRecorder()
		if err != nil {
			return err
		}
		defer st.Close()

		sess := report.Open(cfg.LogFile, cfg.Policy())
		p := tea.NewProgram(tui.NewApp(sess, rec), tea.WithAltScreen())
		_, err = p.Run()
		return err
	},
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigName(".grinder")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME")
	}

	viper.SetEnvPrefix("GRINDER")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("workday-hours", config.DefaultWorkdayHours)
	viper.SetDefault("daily-cap", config.DefaultDailyCap)
	viper.SetDefault("color", config.DefaultColor)
	viper.SetDefault("output", config.DefaultOutput)
}

// sharedSetup unmarshals config and runs validation.
func sharedSetup(_ *cobra.Command, _ []string) error {
	// 1. Read config file. This merges defaults, file, env, and flags.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Config file was found but another error was produced
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	// 2. Unmarshal all resolved values from Viper into our raw input struct.
	if err := viper.Unmarshal(input); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}

	// 3. Validate and fill the global cfg.
	if err := config.ProcessAndValidate(cfg, input); err != nil {
		return err
	}
	config.SetColor(cfg.UseColors)
	return nil
}

// openRecorder opens the recorder database. The caller closes the store.
func openRecorder() (*store.Store, *recorder.Recorder, error) {
	st, err := store.New(cfg.DBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open recorder database: %w", err)
	}
	return st, recorder.New(st, cfg.LogFile), nil
}

// loadSession opens the report and prints load diagnostics as warnings.
func loadSession() *report.Session {
	sess := report.Open(cfg.LogFile, cfg.Policy())
	for _, d := range sess.Diagnostics() {
		config.LogWarn("Skipped log entry", errors.New(strings.ReplaceAll(d.String(), "\n", ": ")))
	}
	sess.ClearErr()
	return sess
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
