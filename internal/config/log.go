package config

import (
	"fmt"
	"os"

	"github.com/fatih/color"
)

var (
	warnColor  = color.New(color.FgYellow)
	fatalColor = color.New(color.FgRed, color.Bold)
)

// SetColor switches colored output on or off for the whole process.
func SetColor(enabled bool) {
	color.NoColor = !enabled
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(color.Error, "%s %s: %v\n", fatalColor.Sprint("Fatal"), msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(color.Error, "%s %s: %v\n", warnColor.Sprint("Warn"), msg, err)
}
