package main

import (
	"github.com/sadopc/grinder/cmd"
	"github.com/sadopc/grinder/internal/config"
)

func main() {
	if err := cmd.Execute(); err != nil {
		config.LogFatal("grinder", err)
	}
}
