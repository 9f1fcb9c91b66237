package main

import (
	"os"

	"github.com/vincentbai/usageanalytics/internal/logger"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		logger.GetLogger().Error(err)
		os.Exit(1)
	}
}
