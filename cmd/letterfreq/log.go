package main

import (
	"os"

	"github.com/sirupsen/logrus"
)

var log = newLogger()

func newLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
	})
	logger.SetLevel(logrus.InfoLevel)
	return logger
}

func setVerbose(verbose bool) {
	if verbose {
		log.SetLevel(logrus.DebugLevel)
		return
	}
	log.SetLevel(logrus.InfoLevel)
}
