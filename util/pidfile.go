package util

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
)

// CreatePidFile creates the pid file at the specified location
func CreatePidFile(logger *log.Logger, pidFilePath string) error {
	logger.Infof("Creating PID file at: %s", pidFilePath)
	fout, err := os.Create(pidFilePath)
	if err != nil {
		err = fmt.Errorf("%s: could not create pid file, %w", pidFilePath, err)
		logger.Error(err)
		return err
	}
	defer fout.Close()

	if _, err = fmt.Fprintf(fout, "%d", os.Getpid()); err != nil {
		err = fmt.Errorf("%s: could not write pid file, %w", pidFilePath, err)
		logger.Error(err)
		return err
	}
	return nil
}
