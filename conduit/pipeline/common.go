package pipeline

import (
	"fmt"

	log "github.com/sirupsen/logrus"
)

// HandlePanic function to log panics in a common way. The recovered value is
// handed to onPanic as an error so the run can report it.
func HandlePanic(logger *log.Logger, onPanic func(error)) {
	if r := recover(); r != nil {
		err := fmt.Errorf("conduit pipeline experienced a panic: %v", r)
		logger.Error(err)
		if onPanic != nil {
			onPanic(err)
		}
	}
}
