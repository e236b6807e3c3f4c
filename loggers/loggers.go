package loggers

import (
	"fmt"
	"io"
	"os"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/fetchsync/fetchsync/conduit/pipeline"
)

// Tags of the root logger, plugins are tagged with their own type and name.
const (
	RootLogType = "fetchsync"
	RootLogName = "main"
)

// LoggerManager a manager that can produce loggers that are synchronized internally.
// Every logger made by one manager shares its writer, so switching to a log
// file moves all of them.
type LoggerManager struct {
	internalWriter *ThreadSafeWriter
	logFile        *os.File
}

// MakeRootLogger returns a logger that is synchronized with the internal mutex
func (l *LoggerManager) MakeRootLogger(level log.Level, logFile string) (*log.Logger, error) {
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0644)
		if err != nil {
			return nil, fmt.Errorf("MakeRootLogger(): %w", err)
		}
		l.internalWriter.SetWriter(f)
		if l.logFile != nil {
			l.logFile.Close()
		}
		l.logFile = f
	}

	formatter := pipeline.MakePluginLogFormatter(RootLogType, RootLogName)
	logger := log.New()
	logger.SetFormatter(&formatter)
	logger.SetLevel(level)
	logger.SetOutput(l.internalWriter)
	return logger, nil
}

// MakeLoggerManager returns a logger manager
func MakeLoggerManager(writer io.Writer) *LoggerManager {
	return &LoggerManager{
		internalWriter: &ThreadSafeWriter{
			Writer: writer,
			Mutex:  &sync.Mutex{},
		},
	}
}

// ThreadSafeWriter a struct that implements io.Writer in a threadsafe way
type ThreadSafeWriter struct {
	Writer io.Writer
	Mutex  *sync.Mutex
}

// SetWriter replaces the destination of every subsequent write.
func (w *ThreadSafeWriter) SetWriter(writer io.Writer) {
	w.Mutex.Lock()
	defer w.Mutex.Unlock()
	w.Writer = writer
}

// Write writes p bytes with the mutex
func (w *ThreadSafeWriter) Write(p []byte) (n int, err error) {
	w.Mutex.Lock()
	defer w.Mutex.Unlock()
	return w.Writer.Write(p)
}
