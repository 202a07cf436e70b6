package logger

import (
	"go.uber.org/zap"
)

var log *zap.Logger = zap.NewNop()

// Init builds the process-wide logger. Development mode uses the
// human-readable console encoder, production emits JSON.
func Init(debug bool) error {
	var (
		built *zap.Logger
		err   error
	)
	if debug {
		built, err = zap.NewDevelopment()
	} else {
		built, err = zap.NewProduction()
	}
	if err != nil {
		return err
	}
	log = built
	return nil
}

// L returns the process-wide logger.
func L() *zap.Logger {
	return log
}

// Sync flushes buffered log entries.
func Sync() {
	_ = log.Sync()
}
