package logger

import (
	"log"
	"sync"

	"go.uber.org/zap"
)

var (
	once   sync.Once
	logger *zap.Logger
)

// Init builds the process logger. Safe to call more than once.
func Init() {
	once.Do(func() {
		l, err := zap.NewProduction()
		if err != nil {
			log.Fatal("init logger fail", err)
		}
		logger = l
	})
}

// L returns the process logger, initializing it on first use.
func L() *zap.Logger {
	if logger == nil {
		Init()
	}
	return logger
}

// Sync flushes buffered log entries.
func Sync() {
	if logger != nil {
		_ = logger.Sync()
	}
}
