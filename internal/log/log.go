// Package log provides centralized logging functionality using zap logger.
package log

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
)

var (
	mu  sync.RWMutex
	log *zap.SugaredLogger
)

// Init initializes the package-level logger
func Init(debug bool) error {
	var zapLogger *zap.Logger
	var err error

	if debug {
		zapLogger, err = zap.NewDevelopment(zap.AddCallerSkip(1))
	} else {
		zapLogger, err = zap.NewProduction(zap.AddCallerSkip(1))
	}
	if err != nil {
		return fmt.Errorf("can't initialize zap logger: %v", err)
	}

	SetLogger(zapLogger)
	return nil
}

// SetLogger replaces the package-level logger. Tests use it with zaptest/observer.
func SetLogger(l *zap.Logger) {
	mu.Lock()
	defer mu.Unlock()
	log = l.Sugar()
}

// GetSugaredLogger returns the sugared logger instance
func GetSugaredLogger() *zap.SugaredLogger {
	mu.RLock()
	l := log
	mu.RUnlock()
	if l != nil {
		return l
	}

	// Fallback logger if not initialized
	mu.Lock()
	defer mu.Unlock()
	if log == nil {
		l, _ := zap.NewProduction(zap.AddCallerSkip(1))
		log = l.Sugar()
	}
	return log
}

// Sync flushes any buffered log entries
func Sync() {
	mu.RLock()
	defer mu.RUnlock()
	if log != nil {
		_ = log.Sync()
	}
}

// Package-level convenience functions

func Debugw(msg string, keysAndValues ...any) {
	GetSugaredLogger().Debugw(msg, keysAndValues...)
}

func Infow(msg string, keysAndValues ...any) {
	GetSugaredLogger().Infow(msg, keysAndValues...)
}

func Warnw(msg string, keysAndValues ...any) {
	GetSugaredLogger().Warnw(msg, keysAndValues...)
}

func Errorw(msg string, keysAndValues ...any) {
	GetSugaredLogger().Errorw(msg, keysAndValues...)
}
