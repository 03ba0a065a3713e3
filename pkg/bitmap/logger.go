package bitmap

import (
	"sync"

	"go.uber.org/zap"
)

var (
	loggerMu  sync.RWMutex
	pkgLogger = zap.NewNop()
)

// Logger returns the package logger used when no per-instance logger is set.
func Logger() *zap.Logger {
	loggerMu.RLock()
	defer loggerMu.RUnlock()
	return pkgLogger
}

// SetLogger replaces the package logger. A nil logger restores the no-op one.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	loggerMu.Lock()
	pkgLogger = l
	loggerMu.Unlock()
}

func loggerOr(l *zap.Logger) *zap.Logger {
	if l != nil {
		return l
	}
	return Logger()
}
