// Package logger holds the process-wide sugared zap logger.
package logger

import (
	"sync"

	"go.uber.org/zap"
)

var (
	mtx   sync.Mutex
	sugar *zap.SugaredLogger
)

// Get lazily initializes a development logger on first use.
func Get() *zap.SugaredLogger {
	mtx.Lock()
	defer mtx.Unlock()

	if sugar == nil {
		lg, err := zap.NewDevelopment()
		if err != nil {
			panic(err)
		}
		sugar = lg.Sugar()
	}
	return sugar
}

// Set replaces the shared logger, mainly for embedding applications that
// carry their own zap configuration.
func Set(lg *zap.Logger) {
	mtx.Lock()
	defer mtx.Unlock()
	sugar = lg.Sugar()
}
