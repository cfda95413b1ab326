package utils

import "go.uber.org/zap"

var logger = zap.NewNop()

// SetLogger routes utils diagnostics to l. Nil restores the silent default.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	logger = l
}
