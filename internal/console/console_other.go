//go:build !windows

package console

import "go.uber.org/zap"

func LaunchedFromExplorer() bool { return false }

func Detach() {}

// NotifyInterrupt is a no-op; os/signal delivers SIGINT reliably here.
func NotifyInterrupt(ch chan struct{}, log *zap.Logger) func() {
	return func() {}
}
