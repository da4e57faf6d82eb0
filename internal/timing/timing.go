// Package timing measures how long an operation takes and logs it.
package timing

import (
	"time"

	"github.com/charmbracelet/log"
)

// now is replaced in tests.
var now = time.Now

// Track starts timing op and returns a function that logs the elapsed time
// at debug level when called:
//
//	defer timing.Track(logger, "save")()
func Track(logger *log.Logger, op string) func() {
	start := now()
	return func() {
		if logger == nil {
			return
		}
		logger.Debug("operation finished", "op", op, "elapsed", now().Sub(start).Round(time.Microsecond))
	}
}

// Measure runs fn and logs its duration and outcome.
func Measure(logger *log.Logger, op string, fn func() error) error {
	stop := Track(logger, op)
	err := fn()
	stop()
	if err != nil && logger != nil {
		logger.Debug("operation failed", "op", op, "err", err)
	}
	return err
}
