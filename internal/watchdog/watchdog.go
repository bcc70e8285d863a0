// Package watchdog bounds a long-running worker loop: if nothing calls Kick
// within the configured timeout, Done's channel closes and the caller is
// expected to abandon whatever it was waiting on.
package watchdog

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Watchdog monitors activity and closes a channel if no activity is recorded within the timeout.
type Watchdog struct {
	timeout time.Duration
	log     logrus.FieldLogger
	timer   *time.Timer
	doneCh  chan struct{}
	once    sync.Once
	mu      sync.Mutex
	running bool
}

// New creates a new Watchdog. If timeout is <= 0, the watchdog is inert and
// never times out, which lets the Import Driver be called with no bound at
// all.
func New(timeout time.Duration, log logrus.FieldLogger) *Watchdog {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Watchdog{
		timeout: timeout,
		log:     log,
		doneCh:  make(chan struct{}),
	}
}

// Start begins the monitoring. It returns a channel that will be closed on timeout.
func (w *Watchdog) Start() <-chan struct{} {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return w.doneCh
	}
	w.running = true

	if w.timeout <= 0 {
		return w.doneCh
	}

	w.timer = time.AfterFunc(w.timeout, w.close)

	return w.doneCh
}

// Kick resets the timeout. The Import Driver calls this once per file so a
// job with many small files doesn't trip the watchdog between files, only
// if a single file's sanitize+execute step genuinely stalls.
func (w *Watchdog) Kick() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running || w.timer == nil {
		return
	}

	select {
	case <-w.doneCh:
		return
	default:
	}

	w.timer.Reset(w.timeout)
}

// Stop stops the watchdog preventing the timeout from firing.
func (w *Watchdog) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
}

// Done returns the channel that closes on timeout.
func (w *Watchdog) Done() <-chan struct{} {
	return w.doneCh
}

func (w *Watchdog) close() {
	w.once.Do(func() {
		w.log.WithField("timeout", w.timeout).Warn("watchdog timeout triggered")
		close(w.doneCh)
	})
}
