package storage

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

const DefaultWatchInterval = 500 * time.Millisecond

// Watcher polls a ChangeSource and delivers writes made by other origins.
// Delivery never blocks the poll loop; changes that do not fit the buffer are
// counted in Dropped.
type Watcher struct {
	source   ChangeSource
	interval time.Duration
	logger   *zap.Logger

	mu      sync.Mutex
	out     chan Change
	stopCh  chan struct{}
	doneCh  chan struct{}
	started bool
	stopped bool
	cursor  int64
	dropped uint64
}

func NewWatcher(source ChangeSource, interval time.Duration, bufferSize int, logger *zap.Logger) *Watcher {
	if interval <= 0 {
		interval = DefaultWatchInterval
	}
	if bufferSize <= 0 {
		bufferSize = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Watcher{
		source:   source,
		interval: interval,
		logger:   logger,
		out:      make(chan Change, bufferSize),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

func (w *Watcher) C() <-chan Change {
	return w.out
}

// Start records the current revision and begins polling. Writes made before
// Start are not reported.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return errors.New("storage: watcher stopped")
	}
	if w.started {
		return nil
	}
	rev, err := w.source.Revision(ctx)
	if err != nil {
		return err
	}
	w.cursor = rev
	w.started = true
	go w.loop()
	return nil
}

func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.started || w.stopped {
		w.stopped = true
		w.mu.Unlock()
		return
	}
	w.stopped = true
	close(w.stopCh)
	w.mu.Unlock()
	<-w.doneCh
}

func (w *Watcher) Dropped() uint64 {
	return atomic.LoadUint64(&w.dropped)
}

func (w *Watcher) loop() {
	defer close(w.doneCh)
	defer close(w.out)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			w.poll()
		case <-w.stopCh:
			return
		}
	}
}

func (w *Watcher) poll() {
	ctx, cancel := context.WithTimeout(context.Background(), w.interval*4)
	defer cancel()

	changes, err := w.source.ChangesSince(ctx, w.cursor)
	if err != nil {
		w.logger.Warn("poll store changes", zap.Error(err))
		return
	}
	own := w.source.Origin()
	for _, ch := range changes {
		if ch.Revision > w.cursor {
			w.cursor = ch.Revision
		}
		if ch.Origin == own {
			continue
		}
		select {
		case w.out <- ch:
		default:
			atomic.AddUint64(&w.dropped, 1)
		}
	}
}
