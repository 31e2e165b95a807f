package identity

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Change is emitted by File.Watch after the token file was rewritten or
// removed and the cached token dropped.
type Change struct {
	Path    string
	Removed bool
}

// Watch invalidates the cached token whenever the token file changes and
// reports each burst of changes on the returned channel until ctx is done.
// The parent directory is watched so that atomic rename-over writes are seen.
func (f *File) Watch(ctx context.Context) (<-chan Change, error) {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("identity: ensure token dir: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("identity: create watcher: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("identity: watch %s: %w", dir, err)
	}

	changes := make(chan Change, 8)
	target := filepath.Clean(f.path)

	go func() {
		var sendMu sync.Mutex
		closed := false
		defer func() {
			sendMu.Lock()
			closed = true
			close(changes)
			sendMu.Unlock()
		}()
		defer watcher.Close()

		send := func(c Change) {
			sendMu.Lock()
			defer sendMu.Unlock()
			if closed {
				return
			}
			select {
			case changes <- c:
			default:
				// Consumer is behind; the token is already invalidated.
			}
		}

		throttle := newChangeThrottle(100 * time.Millisecond)
		defer throttle.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
				// Unknown state, force a reread.
				f.Invalidate()
			case evt, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(evt.Name) != target {
					continue
				}
				f.Invalidate()
				removed := evt.Op&(fsnotify.Remove|fsnotify.Rename) != 0
				throttle.Enqueue(Change{Path: target, Removed: removed}, send)
			}
		}
	}()

	return changes, nil
}

// changeThrottle coalesces a burst of writes (truncate, write, chmod) into a
// single notification carrying the last observed state.
type changeThrottle struct {
	mu      sync.Mutex
	timer   *time.Timer
	pending *Change
	delay   time.Duration
}

func newChangeThrottle(delay time.Duration) *changeThrottle {
	return &changeThrottle{delay: delay}
}

func (t *changeThrottle) Enqueue(c Change, send func(Change)) {
	t.mu.Lock()
	t.pending = &c
	if t.timer == nil {
		t.timer = time.AfterFunc(t.delay, func() {
			t.flush(send)
		})
	}
	t.mu.Unlock()
}

func (t *changeThrottle) flush(send func(Change)) {
	t.mu.Lock()
	pending := t.pending
	t.pending = nil
	t.timer = nil
	t.mu.Unlock()

	if pending != nil {
		send(*pending)
	}
}

func (t *changeThrottle) Stop() {
	t.mu.Lock()
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.mu.Unlock()
}
