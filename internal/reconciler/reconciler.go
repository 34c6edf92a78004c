// Package reconciler turns a stream of live scroll and playback reports into
// rate-limited writes to the progress store.
//
// Each page (normalized URL) is a session with two states. Idle: the next
// report arms a timer and moves to Pending. Pending: reports only replace
// the latest value; the timer is not re-armed. When the timer fires the
// latest value is written, and the session returns to Idle once that write
// has completed.
package reconciler

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/MrSnakeDoc/readmark/internal/domain"
	"github.com/MrSnakeDoc/readmark/internal/events"
	"github.com/MrSnakeDoc/readmark/internal/logger"
	"github.com/MrSnakeDoc/readmark/internal/progress"
)

// DefaultDelay is the debounce window.
const DefaultDelay = 500 * time.Millisecond

// writeTimeout bounds a single store write.
const writeTimeout = 5 * time.Second

var (
	// ErrStopped is returned by Observe after Stop.
	ErrStopped = errors.New("reconciler stopped")
	// ErrMissingURL rejects reports that name no page.
	ErrMissingURL = errors.New("progress update url is required")
)

// Writer persists a progress update.
type Writer interface {
	UpdateProgress(ctx context.Context, u domain.ProgressUpdate) (*domain.Bookmark, error)
}

// Publisher receives a notification after each successful write.
type Publisher interface {
	Publish(e events.Event) int
}

type session struct {
	latest domain.ProgressUpdate
	seq    uint64 // bumped on every report
	timer  *time.Timer
}

// Reconciler coalesces progress reports per page.
type Reconciler struct {
	mu       sync.Mutex
	sessions map[string]*session // normalized URL -> pending session
	closed   bool
	wg       sync.WaitGroup

	delay  time.Duration
	writer Writer
	notify Publisher
	log    logger.Logger
}

// New creates a Reconciler. notify may be nil.
func New(writer Writer, notify Publisher, delay time.Duration, log logger.Logger) *Reconciler {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Reconciler{
		sessions: make(map[string]*session),
		delay:    delay,
		writer:   writer,
		notify:   notify,
		log:      log,
	}
}

// Observe records a report. It never blocks on the store.
func (r *Reconciler) Observe(u domain.ProgressUpdate) error {
	key := domain.NormalizeURL(u.URL)
	if key == "" {
		return ErrMissingURL
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrStopped
	}

	s, ok := r.sessions[key]
	if !ok {
		s = &session{}
		r.sessions[key] = s
	}
	s.latest = u
	s.seq++

	if s.timer == nil {
		r.arm(key, s)
	}
	return nil
}

// arm schedules the write for a session. Caller holds r.mu.
func (r *Reconciler) arm(key string, s *session) {
	r.wg.Add(1)
	s.timer = time.AfterFunc(r.delay, func() { r.fire(key) })
}

// fire writes the latest value of a session.
func (r *Reconciler) fire(key string) {
	defer r.wg.Done()

	for {
		r.mu.Lock()
		s, ok := r.sessions[key]
		if !ok {
			r.mu.Unlock()
			return
		}
		u, seq := s.latest, s.seq
		r.mu.Unlock()

		r.write(u)

		r.mu.Lock()
		if s.seq == seq {
			delete(r.sessions, key)
			r.mu.Unlock()
			return
		}
		if r.closed {
			// Newer value arrived during the write; flush it now.
			r.mu.Unlock()
			continue
		}
		r.wg.Add(1)
		s.timer = time.AfterFunc(r.delay, func() { r.fire(key) })
		r.mu.Unlock()
		return
	}
}

func (r *Reconciler) write(u domain.ProgressUpdate) {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()

	b, err := r.writer.UpdateProgress(ctx, u)
	if err != nil {
		if errors.Is(err, progress.ErrNotFound) {
			r.log.Debug("progress for unsaved page ignored", logger.String("url", u.URL))
			return
		}
		r.log.Error("failed to write progress",
			logger.String("url", u.URL),
			logger.Error(err))
		return
	}

	r.log.Debug("progress written",
		logger.String("id", b.ID),
		logger.Float64("progress", b.Progress()))

	if r.notify != nil {
		p := b.Progress()
		r.notify.Publish(events.Event{
			Type:       events.BookmarkUpdated,
			BookmarkID: b.ID,
			URL:        b.URL,
			Progress:   &p,
		})
	}
}

// Pending returns the number of sessions with an armed or running write
func (r *Reconciler) Pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.sessions)
}

// Stop rejects further reports, flushes pending sessions immediately and
// waits for in-flight writes until ctx is done.
func (r *Reconciler) Stop(ctx context.Context) error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true

	var flush []string
	for key, s := range r.sessions {
		if s.timer != nil && s.timer.Stop() {
			flush = append(flush, key)
		}
	}
	r.mu.Unlock()

	for _, key := range flush {
		r.fire(key)
	}

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		r.log.Info("progress reconciler stopped", logger.Int("flushed", len(flush)))
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
