// Package worker runs the post-commit notification sink: a bounded queue
// with a fixed worker pool, fully decoupled from the request path. A slow
// broker or cache can delay notifications, never a commit or a webhook ack.
package worker

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/Dev-Ahmed-Ashraf/Hotel-Booking-API-sub000/internal/domain"
)

type Publisher interface {
	PublishJSON(ctx context.Context, key string, v any) error
}

type CacheInvalidator interface {
	InvalidateCachePrefix(ctx context.Context, prefix string) error
}

type job struct {
	event  *domain.Event
	prefix string
}

type Sink struct {
	pub   Publisher
	cache CacheInvalidator
	jobs  chan job
	wg    sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

// NewSink starts the worker pool. Either collaborator may be nil; the
// corresponding jobs become no-ops, which keeps tests and partial deploys
// simple.
func NewSink(pub Publisher, cache CacheInvalidator, queueSize, workers int) *Sink {
	if queueSize <= 0 {
		queueSize = 256
	}
	if workers <= 0 {
		workers = 4
	}
	s := &Sink{pub: pub, cache: cache, jobs: make(chan job, queueSize)}
	for i := 0; i < workers; i++ {
		s.wg.Add(1)
		go s.run()
	}
	return s
}

// PublishDomainEvent enqueues without blocking. When the queue is full the
// event is dropped with a warning: notifications are best-effort and the
// authoritative state change has already committed.
func (s *Sink) PublishDomainEvent(evt domain.Event) {
	s.enqueue(job{event: &evt})
}

func (s *Sink) InvalidateCachePrefix(prefix string) {
	s.enqueue(job{prefix: prefix})
}

func (s *Sink) enqueue(j job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	select {
	case s.jobs <- j:
	default:
		if j.event != nil {
			log.Printf("[notify] queue full, dropping event %s", j.event.Key)
		} else {
			log.Printf("[notify] queue full, dropping invalidation %s", j.prefix)
		}
	}
}

func (s *Sink) run() {
	defer s.wg.Done()
	for j := range s.jobs {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if j.event != nil && s.pub != nil {
			if err := s.pub.PublishJSON(ctx, j.event.Key, j.event.Payload); err != nil {
				log.Printf("[notify] publish %s failed: %v", j.event.Key, err)
			}
		}
		if j.prefix != "" && s.cache != nil {
			if err := s.cache.InvalidateCachePrefix(ctx, j.prefix); err != nil {
				log.Printf("[notify] invalidate %s failed: %v", j.prefix, err)
			}
		}
		cancel()
	}
}

// Close drains the queue and stops the workers.
func (s *Sink) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()
	close(s.jobs)
	s.wg.Wait()
}
