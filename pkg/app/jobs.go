package app

import (
	"context"
	"sync"
	"time"

	"github.com/Qendolin/rfid-scan-logger/pkg/logging"
)

const (
	jobQueueSize = 64
	drainTimeout = 5 * time.Second
)

type job struct {
	name string
	run  func(ctx context.Context)
}

// jobQueue runs jobs one at a time in submission order on its own goroutine.
type jobQueue struct {
	jobs chan job
}

func newJobQueue() *jobQueue {
	return &jobQueue{jobs: make(chan job, jobQueueSize)}
}

// start runs the loop until ctx is done. Jobs still queued at that point are
// run with a short grace period before the loop exits.
func (q *jobQueue) start(ctx context.Context, wg *sync.WaitGroup) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case j := <-q.jobs:
				q.run(ctx, j)
			case <-ctx.Done():
				q.drain()
				return
			}
		}
	}()
}

func (q *jobQueue) drain() {
	ctx, cancel := context.WithTimeout(context.Background(), drainTimeout)
	defer cancel()
	for {
		select {
		case j := <-q.jobs:
			q.run(ctx, j)
		default:
			return
		}
	}
}

func (q *jobQueue) run(ctx context.Context, j job) {
	defer func() {
		if r := recover(); r != nil {
			logging.Errorf("App: Job '%s' panicked: %v", j.name, r)
		}
	}()
	logging.Debugf("App: Running job '%s'.", j.name)
	j.run(ctx)
}

// submit queues fn. It returns false if ctx ended before there was room.
func (q *jobQueue) submit(ctx context.Context, name string, fn func(ctx context.Context)) bool {
	if ctx.Err() != nil {
		logging.Warnf("App: Dropping job '%s', shutting down.", name)
		return false
	}
	select {
	case q.jobs <- job{name: name, run: fn}:
		return true
	case <-ctx.Done():
		logging.Warnf("App: Dropping job '%s', shutting down.", name)
		return false
	}
}
