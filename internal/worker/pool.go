// Package worker runs the pipeline over queued events.
package worker

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/pocketlist/push-fanout/internal/pipeline"
	"github.com/pocketlist/push-fanout/internal/queue"
)

// Pool manages identical workers that pull events off the priority queue
// and run the fan-out pipeline. Workers share nothing but the queue, so
// events for different lists process fully in parallel.
type Pool struct {
	size   int
	q      *queue.PriorityQueue
	router *pipeline.Router
	logger *zap.Logger
	wg     sync.WaitGroup
}

func NewPool(size int, q *queue.PriorityQueue, router *pipeline.Router, logger *zap.Logger) *Pool {
	if size <= 0 {
		size = 1
	}
	return &Pool{size: size, q: q, router: router, logger: logger}
}

// Start launches all workers as goroutines. Cancelling ctx triggers a
// graceful shutdown of the entire pool.
func (p *Pool) Start(ctx context.Context) {
	for i := 0; i < p.size; i++ {
		p.wg.Add(1)
		go func(id int) {
			defer p.wg.Done()
			p.run(ctx, id)
		}(i)
	}
}

// Wait blocks until every worker has returned after ctx is cancelled.
// Call this after cancelling the context so in-flight events finish.
func (p *Pool) Wait() {
	p.wg.Wait()
}

func (p *Pool) run(ctx context.Context, id int) {
	log := p.logger.With(zap.Int("worker_id", id))
	log.Info("worker started")
	for {
		ev, ok := p.q.Dequeue(ctx)
		if !ok {
			log.Info("worker stopping")
			return
		}
		p.router.Handle(ctx, ev)
	}
}
