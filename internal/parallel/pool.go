// Package parallel runs batches of independent decode jobs on a fixed set of
// worker goroutines.
package parallel

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// Task is a unit of work. It receives the index of the worker running it,
// in [0, Workers()), so callers can keep per-worker state such as a decoder
// that must not be shared between goroutines.
type Task func(worker int)

// WorkerPool is a pool of goroutines with one queue per worker.
//
// Tasks are assigned round-robin; an idle worker steals from the other
// queues, so one slow image does not hold up the rest of a batch.
//
// Thread safety: WorkerPool is safe for concurrent use. A given worker index
// runs at most one task at a time.
type WorkerPool struct {
	workers int
	queues  []chan Task
	done    chan struct{}
	wg      sync.WaitGroup
	running atomic.Bool
}

// NewWorkerPool starts a pool with the given number of workers.
// If workers is 0 or negative, GOMAXPROCS is used.
func NewWorkerPool(workers int) *WorkerPool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	queueSize := max(workers*4, 8)

	p := &WorkerPool{
		workers: workers,
		queues:  make([]chan Task, workers),
		done:    make(chan struct{}),
	}
	for i := range workers {
		p.queues[i] = make(chan Task, queueSize)
	}
	p.running.Store(true)

	p.wg.Add(workers)
	for i := range workers {
		go p.worker(i)
	}
	return p
}

func (p *WorkerPool) worker(id int) {
	defer p.wg.Done()
	own := p.queues[id]

	for {
		select {
		case <-p.done:
			p.drain(id)
			return
		case task := <-own:
			task(id)
		default:
			if task := p.steal(id); task != nil {
				task(id)
				continue
			}
			select {
			case <-p.done:
				p.drain(id)
				return
			case task := <-own:
				task(id)
			}
		}
	}
}

// drain runs whatever is left in the worker's own queue.
func (p *WorkerPool) drain(id int) {
	for {
		select {
		case task := <-p.queues[id]:
			task(id)
		default:
			return
		}
	}
}

// steal takes one task from another worker's queue, or returns nil.
func (p *WorkerPool) steal(id int) Task {
	for i := range p.workers {
		if i == id {
			continue
		}
		select {
		case task := <-p.queues[i]:
			return task
		default:
		}
	}
	return nil
}

// ExecuteAll runs every task and waits for all of them to finish.
// Nil tasks are skipped. If the pool is closed, ExecuteAll returns at once.
func (p *WorkerPool) ExecuteAll(tasks []Task) {
	if len(tasks) == 0 || !p.running.Load() {
		return
	}

	var wg sync.WaitGroup
	for i, task := range tasks {
		if task == nil {
			continue
		}
		wg.Add(1)
		wrapped := func(worker int) {
			defer wg.Done()
			task(worker)
		}
		select {
		case p.queues[i%p.workers] <- wrapped:
		case <-p.done:
			wg.Done()
		}
	}
	wg.Wait()
}

// Close stops accepting work, lets queued tasks finish and stops the
// workers. Close is safe to call multiple times.
func (p *WorkerPool) Close() {
	if !p.running.CompareAndSwap(true, false) {
		return
	}
	close(p.done)
	p.wg.Wait()
}

// Workers returns the number of workers in the pool.
func (p *WorkerPool) Workers() int {
	return p.workers
}

// IsRunning reports whether the pool still accepts work.
func (p *WorkerPool) IsRunning() bool {
	return p.running.Load()
}
