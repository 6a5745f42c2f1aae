// Package parallel provides the worker pool that runs pipeline kernels
// over row bands of an image.
package parallel

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// WorkerPool is a pool of goroutines for data-parallel pixel work.
//
// Work items are distributed round-robin across per-worker queues; idle
// workers steal from their neighbors, which keeps the pool balanced when
// some bands are more expensive than others (a common case here: image
// regions with long velocity vectors take more reconstruction samples).
//
// Thread safety: WorkerPool is safe for concurrent use.
type WorkerPool struct {
	workers    int
	workQueues []chan func()
	done       chan struct{}
	wg         sync.WaitGroup
	running    atomic.Bool
}

// NewWorkerPool creates a pool with the given number of workers.
// If workers is 0 or negative, GOMAXPROCS is used.
func NewWorkerPool(workers int) *WorkerPool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	queueSize := workers * 4
	if queueSize < 8 {
		queueSize = 8
	}

	p := &WorkerPool{
		workers:    workers,
		workQueues: make([]chan func(), workers),
		done:       make(chan struct{}),
	}
	for i := 0; i < workers; i++ {
		p.workQueues[i] = make(chan func(), queueSize)
	}

	p.running.Store(true)
	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go p.worker(i)
	}
	return p
}

func (p *WorkerPool) worker(id int) {
	defer p.wg.Done()

	myQueue := p.workQueues[id]
	for {
		select {
		case <-p.done:
			p.drain(myQueue)
			return
		case work := <-myQueue:
			if work != nil {
				work()
			}
		default:
			if stolen := p.steal(id); stolen != nil {
				stolen()
				continue
			}
			select {
			case <-p.done:
				p.drain(myQueue)
				return
			case work := <-myQueue:
				if work != nil {
					work()
				}
			}
		}
	}
}

func (p *WorkerPool) drain(queue chan func()) {
	for {
		select {
		case work := <-queue:
			if work != nil {
				work()
			}
		default:
			return
		}
	}
}

// steal takes one work item from another worker's queue, or returns nil.
func (p *WorkerPool) steal(myID int) func() {
	for i := 0; i < p.workers; i++ {
		if i == myID {
			continue
		}
		select {
		case work := <-p.workQueues[i]:
			return work
		default:
		}
	}
	return nil
}

// ExecuteAll distributes work across workers and waits for completion.
// If the pool is closed, remaining work is skipped.
func (p *WorkerPool) ExecuteAll(work []func()) {
	if len(work) == 0 || !p.running.Load() {
		return
	}

	var wg sync.WaitGroup
	wg.Add(len(work))

	for i, fn := range work {
		workFn := fn
		wrapped := func() {
			defer wg.Done()
			workFn()
		}
		select {
		case p.workQueues[i%p.workers] <- wrapped:
		case <-p.done:
			wg.Done()
		}
	}
	wg.Wait()
}

// ForRows splits the half-open row range [0, height) into bands and runs
// fn(y0, y1) for each band on the pool, returning when every band is done.
// Bands are sized so each worker gets several, letting the stealer smooth
// out uneven per-row cost. With a closed or nil pool the range runs inline
// on the calling goroutine.
func (p *WorkerPool) ForRows(height int, fn func(y0, y1 int)) {
	if height <= 0 {
		return
	}
	if p == nil || !p.running.Load() {
		fn(0, height)
		return
	}

	bands := p.workers * 4
	if bands > height {
		bands = height
	}
	if bands <= 1 {
		fn(0, height)
		return
	}

	step := (height + bands - 1) / bands
	work := make([]func(), 0, bands)
	for y := 0; y < height; y += step {
		y0, y1 := y, y+step
		if y1 > height {
			y1 = height
		}
		work = append(work, func() { fn(y0, y1) })
	}
	p.ExecuteAll(work)
}

// Close shuts the pool down, waiting for queued work to finish.
// Close is safe to call multiple times.
func (p *WorkerPool) Close() {
	if !p.running.CompareAndSwap(true, false) {
		return
	}
	close(p.done)
	p.wg.Wait()
}

// Workers returns the number of workers in the pool.
func (p *WorkerPool) Workers() int { return p.workers }

// IsRunning returns true if the pool is still accepting work.
func (p *WorkerPool) IsRunning() bool { return p.running.Load() }
