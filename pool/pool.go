// Package pool runs triggered scripts off the hotkey delivery goroutines.
//
// Submissions land in an unbounded FIFO and return immediately; a fixed set
// of workers drains it. A script task only spawns the process, so a long
// running script never holds a worker.
package pool

import (
	"errors"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/eapache/queue"

	"dispatch/log"
)

// ErrClosed is returned by Submit after Close.
var ErrClosed = errors.New("pool closed")

// Task is a unit of work to execute.
type Task func()

// SpawnFunc starts one script. It must not wait for the script to finish.
type SpawnFunc func(script string) error

type Option func(*Pool)

// WithSpawner replaces the process spawner, mostly for tests.
func WithSpawner(fn SpawnFunc) Option {
	return func(p *Pool) { p.spawn = fn }
}

// Pool is safe for concurrent use by any number of submitters.
type Pool struct {
	mu      sync.Mutex
	cond    *sync.Cond
	backlog *queue.Queue
	closed  bool
	wg      sync.WaitGroup
	spawn   SpawnFunc
	workers int

	submitted atomic.Int64
	completed atomic.Int64
	failed    atomic.Int64
}

// Stats is a snapshot of pool counters.
type Stats struct {
	Workers   int
	Submitted int64
	Completed int64
	Failed    int64
	Pending   int
}

// New starts a pool. If workers <= 0, defaults to runtime.NumCPU().
func New(workers int, opts ...Option) *Pool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	p := &Pool{
		backlog: queue.New(),
		spawn:   Spawn,
		workers: workers,
	}
	p.cond = sync.NewCond(&p.mu)
	for _, opt := range opts {
		opt(p)
	}
	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go p.run()
	}
	return p
}

// Submit enqueues task without blocking on worker availability.
func (p *Pool) Submit(task Task) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return ErrClosed
	}
	p.backlog.Add(task)
	p.mu.Unlock()
	p.submitted.Add(1)
	p.cond.Signal()
	return nil
}

// Execute submits script for asynchronous execution. Failures are logged and
// otherwise dropped.
func (p *Pool) Execute(script string) {
	err := p.Submit(func() {
		if err := p.spawn(script); err != nil {
			p.failed.Add(1)
			log.SpawnFailed(script, err)
		}
	})
	if err != nil {
		log.Warnf("dropped %q: %v", script, err)
	}
}

// Close stops accepting work and drops anything still queued. Already
// spawned processes keep running and are not waited on.
func (p *Pool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	dropped := p.backlog.Length()
	p.backlog = queue.New()
	p.mu.Unlock()
	p.cond.Broadcast()
	p.wg.Wait()
	if dropped > 0 {
		log.Warnf("pool closed with %d pending task(s) dropped", dropped)
	}
}

func (p *Pool) Stats() Stats {
	p.mu.Lock()
	pending := p.backlog.Length()
	p.mu.Unlock()
	return Stats{
		Workers:   p.workers,
		Submitted: p.submitted.Load(),
		Completed: p.completed.Load(),
		Failed:    p.failed.Load(),
		Pending:   pending,
	}
}

func (p *Pool) run() {
	defer p.wg.Done()
	for {
		p.mu.Lock()
		for p.backlog.Length() == 0 && !p.closed {
			p.cond.Wait()
		}
		if p.closed {
			p.mu.Unlock()
			return
		}
		task := p.backlog.Remove().(Task)
		p.mu.Unlock()

		p.execute(task)
	}
}

// execute runs the task, recovering from panics to keep the worker alive.
func (p *Pool) execute(task Task) {
	defer func() {
		if r := recover(); r != nil {
			log.Errorf("task panic: %v", r)
		}
		p.completed.Add(1)
	}()
	task()
}
