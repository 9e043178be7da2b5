// Package concurrency implements a bounded worker pool used to process
// independent coefficient slots in parallel.
package concurrency

import (
	"sync"
)

// Pool runs tasks on at most width concurrent workers and retains the first
// error any task returns. Tasks must be independent of each other.
type Pool struct {
	wg      sync.WaitGroup
	tokens  chan struct{}
	errOnce sync.Once
	err     error
}

// NewPool returns a pool running at most width tasks concurrently.
// A width below one is treated as one.
func NewPool(width int) *Pool {
	if width < 1 {
		width = 1
	}
	return &Pool{tokens: make(chan struct{}, width)}
}

// Run schedules f on the pool. It blocks while all workers are busy.
func (p *Pool) Run(f func() error) {
	p.tokens <- struct{}{}
	p.wg.Add(1)
	go func() {
		defer func() {
			<-p.tokens
			p.wg.Done()
		}()
		if err := f(); err != nil {
			p.errOnce.Do(func() { p.err = err })
		}
	}()
}

// Wait blocks until every scheduled task has finished and returns the first
// error encountered, if any.
func (p *Pool) Wait() error {
	p.wg.Wait()
	return p.err
}
