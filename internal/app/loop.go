package app

import (
	"context"
	"sync"
	"sync/atomic"

	"lezat-lumer/internal/logger"

	"go.uber.org/zap"
)

const (
	jobQueued int32 = iota
	jobStarted
	jobDropped
)

type job struct {
	ctx   context.Context
	fn    func(ctx context.Context)
	done  chan struct{}
	state *atomic.Int32
}

// Loop runs submitted functions one at a time on a single goroutine, so the
// session it serves needs no locking.
type Loop struct {
	jobs chan job
	quit chan struct{}
	wg   sync.WaitGroup
	once sync.Once
}

func NewLoop(buffer int) *Loop {
	l := &Loop{
		jobs: make(chan job, buffer),
		quit: make(chan struct{}),
	}
	l.wg.Add(1)
	go l.run()
	return l
}

// Submit queues fn and waits until it has run. When ctx ends before fn starts,
// fn is dropped and ctx.Err() is returned. Once fn has started Submit waits for
// it and returns nil, so the caller always sees the effects of a command that ran.
func (l *Loop) Submit(ctx context.Context, fn func(ctx context.Context)) error {
	j := job{ctx: ctx, fn: fn, done: make(chan struct{}), state: new(atomic.Int32)}

	select {
	case <-l.quit:
		return ErrSessionClosed
	case <-ctx.Done():
		return ctx.Err()
	case l.jobs <- j:
	}

	select {
	case <-j.done:
	case <-l.quit:
		if j.state.CompareAndSwap(jobQueued, jobDropped) {
			return ErrSessionClosed
		}
		<-j.done
	case <-ctx.Done():
		if j.state.CompareAndSwap(jobQueued, jobDropped) {
			return ctx.Err()
		}
		<-j.done
	}

	if j.state.Load() == jobDropped {
		return ctx.Err()
	}
	return nil
}

// Stop ends the loop after the running job, if any. Queued jobs are dropped.
func (l *Loop) Stop() {
	l.once.Do(func() { close(l.quit) })
	l.wg.Wait()
}

func (l *Loop) run() {
	defer l.wg.Done()

	for {
		select {
		case <-l.quit:
			return
		case j := <-l.jobs:
			l.exec(j)
		}
	}
}

func (l *Loop) exec(j job) {
	defer close(j.done)
	defer func() {
		if r := recover(); r != nil {
			logger.FromCtx(j.ctx).Error("session command panicked", zap.Any("panic", r))
		}
	}()

	if !j.state.CompareAndSwap(jobQueued, jobStarted) {
		return
	}
	if j.ctx.Err() != nil {
		j.state.Store(jobDropped)
		return
	}
	j.fn(j.ctx)
}
