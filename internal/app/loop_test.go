package app

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoop_SerializesJobs(t *testing.T) {
	l := NewLoop(4)
	defer l.Stop()

	var (
		mu      sync.Mutex
		running int
		maxSeen int
		total   int
	)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := l.Submit(context.Background(), func(context.Context) {
				mu.Lock()
				running++
				if running > maxSeen {
					maxSeen = running
				}
				mu.Unlock()

				time.Sleep(time.Millisecond)

				mu.Lock()
				running--
				total++
				mu.Unlock()
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxSeen)
	assert.Equal(t, 20, total)
}

func TestLoop_SubmitAfterStop(t *testing.T) {
	l := NewLoop(1)
	l.Stop()
	l.Stop()

	err := l.Submit(context.Background(), func(context.Context) {})
	assert.ErrorIs(t, err, ErrSessionClosed)
}

func TestLoop_ContextCancelled(t *testing.T) {
	l := NewLoop(1)
	defer l.Stop()

	started := make(chan struct{})
	release := make(chan struct{})
	go func() {
		_ = l.Submit(context.Background(), func(context.Context) {
			close(started)
			<-release
		})
	}()
	<-started

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := l.Submit(ctx, func(context.Context) {})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	close(release)
}

func TestLoop_WaitsForStartedJob(t *testing.T) {
	l := NewLoop(1)
	defer l.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	started := make(chan struct{})
	finished := false

	errc := make(chan error, 1)
	go func() {
		errc <- l.Submit(ctx, func(context.Context) {
			close(started)
			time.Sleep(20 * time.Millisecond)
			finished = true
		})
	}()
	<-started
	cancel()

	require.NoError(t, <-errc)
	assert.True(t, finished, "Submit returned before the job finished")
}

func TestLoop_CancelledBeforeStartIsSkipped(t *testing.T) {
	l := NewLoop(2)
	defer l.Stop()

	started := make(chan struct{})
	release := make(chan struct{})
	go func() {
		_ = l.Submit(context.Background(), func(context.Context) {
			close(started)
			<-release
		})
	}()
	<-started

	ctx, cancel := context.WithCancel(context.Background())
	ran := make(chan struct{}, 1)
	errc := make(chan error, 1)
	go func() {
		errc <- l.Submit(ctx, func(context.Context) { ran <- struct{}{} })
	}()

	time.Sleep(10 * time.Millisecond)
	cancel()
	assert.ErrorIs(t, <-errc, context.Canceled)

	close(release)
	require.NoError(t, l.Submit(context.Background(), func(context.Context) {}))
	assert.Empty(t, ran)
}

func TestLoop_RecoversFromPanic(t *testing.T) {
	l := NewLoop(1)
	defer l.Stop()

	require.NoError(t, l.Submit(context.Background(), func(context.Context) { panic("boom") }))

	ran := false
	require.NoError(t, l.Submit(context.Background(), func(context.Context) { ran = true }))
	assert.True(t, ran)
}
