// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/munch-sync/internal/logger"
)

// blockingWorker counts its runs and waits for ctx.
type blockingWorker struct {
	runs    atomic.Int32
	stopped atomic.Int32
}

func (b *blockingWorker) Run(ctx context.Context) error {
	b.runs.Add(1)
	<-ctx.Done()
	b.stopped.Add(1)
	return nil
}

func TestWorkers_Run_AllWorkersAreStartedAndStopped(t *testing.T) {
	w1, w2, w3 := &blockingWorker{}, &blockingWorker{}, &blockingWorker{}
	ws := NewWorkers(logger.Nop(), w1, w2, w3)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- ws.Run(ctx) }()

	assert.Eventually(t, func() bool {
		return w1.runs.Load()+w2.runs.Load()+w3.runs.Load() == 3
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("workers did not stop")
	}

	for i, w := range []*blockingWorker{w1, w2, w3} {
		assert.Equal(t, int32(1), w.stopped.Load(), "worker[%d]", i)
	}
}

func TestWorkers_Run_FailureCancelsOthers(t *testing.T) {
	boom := errors.New("boom")
	peer := &blockingWorker{}
	failing := WorkerFunc(func(context.Context) error { return boom })

	err := NewWorkers(logger.Nop(), peer, failing).Run(context.Background())

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, int32(1), peer.stopped.Load())
}

func TestWorkers_Run_Empty(t *testing.T) {
	assert.NoError(t, NewWorkers(logger.Nop()).Run(context.Background()))
	assert.NoError(t, (&Workers{logger: logger.Nop()}).Run(context.Background()))
}

func TestWorkerFunc(t *testing.T) {
	var called bool
	f := WorkerFunc(func(ctx context.Context) error {
		called = true
		return ctx.Err()
	})

	require.NoError(t, f.Run(context.Background()))
	assert.True(t, called)
}
