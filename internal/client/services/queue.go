package services

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/dmitrijs2005/tadpole/internal/client/metrics"
	"github.com/dmitrijs2005/tadpole/internal/common"
	"github.com/dmitrijs2005/tadpole/internal/logging"
	"github.com/google/uuid"
)

const defaultQueueSize = 16

const (
	cmdQueued int32 = iota
	cmdRunning
	cmdAbandoned
)

// command is one unit of work for the queue worker. state moves from
// cmdQueued to either cmdRunning (worker) or cmdAbandoned (cancelled caller),
// never both.
type command struct {
	id    string
	op    string
	ctx   context.Context
	run   func(ctx context.Context) error
	done  chan error
	state atomic.Int32
}

// commandQueue executes commands one at a time on a single worker goroutine,
// in submission order.
type commandQueue struct {
	mu     sync.RWMutex
	closed bool

	cmds chan *command
	wg   sync.WaitGroup

	log     logging.Logger
	metrics *metrics.Metrics
}

func newCommandQueue(size int, log logging.Logger, m *metrics.Metrics) *commandQueue {
	if size <= 0 {
		size = defaultQueueSize
	}
	q := &commandQueue{
		cmds:    make(chan *command, size),
		log:     log.With("module", "queue"),
		metrics: m,
	}
	q.wg.Add(1)
	go q.loop()
	return q
}

// submit enqueues fn and waits for its result. When ctx is cancelled while
// the command is still queued, submit returns ctx.Err() and the worker skips
// it. A command the worker has already started runs to completion and its
// result is returned, so a committed write is never reported as cancelled.
func (q *commandQueue) submit(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	cmd := &command{
		id:   uuid.NewString(),
		op:   op,
		ctx:  ctx,
		run:  fn,
		done: make(chan error, 1),
	}

	q.mu.RLock()
	if q.closed {
		q.mu.RUnlock()
		return common.ErrQueueClosed
	}
	q.metrics.QueueInc()
	select {
	case q.cmds <- cmd:
	case <-ctx.Done():
		q.metrics.QueueDec()
		q.mu.RUnlock()
		return ctx.Err()
	}
	q.mu.RUnlock()

	select {
	case err := <-cmd.done:
		return err
	case <-ctx.Done():
		if cmd.state.CompareAndSwap(cmdQueued, cmdAbandoned) || cmd.state.Load() == cmdAbandoned {
			q.log.Debug(ctx, "command abandoned", "command_id", cmd.id, "op", op)
			return ctx.Err()
		}
		return <-cmd.done
	}
}

func (q *commandQueue) loop() {
	defer q.wg.Done()

	for cmd := range q.cmds {
		q.metrics.QueueDec()

		if err := cmd.ctx.Err(); err != nil || !cmd.state.CompareAndSwap(cmdQueued, cmdRunning) {
			cmd.state.Store(cmdAbandoned)
			q.log.Debug(cmd.ctx, "skipping cancelled command", "command_id", cmd.id, "op", cmd.op)
			cmd.done <- cmd.ctx.Err()
			continue
		}

		cmd.done <- cmd.run(cmd.ctx)
	}
}

// Close stops accepting commands, lets the worker drain what is already
// queued and waits for it to exit. Safe to call more than once.
func (q *commandQueue) Close() {
	q.mu.Lock()
	if !q.closed {
		q.closed = true
		close(q.cmds)
	}
	q.mu.Unlock()

	q.wg.Wait()
}
