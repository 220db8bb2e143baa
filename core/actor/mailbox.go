package actor

import (
	"errors"
	"fmt"

	"github.com/Workiva/go-datastructures/queue"
)

// mailbox is an unbounded multi-producer single-consumer FIFO of envelopes.
// Pushing never waits on the backlog; popping blocks while the mailbox is empty.
type mailbox struct {
	q *queue.Queue
}

func newMailbox(hint int) *mailbox {
	return &mailbox{q: queue.New(int64(hint))}
}

func (m *mailbox) push(e *envelope) error {
	if err := m.q.Put(e); err != nil {
		if errors.Is(err, queue.ErrDisposed) {
			return ErrDeadActor
		}
		return fmt.Errorf("enqueue failed: %w", err)
	}
	return nil
}

// pop blocks until an envelope is available. It returns ErrDeadActor once
// the mailbox has been disposed.
func (m *mailbox) pop() (*envelope, error) {
	for {
		items, err := m.q.Get(1)
		if err != nil {
			return nil, ErrDeadActor
		}
		if len(items) == 0 {
			continue
		}
		return items[0].(*envelope), nil
	}
}

func (m *mailbox) len() int { return int(m.q.Len()) }

// dispose closes the mailbox and returns every envelope that was never
// delivered to the loop.
func (m *mailbox) dispose() []*envelope {
	items := m.q.Dispose()
	out := make([]*envelope, 0, len(items))
	for _, it := range items {
		if e, ok := it.(*envelope); ok {
			out = append(out, e)
		}
	}
	return out
}
