package worker

import (
	"sync"

	"github.com/jmehdipour/invest-backoffice/internal/kafka"
)

// offsetTracker lets workers finish messages in any order while offsets are
// committed per partition in fetch order. A message is committed only once
// every message fetched before it on the same partition is done.
type offsetTracker struct {
	mu    sync.Mutex
	parts map[int]*partitionOffsets
}

type partitionOffsets struct {
	pending []int64 // fetch order
	done    map[int64]kafka.Message
}

func newOffsetTracker() *offsetTracker {
	return &offsetTracker{parts: map[int]*partitionOffsets{}}
}

// add must be called before m is handed to a worker.
func (t *offsetTracker) add(m kafka.Message) {
	t.mu.Lock()
	defer t.mu.Unlock()

	p, ok := t.parts[m.Partition]
	if !ok {
		p = &partitionOffsets{done: map[int64]kafka.Message{}}
		t.parts[m.Partition] = p
	}
	p.pending = append(p.pending, m.Offset)
}

// done marks m finished and calls commit with the highest message of the
// finished prefix, if the prefix moved. commit runs under the tracker lock so
// commits of one partition never go backwards.
func (t *offsetTracker) done(m kafka.Message, commit func(kafka.Message)) {
	t.mu.Lock()
	defer t.mu.Unlock()

	p, ok := t.parts[m.Partition]
	if !ok {
		return
	}
	p.done[m.Offset] = m

	var last kafka.Message
	advanced := false
	for len(p.pending) > 0 {
		head, ok := p.done[p.pending[0]]
		if !ok {
			break
		}
		delete(p.done, p.pending[0])
		p.pending = p.pending[1:]
		last, advanced = head, true
	}
	if advanced {
		commit(last)
	}
}
