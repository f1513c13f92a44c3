package usecases

import (
	"context"
	"sync"

	"github.com/disgoorg/snowflake/v2"
)

const mailboxSize = 64

// mailbox runs closures for one guild, one at a time, in submission order.
type mailbox struct {
	ops  chan func()
	done chan struct{}
}

func newMailbox() *mailbox {
	m := &mailbox{
		ops:  make(chan func(), mailboxSize),
		done: make(chan struct{}),
	}
	go m.run()
	return m
}

func (m *mailbox) run() {
	for {
		select {
		case op := <-m.ops:
			op()
		case <-m.done:
			return
		}
	}
}

// mailboxes owns one mailbox per guild. Mailboxes are created on first use
// and live until close.
type mailboxes struct {
	mu     sync.Mutex
	boxes  map[snowflake.ID]*mailbox
	closed bool
}

func newMailboxes() *mailboxes {
	return &mailboxes{
		boxes: make(map[snowflake.ID]*mailbox),
	}
}

func (m *mailboxes) get(guildID snowflake.ID) (*mailbox, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, false
	}

	box, ok := m.boxes[guildID]
	if !ok {
		box = newMailbox()
		m.boxes[guildID] = box
	}
	return box, true
}

// exec runs fn in the guild's mailbox and waits for its result.
// If ctx is cancelled after fn was accepted, fn still runs to completion.
func (m *mailboxes) exec(ctx context.Context, guildID snowflake.ID, fn func() error) error {
	box, ok := m.get(guildID)
	if !ok {
		return ErrShutdown
	}

	result := make(chan error, 1)
	select {
	case box.ops <- func() { result <- fn() }:
	case <-box.done:
		return ErrShutdown
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-result:
		return err
	case <-box.done:
		return ErrShutdown
	case <-ctx.Done():
		return ctx.Err()
	}
}

// post schedules fn in the guild's mailbox without waiting for it to run.
func (m *mailboxes) post(guildID snowflake.ID, fn func()) bool {
	box, ok := m.get(guildID)
	if !ok {
		return false
	}

	select {
	case box.ops <- fn:
		return true
	case <-box.done:
		return false
	}
}

// len returns the number of live mailboxes.
func (m *mailboxes) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.boxes)
}

// close stops every mailbox. Closures still queued are dropped.
func (m *mailboxes) close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return
	}
	m.closed = true
	for _, box := range m.boxes {
		close(box.done)
	}
	m.boxes = nil
}
