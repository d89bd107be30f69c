package notify

import "sync"

// Deferred queues notifications until Flush is called. The render loop
// flushes after each screen is drawn so nothing is shown from inside a render.
type Deferred struct {
	mu    sync.Mutex
	next  Notifier
	queue []Notice
}

func NewDeferred(next Notifier) *Deferred {
	return &Deferred{next: next}
}

// Notify queues the notice.
func (d *Deferred) Notify(level Level, msg string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.queue = append(d.queue, Notice{Level: level, Message: msg})
}

// Flush delivers queued notices in order and returns how many were sent.
func (d *Deferred) Flush() int {
	d.mu.Lock()
	queued := d.queue
	d.queue = nil
	d.mu.Unlock()

	for _, n := range queued {
		d.next.Notify(n.Level, n.Message)
	}
	return len(queued)
}

// Pending returns the number of queued notices.
func (d *Deferred) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.queue)
}
