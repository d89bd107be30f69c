// Package notify delivers transient user notifications.
package notify

import (
	"fmt"
	"io"
	"sync"
)

type Level int

const (
	Info Level = iota
	Error
)

func (l Level) String() string {
	if l == Error {
		return "error"
	}
	return "info"
}

// Notice is a single notification.
type Notice struct {
	Level   Level
	Message string
}

// Notifier shows a notification to the user.
type Notifier interface {
	Notify(level Level, msg string)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(level Level, msg string)

func (f NotifierFunc) Notify(level Level, msg string) { f(level, msg) }

// Toaster writes notifications as single lines to w.
type Toaster struct {
	mu sync.Mutex
	w  io.Writer
}

func NewToaster(w io.Writer) *Toaster {
	return &Toaster{w: w}
}

func (t *Toaster) Notify(level Level, msg string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	prefix := "i"
	if level == Error {
		prefix = "!"
	}
	_, _ = fmt.Fprintf(t.w, "[%s] %s\n", prefix, msg)
}

// Recorder keeps every notice in memory.
type Recorder struct {
	mu      sync.Mutex
	notices []Notice
}

func (r *Recorder) Notify(level Level, msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, Notice{Level: level, Message: msg})
}

// Notices returns a copy of everything recorded so far.
func (r *Recorder) Notices() []Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notice(nil), r.notices...)
}
