// Package notice carries the modal messages the workflows raise and the
// localized texts behind them.
package notice

import (
	"fmt"
	"io"
	"sync"
)

// Kind classifies a notice for presentation.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindBlocked Kind = "blocked"
)

// Notice is a single user-facing message.
type Notice struct {
	Kind    Kind
	Title   string
	Message string
}

func (n Notice) String() string {
	if n.Message == "" {
		return n.Title
	}
	if n.Title == "" {
		return n.Message
	}
	return n.Title + ": " + n.Message
}

// Notifier presents notices to the user.
type Notifier interface {
	Notify(Notice)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Notice)

func (f NotifierFunc) Notify(n Notice) { f(n) }

// Discard drops every notice.
var Discard Notifier = NotifierFunc(func(Notice) {})

// WriterNotifier prints notices line by line.
type WriterNotifier struct {
	mu  sync.Mutex
	out io.Writer
	err io.Writer
}

// NewWriterNotifier prints successes to out and everything else to errOut.
func NewWriterNotifier(out, errOut io.Writer) *WriterNotifier {
	return &WriterNotifier{out: out, err: errOut}
}

func (w *WriterNotifier) Notify(n Notice) {
	w.mu.Lock()
	defer w.mu.Unlock()
	target := w.err
	if n.Kind == KindSuccess {
		target = w.out
	}
	fmt.Fprintln(target, n.String())
}

// Recorder keeps every notice; used by tests and by callers that render
// notices themselves.
type Recorder struct {
	mu      sync.Mutex
	notices []Notice
}

func (r *Recorder) Notify(n Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, n)
}

// All returns a copy of the recorded notices.
func (r *Recorder) All() []Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notice(nil), r.notices...)
}

// Last returns the most recent notice.
func (r *Recorder) Last() (Notice, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.notices) == 0 {
		return Notice{}, false
	}
	return r.notices[len(r.notices)-1], true
}
