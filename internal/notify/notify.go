package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindInfo    Kind = "info"
	KindWarning Kind = "warning"
)

const DefaultDuration = 3 * time.Second

// Notification is a fire-and-forget message for the toast area of the view.
type Notification struct {
	ID       string `json:"id"`
	Kind     Kind   `json:"type"`
	Message  string `json:"message"`
	Duration int64  `json:"duration"` // milliseconds, 0 keeps it until dismissed
}

func New(kind Kind, message string, duration time.Duration) Notification {
	return Notification{
		ID:       uuid.NewString(),
		Kind:     kind,
		Message:  message,
		Duration: duration.Milliseconds(),
	}
}

type Notifier interface {
	Notify(n Notification)
}

// Recorder keeps every notification it receives.
type Recorder struct {
	mu    sync.Mutex
	items []Notification
}

func (that *Recorder) Notify(n Notification) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.items = append(that.items, n)
}

func (that *Recorder) All() []Notification {
	that.mu.Lock()
	defer that.mu.Unlock()

	return append([]Notification(nil), that.items...)
}

// Messages returns kind-prefixed messages, e.g. "error: Invalid move!".
func (that *Recorder) Messages() []string {
	that.mu.Lock()
	defer that.mu.Unlock()

	messages := make([]string, 0, len(that.items))
	for _, n := range that.items {
		messages = append(messages, string(n.Kind)+": "+n.Message)
	}

	return messages
}

func (that *Recorder) Clear() {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.items = nil
}
