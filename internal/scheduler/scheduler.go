package scheduler

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// TaskID identifies a scheduled task so it can be cancelled.
type TaskID string

type Scheduler interface {
	Schedule(delay time.Duration, task func()) TaskID
	Cancel(id TaskID) bool
}

// Timer runs each task once on its own goroutine after the delay.
type Timer struct {
	logger *slog.Logger

	mu     sync.Mutex
	timers map[TaskID]*time.Timer
}

func NewTimer(logger *slog.Logger) *Timer {
	return &Timer{
		logger: logger.With("component", "scheduler"),
		timers: make(map[TaskID]*time.Timer),
	}
}

func (that *Timer) Schedule(delay time.Duration, task func()) TaskID {
	id := TaskID(uuid.NewString())

	that.mu.Lock()
	defer that.mu.Unlock()

	that.timers[id] = time.AfterFunc(delay, func() {
		that.mu.Lock()
		_, pending := that.timers[id]
		delete(that.timers, id)
		that.mu.Unlock()

		if !pending {
			return
		}

		task()
	})

	that.logger.Debug("task scheduled", "task", id, "delay", delay)

	return id
}

// Cancel reports whether the task was still pending.
func (that *Timer) Cancel(id TaskID) bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	timer, ok := that.timers[id]
	if !ok {
		return false
	}

	delete(that.timers, id)
	timer.Stop()

	that.logger.Debug("task cancelled", "task", id)

	return true
}

func (that *Timer) Pending() int {
	that.mu.Lock()
	defer that.mu.Unlock()

	return len(that.timers)
}

// Stop cancels every pending task.
func (that *Timer) Stop() {
	that.mu.Lock()
	defer that.mu.Unlock()

	for id, timer := range that.timers {
		timer.Stop()
		delete(that.timers, id)
	}
}
