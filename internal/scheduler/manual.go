package scheduler

import (
	"strconv"
	"sync"
	"time"
)

// Manual holds tasks until RunPending is called. Delays are recorded but not waited on.
type Manual struct {
	mu     sync.Mutex
	nextID int
	tasks  []manualTask
}

type manualTask struct {
	id    TaskID
	delay time.Duration
	run   func()
}

func NewManual() *Manual {
	return &Manual{}
}

func (that *Manual) Schedule(delay time.Duration, task func()) TaskID {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.nextID++
	id := TaskID("manual-" + strconv.Itoa(that.nextID))
	that.tasks = append(that.tasks, manualTask{id: id, delay: delay, run: task})

	return id
}

func (that *Manual) Cancel(id TaskID) bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	for i, task := range that.tasks {
		if task.id == id {
			that.tasks = append(that.tasks[:i], that.tasks[i+1:]...)
			return true
		}
	}

	return false
}

func (that *Manual) Pending() int {
	that.mu.Lock()
	defer that.mu.Unlock()

	return len(that.tasks)
}

// Delays returns the delays of the pending tasks in scheduling order.
func (that *Manual) Delays() []time.Duration {
	that.mu.Lock()
	defer that.mu.Unlock()

	delays := make([]time.Duration, 0, len(that.tasks))
	for _, task := range that.tasks {
		delays = append(delays, task.delay)
	}

	return delays
}

// RunPending runs the tasks pending at call time and returns how many ran.
// Tasks scheduled while running are kept for the next call.
func (that *Manual) RunPending() int {
	that.mu.Lock()
	tasks := that.tasks
	that.tasks = nil
	that.mu.Unlock()

	for _, task := range tasks {
		task.run()
	}

	return len(tasks)
}
