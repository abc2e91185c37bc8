package chess

import (
	"fmt"
	"time"
)

const DefaultClock = 600 * time.Second

// Clock keeps the time left for each side. Nothing decrements it: it is displayed, not enforced.
type Clock struct {
	White time.Duration `json:"white"`
	Black time.Duration `json:"black"`
}

func NewClock(initial time.Duration) Clock {
	if initial <= 0 {
		initial = DefaultClock
	}
	return Clock{White: initial, Black: initial}
}

func (c Clock) Left(color Color) time.Duration {
	if color == White {
		return c.White
	}
	return c.Black
}

// FormatClock renders whole seconds as m:ss.
func FormatClock(d time.Duration) string {
	seconds := int(d / time.Second)
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
