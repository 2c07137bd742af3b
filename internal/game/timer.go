package game

import (
	"time"

	"github.com/coder/quartz"
)

// TurnTimer enforces a per-turn time limit. The engine itself never reads a
// clock; the transport arms the timer when it prompts a player and folds
// them through its own goroutine when the callback fires, keeping the table
// single-writer.
type TurnTimer struct {
	clock    quartz.Clock
	duration time.Duration
	onExpire func(playerID string)

	timer *quartz.Timer
}

// NewTurnTimer creates a turn timer. onExpire runs on the clock's goroutine
// and receives the player whose turn expired; it must hand off to the
// goroutine that owns the table rather than mutate it directly.
func NewTurnTimer(clock quartz.Clock, duration time.Duration, onExpire func(playerID string)) *TurnTimer {
	return &TurnTimer{
		clock:    clock,
		duration: duration,
		onExpire: onExpire,
	}
}

// Arm starts the countdown for the given player, replacing any countdown
// already running.
func (t *TurnTimer) Arm(playerID string) {
	t.Disarm()
	t.timer = t.clock.AfterFunc(t.duration, func() {
		t.onExpire(playerID)
	})
}

// Disarm cancels the countdown, if any. Safe to call when nothing is armed.
func (t *TurnTimer) Disarm() {
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}
