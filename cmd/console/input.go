package main

import (
	"slices"
	"time"

	"github.com/jwebster45206/yingzhou/pkg/actor"
)

// Terminals report key presses and auto-repeats but never releases, so a
// movement key counts as held until no repeat has arrived for holdWindow.
const holdWindow = 400 * time.Millisecond

type intentTracker struct {
	hold     time.Duration
	lastSeen map[actor.Direction]time.Time
}

func newIntentTracker(hold time.Duration) *intentTracker {
	return &intentTracker{
		hold:     hold,
		lastSeen: make(map[actor.Direction]time.Time),
	}
}

// press records a key event for d. It reports true when d was not already
// held, meaning a BeginIntent is due.
func (t *intentTracker) press(d actor.Direction, now time.Time) bool {
	_, held := t.lastSeen[d]
	t.lastSeen[d] = now
	return !held
}

// expire releases every direction whose last key event is older than the
// hold window and returns them in direction order.
func (t *intentTracker) expire(now time.Time) []actor.Direction {
	var released []actor.Direction
	for d, seen := range t.lastSeen {
		if now.Sub(seen) > t.hold {
			released = append(released, d)
			delete(t.lastSeen, d)
		}
	}
	slices.Sort(released)
	return released
}

func (t *intentTracker) held() bool {
	return len(t.lastSeen) > 0
}

func (t *intentTracker) releaseAll() {
	clear(t.lastSeen)
}

var movementKeys = map[string]actor.Direction{
	"w": actor.Forward,
	"s": actor.Backward,
	"a": actor.Left,
	"d": actor.Right,
}

// View rotation per arrow key press, in input units (scaled by the player's
// mouse sensitivity).
const rotateStep = 25.0
