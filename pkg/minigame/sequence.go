package minigame

import (
	"math/rand"
	"strings"
	"time"
)

const (
	sequenceLevels = 5
	sequenceLives  = 3
)

// SequenceRun is one play of a Recall trial: each level shows level+2 random
// digits which must be typed back in order. A wrong answer costs a life and
// replays the level with fresh digits.
type SequenceRun struct {
	rng *rand.Rand

	level      int
	lives      int
	score      int
	digits     string
	done       bool
	completion int
}

// NewSequenceRun starts at level 1. A nil rng is seeded from the clock.
func NewSequenceRun(rng *rand.Rand) *SequenceRun {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	r := &SequenceRun{rng: rng, level: 1, lives: sequenceLives}
	r.deal()
	return r
}

func (r *SequenceRun) deal() {
	var b strings.Builder
	for range r.level + 2 {
		b.WriteByte(byte('0' + r.rng.Intn(10)))
	}
	r.digits = b.String()
}

// Sequence is the digits to memorise for the current round.
func (r *SequenceRun) Sequence() string { return r.digits }

func (r *SequenceRun) Level() int      { return r.level }
func (r *SequenceRun) Lives() int      { return r.lives }
func (r *SequenceRun) Score() int      { return r.score }
func (r *SequenceRun) Done() bool      { return r.done }
func (r *SequenceRun) Completion() int { return r.completion }

// Answer checks a typed sequence against the current round and reports
// whether it was right. Answers after the run ended are ignored.
func (r *SequenceRun) Answer(input string) bool {
	if r.done {
		return false
	}
	if strings.TrimSpace(input) == r.digits {
		r.score += r.level*10 + len(r.digits)*5
		if r.level >= sequenceLevels {
			r.finish(100)
			return true
		}
		r.level++
		r.deal()
		return true
	}

	r.lives--
	if r.lives <= 0 {
		r.finish(r.level * 100 / sequenceLevels)
		return false
	}
	r.deal()
	return false
}

func (r *SequenceRun) finish(completion int) {
	r.done = true
	r.completion = completion
}
