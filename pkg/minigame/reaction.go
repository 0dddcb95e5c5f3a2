package minigame

import (
	"math"
	"math/rand"
	"slices"
	"time"
)

const (
	reactionDuration = 30.0 // seconds
	spawnInterval    = 0.6
	minLifetime      = 1.5
	lifetimeSpread   = 1.0
	maxComboBonus    = 10
)

// Target is a digit on screen waiting to be pressed.
type Target struct {
	Digit    int
	Age      float64
	Lifetime float64
}

// ReactionRun is one play of a Reaction trial. Digits 1-9 appear every
// spawnInterval and fade after their lifetime; pressing a shown digit scores,
// pressing anything else or letting a digit fade is a miss.
type ReactionRun struct {
	rng *rand.Rand

	remaining float64
	spawnIn   float64
	targets   []Target

	hits, misses    int
	combo, maxCombo int
	score           int
	done            bool
	completion      int
}

// NewReactionRun starts a run. A nil rng is seeded from the clock.
func NewReactionRun(rng *rand.Rand) *ReactionRun {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &ReactionRun{rng: rng, remaining: reactionDuration, spawnIn: spawnInterval}
}

// Update advances the run's clock by dt seconds.
func (r *ReactionRun) Update(dt float64) {
	if r.done || math.IsNaN(dt) || math.IsInf(dt, 0) || dt <= 0 {
		return
	}
	dt = math.Min(dt, r.remaining)
	r.remaining -= dt

	kept := r.targets[:0]
	for _, t := range r.targets {
		t.Age += dt
		if t.Age > t.Lifetime {
			r.miss()
			continue
		}
		kept = append(kept, t)
	}
	r.targets = kept

	r.spawnIn -= dt
	for r.spawnIn <= 0 {
		r.spawn()
		r.spawnIn += spawnInterval
	}

	if r.remaining <= 0 {
		r.finish()
	}
}

func (r *ReactionRun) spawn() {
	free := make([]int, 0, 9)
	for d := 1; d <= 9; d++ {
		if !slices.ContainsFunc(r.targets, func(t Target) bool { return t.Digit == d }) {
			free = append(free, d)
		}
	}
	if len(free) == 0 {
		return
	}
	r.targets = append(r.targets, Target{
		Digit:    free[r.rng.Intn(len(free))],
		Lifetime: minLifetime + r.rng.Float64()*lifetimeSpread,
	})
}

// Hit presses digit and reports whether it matched a shown target.
func (r *ReactionRun) Hit(digit int) bool {
	if r.done {
		return false
	}
	i := slices.IndexFunc(r.targets, func(t Target) bool { return t.Digit == digit })
	if i < 0 {
		r.miss()
		return false
	}
	r.targets = slices.Delete(r.targets, i, i+1)
	r.hits++
	r.combo++
	r.maxCombo = max(r.maxCombo, r.combo)
	r.score += 10 + min(r.combo, maxComboBonus)*2
	return true
}

func (r *ReactionRun) miss() {
	r.misses++
	r.combo = 0
}

func (r *ReactionRun) finish() {
	r.done = true
	r.targets = nil
	accuracy := 0.0
	if total := r.hits + r.misses; total > 0 {
		accuracy = float64(r.hits) / float64(total) * 100
	}
	r.completion = min(100, int(math.Round(accuracy*0.6+float64(r.score)/200*40)))
}

// Targets lists the digits currently shown, oldest first.
func (r *ReactionRun) Targets() []Target { return slices.Clone(r.targets) }

func (r *ReactionRun) Remaining() float64 { return r.remaining }
func (r *ReactionRun) Hits() int          { return r.hits }
func (r *ReactionRun) Misses() int        { return r.misses }
func (r *ReactionRun) MaxCombo() int      { return r.maxCombo }
func (r *ReactionRun) Score() int         { return r.score }
func (r *ReactionRun) Done() bool         { return r.done }
func (r *ReactionRun) Completion() int    { return r.completion }
