package minigame

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hitAll(r *ReactionRun) {
	for _, tg := range r.Targets() {
		r.Hit(tg.Digit)
	}
}

func TestReactionRun_PerfectRun(t *testing.T) {
	r := NewReactionRun(rand.New(rand.NewSource(1)))
	for i := 0; i < 10000 && !r.Done(); i++ {
		r.Update(0.05)
		hitAll(r)
	}

	require.True(t, r.Done())
	assert.Zero(t, r.Misses())
	assert.GreaterOrEqual(t, r.Hits(), 45)
	assert.Equal(t, r.Hits(), r.MaxCombo())
	assert.Equal(t, 100, r.Completion())
	assert.Empty(t, r.Targets())
}

func TestReactionRun_IdleRunMissesEverything(t *testing.T) {
	r := NewReactionRun(rand.New(rand.NewSource(2)))
	for i := 0; i < 10000 && !r.Done(); i++ {
		r.Update(0.1)
	}

	require.True(t, r.Done())
	assert.Zero(t, r.Hits())
	assert.Positive(t, r.Misses())
	assert.Equal(t, 0, r.Completion())
}

func TestReactionRun_ComboBonusIsCapped(t *testing.T) {
	r := NewReactionRun(rand.New(rand.NewSource(3)))
	for i := 0; i < 1000 && r.Hits() < 12; i++ {
		r.Update(0.1)
		if tg := r.Targets(); len(tg) > 0 {
			r.Hit(tg[0].Digit)
		}
	}

	require.Equal(t, 12, r.Hits())
	// hits 1-10 earn 10+2n, hits 11 and 12 earn the capped 30.
	assert.Equal(t, 270, r.Score())
}

func TestReactionRun_WrongKeyBreaksCombo(t *testing.T) {
	r := NewReactionRun(rand.New(rand.NewSource(4)))
	for r.Hits() < 2 {
		r.Update(0.1)
		hitAll(r)
	}
	require.Empty(t, r.Targets())

	assert.False(t, r.Hit(5))
	assert.Equal(t, 1, r.Misses())

	for r.Hits() < 3 {
		r.Update(0.1)
		hitAll(r)
	}
	assert.Equal(t, 2, r.MaxCombo())
}

func TestReactionRun_IgnoresBadDelta(t *testing.T) {
	r := NewReactionRun(nil)
	for _, dt := range []float64{math.NaN(), math.Inf(1), -1, 0} {
		r.Update(dt)
	}
	assert.Equal(t, reactionDuration, r.Remaining())
	assert.Empty(t, r.Targets())
}

func TestReactionRun_SpawnsOnInterval(t *testing.T) {
	r := NewReactionRun(rand.New(rand.NewSource(5)))
	r.Update(0.5)
	assert.Empty(t, r.Targets())
	r.Update(0.2)
	require.Len(t, r.Targets(), 1)
	tg := r.Targets()[0]
	assert.GreaterOrEqual(t, tg.Digit, 1)
	assert.LessOrEqual(t, tg.Digit, 9)
	assert.GreaterOrEqual(t, tg.Lifetime, minLifetime)
}
