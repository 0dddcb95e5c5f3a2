package main

import (
	"testing"

	"github.com/jwebster45206/yingzhou/pkg/epoch"
	"github.com/jwebster45206/yingzhou/pkg/geom"
	"github.com/jwebster45206/yingzhou/pkg/minigame"
	"github.com/jwebster45206/yingzhou/pkg/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestYawTowards(t *testing.T) {
	origin := geom.Vec3{}
	tests := []struct {
		name string
		to   geom.Vec3
		want float64
	}{
		{"north is -z", geom.Vec3{Z: -5}, 0},
		{"east is +x", geom.Vec3{X: 5}, 90},
		{"south is +z", geom.Vec3{Z: 5}, 180},
		{"west is -x", geom.Vec3{X: -5}, 270},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, yawTowards(origin, tt.to), 1e-9)
		})
	}
}

func TestTurnBetween(t *testing.T) {
	tests := []struct {
		a, b, want float64
	}{
		{0, 90, 90},
		{90, 0, -90},
		{350, 10, 20},
		{10, 350, -20},
		{0, 180, 180},
		{180, 0, 180},
		{45, 45, 0},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, turnBetween(tt.a, tt.b), 1e-9, "turnBetween(%v, %v)", tt.a, tt.b)
	}
}

func TestPilot_DefaultRoute(t *testing.T) {
	p := newPilot()
	assert.Equal(t, []string{"archivist", "architect", "mercantile", "oracle", "forgotten"}, p.route)
}

func TestPilot_UnknownStopIsSkipped(t *testing.T) {
	s := state.NewSession()
	p := newPilot("nobody")

	events, visited := p.plan(s.Snapshot())
	assert.Empty(t, events)
	assert.Empty(t, visited)
	assert.True(t, p.done())
}

func TestRun_TourReachesCollapse(t *testing.T) {
	s := state.NewSession()
	var seen []string

	visits := run(s, newPilot(), 3600, 1.0/60, func(v visit) {
		seen = append(seen, v.npc)
		assert.NotEmpty(t, v.reply, "reply from %s", v.npc)
	})

	require.Equal(t, 5, visits)
	assert.Equal(t, []string{"archivist", "architect", "mercantile", "oracle", "forgotten"}, seen)

	snap := s.Snapshot()
	assert.Equal(t, epoch.Collapse, snap.World.Epoch)
	assert.Equal(t, 9, snap.World.Fragments)
	assert.Equal(t, "forgotten", snap.Selected)
	assert.Equal(t, []string{"memory-sort", "snake", "maze", "breakout", "reaction"}, snap.MiniGames)
	for _, key := range []string{"0", "1", "2", "3", "4"} {
		assert.Contains(t, snap.Collected, key, "trial reward %s", key)
	}

	rec := s.Export()
	assert.Contains(t, rec.UnlockedDialogues, "archivist/0")
	assert.Contains(t, rec.UnlockedDialogues, "forgotten/0")
}

func TestPlayTrial_PassesEveryGame(t *testing.T) {
	for _, g := range minigame.All() {
		t.Run(g.ID, func(t *testing.T) {
			assert.True(t, minigame.Passed(playTrial(g)))
		})
	}
}

func TestRun_StopsWhenOutOfTicks(t *testing.T) {
	s := state.NewSession()
	visits := run(s, newPilot(), 10, 1.0/60, nil)

	assert.Zero(t, visits)
	assert.Equal(t, uint64(10), s.Snapshot().Tick)
	assert.Equal(t, epoch.Genesis, s.Snapshot().World.Epoch)
}
