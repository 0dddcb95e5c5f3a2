package actor

import (
	"math"
	"testing"

	"github.com/jwebster45206/yingzhou/pkg/dialogue"
	"github.com/jwebster45206/yingzhou/pkg/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistry_FixedLayout(t *testing.T) {
	r := NewRegistry()
	require.Equal(t, 5, r.Len())

	want := []struct {
		id  string
		v   dialogue.Variant
		pos geom.Vec3
	}{
		{"archivist", dialogue.Archivist, geom.Vec3{X: 20}},
		{"architect", dialogue.Architect, geom.Vec3{Z: -20}},
		{"mercantile", dialogue.Mercantile, geom.Vec3{}},
		{"oracle", dialogue.Oracle, geom.Vec3{Z: 20}},
		{"forgotten", dialogue.Forgotten, geom.Vec3{X: -20}},
	}
	for i, w := range want {
		n := r.NPCs()[i]
		assert.Equal(t, w.id, n.ID)
		assert.Equal(t, w.v, n.Variant)
		assert.Equal(t, w.pos, n.Position)
		assert.False(t, n.Nearby)
	}
}

func TestRegistry_UpdateProximity(t *testing.T) {
	r := NewRegistry()

	r.UpdateProximity(geom.Vec3{X: 17, Y: 2, Z: 0})
	a, _ := r.ByID("archivist")
	assert.True(t, a.Nearby, "distance ~3.6 is in range")
	for _, n := range r.NPCs() {
		if n.ID != "archivist" {
			assert.False(t, n.Nearby, "%s should be out of range", n.ID)
		}
	}

	// Exactly on the radius is out of range.
	r.UpdateProximity(geom.Vec3{X: 15, Y: 0, Z: 0})
	assert.False(t, a.Nearby)

	r.UpdateProximity(geom.Vec3{X: 100, Y: 0, Z: 100})
	for _, n := range r.NPCs() {
		assert.False(t, n.Nearby)
	}
}

func TestRegistry_FindNearestInRange(t *testing.T) {
	r := NewRegistry()

	t.Run("none in range", func(t *testing.T) {
		n, ok := r.FindNearestInRange(geom.Vec3{X: 100, Y: 0, Z: 100})
		assert.False(t, ok)
		assert.Nil(t, n)
	})

	t.Run("spawn point is out of range", func(t *testing.T) {
		_, ok := r.FindNearestInRange(SpawnPoint)
		assert.False(t, ok, "spawn (0,2,10) is 10.2 from mercantile and oracle")
	})

	t.Run("single candidate", func(t *testing.T) {
		n, ok := r.FindNearestInRange(geom.Vec3{X: 0, Y: 2, Z: 17})
		require.True(t, ok)
		assert.Equal(t, "oracle", n.ID)
	})

	t.Run("nearest wins", func(t *testing.T) {
		n, ok := r.FindNearestInRange(geom.Vec3{X: 1, Y: 0, Z: 1})
		require.True(t, ok)
		assert.Equal(t, "mercantile", n.ID)
	})
}

func TestRegistry_FindNearestTieGoesToFirst(t *testing.T) {
	// Two NPCs equidistant from the query: registration order breaks the tie.
	r := &Registry{npcs: []*NPC{
		{ID: "first", Position: geom.Vec3{X: 2}},
		{ID: "second", Position: geom.Vec3{X: -2}},
	}}
	n, ok := r.FindNearestInRange(geom.Vec3{})
	require.True(t, ok)
	assert.Equal(t, "first", n.ID)
}

func TestRegistry_Interact(t *testing.T) {
	var hooked []string
	r := NewRegistry(WithInteractHook(func(n *NPC) {
		hooked = append(hooked, n.ID)
	}))

	n, _ := r.ByID("oracle")
	r.Interact(n)
	r.Interact(n)
	r.Interact(nil)

	assert.Equal(t, 2, n.Interactions)
	assert.Equal(t, []string{"oracle", "oracle"}, hooked)
}

func TestRegistry_ByID(t *testing.T) {
	r := NewRegistry()
	n, ok := r.ByID("forgotten")
	require.True(t, ok)
	assert.Equal(t, "遗忘者", n.Name())

	_, ok = r.ByID("nobody")
	assert.False(t, ok)
}

func TestNPC_TickRotation(t *testing.T) {
	n := &NPC{}
	n.TickRotation(1)
	assert.InDelta(t, 30, n.Rotation, 1e-9)

	n.TickRotation(11) // 30 + 330 = 360 wraps to 0
	assert.InDelta(t, 0, n.Rotation, 1e-9)

	n.TickRotation(25) // 750 degrees of spin
	assert.InDelta(t, 30, n.Rotation, 1e-9)
	assert.Less(t, n.Rotation, 360.0)

	n.TickRotation(-1)
	assert.InDelta(t, 30, n.Rotation, 1e-9)

	n.TickRotation(1e308)
	assert.False(t, math.IsNaN(n.Rotation) || math.IsInf(n.Rotation, 0))
	assert.GreaterOrEqual(t, n.Rotation, 0.0)
	assert.Less(t, n.Rotation, 360.0)
}

func TestNPC_Respond(t *testing.T) {
	r := NewRegistry()
	n, _ := r.ByID("archivist")
	assert.Contains(t, n.Respond("创世的故事"), "Block #0")
}

func TestRegistry_TickRotationIndependentOfProximity(t *testing.T) {
	r := NewRegistry()
	r.UpdateProximity(geom.Vec3{X: 20})
	r.TickRotation(2)
	for _, n := range r.NPCs() {
		assert.InDelta(t, 60, n.Rotation, 1e-9)
	}
}
