package actor

import (
	"math"
	"math/rand"
	"testing"

	"github.com/jwebster45206/yingzhou/pkg/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPlayer_Spawn(t *testing.T) {
	p := NewPlayer()
	assert.Equal(t, geom.Vec3{X: 0, Y: 2, Z: 10}, p.Position)
	assert.Equal(t, geom.Vec3{}, p.Velocity)
	assert.Zero(t, p.Yaw)
	assert.Zero(t, p.Pitch)
	assert.True(t, p.Grounded())
	assert.False(t, p.Moving())
}

func TestPlayer_ForwardTickAtSpawn(t *testing.T) {
	p := NewPlayer()
	p.SetIntent(Forward, true)
	p.Update(0.1)

	// Gravity pulled y to 2 - 0.05, which the ground clip restores.
	assert.InDelta(t, 0, p.Position.X, 1e-12)
	assert.Equal(t, GroundLevel, p.Position.Y)
	assert.InDelta(t, 10-MoveSpeed, p.Position.Z, 1e-12)

	assert.InDelta(t, 0, p.Velocity.X, 1e-12)
	assert.Equal(t, 0.0, p.Velocity.Y, "clip zeroes vertical velocity")
	assert.InDelta(t, -MoveSpeed, p.Velocity.Z, 1e-12)
	assert.False(t, p.Jumping)
}

func TestPlayer_HorizontalStepIgnoresDelta(t *testing.T) {
	// Horizontal displacement is per tick regardless of dt.
	for _, dt := range []float64{0.001, 0.016, 0.1} {
		p := NewPlayer()
		p.SetIntent(Right, true)
		p.Update(dt)
		assert.InDelta(t, MoveSpeed, p.Position.X, 1e-12, "dt=%v", dt)
	}
}

func TestPlayer_MovementFollowsYaw(t *testing.T) {
	p := NewPlayer()
	p.RotateView(90/MouseSensitivity, 0) // yaw = 90
	require.InDelta(t, 90, p.Yaw, 1e-9)

	p.SetIntent(Forward, true)
	p.Update(0.016)
	assert.InDelta(t, MoveSpeed, p.Position.X, 1e-9)
	assert.InDelta(t, 10, p.Position.Z, 1e-9)
}

func TestPlayer_DiagonalIsNormalised(t *testing.T) {
	p := NewPlayer()
	p.SetIntent(Forward, true)
	p.SetIntent(Left, true)
	p.Update(0.016)

	horizontal := math.Hypot(p.Velocity.X, p.Velocity.Z)
	assert.InDelta(t, MoveSpeed, horizontal, 1e-12)
}

func TestPlayer_OpposingIntentsCancel(t *testing.T) {
	p := NewPlayer()
	p.SetIntent(Forward, true)
	p.SetIntent(Backward, true)
	p.Update(0.016)
	assert.Equal(t, SpawnPoint.X, p.Position.X)
	assert.Equal(t, SpawnPoint.Z, p.Position.Z)
}

func TestPlayer_StopAllIntentsZeroesHorizontal(t *testing.T) {
	p := NewPlayer()
	p.SetIntent(Left, true)
	p.Update(0.016)
	require.NotZero(t, p.Velocity.X)

	p.StopAllIntents()
	p.Update(0.016)
	assert.Zero(t, p.Velocity.X)
	assert.Zero(t, p.Velocity.Z)
	for _, d := range []Direction{Forward, Backward, Left, Right} {
		assert.False(t, p.Intent(d))
	}
}

func TestPlayer_Jump(t *testing.T) {
	p := NewPlayer()

	require.True(t, p.Jump())
	assert.Equal(t, JumpForce, p.Velocity.Y)
	assert.True(t, p.Jumping)

	p.Update(0.1)
	require.Greater(t, p.Position.Y, GroundLevel)
	vy := p.Velocity.Y

	for i := 0; i < 5; i++ {
		assert.False(t, p.Jump(), "airborne jump must be a no-op")
		assert.Equal(t, vy, p.Velocity.Y)
	}

	landed := false
	for i := 0; i < 200; i++ {
		p.Update(0.1)
		assert.GreaterOrEqual(t, p.Position.Y, GroundLevel)
		if !p.Jumping {
			landed = true
			break
		}
	}
	require.True(t, landed, "player should land")
	assert.Equal(t, GroundLevel, p.Position.Y)
	assert.Zero(t, p.Velocity.Y)
	assert.True(t, p.Jump(), "grounded again, jump allowed")
}

func TestPlayer_JumpRequiresGround(t *testing.T) {
	p := NewPlayer()
	p.Position.Y = GroundLevel + 1
	assert.False(t, p.Jump())
	assert.Zero(t, p.Velocity.Y)

	p.Position.Y = GroundLevel + GroundedEpsilon/2
	assert.True(t, p.Jump(), "within tolerance counts as grounded")
}

func TestPlayer_RotateView(t *testing.T) {
	tests := []struct {
		name      string
		dx, dy    float64
		wantYaw   float64
		wantPitch float64
	}{
		{"small right turn", 50, 0, 10, 0},
		{"left turn wraps", -10, 0, 358, 0},
		{"full circles wrap", 3600 + 25, 0, 5, 0},
		{"large negative wraps", -3600*3 + 50, 0, 10, 0},
		{"pitch clamps up", 0, 1000, 0, 89},
		{"pitch clamps down", 0, -1000, 0, -89},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPlayer()
			p.RotateView(tt.dx, tt.dy)
			assert.InDelta(t, tt.wantYaw, p.Yaw, 1e-9)
			assert.InDelta(t, tt.wantPitch, p.Pitch, 1e-9)
		})
	}
}

func TestPlayer_RejectsNonFiniteInput(t *testing.T) {
	p := NewPlayer()
	p.SetIntent(Forward, true)

	p.RotateView(math.NaN(), 0)
	p.RotateView(0, math.Inf(1))
	p.Update(math.NaN())
	p.Update(math.Inf(1))
	p.Update(-1)

	assert.Equal(t, SpawnPoint, p.Position)
	assert.Zero(t, p.Yaw)
	assert.Zero(t, p.Pitch)
	assert.True(t, p.Position.IsFinite())
}

// Randomised sequences of intents, jumps and view deltas must preserve the
// ground clip and the yaw/pitch ranges after every call.
func TestPlayer_InvariantsUnderRandomInput(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	p := NewPlayer()

	for i := 0; i < 5000; i++ {
		switch rng.Intn(5) {
		case 0:
			p.SetIntent(Direction(rng.Intn(4)), rng.Intn(2) == 0)
		case 1:
			p.Jump()
		case 2:
			p.RotateView(rng.Float64()*4000-2000, rng.Float64()*800-400)
		case 3:
			p.StopAllIntents()
		}
		p.Update(rng.Float64() * 0.25)

		if p.Position.Y < GroundLevel {
			t.Fatalf("step %d: y=%v below ground", i, p.Position.Y)
		}
		if p.Yaw < 0 || p.Yaw >= 360 {
			t.Fatalf("step %d: yaw %v out of range", i, p.Yaw)
		}
		if p.Pitch < -PitchLimit || p.Pitch > PitchLimit {
			t.Fatalf("step %d: pitch %v out of range", i, p.Pitch)
		}
	}
}

func TestParseDirection(t *testing.T) {
	d, ok := ParseDirection(" Left ")
	assert.True(t, ok)
	assert.Equal(t, Left, d)

	_, ok = ParseDirection("up")
	assert.False(t, ok)
	assert.Equal(t, "direction(9)", Direction(9).String())
}
