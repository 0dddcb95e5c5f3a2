package actor

import (
	"fmt"
	"math"
	"strings"

	"github.com/jwebster45206/yingzhou/pkg/geom"
)

// Player tuning. Horizontal speed is a per-tick displacement, not per second.
const (
	MoveSpeed        = 0.1
	JumpForce        = 0.3
	Gravity          = -0.5
	MouseSensitivity = 0.2
	GroundLevel      = 2.0
	GroundedEpsilon  = 0.1
	PitchLimit       = 89.0
)

// SpawnPoint is where every session starts.
var SpawnPoint = geom.Vec3{X: 0, Y: GroundLevel, Z: 10}

// Direction is a movement intent relative to the player's facing.
type Direction int

const (
	Forward Direction = iota
	Backward
	Left
	Right
)

var directionNames = [...]string{"forward", "backward", "left", "right"}

func (d Direction) Valid() bool {
	return d >= Forward && d <= Right
}

func (d Direction) String() string {
	if !d.Valid() {
		return fmt.Sprintf("direction(%d)", int(d))
	}
	return directionNames[d]
}

func ParseDirection(s string) (Direction, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, n := range directionNames {
		if n == s {
			return Direction(i), true
		}
	}
	return 0, false
}

// Player is the first-person avatar. Yaw is kept in [0, 360) and pitch in
// [-89, 89]; Position.Y never ends an update below GroundLevel.
type Player struct {
	Position geom.Vec3
	Velocity geom.Vec3
	Yaw      float64 // degrees
	Pitch    float64 // degrees
	Jumping  bool

	intents [4]bool
}

func NewPlayer() *Player {
	return &Player{Position: SpawnPoint}
}

// SetIntent raises or clears one movement flag.
func (p *Player) SetIntent(d Direction, active bool) {
	if !d.Valid() {
		return
	}
	p.intents[d] = active
}

func (p *Player) Intent(d Direction) bool {
	if !d.Valid() {
		return false
	}
	return p.intents[d]
}

// Moving reports whether any movement flag is raised.
func (p *Player) Moving() bool {
	for _, on := range p.intents {
		if on {
			return true
		}
	}
	return false
}

func (p *Player) StopAllIntents() {
	p.intents = [4]bool{}
}

// Grounded reports whether the player stands on the ground plane.
func (p *Player) Grounded() bool {
	return math.Abs(p.Position.Y-GroundLevel) < GroundedEpsilon
}

// Jump launches the player when grounded and not already mid-jump. It reports
// whether the jump happened.
func (p *Player) Jump() bool {
	if p.Jumping || !p.Grounded() {
		return false
	}
	p.Velocity.Y = JumpForce
	p.Jumping = true
	return true
}

// RotateView turns the camera by input-layer deltas. Non-finite deltas are
// dropped.
func (p *Player) RotateView(dx, dy float64) {
	if !geom.IsFinite(dx) || !geom.IsFinite(dy) {
		return
	}
	p.Yaw += dx * MouseSensitivity
	p.Pitch = math.Max(-PitchLimit, math.Min(PitchLimit, p.Pitch+dy*MouseSensitivity))

	for p.Yaw < 0 {
		p.Yaw += 360
	}
	for p.Yaw >= 360 {
		p.Yaw -= 360
	}
}

// Update integrates one tick. Gravity is scaled by dt; the horizontal
// velocity is a fixed per-tick step of MoveSpeed and is not.
func (p *Player) Update(dt float64) {
	if !geom.IsFinite(dt) || dt < 0 {
		return
	}

	var moveX, moveZ float64
	if p.intents[Forward] {
		moveZ--
	}
	if p.intents[Backward] {
		moveZ++
	}
	if p.intents[Left] {
		moveX--
	}
	if p.intents[Right] {
		moveX++
	}

	if moveX != 0 || moveZ != 0 {
		rad := p.Yaw * math.Pi / 180
		cos, sin := math.Cos(rad), math.Sin(rad)
		worldX := moveX*cos - moveZ*sin
		worldZ := moveX*sin + moveZ*cos
		if l := math.Hypot(worldX, worldZ); l > 0 {
			p.Velocity.X = worldX / l * MoveSpeed
			p.Velocity.Z = worldZ / l * MoveSpeed
		}
	} else {
		p.Velocity.X = 0
		p.Velocity.Z = 0
	}

	p.Velocity.Y += Gravity * dt
	p.Position = p.Position.Add(p.Velocity)

	if p.Position.Y < GroundLevel {
		p.Position.Y = GroundLevel
		p.Velocity.Y = 0
		p.Jumping = false
	}
}
