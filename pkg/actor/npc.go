package actor

import (
	"image/color"
	"math"

	"github.com/jwebster45206/yingzhou/pkg/dialogue"
	"github.com/jwebster45206/yingzhou/pkg/geom"
)

// RotationRate is the cosmetic spin of every NPC, in degrees per second.
const RotationRate = 30.0

// NPC is one of the fixed non-player characters. Position never changes after
// creation; Nearby is recomputed every tick.
type NPC struct {
	ID       string           `json:"id"`
	Variant  dialogue.Variant `json:"variant"`
	Position geom.Vec3        `json:"position"`
	Color    color.RGBA       `json:"color"`
	Size     float64          `json:"size"`
	Rotation float64          `json:"rotation"` // degrees, [0, 360)
	Nearby   bool             `json:"nearby"`

	Interactions int `json:"interactions"`
}

func (n *NPC) Name() string {
	return n.Variant.Name()
}

// Respond answers a player message in this NPC's voice.
func (n *NPC) Respond(message string) string {
	return n.Variant.Respond(message)
}

// TickRotation spins the NPC by RotationRate·dt, wrapping at 360.
func (n *NPC) TickRotation(dt float64) {
	if !geom.IsFinite(dt) || dt < 0 {
		return
	}
	// Whole turns are dropped before scaling so huge dt stays finite.
	n.Rotation += math.Mod(dt, 360/RotationRate) * RotationRate
	if n.Rotation >= 360 {
		n.Rotation = math.Mod(n.Rotation, 360)
	}
}
