package actor

import (
	"image/color"
	"math"

	"github.com/jwebster45206/yingzhou/pkg/dialogue"
	"github.com/jwebster45206/yingzhou/pkg/geom"
)

// InteractionDistance is the radius within which an NPC can be engaged.
const InteractionDistance = 5.0

// InteractFunc is the side-effecting hook run when the player engages an NPC.
type InteractFunc func(*NPC)

// Registry owns the fixed, ordered set of NPCs for a session. Entries are never
// added or removed after construction.
type Registry struct {
	npcs       []*NPC
	onInteract InteractFunc
}

type RegistryOption func(*Registry)

// WithInteractHook installs fn as the interaction trigger. It runs after the
// NPC's interaction counter is incremented.
func WithInteractHook(fn InteractFunc) RegistryOption {
	return func(r *Registry) {
		r.onInteract = fn
	}
}

// NewRegistry places the five NPCs at their fixed posts around the origin.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		npcs: []*NPC{
			newNPC(dialogue.Archivist, geom.Vec3{X: 20, Y: 0, Z: 0}, color.RGBA{R: 6, G: 182, B: 212, A: 255}, 3.0),
			newNPC(dialogue.Architect, geom.Vec3{X: 0, Y: 0, Z: -20}, color.RGBA{R: 192, G: 192, B: 192, A: 255}, 3.5),
			newNPC(dialogue.Mercantile, geom.Vec3{X: 0, Y: 0, Z: 0}, color.RGBA{R: 217, G: 119, B: 6, A: 255}, 2.5),
			newNPC(dialogue.Oracle, geom.Vec3{X: 0, Y: 0, Z: 20}, color.RGBA{R: 139, G: 92, B: 246, A: 255}, 2.8),
			newNPC(dialogue.Forgotten, geom.Vec3{X: -20, Y: 0, Z: 0}, color.RGBA{R: 127, G: 29, B: 29, A: 255}, 3.2),
		},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func newNPC(v dialogue.Variant, pos geom.Vec3, c color.RGBA, size float64) *NPC {
	return &NPC{
		ID:       v.ID(),
		Variant:  v,
		Position: pos,
		Color:    c,
		Size:     size,
	}
}

// NPCs returns the registry entries in registration order. Callers outside the
// simulation must treat them as read-only.
func (r *Registry) NPCs() []*NPC {
	return r.npcs
}

func (r *Registry) Len() int {
	return len(r.npcs)
}

// ByID finds an NPC by its stable identifier.
func (r *Registry) ByID(id string) (*NPC, bool) {
	for _, n := range r.npcs {
		if n.ID == id {
			return n, true
		}
	}
	return nil, false
}

// UpdateProximity flags every NPC closer than InteractionDistance to pos.
func (r *Registry) UpdateProximity(pos geom.Vec3) {
	for _, n := range r.npcs {
		n.Nearby = pos.Distance(n.Position) < InteractionDistance
	}
}

// FindNearestInRange returns the closest NPC strictly inside
// InteractionDistance. On equal distances the earlier registration wins.
func (r *Registry) FindNearestInRange(pos geom.Vec3) (*NPC, bool) {
	var nearest *NPC
	best := math.MaxFloat64
	for _, n := range r.npcs {
		d := pos.Distance(n.Position)
		if d < InteractionDistance && d < best {
			best = d
			nearest = n
		}
	}
	return nearest, nearest != nil
}

// Interact fires the interaction hook for n. A nil n is ignored.
func (r *Registry) Interact(n *NPC) {
	if n == nil {
		return
	}
	n.Interactions++
	if r.onInteract != nil {
		r.onInteract(n)
	}
}

// TickRotation advances every NPC's cosmetic spin.
func (r *Registry) TickRotation(dt float64) {
	for _, n := range r.npcs {
		n.TickRotation(dt)
	}
}
