package main

import (
	"math"
	"math/rand"
	"slices"

	"github.com/jwebster45206/yingzhou/pkg/actor"
	"github.com/jwebster45206/yingzhou/pkg/dialogue"
	"github.com/jwebster45206/yingzhou/pkg/fragment"
	"github.com/jwebster45206/yingzhou/pkg/geom"
	"github.com/jwebster45206/yingzhou/pkg/minigame"
	"github.com/jwebster45206/yingzhou/pkg/state"
)

// Turns smaller than this are not worth an input event.
const yawTolerance = 0.5

// extraFragments is how many hidden fragments the pilot picks up per visit
// once the final epoch has no threshold left.
const extraFragments = 2

// Seconds per reaction-trial update while the pilot plays.
const trialStep = 0.1

// pilot walks the player to each NPC on its route, talks to them, plays their
// trial, and spends the visit collecting enough fragments to advance the epoch.
type pilot struct {
	route   []string
	next    int
	walking bool
}

func newPilot(route ...string) *pilot {
	if len(route) == 0 {
		for _, v := range dialogue.Variants() {
			route = append(route, v.ID())
		}
	}
	return &pilot{route: route}
}

func (p *pilot) done() bool {
	return p.next >= len(p.route)
}

// yawTowards returns the yaw in [0, 360) that faces from toward to.
func yawTowards(from, to geom.Vec3) float64 {
	dx, dz := to.X-from.X, to.Z-from.Z
	yaw := math.Atan2(dx, -dz) * 180 / math.Pi
	if yaw < 0 {
		yaw += 360
	}
	return yaw
}

// turnBetween is the signed shortest rotation from a to b, in (-180, 180].
func turnBetween(a, b float64) float64 {
	d := math.Mod(b-a, 360)
	if d > 180 {
		d -= 360
	} else if d <= -180 {
		d += 360
	}
	return d
}

// plan returns this tick's input. visited is the NPC reached on this tick,
// if any.
func (p *pilot) plan(snap state.Snapshot) (events []state.Event, visited string) {
	if p.done() {
		if p.walking {
			p.walking = false
			return []state.Event{state.EndIntent(actor.Forward)}, ""
		}
		return nil, ""
	}

	id := p.route[p.next]
	target, ok := snap.NPC(id)
	if !ok {
		p.next++
		return nil, ""
	}

	if target.Nearby {
		events = append(events, state.EndIntent(actor.Forward), state.Interact())
		need := snap.World.Required - snap.World.Fragments
		if snap.World.Required == 0 {
			need = extraFragments
		}
		if v, ok := dialogue.ParseVariant(id); ok {
			if kws := v.Keywords(0); len(kws) > 0 {
				events = append(events, state.SubmitDialogue("请讲讲"+kws[0]))
			}
			if g, ok := minigame.ForHost(v); ok && g.Unlocked(snap.World.Epoch) {
				events = append(events, state.CompleteMiniGame(g.ID, playTrial(g)))
				if !slices.Contains(snap.Collected, fragment.Key(g.Reward)) {
					need--
				}
			}
		}
		for range max(0, need) {
			events = append(events, state.CollectFragment(""))
		}
		events = append(events, state.AdvanceEpoch())

		p.walking = false
		p.next++
		return events, id
	}

	turn := turnBetween(snap.Player.Yaw, yawTowards(snap.Player.Position, target.Position))
	if math.Abs(turn) > yawTolerance {
		events = append(events, state.RotateView(turn/actor.MouseSensitivity, 0))
	}
	if !p.walking {
		events = append(events, state.BeginIntent(actor.Forward))
		p.walking = true
	}
	return events, ""
}

// playTrial plays g flawlessly with a fixed seed and returns the completion.
func playTrial(g minigame.Game) int {
	run := minigame.Start(g, rand.New(rand.NewSource(int64(g.Index)+1)))
	switch r := run.(type) {
	case *minigame.SequenceRun:
		for !r.Done() {
			r.Answer(r.Sequence())
		}
	case *minigame.ReactionRun:
		for !r.Done() {
			r.Update(trialStep)
			for _, t := range r.Targets() {
				r.Hit(t.Digit)
			}
		}
	}
	return run.Completion()
}
