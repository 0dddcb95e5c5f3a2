package state

import (
	"fmt"

	"github.com/jwebster45206/yingzhou/pkg/actor"
)

// EventKind identifies a discrete input produced by a front-end.
type EventKind int

const (
	EventBeginIntent EventKind = iota
	EventEndIntent
	EventStopIntents
	EventJump
	EventRotateView
	EventInteract
	EventSelectNPC
	EventSubmitDialogue
	EventCollectFragment
	EventAdvanceEpoch
	EventCompleteMiniGame
)

var eventKindNames = [...]string{
	EventBeginIntent:      "begin_intent",
	EventEndIntent:        "end_intent",
	EventStopIntents:      "stop_intents",
	EventJump:             "jump",
	EventRotateView:       "rotate_view",
	EventInteract:         "interact",
	EventSelectNPC:        "select_npc",
	EventSubmitDialogue:   "submit_dialogue",
	EventCollectFragment:  "collect_fragment",
	EventAdvanceEpoch:     "advance_epoch",
	EventCompleteMiniGame: "complete_minigame",
}

func (k EventKind) String() string {
	if k < 0 || int(k) >= len(eventKindNames) {
		return fmt.Sprintf("event(%d)", int(k))
	}
	return eventKindNames[k]
}

// Event is one queued input. Only the fields relevant to Kind are set.
type Event struct {
	Kind       EventKind
	Direction  actor.Direction // BeginIntent, EndIntent
	DX, DY     float64         // RotateView
	Target     string          // SelectNPC: npc id; CollectFragment: fragment key; CompleteMiniGame: game id
	Text       string          // SubmitDialogue
	Completion int             // CompleteMiniGame: percent
}

func BeginIntent(d actor.Direction) Event {
	return Event{Kind: EventBeginIntent, Direction: d}
}

func EndIntent(d actor.Direction) Event {
	return Event{Kind: EventEndIntent, Direction: d}
}

func StopIntents() Event {
	return Event{Kind: EventStopIntents}
}

func Jump() Event {
	return Event{Kind: EventJump}
}

func RotateView(dx, dy float64) Event {
	return Event{Kind: EventRotateView, DX: dx, DY: dy}
}

// Interact engages the nearest NPC in range, if any.
func Interact() Event {
	return Event{Kind: EventInteract}
}

func SelectNPC(id string) Event {
	return Event{Kind: EventSelectNPC, Target: id}
}

// SubmitDialogue sends text to the currently selected NPC.
func SubmitDialogue(text string) Event {
	return Event{Kind: EventSubmitDialogue, Text: text}
}

// CollectFragment records a fragment by catalogue key. An empty key picks the
// next fragment available in the current epoch.
func CollectFragment(key string) Event {
	return Event{Kind: EventCollectFragment, Target: key}
}

func AdvanceEpoch() Event {
	return Event{Kind: EventAdvanceEpoch}
}

// CompleteMiniGame reports a finished trial run and its completion percent.
func CompleteMiniGame(id string, completion int) Event {
	return Event{Kind: EventCompleteMiniGame, Target: id, Completion: completion}
}
