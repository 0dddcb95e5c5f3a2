package state

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/jwebster45206/yingzhou/pkg/epoch"
	"github.com/jwebster45206/yingzhou/pkg/geom"
	"github.com/jwebster45206/yingzhou/pkg/textfilter"
)

// PlayerView is the renderer's copy of the player pose.
type PlayerView struct {
	Position geom.Vec3 `json:"position"`
	Yaw      float64   `json:"yaw"`
	Pitch    float64   `json:"pitch"`
	Jumping  bool      `json:"jumping"`
	Moving   bool      `json:"moving"`
}

// NPCView is the renderer's copy of one NPC.
type NPCView struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Title        string     `json:"title"`
	Position     geom.Vec3  `json:"position"`
	Rotation     float64    `json:"rotation"`
	Nearby       bool       `json:"nearby"`
	Interactions int        `json:"interactions"`
	Color        color.RGBA `json:"color"`
	Size         float64    `json:"size"`
}

// WorldView summarises epoch progress for HUDs.
type WorldView struct {
	Epoch       epoch.Epoch `json:"epoch"`
	EpochName   string      `json:"epoch_name"`
	DisplayName string      `json:"display_name"`
	Background  color.RGBA  `json:"background"`
	Entropy     float64     `json:"entropy"`
	Elapsed     float64     `json:"elapsed"`
	Fragments   int         `json:"fragments"`
	Required    int         `json:"required"` // 0 at COLLAPSE
	CanAdvance  bool        `json:"can_advance"`
}

// Snapshot is a read-only copy of the simulation taken after a tick.
// Mutating it has no effect on the session.
type Snapshot struct {
	Tick      uint64     `json:"tick"`
	PlayTime  float64    `json:"play_time"`
	Player    PlayerView `json:"player"`
	NPCs      []NPCView  `json:"npcs"`
	World     WorldView  `json:"world"`
	Collected []string   `json:"collected"`          // fragment keys in collection order
	MiniGames []string   `json:"mini_games"`         // completed game ids
	Selected  string     `json:"selected,omitempty"` // npc id chosen for dialogue
	LastReply string     `json:"last_reply,omitempty"`
}

// NPC finds the view for id.
func (s Snapshot) NPC(id string) (NPCView, bool) {
	for _, n := range s.NPCs {
		if n.ID == id {
			return n, true
		}
	}
	return NPCView{}, false
}

// Report renders the snapshot as plain text for logs, clipboard and the
// headless runner.
func (s Snapshot) Report() string {
	var b strings.Builder
	fmt.Fprintf(&b, "tick=%d play_time=%.1fs\n", s.Tick, s.PlayTime)
	fmt.Fprintf(&b, "epoch: %s (%s) entropy=%.1f elapsed=%.1fs\n",
		textfilter.TitleCase(s.World.EpochName), s.World.DisplayName, s.World.Entropy, s.World.Elapsed)
	if s.World.Required > 0 {
		fmt.Fprintf(&b, "fragments: %d/%d can_advance=%v\n", s.World.Fragments, s.World.Required, s.World.CanAdvance)
	} else {
		fmt.Fprintf(&b, "fragments: %d (final epoch)\n", s.World.Fragments)
	}
	if len(s.MiniGames) > 0 {
		fmt.Fprintf(&b, "mini-games: %s\n", strings.Join(s.MiniGames, ", "))
	}
	fmt.Fprintf(&b, "player: pos=%s yaw=%.1f pitch=%.1f\n", s.Player.Position, s.Player.Yaw, s.Player.Pitch)
	for _, n := range s.NPCs {
		marker := " "
		if n.Nearby {
			marker = "*"
		}
		if n.ID == s.Selected {
			marker = ">"
		}
		fmt.Fprintf(&b, " %s %-10s %s rot=%5.1f %s\n", marker, n.ID, n.Position, n.Rotation, n.Title)
	}
	if s.LastReply != "" {
		fmt.Fprintf(&b, "last reply: %s\n", s.LastReply)
	}
	return b.String()
}
