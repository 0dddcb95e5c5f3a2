package main

import (
	"log/slog"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/jwebster45206/yingzhou/pkg/actor"
	"github.com/jwebster45206/yingzhou/pkg/state"
)

const (
	screenWidth  = 960
	screenHeight = 640

	statusTicks = 240 // how long a status line stays up
	maxInput    = 120
)

var movementKeys = map[ebiten.Key]actor.Direction{
	ebiten.KeyW: actor.Forward,
	ebiten.KeyS: actor.Backward,
	ebiten.KeyA: actor.Left,
	ebiten.KeyD: actor.Right,
}

var selectKeys = []ebiten.Key{ebiten.Key1, ebiten.Key2, ebiten.Key3, ebiten.Key4, ebiten.Key5}

// Game adapts a session to ebiten's Update/Draw loop. Each Update steps the
// session by the wall-clock time since the previous one.
type Game struct {
	session   *state.Session
	logger    *slog.Logger
	snap      state.Snapshot
	maxDelta  time.Duration
	lastFrame time.Time

	looking        bool
	lastMX, lastMY int

	typing bool
	input  []rune

	status      string
	statusTicks int
	lastReply   string
}

func NewGame(session *state.Session, logger *slog.Logger, maxDelta time.Duration) *Game {
	return &Game{
		session:  session,
		logger:   logger,
		snap:     session.Snapshot(),
		maxDelta: maxDelta,
	}
}

// frameDelta is the time between two updates in seconds, clamped so a stalled
// window does not teleport the player. The first update steps one nominal tick.
func frameDelta(last, now time.Time, tps int, maxDelta time.Duration) float64 {
	if last.IsZero() {
		if tps <= 0 {
			tps = ebiten.DefaultTPS
		}
		return 1 / float64(tps)
	}
	return state.ClampDelta(now.Sub(last).Seconds(), maxDelta.Seconds())
}

func (g *Game) Update() error {
	if g.typing {
		g.handleTyping()
	} else if quit := g.handleInput(); quit {
		return ebiten.Termination
	}

	now := time.Now()
	g.session.Step(frameDelta(g.lastFrame, now, ebiten.TPS(), g.maxDelta))
	g.lastFrame = now
	prev := g.snap
	g.snap = g.session.Snapshot()

	if g.snap.World.Epoch != prev.World.Epoch {
		g.setStatus("Epoch advanced: " + g.snap.World.EpochName)
	}
	if g.snap.LastReply != "" && g.snap.LastReply != g.lastReply {
		g.lastReply = g.snap.LastReply
		// The debug font cannot draw the replies, so they go to the log.
		g.logger.Info("NPC replied", "npc", g.snap.Selected, "reply", g.snap.LastReply)
		g.setStatus("Reply logged (C copies the report)")
	}
	if g.statusTicks > 0 {
		g.statusTicks--
	}
	return nil
}

func (g *Game) setStatus(s string) {
	g.status = s
	g.statusTicks = statusTicks
}

func (g *Game) enqueue(ev state.Event) {
	if err := g.session.Enqueue(ev); err != nil {
		g.setStatus("Input dropped")
	}
}

// handleInput turns key edges into session events. It reports true when the
// player asked to quit.
func (g *Game) handleInput() bool {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return true
	}

	for k, d := range movementKeys {
		if inpututil.IsKeyJustPressed(k) {
			g.enqueue(state.BeginIntent(d))
		}
		if inpututil.IsKeyJustReleased(k) {
			g.enqueue(state.EndIntent(d))
		}
	}

	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight) {
		mx, my := ebiten.CursorPosition()
		if g.looking {
			dx, dy := mx-g.lastMX, my-g.lastMY
			if dx != 0 || dy != 0 {
				g.enqueue(state.RotateView(float64(dx), float64(-dy)))
			}
		}
		g.looking = true
		g.lastMX, g.lastMY = mx, my
	} else {
		g.looking = false
	}

	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeySpace):
		g.enqueue(state.Jump())
	case inpututil.IsKeyJustPressed(ebiten.KeyE):
		g.enqueue(state.Interact())
	case inpututil.IsKeyJustPressed(ebiten.KeyF):
		g.enqueue(state.CollectFragment(""))
	case inpututil.IsKeyJustPressed(ebiten.KeyN):
		if !g.snap.World.CanAdvance {
			g.setStatus("Not enough fragments to advance")
		}
		g.enqueue(state.AdvanceEpoch())
	case inpututil.IsKeyJustPressed(ebiten.KeyC):
		if err := clipboard.WriteAll(g.snap.Report()); err != nil {
			g.logger.Warn("Clipboard copy failed", "error", err)
			g.setStatus("Clipboard unavailable")
		} else {
			g.setStatus("Report copied")
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyTab):
		g.enqueue(state.SelectNPC(nextNPC(g.snap)))
	case inpututil.IsKeyJustPressed(ebiten.KeyEnter):
		if g.snap.Selected == "" {
			g.setStatus("Select someone first (Tab, 1-5 or E)")
			break
		}
		g.typing = true
		g.input = g.input[:0]
		g.enqueue(state.StopIntents())
	}

	for i, k := range selectKeys {
		if inpututil.IsKeyJustPressed(k) && i < len(g.snap.NPCs) {
			g.enqueue(state.SelectNPC(g.snap.NPCs[i].ID))
		}
	}
	return false
}

func (g *Game) handleTyping() {
	g.input = ebiten.AppendInputChars(g.input)
	if len(g.input) > maxInput {
		g.input = g.input[:maxInput]
	}

	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyEscape):
		g.typing = false
	case inpututil.IsKeyJustPressed(ebiten.KeyBackspace):
		if len(g.input) > 0 {
			g.input = g.input[:len(g.input)-1]
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyEnter):
		text := strings.TrimSpace(string(g.input))
		if text != "" {
			g.enqueue(state.SubmitDialogue(text))
		}
		g.input = g.input[:0]
		g.typing = false
	}
}

// nextNPC cycles the selection in registration order.
func nextNPC(snap state.Snapshot) string {
	if len(snap.NPCs) == 0 {
		return ""
	}
	for i, n := range snap.NPCs {
		if n.ID == snap.Selected {
			return snap.NPCs[(i+1)%len(snap.NPCs)].ID
		}
	}
	return snap.NPCs[0].ID
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return screenWidth, screenHeight
}
