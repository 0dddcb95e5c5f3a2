package main

import (
	"fmt"
	"math"
	"strings"

	"github.com/jwebster45206/yingzhou/pkg/minigame"
)

// Seconds each recall digit stays on screen before the sequence is hidden.
const revealPerDigit = 1.0

const maxTrialInput = 12

// trial is a mini-game run hosted by the console. The session only learns the
// result once the run is over.
type trial struct {
	game minigame.Game
	run  minigame.Run

	shown    string  // recall sequence last revealed
	reveal   float64 // seconds the sequence stays visible
	input    string
	feedback string
}

func newTrial(g minigame.Game, run minigame.Run) *trial {
	tr := &trial{game: g, run: run}
	tr.sync()
	return tr
}

// sync starts a fresh reveal whenever the recall run has dealt a new round.
func (tr *trial) sync() {
	seq, ok := tr.run.(*minigame.SequenceRun)
	if !ok || seq.Done() || seq.Sequence() == tr.shown {
		return
	}
	tr.shown = seq.Sequence()
	tr.reveal = float64(len(tr.shown)) * revealPerDigit
	tr.input = ""
}

func (tr *trial) update(dt float64) {
	switch run := tr.run.(type) {
	case *minigame.SequenceRun:
		tr.reveal = math.Max(0, tr.reveal-dt)
	case *minigame.ReactionRun:
		run.Update(dt)
	}
}

// key handles one key press.
func (tr *trial) key(k string) {
	switch run := tr.run.(type) {
	case *minigame.SequenceRun:
		switch {
		case tr.reveal > 0:
			if k == "enter" {
				tr.reveal = 0
			}
		case k == "enter":
			level := run.Level()
			if run.Answer(tr.input) {
				tr.feedback = fmt.Sprintf("Correct! Level %d cleared.", level)
			} else {
				tr.feedback = fmt.Sprintf("Wrong, it was %s.", tr.shown)
			}
			tr.input = ""
			tr.sync()
		case k == "backspace":
			if n := len(tr.input); n > 0 {
				tr.input = tr.input[:n-1]
			}
		case len(k) == 1 && k[0] >= '0' && k[0] <= '9' && len(tr.input) < maxTrialInput:
			tr.input += k
		}

	case *minigame.ReactionRun:
		if len(k) == 1 && k[0] >= '1' && k[0] <= '9' {
			if run.Hit(int(k[0] - '0')) {
				tr.feedback = "Hit!"
			} else {
				tr.feedback = "Miss."
			}
		}
	}
}

func (tr *trial) done() bool {
	return tr.run.Done()
}

func (tr *trial) view() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s · %s (%s)  score %d\n",
		tr.game.Trial, tr.game.Name, tr.game.Challenge, tr.run.Score())

	switch run := tr.run.(type) {
	case *minigame.SequenceRun:
		fmt.Fprintf(&b, "Level %d/5  lives %s\n", run.Level(), strings.Repeat("♥", run.Lives()))
		if tr.reveal > 0 {
			fmt.Fprintf(&b, "Remember: %s  (%.0fs, enter to skip)\n", spaced(tr.shown), math.Ceil(tr.reveal))
		} else {
			fmt.Fprintf(&b, "Type the digits: %s_\n", tr.input)
		}
	case *minigame.ReactionRun:
		fmt.Fprintf(&b, "Time %2.0fs  hits %d  misses %d  best combo %d\n",
			math.Ceil(run.Remaining()), run.Hits(), run.Misses(), run.MaxCombo())
		var targets []string
		for _, t := range run.Targets() {
			left := 1 - t.Age/t.Lifetime
			targets = append(targets, fmt.Sprintf("[%d] %s", t.Digit, entropyBar(left*100, 5)))
		}
		if len(targets) == 0 {
			b.WriteString("Wait for a digit...\n")
		} else {
			b.WriteString(strings.Join(targets, "  ") + "\n")
		}
	}
	if tr.feedback != "" {
		b.WriteString(tr.feedback + "\n")
	}
	b.WriteString("Esc to give up.")
	return b.String()
}

func spaced(s string) string {
	return strings.Join(strings.Split(s, ""), " ")
}
