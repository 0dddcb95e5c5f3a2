package epoch

import (
	"errors"
	"fmt"
	"image/color"
	"strings"
)

// Epoch is one of the five ordered world-progression states.
type Epoch int

const (
	Genesis Epoch = iota
	Emergence
	Flourish
	Entropy
	Collapse
)

// Count is the number of epochs.
const Count = 5

var ErrUnknownEpoch = errors.New("unknown epoch")

type info struct {
	name       string
	display    string
	background color.RGBA
	threshold  int // fragments required to leave; -1 = never
}

var epochs = [Count]info{
	Genesis:   {"GENESIS", "创世纪元", color.RGBA{R: 30, G: 41, B: 59, A: 255}, 1},
	Emergence: {"EMERGENCE", "萌芽纪元", color.RGBA{R: 21, G: 128, B: 61, A: 255}, 3},
	Flourish:  {"FLOURISH", "繁盛纪元", color.RGBA{R: 217, G: 119, B: 6, A: 255}, 5},
	Entropy:   {"ENTROPY", "熵化纪元", color.RGBA{R: 127, G: 29, B: 29, A: 255}, 7},
	Collapse:  {"COLLAPSE", "毁灭纪元", color.RGBA{R: 55, G: 65, B: 81, A: 255}, -1},
}

// Valid reports whether e is one of the five defined epochs.
func (e Epoch) Valid() bool {
	return e >= Genesis && e <= Collapse
}

func (e Epoch) String() string {
	if !e.Valid() {
		return fmt.Sprintf("Epoch(%d)", int(e))
	}
	return epochs[e].name
}

// DisplayName is the in-world name shown to the player.
func (e Epoch) DisplayName() string {
	if !e.Valid() {
		return e.String()
	}
	return epochs[e].display
}

// Color is the sky/background colour the renderer uses for e.
func (e Epoch) Color() color.RGBA {
	if !e.Valid() {
		return color.RGBA{A: 255}
	}
	return epochs[e].background
}

// Threshold returns the fragment count required to leave e.
// ok is false for the terminal epoch.
func (e Epoch) Threshold() (required int, ok bool) {
	if !e.Valid() || epochs[e].threshold < 0 {
		return 0, false
	}
	return epochs[e].threshold, true
}

// Terminal reports whether e has no outgoing transition.
func (e Epoch) Terminal() bool {
	return e == Collapse
}

// Next returns the successor of e. Collapse loops to itself.
func (e Epoch) Next() Epoch {
	if e >= Collapse {
		return Collapse
	}
	if e < Genesis {
		return Genesis
	}
	return e + 1
}

// Parse maps a canonical name such as "GENESIS" back to its Epoch.
func Parse(name string) (Epoch, error) {
	n := strings.ToUpper(strings.TrimSpace(name))
	for i, ep := range epochs {
		if ep.name == n {
			return Epoch(i), nil
		}
	}
	return Genesis, fmt.Errorf("%w: %q", ErrUnknownEpoch, name)
}

// All returns the epochs in progression order.
func All() []Epoch {
	return []Epoch{Genesis, Emergence, Flourish, Entropy, Collapse}
}
