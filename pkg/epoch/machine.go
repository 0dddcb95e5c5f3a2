package epoch

import (
	"math"

	"github.com/jwebster45206/yingzhou/pkg/geom"
)

// Machine tracks the current epoch, the time spent in it and the session-wide
// fragment counter. The zero value is not usable; call NewMachine.
type Machine struct {
	current   Epoch
	elapsed   float64 // seconds in the current epoch
	fragments int
}

func NewMachine() *Machine {
	return &Machine{current: Genesis}
}

// Restore seeds a machine from persisted progress. Elapsed time starts at zero.
func Restore(e Epoch, fragments int) *Machine {
	if !e.Valid() {
		e = Genesis
	}
	if fragments < 0 {
		fragments = 0
	}
	return &Machine{current: e, fragments: fragments}
}

func (m *Machine) Current() Epoch {
	return m.current
}

// Elapsed is the epoch-local time in seconds.
func (m *Machine) Elapsed() float64 {
	return m.elapsed
}

func (m *Machine) Fragments() int {
	return m.fragments
}

// CanAdvance reports whether the collected fragments meet the current epoch's
// threshold. Always false at Collapse.
func (m *Machine) CanAdvance() bool {
	required, ok := m.current.Threshold()
	return ok && m.fragments >= required
}

// Advance moves to the next epoch when CanAdvance allows it and resets the
// epoch-local clock. It returns false, changing nothing, otherwise.
func (m *Machine) Advance() bool {
	if !m.CanAdvance() {
		return false
	}
	m.current = m.current.Next()
	m.elapsed = 0
	return true
}

func (m *Machine) CollectFragment() {
	m.fragments++
}

// Update accumulates epoch-local time. Negative and non-finite dt are
// ignored, as is any dt that would overflow the clock.
func (m *Machine) Update(dt float64) {
	if !geom.IsFinite(dt) || dt < 0 || !geom.IsFinite(m.elapsed+dt) {
		return
	}
	m.elapsed += dt
}

// EntropyLevel is the 0–100 decay metric derived from epoch and elapsed time.
func (m *Machine) EntropyLevel() float64 {
	t := m.elapsed
	switch m.current {
	case Genesis:
		return 0
	case Emergence:
		return math.Min(20, t/10)
	case Flourish:
		return math.Min(50, 20+t/8)
	case Entropy:
		return math.Min(90, 50+t/5)
	case Collapse:
		return 100
	}
	return 0
}

// Progress reports fragments collected against the current threshold.
// ok is false at Collapse.
func (m *Machine) Progress() (collected, required int, ok bool) {
	required, ok = m.current.Threshold()
	return m.fragments, required, ok
}
