package main

import (
	"fmt"
	"image/color"
	"math"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/jwebster45206/yingzhou/pkg/epoch"
	"github.com/jwebster45206/yingzhou/pkg/fragment"
	"github.com/jwebster45206/yingzhou/pkg/minigame"
	"github.com/jwebster45206/yingzhou/pkg/state"
	"github.com/muesli/reflow/wordwrap"
)

// Map scale in world units per terminal cell. Cells are roughly twice as tall
// as they are wide.
const (
	mapScaleX = 1.0
	mapScaleZ = 2.0
)

var (
	panelStyle = lipgloss.NewStyle().
			PaddingTop(1).
			PaddingLeft(2).
			PaddingRight(1)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")). // pink
			Bold(true)

	speakerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")). // purple
			Bold(true)

	replyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")) // green

	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")) // teal

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")) // yellow

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	nearbyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("226")).
			Bold(true)

	mapStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62"))

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2).
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("255"))

	modalTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			Align(lipgloss.Center)
)

var separatorStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("240")) // dark grey

func hexColor(c color.RGBA) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B))
}

// headingGlyph points along the player's facing. Yaw 0 looks toward -Z,
// which the map draws upward.
func headingGlyph(yaw float64) byte {
	switch {
	case yaw >= 45 && yaw < 135:
		return '>'
	case yaw >= 135 && yaw < 225:
		return 'v'
	case yaw >= 225 && yaw < 315:
		return '<'
	default:
		return '^'
	}
}

// renderMap draws a top-down w×h view centred on the player. NPCs appear as
// their 1-based registration number.
func renderMap(snap state.Snapshot, w, h int) string {
	if w <= 0 || h <= 0 {
		return ""
	}
	px, pz := snap.Player.Position.X, snap.Player.Position.Z
	cx, cz := w/2, h/2

	grid := make([][]byte, h)
	for r := range grid {
		grid[r] = make([]byte, w)
		for c := range grid[r] {
			x := math.Round(px + float64(c-cx)*mapScaleX)
			z := math.Round(pz + float64(r-cz)*mapScaleZ)
			if math.Mod(x, 5) == 0 && math.Mod(z, 5) == 0 {
				grid[r][c] = '.'
			} else {
				grid[r][c] = ' '
			}
		}
	}

	for i, n := range snap.NPCs {
		c := cx + int(math.Round((n.Position.X-px)/mapScaleX))
		r := cz + int(math.Round((n.Position.Z-pz)/mapScaleZ))
		if r >= 0 && r < h && c >= 0 && c < w {
			grid[r][c] = byte('1' + i)
		}
	}
	grid[cz][cx] = headingGlyph(snap.Player.Yaw)

	lines := make([]string, h)
	for r, row := range grid {
		lines[r] = string(row)
	}
	return strings.Join(lines, "\n")
}

func entropyBar(level float64, width int) string {
	filled := int(math.Round(level / 100 * float64(width)))
	filled = max(0, min(width, filled))
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

func writeWorldPanel(snap state.Snapshot) string {
	var b strings.Builder
	w := snap.World
	epochStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("255")).Background(hexColor(w.Background))

	b.WriteString(titleStyle.Render("瀛洲 YINGZHOU") + "\n\n")
	b.WriteString(epochStyle.Render(" "+w.DisplayName+" ") + " " + w.EpochName + "\n\n")
	fmt.Fprintf(&b, "Entropy %5.1f\n%s\n\n", w.Entropy, entropyBar(w.Entropy, 20))
	if w.Required > 0 {
		fmt.Fprintf(&b, "Fragments: %d/%d\n", w.Fragments, w.Required)
	} else {
		fmt.Fprintf(&b, "Fragments: %d\n", w.Fragments)
	}
	if w.CanAdvance {
		b.WriteString(statusStyle.Render("Ready to advance (n)") + "\n")
	}
	fmt.Fprintf(&b, "Play time: %.0fs\n", snap.PlayTime)
	fmt.Fprintf(&b, "You are %s\n\n", pose(snap.Player))

	b.WriteString("Inhabitants:\n")
	for i, n := range snap.NPCs {
		marker := " "
		if n.ID == snap.Selected {
			marker = "▶"
		}
		line := fmt.Sprintf("%s %d %s %s", marker, i+1, n.Name, n.Title)
		if n.Nearby {
			line = nearbyStyle.Render(line)
		}
		b.WriteString(line + "\n")
	}

	b.WriteString("\nControls:\n")
	b.WriteString("• w/a/s/d: Move\n")
	b.WriteString("• Arrows: Look\n")
	b.WriteString("• Space: Jump\n")
	b.WriteString("• e: Interact\n")
	b.WriteString("• Tab/1-5: Select\n")
	b.WriteString("• t: Talk, Esc: Stop\n")
	b.WriteString("• g: Play trial\n")
	b.WriteString("• v: Fragment gallery\n")
	b.WriteString("• f: Collect fragment\n")
	b.WriteString("• n: Advance epoch\n")
	b.WriteString("• c: Copy report\n")
	b.WriteString("• q: Quit\n")
	return b.String()
}

func pose(p state.PlayerView) string {
	switch {
	case p.Jumping:
		return "airborne"
	case p.Moving:
		return "walking"
	default:
		return "standing"
	}
}

// writeGallery lists every fragment by epoch: ◆ owned, ◇ collectable now,
// · not yet reachable, ? hidden until the collapse.
func writeGallery(snap state.Snapshot) string {
	var b strings.Builder
	current := snap.World.Epoch
	owned := make(map[string]bool, len(snap.Collected))
	for _, k := range snap.Collected {
		owned[k] = true
	}

	b.WriteString(titleStyle.Render("记忆画廊 GALLERY") + "\n\n")
	fmt.Fprintf(&b, "Collected %d/%d\n", snap.World.Fragments, fragment.Count())
	for _, e := range epoch.All() {
		b.WriteString("\n" + e.DisplayName() + "\n")
		for _, f := range fragment.ForEpoch(e) {
			switch {
			case owned[f.Key()]:
				fmt.Fprintf(&b, "◆ #%d %s\n", f.ID, f.Title)
			case f.Hidden && !fragment.Available(f, current):
				fmt.Fprintf(&b, "? #%d ???\n", f.ID)
			case fragment.Available(f, current):
				fmt.Fprintf(&b, "◇ #%d %s\n", f.ID, f.Title)
			default:
				fmt.Fprintf(&b, "· #%d %s\n", f.ID, f.Title)
			}
		}
	}

	b.WriteString("\nTrials:\n")
	for _, g := range minigame.All() {
		mark := " "
		switch {
		case slices.Contains(snap.MiniGames, g.ID):
			mark = "✓"
		case !g.Unlocked(current):
			mark = "·"
		}
		fmt.Fprintf(&b, "%s %s %s (%s)\n", mark, g.Trial, g.Name, g.Host.Name())
	}
	b.WriteString("\n• v: Back to world\n")
	return b.String()
}

func writeTranscript(snap state.Snapshot, transcript []state.Exchange, width int) string {
	if width < 10 {
		width = 10
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render("DIALOGUE") + "\n\n")
	if len(transcript) == 0 {
		b.WriteString(promptStyle.Render("Walk up to someone and press e, or select with Tab and press t.") + "\n")
		return b.String()
	}

	names := make(map[string]string, len(snap.NPCs))
	for _, n := range snap.NPCs {
		names[n.ID] = n.Name
	}
	for _, ex := range transcript {
		b.WriteString(userStyle.Render("You: ") + wordwrap.String(ex.Message, width-5) + "\n")
		speaker := names[ex.NPCID]
		b.WriteString(speakerStyle.Render(speaker+": ") + replyStyle.Render(wordwrap.String(ex.Reply, width-len(speaker)-2)) + "\n\n")
	}
	return b.String()
}

// mapSize fits the map into the left column, keeping it odd-sized so the
// player sits in the middle cell.
func mapSize(width, height int) (int, int) {
	w := max(11, width-4)
	h := max(7, height/2-2)
	if w%2 == 0 {
		w--
	}
	if h%2 == 0 {
		h--
	}
	return w, h
}
