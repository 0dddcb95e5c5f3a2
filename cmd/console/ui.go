package main

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/jwebster45206/yingzhou/internal/config"
	"github.com/jwebster45206/yingzhou/pkg/dialogue"
	"github.com/jwebster45206/yingzhou/pkg/fragment"
	"github.com/jwebster45206/yingzhou/pkg/minigame"
	"github.com/jwebster45206/yingzhou/pkg/state"
)

const PlaceHolderText = "Say something..."

// ConsoleUI is the BubbleTea model that drives a local session.
// https://github.com/charmbracelet/bubbletea
type ConsoleUI struct {
	cfg     *config.Config
	logger  *slog.Logger
	session *state.Session
	intents *intentTracker

	chatViewport  viewport.Model
	worldViewport viewport.Model
	textarea      textarea.Model

	ready  bool
	width  int
	height int

	snap       state.Snapshot
	lastFrame  time.Time
	talking    bool
	talkOnNext bool // enter talk mode once an interaction selects someone
	trial      *trial
	gallery    bool
	status     string

	lastExchange  state.Exchange
	exchangeCount int

	showQuitModal bool
}

type frameMsg time.Time

func NewConsoleUI(cfg *config.Config, session *state.Session, logger *slog.Logger) ConsoleUI {
	ta := textarea.New()
	ta.Placeholder = PlaceHolderText
	ta.Prompt = promptStyle.Render(":: ")
	ta.CharLimit = 200
	ta.SetWidth(50)
	ta.SetHeight(2)
	ta.ShowLineNumbers = false
	ta.Blur()

	chatVp := viewport.New(50, 10)
	chatVp.MouseWheelEnabled = true

	worldVp := viewport.New(30, 20)

	return ConsoleUI{
		cfg:           cfg,
		logger:        logger,
		session:       session,
		intents:       newIntentTracker(holdWindow),
		chatViewport:  chatVp,
		worldViewport: worldVp,
		textarea:      ta,
		snap:          session.Snapshot(),
	}
}

func (m ConsoleUI) nextFrame() tea.Cmd {
	return tea.Tick(m.cfg.TickInterval(), func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

func (m ConsoleUI) Init() tea.Cmd {
	return m.nextFrame()
}

func (m ConsoleUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.showQuitModal {
		return m.updateQuitModal(msg)
	}

	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		m.ready = true
		m.refreshPanels(true)
		return m, nil

	case frameMsg:
		m.step(time.Time(msg))
		return m, m.nextFrame()

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.showQuitModal = true
			return m, nil
		}
		if m.trial != nil {
			return m.updateTrial(msg)
		}
		if m.talking {
			return m.updateTalk(msg)
		}
		return m.updateExplore(msg)

	case tea.MouseMsg:
		m.chatViewport, vpCmd = m.chatViewport.Update(msg)
		return m, vpCmd
	}

	m.textarea, tiCmd = m.textarea.Update(msg)
	m.chatViewport, vpCmd = m.chatViewport.Update(msg)
	return m, tea.Batch(tiCmd, vpCmd)
}

// step advances the session by the wall-clock time since the last frame.
func (m *ConsoleUI) step(now time.Time) {
	dt := 0.0
	if !m.lastFrame.IsZero() {
		dt = state.ClampDelta(now.Sub(m.lastFrame).Seconds(), m.cfg.MaxFrameDelta.Seconds())
	}
	m.lastFrame = now

	for _, d := range m.intents.expire(now) {
		m.enqueue(state.EndIntent(d))
	}

	prev := m.snap
	m.session.Step(dt)
	m.snap = m.session.Snapshot()
	m.noteChanges(prev)

	if m.talkOnNext {
		m.talkOnNext = false
		if id, ok := interactedWith(prev, m.snap); ok && id == m.snap.Selected {
			m.startTalking()
		} else {
			m.status = "No one is close enough."
		}
	}
	if m.trial != nil {
		m.trial.update(dt)
		if m.trial.done() {
			m.finishTrial()
		}
	}
	m.refreshPanels(false)
}

func (m *ConsoleUI) noteChanges(prev state.Snapshot) {
	if m.snap.World.Epoch != prev.World.Epoch {
		m.status = fmt.Sprintf("The world enters %s.", m.snap.World.DisplayName)
		return
	}
	if m.snap.World.Fragments > prev.World.Fragments {
		keys := m.session.Export().CollectedFragments
		if len(keys) == 0 {
			return
		}
		if f, err := fragment.LookupKey(keys[len(keys)-1]); err == nil {
			m.status = fmt.Sprintf("Fragment %s: %s", f.Title, f.Content)
		}
	}
}

// interactedWith returns the NPC whose interaction count grew between two
// snapshots of the same session.
func interactedWith(before, after state.Snapshot) (string, bool) {
	for _, n := range after.NPCs {
		if prev, ok := before.NPC(n.ID); ok && n.Interactions > prev.Interactions {
			return n.ID, true
		}
	}
	return "", false
}

func (m *ConsoleUI) enqueue(ev state.Event) {
	if err := m.session.Enqueue(ev); err != nil {
		m.status = "Too much input, slow down."
	}
}

func (m *ConsoleUI) startTalking() {
	m.talking = true
	m.intents.releaseAll()
	m.enqueue(state.StopIntents())
	m.textarea.Focus()
	m.status = ""
}

func (m ConsoleUI) updateExplore(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	now := time.Now()
	key := msg.String()

	if d, ok := movementKeys[key]; ok {
		if m.intents.press(d, now) {
			m.enqueue(state.BeginIntent(d))
		}
		return m, nil
	}

	switch msg.Type {
	case tea.KeyEsc:
		m.showQuitModal = true
		return m, nil
	case tea.KeyUp:
		m.enqueue(state.RotateView(0, rotateStep))
		return m, nil
	case tea.KeyDown:
		m.enqueue(state.RotateView(0, -rotateStep))
		return m, nil
	case tea.KeyLeft:
		m.enqueue(state.RotateView(-rotateStep, 0))
		return m, nil
	case tea.KeyRight:
		m.enqueue(state.RotateView(rotateStep, 0))
		return m, nil
	case tea.KeySpace:
		m.enqueue(state.Jump())
		return m, nil
	case tea.KeyTab:
		m.enqueue(state.SelectNPC(m.nextNPC()))
		return m, nil
	case tea.KeyEnter:
		return m.talkToSelected()
	}

	switch key {
	case "q":
		m.showQuitModal = true
	case "e":
		m.enqueue(state.Interact())
		m.talkOnNext = true
	case "t":
		return m.talkToSelected()
	case "g":
		m.startTrial()
	case "v":
		m.gallery = !m.gallery
		m.refreshPanels(false)
	case "f":
		m.enqueue(state.CollectFragment(""))
	case "n":
		if !m.snap.World.CanAdvance {
			m.status = "The epoch holds. Collect more fragments."
		}
		m.enqueue(state.AdvanceEpoch())
	case "c":
		if err := clipboard.WriteAll(m.snap.Report()); err != nil {
			m.logger.Warn("Clipboard copy failed", "error", err)
			m.status = "Clipboard unavailable."
		} else {
			m.status = "Report copied to clipboard."
		}
	case "1", "2", "3", "4", "5":
		i := int(key[0] - '1')
		if i < len(m.snap.NPCs) {
			m.enqueue(state.SelectNPC(m.snap.NPCs[i].ID))
		}
	}
	return m, nil
}

func (m ConsoleUI) talkToSelected() (tea.Model, tea.Cmd) {
	if m.snap.Selected == "" {
		m.status = "Select someone first (Tab or 1-5)."
		return m, nil
	}
	m.startTalking()
	return m, textarea.Blink
}

// startTrial opens the selected NPC's mini-game when the player stands next
// to them and the game's epoch has arrived.
func (m *ConsoleUI) startTrial() {
	n, ok := m.snap.NPC(m.snap.Selected)
	if !ok {
		m.status = "Select someone first (Tab or 1-5)."
		return
	}
	if !n.Nearby {
		m.status = fmt.Sprintf("Walk up to %s to play their trial.", n.Name)
		return
	}
	v, ok := dialogue.ParseVariant(n.ID)
	if !ok {
		return
	}
	g, ok := minigame.ForHost(v)
	if !ok {
		return
	}
	if !g.Unlocked(m.snap.World.Epoch) {
		m.status = fmt.Sprintf("%s's trial opens in %s.", n.Name, g.Epoch.DisplayName())
		return
	}

	m.intents.releaseAll()
	m.enqueue(state.StopIntents())
	m.trial = newTrial(g, minigame.Start(g, nil))
	m.status = g.Description
	m.logger.Info("Mini-game started", "minigame", g.ID, "npc", n.ID)
}

func (m *ConsoleUI) finishTrial() {
	tr := m.trial
	m.trial = nil
	completion := tr.run.Completion()
	m.enqueue(state.CompleteMiniGame(tr.game.ID, completion))
	if minigame.Passed(completion) {
		m.status = fmt.Sprintf("%s cleared: score %d, %d%% complete.", tr.game.Name, tr.run.Score(), completion)
	} else {
		m.status = fmt.Sprintf("%s over at %d%%. %d%% earns the fragment.", tr.game.Name, completion, minigame.PassCompletion)
	}
}

func (m ConsoleUI) updateTrial(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyEsc {
		m.logger.Info("Mini-game abandoned", "minigame", m.trial.game.ID)
		m.trial = nil
		m.status = "Trial abandoned."
		return m, nil
	}
	m.trial.key(msg.String())
	if m.trial.done() {
		m.finishTrial()
	}
	return m, nil
}

// nextNPC cycles the selection in registration order.
func (m ConsoleUI) nextNPC() string {
	npcs := m.snap.NPCs
	if len(npcs) == 0 {
		return ""
	}
	for i, n := range npcs {
		if n.ID == m.snap.Selected {
			return npcs[(i+1)%len(npcs)].ID
		}
	}
	return npcs[0].ID
}

func (m ConsoleUI) updateTalk(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.talking = false
		m.textarea.Blur()
		return m, nil
	case tea.KeyEnter:
		input := strings.TrimSpace(m.textarea.Value())
		m.textarea.Reset()
		if input != "" {
			m.enqueue(state.SubmitDialogue(input))
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	return m, cmd
}

func (m ConsoleUI) updateQuitModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()

	case frameMsg:
		// The world keeps turning behind the modal.
		m.step(time.Time(msg))
		return m, m.nextFrame()

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEnter:
			return m, tea.Quit
		case tea.KeyEsc:
			m.showQuitModal = false
			return m, nil
		default:
			switch msg.String() {
			case "y", "Y":
				return m, tea.Quit
			case "n", "N":
				m.showQuitModal = false
				return m, nil
			}
		}
	}

	return m, nil
}

func (m *ConsoleUI) layout() {
	leftWidth := max(20, int(float64(m.width)*0.7)-2)
	rightWidth := max(20, m.width-leftWidth-4)
	_, mapH := mapSize(leftWidth, m.height)

	m.chatViewport.Width = leftWidth - 2
	m.chatViewport.Height = max(3, m.height-mapH-9)
	m.worldViewport.Width = rightWidth
	m.worldViewport.Height = m.height - 2
	m.textarea.SetWidth(leftWidth - 4)
}

// refreshPanels rewrites the side panel every frame and the transcript only
// when a new exchange has arrived.
func (m *ConsoleUI) refreshPanels(force bool) {
	if m.gallery {
		m.worldViewport.SetContent(writeGallery(m.snap))
	} else {
		m.worldViewport.SetContent(writeWorldPanel(m.snap))
	}

	transcript := m.session.Transcript()
	var last state.Exchange
	if len(transcript) > 0 {
		last = transcript[len(transcript)-1]
	}
	if !force && len(transcript) == m.exchangeCount && last == m.lastExchange {
		return
	}
	m.exchangeCount = len(transcript)
	m.lastExchange = last
	m.chatViewport.SetContent(writeTranscript(m.snap, transcript, m.chatViewport.Width))
	m.chatViewport.GotoBottom()
}

func (m ConsoleUI) renderQuitModal() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content strings.Builder
	content.WriteString(modalTitleStyle.Render("Leave Yingzhou?"))
	content.WriteString("\n\n")
	content.WriteString("Your progress will be saved.")
	content.WriteString("\n\n")
	content.WriteString(promptStyle.Render("Press Y to quit, N to continue, or Ctrl+C to force quit"))

	modal := modalStyle.Width(50).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) View() string {
	if m.showQuitModal {
		return m.renderQuitModal()
	}
	if !m.ready {
		return "\n  Initializing..."
	}

	leftWidth := max(20, int(float64(m.width)*0.7)-2)
	rightWidth := max(20, m.width-leftWidth-4)
	mapW, mapH := mapSize(leftWidth, m.height)

	world := mapStyle.Render(renderMap(m.snap, mapW, mapH))

	prompt := promptStyle.Render("Exploring. Press t to talk.")
	switch {
	case m.trial != nil:
		prompt = m.trial.view()
	case m.talking:
		name := m.snap.Selected
		if n, ok := m.snap.NPC(m.snap.Selected); ok {
			name = n.Name
		}
		prompt = promptStyle.Render("Talking to "+name+". Esc to stop.") + "\n" + m.textarea.View()
	}

	left := panelStyle.Width(leftWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			world,
			statusStyle.Render(m.status),
			separatorStyle.Render(strings.Repeat("─", max(1, leftWidth-4))),
			m.chatViewport.View(),
			prompt,
		),
	)
	right := panelStyle.Width(rightWidth).Render(m.worldViewport.View())

	return lipgloss.JoinHorizontal(lipgloss.Top, left, right)
}
