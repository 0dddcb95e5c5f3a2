package state

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/jwebster45206/yingzhou/pkg/actor"
	"github.com/jwebster45206/yingzhou/pkg/dialogue"
	"github.com/jwebster45206/yingzhou/pkg/epoch"
	"github.com/jwebster45206/yingzhou/pkg/fragment"
	"github.com/jwebster45206/yingzhou/pkg/geom"
	"github.com/jwebster45206/yingzhou/pkg/minigame"
	"github.com/jwebster45206/yingzhou/pkg/textfilter"
)

// TranscriptLimit caps the dialogue exchanges a session keeps for display.
const TranscriptLimit = 50

var ErrUnknownNPC = errors.New("unknown npc")

// Exchange is one line of dialogue between the player and an NPC.
type Exchange struct {
	Tick    uint64 `json:"tick"`
	NPCID   string `json:"npc_id"`
	Message string `json:"message"`
	Reply   string `json:"reply"`
	Branch  int    `json:"branch"`
}

// Session owns all simulation state for one play-through: the player, the
// epoch machine and the NPC registry. Front-ends enqueue events and call Step
// once per frame; they read state only through Snapshot and Export.
// A Session is not safe for concurrent use.
type Session struct {
	id     uuid.UUID
	logger *slog.Logger

	player *actor.Player
	epochs *epoch.Machine
	npcs   *actor.Registry
	queue  *Queue

	selected  *actor.NPC
	lastReply string
	tick      uint64
	playTime  float64

	collected    []string
	collectedSet map[string]bool
	miniGames    []string
	unlocked     []string
	unlockedSet  map[string]bool
	transcript   []Exchange

	snapshot Snapshot
}

type Option func(*Session)

// WithLogger sets the logger the session reports transitions to.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithQueueCapacity bounds the number of events accepted between ticks.
func WithQueueCapacity(n int) Option {
	return func(s *Session) {
		s.queue = NewQueue(n)
	}
}

// WithID fixes the session identity instead of generating one.
func WithID(id uuid.UUID) Option {
	return func(s *Session) {
		if id != uuid.Nil {
			s.id = id
		}
	}
}

// NewSession starts a fresh game at the spawn point in GENESIS.
func NewSession(opts ...Option) *Session {
	s := &Session{
		id:           uuid.New(),
		logger:       slog.New(slog.DiscardHandler),
		player:       actor.NewPlayer(),
		epochs:       epoch.NewMachine(),
		queue:        NewQueue(DefaultQueueCapacity),
		collected:    []string{},
		collectedSet: map[string]bool{},
		miniGames:    []string{},
		unlocked:     []string{},
		unlockedSet:  map[string]bool{},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.npcs = actor.NewRegistry(actor.WithInteractHook(s.onInteract))
	s.logger = s.logger.With("session_id", s.id.String())
	s.refresh()
	return s
}

// FromSaveRecord resumes a game from persisted progress. The player always
// starts at the spawn point; the record's ID becomes the session ID.
func FromSaveRecord(rec *SaveRecord, opts ...Option) (*Session, error) {
	if err := rec.Validate(); err != nil {
		return nil, err
	}
	current, err := epoch.Parse(rec.CurrentEpoch)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRecord, err)
	}

	s := NewSession(append(opts, WithID(rec.ID))...)
	s.epochs = epoch.Restore(current, rec.FragmentsCollected)
	s.playTime = rec.PlayTime
	for _, key := range rec.CollectedFragments {
		s.collected = append(s.collected, key)
		s.collectedSet[key] = true
	}
	for _, id := range rec.CompletedMiniGames {
		// Older saves may name a game by index; unknown ids are kept as-is.
		if g, err := minigame.Lookup(id); err == nil {
			id = g.ID
		}
		if !slices.Contains(s.miniGames, id) {
			s.miniGames = append(s.miniGames, id)
		}
	}
	for _, key := range rec.UnlockedDialogues {
		if !s.unlockedSet[key] {
			s.unlocked = append(s.unlocked, key)
			s.unlockedSet[key] = true
		}
	}
	s.refresh()

	s.logger.Info("Session restored",
		"epoch", current.String(),
		"fragments", rec.FragmentsCollected,
		"play_time", rec.PlayTime)
	return s, nil
}

func (s *Session) ID() uuid.UUID {
	return s.id
}

// Tick is the number of completed Step calls.
func (s *Session) Tick() uint64 {
	return s.tick
}

// Enqueue buffers ev for the next Step.
func (s *Session) Enqueue(ev Event) error {
	if err := s.queue.Push(ev); err != nil {
		s.logger.Warn("Dropped input event", "kind", ev.Kind.String(), "error", err)
		return err
	}
	return nil
}

// Step advances the simulation by dt seconds. Queued events are applied in
// arrival order, then the player moves, then NPC proximity is recomputed
// against the new position, then the epoch clock advances.
// A negative or non-finite dt is treated as zero, as is one that would push
// the play or epoch clock past the largest finite value.
func (s *Session) Step(dt float64) {
	if !geom.IsFinite(dt) || dt < 0 {
		s.logger.Warn("Rejected frame delta", "dt", dt)
		dt = 0
	}
	if !geom.IsFinite(s.playTime+dt) || !geom.IsFinite(s.epochs.Elapsed()+dt) {
		s.logger.Warn("Rejected frame delta", "dt", dt, "play_time", s.playTime)
		dt = 0
	}

	for _, ev := range s.queue.Drain() {
		s.apply(ev)
	}

	s.player.Update(dt)
	s.npcs.UpdateProximity(s.player.Position)
	s.npcs.TickRotation(dt)
	s.epochs.Update(dt)

	s.playTime += dt
	s.tick++
	s.refresh()
}

func (s *Session) apply(ev Event) {
	switch ev.Kind {
	case EventBeginIntent, EventEndIntent:
		if !ev.Direction.Valid() {
			s.logger.Warn("Ignored invalid direction", "direction", int(ev.Direction))
			return
		}
		s.player.SetIntent(ev.Direction, ev.Kind == EventBeginIntent)
		s.logger.Debug("Intent changed", "direction", ev.Direction.String(), "active", ev.Kind == EventBeginIntent)

	case EventStopIntents:
		s.player.StopAllIntents()

	case EventJump:
		if s.player.Jump() {
			s.logger.Debug("Player jumped")
		}

	case EventRotateView:
		if !geom.IsFinite(ev.DX) || !geom.IsFinite(ev.DY) {
			s.logger.Warn("Rejected view delta", "dx", ev.DX, "dy", ev.DY)
			return
		}
		s.player.RotateView(ev.DX, ev.DY)

	case EventInteract:
		npc, ok := s.npcs.FindNearestInRange(s.player.Position)
		if !ok {
			s.logger.Debug("No NPC in range", "position", s.player.Position.String())
			return
		}
		s.npcs.Interact(npc)

	case EventSelectNPC:
		s.selectNPC(ev.Target)

	case EventSubmitDialogue:
		if s.selected == nil {
			s.logger.Warn("Dialogue submitted with no NPC selected")
			return
		}
		s.talk(s.selected, ev.Text)

	case EventCollectFragment:
		s.collect(strings.TrimSpace(ev.Target))

	case EventAdvanceEpoch:
		from := s.epochs.Current()
		if s.epochs.Advance() {
			s.logger.Info("Epoch advanced",
				"from", from.String(),
				"to", s.epochs.Current().String(),
				"fragments", s.epochs.Fragments())
		} else {
			s.logger.Debug("Epoch advance refused", "epoch", from.String(), "fragments", s.epochs.Fragments())
		}

	case EventCompleteMiniGame:
		s.completeMiniGame(ev.Target, ev.Completion)

	default:
		s.logger.Warn("Ignored unknown event", "kind", ev.Kind.String())
	}
}

// onInteract is the registry's interaction hook: engaging an NPC opens its
// dialogue.
func (s *Session) onInteract(npc *actor.NPC) {
	s.selected = npc
	s.logger.Info("Interacted with NPC", "npc", npc.ID, "interactions", npc.Interactions)
}

func (s *Session) selectNPC(id string) {
	id = strings.TrimSpace(id)
	if id == "" {
		s.selected = nil
		return
	}
	npc, ok := s.npcs.ByID(id)
	if !ok {
		s.logger.Warn("Ignored selection of unknown NPC", "npc", id)
		return
	}
	s.selected = npc
}

func (s *Session) talk(npc *actor.NPC, message string) {
	message = textfilter.Clean(message)
	reply, branch := npc.Variant.Match(message)
	s.lastReply = reply

	s.transcript = append(s.transcript, Exchange{
		Tick:    s.tick,
		NPCID:   npc.ID,
		Message: message,
		Reply:   reply,
		Branch:  branch,
	})
	if over := len(s.transcript) - TranscriptLimit; over > 0 {
		s.transcript = slices.Delete(s.transcript, 0, over)
	}

	if branch == dialogue.DefaultBranch {
		return
	}
	key := fmt.Sprintf("%s/%d", npc.ID, branch)
	if !s.unlockedSet[key] {
		s.unlockedSet[key] = true
		s.unlocked = append(s.unlocked, key)
		s.logger.Info("Dialogue unlocked", "npc", npc.ID, "branch", branch)
	}
}

func (s *Session) collect(key string) {
	current := s.epochs.Current()

	var f fragment.Fragment
	if key == "" {
		next, ok := fragment.NextAvailable(s.collectedSet, current)
		if !ok {
			s.logger.Info("No fragment available", "epoch", current.String())
			return
		}
		f = next
	} else {
		found, err := fragment.LookupKey(key)
		if err != nil {
			s.logger.Warn("Ignored fragment", "key", key, "error", err)
			return
		}
		if !fragment.Available(found, current) {
			s.logger.Warn("Fragment not yet available", "key", key, "epoch", current.String())
			return
		}
		f = found
	}

	if s.collectedSet[f.Key()] {
		s.logger.Debug("Fragment already collected", "key", f.Key())
		return
	}
	s.collectedSet[f.Key()] = true
	s.collected = append(s.collected, f.Key())
	s.epochs.CollectFragment()
	s.logger.Info("Fragment collected",
		"key", f.Key(),
		"title", f.Title,
		"fragments", s.epochs.Fragments(),
		"can_advance", s.epochs.CanAdvance())
}

// completeMiniGame records a finished trial. A passing run marks the game
// completed and collects its reward fragment, which is a no-op when the
// fragment is already owned.
func (s *Session) completeMiniGame(key string, completion int) {
	g, err := minigame.Lookup(key)
	if err != nil {
		s.logger.Warn("Ignored mini-game result", "minigame", key, "error", err)
		return
	}
	current := s.epochs.Current()
	if !g.Unlocked(current) {
		s.logger.Warn("Mini-game not yet unlocked", "minigame", g.ID, "epoch", current.String())
		return
	}
	if !minigame.Passed(completion) {
		s.logger.Info("Mini-game failed", "minigame", g.ID, "completion", completion)
		return
	}
	if !slices.Contains(s.miniGames, g.ID) {
		s.miniGames = append(s.miniGames, g.ID)
		s.logger.Info("Mini-game completed", "minigame", g.ID, "completion", completion)
	}
	s.collect(fragment.Key(g.Reward))
}

// Respond computes an NPC's reply to message without touching session state.
func (s *Session) Respond(npcID, message string) (string, error) {
	npc, ok := s.npcs.ByID(npcID)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownNPC, npcID)
	}
	return npc.Respond(message), nil
}

// Selected returns the id of the NPC currently chosen for dialogue.
func (s *Session) Selected() (string, bool) {
	if s.selected == nil {
		return "", false
	}
	return s.selected.ID, true
}

// Transcript returns the most recent dialogue exchanges, oldest first.
func (s *Session) Transcript() []Exchange {
	return slices.Clone(s.transcript)
}

// Snapshot returns the state as of the last Step.
func (s *Session) Snapshot() Snapshot {
	snap := s.snapshot
	snap.NPCs = slices.Clone(s.snapshot.NPCs)
	snap.Collected = slices.Clone(s.snapshot.Collected)
	snap.MiniGames = slices.Clone(s.snapshot.MiniGames)
	return snap
}

// Export produces the save record for the persistence layer.
func (s *Session) Export() *SaveRecord {
	return &SaveRecord{
		ID:                 s.id,
		CurrentEpoch:       s.epochs.Current().String(),
		FragmentsCollected: s.epochs.Fragments(),
		CollectedFragments: slices.Clone(s.collected),
		CompletedMiniGames: slices.Clone(s.miniGames),
		UnlockedDialogues:  slices.Clone(s.unlocked),
		PlayTime:           s.playTime,
	}
}

func (s *Session) refresh() {
	current := s.epochs.Current()
	collected, required, ok := s.epochs.Progress()
	if !ok {
		required = 0
	}

	npcs := make([]NPCView, 0, s.npcs.Len())
	for _, n := range s.npcs.NPCs() {
		npcs = append(npcs, NPCView{
			ID:           n.ID,
			Name:         n.Name(),
			Title:        n.Variant.Title(),
			Position:     n.Position,
			Rotation:     n.Rotation,
			Nearby:       n.Nearby,
			Interactions: n.Interactions,
			Color:        n.Color,
			Size:         n.Size,
		})
	}

	selected, _ := s.Selected()
	s.snapshot = Snapshot{
		Tick:     s.tick,
		PlayTime: s.playTime,
		Player: PlayerView{
			Position: s.player.Position,
			Yaw:      s.player.Yaw,
			Pitch:    s.player.Pitch,
			Jumping:  s.player.Jumping,
			Moving:   s.player.Moving(),
		},
		NPCs: npcs,
		World: WorldView{
			Epoch:       current,
			EpochName:   current.String(),
			DisplayName: current.DisplayName(),
			Background:  current.Color(),
			Entropy:     s.epochs.EntropyLevel(),
			Elapsed:     s.epochs.Elapsed(),
			Fragments:   collected,
			Required:    required,
			CanAdvance:  s.epochs.CanAdvance(),
		},
		Collected: slices.Clone(s.collected),
		MiniGames: slices.Clone(s.miniGames),
		Selected:  selected,
		LastReply: s.lastReply,
	}
}

// ClampDelta bounds a frame delta before it is passed to Step: non-finite and
// negative values become zero and long stalls are capped at max.
func ClampDelta(dt, max float64) float64 {
	if !geom.IsFinite(dt) || dt < 0 {
		return 0
	}
	if geom.IsFinite(max) && max >= 0 && dt > max {
		return max
	}
	return dt
}
