// Package minigame holds the epoch trials hosted by the NPCs. Each trial
// belongs to one epoch, is hosted by one NPC and rewards one fragment when
// finished with enough completion.
package minigame

import (
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"strings"

	"github.com/jwebster45206/yingzhou/pkg/dialogue"
	"github.com/jwebster45206/yingzhou/pkg/epoch"
)

var ErrUnknownGame = errors.New("unknown mini-game")

// PassCompletion is the completion percentage a run needs to earn its reward.
const PassCompletion = 60

// Challenge is how a trial is played in a front-end without arcade graphics.
type Challenge int

const (
	// Recall shows a digit sequence and asks for it back.
	Recall Challenge = iota
	// Reaction asks for the shown digit before it fades.
	Reaction
)

func (c Challenge) String() string {
	switch c {
	case Recall:
		return "recall"
	case Reaction:
		return "reaction"
	default:
		return fmt.Sprintf("Challenge(%d)", int(c))
	}
}

// Game is one entry of the game centre.
type Game struct {
	Index       int              `json:"index"`
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Trial       string           `json:"trial"` // what the host calls it
	Description string           `json:"description"`
	Host        dialogue.Variant `json:"host"`
	Epoch       epoch.Epoch      `json:"epoch"`
	Reward      int              `json:"reward"` // fragment id
	Challenge   Challenge        `json:"challenge"`
}

var games = []Game{
	{0, "memory-sort", "记忆排序", "记忆排序", "将区块编号按顺序排列", dialogue.Archivist, epoch.Genesis, 0, Recall},
	{1, "snake", "贪吃蛇", "代码构建", "生命不断成长，小心撞墙", dialogue.Architect, epoch.Emergence, 1, Recall},
	{2, "maze", "迷宫探索", "资源平衡", "探索未知领域，找到出口", dialogue.Mercantile, epoch.Flourish, 2, Recall},
	{3, "breakout", "打砖块", "未来推演", "秩序崩塌，击碎数据块", dialogue.Oracle, epoch.Entropy, 3, Reaction},
	{4, "reaction", "反应测试", "混沌迷宫", "在混沌中捕捉希望之光", dialogue.Forgotten, epoch.Collapse, 4, Reaction},
}

// All returns every game ordered by index.
func All() []Game {
	out := make([]Game, len(games))
	copy(out, games)
	return out
}

// Lookup resolves a game by id, case-insensitively, or by its numeric index
// as older saves stored it.
func Lookup(key string) (Game, error) {
	key = strings.ToLower(strings.TrimSpace(key))
	for _, g := range games {
		if g.ID == key {
			return g, nil
		}
	}
	if i, err := strconv.Atoi(key); err == nil && i >= 0 && i < len(games) {
		return games[i], nil
	}
	return Game{}, fmt.Errorf("%w: %q", ErrUnknownGame, key)
}

// ForHost returns the trial v hosts.
func ForHost(v dialogue.Variant) (Game, bool) {
	for _, g := range games {
		if g.Host == v {
			return g, true
		}
	}
	return Game{}, false
}

// Unlocked reports whether g can be played while the world is in current.
func (g Game) Unlocked(current epoch.Epoch) bool {
	return g.Epoch <= current
}

// Passed reports whether a run with the given completion earns the reward.
func Passed(completion int) bool {
	return completion >= PassCompletion
}

// Run is a trial in progress.
type Run interface {
	Done() bool
	Score() int
	Completion() int
}

// Start begins a run of g's challenge. The result is a *SequenceRun or a
// *ReactionRun.
func Start(g Game, rng *rand.Rand) Run {
	if g.Challenge == Reaction {
		return NewReactionRun(rng)
	}
	return NewSequenceRun(rng)
}
