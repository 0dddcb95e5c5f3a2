// Package fragment lists the memory fragments a player can collect. The
// catalogue is fixed; progress is tracked by the epoch machine's counter and
// the collected keys recorded in a save.
package fragment

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/jwebster45206/yingzhou/pkg/epoch"
)

var ErrUnknownFragment = errors.New("unknown fragment")

// Fragment is one entry of the memory gallery.
type Fragment struct {
	ID      int         `json:"id"`
	Title   string      `json:"title"`
	Content string      `json:"content"`
	Keyword string      `json:"keyword"`
	Epoch   epoch.Epoch `json:"epoch"`
	Hidden  bool        `json:"hidden"`
}

// Key is the identifier stored in save records.
func (f Fragment) Key() string {
	return Key(f.ID)
}

func Key(id int) string {
	return strconv.Itoa(id)
}

var catalogue = []Fragment{
	{0, "创世之光", "在混沌之初，第一个智能合约被部署...", "创世", epoch.Genesis, false},
	{1, "萌芽之种", "文明开始生长，第一批数字生命诞生...", "萌芽", epoch.Emergence, false},
	{2, "繁盛之歌", "瀛州达到巅峰，无数智能体共同创造...", "繁盛", epoch.Flourish, false},
	{3, "熵化之始", "秩序开始崩溃，混乱逐渐蔓延...", "熵化", epoch.Entropy, false},
	{4, "毁灭之兆", "终焉即将到来，一切归于虚无...", "毁灭", epoch.Collapse, false},
	{5, "史官的记忆", "史官记录下的最后文字...", "历史", epoch.Genesis, false},
	{6, "工匠的遗产", "工匠留下的最后作品...", "创造", epoch.Emergence, false},
	{7, "商序的账本", "商序保存的交易记录...", "交易", epoch.Flourish, false},
	{8, "创世密码", "隐藏在创世区块中的秘密...", "密码", epoch.Genesis, true},
	{9, "先知预言", "先知看到的未来景象...", "预言", epoch.Entropy, true},
	{10, "遗忘者的真相", "遗忘者隐藏的真实身份...", "真相", epoch.Collapse, true},
	{11, "时间悖论", "关于时间循环的秘密...", "时间", epoch.Flourish, true},
	{12, "虚空之眼", "窥视虚空的禁忌知识...", "虚空", epoch.Collapse, true},
	{13, "永恒契约", "永不消逝的智能合约...", "永恒", epoch.Genesis, true},
	{14, "熵之源", "熵化的真正起源...", "起源", epoch.Entropy, true},
	{15, "重生之路", "文明重生的可能性...", "重生", epoch.Collapse, true},
	{16, "平行世界", "另一个瀛州的存在...", "平行", epoch.Flourish, true},
	{17, "终极真理", "关于一切的终极答案...", "真理", epoch.Collapse, true},
}

// All returns a copy of the catalogue ordered by ID.
func All() []Fragment {
	out := make([]Fragment, len(catalogue))
	copy(out, catalogue)
	return out
}

// Count is the catalogue size.
func Count() int {
	return len(catalogue)
}

func Lookup(id int) (Fragment, error) {
	if id < 0 || id >= len(catalogue) {
		return Fragment{}, fmt.Errorf("%w: %d", ErrUnknownFragment, id)
	}
	return catalogue[id], nil
}

// LookupKey resolves a save-record key such as "7".
func LookupKey(key string) (Fragment, error) {
	id, err := strconv.Atoi(key)
	if err != nil {
		return Fragment{}, fmt.Errorf("%w: %q", ErrUnknownFragment, key)
	}
	return Lookup(id)
}

// ForEpoch lists the fragments themed on e, hidden ones included.
func ForEpoch(e epoch.Epoch) []Fragment {
	var out []Fragment
	for _, f := range catalogue {
		if f.Epoch == e {
			out = append(out, f)
		}
	}
	return out
}

// Available reports whether f can be collected while the world is in current.
// Hidden fragments only surface once the world has collapsed.
func Available(f Fragment, current epoch.Epoch) bool {
	if f.Hidden {
		return current == epoch.Collapse
	}
	return f.Epoch <= current
}

// NextAvailable returns the lowest-ID fragment that is available in current
// and absent from collected.
func NextAvailable(collected map[string]bool, current epoch.Epoch) (Fragment, bool) {
	for _, f := range catalogue {
		if collected[f.Key()] {
			continue
		}
		if Available(f, current) {
			return f, true
		}
	}
	return Fragment{}, false
}
