// Package dialogue holds the scripted conversation tables of the five fixed
// NPCs. Each Variant answers through a single operation, Respond, which walks
// an ordered keyword table and falls back to a default line.
package dialogue

import (
	"fmt"
	"slices"
	"strings"

	"github.com/jwebster45206/yingzhou/pkg/textfilter"
)

// Variant identifies one of the five NPC voices. The set is closed.
type Variant int

const (
	Archivist Variant = iota
	Architect
	Mercantile
	Oracle
	Forgotten
)

// DefaultBranch is the branch index Match reports when no keyword hit.
const DefaultBranch = -1

// fallbackReply is returned for a Variant outside the defined set.
const fallbackReply = "……"

// Variants returns every voice in registration order.
func Variants() []Variant {
	return []Variant{Archivist, Architect, Mercantile, Oracle, Forgotten}
}

func (v Variant) Valid() bool {
	return v >= Archivist && v <= Forgotten
}

// ID is the stable ASCII identifier used in save records and commands.
func (v Variant) ID() string {
	if !v.Valid() {
		return fmt.Sprintf("variant-%d", int(v))
	}
	return tables[v].id
}

// Name is the in-world name, e.g. 史官.
func (v Variant) Name() string {
	if !v.Valid() {
		return v.ID()
	}
	return tables[v].name
}

// Title is a short English epithet for logs and ASCII-only front-ends.
func (v Variant) Title() string {
	if !v.Valid() {
		return v.ID()
	}
	return tables[v].title
}

func (v Variant) String() string {
	return v.ID()
}

// ParseVariant looks a voice up by its ID or in-world name.
func ParseVariant(s string) (Variant, bool) {
	s = strings.TrimSpace(s)
	for _, v := range Variants() {
		if strings.EqualFold(s, tables[v].id) || s == tables[v].name {
			return v, true
		}
	}
	return 0, false
}

// Respond returns the canned reply for message. It never fails: every table
// ends in a default line.
func (v Variant) Respond(message string) string {
	reply, _ := v.Match(message)
	return reply
}

// Match is Respond plus the index of the branch that answered, or
// DefaultBranch when nothing matched.
func (v Variant) Match(message string) (string, int) {
	if !v.Valid() {
		return fallbackReply, DefaultBranch
	}
	t := tables[v]
	normalized := textfilter.Normalize(message)
	for i, b := range t.branches {
		for _, kw := range b.keywords {
			if strings.Contains(normalized, kw) {
				return b.reply, i
			}
		}
	}
	return t.fallback, DefaultBranch
}

// Branches is the number of keyword branches before the default.
func (v Variant) Branches() int {
	if !v.Valid() {
		return 0
	}
	return len(tables[v].branches)
}

// Keywords lists the trigger words of one branch, or nil when branch is out
// of range.
func (v Variant) Keywords(branch int) []string {
	if !v.Valid() || branch < 0 || branch >= len(tables[v].branches) {
		return nil
	}
	return slices.Clone(tables[v].branches[branch].keywords)
}
