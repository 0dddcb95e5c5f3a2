package state

import (
	"testing"

	"github.com/jwebster45206/yingzhou/pkg/actor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueue_FIFO(t *testing.T) {
	q := NewQueue(4)
	require.NoError(t, q.Push(BeginIntent(actor.Left)))
	require.NoError(t, q.Push(Jump()))
	require.NoError(t, q.Push(EndIntent(actor.Left)))
	assert.Equal(t, 3, q.Len())

	got := q.Drain()
	require.Len(t, got, 3)
	assert.Equal(t, EventBeginIntent, got[0].Kind)
	assert.Equal(t, EventJump, got[1].Kind)
	assert.Equal(t, EventEndIntent, got[2].Kind)
	assert.Equal(t, 0, q.Len())
	assert.Nil(t, q.Drain())
}

func TestQueue_Full(t *testing.T) {
	q := NewQueue(1)
	require.NoError(t, q.Push(Jump()))
	assert.ErrorIs(t, q.Push(Interact()), ErrQueueFull)

	got := q.Drain()
	require.Len(t, got, 1)
	assert.Equal(t, EventJump, got[0].Kind, "a rejected push leaves the queue unchanged")
}

func TestQueue_DrainDoesNotAlias(t *testing.T) {
	q := NewQueue(2)
	require.NoError(t, q.Push(SelectNPC("oracle")))
	got := q.Drain()
	require.NoError(t, q.Push(SelectNPC("architect")))
	assert.Equal(t, "oracle", got[0].Target)
}

func TestNewQueue_DefaultCapacity(t *testing.T) {
	assert.Equal(t, DefaultQueueCapacity, NewQueue(0).Cap())
	assert.Equal(t, DefaultQueueCapacity, NewQueue(-3).Cap())
	assert.Equal(t, 8, NewQueue(8).Cap())
}

func TestEventKind_String(t *testing.T) {
	assert.Equal(t, "begin_intent", EventBeginIntent.String())
	assert.Equal(t, "complete_minigame", EventCompleteMiniGame.String())
	assert.Equal(t, "event(42)", EventKind(42).String())
}
