package picker

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueue_PushNeverBlocks(t *testing.T) {
	q := NewQueue(2)
	assert.True(t, q.Push(Event{Kind: MoveUp}))
	assert.True(t, q.Push(Event{Kind: MoveDown}))
	assert.False(t, q.Push(Event{Kind: Accept}))
	assert.EqualValues(t, 1, q.Dropped())
	assert.Equal(t, 2, q.Len())

	got := q.drain()
	require.Len(t, got, 2)
	assert.Equal(t, MoveUp, got[0].Kind)
	assert.Equal(t, MoveDown, got[1].Kind)
	assert.Nil(t, q.drain())
}

func TestQueue_TranslateRecoversPanics(t *testing.T) {
	q := NewQueue(4)

	pushed := q.Translate(func() (Event, bool) {
		var m map[string]int
		m["boom"]++
		return Event{Kind: Accept}, true
	})
	assert.False(t, pushed)
	assert.EqualValues(t, 1, q.Dropped())
	assert.Zero(t, q.Len())

	assert.False(t, q.Translate(func() (Event, bool) { return Event{}, false }))
	assert.True(t, q.Translate(func() (Event, bool) {
		return Event{Kind: QueryChanged, Query: "abc"}, true
	}))

	got := q.drain()
	require.Len(t, got, 1)
	assert.Equal(t, "abc", got[0].Query)
}

func TestQueue_ConcurrentProducers(t *testing.T) {
	q := NewQueue(1000)
	var wg sync.WaitGroup
	for p := 0; p < 10; p++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				q.Push(Event{Kind: MoveDown})
			}
		}()
	}
	wg.Wait()
	assert.Len(t, q.drain(), 1000)
	assert.Zero(t, q.Dropped())
}

func TestEventKind_String(t *testing.T) {
	assert.Equal(t, "toggle", ToggleVisibility.String())
	assert.Equal(t, "event(9)", EventKind(9).String())
}
