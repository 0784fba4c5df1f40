package input

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/thatsimonsguy/printer-panel/internal/model"
)

func TestQueue_DrainOrder(t *testing.T) {
	q := NewQueue(8)
	q.Push(Touch(10, 20))
	q.Push(Hardware(model.ActionZUp))
	q.Push(Quit())

	events := q.Drain()
	assert.Equal(t, []Event{
		{Kind: KindTouch, X: 10, Y: 20},
		{Kind: KindHardware, Action: model.ActionZUp},
		{Kind: KindQuit},
	}, events)
	assert.Empty(t, q.Drain())
}

func TestQueue_DropsWhenFull(t *testing.T) {
	q := NewQueue(2)
	assert.True(t, q.Push(Quit()))
	assert.True(t, q.Push(Quit()))
	assert.False(t, q.Push(Touch(1, 1)))
	assert.Equal(t, 2, q.Len())
	assert.Len(t, q.Drain(), 2)
}

func TestQueue_DefaultCapacity(t *testing.T) {
	q := NewQueue(0)
	for i := 0; i < DefaultCapacity; i++ {
		assert.True(t, q.Push(Touch(i, i)))
	}
	assert.False(t, q.Push(Touch(0, 0)))
}

func TestQueue_ConcurrentProducers(t *testing.T) {
	q := NewQueue(1000)
	var wg sync.WaitGroup
	for p := 0; p < 4; p++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				q.Push(Hardware(model.ActionGetReady))
			}
		}()
	}
	wg.Wait()
	assert.Len(t, q.Drain(), 400)
}
