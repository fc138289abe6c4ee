package tracker

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgressFinal(t *testing.T) {
	p := NewProgress(4)
	p.Update(true)
	p.Update(true)
	p.Update(false)
	p.Update(true)

	stats := p.Final()
	assert.Equal(t, 4, stats.Total)
	assert.Equal(t, 4, stats.Processed)
	assert.Equal(t, 1, stats.Failed)
	assert.InDelta(t, 75.0, stats.SuccessRate, 0.001)
}

func TestProgressEmptyRun(t *testing.T) {
	stats := NewProgress(0).Final()
	assert.Zero(t, stats.Processed)
	assert.Zero(t, stats.SuccessRate)
}

func TestProgressConcurrentUpdates(t *testing.T) {
	p := NewProgress(1000)
	var wg sync.WaitGroup
	for w := 0; w < 10; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				p.Update(i%10 != 0)
			}
		}()
	}
	wg.Wait()

	stats := p.Final()
	assert.Equal(t, 1000, stats.Processed)
	assert.Equal(t, 100, stats.Failed)
}
