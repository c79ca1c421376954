package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMsgTracker(t *testing.T) {
	tr := newMsgTracker()

	tr.Add(1, 100)
	tr.Add(1, 101)
	tr.Add(2, 200)

	assert.Equal(t, []int{100, 101}, tr.Drain(1))
	assert.Empty(t, tr.Drain(1)) // повторный Drain пуст
	assert.Equal(t, []int{200}, tr.Drain(2))
}

func TestMsgTrackerBounded(t *testing.T) {
	tr := newMsgTracker()
	for i := 0; i < 25; i++ {
		tr.Add(1, i)
	}
	ids := tr.Drain(1)
	assert.Len(t, ids, maxTrackedMessages)
	assert.Equal(t, 15, ids[0])
	assert.Equal(t, 24, ids[len(ids)-1])
}
