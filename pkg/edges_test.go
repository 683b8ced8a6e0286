package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const bit = uint32(1 << 3)

func TestTagBitEdgeConstantSignal(t *testing.T) {
	events := EventStream{}
	for i := 0; i < 50; i++ {
		events = append(events, tagged(float64(i)*0.1, bit))
	}
	assert.Equal(t, NotFound, events.TagBitEdge(bit, 0, Rising))
	assert.Equal(t, NotFound, events.TagBitEdge(bit, 0, Falling))
}

func TestTagBitEdgeEmpty(t *testing.T) {
	assert.Equal(t, NotFound, EventStream{}.TagBitEdge(bit, 0, Rising))
	assert.Equal(t, NotFound, EventStream(nil).TagBitEdge(bit, -10, Falling))
}

func TestTagBitEdgeDebounce(t *testing.T) {
	events := EventStream{
		tagged(0.0, 0),
		tagged(0.1, 0),
		tagged(0.5, 0),
		tagged(1.0, bit), // reverts after 0.1 s
		tagged(1.1, 0),
		tagged(1.2, 0),
		tagged(2.0, bit),
		tagged(2.1, bit),
		tagged(2.5, bit),
		tagged(3.0, 0),
		tagged(3.5, 0),
	}
	assert.Equal(t, 2.0, events.TagBitEdge(bit, 0, Rising))
	assert.Equal(t, 1.1, events.TagBitEdge(bit, 0, Falling))
	assert.Equal(t, 3.0, events.TagBitEdge(bit, 2.0, Falling))
	assert.Equal(t, NotFound, events.TagBitEdge(bit, 2.0, Rising))
}

func TestTagBitEdgeNeedsHoldAfterTransition(t *testing.T) {
	events := EventStream{
		tagged(0.0, 0),
		tagged(0.1, 0),
		tagged(0.2, 0),
		tagged(0.3, bit),
		tagged(0.4, bit),
	}
	// the stream ends before the state held for 0.2 s
	assert.Equal(t, NotFound, events.TagBitEdge(bit, 0, Rising))
}

func TestTagBitEdgeSkipsStartup(t *testing.T) {
	events := EventStream{
		tagged(0.0, 0),
		tagged(0.1, bit),
		tagged(0.2, bit),
		tagged(1.0, bit),
	}
	assert.Equal(t, NotFound, events.TagBitEdge(bit, -1, Rising))
}

func TestTagBitEdgeOffset(t *testing.T) {
	events := EventStream{
		tagged(0.0, 0),
		tagged(0.1, 0),
		tagged(0.2, 0),
		tagged(1.0, bit),
		tagged(1.5, bit),
		tagged(2.0, 0),
		tagged(2.5, 0),
		tagged(3.0, bit),
		tagged(3.5, bit),
	}
	assert.Equal(t, 1.0, events.TagBitEdge(bit, 0.5, Rising))
	// offset is exclusive
	assert.Equal(t, 3.0, events.TagBitEdge(bit, 1.0, Rising))
}

func TestTagBitEdgeMask(t *testing.T) {
	other := uint32(1 << 7)
	events := EventStream{
		tagged(0.0, 0),
		tagged(0.1, 0),
		tagged(0.2, 0),
		tagged(1.0, other),
		tagged(2.0, other),
		tagged(3.0, other|bit),
		tagged(4.0, other|bit),
	}
	assert.Equal(t, 3.0, events.TagBitEdge(bit, 0, Rising))
	assert.Equal(t, 1.0, events.TagBitEdge(other, 0, Rising))
}

func TestEdgeString(t *testing.T) {
	assert.Equal(t, "rising", Rising.String())
	assert.Equal(t, "falling", Falling.String())
}
