package event

import (
	"github.com/pandodao/launchpad/core"
)

// New returns a buffered in-process bus. Publishing never blocks: when the
// journal falls behind by more than size events further publishes are
// dropped on the floor, which the engine tolerates because the analytics
// journal is not part of its correctness.
func New(size int) core.EventBus {
	if size <= 0 {
		size = 1024
	}

	return &bus{ch: make(chan *core.Event, size)}
}

type bus struct {
	ch chan *core.Event
}

func (b *bus) Publish(event *core.Event) {
	select {
	case b.ch <- event:
	default:
	}
}

func (b *bus) Subscribe() <-chan *core.Event {
	return b.ch
}
