package lifecycle

import (
	"context"

	"github.com/aretw0/lifecycle"

	"github.com/geotagx/builder/pkg/core"
)

// projectSource forwards project change events, one per project directory at
// a time: while an event for a directory waits for the consumer, later events
// for the same directory are folded into it.
type projectSource struct {
	events <-chan core.Event
	out    chan lifecycle.Event
}

// NewSource creates a lifecycle.Source that emits project change events.
// Saving project.yaml and tutorial.yaml together while the consumer is busy
// re-validating yields a single event for that project.
// The returned source closes its channel once the input is drained and
// closed, or when the context passed to Start is cancelled.
func NewSource(events <-chan core.Event) lifecycle.Source {
	return &projectSource{
		events: events,
		out:    make(chan lifecycle.Event),
	}
}

func (s *projectSource) Events() <-chan lifecycle.Event {
	return s.out
}

func (s *projectSource) Start(ctx context.Context) error {
	lifecycle.Go(ctx, s.run)
	return nil
}

func (s *projectSource) run(ctx context.Context) error {
	defer close(s.out)

	in := s.events
	var queue []string
	pending := make(map[string]core.Event)

	for {
		var out chan lifecycle.Event
		var next lifecycle.Event
		if len(queue) > 0 {
			out = s.out
			next = pending[queue[0]]
		} else if in == nil {
			return nil
		}

		select {
		case <-ctx.Done():
			return nil
		case e, ok := <-in:
			if !ok {
				in = nil
				continue
			}
			if prev, exists := pending[e.Dir]; exists {
				pending[e.Dir] = fold(prev, e)
				continue
			}
			pending[e.Dir] = e
			queue = append(queue, e.Dir)
		case out <- next:
			delete(pending, queue[0])
			queue = queue[1:]
		}
	}
}

// fold merges a later event for the same project into an earlier one.
// The later file and timestamp win. A project that appeared in the window is
// still reported as created, and one that was removed and written again as
// modified.
func fold(prev, next core.Event) core.Event {
	merged := next
	switch {
	case prev.Type == core.EventCreate && next.Type != core.EventDelete:
		merged.Type = core.EventCreate
	case prev.Type == core.EventDelete && next.Type != core.EventDelete:
		merged.Type = core.EventModify
	}
	return merged
}
