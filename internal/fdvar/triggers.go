package fdvar

import "github.com/cspkit/fdsearch/internal/propagate"

// triggerSet is the per-variable subscription list every variety embeds:
// one slice per event-kind, plus a by-value index for EventValueRemoved
// triggers that only care about one specific value leaving the domain.
type triggerSet struct {
	byKind  [4][]propagate.Trigger
	byValue map[int][]propagate.Trigger
}

func (s *triggerSet) add(t propagate.Trigger) {
	if t.Event == propagate.EventValueRemoved && t.HasValue {
		if s.byValue == nil {
			s.byValue = make(map[int][]propagate.Trigger)
		}
		s.byValue[t.Value] = append(s.byValue[t.Value], t)
		return
	}
	s.byKind[t.Event] = append(s.byKind[t.Event], t)
}

// firing returns every trigger subscribed to ev that should fire for this
// mutation, attaching payload to each as the getDomainChange projection for
// this firing. removedValue/hasRemovedValue identify which specific-value
// ValueRemoved triggers also match.
func (s *triggerSet) firing(ev propagate.EventKind, removedValue int, hasRemovedValue bool, payload Delta) []propagate.Trigger {
	base := s.byKind[ev]
	out := make([]propagate.Trigger, 0, len(base))
	for _, t := range base {
		t.Payload = payload
		out = append(out, t)
	}
	if ev == propagate.EventValueRemoved && hasRemovedValue && s.byValue != nil {
		for _, t := range s.byValue[removedValue] {
			t.Payload = payload
			out = append(out, t)
		}
	}
	return out
}
