package config

import "github.com/dexstream/dexstream/event"

// EventType names one (protocol, kind) pair for filtering.
type EventType struct {
	Protocol event.Protocol
	Kind     event.Kind
}

// EventTypeFilter admits or rejects (protocol, kind) pairs ahead of
// discriminator dispatch, so filtered-out kinds cost nothing to skip. A nil
// *EventTypeFilter admits everything.
type EventTypeFilter struct {
	include bool
	set     map[EventType]struct{}
}

// IncludeEventTypes builds a filter admitting only the listed pairs.
func IncludeEventTypes(types ...EventType) *EventTypeFilter {
	return newEventTypeFilter(true, types)
}

// ExcludeEventTypes builds a filter admitting everything except the listed
// pairs.
func ExcludeEventTypes(types ...EventType) *EventTypeFilter {
	return newEventTypeFilter(false, types)
}

func newEventTypeFilter(include bool, types []EventType) *EventTypeFilter {
	f := &EventTypeFilter{include: include, set: make(map[EventType]struct{}, len(types))}
	for _, t := range types {
		f.set[t] = struct{}{}
	}

	return f
}

// Allows reports whether events of (protocol, kind) should be decoded.
func (f *EventTypeFilter) Allows(protocol event.Protocol, kind event.Kind) bool {
	if f == nil {
		return true
	}

	_, listed := f.set[EventType{Protocol: protocol, Kind: kind}]

	if f.include {
		return listed
	}

	return !listed
}
