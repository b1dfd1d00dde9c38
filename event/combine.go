package event

import "reflect"

// metadataFieldName is the name Go assigns an anonymously embedded Metadata
// field; every concrete event body embeds Metadata under this name.
const metadataFieldName = "Metadata"

// bodyMetadata extracts the embedded Metadata from a concrete event body via
// reflection. It returns the zero Metadata if body is nil or has no such
// field (programmer error; callers treat a zero Metadata as "not ready").
func bodyMetadata(body any) Metadata {
	if body == nil {
		return Metadata{}
	}

	v := reflect.ValueOf(body)
	f := v.FieldByName(metadataFieldName)
	if !f.IsValid() {
		return Metadata{}
	}

	m, _ := f.Interface().(Metadata)

	return m
}

// metadataRank orders sources for metadata attribution: combined metadata
// is taken from the outer event. Log-path partials carry
// no instruction indices at all, so they rank above inner (closer to
// "outer-like" for the purpose of this precedence) but below an actual
// outer-instruction partial.
func metadataRank(s Source) int {
	switch s {
	case SourceOuter:
		return 2
	case SourceLog:
		return 1
	case SourceInner:
		return 0
	default:
		return -1
	}
}

// valueRank orders sources for the business-field tie-break: on conflict,
// keep the inner-instruction-sourced value because it reflects post-state.
// Log-path values rank above outer-only values because the
// log line is itself emitted at the moment of execution, closer to
// authoritative than request-time account context.
func valueRank(s Source) int {
	switch s {
	case SourceInner:
		return 2
	case SourceLog:
		return 1
	case SourceOuter:
		return 0
	default:
		return -1
	}
}

// Combine merges two partials describing the same logical operation per the
// pairing rule: same protocol, same kind, same signature,
// same outer-instruction index. It is the caller's responsibility (merger
// package) to only call Combine on partials that already satisfy that rule.
//
// Combine is symmetric when a and b come from different sources:
// Combine(a, b) and Combine(b, a) then produce field-for-field identical
// results. When both carry the same Source, a field on which they conflict
// keeps a's value. It is also idempotent: combining an
// event with itself returns that event unchanged.
//
// ok is false if a and b's bodies are not the same concrete Go type: the
// programmer-error case where a decoder produced a
// type-incompatible variant. Callers must then emit both partials unmerged.
func Combine(a, b Partial) (Event, bool) {
	if a.Event.Protocol != b.Event.Protocol || a.Event.Kind != b.Event.Kind {
		return Event{}, false
	}

	ta := reflect.TypeOf(a.Event.Body)
	tb := reflect.TypeOf(b.Event.Body)
	if ta == nil || tb == nil || ta != tb {
		return Event{}, false
	}

	merged, err := combineBodies(a.Event.Body, b.Event.Body, a.Source, b.Source)
	if err != nil {
		return Event{}, false
	}

	return Event{Protocol: a.Event.Protocol, Kind: a.Event.Kind, Body: merged}, true
}

// combineBodies performs the field-by-field merge: result field =
// non-default of (A, B); if both non-default and
// unequal, keep the value from the higher-valueRank source. The embedded
// Metadata field is taken wholesale from the higher-metadataRank source
// instead of being merged field-by-field.
func combineBodies(a, b any, srcA, srcB Source) (any, error) {
	va := reflect.ValueOf(a)
	vb := reflect.ValueOf(b)
	t := va.Type()

	out := reflect.New(t).Elem()

	for i := range t.NumField() {
		field := t.Field(i)
		fa := va.Field(i)
		fb := vb.Field(i)

		if field.Name == metadataFieldName {
			if metadataRank(srcA) >= metadataRank(srcB) {
				out.Field(i).Set(fa)
			} else {
				out.Field(i).Set(fb)
			}

			continue
		}

		out.Field(i).Set(chooseField(fa, fb, srcA, srcB))
	}

	return out.Interface(), nil
}

// chooseField applies the non-default-wins / inner-breaks-ties rule to a
// single pair of same-typed field values.
func chooseField(fa, fb reflect.Value, srcA, srcB Source) reflect.Value {
	aZero := fa.IsZero()
	bZero := fb.IsZero()

	switch {
	case aZero && !bZero:
		return fb
	case bZero && !aZero:
		return fa
	case aZero && bZero:
		return fa
	}

	if reflect.DeepEqual(fa.Interface(), fb.Interface()) {
		return fa
	}

	if valueRank(srcA) >= valueRank(srcB) {
		return fa
	}

	return fb
}
