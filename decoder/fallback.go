package decoder

import (
	"reflect"

	"github.com/dexstream/dexstream/event"
)

// AssembleNamed builds an event body for (protocol, kind) from named numeric
// fields, for protocols that log text instead of emitting program-data
// events (logscan's text-fallback path). Field names are the target struct's
// own field names; values are the parsed integers. Boolean struct fields
// accept 0/1.
//
// It returns false — a decode miss, not an error — when (protocol, kind) has
// no registered spec, when fields is empty, or when any name does not
// resolve to a settable integer or bool field on the target struct. The
// fallback parser is deliberately liberal on its input and strict here: a
// half-understood log line must produce nothing rather than a wrong event.
func AssembleNamed(protocol event.Protocol, kind event.Kind, fields map[string]uint64, meta event.Metadata) (event.Event, bool) {
	if len(fields) == 0 {
		return event.Event{}, false
	}

	var target spec

	found := false
	for _, ts := range allSpecs {
		if ts.Protocol == protocol && ts.Kind == kind {
			target = ts.spec
			found = true

			break
		}
	}

	if !found {
		return event.Event{}, false
	}

	rv := reflect.ValueOf(target.New()).Elem()
	rv.FieldByName(metadataFieldName).Set(reflect.ValueOf(meta))

	for name, v := range fields {
		f := rv.FieldByName(name)
		if !f.IsValid() || !f.CanSet() {
			return event.Event{}, false
		}

		switch f.Kind() {
		case reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			f.SetUint(v)
		case reflect.Int32, reflect.Int64:
			f.SetInt(int64(v)) //nolint:gosec // text logs carry magnitudes, not sign bits
		case reflect.Bool:
			f.SetBool(v != 0)
		default:
			return event.Event{}, false
		}
	}

	return event.Event{Protocol: protocol, Kind: kind, Body: rv.Interface()}, true
}
