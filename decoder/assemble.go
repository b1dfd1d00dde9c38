package decoder

import (
	"reflect"

	"github.com/dexstream/dexstream/event"
)

const metadataFieldName = "Metadata"

// spec declares one registered event kind: its discriminator name, wire
// layout, and the concrete Go type its fields assemble into. The registry
// entry's Decode function passes New and Layout to assemble on every call,
// so each lookup hit pays assemble's reflection walk on top of the chosen
// decode strategy.
type spec struct {
	Protocol event.Protocol
	Kind     event.Kind
	Name     string
	// Disc pins the on-wire discriminator bytes observed on mainnet (8 for
	// the outer table, first 8 of 16 for the inner table). Kinds without a
	// pinned literal derive a stable key from Name via outerKey/innerKey.
	Disc   []byte
	Layout Layout
	// Accounts names the struct field populated from each account position
	// of an outer instruction's account-index array; empty entries skip a
	// position. Only meaningful for outer-table entries reached through the
	// instruction path.
	Accounts []string
	New    func() any // returns a pointer to a zero value of the target struct
}

// assemble builds a concrete event body of the type newFn returns,
// populating it from vals (one per layout.Fixed field, same order) and
// strs (one per layout.Tails field, same order) via reflection, matching
// fields by name. It mirrors event.combineBodies's own field-by-field
// reflection walk rather than requiring a hand-written function per event
// kind — there is one registered kind per protocol×event pair (30+), and a
// generic assembler keeps them from drifting out of sync with their struct
// definitions. The returned value is the event body (e.g. event.PumpFunTrade),
// not wrapped in event.Event; registry entries wrap it themselves.
func assemble(newFn func() any, layout Layout, vals []Value, strs []string, meta event.Metadata) any {
	ptr := reflect.ValueOf(newFn())
	rv := ptr.Elem()

	rv.FieldByName(metadataFieldName).Set(reflect.ValueOf(meta))

	for i, f := range layout.Fixed {
		setField(rv.FieldByName(f.Name), vals[i])
	}

	for i, name := range layout.Tails {
		rv.FieldByName(name).SetString(strs[i])
	}

	return rv.Interface()
}

// setField assigns val's payload onto field, dispatching on field's
// reflect.Kind rather than val.Kind. A Field whose declared FieldKind does
// not match its struct field's real type is not detected: the struct field
// receives whichever Value payload its reflect.Kind selects (zero when that
// payload was not the one decoded), and a Field name with no matching struct
// field is skipped without error.
func setField(field reflect.Value, val Value) {
	switch field.Kind() {
	case reflect.Bool:
		field.SetBool(val.Bool)
	case reflect.Uint8:
		field.SetUint(uint64(val.U8))
	case reflect.Uint16:
		field.SetUint(uint64(val.U16))
	case reflect.Uint32:
		field.SetUint(uint64(val.U32))
	case reflect.Uint64:
		field.SetUint(val.U64)
	case reflect.Int32:
		field.SetInt(int64(val.I32))
	case reflect.Int64:
		field.SetInt(val.I64)
	case reflect.Array:
		reflect.Copy(field, reflect.ValueOf(val.Pubkey))
	case reflect.Struct:
		field.Set(reflect.ValueOf(event.Uint128{Lo: val.U128Lo, Hi: val.U128Hi}))
	}
}
