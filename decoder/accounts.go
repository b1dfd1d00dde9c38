package decoder

import (
	"reflect"

	"github.com/dexstream/dexstream/event"
)

// ApplyAccounts returns a copy of ev with its named Pubkey fields populated
// from an instruction's account list: names[i] names the struct field
// filled from account position i, an empty name skips that position, and an
// unresolvable position leaves the field at its zero value (the merger
// treats zero keys as absent). ixwalk calls this after a successful outer
// decode, since account context lives in the instruction's account-index
// array rather than its data bytes.
func ApplyAccounts(ev event.Event, names []string, lookup func(pos int) (event.Pubkey, bool)) event.Event {
	if len(names) == 0 {
		return ev
	}

	rv := reflect.New(reflect.TypeOf(ev.Body)).Elem()
	rv.Set(reflect.ValueOf(ev.Body))

	keyType := reflect.TypeOf(event.Pubkey{})

	for i, name := range names {
		if name == "" {
			continue
		}

		key, ok := lookup(i)
		if !ok {
			continue
		}

		f := rv.FieldByName(name)
		if f.IsValid() && f.CanSet() && f.Type() == keyType {
			f.Set(reflect.ValueOf(key))
		}
	}

	ev.Body = rv.Interface()

	return ev
}
