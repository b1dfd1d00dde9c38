package txsource

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dexstream/dexstream/errs"
	"github.com/dexstream/dexstream/event"
)

func pk(b byte) event.Pubkey {
	var p event.Pubkey
	p[0] = b

	return p
}

func TestAccountKeys_ResolveAcrossSegments(t *testing.T) {
	require := require.New(t)

	keys := AccountKeys{
		Static:         []event.Pubkey{pk(1), pk(2)},
		LookupWritable: []event.Pubkey{pk(3)},
		LookupReadonly: []event.Pubkey{pk(4), pk(5)},
	}

	require.Equal(5, keys.Len())

	v, ok := keys.Resolve(0)
	require.True(ok)
	require.Equal(pk(1), v)

	v, ok = keys.Resolve(2)
	require.True(ok)
	require.Equal(pk(3), v)

	v, ok = keys.Resolve(4)
	require.True(ok)
	require.Equal(pk(5), v)

	_, ok = keys.Resolve(5)
	require.False(ok)
}

func TestUnimplementedRPCFetcher_ReturnsNotImplemented(t *testing.T) {
	var f UnimplementedRPCFetcher

	_, err := f.FetchTransaction(context.Background(), event.Signature{})
	require.ErrorIs(t, err, errs.ErrNotImplemented)
}
