package locking

import (
	"testing"

	"github.com/sourcegraph/conc"
	"github.com/stretchr/testify/require"
)

func TestRefCount_LastHolder(t *testing.T) {
	r := NewRefCount()
	require.Equal(t, int32(1), r.Get())

	r.Inc()
	require.False(t, r.Dec())
	require.True(t, r.Dec())
	require.Equal(t, "RefCount: 0", r.String())

	require.Panics(t, func() { r.Dec() })
}

func TestRefCount_Concurrent(t *testing.T) {
	r := NewRefCount()
	var wg conc.WaitGroup
	for range 100 {
		r.Inc()
		wg.Go(func() { r.Dec() })
	}
	wg.Wait()
	require.Equal(t, int32(1), r.Get())
}
