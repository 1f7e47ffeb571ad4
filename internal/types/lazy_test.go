package types

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLazyComputesOnce(t *testing.T) {
	var calls atomic.Int32
	l := NewLazy(func() int {
		calls.Add(1)
		return 42
	})
	_, err := l.Peek()
	require.ErrorIs(t, err, ErrNotReady)
	assert.Equal(t, Uninitialized, l.State())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, 42, l.Get())
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), calls.Load())
	v, err := l.Peek()
	require.NoError(t, err)
	assert.Equal(t, 42, v)
	assert.Equal(t, Ready, l.State())
}

func TestReadyLazy(t *testing.T) {
	l := ReadyLazy("done")
	assert.Equal(t, Ready, l.State())
	assert.Equal(t, "done", l.Get())
	assert.Zero(t, NewLazy[int](nil).Get())
}

func TestTriDistinguishesNoneFromNotComputed(t *testing.T) {
	var c Tri[*MethodSig]
	_, state := c.Get()
	assert.Equal(t, NotComputed, state)

	c.SetNone()
	v, state := c.Get()
	assert.Equal(t, ComputedNone, state)
	assert.Nil(t, v)

	sig := &MethodSig{}
	c.SetSome(sig)
	v, state = c.Get()
	assert.Equal(t, ComputedSome, state)
	assert.Same(t, sig, v)
}
