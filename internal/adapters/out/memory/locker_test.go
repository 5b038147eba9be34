package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dispatch/internal/adapters/out/memory"
)

func TestLocker_SerialisesSameKey(t *testing.T) {
	locker := memory.NewLocker()

	release, err := locker.Lock(t.Context(), "order:1")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(t.Context(), 50*time.Millisecond)
	defer cancel()
	_, err = locker.Lock(ctx, "order:1")
	require.ErrorIs(t, err, context.DeadlineExceeded)

	release()
	release()

	again, err := locker.Lock(t.Context(), "order:1")
	require.NoError(t, err)
	again()
}

func TestLocker_IndependentKeys(t *testing.T) {
	locker := memory.NewLocker()

	a, err := locker.Lock(t.Context(), "order:1")
	require.NoError(t, err)
	defer a()

	b, err := locker.Lock(t.Context(), "order:2")
	require.NoError(t, err)
	assert.NotNil(t, b)
	b()
}
