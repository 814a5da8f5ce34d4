package activity

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMemoryIdleTimeout(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(Options{IdleTimeout: 10 * time.Minute})
	t0 := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, m.Touch(ctx, "sid:a", t0))
	require.NoError(t, m.Touch(ctx, "sid:a", t0.Add(9*time.Minute)))
	require.NoError(t, m.Touch(ctx, "sid:a", t0.Add(19*time.Minute)))

	require.ErrorIs(t, m.Touch(ctx, "sid:a", t0.Add(30*time.Minute)), ErrIdle)

	// Once idle the session stays dead, even for a prompt retry.
	require.ErrorIs(t, m.Touch(ctx, "sid:a", t0.Add(30*time.Minute+time.Second)), ErrIdle)

	// Other sessions are unaffected.
	require.NoError(t, m.Touch(ctx, "sid:b", t0.Add(30*time.Minute)))
}

func TestMemoryExactlyAtTimeoutIsActive(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(Options{IdleTimeout: time.Minute})
	t0 := time.Unix(1_700_000_000, 0)

	require.NoError(t, m.Touch(ctx, "k", t0))
	require.NoError(t, m.Touch(ctx, "k", t0.Add(time.Minute)))
}

func TestMemorySweep(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(Options{IdleTimeout: time.Minute, Retention: time.Hour})
	t0 := time.Unix(1_700_000_000, 0)

	require.NoError(t, m.Touch(ctx, "old", t0))
	require.NoError(t, m.Touch(ctx, "fresh", t0.Add(50*time.Minute)))

	n, err := m.Sweep(ctx, t0.Add(61*time.Minute))
	require.NoError(t, err)
	require.Equal(t, 1, n)
	require.Equal(t, 1, m.Len())
}

func TestOptionsDefaults(t *testing.T) {
	o := Options{}.withDefaults()
	require.Equal(t, DefaultIdleTimeout, o.IdleTimeout)
	require.Equal(t, DefaultRetention, o.Retention)

	o = Options{IdleTimeout: 48 * time.Hour}.withDefaults()
	require.Equal(t, 48*time.Hour, o.Retention)
}
