package idle_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/idlesession/core/idle"
)

var (
	now    = time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)
	policy = idle.Policy{Timeout: 900 * time.Second, Grace: 120 * time.Second}
)

func ago(d time.Duration) time.Time {
	return now.Add(-d)
}

func TestEvaluate_Scenarios(t *testing.T) {
	t.Parallel()

	t.Run("ordinary request inside idle window extends", func(t *testing.T) {
		t.Parallel()

		d := idle.Evaluate(now, ago(500*time.Second), policy, false)
		assert.Equal(t, idle.PhaseActive, d.Phase)
		assert.True(t, d.Extend)
		assert.True(t, d.HasRemaining)
		assert.Equal(t, 900*time.Second, d.Remaining)
		assert.Equal(t, 500*time.Second, d.Elapsed)
	})

	t.Run("ordinary request in grace does not extend", func(t *testing.T) {
		t.Parallel()

		d := idle.Evaluate(now, ago(950*time.Second), policy, false)
		assert.Equal(t, idle.PhaseGrace, d.Phase)
		assert.False(t, d.Extend)
		assert.Equal(t, 70*time.Second, d.Remaining)
	})

	t.Run("keep-alive in grace extends", func(t *testing.T) {
		t.Parallel()

		d := idle.Evaluate(now, ago(950*time.Second), policy, true)
		assert.Equal(t, idle.PhaseGrace, d.Phase)
		assert.True(t, d.Extend)
		assert.Equal(t, 900*time.Second, d.Remaining)
	})

	t.Run("past hard limit expires regardless of request type", func(t *testing.T) {
		t.Parallel()

		for _, keepAlive := range []bool{false, true} {
			d := idle.Evaluate(now, ago(1100*time.Second), policy, keepAlive)
			assert.Equal(t, idle.PhaseExpired, d.Phase)
			assert.False(t, d.Extend)
			assert.Zero(t, d.Remaining)
		}
	})

	t.Run("zero timeout disables evaluation", func(t *testing.T) {
		t.Parallel()

		disabled := idle.Policy{Timeout: 0, Grace: 120 * time.Second}
		for _, last := range []time.Time{{}, ago(time.Second), ago(1000 * time.Hour)} {
			for _, keepAlive := range []bool{false, true} {
				d := idle.Evaluate(now, last, disabled, keepAlive)
				assert.Equal(t, idle.Decision{Phase: idle.PhaseActive}, d)
			}
		}
	})
}

func TestEvaluate_FirstTouch(t *testing.T) {
	t.Parallel()

	d := idle.Evaluate(now, time.Time{}, policy, false)
	assert.Equal(t, idle.PhaseActive, d.Phase)
	assert.True(t, d.Extend)
	assert.True(t, d.Seeded)
	assert.Equal(t, policy.Timeout, d.Remaining)
}

func TestEvaluate_Boundaries(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		elapsed   time.Duration
		keepAlive bool
		phase     idle.Phase
		extend    bool
		remaining time.Duration
	}{
		{"exactly at timeout is still active", 900 * time.Second, false, idle.PhaseActive, true, 900 * time.Second},
		{"keep-alive exactly at timeout is active", 900 * time.Second, true, idle.PhaseActive, true, 900 * time.Second},
		{"one nanosecond past timeout enters grace", 900*time.Second + 1, false, idle.PhaseGrace, false, 120*time.Second - 1},
		{"exactly at hard limit is still grace", 1020 * time.Second, false, idle.PhaseGrace, false, 0},
		{"keep-alive exactly at hard limit extends", 1020 * time.Second, true, idle.PhaseGrace, true, 900 * time.Second},
		{"one nanosecond past hard limit expires", 1020*time.Second + 1, true, idle.PhaseExpired, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			d := idle.Evaluate(now, ago(tt.elapsed), policy, tt.keepAlive)
			assert.Equal(t, tt.phase, d.Phase)
			assert.Equal(t, tt.extend, d.Extend)
			assert.Equal(t, tt.remaining, d.Remaining)
		})
	}
}

func TestEvaluate_ZeroGrace(t *testing.T) {
	t.Parallel()

	p := idle.Policy{Timeout: time.Minute}

	assert.Equal(t, idle.PhaseActive, idle.Evaluate(now, ago(time.Minute), p, false).Phase)
	assert.Equal(t, idle.PhaseExpired, idle.Evaluate(now, ago(time.Minute+1), p, true).Phase)
}

func TestEvaluate_FutureActivityIsClamped(t *testing.T) {
	t.Parallel()

	d := idle.Evaluate(now, now.Add(5*time.Second), policy, false)
	assert.Equal(t, idle.PhaseActive, d.Phase)
	assert.Zero(t, d.Elapsed)
	assert.True(t, d.Extend)
}

func TestEvaluate_GraceFreezeIsExact(t *testing.T) {
	t.Parallel()

	for s := 901; s <= 1020; s++ {
		elapsed := time.Duration(s) * time.Second
		d := idle.Evaluate(now, ago(elapsed), policy, false)
		require.Equal(t, idle.PhaseGrace, d.Phase, "elapsed=%s", elapsed)
		require.False(t, d.Extend, "elapsed=%s", elapsed)
		require.Equal(t, policy.Timeout+policy.Grace-elapsed, d.Remaining, "elapsed=%s", elapsed)
	}
}

func TestEvaluate_SilentExtensionEverywhereInIdleWindow(t *testing.T) {
	t.Parallel()

	for s := 0; s <= 900; s += 15 {
		d := idle.Evaluate(now, ago(time.Duration(s)*time.Second), policy, false)
		require.Equal(t, idle.PhaseActive, d.Phase)
		require.True(t, d.Extend)
	}
}

func TestEvaluate_IsPure(t *testing.T) {
	t.Parallel()

	inputs := []struct {
		last      time.Time
		keepAlive bool
	}{
		{time.Time{}, false},
		{ago(100 * time.Second), false},
		{ago(950 * time.Second), true},
		{ago(5000 * time.Second), true},
	}

	for _, in := range inputs {
		first := idle.Evaluate(now, in.last, policy, in.keepAlive)
		for range 10 {
			assert.Equal(t, first, idle.Evaluate(now, in.last, policy, in.keepAlive))
		}
	}
}

func TestPolicy_Validate(t *testing.T) {
	t.Parallel()

	require.NoError(t, policy.Validate())
	require.NoError(t, idle.Policy{}.Validate())
	assert.ErrorIs(t, idle.Policy{Timeout: -time.Second}.Validate(), idle.ErrInvalidPolicy)
	assert.ErrorIs(t, idle.Policy{Timeout: time.Second, Grace: -time.Second}.Validate(), idle.ErrInvalidPolicy)
}

func TestConfig(t *testing.T) {
	t.Parallel()

	cfg := idle.DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, idle.Policy{Timeout: 15 * time.Minute, Grace: 2 * time.Minute}, cfg.Policy())

	cfg.KeepAlivePath = "session/ping"
	assert.ErrorIs(t, cfg.Validate(), idle.ErrInvalidPolicy)

	cfg.Timeout = 0
	assert.NoError(t, cfg.Validate(), "disabled policy ignores keep-alive path")
}

func TestPhase_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "active", idle.PhaseActive.String())
	assert.Equal(t, "grace", idle.PhaseGrace.String())
	assert.Equal(t, "expired", idle.PhaseExpired.String())
	assert.Equal(t, "unknown", idle.Phase(42).String())
}
