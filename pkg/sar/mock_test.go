package sar

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sarsense/pkg/config"
)

func newTestMock(t *testing.T) *Mock {
	t.Helper()

	cfg := config.Default().Mock
	cfg.BatchInterval = 10 * time.Millisecond
	cfg.SamplesPerChannel = 4

	m := NewMock(&cfg)
	require.NoError(t, m.Connect())
	t.Cleanup(func() { m.Close() })
	return m
}

func TestMock_ConnectLifecycle(t *testing.T) {
	m := newTestMock(t)

	assert.True(t, m.IsConnected())
	assert.Error(t, m.Connect(), "double connect must fail")

	require.NoError(t, m.Close())
	assert.False(t, m.IsConnected())
	assert.NoError(t, m.Close(), "double close is a no-op")
}

func TestMock_ProducesInterleavedBatches(t *testing.T) {
	m := newTestMock(t)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, m.WaitForReady(ctx))

	n := m.PendingCount()
	require.GreaterOrEqual(t, n, 3*4, "one full batch expected")

	perChannel := make(map[Channel]int)
	for i := 0; i < n; i++ {
		s, ok := m.PopSample()
		require.True(t, ok)
		require.True(t, s.Channel.Valid())
		perChannel[s.Channel]++
	}

	// Interleaved scan: equal counts per channel.
	assert.Equal(t, perChannel[ReferenceResistor], perChannel[ThermistorSense])
	assert.Equal(t, perChannel[ThermistorSense], perChannel[AmbientLight])
}

func TestMock_SimulatedValuesAreSane(t *testing.T) {
	m := newTestMock(t)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, m.WaitForReady(ctx))

	n := m.PendingCount()
	for i := 0; i < n; i++ {
		s, ok := m.PopSample()
		require.True(t, ok)

		switch s.Channel {
		case ReferenceResistor:
			// Fixed simulated count plus a little noise.
			assert.InDelta(t, 2000, float64(s.Raw), 10)
		case ThermistorSense:
			// Near 25 degrees C the divider counts are close to equal.
			assert.InDelta(t, 2000, float64(s.Raw), 600)
		case AmbientLight:
			// Never in the dark-saturation region.
			assert.Less(t, s.Raw, uint16(0xFFF0))
		}
	}
}

func TestMock_SetLEDRecordsState(t *testing.T) {
	m := newTestMock(t)

	assert.False(t, m.LED())
	require.NoError(t, m.SetLED(true))
	assert.True(t, m.LED())
	require.NoError(t, m.SetLED(false))
	assert.False(t, m.LED())

	require.NoError(t, m.Close())
	assert.Error(t, m.SetLED(true), "actuation after close must fail")
}

func TestMock_CloseStopsGeneration(t *testing.T) {
	m := newTestMock(t)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, m.WaitForReady(ctx))
	require.NoError(t, m.Close())

	// Drain whatever was buffered, including a batch that may have landed
	// between the wake and the close.
	for {
		if _, ok := m.PopSample(); !ok {
			break
		}
	}
	ctx2, cancel2 := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel2()
	_ = m.WaitForReady(ctx2) // clear any straggler signal
	for {
		if _, ok := m.PopSample(); !ok {
			break
		}
	}

	// No new batches after close.
	ctx3, cancel3 := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel3()
	assert.ErrorIs(t, m.WaitForReady(ctx3), context.DeadlineExceeded)
	assert.Equal(t, 0, m.PendingCount())
}
