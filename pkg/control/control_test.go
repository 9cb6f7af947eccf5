package control

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sarsense/pkg/config"
)

// fakeActuator records every SetLED call.
type fakeActuator struct {
	calls []bool
	err   error
}

func (f *fakeActuator) SetLED(on bool) error {
	f.calls = append(f.calls, on)
	return f.err
}

// fakeSink records emitted status lines.
type fakeSink struct {
	lines []string
}

func (f *fakeSink) Emit(line string) {
	f.lines = append(f.lines, line)
}

func newTestHysteresis(act Actuator) *Hysteresis {
	cfg := config.Default().Light
	return NewHysteresis(act, &cfg)
}

func TestHysteresis_TurnsOnBelowLowThreshold(t *testing.T) {
	act := &fakeActuator{}
	h := newTestHysteresis(act)

	require.NoError(t, h.Update(44))
	assert.True(t, h.On())
	assert.Equal(t, []bool{true}, act.calls)
}

func TestHysteresis_TurnsOffAboveHighThreshold(t *testing.T) {
	act := &fakeActuator{}
	h := newTestHysteresis(act)

	require.NoError(t, h.Update(10)) // on
	require.NoError(t, h.Update(56)) // off
	assert.False(t, h.On())
	assert.Equal(t, []bool{true, false}, act.calls)
}

func TestHysteresis_DeadBandHoldsState(t *testing.T) {
	act := &fakeActuator{}
	h := newTestHysteresis(act)

	// Initially off: the whole dead band leaves it off.
	for _, v := range []uint8{45, 50, 55} {
		require.NoError(t, h.Update(v))
		assert.False(t, h.On(), "intensity %d must not turn the LED on", v)
	}
	assert.Empty(t, act.calls)

	// Once on, the dead band leaves it on.
	require.NoError(t, h.Update(44))
	for _, v := range []uint8{45, 50, 55} {
		require.NoError(t, h.Update(v))
		assert.True(t, h.On(), "intensity %d must not turn the LED off", v)
	}
	assert.Equal(t, []bool{true}, act.calls)
}

func TestHysteresis_NoRepeatedActuationWhileOn(t *testing.T) {
	act := &fakeActuator{}
	h := newTestHysteresis(act)

	for i := 0; i < 5; i++ {
		require.NoError(t, h.Update(10))
	}
	assert.Equal(t, []bool{true}, act.calls)
}

func TestHysteresis_PropagatesActuatorError(t *testing.T) {
	act := &fakeActuator{err: errors.New("pin write failed")}
	h := newTestHysteresis(act)

	err := h.Update(10)
	assert.Error(t, err)
	// The logical state still transitions; the retry happens on the next
	// threshold crossing, not every update.
	assert.True(t, h.On())
}

func TestReporter_OneEmissionPerDividerCycles(t *testing.T) {
	sink := &fakeSink{}
	cfg := config.Default().Report
	r := NewReporter(sink, &cfg)

	emitted := 0
	for i := 1; i <= 15; i++ {
		if r.Report(25.0, 80) {
			emitted++
			// Emissions land exactly on every 5th call.
			assert.Equal(t, 0, i%5, "unexpected emission on call %d", i)
		}
	}

	assert.Equal(t, 3, emitted)
	assert.Len(t, sink.lines, 3)
}

func TestReporter_EmitsRegardlessOfValueChanges(t *testing.T) {
	sink := &fakeSink{}
	r := NewReporter(sink, &config.ReportConfig{Divider: 5})

	for i := 0; i < 5; i++ {
		r.Report(float64(i), uint8(i*10))
	}
	require.Len(t, sink.lines, 1)
	assert.Equal(t, "Temperature: 4.0C    Ambient Light: 40%", sink.lines[0])
}

func TestFormatStatus(t *testing.T) {
	tests := []struct {
		temperature float64
		intensity   uint8
		want        string
	}{
		{25.04, 80, "Temperature: 25.0C    Ambient Light: 80%"},
		{-3.26, 0, "Temperature: -3.3C    Ambient Light: 0%"},
		{100.0, 100, "Temperature: 100.0C    Ambient Light: 100%"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			got := FormatStatus(tt.temperature, tt.intensity)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWriterSink_AppendsNewline(t *testing.T) {
	var sb strings.Builder
	s := WriterSink{W: &sb}

	s.Emit(FormatStatus(25.0, 80))
	assert.Equal(t, "Temperature: 25.0C    Ambient Light: 80%\n", sb.String())
}
