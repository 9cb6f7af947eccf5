package convert

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sarsense/pkg/config"
)

func newTestThermistor() Thermistor {
	cfg := config.Default().Thermistor
	return NewThermistor(&cfg)
}

func newTestLightSensor() LightSensor {
	cfg := config.Default().Light
	return NewLightSensor(&cfg)
}

func TestTemperature_RoomTemperature(t *testing.T) {
	th := newTestThermistor()

	// Equal counts mean R = R_reference = 10k, which is the thermistor's
	// nominal resistance at 25 degrees C by construction of R_infinity.
	got, err := th.Temperature(10000, 10000)
	require.NoError(t, err)
	assert.InDelta(t, 25.0, got, 0.05)
}

func TestTemperature_WarmerMeansLowerResistance(t *testing.T) {
	th := newTestThermistor()

	// NTC thermistor: resistance falls as temperature rises.
	cold, err := th.Temperature(12000, 10000)
	require.NoError(t, err)
	warm, err := th.Temperature(8000, 10000)
	require.NoError(t, err)

	assert.Less(t, cold, 25.0)
	assert.Greater(t, warm, 25.0)
}

func TestTemperature_DomainErrors(t *testing.T) {
	th := newTestThermistor()

	tests := []struct {
		name       string
		thermCount int32
		refCount   int32
		wantErr    error
	}{
		{
			name:       "zero reference count",
			thermCount: 10000,
			refCount:   0,
			wantErr:    ErrZeroReference,
		},
		{
			name:       "zero thermistor count",
			thermCount: 0,
			refCount:   10000,
			wantErr:    ErrNonPositiveResistance,
		},
		{
			name:       "negative resistance",
			thermCount: -100,
			refCount:   10000,
			wantErr:    ErrNonPositiveResistance,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := th.Temperature(tt.thermCount, tt.refCount)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestIntensity(t *testing.T) {
	ls := newTestLightSensor()

	tests := []struct {
		name     string
		adcCount int32
		want     uint8
	}{
		{
			name:     "negative input clamps to zero",
			adcCount: -5,
			want:     0,
		},
		{
			name:     "zero input",
			adcCount: 0,
			want:     0,
		},
		{
			name:     "offset swallows small readings",
			adcCount: 204, // (204*100)>>10 = 19, under the 20% offset
			want:     0,
		},
		{
			name:     "reference scenario",
			adcCount: 1024, // (1024*100)>>10 - 20 = 100 - 20 = 80
			want:     80,
		},
		{
			name:     "saturates at 100",
			adcCount: 4096,
			want:     100,
		},
		{
			name:     "very large input saturates at 100",
			adcCount: 65520,
			want:     100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ls.Intensity(tt.adcCount))
		})
	}
}

func TestIntensity_MonotonicAndBounded(t *testing.T) {
	ls := newTestLightSensor()

	prev := ls.Intensity(0)
	for count := int32(0); count <= 4096; count += 7 {
		got := ls.Intensity(count)
		assert.GreaterOrEqual(t, got, prev, "intensity must not decrease at count %d", count)
		assert.LessOrEqual(t, got, uint8(100))
		prev = got
	}
}

func TestNewConverters_NilConfigUsesDefaults(t *testing.T) {
	th := NewThermistor(nil)
	got, err := th.Temperature(10000, 10000)
	require.NoError(t, err)
	assert.InDelta(t, 25.0, got, 0.05)

	ls := NewLightSensor(nil)
	assert.Equal(t, uint8(80), ls.Intensity(1024))
}
