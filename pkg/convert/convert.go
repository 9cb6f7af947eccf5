// Package convert maps filtered ADC readings to physical units.
package convert

import (
	"errors"
	"math"

	"sarsense/pkg/config"
)

// absoluteZero is zero kelvin in degrees Celsius.
const absoluteZero = -273.15

var (
	// ErrZeroReference is returned when the reference resistor channel reads
	// zero, which would make the divider ratio undefined.
	ErrZeroReference = errors.New("reference resistor count is zero")

	// ErrNonPositiveResistance is returned when the computed thermistor
	// resistance is not positive, which would make the Beta-model logarithm
	// undefined.
	ErrNonPositiveResistance = errors.New("thermistor resistance is not positive")
)

// Thermistor converts thermistor divider readings to temperature using the
// Beta model. The zero field value is not usable; construct with NewThermistor.
type Thermistor struct {
	rReference float64
	bConstant  float64
	rInfinity  float64
}

// NewThermistor creates a converter from the thermistor configuration.
func NewThermistor(cfg *config.ThermistorConfig) Thermistor {
	if cfg == nil {
		def := config.Default().Thermistor
		cfg = &def
	}
	return Thermistor{
		rReference: cfg.RReference,
		bConstant:  cfg.BConstant,
		rInfinity:  cfg.RInfinity,
	}
}

// Temperature computes the temperature in degrees Celsius from the filtered
// thermistor and reference resistor channel counts.
//
// The thermistor resistance follows from the divider relation
// R = count_therm * R_ref / count_ref, and the temperature from the Beta
// model T = B / ln(R / R_inf) + absolute zero.
//
// Degenerate readings (zero reference count, non-positive resistance) return
// a sentinel error instead of propagating NaN or Inf.
func (t Thermistor) Temperature(thermCount, refCount int32) (float64, error) {
	if refCount == 0 {
		return 0, ErrZeroReference
	}

	r := float64(thermCount) * t.rReference / float64(refCount)
	if r <= 0 {
		return 0, ErrNonPositiveResistance
	}

	return t.bConstant/math.Log(r/t.rInfinity) + absoluteZero, nil
}

// LightSensor converts ambient light sensor readings to an intensity
// percentage.
type LightSensor struct {
	offset int32
}

// NewLightSensor creates a converter from the light sensor configuration.
func NewLightSensor(cfg *config.LightConfig) LightSensor {
	if cfg == nil {
		def := config.Default().Light
		cfg = &def
	}
	return LightSensor{offset: cfg.Offset}
}

// Intensity computes the ambient light intensity as a percentage in [0, 100].
// The scale is a cheap integer approximation, (count * 100) >> 10, with the
// calibrated dark offset subtracted; negative inputs clamp to zero and the
// result is clamped to the percentage range.
func (s LightSensor) Intensity(adcCount int32) uint8 {
	if adcCount < 0 {
		adcCount = 0
	}

	level := (adcCount*100)>>10 - s.offset

	if level > 100 {
		level = 100
	}
	if level < 0 {
		level = 0
	}

	return uint8(level)
}
