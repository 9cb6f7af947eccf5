// Package filter implements the per-channel fixed-point IIR low-pass filter
// applied to raw ADC samples before conversion.
//
// Each channel carries an independent first-order exponential smoother in
// 8.8 fixed point (accumulator = value * 256). The per-channel weight w sets
// the cutoff frequency F0 = Fs / (2 * pi * 256/w); at a 400 sps scan rate the
// default weights give ~40 Hz for the thermistor divider channels and ~1 Hz
// for the ambient light channel. All arithmetic is integer-only so the
// response matches the MCU implementation bit for bit.
package filter

import (
	"sarsense/pkg/config"
	"sarsense/pkg/sar"
)

const (
	fracBits = 8

	// darkSubstitute replaces saturated ambient light readings before they
	// enter the filter.
	darkSubstitute = 0
)

// state is the accumulator for one channel. The accumulator is only
// meaningful once seeded by the channel's first sample.
type state struct {
	acc    int32
	seeded bool
}

// Bank holds one filter state per scan channel. Weights and the dark
// threshold are plain per-channel data; there is no per-channel code.
// A Bank is not safe for concurrent use; it is owned by the drain loop.
type Bank struct {
	weights       [sar.ChannelCount]int32
	darkThreshold uint16
	states        [sar.ChannelCount]state
}

// New creates a Bank from the filter configuration. Channels start cold:
// each one seeds its accumulator from the first sample it sees.
func New(cfg *config.FilterConfig) *Bank {
	if cfg == nil {
		def := config.Default().Filter
		cfg = &def
	}

	b := &Bank{
		darkThreshold: cfg.DarkThreshold,
	}
	b.weights[sar.ReferenceResistor] = cfg.ReferenceWeight
	b.weights[sar.ThermistorSense] = cfg.ThermistorWeight
	b.weights[sar.AmbientLight] = cfg.LightWeight
	return b
}

// Apply pushes one raw sample through the channel's filter and returns the
// smoothed value in raw-sample units, rounded to nearest.
//
// Ambient light readings at or above the dark threshold are coerced to the
// dark substitute before filtering — on every call, not only the first — so
// sensor saturation noise cannot produce transients. The first sample ever
// seen on a channel seeds the accumulator and is returned unmodified.
// ch must be a valid channel.
func (b *Bank) Apply(ch sar.Channel, raw uint16) int32 {
	in := int32(raw)
	if ch == sar.AmbientLight && raw >= b.darkThreshold {
		in = darkSubstitute
	}

	st := &b.states[ch]
	if !st.seeded {
		st.acc = in << fracBits
		st.seeded = true
		return in
	}

	st.acc += ((in<<fracBits - st.acc) >> fracBits) * b.weights[ch]

	// Integer part, rounded to nearest via the top fractional bit.
	return st.acc>>fracBits + (st.acc&0x80)>>7
}
