package sar

import "context"

// Channel identifies one of the fixed SAR ADC scan channels. The tag values
// match the channel numbering of the MCU's scan sequence.
type Channel uint8

const (
	// ReferenceResistor measures the voltage across the 10k reference
	// resistor in series with the thermistor.
	ReferenceResistor Channel = 0
	// ThermistorSense measures the voltage across the thermistor.
	ThermistorSense Channel = 1
	// AmbientLight measures the ambient light sensor photo-transistor.
	AmbientLight Channel = 2

	// ChannelCount is the number of scan channels.
	ChannelCount = 3
)

// Valid reports whether c is one of the known scan channels.
func (c Channel) Valid() bool {
	return c < ChannelCount
}

func (c Channel) String() string {
	switch c {
	case ReferenceResistor:
		return "reference"
	case ThermistorSense:
		return "thermistor"
	case AmbientLight:
		return "light"
	default:
		return "unknown"
	}
}

// Sample is one tagged ADC conversion result.
type Sample struct {
	Channel Channel
	Raw     uint16
}

// Source is the consumer side of a sampling front end. The processing loop
// blocks in WaitForReady, snapshots PendingCount once per wake, and pops
// exactly that many samples before waiting again. Samples that arrive during
// a drain are picked up on the next wake.
type Source interface {
	// WaitForReady blocks until the source signals that buffered samples are
	// ready, clearing the readiness flag before returning. Returns ctx.Err()
	// if the context is cancelled first.
	WaitForReady(ctx context.Context) error
	// PendingCount returns the number of samples currently buffered.
	PendingCount() int
	// PopSample removes and returns the oldest buffered sample. The second
	// return value is false if the buffer is empty.
	PopSample() (Sample, bool)
}

// Device is a complete sampling front end (real or mocked): a Source plus
// the LED actuation path and a connection lifecycle.
type Device interface {
	Connect() error
	Close() error
	Source
	SetLED(on bool) error
	IsConnected() bool
}

// Ensure Serial implements Device.
var _ Device = (*Serial)(nil)

// Ensure Mock implements Device.
var _ Device = (*Mock)(nil)
