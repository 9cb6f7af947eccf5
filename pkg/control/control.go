// Package control drives the board outputs: the user LED with hysteresis on
// ambient light intensity, and the rate-divided textual status line.
package control

import (
	"fmt"
	"io"

	"sarsense/pkg/config"
)

// Actuator drives the binary output (the user LED).
type Actuator interface {
	SetLED(on bool) error
}

// StatusSink consumes one status line per reporting interval.
type StatusSink interface {
	Emit(line string)
}

// WriterSink is a StatusSink writing each line to an io.Writer.
type WriterSink struct {
	W io.Writer
}

// Emit writes the line followed by a newline.
func (s WriterSink) Emit(line string) {
	fmt.Fprintln(s.W, line)
}

// Hysteresis turns the LED on when light intensity drops below the low
// threshold and off when it rises above the high threshold. Inside the dead
// band [low, high] the state is left unchanged, so the output cannot chatter
// around a single boundary. The actuator is only invoked on transitions.
type Hysteresis struct {
	act  Actuator
	low  uint8
	high uint8
	on   bool
}

// NewHysteresis creates the LED controller. The LED is assumed off at start,
// matching the board's initial pin state.
func NewHysteresis(act Actuator, cfg *config.LightConfig) *Hysteresis {
	if cfg == nil {
		def := config.Default().Light
		cfg = &def
	}
	return &Hysteresis{
		act:  act,
		low:  cfg.LowThreshold,
		high: cfg.HighThreshold,
	}
}

// Update applies one intensity reading and drives the actuator if the state
// crosses a threshold.
func (h *Hysteresis) Update(intensity uint8) error {
	switch {
	case intensity < h.low:
		if !h.on {
			h.on = true
			return h.act.SetLED(true)
		}
	case intensity > h.high:
		if h.on {
			h.on = false
			return h.act.SetLED(false)
		}
	}
	return nil
}

// On returns the current LED state.
func (h *Hysteresis) On() bool {
	return h.on
}

// Reporter emits one formatted status line every Divider drain cycles
// (500 ms at the reference 100 ms batch cadence).
type Reporter struct {
	sink    StatusSink
	divider int
	count   int
}

// NewReporter creates a Reporter emitting to sink.
func NewReporter(sink StatusSink, cfg *config.ReportConfig) *Reporter {
	if cfg == nil {
		def := config.Default().Report
		cfg = &def
	}
	return &Reporter{
		sink:    sink,
		divider: cfg.Divider,
	}
}

// Report counts one drain cycle and, on every divider'th call, emits the
// status line and resets the counter. Returns true when a line was emitted.
func (r *Reporter) Report(temperature float64, lightIntensity uint8) bool {
	if r.count == r.divider-1 {
		r.sink.Emit(FormatStatus(temperature, lightIntensity))
		r.count = 0
		return true
	}
	r.count++
	return false
}

// FormatStatus renders the status line. The format is fixed; existing
// consumers parse it.
func FormatStatus(temperature float64, lightIntensity uint8) string {
	return fmt.Sprintf("Temperature: %.1fC    Ambient Light: %d%%", temperature, lightIntensity)
}
