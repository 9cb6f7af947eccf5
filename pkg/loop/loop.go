// Package loop runs the wake/drain processing cycle: block until the sample
// source signals readiness, drain the buffered samples through the filter
// bank, convert the latest filtered readings to physical units, then drive
// the LED and the status reporter.
package loop

import (
	"context"

	"go.uber.org/zap"

	"sarsense/pkg/config"
	"sarsense/pkg/control"
	"sarsense/pkg/convert"
	"sarsense/pkg/filter"
	"sarsense/pkg/sar"
)

// Loop owns the filter bank and the latest per-channel filtered readings.
// It runs on a single goroutine; the only shared state is inside the Source.
type Loop struct {
	src    sar.Source
	bank   *filter.Bank
	therm  convert.Thermistor
	light  convert.LightSensor
	hyst   *control.Hysteresis
	rep    *control.Reporter
	logger *zap.Logger

	filtered [sar.ChannelCount]int32
	lastTemp float64
}

// New wires a Loop from the configuration and its collaborators.
func New(cfg *config.Config, src sar.Source, act control.Actuator, sink control.StatusSink, logger *zap.Logger) *Loop {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Loop{
		src:    src,
		bank:   filter.New(&cfg.Filter),
		therm:  convert.NewThermistor(&cfg.Thermistor),
		light:  convert.NewLightSensor(&cfg.Light),
		hyst:   control.NewHysteresis(act, &cfg.Light),
		rep:    control.NewReporter(sink, &cfg.Report),
		logger: logger,
	}
}

// Run executes drain cycles until ctx is cancelled; it returns ctx.Err().
// The loop never exits on its own: sample processing is deterministic, and
// boundary errors are handled (and logged) where they occur.
func (l *Loop) Run(ctx context.Context) error {
	for {
		if err := l.src.WaitForReady(ctx); err != nil {
			return err
		}
		l.drain()
	}
}

// drain snapshots the pending count once, pops exactly that many samples
// through the filter bank, and then runs conversion, actuation and
// reporting on the latest filtered readings. Samples arriving mid-drain are
// left for the next wake.
func (l *Loop) drain() {
	n := l.src.PendingCount()
	for i := 0; i < n; i++ {
		s, ok := l.src.PopSample()
		if !ok {
			break
		}
		l.filtered[s.Channel] = l.bank.Apply(s.Channel, s.Raw)
	}

	temperature, err := l.therm.Temperature(
		l.filtered[sar.ThermistorSense], l.filtered[sar.ReferenceResistor])
	if err != nil {
		// Degenerate divider reading; hold the last valid temperature.
		l.logger.Warn("temperature conversion failed",
			zap.Int32("therm_count", l.filtered[sar.ThermistorSense]),
			zap.Int32("ref_count", l.filtered[sar.ReferenceResistor]),
			zap.Error(err))
		temperature = l.lastTemp
	} else {
		l.lastTemp = temperature
	}

	intensity := l.light.Intensity(l.filtered[sar.AmbientLight])

	if err := l.hyst.Update(intensity); err != nil {
		l.logger.Warn("LED actuation failed", zap.Error(err))
	}

	l.rep.Report(temperature, intensity)
}
