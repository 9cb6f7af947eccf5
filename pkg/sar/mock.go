package sar

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/chewxy/math32"

	"sarsense/pkg/config"
)

// Mock simulates the sampler MCU for testing and development. It produces
// one interleaved batch per BatchInterval (matching the hardware FIFO level
// interrupt cadence) with a slowly drifting temperature and a day/night
// light cycle, and records the LED state instead of driving a pin.
type Mock struct {
	cfg *config.MockConfig

	fifo      *FIFO
	mu        sync.RWMutex
	ctx       context.Context
	cancel    context.CancelFunc
	connected bool

	startTime time.Time
	led       bool
}

// NewMock creates a new mocked device instance.
func NewMock(cfg *config.MockConfig) *Mock {
	if cfg == nil {
		def := config.Default().Mock
		cfg = &def
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Mock{
		cfg:    cfg,
		fifo:   NewFIFO(DefaultFIFOLevel),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Connect starts the simulated sampler.
func (m *Mock) Connect() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.connected {
		return fmt.Errorf("already connected")
	}

	m.connected = true
	m.startTime = time.Now()

	go m.generateBatches()

	return nil
}

// Close stops the mocked device.
func (m *Mock) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.connected {
		return nil
	}

	m.cancel()
	m.connected = false

	return nil
}

// WaitForReady blocks until a simulated batch is ready.
func (m *Mock) WaitForReady(ctx context.Context) error {
	return m.fifo.WaitForReady(ctx)
}

// PendingCount returns the number of buffered samples.
func (m *Mock) PendingCount() int {
	return m.fifo.PendingCount()
}

// PopSample removes and returns the oldest buffered sample.
func (m *Mock) PopSample() (Sample, bool) {
	return m.fifo.PopSample()
}

// SetLED records the LED state (simulated).
func (m *Mock) SetLED(on bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.connected {
		return fmt.Errorf("not connected")
	}

	m.led = on
	return nil
}

// LED returns the recorded LED state.
func (m *Mock) LED() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.led
}

// IsConnected returns whether the device is currently connected.
func (m *Mock) IsConnected() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.connected
}

// generateBatches pushes one interleaved batch per tick.
func (m *Mock) generateBatches() {
	ticker := time.NewTicker(m.cfg.BatchInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.ctx.Done():
			return
		case <-ticker.C:
			m.fifo.Push(m.generateBatch()...)
		}
	}
}

// generateBatch produces SamplesPerChannel samples for each channel,
// interleaved in scan order the way the hardware FIFO fills.
func (m *Mock) generateBatch() []Sample {
	elapsed := float32(time.Since(m.startTime).Seconds())

	refCount := m.cfg.ReferenceCount
	thermCount := m.thermistorCount(elapsed)
	lightCount := m.lightCount(elapsed)

	batch := make([]Sample, 0, m.cfg.SamplesPerChannel*ChannelCount)
	for i := 0; i < m.cfg.SamplesPerChannel; i++ {
		noise := m.cfg.NoiseLevel * math32.Sin(elapsed*137.0+float32(i))
		batch = append(batch,
			Sample{Channel: ReferenceResistor, Raw: jitter(refCount, noise)},
			Sample{Channel: ThermistorSense, Raw: jitter(thermCount, noise)},
			Sample{Channel: AmbientLight, Raw: jitter(lightCount, -noise)},
		)
	}
	return batch
}

// thermistorCount synthesizes a thermistor ADC count from the simulated
// temperature via the inverse Beta model: R = R_inf * e^(B/T), and the
// divider relation count_therm = count_ref * R / R_ref.
func (m *Mock) thermistorCount(elapsed float32) uint16 {
	period := float32(m.cfg.TemperaturePeriod.Seconds())
	tempC := m.cfg.MeanTemperature +
		m.cfg.TemperatureSwing*math32.Sin(2*math32.Pi*elapsed/period)
	tempK := tempC - absoluteZero

	def := config.Default().Thermistor
	r := float32(def.RInfinity) * math32.Exp(float32(def.BConstant)/tempK)
	count := float32(m.cfg.ReferenceCount) * r / float32(def.RReference)
	return clampCount(count)
}

// lightCount synthesizes an ALS ADC count sweeping between dark and full
// brightness over LightPeriod.
func (m *Mock) lightCount(elapsed float32) uint16 {
	period := float32(m.cfg.LightPeriod.Seconds())
	// 0..1 brightness waveform
	level := 0.5 + 0.5*math32.Sin(2*math32.Pi*elapsed/period)
	// Invert the converter's (count*100)>>10 - offset mapping so the
	// simulated percentage spans the full 0..100 range.
	def := config.Default().Light
	percent := level*100 + float32(def.Offset)
	return clampCount(percent * 1024 / 100)
}

const absoluteZero = float32(-273.15)

func jitter(count uint16, noise float32) uint16 {
	return clampCount(float32(count) + noise)
}

func clampCount(v float32) uint16 {
	if v < 0 {
		return 0
	}
	if v > 65535 {
		return 65535
	}
	return uint16(v)
}
