package sar

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"go.bug.st/serial"
	"go.uber.org/zap"
)

const (
	// DefaultBaudRate is the standard baud rate for the sampler MCU.
	DefaultBaudRate = 115200
	// DefaultFIFOLevel is the number of samples the MCU accumulates before
	// raising the readiness signal (40 per channel at 400 sps, one batch
	// every 100 ms).
	DefaultFIFOLevel = 120
)

// Port represents a serial port.
type Port struct {
	Name        string
	Description string
}

// Serial is the connection to the sampler MCU. A reader goroutine parses
// tagged samples off the wire and pushes them into an internal FIFO; the
// Source methods expose that FIFO to the drain loop. SetLED drives the
// user LED on the board.
type Serial struct {
	port     string
	baudRate int

	conn      serial.Port
	fifo      *FIFO
	logger    *zap.Logger
	mu        sync.RWMutex
	ctx       context.Context
	cancel    context.CancelFunc
	connected bool
}

// NewSerial creates a new Serial device for the given port.
func NewSerial(port string, baudRate int, logger *zap.Logger) *Serial {
	if baudRate == 0 {
		baudRate = DefaultBaudRate
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Serial{
		port:     port,
		baudRate: baudRate,
		fifo:     NewFIFO(DefaultFIFOLevel),
		logger:   logger,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Ports returns a list of available serial ports.
func Ports() ([]Port, error) {
	ports, err := serial.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("failed to list serial ports: %w", err)
	}

	result := make([]Port, 0, len(ports))
	for _, name := range ports {
		result = append(result, Port{
			Name:        name,
			Description: name,
		})
	}

	return result, nil
}

// Connect opens the serial port and starts the reader goroutine. An error
// here is a boundary initialization failure; callers are expected to treat
// it as fatal.
func (d *Serial) Connect() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.connected {
		return fmt.Errorf("already connected")
	}

	mode := &serial.Mode{
		BaudRate: d.baudRate,
	}

	port, err := serial.Open(d.port, mode)
	if err != nil {
		return fmt.Errorf("failed to open serial port %s: %w", d.port, err)
	}

	d.conn = port
	d.connected = true

	go d.readSamples()

	return nil
}

// Close stops the reader goroutine and closes the port.
func (d *Serial) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.connected {
		return nil
	}

	d.cancel()

	if d.conn != nil {
		if err := d.conn.Close(); err != nil {
			d.logger.Warn("error closing serial port", zap.Error(err))
		}
		d.conn = nil
	}

	d.connected = false

	return nil
}

// WaitForReady blocks until the reader has buffered samples.
func (d *Serial) WaitForReady(ctx context.Context) error {
	return d.fifo.WaitForReady(ctx)
}

// PendingCount returns the number of buffered samples.
func (d *Serial) PendingCount() int {
	return d.fifo.PendingCount()
}

// PopSample removes and returns the oldest buffered sample.
func (d *Serial) PopSample() (Sample, bool) {
	return d.fifo.PopSample()
}

// SetLED sets the user LED state on the board.
func (d *Serial) SetLED(on bool) error {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if !d.connected {
		return fmt.Errorf("not connected")
	}

	cmd := "0\n"
	if on {
		cmd = "1\n"
	}

	if _, err := d.conn.Write([]byte(cmd)); err != nil {
		return fmt.Errorf("failed to send LED command: %w", err)
	}

	return nil
}

// IsConnected returns whether the device is currently connected.
func (d *Serial) IsConnected() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.connected
}

// readSamples reads lines from the serial port and pushes parsed samples
// into the FIFO. Malformed lines are logged and skipped; the core never sees
// invalid channel tags or out-of-range values.
func (d *Serial) readSamples() {
	scanner := bufio.NewScanner(d.conn)
	for {
		select {
		case <-d.ctx.Done():
			return
		default:
			if !scanner.Scan() {
				if err := scanner.Err(); err != nil && err != io.EOF {
					d.logger.Warn("error reading from serial port", zap.Error(err))
				}
				return
			}

			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}

			sample, err := parseLine(line)
			if err != nil {
				d.logger.Warn("failed to parse sample line",
					zap.String("line", line), zap.Error(err))
				continue
			}

			d.fifo.Push(sample)
		}
	}
}

// parseLine parses a line from the MCU into a Sample.
// Format: channel,value
// Example: 2,65520
func parseLine(line string) (Sample, error) {
	parts := strings.Split(line, ",")
	if len(parts) != 2 {
		return Sample{}, fmt.Errorf("invalid line format: expected 2 comma-separated values, got %d", len(parts))
	}

	channel, err := strconv.ParseUint(parts[0], 10, 8)
	if err != nil {
		return Sample{}, fmt.Errorf("invalid channel tag: %w", err)
	}
	if !Channel(channel).Valid() {
		return Sample{}, fmt.Errorf("unknown channel tag: %d", channel)
	}

	value, err := strconv.ParseUint(parts[1], 10, 16)
	if err != nil {
		return Sample{}, fmt.Errorf("invalid sample value: %w", err)
	}

	return Sample{
		Channel: Channel(channel),
		Raw:     uint16(value),
	}, nil
}
