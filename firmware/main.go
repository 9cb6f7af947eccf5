//go:build tinygo

//go:generate tinygo flash -target=xiao

package main

import (
	"machine"
	"time"
)

var (
	adcReference  machine.ADC
	adcThermistor machine.ADC
	adcALS        machine.ADC
	uart          = machine.UART0

	// Sample FIFO: channel tags and raw values, flushed as one batch when
	// FIFO_LEVEL entries have accumulated (one batch every 100ms at the
	// 400 sps scan rate).
	fifoChannel [FIFO_LEVEL]uint8
	fifoValue   [FIFO_LEVEL]uint16
	fifoCount   int

	// Timing
	lastScan time.Time

	// Serial buffer for reading LED commands
	serialBuffer [4]byte
	serialPos    int
)

func main() {
	PIN_LED.Configure(machine.PinConfig{Mode: machine.PinOutput})
	PIN_LED.Low()

	// Configure ADC pins and set up ADCs with highest resolution
	PIN_REFERENCE.Configure(machine.PinConfig{Mode: machine.PinInput})
	PIN_THERMISTOR.Configure(machine.PinConfig{Mode: machine.PinInput})
	PIN_ALS.Configure(machine.PinConfig{Mode: machine.PinInput})

	adcReference = machine.ADC{Pin: PIN_REFERENCE}
	adcThermistor = machine.ADC{Pin: PIN_THERMISTOR}
	adcALS = machine.ADC{Pin: PIN_ALS}

	adcConfig := machine.ADCConfig{
		Reference:  ADC_REFERENCE_MV,
		Resolution: ADC_RESOLUTION,
	}

	adcReference.Configure(adcConfig)
	adcThermistor.Configure(adcConfig)
	adcALS.Configure(adcConfig)

	// Configure UART for sample output and LED control
	uart.Configure(machine.UARTConfig{
		BaudRate: UART_BAUD_RATE,
	})

	lastScan = time.Now()

	// Main loop
	for {
		now := time.Now()

		// Check for serial input (non-blocking)
		processSerial()

		// Scan all three channels at the fixed interval
		if now.Sub(lastScan) >= time.Duration(SAMPLE_INTERVAL_US)*time.Microsecond {
			scanChannels()
			lastScan = now
		}

		// Flush one full batch once the FIFO level is reached
		if fifoCount >= FIFO_LEVEL {
			outputBatch()
			fifoCount = 0
		}

		// Small delay to prevent tight loop (but still allow precise timing)
		time.Sleep(100 * time.Microsecond)
	}
}

func scanChannels() {
	push(0, adcReference.Get())
	push(1, adcThermistor.Get())
	push(2, adcALS.Get())
}

func push(channel uint8, value uint16) {
	if fifoCount >= FIFO_LEVEL {
		return
	}
	fifoChannel[fifoCount] = channel
	fifoValue[fifoCount] = value
	fifoCount++
}

func outputBatch() {
	// Output format: "channel,value\n" per sample
	// Example: "2,65520\n"
	for i := 0; i < fifoCount; i++ {
		print(fifoChannel[i])
		print(",")
		print(fifoValue[i])
		print("\n")
	}
}

func processSerial() {
	// Read available bytes from serial
	for uart.Buffered() > 0 {
		data, err := uart.ReadByte()
		if err != nil {
			break
		}

		// Check for newline (end of line)
		if data == '\n' || data == '\r' {
			if serialPos == 1 {
				// Exactly one state character: apply it
				setLED(serialBuffer[0] == '1')
			}
			// Reset buffer regardless of length
			serialPos = 0
			continue
		}

		// Ignore whitespace
		if data == ' ' || data == '\t' {
			continue
		}

		// Only accept '0' or '1' as the LED state
		if data == '0' || data == '1' {
			if serialPos < 1 {
				serialBuffer[serialPos] = data
				serialPos++
			}
			// If we already have the state character, ignore extras until newline
		} else {
			// Invalid character - reset buffer
			serialPos = 0
		}
	}
}

func setLED(on bool) {
	if on {
		PIN_LED.High()
	} else {
		PIN_LED.Low()
	}
}
