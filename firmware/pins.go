//go:build tinygo

package main

import "machine"

const (
	// Sampling configuration
	SAMPLE_INTERVAL_US = 2500 // scan interval: 400 sps per channel
	FIFO_LEVEL         = 120  // samples buffered before a batch is flushed

	// ADC configuration
	ADC_REFERENCE_MV = 3300 // Reference voltage in millivolts (3.3V)
	ADC_RESOLUTION   = 12   // ADC resolution in bits (12-bit = 0-4095)

	// ADC pins: reference resistor, thermistor and ALS in channel tag order
	PIN_REFERENCE  = machine.A0
	PIN_THERMISTOR = machine.A1
	PIN_ALS        = machine.A2

	// User LED driven by the host's hysteresis controller
	PIN_LED = machine.D10

	// Serial configuration
	// Format "channel,value\n", e.g. "2,65520\n" = ~8 bytes max per line.
	// 1200 lines/sec * 8 bytes/line = 9,600 bytes/sec.
	// UART 8N1: 10 bits/byte = 96,000 baud minimum; 115200 just covers it
	// because values are rarely 5 digits for the divider channels.
	UART_BAUD_RATE = 115200
)
