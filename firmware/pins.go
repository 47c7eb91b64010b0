package main

import "machine"

const (
	// Serial configuration
	// Requests are one short text line, responses at most 6 bytes
	// ('R', length, payload). 9600 baud moves ~960 bytes/sec, far more
	// than a polling round needs.
	UART_BAUD_RATE = 9600

	// ADC configuration
	ADC_RESOLUTION = 10 // 0..1023, the range the host expects

	// Response frame marker
	FRAME_MARKER = 'R'

	// Flow sensor: pulses per liter of the hall sensor, and how long to
	// count pulses before recomputing the rate
	PULSES_PER_LITER = 450
	FLOW_WINDOW_MS   = 1000

	// Analog channels
	PIN_A0 = machine.A0
	PIN_A1 = machine.A1

	// Flow sensor pulse input
	PIN_FLOW = machine.D2
)
