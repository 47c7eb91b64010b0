//go:generate tinygo flash -target=arduino-nano33

package main

import (
	"machine"
	"math"
	"time"
)

var (
	adcA0 machine.ADC
	adcA1 machine.ADC
	uart  = machine.Serial

	// Flow pulse counting
	lastLevel   bool
	pulseCount  uint32
	windowStart time.Time
	flowRate    float32

	// Serial buffer for reading request lines
	reqBuffer [16]byte
	reqPos    int
)

func main() {
	// Configure ADC pins and the flow sensor input
	PIN_A0.Configure(machine.PinConfig{Mode: machine.PinInput})
	PIN_A1.Configure(machine.PinConfig{Mode: machine.PinInput})
	PIN_FLOW.Configure(machine.PinConfig{Mode: machine.PinInput})

	machine.InitADC()

	adcA0 = machine.ADC{Pin: PIN_A0}
	adcA1 = machine.ADC{Pin: PIN_A1}

	adcConfig := machine.ADCConfig{
		Resolution: ADC_RESOLUTION,
	}
	adcA0.Configure(adcConfig)
	adcA1.Configure(adcConfig)

	uart.Configure(machine.UARTConfig{
		BaudRate: UART_BAUD_RATE,
	})

	windowStart = time.Now()
	lastLevel = PIN_FLOW.Get()

	// Main loop
	for {
		now := time.Now()

		// Check for serial input (non-blocking)
		processSerial()

		// Count flow sensor edges and fold them into a rate
		pollFlow(now)

		// Small delay to prevent a tight loop
		time.Sleep(100 * time.Microsecond)
	}
}

func processSerial() {
	// Read available bytes from serial
	for uart.Buffered() > 0 {
		data, err := uart.ReadByte()
		if err != nil {
			break
		}

		// Newline ends the request
		if data == '\n' || data == '\r' {
			if reqPos > 0 {
				handleRequest(reqBuffer[:reqPos])
			}
			reqPos = 0
			continue
		}

		if reqPos < len(reqBuffer) {
			reqBuffer[reqPos] = data
			reqPos++
		}
		// Bytes past the buffer are dropped. A truncated line carries
		// an overlong channel id and never matches.
	}
}

func handleRequest(line []byte) {
	// Requests look like "READ A0"
	if len(line) < 6 || string(line[:5]) != "READ " {
		return
	}

	switch string(line[5:]) {
	case "A0":
		writeUintFrame(readADC(adcA0))
	case "A1":
		writeUintFrame(readADC(adcA1))
	case "FS":
		writeFloatFrame(flowRate)
	}
	// Unknown channels stay silent
}

func readADC(adc machine.ADC) uint16 {
	// Get returns a 16 bit reading whatever the configured resolution,
	// the wire carries the native 10 bits
	return adc.Get() >> 6
}

func pollFlow(now time.Time) {
	level := PIN_FLOW.Get()
	if level && !lastLevel {
		pulseCount++
	}
	lastLevel = level

	elapsed := now.Sub(windowStart)
	if elapsed >= FLOW_WINDOW_MS*time.Millisecond {
		// Pulse frequency maps linearly to flow in liters per minute
		seconds := float32(elapsed.Microseconds()) / 1e6
		freq := float32(pulseCount) / seconds
		flowRate = freq * 60.0 / PULSES_PER_LITER

		pulseCount = 0
		windowStart = now
	}
}

func writeUintFrame(v uint16) {
	writeFrame(byte(v), byte(v>>8))
}

func writeFloatFrame(v float32) {
	bits := math.Float32bits(v)
	writeFrame(byte(bits), byte(bits>>8), byte(bits>>16), byte(bits>>24))
}

func writeFrame(payload ...byte) {
	uart.WriteByte(FRAME_MARKER)
	uart.WriteByte(byte(len(payload)))
	for _, b := range payload {
		uart.WriteByte(b)
	}
}
