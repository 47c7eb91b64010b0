package controls

import "fmt"

// PumpState is the commanded on/off state of the peristaltic pump.
type PumpState int

const (
	PumpOff PumpState = iota
	PumpOn
)

// InletPosition selects what the input valve draws from.
type InletPosition int

const (
	InletSample InletPosition = iota
	InletOil
)

// OutletPosition selects where the output valve routes to.
type OutletPosition int

const (
	OutletWaste OutletPosition = iota
	OutletSample
)

// Label tables are the only place display strings live; state is never
// derived from them.
var pumpLabels = map[PumpState]string{
	PumpOff: "OFF",
	PumpOn:  "ON",
}

var inletLabels = map[InletPosition]string{
	InletSample: "Sample",
	InletOil:    "Oil",
}

var outletLabels = map[OutletPosition]string{
	OutletWaste:  "Waste",
	OutletSample: "Sample",
}

// String returns the display label of the pump state.
func (s PumpState) String() string {
	if label, ok := pumpLabels[s]; ok {
		return label
	}
	return fmt.Sprintf("PumpState(%d)", int(s))
}

// String returns the display label of the inlet position.
func (p InletPosition) String() string {
	if label, ok := inletLabels[p]; ok {
		return label
	}
	return fmt.Sprintf("InletPosition(%d)", int(p))
}

// String returns the display label of the outlet position.
func (p OutletPosition) String() string {
	if label, ok := outletLabels[p]; ok {
		return label
	}
	return fmt.Sprintf("OutletPosition(%d)", int(p))
}
