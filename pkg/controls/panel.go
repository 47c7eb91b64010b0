package controls

import (
	"math"
	"sync"
)

const (
	// MinFlowRate and MaxFlowRate bound the pump flow-rate setting.
	MinFlowRate = 0.0
	MaxFlowRate = 100.0
	// FlowRateStep is the increment of one flow-rate adjustment.
	FlowRateStep = 0.1
)

// State is a copy of the whole panel at one moment.
type State struct {
	Pump     PumpState
	Inlet    InletPosition
	Outlet   OutletPosition
	FlowRate float64
}

// Panel is the bench control state: pump, the two valves, and the pump
// flow-rate setting. Bookkeeping only; nothing here talks to hardware.
type Panel struct {
	mu     sync.RWMutex
	pump   PumpState
	inlet  InletPosition
	outlet OutletPosition
	rate   float64
}

// NewPanel returns a panel in its safe resting state: pump off, inlet on
// Sample, outlet to Waste, zero flow rate.
func NewPanel() *Panel {
	return &Panel{}
}

// Pump returns the pump state.
func (p *Panel) Pump() PumpState {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.pump
}

// SetPump sets the pump state.
func (p *Panel) SetPump(s PumpState) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pump = s
}

// TogglePump flips the pump state and returns the new one.
func (p *Panel) TogglePump() PumpState {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.pump == PumpOn {
		p.pump = PumpOff
	} else {
		p.pump = PumpOn
	}
	return p.pump
}

// Inlet returns the input valve position.
func (p *Panel) Inlet() InletPosition {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.inlet
}

// SetInlet sets the input valve position.
func (p *Panel) SetInlet(pos InletPosition) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.inlet = pos
}

// ToggleInlet flips the input valve between Sample and Oil and returns
// the new position.
func (p *Panel) ToggleInlet() InletPosition {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.inlet == InletSample {
		p.inlet = InletOil
	} else {
		p.inlet = InletSample
	}
	return p.inlet
}

// Outlet returns the output valve position.
func (p *Panel) Outlet() OutletPosition {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.outlet
}

// SetOutlet sets the output valve position.
func (p *Panel) SetOutlet(pos OutletPosition) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.outlet = pos
}

// ToggleOutlet flips the output valve between Waste and Sample and
// returns the new position.
func (p *Panel) ToggleOutlet() OutletPosition {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.outlet == OutletWaste {
		p.outlet = OutletSample
	} else {
		p.outlet = OutletWaste
	}
	return p.outlet
}

// FlowRate returns the flow-rate setting.
func (p *Panel) FlowRate() float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.rate
}

// SetFlowRate sets the flow rate, clamped to [MinFlowRate, MaxFlowRate],
// and returns the value actually applied.
func (p *Panel) SetFlowRate(v float64) float64 {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.rate = clampRate(v)
	return p.rate
}

// StepFlowRate adjusts the flow rate by the given number of steps
// (negative steps down) and returns the new value.
func (p *Panel) StepFlowRate(steps int) float64 {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.rate = clampRate(p.rate + float64(steps)*FlowRateStep)
	return p.rate
}

// Snapshot returns a copy of the whole panel.
func (p *Panel) Snapshot() State {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return State{
		Pump:     p.pump,
		Inlet:    p.inlet,
		Outlet:   p.outlet,
		FlowRate: p.rate,
	}
}

// clampRate bounds the rate and snaps it onto the step grid, so repeated
// stepping never accumulates float drift.
func clampRate(v float64) float64 {
	v = math.Round(v/FlowRateStep) * FlowRateStep
	if v < MinFlowRate {
		return MinFlowRate
	}
	if v > MaxFlowRate {
		return MaxFlowRate
	}
	return v
}
