/*
 Licensed under the Apache License, Version 2.0 (the "License");
 you may not use this file except in compliance with the License.
 You may obtain a copy of the License at

     https://www.apache.org/licenses/LICENSE-2.0

 Unless required by applicable law or agreed to in writing, software
 distributed under the License is distributed on an "AS IS" BASIS,
 WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 See the License for the specific language governing permissions and
 limitations under the License.
*/

package core

// State is the pulse controller state.
type State int

const (
	WaitConfig State = iota
	Run
	PulseHigh
	PulseLow
	Reset
)

func (s State) String() string {
	switch s {
	case WaitConfig:
		return "wait_config"
	case Run:
		return "run"
	case PulseHigh:
		return "pulse_high"
	case PulseLow:
		return "pulse_low"
	case Reset:
		return "reset"
	}
	return "unknown"
}

// Phase is the last completed half of a pulse cycle.
type Phase int

const (
	PhaseLow Phase = iota
	PhaseHigh
)

const (
	pulseCountMask = 1<<HighCountBits - 1
	pauseCountMask = 1<<LowCountBits - 1
)

// ControllerInputs is one tick worth of controller inputs. Enable and
// ResetN are read straight from the lines, Received and Word come from the
// accumulator.
type ControllerInputs struct {
	Enable   bool
	ResetN   bool // active low
	Received bool
	Word     Word
}

// Controller sequences configuration wait, pulse generation, enable gating
// and reset recovery. Run is a dispatch state: when it selects the next
// phase the phase logic executes on the same tick, so Run never stretches
// the waveform. A word of (high=3, low=2) yields HIGH for 4 ticks and LOW
// for 3 ticks, period 7, each phase lasting count+1 ticks including its
// entry tick.
//
// The reset line is checked only while in Run. A reset asserted during
// configuration receive or mid-phase takes effect the next time control
// passes through Run. That asymmetry is deliberate and kept as is.
type Controller struct {
	state State
	prev  Phase

	pulseCount uint32 // 24-bit
	pauseCount uint64 // 40-bit

	out       bool
	clearTick bool // true for the one tick spent in Reset
}

// Tick evaluates the controller once.
func (c *Controller) Tick(in ControllerInputs) {
	c.clearTick = false
	switch c.state {
	case WaitConfig:
		if in.Received {
			// First real phase entered is HIGH.
			c.prev = PhaseLow
			c.state = Run
		}
	case Run:
		c.runTick(in)
	case PulseHigh:
		c.highTick(in)
	case PulseLow:
		c.lowTick(in)
	case Reset:
		c.out = false
		c.pulseCount = 0
		c.pauseCount = 0
		c.clearTick = true
		c.state = WaitConfig
	}
}

func (c *Controller) runTick(in ControllerInputs) {
	if !in.ResetN {
		c.state = Reset
		return
	}
	if !in.Enable {
		// Idle-disabled holding pattern.
		c.out = false
		return
	}
	if c.prev == PhaseHigh {
		c.pauseCount = 0
		c.state = PulseLow
		c.lowTick(in)
		return
	}
	c.pulseCount = 0
	c.state = PulseHigh
	c.highTick(in)
}

func (c *Controller) highTick(in ControllerInputs) {
	c.out = true
	c.prev = PhaseHigh
	if !in.Enable {
		// Abort mid-phase, the count is not finished.
		c.out = false
		c.state = Run
		return
	}
	if c.pulseCount == in.Word.HighCount() {
		c.state = Run
		return
	}
	c.pulseCount = (c.pulseCount + 1) & pulseCountMask
}

func (c *Controller) lowTick(in ControllerInputs) {
	c.out = false
	c.prev = PhaseLow
	if !in.Enable {
		c.state = Run
		return
	}
	if c.pauseCount == in.Word.LowCount() {
		c.state = Run
		return
	}
	c.pauseCount = (c.pauseCount + 1) & pauseCountMask
}

// Out is the pulse output latch, HIGH only while PulseHigh drives it.
func (c *Controller) Out() bool {
	return c.out
}

func (c *Controller) State() State {
	return c.state
}

func (c *Controller) PreviousPhase() Phase {
	return c.prev
}

// ClearRequested is true for the single tick the controller spends in
// Reset. The owner must clear the accumulator state on that tick.
func (c *Controller) ClearRequested() bool {
	return c.clearTick
}
