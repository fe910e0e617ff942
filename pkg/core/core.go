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

// Package core implements the pulse generator timing core: the clock
// domain synchronizers for the serial interface, the serial bit assembler,
// the configuration word accumulator and the pulse controller state
// machine. The core is pure and deterministic, it does no I/O and advances
// only through Tick. All component state reads current values and commits
// next values within one Tick call, classic synchronous update semantics.
package core

// Lines is one sample of the raw input wires. The serial lines live in a
// slower asynchronous domain and are passed through synchronizers before
// use, enable and reset are treated as core domain inputs.
type Lines struct {
	SerialClock bool
	ChipSelectN bool // active low
	Data        bool
	ResetN      bool // active low
	Enable      bool
}

// IdleLines returns the line state of an idle bus: chip-select and reset
// deasserted, everything else low.
func IdleLines() Lines {
	return Lines{ChipSelectN: true, ResetN: true}
}

// Core wires the four components together. Data flows one direction:
// synchronizers, bit assembler, accumulator, controller.
type Core struct {
	sclk  Synchronizer
	csn   Synchronizer
	data  Synchronizer
	ready Synchronizer

	asm  BitAssembler
	acc  Accumulator
	ctrl Controller

	enable bool
	ticks  uint64
}

func New() *Core {
	return &Core{}
}

// Tick evaluates the whole core once with the given raw line sample.
func (c *Core) Tick(lines Lines) {
	c.ticks++

	c.sclk.Sample(lines.SerialClock)
	c.csn.Sample(lines.ChipSelectN)
	c.data.Sample(lines.Data)

	c.asm.Tick(!c.csn.Value(), c.sclk.Rising(), c.data.Value())

	// The byte-ready pulse is re-synchronized to line it up with the
	// accumulator's sampling.
	c.ready.Sample(c.asm.ByteReady())
	c.acc.Tick(c.ready.Rising(), c.asm.Byte())

	c.ctrl.Tick(ControllerInputs{
		Enable:   lines.Enable,
		ResetN:   lines.ResetN,
		Received: c.acc.Received(),
		Word:     c.acc.Word(),
	})
	if c.ctrl.ClearRequested() {
		c.acc.Reset()
	}

	c.enable = lines.Enable
}

// PulseOut is the generated waveform.
func (c *Core) PulseOut() bool {
	return c.ctrl.Out()
}

// Activity mirrors the enable input. It indicates enable requested, not
// currently pulsing.
func (c *Core) Activity() bool {
	return c.enable
}

func (c *Core) State() State {
	return c.ctrl.State()
}

// Received reports whether a configuration word has been latched.
func (c *Core) Received() bool {
	return c.acc.Received()
}

// Word returns the latched configuration word. Only meaningful once
// Received reports true.
func (c *Core) Word() Word {
	return c.acc.Word()
}

// Ticks is the number of Tick calls since power-up.
func (c *Core) Ticks() uint64 {
	return c.ticks
}
