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

// Package device hosts one simulated pulser per configured device: the
// timing core, the raw line state, the serial bit source feeding
// configuration words in, and a trace of the generated waveform.
package device

import (
	"context"
	"sync"
	"time"

	"jinr.ru/greenlab/go-pulser/pkg/config"
	"jinr.ru/greenlab/go-pulser/pkg/core"
	"jinr.ru/greenlab/go-pulser/pkg/log"
)

const (
	traceCapacity = 4096
)

// Status is a read-only snapshot of a device.
type Status struct {
	Name      string `json:"name"`
	State     string `json:"state"`
	Received  bool   `json:"received"`
	Word      string `json:"word"`
	HighCount uint32 `json:"high_count"`
	LowCount  uint64 `json:"low_count"`
	PulseOut  bool   `json:"pulse_out"`
	Activity  bool   `json:"activity"`
	Ticks     uint64 `json:"ticks"`
}

// AcceptedFunc is called once per configuration word the core latches.
type AcceptedFunc func(deviceName string, word core.Word, tick uint64)

// Device is one simulated pulser. All mutable state is guarded by mu, the
// tick loop is the only writer of the core, line setters are the only
// writers of the enable and reset requests.
type Device struct {
	Name string
	Addr uint16

	mu     sync.Mutex
	core   *core.Core
	lines  core.Lines
	feeder *serialFeeder
	queue  []core.Word
	trace  *traceRing

	resetPending bool
	wasReceived  bool

	tickPeriod time.Duration
	accepted   AcceptedFunc
}

func NewDevice(cfg *config.Config, dev *config.Device, accepted AcceptedFunc) *Device {
	return &Device{
		Name:       dev.Name,
		Addr:       dev.Addr,
		core:       core.New(),
		lines:      core.IdleLines(),
		feeder:     newSerialFeeder(cfg.SerialDivisor),
		trace:      newTraceRing(traceCapacity),
		tickPeriod: time.Duration(cfg.TickMicroseconds) * time.Microsecond,
		accepted:   accepted,
	}
}

// Step advances the device by one core tick.
func (d *Device) Step() {
	var latched bool
	var word core.Word
	var tick uint64

	d.mu.Lock()
	d.lines.ResetN = !d.resetPending
	d.feeder.step(&d.lines)
	if !d.feeder.busy() && len(d.queue) > 0 {
		d.feeder.start(d.queue[0])
		d.queue = d.queue[1:]
	}
	d.core.Tick(d.lines)
	d.trace.push(Sample{
		Tick:     d.core.Ticks(),
		PulseOut: d.core.PulseOut(),
		Activity: d.core.Activity(),
	})
	if d.core.Received() && !d.wasReceived {
		latched = true
		word = d.core.Word()
		tick = d.core.Ticks()
	}
	d.wasReceived = d.core.Received()
	if d.resetPending && d.core.State() == core.WaitConfig && !d.core.Received() {
		// Reset has taken effect, or the core was never configured and the
		// canonical state machine ignores the line anyway.
		d.resetPending = false
	}
	d.mu.Unlock()

	if latched && d.accepted != nil {
		d.accepted(d.Name, word, tick)
	}
}

// Run drives the tick loop until the context is done.
func (d *Device) Run(ctx context.Context) error {
	log.Info("Starting device %s: tick period %s", d.Name, d.tickPeriod)
	ticker := time.NewTicker(d.tickPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Info("Stopping device %s", d.Name)
			return ctx.Err()
		case <-ticker.C:
			d.Step()
		}
	}
}

// FeedWord queues a configuration word for serial transmission. The core
// latches only the first complete word per power cycle, later words are
// still clocked in but change nothing until reset.
func (d *Device) FeedWord(w core.Word) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.feeder.busy() {
		d.queue = append(d.queue, w)
		return
	}
	d.feeder.start(w)
}

// SetEnable drives the enable line.
func (d *Device) SetEnable(enable bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.lines.Enable = enable
}

// Reset asserts the active-low reset line and keeps it asserted until the
// core has returned to the wait-for-configuration state. The core checks
// the line only while in the run state, so a reset requested mid-phase
// takes effect when the phase in flight completes.
func (d *Device) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.resetPending = true
}

// Status returns a snapshot of the device.
func (d *Device) Status() Status {
	d.mu.Lock()
	defer d.mu.Unlock()
	w := d.core.Word()
	return Status{
		Name:      d.Name,
		State:     d.core.State().String(),
		Received:  d.core.Received(),
		Word:      w.Hex(),
		HighCount: w.HighCount(),
		LowCount:  w.LowCount(),
		PulseOut:  d.core.PulseOut(),
		Activity:  d.core.Activity(),
		Ticks:     d.core.Ticks(),
	}
}

// Trace returns up to n most recent output samples, oldest first.
func (d *Device) Trace(n int) []Sample {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.trace.last(n)
}
