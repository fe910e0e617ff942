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

import (
	"strings"
	"testing"
)

// divisor is the number of core ticks per half period of the bit-banged
// serial clock used by the tests. It satisfies the >=8-10x ratio the
// synchronizer latency requires.
const divisor = 10

type bench struct {
	c     *Core
	lines Lines
}

func newBench() *bench {
	return &bench{c: New(), lines: IdleLines()}
}

func (b *bench) ticks(n int) {
	for i := 0; i < n; i++ {
		b.c.Tick(b.lines)
	}
}

// sendWord bit-bangs a full configuration word onto the raw lines,
// MSB-first in bit and byte order, data sampled on the serial clock rising
// edge while chip-select is asserted.
func (b *bench) sendWord(w Word) {
	b.lines.ChipSelectN = false
	b.ticks(divisor)
	for _, byt := range w.Bytes() {
		for i := 7; i >= 0; i-- {
			b.lines.Data = byt>>uint(i)&1 == 1
			b.lines.SerialClock = false
			b.ticks(divisor)
			b.lines.SerialClock = true
			b.ticks(divisor)
		}
	}
	b.lines.SerialClock = false
	b.lines.ChipSelectN = true
	b.ticks(divisor)
}

// sendBytes bit-bangs a partial transaction.
func (b *bench) sendBytes(bytes []uint8) {
	b.lines.ChipSelectN = false
	b.ticks(divisor)
	for _, byt := range bytes {
		for i := 7; i >= 0; i-- {
			b.lines.Data = byt>>uint(i)&1 == 1
			b.lines.SerialClock = false
			b.ticks(divisor)
			b.lines.SerialClock = true
			b.ticks(divisor)
		}
	}
	b.lines.SerialClock = false
	b.lines.ChipSelectN = true
	b.ticks(divisor)
}

func TestCoreConfigRoundTrip(t *testing.T) {
	words := []Word{
		0x0000000000000000,
		0xffffffffffffffff,
		0x0000030000000002,
		0xdeadbeefcafef00d,
		0x0102030405060708,
	}
	for _, w := range words {
		b := newBench()
		b.sendWord(w)
		if !b.c.Received() {
			t.Fatalf("%s: configuration not received", w.Hex())
		}
		if got := b.c.Word(); got != w {
			t.Fatalf("latched %s, want %s", got.Hex(), w.Hex())
		}
		if got := b.c.Word().HighCount(); got != w.HighCount() {
			t.Fatalf("high count %#x, want %#x", got, w.HighCount())
		}
		if got := b.c.Word().LowCount(); got != w.LowCount() {
			t.Fatalf("low count %#x, want %#x", got, w.LowCount())
		}
	}
}

func TestCoreWaveform(t *testing.T) {
	b := newBench()
	b.sendWord(makeWord(3, 2))
	if !b.c.Received() {
		t.Fatal("configuration not received")
	}
	if b.c.State() != Run {
		t.Fatalf("state = %s after latch, want run", b.c.State())
	}

	b.lines.Enable = true
	var sb strings.Builder
	for i := 0; i < 21; i++ {
		b.c.Tick(b.lines)
		if b.c.PulseOut() {
			sb.WriteByte('H')
		} else {
			sb.WriteByte('L')
		}
	}
	want := strings.Repeat("HHHHLLL", 3)
	if sb.String() != want {
		t.Fatalf("waveform = %s, want %s", sb.String(), want)
	}
}

func TestCoreTruncatedTransactionStaysWaiting(t *testing.T) {
	b := newBench()
	b.lines.Enable = true
	b.sendBytes([]uint8{0x11, 0x22, 0x33, 0x44, 0x55})
	b.ticks(1000)
	if b.c.Received() {
		t.Fatal("received flag set by a truncated transaction")
	}
	if b.c.State() != WaitConfig {
		t.Fatalf("state = %s, want wait_config", b.c.State())
	}
	if b.c.PulseOut() {
		t.Fatal("output produced without a complete configuration")
	}
}

// The accumulator counts 8 bytes from accumulator reset and then goes
// inert. Sending the word twice therefore latches the first 8 bytes, the
// second transaction changes nothing.
func TestCoreSecondWordIgnored(t *testing.T) {
	b := newBench()
	first := Word(0x0000050000000003)
	b.sendWord(first)
	b.sendWord(0xffffffffffffffff)
	if got := b.c.Word(); got != first {
		t.Fatalf("latched %s, want first word %s", got.Hex(), first.Hex())
	}
	if !b.c.Received() {
		t.Fatal("received flag lost")
	}
}

func TestCoreResetRecovery(t *testing.T) {
	b := newBench()
	b.lines.Enable = true
	b.sendWord(makeWord(3, 2))
	b.ticks(10) // pulsing

	// Hold reset for longer than one full pulse period so the run state
	// is guaranteed to observe it.
	b.lines.ResetN = false
	b.ticks(20)
	b.lines.ResetN = true

	if b.c.State() != WaitConfig {
		t.Fatalf("state = %s after reset, want wait_config", b.c.State())
	}
	if b.c.Received() || b.c.Word() != 0 {
		t.Fatal("configuration survived reset")
	}
	if b.c.PulseOut() {
		t.Fatal("output not cleared by reset")
	}

	// A complete fresh transaction is required and sufficient.
	second := makeWord(1, 1)
	b.sendWord(second)
	if !b.c.Received() {
		t.Fatal("second configuration not received")
	}
	if got := b.c.Word(); got != second {
		t.Fatalf("latched %s, want %s", got.Hex(), second.Hex())
	}
	var sawHigh bool
	for i := 0; i < 4 && !sawHigh; i++ {
		b.ticks(1)
		sawHigh = b.c.PulseOut()
	}
	if !sawHigh {
		t.Fatal("pulsing did not resume after reconfiguration")
	}
}

func TestCoreActivityMirrorsEnable(t *testing.T) {
	b := newBench()

	b.lines.Enable = true
	b.ticks(1)
	if !b.c.Activity() {
		t.Fatal("activity low with enable high")
	}
	// Activity indicates enable requested, not currently pulsing: it is
	// high even while waiting for a configuration.
	if b.c.State() != WaitConfig {
		t.Fatalf("state = %s, want wait_config", b.c.State())
	}

	b.lines.Enable = false
	b.ticks(1)
	if b.c.Activity() {
		t.Fatal("activity high with enable low")
	}
}
