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

package device

import (
	"jinr.ru/greenlab/go-pulser/pkg/core"
)

// serialFeeder plays the external configuration bit source. It bit-bangs a
// 64-bit word onto the serial lines MSB-first, one half clock period every
// divisor core ticks, so the serial clock runs 2*divisor times slower than
// the core and the synchronizer latency can never swallow or duplicate an
// edge.
type serialFeeder struct {
	divisor int

	word   core.Word
	active bool
	tick   int // ticks since the transaction started
}

func newSerialFeeder(divisor int) *serialFeeder {
	if divisor < 4 {
		// Below this the 2-3 tick synchronizer latency eats edges.
		divisor = 4
	}
	return &serialFeeder{divisor: divisor}
}

func (f *serialFeeder) start(w core.Word) {
	f.word = w
	f.active = true
	f.tick = 0
}

func (f *serialFeeder) busy() bool {
	return f.active
}

// step computes the serial line values for the next core tick. The
// transaction is: one lead-in half period with chip-select asserted and
// the clock low, then 64 bits of one low and one high half period each,
// then one tail half period for the last byte-ready pulse to settle before
// chip-select is released.
func (f *serialFeeder) step(lines *core.Lines) {
	if !f.active {
		lines.ChipSelectN = true
		lines.SerialClock = false
		lines.Data = false
		return
	}

	half := f.divisor
	lead := half
	bitsEnd := lead + 64*2*half
	tailEnd := bitsEnd + half

	switch {
	case f.tick < lead:
		lines.ChipSelectN = false
		lines.SerialClock = false
	case f.tick < bitsEnd:
		pos := f.tick - lead
		bit := pos / (2 * half)        // 0..63, MSB first
		highHalf := pos%(2*half) >= half // second half period carries the rising edge
		lines.ChipSelectN = false
		lines.Data = uint64(f.word)>>uint(63-bit)&1 == 1
		lines.SerialClock = highHalf
	case f.tick < tailEnd:
		lines.ChipSelectN = false
		lines.SerialClock = false
	default:
		lines.ChipSelectN = true
		lines.SerialClock = false
		lines.Data = false
		f.active = false
	}
	f.tick++
}
