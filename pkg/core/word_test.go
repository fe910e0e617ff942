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
	"testing"
)

func TestWordFields(t *testing.T) {
	tests := []struct {
		word Word
		high uint32
		low  uint64
	}{
		{0x0000000000000000, 0, 0},
		{0xffffffffffffffff, 0xffffff, 0xffffffffff},
		{0x0000030000000002, 3, 2},
		{0x1234560000000000, 0x123456, 0},
		{0x000000789abcdef0, 0, 0x789abcdef0},
		{0xabcdef0123456789, 0xabcdef, 0x0123456789},
	}
	for _, tt := range tests {
		if got := tt.word.HighCount(); got != tt.high {
			t.Errorf("%s: HighCount() = %#x, want %#x", tt.word.Hex(), got, tt.high)
		}
		if got := tt.word.LowCount(); got != tt.low {
			t.Errorf("%s: LowCount() = %#x, want %#x", tt.word.Hex(), got, tt.low)
		}
	}
}

func TestWordBytesOrder(t *testing.T) {
	w := Word(0x0102030405060708)
	b := w.Bytes()
	for i := 0; i < 8; i++ {
		if b[i] != uint8(i+1) {
			t.Fatalf("Bytes()[%d] = %#02x, want %#02x", i, b[i], i+1)
		}
	}
}

// feedBytes pushes bytes through the accumulator the way the core does:
// one rising edge per byte with quiet ticks in between.
func feedBytes(ac *Accumulator, bytes []uint8) {
	for _, b := range bytes {
		ac.Tick(true, b)
		ac.Tick(false, b)
		ac.Tick(false, b)
	}
}

func TestAccumulatorAssemblesMSBFirst(t *testing.T) {
	var ac Accumulator

	bytes := []uint8{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08}
	feedBytes(&ac, bytes[:7])
	if ac.Received() {
		t.Fatal("received flag set before the 8th byte")
	}
	feedBytes(&ac, bytes[7:])
	if !ac.Received() {
		t.Fatal("received flag not set after the 8th byte")
	}
	if ac.Word() != 0x0102030405060708 {
		t.Fatalf("word = %s, want 0x0102030405060708", ac.Word().Hex())
	}
}

func TestAccumulatorInertOnceLatched(t *testing.T) {
	var ac Accumulator

	feedBytes(&ac, []uint8{0xde, 0xad, 0xbe, 0xef, 0x00, 0x11, 0x22, 0x33})
	latched := ac.Word()

	// Further serial traffic must change nothing until reset.
	feedBytes(&ac, []uint8{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff})
	if ac.Word() != latched {
		t.Fatalf("word changed after latch: %s", ac.Word().Hex())
	}
	if !ac.Received() {
		t.Fatal("received flag dropped")
	}
}

func TestAccumulatorReset(t *testing.T) {
	var ac Accumulator

	feedBytes(&ac, []uint8{1, 2, 3, 4, 5, 6, 7, 8})
	ac.Reset()
	if ac.Received() || ac.Word() != 0 {
		t.Fatal("accumulator state survived reset")
	}

	// A complete fresh transaction is accepted after reset.
	feedBytes(&ac, []uint8{8, 7, 6, 5, 4, 3, 2, 1})
	if !ac.Received() || ac.Word() != 0x0807060504030201 {
		t.Fatalf("word after reset = %s, want 0x0807060504030201", ac.Word().Hex())
	}
}
