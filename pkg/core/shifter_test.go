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

// shiftByte clocks all 8 bits of b into the assembler MSB-first, one edge
// per bit with idle ticks in between, and returns whether byte-ready was
// seen and on which bit.
func shiftByte(a *BitAssembler, b uint8) (ready bool, readyBit int) {
	readyBit = -1
	for i := 7; i >= 0; i-- {
		bit := b>>uint(i)&1 == 1
		a.Tick(true, true, bit)
		if a.ByteReady() {
			ready = true
			readyBit = 7 - i
		}
		// Idle ticks between edges, the serial clock is much slower than
		// the core.
		for j := 0; j < 3; j++ {
			a.Tick(true, false, bit)
			if a.ByteReady() {
				ready = true
			}
		}
	}
	return ready, readyBit
}

func TestBitAssemblerMSBFirst(t *testing.T) {
	for _, b := range []uint8{0x00, 0xff, 0xa5, 0x01, 0x80, 0x5a} {
		var a BitAssembler
		ready, readyBit := shiftByte(&a, b)
		if !ready {
			t.Fatalf("byte %#02x: byte-ready never asserted", b)
		}
		if readyBit != 7 {
			t.Fatalf("byte %#02x: byte-ready on bit %d, want bit 7", b, readyBit)
		}
		if a.Byte() != b {
			t.Fatalf("assembled %#02x, want %#02x", a.Byte(), b)
		}
	}
}

func TestBitAssemblerByteReadyOneTick(t *testing.T) {
	var a BitAssembler
	for i := 0; i < 8; i++ {
		a.Tick(true, true, true)
	}
	if !a.ByteReady() {
		t.Fatal("byte-ready not asserted on the 8th bit")
	}
	a.Tick(true, false, true)
	if a.ByteReady() {
		t.Fatal("byte-ready held past one tick")
	}
}

func TestBitAssemblerChipSelectAbort(t *testing.T) {
	var a BitAssembler

	// Half a byte, then the transaction is dropped.
	for i := 0; i < 4; i++ {
		a.Tick(true, true, true)
	}
	a.Tick(false, false, false)

	// A fresh byte must start from bit 0.
	ready, readyBit := shiftByte(&a, 0x3c)
	if !ready || readyBit != 7 {
		t.Fatalf("ready=%t readyBit=%d after abort, want ready on bit 7", ready, readyBit)
	}
	if a.Byte() != 0x3c {
		t.Fatalf("assembled %#02x after abort, want 0x3c", a.Byte())
	}
}

func TestBitAssemblerWrapsAcrossBytes(t *testing.T) {
	var a BitAssembler

	// No reset between bytes of one transaction, the 3-bit position wraps.
	var readies int
	for _, b := range []uint8{0x12, 0x34, 0x56} {
		ready, _ := shiftByte(&a, b)
		if !ready {
			t.Fatalf("no byte-ready for byte %#02x", b)
		}
		readies++
		if a.Byte() != b {
			t.Fatalf("assembled %#02x, want %#02x", a.Byte(), b)
		}
	}
	if readies != 3 {
		t.Fatalf("got %d byte-ready pulses, want 3", readies)
	}
}
