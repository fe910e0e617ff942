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

// BitAssembler reconstructs bytes from the synchronized serial lines. Bits
// are shifted in MSB-first on every serial clock rising edge while
// chip-select is asserted. The bit position is a 3-bit counter, it wraps
// modulo 8 and there is no explicit reset between bytes of one
// transaction.
type BitAssembler struct {
	buf       uint8
	bitCount  uint8 // 3-bit, wraps modulo 8
	byteReady bool
}

// Tick consumes one tick worth of synchronized line samples. csAsserted is
// the decoded chip-select (true while a transaction is active),
// clockRising the serial clock edge indicator, bit the synchronized data
// line.
func (a *BitAssembler) Tick(csAsserted, clockRising, bit bool) {
	a.byteReady = false
	if !csAsserted {
		// Transaction aborted or not started.
		a.bitCount = 0
		return
	}
	if !clockRising {
		return
	}
	a.buf <<= 1
	if bit {
		a.buf |= 1
	}
	a.bitCount = (a.bitCount + 1) & 0x07
	if a.bitCount == 0 {
		// 8th bit of the current byte.
		a.byteReady = true
	}
}

// Byte returns the most recently assembled 8 bits. Only meaningful while
// ByteReady is observed.
func (a *BitAssembler) Byte() uint8 {
	return a.buf
}

// ByteReady is asserted for exactly one tick after the 8th bit of a byte.
// It must pass through a Synchronizer before the accumulator consumes it,
// the pulse is generated one tick after the qualifying clock edge.
func (a *BitAssembler) ByteReady() bool {
	return a.byteReady
}

func (a *BitAssembler) Reset() {
	*a = BitAssembler{}
}
