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
	"fmt"
)

const (
	// HighCountBits is the width of the pulse HIGH duration field.
	HighCountBits = 24
	// LowCountBits is the width of the pulse LOW duration field.
	LowCountBits = 40

	highCountMask = 1<<HighCountBits - 1
	lowCountMask  = 1<<LowCountBits - 1
)

// Word is the 64-bit configuration word assembled from 8 serially received
// bytes, first byte most significant. Bits 63-40 hold the HIGH phase
// duration, bits 39-0 the LOW phase duration, both in core ticks. It is
// immutable once latched by the accumulator.
type Word uint64

// NewWord packs phase durations into a configuration word. Counts wider
// than their fields are truncated to the field width.
func NewWord(highCount uint32, lowCount uint64) Word {
	return Word(uint64(highCount&highCountMask)<<LowCountBits | lowCount&lowCountMask)
}

// HighCount returns the HIGH phase duration field, 24 bits.
func (w Word) HighCount() uint32 {
	return uint32(uint64(w) >> LowCountBits & highCountMask)
}

// LowCount returns the LOW phase duration field, 40 bits.
func (w Word) LowCount() uint64 {
	return uint64(w) & lowCountMask
}

// Bytes returns the word in the order the serial line carries it,
// most significant byte first.
func (w Word) Bytes() [8]uint8 {
	var b [8]uint8
	for i := 0; i < 8; i++ {
		b[i] = uint8(uint64(w) >> uint(56-8*i))
	}
	return b
}

func (w Word) Hex() string {
	return fmt.Sprintf("0x%016x", uint64(w))
}

// Accumulator concatenates 8 completed bytes into a configuration word and
// latches a one-shot received flag after the 8th byte. It is inert once
// the flag is set, later serial traffic changes nothing until reset.
type Accumulator struct {
	word     Word
	byteIdx  uint8 // 3-bit
	received bool
}

// Tick consumes the re-synchronized byte-ready edge indicator and the
// assembled byte it qualifies.
func (ac *Accumulator) Tick(byteReadyRising bool, b uint8) {
	if ac.received || !byteReadyRising {
		return
	}
	ac.word = ac.word<<8 | Word(b)
	if ac.byteIdx == 7 {
		ac.received = true
		ac.byteIdx = 0
		return
	}
	ac.byteIdx++
}

// Received reports whether a full configuration word has been latched.
func (ac *Accumulator) Received() bool {
	return ac.received
}

// Word returns the accumulator contents. Callers must gate on Received,
// the value is partial until the flag is set.
func (ac *Accumulator) Word() Word {
	return ac.word
}

func (ac *Accumulator) Reset() {
	*ac = Accumulator{}
}
