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

func TestSynchronizerLatency(t *testing.T) {
	var s Synchronizer

	// Raw line goes high and stays high. The synchronized value must
	// appear after exactly two samples.
	s.Sample(true)
	if s.Value() {
		t.Fatal("value visible after one sample")
	}
	s.Sample(true)
	if !s.Value() {
		t.Fatal("value not visible after two samples")
	}
	if !s.Rising() {
		t.Fatal("rising edge not reported on the tick the value appears")
	}
}

func TestSynchronizerRisingIsOneTick(t *testing.T) {
	var s Synchronizer

	raw := []bool{false, true, true, true, true, false, false, false}
	var edges int
	for _, r := range raw {
		s.Sample(r)
		if s.Rising() {
			edges++
		}
	}
	if edges != 1 {
		t.Fatalf("got %d rising edges for one raw transition, want 1", edges)
	}
}

func TestSynchronizerFalling(t *testing.T) {
	var s Synchronizer

	for _, r := range []bool{true, true, true} {
		s.Sample(r)
	}
	s.Sample(false)
	if s.Falling() {
		t.Fatal("falling edge one tick early")
	}
	s.Sample(false)
	if !s.Falling() {
		t.Fatal("falling edge not reported")
	}
	s.Sample(false)
	if s.Falling() {
		t.Fatal("falling edge lasted more than one tick")
	}
}

func TestSynchronizerEdgePerTransition(t *testing.T) {
	var s Synchronizer

	// A slow serial clock toggling every 5 ticks must yield exactly one
	// rising edge per period.
	var edges int
	for period := 0; period < 4; period++ {
		for i := 0; i < 5; i++ {
			s.Sample(false)
			if s.Rising() {
				edges++
			}
		}
		for i := 0; i < 5; i++ {
			s.Sample(true)
			if s.Rising() {
				edges++
			}
		}
	}
	if edges != 4 {
		t.Fatalf("got %d rising edges over 4 clock periods, want 4", edges)
	}
}

func TestSynchronizerReset(t *testing.T) {
	var s Synchronizer

	for i := 0; i < 3; i++ {
		s.Sample(true)
	}
	s.Reset()
	if s.Value() || s.Rising() {
		t.Fatal("state survived reset")
	}
}
