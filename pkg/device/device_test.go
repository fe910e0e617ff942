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
	"strings"
	"testing"

	"jinr.ru/greenlab/go-pulser/pkg/config"
	"jinr.ru/greenlab/go-pulser/pkg/core"
)

// transactionTicks comfortably covers one serial transaction with the
// default divisor: lead-in + 64 bits * 2 half periods + tail.
const transactionTicks = 1500

func makeWord(high uint32, low uint64) core.Word {
	return core.Word(high)<<core.LowCountBits | core.Word(low)
}

func newTestDevice(accepted AcceptedFunc) *Device {
	cfg := config.NewDefaultConfig()
	return NewDevice(cfg, cfg.Devices[0], accepted)
}

func step(d *Device, n int) {
	for i := 0; i < n; i++ {
		d.Step()
	}
}

func TestDeviceFeedAndLatch(t *testing.T) {
	var got []core.Word
	d := newTestDevice(func(name string, w core.Word, tick uint64) {
		got = append(got, w)
	})

	want := core.Word(0xdeadbeefcafef00d)
	d.FeedWord(want)
	step(d, transactionTicks)

	st := d.Status()
	if !st.Received {
		t.Fatal("configuration not latched")
	}
	if st.Word != want.Hex() {
		t.Fatalf("latched %s, want %s", st.Word, want.Hex())
	}
	if len(got) != 1 || got[0] != want {
		t.Fatalf("accepted callback got %v, want one call with %s", got, want.Hex())
	}
}

func TestDeviceWaveformTrace(t *testing.T) {
	d := newTestDevice(nil)

	d.FeedWord(makeWord(3, 2))
	step(d, transactionTicks)
	if !d.Status().Received {
		t.Fatal("configuration not latched")
	}

	d.SetEnable(true)
	step(d, 21)

	var sb strings.Builder
	for _, s := range d.Trace(21) {
		if !s.Activity {
			t.Fatal("activity low while enabled")
		}
		if s.PulseOut {
			sb.WriteByte('H')
		} else {
			sb.WriteByte('L')
		}
	}
	want := strings.Repeat("HHHHLLL", 3)
	if sb.String() != want {
		t.Fatalf("trace = %s, want %s", sb.String(), want)
	}
}

func TestDeviceSecondWordIgnored(t *testing.T) {
	var accepted int
	d := newTestDevice(func(string, core.Word, uint64) { accepted++ })

	first := makeWord(7, 7)
	d.FeedWord(first)
	d.FeedWord(0xffffffffffffffff) // queued behind the first transaction
	step(d, 2*transactionTicks)

	st := d.Status()
	if st.Word != first.Hex() {
		t.Fatalf("latched %s, want first word %s", st.Word, first.Hex())
	}
	if accepted != 1 {
		t.Fatalf("accepted callback fired %d times, want 1", accepted)
	}
}

func TestDeviceReset(t *testing.T) {
	var accepted int
	d := newTestDevice(func(string, core.Word, uint64) { accepted++ })

	d.SetEnable(true)
	d.FeedWord(makeWord(3, 2))
	step(d, transactionTicks)

	d.Reset()
	step(d, 50)

	st := d.Status()
	if st.State != "wait_config" {
		t.Fatalf("state = %s after reset, want wait_config", st.State)
	}
	if st.Received || st.PulseOut {
		t.Fatal("configuration or output survived reset")
	}

	second := makeWord(1, 1)
	d.FeedWord(second)
	step(d, transactionTicks)
	st = d.Status()
	if !st.Received || st.Word != second.Hex() {
		t.Fatalf("after reconfiguration: received=%t word=%s, want %s", st.Received, st.Word, second.Hex())
	}
	if accepted != 2 {
		t.Fatalf("accepted callback fired %d times, want 2", accepted)
	}
}

func TestDeviceResetNoopWhileUnconfigured(t *testing.T) {
	d := newTestDevice(nil)
	d.Reset()
	d.Step()
	st := d.Status()
	if st.State != "wait_config" {
		t.Fatalf("state = %s, want wait_config", st.State)
	}
	// The pending reset must have been released, a following transaction
	// goes through normally.
	w := makeWord(2, 2)
	d.FeedWord(w)
	step(d, transactionTicks)
	if !d.Status().Received {
		t.Fatal("configuration not latched after a no-op reset")
	}
}
