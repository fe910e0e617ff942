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

// Sample is one tick of observable device output.
type Sample struct {
	Tick     uint64 `json:"tick"`
	PulseOut bool   `json:"pulse_out"`
	Activity bool   `json:"activity"`
}

// traceRing keeps the most recent output samples in a fixed size ring.
type traceRing struct {
	buf   []Sample
	next  int
	count int
}

func newTraceRing(capacity int) *traceRing {
	return &traceRing{buf: make([]Sample, capacity)}
}

func (r *traceRing) push(s Sample) {
	r.buf[r.next] = s
	r.next = (r.next + 1) % len(r.buf)
	if r.count < len(r.buf) {
		r.count++
	}
}

// last returns up to n most recent samples, oldest first.
func (r *traceRing) last(n int) []Sample {
	if n > r.count {
		n = r.count
	}
	out := make([]Sample, 0, n)
	start := r.next - n
	if start < 0 {
		start += len(r.buf)
	}
	for i := 0; i < n; i++ {
		out = append(out, r.buf[(start+i)%len(r.buf)])
	}
	return out
}
