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

// Synchronizer resamples an asynchronously driven line through two
// sequential tick-aligned stages before the value is used anywhere in the
// core domain. A third stage keeps the previous synchronized value so edge
// detection can compare the two most recent samples. An external
// transition becomes visible 2-3 ticks after it happens, the serial
// protocol timing must tolerate that latency.
type Synchronizer struct {
	meta bool // first stage, may hold a partially settled sample
	sync bool // second stage, safe to use in the core domain
	prev bool // synchronized value of the previous tick
}

// Sample advances the synchronizer by one tick with the current raw line
// value.
func (s *Synchronizer) Sample(raw bool) {
	s.prev = s.sync
	s.sync = s.meta
	s.meta = raw
}

// Value returns the synchronized line value.
func (s *Synchronizer) Value() bool {
	return s.sync
}

// Rising reports whether the synchronized value went 0 to 1 on the most
// recent Sample. It is true for exactly one tick per observed transition.
func (s *Synchronizer) Rising() bool {
	return s.sync && !s.prev
}

// Falling reports a 1 to 0 transition of the synchronized value.
func (s *Synchronizer) Falling() bool {
	return !s.sync && s.prev
}

func (s *Synchronizer) Reset() {
	*s = Synchronizer{}
}
