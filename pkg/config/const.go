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

package config

const (
	ConfigDir  = ".go-pulser"
	ConfigFile = "config"

	DefaultIP       = "127.0.0.1"
	DefaultLogLevel = "info"
	DefaultDBPath   = "go-pulser.db"

	// DefaultTickMicroseconds is the period of the simulated core clock.
	DefaultTickMicroseconds = 100

	// DefaultSerialDivisor is the number of core ticks per half period of
	// the serial clock. The synchronizer adds 2-3 ticks of latency to every
	// line, so the divisor must stay well above that. See the device docs.
	DefaultSerialDivisor = 10

	DefaultDeviceName = "pulser0"
	DefaultDeviceAddr = 0x0001
)
