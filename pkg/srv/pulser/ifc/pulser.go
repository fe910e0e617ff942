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

package ifc

import (
	"jinr.ru/greenlab/go-pulser/pkg/device"
)

// AcceptedWord is one persisted configuration word latch event.
type AcceptedWord struct {
	Seq  uint64 `json:"seq"`
	Word string `json:"word"`
	Tick uint64 `json:"tick"`
}

type PulserServer interface {
	Run() error

	GetDeviceByName(deviceName string) (*device.Device, error)
	GetAllDevices() map[string]*device.Device
	History(deviceName string) ([]AcceptedWord, error)
}

type ApiServer interface {
	Run() error
}
