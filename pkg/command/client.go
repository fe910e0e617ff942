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

package command

import (
	"errors"
	"fmt"

	"github.com/imroc/req"

	"jinr.ru/greenlab/go-pulser/pkg/command/ifc"
	"jinr.ru/greenlab/go-pulser/pkg/config"
	"jinr.ru/greenlab/go-pulser/pkg/device"
	srvifc "jinr.ru/greenlab/go-pulser/pkg/srv/pulser/ifc"
	"jinr.ru/greenlab/go-pulser/pkg/srv/pulser"
)

type ApiClient struct {
	*config.Config
	ApiPrefix string
}

var _ ifc.ApiClient = &ApiClient{}

func NewApiClient(cfg *config.Config) ifc.ApiClient {
	return &ApiClient{
		Config:    cfg,
		ApiPrefix: fmt.Sprintf("http://%s:%d/api", cfg.IP, pulser.ApiPort),
	}
}

func (c *ApiClient) statusUrl(device string) string {
	return fmt.Sprintf("%s/status/%s", c.ApiPrefix, device)
}

func (c *ApiClient) wordUrl(device string) string {
	return fmt.Sprintf("%s/word/%s", c.ApiPrefix, device)
}

func (c *ApiClient) controlUrl(action, device string) string {
	return fmt.Sprintf("%s/control/%s/%s", c.ApiPrefix, action, device)
}

// Status reads device state, outputs and tick count from the daemon
func (c *ApiClient) Status(deviceName string) (*device.Status, error) {
	r, err := req.Get(c.statusUrl(deviceName))
	if err != nil {
		return nil, err
	}
	if r.Response().StatusCode != 200 {
		return nil, errors.New(r.Response().Status)
	}
	status := &device.Status{}
	err = r.ToJSON(status)
	if err != nil {
		return nil, err
	}
	return status, nil
}

// WordRead reads the latched configuration word of a device
func (c *ApiClient) WordRead(deviceName string) (*pulser.WordHex, error) {
	r, err := req.Get(c.wordUrl(deviceName))
	if err != nil {
		return nil, err
	}
	if r.Response().StatusCode != 200 {
		return nil, errors.New(r.Response().Status)
	}
	word := &pulser.WordHex{}
	err = r.ToJSON(word)
	if err != nil {
		return nil, err
	}
	return word, nil
}

// WordHistory reads all configuration words a device has accepted
func (c *ApiClient) WordHistory(deviceName string) ([]srvifc.AcceptedWord, error) {
	r, err := req.Get(fmt.Sprintf("%s/history", c.wordUrl(deviceName)))
	if err != nil {
		return nil, err
	}
	if r.Response().StatusCode != 200 {
		return nil, errors.New(r.Response().Status)
	}
	var words []srvifc.AcceptedWord
	err = r.ToJSON(&words)
	if err != nil {
		return nil, err
	}
	return words, nil
}

// Control drives the enable or reset line of a device
func (c *ApiClient) Control(action, deviceName string) error {
	r, err := req.Get(c.controlUrl(action, deviceName))
	if err != nil {
		return err
	}
	if r.Response().StatusCode != 200 {
		return errors.New(r.Response().Status)
	}
	return nil
}

// Trace reads the n most recent output waveform samples of a device
func (c *ApiClient) Trace(deviceName string, n int) ([]device.Sample, error) {
	r, err := req.Get(fmt.Sprintf("%s/trace/%s", c.ApiPrefix, deviceName), req.QueryParam{"n": n})
	if err != nil {
		return nil, err
	}
	if r.Response().StatusCode != 200 {
		return nil, errors.New(r.Response().Status)
	}
	var samples []device.Sample
	err = r.ToJSON(&samples)
	if err != nil {
		return nil, err
	}
	return samples, nil
}
