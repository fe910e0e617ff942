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

import (
	"fmt"
	"io/ioutil"
	"net"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"sigs.k8s.io/yaml"
)

// Device describes one simulated pulser channel hosted by the daemon.
// Addr is the PulseLink address used to route configuration word frames.
type Device struct {
	Name string `json:"name"`
	Addr uint16 `json:"addr"`
}

type Config struct {
	IP       *net.IP   `json:"ip"`
	LogLevel string    `json:"log_level,omitempty"`
	DBPath   string    `json:"db_path,omitempty"`
	Devices  []*Device `json:"devices"`

	// Core clock period in microseconds.
	TickMicroseconds int `json:"tick_us,omitempty"`
	// Core ticks per half period of the bit-banged serial clock.
	SerialDivisor int `json:"serial_divisor,omitempty"`

	filepath string
}

func (c *Config) Persist(overwrite bool) error {
	if _, err := os.Stat(c.filepath); err == nil && !overwrite {
		return ErrConfigFileExists{Path: c.filepath}
	}

	data, err := yaml.Marshal(&c)
	if err != nil {
		return err
	}

	dir := filepath.Dir(c.filepath)
	if err = os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrapf(err, "can not create config dir %s", dir)
	}

	if err = ioutil.WriteFile(c.filepath, data, 0644); err != nil {
		return errors.Wrapf(err, "can not write config file %s", c.filepath)
	}

	return nil
}

// Load reads the config file if it exists. A missing file is not an error,
// the defaults are kept in that case.
func (c *Config) Load() error {
	data, err := ioutil.ReadFile(c.filepath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrapf(err, "can not read config file %s", c.filepath)
	}
	return yaml.Unmarshal(data, c)
}

func (c *Config) GetDeviceByName(name string) *Device {
	for _, d := range c.Devices {
		if d.Name == name {
			return d
		}
	}
	return nil
}

func (c *Config) GetDeviceByAddr(addr uint16) *Device {
	for _, d := range c.Devices {
		if d.Addr == addr {
			return d
		}
	}
	return nil
}

func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = ""
	}
	return filepath.Join(home, ConfigDir, ConfigFile)
}

func NewDefaultConfig() *Config {
	ip := net.ParseIP(DefaultIP)
	return &Config{
		IP:               &ip,
		LogLevel:         DefaultLogLevel,
		DBPath:           DefaultDBPath,
		TickMicroseconds: DefaultTickMicroseconds,
		SerialDivisor:    DefaultSerialDivisor,
		Devices: []*Device{
			{
				Name: DefaultDeviceName,
				Addr: DefaultDeviceAddr,
			},
		},
		filepath: DefaultConfigPath(),
	}
}

func (c *Config) String() string {
	return fmt.Sprintf("config: ip: %s devices: %d tick: %dus divisor: %d",
		c.IP, len(c.Devices), c.TickMicroseconds, c.SerialDivisor)
}
