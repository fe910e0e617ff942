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
	"path/filepath"
	"testing"
)

func TestPersistLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config")

	cfg := NewDefaultConfig()
	cfg.filepath = path
	cfg.TickMicroseconds = 250
	cfg.SerialDivisor = 16
	cfg.Devices = append(cfg.Devices, &Device{Name: "pulser1", Addr: 0x0002})

	if err := cfg.Persist(false); err != nil {
		t.Fatalf("persist: %v", err)
	}
	if err := cfg.Persist(false); err == nil {
		t.Fatal("second persist without overwrite must fail")
	}
	if err := cfg.Persist(true); err != nil {
		t.Fatalf("persist with overwrite: %v", err)
	}

	loaded := NewDefaultConfig()
	loaded.filepath = path
	if err := loaded.Load(); err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.TickMicroseconds != 250 || loaded.SerialDivisor != 16 {
		t.Errorf("timing not restored: tick %d divisor %d", loaded.TickMicroseconds, loaded.SerialDivisor)
	}
	if len(loaded.Devices) != 2 {
		t.Fatalf("want 2 devices, got %d", len(loaded.Devices))
	}
	if d := loaded.GetDeviceByName("pulser1"); d == nil || d.Addr != 0x0002 {
		t.Errorf("device pulser1 not restored: %+v", d)
	}
}

func TestLoadMissingFileKeepsDefaults(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.filepath = filepath.Join(t.TempDir(), "nonexistent")

	if err := cfg.Load(); err != nil {
		t.Fatalf("missing config file must not be an error, got %v", err)
	}
	if cfg.TickMicroseconds != DefaultTickMicroseconds {
		t.Errorf("defaults lost: tick %d", cfg.TickMicroseconds)
	}
	if cfg.GetDeviceByName(DefaultDeviceName) == nil {
		t.Error("default device lost")
	}
}

func TestGetDevice(t *testing.T) {
	cfg := NewDefaultConfig()

	if d := cfg.GetDeviceByAddr(DefaultDeviceAddr); d == nil || d.Name != DefaultDeviceName {
		t.Errorf("lookup by addr 0x%04x: %+v", DefaultDeviceAddr, d)
	}
	if d := cfg.GetDeviceByName("missing"); d != nil {
		t.Errorf("unknown name must return nil, got %+v", d)
	}
	if d := cfg.GetDeviceByAddr(0xdead); d != nil {
		t.Errorf("unknown addr must return nil, got %+v", d)
	}
}
