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

package pulser

import (
	"context"
	"fmt"
	"hash/crc32"
	"net"
	"time"

	"github.com/google/gopacket"

	"jinr.ru/greenlab/go-pulser/pkg/config"
	"jinr.ru/greenlab/go-pulser/pkg/core"
	"jinr.ru/greenlab/go-pulser/pkg/device"
	"jinr.ru/greenlab/go-pulser/pkg/layers"
	"jinr.ru/greenlab/go-pulser/pkg/log"
	"jinr.ru/greenlab/go-pulser/pkg/srv"
	"jinr.ru/greenlab/go-pulser/pkg/srv/pulser/ifc"
)

const (
	// LinkPort is the UDP port the daemon accepts PulseLink frames on.
	LinkPort = 33310
)

// PulserServer hosts the simulated devices: it runs their tick loops,
// receives configuration word frames over UDP and feeds them to the
// addressed device's serial line, and serves the control API.
type PulserServer struct {
	srv.Server
	devices map[string]*device.Device
	state   *WordState
	api     ifc.ApiServer
}

var _ ifc.PulserServer = &PulserServer{}

func NewPulserServer(ctx context.Context, cfg *config.Config) (ifc.PulserServer, error) {
	log.Debug("Initializing pulser server with address: %s port: %d", cfg.IP, LinkPort)

	uaddr, err := net.ResolveUDPAddr("udp", fmt.Sprintf("%s:%d", cfg.IP, LinkPort))
	if err != nil {
		return nil, err
	}

	wordState, err := NewWordState(ctx, cfg)
	if err != nil {
		return nil, err
	}

	s := &PulserServer{
		Server: srv.Server{
			Context: ctx,
			Config:  cfg,
			UDPAddr: uaddr,
			ChIn:    make(chan srv.InPacket),
			ChOut:   make(chan srv.OutPacket),
		},
		devices: make(map[string]*device.Device),
		state:   wordState,
	}

	for _, d := range cfg.Devices {
		s.devices[d.Name] = device.NewDevice(cfg, d, func(name string, w core.Word, tick uint64) {
			log.Info("Device %s latched configuration word %s at tick %d", name, w.Hex(), tick)
			if err := wordState.PutWord(name, w, tick); err != nil {
				log.Error("Error while persisting accepted word for %s: %s", name, err)
			}
		})
	}

	apiServer, err := NewApiServer(ctx, cfg, s)
	if err != nil {
		return nil, err
	}
	s.api = apiServer

	return s, nil
}

func (s *PulserServer) Run() error {
	conn, err := net.ListenUDP("udp", s.UDPAddr)
	if err != nil {
		return err
	}

	defer conn.Close()
	defer s.state.Close()

	errChan := make(chan error, 1)
	buffer := make([]byte, 65536)

	for _, d := range s.devices {
		d := d
		go func() {
			if err := d.Run(s.Context); err != nil && err != context.Canceled {
				log.Error("Device %s tick loop stopped: %s", d.Name, err)
			}
		}()
	}

	// Decode PulseLink frames from the input queue
	go func() {
		source := gopacket.NewPacketSource(s, layers.PulseLinkLayerType)
		for packet := range source.Packets() {
			s.handleFrame(packet)
		}
	}()

	// Read UDP packets from the wire and put them to the input queue
	go func() {
		for {
			length, addr, readErr := conn.ReadFrom(buffer)
			if readErr != nil {
				errChan <- readErr
				return
			}
			peerUDPAddr, readErr := net.ResolveUDPAddr("udp", addr.String())
			if readErr != nil {
				errChan <- readErr
				return
			}
			ci := gopacket.CaptureInfo{
				Length:        length,
				CaptureLength: length,
				Timestamp:     time.Now(),
				AncillaryData: []interface{}{peerUDPAddr},
			}
			s.ChIn <- srv.InPacket{Data: buffer[:length], CaptureInfo: ci}
		}
	}()

	// Take packets from the output queue and send them
	go func() {
		for {
			out := <-s.ChOut
			if _, sendErr := conn.WriteToUDP(out.Data, out.UDPAddr); sendErr != nil {
				log.Error("Error while sending data to %s", out.UDPAddr)
				errChan <- sendErr
				return
			}
		}
	}()

	go func() {
		errChan <- s.api.Run()
	}()

	select {
	case <-s.Context.Done():
		return s.Context.Err()
	case err = <-errChan:
		return err
	}
}

func (s *PulserServer) handleFrame(packet gopacket.Packet) {
	plRaw := packet.Layer(layers.PulseLinkLayerType)
	if plRaw == nil {
		log.Debug("Dropping packet without a PulseLink layer")
		return
	}
	pl := plRaw.(*layers.PulseLinkLayer)
	if pl.Type != layers.PulseLinkTypeWordRequest {
		log.Debug("Dropping PulseLink frame of type %s", pl.Type)
		return
	}

	data := packet.Data()
	computed := crc32.ChecksumIEEE(data[:len(data)-4])
	if computed != pl.Crc {
		log.Error("%s", srv.ErrCrcMismatch{Want: computed, Got: pl.Crc})
		return
	}

	wlRaw := packet.Layer(layers.WordLayerType)
	if wlRaw == nil {
		log.Debug("Dropping PulseLink word request without a word layer")
		return
	}
	word := core.Word(wlRaw.(*layers.WordLayer).Word())

	var targets []*device.Device
	if pl.Dst == layers.PulseLinkBroadcastAddr {
		for _, d := range s.devices {
			targets = append(targets, d)
		}
	} else if d := s.getDeviceByAddr(pl.Dst); d != nil {
		targets = append(targets, d)
	} else {
		log.Debug("Dropping word request for unknown link address %#04x", pl.Dst)
		return
	}

	for _, d := range targets {
		log.Info("Feeding word %s to device %s", word.Hex(), d.Name)
		d.FeedWord(word)
	}

	if udpAddr, err := srv.GetAddrPort(packet); err == nil {
		if err := s.sendAck(pl.Seq, pl.Src, pl.Dst, word, udpAddr); err != nil {
			log.Error("Error while sending word ack to %s: %s", udpAddr, err)
		}
	}
}

func (s *PulserServer) getDeviceByAddr(addr uint16) *device.Device {
	for _, d := range s.devices {
		if d.Addr == addr {
			return d
		}
	}
	return nil
}

// sendAck echoes an accepted word request back to the sender.
func (s *PulserServer) sendAck(seq, dst, src uint16, word core.Word, udpAddr *net.UDPAddr) error {
	pl := &layers.PulseLinkLayer{}
	pl.Type = layers.PulseLinkTypeWordAck
	pl.Sync = layers.PulseLinkSync
	pl.Len = layers.PulseLinkHeaderBytes + layers.WordBytes + 4
	pl.Seq = seq
	pl.Src = src
	pl.Dst = dst

	wl := layers.NewWordLayer(uint64(word))

	// The CRC covers the serialized header and payload
	headerBytes := make([]byte, layers.PulseLinkHeaderBytes)
	pl.SerializeHeader(headerBytes)
	wordBytes := make([]byte, layers.WordBytes)
	wl.Serialize(wordBytes)
	pl.Crc = crc32.ChecksumIEEE(append(headerBytes, wordBytes...))

	buf := gopacket.NewSerializeBuffer()
	opts := gopacket.SerializeOptions{}
	if err := gopacket.SerializeLayers(buf, opts, pl, wl); err != nil {
		return err
	}

	s.ChOut <- srv.OutPacket{
		Data:    buf.Bytes(),
		UDPAddr: udpAddr,
	}
	return nil
}

func (s *PulserServer) GetDeviceByName(deviceName string) (*device.Device, error) {
	d, ok := s.devices[deviceName]
	if !ok {
		return nil, config.ErrDeviceNotFound{What: deviceName}
	}
	return d, nil
}

func (s *PulserServer) GetAllDevices() map[string]*device.Device {
	return s.devices
}

func (s *PulserServer) History(deviceName string) ([]ifc.AcceptedWord, error) {
	return s.state.History(deviceName)
}
