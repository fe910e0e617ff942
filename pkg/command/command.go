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
	"context"
	"fmt"
	"hash/crc32"
	"net"
	"time"

	"github.com/google/gopacket"
	"github.com/pkg/errors"

	"jinr.ru/greenlab/go-pulser/pkg/config"
	"jinr.ru/greenlab/go-pulser/pkg/layers"
	"jinr.ru/greenlab/go-pulser/pkg/log"
	"jinr.ru/greenlab/go-pulser/pkg/srv/pulser"
)

const (
	AckTimeout = 2 * time.Second
)

// StartPulserServer runs the device daemon until it fails or is stopped.
func StartPulserServer(cfg *config.Config) error {
	ctx := context.Background()

	s, err := pulser.NewPulserServer(ctx, cfg)
	if err != nil {
		return err
	}
	return s.Run()
}

// SendWord transmits a configuration word to a device over the PulseLink
// UDP port and waits for the daemon's acknowledgement.
func SendWord(cfg *config.Config, deviceName string, word uint64) error {
	dev := cfg.GetDeviceByName(deviceName)
	if dev == nil {
		return config.ErrDeviceNotFound{What: deviceName}
	}

	raddr, err := net.ResolveUDPAddr("udp", fmt.Sprintf("%s:%d", cfg.IP, pulser.LinkPort))
	if err != nil {
		return err
	}
	conn, err := net.DialUDP("udp", nil, raddr)
	if err != nil {
		return errors.Wrapf(err, "can not dial %s", raddr)
	}
	defer conn.Close()

	pl := &layers.PulseLinkLayer{}
	pl.Type = layers.PulseLinkTypeWordRequest
	pl.Sync = layers.PulseLinkSync
	pl.Len = layers.PulseLinkHeaderBytes + layers.WordBytes + 4
	pl.Seq = 1
	pl.Src = layers.PulseLinkHostAddr
	pl.Dst = dev.Addr

	wl := layers.NewWordLayer(word)

	headerBytes := make([]byte, layers.PulseLinkHeaderBytes)
	pl.SerializeHeader(headerBytes)
	wordBytes := make([]byte, layers.WordBytes)
	wl.Serialize(wordBytes)
	pl.Crc = crc32.ChecksumIEEE(append(headerBytes, wordBytes...))

	buf := gopacket.NewSerializeBuffer()
	opts := gopacket.SerializeOptions{}
	if err = gopacket.SerializeLayers(buf, opts, pl, wl); err != nil {
		return err
	}

	log.Info("Sending word 0x%016x to device %s at %s", word, deviceName, raddr)
	if _, err = conn.Write(buf.Bytes()); err != nil {
		return errors.Wrap(err, "can not send word frame")
	}

	conn.SetReadDeadline(time.Now().Add(AckTimeout))
	ackBuf := make([]byte, layers.PulseLinkMaxFrameSize)
	n, err := conn.Read(ackBuf)
	if err != nil {
		return errors.Wrap(err, "no acknowledgement from daemon")
	}

	packet := gopacket.NewPacket(ackBuf[:n], layers.PulseLinkLayerType, gopacket.Default)
	plRaw := packet.Layer(layers.PulseLinkLayerType)
	if plRaw == nil || plRaw.(*layers.PulseLinkLayer).Type != layers.PulseLinkTypeWordAck {
		return errors.New("unexpected reply instead of word ack")
	}
	wlRaw := packet.Layer(layers.WordLayerType)
	if wlRaw == nil || wlRaw.(*layers.WordLayer).Word() != word {
		return errors.New("word ack does not echo the sent word")
	}
	log.Info("Word 0x%016x acknowledged", word)
	return nil
}
