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

package layers

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"

	"jinr.ru/greenlab/go-pulser/pkg/log"
)

const (
	PulseLinkHostAddr = 0x0001
	// PulseLinkBroadcastAddr addresses every device hosted by a daemon.
	PulseLinkBroadcastAddr = 0xfefe
)

func init() {
	initUnknownPulseLinkTypes()
	initActualPulseLinkTypes()
}

const (
	// PulseLinkLayerNum identifies the layer
	PulseLinkLayerNum = 2201
	// PulseLinkSync is a magic number that appears in the beginning of each PulseLink frame
	PulseLinkSync = 0x2b50
	// PulseLinkHeaderBytes is the PulseLink header size
	PulseLinkHeaderBytes = 12
	// PulseLinkMaxFrameSize is the max size of a PulseLink frame including header and CRC
	PulseLinkMaxFrameSize = 1400
)

type PulseLinkType uint16

const (
	PulseLinkTypeWordRequest PulseLinkType = 0x0301
	PulseLinkTypeWordAck     PulseLinkType = 0x0302
)

type errorDecoderForPulseLinkType int

func (e *errorDecoderForPulseLinkType) Decode(data []byte, p gopacket.PacketBuilder) error {
	return e
}

func (e *errorDecoderForPulseLinkType) Error() string {
	return fmt.Sprintf("Unable to decode PulseLink type %d", int(*e))
}

var errorDecodersForPulseLinkType [65536]errorDecoderForPulseLinkType
var PulseLinkMetadata [65536]layers.EnumMetadata

func initUnknownPulseLinkTypes() {
	for i := 0; i < 65536; i++ {
		errorDecodersForPulseLinkType[i] = errorDecoderForPulseLinkType(i)
		PulseLinkMetadata[i] = layers.EnumMetadata{
			DecodeWith: &errorDecodersForPulseLinkType[i],
			Name:       "UnknownPulseLinkType",
		}
	}
}

func initActualPulseLinkTypes() {
	PulseLinkMetadata[PulseLinkTypeWordRequest] = layers.EnumMetadata{DecodeWith: gopacket.DecodeFunc(DecodeWordLayer), Name: "Word", LayerType: WordLayerType}
	PulseLinkMetadata[PulseLinkTypeWordAck] = layers.EnumMetadata{DecodeWith: gopacket.DecodeFunc(DecodeWordLayer), Name: "WordAck", LayerType: WordLayerType}
}

// LayerType returns PulseLinkMetadata.LayerType
func (t PulseLinkType) LayerType() gopacket.LayerType {
	return PulseLinkMetadata[t].LayerType
}

// Decode calls PulseLinkMetadata.DecodeWith's decoder
func (t PulseLinkType) Decode(data []byte, p gopacket.PacketBuilder) error {
	return PulseLinkMetadata[t].DecodeWith.Decode(data, p)
}

// String returns PulseLinkMetadata.Name
func (t PulseLinkType) String() string {
	return PulseLinkMetadata[t].Name
}

type PulseLinkHeader struct {
	Type PulseLinkType
	Sync uint16
	Seq  uint16
	Len  uint16 // frame length including header, payload and CRC, in bytes
	Src  uint16
	Dst  uint16
}

type PulseLinkLayer struct {
	layers.BaseLayer
	PulseLinkHeader
	Crc uint32
}

var PulseLinkLayerType = gopacket.RegisterLayerType(PulseLinkLayerNum,
	gopacket.LayerTypeMetadata{Name: "PulseLinkLayerType", Decoder: gopacket.DecodeFunc(decodePulseLinkLayer)})

func (pl *PulseLinkLayer) LayerType() gopacket.LayerType {
	return PulseLinkLayerType
}

// SerializeHeader serializes only the PulseLink header (not the tail) to a
// buffer. The CRC field depends on the contents of the whole frame, so it
// is calculated in upper layers over the serialized header and payload.
func (pl *PulseLinkLayer) SerializeHeader(buf []byte) {
	binary.LittleEndian.PutUint16(buf[0:2], uint16(pl.Type))
	binary.LittleEndian.PutUint16(buf[2:4], pl.Sync)
	binary.LittleEndian.PutUint16(buf[4:6], pl.Seq)
	binary.LittleEndian.PutUint16(buf[6:8], pl.Len)
	binary.LittleEndian.PutUint16(buf[8:10], pl.Src)
	binary.LittleEndian.PutUint16(buf[10:12], pl.Dst)
}

// SerializeTo serializes the layer into bytes and writes the bytes to the SerializeBuffer
func (pl *PulseLinkLayer) SerializeTo(b gopacket.SerializeBuffer, opts gopacket.SerializeOptions) error {
	headerBytes, err := b.PrependBytes(PulseLinkHeaderBytes)
	if err != nil {
		return err
	}
	pl.SerializeHeader(headerBytes)

	tailBytes, err := b.AppendBytes(4)
	if err != nil {
		return err
	}
	binary.LittleEndian.PutUint32(tailBytes[0:4], pl.Crc)
	return nil
}

// DecodeFromBytes attempts to decode the byte slice as a PulseLink frame
func (pl *PulseLinkLayer) DecodeFromBytes(data []byte, df gopacket.DecodeFeedback) error {
	if len(data) < PulseLinkHeaderBytes+4 {
		df.SetTruncated()
		return errors.New("PulseLink frame too short")
	}

	if binary.LittleEndian.Uint16(data[2:4]) != PulseLinkSync {
		log.Debug("PulseLink sync is invalid")
		return fmt.Errorf("Wrong PulseLink sync. Must be 0x%04x", PulseLinkSync)
	}

	pl.BaseLayer = layers.BaseLayer{
		Contents: data[0:PulseLinkHeaderBytes],
		Payload:  data[PulseLinkHeaderBytes : len(data)-4],
	}

	pl.Type = PulseLinkType(binary.LittleEndian.Uint16(data[0:2]))
	pl.Sync = binary.LittleEndian.Uint16(data[2:4])
	pl.Seq = binary.LittleEndian.Uint16(data[4:6])
	pl.Len = binary.LittleEndian.Uint16(data[6:8])
	pl.Src = binary.LittleEndian.Uint16(data[8:10])
	pl.Dst = binary.LittleEndian.Uint16(data[10:12])
	pl.Crc = binary.LittleEndian.Uint32(data[len(data)-4:])

	return nil
}

func (pl *PulseLinkLayer) NextLayerType() gopacket.LayerType {
	return pl.Type.LayerType()
}

func decodePulseLinkLayer(data []byte, p gopacket.PacketBuilder) error {
	pl := &PulseLinkLayer{}
	err := pl.DecodeFromBytes(data, p)
	if err != nil {
		log.Error("Error while decoding PulseLink layer: %s", err)
		return err
	}
	p.AddLayer(pl)
	return p.NextDecoder(pl.NextLayerType())
}
