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

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
)

const (
	// WordLayerNum identifies the layer
	WordLayerNum = 2202
	// WordBytes is the configuration word size on the wire
	WordBytes = 8
)

// WordLayer carries one 64-bit configuration word as the serial interface
// transmits it: 8 bytes, first byte most significant.
type WordLayer struct {
	layers.BaseLayer
	Data [WordBytes]uint8
}

var WordLayerType = gopacket.RegisterLayerType(WordLayerNum,
	gopacket.LayerTypeMetadata{Name: "WordLayerType", Decoder: gopacket.DecodeFunc(DecodeWordLayer)})

// NewWordLayer splits a 64-bit word into wire byte order.
func NewWordLayer(word uint64) *WordLayer {
	wl := &WordLayer{}
	binary.BigEndian.PutUint64(wl.Data[:], word)
	return wl
}

// LayerType returns the type of the word layer in the layer catalog
func (wl *WordLayer) LayerType() gopacket.LayerType {
	return WordLayerType
}

// Word reassembles the 64-bit word from wire byte order.
func (wl *WordLayer) Word() uint64 {
	return binary.BigEndian.Uint64(wl.Data[:])
}

// Serialize serializes the word layer to a buffer. It is used by upper
// layers that have to compute the frame CRC over serialized bytes.
func (wl *WordLayer) Serialize(buf []byte) {
	copy(buf, wl.Data[:])
}

// SerializeTo serializes the word layer into bytes and writes the bytes to the SerializeBuffer
func (wl *WordLayer) SerializeTo(b gopacket.SerializeBuffer, opts gopacket.SerializeOptions) error {
	bytes, err := b.AppendBytes(WordBytes)
	if err != nil {
		return err
	}
	wl.Serialize(bytes)
	return nil
}

func (wl *WordLayer) DecodeFromBytes(data []byte, df gopacket.DecodeFeedback) error {
	if len(data) < WordBytes {
		df.SetTruncated()
		return errors.New("Word layer too short")
	}
	wl.BaseLayer = layers.BaseLayer{
		Contents: data[:WordBytes],
		Payload:  []byte{},
	}
	copy(wl.Data[:], data[:WordBytes])
	return nil
}

func DecodeWordLayer(data []byte, p gopacket.PacketBuilder) error {
	wl := &WordLayer{}
	err := wl.DecodeFromBytes(data, p)
	if err != nil {
		return err
	}
	p.AddLayer(wl)
	return nil
}
