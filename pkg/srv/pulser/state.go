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
	"encoding/binary"
	"fmt"

	"github.com/pkg/errors"
	"go.etcd.io/bbolt"

	"jinr.ru/greenlab/go-pulser/pkg/config"
	"jinr.ru/greenlab/go-pulser/pkg/core"
	"jinr.ru/greenlab/go-pulser/pkg/log"
	"jinr.ru/greenlab/go-pulser/pkg/srv/pulser/ifc"
)

const (
	BucketNamePrefix = "word_"
)

// WordState persists every configuration word the devices latch, one
// bucket per device, keyed by an insertion sequence.
type WordState struct {
	context.Context
	DB *bbolt.DB
}

func NewWordState(ctx context.Context, cfg *config.Config) (*WordState, error) {
	db, err := bbolt.Open(cfg.DBPath, 0600, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "can not open word database %s", cfg.DBPath)
	}
	// create buckets in the word database for all devices
	if err = db.Update(func(tx *bbolt.Tx) error {
		for _, device := range cfg.Devices {
			_, err = tx.CreateBucketIfNotExists([]byte(bucketName(device.Name)))
			if err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		return nil, err
	}
	return &WordState{
		Context: ctx,
		DB:      db,
	}, nil
}

func uint64ToBytes(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	return b
}

func bucketName(deviceName string) string {
	return fmt.Sprintf("%s%s", BucketNamePrefix, deviceName)
}

func (s *WordState) Close() {
	s.DB.Close()
}

// PutWord records one latch event for a device.
func (s *WordState) PutWord(deviceName string, word core.Word, tick uint64) error {
	log.Debug("Persisting accepted word: device: %s word: %s tick: %d", deviceName, word.Hex(), tick)
	return s.DB.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(bucketName(deviceName)))
		if b == nil {
			return fmt.Errorf("Bucket not found: %s", bucketName(deviceName))
		}
		seq, err := b.NextSequence()
		if err != nil {
			return err
		}
		value := make([]byte, 16)
		binary.BigEndian.PutUint64(value[0:8], uint64(word))
		binary.BigEndian.PutUint64(value[8:16], tick)
		return b.Put(uint64ToBytes(seq), value)
	})
}

// History returns every latch event recorded for a device, oldest first.
func (s *WordState) History(deviceName string) ([]ifc.AcceptedWord, error) {
	var words []ifc.AcceptedWord
	if err := s.DB.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(bucketName(deviceName)))
		if b == nil {
			return fmt.Errorf("Bucket not found: %s", bucketName(deviceName))
		}
		return b.ForEach(func(k, v []byte) error {
			if len(k) != 8 || len(v) != 16 {
				return fmt.Errorf("Malformed word record in bucket %s", bucketName(deviceName))
			}
			words = append(words, ifc.AcceptedWord{
				Seq:  binary.BigEndian.Uint64(k),
				Word: core.Word(binary.BigEndian.Uint64(v[0:8])).Hex(),
				Tick: binary.BigEndian.Uint64(v[8:16]),
			})
			return nil
		})
	}); err != nil {
		return nil, err
	}
	return words, nil
}
