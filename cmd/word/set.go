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

package word

import (
	"errors"
	"strconv"

	"github.com/spf13/cobra"

	"jinr.ru/greenlab/go-pulser/pkg/command"
	"jinr.ru/greenlab/go-pulser/pkg/config"
	"jinr.ru/greenlab/go-pulser/pkg/core"
)

const (
	WordOptionName = "word"
	HighOptionName = "high"
	LowOptionName  = "low"
)

func NewSetCommand() *cobra.Command {
	var device, wordValue, highCount, lowCount string
	cfg := config.NewDefaultConfig()
	cfg.Load()
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Send a configuration word to a device",
		RunE: func(cmd *cobra.Command, args []string) error {
			var w core.Word
			switch {
			case wordValue != "":
				parsed, err := strconv.ParseUint(wordValue, 0, 64)
				if err != nil {
					return err
				}
				w = core.Word(parsed)
			case highCount != "" && lowCount != "":
				high, err := strconv.ParseUint(highCount, 0, core.HighCountBits)
				if err != nil {
					return err
				}
				low, err := strconv.ParseUint(lowCount, 0, core.LowCountBits)
				if err != nil {
					return err
				}
				w = core.NewWord(uint32(high), low)
			default:
				return errors.New("Either --word or both --high and --low must be given")
			}
			return command.SendWord(cfg, device, uint64(w))
		},
	}
	cmd.Flags().StringVar(&device, DeviceOptionName, config.DefaultDeviceName, "Device name")
	cmd.Flags().StringVar(&wordValue, WordOptionName, "", "Whole 64-bit configuration word (hexadecimal)")
	cmd.Flags().StringVar(&highCount, HighOptionName, "", "Pulse HIGH duration in ticks minus one, 24 bits")
	cmd.Flags().StringVar(&lowCount, LowOptionName, "", "Pulse LOW duration in ticks minus one, 40 bits")

	return cmd
}
