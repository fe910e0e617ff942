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

package control

import (
	"fmt"

	"github.com/spf13/cobra"

	"jinr.ru/greenlab/go-pulser/pkg/command"
	"jinr.ru/greenlab/go-pulser/pkg/config"
	"jinr.ru/greenlab/go-pulser/pkg/srv/pulser"
)

const (
	SamplesOptionName = "samples"
)

func NewTraceCommand() *cobra.Command {
	var device string
	var samples int
	cfg := config.NewDefaultConfig()
	cfg.Load()
	cmd := &cobra.Command{
		Use:   "trace",
		Short: "Read recent output waveform samples of a device",
		RunE: func(cmd *cobra.Command, args []string) error {
			apiClient := command.NewApiClient(cfg)
			trace, err := apiClient.Trace(device, samples)
			if err != nil {
				return err
			}
			for _, s := range trace {
				out := '_'
				if s.PulseOut {
					out = '#'
				}
				fmt.Fprintf(cmd.OutOrStdout(), "tick: %d out: %c activity: %t\n", s.Tick, out, s.Activity)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&device, DeviceOptionName, config.DefaultDeviceName, "Device name")
	cmd.Flags().IntVar(&samples, SamplesOptionName, pulser.DefaultTraceSamples, "Number of most recent samples to read")

	return cmd
}
