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
	"net"

	"github.com/spf13/cobra"

	"jinr.ru/greenlab/go-pulser/pkg/config"
)

const (
	IPOptionName        = "ip"
	OverwriteOptionName = "overwrite"
)

// NewCommand creates a command that persists the default config file so it
// can be edited by hand afterwards.
func NewCommand() *cobra.Command {
	var ip string
	var overwrite bool
	cmd := &cobra.Command{
		Use:   "config",
		Short: fmt.Sprintf("Persist default config to %s", config.DefaultConfigPath()),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.NewDefaultConfig()
			if ip != "" {
				parsedIP := net.ParseIP(ip)
				cfg.IP = &parsedIP
			}
			if err := cfg.Persist(overwrite); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s", cfg)
			return nil
		},
	}
	cmd.Flags().StringVar(&ip, IPOptionName, "", fmt.Sprintf("IP the daemon binds to. E.g. %s", config.DefaultIP))
	cmd.Flags().BoolVar(&overwrite, OverwriteOptionName, false, "Overwrite the config file if it exists")

	return cmd
}
