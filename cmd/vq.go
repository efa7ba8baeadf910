/*
Copyright © 2024 Ryan Painter paintersrp@gmail.com

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/Paintersrp/vq/internal/state"
	"github.com/Paintersrp/vq/pkg/cmd/root"
)

func Execute() {
	configPath, vaultDir, err := earlyFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}

	s, err := state.NewState(configPath, vaultDir)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
	defer s.Close()

	rootCmd, rootErr := root.NewCmdRoot(s)
	if rootErr != nil {
		fmt.Fprintln(os.Stderr, "Error:", rootErr)
		os.Exit(1)
	}

	if execErr := rootCmd.Execute(); execErr != nil {
		os.Exit(1)
	}
}

// earlyFlags pulls --config and --vault out of the raw arguments. Both are
// needed before cobra runs because the state they configure is what the
// command tree is built around; the values travel through a viper binding
// the same way the main flag set does.
func earlyFlags(args []string) (configPath, vaultDir string, err error) {
	fs := pflag.NewFlagSet("vq", pflag.ContinueOnError)
	fs.ParseErrorsWhitelist.UnknownFlags = true
	fs.Usage = func() {}
	fs.String("config", "", "Path to the vq config file.")
	fs.String("vault", "", "Vault directory to query, overriding the config.")

	if err := fs.Parse(args); err != nil && !errors.Is(err, pflag.ErrHelp) {
		return "", "", err
	}

	v := viper.New()
	if err := v.BindPFlags(fs); err != nil {
		return "", "", err
	}
	return v.GetString("config"), v.GetString("vault"), nil
}
