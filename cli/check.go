// Copyright (c) 2024 The axvmconfig Authors
//
// SPDX-License-Identifier: Apache-2.0
//

package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli"

	"github.com/bullhh/axvmconfig/pkg/vmconfig"
)

var checkCLICommand = cli.Command{
	Name:  "check",
	Usage: "parse a VM configuration file and check its validity",
	Flags: []cli.Flag{
		cli.StringFlag{
			Name:  "config-path, c",
			Usage: "path to the TOML configuration file to validate",
		},
	},
	Action: func(c *cli.Context) error {
		configPath := c.String("config-path")
		if configPath == "" {
			return fmt.Errorf("missing required option --config-path")
		}

		config, err := checkConfigFile(configPath)
		if err != nil {
			return err
		}

		fmt.Fprintf(defaultOutputFile, "Config file '%s' is valid.\n", configPath)
		fmt.Fprintf(defaultOutputFile, "Config: %+v\n", config)

		return nil
	},
}

// checkConfigFile reads a configuration file and runs it through the schema
// parser.
func checkConfigFile(configPath string) (vmconfig.VMConfig, error) {
	configData, err := os.ReadFile(configPath)
	if err != nil {
		return vmconfig.VMConfig{}, fmt.Errorf("failed to read config file %q: %v", configPath, err)
	}

	config, err := vmconfig.ParseVMConfig(string(configData))
	if err != nil {
		return vmconfig.VMConfig{}, fmt.Errorf("config file %q is invalid: %w", configPath, err)
	}

	return config, nil
}
