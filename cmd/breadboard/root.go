// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package main

import (
	"os"

	"github.com/db47h/breadboard/internal/config"
	"github.com/db47h/breadboard/internal/logging"
	"github.com/spf13/cobra"
)

type app struct {
	envFile string
	cfg     config.Config
	log     logging.Logger
}

func newRootCmd() *cobra.Command {
	a := new(app)
	root := &cobra.Command{
		Use:   "breadboard",
		Short: "Breadboard circuit simulator",
		Long: `breadboard simulates LEDs, resistors and microcontroller boards wired
on a virtual breadboard. Circuits and their pin scripts are described in YAML
files.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}
	root.PersistentFlags().StringVar(&a.envFile, "env", ".env", "environment file")
	root.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")
	root.PersistentFlags().String("log-format", "", "log format (text, json)")
	root.PersistentFlags().Int("max-depth", 0, "maximum propagation depth")
	root.AddCommand(newRunCmd(a), newPartsCmd())
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.envFile)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if v, _ := flags.GetString("log-level"); v != "" {
		cfg.LogLevel = v
	}
	if v, _ := flags.GetString("log-format"); v != "" {
		cfg.LogFormat = v
	}
	if v, _ := flags.GetInt("max-depth"); v > 0 {
		cfg.MaxDepth = v
	}
	a.cfg = cfg
	a.log = logging.New(logging.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		Output: os.Stderr,
	})
	return nil
}
