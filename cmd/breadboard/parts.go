// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package main

import (
	"fmt"
	"strings"

	"github.com/db47h/breadboard/internal/defs"
	"github.com/db47h/breadboard/parts"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newPartsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parts",
		Short: "List the available component types and their pins",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			bold := color.New(color.Bold).SprintFunc()
			w := cmd.OutOrStdout()
			for _, k := range parts.Keys() {
				d, err := defs.Lookup(k)
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "%s\n  pins: %s\n", bold(k), strings.Join(d.Labels(), " "))
				if len(d.PWM) > 0 {
					var pwm []string
					for _, i := range d.PWM {
						pwm = append(pwm, d.Pins[i].Label)
					}
					fmt.Fprintf(w, "  pwm:  %s\n", strings.Join(pwm, " "))
				}
				if len(d.ColorNames) > 0 {
					fmt.Fprintf(w, "  colors: %s\n", strings.Join(d.ColorNames, " "))
				}
			}
			return nil
		},
	}
}
