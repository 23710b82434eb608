// Copyright (c) 2026 Crystalbox. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/taibuivan/crystalbox/pkg/cyclespec"
)

func newCyclesCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "cycles <spec>",
		Short:   "Expand a cycle specification such as \"1, 4-5, 23\"",
		Example: `  boxctl cycles "1, 4-5, 23"`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cycles, err := cyclespec.Parse(strings.Join(args, " "))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cyclespec.Format(cycles))
			return nil
		},
	}
}
