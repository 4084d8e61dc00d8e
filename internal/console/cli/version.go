// Copyright (c) 2026 MerchantDesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package cli

import (
	"fmt"

	figure "github.com/common-nighthawk/go-figure"
	"github.com/spf13/cobra"
)

func newVersionCommand(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the console version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprint(out, figure.NewFigure(AppName, "cybermedium", true).String())
			fmt.Fprintf(out, "\nconsole %s\n", version)
			return nil
		},
	}
}
