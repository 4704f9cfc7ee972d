// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package networkcmd

import (
	"github.com/okeydokey/okeydokey-cli/pkg/application"
	"github.com/okeydokey/okeydokey-cli/pkg/cobrautils"
	"github.com/spf13/cobra"
)

var app *application.OkeyDokey

func NewCmd(injectedApp *application.OkeyDokey) *cobra.Command {
	app = injectedApp
	cmd := &cobra.Command{
		Use:   "network",
		Short: "Inspect the networks table",
		Long: `The network command suite shows the networks the contracts can be
migrated to: the built-in development and ropsten entries, merged with the
networks table of the project config file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cobrautils.CommandSuiteUsage(cmd, args)
		},
		Args: cobrautils.ExactArgs(0),
	}
	// network list
	cmd.AddCommand(newListCmd())
	// network describe
	cmd.AddCommand(newDescribeCmd())
	return cmd
}
