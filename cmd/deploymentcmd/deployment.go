// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package deploymentcmd

import (
	"github.com/okeydokey/okeydokey-cli/pkg/application"
	"github.com/okeydokey/okeydokey-cli/pkg/cobrautils"
	"github.com/okeydokey/okeydokey-cli/pkg/constants"
	"github.com/spf13/cobra"
)

var (
	app *application.OkeyDokey

	network string
)

func NewCmd(injectedApp *application.OkeyDokey) *cobra.Command {
	app = injectedApp
	cmd := &cobra.Command{
		Use:   "deployment",
		Short: "Inspect the contracts of the last migration",
		Long: `The deployment command suite works on the deployment record written by
the last migrate run on a network: the addresses of the deployed contracts and
the registry links set between them.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cobrautils.CommandSuiteUsage(cmd, args)
		},
		Args: cobrautils.ExactArgs(0),
	}
	cmd.PersistentFlags().StringVar(&network, "network", constants.DefaultNetwork, "network the contracts were migrated to")
	// deployment show
	cmd.AddCommand(newShowCmd())
	// deployment verify
	cmd.AddCommand(newVerifyCmd())
	return cmd
}
