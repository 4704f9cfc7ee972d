// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package configcmd

import (
	"github.com/okeydokey/okeydokey-cli/pkg/application"
	"github.com/okeydokey/okeydokey-cli/pkg/cobrautils"
	"github.com/spf13/cobra"
)

var app *application.OkeyDokey

func NewCmd(injectedApp *application.OkeyDokey) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Modify configuration for OkeyDokey CLI",
		Long:  `Customize user preferences for OkeyDokey CLI`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cobrautils.CommandSuiteUsage(cmd, args)
		},
	}
	app = injectedApp
	// set user metrics collection preferences cmd
	cmd.AddCommand(newMetricsCmd())
	return cmd
}
