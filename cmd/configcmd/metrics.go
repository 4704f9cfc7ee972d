// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package configcmd

import (
	"fmt"

	"github.com/okeydokey/okeydokey-cli/pkg/cobrautils"
	"github.com/okeydokey/okeydokey-cli/pkg/constants"
	"github.com/okeydokey/okeydokey-cli/pkg/ux"
	"github.com/spf13/cobra"
)

// okeydokey config metrics
func newMetricsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "metrics [enable | disable]",
		Short: "opt in or out of metrics collection",
		Long: `set user metrics collection preferences. Only the command, the kind of
network and the number of deployed, failed and verified contracts are sent,
never addresses or keys.`,
		RunE: handleMetricsSettings,
		Args: cobrautils.ExactArgs(1),
	}
}

func handleMetricsSettings(cmd *cobra.Command, args []string) error {
	switch args[0] {
	case constants.Enable:
		ux.Logger.PrintToUser("Thank you for opting in OkeyDokey CLI usage metrics collection")
		return app.Conf.SetConfigValue(constants.ConfigMetricsEnabledKey, true)
	case constants.Disable:
		ux.Logger.PrintToUser("OkeyDokey CLI usage metrics will no longer be collected")
		return app.Conf.SetConfigValue(constants.ConfigMetricsEnabledKey, false)
	default:
		return cobrautils.NewUsageError(cmd, fmt.Errorf("invalid metrics argument %q", args[0]))
	}
}
