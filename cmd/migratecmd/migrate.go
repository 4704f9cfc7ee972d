// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package migratecmd

import (
	"fmt"
	"os"

	"github.com/okeydokey/okeydokey-cli/cmd/flags"
	"github.com/okeydokey/okeydokey-cli/internal/migrations"
	"github.com/okeydokey/okeydokey-cli/pkg/application"
	"github.com/okeydokey/okeydokey-cli/pkg/cobrautils"
	"github.com/okeydokey/okeydokey-cli/pkg/constants"
	"github.com/okeydokey/okeydokey-cli/pkg/keychain"
	"github.com/okeydokey/okeydokey-cli/pkg/metrics"
	"github.com/okeydokey/okeydokey-cli/pkg/utils"
	"github.com/okeydokey/okeydokey-cli/pkg/ux"
	"github.com/spf13/cobra"
)

var (
	app *application.OkeyDokey

	network      string
	planPath     string
	artifactsDir string
	keys         keychain.Flags
	runFlags     flags.RunFlags
	skipConfirm  bool

	isInteractive = func() bool {
		return utils.IsInteractive() && !utils.IsE2E()
	}
)

// okeydokey migrate
func NewCmd(injectedApp *application.OkeyDokey) *cobra.Command {
	app = injectedApp
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Deploy the contracts and wire them into the registry",
		Long: `The migrate command deploys every contract of the migration plan to the
selected network, sets the deployed addresses on the registry contract, reads
them back to verify the wiring and prints the address of each contract.

Every run deploys fresh instances. The addresses of the last run are kept in
a deployment record, see okeydokey deployment show.`,
		RunE: migrate,
		Args: cobrautils.ExactArgs(0),
	}
	cmd.Flags().StringVar(&network, "network", constants.DefaultNetwork, "network of the networks table to deploy to")
	cmd.Flags().StringVar(&planPath, "plan", "", "migration plan file (default is the built-in OkeyDokey plan)")
	cmd.Flags().StringVar(&artifactsDir, "artifacts", constants.DefaultArtifactsDir, "directory with the compiled contract artifacts")
	cmd.Flags().BoolVarP(&skipConfirm, "yes", "y", false, "do not ask for confirmation before deploying to a public network")
	signerGroup := flags.AddSignerFlags(cmd, &keys)
	runGroup := flags.AddRunFlags(cmd, &runFlags)
	cmd.SetHelpFunc(flags.WithGroupedHelp([]flags.GroupedFlags{signerGroup, runGroup}, os.Args))
	return cmd
}

func migrate(cmd *cobra.Command, _ []string) error {
	if err := flags.EnsureMutuallyExclusive(cmd, flags.PrivateKeyFlag, flags.MnemonicIndexFlag); err != nil {
		return cobrautils.NewUsageError(cmd, err)
	}
	if runFlags.Concurrency < 1 {
		return cobrautils.NewUsageError(cmd, fmt.Errorf("--%s must be at least 1", flags.ConcurrencyFlag))
	}
	m, err := migrations.RunMigrations(cmd.Context(), app, migrations.Options{
		Network:      network,
		PlanPath:     planPath,
		ArtifactsDir: artifactsDir,
		Keys:         keys,
		Concurrency:  runFlags.Concurrency,
		FailFast:     runFlags.FailFast,
		SkipVerify:   runFlags.SkipVerify,
		SkipConfirm:  skipConfirm,
		Interactive:  isInteractive(),
	})
	defer m.Close()
	if m.Summary != nil {
		summary := m.Summary
		ux.Logger.PrintToUser("")
		ux.Logger.PrintToUser(
			"%d contracts deployed, %d failed, %d of %d links verified",
			len(summary.Instances),
			summary.Deploys.Failed(),
			summary.Verified(),
			len(summary.Links),
		)
		metrics.HandleTracking(cmd, app, metrics.MigrationFlags(
			m.Network.IsPublic(),
			len(summary.Instances),
			summary.Deploys.Failed(),
			summary.Verified(),
		))
	}
	return err
}
