// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package deploymentcmd

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/okeydokey/okeydokey-cli/pkg/cobrautils"
	"github.com/okeydokey/okeydokey-cli/pkg/deployments"
	"github.com/okeydokey/okeydokey-cli/pkg/orchestrator"
	"github.com/okeydokey/okeydokey-cli/pkg/ux"
	"github.com/spf13/cobra"
)

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Prints the addresses of the last migration",
		Long: `The deployment show command prints the contracts deployed by the last
migrate run on --network, the registry links and the failures of that run.`,
		RunE: showDeployment,
		Args: cobrautils.ExactArgs(0),
	}
}

func showDeployment(*cobra.Command, []string) error {
	record, err := app.Deployments().Load(network)
	if err != nil {
		return err
	}
	instances, err := record.OrchestratorInstances()
	if err != nil {
		return err
	}
	ux.Logger.PrintToUser(
		"Migrated to %s (chain id %d) by %s at %s",
		record.Network,
		record.ChainID,
		record.From,
		record.DeployedAt.Format("2006-01-02 15:04:05 MST"),
	)
	orchestrator.Report(instances)
	if len(record.Links) > 0 {
		printLinks(record)
	}
	for _, failure := range record.Failures {
		ux.Logger.RedXToUser("%s", failure)
	}
	return nil
}

func printLinks(record *deployments.Record) {
	t := ux.DefaultTable("Registry Links", table.Row{"Link", "Setter", "Required", "Status"})
	for i, link := range record.LinkCalls() {
		recorded := record.Links[i]
		status := "verified"
		switch {
		case recorded.Error != "":
			status = "failed: " + recorded.Error
		case !recorded.Verified:
			status = "set, not verified"
		}
		t.AppendRow(table.Row{link.String(), recorded.Setter, recorded.Required, status})
	}
	ux.PrintTable(t)
}
