// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package networkcmd

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/okeydokey/okeydokey-cli/pkg/cobrautils"
	"github.com/okeydokey/okeydokey-cli/pkg/networks"
	"github.com/okeydokey/okeydokey-cli/pkg/ux"
	"github.com/spf13/cobra"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Lists the configured networks",
		Long:  `The network list command prints every network of the networks table.`,
		RunE:  listNetworks,
		Args:  cobrautils.ExactArgs(0),
	}
}

func listNetworks(*cobra.Command, []string) error {
	nets, err := app.GetNetworks()
	if err != nil {
		return err
	}
	t := ux.DefaultTable("Networks", table.Row{"Name", "RPC URL", "Network ID", "Signer"})
	for _, name := range networks.Names(nets) {
		n := nets[name]
		t.AppendRow(table.Row{n.Name, n.RPCURL(), n.NetworkID, signer(n)})
	}
	ux.PrintTable(t)
	return nil
}
