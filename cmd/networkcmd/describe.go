// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package networkcmd

import (
	"errors"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/okeydokey/okeydokey-cli/pkg/cobrautils"
	"github.com/okeydokey/okeydokey-cli/pkg/deployments"
	"github.com/okeydokey/okeydokey-cli/pkg/networks"
	"github.com/okeydokey/okeydokey-cli/pkg/ux"
	"github.com/spf13/cobra"
)

func newDescribeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "describe [networkName]",
		Short: "Prints the settings of a network",
		Long: `The network describe command prints the endpoint, network id, signer and
gas settings of a network, and when it was last migrated to.`,
		RunE: describeNetwork,
		Args: cobrautils.ExactArgs(1),
	}
}

func describeNetwork(_ *cobra.Command, args []string) error {
	n, err := app.GetNetwork(args[0])
	if err != nil {
		return err
	}
	t := ux.DefaultTable(n.Name, nil)
	t.AppendRow(table.Row{"RPC URL", n.RPCURL()})
	t.AppendRow(table.Row{"Network ID", n.NetworkID})
	t.AppendRow(table.Row{"Public", n.IsPublic()})
	t.AppendRow(table.Row{"Signer", signer(n)})
	t.AppendRow(table.Row{"Gas", gasSetting(n.Gas, "estimated")})
	t.AppendRow(table.Row{"Gas Price", gasSetting(n.GasPrice, "from the node")})
	record, err := app.Deployments().Load(n.Name)
	switch {
	case err == nil:
		t.AppendRow(table.Row{"Last Migration", fmt.Sprintf("%s (%d contracts)", record.DeployedAt.Format("2006-01-02 15:04:05 MST"), len(record.Instances))})
	case errors.Is(err, deployments.ErrNoRecord):
		t.AppendRow(table.Row{"Last Migration", "never"})
	default:
		return err
	}
	ux.PrintTable(t)
	return nil
}

// signer describes the account that signs the migrations of [n], without
// revealing any secret
func signer(n networks.Network) string {
	switch {
	case n.Provider != nil && n.Provider.PrivateKey != "":
		return "private key"
	case n.Provider != nil && n.Provider.Mnemonic != "":
		return fmt.Sprintf("mnemonic, index %d", n.Provider.AddressIndex)
	case n.Provider != nil:
		return "mnemonic, prompted"
	case n.From != "":
		return "node account " + n.From
	default:
		return "node account #0"
	}
}

func gasSetting(value uint64, fallback string) string {
	if value == 0 {
		return fallback
	}
	return ux.ConvertToStringWithThousandSeparator(value)
}
