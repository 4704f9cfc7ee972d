// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package deploymentcmd

import (
	"errors"
	"fmt"

	"github.com/okeydokey/okeydokey-cli/pkg/cobrautils"
	"github.com/okeydokey/okeydokey-cli/pkg/constants"
	"github.com/okeydokey/okeydokey-cli/pkg/contract"
	"github.com/okeydokey/okeydokey-cli/pkg/evm"
	"github.com/okeydokey/okeydokey-cli/pkg/orchestrator"
	"github.com/okeydokey/okeydokey-cli/pkg/ux"
	"github.com/spf13/cobra"
)

var (
	ErrChainMismatch = errors.New("record belongs to another chain")

	getClient = evm.GetClient
)

func newVerifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Checks the last migration against the chain",
		Long: `The deployment verify command checks that every contract recorded by the
last migrate run on --network still has code on chain, and reads every
registry link back to compare it with the recorded address. Only the
failures of required links make the command fail.`,
		RunE: verifyDeployment,
		Args: cobrautils.ExactArgs(0),
	}
}

func verifyDeployment(cmd *cobra.Command, _ []string) error {
	record, err := app.Deployments().Load(network)
	if err != nil {
		return err
	}
	instances, err := record.OrchestratorInstances()
	if err != nil {
		return err
	}
	n, err := app.GetNetwork(network)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	client, err := getClient(ctx, n.RPCURL())
	if err != nil {
		return err
	}
	defer client.Close()
	chainID, err := client.GetChainID(ctx)
	if err != nil {
		return err
	}
	if chainID.Uint64() != record.ChainID {
		return fmt.Errorf("%w: recorded chain id %d, node at %s reports %s", ErrChainMismatch, record.ChainID, client.URL, chainID)
	}

	var errs []error
	for _, instance := range instances {
		deployed, err := client.ContractAlreadyDeployed(ctx, instance.Address)
		switch {
		case err != nil:
			errs = append(errs, err)
			ux.Logger.RedXToUser("%s at %s: %s", instance.Name, instance.Address.Hex(), err)
		case !deployed:
			err := fmt.Errorf("%w: %s at %s", contract.ErrNoCode, instance.Name, instance.Address.Hex())
			errs = append(errs, err)
			ux.Logger.RedXToUser("%s", err)
		default:
			ux.Logger.GreenCheckmarkToUser("%s has code at %s", instance.Name, instance.Address.Hex())
		}
	}

	links := record.LinkCalls()
	if len(links) == 0 {
		ux.Logger.PrintToUser("No registry links recorded")
		return errors.Join(errs...)
	}
	chain := orchestrator.NewContractChain(contract.Backend{Client: client}, nil)
	o := orchestrator.New(chain, app.Log, orchestrator.Config{Concurrency: constants.DefaultConcurrency})
	summary := &orchestrator.Summary{Verifications: o.Verify(ctx, instances, links)}
	ux.Logger.PrintToUser("%d of %d links verified", summary.Verified(), len(links))
	errs = append(errs, summary.Err())
	return errors.Join(errs...)
}
