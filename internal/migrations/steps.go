// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package migrations

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/okeydokey/okeydokey-cli/pkg/application"
	"github.com/okeydokey/okeydokey-cli/pkg/contract"
	"github.com/okeydokey/okeydokey-cli/pkg/deployments"
	"github.com/okeydokey/okeydokey-cli/pkg/evm"
	"github.com/okeydokey/okeydokey-cli/pkg/keychain"
	"github.com/okeydokey/okeydokey-cli/pkg/orchestrator"
	"github.com/okeydokey/okeydokey-cli/pkg/ux"
	"go.uber.org/zap"
)

var (
	ErrNetworkIDMismatch = errors.New("network id mismatch")
	ErrNotConfirmed      = errors.New("deployment not confirmed")

	getClient = evm.GetClient
	now       = time.Now
)

// connects to the network, checks its id and resolves the sender account
func initialMigration(ctx context.Context, app *application.OkeyDokey, m *Migration, r *migrationRunner) error {
	r.printMigrationMessage()
	ux.Logger.PrintToUser("1_initial_migration")
	network, err := app.GetNetwork(m.Options.Network)
	if err != nil {
		return err
	}
	m.Network = network
	if network.IsPublic() && !m.Options.SkipConfirm {
		if !m.Options.Interactive {
			return fmt.Errorf("%w: %s is a public network, use --yes to deploy without a prompt", ErrNotConfirmed, network.Name)
		}
		yes, err := app.Prompt.CaptureNoYes(fmt.Sprintf("Deploy to public network %s (network id %s)?", network.Name, network.NetworkID))
		if err != nil {
			return err
		}
		if !yes {
			return ErrNotConfirmed
		}
	}
	m.Client, err = getClient(ctx, network.RPCURL())
	if err != nil {
		return err
	}
	networkID, err := m.Client.GetNetworkID(ctx)
	if err != nil {
		return err
	}
	if !network.MatchesNetworkID(networkID) {
		return fmt.Errorf("%w: %s expects %s, node at %s reports %s", ErrNetworkIDMismatch, network.Name, network.NetworkID, m.Client.URL, networkID)
	}
	m.ChainID, err = m.Client.GetChainID(ctx)
	if err != nil {
		return err
	}
	var prompter keychain.MnemonicPrompter
	if m.Options.Interactive {
		prompter = app.Prompt
	}
	m.Keychain, err = keychain.GetKeychainFromCmdLineFlags(ctx, m.Client, network, m.Options.Keys, prompter)
	if err != nil {
		return err
	}
	balance, err := m.Client.GetAddressBalance(ctx, m.Keychain.Address())
	if err != nil {
		return err
	}
	app.Log.Info("connected",
		zap.String("network", network.Name),
		zap.String("url", m.Client.URL),
		zap.String("chainID", m.ChainID.String()),
		zap.String("from", m.Keychain.Address().Hex()),
	)
	ux.Logger.GreenCheckmarkToUser("Connected to %s (network id %s, chain id %s)", network.Name, networkID, m.ChainID)
	ux.Logger.PrintToUser("Deploying from %s (%s), balance %s wei", m.Keychain.Address().Hex(), m.Keychain.Source, balance)
	return nil
}

// runs the plan and writes the deployment record of the network
func deployContracts(ctx context.Context, app *application.OkeyDokey, m *Migration, r *migrationRunner) error {
	r.printMigrationMessage()
	ux.Logger.PrintToUser("2_deploy_contracts")
	p, err := app.LoadPlan(m.Options.PlanPath)
	if err != nil {
		return err
	}
	artifacts, err := app.Artifacts(m.Options.ArtifactsDir).LoadAll(p.Names())
	if err != nil {
		return err
	}
	chain := orchestrator.NewContractChain(contract.Backend{Client: m.Client, Sender: m.Keychain.Sender}, artifacts)
	o := orchestrator.New(chain, app.Log, orchestrator.Config{
		Concurrency: m.Options.Concurrency,
		FailFast:    m.Options.FailFast,
		SkipVerify:  m.Options.SkipVerify,
		Spinners:    m.Options.Interactive,
	})
	m.Summary, err = o.Run(ctx, p)
	if err != nil {
		return err
	}
	m.Record = deployments.NewRecord(m.Network.Name, m.ChainID.Uint64(), m.Keychain.Address(), now(), m.Summary, chain)
	if err := app.Deployments().Save(m.Record); err != nil {
		return err
	}
	ux.Logger.PrintToUser("Deployment record written to %s", app.GetDeploymentPath(m.Network.Name))
	if m.Summary.Aborted {
		ux.Logger.PrintToUser("Run aborted after the first failed phase (--fail-fast)")
	}
	return m.Summary.Err()
}
