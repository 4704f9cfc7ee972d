// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package migrations

import (
	"context"
	"fmt"
	"math/big"

	"github.com/okeydokey/okeydokey-cli/pkg/application"
	"github.com/okeydokey/okeydokey-cli/pkg/deployments"
	"github.com/okeydokey/okeydokey-cli/pkg/evm"
	"github.com/okeydokey/okeydokey-cli/pkg/keychain"
	"github.com/okeydokey/okeydokey-cli/pkg/networks"
	"github.com/okeydokey/okeydokey-cli/pkg/orchestrator"
	"github.com/okeydokey/okeydokey-cli/pkg/ux"
)

type migrationFunc func(context.Context, *application.OkeyDokey, *Migration, *migrationRunner) error

type migrationRunner struct {
	showMsg    bool
	running    bool
	migrations map[int]migrationFunc
}

var (
	runMessage       = "Running migrations..."
	endMessage       = "Migrations successfully completed"
	failedEndMessage = "Sadly some migrations succeeded - others failed. Check output for hints"
)

// Options are the settings of a migration run
type Options struct {
	Network      string
	PlanPath     string
	ArtifactsDir string
	Keys         keychain.Flags
	Concurrency  int
	FailFast     bool
	SkipVerify   bool
	// don't ask for confirmation before deploying to a public network
	SkipConfirm bool
	// prompts and spinners are allowed
	Interactive bool
}

// Migration is the state shared by the migration steps of a run
type Migration struct {
	Options  Options
	Network  networks.Network
	Client   evm.Client
	ChainID  *big.Int
	Keychain *keychain.Keychain
	Summary  *orchestrator.Summary
	Record   *deployments.Record
}

// Close releases the network connection, if any
func (m *Migration) Close() {
	if m.Client.EthClient != nil {
		m.Client.Close()
	}
}

// poor-man's migrations: there are no rollbacks, and every run redeploys
func RunMigrations(ctx context.Context, app *application.OkeyDokey, opts Options) (*Migration, error) {
	runner := &migrationRunner{
		showMsg: true,
		migrations: map[int]migrationFunc{
			// add new migrations here in rising index order
			// next one is 2
			0: initialMigration,
			1: deployContracts,
		},
	}
	m := &Migration{Options: opts}
	return m, runner.run(ctx, app, m)
}

func (r *migrationRunner) run(ctx context.Context, app *application.OkeyDokey, m *Migration) error {
	// by using an int index we can sort of "enforce" an order
	// with just an array it could easily happen that someone
	// prepends a new migration at the front instead of the bottom
	for i := 0; i < len(r.migrations); i++ {
		err := r.migrations[i](ctx, app, m, r)
		if err != nil {
			if r.running {
				ux.Logger.PrintToUser(failedEndMessage)
			}
			return fmt.Errorf("migration #%d failed: %w", i, err)
		}
	}
	if r.running {
		ux.Logger.PrintToUser(endMessage)
		r.running = false
	}
	return nil
}

// Every migration should run this function before doing any work,
// to print the run message only once
func (r *migrationRunner) printMigrationMessage() {
	if r.showMsg {
		ux.Logger.PrintToUser(runMessage)
	}
	r.showMsg = false
	r.running = true
}
