// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package application

import (
	"path/filepath"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/okeydokey/okeydokey-cli/pkg/artifact"
	"github.com/okeydokey/okeydokey-cli/pkg/config"
	"github.com/okeydokey/okeydokey-cli/pkg/constants"
	"github.com/okeydokey/okeydokey-cli/pkg/deployments"
	"github.com/okeydokey/okeydokey-cli/pkg/networks"
	"github.com/okeydokey/okeydokey-cli/pkg/plan"
	"github.com/okeydokey/okeydokey-cli/pkg/prompts"
	"github.com/spf13/afero"
)

type OkeyDokey struct {
	Log     logging.Logger
	baseDir string
	Conf    *config.Config
	Prompt  prompts.Prompter
	Fs      afero.Fs
}

func New() *OkeyDokey {
	return &OkeyDokey{}
}

func (app *OkeyDokey) Setup(
	baseDir string,
	log logging.Logger,
	conf *config.Config,
	prompt prompts.Prompter,
	fs afero.Fs,
) {
	app.baseDir = baseDir
	app.Log = log
	app.Conf = conf
	app.Prompt = prompt
	app.Fs = fs
}

func (app *OkeyDokey) GetBaseDir() string {
	return app.baseDir
}

func (app *OkeyDokey) GetLogDir() string {
	return filepath.Join(app.baseDir, constants.LogDir)
}

func (app *OkeyDokey) GetDeploymentsDir() string {
	return filepath.Join(app.baseDir, constants.DeploymentsDir)
}

func (app *OkeyDokey) GetDeploymentPath(network string) string {
	return app.Deployments().Path(network)
}

// Deployments gives access to the per network deployment records
func (app *OkeyDokey) Deployments() deployments.Store {
	return deployments.NewStore(app.Fs, app.GetDeploymentsDir())
}

// Artifacts returns a loader for the compiled contracts at [dir]
func (app *OkeyDokey) Artifacts(dir string) artifact.Loader {
	if dir == "" {
		dir = constants.DefaultArtifactsDir
	}
	return artifact.NewLoader(app.Fs, dir)
}

// LoadPlan reads the plan at [path], or returns the built-in one if [path] is empty
func (app *OkeyDokey) LoadPlan(path string) (*plan.Plan, error) {
	if path == "" {
		return plan.Default()
	}
	return plan.Load(app.Fs, path)
}

// GetNetworks returns the networks table, built-in entries merged with
// the project configuration ones
func (app *OkeyDokey) GetNetworks() (map[string]networks.Network, error) {
	return networks.Load(app.Conf.Project())
}

func (app *OkeyDokey) GetNetwork(name string) (networks.Network, error) {
	nets, err := app.GetNetworks()
	if err != nil {
		return networks.Network{}, err
	}
	return networks.Get(nets, name)
}
