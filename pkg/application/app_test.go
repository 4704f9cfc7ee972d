// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package application

import (
	"path/filepath"
	"testing"

	"github.com/okeydokey/okeydokey-cli/pkg/constants"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaths(t *testing.T) {
	assert := assert.New(t)
	app := NewTestApp(t)
	assert.Equal(filepath.Join(app.GetBaseDir(), constants.LogDir), app.GetLogDir())
	assert.Equal(filepath.Join(app.GetBaseDir(), constants.DeploymentsDir), app.GetDeploymentsDir())
	assert.Equal(
		filepath.Join(app.GetBaseDir(), constants.DeploymentsDir, "ropsten"+constants.DeploymentSuffix),
		app.GetDeploymentPath("ropsten"),
	)
	assert.Equal(constants.DefaultArtifactsDir, app.Artifacts("").Dir)
	assert.Equal("out", app.Artifacts("out").Dir)
}

func TestLoadPlan(t *testing.T) {
	app := NewTestApp(t)
	p, err := app.LoadPlan("")
	require.NoError(t, err)
	require.Len(t, p.Artifacts, 6)

	require.NoError(t, afero.WriteFile(app.Fs, "plan.yaml", []byte("artifacts: [{name: Houses}]"), 0o644))
	p, err = app.LoadPlan("plan.yaml")
	require.NoError(t, err)
	require.Equal(t, []string{"Houses"}, p.Names())
}

func TestGetNetwork(t *testing.T) {
	app := NewTestApp(t)
	n, err := app.GetNetwork(constants.DefaultNetwork)
	require.NoError(t, err)
	require.Equal(t, "http://localhost:8546", n.RPCURL())

	_, err = app.GetNetwork("mainnet")
	require.ErrorIs(t, err, constants.ErrNoNetwork)
}
