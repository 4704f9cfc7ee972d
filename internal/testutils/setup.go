// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package testutils

import (
	"bytes"
	"io"
	"testing"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/okeydokey/okeydokey-cli/pkg/application"
	"github.com/okeydokey/okeydokey-cli/pkg/config"
	"github.com/okeydokey/okeydokey-cli/pkg/prompts"
	"github.com/okeydokey/okeydokey-cli/pkg/ux"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

func SetupTest(t *testing.T) *require.Assertions {
	// use io.Discard to not print anything
	ux.NewUserLog(logging.NoLog{}, io.Discard)
	return require.New(t)
}

// SetupTestWithOutput captures what is printed to the user
func SetupTestWithOutput(t *testing.T) (*require.Assertions, *bytes.Buffer) {
	out := &bytes.Buffer{}
	ux.NewUserLog(logging.NoLog{}, out)
	return require.New(t), out
}

// SetupTestInTempDir returns an app with its base dir in a temp dir and
// an in memory filesystem
func SetupTestInTempDir(t *testing.T, prompter prompts.Prompter) *application.OkeyDokey {
	testDir := t.TempDir()

	app := application.New()
	app.Setup(testDir, logging.NoLog{}, config.New(), prompter, afero.NewMemMapFs())
	return app
}
