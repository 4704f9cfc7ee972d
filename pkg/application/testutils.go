// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package application

import (
	"testing"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/okeydokey/okeydokey-cli/pkg/config"
	"github.com/spf13/afero"
)

// NewTestApp returns an app over an in memory filesystem
func NewTestApp(t *testing.T) *OkeyDokey {
	return &OkeyDokey{
		baseDir: t.TempDir(),
		Log:     logging.NoLog{},
		Conf:    config.New(),
		Fs:      afero.NewMemMapFs(),
	}
}
