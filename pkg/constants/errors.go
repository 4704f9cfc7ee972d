// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package constants

import "errors"

var (
	ErrNoNetwork       = errors.New("network not found in the networks table")
	ErrNoSignerConfig  = errors.New("no signing account could be resolved for the network")
	ErrUnknownArtifact = errors.New("unknown artifact")
)
