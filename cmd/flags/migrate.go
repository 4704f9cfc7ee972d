// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package flags

import (
	"github.com/okeydokey/okeydokey-cli/pkg/constants"
	"github.com/okeydokey/okeydokey-cli/pkg/keychain"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const (
	PrivateKeyFlag    = "private-key"
	MnemonicIndexFlag = "mnemonic-index"
	ConcurrencyFlag   = "concurrency"
	FailFastFlag      = "fail-fast"
	SkipVerifyFlag    = "skip-verify"
)

type RunFlags struct {
	Concurrency int
	FailFast    bool
	SkipVerify  bool
}

// AddSignerFlags registers the flags choosing the deployer account
func AddSignerFlags(cmd *cobra.Command, keys *keychain.Flags) GroupedFlags {
	return RegisterFlagGroup(cmd, "Signer Flags", "show-signer-flags", true, func(set *pflag.FlagSet) {
		set.StringVar(&keys.PrivateKey, PrivateKeyFlag, "", "hex private key of the deployer account")
		set.IntVar(
			&keys.MnemonicIndex,
			MnemonicIndexFlag,
			keychain.NoMnemonicIndex,
			"derive the deployer account from the network mnemonic at this index",
		)
	})
}

// AddRunFlags registers the flags tuning how the migration batches run
func AddRunFlags(cmd *cobra.Command, run *RunFlags) GroupedFlags {
	return RegisterFlagGroup(cmd, "Run Flags", "show-run-flags", false, func(set *pflag.FlagSet) {
		set.IntVar(&run.Concurrency, ConcurrencyFlag, constants.DefaultConcurrency, "max number of in flight transactions per batch")
		set.BoolVar(&run.FailFast, FailFastFlag, false, "stop after the first batch with a failed required step")
		set.BoolVar(&run.SkipVerify, SkipVerifyFlag, false, "do not read the registry links back")
	})
}
