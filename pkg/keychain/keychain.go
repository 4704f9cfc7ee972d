// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package keychain decides which account signs the migration transactions
// of a network, out of the command line flags and the network configuration.
package keychain

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ava-labs/libevm/common"
	"github.com/okeydokey/okeydokey-cli/pkg/constants"
	"github.com/okeydokey/okeydokey-cli/pkg/evm"
	"github.com/okeydokey/okeydokey-cli/pkg/key"
	"github.com/okeydokey/okeydokey-cli/pkg/networks"
	"github.com/tyler-smith/go-bip32"
)

const (
	// NoMnemonicIndex marks the --mnemonic-index flag as not given
	NoMnemonicIndex = -1

	privateKeyFlagSource = "--private-key"
)

var (
	ErrMutuallyExclusiveKeySource = errors.New("key source flags --private-key and --mnemonic-index are mutually exclusive")
	ErrIndexWithoutMnemonic       = errors.New("--mnemonic-index needs a network with a provider mnemonic")
	ErrFromMismatch               = errors.New("configured from address does not match the signing key")
)

// MnemonicPrompter asks the user for a missing mnemonic
type MnemonicPrompter interface {
	CaptureMnemonic(promptStr string) (string, error)
}

type Flags struct {
	PrivateKey    string
	MnemonicIndex int
}

type Keychain struct {
	Sender evm.Sender
	// human readable description of where the signing account comes from
	Source string
}

func (kc *Keychain) Address() common.Address {
	return kc.Sender.Address()
}

// FeeConfig returns the gas settings of [network]
func FeeConfig(network networks.Network) evm.FeeConfig {
	fees := evm.FeeConfig{Gas: network.Gas}
	if network.GasPrice != 0 {
		fees.GasPrice = new(big.Int).SetUint64(network.GasPrice)
	}
	return fees
}

// GetKeychainFromCmdLineFlags resolves the signing account, by priority:
//   - --private-key
//   - provider private_key
//   - provider mnemonic (prompted for if missing and [prompter] is given), at
//     --mnemonic-index or provider address_index
//   - from, unlocked on the node
//   - the first account of the node
func GetKeychainFromCmdLineFlags(
	ctx context.Context,
	client evm.Client,
	network networks.Network,
	flags Flags,
	prompter MnemonicPrompter,
) (*Keychain, error) {
	if flags.PrivateKey != "" && flags.MnemonicIndex != NoMnemonicIndex {
		return nil, ErrMutuallyExclusiveKeySource
	}
	fees := FeeConfig(network)
	var (
		k      *key.SoftKey
		source string
		err    error
	)
	switch {
	case flags.PrivateKey != "":
		k, err = key.NewSoft(key.WithPrivateKeyEncoded(flags.PrivateKey))
		source = privateKeyFlagSource
	case network.Provider != nil && network.Provider.PrivateKey != "":
		k, err = key.NewSoft(key.WithPrivateKeyEncoded(network.Provider.PrivateKey))
		source = "provider private key"
	case network.Provider != nil:
		k, source, err = fromMnemonic(network, flags, prompter)
	default:
		if flags.MnemonicIndex != NoMnemonicIndex {
			return nil, ErrIndexWithoutMnemonic
		}
		return nodeKeychain(ctx, client, network, fees)
	}
	if err != nil {
		return nil, err
	}
	// an explicit --private-key overrides the configured from
	if from, ok := network.FromAddress(); ok && source != privateKeyFlagSource && from != k.Address() {
		return nil, fmt.Errorf("%w: from is %s, key address is %s", ErrFromMismatch, from.Hex(), k.Address().Hex())
	}
	sender, err := evm.NewKeyedSender(ctx, client, k.PrivKey(), fees)
	if err != nil {
		return nil, err
	}
	return &Keychain{Sender: sender, Source: source}, nil
}

func fromMnemonic(
	network networks.Network,
	flags Flags,
	prompter MnemonicPrompter,
) (*key.SoftKey, string, error) {
	mnemonic := network.Provider.Mnemonic
	if mnemonic == "" {
		if prompter == nil {
			return nil, "", fmt.Errorf(
				"%w: network %s needs a mnemonic, set provider.mnemonic or %s",
				constants.ErrNoSignerConfig,
				network.Name,
				constants.MnemonicEnvVar,
			)
		}
		var err error
		mnemonic, err = prompter.CaptureMnemonic(fmt.Sprintf("Enter the mnemonic of the %s deployer account", network.Name))
		if err != nil {
			return nil, "", err
		}
	}
	index := network.Provider.AddressIndex
	if flags.MnemonicIndex != NoMnemonicIndex {
		if flags.MnemonicIndex < 0 || int64(flags.MnemonicIndex) >= int64(bip32.FirstHardenedChild) {
			return nil, "", fmt.Errorf("%w: --mnemonic-index %d", key.ErrInvalidAddressIndex, flags.MnemonicIndex)
		}
		index = uint32(flags.MnemonicIndex)
	} else if index >= bip32.FirstHardenedChild {
		return nil, "", fmt.Errorf("%w: network %s address_index %d", key.ErrInvalidAddressIndex, network.Name, index)
	}
	k, err := key.NewSoft(key.WithMnemonic(mnemonic), key.WithAddressIndex(index))
	return k, fmt.Sprintf("mnemonic index %d", index), err
}

func nodeKeychain(
	ctx context.Context,
	client evm.Client,
	network networks.Network,
	fees evm.FeeConfig,
) (*Keychain, error) {
	if from, ok := network.FromAddress(); ok {
		return &Keychain{Sender: evm.NewNodeSender(client, from, fees), Source: "node account (from)"}, nil
	}
	accounts, err := client.GetAccounts(ctx)
	if err != nil {
		return nil, err
	}
	if len(accounts) == 0 {
		return nil, fmt.Errorf("%w: network %s has no from and the node manages no accounts", constants.ErrNoSignerConfig, network.Name)
	}
	return &Keychain{Sender: evm.NewNodeSender(client, accounts[0], fees), Source: "node account #0"}, nil
}
