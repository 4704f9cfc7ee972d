// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package keychain

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ava-labs/libevm/common"
	"github.com/okeydokey/okeydokey-cli/pkg/constants"
	"github.com/okeydokey/okeydokey-cli/pkg/evm"
	"github.com/okeydokey/okeydokey-cli/pkg/evm/mocks"
	"github.com/okeydokey/okeydokey-cli/pkg/key"
	"github.com/okeydokey/okeydokey-cli/pkg/networks"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const (
	ewoqPrivateKey = "0x56289e99c94b6912bfc12adc093c9b51124f0dc54ac7a766b2bc5ccf558d8027"
	ewoqAddress    = "0x8db97C7cEcE249c2b98bDC0226Cc4C2A57BF52FC"
	testMnemonic   = "test test test test test test test test test test test junk"
	testAddress0   = "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"
	testAddress1   = "0x70997970C51812dc3A010C7d01b50e0d17dc79C8"
)

type mnemonicPrompter struct {
	mnemonic string
	err      error
	asked    int
}

func (p *mnemonicPrompter) CaptureMnemonic(string) (string, error) {
	p.asked++
	return p.mnemonic, p.err
}

func newClient(t *testing.T) (evm.Client, *mocks.MockEthClient, *mocks.MockRPCCaller) {
	ctrl := gomock.NewController(t)
	eth := mocks.NewMockEthClient(ctrl)
	rpc := mocks.NewMockRPCCaller(ctrl)
	return evm.Client{EthClient: eth, RPC: rpc, URL: "http://localhost:8546"}, eth, rpc
}

func ropsten(mnemonic string) networks.Network {
	return networks.Network{
		Name:      "ropsten",
		NetworkID: "3",
		Provider:  &networks.Provider{URL: "https://ropsten.example", Mnemonic: mnemonic},
	}
}

func TestKeyedSources(t *testing.T) {
	tests := []struct {
		name     string
		network  networks.Network
		flags    Flags
		prompter *mnemonicPrompter
		address  string
		source   string
		asked    int
	}{
		{
			name:    "private key flag",
			network: networks.Defaults()["development"],
			flags:   Flags{PrivateKey: ewoqPrivateKey, MnemonicIndex: NoMnemonicIndex},
			address: ewoqAddress,
			source:  "--private-key",
		},
		{
			name: "provider private key",
			network: networks.Network{
				Name:      "fuji",
				NetworkID: "43113",
				Provider:  &networks.Provider{URL: "https://fuji.example", PrivateKey: ewoqPrivateKey},
			},
			flags:   Flags{MnemonicIndex: NoMnemonicIndex},
			address: ewoqAddress,
			source:  "provider private key",
		},
		{
			name:    "provider mnemonic",
			network: ropsten(testMnemonic),
			flags:   Flags{MnemonicIndex: NoMnemonicIndex},
			address: testAddress0,
			source:  "mnemonic index 0",
		},
		{
			name:    "mnemonic index flag",
			network: ropsten(testMnemonic),
			flags:   Flags{MnemonicIndex: 1},
			address: testAddress1,
			source:  "mnemonic index 1",
		},
		{
			name:     "prompted mnemonic",
			network:  ropsten(""),
			flags:    Flags{MnemonicIndex: NoMnemonicIndex},
			prompter: &mnemonicPrompter{mnemonic: testMnemonic},
			address:  testAddress0,
			source:   "mnemonic index 0",
			asked:    1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, eth, _ := newClient(t)
			eth.EXPECT().ChainID(gomock.Any()).Return(big.NewInt(3), nil)
			var prompter MnemonicPrompter
			if tt.prompter != nil {
				prompter = tt.prompter
			}
			kc, err := GetKeychainFromCmdLineFlags(context.Background(), client, tt.network, tt.flags, prompter)
			require.NoError(t, err)
			require.Equal(t, tt.address, kc.Address().Hex())
			require.Equal(t, tt.source, kc.Source)
			_, keyed := kc.Sender.(*evm.KeyedSender)
			require.True(t, keyed)
			if tt.prompter != nil {
				require.Equal(t, tt.asked, tt.prompter.asked)
			}
		})
	}
}

func TestNodeAccounts(t *testing.T) {
	client, _, rpc := newClient(t)
	kc, err := GetKeychainFromCmdLineFlags(
		context.Background(),
		client,
		networks.Defaults()["development"],
		Flags{MnemonicIndex: NoMnemonicIndex},
		nil,
	)
	require.NoError(t, err)
	require.Equal(t, "0x929FFF0071a12d66b9d2A90f8c3A6699551E91e3", kc.Address().Hex())
	_, node := kc.Sender.(*evm.NodeSender)
	require.True(t, node)

	first := common.HexToAddress("0x0000000000000000000000000000000000000abc")
	rpc.EXPECT().CallContext(gomock.Any(), gomock.Any(), "eth_accounts").
		DoAndReturn(func(_ context.Context, result interface{}, _ string, _ ...interface{}) error {
			*(result.(*[]common.Address)) = []common.Address{first}
			return nil
		})
	local := networks.Network{Name: "local", Host: "127.0.0.1", Port: 8545, NetworkID: "*"}
	kc, err = GetKeychainFromCmdLineFlags(context.Background(), client, local, Flags{MnemonicIndex: NoMnemonicIndex}, nil)
	require.NoError(t, err)
	require.Equal(t, first, kc.Address())
	require.Equal(t, "node account #0", kc.Source)

	rpc.EXPECT().CallContext(gomock.Any(), gomock.Any(), "eth_accounts").Return(nil)
	_, err = GetKeychainFromCmdLineFlags(context.Background(), client, local, Flags{MnemonicIndex: NoMnemonicIndex}, nil)
	require.ErrorIs(t, err, constants.ErrNoSignerConfig)
}

func TestKeychainErrors(t *testing.T) {
	client, _, _ := newClient(t)
	ctx := context.Background()

	_, err := GetKeychainFromCmdLineFlags(ctx, client, ropsten(testMnemonic), Flags{PrivateKey: ewoqPrivateKey, MnemonicIndex: 0}, nil)
	require.ErrorIs(t, err, ErrMutuallyExclusiveKeySource)

	_, err = GetKeychainFromCmdLineFlags(ctx, client, networks.Defaults()["development"], Flags{MnemonicIndex: 2}, nil)
	require.ErrorIs(t, err, ErrIndexWithoutMnemonic)

	_, err = GetKeychainFromCmdLineFlags(ctx, client, ropsten(""), Flags{MnemonicIndex: NoMnemonicIndex}, nil)
	require.ErrorIs(t, err, constants.ErrNoSignerConfig)

	prompter := &mnemonicPrompter{err: errors.New("^C")}
	_, err = GetKeychainFromCmdLineFlags(ctx, client, ropsten(""), Flags{MnemonicIndex: NoMnemonicIndex}, prompter)
	require.ErrorContains(t, err, "^C")

	mismatch := ropsten(testMnemonic)
	mismatch.From = ewoqAddress
	_, err = GetKeychainFromCmdLineFlags(ctx, client, mismatch, Flags{MnemonicIndex: NoMnemonicIndex}, nil)
	require.ErrorIs(t, err, ErrFromMismatch)

	_, err = GetKeychainFromCmdLineFlags(ctx, client, ropsten(testMnemonic), Flags{MnemonicIndex: 1 << 31}, nil)
	require.ErrorIs(t, err, key.ErrInvalidAddressIndex)

	_, err = GetKeychainFromCmdLineFlags(ctx, client, ropsten(testMnemonic), Flags{MnemonicIndex: 1<<32 + 1}, nil)
	require.ErrorIs(t, err, key.ErrInvalidAddressIndex)

	hardened := ropsten(testMnemonic)
	hardened.Provider.AddressIndex = 1 << 31
	_, err = GetKeychainFromCmdLineFlags(ctx, client, hardened, Flags{MnemonicIndex: NoMnemonicIndex}, nil)
	require.ErrorIs(t, err, key.ErrInvalidAddressIndex)
}

func TestPrivateKeyFlagOverridesFrom(t *testing.T) {
	client, eth, _ := newClient(t)
	eth.EXPECT().ChainID(gomock.Any()).Return(big.NewInt(3), nil)
	network := ropsten(testMnemonic)
	network.From = testAddress0
	kc, err := GetKeychainFromCmdLineFlags(
		context.Background(),
		client,
		network,
		Flags{PrivateKey: ewoqPrivateKey, MnemonicIndex: NoMnemonicIndex},
		nil,
	)
	require.NoError(t, err)
	require.Equal(t, ewoqAddress, kc.Address().Hex())
}

func TestFeeConfig(t *testing.T) {
	require.Equal(t, evm.FeeConfig{}, FeeConfig(networks.Network{}))
	fees := FeeConfig(networks.Network{Gas: 6_721_975, GasPrice: 20_000_000_000})
	require.Equal(t, uint64(6_721_975), fees.Gas)
	require.Equal(t, big.NewInt(20_000_000_000), fees.GasPrice)
}
