// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package networks

import (
	"bytes"
	"math/big"
	"testing"

	"github.com/okeydokey/okeydokey-cli/pkg/constants"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func newViper(t *testing.T, yamlConfig string) *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(bytes.NewBufferString(yamlConfig)))
	return v
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv(constants.MnemonicEnvVar, "")
	t.Setenv(constants.PrivateKeyEnvVar, "")
	nets, err := Load(viper.New())
	require.NoError(t, err)
	require.Equal(t, []string{"development", "ropsten"}, Names(nets))

	dev, err := Get(nets, "development")
	require.NoError(t, err)
	require.Equal(t, "http://localhost:8546", dev.RPCURL())
	require.False(t, dev.IsPublic())
	from, ok := dev.FromAddress()
	require.True(t, ok)
	require.Equal(t, "0x929FFF0071a12d66b9d2A90f8c3A6699551E91e3", from.Hex())
	require.False(t, dev.HasLocalSigner())

	ropsten, err := Get(nets, "ropsten")
	require.NoError(t, err)
	require.True(t, ropsten.IsPublic())
	require.Equal(t, "https://ropsten.infura.io/ynXBPNoUYJ3C4ZDzqjga", ropsten.RPCURL())
	require.False(t, ropsten.HasLocalSigner())
}

func TestLoadMnemonicFromEnv(t *testing.T) {
	t.Setenv(constants.MnemonicEnvVar, "test test test test test test test test test test test junk")
	t.Setenv(constants.PrivateKeyEnvVar, "")
	nets, err := Load(viper.New())
	require.NoError(t, err)
	ropsten := nets["ropsten"]
	require.True(t, ropsten.HasLocalSigner())
	require.Equal(t, "test test test test test test test test test test test junk", ropsten.Provider.Mnemonic)
	// defaults are not mutated
	require.Empty(t, Defaults()["ropsten"].Provider.Mnemonic)
}

func TestLoadConfigured(t *testing.T) {
	t.Setenv(constants.MnemonicEnvVar, "")
	t.Setenv(constants.PrivateKeyEnvVar, "")
	v := newViper(t, `
networks:
  development:
    host: 127.0.0.1
    port: 7545
    network_id: 5777
    gas: 6721975
    gas_price: 20000000000
  fuji:
    network_id: 43113
    provider:
      url: https://api.avax-test.network/ext/bc/C/rpc
      private_key: 56289e99c94b6912bfc12adc093c9b51124f0dc54ac7a766b2bc5ccf558d8027
`)
	nets, err := Load(v)
	require.NoError(t, err)
	require.Equal(t, []string{"development", "fuji", "ropsten"}, Names(nets))
	dev := nets["development"]
	require.Equal(t, "development", dev.Name)
	require.Equal(t, "http://127.0.0.1:7545", dev.RPCURL())
	require.Equal(t, "5777", dev.NetworkID)
	require.Equal(t, uint64(6721975), dev.Gas)
	require.Equal(t, uint64(20000000000), dev.GasPrice)
	require.True(t, dev.IsPublic())
	fuji := nets["fuji"]
	require.True(t, fuji.HasLocalSigner())
	require.True(t, fuji.MatchesNetworkID(big.NewInt(43113)))
	require.False(t, fuji.MatchesNetworkID(big.NewInt(1)))
}

func TestLoadInvalid(t *testing.T) {
	v := newViper(t, `
networks:
  broken:
    host: localhost
    network_id: "*"
`)
	_, err := Load(v)
	require.ErrorIs(t, err, ErrNoEndpoint)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		network Network
		err     error
	}{
		{
			name:    "host and port",
			network: Network{Host: "localhost", Port: 8545, NetworkID: "*"},
		},
		{
			name:    "both endpoints",
			network: Network{Host: "localhost", Port: 8545, NetworkID: "*", Provider: &Provider{URL: "http://x"}},
			err:     ErrAmbiguousEndpoint,
		},
		{
			name:    "no endpoint",
			network: Network{NetworkID: "*"},
			err:     ErrNoEndpoint,
		},
		{
			name:    "bad network id",
			network: Network{Host: "localhost", Port: 8545, NetworkID: "ropsten"},
			err:     ErrInvalidNetworkID,
		},
		{
			name:    "zero network id",
			network: Network{Host: "localhost", Port: 8545, NetworkID: "0"},
			err:     ErrInvalidNetworkID,
		},
		{
			name:    "bad from",
			network: Network{Host: "localhost", Port: 8545, NetworkID: "*", From: "0x12"},
			err:     ErrInvalidFrom,
		},
		{
			name: "two signers",
			network: Network{NetworkID: "3", Provider: &Provider{
				URL:        "http://x",
				Mnemonic:   "a b c",
				PrivateKey: "01",
			}},
			err: ErrAmbiguousSigner,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.network.Validate()
			if tt.err == nil {
				require.NoError(t, err)
			} else {
				require.ErrorIs(t, err, tt.err)
			}
		})
	}
}

func TestGetUnknown(t *testing.T) {
	_, err := Get(Defaults(), "mainnet")
	require.ErrorIs(t, err, constants.ErrNoNetwork)
	require.ErrorContains(t, err, "development")
}

func TestMatchesAnyNetworkID(t *testing.T) {
	n := Defaults()["development"]
	require.True(t, n.MatchesNetworkID(big.NewInt(1337)))
	require.True(t, n.MatchesNetworkID(nil))
}
