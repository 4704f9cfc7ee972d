// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package networks holds the table of deployment environments, keyed by name,
// each one describing how to reach the chain and which account signs.
package networks

import (
	"errors"
	"fmt"
	"math/big"
	"net"
	"slices"
	"strconv"

	"github.com/ava-labs/libevm/common"
	"github.com/okeydokey/okeydokey-cli/pkg/constants"
	"github.com/spf13/viper"
	"golang.org/x/exp/maps"
)

const (
	developmentHost = "localhost"
	developmentPort = 8546
	developmentFrom = "0x929FFF0071a12d66b9d2A90f8c3A6699551E91e3"
	ropstenURL      = "https://ropsten.infura.io/ynXBPNoUYJ3C4ZDzqjga"
	ropstenID       = "3"
)

var (
	ErrNoEndpoint        = errors.New("network needs either host and port or a provider url")
	ErrAmbiguousEndpoint = errors.New("network can't define both host/port and a provider url")
	ErrInvalidNetworkID  = errors.New("network_id must be '*' or a positive integer")
	ErrInvalidFrom       = errors.New("from is not a valid hex address")
	ErrAmbiguousSigner   = errors.New("provider can't define both mnemonic and private_key")
)

// Provider describes a remote endpoint plus the credentials used to sign locally
type Provider struct {
	URL          string `mapstructure:"url" yaml:"url"`
	Mnemonic     string `mapstructure:"mnemonic" yaml:"mnemonic,omitempty"`
	PrivateKey   string `mapstructure:"private_key" yaml:"private_key,omitempty"`
	AddressIndex uint32 `mapstructure:"address_index" yaml:"address_index,omitempty"`
}

type Network struct {
	Name      string    `mapstructure:"-" yaml:"-"`
	Host      string    `mapstructure:"host" yaml:"host,omitempty"`
	Port      uint16    `mapstructure:"port" yaml:"port,omitempty"`
	NetworkID string    `mapstructure:"network_id" yaml:"network_id"`
	From      string    `mapstructure:"from" yaml:"from,omitempty"`
	Provider  *Provider `mapstructure:"provider" yaml:"provider,omitempty"`
	Gas       uint64    `mapstructure:"gas" yaml:"gas,omitempty"`
	GasPrice  uint64    `mapstructure:"gas_price" yaml:"gas_price,omitempty"`
}

// Defaults returns the networks available without any project configuration
func Defaults() map[string]Network {
	return map[string]Network{
		"development": {
			Name:      "development",
			Host:      developmentHost,
			Port:      developmentPort,
			NetworkID: constants.AnyNetworkID,
			From:      developmentFrom,
		},
		"ropsten": {
			Name:      "ropsten",
			NetworkID: ropstenID,
			Provider: &Provider{
				URL: ropstenURL,
			},
		},
	}
}

// Load builds the networks table: built-in defaults, overridden by name with the
// entries of the [constants.NetworksKey] section of [v].
// Providers without credentials take the mnemonic or private key from the
// environment, if set.
func Load(v *viper.Viper) (map[string]Network, error) {
	nets := Defaults()
	configured := map[string]Network{}
	if v.IsSet(constants.NetworksKey) {
		if err := v.UnmarshalKey(constants.NetworksKey, &configured); err != nil {
			return nil, fmt.Errorf("failure parsing networks table: %w", err)
		}
	}
	for name, n := range configured {
		n.Name = name
		nets[name] = n
	}
	if err := v.BindEnv("mnemonic", constants.MnemonicEnvVar); err != nil {
		return nil, err
	}
	if err := v.BindEnv("private_key", constants.PrivateKeyEnvVar); err != nil {
		return nil, err
	}
	envMnemonic := v.GetString("mnemonic")
	envPrivateKey := v.GetString("private_key")
	for name, n := range nets {
		if n.Provider == nil || n.Provider.Mnemonic != "" || n.Provider.PrivateKey != "" {
			continue
		}
		p := *n.Provider
		switch {
		case envPrivateKey != "":
			p.PrivateKey = envPrivateKey
		case envMnemonic != "":
			p.Mnemonic = envMnemonic
		}
		n.Provider = &p
		nets[name] = n
	}
	for name, n := range nets {
		if err := n.Validate(); err != nil {
			return nil, fmt.Errorf("invalid network %q: %w", name, err)
		}
	}
	return nets, nil
}

// Names returns the sorted network names of [nets]
func Names(nets map[string]Network) []string {
	names := maps.Keys(nets)
	slices.Sort(names)
	return names
}

func Get(nets map[string]Network, name string) (Network, error) {
	n, ok := nets[name]
	if !ok {
		return Network{}, fmt.Errorf("%w: %q (available: %v)", constants.ErrNoNetwork, name, Names(nets))
	}
	return n, nil
}

func (n Network) Validate() error {
	hasHost := n.Host != "" || n.Port != 0
	hasProvider := n.Provider != nil && n.Provider.URL != ""
	switch {
	case hasHost && hasProvider:
		return ErrAmbiguousEndpoint
	case !hasProvider && (n.Host == "" || n.Port == 0):
		return ErrNoEndpoint
	}
	if n.NetworkID != constants.AnyNetworkID {
		if id, err := strconv.ParseUint(n.NetworkID, 10, 64); err != nil || id == 0 {
			return fmt.Errorf("%w: got %q", ErrInvalidNetworkID, n.NetworkID)
		}
	}
	if n.From != "" && !common.IsHexAddress(n.From) {
		return fmt.Errorf("%w: %q", ErrInvalidFrom, n.From)
	}
	if n.Provider != nil && n.Provider.Mnemonic != "" && n.Provider.PrivateKey != "" {
		return ErrAmbiguousSigner
	}
	return nil
}

// RPCURL returns the endpoint to dial
func (n Network) RPCURL() string {
	if n.Provider != nil && n.Provider.URL != "" {
		return n.Provider.URL
	}
	return "http://" + net.JoinHostPort(n.Host, strconv.Itoa(int(n.Port)))
}

// IsPublic indicates the network is pinned to a given id, that is, it's not
// a throwaway development chain
func (n Network) IsPublic() bool {
	return n.NetworkID != constants.AnyNetworkID
}

// MatchesNetworkID checks [id], as reported by the node, against the configured one
func (n Network) MatchesNetworkID(id *big.Int) bool {
	if n.NetworkID == constants.AnyNetworkID {
		return true
	}
	if id == nil {
		return false
	}
	return n.NetworkID == id.String()
}

// FromAddress returns the configured sender, if any
func (n Network) FromAddress() (common.Address, bool) {
	if n.From == "" {
		return common.Address{}, false
	}
	return common.HexToAddress(n.From), true
}

// HasLocalSigner indicates whether transactions are signed by the CLI
// instead of by an account unlocked on the node
func (n Network) HasLocalSigner() bool {
	return n.Provider != nil && (n.Provider.Mnemonic != "" || n.Provider.PrivateKey != "")
}
