// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package key implements the deployer account keys: raw secp256k1 private keys
// and keys derived from a BIP-39 mnemonic, the way HD wallet providers do.
package key

import (
	"crypto/ecdsa"
	"errors"
	"fmt"
	"strings"

	"github.com/ava-labs/libevm/accounts"
	"github.com/ava-labs/libevm/common"
	"github.com/ava-labs/libevm/crypto"
	"github.com/tyler-smith/go-bip32"
	"github.com/tyler-smith/go-bip39"
)

var (
	ErrInvalidPrivateKey = errors.New("invalid private key")
	ErrInvalidMnemonic   = errors.New("invalid mnemonic")
	ErrNoKeySource       = errors.New("one of private key or mnemonic must be given")

	// hardened indexes derive along a different path than wallets do
	ErrInvalidAddressIndex = errors.New("address index must be below 2^31")
)

// SoftKey is a key held in memory by the CLI
type SoftKey struct {
	privKey *ecdsa.PrivateKey
	address common.Address
}

type SOp struct {
	privKeyEncoded string
	mnemonic       string
	addressIndex   uint32
}

type SOpOption func(*SOp)

func (sop *SOp) applyOpts(opts []SOpOption) {
	for _, opt := range opts {
		opt(sop)
	}
}

// To create a new key from a hex encoded private key, with or without 0x prefix
func WithPrivateKeyEncoded(privKey string) SOpOption {
	return func(sop *SOp) {
		sop.privKeyEncoded = privKey
	}
}

// To derive a new key from a BIP-39 [mnemonic]
func WithMnemonic(mnemonic string) SOpOption {
	return func(sop *SOp) {
		sop.mnemonic = mnemonic
	}
}

// Selects the account index appended to the derivation path. Defaults to 0.
func WithAddressIndex(index uint32) SOpOption {
	return func(sop *SOp) {
		sop.addressIndex = index
	}
}

func NewSoft(opts ...SOpOption) (*SoftKey, error) {
	ret := &SOp{}
	ret.applyOpts(opts)
	var (
		privKey *ecdsa.PrivateKey
		err     error
	)
	switch {
	case ret.privKeyEncoded != "":
		privKey, err = decodePrivateKey(ret.privKeyEncoded)
	case ret.mnemonic != "":
		privKey, err = deriveFromMnemonic(ret.mnemonic, ret.addressIndex)
	default:
		return nil, ErrNoKeySource
	}
	if err != nil {
		return nil, err
	}
	return &SoftKey{
		privKey: privKey,
		address: crypto.PubkeyToAddress(privKey.PublicKey),
	}, nil
}

func (m *SoftKey) Address() common.Address {
	return m.address
}

func (m *SoftKey) PrivKey() *ecdsa.PrivateKey {
	return m.privKey
}

func decodePrivateKey(encoded string) (*ecdsa.PrivateKey, error) {
	encoded = strings.TrimSpace(encoded)
	encoded = strings.TrimPrefix(strings.TrimPrefix(encoded, "0x"), "0X")
	privKey, err := crypto.HexToECDSA(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPrivateKey, err)
	}
	return privKey, nil
}

// derivationPath is the BIP-44 path of account [index]: m/44'/60'/0'/0/[index]
func derivationPath(index uint32) accounts.DerivationPath {
	path := make(accounts.DerivationPath, 0, len(accounts.DefaultRootDerivationPath)+1)
	path = append(path, accounts.DefaultRootDerivationPath...)
	return append(path, index)
}

// deriveFromMnemonic follows BIP-32 from the mnemonic seed along derivationPath([index])
func deriveFromMnemonic(mnemonic string, index uint32) (*ecdsa.PrivateKey, error) {
	if index >= bip32.FirstHardenedChild {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidAddressIndex, index)
	}
	mnemonic = strings.Join(strings.Fields(mnemonic), " ")
	if !bip39.IsMnemonicValid(mnemonic) {
		return nil, ErrInvalidMnemonic
	}
	seed, err := bip39.NewSeedWithErrorChecking(mnemonic, "")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidMnemonic, err)
	}
	k, err := bip32.NewMasterKey(seed)
	if err != nil {
		return nil, err
	}
	path := derivationPath(index)
	for _, n := range path {
		k, err = k.NewChildKey(n)
		if err != nil {
			return nil, fmt.Errorf("failure deriving child key at %s: %w", path, err)
		}
	}
	return crypto.ToECDSA(k.Key)
}
