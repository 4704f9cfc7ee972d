// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package evm

import (
	"fmt"

	"github.com/ava-labs/libevm/common"
	"github.com/ava-labs/libevm/crypto"
)

// transform a tx operation error into an error that contains:
// - the [err] itself
// - the [txHash] (or information on the tx not being submitted)
// - another descriptive [msg], together with formated [args]
func TransactionError(txHash *common.Hash, err error, msg string, args ...interface{}) error {
	msgSuffix := ": %w"
	if txHash != nil {
		msgSuffix += fmt.Sprintf(" (txHash=%s)", txHash.String())
	} else {
		msgSuffix += " (tx failed to be submitted)"
	}
	args = append(args, err)
	return fmt.Errorf(msg+msgSuffix, args...)
}

// returns the public address associated with [privateKey]
func PrivateKeyToAddress(privateKey string) (common.Address, error) {
	pk, err := crypto.HexToECDSA(privateKey)
	if err != nil {
		return common.Address{}, err
	}
	return crypto.PubkeyToAddress(pk.PublicKey), nil
}
