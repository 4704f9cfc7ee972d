// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package prompts

import (
	"errors"
	"strings"

	"github.com/tyler-smith/go-bip39"
)

func validateMnemonic(input string) error {
	if !bip39.IsMnemonicValid(normalizeMnemonic(input)) {
		return errors.New("invalid mnemonic")
	}
	return nil
}

func normalizeMnemonic(input string) string {
	return strings.Join(strings.Fields(input), " ")
}
