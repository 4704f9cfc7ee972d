// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package main

import (
	"github.com/okeydokey/okeydokey-cli/cmd"
)

func main() {
	cmd.Execute()
}
