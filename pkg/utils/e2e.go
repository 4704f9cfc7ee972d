// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package utils

import "os"

// IsE2E checks if the environment variable "RUN_E2E" is set
func IsE2E() bool {
	return os.Getenv("RUN_E2E") != ""
}
