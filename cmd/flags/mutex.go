// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package flags

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// EnsureMutuallyExclusive fails if more than one of the flags [names] was
// set on the command line
func EnsureMutuallyExclusive(cmd *cobra.Command, names ...string) error {
	set := []string{}
	for _, name := range names {
		if cmd.Flags().Changed(name) {
			set = append(set, "--"+name)
		}
	}
	if len(set) > 1 {
		return fmt.Errorf("flags %s are mutually exclusive", strings.Join(set, ", "))
	}
	return nil
}
